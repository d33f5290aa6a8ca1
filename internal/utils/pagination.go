package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openkpi/kpi-manager-api/internal/constants"
)

// PaginationParams holds the pagination parameters extracted from a request.
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// GetPaginationParams extracts and clamps pagination parameters. The page
// size defaults to 20 and is capped at 1000 via the page_size override.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPage)))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPage {
		page = constants.MinPage
	}
	if size < 1 {
		size = constants.DefaultPageSize
	}
	if size > constants.MaxPageSize {
		size = constants.MaxPageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: size,
		Offset:   (page - 1) * size,
	}
}
