package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openkpi/kpi-manager-api/internal/services"
	"github.com/openkpi/kpi-manager-api/internal/utils"
)

// DepartmentHandler handles the department listings and the roster.
type DepartmentHandler struct {
	departments *services.DepartmentService
}

// NewDepartmentHandler creates a new DepartmentHandler
func NewDepartmentHandler(departments *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

// List handles GET /api/web-api/department/list.
func (h *DepartmentHandler) List(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	payloads, total, err := h.departments.List(params.Page, params.PageSize)
	if err != nil {
		respondEmptyPage(c, params)
		return
	}
	respondPage(c, total, params, payloads)
}

// ListNoPagination handles GET /api/web-api/department/list/no-pagination.
func (h *DepartmentHandler) ListNoPagination(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	briefs, err := h.departments.Briefs(userID)
	if err != nil {
		c.JSON(http.StatusOK, []struct{}{})
		return
	}
	c.JSON(http.StatusOK, briefs)
}

// Members handles GET /api/web-api/members/list?department_id=, the
// roster with each member's current-month activity.
func (h *DepartmentHandler) Members(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	var departmentID *uint64
	if v, ok := queryUint(c, "department_id"); ok {
		departmentID = &v
	}

	payloads, total, err := h.departments.Members(userID, departmentID, params.Page, params.PageSize)
	if err != nil {
		respondEmptyPage(c, params)
		return
	}
	respondPage(c, total, params, payloads)
}
