package database

import (
	"gorm.io/gorm"

	"github.com/openkpi/kpi-manager-api/internal/utils"
)

// Paginate applies pagination to a GORM query.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.PageSize)
	}
}

// NotRemoved filters out soft-deleted rows. Every read in the repositories
// goes through this; removed rows stay in storage but never surface.
func NotRemoved(db *gorm.DB) *gorm.DB {
	return db.Where("removed = ?", false)
}
