package repository

import (
	"time"

	"github.com/openkpi/kpi-manager-api/internal/database"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormWorkTimeRepository is a GORM implementation of WorkTimeRepository
type GormWorkTimeRepository struct {
	db *gorm.DB
}

// NewWorkTimeRepository creates a new WorkTimeRepository
func NewWorkTimeRepository(db *gorm.DB) WorkTimeRepository {
	return &GormWorkTimeRepository{db: db}
}

// Create creates a new work-time entry
func (r *GormWorkTimeRepository) Create(wt *models.WorkTime) error {
	return r.db.Create(wt).Error
}

// FindByID finds a live entry belonging to one member
func (r *GormWorkTimeRepository) FindByID(id, memberID uint64) (*models.WorkTime, error) {
	var wt models.WorkTime
	if err := r.db.Scopes(database.NotRemoved).
		Where("id = ? AND member_id = ?", id, memberID).
		First(&wt).Error; err != nil {
		return nil, err
	}
	return &wt, nil
}

// Update saves entry changes
func (r *GormWorkTimeRepository) Update(wt *models.WorkTime) error {
	return r.db.Save(wt).Error
}

// List retrieves entries matching the filter, most recent date first
func (r *GormWorkTimeRepository) List(filter WorkTimeFilter) ([]models.WorkTime, int64, error) {
	query := r.db.Model(&models.WorkTime{}).
		Scopes(database.NotRemoved).
		Where("member_id = ?", filter.MemberID)
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.
		Preload("Member.Profile").
		Order("date DESC, created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var entries []models.WorkTime
	if err := listQuery.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// SumBetween totals a member's hours in [from, to); nil when no rows match
func (r *GormWorkTimeRepository) SumBetween(memberID uint64, from, to time.Time) (*float64, error) {
	var sum *float64
	err := r.db.Model(&models.WorkTime{}).
		Select("SUM(time_total)").
		Where("member_id = ? AND removed = ?", memberID, false).
		Where("date >= ? AND date < ?", from, to).
		Scan(&sum).Error
	if err != nil {
		return nil, err
	}
	return sum, nil
}
