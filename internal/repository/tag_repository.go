package repository

import (
	"time"

	"github.com/openkpi/kpi-manager-api/internal/database"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"github.com/openkpi/kpi-manager-api/internal/utils"
	"gorm.io/gorm"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// Create creates a new tag
func (r *GormTagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

// FindByID finds a live tag belonging to one member
func (r *GormTagRepository) FindByID(id, memberID uint64) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Scopes(database.NotRemoved).
		Preload("Member.Profile").
		Preload("Member.Department").
		Preload("CreatedBy").
		Where("id = ? AND member_id = ?", id, memberID).
		First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Update saves tag changes
func (r *GormTagRepository) Update(tag *models.Tag) error {
	return r.db.Save(tag).Error
}

// List retrieves tags matching the filter with member and creator loaded
func (r *GormTagRepository) List(filter TagFilter) ([]models.Tag, int64, error) {
	query := r.applyFilter(filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.
		Preload("Member.Profile").
		Preload("Member.Department").
		Preload("CreatedBy")
	if filter.OrderByUpdated {
		listQuery = listQuery.Order("tags.updated_at DESC")
	} else {
		listQuery = listQuery.Order("tags.created_at DESC")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var tags []models.Tag
	if err := listQuery.Find(&tags).Error; err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}

// StateCounts aggregates matching tags by state
func (r *GormTagRepository) StateCounts(filter TagFilter) (StateCounts, error) {
	rows := []struct {
		State models.State
		N     int64
	}{}
	if err := r.applyFilter(filter).
		Select("tags.state AS state, COUNT(*) AS n").
		Group("tags.state").
		Scan(&rows).Error; err != nil {
		return StateCounts{}, err
	}

	var counts StateCounts
	for _, row := range rows {
		counts.Total += row.N
		switch row.State {
		case models.StateCompleted:
			counts.Finished = row.N
		case models.StateInProgress:
			counts.InProgress = row.N
		case models.StateNotStarted:
			counts.NotStarted = row.N
		}
	}
	return counts, nil
}

// Recompute re-derives a tag's achieved total from the completed results of
// its live tasks. The read and write run in one transaction so concurrent
// task updates cannot interleave.
func (r *GormTagRepository) Recompute(tagID, memberID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.Scopes(database.NotRemoved).
			Where("id = ? AND member_id = ?", tagID, memberID).
			First(&tag).Error; err != nil {
			return err
		}

		var sum *int
		if err := tx.Model(&models.Task{}).
			Select("SUM(result_value)").
			Where("tag_id = ? AND removed = ? AND state = ?", tag.ID, false, models.StateCompleted).
			Scan(&sum).Error; err != nil {
			return err
		}

		tag.Finished = 0
		if sum != nil {
			tag.Finished = *sum
		}
		tag.Progress = models.Percent(tag.Finished, tag.Quantity)

		return tx.Save(&tag).Error
	})
}

// applyFilter builds the base query for List and StateCounts.
func (r *GormTagRepository) applyFilter(filter TagFilter) *gorm.DB {
	query := r.db.Model(&models.Tag{}).Where("tags.removed = ?", false)

	if filter.MemberID != nil {
		query = query.Where("tags.member_id = ?", *filter.MemberID)
	}
	if filter.DepartmentID != nil {
		query = query.
			Joins("JOIN department_members ON department_members.id = tags.member_id").
			Where("department_members.department_id = ?", *filter.DepartmentID)
	}

	now := time.Now()
	switch filter.Window {
	case TagWindowCurrent:
		query = query.Where("tags.period_end > ?", now)
	case TagWindowMonth:
		start, end := utils.MonthRange(now)
		query = query.
			Where("tags.period_start >= ? AND tags.period_start < ?", start, end).
			Where("tags.created_at >= ? AND tags.created_at < ?", start, end).
			Where("tags.period_end > ?", now)
	case TagWindowOutdated:
		query = query.Where("tags.period_end < ?", now)
	}

	if filter.CreatedFrom != nil {
		query = query.Where("tags.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("tags.created_at < ?", *filter.CreatedTo)
	}

	return query
}
