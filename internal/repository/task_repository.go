package repository

import (
	"github.com/openkpi/kpi-manager-api/internal/database"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a live task belonging to one member
func (r *GormTaskRepository) FindByID(id, memberID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Scopes(database.NotRemoved).
		Preload("Member.Profile").
		Preload("Member.Department").
		Where("id = ? AND member_id = ?", id, memberID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindAnyByID finds a live task regardless of owner
func (r *GormTaskRepository) FindAnyByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Scopes(database.NotRemoved).
		Preload("Member.Profile").
		First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update saves task changes
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// List retrieves a member's live tasks under one tag, newest first
func (r *GormTaskRepository) List(memberID, tagID uint64, page, pageSize int) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).
		Scopes(database.NotRemoved).
		Where("member_id = ? AND tag_id = ?", memberID, tagID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	if err := query.
		Preload("Member.Profile").
		Preload("Member.Department").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}
