package repository

import (
	"github.com/openkpi/kpi-manager-api/internal/database"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// FindOwn finds a live comment only when authored by the profile
func (r *GormCommentRepository) FindOwn(id, profileID uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Scopes(database.NotRemoved).
		Where("id = ? AND profile_id = ?", id, profileID).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update saves comment changes
func (r *GormCommentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// List retrieves a task's live comments with authors loaded, newest first
func (r *GormCommentRepository) List(taskID uint64, page, pageSize int) ([]models.Comment, int64, error) {
	query := r.db.Model(&models.Comment{}).
		Scopes(database.NotRemoved).
		Where("task_id = ?", taskID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	if err := query.
		Preload("Profile").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
