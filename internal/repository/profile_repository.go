package repository

import (
	"github.com/openkpi/kpi-manager-api/internal/database"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormProfileRepository is a GORM implementation of ProfileRepository
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds a live profile by ID
func (r *GormProfileRepository) FindByID(id uint64) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Scopes(database.NotRemoved).
		Preload("User").
		First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUserID finds the live profile attached to an account
func (r *GormProfileRepository) FindByUserID(userID uint64) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Scopes(database.NotRemoved).
		Preload("User").
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update saves profile changes
func (r *GormProfileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// ListAll returns every live profile
func (r *GormProfileRepository) ListAll() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.Scopes(database.NotRemoved).
		Preload("User").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
