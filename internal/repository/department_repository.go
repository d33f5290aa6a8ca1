package repository

import (
	"github.com/openkpi/kpi-manager-api/internal/database"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormDepartmentRepository is a GORM implementation of DepartmentRepository
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new DepartmentRepository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// List returns live departments ordered by level, highest first
func (r *GormDepartmentRepository) List(page, pageSize int) ([]models.Department, int64, error) {
	query := r.db.Model(&models.Department{}).Scopes(database.NotRemoved)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var departments []models.Department
	if err := query.Order("level DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&departments).Error; err != nil {
		return nil, 0, err
	}
	return departments, total, nil
}

// ListAll returns every live department
func (r *GormDepartmentRepository) ListAll() ([]models.Department, error) {
	var departments []models.Department
	if err := r.db.Scopes(database.NotRemoved).Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// FindLeader returns the leader membership of a department
func (r *GormDepartmentRepository) FindLeader(departmentID uint64) (*models.DepartmentMember, error) {
	var member models.DepartmentMember
	if err := r.db.Scopes(database.NotRemoved).
		Preload("Profile").
		Where("department_id = ? AND is_leader = ?", departmentID, true).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// CountMembers counts the live members of a department
func (r *GormDepartmentRepository) CountMembers(departmentID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.DepartmentMember{}).
		Scopes(database.NotRemoved).
		Where("department_id = ?", departmentID).
		Count(&count).Error
	return count, err
}

// ListMembers returns roster rows with profile and department loaded
func (r *GormDepartmentRepository) ListMembers(filter MemberFilter) ([]models.DepartmentMember, int64, error) {
	query := r.db.Model(&models.DepartmentMember{}).Scopes(database.NotRemoved)
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Preload("Profile").Preload("Department")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var members []models.DepartmentMember
	if err := listQuery.Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// FindMemberByProfileID returns the live membership of a profile
func (r *GormDepartmentRepository) FindMemberByProfileID(profileID uint64) (*models.DepartmentMember, error) {
	var member models.DepartmentMember
	if err := r.db.Scopes(database.NotRemoved).
		Preload("Profile").
		Preload("Department").
		Where("profile_id = ?", profileID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindMemberByUserID returns the live membership behind an account
func (r *GormDepartmentRepository) FindMemberByUserID(userID uint64) (*models.DepartmentMember, error) {
	var member models.DepartmentMember
	if err := r.db.
		Joins("JOIN profiles ON profiles.id = department_members.profile_id").
		Where("profiles.user_id = ? AND profiles.removed = ?", userID, false).
		Where("department_members.removed = ?", false).
		Preload("Profile.User").
		Preload("Profile").
		Preload("Department").
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}
