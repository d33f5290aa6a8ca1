package models

import (
	"time"
)

// Department is an organizational unit. Level ranks departments in the
// hierarchy; listings are ordered by level, highest first.
type Department struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Level       int       `gorm:"not null;default:0" json:"level"`
	Description string    `gorm:"type:text" json:"description"`
	Removed     bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DepartmentMember binds a Profile to at most one Department along with a
// position title. At most one membership exists per profile.
type DepartmentMember struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	ProfileID    uint64    `gorm:"uniqueIndex;not null" json:"profile_id"`
	DepartmentID uint64    `gorm:"index;not null" json:"department_id"`
	Position     string    `gorm:"type:varchar(225);default:'Employee'" json:"position"`
	IsLeader     bool      `gorm:"not null;default:false" json:"is_leader"`
	Removed      bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Profile    Profile    `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}
