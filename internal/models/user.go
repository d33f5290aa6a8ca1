package models

import (
	"time"
)

// User is the login account. Everything HR-related lives on the associated
// Profile; the account only carries credentials.
type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255)" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Removed      bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}
