package models

import (
	"time"
)

// WorkTime is one day's attendance entry. StartInDay and EndInDay are
// clock times ("15:04" or "15:04:05"); TimeTotal is elapsed hours minus
// RestTime, computed at write time and stored.
type WorkTime struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	MemberID   uint64    `gorm:"index;not null" json:"member_id"`
	Date       time.Time `gorm:"index;not null" json:"date"`
	StartInDay string    `gorm:"type:varchar(8)" json:"start_in_day"`
	EndInDay   string    `gorm:"type:varchar(8)" json:"end_in_day"`
	RestTime   float64   `gorm:"not null;default:0" json:"rest_time"`
	TimeTotal  float64   `gorm:"not null;default:0" json:"time_total"`
	Removed    bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Member DepartmentMember `gorm:"foreignKey:MemberID" json:"-"`
}
