package models

import (
	"time"
)

// Task is a sub-deliverable under a Tag. IsFinished latches true when the
// state first becomes Completed and no operation resets it.
type Task struct {
	ID            uint64     `gorm:"primarykey" json:"id"`
	MemberID      uint64     `gorm:"index;not null" json:"member_id"`
	TagID         uint64     `gorm:"index;not null" json:"tag_id"`
	Name          string     `gorm:"type:varchar(500)" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	PeriodStart   *time.Time `json:"period_start"`
	PeriodEnd     *time.Time `json:"period_end"`
	UnitOfMeasure string     `gorm:"type:varchar(100)" json:"unit_of_measure"`
	TargetValue   int        `gorm:"not null;default:0" json:"target_value"`
	ResultValue   int        `gorm:"not null;default:0" json:"result_value"`
	Progress      float64    `gorm:"not null;default:0" json:"progress"`
	Weight        int        `gorm:"not null;default:0" json:"weight"`
	State         State      `gorm:"type:varchar(2)" json:"state"`
	IsFinished    bool       `gorm:"not null;default:false" json:"is_finished"`
	Removed       bool       `gorm:"not null;default:false;index" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	Member DepartmentMember `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Tag    Tag              `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}

// Comment is a remark on a task, editable only by its author.
type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	TaskID    uint64    `gorm:"index;not null" json:"task_id"`
	ProfileID uint64    `gorm:"index;not null" json:"profile_id"`
	Content   string    `gorm:"type:varchar(1000);not null" json:"content"`
	Removed   bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Task    Task    `gorm:"foreignKey:TaskID" json:"-"`
	Profile Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}
