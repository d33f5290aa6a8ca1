package models

import (
	"math"
	"time"
)

// State is shared by tags and tasks. The stored value is the 2-char code;
// payloads expose the display name.
type State string

const (
	StateNotStarted State = "NF"
	StateInProgress State = "PR"
	StateCompleted  State = "CO"
)

func (s State) Display() string {
	switch s {
	case StateNotStarted:
		return "Not Started"
	case StateInProgress:
		return "In Progress"
	case StateCompleted:
		return "Completed"
	}
	return ""
}

// StateFromDisplay maps a display name back to its code. The second return
// is false for anything that is not one of the three known names.
func StateFromDisplay(name string) (State, bool) {
	switch name {
	case "Not Started":
		return StateNotStarted, true
	case "In Progress":
		return StateInProgress, true
	case "Completed":
		return StateCompleted, true
	}
	return "", false
}

// Tag is a KPI goal assigned to a department member. Finished counts the
// achieved quantity; Progress is always derived from Finished and Quantity.
type Tag struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	MemberID    uint64     `gorm:"index;not null" json:"member_id"`
	Name        string     `gorm:"type:varchar(500)" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	PeriodStart *time.Time `json:"period_start"`
	PeriodEnd   *time.Time `gorm:"index" json:"period_end"`
	Weight      int        `gorm:"not null;default:0" json:"weight"`
	Quantity    int        `gorm:"not null;default:0" json:"quantity"`
	Finished    int        `gorm:"not null;default:0" json:"finished"`
	Progress    float64    `gorm:"not null;default:0" json:"progress"`
	State       State      `gorm:"type:varchar(2)" json:"state"`
	CreatedByID uint64     `gorm:"index" json:"created_by_id"`
	Removed     bool       `gorm:"not null;default:false;index" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Member    DepartmentMember `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	CreatedBy Profile          `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// Percent derives a progress percentage rounded to two decimals. A zero
// target yields zero rather than dividing.
func Percent(achieved, target int) float64 {
	if target == 0 {
		return 0
	}
	return math.Round(float64(achieved)/float64(target)*100.0*100) / 100
}
