package models

import (
	"time"
)

type Role string

const (
	RoleDirector Role = "DR"
	RoleManager  Role = "MG"
	RoleEmployee Role = "EM"
)

// Display returns the human-readable role name used in API payloads.
func (r Role) Display() string {
	switch r {
	case RoleDirector:
		return "Director"
	case RoleManager:
		return "Manager"
	case RoleEmployee:
		return "Employee"
	}
	return ""
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleDirector || r == RoleManager || r == RoleEmployee
}

type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

func (s Sex) Display() string {
	switch s {
	case SexMale:
		return "Male"
	case SexFemale:
		return "Female"
	}
	return ""
}

// Profile is the HR record attached one-to-one to a login account.
// Profiles are never deleted physically; Removed hides them everywhere.
type Profile struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	UserID    uint64     `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName  string     `gorm:"type:varchar(200)" json:"full_name"`
	BirthDay  *time.Time `json:"birth_day"`
	IDNumber  string     `gorm:"type:varchar(200)" json:"id_number"`
	Address   string     `gorm:"type:varchar(2000)" json:"address"`
	Sex       Sex        `gorm:"type:varchar(1)" json:"sex"`
	AvatarKey string     `gorm:"type:varchar(255)" json:"-"`
	Role      Role       `gorm:"type:varchar(2)" json:"role"`
	Removed   bool       `gorm:"not null;default:false;index" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (p *Profile) IsDirector() bool { return p.Role == RoleDirector }
func (p *Profile) IsManager() bool  { return p.Role == RoleManager }
func (p *Profile) IsEmployee() bool { return p.Role == RoleEmployee }
