package repository

import (
	"time"

	"github.com/openkpi/kpi-manager-api/internal/models"
)

// TagWindow selects the period filter applied to KPI listings.
type TagWindow int

const (
	// TagWindowCurrent keeps tags whose period has not ended yet.
	TagWindowCurrent TagWindow = iota
	// TagWindowAll applies no period filter.
	TagWindowAll
	// TagWindowMonth keeps tags created and starting in the current
	// calendar month whose period has not ended yet.
	TagWindowMonth
	// TagWindowOutdated keeps tags whose period already ended.
	TagWindowOutdated
)

// ParseTagWindow maps the query parameter to a window. An absent value
// means current; anything unrecognized reports ok=false and the caller
// returns an empty result.
func ParseTagWindow(query string) (TagWindow, bool) {
	switch query {
	case "", "current":
		return TagWindowCurrent, true
	case "all":
		return TagWindowAll, true
	case "tmonth":
		return TagWindowMonth, true
	case "outdated":
		return TagWindowOutdated, true
	}
	return 0, false
}

// TagFilter holds the scope and window for listing KPIs.
type TagFilter struct {
	MemberID       *uint64
	DepartmentID   *uint64
	Window         TagWindow
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	OrderByUpdated bool
	Page           int
	PageSize       int
}

// StateCounts aggregates tags by state for the statistics endpoints.
type StateCounts struct {
	Total      int64
	Finished   int64
	InProgress int64
	NotStarted int64
}

// MemberFilter scopes department roster listings.
type MemberFilter struct {
	DepartmentID *uint64
	Page         int
	PageSize     int
}

// WorkTimeFilter scopes attendance listings.
type WorkTimeFilter struct {
	MemberID uint64
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// UserRepository defines account data access.
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
}

// ProfileRepository defines HR profile data access.
type ProfileRepository interface {
	FindByID(id uint64) (*models.Profile, error)
	FindByUserID(userID uint64) (*models.Profile, error)
	Update(profile *models.Profile) error

	// ListAll returns every live profile, for the no-pagination roster.
	ListAll() ([]models.Profile, error)
}

// DepartmentRepository defines department and membership data access.
type DepartmentRepository interface {
	// List returns departments ordered by level, highest first.
	List(page, pageSize int) ([]models.Department, int64, error)
	ListAll() ([]models.Department, error)

	// FindLeader returns the leader membership of a department.
	FindLeader(departmentID uint64) (*models.DepartmentMember, error)
	CountMembers(departmentID uint64) (int64, error)

	// ListMembers returns roster rows with profile and department loaded.
	ListMembers(filter MemberFilter) ([]models.DepartmentMember, int64, error)
	FindMemberByProfileID(profileID uint64) (*models.DepartmentMember, error)
	FindMemberByUserID(userID uint64) (*models.DepartmentMember, error)
}

// TagRepository defines KPI data access.
type TagRepository interface {
	Create(tag *models.Tag) error

	// FindByID returns a live tag scoped to one member.
	FindByID(id, memberID uint64) (*models.Tag, error)
	Update(tag *models.Tag) error

	// List returns tags matching the filter with member and creator loaded.
	List(filter TagFilter) ([]models.Tag, int64, error)
	StateCounts(filter TagFilter) (StateCounts, error)

	// Recompute re-derives a tag's achieved total and progress from the
	// completed results of its live tasks, atomically.
	Recompute(tagID, memberID uint64) error
}

// TaskRepository defines task data access.
type TaskRepository interface {
	Create(task *models.Task) error

	// FindByID returns a live task scoped to one member.
	FindByID(id, memberID uint64) (*models.Task, error)

	// FindAnyByID returns a live task regardless of owner.
	FindAnyByID(id uint64) (*models.Task, error)
	Update(task *models.Task) error

	// List returns a member's tasks under one tag, newest first.
	List(memberID, tagID uint64, page, pageSize int) ([]models.Task, int64, error)
}

// CommentRepository defines task comment data access.
type CommentRepository interface {
	Create(comment *models.Comment) error

	// FindOwn returns a live comment only when authored by the profile.
	FindOwn(id, profileID uint64) (*models.Comment, error)
	Update(comment *models.Comment) error

	// List returns a task's comments with authors loaded, newest first.
	List(taskID uint64, page, pageSize int) ([]models.Comment, int64, error)
}

// WorkTimeRepository defines attendance data access.
type WorkTimeRepository interface {
	Create(wt *models.WorkTime) error

	// FindByID returns a live entry scoped to one member.
	FindByID(id, memberID uint64) (*models.WorkTime, error)
	Update(wt *models.WorkTime) error

	// List returns entries matching the filter, most recent date first.
	List(filter WorkTimeFilter) ([]models.WorkTime, int64, error)

	// SumBetween totals the hours a member reported in [from, to). The
	// result is nil when no entries match.
	SumBetween(memberID uint64, from, to time.Time) (*float64, error)
}
