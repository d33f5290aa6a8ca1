package dto

import (
	"time"

	"github.com/openkpi/kpi-manager-api/internal/models"
)

// Payload field keys are camelCase to match what the frontend consumes.
// The avatar argument on the conversion functions resolves a stored object
// key into a public URL.

// TagPayload is a KPI row in list and detail responses.
type TagPayload struct {
	UserID           uint64     `json:"userId"`
	ProfileID        uint64     `json:"profileId"`
	FullName         string     `json:"fullName"`
	AvatarURL        string     `json:"avatarUrl"`
	Sex              string     `json:"sex"`
	Position         string     `json:"position"`
	Department       string     `json:"department"`
	TagID            uint64     `json:"tagId"`
	TagName          string     `json:"tagName"`
	TagDescription   string     `json:"tagDescription"`
	PeriodStart      *time.Time `json:"periodStart"`
	PeriodEnd        *time.Time `json:"periodEnd"`
	Weight           int        `json:"weight"`
	Quantity         int        `json:"quantity"`
	Finished         int        `json:"finished"`
	Progress         float64    `json:"progress"`
	TagState         string     `json:"tagState"`
	CreatedBy        string     `json:"createdBy"`
	CreatedAvatarURL string     `json:"createdAvatarUrl"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// ToTagPayload renders a tag with its member and creator preloaded.
func ToTagPayload(tag models.Tag, avatar func(string) string) TagPayload {
	p := tag.Member.Profile
	return TagPayload{
		UserID:           p.UserID,
		ProfileID:        p.ID,
		FullName:         p.FullName,
		AvatarURL:        avatar(p.AvatarKey),
		Sex:              p.Sex.Display(),
		Position:         tag.Member.Position,
		Department:       tag.Member.Department.Name,
		TagID:            tag.ID,
		TagName:          tag.Name,
		TagDescription:   tag.Description,
		PeriodStart:      tag.PeriodStart,
		PeriodEnd:        tag.PeriodEnd,
		Weight:           tag.Weight,
		Quantity:         tag.Quantity,
		Finished:         tag.Finished,
		Progress:         tag.Progress,
		TagState:         tag.State.Display(),
		CreatedBy:        tag.CreatedBy.FullName,
		CreatedAvatarURL: avatar(tag.CreatedBy.AvatarKey),
		CreatedAt:        tag.CreatedAt,
		UpdatedAt:        tag.UpdatedAt,
	}
}

// ToTagPayloads renders a list of tags.
func ToTagPayloads(tags []models.Tag, avatar func(string) string) []TagPayload {
	out := make([]TagPayload, len(tags))
	for i, tag := range tags {
		out[i] = ToTagPayload(tag, avatar)
	}
	return out
}

// TagBrief is the compact form used by the no-pagination tag list.
type TagBrief struct {
	TagID   uint64 `json:"tagId"`
	TagName string `json:"tagName"`
}

// TaskPayload is a task row in list and detail responses.
type TaskPayload struct {
	UserID          uint64     `json:"userId"`
	FullName        string     `json:"fullName"`
	AvatarURL       string     `json:"avatarUrl"`
	Sex             string     `json:"sex"`
	Position        string     `json:"position"`
	Department      string     `json:"department"`
	TagID           uint64     `json:"tagId"`
	TaskID          uint64     `json:"taskId"`
	TaskName        string     `json:"taskName"`
	TaskDescription string     `json:"taskDescription"`
	PeriodStart     *time.Time `json:"periodStart"`
	PeriodEnd       *time.Time `json:"periodEnd"`
	UnitOfMeasure   string     `json:"unitOfMeasure"`
	TargetValue     int        `json:"targetValue"`
	ResultValue     int        `json:"resultValue"`
	Progress        float64    `json:"progress"`
	Weight          int        `json:"weight"`
	TaskState       string     `json:"taskState"`
	IsFinished      bool       `json:"isFinished"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// ToTaskPayload renders a task with its member preloaded.
func ToTaskPayload(task models.Task, avatar func(string) string) TaskPayload {
	p := task.Member.Profile
	return TaskPayload{
		UserID:          p.UserID,
		FullName:        p.FullName,
		AvatarURL:       avatar(p.AvatarKey),
		Sex:             p.Sex.Display(),
		Position:        task.Member.Position,
		Department:      task.Member.Department.Name,
		TagID:           task.TagID,
		TaskID:          task.ID,
		TaskName:        task.Name,
		TaskDescription: task.Description,
		PeriodStart:     task.PeriodStart,
		PeriodEnd:       task.PeriodEnd,
		UnitOfMeasure:   task.UnitOfMeasure,
		TargetValue:     task.TargetValue,
		ResultValue:     task.ResultValue,
		Progress:        task.Progress,
		Weight:          task.Weight,
		TaskState:       task.State.Display(),
		IsFinished:      task.IsFinished,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}
}

// ToTaskPayloads renders a list of tasks.
func ToTaskPayloads(tasks []models.Task, avatar func(string) string) []TaskPayload {
	out := make([]TaskPayload, len(tasks))
	for i, task := range tasks {
		out[i] = ToTaskPayload(task, avatar)
	}
	return out
}

// CommentPayload is a comment row. The updateAt key (no "d") is what the
// frontend reads; keep it.
type CommentPayload struct {
	CommentID uint64    `json:"commentId"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl"`
	IsLeader  bool      `json:"isLeader"`
	Content   string    `json:"commentContent"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updateAt"`
}

// ToCommentPayload renders a comment with its author preloaded. isLeader
// reflects the author's department membership.
func ToCommentPayload(comment models.Comment, isLeader bool, avatar func(string) string) CommentPayload {
	return CommentPayload{
		CommentID: comment.ID,
		FullName:  comment.Profile.FullName,
		AvatarURL: avatar(comment.Profile.AvatarKey),
		IsLeader:  isLeader,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// WorkTimePayload is one attendance row. The date is rendered dd/mm/yyyy
// and the clock fields HH:MM.
type WorkTimePayload struct {
	WorkTimeID uint64    `json:"workTimeId"`
	UserID     uint64    `json:"userId"`
	FullName   string    `json:"fullName"`
	Sex        string    `json:"sex"`
	AvatarURL  string    `json:"avatarUrl"`
	Position   string    `json:"position"`
	Date       string    `json:"date"`
	StartInDay string    `json:"startInDay"`
	EndInDay   string    `json:"endInDay"`
	RestTime   float64   `json:"restTime"`
	TotalTime  float64   `json:"totalTime"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ToWorkTimePayload renders a work-time entry with its member preloaded.
func ToWorkTimePayload(wt models.WorkTime, avatar func(string) string) WorkTimePayload {
	p := wt.Member.Profile
	return WorkTimePayload{
		WorkTimeID: wt.ID,
		UserID:     p.UserID,
		FullName:   p.FullName,
		Sex:        p.Sex.Display(),
		AvatarURL:  avatar(p.AvatarKey),
		Position:   wt.Member.Position,
		Date:       wt.Date.Format("02/01/2006"),
		StartInDay: clockDisplay(wt.StartInDay),
		EndInDay:   clockDisplay(wt.EndInDay),
		RestTime:   wt.RestTime,
		TotalTime:  wt.TimeTotal,
		CreatedAt:  wt.CreatedAt,
		UpdatedAt:  wt.UpdatedAt,
	}
}

// ToWorkTimePayloads renders a list of work-time entries.
func ToWorkTimePayloads(entries []models.WorkTime, avatar func(string) string) []WorkTimePayload {
	out := make([]WorkTimePayload, len(entries))
	for i, wt := range entries {
		out[i] = ToWorkTimePayload(wt, avatar)
	}
	return out
}

// clockDisplay trims stored "HH:MM:SS" down to "HH:MM".
func clockDisplay(clock string) string {
	if len(clock) > 5 {
		return clock[:5]
	}
	return clock
}

// DepartmentPayload is a department row with its leader summary.
type DepartmentPayload struct {
	DepartmentID    uint64 `json:"departmentId"`
	DepartmentName  string `json:"departmentName"`
	DepartmentDesc  string `json:"departmentDesc"`
	DepartmentLevel int    `json:"departmentLevel"`
	Leader          string `json:"departmentLeader"`
	LeaderTitle     string `json:"departmentLeaderTitle"`
	AvatarURL       string `json:"avatarUrl"`
	TotalMember     int64  `json:"totalMember"`
}

// DepartmentBrief is the compact form used by the no-pagination list.
type DepartmentBrief struct {
	DepartmentID    uint64 `json:"departmentId"`
	DepartmentName  string `json:"departmentName"`
	DepartmentLevel int    `json:"departmentLevel"`
}

// MemberPayload is a department roster row with the member's current-month
// activity numbers. TotalTime is null when no hours were reported.
type MemberPayload struct {
	UserID           uint64     `json:"userId"`
	FullName         string     `json:"fullName"`
	Sex              string     `json:"sex"`
	BirthDay         *time.Time `json:"birthDay"`
	IDNumber         string     `json:"idNumber"`
	Address          string     `json:"address"`
	AvatarURL        string     `json:"avatarUrl"`
	Position         string     `json:"position"`
	IsLeader         bool       `json:"isLeader"`
	Department       string     `json:"department"`
	TotalTime        *float64   `json:"totalTime"`
	TotalTag         int64      `json:"totalTag"`
	TotalTagFinished int64      `json:"totalTagFinished"`
}

// ProfileCard is the caller's own membership card.
type ProfileCard struct {
	UserID     uint64     `json:"userId"`
	ProfileID  uint64     `json:"profileId"`
	FullName   string     `json:"fullName"`
	Sex        string     `json:"sex"`
	BirthDay   *time.Time `json:"birthDay"`
	IDNumber   string     `json:"idNumber"`
	Email      string     `json:"email"`
	Address    string     `json:"address"`
	AvatarURL  string     `json:"avatarUrl"`
	Position   string     `json:"position"`
	IsLeader   bool       `json:"isLeader"`
	Department string     `json:"department"`
}

// ProfileSpecific is the reduced card a supervisor sees for a member.
type ProfileSpecific struct {
	UserID       uint64 `json:"userId"`
	ProfileID    uint64 `json:"profileId"`
	FullName     string `json:"fullName"`
	Sex          string `json:"sex"`
	AvatarURL    string `json:"avatarUrl"`
	Position     string `json:"position"`
	DepartmentID uint64 `json:"departmentId"`
	Department   string `json:"department"`
}

// ProfileBrief is the compact form used by the no-pagination profile list.
type ProfileBrief struct {
	UserID    uint64 `json:"userId"`
	ProfileID uint64 `json:"profileId"`
	FullName  string `json:"fullName"`
}

// CurrentProfile is the account header returned after login.
type CurrentProfile struct {
	OK         bool       `json:"ok"`
	Username   string     `json:"username"`
	Avatar     string     `json:"avatar"`
	UserID     uint64     `json:"userId"`
	Permission string     `json:"permission"`
	FullName   string     `json:"fullName"`
	BirthDay   *time.Time `json:"birthDay"`
	IDNumber   string     `json:"idNumber"`
	Address    string     `json:"address"`
	Sex        string     `json:"sex"`
}

// TagStats is the per-member KPI statistic block. TotalTime is the hours
// reported this calendar month, null when nothing was reported.
type TagStats struct {
	TotalTime       *float64 `json:"total_time"`
	TotalTag        int64    `json:"total_tag"`
	CountFinished   int64    `json:"count_finished"`
	CountProgress   int64    `json:"count_progress"`
	CountUnFinished int64    `json:"count_un_finished"`
}

// GlobalTagStats is the organization-wide KPI statistic block. It carries
// no worked-hours figure and names its total differently; both quirks are
// part of the wire format.
type GlobalTagStats struct {
	Total           int64 `json:"total"`
	CountFinished   int64 `json:"count_finished"`
	CountProgress   int64 `json:"count_progress"`
	CountUnFinished int64 `json:"count_un_finished"`
}
