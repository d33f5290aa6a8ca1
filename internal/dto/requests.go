package dto

import "encoding/json"

// Numeric fields arrive from the frontend both as JSON numbers and as
// strings of digits, so they are declared json.Number and validated
// field by field in the services.

// LoginRequest is the credential payload for POST /api/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ProfileUpdateRequest updates the caller's own profile. Field keys are
// camelCase, matching the profile payloads.
type ProfileUpdateRequest struct {
	FullName string `json:"fullName"`
	BirthDay string `json:"birthDay"`
	IDNumber string `json:"idNumber"`
	Address  string `json:"address"`
	Sex      string `json:"sex"`
}

// TagCreateRequest creates a KPI for a member.
type TagCreateRequest struct {
	ProfileID   json.Number `json:"profile_id"`
	TagName     string      `json:"tag_name"`
	Description string      `json:"tag_description"`
	PeriodStart string      `json:"period_start"`
	PeriodEnd   string      `json:"period_end"`
	Quantity    json.Number `json:"quantity"`
	Weight      json.Number `json:"weight"`
}

// TagMemberEditRequest edits or removes a member's KPI; TagRequest selects
// which ("edit" or "remove").
type TagMemberEditRequest struct {
	ProfileID   json.Number `json:"profile_id"`
	TagID       json.Number `json:"tag_id"`
	TagRequest  string      `json:"tag_request"`
	TagName     string      `json:"tag_name"`
	Description string      `json:"tag_description"`
	PeriodStart string      `json:"period_start"`
	PeriodEnd   string      `json:"period_end"`
	Quantity    json.Number `json:"quantity"`
	Weight      json.Number `json:"weight"`
}

// MyTagEditRequest is the employee's own progress update. TagState carries
// the display name, not the stored code.
type MyTagEditRequest struct {
	ProfileID json.Number `json:"profile_id"`
	TagID     json.Number `json:"tag_id"`
	Finished  json.Number `json:"finished"`
	TagState  string      `json:"tag_state"`
}

// TagComputationRequest re-derives a KPI's achieved total from its tasks.
type TagComputationRequest struct {
	ProfileID json.Number `json:"profile_id"`
	TagID     json.Number `json:"tag_id"`
}

// TaskCreateRequest creates a task under one of the caller's own KPIs.
type TaskCreateRequest struct {
	TagID         json.Number `json:"tag_id"`
	TaskName      string      `json:"task_name"`
	Description   string      `json:"task_description"`
	PeriodStart   string      `json:"period_start"`
	PeriodEnd     string      `json:"period_end"`
	UnitOfMeasure string      `json:"unit_of_measure"`
	TargetValue   json.Number `json:"target_value"`
	Weight        json.Number `json:"weight"`
}

// MyTaskEditRequest covers the four task edit kinds selected by EditTask:
// "remove", "title", "compact", and "total".
type MyTaskEditRequest struct {
	TagID         json.Number `json:"tag_id"`
	TaskID        json.Number `json:"task_id"`
	EditTask      string      `json:"edit_task"`
	TaskName      string      `json:"task_name"`
	Description   string      `json:"task_description"`
	PeriodStart   string      `json:"period_start"`
	PeriodEnd     string      `json:"period_end"`
	UnitOfMeasure string      `json:"unit_of_measure"`
	TargetValue   json.Number `json:"target_value"`
	ResultValue   json.Number `json:"result_value"`
	Weight        json.Number `json:"weight"`
	TaskState     string      `json:"task_state"`
}

// CommentAddRequest posts a comment on the caller's own task.
type CommentAddRequest struct {
	TaskID  json.Number `json:"task_id"`
	Content string      `json:"cmt_content"`
}

// MemberCommentAddRequest posts a comment on another member's task.
type MemberCommentAddRequest struct {
	UserID  json.Number `json:"user_id"`
	TaskID  json.Number `json:"task_id"`
	Content string      `json:"cmt_content"`
}

// CommentEditRequest edits or removes the caller's own comment.
type CommentEditRequest struct {
	CommentID  json.Number `json:"comment_id"`
	Content    string      `json:"cmt_content"`
	CmtRequest string      `json:"cmt_request"`
}

// WorkTimeAddRequest reports one day's working hours.
type WorkTimeAddRequest struct {
	Date       string      `json:"date"`
	StartInDay string      `json:"start_in_day"`
	EndInDay   string      `json:"end_in_day"`
	RestTime   json.Number `json:"rest_time"`
}

// WorkTimeEditRequest edits or removes a work-time entry.
type WorkTimeEditRequest struct {
	WorkTimeID      json.Number `json:"work_time_id"`
	Date            string      `json:"date"`
	StartInDay      string      `json:"start_in_day"`
	EndInDay        string      `json:"end_in_day"`
	RestTime        json.Number `json:"rest_time"`
	WorkTimeRequest string      `json:"work_time_request"`
}
