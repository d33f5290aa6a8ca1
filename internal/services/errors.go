package services

import "errors"

// Sentinel errors shared across the services. The handlers translate them
// into the {ok,msg} payloads; list and detail endpoints collapse most of
// them into empty results instead.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("record not found or not visible")
	ErrDataFault          = errors.New("data fault")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotYourDepartment  = errors.New("member belongs to another department")

	ErrMemberRequired   = errors.New("member is required")
	ErrMemberNotFound   = errors.New("member not found")
	ErrTagRequired      = errors.New("tag is required")
	ErrTagNotFound      = errors.New("tag not found")
	ErrTaskRequired     = errors.New("task is required")
	ErrTaskNotFound     = errors.New("task not found")
	ErrCommentRequired  = errors.New("comment is required")
	ErrWorkTimeRequired = errors.New("work time entry is required")

	ErrRequestRequired = errors.New("request kind is required")
	ErrRequestInvalid  = errors.New("request kind is invalid")

	ErrTitleRequired      = errors.New("title is required")
	ErrQuantityRequired   = errors.New("quantity is required")
	ErrQuantityNotNumber  = errors.New("quantity must be a number")
	ErrTargetRequired     = errors.New("target value is required")
	ErrTargetNotNumber    = errors.New("target value must be a number")
	ErrResultRequired     = errors.New("result value is required")
	ErrResultNotNumber    = errors.New("result value must be a number")
	ErrWeightNotNumber    = errors.New("weight must be a number")
	ErrWeightOutOfRange   = errors.New("weight must be between 1 and 10")
	ErrStateRequired      = errors.New("state is required")
	ErrStateInvalid       = errors.New("state is invalid")
	ErrFinishedRequired   = errors.New("achieved result is required")
	ErrFinishedNotNumber  = errors.New("achieved result must be a number")
	ErrPeriodStartMissing = errors.New("period start is required")
	ErrPeriodEndMissing   = errors.New("period end is required")
	ErrPeriodOrder        = errors.New("period end before period start")

	ErrTagCompleted     = errors.New("tag is completed and locked")
	ErrTagCompletedTask = errors.New("cannot add tasks to a completed tag")
	ErrTaskFinished     = errors.New("task is finished and locked")

	ErrContentRequired = errors.New("content is required")
	ErrContentTooLong  = errors.New("content too long")

	ErrDateRequired  = errors.New("work date is required")
	ErrStartRequired = errors.New("start time is required")

	ErrFullNameTooLong = errors.New("full name too long")
	ErrAddressTooLong  = errors.New("address too long")
	ErrSexInvalid      = errors.New("sex is invalid")

	ErrAvatarMissing      = errors.New("no image uploaded")
	ErrAvatarType         = errors.New("unsupported image type")
	ErrAvatarTooSmall     = errors.New("image dimensions too small")
	ErrAvatarTooLarge     = errors.New("image too large")
	ErrStorageUnreachable = errors.New("object storage unavailable")
)
