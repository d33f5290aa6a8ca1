package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/logger"
	"github.com/openkpi/kpi-manager-api/internal/middleware"
	"github.com/openkpi/kpi-manager-api/internal/services"
	"github.com/openkpi/kpi-manager-api/internal/utils"
)

// Mutations answer {ok,msg} with HTTP 200 either way; the frontend keys
// off the ok flag. List and detail reads collapse failures into empty
// results instead of error payloads.

var errorMessages = map[error]string{
	services.ErrDataFault:          "Data error!",
	services.ErrNotFound:           "Data error!",
	services.ErrPermissionDenied:   "You do not have permission to perform this action!",
	services.ErrNotYourDepartment:  "This member is not in your department!",
	services.ErrMemberRequired:     "Member is required!",
	services.ErrMemberNotFound:     "Member does not exist!",
	services.ErrTagRequired:        "KPI is required!",
	services.ErrTagNotFound:        "KPI does not exist!",
	services.ErrTaskRequired:       "Task is required!",
	services.ErrTaskNotFound:       "Task does not exist!",
	services.ErrCommentRequired:    "Comment is required!",
	services.ErrWorkTimeRequired:   "Work time entry is required!",
	services.ErrRequestRequired:    "Request type is required!",
	services.ErrRequestInvalid:     "Request type is invalid!",
	services.ErrTitleRequired:      "Title cannot be empty!",
	services.ErrQuantityRequired:   "Quantity cannot be empty!",
	services.ErrQuantityNotNumber:  "Quantity must be a number!",
	services.ErrTargetRequired:     "Target value cannot be empty!",
	services.ErrTargetNotNumber:    "Target value must be a number!",
	services.ErrResultRequired:     "Result value cannot be empty!",
	services.ErrResultNotNumber:    "Result value must be a number!",
	services.ErrWeightNotNumber:    "Weight must be a number!",
	services.ErrWeightOutOfRange:   "Weight must be between 1 and 10!",
	services.ErrStateRequired:      "State cannot be empty!",
	services.ErrStateInvalid:       "State is invalid!",
	services.ErrFinishedRequired:   "Achieved result cannot be empty!",
	services.ErrFinishedNotNumber:  "Achieved result must be a number!",
	services.ErrPeriodStartMissing: "Start date cannot be empty!",
	services.ErrPeriodEndMissing:   "End date cannot be empty!",
	services.ErrPeriodOrder:        "End must come after start!",
	services.ErrTagCompleted:       "This KPI is completed and cannot be edited!",
	services.ErrTagCompletedTask:   "Cannot add tasks to a completed KPI!",
	services.ErrTaskFinished:       "This task is finished and cannot be edited!",
	services.ErrContentRequired:    "Comment cannot be empty!",
	services.ErrContentTooLong:     "Comment is too long!",
	services.ErrDateRequired:       "Date cannot be empty!",
	services.ErrStartRequired:      "Start time cannot be empty!",
	services.ErrFullNameTooLong:    "Full name is too long!",
	services.ErrAddressTooLong:     "Address is too long!",
	services.ErrSexInvalid:         "Sex is invalid!",
	services.ErrAvatarMissing:      "No image uploaded!",
	services.ErrAvatarType:         "Image must be JPEG or PNG!",
	services.ErrAvatarTooSmall:     "Image is too small!",
	services.ErrAvatarTooLarge:     "Image must be under 1MB!",
	services.ErrStorageUnreachable: "Could not store image!",
}

func respondOK(c *gin.Context) {
	c.JSON(http.StatusOK, dto.Status{OK: true, Msg: "Success!"})
}

func respondFail(c *gin.Context, err error) {
	msg := "Data error!"
	matched := false
	for sentinel, m := range errorMessages {
		if errors.Is(err, sentinel) {
			msg = m
			matched = true
			break
		}
	}
	if !matched {
		logger.Error("request failed", err)
	}
	c.JSON(http.StatusOK, dto.Status{OK: false, Msg: msg})
}

func respondEmptyObject(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}

func respondPage(c *gin.Context, total int64, params utils.PaginationParams, results interface{}) {
	c.JSON(http.StatusOK, dto.NewPage(total, params.PageSize, params.Page, results))
}

func respondEmptyPage(c *gin.Context, params utils.PaginationParams) {
	c.JSON(http.StatusOK, dto.NewPage(0, params.PageSize, params.Page, []struct{}{}))
}

// bindJSON decodes the body with json.Number for the loosely typed
// numeric fields. A malformed body answers a generic data error.
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		respondFail(c, services.ErrDataFault)
		return false
	}
	return true
}

// currentUserID returns the authenticated account ID set by the auth
// middleware. Callers must stop when ok is false.
func currentUserID(c *gin.Context) (uint64, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return id, ok
}

// queryUint reads an optional numeric query parameter.
func queryUint(c *gin.Context, name string) (uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
