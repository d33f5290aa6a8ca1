package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openkpi/kpi-manager-api/internal/audit"
	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/services"
	"github.com/openkpi/kpi-manager-api/internal/storage"
	"github.com/openkpi/kpi-manager-api/internal/utils"
)

// WorkTimeHandler handles the attendance ledger endpoints. The statistic
// endpoints answer a bare number, null when nothing was reported.
type WorkTimeHandler struct {
	workTimes *services.WorkTimeService
	avatars   *storage.AvatarStore
	audits    *audit.Publisher
}

// NewWorkTimeHandler creates a new WorkTimeHandler
func NewWorkTimeHandler(workTimes *services.WorkTimeService, avatars *storage.AvatarStore, audits *audit.Publisher) *WorkTimeHandler {
	return &WorkTimeHandler{workTimes: workTimes, avatars: avatars, audits: audits}
}

// MyList handles GET /api/web-api/my-work-time/list?month_request=&year_request=.
func (h *WorkTimeHandler) MyList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	entries, total, err := h.workTimes.MyList(userID, c.Query("month_request"), c.Query("year_request"), params.Page, params.PageSize)
	if err != nil {
		respondEmptyPage(c, params)
		return
	}
	respondPage(c, total, params, dto.ToWorkTimePayloads(entries, h.avatars.URL))
}

// ListSpecific handles GET /api/web-api/work-time/member/list?user_id=.
func (h *WorkTimeHandler) ListSpecific(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	targetUserID, ok := queryUint(c, "user_id")
	if !ok {
		respondEmptyPage(c, params)
		return
	}

	entries, total, err := h.workTimes.MemberList(userID, targetUserID, c.Query("month_request"), c.Query("year_request"), params.Page, params.PageSize)
	if err != nil {
		respondEmptyPage(c, params)
		return
	}
	respondPage(c, total, params, dto.ToWorkTimePayloads(entries, h.avatars.URL))
}

// Add handles POST /api/web-api/my-work-time/add.
func (h *WorkTimeHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.WorkTimeAddRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.workTimes.Add(userID, req)
	if err != nil {
		respondFail(c, err)
		return
	}
	h.audits.Record(userID, "worktime.create", "work_time", entry.ID)
	respondOK(c)
}

// Edit handles POST /api/web-api/my-work-time/edit. The work_time_request
// field selects edit or remove.
func (h *WorkTimeHandler) Edit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.WorkTimeEditRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.workTimes.Edit(userID, req); err != nil {
		respondFail(c, err)
		return
	}
	entryID, _, _ := utils.IntField(req.WorkTimeID)
	h.audits.Record(userID, "worktime."+req.WorkTimeRequest, "work_time", uint64(entryID))
	respondOK(c)
}

// MyStatistic handles GET /api/web-api/my-work-time/statistic?month_request=&year_request=.
func (h *WorkTimeHandler) MyStatistic(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sum, err := h.workTimes.MyStatistic(userID, c.Query("month_request"), c.Query("year_request"))
	if err != nil {
		respondEmptyObject(c)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// StatisticSpecific handles
// GET /api/web-api/work-time/member/statistic?user_id=&month_request=&year_request=.
func (h *WorkTimeHandler) StatisticSpecific(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetUserID, ok := queryUint(c, "user_id")
	if !ok {
		respondEmptyObject(c)
		return
	}

	sum, err := h.workTimes.MemberStatistic(userID, targetUserID, c.Query("month_request"), c.Query("year_request"))
	if err != nil {
		respondEmptyObject(c)
		return
	}
	c.JSON(http.StatusOK, sum)
}
