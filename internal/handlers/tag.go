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

// TagHandler handles the KPI endpoints, including the statistic blocks.
type TagHandler struct {
	tags    *services.TagService
	avatars *storage.AvatarStore
	audits  *audit.Publisher
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tags *services.TagService, avatars *storage.AvatarStore, audits *audit.Publisher) *TagHandler {
	return &TagHandler{tags: tags, avatars: avatars, audits: audits}
}

// List handles GET /api/web-api/tag/list?query=, the management-scope
// listing.
func (h *TagHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	tags, total, err := h.tags.List(userID, c.Query("query"), params.Page, params.PageSize)
	if err != nil {
		respondEmptyPage(c, params)
		return
	}
	respondPage(c, total, params, dto.ToTagPayloads(tags, h.avatars.URL))
}

// ListSpecific handles GET /api/web-api/tag/member?user_id=&query=.
func (h *TagHandler) ListSpecific(c *gin.Context) {
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
	tags, total, err := h.tags.MemberTags(userID, targetUserID, c.Query("query"), params.Page, params.PageSize)
	if err != nil {
		respondEmptyPage(c, params)
		return
	}
	respondPage(c, total, params, dto.ToTagPayloads(tags, h.avatars.URL))
}

// MyList handles GET /api/web-api/my-tag/list?query=.
func (h *TagHandler) MyList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	tags, total, err := h.tags.MyTags(userID, c.Query("query"), params.Page, params.PageSize)
	if err != nil {
		respondEmptyPage(c, params)
		return
	}
	respondPage(c, total, params, dto.ToTagPayloads(tags, h.avatars.URL))
}

// MyListNoPagination handles GET /api/web-api/my-tag/list/no-pagination,
// the compact form used to fill pickers.
func (h *TagHandler) MyListNoPagination(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	briefs, err := h.tags.MyTagBriefs(userID)
	if err != nil {
		c.JSON(http.StatusOK, []struct{}{})
		return
	}
	c.JSON(http.StatusOK, briefs)
}

// DetailSpecific handles GET /api/web-api/tag/member/detail?user_id=&tag_id=.
func (h *TagHandler) DetailSpecific(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetUserID, ok := queryUint(c, "user_id")
	if !ok {
		respondEmptyObject(c)
		return
	}
	tagID, ok := queryUint(c, "tag_id")
	if !ok {
		respondEmptyObject(c)
		return
	}

	tag, err := h.tags.MemberTagDetail(userID, targetUserID, tagID)
	if err != nil {
		respondEmptyObject(c)
		return
	}
	c.JSON(http.StatusOK, dto.ToTagPayload(*tag, h.avatars.URL))
}

// MyDetail handles GET /api/web-api/my-tag/detail?tag_id=.
func (h *TagHandler) MyDetail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tagID, ok := queryUint(c, "tag_id")
	if !ok {
		respondEmptyObject(c)
		return
	}

	tag, err := h.tags.MyTagDetail(userID, tagID)
	if err != nil {
		respondEmptyObject(c)
		return
	}
	c.JSON(http.StatusOK, dto.ToTagPayload(*tag, h.avatars.URL))
}

// Create handles POST /api/web-api/new-tag/add.
func (h *TagHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.TagCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.tags.Create(userID, req)
	if err != nil {
		respondFail(c, err)
		return
	}
	h.audits.Record(userID, "tag.create", "tag", tag.ID)
	respondOK(c)
}

// MemberEdit handles POST /api/web-api/tag/member/edit, the supervisor's edit or
// removal of a member's KPI.
func (h *TagHandler) MemberEdit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.TagMemberEditRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.tags.MemberEdit(userID, req); err != nil {
		respondFail(c, err)
		return
	}
	tagID, _, _ := utils.IntField(req.TagID)
	h.audits.Record(userID, "tag."+req.TagRequest, "tag", uint64(tagID))
	respondOK(c)
}

// MyEdit handles POST /api/web-api/my-tag/edit, the owner's progress
// update.
func (h *TagHandler) MyEdit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.MyTagEditRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.tags.SelfEdit(userID, req); err != nil {
		respondFail(c, err)
		return
	}
	tagID, _, _ := utils.IntField(req.TagID)
	h.audits.Record(userID, "tag.progress", "tag", uint64(tagID))
	respondOK(c)
}

// Computation handles POST /api/web-api/my-tag/computation, re-deriving a
// KPI from its completed tasks.
func (h *TagHandler) Computation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.TagComputationRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.tags.Computation(userID, req); err != nil {
		respondFail(c, err)
		return
	}
	tagID, _, _ := utils.IntField(req.TagID)
	h.audits.Record(userID, "tag.recompute", "tag", uint64(tagID))
	respondOK(c)
}

// MyStatistic handles GET /api/web-api/my-tag/list/statistics?query=.
func (h *TagHandler) MyStatistic(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.tags.MyStats(userID, c.Query("query"))
	if err != nil {
		respondEmptyObject(c)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// StatisticSpecific handles GET /api/web-api/tag/member/list/statistics?user_id=,
// a member's current-month numbers.
func (h *TagHandler) StatisticSpecific(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetUserID, ok := queryUint(c, "user_id")
	if !ok {
		respondEmptyObject(c)
		return
	}

	stats, err := h.tags.MemberStats(userID, targetUserID)
	if err != nil {
		respondEmptyObject(c)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Statistic handles GET /api/web-api/tag/list/statistics?query=, the
// management-scope totals. No matching KPI at all answers an empty
// object.
func (h *TagHandler) Statistic(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.tags.GlobalStats(userID, c.Query("query"))
	if err != nil {
		respondEmptyObject(c)
		return
	}
	c.JSON(http.StatusOK, stats)
}
