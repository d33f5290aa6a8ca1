package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/openkpi/kpi-manager-api/internal/audit"
	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/services"
	"github.com/openkpi/kpi-manager-api/internal/storage"
	"github.com/openkpi/kpi-manager-api/internal/utils"
)

// CommentHandler handles the task comment endpoints.
type CommentHandler struct {
	comments *services.CommentService
	avatars  *storage.AvatarStore
	audits   *audit.Publisher
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService, avatars *storage.AvatarStore, audits *audit.Publisher) *CommentHandler {
	return &CommentHandler{comments: comments, avatars: avatars, audits: audits}
}

// List handles GET /api/web-api/task/comment/list?task_id=. Visibility follows
// the task: its owner and the owner's supervisors.
func (h *CommentHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	taskID, ok := queryUint(c, "task_id")
	if !ok {
		respondEmptyPage(c, params)
		return
	}

	comments, total, err := h.comments.TaskComments(userID, taskID, params.Page, params.PageSize)
	if err != nil {
		respondEmptyPage(c, params)
		return
	}
	respondPage(c, total, params, h.comments.Payloads(comments, h.avatars.URL))
}

// Add handles POST /api/web-api/my-task/comment/add, a comment on the caller's
// own task.
func (h *CommentHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CommentAddRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.comments.AddToMyTask(userID, req)
	if err != nil {
		respondFail(c, err)
		return
	}
	h.audits.Record(userID, "comment.create", "comment", comment.ID)
	respondOK(c)
}

// AddSpecific handles POST /api/web-api/task/comment/add, a
// supervisor's comment on a member's task.
func (h *CommentHandler) AddSpecific(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.MemberCommentAddRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.comments.AddToMemberTask(userID, req)
	if err != nil {
		respondFail(c, err)
		return
	}
	h.audits.Record(userID, "comment.create", "comment", comment.ID)
	respondOK(c)
}

// Edit handles POST /api/web-api/my-task/comment/edit. Only the author gets here;
// cmt_request selects edit or remove.
func (h *CommentHandler) Edit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CommentEditRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.comments.Edit(userID, req); err != nil {
		respondFail(c, err)
		return
	}
	commentID, _, _ := utils.IntField(req.CommentID)
	h.audits.Record(userID, "comment."+req.CmtRequest, "comment", uint64(commentID))
	respondOK(c)
}
