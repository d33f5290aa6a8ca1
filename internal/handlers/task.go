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

// TaskHandler handles the task endpoints.
type TaskHandler struct {
	tasks   *services.TaskService
	avatars *storage.AvatarStore
	audits  *audit.Publisher
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *services.TaskService, avatars *storage.AvatarStore, audits *audit.Publisher) *TaskHandler {
	return &TaskHandler{tasks: tasks, avatars: avatars, audits: audits}
}

// ListSpecific handles GET /api/web-api/task/list?user_id=&tag_id=.
func (h *TaskHandler) ListSpecific(c *gin.Context) {
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
	tagID, ok := queryUint(c, "tag_id")
	if !ok {
		respondEmptyPage(c, params)
		return
	}

	tasks, total, err := h.tasks.MemberTasks(userID, targetUserID, tagID, params.Page, params.PageSize)
	if err != nil {
		respondEmptyPage(c, params)
		return
	}
	respondPage(c, total, params, dto.ToTaskPayloads(tasks, h.avatars.URL))
}

// MyList handles GET /api/web-api/my-task/list?tag_id=.
func (h *TaskHandler) MyList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	tagID, ok := queryUint(c, "tag_id")
	if !ok {
		respondEmptyPage(c, params)
		return
	}

	tasks, total, err := h.tasks.MyTasks(userID, tagID, params.Page, params.PageSize)
	if err != nil {
		respondEmptyPage(c, params)
		return
	}
	respondPage(c, total, params, dto.ToTaskPayloads(tasks, h.avatars.URL))
}

// DetailSpecific handles GET /api/web-api/task/member/detail?user_id=&task_id=.
func (h *TaskHandler) DetailSpecific(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetUserID, ok := queryUint(c, "user_id")
	if !ok {
		respondEmptyObject(c)
		return
	}
	taskID, ok := queryUint(c, "task_id")
	if !ok {
		respondEmptyObject(c)
		return
	}

	task, err := h.tasks.MemberTaskDetail(userID, targetUserID, taskID)
	if err != nil {
		respondEmptyObject(c)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskPayload(*task, h.avatars.URL))
}

// MyDetail handles GET /api/web-api/my-task/detail?task_id=.
func (h *TaskHandler) MyDetail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := queryUint(c, "task_id")
	if !ok {
		respondEmptyObject(c)
		return
	}

	task, err := h.tasks.MyTaskDetail(userID, taskID)
	if err != nil {
		respondEmptyObject(c)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskPayload(*task, h.avatars.URL))
}

// Create handles POST /api/web-api/new-task/add.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.TaskCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.Create(userID, req)
	if err != nil {
		respondFail(c, err)
		return
	}
	h.audits.Record(userID, "task.create", "task", task.ID)
	respondOK(c)
}

// MyEdit handles POST /api/web-api/my-task/edit. The edit_task field
// selects the kind: remove, title, compact, or total.
func (h *TaskHandler) MyEdit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.MyTaskEditRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.tasks.SelfEdit(userID, req); err != nil {
		respondFail(c, err)
		return
	}
	taskID, _, _ := utils.IntField(req.TaskID)
	h.audits.Record(userID, "task."+req.EditTask, "task", uint64(taskID))
	respondOK(c)
}
