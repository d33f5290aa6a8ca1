package services

import (
	"errors"
	"fmt"

	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"github.com/openkpi/kpi-manager-api/internal/repository"
	"github.com/openkpi/kpi-manager-api/internal/utils"
	"gorm.io/gorm"
)

// TaskService handles the sub-deliverables under a KPI. Tasks belong to
// the KPI owner; supervisors only read them.
type TaskService struct {
	tasks    repository.TaskRepository
	tags     repository.TagRepository
	identity *IdentityService
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks repository.TaskRepository, tags repository.TagRepository, identity *IdentityService) *TaskService {
	return &TaskService{tasks: tasks, tags: tags, identity: identity}
}

// MemberTasks lists one member's tasks under a KPI, subject to the
// visibility policy.
func (s *TaskService) MemberTasks(actorUserID, targetUserID, tagID uint64, page, pageSize int) ([]models.Task, int64, error) {
	actor, err := s.identity.Resolve(actorUserID)
	if err != nil {
		return nil, 0, err
	}
	target, err := s.identity.MemberByUserID(targetUserID)
	if err != nil {
		return nil, 0, err
	}
	if !actor.CanSupervise(target) {
		return nil, 0, ErrNotFound
	}
	return s.listTasks(target.ID, tagID, page, pageSize)
}

// MyTasks lists the caller's own tasks under a KPI.
func (s *TaskService) MyTasks(userID, tagID uint64, page, pageSize int) ([]models.Task, int64, error) {
	member, err := s.identity.MemberByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	return s.listTasks(member.ID, tagID, page, pageSize)
}

// MemberTaskDetail returns one member's task, subject to the visibility
// policy.
func (s *TaskService) MemberTaskDetail(actorUserID, targetUserID, taskID uint64) (*models.Task, error) {
	actor, err := s.identity.Resolve(actorUserID)
	if err != nil {
		return nil, err
	}
	target, err := s.identity.MemberByUserID(targetUserID)
	if err != nil {
		return nil, err
	}
	if !actor.CanSupervise(target) {
		return nil, ErrNotFound
	}
	return s.findTask(taskID, target.ID)
}

// MyTaskDetail returns one of the caller's own tasks.
func (s *TaskService) MyTaskDetail(userID, taskID uint64) (*models.Task, error) {
	member, err := s.identity.MemberByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.findTask(taskID, member.ID)
}

// Create validates and inserts a task under one of the caller's own KPIs.
// A Completed KPI accepts no further tasks.
func (s *TaskService) Create(userID uint64, req dto.TaskCreateRequest) (*models.Task, error) {
	tagID, present, ok := utils.IntField(req.TagID)
	if !present {
		return nil, ErrTagRequired
	}
	if !ok || tagID <= 0 {
		return nil, ErrTagNotFound
	}
	if req.TaskName == "" {
		return nil, ErrTitleRequired
	}
	target, present, ok := utils.IntField(req.TargetValue)
	if !present {
		return nil, ErrTargetRequired
	}
	if !ok {
		return nil, ErrTargetNotNumber
	}
	weight, err := parseWeight(req.Weight)
	if err != nil {
		return nil, err
	}
	periodStart, periodEnd, err := optionalPeriods(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	member, err := s.identity.MemberByUserID(userID)
	if err != nil {
		return nil, ErrDataFault
	}
	tag, err := s.tags.FindByID(uint64(tagID), member.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	if tag.State == models.StateCompleted {
		return nil, ErrTagCompletedTask
	}

	task := &models.Task{
		MemberID:      member.ID,
		TagID:         tag.ID,
		Name:          req.TaskName,
		Description:   req.Description,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		UnitOfMeasure: req.UnitOfMeasure,
		TargetValue:   target,
		ResultValue:   0,
		Progress:      0,
		Weight:        weight,
		State:         models.StateInProgress,
	}
	if err := s.tasks.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// SelfEdit applies one of the four task edit kinds on the caller's own
// task. Result and state changes latch IsFinished on completion and
// re-derive the parent KPI.
func (s *TaskService) SelfEdit(userID uint64, req dto.MyTaskEditRequest) error {
	tagID, present, ok := utils.IntField(req.TagID)
	if !present {
		return ErrTagRequired
	}
	if !ok || tagID <= 0 {
		return ErrTagNotFound
	}
	taskID, present, ok := utils.IntField(req.TaskID)
	if !present {
		return ErrTaskRequired
	}
	if !ok || taskID <= 0 {
		return ErrTaskNotFound
	}
	if req.EditTask == "" {
		return ErrRequestRequired
	}

	member, err := s.identity.MemberByUserID(userID)
	if err != nil {
		return ErrDataFault
	}

	switch req.EditTask {
	case "remove":
		return s.remove(uint64(tagID), uint64(taskID), member.ID)
	case "title":
		return s.editTitle(uint64(taskID), member.ID, req)
	case "compact":
		return s.editCompact(uint64(tagID), uint64(taskID), member.ID, req)
	case "total":
		return s.editTotal(uint64(tagID), uint64(taskID), member.ID, req)
	}
	return ErrRequestInvalid
}

// remove soft-deletes a task. Dropping a completed task shrinks the KPI's
// achieved total, so the parent is re-derived afterwards.
func (s *TaskService) remove(tagID, taskID, memberID uint64) error {
	task, err := s.findTask(taskID, memberID)
	if err != nil {
		return ErrDataFault
	}
	wasCompleted := task.State == models.StateCompleted
	task.Removed = true
	if err := s.tasks.Update(task); err != nil {
		return fmt.Errorf("failed to remove task: %w", err)
	}
	if wasCompleted {
		return s.recomputeTag(tagID, memberID)
	}
	return nil
}

func (s *TaskService) editTitle(taskID, memberID uint64, req dto.MyTaskEditRequest) error {
	if req.TaskName == "" {
		return ErrTitleRequired
	}
	task, err := s.findTask(taskID, memberID)
	if err != nil {
		return ErrDataFault
	}
	task.Name = req.TaskName
	task.Description = req.Description
	if err := s.tasks.Update(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// editCompact updates only the result and state.
func (s *TaskService) editCompact(tagID, taskID, memberID uint64, req dto.MyTaskEditRequest) error {
	result, present, ok := utils.IntField(req.ResultValue)
	if !present {
		return ErrResultRequired
	}
	if !ok {
		return ErrResultNotNumber
	}
	if req.TaskState == "" {
		return ErrStateRequired
	}
	state, ok := models.StateFromDisplay(req.TaskState)
	if !ok {
		return ErrStateInvalid
	}

	task, err := s.findTask(taskID, memberID)
	if err != nil {
		return ErrDataFault
	}
	if task.IsFinished {
		return ErrTaskFinished
	}

	task.ResultValue = result
	task.Progress = models.Percent(result, task.TargetValue)
	task.State = state
	if state == models.StateCompleted {
		task.IsFinished = true
	}
	if err := s.tasks.Update(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if state == models.StateCompleted {
		return s.recomputeTag(tagID, memberID)
	}
	return nil
}

// editTotal rewrites the whole task.
func (s *TaskService) editTotal(tagID, taskID, memberID uint64, req dto.MyTaskEditRequest) error {
	if req.TaskName == "" {
		return ErrTitleRequired
	}
	target, present, ok := utils.IntField(req.TargetValue)
	if !present {
		return ErrTargetRequired
	}
	if !ok {
		return ErrTargetNotNumber
	}
	result, present, ok := utils.IntField(req.ResultValue)
	if !present {
		return ErrResultRequired
	}
	if !ok {
		return ErrResultNotNumber
	}
	weight, err := parseWeight(req.Weight)
	if err != nil {
		return err
	}
	if req.TaskState == "" {
		return ErrStateRequired
	}
	state, ok := models.StateFromDisplay(req.TaskState)
	if !ok {
		return ErrStateInvalid
	}
	periodStart, periodEnd, err := optionalPeriods(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return err
	}

	task, err := s.findTask(taskID, memberID)
	if err != nil {
		return ErrDataFault
	}
	if task.IsFinished {
		return ErrTaskFinished
	}

	task.Name = req.TaskName
	task.Description = req.Description
	task.UnitOfMeasure = req.UnitOfMeasure
	task.TargetValue = target
	task.ResultValue = result
	task.Progress = models.Percent(result, target)
	task.Weight = weight
	task.State = state
	if periodStart != nil {
		task.PeriodStart = periodStart
		task.PeriodEnd = periodEnd
	}
	if state == models.StateCompleted {
		task.IsFinished = true
	}
	if err := s.tasks.Update(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if state == models.StateCompleted {
		return s.recomputeTag(tagID, memberID)
	}
	return nil
}

func (s *TaskService) recomputeTag(tagID, memberID uint64) error {
	if err := s.tags.Recompute(tagID, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDataFault
		}
		return fmt.Errorf("failed to recompute tag: %w", err)
	}
	return nil
}

func (s *TaskService) listTasks(memberID, tagID uint64, page, pageSize int) ([]models.Task, int64, error) {
	tasks, total, err := s.tasks.List(memberID, tagID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

func (s *TaskService) findTask(taskID, memberID uint64) (*models.Task, error) {
	task, err := s.tasks.FindByID(taskID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
