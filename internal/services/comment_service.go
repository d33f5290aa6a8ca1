package services

import (
	"errors"
	"fmt"

	"github.com/openkpi/kpi-manager-api/internal/constants"
	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"github.com/openkpi/kpi-manager-api/internal/repository"
	"github.com/openkpi/kpi-manager-api/internal/utils"
	"gorm.io/gorm"
)

// CommentService handles remarks on tasks. Anyone who can see a task can
// read its comments; only the author can edit or remove one.
type CommentService struct {
	comments    repository.CommentRepository
	tasks       repository.TaskRepository
	departments repository.DepartmentRepository
	identity    *IdentityService
}

// NewCommentService creates a new CommentService
func NewCommentService(
	comments repository.CommentRepository,
	tasks repository.TaskRepository,
	departments repository.DepartmentRepository,
	identity *IdentityService,
) *CommentService {
	return &CommentService{comments: comments, tasks: tasks, departments: departments, identity: identity}
}

// TaskComments lists a task's comments for anyone allowed to see the
// task: its owner, or a supervisor of its owner.
func (s *CommentService) TaskComments(actorUserID, taskID uint64, page, pageSize int) ([]models.Comment, int64, error) {
	actor, err := s.identity.Resolve(actorUserID)
	if err != nil {
		return nil, 0, err
	}
	task, err := s.tasks.FindAnyByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("failed to find task: %w", err)
	}

	owns := actor.Member != nil && actor.Member.ID == task.MemberID
	if !owns && !actor.CanSupervise(&task.Member) {
		return nil, 0, ErrNotFound
	}

	comments, total, err := s.comments.List(taskID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

// AddToMyTask posts a comment on one of the caller's own tasks.
func (s *CommentService) AddToMyTask(userID uint64, req dto.CommentAddRequest) (*models.Comment, error) {
	taskID, present, ok := utils.IntField(req.TaskID)
	if !present {
		return nil, ErrTaskRequired
	}
	if !ok || taskID <= 0 {
		return nil, ErrTaskNotFound
	}
	if err := checkContent(req.Content); err != nil {
		return nil, err
	}

	actor, err := s.identity.Resolve(userID)
	if err != nil || actor.Member == nil {
		return nil, ErrDataFault
	}
	if _, err := s.tasks.FindByID(uint64(taskID), actor.Member.ID); err != nil {
		return nil, ErrDataFault
	}

	return s.create(uint64(taskID), actor.Profile.ID, req.Content)
}

// AddToMemberTask posts a supervisor's comment on a member's task.
func (s *CommentService) AddToMemberTask(actorUserID uint64, req dto.MemberCommentAddRequest) (*models.Comment, error) {
	targetUserID, present, ok := utils.IntField(req.UserID)
	if !present {
		return nil, ErrMemberRequired
	}
	if !ok || targetUserID <= 0 {
		return nil, ErrMemberNotFound
	}
	taskID, present, ok := utils.IntField(req.TaskID)
	if !present {
		return nil, ErrTaskRequired
	}
	if !ok || taskID <= 0 {
		return nil, ErrTaskNotFound
	}
	if err := checkContent(req.Content); err != nil {
		return nil, err
	}

	actor, err := s.identity.Resolve(actorUserID)
	if err != nil {
		return nil, ErrDataFault
	}
	if !actor.IsSupervisor() {
		return nil, ErrPermissionDenied
	}
	target, err := s.identity.MemberByUserID(uint64(targetUserID))
	if err != nil {
		return nil, ErrDataFault
	}
	if !actor.CanSupervise(target) {
		return nil, ErrPermissionDenied
	}
	if _, err := s.tasks.FindByID(uint64(taskID), target.ID); err != nil {
		return nil, ErrDataFault
	}

	return s.create(uint64(taskID), actor.Profile.ID, req.Content)
}

// Edit applies the author's edit or removal of their own comment.
func (s *CommentService) Edit(userID uint64, req dto.CommentEditRequest) error {
	commentID, present, ok := utils.IntField(req.CommentID)
	if !present {
		return ErrCommentRequired
	}
	if !ok || commentID <= 0 {
		return ErrDataFault
	}
	if req.CmtRequest == "" {
		return ErrRequestRequired
	}
	if req.CmtRequest != "edit" && req.CmtRequest != "remove" {
		return ErrRequestInvalid
	}

	actor, err := s.identity.Resolve(userID)
	if err != nil {
		return ErrDataFault
	}
	comment, err := s.comments.FindOwn(uint64(commentID), actor.Profile.ID)
	if err != nil {
		return ErrDataFault
	}

	if req.CmtRequest == "remove" {
		comment.Removed = true
	} else {
		if err := checkContent(req.Content); err != nil {
			return err
		}
		comment.Content = req.Content
	}
	if err := s.comments.Update(comment); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// Payloads converts comments, marking each author that leads their
// department.
func (s *CommentService) Payloads(comments []models.Comment, avatar func(string) string) []dto.CommentPayload {
	payloads := make([]dto.CommentPayload, len(comments))
	for i, comment := range comments {
		isLeader := false
		if member, err := s.departments.FindMemberByProfileID(comment.ProfileID); err == nil {
			isLeader = member.IsLeader
		}
		payloads[i] = dto.ToCommentPayload(comment, isLeader, avatar)
	}
	return payloads
}

func (s *CommentService) create(taskID, profileID uint64, content string) (*models.Comment, error) {
	comment := &models.Comment{TaskID: taskID, ProfileID: profileID, Content: content}
	if err := s.comments.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func checkContent(content string) error {
	if content == "" {
		return ErrContentRequired
	}
	if len([]rune(content)) > constants.MaxCommentLen {
		return ErrContentTooLong
	}
	return nil
}
