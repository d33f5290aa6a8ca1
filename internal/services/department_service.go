package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/repository"
	"github.com/openkpi/kpi-manager-api/internal/storage"
	"github.com/openkpi/kpi-manager-api/internal/utils"
	"gorm.io/gorm"
)

// DepartmentService handles department listings and rosters.
type DepartmentService struct {
	departments repository.DepartmentRepository
	tags        repository.TagRepository
	workTimes   repository.WorkTimeRepository
	identity    *IdentityService
	avatars     *storage.AvatarStore
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(
	departments repository.DepartmentRepository,
	tags repository.TagRepository,
	workTimes repository.WorkTimeRepository,
	identity *IdentityService,
	avatars *storage.AvatarStore,
) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		tags:        tags,
		workTimes:   workTimes,
		identity:    identity,
		avatars:     avatars,
	}
}

// List returns department rows with their leader summary and member count.
func (s *DepartmentService) List(page, pageSize int) ([]dto.DepartmentPayload, int64, error) {
	departments, total, err := s.departments.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list departments: %w", err)
	}

	payloads := make([]dto.DepartmentPayload, len(departments))
	for i, dept := range departments {
		payload := dto.DepartmentPayload{
			DepartmentID:    dept.ID,
			DepartmentName:  dept.Name,
			DepartmentDesc:  dept.Description,
			DepartmentLevel: dept.Level,
		}
		if leader, err := s.departments.FindLeader(dept.ID); err == nil {
			payload.Leader = leader.Profile.FullName
			payload.LeaderTitle = leader.Position
			payload.AvatarURL = s.avatars.URL(leader.Profile.AvatarKey)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("failed to find department leader: %w", err)
		}
		count, err := s.departments.CountMembers(dept.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to count members: %w", err)
		}
		payload.TotalMember = count
		payloads[i] = payload
	}
	return payloads, total, nil
}

// Briefs returns the compact department list for supervisors.
func (s *DepartmentService) Briefs(actorUserID uint64) ([]dto.DepartmentBrief, error) {
	actor, err := s.identity.Resolve(actorUserID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSupervisor() {
		return nil, ErrNotFound
	}

	departments, err := s.departments.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	briefs := make([]dto.DepartmentBrief, len(departments))
	for i, dept := range departments {
		briefs[i] = dto.DepartmentBrief{
			DepartmentID:    dept.ID,
			DepartmentName:  dept.Name,
			DepartmentLevel: dept.Level,
		}
	}
	return briefs, nil
}

// Members returns the roster the caller may see, each row carrying the
// member's current-month hours and KPI counts.
func (s *DepartmentService) Members(actorUserID uint64, departmentID *uint64, page, pageSize int) ([]dto.MemberPayload, int64, error) {
	actor, err := s.identity.Resolve(actorUserID)
	if err != nil {
		return nil, 0, err
	}

	scope := departmentID
	switch {
	case actor.Profile.IsDirector():
		// any scope, including none
	case actor.Profile.IsManager():
		if actor.Member == nil {
			return nil, 0, ErrNotFound
		}
		if departmentID != nil && *departmentID != actor.Member.DepartmentID {
			return nil, 0, ErrNotFound
		}
		own := actor.Member.DepartmentID
		scope = &own
	default:
		return nil, 0, ErrNotFound
	}

	members, total, err := s.departments.ListMembers(repository.MemberFilter{
		DepartmentID: scope,
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}

	monthStart, monthEnd := utils.MonthRange(time.Now())
	payloads := make([]dto.MemberPayload, len(members))
	for i, member := range members {
		totalTime, err := s.workTimes.SumBetween(member.ID, monthStart, monthEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to sum work time: %w", err)
		}
		memberID := member.ID
		counts, err := s.tags.StateCounts(repository.TagFilter{
			MemberID:    &memberID,
			Window:      repository.TagWindowAll,
			CreatedFrom: &monthStart,
			CreatedTo:   &monthEnd,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to count tags: %w", err)
		}

		payloads[i] = dto.MemberPayload{
			UserID:           member.Profile.UserID,
			FullName:         member.Profile.FullName,
			Sex:              member.Profile.Sex.Display(),
			BirthDay:         member.Profile.BirthDay,
			IDNumber:         member.Profile.IDNumber,
			Address:          member.Profile.Address,
			AvatarURL:        s.avatars.URL(member.Profile.AvatarKey),
			Position:         member.Position,
			IsLeader:         member.IsLeader,
			Department:       member.Department.Name,
			TotalTime:        totalTime,
			TotalTag:         counts.Total,
			TotalTagFinished: counts.Finished,
		}
	}
	return payloads, total, nil
}
