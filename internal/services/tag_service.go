package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openkpi/kpi-manager-api/internal/constants"
	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"github.com/openkpi/kpi-manager-api/internal/repository"
	"github.com/openkpi/kpi-manager-api/internal/utils"
	"gorm.io/gorm"
)

// TagService handles the KPI lifecycle: creation and edits by supervisors,
// progress updates by the owning employee, and the statistics folds.
type TagService struct {
	tags      repository.TagRepository
	profiles  repository.ProfileRepository
	workTimes repository.WorkTimeRepository
	identity  *IdentityService
}

// NewTagService creates a new TagService
func NewTagService(
	tags repository.TagRepository,
	profiles repository.ProfileRepository,
	workTimes repository.WorkTimeRepository,
	identity *IdentityService,
) *TagService {
	return &TagService{tags: tags, profiles: profiles, workTimes: workTimes, identity: identity}
}

// List returns the KPIs in the caller's management scope: every member's
// for a Director, the caller's department for a Manager, nobody's for an
// Employee. Department and global views order by last update.
func (s *TagService) List(actorUserID uint64, query string, page, pageSize int) ([]models.Tag, int64, error) {
	window, ok := repository.ParseTagWindow(query)
	if !ok {
		return nil, 0, ErrNotFound
	}
	actor, err := s.identity.Resolve(actorUserID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.TagFilter{Window: window, Page: page, PageSize: pageSize}
	switch {
	case actor.Profile.IsDirector():
	case actor.Profile.IsManager():
		if actor.Member == nil {
			return nil, 0, ErrNotFound
		}
		filter.DepartmentID = &actor.Member.DepartmentID
		filter.OrderByUpdated = true
	default:
		return nil, 0, ErrNotFound
	}

	return s.listTags(filter)
}

// MemberTags returns one member's KPIs, subject to the visibility policy.
func (s *TagService) MemberTags(actorUserID, targetUserID uint64, query string, page, pageSize int) ([]models.Tag, int64, error) {
	window, ok := repository.ParseTagWindow(query)
	if !ok {
		return nil, 0, ErrNotFound
	}
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

	return s.listTags(repository.TagFilter{
		MemberID: &target.ID,
		Window:   window,
		Page:     page,
		PageSize: pageSize,
	})
}

// MyTags returns the caller's own KPIs.
func (s *TagService) MyTags(userID uint64, query string, page, pageSize int) ([]models.Tag, int64, error) {
	window, ok := repository.ParseTagWindow(query)
	if !ok {
		return nil, 0, ErrNotFound
	}
	member, err := s.identity.MemberByUserID(userID)
	if err != nil {
		return nil, 0, err
	}

	return s.listTags(repository.TagFilter{
		MemberID: &member.ID,
		Window:   window,
		Page:     page,
		PageSize: pageSize,
	})
}

// MyTagBriefs returns every live KPI of the caller, compact and unpaged.
func (s *TagService) MyTagBriefs(userID uint64) ([]dto.TagBrief, error) {
	member, err := s.identity.MemberByUserID(userID)
	if err != nil {
		return nil, err
	}
	tags, _, err := s.tags.List(repository.TagFilter{
		MemberID: &member.ID,
		Window:   repository.TagWindowAll,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	briefs := make([]dto.TagBrief, len(tags))
	for i, tag := range tags {
		briefs[i] = dto.TagBrief{TagID: tag.ID, TagName: tag.Name}
	}
	return briefs, nil
}

// MemberTagDetail returns one KPI of one member, subject to the visibility
// policy.
func (s *TagService) MemberTagDetail(actorUserID, targetUserID, tagID uint64) (*models.Tag, error) {
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
	return s.findTag(tagID, target.ID)
}

// MyTagDetail returns one of the caller's own KPIs.
func (s *TagService) MyTagDetail(userID, tagID uint64) (*models.Tag, error) {
	member, err := s.identity.MemberByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.findTag(tagID, member.ID)
}

// Create validates and inserts a new KPI for a member. Only supervisors
// may create, and managers only within their own department.
func (s *TagService) Create(actorUserID uint64, req dto.TagCreateRequest) (*models.Tag, error) {
	actor, err := s.identity.Resolve(actorUserID)
	if err != nil {
		return nil, ErrDataFault
	}
	if !actor.IsSupervisor() {
		return nil, ErrPermissionDenied
	}

	profileID, present, ok := utils.IntField(req.ProfileID)
	if !present {
		return nil, ErrMemberRequired
	}
	if !ok || profileID <= 0 {
		return nil, ErrMemberNotFound
	}
	if req.TagName == "" {
		return nil, ErrTitleRequired
	}
	quantity, err := requireQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	weight, err := parseWeight(req.Weight)
	if err != nil {
		return nil, err
	}
	periodStart, periodEnd, err := requirePeriods(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	target, err := s.memberByProfileID(uint64(profileID))
	if err != nil {
		return nil, ErrMemberNotFound
	}
	if actor.Profile.IsManager() && (actor.Member == nil || actor.Member.DepartmentID != target.DepartmentID) {
		return nil, ErrNotYourDepartment
	}

	tag := &models.Tag{
		MemberID:    target.ID,
		Name:        req.TagName,
		Description: req.Description,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Weight:      weight,
		Quantity:    quantity,
		Finished:    0,
		Progress:    0,
		State:       models.StateInProgress,
		CreatedByID: actor.Profile.ID,
	}
	if err := s.tags.Create(tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// MemberEdit applies a supervisor's edit or removal of a member's KPI.
// Edits deliberately do not check the Completed state; only the employee's
// own update path locks a finished KPI.
func (s *TagService) MemberEdit(actorUserID uint64, req dto.TagMemberEditRequest) error {
	profileID, present, ok := utils.IntField(req.ProfileID)
	if !present {
		return ErrMemberRequired
	}
	if !ok || profileID <= 0 {
		return ErrMemberNotFound
	}
	tagID, present, ok := utils.IntField(req.TagID)
	if !present {
		return ErrTagRequired
	}
	if !ok || tagID <= 0 {
		return ErrTagNotFound
	}
	if req.TagRequest == "" {
		return ErrRequestRequired
	}
	if req.TagRequest != "edit" && req.TagRequest != "remove" {
		return ErrRequestInvalid
	}

	actor, err := s.identity.Resolve(actorUserID)
	if err != nil {
		return ErrDataFault
	}
	if !actor.IsSupervisor() {
		return ErrPermissionDenied
	}

	if req.TagRequest == "remove" {
		target, err := s.memberByProfileID(uint64(profileID))
		if err != nil {
			return ErrDataFault
		}
		if actor.Profile.IsManager() && (actor.Member == nil || actor.Member.DepartmentID != target.DepartmentID) {
			return ErrPermissionDenied
		}
		tag, err := s.findTag(uint64(tagID), target.ID)
		if err != nil {
			return ErrDataFault
		}
		tag.Removed = true
		if err := s.tags.Update(tag); err != nil {
			return fmt.Errorf("failed to remove tag: %w", err)
		}
		return nil
	}

	if req.TagName == "" {
		return ErrTitleRequired
	}
	quantity, err := requireQuantity(req.Quantity)
	if err != nil {
		return err
	}
	weight, err := parseWeight(req.Weight)
	if err != nil {
		return err
	}
	periodStart, periodEnd, err := requirePeriods(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return err
	}

	target, err := s.memberByProfileID(uint64(profileID))
	if err != nil {
		return ErrDataFault
	}
	if actor.Profile.IsManager() && (actor.Member == nil || actor.Member.DepartmentID != target.DepartmentID) {
		return ErrPermissionDenied
	}
	tag, err := s.findTag(uint64(tagID), target.ID)
	if err != nil {
		return ErrDataFault
	}

	tag.Name = req.TagName
	tag.Description = req.Description
	tag.PeriodStart = periodStart
	tag.PeriodEnd = periodEnd
	tag.Weight = weight
	tag.Quantity = quantity
	tag.CreatedByID = actor.Profile.ID
	tag.Progress = models.Percent(tag.Finished, quantity)

	if err := s.tags.Update(tag); err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}
	return nil
}

// SelfEdit applies the owning employee's progress update. A Completed KPI
// is locked.
func (s *TagService) SelfEdit(userID uint64, req dto.MyTagEditRequest) error {
	profileID, present, ok := utils.IntField(req.ProfileID)
	if !present {
		return ErrMemberRequired
	}
	if !ok || profileID <= 0 {
		return ErrMemberNotFound
	}
	tagID, present, ok := utils.IntField(req.TagID)
	if !present {
		return ErrTagRequired
	}
	if !ok || tagID <= 0 {
		return ErrTagNotFound
	}
	if req.TagState == "" {
		return ErrStateRequired
	}
	state, ok := models.StateFromDisplay(req.TagState)
	if !ok {
		return ErrStateInvalid
	}
	finished, present, ok := utils.IntField(req.Finished)
	if !present {
		return ErrFinishedRequired
	}
	if !ok {
		return ErrFinishedNotNumber
	}

	member, err := s.ownMember(userID, uint64(profileID))
	if err != nil {
		return err
	}
	tag, err := s.findTag(uint64(tagID), member.ID)
	if err != nil {
		return ErrDataFault
	}
	if tag.State == models.StateCompleted {
		return ErrTagCompleted
	}

	tag.Finished = finished
	tag.Progress = models.Percent(finished, tag.Quantity)
	tag.State = state

	if err := s.tags.Update(tag); err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}
	return nil
}

// Computation re-derives one of the caller's KPIs from its completed
// tasks.
func (s *TagService) Computation(userID uint64, req dto.TagComputationRequest) error {
	profileID, present, ok := utils.IntField(req.ProfileID)
	if !present {
		return ErrMemberRequired
	}
	if !ok || profileID <= 0 {
		return ErrMemberNotFound
	}
	tagID, present, ok := utils.IntField(req.TagID)
	if !present {
		return ErrTagRequired
	}
	if !ok || tagID <= 0 {
		return ErrTagNotFound
	}

	member, err := s.ownMember(userID, uint64(profileID))
	if err != nil {
		return err
	}
	if err := s.tags.Recompute(uint64(tagID), member.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDataFault
		}
		return fmt.Errorf("failed to recompute tag: %w", err)
	}
	return nil
}

// MyStats returns the caller's KPI counts under the given window plus
// their hours this month. An unrecognized window keeps the hours and
// zeroes the counts.
func (s *TagService) MyStats(userID uint64, query string) (*dto.TagStats, error) {
	member, err := s.identity.MemberByUserID(userID)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := utils.MonthRange(time.Now())
	totalTime, err := s.workTimes.SumBetween(member.ID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum work time: %w", err)
	}

	stats := &dto.TagStats{TotalTime: totalTime}
	window, ok := repository.ParseTagWindow(query)
	if !ok {
		return stats, nil
	}

	counts, err := s.tags.StateCounts(repository.TagFilter{MemberID: &member.ID, Window: window})
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}
	fillStats(stats, counts)
	return stats, nil
}

// MemberStats returns a member's current-month KPI counts and hours,
// subject to the visibility policy. The month scope is fixed regardless
// of any window parameter.
func (s *TagService) MemberStats(actorUserID, targetUserID uint64) (*dto.TagStats, error) {
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

	monthStart, monthEnd := utils.MonthRange(time.Now())
	totalTime, err := s.workTimes.SumBetween(target.ID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum work time: %w", err)
	}
	counts, err := s.tags.StateCounts(repository.TagFilter{
		MemberID:    &target.ID,
		Window:      repository.TagWindowAll,
		CreatedFrom: &monthStart,
		CreatedTo:   &monthEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}

	stats := &dto.TagStats{TotalTime: totalTime}
	fillStats(stats, counts)
	return stats, nil
}

// GlobalStats returns the KPI counts over the caller's management scope.
// No match at all collapses to an empty payload.
func (s *TagService) GlobalStats(actorUserID uint64, query string) (*dto.GlobalTagStats, error) {
	window, ok := repository.ParseTagWindow(query)
	if !ok {
		return nil, ErrNotFound
	}
	actor, err := s.identity.Resolve(actorUserID)
	if err != nil {
		return nil, err
	}

	filter := repository.TagFilter{Window: window}
	switch {
	case actor.Profile.IsDirector():
	case actor.Profile.IsManager():
		if actor.Member == nil {
			return nil, ErrNotFound
		}
		filter.DepartmentID = &actor.Member.DepartmentID
	default:
		return nil, ErrNotFound
	}

	counts, err := s.tags.StateCounts(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}
	if counts.Total == 0 {
		return nil, ErrNotFound
	}
	return &dto.GlobalTagStats{
		Total:           counts.Total,
		CountFinished:   counts.Finished,
		CountProgress:   counts.InProgress,
		CountUnFinished: counts.NotStarted,
	}, nil
}

func (s *TagService) listTags(filter repository.TagFilter) ([]models.Tag, int64, error) {
	tags, total, err := s.tags.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, total, nil
}

func (s *TagService) findTag(tagID, memberID uint64) (*models.Tag, error) {
	tag, err := s.tags.FindByID(tagID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	return tag, nil
}

// memberByProfileID resolves a target member through their profile ID.
func (s *TagService) memberByProfileID(profileID uint64) (*models.DepartmentMember, error) {
	profile, err := s.profiles.FindByID(profileID)
	if err != nil {
		return nil, err
	}
	return s.identity.departments.FindMemberByProfileID(profile.ID)
}

// ownMember checks that the given profile ID is the caller's own and
// returns the caller's membership.
func (s *TagService) ownMember(userID, profileID uint64) (*models.DepartmentMember, error) {
	profile, err := s.profiles.FindByUserID(userID)
	if err != nil || profile.ID != profileID {
		return nil, ErrDataFault
	}
	member, err := s.identity.departments.FindMemberByProfileID(profile.ID)
	if err != nil {
		return nil, ErrDataFault
	}
	return member, nil
}

func fillStats(stats *dto.TagStats, counts repository.StateCounts) {
	stats.TotalTag = counts.Total
	stats.CountFinished = counts.Finished
	stats.CountProgress = counts.InProgress
	stats.CountUnFinished = counts.NotStarted
}

// requireQuantity parses the mandatory quantity field.
func requireQuantity(n json.Number) (int, error) {
	quantity, present, ok := utils.IntField(n)
	if !present {
		return 0, ErrQuantityRequired
	}
	if !ok {
		return 0, ErrQuantityNotNumber
	}
	return quantity, nil
}

// parseWeight parses the optional weight field, defaulting to 1.
func parseWeight(n json.Number) (int, error) {
	weight, present, ok := utils.IntField(n)
	if !present {
		return 1, nil
	}
	if !ok {
		return 0, ErrWeightNotNumber
	}
	if weight < constants.MinWeight || weight > constants.MaxWeight {
		return 0, ErrWeightOutOfRange
	}
	return weight, nil
}

// requirePeriods parses a mandatory period pair.
func requirePeriods(startStr, endStr string) (*time.Time, *time.Time, error) {
	if startStr == "" {
		return nil, nil, ErrPeriodStartMissing
	}
	if endStr == "" {
		return nil, nil, ErrPeriodEndMissing
	}
	start, err := utils.ParseDateTime(startStr)
	if err != nil {
		return nil, nil, ErrDataFault
	}
	end, err := utils.ParseDateTime(endStr)
	if err != nil {
		return nil, nil, ErrDataFault
	}
	if end.Before(start) {
		return nil, nil, ErrPeriodOrder
	}
	return &start, &end, nil
}

// optionalPeriods parses a period pair where both bounds may be absent,
// but not just one of them.
func optionalPeriods(startStr, endStr string) (*time.Time, *time.Time, error) {
	if startStr == "" && endStr == "" {
		return nil, nil, nil
	}
	if startStr != "" && endStr == "" {
		return nil, nil, ErrPeriodEndMissing
	}
	if startStr == "" && endStr != "" {
		return nil, nil, ErrPeriodStartMissing
	}
	return requirePeriods(startStr, endStr)
}
