package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/openkpi/kpi-manager-api/internal/constants"
	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"github.com/openkpi/kpi-manager-api/internal/repository"
	"github.com/openkpi/kpi-manager-api/internal/utils"
)

// WorkTimeService handles the daily attendance ledger. Total hours are
// derived once at write time and stored on the entry.
type WorkTimeService struct {
	workTimes repository.WorkTimeRepository
	identity  *IdentityService
}

// NewWorkTimeService creates a new WorkTimeService
func NewWorkTimeService(workTimes repository.WorkTimeRepository, identity *IdentityService) *WorkTimeService {
	return &WorkTimeService{workTimes: workTimes, identity: identity}
}

// MyList lists the caller's entries, optionally narrowed to one calendar
// month. An out-of-range month or year matches nothing.
func (s *WorkTimeService) MyList(userID uint64, month, year string, page, pageSize int) ([]models.WorkTime, int64, error) {
	member, err := s.identity.MemberByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	return s.list(member.ID, month, year, page, pageSize)
}

// MemberList lists one member's entries, subject to the visibility policy.
func (s *WorkTimeService) MemberList(actorUserID, targetUserID uint64, month, year string, page, pageSize int) ([]models.WorkTime, int64, error) {
	target, err := s.superviseTarget(actorUserID, targetUserID)
	if err != nil {
		return nil, 0, err
	}
	return s.list(target.ID, month, year, page, pageSize)
}

// Add validates and inserts one day's entry for the caller.
func (s *WorkTimeService) Add(userID uint64, req dto.WorkTimeAddRequest) (*models.WorkTime, error) {
	entry, err := buildEntry(req.Date, req.StartInDay, req.EndInDay, req.RestTime)
	if err != nil {
		return nil, err
	}

	member, err := s.identity.MemberByUserID(userID)
	if err != nil {
		return nil, ErrDataFault
	}
	entry.MemberID = member.ID

	if err := s.workTimes.Create(entry); err != nil {
		return nil, fmt.Errorf("failed to create work time: %w", err)
	}
	return entry, nil
}

// Edit applies the caller's edit or removal of one of their own entries.
func (s *WorkTimeService) Edit(userID uint64, req dto.WorkTimeEditRequest) error {
	entryID, present, ok := utils.IntField(req.WorkTimeID)
	if !present {
		return ErrWorkTimeRequired
	}
	if !ok || entryID <= 0 {
		return ErrDataFault
	}
	if req.WorkTimeRequest == "" {
		return ErrRequestRequired
	}
	if req.WorkTimeRequest != "edit" && req.WorkTimeRequest != "remove" {
		return ErrRequestInvalid
	}

	member, err := s.identity.MemberByUserID(userID)
	if err != nil {
		return ErrDataFault
	}
	entry, err := s.workTimes.FindByID(uint64(entryID), member.ID)
	if err != nil {
		return ErrDataFault
	}

	if req.WorkTimeRequest == "remove" {
		entry.Removed = true
	} else {
		edited, err := buildEntry(req.Date, req.StartInDay, req.EndInDay, req.RestTime)
		if err != nil {
			return err
		}
		entry.Date = edited.Date
		entry.StartInDay = edited.StartInDay
		entry.EndInDay = edited.EndInDay
		entry.RestTime = edited.RestTime
		entry.TimeTotal = edited.TimeTotal
	}
	if err := s.workTimes.Update(entry); err != nil {
		return fmt.Errorf("failed to update work time: %w", err)
	}
	return nil
}

// MyStatistic sums the caller's hours over one calendar month, defaulting
// to the current one. A sum over no entries is nil.
func (s *WorkTimeService) MyStatistic(userID uint64, month, year string) (*float64, error) {
	member, err := s.identity.MemberByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.monthSum(member.ID, month, year)
}

// MemberStatistic sums one member's monthly hours, subject to the
// visibility policy.
func (s *WorkTimeService) MemberStatistic(actorUserID, targetUserID uint64, month, year string) (*float64, error) {
	target, err := s.superviseTarget(actorUserID, targetUserID)
	if err != nil {
		return nil, err
	}
	return s.monthSum(target.ID, month, year)
}

func (s *WorkTimeService) superviseTarget(actorUserID, targetUserID uint64) (*models.DepartmentMember, error) {
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
	return target, nil
}

func (s *WorkTimeService) list(memberID uint64, month, year string, page, pageSize int) ([]models.WorkTime, int64, error) {
	filter := repository.WorkTimeFilter{MemberID: memberID, Page: page, PageSize: pageSize}
	// The month filter needs both parameters; a lone one is ignored.
	if month != "" && year != "" {
		from, to, err := monthBounds(month, year)
		if err != nil {
			return nil, 0, ErrNotFound
		}
		filter.From = &from
		filter.To = &to
	}
	entries, total, err := s.workTimes.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work times: %w", err)
	}
	return entries, total, nil
}

func (s *WorkTimeService) monthSum(memberID uint64, month, year string) (*float64, error) {
	var from, to time.Time
	if month != "" && year != "" {
		var err error
		from, to, err = monthBounds(month, year)
		if err != nil {
			return nil, ErrNotFound
		}
	} else {
		from, to = utils.MonthRange(time.Now())
	}
	sum, err := s.workTimes.SumBetween(memberID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum work time: %w", err)
	}
	return sum, nil
}

// monthBounds validates a month/year query pair and returns the month's
// half-open date range.
func monthBounds(month, year string) (time.Time, time.Time, error) {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q", month)
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < constants.MinYear || y > time.Now().Year() {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid year %q", year)
	}
	from, to := utils.MonthRangeOf(y, m, time.Local)
	return from, to, nil
}

// buildEntry validates the shared add/edit fields and derives the stored
// total. Hours are counted only when both clock bounds are present.
func buildEntry(dateStr, startStr, endStr string, rest json.Number) (*models.WorkTime, error) {
	if dateStr == "" {
		return nil, ErrDateRequired
	}
	if startStr == "" {
		return nil, ErrStartRequired
	}
	date, err := utils.ParseDateTime(dateStr)
	if err != nil {
		return nil, ErrDataFault
	}
	start, err := utils.ParseClock(startStr)
	if err != nil {
		return nil, ErrDataFault
	}

	restTime := 0.0
	if v, present, ok := utils.FloatField(rest); present {
		if !ok {
			return nil, ErrDataFault
		}
		restTime = v
	}

	entry := &models.WorkTime{
		Date:       date,
		StartInDay: startStr,
		EndInDay:   endStr,
		RestTime:   restTime,
	}
	if endStr != "" {
		end, err := utils.ParseClock(endStr)
		if err != nil {
			return nil, ErrDataFault
		}
		if end.Before(start) {
			return nil, ErrPeriodOrder
		}
		entry.TimeTotal = end.Sub(start).Hours() - restTime
	}
	return entry, nil
}
