package services

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"github.com/stretchr/testify/require"
)

func num(v int) json.Number {
	return json.Number(strconv.Itoa(v))
}

func newTagService(env *testEnv) *TagService {
	return NewTagService(env.tags, env.profiles, env.workTimes, env.identity)
}

func validCreateRequest(profileID uint64) dto.TagCreateRequest {
	start := time.Now().Format("2006-01-02 15:04:05")
	end := time.Now().AddDate(0, 1, 0).Format("2006-01-02 15:04:05")
	return dto.TagCreateRequest{
		ProfileID:   num(int(profileID)),
		TagName:     "Ship quarterly report",
		Description: "All sections reviewed",
		PeriodStart: start,
		PeriodEnd:   end,
		Quantity:    num(10),
		Weight:      num(3),
	}
}

func TestTagService_Create(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	tag, err := svc.Create(env.director.ID, validCreateRequest(env.employeeProfile.ID))
	require.NoError(t, err)
	require.Equal(t, env.employeeMember.ID, tag.MemberID)
	require.Equal(t, models.StateInProgress, tag.State)
	require.Equal(t, 0, tag.Finished)
	require.Equal(t, float64(0), tag.Progress)
	require.Equal(t, env.directorProfile.ID, tag.CreatedByID)
	require.Equal(t, 3, tag.Weight)
}

func TestTagService_CreateDefaultsWeight(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	req := validCreateRequest(env.employeeProfile.ID)
	req.Weight = ""
	tag, err := svc.Create(env.director.ID, req)
	require.NoError(t, err)
	require.Equal(t, 1, tag.Weight)
}

func TestTagService_CreateValidation(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	cases := []struct {
		name    string
		mutate  func(*dto.TagCreateRequest)
		wantErr error
	}{
		{"missing member", func(r *dto.TagCreateRequest) { r.ProfileID = "" }, ErrMemberRequired},
		{"bad member", func(r *dto.TagCreateRequest) { r.ProfileID = "5.5" }, ErrMemberNotFound},
		{"missing title", func(r *dto.TagCreateRequest) { r.TagName = "" }, ErrTitleRequired},
		{"missing quantity", func(r *dto.TagCreateRequest) { r.Quantity = "" }, ErrQuantityRequired},
		{"bad quantity", func(r *dto.TagCreateRequest) { r.Quantity = "2.5" }, ErrQuantityNotNumber},
		{"bad weight", func(r *dto.TagCreateRequest) { r.Weight = "1.5" }, ErrWeightNotNumber},
		{"weight too high", func(r *dto.TagCreateRequest) { r.Weight = num(11) }, ErrWeightOutOfRange},
		{"weight too low", func(r *dto.TagCreateRequest) { r.Weight = num(0) }, ErrWeightOutOfRange},
		{"missing start", func(r *dto.TagCreateRequest) { r.PeriodStart = "" }, ErrPeriodStartMissing},
		{"missing end", func(r *dto.TagCreateRequest) { r.PeriodEnd = "" }, ErrPeriodEndMissing},
		{"end before start", func(r *dto.TagCreateRequest) {
			r.PeriodStart = "2025-06-01 00:00:00"
			r.PeriodEnd = "2025-05-01 00:00:00"
		}, ErrPeriodOrder},
		{"unknown member", func(r *dto.TagCreateRequest) { r.ProfileID = num(99999) }, ErrMemberNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest(env.employeeProfile.ID)
			tc.mutate(&req)
			_, err := svc.Create(env.director.ID, req)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestTagService_CreateRoleGates(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	_, err := svc.Create(env.employee.ID, validCreateRequest(env.employeeProfile.ID))
	require.ErrorIs(t, err, ErrPermissionDenied)

	// Managers cannot assign outside their own department.
	_, err = svc.Create(env.manager.ID, validCreateRequest(env.outsiderProfile.ID))
	require.ErrorIs(t, err, ErrNotYourDepartment)

	_, err = svc.Create(env.manager.ID, validCreateRequest(env.employeeProfile.ID))
	require.NoError(t, err)
}

func TestTagService_ListVisibility(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	future := time.Now().AddDate(0, 1, 0)
	env.seedTag(t, env.employeeMember, "Engineering goal", models.StateInProgress, future)
	env.seedTag(t, env.outsiderMember, "Sales goal", models.StateInProgress, future)

	tags, total, err := svc.List(env.director.ID, "", 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, tags, 2)

	tags, total, err = svc.List(env.manager.ID, "", 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Engineering goal", tags[0].Name)

	_, _, err = svc.List(env.employee.ID, "", 1, 20)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTagService_Windows(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	env.seedTag(t, env.employeeMember, "Live goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))
	env.seedTag(t, env.employeeMember, "Expired goal", models.StateInProgress, time.Now().AddDate(0, -1, 0))

	tags, _, err := svc.MyTags(env.employee.ID, "current", 1, 20)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.Equal(t, "Live goal", tags[0].Name)

	tags, _, err = svc.MyTags(env.employee.ID, "outdated", 1, 20)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.Equal(t, "Expired goal", tags[0].Name)

	tags, _, err = svc.MyTags(env.employee.ID, "all", 1, 20)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	_, _, err = svc.MyTags(env.employee.ID, "bogus", 1, 20)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTagService_MemberTagsScoped(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	env.seedTag(t, env.outsiderMember, "Sales goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))

	// The manager leads engineering and cannot see the sales member.
	_, _, err := svc.MemberTags(env.manager.ID, env.outsider.ID, "", 1, 20)
	require.ErrorIs(t, err, ErrNotFound)

	tags, _, err := svc.MemberTags(env.director.ID, env.outsider.ID, "", 1, 20)
	require.NoError(t, err)
	require.Len(t, tags, 1)
}

func TestTagService_SelfEdit(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	tag := env.seedTag(t, env.employeeMember, "Live goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))

	err := svc.SelfEdit(env.employee.ID, dto.MyTagEditRequest{
		ProfileID: num(int(env.employeeProfile.ID)),
		TagID:     num(int(tag.ID)),
		Finished:  num(4),
		TagState:  "In Progress",
	})
	require.NoError(t, err)

	updated, err := env.tags.FindByID(tag.ID, env.employeeMember.ID)
	require.NoError(t, err)
	require.Equal(t, 4, updated.Finished)
	require.Equal(t, 40.0, updated.Progress)
}

func TestTagService_SelfEditCompletedLocked(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	tag := env.seedTag(t, env.employeeMember, "Done goal", models.StateCompleted, time.Now().AddDate(0, 1, 0))

	err := svc.SelfEdit(env.employee.ID, dto.MyTagEditRequest{
		ProfileID: num(int(env.employeeProfile.ID)),
		TagID:     num(int(tag.ID)),
		Finished:  num(9),
		TagState:  "In Progress",
	})
	require.ErrorIs(t, err, ErrTagCompleted)
}

func TestTagService_SelfEditOtherProfileRejected(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	tag := env.seedTag(t, env.employeeMember, "Live goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))

	err := svc.SelfEdit(env.outsider.ID, dto.MyTagEditRequest{
		ProfileID: num(int(env.employeeProfile.ID)),
		TagID:     num(int(tag.ID)),
		Finished:  num(1),
		TagState:  "In Progress",
	})
	require.ErrorIs(t, err, ErrDataFault)
}

func TestTagService_MemberEditRemove(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	tag := env.seedTag(t, env.employeeMember, "Doomed goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))

	err := svc.MemberEdit(env.manager.ID, dto.TagMemberEditRequest{
		ProfileID:  num(int(env.employeeProfile.ID)),
		TagID:      num(int(tag.ID)),
		TagRequest: "remove",
	})
	require.NoError(t, err)

	_, err = env.tags.FindByID(tag.ID, env.employeeMember.ID)
	require.Error(t, err)
}

func TestTagService_MemberEditRescalesProgress(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	tag := env.seedTag(t, env.employeeMember, "Live goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))
	require.NoError(t, env.db.Model(&models.Tag{}).Where("id = ?", tag.ID).Update("finished", 5).Error)

	req := dto.TagMemberEditRequest{
		ProfileID:   num(int(env.employeeProfile.ID)),
		TagID:       num(int(tag.ID)),
		TagRequest:  "edit",
		TagName:     "Live goal, doubled",
		PeriodStart: time.Now().Format("2006-01-02 15:04:05"),
		PeriodEnd:   time.Now().AddDate(0, 2, 0).Format("2006-01-02 15:04:05"),
		Quantity:    num(20),
		Weight:      num(2),
	}
	require.NoError(t, svc.MemberEdit(env.manager.ID, req))

	updated, err := env.tags.FindByID(tag.ID, env.employeeMember.ID)
	require.NoError(t, err)
	require.Equal(t, 20, updated.Quantity)
	require.Equal(t, 5, updated.Finished)
	require.Equal(t, 25.0, updated.Progress)
	require.Equal(t, env.managerProfile.ID, updated.CreatedByID)
}

func TestTagService_Computation(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	tag := env.seedTag(t, env.employeeMember, "Summed goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))
	env.seedTask(t, tag, "Part one", 3, models.StateCompleted)
	env.seedTask(t, tag, "Part two", 4, models.StateCompleted)
	env.seedTask(t, tag, "In flight", 5, models.StateInProgress)

	err := svc.Computation(env.employee.ID, dto.TagComputationRequest{
		ProfileID: num(int(env.employeeProfile.ID)),
		TagID:     num(int(tag.ID)),
	})
	require.NoError(t, err)

	updated, err := env.tags.FindByID(tag.ID, env.employeeMember.ID)
	require.NoError(t, err)
	require.Equal(t, 7, updated.Finished)
	require.Equal(t, 70.0, updated.Progress)
}

func TestTagService_GlobalStats(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	future := time.Now().AddDate(0, 1, 0)
	env.seedTag(t, env.employeeMember, "One", models.StateCompleted, future)
	env.seedTag(t, env.employeeMember, "Two", models.StateInProgress, future)
	env.seedTag(t, env.outsiderMember, "Three", models.StateNotStarted, future)

	stats, err := svc.GlobalStats(env.director.ID, "all")
	require.NoError(t, err)
	require.EqualValues(t, 3, stats.Total)
	require.EqualValues(t, 1, stats.CountFinished)
	require.EqualValues(t, 1, stats.CountProgress)
	require.EqualValues(t, 1, stats.CountUnFinished)

	stats, err = svc.GlobalStats(env.manager.ID, "all")
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.Total)

	_, err = svc.GlobalStats(env.employee.ID, "all")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTagService_GlobalStatsEmpty(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	_, err := svc.GlobalStats(env.director.ID, "all")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTagService_MyStatsKeepsHoursOnBadWindow(t *testing.T) {
	env := setupEnv(t)
	svc := newTagService(env)

	require.NoError(t, env.db.Create(&models.WorkTime{
		MemberID:  env.employeeMember.ID,
		Date:      time.Now(),
		TimeTotal: 7.5,
	}).Error)
	env.seedTag(t, env.employeeMember, "Goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))

	stats, err := svc.MyStats(env.employee.ID, "bogus")
	require.NoError(t, err)
	require.NotNil(t, stats.TotalTime)
	require.Equal(t, 7.5, *stats.TotalTime)
	require.EqualValues(t, 0, stats.TotalTag)
}
