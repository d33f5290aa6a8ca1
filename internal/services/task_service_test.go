package services

import (
	"testing"
	"time"

	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"github.com/stretchr/testify/require"
)

func newTaskService(env *testEnv) *TaskService {
	return NewTaskService(env.tasks, env.tags, env.identity)
}

func TestTaskService_Create(t *testing.T) {
	env := setupEnv(t)
	svc := newTaskService(env)

	tag := env.seedTag(t, env.employeeMember, "Parent goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))

	task, err := svc.Create(env.employee.ID, dto.TaskCreateRequest{
		TagID:         num(int(tag.ID)),
		TaskName:      "Draft outline",
		TargetValue:   num(5),
		UnitOfMeasure: "pages",
	})
	require.NoError(t, err)
	require.Equal(t, models.StateInProgress, task.State)
	require.Equal(t, 0, task.ResultValue)
	require.False(t, task.IsFinished)
	require.Equal(t, 1, task.Weight)
}

func TestTaskService_CreateValidation(t *testing.T) {
	env := setupEnv(t)
	svc := newTaskService(env)

	tag := env.seedTag(t, env.employeeMember, "Parent goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))

	_, err := svc.Create(env.employee.ID, dto.TaskCreateRequest{TaskName: "No tag", TargetValue: num(5)})
	require.ErrorIs(t, err, ErrTagRequired)

	_, err = svc.Create(env.employee.ID, dto.TaskCreateRequest{TagID: num(int(tag.ID)), TargetValue: num(5)})
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Create(env.employee.ID, dto.TaskCreateRequest{TagID: num(int(tag.ID)), TaskName: "x"})
	require.ErrorIs(t, err, ErrTargetRequired)

	// A lone period bound is rejected.
	_, err = svc.Create(env.employee.ID, dto.TaskCreateRequest{
		TagID:       num(int(tag.ID)),
		TaskName:    "x",
		TargetValue: num(5),
		PeriodStart: "2025-06-01 00:00:00",
	})
	require.ErrorIs(t, err, ErrPeriodEndMissing)
}

func TestTaskService_CreateOnCompletedTag(t *testing.T) {
	env := setupEnv(t)
	svc := newTaskService(env)

	tag := env.seedTag(t, env.employeeMember, "Done goal", models.StateCompleted, time.Now().AddDate(0, 1, 0))

	_, err := svc.Create(env.employee.ID, dto.TaskCreateRequest{
		TagID:       num(int(tag.ID)),
		TaskName:    "Too late",
		TargetValue: num(5),
	})
	require.ErrorIs(t, err, ErrTagCompletedTask)
}

func TestTaskService_CreateOnAnotherMembersTag(t *testing.T) {
	env := setupEnv(t)
	svc := newTaskService(env)

	tag := env.seedTag(t, env.outsiderMember, "Not yours", models.StateInProgress, time.Now().AddDate(0, 1, 0))

	_, err := svc.Create(env.employee.ID, dto.TaskCreateRequest{
		TagID:       num(int(tag.ID)),
		TaskName:    "Hijack",
		TargetValue: num(5),
	})
	require.ErrorIs(t, err, ErrTagNotFound)
}

func TestTaskService_CompactEditLatchesAndRecomputes(t *testing.T) {
	env := setupEnv(t)
	svc := newTaskService(env)

	tag := env.seedTag(t, env.employeeMember, "Parent goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))
	task := env.seedTask(t, tag, "Work item", 0, models.StateInProgress)

	err := svc.SelfEdit(env.employee.ID, dto.MyTaskEditRequest{
		TagID:       num(int(tag.ID)),
		TaskID:      num(int(task.ID)),
		EditTask:    "compact",
		ResultValue: num(6),
		TaskState:   "Completed",
	})
	require.NoError(t, err)

	updated, err := env.tasks.FindByID(task.ID, env.employeeMember.ID)
	require.NoError(t, err)
	require.True(t, updated.IsFinished)
	require.Equal(t, 60.0, updated.Progress)

	parent, err := env.tags.FindByID(tag.ID, env.employeeMember.ID)
	require.NoError(t, err)
	require.Equal(t, 6, parent.Finished)
	require.Equal(t, 60.0, parent.Progress)

	// The latch is irreversible.
	err = svc.SelfEdit(env.employee.ID, dto.MyTaskEditRequest{
		TagID:       num(int(tag.ID)),
		TaskID:      num(int(task.ID)),
		EditTask:    "compact",
		ResultValue: num(2),
		TaskState:   "In Progress",
	})
	require.ErrorIs(t, err, ErrTaskFinished)
}

func TestTaskService_RemoveCompletedTaskRecomputes(t *testing.T) {
	env := setupEnv(t)
	svc := newTaskService(env)

	tag := env.seedTag(t, env.employeeMember, "Parent goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))
	keep := env.seedTask(t, tag, "Keep", 3, models.StateCompleted)
	drop := env.seedTask(t, tag, "Drop", 4, models.StateCompleted)
	_ = keep

	require.NoError(t, env.tags.Recompute(tag.ID, env.employeeMember.ID))

	err := svc.SelfEdit(env.employee.ID, dto.MyTaskEditRequest{
		TagID:    num(int(tag.ID)),
		TaskID:   num(int(drop.ID)),
		EditTask: "remove",
	})
	require.NoError(t, err)

	parent, err := env.tags.FindByID(tag.ID, env.employeeMember.ID)
	require.NoError(t, err)
	require.Equal(t, 3, parent.Finished)
	require.Equal(t, 30.0, parent.Progress)
}

func TestTaskService_TitleEdit(t *testing.T) {
	env := setupEnv(t)
	svc := newTaskService(env)

	tag := env.seedTag(t, env.employeeMember, "Parent goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))
	task := env.seedTask(t, tag, "Old name", 0, models.StateInProgress)

	err := svc.SelfEdit(env.employee.ID, dto.MyTaskEditRequest{
		TagID:    num(int(tag.ID)),
		TaskID:   num(int(task.ID)),
		EditTask: "title",
		TaskName: "New name",
	})
	require.NoError(t, err)

	updated, err := env.tasks.FindByID(task.ID, env.employeeMember.ID)
	require.NoError(t, err)
	require.Equal(t, "New name", updated.Name)
}

func TestTaskService_TotalEdit(t *testing.T) {
	env := setupEnv(t)
	svc := newTaskService(env)

	tag := env.seedTag(t, env.employeeMember, "Parent goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))
	task := env.seedTask(t, tag, "Old name", 0, models.StateInProgress)

	err := svc.SelfEdit(env.employee.ID, dto.MyTaskEditRequest{
		TagID:         num(int(tag.ID)),
		TaskID:        num(int(task.ID)),
		EditTask:      "total",
		TaskName:      "Reworked item",
		UnitOfMeasure: "pages",
		TargetValue:   num(8),
		ResultValue:   num(4),
		Weight:        num(3),
		TaskState:     "In Progress",
	})
	require.NoError(t, err)

	updated, err := env.tasks.FindByID(task.ID, env.employeeMember.ID)
	require.NoError(t, err)
	require.Equal(t, "Reworked item", updated.Name)
	require.Equal(t, 8, updated.TargetValue)
	require.Equal(t, 4, updated.ResultValue)
	require.Equal(t, 50.0, updated.Progress)
	require.Equal(t, 3, updated.Weight)
	require.False(t, updated.IsFinished)

	// Without a target the rewrite is rejected.
	err = svc.SelfEdit(env.employee.ID, dto.MyTaskEditRequest{
		TagID:       num(int(tag.ID)),
		TaskID:      num(int(task.ID)),
		EditTask:    "total",
		TaskName:    "Reworked item",
		ResultValue: num(4),
		TaskState:   "In Progress",
	})
	require.ErrorIs(t, err, ErrTargetRequired)

	// Completing through a full rewrite latches the task and feeds the
	// parent recompute.
	err = svc.SelfEdit(env.employee.ID, dto.MyTaskEditRequest{
		TagID:       num(int(tag.ID)),
		TaskID:      num(int(task.ID)),
		EditTask:    "total",
		TaskName:    "Reworked item",
		TargetValue: num(8),
		ResultValue: num(8),
		TaskState:   "Completed",
	})
	require.NoError(t, err)

	updated, err = env.tasks.FindByID(task.ID, env.employeeMember.ID)
	require.NoError(t, err)
	require.True(t, updated.IsFinished)

	parent, err := env.tags.FindByID(tag.ID, env.employeeMember.ID)
	require.NoError(t, err)
	require.Equal(t, 8, parent.Finished)
	require.Equal(t, 80.0, parent.Progress)
}

func TestTaskService_UnknownEditKind(t *testing.T) {
	env := setupEnv(t)
	svc := newTaskService(env)

	tag := env.seedTag(t, env.employeeMember, "Parent goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))
	task := env.seedTask(t, tag, "Work item", 0, models.StateInProgress)

	err := svc.SelfEdit(env.employee.ID, dto.MyTaskEditRequest{
		TagID:    num(int(tag.ID)),
		TaskID:   num(int(task.ID)),
		EditTask: "rename",
	})
	require.ErrorIs(t, err, ErrRequestInvalid)
}

func TestTaskService_ListScoped(t *testing.T) {
	env := setupEnv(t)
	svc := newTaskService(env)

	tag := env.seedTag(t, env.employeeMember, "Parent goal", models.StateInProgress, time.Now().AddDate(0, 1, 0))
	env.seedTask(t, tag, "Work item", 0, models.StateInProgress)

	tasks, total, err := svc.MemberTasks(env.manager.ID, env.employee.ID, tag.ID, 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, tasks, 1)

	// An employee cannot browse a colleague's tasks.
	_, _, err = svc.MemberTasks(env.outsider.ID, env.employee.ID, tag.ID, 1, 20)
	require.ErrorIs(t, err, ErrNotFound)
}
