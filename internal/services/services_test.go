package services

import (
	"testing"
	"time"

	"github.com/openkpi/kpi-manager-api/internal/models"
	"github.com/openkpi/kpi-manager-api/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv seeds a three-role org: a director without a department,
// a manager leading engineering, an employee in engineering, and an
// outsider in sales.
type testEnv struct {
	db *gorm.DB

	users       repository.UserRepository
	profiles    repository.ProfileRepository
	departments repository.DepartmentRepository
	tags        repository.TagRepository
	tasks       repository.TaskRepository
	comments    repository.CommentRepository
	workTimes   repository.WorkTimeRepository
	identity    *IdentityService

	director models.User
	manager  models.User
	employee models.User
	outsider models.User

	directorProfile models.Profile
	managerProfile  models.Profile
	employeeProfile models.Profile
	outsiderProfile models.Profile

	engineering models.Department
	sales       models.Department

	managerMember  models.DepartmentMember
	employeeMember models.DepartmentMember
	outsiderMember models.DepartmentMember
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Department{},
		&models.DepartmentMember{},
		&models.Tag{},
		&models.Task{},
		&models.Comment{},
		&models.WorkTime{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	env := &testEnv{
		db:          db,
		users:       repository.NewUserRepository(db),
		profiles:    repository.NewProfileRepository(db),
		departments: repository.NewDepartmentRepository(db),
		tags:        repository.NewTagRepository(db),
		tasks:       repository.NewTaskRepository(db),
		comments:    repository.NewCommentRepository(db),
		workTimes:   repository.NewWorkTimeRepository(db),
	}
	env.identity = NewIdentityService(env.profiles, env.departments)

	env.director = env.seedUser(t, "director")
	env.manager = env.seedUser(t, "manager")
	env.employee = env.seedUser(t, "employee")
	env.outsider = env.seedUser(t, "outsider")

	env.directorProfile = env.seedProfile(t, env.director, "Dana Director", models.RoleDirector)
	env.managerProfile = env.seedProfile(t, env.manager, "Minh Manager", models.RoleManager)
	env.employeeProfile = env.seedProfile(t, env.employee, "Evan Employee", models.RoleEmployee)
	env.outsiderProfile = env.seedProfile(t, env.outsider, "Olga Outsider", models.RoleEmployee)

	env.engineering = models.Department{Name: "Engineering", Level: 2}
	require.NoError(t, db.Create(&env.engineering).Error)
	env.sales = models.Department{Name: "Sales", Level: 1}
	require.NoError(t, db.Create(&env.sales).Error)

	env.managerMember = env.seedMember(t, env.managerProfile, env.engineering, "Head of Engineering", true)
	env.employeeMember = env.seedMember(t, env.employeeProfile, env.engineering, "Engineer", false)
	env.outsiderMember = env.seedMember(t, env.outsiderProfile, env.sales, "Sales Rep", false)

	return env
}

func (env *testEnv) seedUser(t *testing.T, username string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	require.NoError(t, env.db.Create(&user).Error)
	return user
}

func (env *testEnv) seedProfile(t *testing.T, user models.User, fullName string, role models.Role) models.Profile {
	t.Helper()
	profile := models.Profile{
		UserID:   user.ID,
		FullName: fullName,
		Sex:      models.SexFemale,
		Role:     role,
	}
	require.NoError(t, env.db.Create(&profile).Error)
	return profile
}

func (env *testEnv) seedMember(t *testing.T, profile models.Profile, dept models.Department, position string, leader bool) models.DepartmentMember {
	t.Helper()
	member := models.DepartmentMember{
		ProfileID:    profile.ID,
		DepartmentID: dept.ID,
		Position:     position,
		IsLeader:     leader,
	}
	require.NoError(t, env.db.Create(&member).Error)
	return member
}

func (env *testEnv) seedTag(t *testing.T, member models.DepartmentMember, name string, state models.State, periodEnd time.Time) models.Tag {
	t.Helper()
	start := periodEnd.AddDate(0, -1, 0)
	tag := models.Tag{
		MemberID:    member.ID,
		Name:        name,
		PeriodStart: &start,
		PeriodEnd:   &periodEnd,
		Weight:      1,
		Quantity:    10,
		State:       state,
		CreatedByID: env.managerProfile.ID,
	}
	require.NoError(t, env.db.Create(&tag).Error)
	return tag
}

func (env *testEnv) seedTask(t *testing.T, tag models.Tag, name string, result int, state models.State) models.Task {
	t.Helper()
	task := models.Task{
		MemberID:    tag.MemberID,
		TagID:       tag.ID,
		Name:        name,
		TargetValue: 10,
		ResultValue: result,
		Weight:      1,
		State:       state,
		IsFinished:  state == models.StateCompleted,
	}
	require.NoError(t, env.db.Create(&task).Error)
	return task
}
