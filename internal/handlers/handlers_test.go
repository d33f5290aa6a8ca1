package handlers

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openkpi/kpi-manager-api/internal/constants"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"github.com/openkpi/kpi-manager-api/internal/repository"
	"github.com/openkpi/kpi-manager-api/internal/services"
	"github.com/openkpi/kpi-manager-api/internal/token"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type handlerTestEnv struct {
	db     *gorm.DB
	tokens *token.Manager

	auth     *AuthHandler
	tag      *TagHandler
	workTime *WorkTimeHandler

	director models.User
	employee models.User

	directorProfile models.Profile
	employeeProfile models.Profile
	employeeMember  models.DepartmentMember
}

func setupHandlerEnv(t *testing.T) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	env := &handlerTestEnv{db: db, tokens: token.NewManager("test-secret", 1)}

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)
	env.director = models.User{Username: "director", PasswordHash: string(hash)}
	require.NoError(t, db.Create(&env.director).Error)
	env.employee = models.User{Username: "employee", PasswordHash: string(hash)}
	require.NoError(t, db.Create(&env.employee).Error)

	env.directorProfile = models.Profile{UserID: env.director.ID, FullName: "Dana Director", Role: models.RoleDirector}
	require.NoError(t, db.Create(&env.directorProfile).Error)
	env.employeeProfile = models.Profile{UserID: env.employee.ID, FullName: "Evan Employee", Role: models.RoleEmployee}
	require.NoError(t, db.Create(&env.employeeProfile).Error)

	dept := models.Department{Name: "Engineering", Level: 1}
	require.NoError(t, db.Create(&dept).Error)
	env.employeeMember = models.DepartmentMember{ProfileID: env.employeeProfile.ID, DepartmentID: dept.ID, Position: "Engineer"}
	require.NoError(t, db.Create(&env.employeeMember).Error)

	users := repository.NewUserRepository(db)
	profiles := repository.NewProfileRepository(db)
	departments := repository.NewDepartmentRepository(db)
	tags := repository.NewTagRepository(db)
	workTimes := repository.NewWorkTimeRepository(db)

	identity := services.NewIdentityService(profiles, departments)
	authService := services.NewAuthService(users, env.tokens, nil)
	tagService := services.NewTagService(tags, profiles, workTimes, identity)
	workTimeService := services.NewWorkTimeService(workTimes, identity)

	env.auth = NewAuthHandler(authService, env.tokens, nil)
	env.tag = NewTagHandler(tagService, nil, nil)
	env.workTime = NewWorkTimeHandler(workTimeService, nil, nil)

	return env
}

// authedRouter mounts routes behind a stub that injects the given account,
// standing in for the token middleware.
func authedRouter(userID uint64) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	})
	return r
}

func (env *handlerTestEnv) seedTag(t *testing.T, member models.DepartmentMember, name string) models.Tag {
	t.Helper()
	end := time.Now().AddDate(0, 1, 0)
	start := end.AddDate(0, -2, 0)
	tag := models.Tag{
		MemberID:    member.ID,
		Name:        name,
		PeriodStart: &start,
		PeriodEnd:   &end,
		Weight:      1,
		Quantity:    10,
		State:       models.StateInProgress,
		CreatedByID: env.directorProfile.ID,
	}
	require.NoError(t, env.db.Create(&tag).Error)
	return tag
}
