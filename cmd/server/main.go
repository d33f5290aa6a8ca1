package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openkpi/kpi-manager-api/internal/audit"
	"github.com/openkpi/kpi-manager-api/internal/config"
	"github.com/openkpi/kpi-manager-api/internal/database"
	"github.com/openkpi/kpi-manager-api/internal/handlers"
	"github.com/openkpi/kpi-manager-api/internal/logger"
	"github.com/openkpi/kpi-manager-api/internal/middleware"
	"github.com/openkpi/kpi-manager-api/internal/repository"
	"github.com/openkpi/kpi-manager-api/internal/services"
	"github.com/openkpi/kpi-manager-api/internal/storage"
	"github.com/openkpi/kpi-manager-api/internal/token"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

	if err := database.Connect(cfg); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis backs the logout denylist; without it tokens stay valid
	// until expiry.
	redisClient, err := database.NewRedis(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis unavailable, logout denylist disabled: %v", err)
		redisClient = nil
	}

	avatars, err := storage.NewAvatarStore(cfg.MinIO)
	if err != nil {
		logger.Warnf("MinIO unavailable, avatar upload disabled: %v", err)
		avatars = nil
	}

	audits := audit.NewPublisher(cfg.Kafka)
	if audits != nil {
		defer audits.Close()
	}

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	db := database.GetDB()
	users := repository.NewUserRepository(db)
	profiles := repository.NewProfileRepository(db)
	departments := repository.NewDepartmentRepository(db)
	tags := repository.NewTagRepository(db)
	tasks := repository.NewTaskRepository(db)
	comments := repository.NewCommentRepository(db)
	workTimes := repository.NewWorkTimeRepository(db)

	identity := services.NewIdentityService(profiles, departments)
	authService := services.NewAuthService(users, tokens, redisClient)
	profileService := services.NewProfileService(profiles, identity, avatars)
	departmentService := services.NewDepartmentService(departments, tags, workTimes, identity, avatars)
	tagService := services.NewTagService(tags, profiles, workTimes, identity)
	taskService := services.NewTaskService(tasks, tags, identity)
	commentService := services.NewCommentService(comments, tasks, departments, identity)
	workTimeService := services.NewWorkTimeService(workTimes, identity)

	h := handlers.Handlers{
		Auth:       handlers.NewAuthHandler(authService, tokens, audits),
		Profile:    handlers.NewProfileHandler(profileService, avatars, audits),
		Department: handlers.NewDepartmentHandler(departmentService),
		Tag:        handlers.NewTagHandler(tagService, avatars, audits),
		Task:       handlers.NewTaskHandler(taskService, avatars, audits),
		Comment:    handlers.NewCommentHandler(commentService, avatars, audits),
		WorkTime:   handlers.NewWorkTimeHandler(workTimeService, avatars, audits),
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	handlers.RegisterRoutes(r, h, tokens, authService)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Server starting on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", err)
	}
}
