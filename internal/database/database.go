package database

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/openkpi/kpi-manager-api/internal/config"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the database selected by the config. MySQL is the default;
// postgres is supported for deployments that already run one.
func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	case "mysql", "":
		dialector = mysql.Open(cfg.Database.DSN)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	DB = db
	return nil
}

// Migrate creates or updates the schema for all models.
func Migrate() error {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Department{},
		&models.DepartmentMember{},
		&models.Tag{},
		&models.Task{},
		&models.Comment{},
		&models.WorkTime{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// NewRedis connects the redis client used for the token denylist.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing).
func SetDB(db *gorm.DB) {
	DB = db
}
