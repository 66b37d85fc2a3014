package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fileshare-api/internal/constants"
	"fileshare-api/internal/models"

	"github.com/kerimovok/go-pkg-database/sql"
	"github.com/kerimovok/go-pkg-utils/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options selects and configures the record store backend
type Options struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string
	LogLevel logger.LogLevel
}

// OptionsFromEnv reads connection settings validated by constants.EnvValidationRules.
// Unset variables take the defaults declared there.
func OptionsFromEnv() Options {
	level := logger.Info
	if constants.Env("GO_ENV") == "production" {
		level = logger.Warn
	}

	return Options{
		Driver:   constants.Env("DB_DRIVER"),
		Host:     constants.Env("DB_HOST"),
		Port:     constants.Env("DB_PORT"),
		User:     constants.Env("DB_USER"),
		Password: config.GetEnv("DB_PASS"),
		Name:     constants.Env("DB_NAME"),
		Path:     constants.Env("DB_PATH"),
		LogLevel: level,
	}
}

// Connect opens the database and migrates the files table
func Connect(opts Options) (*gorm.DB, error) {
	switch opts.Driver {
	case "", "postgres":
		return connectPostgres(opts)
	case "sqlite":
		return ConnectSQLite(opts.Path, opts.LogLevel)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func connectPostgres(opts Options) (*gorm.DB, error) {
	gormConfig := sql.GormConfig{
		Host:                      opts.Host,
		User:                      opts.User,
		Password:                  opts.Password,
		Name:                      opts.Name,
		Port:                      opts.Port,
		SSLMode:                   "disable",
		Timezone:                  "UTC",
		MaxIdleConns:              10,
		MaxOpenConns:              100,
		ConnMaxLifetime:           30 * time.Minute,
		ConnMaxIdleTime:           10 * time.Minute,
		TranslateErrors:           true,
		LogLevel:                  opts.LogLevel,
		SlowThreshold:             200 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	}

	// Use go-pkg-database to open connection and auto-migrate
	db, err := sql.OpenGorm(gormConfig, &models.FileRecord{})
	if err != nil {
		return nil, err
	}

	return db.DB, nil
}

// ConnectSQLite opens a SQLite file at path, creating its directory when needed
func ConnectSQLite(path string, level logger.LogLevel) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_journal_mode=WAL"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&models.FileRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
