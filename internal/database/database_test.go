package database

import (
	"os"
	"path/filepath"
	"testing"

	"fileshare-api/internal/config"
	"fileshare-api/internal/constants"
	"fileshare-api/internal/models"

	pkgValidator "github.com/kerimovok/go-pkg-utils/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestConnect_SQLiteMigratesFilesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "files.db")

	db, err := Connect(Options{Driver: "sqlite", Path: path, LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	assert.True(t, db.Migrator().HasTable(&models.FileRecord{}))
	assert.True(t, db.Migrator().HasIndex(&models.FileRecord{}, "idx_files_pin"))
	assert.FileExists(t, path)
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(Options{Driver: "oracle"})
	assert.Error(t, err)
}

// unsetEnv clears key for the duration of the test
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, ok := os.LookupEnv(key)
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() {
		if ok {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestOptionsFromEnv_DotenvFile(t *testing.T) {
	for _, key := range []string{
		"PORT", "GO_ENV", "STORAGE_CONFIG",
		"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASS", "DB_NAME", "DB_PATH",
	} {
		unsetEnv(t, key)
	}

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "data", "fileshare.db")
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_DRIVER=sqlite\nDB_PATH="+dbPath+"\n"), 0o644))

	config.LoadEnv(envFile)
	require.NoError(t, pkgValidator.ValidateConfig(constants.EnvValidationRules))

	assert.Equal(t, config.DefaultConfigPath, constants.Env("STORAGE_CONFIG"))
	assert.Equal(t, "3003", constants.Env("PORT"))

	opts := OptionsFromEnv()
	assert.Equal(t, "sqlite", opts.Driver)
	assert.Equal(t, dbPath, opts.Path)
	assert.Equal(t, "5432", opts.Port)
	assert.Empty(t, opts.Host)

	opts.LogLevel = logger.Silent
	db, err := Connect(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	assert.FileExists(t, dbPath)
}

func TestEnvValidation_PostgresNeedsHost(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DB_HOST", "DB_USER"} {
		unsetEnv(t, key)
	}

	err := pkgValidator.ValidateConfig(constants.EnvValidationRules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database host is required")
}
