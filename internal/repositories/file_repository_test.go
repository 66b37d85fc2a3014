package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fileshare-api/internal/database"
	"fileshare-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func newSQLiteRepo(t *testing.T) *FileRepository {
	t.Helper()
	db, err := database.ConnectSQLite(filepath.Join(t.TempDir(), "files.db"), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewFileRepository(db)
}

func newRecord(pin string, expiresAt *time.Time) *models.FileRecord {
	id := uuid.New().String()
	return &models.FileRecord{
		ID:        id,
		Name:      "a.txt",
		Size:      10,
		MimeType:  "text/plain",
		Pin:       pin,
		URL:       id + "-a.txt",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
}

func ptr(t time.Time) *time.Time { return &t }

// exerciseRepository runs the record store contract against any backend
func exerciseRepository(t *testing.T, repo *FileRepository) {
	ctx := context.Background()

	rec := newRecord("123456", nil)
	require.NoError(t, repo.Create(ctx, rec))

	byID, err := repo.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, byID.Name)
	assert.Equal(t, rec.Size, byID.Size)
	assert.Equal(t, rec.MimeType, byID.MimeType)
	assert.Equal(t, rec.URL, byID.URL)

	byPin, err := repo.FindByPin(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, byPin.ID)

	_, err = repo.FindByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByPin(ctx, "654321")
	assert.ErrorIs(t, err, ErrNotFound)

	// Same PIN, different id
	err = repo.Create(ctx, newRecord("123456", nil))
	assert.ErrorIs(t, err, ErrDuplicate)

	// Same id, different PIN
	dup := newRecord("111111", nil)
	dup.ID = rec.ID
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicate)

	require.NoError(t, repo.Delete(ctx, rec.ID))
	_, err = repo.FindByID(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, rec.ID), ErrNotFound)

	// The PIN is free again once its record is gone
	require.NoError(t, repo.Create(ctx, newRecord("123456", nil)))
}

func TestFileRepository_SQLite(t *testing.T) {
	exerciseRepository(t, newSQLiteRepo(t))
}

func TestFileRepository_ListExpired(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := newRecord("100001", ptr(now.Add(-2*time.Hour)))
	older := newRecord("100002", ptr(now.Add(-3*time.Hour)))
	fresh := newRecord("100003", ptr(now.Add(time.Hour)))
	forever := newRecord("100004", nil)
	for _, r := range []*models.FileRecord{old, older, fresh, forever} {
		require.NoError(t, repo.Create(ctx, r))
	}

	expired, err := repo.ListExpired(ctx, now, 0)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	assert.Equal(t, older.ID, expired[0].ID)
	assert.Equal(t, old.ID, expired[1].ID)

	limited, err := repo.ListExpired(ctx, now, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, older.ID, limited[0].ID)
}
