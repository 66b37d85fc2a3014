package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fileshare-api/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches the lookup key
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates the id or pin unique index
	ErrDuplicate = errors.New("duplicate record")
)

// FileRepository is the GORM-backed record store
type FileRepository struct {
	db *gorm.DB
}

// NewFileRepository wraps an open database handle
func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create inserts record. A unique index violation is reported as ErrDuplicate.
func (r *FileRepository) Create(ctx context.Context, record *models.FileRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert file record: %w", err)
	}
	return nil
}

// FindByID returns the record with the given identifier
func (r *FileRepository) FindByID(ctx context.Context, id string) (*models.FileRecord, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByPin returns the record holding pin
func (r *FileRepository) FindByPin(ctx context.Context, pin string) (*models.FileRecord, error) {
	return r.findOne(ctx, "pin = ?", pin)
}

func (r *FileRepository) findOne(ctx context.Context, query string, arg string) (*models.FileRecord, error) {
	var record models.FileRecord
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch file record: %w", err)
	}
	return &record, nil
}

// ListExpired returns up to limit records whose expires_at is at or before now, oldest first
func (r *FileRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]models.FileRecord, error) {
	var records []models.FileRecord
	query := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list expired file records: %w", err)
	}
	return records, nil
}

// Delete removes the record with the given identifier
func (r *FileRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.FileRecord{})
	if result.Error != nil {
		return fmt.Errorf("delete file record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateKey covers drivers that do not translate constraint errors
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
