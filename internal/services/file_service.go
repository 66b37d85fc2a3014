package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"fileshare-api/internal/config"
	"fileshare-api/internal/constants"
	"fileshare-api/internal/metrics"
	"fileshare-api/internal/models"
	"fileshare-api/internal/repositories"
	"fileshare-api/internal/storage"
	"fileshare-api/internal/utils"

	"github.com/google/uuid"
	pkgErrors "github.com/kerimovok/go-pkg-utils/errors"
)

const fallbackMimeType = "application/octet-stream"

// RecordStore persists file records. Create reports a violated id or pin
// unique index as repositories.ErrDuplicate; lookups report a missing row as
// repositories.ErrNotFound.
type RecordStore interface {
	Create(ctx context.Context, record *models.FileRecord) error
	FindByID(ctx context.Context, id string) (*models.FileRecord, error)
	FindByPin(ctx context.Context, pin string) (*models.FileRecord, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]models.FileRecord, error)
	Delete(ctx context.Context, id string) error
}

// UploadInput is one file as received from the client
type UploadInput struct {
	Reader           io.Reader
	Name             string
	DeclaredSize     int64
	DeclaredMimeType string
}

// Download is an opened blob together with its record. The caller closes File.
type Download struct {
	Record *models.FileRecord
	File   *os.File
	Size   int64
}

// FileService handles file operations
type FileService struct {
	records RecordStore
	blobs   *storage.BlobStore
	cache   *RecordCache
	policy  *constants.UploadPolicy
	cfg     config.StorageConfig
	logger  *slog.Logger

	now    func() time.Time
	newID  func() string
	newPin func() (string, error)
}

// NewFileService creates a file service instance
func NewFileService(
	records RecordStore,
	blobs *storage.BlobStore,
	cache *RecordCache,
	cfg config.StorageConfig,
	logger *slog.Logger,
) (*FileService, error) {
	policy, err := constants.NewUploadPolicy(cfg.Validation)
	if err != nil {
		return nil, fmt.Errorf("invalid upload policy: %w", err)
	}
	if cache == nil {
		cache = NewRecordCache(0, 0)
	}

	return &FileService{
		records: records,
		blobs:   blobs,
		cache:   cache,
		policy:  policy,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "file_service")),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   NewID,
		newPin:  NewPin,
	}, nil
}

// MaxFileSize returns the upload size limit in bytes
func (s *FileService) MaxFileSize() int64 {
	return s.policy.MaxSize()
}

// Upload stores the blob, reserves a unique PIN and creates the record.
// If the record cannot be created the blob is removed again.
func (s *FileService) Upload(ctx context.Context, in UploadInput) (*models.FileRecord, error) {
	name := utils.SanitizeFilename(in.Name)
	if in.Reader == nil || name == "" {
		metrics.UploadsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, ErrNoFile
	}

	declaredMime := strings.TrimSpace(in.DeclaredMimeType)
	if res := s.policy.ValidateFile(name, declaredMime, in.DeclaredSize); !res.IsAllowed {
		metrics.UploadsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, policyError(res)
	}

	blob, err := s.blobs.Save(in.Reader, name, s.policy.MaxSize())
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			metrics.UploadsTotal.WithLabelValues(metrics.ResultRejected).Inc()
			return nil, fmt.Errorf("%w: limit is %s", ErrFileTooLarge, constants.FormatFileSize(s.policy.MaxSize()))
		}
		s.logger.Error("failed to save blob",
			slog.String("filename", name),
			slog.String("error", err.Error()),
		)
		metrics.UploadsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, pkgErrors.InternalError("FILE_SAVE_ERROR", "Failed to save file")
	}

	s.logger.Debug("blob stored",
		slog.String("path", blob.FullPath),
		slog.Int64("size", blob.Size),
	)

	mimeType := s.resolveMimeType(declaredMime, blob.DetectedType)
	if declaredMime == "" {
		if res := s.policy.ValidateMimeType(mimeType); !res.IsAllowed {
			s.discardBlob(blob.Path)
			metrics.UploadsTotal.WithLabelValues(metrics.ResultRejected).Inc()
			return nil, policyError(res)
		}
	}

	now := s.now()
	record := &models.FileRecord{
		Name:      name,
		Size:      blob.Size,
		MimeType:  mimeType,
		URL:       blob.Path,
		Checksum:  blob.Checksum,
		CreatedAt: now,
	}
	if s.cfg.Retention.Enabled {
		expiresAt := now.Add(s.cfg.Retention.TTL)
		record.ExpiresAt = &expiresAt
	}

	if err := s.createWithUniquePin(ctx, record); err != nil {
		s.discardBlob(blob.Path)
		metrics.OrphanedBlobsRemovedTotal.Inc()
		metrics.UploadsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	s.cache.Set(record)
	metrics.UploadsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.UploadedBytesTotal.Add(float64(record.Size))

	s.logger.Info("file uploaded",
		slog.String("file_id", record.ID),
		slog.String("filename", record.Name),
		slog.Int64("size", record.Size),
		slog.String("mime_type", record.MimeType),
	)

	return record, nil
}

// createWithUniquePin inserts record, drawing a new PIN each time the insert
// collides with an existing one
func (s *FileService) createWithUniquePin(ctx context.Context, record *models.FileRecord) error {
	for attempt := 1; attempt <= s.cfg.Pin.MaxAttempts; attempt++ {
		pin, err := s.newPin()
		if err != nil {
			s.logger.Error("failed to generate PIN", slog.String("error", err.Error()))
			return pkgErrors.InternalError("PIN_GENERATION_ERROR", "Failed to generate PIN")
		}

		record.ID = s.newID()
		record.Pin = pin

		err = s.records.Create(ctx, record)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			s.logger.Error("failed to save file record",
				slog.String("filename", record.Name),
				slog.String("error", err.Error()),
			)
			return pkgErrors.InternalError("RECORD_CREATE_ERROR", "Failed to save file record")
		}

		metrics.PinCollisionsTotal.Inc()
		s.logger.Warn("PIN collision, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.cfg.Pin.MaxAttempts),
		)
	}

	s.logger.Error("PIN reservation attempts exhausted", slog.Int("max_attempts", s.cfg.Pin.MaxAttempts))
	return pkgErrors.InternalError("PIN_EXHAUSTED", "Failed to reserve a unique PIN")
}

func (s *FileService) resolveMimeType(declared, detected string) string {
	if declared != "" && !(s.cfg.Validation.DetectMimeType && declared == fallbackMimeType) {
		return declared
	}
	if s.cfg.Validation.DetectMimeType && detected != "" {
		return detected
	}
	return fallbackMimeType
}

func (s *FileService) discardBlob(path string) {
	if err := s.blobs.Remove(path); err != nil {
		s.logger.Error("failed to remove orphaned blob",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}

// GetFile returns the live record for id
func (s *FileService) GetFile(ctx context.Context, id string) (*models.FileRecord, error) {
	return s.lookupByID(ctx, id, "id")
}

// OpenDownload resolves id and opens its blob
func (s *FileService) OpenDownload(ctx context.Context, id string) (*Download, error) {
	record, err := s.lookupByID(ctx, id, "download")
	if err != nil {
		return nil, err
	}

	f, info, err := s.blobs.Open(record.URL)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			s.logger.Warn("record exists but blob is missing",
				slog.String("file_id", record.ID),
				slog.String("path", record.URL),
			)
			return nil, ErrBlobMissing
		}
		s.logger.Error("failed to open blob",
			slog.String("file_id", record.ID),
			slog.String("error", err.Error()),
		)
		return nil, pkgErrors.InternalError("FILE_READ_ERROR", "Failed to read file")
	}

	if info.Size() != record.Size {
		s.logger.Warn("blob size differs from record",
			slog.String("file_id", record.ID),
			slog.Int64("recorded", record.Size),
			slog.Int64("actual", info.Size()),
		)
	}

	return &Download{Record: record, File: f, Size: info.Size()}, nil
}

// VerifyPin resolves a PIN to its live record. Malformed PINs never reach the store.
func (s *FileService) VerifyPin(ctx context.Context, pin string) (*models.FileRecord, error) {
	if !IsValidPin(pin) {
		metrics.LookupsTotal.WithLabelValues("pin", metrics.LookupInvalid).Inc()
		return nil, ErrInvalidPin
	}

	record, err := s.records.FindByPin(ctx, pin)
	if err != nil {
		return nil, s.lookupError("pin", err)
	}

	if record.IsExpired(s.now()) {
		metrics.LookupsTotal.WithLabelValues("pin", metrics.LookupExpired).Inc()
		return nil, ErrFileNotFound
	}

	metrics.LookupsTotal.WithLabelValues("pin", metrics.LookupFound).Inc()
	return record, nil
}

func (s *FileService) lookupByID(ctx context.Context, id, kind string) (*models.FileRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		metrics.LookupsTotal.WithLabelValues(kind, metrics.LookupInvalid).Inc()
		return nil, ErrFileNotFound
	}

	record, ok := s.cache.Get(id)
	if !ok {
		var err error
		record, err = s.records.FindByID(ctx, id)
		if err != nil {
			return nil, s.lookupError(kind, err)
		}
		s.cache.Set(record)
	}

	if record.IsExpired(s.now()) {
		s.cache.Delete(id)
		metrics.LookupsTotal.WithLabelValues(kind, metrics.LookupExpired).Inc()
		return nil, ErrFileNotFound
	}

	metrics.LookupsTotal.WithLabelValues(kind, metrics.LookupFound).Inc()
	return record, nil
}

func (s *FileService) lookupError(kind string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.LookupsTotal.WithLabelValues(kind, metrics.LookupNotFound).Inc()
		return ErrFileNotFound
	}
	s.logger.Error("failed to fetch file record",
		slog.String("lookup", kind),
		slog.String("error", err.Error()),
	)
	return pkgErrors.InternalError("RECORD_FETCH_ERROR", "Failed to fetch file")
}

func policyError(res *constants.ValidationResult) error {
	switch res.Reason {
	case constants.ReasonTooLarge:
		return fmt.Errorf("%w: %s", ErrFileTooLarge, res.Message)
	case constants.ReasonMimeNotAllowed:
		return fmt.Errorf("%w: %s", ErrMimeTypeNotAllowed, res.Message)
	default:
		return fmt.Errorf("%w: %s", ErrBlockedFileType, res.Message)
	}
}
