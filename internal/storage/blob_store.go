// Package storage keeps uploaded file contents on the local filesystem.
package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fileshare-api/internal/config"

	"github.com/google/uuid"
)

const sniffLen = 512

var (
	// ErrBlobNotFound is returned when the blob behind a record is gone
	ErrBlobNotFound = errors.New("blob not found")
	// ErrTooLarge is returned when the payload exceeds the size limit
	ErrTooLarge = errors.New("blob exceeds size limit")
	// ErrInvalidPath is returned for paths that resolve outside the upload directory
	ErrInvalidPath = errors.New("invalid blob path")
)

// SavedBlob describes a blob written by Save
type SavedBlob struct {
	// Path is relative to the upload directory and is what gets stored on the record
	Path string
	// FullPath is the absolute location on disk
	FullPath string
	Size     int64
	Checksum string
	// DetectedType is the sniffed content type of the first 512 bytes
	DetectedType string
}

// BlobStore writes and reads blobs under a single root directory
type BlobStore struct {
	root       string
	createDirs bool
	fileMode   os.FileMode
	dirMode    os.FileMode
	pattern    string
	dateFormat string
	now        func() time.Time
}

// NewBlobStore creates a store rooted at cfg.Storage.UploadDir
func NewBlobStore(cfg config.StorageConfig) (*BlobStore, error) {
	fileMode, err := cfg.Storage.FileMode()
	if err != nil {
		return nil, fmt.Errorf("invalid file permissions: %w", err)
	}
	dirMode, err := cfg.Storage.DirMode()
	if err != nil {
		return nil, fmt.Errorf("invalid directory permissions: %w", err)
	}

	root, err := filepath.Abs(cfg.Storage.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}

	s := &BlobStore{
		root:       root,
		createDirs: cfg.Storage.CreateDirs,
		fileMode:   fileMode,
		dirMode:    dirMode,
		pattern:    cfg.Organization.Pattern,
		dateFormat: cfg.Organization.DateFormat,
		now:        time.Now,
	}

	if s.createDirs {
		if err := os.MkdirAll(root, dirMode); err != nil {
			return nil, fmt.Errorf("failed to create upload directory %s: %w", root, err)
		}
	}

	return s, nil
}

// Root returns the absolute upload directory
func (s *BlobStore) Root() string {
	return s.root
}

// Save streams r to a new blob named {uuid}-{name}. At most maxSize bytes are
// accepted; a larger payload is discarded and ErrTooLarge returned.
// The write goes to a temp file which is renamed into place once synced.
func (s *BlobStore) Save(r io.Reader, name string, maxSize int64) (*SavedBlob, error) {
	relPath := s.blobPath(name)
	fullPath := filepath.Join(s.root, relPath)
	dir := filepath.Dir(fullPath)

	if s.createDirs {
		if err := os.MkdirAll(dir, s.dirMode); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".upload-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	fail := func(err error) (*SavedBlob, error) {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, err
	}

	// Keep the head for content sniffing
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fail(fmt.Errorf("failed to read upload: %w", err))
	}
	head = head[:n]

	hasher := sha256.New()
	src := io.MultiReader(bytes.NewReader(head), r)
	if maxSize > 0 {
		src = io.LimitReader(src, maxSize+1)
	}

	size, err := io.Copy(io.MultiWriter(tmp, hasher), src)
	if err != nil {
		return fail(fmt.Errorf("failed to write blob: %w", err))
	}
	if maxSize > 0 && size > maxSize {
		return fail(ErrTooLarge)
	}

	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("failed to sync blob: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to close blob: %w", err)
	}
	if err := os.Chmod(tmpPath, s.fileMode); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to set blob permissions: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to move blob into place: %w", err)
	}

	return &SavedBlob{
		Path:         filepath.ToSlash(relPath),
		FullPath:     fullPath,
		Size:         size,
		Checksum:     hex.EncodeToString(hasher.Sum(nil)),
		DetectedType: http.DetectContentType(head),
	}, nil
}

// blobPath builds the relative path for a new blob according to the organization pattern
func (s *BlobStore) blobPath(name string) string {
	fileName := uuid.New().String() + "-" + name
	if s.pattern == "date" {
		return filepath.Join(s.now().UTC().Format(s.dateFormat), fileName)
	}
	return fileName
}

// Resolve maps a stored relative path to its absolute location.
// Paths that would escape the root are rejected.
func (s *BlobStore) Resolve(relPath string) (string, error) {
	if relPath == "" {
		return "", ErrInvalidPath
	}
	full := filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(relPath, "/")))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}

// Open opens the blob at relPath for reading. The caller must close the file.
func (s *BlobStore) Open(relPath string) (*os.File, os.FileInfo, error) {
	full, err := s.Resolve(relPath)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrBlobNotFound
		}
		return nil, nil, fmt.Errorf("failed to open blob %s: %w", relPath, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat blob %s: %w", relPath, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, ErrBlobNotFound
	}

	return f, info, nil
}

// Remove deletes the blob at relPath. A blob that is already gone is not an error.
func (s *BlobStore) Remove(relPath string) error {
	full, err := s.Resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob %s: %w", relPath, err)
	}
	return nil
}
