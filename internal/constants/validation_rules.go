package constants

import (
	"fmt"
	"strings"

	"fileshare-api/internal/config"
	"fileshare-api/internal/utils"
)

// Reasons reported by UploadPolicy
const (
	ReasonTooLarge       = "too_large"
	ReasonBlockedType    = "blocked_type"
	ReasonMimeNotAllowed = "mime_not_allowed"
)

// ValidationResult contains the result of file validation
type ValidationResult struct {
	IsAllowed bool
	MaxSize   int64
	Reason    string
	Message   string
}

// UploadPolicy decides whether an upload may be stored
type UploadPolicy struct {
	maxSize          int64
	blocked          map[string]struct{}
	allowedMimeTypes []string
}

// NewUploadPolicy builds a policy from the validation section of the storage config
func NewUploadPolicy(cfg config.FileValidationConfig) (*UploadPolicy, error) {
	maxSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return nil, err
	}

	blocked := make(map[string]struct{}, len(cfg.BlockedExtensions))
	for _, ext := range cfg.BlockedExtensions {
		blocked[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	return &UploadPolicy{
		maxSize:          maxSize,
		blocked:          blocked,
		allowedMimeTypes: cfg.AllowedMimeTypes,
	}, nil
}

// MaxSize returns the largest accepted payload in bytes
func (p *UploadPolicy) MaxSize() int64 {
	return p.maxSize
}

// ValidateFile checks name, declared size and declared MIME type.
// An empty mimeType is not checked here; the sniffed type is checked later via ValidateMimeType.
func (p *UploadPolicy) ValidateFile(filename, mimeType string, size int64) *ValidationResult {
	result := &ValidationResult{IsAllowed: true, MaxSize: p.maxSize}

	if size > p.maxSize {
		result.IsAllowed = false
		result.Reason = ReasonTooLarge
		result.Message = fmt.Sprintf("File size %s exceeds limit %s", FormatFileSize(size), FormatFileSize(p.maxSize))
		return result
	}

	ext := utils.GetFileExtension(filename)
	if _, ok := p.blocked[ext]; ok && ext != "" {
		result.IsAllowed = false
		result.Reason = ReasonBlockedType
		result.Message = fmt.Sprintf("File type .%s is not allowed", ext)
		return result
	}

	if mimeType != "" {
		return p.ValidateMimeType(mimeType)
	}

	return result
}

// ValidateMimeType checks mimeType against the allowed patterns; an empty list allows everything
func (p *UploadPolicy) ValidateMimeType(mimeType string) *ValidationResult {
	result := &ValidationResult{IsAllowed: true, MaxSize: p.maxSize}
	if len(p.allowedMimeTypes) == 0 || utils.IsValidMimeType(mimeType, p.allowedMimeTypes) {
		return result
	}

	result.IsAllowed = false
	result.Reason = ReasonMimeNotAllowed
	result.Message = fmt.Sprintf("MIME type %s is not allowed", mimeType)
	return result
}

// FormatFileSize formats bytes into human-readable format
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
