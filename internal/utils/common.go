package utils

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Common helpers shared by the config, service and handler layers

const bytesPerMB = 1024 * 1024

// sizeUnits is ordered so that longer suffixes are tried before "B"
var sizeUnits = []struct {
	suffix     string
	multiplier float64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// GetFileExtension extracts and normalizes the file extension
func GetFileExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return strings.TrimPrefix(ext, ".")
}

// SanitizeFilename keeps only the base name of a client-supplied filename.
// Returns "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// FormatSizeMB renders a byte count as binary megabytes with two decimals, e.g. "0.01 MB"
func FormatSizeMB(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/bytesPerMB)
}

// ContentDisposition builds an attachment header value for filename
func ContentDisposition(filename string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(filename)
	return `attachment; filename="` + escaped + `"`
}

// MatchesMimeType checks if a MIME type matches a pattern
func MatchesMimeType(actual, pattern string) bool {
	// Parameters such as "; charset=utf-8" do not take part in matching
	if i := strings.IndexByte(actual, ';'); i >= 0 {
		actual = strings.TrimSpace(actual[:i])
	}
	actual = strings.ToLower(actual)
	pattern = strings.ToLower(pattern)

	if pattern == "*" || pattern == "*/*" || actual == pattern {
		return true
	}

	// Wildcard match (e.g., "text/*" matches "text/plain")
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		return strings.HasPrefix(actual, prefix+"/")
	}

	return false
}

// IsValidMimeType checks if a MIME type matches any of the expected patterns
func IsValidMimeType(actual string, expectedPatterns []string) bool {
	for _, pattern := range expectedPatterns {
		if MatchesMimeType(actual, pattern) {
			return true
		}
	}
	return false
}

// ParseSizeString converts human-readable size strings ("100MB", "1.5 GB", "512") to bytes
func ParseSizeString(sizeStr string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(sizeStr))

	for _, unit := range sizeUnits {
		if !strings.HasSuffix(s, unit.suffix) {
			continue
		}
		num := strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
		value, err := strconv.ParseFloat(num, 64)
		if err != nil || value < 0 {
			return 0, fmt.Errorf("invalid size format: %s", sizeStr)
		}
		return int64(value * unit.multiplier), nil
	}

	// Raw bytes
	if size, err := strconv.ParseInt(s, 10, 64); err == nil && size >= 0 {
		return size, nil
	}

	return 0, fmt.Errorf("invalid size format: %s", sizeStr)
}
