package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizeString(t *testing.T) {
	cases := map[string]int64{
		"100MB":  100 * 1024 * 1024,
		"1.5 GB": 1536 * 1024 * 1024,
		"10KB":   10240,
		"512B":   512,
		"2048":   2048,
		"1tb":    1 << 40,
	}
	for in, want := range cases {
		got, err := ParseSizeString(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "MB", "abc", "-5MB", "10XB"} {
		_, err := ParseSizeString(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatSizeMB(t *testing.T) {
	assert.Equal(t, "0.00 MB", FormatSizeMB(10))
	assert.Equal(t, "1.00 MB", FormatSizeMB(1024*1024))
	assert.Equal(t, "2.50 MB", FormatSizeMB(5*512*1024))
	assert.Equal(t, "0.01 MB", FormatSizeMB(10*1024))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a.txt", SanitizeFilename("a.txt"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "report.pdf", SanitizeFilename(`C:\Users\me\report.pdf`))
	assert.Equal(t, "ab.txt", SanitizeFilename("a\x00b.txt"))
	assert.Equal(t, "", SanitizeFilename(""))
	assert.Equal(t, "", SanitizeFilename(".."))
	assert.Equal(t, "", SanitizeFilename("   "))
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="a.txt"`, ContentDisposition("a.txt"))
	assert.Equal(t, `attachment; filename="say \"hi\".txt"`, ContentDisposition(`say "hi".txt`))
}

func TestMatchesMimeType(t *testing.T) {
	assert.True(t, MatchesMimeType("text/plain", "text/plain"))
	assert.True(t, MatchesMimeType("text/plain; charset=utf-8", "text/*"))
	assert.True(t, MatchesMimeType("Image/PNG", "image/png"))
	assert.True(t, MatchesMimeType("application/zip", "*/*"))
	assert.False(t, MatchesMimeType("application/zip", "text/*"))
	assert.False(t, IsValidMimeType("video/mp4", []string{"image/*", "text/plain"}))
	assert.True(t, IsValidMimeType("image/gif", []string{"image/*", "text/plain"}))
}

func TestGetFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", GetFileExtension("Report.PDF"))
	assert.Equal(t, "gz", GetFileExtension("backup.tar.gz"))
	assert.Equal(t, "", GetFileExtension("README"))
}
