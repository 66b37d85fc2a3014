package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("storage:\n  storage:\n    upload_dir: /srv/blobs\n"))
	require.NoError(t, err)

	s := cfg.Storage
	assert.Equal(t, "/srv/blobs", s.Storage.UploadDir)
	assert.Equal(t, "100MB", s.Validation.MaxFileSize)
	assert.Equal(t, 5, s.Pin.MaxAttempts)
	assert.Equal(t, 7*24*time.Hour, s.Retention.TTL)
	assert.Equal(t, "flat", s.Organization.Pattern)

	size, err := s.Validation.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(100*1024*1024), size)

	mode, err := s.Storage.DirMode()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), mode)
}

func TestParse_Durations(t *testing.T) {
	cfg, err := Parse([]byte(`
storage:
  retention:
    enabled: true
    ttl: "2h30m"
    sweep_interval: "10s"
  cache:
    ttl: "1m"
`))
	require.NoError(t, err)
	assert.Equal(t, 150*time.Minute, cfg.Storage.Retention.TTL)
	assert.Equal(t, 10*time.Second, cfg.Storage.Retention.SweepInterval)
	assert.Equal(t, time.Minute, cfg.Storage.Cache.TTL)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad size":        "storage:\n  validation:\n    max_file_size: lots\n",
		"bad permissions": "storage:\n  storage:\n    file_permissions: rwx\n",
		"bad pattern":     "storage:\n  organization:\n    pattern: weekly\n",
		"no attempts":     "storage:\n  pin:\n    max_attempts: 0\n",
		"zero ttl":        "storage:\n  retention:\n    enabled: true\n    ttl: 0s\n",
		"not yaml":        "storage: [",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestParse_RetentionDisabledSkipsDurations(t *testing.T) {
	_, err := Parse([]byte("storage:\n  retention:\n    enabled: false\n    ttl: 0s\n"))
	assert.NoError(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  pin:\n    max_attempts: 3\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Storage.Pin.MaxAttempts)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
