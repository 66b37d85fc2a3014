package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"fileshare-api/internal/utils"

	"github.com/joho/godotenv"
	"github.com/kerimovok/go-pkg-utils/config"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when STORAGE_CONFIG is not set
const DefaultConfigPath = "config/storage.yaml"

// FileValidationConfig holds server-side upload limits
type FileValidationConfig struct {
	MaxFileSize       string   `yaml:"max_file_size"`
	BlockedExtensions []string `yaml:"blocked_extensions"`
	AllowedMimeTypes  []string `yaml:"allowed_mime_types"`
	DetectMimeType    bool     `yaml:"detect_mime_type"`
}

// StorageOrganizationConfig holds blob layout settings
type StorageOrganizationConfig struct {
	Pattern    string `yaml:"pattern"`
	DateFormat string `yaml:"date_format"`
}

// LocalStorageConfig holds local storage settings
type LocalStorageConfig struct {
	UploadDir       string `yaml:"upload_dir"`
	CreateDirs      bool   `yaml:"create_dirs"`
	FilePermissions string `yaml:"file_permissions"`
	DirPermissions  string `yaml:"dir_permissions"`
}

// PinConfig holds PIN issuance and lookup settings
type PinConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	RateLimit   int           `yaml:"rate_limit"`
	RateWindow  time.Duration `yaml:"rate_window"`
}

// RetentionConfig holds expiry settings
type RetentionConfig struct {
	Enabled       bool          `yaml:"enabled"`
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	BatchSize     int           `yaml:"batch_size"`
}

// CacheConfig holds record cache settings
type CacheConfig struct {
	Size int           `yaml:"size"`
	TTL  time.Duration `yaml:"ttl"`
}

// StorageConfig holds the complete storage configuration
type StorageConfig struct {
	Validation   FileValidationConfig      `yaml:"validation"`
	Organization StorageOrganizationConfig `yaml:"organization"`
	Storage      LocalStorageConfig        `yaml:"storage"`
	Pin          PinConfig                 `yaml:"pin"`
	Retention    RetentionConfig           `yaml:"retention"`
	Cache        CacheConfig               `yaml:"cache"`
}

// MainConfig holds the root configuration
type MainConfig struct {
	Storage StorageConfig `yaml:"storage"`
}

// Default returns the configuration used when the YAML file omits a value
func Default() MainConfig {
	return MainConfig{
		Storage: StorageConfig{
			Validation: FileValidationConfig{
				MaxFileSize:    "100MB",
				DetectMimeType: true,
			},
			Organization: StorageOrganizationConfig{
				Pattern:    "flat",
				DateFormat: "2006-01-02",
			},
			Storage: LocalStorageConfig{
				UploadDir:       "uploads",
				CreateDirs:      true,
				FilePermissions: "0644",
				DirPermissions:  "0755",
			},
			Pin: PinConfig{
				MaxAttempts: 5,
				RateLimit:   10,
				RateWindow:  time.Minute,
			},
			Retention: RetentionConfig{
				Enabled:       true,
				TTL:           7 * 24 * time.Hour,
				SweepInterval: time.Hour,
				BatchSize:     100,
			},
			Cache: CacheConfig{
				Size: 1024,
				TTL:  5 * time.Minute,
			},
		},
	}
}

// LoadEnv loads .env files (default ".env") into the process environment.
// Variables that are already set are left untouched.
func LoadEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		if config.GetEnv("GO_ENV") != "production" {
			log.Println("Warning: Failed to load .env file")
		}
	}
}

// LoadConfig loads the YAML storage configuration at path.
// Values missing from the file keep their defaults.
func LoadConfig(path string) (*MainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	log.Printf("Storage configuration loaded successfully from %s", path)
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result
func Parse(data []byte) (*MainConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that cannot be expressed by YAML types alone
func (c *MainConfig) Validate() error {
	s := c.Storage

	if _, err := s.Validation.MaxFileSizeBytes(); err != nil {
		return fmt.Errorf("invalid validation.max_file_size: %w", err)
	}
	if s.Storage.UploadDir == "" {
		return fmt.Errorf("storage.upload_dir is required")
	}
	if _, err := s.Storage.FileMode(); err != nil {
		return fmt.Errorf("invalid storage.file_permissions: %w", err)
	}
	if _, err := s.Storage.DirMode(); err != nil {
		return fmt.Errorf("invalid storage.dir_permissions: %w", err)
	}
	switch s.Organization.Pattern {
	case "flat", "date":
	default:
		return fmt.Errorf("organization.pattern must be 'flat' or 'date', got %q", s.Organization.Pattern)
	}
	if s.Pin.MaxAttempts < 1 {
		return fmt.Errorf("pin.max_attempts must be at least 1")
	}
	if s.Retention.Enabled {
		if s.Retention.TTL <= 0 {
			return fmt.Errorf("retention.ttl must be positive when retention is enabled")
		}
		if s.Retention.SweepInterval <= 0 {
			return fmt.Errorf("retention.sweep_interval must be positive when retention is enabled")
		}
	}

	return nil
}

// MaxFileSizeBytes parses the human-readable size limit
func (v FileValidationConfig) MaxFileSizeBytes() (int64, error) {
	size, err := utils.ParseSizeString(v.MaxFileSize)
	if err != nil {
		return 0, err
	}
	if size <= 0 {
		return 0, fmt.Errorf("size must be positive: %s", v.MaxFileSize)
	}
	return size, nil
}

// FileMode parses the octal file permission string
func (l LocalStorageConfig) FileMode() (os.FileMode, error) {
	return parseMode(l.FilePermissions)
}

// DirMode parses the octal directory permission string
func (l LocalStorageConfig) DirMode() (os.FileMode, error) {
	return parseMode(l.DirPermissions)
}

func parseMode(s string) (os.FileMode, error) {
	mode, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, err
	}
	return os.FileMode(mode), nil
}
