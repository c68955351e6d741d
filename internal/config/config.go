package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
)

type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Review   ReviewConfig   `yaml:"review"`
	Adaptive AdaptiveConfig `yaml:"adaptive"`
	Logging  LoggingConfig  `yaml:"logging"`
	Backup   BackupConfig   `yaml:"backup"`

	// Dir is the directory holding the config file, logs and default data files
	Dir string `yaml:"-"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type AutosaveConfig struct {
	// Debounce of 0 saves synchronously after every change
	Debounce time.Duration `yaml:"debounce"`
}

type ReviewConfig struct {
	WindowDays int `yaml:"window_days"`
}

type AdaptiveConfig struct {
	BulkMirrored bool `yaml:"bulk_mirrored"`
}

type LoggingConfig struct {
	// Level is debug, info, warn or error; debug overrides it
	Level string `yaml:"level"`
	Debug bool   `yaml:"debug"`
}

type BackupConfig struct {
	MaxBackups int `yaml:"max_backups"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Driver: constants.DriverSQLite},
		Review:  ReviewConfig{WindowDays: constants.ReviewWindowDays},
		Logging: LoggingConfig{Level: "warn"},
		Backup:  BackupConfig{MaxBackups: constants.MaxBackups},
	}
}

// DefaultPath returns ~/.config/liftlog/config.yaml
func DefaultPath() string {
	return filepath.Join(ExpandPath(constants.DefaultConfigDir), constants.ConfigFileName)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults are used instead.
// Env vars use the prefix LIFTLOG_ and underscore-separated paths:
//
//	LIFTLOG_STORAGE_DRIVER, LIFTLOG_STORAGE_PATH, LIFTLOG_AUTOSAVE_DEBOUNCE,
//	LIFTLOG_REVIEW_WINDOW_DAYS, LIFTLOG_ADAPTIVE_BULK_MIRRORED,
//	LIFTLOG_LOGGING_LEVEL, LIFTLOG_LOGGING_DEBUG, LIFTLOG_BACKUP_MAX_BACKUPS
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	path = ExpandPath(path)

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg.Dir = filepath.Dir(path)

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.resolve()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LIFTLOG_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("LIFTLOG_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("LIFTLOG_AUTOSAVE_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LIFTLOG_AUTOSAVE_DEBOUNCE: %w", err)
		}
		cfg.Autosave.Debounce = d
	}
	if v := os.Getenv("LIFTLOG_REVIEW_WINDOW_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LIFTLOG_REVIEW_WINDOW_DAYS: %w", err)
		}
		cfg.Review.WindowDays = days
	}
	if v := os.Getenv("LIFTLOG_ADAPTIVE_BULK_MIRRORED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LIFTLOG_ADAPTIVE_BULK_MIRRORED: %w", err)
		}
		cfg.Adaptive.BulkMirrored = b
	}
	if v := os.Getenv("LIFTLOG_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LIFTLOG_LOGGING_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LIFTLOG_LOGGING_DEBUG: %w", err)
		}
		cfg.Logging.Debug = b
	}
	if v := os.Getenv("LIFTLOG_BACKUP_MAX_BACKUPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LIFTLOG_BACKUP_MAX_BACKUPS: %w", err)
		}
		cfg.Backup.MaxBackups = n
	}
	return nil
}

// resolve fills the storage path from the driver when unset
func (c *Config) resolve() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Path == "" {
		name := constants.DBFileName
		if c.Storage.Driver == constants.DriverJSON {
			name = constants.JSONFileName
		}
		c.Storage.Path = filepath.Join(c.Dir, name)
	}
	c.Storage.Path = ExpandPath(c.Storage.Path)
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case constants.DriverSQLite, constants.DriverJSON:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", constants.DriverSQLite, constants.DriverJSON, c.Storage.Driver)
	}
	if c.Autosave.Debounce < 0 {
		return fmt.Errorf("autosave.debounce must not be negative")
	}
	if c.Review.WindowDays < 1 {
		return fmt.Errorf("review.window_days must be at least 1")
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Backup.MaxBackups < 1 {
		return fmt.Errorf("backup.max_backups must be at least 1")
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
