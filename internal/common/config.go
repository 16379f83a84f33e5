// Package common provides shared utilities for Carteira
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Carteira
type Config struct {
	Environment string          `toml:"environment"`
	API         APIConfig       `toml:"api"`
	Upload      UploadConfig    `toml:"upload"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Reporting   ReportingConfig `toml:"reporting"`
}

// APIConfig holds configuration for the portfolio backend API.
type APIConfig struct {
	BaseURL      string `toml:"base_url"`
	Token        string `toml:"token"`
	RateLimit    int    `toml:"rate_limit"`
	Timeout      string `toml:"timeout"`
	PollInterval string `toml:"poll_interval"`
}

// GetTimeout parses and returns the request timeout duration
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetPollInterval parses and returns the parse-result poll interval
func (c *APIConfig) GetPollInterval() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 3 * time.Second
	}
	return d
}

// UploadConfig holds client-side upload constraints.
type UploadConfig struct {
	MaxFileSizeMB int `toml:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the upload size limit in bytes.
func (c *UploadConfig) MaxFileSizeBytes() int64 {
	if c.MaxFileSizeMB <= 0 {
		return 20 * 1024 * 1024
	}
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// StorageConfig holds the local document-history storage path.
type StorageConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ReportingConfig holds the optional error-reporting service configuration.
// Reporting is entirely disabled when DSN is empty.
type ReportingConfig struct {
	DSN string `toml:"dsn"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		API: APIConfig{
			BaseURL:      "http://localhost:8000/api",
			RateLimit:    5,
			Timeout:      "30s",
			PollInterval: "3s",
		},
		Upload: UploadConfig{
			MaxFileSizeMB: 20,
		},
		Storage: StorageConfig{
			Path: "data/carteira",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CARTEIRA_ENV"); env != "" {
		config.Environment = env
	}

	if url := os.Getenv("CARTEIRA_API_URL"); url != "" {
		config.API.BaseURL = url
	}

	if token := os.Getenv("CARTEIRA_API_TOKEN"); token != "" {
		config.API.Token = token
	}

	if timeout := os.Getenv("CARTEIRA_API_TIMEOUT"); timeout != "" {
		config.API.Timeout = timeout
	}

	if interval := os.Getenv("CARTEIRA_POLL_INTERVAL"); interval != "" {
		config.API.PollInterval = interval
	}

	if limit := os.Getenv("CARTEIRA_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			config.API.RateLimit = n
		}
	}

	if level := os.Getenv("CARTEIRA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("CARTEIRA_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if dsn := os.Getenv("CARTEIRA_SENTRY_DSN"); dsn != "" {
		config.Reporting.DSN = dsn
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
