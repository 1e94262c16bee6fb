// Package common provides shared utilities for Vista
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Vista
type Config struct {
	Environment string          `toml:"environment" validate:"oneof=development staging production prod"`
	Server      ServerConfig    `toml:"server"`
	API         APIConfig       `toml:"api"`
	Dashboard   DashboardConfig `toml:"dashboard"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host" validate:"required"`
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
}

// APIConfig holds remote stock API configuration
type APIConfig struct {
	BaseURL   string `toml:"base_url" validate:"required,url"`
	RateLimit int    `toml:"rate_limit" validate:"gt=0"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// DashboardConfig holds dashboard refresh behaviour configuration
type DashboardConfig struct {
	ListLimit int    `toml:"list_limit" validate:"gt=0"` // rows requested per ranked-list fetch
	NoticeTTL string `toml:"notice_ttl"`                 // how long transient notices stay visible
	ReturnURL string `toml:"return_url"`                 // checkout redirect target
}

// GetNoticeTTL parses and returns the notice auto-dismiss duration
func (c *DashboardConfig) GetNoticeTTL() time.Duration {
	d, err := time.ParseDuration(c.NoticeTTL)
	if err != nil {
		return 3 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"`
	FilePath string `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		API: APIConfig{
			BaseURL:   "http://localhost:8000/api",
			RateLimit: 10,
			Timeout:   "30s",
		},
		Dashboard: DashboardConfig{
			ListLimit: 50,
			NoticeTTL: "3s",
			ReturnURL: "http://localhost:8090/payment/success",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
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

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VISTA_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("VISTA_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("VISTA_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("VISTA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if base := os.Getenv("VISTA_API_URL"); base != "" {
		config.API.BaseURL = base
	}

	if ret := os.Getenv("VISTA_RETURN_URL"); ret != "" {
		config.Dashboard.ReturnURL = ret
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
