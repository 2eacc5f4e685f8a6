// Package config provides configuration loading for the server and CLI.
// Values come from an optional JSON file, overridden by environment
// variables, overridden by CLI flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Backend names the persistence implementation to use
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds everything the server and CLI need. All fields are optional;
// missing values fall back to defaults.
type Config struct {
	Port    int    `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Backend string `json:"backend,omitempty" validate:"omitempty,oneof=memory redis postgres"`

	DatabaseURL string `json:"database_url,omitempty"`
	RedisURL    string `json:"redis_url,omitempty"`

	APIKey string `json:"api_key,omitempty"` // Gemini API key
	Model  string `json:"model,omitempty"`   // Gemini model name

	DefaultLanguage string `json:"default_language,omitempty" validate:"omitempty,oneof=en da"`
	Verbose         bool   `json:"verbose,omitempty"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Port:            8080,
		Backend:         BackendMemory,
		DefaultLanguage: "en",
	}
}

// LoadFile loads configuration from a JSON file
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables. Unset variables leave
// the current values alone.
func (c *Config) ApplyEnv() error {
	if port := os.Getenv("CVDOC_PORT"); port != "" {
		value, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid CVDOC_PORT %q: %w", port, err)
		}
		c.Port = value
	}
	if backend := os.Getenv("CVDOC_BACKEND"); backend != "" {
		c.Backend = backend
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.DatabaseURL = url
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		c.RedisURL = url
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.APIKey = key
	}
	if model := os.Getenv("CVDOC_MODEL"); model != "" {
		c.Model = model
	}
	if lang := os.Getenv("CVDOC_DEFAULT_LANGUAGE"); lang != "" {
		c.DefaultLanguage = lang
	}
	return nil
}

// MergeDefaults fills zero-valued fields from defaults
func (c *Config) MergeDefaults(defaults Config) {
	if c.Port == 0 {
		c.Port = defaults.Port
	}
	if c.Backend == "" {
		c.Backend = defaults.Backend
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = defaults.DatabaseURL
	}
	if c.RedisURL == "" {
		c.RedisURL = defaults.RedisURL
	}
	if c.APIKey == "" {
		c.APIKey = defaults.APIKey
	}
	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = defaults.DefaultLanguage
	}
}

// Validate checks field values and backend/URL consistency
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	switch c.Backend {
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: backend %q requires redis_url", c.Backend)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: backend %q requires database_url", c.Backend)
		}
	}
	return nil
}
