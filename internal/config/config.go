// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete asked configuration.
type Config struct {
	// Model is the completion model identifier sent to OpenRouter.
	Model string `toml:"model"`

	// DataDir is where conversations and settings are stored.
	// Empty means ~/.asked.
	DataDir string `toml:"data_dir"`

	// Storage selects the persistence backend: "file" or "sqlite".
	Storage string `toml:"storage"`

	// LogLevel is the zerolog level name: "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level"`

	// Cloud contains the OpenRouter settings.
	Cloud CloudConfig `toml:"cloud"`

	// Enrich contains the reference lookup settings.
	Enrich EnrichConfig `toml:"enrich"`
}

// CloudConfig contains OpenRouter configuration.
type CloudConfig struct {
	// OpenRouterKey is the fallback API key used when none is stored.
	OpenRouterKey string `toml:"openrouter_key"`
	// SiteURL is sent as the HTTP-Referer header for attribution.
	SiteURL string `toml:"site_url"`
	// MaxRetries bounds attempts for transient failures.
	MaxRetries int `toml:"max_retries"`
}

// EnrichConfig contains reference lookup configuration.
type EnrichConfig struct {
	// Enabled turns the Wikipedia lookup on for /wiki sends.
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Model:    "deepseek/deepseek-chat-v3.1:free",
		Storage:  "file",
		LogLevel: "info",
		Cloud: CloudConfig{
			SiteURL:    "https://asked.local",
			MaxRetries: 3,
		},
		Enrich: EnrichConfig{Enabled: true},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the asked configuration/data directory (~/.asked).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".asked"), nil
}

// Path returns the default TOML config path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir creates the asked directory with owner-only permissions.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the default config file, applies environment overrides, and
// validates the result. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file. The file may
// be absent; malformed content is an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies ASKED_* environment variables over the loaded
// values. Environment always wins over file content.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("ASKED_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("ASKED_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("ASKED_STORAGE"); v != "" {
		c.Storage = v
	}
	if v := os.Getenv("ASKED_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ASKED_OPENROUTER_KEY"); v != "" {
		c.Cloud.OpenRouterKey = v
	}
	// The key OpenRouter itself documents, honored as a lower-priority alias.
	if c.Cloud.OpenRouterKey == "" {
		c.Cloud.OpenRouterKey = os.Getenv("OPENROUTER_API_KEY")
	}
}

// fillDefaults replaces zero values left by a partial file.
func (c *Config) fillDefaults() {
	def := Default()
	if strings.TrimSpace(c.Model) == "" {
		c.Model = def.Model
	}
	if strings.TrimSpace(c.Storage) == "" {
		c.Storage = def.Storage
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = def.LogLevel
	}
	if strings.TrimSpace(c.Cloud.SiteURL) == "" {
		c.Cloud.SiteURL = def.Cloud.SiteURL
	}
	if c.Cloud.MaxRetries <= 0 {
		c.Cloud.MaxRetries = def.Cloud.MaxRetries
	}
	if strings.TrimSpace(c.DataDir) == "" {
		if dir, err := Dir(); err == nil {
			c.DataDir = dir
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

var validStorageBackends = map[string]bool{
	"file":   true,
	"sqlite": true,
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	var errs []string

	if !validStorageBackends[c.Storage] {
		errs = append(errs, fmt.Sprintf("storage: unknown backend %q (want file or sqlite)", c.Storage))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("log_level: unknown level %q", c.LogLevel))
	}
	if c.Cloud.MaxRetries < 1 || c.Cloud.MaxRetries > 10 {
		errs = append(errs, fmt.Sprintf("cloud.max_retries: %d out of range [1,10]", c.Cloud.MaxRetries))
	}

	if len(errs) > 0 {
		return errors.New("invalid configuration: " + strings.Join(errs, "; "))
	}
	return nil
}

// Save writes the configuration to the default TOML path with owner-only
// permissions, creating the directory if needed.
func Save(cfg *Config) error {
	if err := EnsureDir(); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
