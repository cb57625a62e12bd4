// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading for snapsolve.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.snapsolve/config.toml
//   - ~/.snapsolve/config.json
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/snapsolve/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete snapsolve configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend selects the analysis backend: "local" (Ollama) or
	// "openrouter" (hosted).
	Backend string `toml:"backend" json:"backend"`

	// Local (Ollama) configuration
	Local LocalConfig `toml:"local" json:"local"`

	// Cloud (OpenRouter) configuration
	Cloud CloudConfig `toml:"cloud" json:"cloud"`

	// Hotkeys configuration
	Hotkeys HotkeysConfig `toml:"hotkeys" json:"hotkeys"`

	// Queue configuration
	Queue QueueConfig `toml:"queue" json:"queue"`

	// History configuration
	History HistoryConfig `toml:"history" json:"history"`

	// Rate limiting for analysis requests
	Rate RateConfig `toml:"rate" json:"rate"`
}

// LocalConfig contains local Ollama configuration.
type LocalConfig struct {
	// OllamaURL is the URL of the Ollama server
	OllamaURL string `toml:"ollama_url" json:"ollama_url"`
	// TextModel handles text-only operations (solution generation)
	TextModel string `toml:"text_model" json:"text_model"`
	// VisionModel handles screenshot analysis
	VisionModel string `toml:"vision_model" json:"vision_model"`
}

// CloudConfig contains OpenRouter configuration.
type CloudConfig struct {
	// OpenRouterKey is the OpenRouter API key. Falls back to the
	// OPENROUTER_API_KEY environment variable when empty.
	OpenRouterKey string `toml:"openrouter_key" json:"openrouter_key"`
	// Model is the hosted model identifier
	Model string `toml:"model" json:"model"`
}

// HotkeysConfig controls global shortcut registration.
type HotkeysConfig struct {
	// Enabled turns the whole shortcut layer on or off
	Enabled bool `toml:"enabled" json:"enabled"`
}

// QueueConfig controls the screenshot queues.
type QueueConfig struct {
	// MaxPerQueue caps each queue; the oldest artifact is evicted
	// (and its file deleted) when full
	MaxPerQueue int `toml:"max_per_queue" json:"max_per_queue"`
}

// HistoryConfig controls the extraction history store.
type HistoryConfig struct {
	// Enabled turns history recording on or off
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the SQLite database path (empty = ~/.snapsolve/history.db)
	Path string `toml:"path" json:"path"`
}

// RateConfig paces analysis requests.
type RateConfig struct {
	// RequestsPerSecond is the sustained request rate (0 = unpaced)
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	// Burst is the number of requests admitted unpaced
	Burst int `toml:"burst" json:"burst"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Backend: "local",
		Local: LocalConfig{
			OllamaURL:   "http://127.0.0.1:11434",
			TextModel:   "qwen2.5-coder:14b",
			VisionModel: "llama3.2-vision:11b",
		},
		Cloud: CloudConfig{
			Model: "google/gemini-2.0-flash-001",
		},
		Hotkeys: HotkeysConfig{Enabled: true},
		Queue:   QueueConfig{MaxPerQueue: 5},
		History: HistoryConfig{Enabled: true},
		Rate: RateConfig{
			RequestsPerSecond: 1.0,
			Burst:             3,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the snapsolve configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".snapsolve"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// ensureSecurePermissions tightens config file permissions to 0600.
// The file may hold an API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		if err := os.Chmod(path, 0o600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load loads configuration from the config file(s). Tries TOML first,
// then JSON, falling back to defaults. Environment overrides are
// applied last, then the result is validated.
func Load() (*Config, error) {
	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := loadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finish(cfg)
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := loadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finish(cfg)
		}
	}

	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if filepath.Ext(path) == ".json" {
		if err := loadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := loadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	return finish(cfg)
}

// finish applies env overrides and validates.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

func loadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// Save writes the configuration to the TOML config file atomically.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file atomically with
// 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// =============================================================================
// ENV OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies SNAPSOLVE_* environment variables on top
// of the loaded configuration. The OpenRouter key additionally falls
// back to OPENROUTER_API_KEY.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SNAPSOLVE_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("SNAPSOLVE_OLLAMA_URL"); v != "" {
		c.Local.OllamaURL = v
	}
	if v := os.Getenv("SNAPSOLVE_TEXT_MODEL"); v != "" {
		c.Local.TextModel = v
	}
	if v := os.Getenv("SNAPSOLVE_VISION_MODEL"); v != "" {
		c.Local.VisionModel = v
	}
	if v := os.Getenv("SNAPSOLVE_OPENROUTER_KEY"); v != "" {
		c.Cloud.OpenRouterKey = v
	}
	if c.Cloud.OpenRouterKey == "" {
		c.Cloud.OpenRouterKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if v := os.Getenv("SNAPSOLVE_MODEL"); v != "" {
		c.Cloud.Model = v
	}
	if v := os.Getenv("SNAPSOLVE_HISTORY"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.History.Enabled = enabled
		}
	}
	if v := os.Getenv("SNAPSOLVE_HOTKEYS"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Hotkeys.Enabled = enabled
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Backend {
	case "local", "openrouter":
	default:
		return ValidationError{Field: "backend", Message: fmt.Sprintf("must be \"local\" or \"openrouter\", got %q", c.Backend)}
	}

	if c.Local.OllamaURL != "" {
		u, err := url.Parse(c.Local.OllamaURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ValidationError{Field: "local.ollama_url", Message: fmt.Sprintf("not a valid URL: %q", c.Local.OllamaURL)}
		}
	}

	if c.Backend == "openrouter" && c.Cloud.OpenRouterKey == "" {
		return ValidationError{Field: "cloud.openrouter_key", Message: "required when backend is \"openrouter\" (set SNAPSOLVE_OPENROUTER_KEY or OPENROUTER_API_KEY)"}
	}

	if c.Queue.MaxPerQueue < 1 || c.Queue.MaxPerQueue > 50 {
		return ValidationError{Field: "queue.max_per_queue", Message: fmt.Sprintf("must be between 1 and 50, got %d", c.Queue.MaxPerQueue)}
	}

	if c.Rate.RequestsPerSecond < 0 {
		return ValidationError{Field: "rate.requests_per_second", Message: "must not be negative"}
	}
	if c.Rate.Burst < 0 {
		return ValidationError{Field: "rate.burst", Message: "must not be negative"}
	}

	return nil
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// Global returns the process-wide configuration, loading it on first
// use. A load failure falls back to defaults.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the global config so tests start fresh.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
}
