// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/quill/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete quill configuration.
type Config struct {
	Local LocalConfig `toml:"local"`
	Chat  ChatConfig  `toml:"chat"`
	UI    UIConfig    `toml:"ui"`
	Log   LogConfig   `toml:"log"`
}

// LocalConfig contains local Ollama configuration.
type LocalConfig struct {
	// OllamaURL is the URL of the Ollama server
	OllamaURL string `toml:"ollama_url"`
	// DefaultModel preselects a model in the picker when the server lists it
	DefaultModel string `toml:"default_model"`
	// RequestTimeout bounds the model list request
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// ChatConfig contains conversation settings.
type ChatConfig struct {
	// SystemPrompt is sent ahead of every conversation
	SystemPrompt string `toml:"system_prompt"`
	// IncludeEnvironment appends OS, architecture and working directory to
	// the system prompt
	IncludeEnvironment bool `toml:"include_environment"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowTimestamps prints HH:MM next to each role label
	ShowTimestamps bool `toml:"show_timestamps"`
	// Markdown renders finished assistant replies as markdown
	Markdown bool `toml:"markdown"`
}

// LogConfig controls the diagnostic log. The terminal belongs to the UI, so
// logs only ever go to a file.
type LogConfig struct {
	// File is the log path; empty disables logging
	File string `toml:"file"`
	// Level is one of trace, debug, info, warn, error
	Level string `toml:"level"`
}

// DefaultSystemPrompt is used when the config does not set one.
const DefaultSystemPrompt = "You are a helpful assistant running in a terminal. Answer concisely and use plain text or light markdown."

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Local: LocalConfig{
			OllamaURL:      "http://127.0.0.1:11434",
			RequestTimeout: 30 * time.Second,
		},
		Chat: ChatConfig{
			SystemPrompt:       DefaultSystemPrompt,
			IncludeEnvironment: true,
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: true,
			Markdown:       false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the quill configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".quill"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from path, or from ~/.quill/config.toml when path
// is empty. A missing file at the default location is not an error; a
// missing file at an explicit path is. Environment overrides are applied
// last, then the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := fillDefaults(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Local.OllamaURL == "" {
		cfg.Local.OllamaURL = defaults.Local.OllamaURL
	}
	cfg.Local.OllamaURL = strings.TrimRight(cfg.Local.OllamaURL, "/")
	if cfg.Local.RequestTimeout == 0 {
		cfg.Local.RequestTimeout = defaults.Local.RequestTimeout
	}
	if strings.TrimSpace(cfg.Chat.SystemPrompt) == "" {
		cfg.Chat.SystemPrompt = defaults.Chat.SystemPrompt
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	cfg.UI.Theme = strings.ToLower(cfg.UI.Theme)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to a TOML file, creating its directory.
// The file is replaced atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# quill configuration file\n\n")
	if err := Encode(&buf, cfg); err != nil {
		return err
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0o600, 0o755); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes    = map[string]bool{"auto": true, "dark": true, "light": true}
	validLogLevels = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
)

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Local.OllamaURL); err != nil {
		errs = append(errs, ValidationError{
			Field:   "local.ollama_url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "local.ollama_url",
			Message: fmt.Sprintf("'%s' must be an http or https URL with a host", c.Local.OllamaURL),
		})
	}

	if c.Local.RequestTimeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "local.request_timeout",
			Message: "must not be negative",
		})
	}

	if !validThemes[c.UI.Theme] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: trace, debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported variables:
//   - QUILL_OLLAMA_URL: overrides local.ollama_url
//   - QUILL_MODEL: overrides local.default_model
//   - QUILL_THEME: overrides ui.theme
//   - QUILL_LOG_FILE: overrides log.file
//   - QUILL_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if url := os.Getenv("QUILL_OLLAMA_URL"); url != "" {
		c.Local.OllamaURL = url
	}
	if model := os.Getenv("QUILL_MODEL"); model != "" {
		c.Local.DefaultModel = model
	}
	if theme := os.Getenv("QUILL_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if file := os.Getenv("QUILL_LOG_FILE"); file != "" {
		c.Log.File = file
	}
	if level := os.Getenv("QUILL_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}
