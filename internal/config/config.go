// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/askdesk/internal/chat"
	"github.com/jeranaias/askdesk/internal/simulate"
	"github.com/jeranaias/askdesk/internal/upload"
	"github.com/jeranaias/askdesk/internal/util"
)

// Send modes for chat.send_mode.
const (
	SendModeConcurrent = "concurrent"
	SendModeSerialize  = "serialize"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete askdesk configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Server  ServerConfig  `toml:"server" json:"server"`
	Chat    ChatConfig    `toml:"chat" json:"chat"`
	Upload  UploadConfig  `toml:"upload" json:"upload"`
	History HistoryConfig `toml:"history" json:"history"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// ServerConfig locates the question-answering service.
type ServerConfig struct {
	// URL is the base URL the endpoint paths are joined to.
	URL        string `toml:"url" json:"url"`
	AskPath    string `toml:"ask_path" json:"ask_path"`
	UploadPath string `toml:"upload_path" json:"upload_path"`
	// TimeoutSecs bounds a whole request, upload body included.
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs"`
	UserAgent   string `toml:"user_agent" json:"user_agent"`
}

// ChatConfig contains chat controller settings.
type ChatConfig struct {
	// SendMode is "concurrent" (overlapping sends allowed) or "serialize"
	// (a send while one is in flight is rejected).
	SendMode string `toml:"send_mode" json:"send_mode"`
	// ThinkingText is shown in the assistant placeholder while waiting.
	ThinkingText string `toml:"thinking_text" json:"thinking_text"`
	// ErrorText replaces the placeholder on any failure.
	ErrorText string `toml:"error_text" json:"error_text"`
	// RenderMarkdown renders answers through glamour.
	RenderMarkdown bool `toml:"render_markdown" json:"render_markdown"`
	// ShowSources lists the documents an answer was drawn from.
	ShowSources bool `toml:"show_sources" json:"show_sources"`
}

// UploadConfig contains upload controller and simulation settings.
type UploadConfig struct {
	StatusIntervalMs   int `toml:"status_interval_ms" json:"status_interval_ms"`
	ProgressIntervalMs int `toml:"progress_interval_ms" json:"progress_interval_ms"`
	// SuccessDelayMs is how long the completed overlay stays up.
	SuccessDelayMs int `toml:"success_delay_ms" json:"success_delay_ms"`

	// StatusPhases replaces the built-in status script when set.
	StatusPhases     []string `toml:"status_phases" json:"status_phases"`
	CompletionText   string   `toml:"completion_text" json:"completion_text"`
	NoFileText       string   `toml:"no_file_text" json:"no_file_text"`
	UnknownErrorText string   `toml:"unknown_error_text" json:"unknown_error_text"`
}

// HistoryConfig controls the local exchange log.
type HistoryConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path of the SQLite database (empty = ~/.askdesk/history.db).
	Path string `toml:"path" json:"path"`
	// ListLimit is the default number of rows `history` prints.
	ListLimit int `toml:"list_limit" json:"list_limit"`
}

// UIConfig contains TUI configuration.
type UIConfig struct {
	// Theme is "dark", "light" or "auto".
	Theme         string `toml:"theme" json:"theme"`
	ChatEnabled   bool   `toml:"chat_enabled" json:"chat_enabled"`
	UploadEnabled bool   `toml:"upload_enabled" json:"upload_enabled"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" json:"level"`
	// Format is "text" or "json".
	Format string `toml:"format" json:"format"`
	// File overrides the log destination (empty = ~/.askdesk/askdesk.log
	// for the TUI, stderr for one-shot commands).
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// DefaultStatusPhases is the built-in upload status script.
var DefaultStatusPhases = []string(simulate.DefaultScript.Clone())

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1",

		Server: ServerConfig{
			URL:         "http://127.0.0.1:5000",
			AskPath:     "/ask",
			UploadPath:  "/upload",
			TimeoutSecs: 300,
			UserAgent:   "askdesk",
		},

		Chat: ChatConfig{
			SendMode:       SendModeConcurrent,
			ThinkingText:   chat.DefaultThinkingText,
			ErrorText:      chat.DefaultErrorText,
			RenderMarkdown: true,
			ShowSources:    true,
		},

		Upload: UploadConfig{
			StatusIntervalMs:   2000,
			ProgressIntervalMs: 300,
			SuccessDelayMs:     1000,
			StatusPhases:       []string(simulate.DefaultScript.Clone()),
			CompletionText:     upload.DefaultCompletionText,
			NoFileText:         upload.DefaultNoFileText,
			UnknownErrorText:   upload.DefaultUnknownErrorText,
		},

		History: HistoryConfig{
			Enabled:   true,
			ListLimit: 20,
		},

		UI: UIConfig{
			Theme:         "auto",
			ChatEnabled:   true,
			UploadEnabled: true,
		},

		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Timeout returns the request timeout as a duration.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// StatusInterval returns the status rotation period.
func (u UploadConfig) StatusInterval() time.Duration {
	return time.Duration(u.StatusIntervalMs) * time.Millisecond
}

// ProgressInterval returns the progress tick period.
func (u UploadConfig) ProgressInterval() time.Duration {
	return time.Duration(u.ProgressIntervalMs) * time.Millisecond
}

// SuccessDelay returns how long the completed overlay lingers.
func (u UploadConfig) SuccessDelay() time.Duration {
	return time.Duration(u.SuccessDelayMs) * time.Millisecond
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the askdesk configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".askdesk"), nil
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

// HistoryPath resolves the history database location.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LogPath resolves the log file used by the TUI.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "askdesk.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied before validation.
func Load() (*Config, error) {
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			return LoadFromPath(tomlPath)
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			return LoadFromPath(jsonPath)
		}
	}

	cfg := Default()
	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file. Files ending in
// .json are decoded as JSON, everything else as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// LoadTOML decodes a TOML file over cfg. Keys missing from the file keep
// the values cfg already holds.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills zero-valued fields with defaults. Booleans are left
// alone because false is a meaningful setting.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// Server
	if cfg.Server.URL == "" {
		cfg.Server.URL = defaults.Server.URL
	}
	if cfg.Server.AskPath == "" {
		cfg.Server.AskPath = defaults.Server.AskPath
	}
	if cfg.Server.UploadPath == "" {
		cfg.Server.UploadPath = defaults.Server.UploadPath
	}
	if cfg.Server.TimeoutSecs == 0 {
		cfg.Server.TimeoutSecs = defaults.Server.TimeoutSecs
	}
	if cfg.Server.UserAgent == "" {
		cfg.Server.UserAgent = defaults.Server.UserAgent
	}

	// Chat
	if cfg.Chat.SendMode == "" {
		cfg.Chat.SendMode = defaults.Chat.SendMode
	}
	cfg.Chat.SendMode = strings.ToLower(cfg.Chat.SendMode)
	if cfg.Chat.ThinkingText == "" {
		cfg.Chat.ThinkingText = defaults.Chat.ThinkingText
	}
	if cfg.Chat.ErrorText == "" {
		cfg.Chat.ErrorText = defaults.Chat.ErrorText
	}

	// Upload
	if cfg.Upload.StatusIntervalMs == 0 {
		cfg.Upload.StatusIntervalMs = defaults.Upload.StatusIntervalMs
	}
	if cfg.Upload.ProgressIntervalMs == 0 {
		cfg.Upload.ProgressIntervalMs = defaults.Upload.ProgressIntervalMs
	}
	if cfg.Upload.SuccessDelayMs == 0 {
		cfg.Upload.SuccessDelayMs = defaults.Upload.SuccessDelayMs
	}
	if len(cfg.Upload.StatusPhases) == 0 {
		cfg.Upload.StatusPhases = defaults.Upload.StatusPhases
	}
	if cfg.Upload.CompletionText == "" {
		cfg.Upload.CompletionText = defaults.Upload.CompletionText
	}
	if cfg.Upload.NoFileText == "" {
		cfg.Upload.NoFileText = defaults.Upload.NoFileText
	}
	if cfg.Upload.UnknownErrorText == "" {
		cfg.Upload.UnknownErrorText = defaults.Upload.UnknownErrorText
	}

	// History
	if cfg.History.ListLimit == 0 {
		cfg.History.ListLimit = defaults.History.ListLimit
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration as TOML with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# askdesk configuration file\n")
	buf.WriteString("# Generated by askdesk - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration as indented JSON with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
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
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors as
// ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// Server
	// ==========================================================================

	if u, err := url.Parse(c.Server.URL); err != nil {
		errs = append(errs, ValidationError{
			Field:   "server.url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "server.url",
			Message: fmt.Sprintf("must be an absolute http(s) URL, got '%s'", c.Server.URL),
		})
	}

	for field, p := range map[string]string{
		"server.ask_path":    c.Server.AskPath,
		"server.upload_path": c.Server.UploadPath,
	} {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must start with '/', got '%s'", p),
			})
		}
	}

	if c.Server.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.timeout_secs",
			Message: "must be non-negative",
		})
	}

	// ==========================================================================
	// Chat
	// ==========================================================================

	switch strings.ToLower(c.Chat.SendMode) {
	case SendModeConcurrent, SendModeSerialize:
	default:
		errs = append(errs, ValidationError{
			Field:   "chat.send_mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: concurrent, serialize", c.Chat.SendMode),
		})
	}

	// ==========================================================================
	// Upload
	// ==========================================================================

	if c.Upload.StatusIntervalMs < 0 {
		errs = append(errs, ValidationError{Field: "upload.status_interval_ms", Message: "must be positive"})
	}
	if c.Upload.ProgressIntervalMs < 0 {
		errs = append(errs, ValidationError{Field: "upload.progress_interval_ms", Message: "must be positive"})
	}
	if c.Upload.SuccessDelayMs < 0 {
		errs = append(errs, ValidationError{Field: "upload.success_delay_ms", Message: "must be non-negative"})
	}
	if len(c.Upload.StatusPhases) == 0 {
		errs = append(errs, ValidationError{Field: "upload.status_phases", Message: "must not be empty"})
	}
	for i, phase := range c.Upload.StatusPhases {
		if strings.TrimSpace(phase) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("upload.status_phases[%d]", i),
				Message: "must not be blank",
			})
		}
	}

	// ==========================================================================
	// History
	// ==========================================================================

	if c.History.ListLimit < 1 || c.History.ListLimit > 1000 {
		errs = append(errs, ValidationError{
			Field:   "history.list_limit",
			Message: fmt.Sprintf("must be 1-1000, got %d", c.History.ListLimit),
		})
	}

	// ==========================================================================
	// UI
	// ==========================================================================

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}
	if !c.UI.ChatEnabled && !c.UI.UploadEnabled {
		errs = append(errs, ValidationError{
			Field:   "ui",
			Message: "at least one of chat_enabled, upload_enabled must be true",
		})
	}

	// ==========================================================================
	// Log
	// ==========================================================================

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: text, json", c.Log.Format),
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
// Supported environment variables:
//   - ASKDESK_URL: overrides server.url
//   - ASKDESK_SEND_MODE: overrides chat.send_mode
//   - ASKDESK_LOG_LEVEL: overrides log.level
//   - ASKDESK_HISTORY: "0"/"false" disables the history store, "1"/"true" enables it
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("ASKDESK_URL"); u != "" {
		c.Server.URL = u
	}

	if mode := os.Getenv("ASKDESK_SEND_MODE"); mode != "" {
		c.Chat.SendMode = mode
	}

	if level := os.Getenv("ASKDESK_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if hist := os.Getenv("ASKDESK_HISTORY"); hist != "" {
		c.History.Enabled = parseBool(hist)
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g. "chat.send_mode").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field, nil
		}

		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(part[:1]))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				// Phases are separated with '|' on the command line.
				var items []string
				for _, item := range strings.Split(strVal, "|") {
					if item = strings.TrimSpace(item); item != "" {
						items = append(items, item)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Upload.StatusPhases != nil {
		clone.Upload.StatusPhases = append([]string(nil), c.Upload.StatusPhases...)
	}
	return &clone
}

// String returns the configuration as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
