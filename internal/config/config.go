// Package config provides configuration management for the AskForm application.
// It handles application settings, environment variables, and default values.
// Settings resolve as: environment variable, then the saved config file, then the default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// UI color constants for the TUI (Terminal User Interface)
const (
	// MainColorForeground is the primary text color (ANSI color code)
	MainColorForeground = "205"
	// MainColorBackground is the primary background color (ANSI color code)
	MainColorBackground = "16"
	// MainColorBackgroundMute is a muted background color (ANSI color code)
	MainColorBackgroundMute = "241"
	// ErrorColor is used for the error box
	ErrorColor = "196"
)

// Default configuration values
const (
	// Default directory name for storing application data
	defaultVaultDir = ".askForm"
	// Default base URL of the service exposing /api/ask
	defaultAPIURL = "http://localhost:8080"
	// Default glamour style for rendering replies
	defaultStyle = "auto"

	configFileName = "config.json"
	logFileName    = "askform.log"
)

// Config represents the application's configuration that can be saved and loaded
type Config struct {
	APIURL    string `json:"api_url,omitempty"`
	Style     string `json:"style,omitempty"`
	TaskID    *int64 `json:"task_id,omitempty"`
	SubtaskID *int64 `json:"subtask_id,omitempty"`
}

// getDefaultVaultPath returns the default path for the vault directory.
// It uses the user's home directory if available, otherwise falls back to the current directory.
func getDefaultVaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./" + defaultVaultDir
	}
	return filepath.Join(home, defaultVaultDir)
}

// VaultPath returns the path to the application's data directory.
// It checks the ASKFORM_VAULT environment variable first, then falls back to the default.
func VaultPath() string {
	if v := os.Getenv("ASKFORM_VAULT"); v != "" {
		return v
	}
	return getDefaultVaultPath()
}

// LogPath returns the path of the JSON-lines log file inside the vault.
func LogPath() string {
	return filepath.Join(VaultPath(), logFileName)
}

// APIURL returns the base URL of the ask service.
// It checks the ASKFORM_API_URL environment variable, then the saved config, then the default.
func APIURL() string {
	if v := os.Getenv("ASKFORM_API_URL"); v != "" {
		return v
	}
	if cfg, err := LoadConfig(); err == nil && cfg.APIURL != "" {
		return cfg.APIURL
	}
	return defaultAPIURL
}

// Style returns the glamour style used to render replies ("auto", "dark", "light", "notty", ...).
func Style() string {
	if v := os.Getenv("ASKFORM_STYLE"); v != "" {
		return v
	}
	if cfg, err := LoadConfig(); err == nil && cfg.Style != "" {
		return cfg.Style
	}
	return defaultStyle
}

// TaskID returns the task the prompts should be associated with, if any.
func TaskID() (*int64, error) {
	return idSetting("ASKFORM_TASK_ID", func(c Config) *int64 { return c.TaskID })
}

// SubtaskID returns the subtask the prompts should be associated with, if any.
func SubtaskID() (*int64, error) {
	return idSetting("ASKFORM_SUBTASK_ID", func(c Config) *int64 { return c.SubtaskID })
}

func idSetting(env string, saved func(Config) *int64) (*int64, error) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		id, err := ParseID(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", env, err)
		}
		return &id, nil
	}
	if cfg, err := LoadConfig(); err == nil {
		return saved(cfg), nil
	}
	return nil, nil
}

// ParseID parses a positive task or subtask identifier.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	return id, nil
}

// SaveConfig saves the configuration to a file in the vault directory
func SaveConfig(cfg Config) error {
	configPath := filepath.Join(VaultPath(), configFileName)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0600)
}

// LoadConfig loads the configuration from the config file if it exists.
// A missing file yields the defaults.
func LoadConfig() (Config, error) {
	configPath := filepath.Join(VaultPath(), configFileName)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return Config{APIURL: defaultAPIURL, Style: defaultStyle}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	// Handle missing fields in older config files
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Style == "" {
		cfg.Style = defaultStyle
	}

	return cfg, nil
}
