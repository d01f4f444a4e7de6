// Package config handles rota configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration structure for rota.
type Config struct {
	// Global settings
	Global GlobalConfig `yaml:"global" mapstructure:"global"`

	// Database settings
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Planner service settings
	Planner PlannerConfig `yaml:"planner" mapstructure:"planner"`

	// Grid geometry settings
	Grid GridConfig `yaml:"grid" mapstructure:"grid"`

	// TUI settings
	TUI TUIConfig `yaml:"tui" mapstructure:"tui"`
}

// GlobalConfig contains global rota settings.
type GlobalConfig struct {
	// DataDir is where rota stores its data (default: ~/.local/share/rota).
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// ConfigDir is where config files are stored (default: ~/.config/rota).
	ConfigDir string `yaml:"config_dir" mapstructure:"config_dir"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `yaml:"path" mapstructure:"path"`

	// BusyTimeoutMs is how long to wait for a locked database (milliseconds).
	BusyTimeoutMs int `yaml:"busy_timeout_ms" mapstructure:"busy_timeout_ms"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// File is an optional log file path.
	File string `yaml:"file" mapstructure:"file"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// PlannerConfig contains plan service settings.
type PlannerConfig struct {
	// BaseURL is the plan service endpoint.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// APIKey authenticates plan requests (empty for open endpoints).
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// Timeout bounds a single plan request. Plan generation is slow on the
	// service side, so this defaults well above normal HTTP timeouts.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// GridConfig contains timetable grid geometry settings.
type GridConfig struct {
	// BaseSlotHeight is the unscaled slot height in terminal rows.
	BaseSlotHeight float64 `yaml:"base_slot_height" mapstructure:"base_slot_height"`

	// SlotGap is the spacing between slots in terminal rows.
	SlotGap float64 `yaml:"slot_gap" mapstructure:"slot_gap"`

	// ZoomSensitivity scales drag distance to zoom delta. Zero derives the
	// default from the base slot height.
	ZoomSensitivity float64 `yaml:"zoom_sensitivity" mapstructure:"zoom_sensitivity"`
}

// TUIConfig contains TUI settings.
type TUIConfig struct {
	// RefreshInterval is how often the now indicator is recomputed.
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`

	// Theme is the color theme (default, high-contrast).
	Theme string `yaml:"theme" mapstructure:"theme"`

	// ShowNowIndicator toggles the current-time marker.
	ShowNowIndicator bool `yaml:"show_now_indicator" mapstructure:"show_now_indicator"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Global: GlobalConfig{
			DataDir:   filepath.Join(homeDir, ".local", "share", "rota"),
			ConfigDir: filepath.Join(homeDir, ".config", "rota"),
		},
		Database: DatabaseConfig{
			Path:          "", // Will be set to DataDir/rota.db
			BusyTimeoutMs: 5000,
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "console",
			EnableCaller: false,
		},
		Planner: PlannerConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 120 * time.Second,
		},
		Grid: GridConfig{
			BaseSlotHeight:  40,
			SlotGap:         1,
			ZoomSensitivity: 0,
		},
		TUI: TUIConfig{
			RefreshInterval:  30 * time.Second,
			Theme:            "default",
			ShowNowIndicator: true,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.BusyTimeoutMs < 0 {
		return fmt.Errorf("database.busy_timeout_ms must not be negative")
	}

	if c.Grid.BaseSlotHeight <= 0 {
		return fmt.Errorf("grid.base_slot_height must be positive")
	}
	if c.Grid.SlotGap < 0 {
		return fmt.Errorf("grid.slot_gap must not be negative")
	}
	if c.Grid.ZoomSensitivity < 0 {
		return fmt.Errorf("grid.zoom_sensitivity must not be negative")
	}

	if c.Planner.Timeout < time.Second {
		return fmt.Errorf("planner.timeout must be at least 1s")
	}

	switch c.TUI.Theme {
	case "default", "high-contrast":
	default:
		return fmt.Errorf("tui.theme must be one of default, high-contrast")
	}
	if c.TUI.RefreshInterval < time.Second {
		return fmt.Errorf("tui.refresh_interval must be at least 1s")
	}

	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Global.DataDir,
		c.Global.ConfigDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// DatabasePath returns the full database path.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(c.Global.DataDir, "rota.db")
}

// LogFilePath returns the log file path used while the TUI runs.
func (c *Config) LogFilePath() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(c.Global.DataDir, "rota.log")
}
