// Package config loads the chart configuration file (TOML).
//
// The file is optional. Keys that are present override the defaults; everything else keeps
// its default value. Unknown keys are reported as warnings rather than errors.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/taskline/internal/constants"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/timeline"
)

type Config struct {
	Timeline TimelineConfig `toml:"timeline"`
	Display  DisplayConfig  `toml:"display"`
	Log      LogConfig      `toml:"log"`

	Warnings []string `toml:"-"`
}

type TimelineConfig struct {
	PaddingDays     int     `toml:"padding_days"`
	FallbackDays    int     `toml:"fallback_days"`
	WorkdayHours    float64 `toml:"workday_hours"`
	MinWidthPercent float64 `toml:"min_width_percent"`
}

type DisplayConfig struct {
	NameWidth      int               `toml:"name_width"`
	DayWidth       int               `toml:"day_width"`
	ShowWeekends   bool              `toml:"show_weekends"`
	StatusColors   map[string]string `toml:"status_colors"`
	PriorityColors map[string]string `toml:"priority_colors"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Timeline: TimelineConfig{
			PaddingDays:     constants.DefaultPaddingDays,
			FallbackDays:    constants.DefaultFallbackDays,
			WorkdayHours:    constants.DefaultWorkdayHours,
			MinWidthPercent: constants.DefaultMinWidthPercent,
		},
		Display: DisplayConfig{
			NameWidth:    constants.DefaultNameWidth,
			DayWidth:     constants.DefaultDayWidth,
			ShowWeekends: true,
			StatusColors: map[string]string{
				string(models.StatusCompleted):  "34",  // green
				string(models.StatusInProgress): "33",  // blue
				string(models.StatusReview):     "220", // yellow
				string(models.StatusBlocked):    "196", // red
				string(models.StatusTodo):       "245", // grey
			},
			PriorityColors: map[string]string{
				string(models.PriorityUrgent): "160",
				string(models.PriorityHigh):   "208",
				string(models.PriorityMedium): "178",
				string(models.PriorityLow):    "250",
			},
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Path returns the config file location inside a config directory.
func Path(configDir string) string {
	return filepath.Join(configDir, constants.DefaultConfigFile)
}

// Load reads the file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if !errors.As(err, &strict) {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		// decode again leniently and keep the unknown keys as warnings
		cfg = Default()
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		for _, e := range strict.Errors {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown key: %s", strings.Join(e.Key(), ".")))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.TimelineOptions().Validate(); err != nil {
		return fmt.Errorf("invalid [timeline] section: %w", err)
	}
	if c.Display.NameWidth < 4 {
		return fmt.Errorf("invalid [display] section: name_width must be at least 4, got %d", c.Display.NameWidth)
	}
	if c.Display.DayWidth < 1 {
		return fmt.Errorf("invalid [display] section: day_width must be at least 1, got %d", c.Display.DayWidth)
	}
	return nil
}

// TimelineOptions converts the [timeline] section into engine options.
func (c *Config) TimelineOptions() timeline.Options {
	return timeline.Options{
		PaddingDays:     c.Timeline.PaddingDays,
		FallbackDays:    c.Timeline.FallbackDays,
		WorkdayHours:    c.Timeline.WorkdayHours,
		MinWidthPercent: c.Timeline.MinWidthPercent,
	}
}

// Save writes the configuration to path, creating the directory when needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
