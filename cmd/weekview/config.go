package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the demo's YAML configuration.
type Config struct {
	// Feeds is the list of ICS subscription URLs shown in the calendar.
	Feeds []string `yaml:"feeds"`

	// VisibleDays is the number of day columns.
	VisibleDays int `yaml:"visible_days"`

	// WeekStart is "monday" or "sunday".
	WeekStart string `yaml:"week_start"`

	// MinHour and MaxHour bound the visible hour window.
	MinHour float64 `yaml:"min_hour"`
	MaxHour float64 `yaml:"max_hour"`

	// RefreshCron is the feed refresh schedule, e.g. "*/15 * * * *".
	RefreshCron string `yaml:"refresh"`

	// StateFile persists the scroll position across runs. Empty disables it.
	StateFile string `yaml:"state_file"`

	// LogFile receives diagnostics. Empty discards them; stderr is taken by
	// the terminal UI.
	LogFile string `yaml:"log_file"`
}

func defaultConfig() *Config {
	return &Config{
		VisibleDays: 7,
		WeekStart:   "monday",
		MinHour:     0,
		MaxHour:     24,
		RefreshCron: "*/15 * * * *",
	}
}

func (c *Config) normalize() error {
	if c.VisibleDays <= 0 {
		c.VisibleDays = 7
	}
	switch c.WeekStart {
	case "monday", "sunday":
	case "":
		c.WeekStart = "monday"
	default:
		return fmt.Errorf("config: unknown week_start %q", c.WeekStart)
	}
	if c.MinHour == 0 && c.MaxHour == 0 {
		c.MaxHour = 24
	}
	if c.MinHour < 0 || c.MaxHour > 24 || c.MinHour >= c.MaxHour {
		return fmt.Errorf("config: invalid hour window [%g, %g]", c.MinHour, c.MaxHour)
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	return nil
}

func (c *Config) weekStart() time.Weekday {
	if c.WeekStart == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// loadConfig reads the YAML config. A missing file yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
