// Package config loads coinplan preferences from a TOML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/alexanderramin/coinplan/internal/domain"
)

// Config holds all coinplan configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Display DisplayConfig `toml:"display"`
}

// GeneralConfig holds storage and planning defaults.
type GeneralConfig struct {
	DBPath       string `toml:"db_path,omitempty"`
	DefaultWeeks int    `toml:"default_weeks"`
	WeekResetDay string `toml:"week_reset_day"`
	LogUseCases  bool   `toml:"log_use_cases"`
}

// DisplayConfig holds output preferences.
type DisplayConfig struct {
	CurrencyDecimals int  `toml:"currency_decimals"`
	Color            bool `toml:"color"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultWeeks: domain.DefaultHorizonWeeks,
			WeekResetDay: "monday",
		},
		Display: DisplayConfig{
			CurrencyDecimals: 2,
			Color:            true,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "coinplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "coinplan")
}

// Path returns the config file location, honoring COINPLAN_CONFIG.
func Path() string {
	if p := os.Getenv("COINPLAN_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// ExistsAt reports whether a config file is present at path.
func ExistsAt(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads the config file, returning defaults if it doesn't exist, and
// applies environment overrides on top.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", Path(), err)
	}
	return cfg, nil
}

// Save writes the config to Path().
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COINPLAN_DB"); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv("COINPLAN_LOG"); v != "" {
		cfg.General.LogUseCases, _ = strconv.ParseBool(v)
	}
}

// Validate rejects values the planner cannot use.
func (c Config) Validate() error {
	if c.General.DefaultWeeks <= 0 {
		return fmt.Errorf("default_weeks must be positive (got %d)", c.General.DefaultWeeks)
	}
	if _, err := domain.ParseWeekday(c.General.WeekResetDay); err != nil {
		return fmt.Errorf("week_reset_day: %w", err)
	}
	if c.Display.CurrencyDecimals < 0 || c.Display.CurrencyDecimals > 8 {
		return fmt.Errorf("currency_decimals must be in [0, 8] (got %d)", c.Display.CurrencyDecimals)
	}
	return nil
}

// ResetWeekday returns the configured weekly reset day.
func (c Config) ResetWeekday() time.Weekday {
	d, err := domain.ParseWeekday(c.General.WeekResetDay)
	if err != nil {
		return time.Monday
	}
	return d
}

// PlannerDefaults returns the planner settings used until settings are
// stored in the database.
func (c Config) PlannerDefaults() domain.PlannerSettings {
	s := domain.DefaultPlannerSettings()
	s.Weeks = c.General.DefaultWeeks
	s.ResetWeekday = c.ResetWeekday()
	return s
}

// ResolveDBPath returns the database path, defaulting to ~/.coinplan/coinplan.db.
func (c Config) ResolveDBPath() (string, error) {
	if c.General.DBPath != "" {
		return c.General.DBPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".coinplan", "coinplan.db"), nil
}
