// Package config provides the YAML application configuration, with
// first-run creation of a commented default file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// SlotHeightPx is the rendered pixel height of one hour of grid.
	SlotHeightPx int `yaml:"slot_height_px"`

	// MinutesPerSlot is the wall-clock span of one slot (normally 60).
	MinutesPerSlot int `yaml:"minutes_per_slot"`

	// DefaultCalendar is the calendar id opened on startup; empty means
	// the first calendar in the store.
	DefaultCalendar string `yaml:"default_calendar"`

	// DefaultColor is the palette index preselected for new events.
	DefaultColor int `yaml:"default_color"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SlotHeightPx:   60,
		MinutesPerSlot: 60,
	}
}

// Path returns <storeDir>/config.yaml.
func Path(storeDir string) string {
	return filepath.Join(storeDir, "config.yaml")
}

// Load reads the config file, creating it with defaults on first run.
func Load(storeDir string) (Config, error) {
	cfg := Default()
	path := Path(storeDir)

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if werr := Save(storeDir, cfg); werr != nil {
			return cfg, werr
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	if cfg.SlotHeightPx <= 0 {
		cfg.SlotHeightPx = Default().SlotHeightPx
	}
	if cfg.MinutesPerSlot <= 0 {
		cfg.MinutesPerSlot = Default().MinutesPerSlot
	}
	return cfg, nil
}

// Save writes the config with 0600 permissions.
func Save(storeDir string, cfg Config) error {
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(Path(storeDir), b, 0o600)
}
