// Package config loads app-level configuration from a YAML file with
// environment-variable overrides. Per-user preferences (default session
// length, sound, daily target) live in the database, not here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment overrides, checked after the file is read.
const (
	EnvConfigPath = "DOONE_CONFIG"
	EnvDBPath     = "DOONE_DB"
	EnvSoundsDir  = "DOONE_SOUNDS"
)

// Config holds machine-level settings.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`
	// SoundsDir holds the ambient sound files (<id>.mp3 or <id>.wav).
	SoundsDir string `yaml:"sounds_dir"`
	// Audio disables playback entirely when false; sessions still run.
	Audio bool `yaml:"audio"`
	// Notifications controls the desktop notification on session end.
	Notifications bool `yaml:"notifications"`
}

// Default returns the built-in configuration rooted under ~/.doone.
func Default() Config {
	root := appDir()
	return Config{
		DBPath:        filepath.Join(root, "doone.db"),
		SoundsDir:     filepath.Join(root, "sounds"),
		Audio:         true,
		Notifications: true,
	}
}

// Load reads the config file (DOONE_CONFIG or ~/.doone/config.yaml),
// falling back to defaults when the file is absent, then applies
// environment overrides.
func Load() (Config, error) {
	cfg := Default()

	path := ConfigPath()
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvSoundsDir); v != "" {
		cfg.SoundsDir = v
	}
	return cfg, nil
}

// Save writes cfg to the config file, creating its directory if needed.
func Save(cfg Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// ConfigPath returns the config file location, honoring DOONE_CONFIG.
func ConfigPath() string {
	if v := os.Getenv(EnvConfigPath); v != "" {
		return v
	}
	return filepath.Join(appDir(), "config.yaml")
}

func appDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".doone"
	}
	return filepath.Join(home, ".doone")
}
