// ABOUTME: User configuration for mdesk.
// ABOUTME: Handles XDG config/data paths, YAML persistence, and env overrides.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDataDir  = "MDESK_DATA_DIR"
	EnvLogLevel = "MDESK_LOG_LEVEL"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config holds user preferences.
type Config struct {
	// DataDir holds the badger store (default: $XDG_DATA_HOME/mdesk)
	DataDir string `yaml:"data_dir,omitempty"`

	LogLevel string `yaml:"log_level"`

	// Theme is light or dark and picks the terminal render style.
	Theme string `yaml:"theme"`

	// SaveDebounce delays window save-through in the desk shell. Zero saves on every edit.
	SaveDebounce time.Duration `yaml:"save_debounce"`

	Desk   DeskConfig   `yaml:"desk"`
	Render RenderConfig `yaml:"render"`
}

type DeskConfig struct {
	CascadeOrigin int `yaml:"cascade_origin"`
	CascadeStep   int `yaml:"cascade_step"`
}

type RenderConfig struct {
	Width int `yaml:"width"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		Theme:        ThemeLight,
		SaveDebounce: 500 * time.Millisecond,
		Desk: DeskConfig{
			CascadeOrigin: 50,
			CascadeStep:   30,
		},
		Render: RenderConfig{Width: 80},
	}
}

// Dir returns the configuration directory path.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mdesk")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultDataDir returns where the store lives when nothing overrides it.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "mdesk")
}

// Load reads the config file, returning defaults if it does not exist.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", Path(), err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate rejects values the rest of the program cannot use.
func (c *Config) Validate() error {
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	if c.Theme != ThemeLight && c.Theme != ThemeDark {
		return fmt.Errorf("invalid theme %q: must be %s or %s", c.Theme, ThemeLight, ThemeDark)
	}
	if c.SaveDebounce < 0 {
		return fmt.Errorf("invalid save_debounce %s: must not be negative", c.SaveDebounce)
	}
	if c.Desk.CascadeStep < 0 {
		return fmt.Errorf("invalid desk.cascade_step %d: must not be negative", c.Desk.CascadeStep)
	}
	return nil
}

// ResolvedDataDir returns DataDir, or the XDG default when unset.
func (c *Config) ResolvedDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return DefaultDataDir()
}

// ToggleTheme flips between light and dark and returns the new theme.
func (c *Config) ToggleTheme() string {
	if c.Theme == ThemeDark {
		c.Theme = ThemeLight
	} else {
		c.Theme = ThemeDark
	}
	return c.Theme
}

// Save writes configuration to disk.
func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(Path(), data, 0600)
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
