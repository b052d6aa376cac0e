// Package config loads the optional YAML settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/logging"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "DEVTOOL_INSTALLER_CONFIG"

// Config is the root of config.yaml. Every section is optional.
type Config struct {
	Menu     MenuConfig     `yaml:"menu"`
	Detect   DetectConfig   `yaml:"detect"`
	Log      logging.Config `yaml:"log"`
	Disabled []string       `yaml:"disabled"`
	Tools    []ToolConfig   `yaml:"tools"`
}

// MenuConfig tunes the interactive flow.
type MenuConfig struct {
	ItemPause           time.Duration `yaml:"item_pause"`
	RestartPrompt       bool          `yaml:"restart_prompt"`
	RestartCountdown    int           `yaml:"restart_countdown"`
	NonInteractiveDelay time.Duration `yaml:"non_interactive_delay"`
}

// DetectConfig bounds the installed-state checks.
type DetectConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// ToolConfig describes a user-defined tool. Check and Install are command
// lines split with shell quoting rules. An empty category means
// cross-platform.
type ToolConfig struct {
	Name         string   `yaml:"name"`
	Category     string   `yaml:"category"`
	Description  string   `yaml:"description"`
	Dependencies []string `yaml:"dependencies"`
	AlwaysRun    bool     `yaml:"always_run"`
	Check        string   `yaml:"check"`
	Install      string   `yaml:"install"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Menu: MenuConfig{
			ItemPause:           1500 * time.Millisecond,
			RestartPrompt:       true,
			RestartCountdown:    5,
			NonInteractiveDelay: 3 * time.Second,
		},
		Detect: DetectConfig{Concurrency: 4},
		Log:    logging.DefaultConfig(),
	}
}

// DefaultPath returns $DEVTOOL_INSTALLER_CONFIG, or config.yaml under the
// user config dir.
func DefaultPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "devtool-installer", "config.yaml"), nil
}

// Load reads path over Defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if err := loadYAML(&cfg, path); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}
	loadEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}
	return &cfg, nil
}

func loadYAML(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) {
	setDuration(&cfg.Menu.ItemPause, "DEVTOOL_INSTALLER_ITEM_PAUSE")
	setBool(&cfg.Menu.RestartPrompt, "DEVTOOL_INSTALLER_RESTART_PROMPT")
	setInt(&cfg.Detect.Concurrency, "DEVTOOL_INSTALLER_DETECT_CONCURRENCY")
}

// Validate rejects settings the menu cannot run with.
func (c *Config) Validate() error {
	if c.Menu.ItemPause < 0 {
		return errors.New("menu.item_pause must be >= 0")
	}
	if c.Menu.NonInteractiveDelay < 0 {
		return errors.New("menu.non_interactive_delay must be >= 0")
	}
	if c.Menu.RestartCountdown < 1 {
		return errors.New("menu.restart_countdown must be >= 1")
	}
	if c.Detect.Concurrency < 1 {
		return errors.New("detect.concurrency must be >= 1")
	}
	if _, err := c.Log.Normalize(); err != nil {
		return err
	}
	for i, t := range c.Tools {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("tools[%d]: name is required", i)
		}
		if strings.TrimSpace(t.Install) == "" {
			return fmt.Errorf("tools[%d] %q: install is required", i, t.Name)
		}
		if t.Category == "" {
			continue
		}
		if _, err := installer.ParseCategory(t.Category); err != nil {
			return fmt.Errorf("tools[%d] %q: %w", i, t.Name, err)
		}
	}
	return nil
}

// IsDisabled reports whether name is listed under disabled.
func (c *Config) IsDisabled(name string) bool {
	for _, d := range c.Disabled {
		if installer.SameName(d, name) {
			return true
		}
	}
	return false
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
