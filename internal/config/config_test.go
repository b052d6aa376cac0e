package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Menu, cfg.Menu)
	assert.Equal(t, 4, cfg.Detect.Concurrency)
	assert.Empty(t, cfg.Tools)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Menu.ItemPause)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
menu:
  item_pause: 250ms
  restart_prompt: false
detect:
  concurrency: 2
log:
  level: debug
disabled: ["Docker Desktop"]
tools:
  - name: ripgrep
    category: cross-platform
    description: Fast recursive grep
    check: rg --version
    install: winget install -e --id BurntSushi.ripgrep.MSVC
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Menu.ItemPause)
	assert.False(t, cfg.Menu.RestartPrompt)
	assert.Equal(t, 5, cfg.Menu.RestartCountdown, "unset fields keep their default")
	assert.Equal(t, 3*time.Second, cfg.Menu.NonInteractiveDelay)
	assert.Equal(t, 2, cfg.Detect.Concurrency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Sink)

	require.Len(t, cfg.Tools, 1)
	assert.Equal(t, "ripgrep", cfg.Tools[0].Name)
	assert.Equal(t, "rg --version", cfg.Tools[0].Check)

	assert.True(t, cfg.IsDisabled("docker desktop"))
	assert.False(t, cfg.IsDisabled("Git"))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DEVTOOL_INSTALLER_ITEM_PAUSE", "0s")
	t.Setenv("DEVTOOL_INSTALLER_DETECT_CONCURRENCY", "8")
	t.Setenv("DEVTOOL_INSTALLER_RESTART_PROMPT", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Zero(t, cfg.Menu.ItemPause)
	assert.Equal(t, 8, cfg.Detect.Concurrency)
	assert.False(t, cfg.Menu.RestartPrompt)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "menu: [unclosed"))
	assert.ErrorContains(t, err, "config yaml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative pause", func(c *Config) { c.Menu.ItemPause = -time.Second }, "menu.item_pause"},
		{"negative delay", func(c *Config) { c.Menu.NonInteractiveDelay = -1 }, "menu.non_interactive_delay"},
		{"zero countdown", func(c *Config) { c.Menu.RestartCountdown = 0 }, "menu.restart_countdown"},
		{"zero concurrency", func(c *Config) { c.Detect.Concurrency = 0 }, "detect.concurrency"},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
		{"tool without name", func(c *Config) { c.Tools = []ToolConfig{{Install: "x"}} }, "name is required"},
		{"tool without install", func(c *Config) { c.Tools = []ToolConfig{{Name: "x"}} }, "install is required"},
		{"tool bad category", func(c *Config) {
			c.Tools = []ToolConfig{{Name: "x", Install: "x", Category: "cobol"}}
		}, "unknown category"},
		{"tool empty category", func(c *Config) { c.Tools = []ToolConfig{{Name: "x", Install: "x"}} }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.yaml")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", p)

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(p))
	assert.Equal(t, "devtool-installer", filepath.Base(filepath.Dir(p)))
}
