package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeKeepsDefaultsForUnsetFields(t *testing.T) {
	got := Config{Level: "debug"}.Merge(DefaultConfig())
	assert.Equal(t, "debug", got.Level)
	assert.Equal(t, string(SinkFile), got.Sink)
	assert.Equal(t, 10, got.MaxSizeMB)
	require.NotNil(t, got.Compress)
	assert.True(t, *got.Compress)
}

func TestWithEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogSink, "stderr")
	t.Setenv(EnvLogMaxBackups, "9")
	t.Setenv(EnvLogMaxAgeDays, "not-a-number")

	got := DefaultConfig().WithEnv()
	assert.Equal(t, "warn", got.Level)
	assert.Equal(t, "stderr", got.Sink)
	assert.Equal(t, 9, got.MaxBackups)
	assert.Equal(t, 14, got.MaxAgeDays, "invalid ints are ignored")
}

func TestNormalizeValidates(t *testing.T) {
	c, err := Config{Level: " DEBUG ", Format: "JSON", Sink: "None", MaxSizeMB: -3}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Level)
	assert.Equal(t, "json", c.Format)
	assert.Equal(t, "none", c.Sink)
	assert.Zero(t, c.MaxSizeMB)

	_, err = Config{Level: "loud"}.Normalize()
	assert.ErrorContains(t, err, "log.level")
	_, err = Config{Format: "xml"}.Normalize()
	assert.ErrorContains(t, err, "log.format")
	_, err = Config{Sink: "syslog"}.Normalize()
	assert.ErrorContains(t, err, "log.sink")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")
	cfg, err := Config{Sink: "file", File: path, Format: "json"}.Merge(DefaultConfig()).Normalize()
	require.NoError(t, err)

	logger, closeFn, err := New(cfg, Options{App: "devtool-installer", Version: "test"})
	require.NoError(t, err)
	logger.Info("batch finished", "succeeded", 2)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.Contains(line, `"msg":"batch finished"`), line)
	assert.True(t, strings.Contains(line, `"version":"test"`), line)
	assert.True(t, strings.Contains(line, `"succeeded":2`), line)
}

func TestNewSinkNone(t *testing.T) {
	logger, closeFn, err := New(Config{Sink: "none"}, Options{})
	require.NoError(t, err)
	logger.Error("dropped")
	assert.NoError(t, closeFn())
}

func TestInitRejectsBadConfig(t *testing.T) {
	_, err := Init(Config{Sink: "carrier-pigeon"}, Options{})
	assert.Error(t, err)
}

func TestInitSetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "app.log")
	closeFn, err := Init(Config{File: path}, Options{Version: "v1"})
	require.NoError(t, err)
	slog.Info("hello")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")
	assert.Contains(t, string(data), "app=devtool-installer")
}
