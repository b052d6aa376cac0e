package logging

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type Sink string

const (
	SinkFile   Sink = "file"
	SinkStderr Sink = "stderr"
	SinkNone   Sink = "none"
)

const (
	EnvLogLevel      = "DEVTOOL_INSTALLER_LOG_LEVEL"
	EnvLogFormat     = "DEVTOOL_INSTALLER_LOG_FORMAT"
	EnvLogSink       = "DEVTOOL_INSTALLER_LOG_SINK"
	EnvLogFile       = "DEVTOOL_INSTALLER_LOG_FILE"
	EnvLogMaxSizeMB  = "DEVTOOL_INSTALLER_LOG_MAX_SIZE_MB"
	EnvLogMaxBackups = "DEVTOOL_INSTALLER_LOG_MAX_BACKUPS"
	EnvLogMaxAgeDays = "DEVTOOL_INSTALLER_LOG_MAX_AGE_DAYS"
)

// Config is the log section of the config file. Unset fields fall back to
// DefaultConfig.
type Config struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	Sink   string `yaml:"sink,omitempty"`
	File   string `yaml:"file,omitempty"`

	MaxSizeMB  int   `yaml:"max_size_mb,omitempty"`
	MaxBackups int   `yaml:"max_backups,omitempty"`
	MaxAgeDays int   `yaml:"max_age_days,omitempty"`
	Compress   *bool `yaml:"compress,omitempty"`
}

// DefaultConfig logs info and above to a rotating file; the terminal belongs
// to the UI.
func DefaultConfig() Config {
	compress := true
	return Config{
		Level:      "info",
		Format:     string(FormatText),
		Sink:       string(SinkFile),
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 14,
		Compress:   &compress,
	}
}

// Merge fills every unset field of c from base.
func (c Config) Merge(base Config) Config {
	out := base
	if c.Level != "" {
		out.Level = c.Level
	}
	if c.Format != "" {
		out.Format = c.Format
	}
	if c.Sink != "" {
		out.Sink = c.Sink
	}
	if c.File != "" {
		out.File = c.File
	}
	if c.MaxSizeMB != 0 {
		out.MaxSizeMB = c.MaxSizeMB
	}
	if c.MaxBackups != 0 {
		out.MaxBackups = c.MaxBackups
	}
	if c.MaxAgeDays != 0 {
		out.MaxAgeDays = c.MaxAgeDays
	}
	if c.Compress != nil {
		out.Compress = c.Compress
	}
	return out
}

// WithEnv applies DEVTOOL_INSTALLER_LOG_* overrides.
func (c Config) WithEnv() Config {
	applyString := func(dst *string, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
	applyInt := func(dst *int, env string) {
		raw := strings.TrimSpace(os.Getenv(env))
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return
		}
		*dst = n
	}

	applyString(&c.Level, EnvLogLevel)
	applyString(&c.Format, EnvLogFormat)
	applyString(&c.Sink, EnvLogSink)
	applyString(&c.File, EnvLogFile)
	applyInt(&c.MaxSizeMB, EnvLogMaxSizeMB)
	applyInt(&c.MaxBackups, EnvLogMaxBackups)
	applyInt(&c.MaxAgeDays, EnvLogMaxAgeDays)
	return c
}

// Normalize lowercases enum fields and validates them.
func (c Config) Normalize() (Config, error) {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Sink = strings.ToLower(strings.TrimSpace(c.Sink))
	c.File = strings.TrimSpace(c.File)
	c.MaxSizeMB = max(c.MaxSizeMB, 0)
	c.MaxBackups = max(c.MaxBackups, 0)
	c.MaxAgeDays = max(c.MaxAgeDays, 0)
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: invalid %q", c.Level)
	}
	switch Format(c.Format) {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("log.format: invalid %q", c.Format)
	}
	switch Sink(c.Sink) {
	case "", SinkFile, SinkStderr, SinkNone:
	default:
		return fmt.Errorf("log.sink: invalid %q", c.Sink)
	}
	return nil
}
