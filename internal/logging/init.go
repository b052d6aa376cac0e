// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options identify the process in every record.
type Options struct {
	App     string
	Version string
}

// Init builds a logger from cfg (merged over DefaultConfig, then env
// overrides), installs it as the slog default and returns a closer for the
// underlying sink.
func Init(cfg Config, opts Options) (func() error, error) {
	if opts.App == "" {
		opts.App = "devtool-installer"
	}
	cfg = cfg.Merge(DefaultConfig()).WithEnv()
	normalized, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}

	logger, closeFn, err := New(normalized, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closeFn, nil
}

// New builds a logger without touching the slog default.
func New(cfg Config, opts Options) (*slog.Logger, func() error, error) {
	writer, closeFn, err := resolveWriter(cfg)
	if err != nil {
		return nil, nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	switch Format(cfg.Format) {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, handlerOpts)
	default:
		handler = slog.NewTextHandler(writer, handlerOpts)
	}
	logger := slog.New(handler).With(
		slog.String("app", opts.App),
		slog.String("version", opts.Version),
	)
	return logger, closeFn, nil
}

// DefaultFile returns the log path used when none is configured.
func DefaultFile() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating cache dir: %w", err)
	}
	return filepath.Join(dir, "devtool-installer", "logs", "devtool-installer.log"), nil
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveWriter(cfg Config) (io.Writer, func() error, error) {
	switch Sink(cfg.Sink) {
	case SinkNone:
		return io.Discard, func() error { return nil }, nil
	case SinkStderr:
		return os.Stderr, func() error { return nil }, nil
	case SinkFile, "":
		path := cfg.File
		if path == "" {
			p, err := DefaultFile()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress != nil && *cfg.Compress,
		}
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", cfg.Sink)
	}
}
