// Package logger holds the ringctl process logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// L is the global logger instance. It discards all output until Init is called.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	File    string     // JSON log file; empty logs text to Stderr
	Level   slog.Level // Minimum log level. Default: LevelInfo
	Stderr  io.Writer  // Defaults to os.Stderr
}

// Init configures logging. Call before any log calls. The returned function
// closes the log file, if one was opened.
func Init(opts Options) (func() error, error) {
	noop := func() error { return nil }
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return noop, nil
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	if opts.File == "" {
		w := opts.Stderr
		if w == nil {
			w = os.Stderr
		}
		L = slog.New(slog.NewTextHandler(w, handlerOpts))
		return noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return noop, err
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return noop, err
	}
	L = slog.New(slog.NewJSONHandler(f, handlerOpts))
	return f.Close, nil
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }
