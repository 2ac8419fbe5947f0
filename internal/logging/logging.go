// Package logging provides the run log sink: every status line is
// fanned out to the console and to an append-only log file.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Options configures a Sink.
type Options struct {
	// File is the append-only log file path. Empty disables the file
	// destination.
	File string
	// Level is the minimum level, one of debug, info, warn, error.
	Level string
	// Console mirrors records to stderr. Disabled while the progress
	// UI owns the terminal.
	Console bool
}

// Sink fans log records out to the configured destinations. Close it
// on every exit path.
type Sink struct {
	logger *slog.Logger
	file   *os.File
}

// New builds a Sink from opts. The log file is opened for append and
// created if missing.
func New(opts Options) (*Sink, error) {
	level := parseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	if opts.Console {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, handlerOpts))
	}

	var file *os.File
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		handlers = append(handlers, slog.NewTextHandler(f, handlerOpts))
	}

	return &Sink{
		logger: slog.New(fanout{handlers: handlers}),
		file:   file,
	}, nil
}

// Logger returns the underlying slog logger.
func (s *Sink) Logger() *slog.Logger {
	return s.logger
}

// Debug logs at debug level (slog.Attr or key-value pairs).
func (s *Sink) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }

// Info logs at info level.
func (s *Sink) Info(msg string, args ...any) { s.logger.Info(msg, args...) }

// Warn logs at warn level.
func (s *Sink) Warn(msg string, args ...any) { s.logger.Warn(msg, args...) }

// Error logs at error level.
func (s *Sink) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

// Close releases the log file, if any.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout forwards each record to every destination handler.
type fanout struct {
	handlers []slog.Handler
}

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return fanout{handlers: next}
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return fanout{handlers: next}
}
