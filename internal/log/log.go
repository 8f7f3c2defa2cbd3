// Package log provides the logging setup shared across the service.
//
// Loggers are injected, not global: each component receives a *slog.Logger
// via its constructor and adds context with logger.With("component", ...).
// NewNop exists for tests only.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Config defines logger options.
type Config struct {
	// Level sets the minimum log level. Default: slog.LevelInfo.
	Level slog.Level

	// JSON enables JSON output. Default: text.
	JSON bool

	// AddSource adds source file positions to entries.
	AddSource bool
}

// New creates a logger writing to os.Stderr.
func New(cfg Config) *slog.Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a logger writing to w. Useful in tests for capturing
// output in a buffer.
func NewWithWriter(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// NewNop returns a logger that discards everything. Tests only — production
// code always logs somewhere.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
