// Package testutil provides shared test infrastructure: a silent logger,
// a deterministic mock embedder, and a disposable pgvector container.
package testutil

import (
	"io"
	"log/slog"
)

// SilentLogger returns a logger that discards everything.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
