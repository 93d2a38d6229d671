// Package log builds structured loggers on top of log/slog.
//
// Every component receives its logger through its config struct rather than
// reaching for a global. The mcp command must log to stderr only, because
// stdout carries the JSON-RPC stream; New writes to stderr for that reason.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the logging handle passed between packages.
// It is an alias, so any *slog.Logger satisfies it directly.
type Logger = *slog.Logger

// Config controls handler construction.
type Config struct {
	// Level is the minimum level that gets emitted. Zero value is Info.
	Level slog.Level

	// JSON switches the handler from human-readable text to JSON records.
	JSON bool

	// AddSource annotates records with the file:line of the call site.
	AddSource bool
}

// New returns a logger writing to stderr.
func New(cfg Config) Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter returns a logger writing to w.
func NewWithWriter(w io.Writer, cfg Config) Logger {
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

// NewNop returns a logger that discards everything. Intended for tests and
// for optional dependencies that were not given a real logger.
func NewNop() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
