// Package testutil provides small helpers shared across test packages.
package testutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

// DiscardLogger returns a slog.Logger that discards all output.
//
// Use this in tests to reduce noise. For components that take the
// internal/log.Logger alias, log.NewNop() returns the same type.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// FindProjectRoot finds the project root directory by looking for go.mod.
// This lets tests build absolute paths to repo assets, such as the
// prompts directory, regardless of which package directory they run in.
func FindProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to get current file path")
	}

	dir := filepath.Dir(filename)

	// Walk up the directory tree until we find go.mod.
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (go.mod)")
		}
		dir = parent
	}
}
