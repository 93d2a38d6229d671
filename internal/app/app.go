// Package app assembles the application from its parts.
//
// Setup builds the core every mode shares: the todo store and the tool
// layer over it. SetupChat layers the chat stack on top for the cli
// command: tracing, Genkit with the configured provider, a tool source
// and the agent. Both return an App whose Close releases everything.
package app

import (
	"context"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/koopa0/todo/internal/chat"
	"github.com/koopa0/todo/internal/config"
	"github.com/koopa0/todo/internal/todo"
	"github.com/koopa0/todo/internal/tools"
)

// App is the core application container.
type App struct {
	// Configuration
	Config *config.Config

	// Core services, populated by Setup
	Logger    *slog.Logger
	Store     *todo.Store
	TodoTools *tools.TodoTools

	// Chat services, populated by SetupChat only
	Genkit *genkit.Genkit
	Tools  []ai.Tool
	Agent  *chat.Agent
	Flow   *chat.Flow

	// Lifecycle management
	otelCleanup func()
	cancel      context.CancelFunc
}

// Close gracefully shuts down all resources. Safe to call on a partially
// initialized App; Setup relies on that for cleanup on failure.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}

	if a.otelCleanup != nil {
		a.otelCleanup()
	}

	return nil
}
