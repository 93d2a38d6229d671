package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/mcp"
	"github.com/firebase/genkit/go/plugins/ollama"

	"github.com/koopa0/todo/internal/chat"
	"github.com/koopa0/todo/internal/config"
	"github.com/koopa0/todo/internal/observability"
	"github.com/koopa0/todo/internal/todo"
	"github.com/koopa0/todo/internal/tools"
)

// Setup creates and initializes the application core shared by every mode:
// the todo store and the tool layer over it. Returns an App with embedded
// cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config) (_ *App, retErr error) {
	a := &App{Config: cfg}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				slog.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.Logger = slog.Default()

	store, err := todo.Open(ctx, cfg.StorePath, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("opening todo store: %w", err)
	}
	a.Store = store

	tt, err := tools.NewTodoTools(store, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("creating todo tools: %w", err)
	}
	a.TodoTools = tt

	// Set up lifecycle management
	_, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	return a, nil
}

// SetupChat builds the chat stack on top of Setup: tracing, Genkit with the
// configured provider, the agent's tool source, the agent and its flow.
// Only the cli command pays the Genkit initialization cost.
func SetupChat(ctx context.Context, cfg *config.Config) (_ *App, retErr error) {
	a, err := Setup(ctx, cfg)
	if err != nil {
		return nil, err
	}

	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				slog.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.otelCleanup = provideOtelShutdown(ctx, cfg)

	g, err := provideGenkit(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	agentTools, err := provideTools(ctx, a)
	if err != nil {
		return nil, err
	}
	a.Tools = agentTools

	agent, err := chat.New(chat.Config{
		Genkit:     g,
		Logger:     a.Logger,
		Tools:      agentTools,
		ModelName:  cfg.FullModelName(),
		MaxTurns:   cfg.MaxTurns,
		MaxHistory: config.NormalizeMaxHistoryMessages(cfg.MaxHistoryMessages),
	})
	if err != nil {
		return nil, fmt.Errorf("creating chat agent: %w", err)
	}
	a.Agent = agent
	a.Flow = chat.NewFlow(g, agent)

	return a, nil
}

// provideOtelShutdown sets up trace export before Genkit initialization.
// Must be called before provideGenkit to ensure the TracerProvider is ready.
// Tracing is disabled when no endpoint is configured; failures downgrade to
// a warning rather than blocking startup.
func provideOtelShutdown(ctx context.Context, cfg *config.Config) func() {
	shutdown, err := observability.Setup(ctx, cfg.Tracing)
	if err != nil {
		slog.Warn("setting up trace export, tracing disabled", "error", err)
		return func() {}
	}

	//nolint:contextcheck // Independent context: shutdown runs during teardown when parent is canceled
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideGenkit initializes Genkit with the configured AI provider.
// Supports gemini (default), ollama, and openai providers.
// Call ordering in SetupChat ensures tracing is set up first.
func provideGenkit(ctx context.Context, cfg *config.Config) (*genkit.Genkit, error) {
	promptDir := cfg.PromptDir
	if promptDir == "" {
		promptDir = "prompts"
	}

	provider := cfg.Provider
	if provider == "" {
		provider = config.ProviderGemini
	}

	var g *genkit.Genkit

	switch provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g = genkit.Init(ctx,
			genkit.WithPlugins(ollamaPlugin),
			genkit.WithPromptDir(promptDir),
		)
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery)
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		slog.Info("initialized Genkit with ollama provider",
			"model", cfg.ModelName, "host", cfg.OllamaHost)

	case config.ProviderOpenAI:
		g = genkit.Init(ctx,
			genkit.WithPlugins(&openai.OpenAI{}),
			genkit.WithPromptDir(promptDir),
		)
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		slog.Info("initialized Genkit with openai provider", "model", cfg.ModelName)

	default: // "gemini"
		g = genkit.Init(ctx,
			genkit.WithPlugins(&googlegenai.GoogleAI{}),
			genkit.WithPromptDir(promptDir),
		)
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		slog.Info("initialized Genkit with gemini provider", "model", cfg.ModelName)
	}

	return g, nil
}

// provideTools resolves the agent's tool source according to chat.mode.
//
// In mcp mode (the default) the todo tools are imported from an MCP server
// spawned over stdio, so the agent exercises the exact wire surface any
// other MCP client sees. In local mode the same tools are registered
// in-process, which tests use to avoid spawning a subprocess.
func provideTools(ctx context.Context, a *App) ([]ai.Tool, error) {
	if a.Config.Chat.Mode == config.ChatModeLocal {
		agentTools, err := tools.RegisterTodoTools(a.Genkit, a.TodoTools)
		if err != nil {
			return nil, fmt.Errorf("registering todo tools: %w", err)
		}
		a.Logger.Info("todo tools registered in-process", "count", len(agentTools))
		return agentTools, nil
	}

	return provideMCPTools(ctx, a)
}

// provideMCPTools spawns the MCP server subprocess and imports its tools.
// An empty chat.mcp_command means the current executable, so `todo cli`
// talks to its own `todo mcp`.
func provideMCPTools(ctx context.Context, a *App) ([]ai.Tool, error) {
	cfg := a.Config

	command := cfg.Chat.MCPCommand
	if command == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolving current executable: %w", err)
		}
		command = exe
	}

	host, err := mcp.NewMCPHost(a.Genkit, mcp.MCPHostOptions{
		Name:    "todo-chat",
		Version: "1.0.0",
		MCPServers: []mcp.MCPServerConfig{
			{
				Name: "todo",
				Config: mcp.MCPClientOptions{
					Name: "todo",
					Stdio: &mcp.StdioConfig{
						Command: command,
						Args:    cfg.Chat.MCPArgs,
						// Subprocess must mutate the same data file the
						// web and REST surfaces read.
						Env: []string{"TODO_STORE_PATH=" + cfg.StorePath},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP host: %w", err)
	}

	agentTools, err := host.GetActiveTools(ctx, a.Genkit)
	if err != nil {
		return nil, fmt.Errorf("importing MCP tools: %w", err)
	}
	if len(agentTools) == 0 {
		return nil, errors.New("MCP server exposed no tools")
	}

	a.Logger.Info("todo tools imported over MCP",
		"command", command, "count", len(agentTools))
	return agentTools, nil
}
