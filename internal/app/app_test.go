package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koopa0/todo/internal/config"
	"github.com/koopa0/todo/internal/testutil"
	"github.com/koopa0/todo/internal/todo"
	"github.com/koopa0/todo/internal/tools"
)

func TestApp_Close(t *testing.T) {
	t.Parallel()

	t.Run("minimal app", func(t *testing.T) {
		t.Parallel()
		if err := (&App{}).Close(); err != nil {
			t.Errorf("Close() = %v, want nil", err)
		}
	})

	t.Run("cancels lifecycle context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		a := &App{cancel: cancel}

		if err := a.Close(); err != nil {
			t.Fatalf("Close() = %v, want nil", err)
		}
		select {
		case <-ctx.Done():
		default:
			t.Error("lifecycle context was not canceled")
		}
	})

	t.Run("runs otel cleanup", func(t *testing.T) {
		t.Parallel()
		ran := false
		a := &App{otelCleanup: func() { ran = true }}

		if err := a.Close(); err != nil {
			t.Fatalf("Close() = %v, want nil", err)
		}
		if !ran {
			t.Error("otel cleanup was not invoked")
		}
	})
}

func TestSetup(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		StorePath: filepath.Join(t.TempDir(), "todos.json"),
	}

	a, err := Setup(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			t.Errorf("Close() = %v, want nil", err)
		}
	}()

	if a.Logger == nil {
		t.Error("Logger not populated")
	}
	if a.Store == nil {
		t.Fatal("Store not populated")
	}
	if a.TodoTools == nil {
		t.Error("TodoTools not populated")
	}
	if got := a.Store.Len(); got != 0 {
		t.Errorf("fresh store Len() = %d, want 0", got)
	}

	// Chat services belong to SetupChat, not Setup.
	if a.Genkit != nil || a.Agent != nil || a.Flow != nil {
		t.Error("Setup populated chat services")
	}
}

func TestSetup_StoreOpenError(t *testing.T) {
	t.Parallel()

	a, err := Setup(context.Background(), &config.Config{StorePath: ""})
	if err == nil {
		t.Fatal("Setup() with empty store path succeeded, want error")
	}
	if a != nil {
		t.Error("Setup() returned non-nil App on error")
	}
}

func TestProvideGenkit_Ollama(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Genkit initialization in short mode")
	}

	cfg := &config.Config{
		Provider:   config.ProviderOllama,
		ModelName:  "llama3.3",
		OllamaHost: "http://localhost:11434",
		PromptDir:  t.TempDir(),
	}

	g, err := provideGenkit(context.Background(), cfg)
	if err != nil {
		t.Fatalf("provideGenkit() error = %v", err)
	}
	if g == nil {
		t.Fatal("provideGenkit() returned nil instance")
	}
}

func TestProvideTools_LocalMode(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Genkit initialization in short mode")
	}

	ctx := context.Background()
	cfg := &config.Config{
		Provider:   config.ProviderOllama,
		ModelName:  "llama3.3",
		OllamaHost: "http://localhost:11434",
		PromptDir:  t.TempDir(),
		StorePath:  filepath.Join(t.TempDir(), "todos.json"),
		Chat:       config.ChatConfig{Mode: config.ChatModeLocal},
	}

	g, err := provideGenkit(ctx, cfg)
	if err != nil {
		t.Fatalf("provideGenkit() error = %v", err)
	}

	logger := testutil.DiscardLogger()
	store, err := todo.Open(ctx, cfg.StorePath, logger)
	if err != nil {
		t.Fatalf("todo.Open() error = %v", err)
	}
	tt, err := tools.NewTodoTools(store, logger)
	if err != nil {
		t.Fatalf("tools.NewTodoTools() error = %v", err)
	}

	a := &App{Config: cfg, Logger: logger, Store: store, TodoTools: tt, Genkit: g}
	agentTools, err := provideTools(ctx, a)
	if err != nil {
		t.Fatalf("provideTools() error = %v", err)
	}

	want := map[string]bool{
		tools.ListTodosName:    false,
		tools.GetTodoName:      false,
		tools.CreateTodoName:   false,
		tools.UpdateTodoName:   false,
		tools.DeleteTodoName:   false,
		tools.GetTodoStatsName: false,
		tools.AnalyzeTodosName: false,
	}
	for _, tool := range agentTools {
		name := tool.Name()
		if _, ok := want[name]; !ok {
			t.Errorf("unexpected tool %q", name)
			continue
		}
		want[name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("tool %q not registered", name)
		}
	}
}

func TestProvideOtelShutdown_DisabledWithoutEndpoint(t *testing.T) {
	t.Parallel()

	shutdown := provideOtelShutdown(context.Background(), &config.Config{})
	if shutdown == nil {
		t.Fatal("provideOtelShutdown() returned nil func")
	}
	// Must be callable even when tracing never started.
	shutdown()
}

func TestSetupChat_PropagatesSetupError(t *testing.T) {
	t.Parallel()

	_, err := SetupChat(context.Background(), &config.Config{StorePath: ""})
	if err == nil {
		t.Fatal("SetupChat() with empty store path succeeded, want error")
	}
	if !strings.Contains(err.Error(), "opening todo store") {
		t.Errorf("error = %v, want store open failure", err)
	}
}
