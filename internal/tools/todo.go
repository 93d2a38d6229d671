package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/koopa0/todo/internal/todo"
)

// Tool name constants for todo operations. The same names are registered
// with Genkit and with the MCP server.
const (
	// ListTodosName is the tool name for listing the whole collection.
	ListTodosName = "list_todos"
	// GetTodoName is the tool name for fetching one todo by id.
	GetTodoName = "get_todo"
	// CreateTodoName is the tool name for creating a todo.
	CreateTodoName = "create_todo"
	// UpdateTodoName is the tool name for partially updating a todo.
	UpdateTodoName = "update_todo"
	// DeleteTodoName is the tool name for deleting a todo.
	DeleteTodoName = "delete_todo"
	// GetTodoStatsName is the tool name for computing collection statistics.
	GetTodoStatsName = "get_todo_stats"
	// AnalyzeTodosName is the tool name for the narrative analysis.
	AnalyzeTodosName = "analyze_todos"
)

// ListTodosInput defines input for list_todos (none needed).
type ListTodosInput struct{}

// GetTodoInput defines input for get_todo.
type GetTodoInput struct {
	ID string `json:"id" jsonschema_description:"The todo id, as returned by list_todos or create_todo"`
}

// CreateTodoInput defines input for create_todo.
type CreateTodoInput struct {
	Title       string `json:"title" jsonschema_description:"Short title, 1-100 characters"`
	Description string `json:"description,omitempty" jsonschema_description:"Free-form detail, up to 500 characters"`
	Completed   bool   `json:"completed,omitempty" jsonschema_description:"Mark the todo completed on creation"`
	DueDate     string `json:"due_date,omitempty" jsonschema_description:"Optional due date, RFC 3339 or YYYY-MM-DD"`
}

// UpdateTodoInput defines input for update_todo. Omitted fields keep their
// current values.
type UpdateTodoInput struct {
	ID          string  `json:"id" jsonschema_description:"The todo id to update"`
	Title       *string `json:"title,omitempty" jsonschema_description:"New title, 1-100 characters"`
	Description *string `json:"description,omitempty" jsonschema_description:"New description, up to 500 characters"`
	Completed   *bool   `json:"completed,omitempty" jsonschema_description:"New completed state"`
	DueDate     *string `json:"due_date,omitempty" jsonschema_description:"New due date, RFC 3339 or YYYY-MM-DD"`
}

// DeleteTodoInput defines input for delete_todo.
type DeleteTodoInput struct {
	ID string `json:"id" jsonschema_description:"The todo id to delete"`
}

// GetTodoStatsInput defines input for get_todo_stats (none needed).
type GetTodoStatsInput struct{}

// AnalyzeTodosInput defines input for analyze_todos (none needed).
type AnalyzeTodosInput struct{}

// TodoTools holds the store-backed todo handlers.
// Use NewTodoTools to create an instance, then either:
// - Call methods directly (for MCP)
// - Use RegisterTodoTools to register with Genkit
type TodoTools struct {
	store  *todo.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewTodoTools creates a TodoTools instance.
func NewTodoTools(store *todo.Store, logger *slog.Logger) (*TodoTools, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &TodoTools{store: store, logger: logger, now: time.Now}, nil
}

// RegisterTodoTools registers all todo tools with Genkit.
// Tools are registered with event emission wrappers for streaming support.
func RegisterTodoTools(g *genkit.Genkit, tt *TodoTools) ([]ai.Tool, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if tt == nil {
		return nil, fmt.Errorf("TodoTools is required")
	}

	return []ai.Tool{
		genkit.DefineTool(g, ListTodosName,
			"List every todo in insertion order. "+
				"Returns: the full todo objects plus a count. "+
				"Use this to: show the user their list, look up ids before update_todo or delete_todo, see what is still open.",
			WithEvents(ListTodosName, tt.ListTodos)),
		genkit.DefineTool(g, GetTodoName,
			"Get a single todo by id. "+
				"Returns: the full todo object. "+
				"Use this when the conversation refers to one specific item and you already know its id.",
			WithEvents(GetTodoName, tt.GetTodo)),
		genkit.DefineTool(g, CreateTodoName,
			"Create a new todo. Title is required (1-100 characters); description (up to 500 characters), "+
				"completed and due_date are optional. Due dates accept RFC 3339 timestamps or YYYY-MM-DD. "+
				"Returns: the stored todo including its server-assigned id and timestamps.",
			WithEvents(CreateTodoName, tt.CreateTodo)),
		genkit.DefineTool(g, UpdateTodoName,
			"Update fields of an existing todo by id. Only the fields you pass change; omitted fields keep "+
				"their current values. Set completed to true to finish an item. "+
				"Returns: the updated todo.",
			WithEvents(UpdateTodoName, tt.UpdateTodo)),
		genkit.DefineTool(g, DeleteTodoName,
			"Delete a todo by id. The deletion is permanent. "+
				"Returns: confirmation carrying the deleted id.",
			WithEvents(DeleteTodoName, tt.DeleteTodo)),
		genkit.DefineTool(g, GetTodoStatsName,
			"Compute statistics over all todos: total, completed and open counts, completion rate and how many "+
				"are overdue. Use this for progress questions instead of counting list_todos output yourself.",
			WithEvents(GetTodoStatsName, tt.GetTodoStats)),
		genkit.DefineTool(g, AnalyzeTodosName,
			"Analyze the current todos into a short narrative: completion rate, overdue pressure and a "+
				"recommendation for what to work on next. "+
				"Returns: the narrative plus the underlying stats.",
			WithEvents(AnalyzeTodosName, tt.AnalyzeTodos)),
	}, nil
}

// ListTodos returns every todo in insertion order.
func (t *TodoTools) ListTodos(_ *ai.ToolContext, _ ListTodosInput) (Result, error) {
	t.logger.Debug("ListTodos called")

	todos := t.store.List()
	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"todos": todos,
			"count": len(todos),
		},
	}, nil
}

// GetTodo fetches one todo by id.
// A missing id is a business error returned in Result.Error.
func (t *TodoTools) GetTodo(_ *ai.ToolContext, input GetTodoInput) (Result, error) {
	t.logger.Debug("GetTodo called", "id", input.ID)

	item, err := t.store.Get(input.ID)
	if err != nil {
		return t.storeErrorResult(err, input.ID), nil
	}

	return Result{
		Status: StatusSuccess,
		Data:   map[string]any{"todo": item},
	}, nil
}

// CreateTodo validates and stores a new todo.
// Validation failures are business errors returned in Result.Error.
func (t *TodoTools) CreateTodo(ctx *ai.ToolContext, input CreateTodoInput) (Result, error) {
	t.logger.Debug("CreateTodo called", "title", input.Title)

	due, err := todo.ParseDueDate(input.DueDate)
	if err != nil {
		return t.storeErrorResult(err, ""), nil
	}

	execCtx := toolContext(ctx)
	created, err := t.store.Create(execCtx, todo.CreateParams{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		DueDate:     due,
	})
	if err != nil {
		if ctxErr := execCtx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("create todo canceled: %w", ctxErr)
		}
		return t.storeErrorResult(err, ""), nil
	}

	t.logger.Debug("CreateTodo succeeded", "id", created.ID)
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Created todo %q", created.Title),
		Data:    map[string]any{"todo": created},
	}, nil
}

// UpdateTodo applies a partial update to an existing todo.
func (t *TodoTools) UpdateTodo(ctx *ai.ToolContext, input UpdateTodoInput) (Result, error) {
	t.logger.Debug("UpdateTodo called", "id", input.ID)

	params := todo.UpdateParams{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	}
	if input.DueDate != nil {
		due, err := todo.ParseDueDate(*input.DueDate)
		if err != nil {
			return t.storeErrorResult(err, input.ID), nil
		}
		params.DueDate = due
	}

	execCtx := toolContext(ctx)
	updated, err := t.store.Update(execCtx, input.ID, params)
	if err != nil {
		if ctxErr := execCtx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("update todo canceled: %w", ctxErr)
		}
		return t.storeErrorResult(err, input.ID), nil
	}

	t.logger.Debug("UpdateTodo succeeded", "id", updated.ID)
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Updated todo %q", updated.Title),
		Data:    map[string]any{"todo": updated},
	}, nil
}

// DeleteTodo removes a todo permanently.
func (t *TodoTools) DeleteTodo(ctx *ai.ToolContext, input DeleteTodoInput) (Result, error) {
	t.logger.Debug("DeleteTodo called", "id", input.ID)

	execCtx := toolContext(ctx)
	if err := t.store.Delete(execCtx, input.ID); err != nil {
		if ctxErr := execCtx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("delete todo canceled: %w", ctxErr)
		}
		return t.storeErrorResult(err, input.ID), nil
	}

	t.logger.Debug("DeleteTodo succeeded", "id", input.ID)
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Deleted todo %s", input.ID),
		Data: map[string]any{
			"id":      input.ID,
			"deleted": true,
		},
	}, nil
}

// GetTodoStats computes statistics over the current snapshot.
func (t *TodoTools) GetTodoStats(_ *ai.ToolContext, _ GetTodoStatsInput) (Result, error) {
	t.logger.Debug("GetTodoStats called")

	return Result{
		Status: StatusSuccess,
		Data:   todo.ComputeStats(t.store.List(), t.now()),
	}, nil
}

// AnalyzeTodos renders the deterministic analysis narrative plus the stats
// it was derived from.
func (t *TodoTools) AnalyzeTodos(_ *ai.ToolContext, _ AnalyzeTodosInput) (Result, error) {
	t.logger.Debug("AnalyzeTodos called")

	now := t.now()
	todos := t.store.List()
	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"analysis": todo.Analyze(todos, now),
			"stats":    todo.ComputeStats(todos, now),
		},
	}, nil
}

// storeErrorResult shapes a store failure into the wire taxonomy. Raw causes
// stay in the server logs.
func (t *TodoTools) storeErrorResult(err error, id string) Result {
	var ve *todo.ValidationError
	if errors.As(err, &ve) {
		return Result{
			Status: StatusError,
			Error: &Error{
				Code:    ErrCodeValidation,
				Message: ve.Error(),
				Details: map[string]any{"field": ve.Field},
			},
		}
	}

	if errors.Is(err, todo.ErrNotFound) {
		msg := "todo not found"
		if id != "" {
			msg = fmt.Sprintf("todo with id %s not found", id)
		}
		return Result{
			Status: StatusError,
			Error:  &Error{Code: ErrCodeNotFound, Message: msg},
		}
	}

	var ioErr *todo.IOError
	if errors.As(err, &ioErr) {
		t.logger.Error("todo store failure", "op", ioErr.Op, "error", err)
		return Result{
			Status: StatusError,
			Error: &Error{
				Code:    ErrCodeStoreIO,
				Message: "todo store unavailable",
				Details: map[string]any{"hint": "check server logs for details"},
			},
		}
	}

	t.logger.Error("unexpected todo tool failure", "error", err)
	return Result{
		Status: StatusError,
		Error:  &Error{Code: ErrCodeInternal, Message: "unexpected failure"},
	}
}

// toolContext unwraps the Genkit tool context, falling back to Background
// for direct calls that did not set one.
func toolContext(ctx *ai.ToolContext) context.Context {
	if ctx != nil && ctx.Context != nil {
		return ctx.Context
	}
	return context.Background()
}
