package mcp

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/koopa0/todo/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTodoTools registers all todo operation tools to the MCP server.
// Tools: list_todos, get_todo, create_todo, update_todo, delete_todo,
// get_todo_stats, analyze_todos
func (s *Server) registerTodoTools() error {
	// list_todos
	listTodosSchema, err := jsonschema.For[tools.ListTodosInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.ListTodosName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        tools.ListTodosName,
		Description: "List all todo items in creation order.",
		InputSchema: listTodosSchema,
	}, s.ListTodos)

	// get_todo
	getTodoSchema, err := jsonschema.For[tools.GetTodoInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.GetTodoName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        tools.GetTodoName,
		Description: "Get a single todo item by its id.",
		InputSchema: getTodoSchema,
	}, s.GetTodo)

	// create_todo
	createTodoSchema, err := jsonschema.For[tools.CreateTodoInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.CreateTodoName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        tools.CreateTodoName,
		Description: "Create a new todo item. Title is required (1-100 characters); description, completed and due_date are optional.",
		InputSchema: createTodoSchema,
	}, s.CreateTodo)

	// update_todo
	updateTodoSchema, err := jsonschema.For[tools.UpdateTodoInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.UpdateTodoName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        tools.UpdateTodoName,
		Description: "Update an existing todo item. Only the provided fields change; omitted fields keep their current values.",
		InputSchema: updateTodoSchema,
	}, s.UpdateTodo)

	// delete_todo
	deleteTodoSchema, err := jsonschema.For[tools.DeleteTodoInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.DeleteTodoName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        tools.DeleteTodoName,
		Description: "Delete a todo item permanently by its id.",
		InputSchema: deleteTodoSchema,
	}, s.DeleteTodo)

	// get_todo_stats
	getTodoStatsSchema, err := jsonschema.For[tools.GetTodoStatsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.GetTodoStatsName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        tools.GetTodoStatsName,
		Description: "Get statistics about the todo list: totals, completion rate and overdue count.",
		InputSchema: getTodoStatsSchema,
	}, s.GetTodoStats)

	// analyze_todos
	analyzeTodosSchema, err := jsonschema.For[tools.AnalyzeTodosInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.AnalyzeTodosName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        tools.AnalyzeTodosName,
		Description: "Analyze the todo list and get a short narrative with a recommendation on what to work on next.",
		InputSchema: analyzeTodosSchema,
	}, s.AnalyzeTodos)

	return nil
}

// ListTodos handles the list_todos MCP tool call.
func (s *Server) ListTodos(ctx context.Context, req *mcp.CallToolRequest, input tools.ListTodosInput) (*mcp.CallToolResult, any, error) {
	toolCtx := &ai.ToolContext{Context: ctx}
	result, err := s.todoTools.ListTodos(toolCtx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("list_todos failed: %w", err)
	}

	return resultToMCP(result, s.logger), nil, nil
}

// GetTodo handles the get_todo MCP tool call.
func (s *Server) GetTodo(ctx context.Context, req *mcp.CallToolRequest, input tools.GetTodoInput) (*mcp.CallToolResult, any, error) {
	toolCtx := &ai.ToolContext{Context: ctx}
	result, err := s.todoTools.GetTodo(toolCtx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("get_todo failed: %w", err)
	}

	return resultToMCP(result, s.logger), nil, nil
}

// CreateTodo handles the create_todo MCP tool call.
func (s *Server) CreateTodo(ctx context.Context, req *mcp.CallToolRequest, input tools.CreateTodoInput) (*mcp.CallToolResult, any, error) {
	toolCtx := &ai.ToolContext{Context: ctx}
	result, err := s.todoTools.CreateTodo(toolCtx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("create_todo failed: %w", err)
	}

	return resultToMCP(result, s.logger), nil, nil
}

// UpdateTodo handles the update_todo MCP tool call.
func (s *Server) UpdateTodo(ctx context.Context, req *mcp.CallToolRequest, input tools.UpdateTodoInput) (*mcp.CallToolResult, any, error) {
	toolCtx := &ai.ToolContext{Context: ctx}
	result, err := s.todoTools.UpdateTodo(toolCtx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("update_todo failed: %w", err)
	}

	return resultToMCP(result, s.logger), nil, nil
}

// DeleteTodo handles the delete_todo MCP tool call.
func (s *Server) DeleteTodo(ctx context.Context, req *mcp.CallToolRequest, input tools.DeleteTodoInput) (*mcp.CallToolResult, any, error) {
	toolCtx := &ai.ToolContext{Context: ctx}
	result, err := s.todoTools.DeleteTodo(toolCtx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("delete_todo failed: %w", err)
	}

	return resultToMCP(result, s.logger), nil, nil
}

// GetTodoStats handles the get_todo_stats MCP tool call.
func (s *Server) GetTodoStats(ctx context.Context, req *mcp.CallToolRequest, input tools.GetTodoStatsInput) (*mcp.CallToolResult, any, error) {
	toolCtx := &ai.ToolContext{Context: ctx}
	result, err := s.todoTools.GetTodoStats(toolCtx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("get_todo_stats failed: %w", err)
	}

	return resultToMCP(result, s.logger), nil, nil
}

// AnalyzeTodos handles the analyze_todos MCP tool call.
func (s *Server) AnalyzeTodos(ctx context.Context, req *mcp.CallToolRequest, input tools.AnalyzeTodosInput) (*mcp.CallToolResult, any, error) {
	toolCtx := &ai.ToolContext{Context: ctx}
	result, err := s.todoTools.AnalyzeTodos(toolCtx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("analyze_todos failed: %w", err)
	}

	return resultToMCP(result, s.logger), nil, nil
}
