package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/koopa0/todo/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// todoAnalysisPromptName is the single prompt template the server exposes.
const todoAnalysisPromptName = "todo_analysis"

// registerPrompts registers reusable prompt templates to the MCP server.
// Prompts: todo_analysis
func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(&mcp.Prompt{
		Name:        todoAnalysisPromptName,
		Description: "Review the current todo list and suggest what to work on next.",
	}, s.TodoAnalysisPrompt)
}

// TodoAnalysisPrompt handles the todo_analysis prompt request. It embeds the
// current list state and precomputed stats in a user message so the client's
// model can give grounded advice instead of guessing.
func (s *Server) TodoAnalysisPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	toolCtx := &ai.ToolContext{Context: ctx}
	result, err := s.todoTools.AnalyzeTodos(toolCtx, tools.AnalyzeTodosInput{})
	if err != nil {
		return nil, fmt.Errorf("todo_analysis prompt: %w", err)
	}
	if result.Status == tools.StatusError {
		return nil, fmt.Errorf("todo_analysis prompt: [%s] %s", result.Error.Code, result.Error.Message)
	}

	state, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("todo_analysis prompt: %w", err)
	}

	text := fmt.Sprintf(
		"Here is the current state of my todo list:\n\n%s\n\nReview it and tell me what to work on next. Call out anything overdue first.",
		state)

	return &mcp.GetPromptResult{
		Description: "Todo list analysis request",
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}, nil
}
