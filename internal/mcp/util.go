package mcp

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/koopa0/todo/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCP error detail whitelist policy:
// - field: safe (names one of our own input fields, e.g. "title")
// - hint: safe (fixed operator guidance, no runtime values)
//
// NEVER expose:
// - stack traces
// - file system paths
// - environment variables
// - internal IDs
// - API keys/tokens
//
// Reference: MCP Protocol error handling best practices

// resultToMCP converts a tools.Result to mcp.CallToolResult.
// If logger is nil, falls back to slog.Default().
func resultToMCP(result tools.Result, logger *slog.Logger) *mcp.CallToolResult {
	if logger == nil {
		logger = slog.Default()
	}

	if result.Status == tools.StatusError {
		errorText := fmt.Sprintf("[%s] %s", result.Error.Code, result.Error.Message)
		if result.Error.Details != nil {
			// Sanitize error details before exposing to clients
			sanitized := sanitizeErrorDetails(result.Error.Details)
			if len(sanitized) > 0 {
				detailsJSON, err := json.Marshal(sanitized)
				if err != nil {
					// Log internal error, don't expose to client
					logger.Warn("marshaling sanitized error details", "error", err)
					errorText += "\nDetails: (see server logs)"
				} else {
					errorText += fmt.Sprintf("\nDetails: %s", string(detailsJSON))
				}
			}

			// Always log full details server-side for debugging
			logger.Debug("MCP error details", "details", result.Error.Details)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: errorText}},
			IsError: true,
		}
	}

	// Success - return data as JSON
	return dataToMCP(result.Data)
}

// dataToMCP converts arbitrary data to MCP text content via JSON marshaling.
// This is the simple, unified approach: all data becomes JSON, clients parse it.
func dataToMCP(data any) *mcp.CallToolResult {
	if data == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: ""}},
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "marshal error"}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// sanitizeErrorDetails extracts only safe, whitelisted fields from error details.
// All sensitive information (stack traces, paths, env vars) is redacted.
func sanitizeErrorDetails(details any) map[string]any {
	safe := make(map[string]any)

	// Type-assert to map
	detailsMap, ok := details.(map[string]any)
	if !ok {
		return safe
	}

	// Whitelist of safe fields (expand conservatively)
	safeFields := map[string]bool{
		"field": true, // e.g. "title", "due_date"
		"hint":  true, // fixed operator guidance
	}

	for key, val := range detailsMap {
		if safeFields[key] {
			safe[key] = val
		}
	}

	return safe
}
