// Package mcp implements a Model Context Protocol (MCP) server for the todo
// toolset.
//
// The server exposes the same tool implementations the chat agent uses
// (internal/tools) over the MCP protocol, so Claude Desktop, Genkit CLI and
// other MCP clients can manage the todo list through a standardized
// interface. Tools are registered once at construction; the transport is
// chosen by the caller when Run is invoked (stdio in production, in-memory
// in tests).
//
// # Tools
//
//   - list_todos: list all todo items in creation order
//   - get_todo: fetch one item by id
//   - create_todo: create an item (title required, rest optional)
//   - update_todo: partial update, omitted fields keep their values
//   - delete_todo: remove an item permanently
//   - get_todo_stats: counts, completion rate and overdue totals
//   - analyze_todos: narrative summary with a recommendation
//
// The server also registers one prompt template, todo_analysis, which
// embeds the current list state into a user message for the client's model.
//
// # Error Handling
//
// The server distinguishes two kinds of failure:
//
//   - Tool errors (validation failures, missing todos, store I/O trouble)
//     are returned as successful protocol responses with IsError=true and a
//     "[Code] message" text body, so clients can recover gracefully.
//
//   - System errors (implementation bugs, canceled contexts) propagate as
//     protocol errors.
//
// Error details are sanitized through a whitelist before leaving the
// process; see util.go.
//
// # Thread Safety
//
// The server is safe for concurrent use. Transport and message handling are
// managed by the MCP SDK; the underlying store serializes mutations.
package mcp
