// Package tools implements the todo tool bridge shared by the Genkit agent
// and the MCP server.
//
// [TodoTools] holds the store-backed handlers. Each handler returns a
// [Result] envelope: business failures (validation, missing ids, store IO)
// are tagged in Result.Error and never surface as raw faults, while a
// non-nil Go error is reserved for infrastructure problems such as context
// cancellation.
//
// [RegisterTodoTools] exposes the handlers as Genkit tools wrapped with
// [WithEvents], so a UI can observe tool lifecycle through an [Emitter]
// placed in the context. The MCP server registers the same handlers against
// schemas inferred from the input structs, keeping one implementation for
// both transports.
package tools
