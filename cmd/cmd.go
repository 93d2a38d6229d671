// Package cmd provides the CLI commands for the todo application.
//
// Commands:
//   - cli: Interactive chat with the todo assistant (Bubble Tea TUI)
//   - serve: HTTP server with the JSON REST API and the web UI
//   - mcp: Model Context Protocol server on stdio
//
// Signal handling and graceful shutdown are implemented
// for all commands via context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/koopa0/todo/internal/log"
)

// Execute is the main entry point for the todo CLI application.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(log.New(log.Config{Level: level}))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "cli":
		return runCLI()
	case "serve":
		return runServe()
	case "mcp":
		return runMCP()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("todo - Todo list with a REST API, web UI, MCP server and chat assistant")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  todo cli           Chat with the todo assistant")
	fmt.Println("  todo serve [addr]  Start the HTTP server (default: :8080)")
	fmt.Println("  todo mcp           Start the MCP server (for Claude Desktop/Cursor)")
	fmt.Println("  todo --version     Show version information")
	fmt.Println("  todo --help        Show this help")
	fmt.Println()
	fmt.Println("Chat commands (in cli mode):")
	fmt.Println("  /help              Show available commands")
	fmt.Println("  /clear             Clear conversation history")
	fmt.Println("  /exit, /quit       Exit the chat")
	fmt.Println()
	fmt.Println("Shortcuts:")
	fmt.Println("  Ctrl+D             Exit the chat")
	fmt.Println("  Ctrl+C             Cancel current input")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY     Required for cli mode with the default provider")
	fmt.Println("  TODO_STORE_PATH    Data file location (default: ~/.todo/todos.json)")
	fmt.Println("  DEBUG              Enable debug logging")
}
