package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/koopa0/todo/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server around the todo toolset.
type Server struct {
	mcpServer *mcp.Server
	todoTools *tools.TodoTools
	logger    *slog.Logger
	name      string
	version   string
}

// Config holds MCP server configuration.
type Config struct {
	Name      string
	Version   string
	Logger    *slog.Logger // optional, defaults to slog.Default()
	TodoTools *tools.TodoTools
}

// NewServer creates an MCP server exposing the todo toolset. All tools and
// prompts are registered during construction; after a non-nil error the
// server must not be used.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.TodoTools == nil {
		return nil, fmt.Errorf("todo tools is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		todoTools: cfg.TodoTools,
		logger:    logger,
		name:      cfg.Name,
		version:   cfg.Version,
	}

	if err := s.registerTodoTools(); err != nil {
		return nil, fmt.Errorf("registering todo tools: %w", err)
	}
	s.registerPrompts()

	return s, nil
}

// Run starts the MCP server on the given transport.
// This is a blocking call that handles all MCP protocol communication.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("MCP server starting", "name", s.name, "version", s.version)
	return s.mcpServer.Run(ctx, transport)
}
