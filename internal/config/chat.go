package config

// Chat tool source modes used in ChatConfig.Mode.
const (
	// ChatModeMCP imports the todo tools from an MCP server spawned over
	// stdio. This is the default: the chat agent exercises the same wire
	// surface any other MCP client sees.
	ChatModeMCP = "mcp"

	// ChatModeLocal registers the todo tools in-process with no
	// subprocess. Tests use this mode.
	ChatModeLocal = "local"
)

// ChatConfig selects where the chat agent's tools come from.
type ChatConfig struct {
	// Mode is "mcp" (default) or "local".
	Mode string `mapstructure:"mode" json:"mode"`

	// MCPCommand is the executable spawned in mcp mode. Empty means the
	// current executable, so `todo cli` talks to its own `todo mcp`.
	MCPCommand string `mapstructure:"mcp_command" json:"mcp_command"`

	// MCPArgs are the arguments passed to MCPCommand.
	MCPArgs []string `mapstructure:"mcp_args" json:"mcp_args"`
}
