// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.todo/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - AI: provider, model selection, temperature, max tokens
//   - Store: data file path and sample seeding (see store_path)
//   - HTTP: listen address, proxy trust, rate limiting
//   - Chat: tool source for the interactive agent (see chat.go)
//   - Tracing: optional OTLP trace export (see observability.go)
//
// Security: sensitive values never reach logs; the config directory uses
// 0750 permissions. API keys for model providers (GEMINI_API_KEY,
// OPENAI_API_KEY) are read by Genkit directly from the environment and are
// never stored in Config.
//
// Error handling uses sentinel errors so callers can branch with
// errors.Is(); validation wraps them via fmt.Errorf("%w: details").
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required provider API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidMaxTurns indicates the agent turn limit is out of range.
	ErrInvalidMaxTurns = errors.New("invalid max turns")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidOllamaHost indicates the Ollama host is invalid.
	ErrInvalidOllamaHost = errors.New("invalid Ollama host")

	// ErrInvalidStorePath indicates the todo data file path is invalid.
	ErrInvalidStorePath = errors.New("invalid store path")

	// ErrInvalidHTTPAddr indicates the HTTP listen address is invalid.
	ErrInvalidHTTPAddr = errors.New("invalid HTTP address")

	// ErrInvalidRateBurst indicates the rate limit burst is out of range.
	ErrInvalidRateBurst = errors.New("invalid rate burst")

	// ErrInvalidChatMode indicates the chat tool source mode is unknown.
	ErrInvalidChatMode = errors.New("invalid chat mode")
)

const (
	// DefaultMaxHistoryMessages is the default conversation history bound.
	DefaultMaxHistoryMessages = 100

	// MaxAllowedHistoryMessages is the absolute maximum to prevent OOM.
	MaxAllowedHistoryMessages = 10000

	// MinHistoryMessages is the minimum allowed value for MaxHistoryMessages.
	MinHistoryMessages = 10
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields (passwords, API keys, tokens), update
// the owning struct's MarshalJSON.
type Config struct {
	// AI provider and model configuration
	Provider    string  `mapstructure:"provider" json:"provider"`     // "gemini" (default), "ollama", "openai"
	ModelName   string  `mapstructure:"model_name" json:"model_name"` // Model identifier (e.g., "gemini-2.5-flash", "llama3.3", "gpt-4o")
	Temperature float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`
	PromptDir   string  `mapstructure:"prompt_dir" json:"prompt_dir"`

	// Ollama configuration (only used when provider is "ollama")
	OllamaHost string `mapstructure:"ollama_host" json:"ollama_host"`

	// Conversation configuration
	MaxHistoryMessages int `mapstructure:"max_history_messages" json:"max_history_messages"`
	MaxTurns           int `mapstructure:"max_turns" json:"max_turns"`

	// Todo store configuration
	StorePath   string `mapstructure:"store_path" json:"store_path"` // defaults to ~/.todo/todos.json
	SeedSamples bool   `mapstructure:"seed_samples" json:"seed_samples"`

	// HTTP server configuration (serve mode only)
	HTTPAddr   string `mapstructure:"http_addr" json:"http_addr"`
	TrustProxy bool   `mapstructure:"trust_proxy" json:"trust_proxy"` // Trust X-Real-IP/X-Forwarded-For headers (set true behind reverse proxy)
	RateBurst  int    `mapstructure:"rate_burst" json:"rate_burst"`

	// Chat configuration (cli mode only, see chat.go)
	Chat ChatConfig `mapstructure:"chat" json:"chat"`

	// Tracing configuration (see observability.go)
	Tracing TracingConfig `mapstructure:"tracing" json:"tracing"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	// Configuration directory: ~/.todo/
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".todo")

	// Ensure directory exists (0750: owner rwx, group rx)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	// Read configuration file (if exists)
	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// The data file lives next to the config unless overridden.
	if cfg.StorePath == "" {
		cfg.StorePath = filepath.Join(configDir, "todos.json")
	}

	// Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// AI defaults
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("temperature", 0.7)
	viper.SetDefault("max_tokens", 2048)
	viper.SetDefault("prompt_dir", "prompts")
	viper.SetDefault("max_history_messages", DefaultMaxHistoryMessages)
	viper.SetDefault("max_turns", 5)

	// Ollama defaults
	viper.SetDefault("ollama_host", "http://localhost:11434")

	// Store defaults (store_path resolves to ~/.todo/todos.json in Load)
	viper.SetDefault("store_path", "")
	viper.SetDefault("seed_samples", true)

	// HTTP defaults
	viper.SetDefault("http_addr", ":8080")
	viper.SetDefault("rate_burst", 60)

	// Proxy trust (default: false — safe for direct exposure; set true behind reverse proxy)
	viper.SetDefault("trust_proxy", false)

	// Chat defaults: the agent imports its tools from a self-spawned MCP
	// server; mcp_command "" means the current executable.
	viper.SetDefault("chat.mode", ChatModeMCP)
	viper.SetDefault("chat.mcp_command", "")
	viper.SetDefault("chat.mcp_args", []string{"mcp"})

	// Tracing defaults (empty endpoint = tracing disabled)
	viper.SetDefault("tracing.endpoint", "")
	viper.SetDefault("tracing.environment", "dev")
	viper.SetDefault("tracing.service_name", "todo")
}

// bindEnvVariables binds environment variables explicitly. No AutomaticEnv:
// every override is listed here so the surface stays auditable.
//
// NOTE: GEMINI_API_KEY is read directly by Genkit, not via Viper.
// NOTE: OPENAI_API_KEY is read directly by the Genkit OpenAI plugin.
// ValidateChat checks their presence based on the selected provider.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	// AI provider and model overrides
	mustBind("provider", "TODO_PROVIDER")
	mustBind("model_name", "TODO_MODEL_NAME")
	mustBind("ollama_host", "TODO_OLLAMA_HOST")

	// Store overrides
	mustBind("store_path", "TODO_STORE_PATH")

	// HTTP overrides (serve mode, behind reverse proxy)
	mustBind("http_addr", "TODO_HTTP_ADDR")
	mustBind("trust_proxy", "TODO_TRUST_PROXY")

	// Chat tool source override
	mustBind("chat.mode", "TODO_CHAT_MODE")

	// Tracing: the endpoint follows the OpenTelemetry convention, the API
	// key header is ours
	mustBind("tracing.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	mustBind("tracing.api_key", "TODO_TRACE_API_KEY")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks (U+2588) cannot collide with real secret substrings.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 characters or fewer are fully masked to prevent substring
// matching; longer ones keep the first and last 2 characters for debug
// utility. This defends against accidental logging of real secrets, not
// against compromised logs — rotate secrets in that case.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	// Example: "my_long_secret_key_123" → "my<████████>23"
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// FullModelName returns the provider-qualified model name for Genkit.
// Examples: "googleai/gemini-2.5-flash", "ollama/llama3.3", "openai/gpt-4o".
// If ModelName already contains a "/", it is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	switch c.Provider {
	case ProviderOllama:
		return ProviderOllama + "/" + c.ModelName
	case ProviderOpenAI:
		return ProviderOpenAI + "/" + c.ModelName
	default:
		return ProviderGoogleAI + "/" + c.ModelName
	}
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
