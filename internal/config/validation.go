package config

import (
	"fmt"
	"os"
	"slices"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
//
// Provider API keys are deliberately not checked here: serve and mcp
// modes never call a model. ValidateChat covers them.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	validProviders := []string{ProviderGemini, ProviderGoogleAI, ProviderOllama, ProviderOpenAI}
	if !slices.Contains(validProviders, c.Provider) {
		return fmt.Errorf("%w: %q is not valid, must be one of: %v",
			ErrInvalidProvider, c.Provider, validProviders)
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	// Temperature range: 0.0 (deterministic) to 2.0 (maximum creativity)
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	// MaxTokens range: 1 to 2097152 (Gemini 2.5 max context window)
	if c.MaxTokens < 1 || c.MaxTokens > 2097152 {
		return fmt.Errorf("%w: must be between 1 and 2,097,152, got %d", ErrInvalidMaxTokens, c.MaxTokens)
	}

	if c.MaxTurns < 1 || c.MaxTurns > 100 {
		return fmt.Errorf("%w: must be between 1 and 100, got %d", ErrInvalidMaxTurns, c.MaxTurns)
	}

	if c.Provider == ProviderOllama && c.OllamaHost == "" {
		return fmt.Errorf("%w: ollama_host cannot be empty when provider is %q",
			ErrInvalidOllamaHost, ProviderOllama)
	}

	if c.StorePath == "" {
		return fmt.Errorf("%w: store_path cannot be empty", ErrInvalidStorePath)
	}

	if c.HTTPAddr == "" {
		return fmt.Errorf("%w: http_addr cannot be empty", ErrInvalidHTTPAddr)
	}

	if c.RateBurst < 1 || c.RateBurst > 10000 {
		return fmt.Errorf("%w: must be between 1 and 10,000, got %d", ErrInvalidRateBurst, c.RateBurst)
	}

	validModes := []string{ChatModeMCP, ChatModeLocal}
	if !slices.Contains(validModes, c.Chat.Mode) {
		return fmt.Errorf("%w: %q is not valid, must be one of: %v",
			ErrInvalidChatMode, c.Chat.Mode, validModes)
	}

	return nil
}

// ValidateChat checks the provider API key the chat agent needs. Genkit
// reads the keys directly from the environment, so only presence is
// checked here.
func (c *Config) ValidateChat() error {
	if c == nil {
		return ErrConfigNil
	}

	switch c.Provider {
	case ProviderOllama:
		// Local models need no key.
		return nil
	case ProviderOpenAI:
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY environment variable is required for provider %q",
				ErrMissingAPIKey, c.Provider)
		}
		return nil
	default:
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
				"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
				ErrMissingAPIKey)
		}
		return nil
	}
}

// NormalizeMaxHistoryMessages clamps the conversation history bound into
// its allowed range. Zero or negative falls back to the default.
func NormalizeMaxHistoryMessages(limit int) int {
	if limit <= 0 {
		return DefaultMaxHistoryMessages
	}
	if limit < MinHistoryMessages {
		return MinHistoryMessages
	}
	if limit > MaxAllowedHistoryMessages {
		return MaxAllowedHistoryMessages
	}
	return limit
}
