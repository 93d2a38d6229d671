package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"
)

const (
	// TodoPromptName is the name of the Dotprompt file for the assistant.
	// This corresponds to prompts/todo.prompt.
	// NOTE: The default LLM model is configured in the Dotprompt file; a
	// non-empty Config.ModelName overrides it.
	TodoPromptName = "todo"

	// fallbackResponseMessage is the message returned when the model produces an empty response.
	fallbackResponseMessage = "I apologize, but I couldn't generate a response. Please try rephrasing your question."

	// defaultMaxTurns bounds the tool-calling round trips for one query.
	defaultMaxTurns = 5

	// defaultMaxHistory bounds the stored conversation, counted in messages.
	defaultMaxHistory = 100
)

// Sentinel errors for error handling with errors.Is.
var (
	// ErrEmptyQuery indicates the query was blank after trimming whitespace.
	ErrEmptyQuery = errors.New("empty query")

	// ErrExecutionFailed indicates the agent failed to produce a response.
	ErrExecutionFailed = errors.New("execution failed")
)

// Response contains the result of one conversational turn.
type Response struct {
	// FinalText is the assistant's reply.
	FinalText string

	// ToolRequests lists the tool calls the model issued during the turn.
	ToolRequests []*ai.ToolRequest
}

// StreamCallback receives streaming chunks during response generation.
type StreamCallback func(ctx context.Context, chunk *ai.ModelResponseChunk) error

// Config holds the dependencies and tuning knobs for the Agent.
type Config struct {
	Genkit *genkit.Genkit
	Logger *slog.Logger

	// Tools the model may call during a turn. At least one is required;
	// an assistant that cannot touch the todo list is useless.
	Tools []ai.Tool

	// ModelName overrides the model from the prompt file when non-empty,
	// e.g. "googleai/gemini-2.5-flash" or "ollama/llama3.2".
	ModelName string

	// MaxTurns caps tool-calling round trips per query. Zero means default.
	MaxTurns int

	// MaxHistory caps stored conversation messages. Zero means default.
	MaxHistory int

	// RetryConfig controls retries on transient model errors.
	// A zero value means DefaultRetryConfig.
	RetryConfig RetryConfig

	// RateLimiter throttles outbound model calls. Nil gets a default
	// limiter of 10 req/s with burst 30.
	RateLimiter *rate.Limiter
}

func (c *Config) validate() error {
	if c.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if len(c.Tools) == 0 {
		return errors.New("at least one tool is required")
	}
	return nil
}

// Agent executes conversational turns against the todo assistant prompt.
// It keeps the conversation history in memory, bounded by MaxHistory;
// history lives for the lifetime of the process, matching the single
// conversation the CLI presents.
type Agent struct {
	g           *genkit.Genkit
	logger      *slog.Logger
	prompt      ai.Prompt
	toolRefs    []ai.ToolRef
	toolNames   string
	modelName   string
	maxTurns    int
	maxHistory  int
	retryConfig RetryConfig
	rateLimiter *rate.Limiter

	mu      sync.Mutex
	history []*ai.Message
}

// New creates an Agent from cfg. It fails when the todo dotprompt is not
// registered on the Genkit instance.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}

	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}

	retryConfig := cfg.RetryConfig
	if retryConfig.MaxRetries == 0 {
		retryConfig = DefaultRetryConfig()
	}

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimiter = rate.NewLimiter(10, 30)
	}

	// ai.Tool implements ai.ToolRef, so the conversion is cached once
	// instead of on every turn.
	toolRefs := make([]ai.ToolRef, 0, len(cfg.Tools))
	names := make([]string, 0, len(cfg.Tools))
	for _, tool := range cfg.Tools {
		toolRefs = append(toolRefs, tool)
		names = append(names, tool.Name())
	}

	prompt := genkit.LookupPrompt(cfg.Genkit, TodoPromptName)
	if prompt == nil {
		return nil, fmt.Errorf("dotprompt '%s' not found: ensure prompts directory is configured correctly", TodoPromptName)
	}
	cfg.Logger.Debug("loaded dotprompt successfully", "prompt", TodoPromptName)

	cfg.Logger.Info("chat agent initialized",
		"totalTools", len(cfg.Tools),
		"maxTurns", maxTurns)

	return &Agent{
		g:           cfg.Genkit,
		logger:      cfg.Logger,
		prompt:      prompt,
		toolRefs:    toolRefs,
		toolNames:   strings.Join(names, ", "),
		modelName:   cfg.ModelName,
		maxTurns:    maxTurns,
		maxHistory:  maxHistory,
		retryConfig: retryConfig,
		rateLimiter: rateLimiter,
	}, nil
}

// Execute processes a query and returns the complete response.
func (a *Agent) Execute(ctx context.Context, input string) (*Response, error) {
	return a.ExecuteStream(ctx, input, nil)
}

// ExecuteStream processes a query, forwarding chunks to callback when it
// is non-nil. On success the user message and the model's reply are
// appended to the stored conversation history.
func (a *Agent) ExecuteStream(ctx context.Context, input string, callback StreamCallback) (*Response, error) {
	a.logger.Debug("executing query", "queryLength", len(input))

	resp, err := a.generateResponse(ctx, input, callback)
	if err != nil {
		return nil, err
	}

	finalText := resp.Text()
	toolRequests := resp.ToolRequests()

	// A turn that neither said anything nor called a tool gets the
	// fallback so the user is never shown a blank reply.
	if strings.TrimSpace(finalText) == "" && len(toolRequests) == 0 {
		a.logger.Warn("model returned empty response, using fallback message")
		finalText = fallbackResponseMessage
	}

	a.remember(input, resp.Message)

	return &Response{
		FinalText:    finalText,
		ToolRequests: toolRequests,
	}, nil
}

// ClearHistory discards the stored conversation. The next turn starts
// from a clean slate; the CLI binds this to /clear.
func (a *Agent) ClearHistory() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = nil
}

func (a *Agent) generateResponse(ctx context.Context, input string, callback StreamCallback) (*ai.ModelResponse, error) {
	messages := append(a.snapshotHistory(), ai.NewUserMessage(ai.NewTextPart(input)))

	promptInput := map[string]any{
		"current_date": time.Now().Format("2006-01-02"),
	}

	opts := []ai.PromptExecuteOption{
		ai.WithInput(promptInput),
		ai.WithMessagesFn(func(_ context.Context, _ any) ([]*ai.Message, error) {
			return messages, nil
		}),
		ai.WithTools(a.toolRefs...),
		ai.WithMaxTurns(a.maxTurns),
	}
	if a.modelName != "" {
		opts = append(opts, ai.WithModelName(a.modelName))
	}
	if callback != nil {
		opts = append(opts, ai.WithStreaming(callback))
	}

	a.logger.Debug("executing prompt",
		"toolCount", len(a.toolRefs),
		"tools", a.toolNames,
		"maxTurns", a.maxTurns,
		"queryLength", len(input))

	return a.executeWithRetry(ctx, opts)
}

// snapshotHistory returns a deep copy of the stored history so the model
// call operates on messages nothing else can mutate.
func (a *Agent) snapshotHistory() []*ai.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return deepCopyMessages(a.history)
}

// remember appends the user input and the model's reply to the stored
// history, trimming the oldest messages past the configured bound.
func (a *Agent) remember(input string, reply *ai.Message) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, ai.NewUserMessage(ai.NewTextPart(input)))
	if reply != nil {
		a.history = append(a.history, deepCopyMessage(reply))
	}
	if len(a.history) > a.maxHistory {
		a.history = a.history[len(a.history)-a.maxHistory:]
	}
}

// deepCopyMessages creates an independent copy of a message slice.
//
// WORKAROUND: Genkit's renderMessages() mutates message Content in place
// while rendering prompts, so sharing message pointers between the stored
// history and an in-flight Execute causes data races and corrupted turns.
// Copying before each call isolates the history from that mutation.
// Tested version: github.com/firebase/genkit/go v1.4.0.
//
// Removal steps once upstream stops mutating caller-provided messages:
//  1. Delete deepCopyMessages, deepCopyMessage, deepCopyPart, shallowCopyMap.
//  2. Return a plain slice copy from snapshotHistory.
//  3. Store reply directly in remember.
func deepCopyMessages(messages []*ai.Message) []*ai.Message {
	if messages == nil {
		return nil
	}
	copied := make([]*ai.Message, len(messages))
	for i, msg := range messages {
		copied[i] = deepCopyMessage(msg)
	}
	return copied
}

func deepCopyMessage(msg *ai.Message) *ai.Message {
	if msg == nil {
		return nil
	}
	copied := &ai.Message{
		Role:     msg.Role,
		Metadata: shallowCopyMap(msg.Metadata),
	}
	if msg.Content != nil {
		copied.Content = make([]*ai.Part, len(msg.Content))
		for j, part := range msg.Content {
			copied.Content[j] = deepCopyPart(part)
		}
	}
	return copied
}

// deepCopyPart copies the part fields renderMessages is known to touch.
// Tool request and response payloads are copied by reference; rendering
// treats them as opaque.
func deepCopyPart(part *ai.Part) *ai.Part {
	if part == nil {
		return nil
	}
	copied := &ai.Part{
		Kind:        part.Kind,
		ContentType: part.ContentType,
		Text:        part.Text,
		Custom:      shallowCopyMap(part.Custom),
		Metadata:    shallowCopyMap(part.Metadata),
	}
	if part.ToolRequest != nil {
		copied.ToolRequest = &ai.ToolRequest{
			Name:  part.ToolRequest.Name,
			Ref:   part.ToolRequest.Ref,
			Input: part.ToolRequest.Input,
		}
	}
	if part.ToolResponse != nil {
		copied.ToolResponse = &ai.ToolResponse{
			Name:   part.ToolResponse.Name,
			Ref:    part.ToolResponse.Ref,
			Output: part.ToolResponse.Output,
		}
	}
	if part.Resource != nil {
		copied.Resource = &ai.ResourcePart{
			Uri: part.Resource.Uri,
		}
	}
	return copied
}

func shallowCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	copied := make(map[string]any, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}
