package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
)

// Input defines the request payload for the chat flow.
type Input struct {
	Query string `json:"query"`
}

// Output defines the response payload from the chat flow.
type Output struct {
	Response string `json:"response"`
}

// StreamChunk is the streaming output type for the chat flow.
// Each chunk contains partial text that can be displayed immediately.
type StreamChunk struct {
	Text string `json:"text"` // partial text chunk
}

// FlowName is the registered name of the chat flow in Genkit.
const FlowName = "todo/chat"

// Flow is the type alias for the assistant's Genkit streaming flow.
type Flow = core.Flow[Input, Output, StreamChunk]

// Package-level singleton for the flow to prevent panic on re-registration.
// sync.Once ensures genkit.DefineStreamingFlow is called only once.
var (
	flowOnce sync.Once
	flow     *Flow
)

// NewFlow returns the chat flow singleton, initializing it on first call.
// Subsequent calls return the existing flow (parameters are ignored).
// This is safe because genkit.DefineStreamingFlow panics on re-registration.
func NewFlow(g *genkit.Genkit, agent *Agent) *Flow {
	flowOnce.Do(func() {
		flow = agent.DefineFlow(g)
	})
	return flow
}

// ResetFlowForTesting resets the flow singleton so tests can define the
// flow against a fresh Genkit instance.
// WARNING: Only use in tests. Not safe for concurrent use.
func ResetFlowForTesting() {
	flowOnce = sync.Once{}
	flow = nil
}

// DefineFlow defines the Genkit streaming flow backed by this agent.
// Supports both streaming (via callback) and non-streaming modes.
//
// IMPORTANT: Use NewFlow() instead of calling DefineFlow() directly.
// DefineFlow registers a global flow; calling it twice causes panic.
//
// The flow is a lightweight wrapper: it validates input, adapts the
// stream callback, and maps failures onto sentinel errors so callers
// can classify them with errors.Is(). Agent.ExecuteStream holds the
// core logic.
func (a *Agent) DefineFlow(g *genkit.Genkit) *Flow {
	return genkit.DefineStreamingFlow(g, FlowName,
		func(ctx context.Context, input Input, streamCb func(context.Context, StreamChunk) error) (Output, error) {
			if strings.TrimSpace(input.Query) == "" {
				return Output{}, fmt.Errorf("%w: query must not be blank", ErrEmptyQuery)
			}

			// When streamCb is nil (e.g. called via Run() instead of
			// Stream()), agentCallback stays nil and ExecuteStream runs
			// in non-streaming mode.
			var agentCallback StreamCallback
			if streamCb != nil {
				agentCallback = func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
					if chunk == nil {
						return nil
					}
					for _, part := range chunk.Content {
						if part.Text == "" {
							continue
						}
						if streamErr := streamCb(ctx, StreamChunk{Text: part.Text}); streamErr != nil {
							return streamErr
						}
					}
					return nil
				}
			}

			resp, err := a.ExecuteStream(ctx, input.Query, agentCallback)
			if err != nil {
				// Genkit marks this span as failed, keeping traces honest.
				return Output{}, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
			}

			return Output{Response: resp.FinalText}, nil
		},
	)
}
