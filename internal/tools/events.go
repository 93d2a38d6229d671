package tools

import (
	"github.com/firebase/genkit/go/ai"
)

// WithEvents wraps a typed tool handler so its lifecycle is reported to the
// Emitter bound to the request context. With no emitter bound the wrapper
// is a plain pass-through, which keeps non-streaming callers unaffected.
func WithEvents[In, Out any](name string, fn func(*ai.ToolContext, In) (Out, error)) func(*ai.ToolContext, In) (Out, error) {
	return func(ctx *ai.ToolContext, input In) (Out, error) {
		emitter := EmitterFromContext(ctx.Context)

		if emitter != nil {
			emitter.OnToolStart(name)
		}

		out, err := fn(ctx, input)

		if emitter != nil {
			if err != nil {
				emitter.OnToolError(name)
			} else {
				emitter.OnToolComplete(name)
			}
		}

		return out, err
	}
}
