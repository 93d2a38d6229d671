package tools

import "context"

// emitterKey is an empty struct so the context key allocates nothing.
type emitterKey struct{}

// Emitter receives tool lifecycle events. It carries only the tool name;
// how an event is presented (spinner text, icons) belongs to the UI layer.
type Emitter interface {
	// OnToolStart signals that the named tool began executing.
	OnToolStart(name string)

	// OnToolComplete signals that the named tool finished without error.
	OnToolComplete(name string)

	// OnToolError signals that the named tool returned an error.
	OnToolError(name string)
}

// ContextWithEmitter binds an emitter to the context for one request.
func ContextWithEmitter(ctx context.Context, emitter Emitter) context.Context {
	return context.WithValue(ctx, emitterKey{}, emitter)
}

// EmitterFromContext returns the bound emitter, or nil when the caller did
// not attach one. Nil means events are silently dropped.
func EmitterFromContext(ctx context.Context) Emitter {
	emitter, _ := ctx.Value(emitterKey{}).(Emitter)
	return emitter
}
