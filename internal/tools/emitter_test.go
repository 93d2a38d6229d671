package tools_test

import (
	"context"
	"testing"

	"github.com/koopa0/todo/internal/tools"
)

// mockEmitter records lifecycle calls for assertions.
type mockEmitter struct {
	startCalls    []string
	completeCalls []string
	errorCalls    []string
}

func (m *mockEmitter) OnToolStart(name string) {
	m.startCalls = append(m.startCalls, name)
}

func (m *mockEmitter) OnToolComplete(name string) {
	m.completeCalls = append(m.completeCalls, name)
}

func (m *mockEmitter) OnToolError(name string) {
	m.errorCalls = append(m.errorCalls, name)
}

var _ tools.Emitter = (*mockEmitter)(nil)

func TestContextWithEmitter(t *testing.T) {
	t.Parallel()

	t.Run("round-trips through context", func(t *testing.T) {
		t.Parallel()

		emitter := &mockEmitter{}
		ctx := tools.ContextWithEmitter(context.Background(), emitter)

		retrieved := tools.EmitterFromContext(ctx)
		if retrieved == nil {
			t.Fatal("expected emitter from context")
		}
		retrieved.OnToolStart("list_todos")
		if len(emitter.startCalls) != 1 || emitter.startCalls[0] != "list_todos" {
			t.Errorf("startCalls = %v, want [list_todos]", emitter.startCalls)
		}
	})

	t.Run("later binding wins", func(t *testing.T) {
		t.Parallel()

		first := &mockEmitter{}
		second := &mockEmitter{}

		ctx := tools.ContextWithEmitter(context.Background(), first)
		ctx = tools.ContextWithEmitter(ctx, second)

		tools.EmitterFromContext(ctx).OnToolStart("get_todo")
		if len(second.startCalls) != 1 {
			t.Error("expected the later emitter to receive the call")
		}
		if len(first.startCalls) != 0 {
			t.Error("earlier emitter should not receive calls")
		}
	})
}

func TestEmitterFromContext_Unset(t *testing.T) {
	t.Parallel()

	if emitter := tools.EmitterFromContext(context.Background()); emitter != nil {
		t.Error("expected nil emitter from a bare context")
	}
}
