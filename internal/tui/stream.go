package tui

import (
	"context"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/koopa0/todo/internal/chat"
	"github.com/koopa0/todo/internal/tools"
)

// streamBufferSize is sized for ~1.5s of chunks at a 60 FPS refresh rate.
// This prevents backpressure during UI render delays while keeping memory
// bounded.
const streamBufferSize = 100

// streamEvent is a discriminated union for all stream events.
// A single channel with a union type keeps the select logic simple and
// avoids multi-channel closure handling.
type streamEvent struct {
	// Exactly one of these fields is set per event
	text       string      // text chunk (when non-empty)
	output     chat.Output // final output (when done is true)
	err        error       // error (when non-nil)
	done       bool        // true when the stream completed successfully
	toolStatus string      // tool status message (when non-empty, e.g. "Listing todos...")
}

// Stream message types for Bubble Tea
type streamStartedMsg struct {
	eventCh <-chan streamEvent
	cancel  context.CancelFunc
}

type streamTextMsg struct {
	text string
}

type streamDoneMsg struct {
	output chat.Output
}

type streamErrorMsg struct {
	err error
}

type streamToolMsg struct {
	status string
}

// toolDisplayNames maps tool names to the status text shown while the
// tool runs. Unmapped tools fall back to their raw name.
var toolDisplayNames = map[string]string{
	tools.ListTodosName:    "Listing todos",
	tools.GetTodoName:      "Fetching a todo",
	tools.CreateTodoName:   "Creating a todo",
	tools.UpdateTodoName:   "Updating a todo",
	tools.DeleteTodoName:   "Deleting a todo",
	tools.GetTodoStatsName: "Crunching the numbers",
	tools.AnalyzeTodosName: "Analyzing your list",
}

func toolDisplayName(name string) string {
	if display, ok := toolDisplayNames[name]; ok {
		return display
	}
	return name
}

// tuiToolEmitter implements tools.Emitter for the TUI.
// Tool status flows through the stream event channel so Bubble Tea can
// show execution progress next to the spinner.
type tuiToolEmitter struct {
	eventCh chan<- streamEvent
}

func (e *tuiToolEmitter) OnToolStart(name string) {
	display := toolDisplayName(name)
	select {
	case e.eventCh <- streamEvent{toolStatus: display + "..."}:
	default: // best-effort: don't block if the channel is full
	}
}

func (e *tuiToolEmitter) OnToolComplete(_ string) {
	select {
	case e.eventCh <- streamEvent{toolStatus: ""}:
	default:
	}
}

func (e *tuiToolEmitter) OnToolError(_ string) {
	select {
	case e.eventCh <- streamEvent{toolStatus: ""}:
	default:
	}
}

// Compile-time interface verification.
var _ tools.Emitter = (*tuiToolEmitter)(nil)

// startStream creates a command that initiates streaming against the
// chat flow.
//
// Goroutine lifecycle: the spawned goroutine exits when the stream
// completes (Done=true), the context is canceled, or an error occurs.
// Channel closure signals completion; no WaitGroup needed.
func (m *Model) startStream(query string) tea.Cmd {
	return func() tea.Msg {
		eventCh := make(chan streamEvent, streamBufferSize)

		// Timeout so a stuck model call cannot hang the UI forever.
		ctx, cancel := context.WithTimeout(m.ctx, streamTimeout)

		// Inject the tool event emitter so tool status shows in the TUI.
		ctx = tools.ContextWithEmitter(ctx, &tuiToolEmitter{eventCh: eventCh})

		go func() {
			// Release timer resources on all exit paths.
			defer cancel()
			// Channel closure signals goroutine completion.
			defer close(eventCh)

			// Panic recovery prevents a TUI lockup.
			defer func() {
				if r := recover(); r != nil {
					slog.Error("stream panic recovered", "panic", r)
					select {
					case eventCh <- streamEvent{err: fmt.Errorf("stream panic: %v", r)}:
					default:
					}
				}
			}()

			var chunkCount int

			// chat.Flow's iterator (range-over-func). Genkit's
			// StreamingFlowValue carries {Stream, Output, Done}.
			for streamValue, err := range m.chatFlow.Stream(ctx, chat.Input{Query: query}) {
				if err != nil {
					select {
					case eventCh <- streamEvent{err: fmt.Errorf("chunk %d: %w", chunkCount, err)}:
					case <-ctx.Done():
					}
					return
				}

				if streamValue.Done {
					select {
					case eventCh <- streamEvent{done: true, output: streamValue.Output}:
					case <-ctx.Done():
					}
					return
				}

				if streamValue.Stream.Text != "" {
					chunkCount++
					select {
					case eventCh <- streamEvent{text: streamValue.Stream.Text}:
					case <-ctx.Done():
						return
					}
				}
			}

			// Guarantee a completion signal if the iterator exits without
			// Done: context canceled, zero chunks, or early termination.
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("stream ended unexpectedly without completion")
				slog.Warn("stream iterator exited without completion signal")
			}
			select {
			case eventCh <- streamEvent{err: err}:
			default:
			}
		}()

		return streamStartedMsg{
			eventCh: eventCh,
			cancel:  cancel,
		}
	}
}

// listenForStream creates a command that waits for the next stream event.
// Empty events (all fields zero) are skipped via a loop instead of
// recursion to keep the stack flat under pathological conditions.
func listenForStream(eventCh <-chan streamEvent) tea.Cmd {
	return func() tea.Msg {
		if eventCh == nil {
			return nil
		}

		for {
			event, ok := <-eventCh
			if !ok {
				// Channel closed without a done event.
				return streamErrorMsg{err: fmt.Errorf("stream ended without completion signal")}
			}

			// Discriminated union dispatch
			switch {
			case event.err != nil:
				return streamErrorMsg{err: event.err}
			case event.done:
				return streamDoneMsg{output: event.output}
			case event.toolStatus != "":
				return streamToolMsg{status: event.toolStatus}
			case event.text != "":
				return streamTextMsg{text: event.text}
			default:
				continue
			}
		}
	}
}
