// Package tui provides the Bubble Tea terminal interface for the todo
// assistant.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/koopa0/todo/internal/chat"
)

// State represents the TUI state machine.
type State int

// TUI state machine states.
const (
	StateInput     State = iota // awaiting user input
	StateThinking               // processing request
	StateStreaming              // streaming response
)

// Memory bounds to prevent unbounded growth.
const (
	maxMessages = 100 // maximum messages stored
	maxHistory  = 100 // maximum command history entries
)

// streamTimeout caps the time a single stream may run.
const streamTimeout = 5 * time.Minute

// Message role constants for consistent display.
const (
	roleUser      = "user"
	roleAssistant = "assistant"
	roleSystem    = "system"
	roleError     = "error"
)

// Layout constants for viewport height calculation.
const (
	separatorLines = 2 // two separator lines (above and below input)
	helpLines      = 1 // help bar height
	promptLines    = 1 // prompt prefix line
	minViewport    = 3 // minimum viewport height
)

// Message represents a conversation message for display.
type Message struct {
	Role string // "user", "assistant", "system", "error"
	Text string
}

// Model is the Bubble Tea model for the todo assistant interface.
type Model struct {
	// Input (textarea for multi-line support, Shift+Enter for newline)
	input      textarea.Model
	history    []string
	historyIdx int

	// State
	state     State
	lastCtrlC time.Time

	// Output
	spinner  spinner.Model
	output   strings.Builder
	viewBuf  strings.Builder // reusable buffer for View() to reduce allocations
	messages []Message

	// Scrollable message viewport
	viewport viewport.Model

	// Help bar for keyboard shortcuts
	help help.Model
	keys keyMap

	// Stream management
	// Note: no sync.WaitGroup; Bubble Tea's event loop provides
	// synchronization. A single union channel with discriminated events
	// keeps the select logic simple.
	streamCancel  context.CancelFunc
	streamEventCh <-chan streamEvent
	toolStatus    string // current tool status (e.g. "Listing todos..."), empty when idle

	// Dependencies (direct, no interface)
	chatFlow  *chat.Flow
	agent     *chat.Agent
	ctx       context.Context
	ctxCancel context.CancelFunc // for canceling all operations on exit

	// Dimensions
	width  int
	height int

	// Styles
	styles Styles

	// Markdown rendering (nil = graceful degradation to plain text)
	markdown *markdownRenderer
}

// addMessage appends a message and enforces the maxMessages bound.
func (m *Model) addMessage(msg Message) {
	m.messages = append(m.messages, msg)
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}

// New creates a Model for chat interaction.
// Returns an error if required dependencies are nil.
//
// IMPORTANT: ctx MUST be the same context passed to tea.WithContext()
// to ensure consistent cancellation behavior.
func New(ctx context.Context, flow *chat.Flow, agent *chat.Agent) (*Model, error) {
	if flow == nil {
		return nil, errors.New("tui.New: flow is required")
	}
	if agent == nil {
		return nil, errors.New("tui.New: agent is required")
	}
	if ctx == nil {
		return nil, errors.New("tui.New: ctx is required")
	}

	// Cancellable context for cleanup on exit.
	ctx, cancel := context.WithCancel(ctx)

	// Textarea for multi-line input.
	// Enter submits, Shift+Enter adds a newline.
	ta := textarea.New()
	ta.Placeholder = "Ask about your todos..."
	ta.SetHeight(1)  // single line by default
	ta.SetWidth(120) // wide enough for long text, updated on WindowSizeMsg
	ta.MaxWidth = 0  // no max width limit
	ta.ShowLineNumbers = false

	// Minimal styling: no backgrounds, just text and a gray placeholder.
	cleanStyle := textarea.StyleState{
		Base:        lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:      lipgloss.NewStyle(),
	}
	ta.SetStyles(textarea.Styles{
		Focused: cleanStyle,
		Blurred: cleanStyle,
	})
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	// Viewport for scrollable message history.
	// Built-in keyboard handling is disabled; keys are routed explicitly
	// in handleKey to avoid conflicts with textarea/history navigation.
	vp := viewport.New(viewport.WithWidth(80), viewport.WithHeight(20))
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true
	vp.KeyMap = viewport.KeyMap{}

	h := help.New()

	return &Model{
		chatFlow:  flow,
		agent:     agent,
		ctx:       ctx,
		ctxCancel: cancel,
		input:     ta,
		spinner:   sp,
		viewport:  vp,
		help:      h,
		keys:      newKeyMap(),
		styles:    DefaultStyles(),
		history:   make([]string, 0, maxHistory),
		markdown:  newMarkdownRenderer(80),
		width:     80, // default width until WindowSizeMsg arrives
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.input.Focus(),
	)
}
