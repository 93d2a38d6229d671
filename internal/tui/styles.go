package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Emerald green for the todo branding
const brandGreen = "#2ECC71"

// TODO ASCII art (filled block style)
var todoArt = []string{
	"    ████████╗ ██████╗ ██████╗  ██████╗ ",
	"    ╚══██╔══╝██╔═══██╗██╔══██╗██╔═══██╗",
	"       ██║   ██║   ██║██║  ██║██║   ██║",
	"       ██║   ██║   ██║██║  ██║██║   ██║",
	"       ██║   ╚██████╔╝██████╔╝╚██████╔╝",
	"       ╚═╝    ╚═════╝ ╚═════╝  ╚═════╝ ",
}

// Checkmark ASCII art paired with the banner
var checkArt = []string{
	"      ██╗",
	"     ██╔╝",
	"█╗  ██╔╝ ",
	"██╗██╔╝  ",
	"╚███╔╝   ",
	" ╚══╝    ",
}

// Styles contains all lipgloss styles for the TUI.
type Styles struct {
	Banner    lipgloss.Style
	Header    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Tips      lipgloss.Style // white for visibility
	Error     lipgloss.Style
	Prompt    lipgloss.Style
	Separator lipgloss.Style // horizontal line separator
	StatusBar lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(brandGreen)),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(brandGreen)),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		System:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
		Tips:      lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}

// RenderBanner returns the TODO ASCII art banner as a styled string.
func (s Styles) RenderBanner() string {
	var b strings.Builder
	for i := range todoArt {
		check := s.Banner.Render(checkArt[i])
		text := s.Banner.Render(todoArt[i])
		_, _ = b.WriteString(check)
		_, _ = b.WriteString(text)
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

// welcomeTips contains the greeting and getting-started tips displayed
// under the banner.
var welcomeTips = []string{
	"Hello! I'm your Todo Assistant. I can help you manage your todo list",
	"through natural language.",
	"",
	"Tips for getting started:",
	"  • Mention a task and it becomes a todo - try \"call mom tomorrow\"",
	"  • Ask for your list, your stats, or what to work on next",
	"  • Use /help to see available commands",
	"  • Press Ctrl+C to cancel, Ctrl+D to exit",
}

// RenderWelcomeTips returns the styled greeting block.
func (s Styles) RenderWelcomeTips() string {
	var b strings.Builder
	for _, tip := range welcomeTips {
		_, _ = b.WriteString(s.Tips.Render(tip))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}
