package workflow

import (
	"strings"

	"github.com/alkime/speakerid/internal/sample"
	"github.com/alkime/speakerid/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func renderKeyHelp(keyBinding key.Binding, suffix ...string) string {
	s := style.Help.Render("[") + style.Key.Render(keyBinding.Help().Key) +
		style.Help.Render("] ") +
		style.Help.Render(keyBinding.Help().Desc)

	s += strings.Join(suffix, "")

	return s
}

// renderDisabledKeyHelp renders a binding whose action is unavailable.
func renderDisabledKeyHelp(keyBinding key.Binding, suffix ...string) string {
	return style.Disabled.Render("["+keyBinding.Help().Key+"] "+keyBinding.Help().Desc) +
		strings.Join(suffix, "")
}

func renderGlobalKeyHelp() string {
	km := DefaultKeyMap()
	s := renderKeyHelp(km.Quit, " ")
	s += renderKeyHelp(km.ForceQuit, "\n")
	return s
}

// describeSample renders "name (type, size)" for a loaded sample.
func describeSample(s sample.Sample) string {
	return s.Name() + style.Muted.Render(" ("+s.ContentType()+", "+formatBytes(s.Len())+")")
}

// wrapText wraps the given text to fit within the specified width using lipgloss.
// This ensures long lines wrap properly instead of being truncated in the viewport.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	return lipgloss.NewStyle().Width(width).Render(text)
}

// loadSample reads an audio file off the event loop.
func loadSample(path string, done func(sample.Sample, error) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		s, err := sample.Load(expandHome(strings.TrimSpace(path)))
		return done(s, err)
	}
}
