// Package labeledspinner renders a spinner next to a title, for work the
// user is waiting on.
package labeledspinner

import (
	"strings"

	"github.com/alkime/speakerid/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model displays a spinner with title, subtitle, and help text.
type Model struct {
	Spinner  spinner.Model
	Title    string
	Subtitle string
	Help     string
}

// New creates a new labeled spinner with the given configuration.
func New(s spinner.Spinner, title, subtitle, help string) Model {
	sp := spinner.New()
	sp.Spinner = s

	return Model{
		Spinner:  sp,
		Title:    title,
		Subtitle: subtitle,
		Help:     help,
	}
}

// Init returns the initial command for the spinner.
func (ls Model) Init() tea.Cmd {
	return ls.Spinner.Tick
}

// Update handles spinner tick messages. Ticks addressed to other spinners
// are ignored.
func (ls Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	if tickMsg, ok := teaMsg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		ls.Spinner, cmd = ls.Spinner.Update(tickMsg)

		return ls, cmd
	}

	return ls, nil
}

// View renders the labeled spinner with static help text.
func (ls Model) View() string {
	var sb strings.Builder

	sb.WriteString(ls.Inline())
	sb.WriteString("\n\n")

	if ls.Subtitle != "" {
		sb.WriteString(style.Subtitle.Render(ls.Subtitle))
		sb.WriteString("\n\n")
	}

	if ls.Help != "" {
		sb.WriteString(style.Help.Render(ls.Help))
	}

	return sb.String()
}

// Inline renders just the spinner and title on one line, for use in place
// of a disabled action.
func (ls Model) Inline() string {
	return ls.Spinner.View() + " " + style.Title.Render(ls.Title)
}
