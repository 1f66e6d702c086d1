package workflow

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alkime/speakerid/internal/enrollment"
	"github.com/alkime/speakerid/internal/tui/components/phases"
	"github.com/alkime/speakerid/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type speakersKeyMap struct {
	Fewer key.Binding
	More  key.Binding
	Start key.Binding
}

func defaultSpeakersKeyMap() speakersKeyMap {
	return speakersKeyMap{
		Fewer: key.NewBinding(
			key.WithKeys("left", "down", "-"),
			key.WithHelp("←/-", "fewer"),
		),
		More: key.NewBinding(
			key.WithKeys("right", "up", "+", "="),
			key.WithHelp("→/+", "more"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start enrollment process"),
		),
	}
}

// speakersPhase chooses how many speakers to enroll.
type speakersPhase struct {
	ctl  *enrollment.Controller
	keys speakersKeyMap
}

// NewSpeakersPhase creates the speaker-count phase.
func NewSpeakersPhase(ctl *enrollment.Controller) tea.Model {
	return &speakersPhase{
		ctl:  ctl,
		keys: defaultSpeakersKeyMap(),
	}
}

func (sp *speakersPhase) Init() tea.Cmd {
	return nil
}

func (sp *speakersPhase) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := teaMsg.(tea.KeyMsg)
	if !ok {
		return sp, nil
	}

	switch {
	case key.Matches(keyMsg, sp.keys.Fewer):
		sp.selectCount(sp.ctl.SpeakerCount() - 1)
	case key.Matches(keyMsg, sp.keys.More):
		sp.selectCount(sp.ctl.SpeakerCount() + 1)
	case key.Matches(keyMsg, sp.keys.Start):
		if err := sp.ctl.StartEnrollment(); err != nil {
			slog.Error("Failed to start enrollment", "error", err)
			return sp, nil
		}

		return sp, phases.NextPhaseCmd
	}

	return sp, nil
}

// selectCount ignores counts outside the allowed range, so the picker stops
// at either end.
func (sp *speakersPhase) selectCount(n int) {
	if err := sp.ctl.SelectSpeakerCount(n); err != nil {
		slog.Debug("Speaker count rejected", "count", n, "error", err)
	}
}

func (sp *speakersPhase) View() string {
	var sb strings.Builder

	sb.WriteString(style.Subtitle.Render("Start by selecting the number of speakers to enroll"))
	sb.WriteString("\n\n")

	n := sp.ctl.SpeakerCount()

	sb.WriteString(style.Label.Render("Number of Speakers: "))
	sb.WriteString(arrow("‹", n > enrollment.MinSpeakers))
	sb.WriteString(style.Title.Render(fmt.Sprintf(" %d Speakers ", n)))
	sb.WriteString(arrow("›", n < enrollment.MaxSpeakers))
	sb.WriteString("\n\n")

	sb.WriteString(renderKeyHelp(sp.keys.Fewer, " "))
	sb.WriteString(renderKeyHelp(sp.keys.More, " "))
	sb.WriteString(renderKeyHelp(sp.keys.Start, "\n"))
	sb.WriteString(renderGlobalKeyHelp())

	return sb.String()
}

func arrow(glyph string, enabled bool) string {
	if enabled {
		return style.Key.Render(glyph)
	}

	return style.Muted.Render(" ")
}
