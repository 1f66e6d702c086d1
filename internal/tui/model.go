// Package tui wires the workflow phases into the root bubbletea model.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/alkime/speakerid/internal/enrollment"
	"github.com/alkime/speakerid/internal/tui/components/phases"
	"github.com/alkime/speakerid/internal/tui/style"
	"github.com/alkime/speakerid/internal/tui/workflow"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Config holds the root model's settings.
type Config struct {
	// Context bounds backend requests made by the phases.
	Context context.Context
	// Cancel is called when the user quits, aborting any pending request.
	Cancel context.CancelFunc
}

type model struct {
	config Config
	keys   workflow.KeyMap
	ctl    *enrollment.Controller
	phases phases.Model
}

// New creates the root model: speaker count, then enrollment, then
// transcription.
func New(config Config, ctl *enrollment.Controller, b workflow.Backend) tea.Model {
	ctx := config.Context
	if ctx == nil {
		ctx = context.Background()
	}

	return &model{
		config: config,
		keys:   workflow.DefaultKeyMap(),
		ctl:    ctl,
		phases: phases.New([]phases.Phase{
			phases.NewPhase("Speakers", workflow.NewSpeakersPhase(ctl)),
			phases.NewPhase("Enrollment", workflow.NewEnrollPhase(ctx, ctl, b)),
			phases.NewPhase("Transcription", workflow.NewTranscribePhase(ctx, ctl, b)),
		}),
	}
}

func (m *model) Init() tea.Cmd {
	return m.phases.Init()
}

func (m *model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := teaMsg.(tea.KeyMsg); ok {
		if key.Matches(km, m.keys.Quit, m.keys.ForceQuit) {
			if m.config.Cancel != nil {
				m.config.Cancel()
			}

			return m, tea.Quit
		}
	}

	updatedPhases, cmd := m.phases.Update(teaMsg)
	m.phases = updatedPhases.(phases.Model) //nolint:forcetypeassert // phases.Model always returns phases.Model

	return m, cmd
}

func (m *model) View() string {
	var sb strings.Builder

	sb.WriteString(style.Heading.Render("Speaker Recognition System"))
	sb.WriteString("\n\n")

	if msg := m.ctl.ErrorMessage(); msg != "" {
		sb.WriteString(style.Alert.Render(msg))
		sb.WriteString("\n\n")
	}

	step, total := m.phases.Step()
	sb.WriteString(style.Subtitle.Render(
		fmt.Sprintf("Phase: %s (%d/%d)", m.phases.CurrentPhaseName(), step, total),
	))
	sb.WriteString("\n\n")

	sb.WriteString(m.phases.View())

	return sb.String()
}
