package workflow

import (
	"context"
	"strings"

	"github.com/alkime/speakerid/internal/backend"
	"github.com/alkime/speakerid/internal/enrollment"
	"github.com/alkime/speakerid/internal/sample"
	"github.com/alkime/speakerid/internal/tui/components/labeledspinner"
	"github.com/alkime/speakerid/internal/tui/style"
	"github.com/alkime/speakerid/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type transcribeKeyMap struct {
	Transcribe key.Binding
	Scroll     key.Binding
}

func defaultTranscribeKeyMap() transcribeKeyMap {
	return transcribeKeyMap{
		Transcribe: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "transcribe recording"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("pgup", "pgdown"),
			key.WithHelp("pgup/pgdn", "scroll result"),
		),
	}
}

type recordingLoadedMsg struct {
	sample sample.Sample
	err    error
}

type transcribeDoneMsg struct {
	text string
	err  error
}

type transcribePhase struct {
	ctx      context.Context
	ctl      *enrollment.Controller
	backend  Backend
	keys     transcribeKeyMap
	path     textinput.Model
	viewport viewport.Model
	busy     uictl.Lamp
	spinner  labeledspinner.Model
	loadErr  string
}

// NewTranscribePhase creates the phase that sends conversation recordings
// to the backend. It may be used repeatedly; each result replaces the last.
func NewTranscribePhase(ctx context.Context, ctl *enrollment.Controller, b Backend) tea.Model {
	path := textinput.New()
	path.Placeholder = "path/to/conversation.wav"
	path.Prompt = ""

	vp := viewport.New(76, 10)
	// Arrow and letter keys belong to the text input.
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	return &transcribePhase{
		ctx:      ctx,
		ctl:      ctl,
		backend:  b,
		keys:     defaultTranscribeKeyMap(),
		path:     path,
		viewport: vp,
		busy:     uictl.LampFunc(ctl.TranscriptionInFlight),
		spinner: labeledspinner.New(
			spinner.Dot,
			"Transcribing...",
			"",
			"",
		),
	}
}

func (tp *transcribePhase) Init() tea.Cmd {
	return tea.Batch(tp.path.Focus(), textinput.Blink, tea.WindowSize())
}

func (tp *transcribePhase) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		tp.resize(msg.Width, msg.Height)
		return tp, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tp.keys.Transcribe):
			return tp, tp.transcribe()
		case key.Matches(msg, tp.keys.Scroll):
			var cmd tea.Cmd
			tp.viewport, cmd = tp.viewport.Update(msg)

			return tp, cmd
		}

	case recordingLoadedMsg:
		if msg.err != nil {
			tp.loadErr = msg.err.Error()
			return tp, nil
		}

		tp.loadErr = ""
		tp.ctl.SetTranscriptionSample(msg.sample)

		return tp, tp.submit()

	case transcribeDoneMsg:
		tp.ctl.FinishTranscription(msg.text, msg.err)
		tp.viewport.SetContent(wrapText(tp.ctl.Transcription(), tp.viewport.Width))
		tp.viewport.GotoTop()

		return tp, nil

	case spinner.TickMsg:
		if !tp.busy.Lit() {
			return tp, nil
		}

		var cmd tea.Cmd
		tp.spinner, cmd = tp.spinner.Update(msg)

		return tp, cmd
	}

	var cmd tea.Cmd
	tp.path, cmd = tp.path.Update(teaMsg)

	return tp, cmd
}

// transcribe loads the typed path, or resubmits the current recording when
// the input is blank.
func (tp *transcribePhase) transcribe() tea.Cmd {
	if tp.busy.Lit() {
		return nil
	}

	path := tp.path.Value()
	if strings.TrimSpace(path) == "" {
		return tp.submit()
	}

	return loadSample(path, func(s sample.Sample, err error) tea.Msg {
		return recordingLoadedMsg{sample: s, err: err}
	})
}

func (tp *transcribePhase) submit() tea.Cmd {
	req, err := tp.ctl.BeginTranscription()
	if err != nil {
		return nil
	}

	return tea.Batch(tp.spinner.Init(), tp.transcribeCmd(req))
}

func (tp *transcribePhase) transcribeCmd(req backend.TranscribeRequest) tea.Cmd {
	return func() tea.Msg {
		text, err := tp.backend.Transcribe(tp.ctx, req)
		return transcribeDoneMsg{text: text, err: err}
	}
}

func (tp *transcribePhase) resize(width, height int) {
	// heading, notice, input, help and borders
	const chrome = 16

	w := max(width-4, 10)
	h := max(height-chrome, 5)

	tp.viewport.Width = w
	tp.viewport.Height = h
	tp.viewport.SetContent(wrapText(tp.ctl.Transcription(), w))
}

func (tp *transcribePhase) View() string {
	var sb strings.Builder

	sb.WriteString(style.Success.Render("All speakers enrolled successfully! You can now proceed to transcription."))
	sb.WriteString("\n\n")

	sb.WriteString(style.Label.Render("Conversation Recording: "))
	sb.WriteString(tp.path.View())
	sb.WriteString("\n")

	if rec := tp.ctl.Recording(); !rec.IsEmpty() {
		sb.WriteString(style.Muted.Render("Selected: "))
		sb.WriteString(describeSample(rec))
		sb.WriteString("\n")
	}

	if tp.loadErr != "" {
		sb.WriteString(style.Error.Render(tp.loadErr))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")

	if tp.busy.Lit() {
		sb.WriteString(tp.spinner.Inline())
		sb.WriteString("\n")
	} else {
		sb.WriteString(renderKeyHelp(tp.keys.Transcribe, " "))
		sb.WriteString(renderKeyHelp(tp.keys.Scroll, "\n"))
	}

	sb.WriteString(renderGlobalKeyHelp())

	if tp.ctl.Transcription() != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Title.Render("Transcription Result:"))
		sb.WriteString("\n")
		sb.WriteString(style.Viewport.Render(tp.viewport.View()))
	}

	return sb.String()
}
