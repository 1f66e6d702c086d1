package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/alkime/speakerid/internal/backend"
	"github.com/alkime/speakerid/internal/enrollment"
	"github.com/alkime/speakerid/internal/sample"
	"github.com/alkime/speakerid/internal/tui/components/labeledspinner"
	"github.com/alkime/speakerid/internal/tui/components/phases"
	"github.com/alkime/speakerid/internal/tui/style"
	"github.com/alkime/speakerid/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type enrollKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Load   key.Binding
	Submit key.Binding
}

func defaultEnrollKeyMap() enrollKeyMap {
	return enrollKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load sample"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "complete enrollment"),
		),
	}
}

// Each speaker card has two inputs; focus walks them in order.
const (
	fieldName = iota
	fieldSample
	fieldsPerSpeaker
)

type speakerCard struct {
	name    textinput.Model
	path    textinput.Model
	loadErr string
}

type sampleLoadedMsg struct {
	index  int
	sample sample.Sample
	err    error
}

type enrollDoneMsg struct {
	err error
}

type enrollPhase struct {
	ctx      context.Context
	ctl      *enrollment.Controller
	backend  Backend
	keys     enrollKeyMap
	cards    []speakerCard
	focus    int
	progress progress.Model
	dial     uictl.CappedDial[int]
	busy     uictl.Lamp
	spinner  labeledspinner.Model
}

// NewEnrollPhase creates the phase collecting a name and voice sample per
// speaker. The cards are built in Init, once the roster exists.
func NewEnrollPhase(ctx context.Context, ctl *enrollment.Controller, b Backend) tea.Model {
	return &enrollPhase{
		ctx:     ctx,
		ctl:     ctl,
		backend: b,
		keys:    defaultEnrollKeyMap(),
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
		dial: ctl.ProgressDial(),
		busy: uictl.LampFunc(ctl.EnrollmentInFlight),
		spinner: labeledspinner.New(
			spinner.Dot,
			"Enrolling speakers...",
			"",
			"",
		),
	}
}

func (ep *enrollPhase) Init() tea.Cmd {
	roster := ep.ctl.Roster()
	ep.cards = make([]speakerCard, len(roster))

	for i, entry := range roster {
		name := textinput.New()
		name.Placeholder = "Enter speaker's name"
		name.Prompt = ""
		name.SetValue(entry.Name)

		path := textinput.New()
		path.Placeholder = "path/to/voice-sample.wav"
		path.Prompt = ""

		ep.cards[i] = speakerCard{name: name, path: path}
	}

	ep.focus = 0

	return ep.refocus()
}

func (ep *enrollPhase) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.KeyMsg:
		return ep.handleKeyMsg(msg)

	case sampleLoadedMsg:
		card := &ep.cards[msg.index]
		if msg.err != nil {
			card.loadErr = msg.err.Error()
			return ep, nil
		}

		card.loadErr = ""
		if err := ep.ctl.SetSpeakerSample(msg.index, msg.sample); err != nil {
			card.loadErr = err.Error()
		}

		return ep, nil

	case enrollDoneMsg:
		ep.ctl.FinishEnrollment(msg.err)
		if ep.ctl.Stage() == enrollment.StageComplete {
			return ep, phases.NextPhaseCmd
		}

		return ep, nil

	case spinner.TickMsg:
		if !ep.busy.Lit() {
			return ep, nil
		}

		var cmd tea.Cmd
		ep.spinner, cmd = ep.spinner.Update(msg)

		return ep, cmd
	}

	return ep.updateFocused(teaMsg)
}

func (ep *enrollPhase) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := len(ep.cards) * fieldsPerSpeaker
	if total == 0 {
		return ep, nil
	}

	switch {
	case key.Matches(msg, ep.keys.Submit):
		return ep, ep.submit()

	case key.Matches(msg, ep.keys.Next):
		ep.focus = (ep.focus + 1) % total
		return ep, ep.refocus()

	case key.Matches(msg, ep.keys.Prev):
		ep.focus = (ep.focus - 1 + total) % total
		return ep, ep.refocus()

	case key.Matches(msg, ep.keys.Load):
		index, field := ep.focused()
		if field == fieldName {
			ep.focus = (ep.focus + 1) % total
			return ep, ep.refocus()
		}

		path := ep.cards[index].path.Value()
		if strings.TrimSpace(path) == "" {
			return ep, nil
		}

		return ep, loadSample(path, func(s sample.Sample, err error) tea.Msg {
			return sampleLoadedMsg{index: index, sample: s, err: err}
		})
	}

	return ep.updateFocused(msg)
}

// updateFocused forwards a message to the focused input and mirrors name
// edits into the roster.
func (ep *enrollPhase) updateFocused(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	if len(ep.cards) == 0 {
		return ep, nil
	}

	var cmd tea.Cmd

	index, field := ep.focused()
	card := &ep.cards[index]

	if field == fieldSample {
		card.path, cmd = card.path.Update(teaMsg)
		return ep, cmd
	}

	before := card.name.Value()
	card.name, cmd = card.name.Update(teaMsg)

	if after := card.name.Value(); after != before {
		if err := ep.ctl.SetSpeakerName(index, after); err != nil {
			card.loadErr = err.Error()
		}
	}

	return ep, cmd
}

// submit starts the enroll request. It does nothing while a request is
// pending or any speaker still lacks a name or sample.
func (ep *enrollPhase) submit() tea.Cmd {
	if ep.busy.Lit() || !ep.ready() {
		return nil
	}

	req, err := ep.ctl.BeginEnrollment()
	if err != nil {
		return nil
	}

	return tea.Batch(ep.spinner.Init(), ep.enrollCmd(req))
}

func (ep *enrollPhase) enrollCmd(req backend.EnrollRequest) tea.Cmd {
	return func() tea.Msg {
		return enrollDoneMsg{err: ep.backend.Enroll(ep.ctx, req)}
	}
}

func (ep *enrollPhase) ready() bool {
	done, total := ep.dial.Cap()
	return total > 0 && done == total
}

func (ep *enrollPhase) focused() (int, int) {
	return ep.focus / fieldsPerSpeaker, ep.focus % fieldsPerSpeaker
}

func (ep *enrollPhase) refocus() tea.Cmd {
	var cmd tea.Cmd

	for i := range ep.cards {
		ep.cards[i].name.Blur()
		ep.cards[i].path.Blur()
	}

	if len(ep.cards) == 0 {
		return nil
	}

	index, field := ep.focused()
	if field == fieldName {
		cmd = ep.cards[index].name.Focus()
	} else {
		cmd = ep.cards[index].path.Focus()
	}

	return tea.Batch(cmd, textinput.Blink)
}

func (ep *enrollPhase) View() string {
	var sb strings.Builder

	sb.WriteString(style.Subtitle.Render("Complete the enrollment process for each speaker"))
	sb.WriteString("\n\n")

	done, total := ep.dial.Cap()
	sb.WriteString(style.Label.Render("Enrollment Progress "))
	sb.WriteString(style.Muted.Render(fmt.Sprintf("%d of %d Complete", done, total)))
	sb.WriteString("\n")
	sb.WriteString(ep.progress.ViewAs(uictl.Ratio(ep.dial)))
	sb.WriteString("\n\n")

	roster := ep.ctl.Roster()
	focusedIndex, _ := ep.focused()

	for i, card := range ep.cards {
		var entry enrollment.Entry
		if i < len(roster) {
			entry = roster[i]
		}

		sb.WriteString(renderCard(i, card, entry, i == focusedIndex))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")

	if ep.busy.Lit() {
		sb.WriteString(ep.spinner.Inline())
		sb.WriteString("\n")
	} else {
		sb.WriteString(renderKeyHelp(ep.keys.Next, " "))
		sb.WriteString(renderKeyHelp(ep.keys.Prev, " "))
		sb.WriteString(renderKeyHelp(ep.keys.Load, "\n"))

		if ep.ready() {
			sb.WriteString(renderKeyHelp(ep.keys.Submit, "\n"))
		} else {
			sb.WriteString(renderDisabledKeyHelp(ep.keys.Submit, "\n"))
		}
	}

	sb.WriteString(renderGlobalKeyHelp())

	return sb.String()
}

func renderCard(index int, card speakerCard, entry enrollment.Entry, focused bool) string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render(fmt.Sprintf("Speaker %d", index+1)))
	if entry.Complete() {
		sb.WriteString(" ")
		sb.WriteString(style.Success.Render("✓"))
	}
	sb.WriteString("\n")

	sb.WriteString(style.Label.Render("Name: "))
	sb.WriteString(card.name.View())
	sb.WriteString("\n")

	sb.WriteString(style.Label.Render("Voice Sample: "))
	sb.WriteString(card.path.View())

	if !entry.Sample.IsEmpty() {
		sb.WriteString("\n")
		sb.WriteString(style.Muted.Render("Selected: "))
		sb.WriteString(describeSample(entry.Sample))
	}

	if card.loadErr != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Error.Render(card.loadErr))
	}

	frame := style.Card
	switch {
	case focused:
		frame = style.CardFocused
	case entry.Complete():
		frame = style.CardComplete
	}

	return frame.Render(sb.String())
}
