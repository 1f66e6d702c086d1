// Package enrollment implements the enrollment-then-transcription workflow:
// choose a speaker count, collect a name and voice sample per speaker, enroll
// them with the backend, then transcribe conversations.
//
// The Controller is not safe for concurrent use. Callers serialize access,
// as the bubbletea event loop does. Backend calls are split into a Begin
// step that snapshots the request and a Finish step that applies the
// outcome, so the network round trip can run outside the event loop.
package enrollment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alkime/speakerid/internal/backend"
	"github.com/alkime/speakerid/internal/sample"
	"github.com/alkime/speakerid/pkg/uictl"
)

const (
	MinSpeakers     = 2
	MaxSpeakers     = 10
	DefaultSpeakers = 2
)

// Backend is the recognition service.
type Backend interface {
	Enroll(ctx context.Context, req backend.EnrollRequest) error
	Transcribe(ctx context.Context, req backend.TranscribeRequest) (string, error)
}

// Controller owns the workflow state, the roster, the pending recording, the
// last transcription and the error slot.
type Controller struct {
	state  state
	logger *slog.Logger

	recording     sample.Sample
	transcription string
	errMsg        string

	enrollInFlight     bool
	transcribeInFlight bool
}

// New creates a controller in the initial stage with the default count.
func New(logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		state:  initialState{count: DefaultSpeakers},
		logger: logger,
	}
}

// Stage returns the current workflow stage.
func (c *Controller) Stage() Stage { return c.state.stage() }

// SpeakerCount returns the chosen (or enrolled) number of speakers.
func (c *Controller) SpeakerCount() int { return c.state.speakerCount() }

// ErrorMessage returns the last failure message, or "".
func (c *Controller) ErrorMessage() string { return c.errMsg }

// Transcription returns the last successful transcription, or "".
func (c *Controller) Transcription() string { return c.transcription }

// Recording returns the pending conversation recording.
func (c *Controller) Recording() sample.Sample { return c.recording }

// EnrollmentInFlight reports whether an enroll request is pending.
func (c *Controller) EnrollmentInFlight() bool { return c.enrollInFlight }

// TranscriptionInFlight reports whether a transcribe request is pending.
func (c *Controller) TranscriptionInFlight() bool { return c.transcribeInFlight }

// Roster returns a copy of the roster; nil outside the enrolling stage.
func (c *Controller) Roster() Roster {
	st, ok := c.state.(enrollingState)
	if !ok {
		return nil
	}

	return st.roster.clone()
}

// SelectSpeakerCount sets how many speakers will be enrolled.
func (c *Controller) SelectSpeakerCount(n int) error {
	if _, ok := c.state.(initialState); !ok {
		return fmt.Errorf("select speaker count in %s: %w", c.Stage(), ErrWrongStage)
	}

	if n < MinSpeakers || n > MaxSpeakers {
		return fmt.Errorf("%d: %w", n, ErrSpeakerCount)
	}

	c.state = initialState{count: n}

	return nil
}

// StartEnrollment allocates an empty roster of the chosen size.
func (c *Controller) StartEnrollment() error {
	st, ok := c.state.(initialState)
	if !ok {
		return fmt.Errorf("start enrollment in %s: %w", c.Stage(), ErrWrongStage)
	}

	c.state = enrollingState{roster: newRoster(st.count)}
	c.logger.Debug("Enrollment started", "speakers", st.count)

	return nil
}

// SetSpeakerName replaces the name of entry i.
func (c *Controller) SetSpeakerName(i int, name string) error {
	return c.updateSpeaker(i, func(e *Entry) { e.Name = name })
}

// SetSpeakerSample replaces the voice sample of entry i.
func (c *Controller) SetSpeakerSample(i int, s sample.Sample) error {
	return c.updateSpeaker(i, func(e *Entry) { e.Sample = s })
}

// updateSpeaker applies one field edit to one entry. The roster is copied,
// so rosters handed out earlier never observe the edit.
func (c *Controller) updateSpeaker(i int, edit func(*Entry)) error {
	st, ok := c.state.(enrollingState)
	if !ok {
		return fmt.Errorf("update speaker in %s: %w", c.Stage(), ErrWrongStage)
	}

	if i < 0 || i >= len(st.roster) {
		return fmt.Errorf("speaker %d of %d: %w", i, len(st.roster), ErrIndex)
	}

	roster := st.roster.clone()
	edit(&roster[i])
	c.state = enrollingState{roster: roster}

	return nil
}

// Progress returns the percentage of complete entries. It is 0 before
// enrollment starts and 100 once it has succeeded.
func (c *Controller) Progress() float64 {
	done, total := c.completed()
	if total == 0 {
		return 0
	}

	return float64(done) / float64(total) * 100
}

// ProgressDial exposes completed/total entries to views.
func (c *Controller) ProgressDial() uictl.CappedDial[int] {
	return uictl.DialFunc[int]{
		Num: func() int {
			done, _ := c.completed()
			return done
		},
		Max: func() int {
			_, total := c.completed()
			return total
		},
	}
}

func (c *Controller) completed() (int, int) {
	switch st := c.state.(type) {
	case enrollingState:
		return st.roster.Completed(), len(st.roster)
	case completeState:
		return st.count, st.count
	default:
		return 0, st.speakerCount()
	}
}

// BeginEnrollment validates the roster and marks enrollment in flight. The
// returned request lists speakers in roster order. A *ValidationError means
// nothing should be sent.
func (c *Controller) BeginEnrollment() (backend.EnrollRequest, error) {
	st, ok := c.state.(enrollingState)
	if !ok {
		return backend.EnrollRequest{}, fmt.Errorf("submit enrollment in %s: %w", c.Stage(), ErrWrongStage)
	}

	if c.enrollInFlight {
		return backend.EnrollRequest{}, ErrInFlight
	}

	if !st.roster.Complete() {
		err := &ValidationError{Message: MsgIncompleteRoster}
		c.errMsg = err.Message

		return backend.EnrollRequest{}, err
	}

	c.errMsg = ""
	c.enrollInFlight = true

	return backend.EnrollRequest{
		NumSpeakers: len(st.roster),
		Speakers:    st.roster.speakers(),
	}, nil
}

// FinishEnrollment applies the backend outcome of BeginEnrollment. Success
// moves the workflow to complete; failure only sets the error message.
func (c *Controller) FinishEnrollment(err error) {
	c.enrollInFlight = false

	st, ok := c.state.(enrollingState)
	if !ok {
		c.logger.Warn("Enrollment result outside enrolling stage", "stage", c.Stage())
		return
	}

	if err != nil {
		c.errMsg = userMessage(err, MsgEnrollFailed)
		c.logger.Error("Enrollment failed", "error", err)

		return
	}

	c.state = completeState{count: len(st.roster)}
	c.logger.Info("Speakers enrolled", "speakers", len(st.roster))
}

// SubmitEnrollment runs BeginEnrollment, the backend call and
// FinishEnrollment in one blocking step.
func (c *Controller) SubmitEnrollment(ctx context.Context, b Backend) error {
	req, err := c.BeginEnrollment()
	if err != nil {
		return err
	}

	err = b.Enroll(ctx, req)
	c.FinishEnrollment(err)

	return err
}

// SetTranscriptionSample stores the recording for the next transcription.
// It is accepted in any stage.
func (c *Controller) SetTranscriptionSample(s sample.Sample) {
	c.recording = s
}

// BeginTranscription checks that enrollment is complete and a recording is
// set, then marks transcription in flight.
func (c *Controller) BeginTranscription() (backend.TranscribeRequest, error) {
	if c.Stage() != StageComplete {
		return backend.TranscribeRequest{}, fmt.Errorf("submit transcription in %s: %w", c.Stage(), ErrWrongStage)
	}

	if c.transcribeInFlight {
		return backend.TranscribeRequest{}, ErrInFlight
	}

	if c.recording.IsEmpty() {
		err := &ValidationError{Message: MsgNoRecording}
		c.errMsg = err.Message

		return backend.TranscribeRequest{}, err
	}

	c.errMsg = ""
	c.transcribeInFlight = true

	return backend.TranscribeRequest{Recording: c.recording}, nil
}

// FinishTranscription applies the backend outcome of BeginTranscription.
// The stage never changes; a failure keeps the previous transcription.
func (c *Controller) FinishTranscription(text string, err error) {
	c.transcribeInFlight = false

	if err != nil {
		c.errMsg = userMessage(err, MsgTranscribeFailed)
		c.logger.Error("Transcription failed", "error", err)

		return
	}

	c.transcription = text
	c.logger.Info("Transcription received", "chars", len(text))
}

// SubmitTranscription runs BeginTranscription, the backend call and
// FinishTranscription in one blocking step.
func (c *Controller) SubmitTranscription(ctx context.Context, b Backend) (string, error) {
	req, err := c.BeginTranscription()
	if err != nil {
		return "", err
	}

	text, err := b.Transcribe(ctx, req)
	c.FinishTranscription(text, err)

	if err != nil {
		return "", err
	}

	return text, nil
}
