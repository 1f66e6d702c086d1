package workflow

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alkime/speakerid/internal/backend"
	"github.com/alkime/speakerid/internal/enrollment"
	"github.com/alkime/speakerid/internal/sample/sampletest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// outputChecker provides helpers for testing teatest output.
type outputChecker struct {
	intervl, timeout time.Duration
}

func defaultChecker() outputChecker {
	return outputChecker{
		intervl: 100 * time.Millisecond,
		timeout: 3 * time.Second,
	}
}

func (o outputChecker) check(t *testing.T, tm *teatest.TestModel, checkFunc func(buf []byte) bool) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), checkFunc,
		teatest.WithCheckInterval(o.intervl),
		teatest.WithDuration(o.timeout))
}

// checkStrings waits until one read of the output holds every substring.
// Each call consumes what it reads, so check a frame once and only after
// the message that produces it.
func (o outputChecker) checkStrings(t *testing.T, tm *teatest.TestModel, substrs ...string) {
	t.Helper()
	o.check(t, tm, func(buf []byte) bool {
		for _, substr := range substrs {
			if !bytes.Contains(buf, []byte(substr)) {
				return false
			}
		}

		return true
	})
}

// fakeBackend implements Backend for testing. Commands run off the test
// goroutine, so access is locked.
type fakeBackend struct {
	mu sync.Mutex

	enrollErr     error
	transcribeErr error
	transcription string

	enrollCalls     []backend.EnrollRequest
	transcribeCalls []backend.TranscribeRequest
}

func (f *fakeBackend) Enroll(_ context.Context, req backend.EnrollRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.enrollCalls = append(f.enrollCalls, req)

	return f.enrollErr
}

func (f *fakeBackend) Transcribe(_ context.Context, req backend.TranscribeRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.transcribeCalls = append(f.transcribeCalls, req)
	if f.transcribeErr != nil {
		return "", f.transcribeErr
	}

	return f.transcription, nil
}

func (f *fakeBackend) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.enrollCalls), len(f.transcribeCalls)
}

func newController() *enrollment.Controller {
	return enrollment.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func enrollingController(t *testing.T, n int) *enrollment.Controller {
	t.Helper()

	ctl := newController()
	require.NoError(t, ctl.SelectSpeakerCount(n))
	require.NoError(t, ctl.StartEnrollment())

	return ctl
}

func completedController(t *testing.T) *enrollment.Controller {
	t.Helper()

	ctl := enrollingController(t, 2)
	for i, name := range []string{"Alice", "Bob"} {
		require.NoError(t, ctl.SetSpeakerName(i, name))
		require.NoError(t, ctl.SetSpeakerSample(i, sampletest.Sample(name)))
	}

	require.NoError(t, ctl.SubmitEnrollment(context.Background(), &fakeBackend{}))
	require.Equal(t, enrollment.StageComplete, ctl.Stage())

	return ctl
}

// runes builds the key message produced by typing s.
func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and flattens any batch into the messages it produced.
// Only use it on commands that do not sleep (no cursor blink).
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}

	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}

	return out
}

// findMsg returns the first message of type T.
func findMsg[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()

	for _, msg := range msgs {
		if found, ok := msg.(T); ok {
			return found
		}
	}

	var zero T
	require.Failf(t, "message not found", "want %T in %v", zero, msgs)

	return zero
}
