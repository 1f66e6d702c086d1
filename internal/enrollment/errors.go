package enrollment

import (
	"errors"
	"fmt"

	"github.com/alkime/speakerid/internal/backend"
)

var (
	// ErrWrongStage is returned when an operation is not legal in the
	// current stage.
	ErrWrongStage = errors.New("operation not allowed in current stage")
	// ErrInFlight is returned when a submission of the same kind is pending.
	ErrInFlight = errors.New("submission already in flight")
	// ErrSpeakerCount is returned for a speaker count outside the range.
	ErrSpeakerCount = fmt.Errorf("speaker count must be between %d and %d", MinSpeakers, MaxSpeakers)
	// ErrIndex is returned for a roster index out of range.
	ErrIndex = errors.New("speaker index out of range")
)

// User-facing messages.
const (
	MsgIncompleteRoster = "Please complete all speaker information"
	MsgNoRecording      = "Please select a recording to transcribe"
	MsgEnrollFailed     = "Failed to enroll speakers"
	MsgTranscribeFailed = "Failed to transcribe audio"
	MsgNetwork          = "Network error occurred"
)

// ValidationError is a client-side rejection; no request was sent.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// userMessage maps a submission failure to the single line shown to the user.
func userMessage(err error, fallback string) string {
	var (
		validation *ValidationError
		rejected   *backend.BackendError
	)

	switch {
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &rejected):
		if rejected.Reason != "" {
			return rejected.Reason
		}

		return fallback
	default:
		return MsgNetwork
	}
}
