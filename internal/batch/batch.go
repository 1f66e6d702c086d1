// Package batch drives the enrollment workflow without a terminal UI: load
// every sample, enroll, transcribe one conversation.
package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/alkime/speakerid/internal/enrollment"
	"github.com/alkime/speakerid/internal/rosterfile"
	"github.com/alkime/speakerid/internal/sample"
)

// ErrNoConversation is returned when a plan names no recording.
var ErrNoConversation = errors.New("no conversation recording given")

// Plan lists the speakers to enroll and the recording to transcribe.
type Plan struct {
	Speakers     []rosterfile.Speaker
	Conversation string
}

// PlanFromFlags builds a plan from NAME=PATH values.
func PlanFromFlags(speakers []string, conversation string) (Plan, error) {
	plan := Plan{Conversation: conversation}

	for _, s := range speakers {
		sp, err := rosterfile.ParseSpeaker(s)
		if err != nil {
			return Plan{}, err
		}

		plan.Speakers = append(plan.Speakers, sp)
	}

	return plan, plan.validate()
}

// PlanFromRoster builds a plan from a roster file. A non-empty conversation
// replaces the one in the file.
func PlanFromRoster(path, conversation string) (Plan, error) {
	f, err := rosterfile.Load(path)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{Speakers: f.Speakers, Conversation: f.Conversation}
	if conversation != "" {
		plan.Conversation = conversation
	}

	return plan, plan.validate()
}

func (p Plan) validate() error {
	if len(p.Speakers) == 0 {
		return rosterfile.ErrNoSpeakers
	}

	if p.Conversation == "" {
		return ErrNoConversation
	}

	return nil
}

// Run walks ctl through the whole workflow and returns the transcription.
// Backend failures carry the controller's user-facing message.
func Run(ctx context.Context, ctl *enrollment.Controller, b enrollment.Backend, plan Plan) (string, error) {
	if err := ctl.SelectSpeakerCount(len(plan.Speakers)); err != nil {
		return "", fmt.Errorf("failed to select speakers: %w", err)
	}

	if err := ctl.StartEnrollment(); err != nil {
		return "", fmt.Errorf("failed to start enrollment: %w", err)
	}

	for i, sp := range plan.Speakers {
		s, err := sample.Load(sp.Sample)
		if err != nil {
			return "", fmt.Errorf("speaker %s: %w", sp.Name, err)
		}

		if err := ctl.SetSpeakerName(i, sp.Name); err != nil {
			return "", err
		}

		if err := ctl.SetSpeakerSample(i, s); err != nil {
			return "", err
		}
	}

	if err := ctl.SubmitEnrollment(ctx, b); err != nil {
		return "", fmt.Errorf("enrollment: %s: %w", ctl.ErrorMessage(), err)
	}

	rec, err := sample.Load(plan.Conversation)
	if err != nil {
		return "", fmt.Errorf("conversation: %w", err)
	}

	ctl.SetTranscriptionSample(rec)

	text, err := ctl.SubmitTranscription(ctx, b)
	if err != nil {
		return "", fmt.Errorf("transcription: %s: %w", ctl.ErrorMessage(), err)
	}

	return text, nil
}
