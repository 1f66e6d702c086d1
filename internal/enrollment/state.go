package enrollment

import "fmt"

// Stage is the externally visible workflow position.
type Stage int

const (
	// StageInitial is before the roster exists; the speaker count may change.
	StageInitial Stage = iota
	// StageEnrolling is while names and samples are collected.
	StageEnrolling
	// StageComplete is after the backend accepted the roster.
	StageComplete
)

// String returns the human-readable name of the stage.
func (s Stage) String() string {
	switch s {
	case StageInitial:
		return "initial"
	case StageEnrolling:
		return "enrolling"
	case StageComplete:
		return "complete"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// state is the tagged union behind Stage. Each variant carries only the data
// legal in that stage, so a roster cannot exist before enrollment starts.
type state interface {
	stage() Stage
	speakerCount() int
}

type initialState struct {
	count int
}

type enrollingState struct {
	roster Roster
}

type completeState struct {
	count int
}

func (s initialState) stage() Stage        { return StageInitial }
func (s initialState) speakerCount() int   { return s.count }
func (s enrollingState) stage() Stage      { return StageEnrolling }
func (s enrollingState) speakerCount() int { return len(s.roster) }
func (s completeState) stage() Stage       { return StageComplete }
func (s completeState) speakerCount() int  { return s.count }
