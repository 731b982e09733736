// Package session implements the workout session engine: a pure state
// machine that drives a user through a resolved workout sequence, tracks
// per-exercise set completion, supports backward and forward navigation,
// and produces a finalized log of completed work when the sequence ends.
//
// The engine is synchronous and single-owner. All mutation goes through
// Reduce, which takes a State and an Action and returns the next State;
// timers and persistence live outside, in the presentation shell.
package session

import (
	"time"

	"github.com/claude/repflow/internal/models"
)

// Phase is the stage a session is currently in.
type Phase string

const (
	PhaseWarmup    Phase = "warmup"
	PhaseExercise  Phase = "exercise"
	PhaseRest      Phase = "rest"
	PhaseCompleted Phase = "completed"
)

// State is the sole mutable entity of a session. It is owned by exactly one
// session and never shared; Reduce returns fresh values, so callers can
// treat any State they hold as immutable.
type State struct {
	Phase Phase

	// Sequence is the resolved workout list, fixed at session start.
	Sequence []models.WorkoutRef

	// Index is the 0-based position into Sequence. Reaching len(Sequence)
	// while in the exercise phase completes the session.
	Index int

	// SetProgress holds the completed-set count per exercise, indexed by
	// position in Sequence. Never exceeds the exercise's total sets.
	SetProgress []int

	// Logs holds one entry per exercise that reached full completion,
	// at most one entry per workout id.
	Logs []models.ExerciseLog

	StartTime time.Time
}

// New returns the initial state for a resolved workout sequence: warmup
// phase, all counters zero.
func New(seq []models.WorkoutRef, now time.Time) State {
	return State{
		Phase:       PhaseWarmup,
		Sequence:    seq,
		SetProgress: make([]int, len(seq)),
		StartTime:   now,
	}
}

// Current returns the active workout, or false when the index is past the
// end of the sequence.
func (s State) Current() (models.WorkoutRef, bool) {
	if s.Index < 0 || s.Index >= len(s.Sequence) {
		return models.WorkoutRef{}, false
	}
	return s.Sequence[s.Index], true
}

// Completed reports whether the session reached its terminal phase.
func (s State) Completed() bool {
	return s.Phase == PhaseCompleted
}

// clone copies the state deeply enough that mutating the copy's counters or
// logs cannot be observed through the original.
func (s State) clone() State {
	out := s
	out.SetProgress = append([]int(nil), s.SetProgress...)
	out.Logs = append([]models.ExerciseLog(nil), s.Logs...)
	return out
}
