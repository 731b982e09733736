package session

import "github.com/claude/repflow/internal/models"

// Reduce applies one action to the session state and returns the next
// state. It never fails: an action that doesn't apply to the current phase
// returns the state unchanged.
func Reduce(s State, a Action) State {
	switch a.(type) {
	case SkipWarmup:
		if s.Phase != PhaseWarmup {
			return s
		}
		return s.enterExercise()
	case CompleteSet:
		if s.Phase != PhaseExercise {
			return s
		}
		return s.completeSet()
	case RestComplete, SkipRest:
		// Rest is a gate between sets, not work: leaving it changes no
		// counters. The set that opened the gate was already counted.
		if s.Phase != PhaseRest {
			return s
		}
		out := s.clone()
		out.Phase = PhaseExercise
		return out
	case NavigateBack:
		return s.navigateBack()
	case NavigateNext:
		return s.navigateNext()
	}
	return s
}

// enterExercise leaves warmup. An empty sequence completes immediately.
func (s State) enterExercise() State {
	out := s.clone()
	if out.Index >= len(out.Sequence) {
		out.Phase = PhaseCompleted
		return out
	}
	out.Phase = PhaseExercise
	return out
}

func (s State) completeSet() State {
	w, ok := s.Current()
	if !ok {
		return s
	}
	total := TotalSets(w)
	done := s.SetProgress[s.Index]
	if done >= total {
		// Idempotent at the ceiling: no extra count, no duplicate log.
		return s
	}

	out := s.clone()
	out.SetProgress[out.Index] = done + 1

	if done+1 >= total {
		out.Logs = upsertLog(out.Logs, logFor(w, done+1))
		out.Index++
		if out.Index >= len(out.Sequence) {
			out.Phase = PhaseCompleted
		}
		return out
	}

	if RestDuration(w) > 0 {
		out.Phase = PhaseRest
	}
	return out
}

func (s State) navigateBack() State {
	switch s.Phase {
	case PhaseRest:
		// Cancelling the countdown is the shell's job; the engine just
		// returns to the exercise at the same set.
		out := s.clone()
		out.Phase = PhaseExercise
		return out
	case PhaseExercise:
	default:
		return s
	}

	out := s.clone()
	switch {
	case out.SetProgress[out.Index] >= 2:
		out.SetProgress[out.Index]--
	case out.Index > 0:
		// Undo the completion that advanced into the current exercise:
		// land on the previous exercise at its last set and drop its log.
		// The current exercise keeps its partial count for reconciliation.
		out.Index--
		prev := out.Sequence[out.Index]
		out.SetProgress[out.Index] = TotalSets(prev)
		out.Logs = removeLog(out.Logs, prev.ID)
	default:
		out.Phase = PhaseWarmup
	}
	return out
}

func (s State) navigateNext() State {
	switch s.Phase {
	case PhaseWarmup:
		return s.enterExercise()
	case PhaseExercise:
		// Explicit skip: advance regardless of set completion. No log is
		// written here; partial work is recovered by Reconcile at the end.
		out := s.clone()
		out.Index++
		if out.Index >= len(out.Sequence) {
			out.Phase = PhaseCompleted
		}
		return out
	}
	return s
}

// upsertLog appends a log entry, replacing any existing entry with the same
// workout id so a session never holds duplicates.
func upsertLog(logs []models.ExerciseLog, entry models.ExerciseLog) []models.ExerciseLog {
	for i := range logs {
		if logs[i].WorkoutID == entry.WorkoutID {
			logs[i] = entry
			return logs
		}
	}
	return append(logs, entry)
}

func removeLog(logs []models.ExerciseLog, workoutID string) []models.ExerciseLog {
	for i := range logs {
		if logs[i].WorkoutID == workoutID {
			return append(logs[:i], logs[i+1:]...)
		}
	}
	return logs
}

func hasLog(logs []models.ExerciseLog, workoutID string) bool {
	for i := range logs {
		if logs[i].WorkoutID == workoutID {
			return true
		}
	}
	return false
}
