package session

import (
	"time"

	"github.com/claude/repflow/internal/models"
)

// Summary is the finalized result of a session, handed to log persistence
// and the summary view.
type Summary struct {
	Logs    []models.ExerciseLog
	Elapsed time.Duration
}

// Reconcile assembles the definitive log list for a session: the entries
// recorded at full completion, plus a synthesized entry for every exercise
// that has at least one completed set but no entry (the user navigated away
// mid-exercise). No partially-completed work is silently dropped; every
// exercise with progress appears exactly once.
func Reconcile(s State, now time.Time) Summary {
	logs := append([]models.ExerciseLog(nil), s.Logs...)
	for i, w := range s.Sequence {
		if s.SetProgress[i] == 0 || hasLog(logs, w.ID) {
			continue
		}
		logs = append(logs, logFor(w, s.SetProgress[i]))
	}
	return Summary{
		Logs:    logs,
		Elapsed: now.Sub(s.StartTime),
	}
}
