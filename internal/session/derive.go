package session

import (
	"time"

	"github.com/claude/repflow/internal/models"
)

const (
	// percentage-of-max workouts run a fixed 5x5 scheme.
	percent1RMSets = 5
	percent1RMReps = 5

	restBetweenSets      = 90 * time.Second
	restBetweenTimedSets = 30 * time.Second
)

// presetReps maps a named training preset to its target rep count, used
// when a workout carries no explicit rep target.
var presetReps = map[models.Preset]int{
	models.PresetStrength:    5,
	models.PresetHypertrophy: 10,
	models.PresetEndurance:   15,
}

// TotalSets returns the number of sets the session expects for a workout.
// Cardio is a single continuous effort.
func TotalSets(w models.WorkoutRef) int {
	switch {
	case w.Type == models.WorkoutCardio:
		return 1
	case w.Intensity == models.IntensityPercent1RM:
		return percent1RMSets
	case w.Sets > 0:
		return w.Sets
	default:
		return 1
	}
}

// RestDuration returns the rest gate between sets of a workout. Zero means
// no rest gate: the next set can start immediately.
func RestDuration(w models.WorkoutRef) time.Duration {
	switch {
	case w.Type == models.WorkoutCardio:
		return 0
	case w.Intensity == models.IntensitySetsTime:
		return restBetweenTimedSets
	default:
		return restBetweenSets
	}
}

// TargetReps returns the per-set rep target for a workout, falling back to
// the preset tables when the intensity model doesn't carry its own.
func TargetReps(w models.WorkoutRef) int {
	switch w.Intensity {
	case models.IntensitySetsReps:
		if w.Reps > 0 {
			return w.Reps
		}
	case models.IntensityPercent1RM:
		return percent1RMReps
	}
	if reps, ok := presetReps[w.DefaultPreset]; ok {
		return reps
	}
	return presetReps[models.PresetHypertrophy]
}

// Progress returns the completed fraction of the active exercise in [0, 1].
// During rest it reflects the set just finished.
func Progress(s State) float64 {
	w, ok := s.Current()
	if !ok {
		if s.Phase == PhaseCompleted {
			return 1
		}
		return 0
	}
	return float64(s.SetProgress[s.Index]) / float64(TotalSets(w))
}

// logFor builds the log entry recorded when a workout's sets are done (or
// synthesized for a partial exercise at reconciliation).
func logFor(w models.WorkoutRef, setsCompleted int) models.ExerciseLog {
	entry := models.ExerciseLog{
		WorkoutID:     w.ID,
		Title:         w.Title,
		SetsCompleted: setsCompleted,
	}
	switch {
	case w.Type == models.WorkoutCardio:
		entry.DurationSec = w.DurationSec
	case w.Intensity == models.IntensitySetsTime:
		entry.DurationSec = w.DurationPerSet * setsCompleted
	default:
		entry.Reps = TargetReps(w)
	}
	return entry
}
