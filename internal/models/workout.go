package models

// WorkoutType distinguishes strength work (set/rep based) from cardio.
type WorkoutType string

const (
	WorkoutStrength WorkoutType = "strength"
	WorkoutCardio   WorkoutType = "cardio"
)

// IntensityModel names how a workout's set/rep/rest targets are derived.
type IntensityModel string

const (
	IntensitySetsReps   IntensityModel = "sets_reps"
	IntensitySetsTime   IntensityModel = "sets_time"
	IntensityPercent1RM IntensityModel = "percentage_1rm"
	IntensityLegacy     IntensityModel = "legacy"
)

// Preset is a named training goal used to fill in rep targets when a
// workout doesn't carry explicit ones.
type Preset string

const (
	PresetStrength    Preset = "strength"
	PresetHypertrophy Preset = "hypertrophy"
	PresetEndurance   Preset = "endurance"
)

// WorkoutRef is the denormalized view of a workout a session needs to drive
// progression. Immutable for the duration of a session.
type WorkoutRef struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Type           WorkoutType    `json:"workout_type"`
	Intensity      IntensityModel `json:"intensity_model"`
	Sets           int            `json:"sets,omitempty"`
	Reps           int            `json:"reps,omitempty"`
	DurationSec    int            `json:"duration_sec,omitempty"`
	DurationPerSet int            `json:"duration_per_set_sec,omitempty"`
	DefaultPreset  Preset         `json:"default_preset,omitempty"`
}

// ExerciseLog records completed work for one workout within a session.
// A session holds at most one log entry per workout id.
type ExerciseLog struct {
	WorkoutID     string `json:"workout_id"`
	Title         string `json:"title"`
	SetsCompleted int    `json:"sets_completed"`
	Reps          int    `json:"reps,omitempty"`
	DurationSec   int    `json:"duration_sec,omitempty"`
}
