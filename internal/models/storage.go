package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRow is a row from the users table.
type UserRow struct {
	ID          int       `json:"id"`
	Login       string    `json:"login"`
	DisplayName string    `json:"display_name"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	LastSeen    time.Time `json:"last_seen"`
}

// WorkoutRow is a row from the workouts table: the catalog record a
// WorkoutRef is cut from.
type WorkoutRow struct {
	ID             uuid.UUID      `json:"id"`
	UserID         int            `json:"user_id"`
	Title          string         `json:"title"`
	Type           WorkoutType    `json:"workout_type"`
	Intensity      IntensityModel `json:"intensity_model"`
	Sets           int            `json:"sets"`
	Reps           int            `json:"reps"`
	DurationSec    int            `json:"duration_sec"`
	DurationPerSet int            `json:"duration_per_set_sec"`
	DefaultPreset  Preset         `json:"default_preset"`
	Notes          string         `json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Ref returns the denormalized session view of the workout.
func (w WorkoutRow) Ref() WorkoutRef {
	return WorkoutRef{
		ID:             w.ID.String(),
		Title:          w.Title,
		Type:           w.Type,
		Intensity:      w.Intensity,
		Sets:           w.Sets,
		Reps:           w.Reps,
		DurationSec:    w.DurationSec,
		DurationPerSet: w.DurationPerSet,
		DefaultPreset:  w.DefaultPreset,
	}
}

// PlanRow is a row from the workout_plans table.
type PlanRow struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlanItemRow is an ordered workout reference within a plan.
type PlanItemRow struct {
	PlanID        uuid.UUID  `json:"plan_id"`
	Position      int        `json:"position"`
	WorkoutID     uuid.UUID  `json:"workout_id"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
}

// PersonalRecordRow is a user's best recorded effort for an exercise.
type PersonalRecordRow struct {
	UserID       int       `json:"user_id"`
	ExerciseName string    `json:"exercise_name"`
	WeightKg     float64   `json:"weight_kg"`
	Reps         int       `json:"reps"`
	Estimated1RM float64   `json:"estimated_1rm"`
	AchievedAt   time.Time `json:"achieved_at"`
}

// ExerciseLogRow is a persisted session log entry.
type ExerciseLogRow struct {
	ID            int64     `json:"id"`
	UserID        int       `json:"user_id"`
	WorkoutID     uuid.UUID `json:"workout_id"`
	Title         string    `json:"title"`
	LogDate       time.Time `json:"log_date"`
	SetsCompleted int       `json:"sets_completed"`
	Reps          *int      `json:"reps,omitempty"`
	DurationSec   *int      `json:"duration_sec,omitempty"`
	ElapsedSec    int       `json:"session_elapsed_sec"`
	CreatedAt     time.Time `json:"created_at"`
}

// ImportRow records a social-media workout import.
type ImportRow struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"user_id"`
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	RawJSON   []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
