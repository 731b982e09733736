package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/repflow/internal/models"
	"github.com/google/uuid"
)

const workoutColumns = `id, user_id, title, workout_type, intensity_model,
	 sets, reps, duration_sec, duration_per_set_sec, default_preset, notes,
	 created_at, updated_at`

// InsertWorkout inserts a workout row, assigning an id when none is set.
func (db *DB) InsertWorkout(ctx context.Context, row models.WorkoutRow) (uuid.UUID, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, user_id, title, workout_type, intensity_model,
		 sets, reps, duration_sec, duration_per_set_sec, default_preset, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		row.ID, row.UserID, row.Title, row.Type, row.Intensity,
		row.Sets, row.Reps, row.DurationSec, row.DurationPerSet, row.DefaultPreset, row.Notes)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting workout: %w", err)
	}
	return row.ID, nil
}

// UpdateWorkout replaces a workout's mutable fields.
func (db *DB) UpdateWorkout(ctx context.Context, row models.WorkoutRow) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workouts SET title=$3, workout_type=$4, intensity_model=$5,
		 sets=$6, reps=$7, duration_sec=$8, duration_per_set_sec=$9,
		 default_preset=$10, notes=$11, updated_at=NOW()
		 WHERE id=$1 AND user_id=$2`,
		row.ID, row.UserID, row.Title, row.Type, row.Intensity,
		row.Sets, row.Reps, row.DurationSec, row.DurationPerSet, row.DefaultPreset, row.Notes)
	if err != nil {
		return fmt.Errorf("updating workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout %s not found", row.ID)
	}
	return nil
}

// DeleteWorkout removes a workout.
func (db *DB) DeleteWorkout(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout %s not found", id)
	}
	return nil
}

// GetWorkout retrieves a single workout by id.
func (db *DB) GetWorkout(ctx context.Context, id uuid.UUID) (*models.WorkoutRow, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, id)
	w, err := scanWorkout(row)
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}
	return w, nil
}

// QueryWorkouts retrieves a user's workouts, optionally filtered by type.
func (db *DB) QueryWorkouts(ctx context.Context, userID int, typeFilter string) ([]models.WorkoutRow, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE user_id = $1`
	args := []any{userID}
	if typeFilter != "" {
		query += ` AND workout_type = $2`
		args = append(args, typeFilter)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutRow
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (*models.WorkoutRow, error) {
	var w models.WorkoutRow
	var createdAt, updatedAt time.Time
	err := row.Scan(&w.ID, &w.UserID, &w.Title, &w.Type, &w.Intensity,
		&w.Sets, &w.Reps, &w.DurationSec, &w.DurationPerSet, &w.DefaultPreset, &w.Notes,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	w.CreatedAt = createdAt
	w.UpdatedAt = updatedAt
	return &w, nil
}
