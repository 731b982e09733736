package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/repflow/internal/models"
)

// InsertExerciseLogs batch-inserts a session's finalized log entries.
// Returns the count inserted.
func (db *DB) InsertExerciseLogs(ctx context.Context, rows []models.ExerciseLogRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO exercise_logs (user_id, workout_id, title, log_date,
		sets_completed, reps, duration_sec, session_elapsed_sec) VALUES `
	args := make([]any, 0, len(rows)*8)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 8
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		args = append(args, r.UserID, r.WorkoutID, r.Title, r.LogDate,
			r.SetsCompleted, r.Reps, r.DurationSec, r.ElapsedSec)
	}

	query += strings.Join(valueStrings, ",")

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting exercise logs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QueryExerciseLogs retrieves a user's log entries in a date range, newest
// session first.
func (db *DB) QueryExerciseLogs(ctx context.Context, userID int, start, end time.Time) ([]models.ExerciseLogRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, workout_id, title, log_date, sets_completed,
		 reps, duration_sec, session_elapsed_sec, created_at
		 FROM exercise_logs
		 WHERE user_id = $1 AND log_date >= $2 AND log_date < $3
		 ORDER BY log_date DESC, id ASC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying exercise logs: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseLogRow
	for rows.Next() {
		var r models.ExerciseLogRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.WorkoutID, &r.Title, &r.LogDate,
			&r.SetsCompleted, &r.Reps, &r.DurationSec, &r.ElapsedSec, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise log: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
