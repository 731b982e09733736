package storage

import (
	"context"
	"fmt"

	"github.com/claude/repflow/internal/models"
)

// Estimated1RM estimates a one-rep max from a weight/rep effort using the
// Epley formula. A single rep is the lift itself.
func Estimated1RM(weightKg float64, reps int) float64 {
	if reps <= 1 {
		return weightKg
	}
	return weightKg * (1 + float64(reps)/30)
}

// UpsertPersonalRecord records an effort, keeping only the best estimated
// 1RM per user and exercise. Returns true when the record improved.
func (db *DB) UpsertPersonalRecord(ctx context.Context, rec models.PersonalRecordRow) (bool, error) {
	rec.Estimated1RM = Estimated1RM(rec.WeightKg, rec.Reps)

	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO personal_records (user_id, exercise_name, weight_kg, reps, estimated_1rm, achieved_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id, exercise_name) DO UPDATE
			SET weight_kg = $3, reps = $4, estimated_1rm = $5, achieved_at = $6
			WHERE personal_records.estimated_1rm < $5
	`, rec.UserID, rec.ExerciseName, rec.WeightKg, rec.Reps, rec.Estimated1RM, rec.AchievedAt)
	if err != nil {
		return false, fmt.Errorf("upserting personal record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// QueryPersonalRecords lists a user's records, strongest lift first.
func (db *DB) QueryPersonalRecords(ctx context.Context, userID int) ([]models.PersonalRecordRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT user_id, exercise_name, weight_kg, reps, estimated_1rm, achieved_at
		 FROM personal_records WHERE user_id = $1 ORDER BY estimated_1rm DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying personal records: %w", err)
	}
	defer rows.Close()

	var result []models.PersonalRecordRow
	for rows.Next() {
		var r models.PersonalRecordRow
		if err := rows.Scan(&r.UserID, &r.ExerciseName, &r.WeightKg, &r.Reps, &r.Estimated1RM, &r.AchievedAt); err != nil {
			return nil, fmt.Errorf("scanning personal record: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
