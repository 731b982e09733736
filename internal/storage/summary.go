package storage

import (
	"context"
	"fmt"
	"time"
)

// TrainingSummaryPeriod is one time bucket of aggregated session volume.
type TrainingSummaryPeriod struct {
	Period        time.Time `json:"period"`
	Sessions      int64     `json:"sessions"`
	TotalSets     int64     `json:"total_sets"`
	TotalDuration int64     `json:"total_duration_sec"`
	Exercises     int64     `json:"exercises"`
}

// GetTrainingSummary aggregates a user's exercise logs per period. bucket is
// a Postgres interval such as '1 week' or '1 month'.
func (db *DB) GetTrainingSummary(ctx context.Context, userID int, start, end time.Time, bucket string) ([]TrainingSummaryPeriod, error) {
	switch bucket {
	case "1 week", "1 month":
	default:
		bucket = "1 month"
	}

	rows, err := db.Pool.Query(ctx, fmt.Sprintf(`
		SELECT date_trunc(%s, log_date) AS period,
		       COUNT(DISTINCT log_date) AS sessions,
		       COALESCE(SUM(sets_completed), 0) AS total_sets,
		       COALESCE(SUM(session_elapsed_sec), 0) AS total_duration,
		       COUNT(*) AS exercises
		FROM exercise_logs
		WHERE user_id = $1 AND log_date >= $2 AND log_date < $3
		GROUP BY period
		ORDER BY period`,
		bucketUnit(bucket)),
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying training summary: %w", err)
	}
	defer rows.Close()

	var result []TrainingSummaryPeriod
	for rows.Next() {
		var p TrainingSummaryPeriod
		if err := rows.Scan(&p.Period, &p.Sessions, &p.TotalSets, &p.TotalDuration, &p.Exercises); err != nil {
			return nil, fmt.Errorf("scanning training summary: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// bucketUnit maps an interval spelling to the date_trunc unit literal.
func bucketUnit(bucket string) string {
	if bucket == "1 week" {
		return "'week'"
	}
	return "'month'"
}
