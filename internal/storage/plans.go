package storage

import (
	"context"
	"fmt"

	"github.com/claude/repflow/internal/models"
	"github.com/google/uuid"
)

// InsertPlan creates a workout plan with its ordered items in one transaction.
func (db *DB) InsertPlan(ctx context.Context, plan models.PlanRow, items []models.PlanItemRow) (uuid.UUID, error) {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning plan insert: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO workout_plans (id, user_id, name, notes) VALUES ($1,$2,$3,$4)`,
		plan.ID, plan.UserID, plan.Name, plan.Notes)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting plan: %w", err)
	}

	for i, item := range items {
		_, err = tx.Exec(ctx,
			`INSERT INTO plan_items (plan_id, position, workout_id, scheduled_date)
			 VALUES ($1,$2,$3,$4)`,
			plan.ID, i, item.WorkoutID, item.ScheduledDate)
		if err != nil {
			return uuid.Nil, fmt.Errorf("inserting plan item %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("committing plan insert: %w", err)
	}
	return plan.ID, nil
}

// GetPlan retrieves a plan and its items ordered by position.
func (db *DB) GetPlan(ctx context.Context, id uuid.UUID) (*models.PlanRow, []models.PlanItemRow, error) {
	var p models.PlanRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, notes, created_at, updated_at
		 FROM workout_plans WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("querying plan: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT plan_id, position, workout_id, scheduled_date
		 FROM plan_items WHERE plan_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("querying plan items: %w", err)
	}
	defer rows.Close()

	var items []models.PlanItemRow
	for rows.Next() {
		var item models.PlanItemRow
		if err := rows.Scan(&item.PlanID, &item.Position, &item.WorkoutID, &item.ScheduledDate); err != nil {
			return nil, nil, fmt.Errorf("scanning plan item: %w", err)
		}
		items = append(items, item)
	}
	return &p, items, rows.Err()
}

// QueryPlans lists a user's plans, newest first.
func (db *DB) QueryPlans(ctx context.Context, userID int) ([]models.PlanRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, notes, created_at, updated_at
		 FROM workout_plans WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var result []models.PlanRow
	for rows.Next() {
		var p models.PlanRow
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// DeletePlan removes a plan and, via cascade, its items.
func (db *DB) DeletePlan(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workout_plans WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plan %s not found", id)
	}
	return nil
}

// ReplacePlanItems swaps a plan's item list for a new ordered one.
func (db *DB) ReplacePlanItems(ctx context.Context, planID uuid.UUID, items []models.PlanItemRow) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning plan item replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM plan_items WHERE plan_id = $1`, planID); err != nil {
		return fmt.Errorf("clearing plan items: %w", err)
	}
	for i, item := range items {
		_, err = tx.Exec(ctx,
			`INSERT INTO plan_items (plan_id, position, workout_id, scheduled_date)
			 VALUES ($1,$2,$3,$4)`,
			planID, i, item.WorkoutID, item.ScheduledDate)
		if err != nil {
			return fmt.Errorf("inserting plan item %d: %w", i, err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE workout_plans SET updated_at = NOW() WHERE id = $1`, planID); err != nil {
		return fmt.Errorf("touching plan: %w", err)
	}
	return tx.Commit(ctx)
}
