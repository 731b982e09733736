package mcp

import (
	"context"
	"time"

	"github.com/claude/repflow/internal/models"
	"github.com/claude/repflow/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QueryWorkouts(ctx context.Context, userID int, typeFilter string) ([]models.WorkoutRow, error)
	QueryExerciseLogs(ctx context.Context, userID int, start, end time.Time) ([]models.ExerciseLogRow, error)
	QueryPersonalRecords(ctx context.Context, userID int) ([]models.PersonalRecordRow, error)
	GetTrainingSummary(ctx context.Context, userID int, start, end time.Time, bucket string) ([]storage.TrainingSummaryPeriod, error)
	QueryPlans(ctx context.Context, userID int) ([]models.PlanRow, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*models.PlanRow, []models.PlanItemRow, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
