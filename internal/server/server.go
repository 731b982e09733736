// Package server exposes the RepFlow HTTP API: workout catalog CRUD, plan
// management, session log ingestion, personal records, and social-media
// imports. Mutating routes require an API key; reads are open because the
// listener is expected to sit on a tailnet.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/repflow/internal/imports"
	"github.com/claude/repflow/internal/models"
	"github.com/claude/repflow/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Store is the slice of the data layer the handlers need. *storage.DB
// satisfies it.
type Store interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
	ListUsers(ctx context.Context) ([]models.UserRow, error)

	InsertWorkout(ctx context.Context, row models.WorkoutRow) (uuid.UUID, error)
	UpdateWorkout(ctx context.Context, row models.WorkoutRow) error
	DeleteWorkout(ctx context.Context, id uuid.UUID, userID int) error
	GetWorkout(ctx context.Context, id uuid.UUID) (*models.WorkoutRow, error)
	QueryWorkouts(ctx context.Context, userID int, typeFilter string) ([]models.WorkoutRow, error)

	InsertPlan(ctx context.Context, plan models.PlanRow, items []models.PlanItemRow) (uuid.UUID, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*models.PlanRow, []models.PlanItemRow, error)
	QueryPlans(ctx context.Context, userID int) ([]models.PlanRow, error)
	DeletePlan(ctx context.Context, id uuid.UUID, userID int) error
	ReplacePlanItems(ctx context.Context, planID uuid.UUID, items []models.PlanItemRow) error

	InsertExerciseLogs(ctx context.Context, rows []models.ExerciseLogRow) (int64, error)
	QueryExerciseLogs(ctx context.Context, userID int, start, end time.Time) ([]models.ExerciseLogRow, error)
	GetTrainingSummary(ctx context.Context, userID int, start, end time.Time, bucket string) ([]storage.TrainingSummaryPeriod, error)

	UpsertPersonalRecord(ctx context.Context, rec models.PersonalRecordRow) (bool, error)
	QueryPersonalRecords(ctx context.Context, userID int) ([]models.PersonalRecordRow, error)

	QueryImports(ctx context.Context, userID, limit int) ([]models.ImportRow, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      Store
	imports *imports.Provider
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(db Store, importProvider *imports.Provider, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		imports: importProvider,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(DevIdentity)

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/users", s.handleListUsers)
	s.router.Get("/api/v1/workouts", s.handleQueryWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/plans", s.handleQueryPlans)
	s.router.Get("/api/v1/plans/{id}", s.handleGetPlan)
	s.router.Get("/api/v1/logs", s.handleQueryLogs)
	s.router.Get("/api/v1/summary", s.handleTrainingSummary)
	s.router.Get("/api/v1/records", s.handleQueryRecords)
	s.router.Get("/api/v1/imports", s.handleQueryImports)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/users", s.handleCreateUser)
		r.Post("/api/v1/workouts", s.handleCreateWorkout)
		r.Put("/api/v1/workouts/{id}", s.handleUpdateWorkout)
		r.Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)
		r.Post("/api/v1/plans", s.handleCreatePlan)
		r.Put("/api/v1/plans/{id}/items", s.handleReplacePlanItems)
		r.Delete("/api/v1/plans/{id}", s.handleDeletePlan)
		r.Post("/api/v1/logs", s.handleIngestLogs)
		r.Post("/api/v1/records", s.handleUpsertRecord)
		r.Post("/api/v1/imports", s.handleImport)
	})
}
