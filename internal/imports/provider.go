// Package imports materializes social-media workout imports: a payload of
// exercises scraped from a post is validated, recorded as an import, and
// turned into catalog workouts the user can schedule.
package imports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/claude/repflow/internal/models"
	"github.com/google/uuid"
)

// knownSources are the platforms the mobile client can scrape previews from.
var knownSources = map[string]bool{
	"instagram": true,
	"tiktok":    true,
	"youtube":   true,
}

// Payload is the import request shape: the post being imported and the
// exercises the client extracted from it.
type Payload struct {
	Source    string            `json:"source"`
	URL       string            `json:"url"`
	Title     string            `json:"title"`
	Exercises []PayloadExercise `json:"exercises"`
}

// PayloadExercise is one extracted exercise.
type PayloadExercise struct {
	Title          string `json:"title"`
	Type           string `json:"workout_type"`
	Sets           int    `json:"sets"`
	Reps           int    `json:"reps"`
	DurationSec    int    `json:"duration_sec"`
	DurationPerSet int    `json:"duration_per_set_sec"`
}

// Result summarizes a processed import.
type Result struct {
	ImportID         uuid.UUID `json:"import_id"`
	WorkoutsCreated  int       `json:"workouts_created"`
	ExercisesSkipped int       `json:"exercises_skipped"`
	Message          string    `json:"message,omitempty"`
}

// Storage is the slice of the data layer the provider needs. *storage.DB
// satisfies it.
type Storage interface {
	InsertImport(ctx context.Context, row models.ImportRow) (uuid.UUID, error)
	UpdateImportStatus(ctx context.Context, id uuid.UUID, status string) error
	InsertWorkout(ctx context.Context, row models.WorkoutRow) (uuid.UUID, error)
}

// Provider processes social-media import payloads.
type Provider struct {
	db  Storage
	log *slog.Logger
}

// NewProvider creates an import provider.
func NewProvider(db Storage, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest validates a payload, records the import, and creates one catalog
// workout per usable exercise. Unusable exercises are skipped with a
// warning, not fatal.
func (p *Provider) Ingest(ctx context.Context, payload *Payload, userID int) (*Result, error) {
	source := strings.ToLower(strings.TrimSpace(payload.Source))
	if !knownSources[source] {
		return nil, fmt.Errorf("unknown import source %q", payload.Source)
	}
	if payload.URL == "" {
		return nil, fmt.Errorf("import url is required")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling import payload: %w", err)
	}

	importID, err := p.db.InsertImport(ctx, models.ImportRow{
		UserID:  userID,
		Source:  source,
		URL:     payload.URL,
		Title:   payload.Title,
		Status:  "pending",
		RawJSON: raw,
	})
	if err != nil {
		return nil, fmt.Errorf("recording import: %w", err)
	}

	result := &Result{ImportID: importID}
	for _, ex := range payload.Exercises {
		row, ok := workoutFromExercise(ex, userID)
		if !ok {
			p.log.Warn("skipping import exercise", "source", source, "title", ex.Title)
			result.ExercisesSkipped++
			continue
		}
		if _, err := p.db.InsertWorkout(ctx, row); err != nil {
			return result, fmt.Errorf("creating workout %q: %w", ex.Title, err)
		}
		result.WorkoutsCreated++
	}

	status := "imported"
	if result.WorkoutsCreated == 0 {
		status = "empty"
		result.Message = "no usable exercises in payload"
	}
	if err := p.db.UpdateImportStatus(ctx, importID, status); err != nil {
		return result, fmt.Errorf("finalizing import: %w", err)
	}
	return result, nil
}

// workoutFromExercise builds a catalog workout from an extracted exercise.
// An exercise with no title or no measurable work is unusable.
func workoutFromExercise(ex PayloadExercise, userID int) (models.WorkoutRow, bool) {
	title := strings.TrimSpace(ex.Title)
	if title == "" {
		return models.WorkoutRow{}, false
	}

	row := models.WorkoutRow{
		UserID: userID,
		Title:  title,
		Type:   models.WorkoutStrength,
	}

	switch {
	case strings.EqualFold(ex.Type, string(models.WorkoutCardio)) && ex.DurationSec > 0:
		row.Type = models.WorkoutCardio
		row.Intensity = models.IntensityLegacy
		row.DurationSec = ex.DurationSec
	case ex.Sets > 0 && ex.Reps > 0:
		row.Intensity = models.IntensitySetsReps
		row.Sets = ex.Sets
		row.Reps = ex.Reps
	case ex.Sets > 0 && ex.DurationPerSet > 0:
		row.Intensity = models.IntensitySetsTime
		row.Sets = ex.Sets
		row.DurationPerSet = ex.DurationPerSet
	default:
		return models.WorkoutRow{}, false
	}
	return row, true
}
