package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/claude/repflow/internal/models"
	"github.com/google/uuid"
)

// logBatchRequest is the wire shape the session shell POSTs when a workout
// ends: one entry per exercise with completed work.
type logBatchRequest struct {
	UserID     int                  `json:"user_id"`
	Date       time.Time            `json:"date"`
	ElapsedSec int                  `json:"elapsed_sec"`
	Logs       []models.ExerciseLog `json:"logs"`
}

func (s *Server) handleIngestLogs(w http.ResponseWriter, r *http.Request) {
	var batch logBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(batch.Logs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "logs list is empty"})
		return
	}
	if batch.UserID == 0 {
		batch.UserID = userIDFromContext(r)
	}
	if batch.Date.IsZero() {
		batch.Date = time.Now()
	}

	rows := make([]models.ExerciseLogRow, 0, len(batch.Logs))
	for _, entry := range batch.Logs {
		workoutID, err := uuid.Parse(entry.WorkoutID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout_id " + entry.WorkoutID})
			return
		}
		row := models.ExerciseLogRow{
			UserID:        batch.UserID,
			WorkoutID:     workoutID,
			Title:         entry.Title,
			LogDate:       batch.Date,
			SetsCompleted: entry.SetsCompleted,
			ElapsedSec:    batch.ElapsedSec,
		}
		if entry.Reps > 0 {
			reps := entry.Reps
			row.Reps = &reps
		}
		if entry.DurationSec > 0 {
			dur := entry.DurationSec
			row.DurationSec = &dur
		}
		rows = append(rows, row)
	}

	inserted, err := s.db.InsertExerciseLogs(r.Context(), rows)
	if err != nil {
		s.log.Error("log ingest", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.log.Info("session logs ingested", "user", batch.UserID, "entries", inserted)
	writeJSON(w, http.StatusCreated, map[string]int64{"inserted": inserted})
}

func (s *Server) handleQueryLogs(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	logs, err := s.db.QueryExerciseLogs(r.Context(), userIDFromContext(r), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleTrainingSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	bucket := "1 week"
	if r.URL.Query().Get("period") == "monthly" {
		bucket = "1 month"
	}

	periods, err := s.db.GetTrainingSummary(r.Context(), userIDFromContext(r), start, end, bucket)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, periods)
}
