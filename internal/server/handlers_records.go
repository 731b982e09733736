package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/claude/repflow/internal/models"
	"github.com/claude/repflow/internal/storage"
)

// recordRequest is a reported lift. The server computes the one-rep-max
// estimate and only stores the record if it beats the existing one.
type recordRequest struct {
	ExerciseName string     `json:"exercise_name"`
	WeightKg     float64    `json:"weight_kg"`
	Reps         int        `json:"reps"`
	AchievedAt   *time.Time `json:"achieved_at,omitempty"`
}

func (s *Server) handleQueryRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.QueryPersonalRecords(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleUpsertRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ExerciseName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_name is required"})
		return
	}
	if req.WeightKg <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight_kg must be positive"})
		return
	}

	achievedAt := time.Now()
	if req.AchievedAt != nil {
		achievedAt = *req.AchievedAt
	}

	rec := models.PersonalRecordRow{
		UserID:       userIDFromContext(r),
		ExerciseName: req.ExerciseName,
		WeightKg:     req.WeightKg,
		Reps:         req.Reps,
		Estimated1RM: storage.Estimated1RM(req.WeightKg, req.Reps),
		AchievedAt:   achievedAt,
	}

	improved, err := s.db.UpsertPersonalRecord(r.Context(), rec)
	if err != nil {
		s.log.Error("record upsert", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"improved":      improved,
		"estimated_1rm": rec.Estimated1RM,
	})
}
