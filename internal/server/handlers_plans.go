package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/claude/repflow/internal/models"
	"github.com/google/uuid"
)

// planRequest is the wire shape for creating a plan or replacing its items.
type planRequest struct {
	Name  string            `json:"name"`
	Notes string            `json:"notes"`
	Items []planItemRequest `json:"items"`
}

type planItemRequest struct {
	WorkoutID     uuid.UUID  `json:"workout_id"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
}

func (s *Server) handleQueryPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.db.QueryPlans(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	plan, items, err := s.db.GetPlan(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"plan":  plan,
		"items": items,
	})
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	plan := models.PlanRow{
		UserID: userIDFromContext(r),
		Name:   req.Name,
		Notes:  req.Notes,
	}
	id, err := s.db.InsertPlan(r.Context(), plan, planItems(req.Items))
	if err != nil {
		s.log.Error("create plan", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleReplacePlanItems(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var items []planItemRequest
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if err := s.db.ReplacePlanItems(r.Context(), id, planItems(items)); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"items": len(items)})
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := s.db.DeletePlan(r.Context(), id, userIDFromContext(r)); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// planItems converts request items to rows. Positions follow request order;
// the storage layer assigns the plan id.
func planItems(reqs []planItemRequest) []models.PlanItemRow {
	items := make([]models.PlanItemRow, len(reqs))
	for i, it := range reqs {
		items[i] = models.PlanItemRow{
			Position:      i,
			WorkoutID:     it.WorkoutID,
			ScheduledDate: it.ScheduledDate,
		}
	}
	return items
}
