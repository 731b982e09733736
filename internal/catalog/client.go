package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claude/repflow/internal/models"
)

// Client talks to the RepFlow server over HTTP: workout lookups during
// session setup and the best-effort log batch at session end.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an HTTP client for the RepFlow server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetWorkout fetches a single workout record by id.
func (c *Client) GetWorkout(ctx context.Context, id string) (models.WorkoutRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.serverURL+"/api/v1/workouts/"+id, nil)
	if err != nil {
		return models.WorkoutRef{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.WorkoutRef{}, fmt.Errorf("fetching workout %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return models.WorkoutRef{}, fmt.Errorf("workout %s request failed (status %d): %s", id, resp.StatusCode, body)
	}

	var row models.WorkoutRow
	if err := json.NewDecoder(resp.Body).Decode(&row); err != nil {
		return models.WorkoutRef{}, fmt.Errorf("decoding workout %s: %w", id, err)
	}
	return row.Ref(), nil
}

// GetPlanWorkoutIDs fetches a plan and returns its workout ids in plan
// order.
func (c *Client) GetPlanWorkoutIDs(ctx context.Context, planID string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.serverURL+"/api/v1/plans/"+planID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching plan %s: %w", planID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("plan %s request failed (status %d): %s", planID, resp.StatusCode, body)
	}

	var plan struct {
		Items []models.PlanItemRow `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, fmt.Errorf("decoding plan %s: %w", planID, err)
	}

	ids := make([]string, len(plan.Items))
	for i, item := range plan.Items {
		ids[i] = item.WorkoutID.String()
	}
	return ids, nil
}

// logBatch is the wire shape of a session's finalized log list.
type logBatch struct {
	UserID     int                  `json:"user_id"`
	Date       time.Time            `json:"date"`
	ElapsedSec int                  `json:"elapsed_sec"`
	Logs       []models.ExerciseLog `json:"logs"`
}

// PersistLogs POSTs a session's finalized log batch to the server.
// Retries up to 3 times with exponential backoff; callers treat failure as
// non-fatal (the session summary is shown regardless).
func (c *Client) PersistLogs(ctx context.Context, userID int, date time.Time, elapsed time.Duration, logs []models.ExerciseLog) error {
	if len(logs) == 0 {
		return nil
	}

	data, err := json.Marshal(logBatch{
		UserID:     userID,
		Date:       date,
		ElapsedSec: int(elapsed.Seconds()),
		Logs:       logs,
	})
	if err != nil {
		return fmt.Errorf("marshaling log batch: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(1<<uint(attempt-1)) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.serverURL+"/api/v1/logs", bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
			resp.Body.Close()
			return nil
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("log batch rejected (status %d): %s", resp.StatusCode, body)
	}
	return fmt.Errorf("persisting logs after 3 attempts: %w", lastErr)
}
