package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/repflow/internal/imports"
	"github.com/claude/repflow/internal/models"
	"github.com/claude/repflow/internal/storage"
	"github.com/google/uuid"
)

const testAPIKey = "test-key"

// fakeStore is an in-memory Store for handler tests. It also satisfies
// imports.Storage so the import provider can run against it.
type fakeStore struct {
	users    map[string]int
	workouts map[uuid.UUID]models.WorkoutRow
	plans    map[uuid.UUID]models.PlanRow
	items    map[uuid.UUID][]models.PlanItemRow
	logs     []models.ExerciseLogRow
	records  map[string]models.PersonalRecordRow
	imports  []models.ImportRow
	summary  []storage.TrainingSummaryPeriod
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]int{},
		workouts: map[uuid.UUID]models.WorkoutRow{},
		plans:    map[uuid.UUID]models.PlanRow{},
		items:    map[uuid.UUID][]models.PlanItemRow{},
		records:  map[string]models.PersonalRecordRow{},
	}
}

func (f *fakeStore) GetOrCreateUser(_ context.Context, login, _ string) (int, error) {
	if id, ok := f.users[login]; ok {
		return id, nil
	}
	id := len(f.users) + 1
	f.users[login] = id
	return id, nil
}

func (f *fakeStore) ListUsers(context.Context) ([]models.UserRow, error) {
	var rows []models.UserRow
	for login, id := range f.users {
		rows = append(rows, models.UserRow{ID: id, Login: login})
	}
	return rows, nil
}

func (f *fakeStore) InsertWorkout(_ context.Context, row models.WorkoutRow) (uuid.UUID, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.workouts[row.ID] = row
	return row.ID, nil
}

func (f *fakeStore) UpdateWorkout(_ context.Context, row models.WorkoutRow) error {
	if _, ok := f.workouts[row.ID]; !ok {
		return fmt.Errorf("workout not found")
	}
	f.workouts[row.ID] = row
	return nil
}

func (f *fakeStore) DeleteWorkout(_ context.Context, id uuid.UUID, _ int) error {
	if _, ok := f.workouts[id]; !ok {
		return fmt.Errorf("workout not found")
	}
	delete(f.workouts, id)
	return nil
}

func (f *fakeStore) GetWorkout(_ context.Context, id uuid.UUID) (*models.WorkoutRow, error) {
	row, ok := f.workouts[id]
	if !ok {
		return nil, fmt.Errorf("workout not found")
	}
	return &row, nil
}

func (f *fakeStore) QueryWorkouts(_ context.Context, userID int, typeFilter string) ([]models.WorkoutRow, error) {
	var rows []models.WorkoutRow
	for _, row := range f.workouts {
		if row.UserID != userID {
			continue
		}
		if typeFilter != "" && string(row.Type) != typeFilter {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *fakeStore) InsertPlan(_ context.Context, plan models.PlanRow, items []models.PlanItemRow) (uuid.UUID, error) {
	plan.ID = uuid.New()
	f.plans[plan.ID] = plan
	f.items[plan.ID] = items
	return plan.ID, nil
}

func (f *fakeStore) GetPlan(_ context.Context, id uuid.UUID) (*models.PlanRow, []models.PlanItemRow, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, nil, fmt.Errorf("plan not found")
	}
	return &plan, f.items[id], nil
}

func (f *fakeStore) QueryPlans(_ context.Context, userID int) ([]models.PlanRow, error) {
	var rows []models.PlanRow
	for _, p := range f.plans {
		if p.UserID == userID {
			rows = append(rows, p)
		}
	}
	return rows, nil
}

func (f *fakeStore) DeletePlan(_ context.Context, id uuid.UUID, _ int) error {
	if _, ok := f.plans[id]; !ok {
		return fmt.Errorf("plan not found")
	}
	delete(f.plans, id)
	delete(f.items, id)
	return nil
}

func (f *fakeStore) ReplacePlanItems(_ context.Context, planID uuid.UUID, items []models.PlanItemRow) error {
	if _, ok := f.plans[planID]; !ok {
		return fmt.Errorf("plan not found")
	}
	f.items[planID] = items
	return nil
}

func (f *fakeStore) InsertExerciseLogs(_ context.Context, rows []models.ExerciseLogRow) (int64, error) {
	f.logs = append(f.logs, rows...)
	return int64(len(rows)), nil
}

func (f *fakeStore) QueryExerciseLogs(_ context.Context, userID int, _, _ time.Time) ([]models.ExerciseLogRow, error) {
	var rows []models.ExerciseLogRow
	for _, l := range f.logs {
		if l.UserID == userID {
			rows = append(rows, l)
		}
	}
	return rows, nil
}

func (f *fakeStore) GetTrainingSummary(context.Context, int, time.Time, time.Time, string) ([]storage.TrainingSummaryPeriod, error) {
	return f.summary, nil
}

func (f *fakeStore) UpsertPersonalRecord(_ context.Context, rec models.PersonalRecordRow) (bool, error) {
	existing, ok := f.records[rec.ExerciseName]
	if ok && existing.Estimated1RM >= rec.Estimated1RM {
		return false, nil
	}
	f.records[rec.ExerciseName] = rec
	return true, nil
}

func (f *fakeStore) QueryPersonalRecords(_ context.Context, userID int) ([]models.PersonalRecordRow, error) {
	var rows []models.PersonalRecordRow
	for _, rec := range f.records {
		if rec.UserID == userID {
			rows = append(rows, rec)
		}
	}
	return rows, nil
}

func (f *fakeStore) InsertImport(_ context.Context, row models.ImportRow) (uuid.UUID, error) {
	row.ID = uuid.New()
	f.imports = append(f.imports, row)
	return row.ID, nil
}

func (f *fakeStore) UpdateImportStatus(_ context.Context, id uuid.UUID, status string) error {
	for i := range f.imports {
		if f.imports[i].ID == id {
			f.imports[i].Status = status
		}
	}
	return nil
}

func (f *fakeStore) QueryImports(_ context.Context, userID, limit int) ([]models.ImportRow, error) {
	var rows []models.ImportRow
	for _, row := range f.imports {
		if row.UserID == userID && len(rows) < limit {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func testServer(db *fakeStore) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(db, imports.NewProvider(db, log), testAPIKey, log)
}

func doJSON(t *testing.T, s *Server, method, path string, body any, withKey bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if withKey {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestCreateAndGetWorkout verifies the catalog round trip: a created workout
// is retrievable by the id the server assigned.
func TestCreateAndGetWorkout(t *testing.T) {
	s := testServer(newFakeStore())

	rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", models.WorkoutRow{
		Title:     "Back Squat",
		Type:      models.WorkoutStrength,
		Intensity: models.IntensitySetsReps,
		Sets:      5,
		Reps:      5,
	}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var created map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/workouts/"+created["id"], nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var row models.WorkoutRow
	if err := json.NewDecoder(rec.Body).Decode(&row); err != nil {
		t.Fatal(err)
	}
	if row.Title != "Back Squat" {
		t.Errorf("title = %q, want Back Squat", row.Title)
	}
	if row.Sets != 5 || row.Reps != 5 {
		t.Errorf("sets/reps = %d/%d, want 5/5", row.Sets, row.Reps)
	}
}

// TestWorkoutRequiresAPIKey verifies mutating routes reject unauthenticated
// and wrongly-authenticated requests.
func TestWorkoutRequiresAPIKey(t *testing.T) {
	s := testServer(newFakeStore())
	body := models.WorkoutRow{Title: "x"}

	rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", body, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key status = %d, want 401", rec.Code)
	}

	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts", bytes.NewReader(data))
	req.Header.Set("X-API-Key", "wrong")
	wrong := httptest.NewRecorder()
	s.ServeHTTP(wrong, req)
	if wrong.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", wrong.Code)
	}
}

// TestGetWorkoutInvalidID verifies a malformed id is a 400, not a lookup.
func TestGetWorkoutInvalidID(t *testing.T) {
	s := testServer(newFakeStore())
	rec := doJSON(t, s, http.MethodGet, "/api/v1/workouts/not-a-uuid", nil, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestDeleteWorkout verifies deletion and the 404 on a second attempt.
func TestDeleteWorkout(t *testing.T) {
	db := newFakeStore()
	s := testServer(db)
	id, _ := db.InsertWorkout(context.Background(), models.WorkoutRow{UserID: 1, Title: "Row"})

	rec := doJSON(t, s, http.MethodDelete, "/api/v1/workouts/"+id.String(), nil, true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, s, http.MethodDelete, "/api/v1/workouts/"+id.String(), nil, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

// TestPlanLifecycle exercises create, fetch, item replacement, and delete.
func TestPlanLifecycle(t *testing.T) {
	db := newFakeStore()
	s := testServer(db)
	w1, _ := db.InsertWorkout(context.Background(), models.WorkoutRow{UserID: 1, Title: "Squat"})
	w2, _ := db.InsertWorkout(context.Background(), models.WorkoutRow{UserID: 1, Title: "Bench"})

	rec := doJSON(t, s, http.MethodPost, "/api/v1/plans", planRequest{
		Name:  "Week A",
		Items: []planItemRequest{{WorkoutID: w1}, {WorkoutID: w2}},
	}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var created map[string]string
	json.NewDecoder(rec.Body).Decode(&created)
	planID := created["id"]

	rec = doJSON(t, s, http.MethodGet, "/api/v1/plans/"+planID, nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var got struct {
		Plan  models.PlanRow       `json:"plan"`
		Items []models.PlanItemRow `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Plan.Name != "Week A" {
		t.Errorf("plan name = %q, want Week A", got.Plan.Name)
	}
	if len(got.Items) != 2 || got.Items[0].WorkoutID != w1 {
		t.Errorf("items = %+v, want [%s %s]", got.Items, w1, w2)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/v1/plans/"+planID+"/items",
		[]planItemRequest{{WorkoutID: w2}}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("replace items status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/plans/"+planID, nil, true)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
}

// TestIngestLogBatch verifies the session log endpoint stores one row per
// entry with reps and duration as nullable fields.
func TestIngestLogBatch(t *testing.T) {
	db := newFakeStore()
	s := testServer(db)

	batch := logBatchRequest{
		UserID:     1,
		Date:       time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		ElapsedSec: 1800,
		Logs: []models.ExerciseLog{
			{WorkoutID: uuid.NewString(), Title: "Squat", SetsCompleted: 5, Reps: 5},
			{WorkoutID: uuid.NewString(), Title: "Run", SetsCompleted: 1, DurationSec: 1200},
		},
	}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/logs", batch, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	if len(db.logs) != 2 {
		t.Fatalf("stored logs = %d, want 2", len(db.logs))
	}
	squat, run := db.logs[0], db.logs[1]
	if squat.Reps == nil || *squat.Reps != 5 {
		t.Errorf("squat reps = %v, want 5", squat.Reps)
	}
	if squat.DurationSec != nil {
		t.Errorf("squat duration = %v, want nil", squat.DurationSec)
	}
	if run.DurationSec == nil || *run.DurationSec != 1200 {
		t.Errorf("run duration = %v, want 1200", run.DurationSec)
	}
	if run.ElapsedSec != 1800 {
		t.Errorf("run elapsed = %d, want 1800", run.ElapsedSec)
	}
}

// TestIngestLogBatchEmpty verifies an empty batch is rejected.
func TestIngestLogBatchEmpty(t *testing.T) {
	s := testServer(newFakeStore())
	rec := doJSON(t, s, http.MethodPost, "/api/v1/logs", logBatchRequest{UserID: 1}, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestRecordUpsert verifies a new record reports improved and a weaker
// follow-up does not displace it.
func TestRecordUpsert(t *testing.T) {
	db := newFakeStore()
	s := testServer(db)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/records", recordRequest{
		ExerciseName: "Deadlift", WeightKg: 180, Reps: 3,
	}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Improved     bool    `json:"improved"`
		Estimated1RM float64 `json:"estimated_1rm"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if !resp.Improved {
		t.Error("first record: improved = false, want true")
	}
	if resp.Estimated1RM <= 180 {
		t.Errorf("estimated_1rm = %v, want > 180 for a triple", resp.Estimated1RM)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/records", recordRequest{
		ExerciseName: "Deadlift", WeightKg: 100, Reps: 1,
	}, true)
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Improved {
		t.Error("weaker record: improved = true, want false")
	}
}

// TestImportEndpoint verifies a social-media payload creates catalog
// workouts via the import provider.
func TestImportEndpoint(t *testing.T) {
	db := newFakeStore()
	s := testServer(db)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/imports", imports.Payload{
		Source: "instagram",
		URL:    "https://instagram.com/p/xyz",
		Exercises: []imports.PayloadExercise{
			{Title: "Lunge", Sets: 3, Reps: 12},
		},
	}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var result imports.Result
	json.NewDecoder(rec.Body).Decode(&result)
	if result.WorkoutsCreated != 1 {
		t.Errorf("workouts created = %d, want 1", result.WorkoutsCreated)
	}
	if len(db.workouts) != 1 {
		t.Errorf("stored workouts = %d, want 1", len(db.workouts))
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/imports", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var rows []models.ImportRow
	json.NewDecoder(rec.Body).Decode(&rows)
	if len(rows) != 1 || rows[0].Status != "imported" {
		t.Errorf("imports = %+v, want one row with status imported", rows)
	}
}

// TestImportUnknownSource verifies the endpoint surfaces provider
// validation as a 400.
func TestImportUnknownSource(t *testing.T) {
	s := testServer(newFakeStore())
	rec := doJSON(t, s, http.MethodPost, "/api/v1/imports", imports.Payload{
		Source: "myspace", URL: "https://x",
	}, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestTrainingSummary verifies the period query parameter selects the
// bucket and the handler passes results through.
func TestTrainingSummary(t *testing.T) {
	db := newFakeStore()
	db.summary = []storage.TrainingSummaryPeriod{
		{Sessions: 3, TotalSets: 42},
	}
	s := testServer(db)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/summary?period=monthly", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var periods []storage.TrainingSummaryPeriod
	json.NewDecoder(rec.Body).Decode(&periods)
	if len(periods) != 1 || periods[0].TotalSets != 42 {
		t.Errorf("periods = %+v, want one with 42 sets", periods)
	}
}

// TestCreateUser verifies the user upsert endpoint is idempotent on login.
func TestCreateUser(t *testing.T) {
	s := testServer(newFakeStore())

	body := map[string]string{"login": "alice", "display_name": "Alice"}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/users", body, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var first map[string]int
	json.NewDecoder(rec.Body).Decode(&first)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/users", body, true)
	var second map[string]int
	json.NewDecoder(rec.Body).Decode(&second)
	if first["id"] != second["id"] {
		t.Errorf("ids differ: %d vs %d, want same for same login", first["id"], second["id"])
	}
}
