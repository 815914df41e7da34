package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/gymtrack/internal/models"
	"github.com/meltforce/gymtrack/internal/repository"
	"github.com/meltforce/gymtrack/internal/resttimer"
	"github.com/meltforce/gymtrack/internal/settings"
	"github.com/meltforce/gymtrack/internal/storage"
)

const testAPIKey = "test-key-123"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := slog.New(slog.DiscardHandler)
	hub := repository.NewHub()
	repo := repository.New(db, hub, "test", log)
	store := settings.NewStore(db, hub)
	timer := resttimer.New(nil, resttimer.NopAlerter{}, log)
	t.Cleanup(timer.Close)

	return New(repo, store, timer, testAPIKey, log)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, strings.NewReader("{}"))
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func createWorkout(t *testing.T, s *Server, name string) int64 {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", fmt.Sprintf(`{"name":%q}`, name))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create workout status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.ID
}

// TestWorkoutLifecycle walks create → add exercise → add set → complete →
// fetch detail through the HTTP surface.
func TestWorkoutLifecycle(t *testing.T) {
	s := newTestServer(t)

	workoutID := createWorkout(t, s, "Push day")

	rec := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/workouts/%d/exercises", workoutID),
		`{"name":"Bench","restTimeSeconds":120}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add exercise status = %d: %s", rec.Code, rec.Body)
	}
	var exResp struct {
		ID int64 `json:"id"`
	}
	json.NewDecoder(rec.Body).Decode(&exResp)

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/exercises/%d/sets", exResp.ID),
		`{"reps":5,"weight":80,"miorep":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add set status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/workouts/%d/complete", workoutID),
		`{"durationMinutes":45,"notes":"good"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("complete status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/v1/workouts/%d", workoutID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d: %s", rec.Code, rec.Body)
	}
	var detail models.WorkoutDetail
	if err := json.NewDecoder(rec.Body).Decode(&detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if !detail.IsCompleted {
		t.Error("workout should be completed")
	}
	if len(detail.Exercises) != 1 || len(detail.Exercises[0].Sets) != 1 {
		t.Fatalf("detail = %+v, want 1 exercise with 1 set", detail)
	}
	set := detail.Exercises[0].Sets[0]
	if set.Miorep == nil || *set.Miorep != 2 {
		t.Errorf("miorep = %v, want 2", set.Miorep)
	}
}

// TestGetWorkoutNotFound verifies unknown IDs return 404.
func TestGetWorkoutNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/workouts/999", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestActiveWorkoutEmpty verifies the active endpoint returns null, not an
// error, when no session is in progress.
func TestActiveWorkoutEmpty(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/workouts/active", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "null" {
		t.Errorf("body = %q, want null", rec.Body.String())
	}
}

// TestSetCompletionStartsTimer verifies checking a set off starts the rest
// timer with the supplied rest time.
func TestSetCompletionStartsTimer(t *testing.T) {
	s := newTestServer(t)

	workoutID := createWorkout(t, s, "")
	rec := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/workouts/%d/exercises", workoutID),
		`{"name":"Squat"}`)
	var exResp struct {
		ID int64 `json:"id"`
	}
	json.NewDecoder(rec.Body).Decode(&exResp)

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/exercises/%d/sets", exResp.ID),
		`{"reps":5,"weight":100}`)
	var setResp struct {
		ID int64 `json:"id"`
	}
	json.NewDecoder(rec.Body).Decode(&setResp)

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/sets/%d/complete", setResp.ID),
		`{"completed":true,"restTimeSeconds":90}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var state resttimer.State
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !state.Running || state.Total != 90 {
		t.Errorf("timer state = %+v, want running 90s", state)
	}
}

// TestTemplateStart verifies POST /templates/{id}/start returns the
// instantiated workout with default empty sets.
func TestTemplateStart(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/templates", `{"name":"Leg day"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create template status = %d: %s", rec.Code, rec.Body)
	}
	var tResp struct {
		ID int64 `json:"id"`
	}
	json.NewDecoder(rec.Body).Decode(&tResp)

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/templates/%d/exercises", tResp.ID),
		`{"name":"Squat","defaultSetsCount":3,"restTimeSeconds":180}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add slot status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/templates/%d/start", tResp.ID), "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body)
	}
	var detail models.WorkoutDetail
	if err := json.NewDecoder(rec.Body).Decode(&detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Name != "Leg day" {
		t.Errorf("workout name = %q, want template name", detail.Name)
	}
	if len(detail.Exercises) != 1 || len(detail.Exercises[0].Sets) != 3 {
		t.Fatalf("detail = %+v, want 1 exercise with 3 empty sets", detail)
	}
}

// TestProgressRequiresExercise verifies the query parameter guard.
func TestProgressRequiresExercise(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/progress", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestMuscleGroupStatsEndpoint verifies completed training rolls up into
// per-muscle-group stats.
func TestMuscleGroupStatsEndpoint(t *testing.T) {
	s := newTestServer(t)

	workoutID := createWorkout(t, s, "Legs")
	rec := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/workouts/%d/exercises", workoutID),
		`{"name":"Squat"}`)
	var exResp struct {
		ID int64 `json:"id"`
	}
	json.NewDecoder(rec.Body).Decode(&exResp)

	for range 2 {
		rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/exercises/%d/sets", exResp.ID),
			`{"reps":5,"weight":100}`)
		var setResp struct {
			ID int64 `json:"id"`
		}
		json.NewDecoder(rec.Body).Decode(&setResp)
		doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/sets/%d/complete", setResp.ID),
			`{"completed":true}`)
	}
	doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/workouts/%d/complete", workoutID), "")

	rec = doJSON(t, s, http.MethodGet, "/api/v1/progress/muscle-groups", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var stats []models.MuscleGroupStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("stats = %+v, want one group", stats)
	}
	if stats[0].MuscleGroup != models.GroupLegs || stats[0].TotalSets != 2 || stats[0].TotalWorkouts != 1 {
		t.Errorf("stats[0] = %+v, want 2 leg sets in 1 workout", stats[0])
	}
}

// TestExerciseCatalog verifies the built-in exercise library is served.
func TestExerciseCatalog(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/exercises/catalog", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var names []string
	if err := json.NewDecoder(rec.Body).Decode(&names); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(names) != len(models.ExerciseCatalog) {
		t.Errorf("len = %d, want %d", len(names), len(models.ExerciseCatalog))
	}
}

// TestImportAuth verifies the API key gate on the import endpoint.
func TestImportAuth(t *testing.T) {
	s := newTestServer(t)
	payload := `{"exportDate":0,"appVersion":"test","workouts":[]}`

	// Missing key
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key status = %d, want 401", rec.Code)
	}

	// Wrong key
	req = httptest.NewRequest(http.MethodPost, "/api/v1/import", strings.NewReader(payload))
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec.Code)
	}

	// Correct key
	req = httptest.NewRequest(http.MethodPost, "/api/v1/import", strings.NewReader(payload))
	req.Header.Set("X-API-Key", testAPIKey)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("correct key status = %d: %s", rec.Code, rec.Body)
	}
}

// TestExportImportOverHTTP verifies a full export → import cycle through the
// HTTP surface appends the data.
func TestExportImportOverHTTP(t *testing.T) {
	s := newTestServer(t)

	workoutID := createWorkout(t, s, "Pull")
	doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/workouts/%d/exercises", workoutID), `{"name":"Row"}`)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	exported := rec.Body.String()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", strings.NewReader(exported))
	req.Header.Set("X-API-Key", testAPIKey)
	importRec := httptest.NewRecorder()
	s.ServeHTTP(importRec, req)
	if importRec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", importRec.Code, importRec.Body)
	}

	var result struct {
		WorkoutsImported  int `json:"workoutsImported"`
		ExercisesImported int `json:"exercisesImported"`
	}
	if err := json.NewDecoder(importRec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.WorkoutsImported != 1 || result.ExercisesImported != 1 {
		t.Errorf("result = %+v, want 1 workout 1 exercise", result)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/workouts", "")
	var workouts []models.Workout
	json.NewDecoder(rec.Body).Decode(&workouts)
	if len(workouts) != 2 {
		t.Errorf("len(workouts) = %d, want 2 after append-only import", len(workouts))
	}
}

// TestDeleteAllRequiresKey verifies the wipe endpoint is key-gated and works.
func TestDeleteAllRequiresKey(t *testing.T) {
	s := newTestServer(t)
	createWorkout(t, s, "doomed")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/data", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no key status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/data", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	listRec := doJSON(t, s, http.MethodGet, "/api/v1/workouts", "")
	if strings.TrimSpace(listRec.Body.String()) != "null" && strings.TrimSpace(listRec.Body.String()) != "[]" {
		t.Errorf("workouts after wipe = %s, want empty", listRec.Body)
	}
}

// TestSettingsRoundTrip verifies defaults come back and updates stick.
func TestSettingsRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var prefs settings.Settings
	json.NewDecoder(rec.Body).Decode(&prefs)
	if !prefs.DarkTheme || prefs.ThemeColor != settings.ColorGreen {
		t.Errorf("defaults = %+v, want dark green", prefs)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/v1/settings", `{"themeColor":"teal","welcomeText":"allez"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body)
	}
	json.NewDecoder(rec.Body).Decode(&prefs)
	if prefs.ThemeColor != settings.ColorTeal || prefs.WelcomeText != "allez" {
		t.Errorf("updated = %+v, want teal/allez", prefs)
	}
}

// TestTimerEndpoints verifies start, state, stop and ack.
func TestTimerEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/timer/start", `{"totalSeconds":60}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body)
	}
	var state resttimer.State
	json.NewDecoder(rec.Body).Decode(&state)
	if !state.Running || state.Total != 60 {
		t.Errorf("state = %+v, want running 60s", state)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/timer/start", `{"totalSeconds":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero-length start status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/timer/stop", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stop status = %d", rec.Code)
	}
	json.NewDecoder(rec.Body).Decode(&state)
	if state.Running {
		t.Errorf("state = %+v, want stopped", state)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/timer/ack", "")
	if rec.Code != http.StatusOK {
		t.Errorf("ack status = %d", rec.Code)
	}

	// Give the countdown goroutine a beat to exit cleanly before teardown.
	time.Sleep(10 * time.Millisecond)
}
