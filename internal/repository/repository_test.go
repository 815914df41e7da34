package repository

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/meltforce/gymtrack/internal/models"
	"github.com/meltforce/gymtrack/internal/storage"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, NewHub(), "test", slog.New(slog.DiscardHandler))
}

// TestAddExerciseOrdering verifies order indices come out 0, 1, 2 for
// consecutive additions and that the rest time default applies.
func TestAddExerciseOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	workoutID, err := repo.CreateWorkout(ctx, "Push")
	if err != nil {
		t.Fatalf("CreateWorkout: %v", err)
	}

	for _, name := range []string{"Bench", "OHP", "Dips"} {
		if _, err := repo.AddExercise(ctx, workoutID, name, 0); err != nil {
			t.Fatalf("AddExercise(%s): %v", name, err)
		}
	}

	detail, err := repo.WorkoutDetail(ctx, workoutID)
	if err != nil {
		t.Fatalf("WorkoutDetail: %v", err)
	}
	if len(detail.Exercises) != 3 {
		t.Fatalf("len(Exercises) = %d, want 3", len(detail.Exercises))
	}
	for i, ex := range detail.Exercises {
		if ex.OrderIndex != i {
			t.Errorf("exercise %d order index = %d, want %d", i, ex.OrderIndex, i)
		}
		if ex.RestTimeSeconds != models.DefaultRestSeconds {
			t.Errorf("exercise %d rest = %d, want default %d", i, ex.RestTimeSeconds, models.DefaultRestSeconds)
		}
	}
}

// TestAddExerciseUnknownWorkout verifies validation before insert.
func TestAddExerciseUnknownWorkout(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.AddExercise(context.Background(), 999, "Bench", 0)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want models.ErrNotFound", err)
	}
}

// TestAddSetNumbering verifies sets number 1, 2, 3 within an exercise.
func TestAddSetNumbering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	workoutID, _ := repo.CreateWorkout(ctx, "")
	exerciseID, err := repo.AddExercise(ctx, workoutID, "Squat", 180)
	if err != nil {
		t.Fatalf("AddExercise: %v", err)
	}

	for range 3 {
		if _, err := repo.AddSet(ctx, exerciseID, 5, 100, nil); err != nil {
			t.Fatalf("AddSet: %v", err)
		}
	}

	detail, err := repo.WorkoutDetail(ctx, workoutID)
	if err != nil {
		t.Fatalf("WorkoutDetail: %v", err)
	}
	sets := detail.Exercises[0].Sets
	if len(sets) != 3 {
		t.Fatalf("len(Sets) = %d, want 3", len(sets))
	}
	for i, set := range sets {
		if set.SetNumber != i+1 {
			t.Errorf("set %d number = %d, want %d", i, set.SetNumber, i+1)
		}
	}
}

// buildCompletedWorkout logs and completes one workout with a single
// exercise and its sets, returning the workout ID.
func buildCompletedWorkout(t *testing.T, repo *Repository, exercise string, weights ...float64) int64 {
	t.Helper()
	ctx := context.Background()

	workoutID, err := repo.CreateWorkout(ctx, "history")
	if err != nil {
		t.Fatalf("CreateWorkout: %v", err)
	}
	exerciseID, err := repo.AddExercise(ctx, workoutID, exercise, 120)
	if err != nil {
		t.Fatalf("AddExercise: %v", err)
	}
	for _, weight := range weights {
		setID, err := repo.AddSet(ctx, exerciseID, 5, weight, nil)
		if err != nil {
			t.Fatalf("AddSet: %v", err)
		}
		if err := repo.ToggleSetCompletion(ctx, setID, true); err != nil {
			t.Fatalf("ToggleSetCompletion: %v", err)
		}
	}
	if err := repo.CompleteWorkout(ctx, workoutID, 45, ""); err != nil {
		t.Fatalf("CompleteWorkout: %v", err)
	}
	return workoutID
}

// TestCreateWorkoutFromTemplateWithHistory verifies instantiation copies the
// last completed workout's sets for each slot, renumbered from one.
func TestCreateWorkoutFromTemplateWithHistory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	buildCompletedWorkout(t, repo, "Squat", 100, 105)

	templateID, err := repo.CreateTemplate(ctx, "Leg day", "squats first")
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if _, err := repo.AddTemplateExercise(ctx, templateID, "Squat", 0, 0); err != nil {
		t.Fatalf("AddTemplateExercise: %v", err)
	}

	workoutID, err := repo.CreateWorkoutFromTemplate(ctx, templateID)
	if err != nil {
		t.Fatalf("CreateWorkoutFromTemplate: %v", err)
	}

	detail, err := repo.WorkoutDetail(ctx, workoutID)
	if err != nil {
		t.Fatalf("WorkoutDetail: %v", err)
	}
	if detail.Name != "Leg day" {
		t.Errorf("workout name = %q, want template name", detail.Name)
	}
	if len(detail.Exercises) != 1 {
		t.Fatalf("len(Exercises) = %d, want 1", len(detail.Exercises))
	}

	sets := detail.Exercises[0].Sets
	if len(sets) != 2 {
		t.Fatalf("len(Sets) = %d, want 2 copied from history", len(sets))
	}
	for i, set := range sets {
		if set.SetNumber != i+1 {
			t.Errorf("set %d number = %d, want %d", i, set.SetNumber, i+1)
		}
		if set.IsCompleted {
			t.Errorf("copied set %d must start uncompleted", i)
		}
	}
	if sets[0].Weight != 100 || sets[1].Weight != 105 {
		t.Errorf("weights = [%v, %v], want [100, 105]", sets[0].Weight, sets[1].Weight)
	}
}

// TestCreateWorkoutFromTemplateNoHistory verifies the fallback: the default
// sets count of empty sets.
func TestCreateWorkoutFromTemplateNoHistory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	templateID, err := repo.CreateTemplate(ctx, "Pull day", "")
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if _, err := repo.AddTemplateExercise(ctx, templateID, "Row", 4, 90); err != nil {
		t.Fatalf("AddTemplateExercise: %v", err)
	}

	workoutID, err := repo.CreateWorkoutFromTemplate(ctx, templateID)
	if err != nil {
		t.Fatalf("CreateWorkoutFromTemplate: %v", err)
	}

	detail, err := repo.WorkoutDetail(ctx, workoutID)
	if err != nil {
		t.Fatalf("WorkoutDetail: %v", err)
	}
	ex := detail.Exercises[0]
	if ex.RestTimeSeconds != 90 {
		t.Errorf("rest = %d, want 90 from slot", ex.RestTimeSeconds)
	}
	if len(ex.Sets) != 4 {
		t.Fatalf("len(Sets) = %d, want 4 empty sets", len(ex.Sets))
	}
	for i, set := range ex.Sets {
		if set.Reps != 0 || set.Weight != 0 {
			t.Errorf("set %d = %d reps %v kg, want empty", i, set.Reps, set.Weight)
		}
	}
}

// TestExportImportRoundTrip verifies that exporting and re-importing doubles
// the workout count (import is append-only) and preserves set values.
func TestExportImportRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	two := 2
	workoutID, _ := repo.CreateWorkout(ctx, "Push")
	exerciseID, _ := repo.AddExercise(ctx, workoutID, "Bench", 120)
	setID, err := repo.AddSet(ctx, exerciseID, 5, 80, &two)
	if err != nil {
		t.Fatalf("AddSet: %v", err)
	}
	if err := repo.ToggleSetCompletion(ctx, setID, true); err != nil {
		t.Fatalf("ToggleSetCompletion: %v", err)
	}
	if err := repo.CompleteWorkout(ctx, workoutID, 50, "solid"); err != nil {
		t.Fatalf("CompleteWorkout: %v", err)
	}

	export, err := repo.ExportAll(ctx)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if len(export.Workouts) != 1 {
		t.Fatalf("len(Workouts) = %d, want 1", len(export.Workouts))
	}
	if export.AppVersion != "test" {
		t.Errorf("AppVersion = %q, want test", export.AppVersion)
	}

	workouts, exercises, err := repo.Import(ctx, export)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if workouts != 1 || exercises != 1 {
		t.Errorf("imported %d workouts %d exercises, want 1 and 1", workouts, exercises)
	}

	all, err := repo.Workouts(ctx)
	if err != nil {
		t.Fatalf("Workouts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2 (append-only import)", len(all))
	}

	// The imported copy carries the same set values
	imported, err := repo.WorkoutDetail(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("WorkoutDetail: %v", err)
	}
	if imported.ID == workoutID {
		imported, err = repo.WorkoutDetail(ctx, all[1].ID)
		if err != nil {
			t.Fatalf("WorkoutDetail: %v", err)
		}
	}
	set := imported.Exercises[0].Sets[0]
	if set.Reps != 5 || set.Weight != 80 || set.Miorep == nil || *set.Miorep != 2 {
		t.Errorf("imported set = %+v, want 5x80 miorep 2", set)
	}
	if !set.IsCompleted {
		t.Error("imported set should keep its completed flag")
	}
}

// TestDeleteAll verifies the wipe removes workouts and templates and
// publishes both event kinds.
func TestDeleteAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	buildCompletedWorkout(t, repo, "Squat", 100)
	if _, err := repo.CreateTemplate(ctx, "Legs", ""); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	events, cancel := repo.Subscribe()
	defer cancel()

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}

	workouts, _ := repo.Workouts(ctx)
	if len(workouts) != 0 {
		t.Errorf("workouts left = %d, want 0", len(workouts))
	}
	templates, _ := repo.Templates(ctx)
	if len(templates) != 0 {
		t.Errorf("templates left = %d, want 0", len(templates))
	}

	kinds := map[EventKind]bool{}
	for range 2 {
		select {
		case ev := <-events:
			kinds[ev.Kind] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	if !kinds[EventWorkouts] || !kinds[EventTemplates] {
		t.Errorf("event kinds = %v, want workouts and templates", kinds)
	}
}

// TestLastSetValuesNoHistory verifies a nil prefill with no history.
func TestLastSetValuesNoHistory(t *testing.T) {
	repo := newTestRepo(t)

	set, err := repo.LastSetValues(context.Background(), "Deadlift")
	if err != nil {
		t.Fatalf("LastSetValues: %v", err)
	}
	if set != nil {
		t.Errorf("set = %+v, want nil", set)
	}
}

// TestProgressFromRepository verifies the derived series only sees completed
// workouts.
func TestProgressFromRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	buildCompletedWorkout(t, repo, "Squat", 100)

	// Active workout with a completed set must not appear
	workoutID, _ := repo.CreateWorkout(ctx, "wip")
	exerciseID, _ := repo.AddExercise(ctx, workoutID, "Squat", 120)
	setID, _ := repo.AddSet(ctx, exerciseID, 5, 200, nil)
	if err := repo.ToggleSetCompletion(ctx, setID, true); err != nil {
		t.Fatalf("ToggleSetCompletion: %v", err)
	}

	progress, err := repo.ProgressForExercise(ctx, "squat")
	if err != nil {
		t.Fatalf("ProgressForExercise: %v", err)
	}
	if len(progress.DataPoints) != 1 {
		t.Fatalf("len(DataPoints) = %d, want 1", len(progress.DataPoints))
	}
	if progress.DataPoints[0].MaxWeight != 100 {
		t.Errorf("max weight = %v, want 100 (active workout excluded)", progress.DataPoints[0].MaxWeight)
	}
}
