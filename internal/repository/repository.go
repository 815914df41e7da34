package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/meltforce/gymtrack/internal/models"
	"github.com/meltforce/gymtrack/internal/storage"
)

// Repository aggregates the per-table store into session-level operations
// and publishes a change event after every committed mutation.
type Repository struct {
	db  *storage.DB
	hub *Hub
	log *slog.Logger

	appVersion string
	now        func() time.Time
}

// New creates a Repository. appVersion is stamped into export payloads.
func New(db *storage.DB, hub *Hub, appVersion string, log *slog.Logger) *Repository {
	return &Repository{
		db:         db,
		hub:        hub,
		log:        log,
		appVersion: appVersion,
		now:        time.Now,
	}
}

// Subscribe registers for change notifications.
func (r *Repository) Subscribe() (<-chan Event, func()) {
	return r.hub.Subscribe()
}

// --- Workouts ---

// CreateWorkout starts a new session. Any name is accepted, including empty.
func (r *Repository) CreateWorkout(ctx context.Context, name string) (int64, error) {
	id, err := r.db.InsertWorkout(ctx, models.Workout{Date: r.now(), Name: name})
	if err != nil {
		return 0, err
	}
	r.hub.Publish(EventWorkouts)
	return id, nil
}

// CompleteWorkout marks a session finished, recording its duration and notes.
func (r *Repository) CompleteWorkout(ctx context.Context, id int64, durationMinutes int, notes string) error {
	if err := r.db.CompleteWorkout(ctx, id, durationMinutes, notes); err != nil {
		return err
	}
	r.hub.Publish(EventWorkouts)
	return nil
}

// UpdateWorkout overwrites a workout's fields.
func (r *Repository) UpdateWorkout(ctx context.Context, w models.Workout) error {
	if err := r.db.UpdateWorkout(ctx, w); err != nil {
		return err
	}
	r.hub.Publish(EventWorkouts)
	return nil
}

// DeleteWorkout removes a session and, via cascade, its exercises and sets.
func (r *Repository) DeleteWorkout(ctx context.Context, id int64) error {
	if err := r.db.DeleteWorkout(ctx, id); err != nil {
		return err
	}
	r.hub.Publish(EventWorkouts)
	return nil
}

// ActiveWorkout returns the session in progress, if any.
func (r *Repository) ActiveWorkout(ctx context.Context) (*models.Workout, error) {
	return r.db.ActiveWorkout(ctx)
}

// Workouts lists all sessions, newest first.
func (r *Repository) Workouts(ctx context.Context) ([]models.Workout, error) {
	return r.db.ListWorkouts(ctx)
}

// WorkoutDetail returns one session with exercises and sets.
func (r *Repository) WorkoutDetail(ctx context.Context, id int64) (*models.WorkoutDetail, error) {
	return r.db.GetWorkoutDetail(ctx, id)
}

// --- Exercises ---

// AddExercise appends an exercise to a workout. The order index is the
// current max plus one (zero for the first exercise); it is advisory, not
// unique-enforced.
func (r *Repository) AddExercise(ctx context.Context, workoutID int64, name string, restTimeSeconds int) (int64, error) {
	if _, err := r.db.GetWorkout(ctx, workoutID); err != nil {
		return 0, err
	}
	if restTimeSeconds <= 0 {
		restTimeSeconds = models.DefaultRestSeconds
	}

	orderIndex := 0
	if max, ok, err := r.db.MaxOrderIndex(ctx, workoutID); err != nil {
		return 0, err
	} else if ok {
		orderIndex = max + 1
	}

	id, err := r.db.InsertExercise(ctx, models.Exercise{
		WorkoutID:       workoutID,
		Name:            name,
		OrderIndex:      orderIndex,
		RestTimeSeconds: restTimeSeconds,
	})
	if err != nil {
		return 0, err
	}
	r.hub.Publish(EventWorkouts)
	return id, nil
}

// UpdateExercise overwrites an exercise's fields.
func (r *Repository) UpdateExercise(ctx context.Context, ex models.Exercise) error {
	if err := r.db.UpdateExercise(ctx, ex); err != nil {
		return err
	}
	r.hub.Publish(EventWorkouts)
	return nil
}

// DeleteExercise removes an exercise and its sets.
func (r *Repository) DeleteExercise(ctx context.Context, id int64) error {
	if err := r.db.DeleteExercise(ctx, id); err != nil {
		return err
	}
	r.hub.Publish(EventWorkouts)
	return nil
}

// ExerciseNames lists every distinct exercise name ever logged.
func (r *Repository) ExerciseNames(ctx context.Context) ([]string, error) {
	return r.db.ExerciseNames(ctx)
}

// --- Sets ---

// AddSet appends a set to an exercise, numbered max+1 (one for the first).
// Values are stored as given; the caller decides whether to pre-populate
// from the previous set.
func (r *Repository) AddSet(ctx context.Context, exerciseID int64, reps int, weight float64, miorep *int) (int64, error) {
	if _, err := r.db.GetExercise(ctx, exerciseID); err != nil {
		return 0, err
	}

	setNumber := 1
	if max, ok, err := r.db.MaxSetNumber(ctx, exerciseID); err != nil {
		return 0, err
	} else if ok {
		setNumber = max + 1
	}

	id, err := r.db.InsertSet(ctx, models.ExerciseSet{
		ExerciseID: exerciseID,
		SetNumber:  setNumber,
		Reps:       reps,
		Weight:     weight,
		Miorep:     miorep,
		Timestamp:  r.now(),
	})
	if err != nil {
		return 0, err
	}
	r.hub.Publish(EventWorkouts)
	return id, nil
}

// UpdateSetValues overwrites a set's reps, weight and miorep.
func (r *Repository) UpdateSetValues(ctx context.Context, setID int64, reps int, weight float64, miorep *int) error {
	if err := r.db.UpdateSetValues(ctx, setID, reps, weight, miorep); err != nil {
		return err
	}
	r.hub.Publish(EventWorkouts)
	return nil
}

// ToggleSetCompletion flips a set's completed flag. Rest-timer side effects
// belong to the caller; this only persists.
func (r *Repository) ToggleSetCompletion(ctx context.Context, setID int64, completed bool) error {
	if err := r.db.SetSetCompletion(ctx, setID, completed); err != nil {
		return err
	}
	r.hub.Publish(EventWorkouts)
	return nil
}

// DeleteSet removes a single set.
func (r *Repository) DeleteSet(ctx context.Context, id int64) error {
	if err := r.db.DeleteSet(ctx, id); err != nil {
		return err
	}
	r.hub.Publish(EventWorkouts)
	return nil
}

// LastSetValues returns the most recent completed set for an exercise name,
// used to pre-populate new sets.
func (r *Repository) LastSetValues(ctx context.Context, exerciseName string) (*models.ExerciseSet, error) {
	return r.db.LastCompletedSet(ctx, exerciseName)
}

// LastWorkoutSets returns all sets of the most recent completed workout
// containing the exercise name.
func (r *Repository) LastWorkoutSets(ctx context.Context, exerciseName string) ([]models.ExerciseSet, error) {
	return r.db.SetsFromLastWorkout(ctx, exerciseName)
}

// --- Templates ---

// CreateTemplate creates a session blueprint.
func (r *Repository) CreateTemplate(ctx context.Context, name, description string) (int64, error) {
	id, err := r.db.InsertTemplate(ctx, models.SessionTemplate{
		Name:        name,
		Description: description,
		CreatedAt:   r.now(),
	})
	if err != nil {
		return 0, err
	}
	r.hub.Publish(EventTemplates)
	return id, nil
}

// UpdateTemplate overwrites a template's name and description.
func (r *Repository) UpdateTemplate(ctx context.Context, t models.SessionTemplate) error {
	if err := r.db.UpdateTemplate(ctx, t); err != nil {
		return err
	}
	r.hub.Publish(EventTemplates)
	return nil
}

// DeleteTemplate removes a template and its exercise slots.
func (r *Repository) DeleteTemplate(ctx context.Context, id int64) error {
	if err := r.db.DeleteTemplate(ctx, id); err != nil {
		return err
	}
	r.hub.Publish(EventTemplates)
	return nil
}

// Templates lists all templates with their exercises.
func (r *Repository) Templates(ctx context.Context) ([]models.TemplateDetail, error) {
	return r.db.ListTemplateDetails(ctx)
}

// TemplateDetail returns one template with its exercises.
func (r *Repository) TemplateDetail(ctx context.Context, id int64) (*models.TemplateDetail, error) {
	return r.db.GetTemplateDetail(ctx, id)
}

// AddTemplateExercise appends an exercise slot to a template.
func (r *Repository) AddTemplateExercise(ctx context.Context, templateID int64, name string, defaultSetsCount, restTimeSeconds int) (int64, error) {
	if _, err := r.db.GetTemplate(ctx, templateID); err != nil {
		return 0, err
	}
	if defaultSetsCount <= 0 {
		defaultSetsCount = models.DefaultSetsCount
	}
	if restTimeSeconds <= 0 {
		restTimeSeconds = models.DefaultRestSeconds
	}

	orderIndex := 0
	if max, ok, err := r.db.MaxTemplateOrderIndex(ctx, templateID); err != nil {
		return 0, err
	} else if ok {
		orderIndex = max + 1
	}

	id, err := r.db.InsertTemplateExercise(ctx, models.TemplateExercise{
		TemplateID:       templateID,
		Name:             name,
		OrderIndex:       orderIndex,
		DefaultSetsCount: defaultSetsCount,
		RestTimeSeconds:  restTimeSeconds,
	})
	if err != nil {
		return 0, err
	}
	r.hub.Publish(EventTemplates)
	return id, nil
}

// UpdateTemplateExercise overwrites a template exercise's fields.
func (r *Repository) UpdateTemplateExercise(ctx context.Context, ex models.TemplateExercise) error {
	if err := r.db.UpdateTemplateExercise(ctx, ex); err != nil {
		return err
	}
	r.hub.Publish(EventTemplates)
	return nil
}

// DeleteTemplateExercise removes a single exercise slot.
func (r *Repository) DeleteTemplateExercise(ctx context.Context, id int64) error {
	if err := r.db.DeleteTemplateExercise(ctx, id); err != nil {
		return err
	}
	r.hub.Publish(EventTemplates)
	return nil
}

// CreateWorkoutFromTemplate instantiates a template into a new workout. Each
// slot becomes an exercise copying name, order and rest time. Sets are
// seeded from the most recent completed workout containing the same exercise
// name (all its sets, renumbered 1..K); with no history, defaultSetsCount
// empty sets are created instead. The whole construction commits atomically.
func (r *Repository) CreateWorkoutFromTemplate(ctx context.Context, templateID int64) (int64, error) {
	template, err := r.db.GetTemplateDetail(ctx, templateID)
	if err != nil {
		return 0, err
	}

	// History lookups happen before the write transaction; there is a
	// single writer, so the snapshot cannot go stale underneath it.
	history := make(map[string][]models.ExerciseSet, len(template.Exercises))
	for _, slot := range template.Exercises {
		if _, ok := history[slot.Name]; ok {
			continue
		}
		sets, err := r.db.SetsFromLastWorkout(ctx, slot.Name)
		if err != nil {
			return 0, err
		}
		history[slot.Name] = sets
	}

	now := r.now()
	var workoutID int64
	err = r.db.InTx(ctx, func(tx *sql.Tx) error {
		workoutID, err = storage.InsertWorkoutTx(ctx, tx, models.Workout{Date: now, Name: template.Name})
		if err != nil {
			return err
		}

		for _, slot := range template.Exercises {
			exerciseID, err := storage.InsertExerciseTx(ctx, tx, models.Exercise{
				WorkoutID:       workoutID,
				Name:            slot.Name,
				OrderIndex:      slot.OrderIndex,
				RestTimeSeconds: slot.RestTimeSeconds,
			})
			if err != nil {
				return err
			}

			lastSets := history[slot.Name]
			if len(lastSets) > 0 {
				for i, last := range lastSets {
					_, err := storage.InsertSetTx(ctx, tx, models.ExerciseSet{
						ExerciseID: exerciseID,
						SetNumber:  i + 1,
						Reps:       last.Reps,
						Weight:     last.Weight,
						Miorep:     last.Miorep,
						Timestamp:  now,
					})
					if err != nil {
						return err
					}
				}
				continue
			}

			for setNumber := 1; setNumber <= slot.DefaultSetsCount; setNumber++ {
				_, err := storage.InsertSetTx(ctx, tx, models.ExerciseSet{
					ExerciseID: exerciseID,
					SetNumber:  setNumber,
					Timestamp:  now,
				})
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("creating workout from template: %w", err)
	}

	r.hub.Publish(EventWorkouts)
	return workoutID, nil
}

// --- Progress ---

// ProgressForExercise derives the progress series for an exercise name from
// the current completed-workout snapshot. Consumers subscribed to the hub
// re-invoke this on every workout change.
func (r *Repository) ProgressForExercise(ctx context.Context, name string) (models.ExerciseProgress, error) {
	completed, err := r.db.ListWorkoutDetails(ctx, true)
	if err != nil {
		return models.ExerciseProgress{}, err
	}
	return models.ProgressForExercise(name, completed), nil
}

// MuscleGroupStats derives per-muscle-group training stats from the current
// completed-workout snapshot.
func (r *Repository) MuscleGroupStats(ctx context.Context) ([]models.MuscleGroupStats, error) {
	completed, err := r.db.ListWorkoutDetails(ctx, true)
	if err != nil {
		return nil, err
	}
	return models.MuscleGroupStatsFor(completed), nil
}

// --- Export / import / wipe ---

// ExportAll snapshots every workout (completed or not) with nested exercises
// and sets into the interchange payload.
func (r *Repository) ExportAll(ctx context.Context) (models.ExportData, error) {
	workouts, err := r.db.ListWorkoutDetails(ctx, false)
	if err != nil {
		return models.ExportData{}, err
	}
	return models.NewExportData(workouts, r.appVersion, r.now()), nil
}

// Import appends every workout in the payload as brand-new rows; identities
// are reassigned and nothing is deduplicated, so importing the same file
// twice doubles the data. Returns workouts and exercises imported.
func (r *Repository) Import(ctx context.Context, data models.ExportData) (workouts, exercises int, err error) {
	err = r.db.InTx(ctx, func(tx *sql.Tx) error {
		for _, we := range data.Workouts {
			workoutID, err := storage.InsertWorkoutTx(ctx, tx, models.Workout{
				Date:            time.UnixMilli(we.Date),
				Name:            we.Name,
				Notes:           we.Notes,
				DurationMinutes: we.DurationMinutes,
				IsCompleted:     we.IsCompleted,
			})
			if err != nil {
				return err
			}
			workouts++

			for _, ee := range we.Exercises {
				exerciseID, err := storage.InsertExerciseTx(ctx, tx, models.Exercise{
					WorkoutID:       workoutID,
					Name:            ee.Name,
					OrderIndex:      ee.OrderIndex,
					RestTimeSeconds: models.DefaultRestSeconds,
				})
				if err != nil {
					return err
				}
				exercises++

				for _, se := range ee.Sets {
					_, err := storage.InsertSetTx(ctx, tx, models.ExerciseSet{
						ExerciseID:  exerciseID,
						SetNumber:   se.SetNumber,
						Reps:        se.Reps,
						Weight:      se.Weight,
						Miorep:      se.Miorep,
						IsCompleted: se.IsCompleted,
						Timestamp:   time.UnixMilli(se.Timestamp),
					})
					if err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("importing data: %w", err)
	}

	r.log.Info("import finished", "workouts", workouts, "exercises", exercises)
	r.hub.Publish(EventWorkouts)
	return workouts, exercises, nil
}

// DeleteAll wipes every workout and template. Children go with them via
// cascade. There is no undo.
func (r *Repository) DeleteAll(ctx context.Context) error {
	if err := r.db.DeleteAllWorkouts(ctx); err != nil {
		return err
	}
	if err := r.db.DeleteAllTemplates(ctx); err != nil {
		return err
	}
	r.hub.Publish(EventWorkouts)
	r.hub.Publish(EventTemplates)
	return nil
}
