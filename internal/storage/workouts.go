package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/meltforce/gymtrack/internal/models"
)

// Timestamps are stored as epoch milliseconds, the same representation the
// export format uses.

// InsertWorkout inserts a workout row and returns its id.
func (db *DB) InsertWorkout(ctx context.Context, w models.Workout) (int64, error) {
	return insertWorkout(ctx, db.sql, w)
}

func insertWorkout(ctx context.Context, q execer, w models.Workout) (int64, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO workouts (date, name, notes, duration_minutes, is_completed)
		 VALUES (?, ?, ?, ?, ?)`,
		w.Date.UnixMilli(), w.Name, w.Notes, w.DurationMinutes, w.IsCompleted)
	if err != nil {
		return 0, fmt.Errorf("inserting workout: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading workout id: %w", err)
	}
	return id, nil
}

// GetWorkout retrieves a single workout by id.
func (db *DB) GetWorkout(ctx context.Context, id int64) (*models.Workout, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT id, date, name, notes, duration_minutes, is_completed
		 FROM workouts WHERE id = ?`, id)
	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workout %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}
	return w, nil
}

// ActiveWorkout returns the current non-completed workout, or nil when every
// session is finished.
func (db *DB) ActiveWorkout(ctx context.Context) (*models.Workout, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT id, date, name, notes, duration_minutes, is_completed
		 FROM workouts WHERE is_completed = 0 ORDER BY date DESC LIMIT 1`)
	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying active workout: %w", err)
	}
	return w, nil
}

// ListWorkouts retrieves all workouts, newest first.
func (db *DB) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, date, name, notes, duration_minutes, is_completed
		 FROM workouts ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

// CompleteWorkout marks a workout completed and stores duration and notes.
func (db *DB) CompleteWorkout(ctx context.Context, id int64, durationMinutes int, notes string) error {
	res, err := db.sql.ExecContext(ctx,
		`UPDATE workouts SET is_completed = 1, duration_minutes = ?, notes = ? WHERE id = ?`,
		durationMinutes, notes, id)
	if err != nil {
		return fmt.Errorf("completing workout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("workout %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// UpdateWorkout overwrites a workout's mutable fields.
func (db *DB) UpdateWorkout(ctx context.Context, w models.Workout) error {
	res, err := db.sql.ExecContext(ctx,
		`UPDATE workouts SET date = ?, name = ?, notes = ?, duration_minutes = ?, is_completed = ?
		 WHERE id = ?`,
		w.Date.UnixMilli(), w.Name, w.Notes, w.DurationMinutes, w.IsCompleted, w.ID)
	if err != nil {
		return fmt.Errorf("updating workout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("workout %d: %w", w.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteWorkout deletes a workout; exercises and sets cascade.
func (db *DB) DeleteWorkout(ctx context.Context, id int64) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("workout %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// DeleteAllWorkouts removes every workout (and, via cascade, every exercise
// and set).
func (db *DB) DeleteAllWorkouts(ctx context.Context) error {
	if _, err := db.sql.ExecContext(ctx, `DELETE FROM workouts`); err != nil {
		return fmt.Errorf("deleting workouts: %w", err)
	}
	return nil
}

// GetWorkoutDetail retrieves a workout with its exercises and sets.
func (db *DB) GetWorkoutDetail(ctx context.Context, id int64) (*models.WorkoutDetail, error) {
	w, err := db.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}

	exercises, err := db.ListExercisesForWorkout(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.WorkoutDetail{Workout: *w, Exercises: make([]models.ExerciseDetail, 0, len(exercises))}
	for _, ex := range exercises {
		sets, err := db.ListSetsForExercise(ctx, ex.ID)
		if err != nil {
			return nil, err
		}
		detail.Exercises = append(detail.Exercises, models.ExerciseDetail{Exercise: ex, Sets: sets})
	}
	return detail, nil
}

// ListWorkoutDetails retrieves all workouts (optionally completed only) with
// their exercises and sets, newest workout first. Assembled in memory; the
// data volume is a single user's history.
func (db *DB) ListWorkoutDetails(ctx context.Context, onlyCompleted bool) ([]models.WorkoutDetail, error) {
	query := `SELECT id, date, name, notes, duration_minutes, is_completed
	          FROM workouts ORDER BY date DESC, id DESC`
	if onlyCompleted {
		query = `SELECT id, date, name, notes, duration_minutes, is_completed
		         FROM workouts WHERE is_completed = 1 ORDER BY date DESC, id DESC`
	}
	rows, err := db.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var workouts []models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		workouts = append(workouts, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exByWorkout, err := db.exercisesByWorkout(ctx)
	if err != nil {
		return nil, err
	}
	setsByExercise, err := db.setsByExercise(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]models.WorkoutDetail, 0, len(workouts))
	for _, w := range workouts {
		detail := models.WorkoutDetail{Workout: w}
		for _, ex := range exByWorkout[w.ID] {
			detail.Exercises = append(detail.Exercises, models.ExerciseDetail{
				Exercise: ex,
				Sets:     setsByExercise[ex.ID],
			})
		}
		details = append(details, detail)
	}
	return details, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (*models.Workout, error) {
	var w models.Workout
	var dateMillis int64
	if err := row.Scan(&w.ID, &dateMillis, &w.Name, &w.Notes, &w.DurationMinutes, &w.IsCompleted); err != nil {
		return nil, err
	}
	w.Date = time.UnixMilli(dateMillis)
	return &w, nil
}
