package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/meltforce/gymtrack/internal/models"
)

// InsertSet inserts a set row and returns its id.
func (db *DB) InsertSet(ctx context.Context, s models.ExerciseSet) (int64, error) {
	return insertSet(ctx, db.sql, s)
}

func insertSet(ctx context.Context, q execer, s models.ExerciseSet) (int64, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO exercise_sets (exercise_id, set_number, reps, weight, miorep, is_completed, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ExerciseID, s.SetNumber, s.Reps, s.Weight, s.Miorep, s.IsCompleted, s.Timestamp.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("inserting set: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading set id: %w", err)
	}
	return id, nil
}

// GetSet retrieves a single set by id.
func (db *DB) GetSet(ctx context.Context, id int64) (*models.ExerciseSet, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT id, exercise_id, set_number, reps, weight, miorep, is_completed, timestamp
		 FROM exercise_sets WHERE id = ?`, id)
	s, err := scanSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("set %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying set: %w", err)
	}
	return s, nil
}

// ListSetsForExercise retrieves an exercise's sets ordered by set number.
func (db *DB) ListSetsForExercise(ctx context.Context, exerciseID int64) ([]models.ExerciseSet, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, exercise_id, set_number, reps, weight, miorep, is_completed, timestamp
		 FROM exercise_sets WHERE exercise_id = ? ORDER BY set_number ASC, id ASC`, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()
	return collectSets(rows)
}

// MaxSetNumber returns the highest set number within an exercise, or ok=false
// when the exercise has no sets yet.
func (db *DB) MaxSetNumber(ctx context.Context, exerciseID int64) (int, bool, error) {
	var max sql.NullInt64
	err := db.sql.QueryRowContext(ctx,
		`SELECT MAX(set_number) FROM exercise_sets WHERE exercise_id = ?`, exerciseID).Scan(&max)
	if err != nil {
		return 0, false, fmt.Errorf("querying max set number: %w", err)
	}
	if !max.Valid {
		return 0, false, nil
	}
	return int(max.Int64), true, nil
}

// UpdateSetValues overwrites reps, weight and miorep. No bounds checking;
// the values are stored as given.
func (db *DB) UpdateSetValues(ctx context.Context, id int64, reps int, weight float64, miorep *int) error {
	res, err := db.sql.ExecContext(ctx,
		`UPDATE exercise_sets SET reps = ?, weight = ?, miorep = ? WHERE id = ?`,
		reps, weight, miorep, id)
	if err != nil {
		return fmt.Errorf("updating set values: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// SetSetCompletion flips a set's completed flag.
func (db *DB) SetSetCompletion(ctx context.Context, id int64, completed bool) error {
	res, err := db.sql.ExecContext(ctx,
		`UPDATE exercise_sets SET is_completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return fmt.Errorf("updating set completion: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// DeleteSet deletes a single set.
func (db *DB) DeleteSet(ctx context.Context, id int64) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM exercise_sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// SetsFromLastWorkout returns every set of the most recent completed workout
// containing an exercise with this exact name, ordered by set number.
// Matching is case-sensitive; template instantiation copies these values.
func (db *DB) SetsFromLastWorkout(ctx context.Context, exerciseName string) ([]models.ExerciseSet, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT es.id, es.exercise_id, es.set_number, es.reps, es.weight, es.miorep, es.is_completed, es.timestamp
		 FROM exercise_sets es
		 JOIN exercises e ON es.exercise_id = e.id
		 JOIN workouts w ON e.workout_id = w.id
		 WHERE e.name = ? AND w.is_completed = 1
		   AND w.id = (
		     SELECT w2.id FROM workouts w2
		     JOIN exercises e2 ON e2.workout_id = w2.id
		     WHERE e2.name = ? AND w2.is_completed = 1
		     ORDER BY w2.date DESC LIMIT 1
		   )
		 ORDER BY es.set_number ASC, es.id ASC`,
		exerciseName, exerciseName)
	if err != nil {
		return nil, fmt.Errorf("querying last workout sets: %w", err)
	}
	defer rows.Close()
	return collectSets(rows)
}

// LastCompletedSet returns the most recent completed set logged for an
// exercise name across completed workouts, or nil with no history. Callers
// use it to pre-fill a new set.
func (db *DB) LastCompletedSet(ctx context.Context, exerciseName string) (*models.ExerciseSet, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT es.id, es.exercise_id, es.set_number, es.reps, es.weight, es.miorep, es.is_completed, es.timestamp
		 FROM exercise_sets es
		 JOIN exercises e ON es.exercise_id = e.id
		 JOIN workouts w ON e.workout_id = w.id
		 WHERE e.name = ? AND w.is_completed = 1 AND es.is_completed = 1
		 ORDER BY w.date DESC, es.set_number DESC LIMIT 1`,
		exerciseName)
	s, err := scanSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying last completed set: %w", err)
	}
	return s, nil
}

// setsByExercise loads every set grouped by exercise id.
func (db *DB) setsByExercise(ctx context.Context) (map[int64][]models.ExerciseSet, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, exercise_id, set_number, reps, weight, miorep, is_completed, timestamp
		 FROM exercise_sets ORDER BY set_number ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	sets, err := collectSets(rows)
	if err != nil {
		return nil, err
	}
	grouped := make(map[int64][]models.ExerciseSet)
	for _, s := range sets {
		grouped[s.ExerciseID] = append(grouped[s.ExerciseID], s)
	}
	return grouped, nil
}

func collectSets(rows *sql.Rows) ([]models.ExerciseSet, error) {
	var result []models.ExerciseSet
	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func scanSet(row rowScanner) (*models.ExerciseSet, error) {
	var s models.ExerciseSet
	var tsMillis int64
	if err := row.Scan(&s.ID, &s.ExerciseID, &s.SetNumber, &s.Reps, &s.Weight, &s.Miorep, &s.IsCompleted, &tsMillis); err != nil {
		return nil, err
	}
	s.Timestamp = time.UnixMilli(tsMillis)
	return &s, nil
}
