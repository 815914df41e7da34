package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meltforce/gymtrack/internal/models"
)

// InsertExercise inserts an exercise row and returns its id.
func (db *DB) InsertExercise(ctx context.Context, ex models.Exercise) (int64, error) {
	return insertExercise(ctx, db.sql, ex)
}

func insertExercise(ctx context.Context, q execer, ex models.Exercise) (int64, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO exercises (workout_id, name, order_index, rest_time_seconds, superset_group)
		 VALUES (?, ?, ?, ?, ?)`,
		ex.WorkoutID, ex.Name, ex.OrderIndex, ex.RestTimeSeconds, ex.SupersetGroup)
	if err != nil {
		return 0, fmt.Errorf("inserting exercise: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading exercise id: %w", err)
	}
	return id, nil
}

// GetExercise retrieves a single exercise by id.
func (db *DB) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT id, workout_id, name, order_index, rest_time_seconds, superset_group
		 FROM exercises WHERE id = ?`, id)
	var ex models.Exercise
	err := row.Scan(&ex.ID, &ex.WorkoutID, &ex.Name, &ex.OrderIndex, &ex.RestTimeSeconds, &ex.SupersetGroup)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exercise %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise: %w", err)
	}
	return &ex, nil
}

// ListExercisesForWorkout retrieves a workout's exercises in display order.
func (db *DB) ListExercisesForWorkout(ctx context.Context, workoutID int64) ([]models.Exercise, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, workout_id, name, order_index, rest_time_seconds, superset_group
		 FROM exercises WHERE workout_id = ? ORDER BY order_index ASC, id ASC`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()
	return scanExercises(rows)
}

// MaxOrderIndex returns the highest order index within a workout, or ok=false
// when the workout has no exercises yet.
func (db *DB) MaxOrderIndex(ctx context.Context, workoutID int64) (int, bool, error) {
	return maxOrderIndex(ctx, db.sql, `SELECT MAX(order_index) FROM exercises WHERE workout_id = ?`, workoutID)
}

func maxOrderIndex(ctx context.Context, q execer, query string, parentID int64) (int, bool, error) {
	var max sql.NullInt64
	if err := q.QueryRowContext(ctx, query, parentID).Scan(&max); err != nil {
		return 0, false, fmt.Errorf("querying max order index: %w", err)
	}
	if !max.Valid {
		return 0, false, nil
	}
	return int(max.Int64), true, nil
}

// UpdateExercise overwrites an exercise's mutable fields.
func (db *DB) UpdateExercise(ctx context.Context, ex models.Exercise) error {
	res, err := db.sql.ExecContext(ctx,
		`UPDATE exercises SET name = ?, order_index = ?, rest_time_seconds = ?, superset_group = ?
		 WHERE id = ?`,
		ex.Name, ex.OrderIndex, ex.RestTimeSeconds, ex.SupersetGroup, ex.ID)
	if err != nil {
		return fmt.Errorf("updating exercise: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("exercise %d: %w", ex.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteExercise deletes an exercise; its sets cascade.
func (db *DB) DeleteExercise(ctx context.Context, id int64) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("exercise %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// ExerciseNames lists every distinct exercise name ever logged, for
// suggestion lists.
func (db *DB) ExerciseNames(ctx context.Context) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT DISTINCT name FROM exercises ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercise names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning exercise name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// exercisesByWorkout loads every exercise grouped by workout id.
func (db *DB) exercisesByWorkout(ctx context.Context) (map[int64][]models.Exercise, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, workout_id, name, order_index, rest_time_seconds, superset_group
		 FROM exercises ORDER BY order_index ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	exercises, err := scanExercises(rows)
	if err != nil {
		return nil, err
	}
	grouped := make(map[int64][]models.Exercise)
	for _, ex := range exercises {
		grouped[ex.WorkoutID] = append(grouped[ex.WorkoutID], ex)
	}
	return grouped, nil
}

func scanExercises(rows *sql.Rows) ([]models.Exercise, error) {
	var result []models.Exercise
	for rows.Next() {
		var ex models.Exercise
		if err := rows.Scan(&ex.ID, &ex.WorkoutID, &ex.Name, &ex.OrderIndex, &ex.RestTimeSeconds, &ex.SupersetGroup); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}
