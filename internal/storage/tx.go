package storage

import (
	"context"
	"database/sql"

	"github.com/meltforce/gymtrack/internal/models"
)

// Transaction-scoped inserts, used by multi-row constructions (template
// instantiation, import) running under InTx.

func InsertWorkoutTx(ctx context.Context, tx *sql.Tx, w models.Workout) (int64, error) {
	return insertWorkout(ctx, tx, w)
}

func InsertExerciseTx(ctx context.Context, tx *sql.Tx, ex models.Exercise) (int64, error) {
	return insertExercise(ctx, tx, ex)
}

func InsertSetTx(ctx context.Context, tx *sql.Tx, s models.ExerciseSet) (int64, error) {
	return insertSet(ctx, tx, s)
}
