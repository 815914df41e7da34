package models

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a referenced workout, exercise, set or
// template does not exist.
var ErrNotFound = errors.New("not found")

// DefaultRestSeconds is the rest duration applied to new exercises unless
// the caller picks another one.
const DefaultRestSeconds = 180

// Workout is one training session. At most one workout is active
// (IsCompleted == false) at a time; the repository enforces this, not the
// store.
type Workout struct {
	ID              int64     `json:"id"`
	Date            time.Time `json:"date"`
	Name            string    `json:"name"`
	Notes           string    `json:"notes"`
	DurationMinutes int       `json:"durationMinutes"`
	IsCompleted     bool      `json:"isCompleted"`
}

// Exercise is one exercise entry within a workout. OrderIndex is advisory
// display order (max+1 on insert, ties possible). Exercises sharing a
// SupersetGroup are performed together with a shared rest timer.
type Exercise struct {
	ID              int64  `json:"id"`
	WorkoutID       int64  `json:"workoutId"`
	Name            string `json:"name"`
	OrderIndex      int    `json:"orderIndex"`
	RestTimeSeconds int    `json:"restTimeSeconds"`
	SupersetGroup   *int64 `json:"supersetGroup,omitempty"`
}

// ExerciseSet is one performed set. Miorep counts partial reps, each worth a
// third of a full rep in volume and 1RM calculations.
type ExerciseSet struct {
	ID          int64     `json:"id"`
	ExerciseID  int64     `json:"exerciseId"`
	SetNumber   int       `json:"setNumber"`
	Reps        int       `json:"reps"`
	Weight      float64   `json:"weight"`
	Miorep      *int      `json:"miorep"`
	IsCompleted bool      `json:"isCompleted"`
	Timestamp   time.Time `json:"timestamp"`
}

// ExerciseDetail is an exercise with its sets, ordered by set number.
type ExerciseDetail struct {
	Exercise
	Sets []ExerciseSet `json:"sets"`
}

// WorkoutDetail is a workout with its exercises (by order index) and their sets.
type WorkoutDetail struct {
	Workout
	Exercises []ExerciseDetail `json:"exercises"`
}
