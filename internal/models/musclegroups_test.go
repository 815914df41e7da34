package models

import (
	"testing"
	"time"
)

// TestClassifyMuscleGroup walks the resolution chain: exact catalog match,
// partial match in either direction, keyword fallback, then other.
func TestClassifyMuscleGroup(t *testing.T) {
	tests := []struct {
		name string
		want MuscleGroup
	}{
		// Exact
		{"Développé couché", GroupChest},
		{"Soulevé de terre", GroupBack},
		{"Curl biceps", GroupBiceps},
		{"Hip thrust", GroupLegs},
		// Partial: user name contains a catalog name
		{"Développé couché prise serrée", GroupChest},
		// Partial: catalog name contains the user name
		{"marteau", GroupBiceps},
		// Keyword fallback
		{"Machine à pectoraux", GroupChest},
		{"Machine épaules", GroupShoulders},
		{"Presse à jambes inclinée", GroupLegs},
		{"Gainage dynamique", GroupAbs},
		// No match at all
		{"Natation", GroupOther},
	}
	for _, tt := range tests {
		if got := ClassifyMuscleGroup(tt.name); got != tt.want {
			t.Errorf("ClassifyMuscleGroup(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// TestMuscleGroupStatsFor verifies per-group aggregation: completed sets
// only, per-workout contribution, averages, and sort by total sets
// descending.
func TestMuscleGroupStatsFor(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2025, 4, n, 10, 0, 0, 0, time.UTC) }

	workouts := []WorkoutDetail{
		// 3 leg sets, 1 chest set (plus an uncompleted one that must not count)
		{
			Workout: Workout{Date: day(1), IsCompleted: true},
			Exercises: []ExerciseDetail{
				{
					Exercise: Exercise{Name: "Squat"},
					Sets:     []ExerciseSet{completedSet(5, 100), completedSet(5, 100), completedSet(5, 100)},
				},
				{
					Exercise: Exercise{Name: "Développé couché"},
					Sets:     []ExerciseSet{completedSet(8, 60), {Reps: 8, Weight: 60}},
				},
			},
		},
		// 1 leg set
		workoutWith(day(2), true, "Leg press", completedSet(10, 150)),
		// Only uncompleted sets: contributes to no group
		workoutWith(day(3), true, "Squat", ExerciseSet{Reps: 5, Weight: 120}),
	}

	stats := MuscleGroupStatsFor(workouts)
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2: %+v", len(stats), stats)
	}

	legs := stats[0]
	if legs.MuscleGroup != GroupLegs {
		t.Fatalf("stats[0] = %+v, want legs first (most sets)", legs)
	}
	if legs.TotalSets != 4 || legs.TotalWorkouts != 2 {
		t.Errorf("legs = %+v, want 4 sets over 2 workouts", legs)
	}
	if legs.AverageSetsPerWorkout != 2 {
		t.Errorf("legs average = %v, want 2", legs.AverageSetsPerWorkout)
	}

	chest := stats[1]
	if chest.MuscleGroup != GroupChest || chest.TotalSets != 1 || chest.TotalWorkouts != 1 {
		t.Errorf("chest = %+v, want 1 completed set in 1 workout", chest)
	}
}

// TestMuscleGroupStatsForEmpty verifies no workouts yields no stats.
func TestMuscleGroupStatsForEmpty(t *testing.T) {
	if stats := MuscleGroupStatsFor(nil); len(stats) != 0 {
		t.Errorf("stats = %+v, want empty", stats)
	}
}
