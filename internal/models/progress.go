package models

import (
	"sort"
	"strings"
	"time"
)

// ExerciseProgress is a derived (never persisted) time series for one
// exercise name across completed workouts.
type ExerciseProgress struct {
	ExerciseName string              `json:"exerciseName"`
	DataPoints   []ProgressDataPoint `json:"dataPoints"`
}

// ProgressDataPoint summarizes one completed workout's work on an exercise.
type ProgressDataPoint struct {
	Date        time.Time  `json:"date"`
	MaxWeight   float64    `json:"maxWeight"`
	TotalVolume float64    `json:"totalVolume"`
	BestSet     BestSetInfo `json:"bestSet"`
}

// BestSetInfo is the set with the highest estimated 1RM in a data point.
type BestSetInfo struct {
	Weight       float64 `json:"weight"`
	Reps         int     `json:"reps"`
	Miorep       *int    `json:"miorep"`
	Estimated1RM float64 `json:"estimated1RM"`
}

// Estimate1RM estimates the one-rep max using the Epley formula, with each
// miorep counting as a third of a full rep:
//
//	effectiveReps = reps + miorep/3
//	effectiveReps <= 1 → weight
//	otherwise          → weight * (1 + effectiveReps/30)
func Estimate1RM(weight float64, reps int, miorep *int) float64 {
	effective := float64(reps)
	if miorep != nil {
		effective += float64(*miorep) / 3
	}
	if effective <= 1 {
		return weight
	}
	return weight * (1 + effective/30)
}

// ProgressForExercise derives the progress series for an exercise name from
// completed workouts. Matching is case-insensitive exact equality. Only
// completed sets count; workouts with no completed set for the exercise are
// skipped entirely. Points come out ordered by workout date ascending. When
// two sets tie on estimated 1RM the first in set-number order wins.
func ProgressForExercise(name string, completed []WorkoutDetail) ExerciseProgress {
	progress := ExerciseProgress{ExerciseName: name}

	for _, w := range completed {
		for _, ex := range w.Exercises {
			if !strings.EqualFold(ex.Name, name) {
				continue
			}

			var (
				maxWeight float64
				volume    float64
				best      *ExerciseSet
				bestRM    float64
			)
			for i, s := range ex.Sets {
				if !s.IsCompleted {
					continue
				}
				if s.Weight > maxWeight {
					maxWeight = s.Weight
				}
				volume += s.Weight * float64(s.Reps)
				rm := Estimate1RM(s.Weight, s.Reps, s.Miorep)
				if best == nil || rm > bestRM {
					best = &ex.Sets[i]
					bestRM = rm
				}
			}
			if best == nil {
				continue
			}

			progress.DataPoints = append(progress.DataPoints, ProgressDataPoint{
				Date:        w.Date,
				MaxWeight:   maxWeight,
				TotalVolume: volume,
				BestSet: BestSetInfo{
					Weight:       best.Weight,
					Reps:         best.Reps,
					Miorep:       best.Miorep,
					Estimated1RM: bestRM,
				},
			})
		}
	}

	// The store lists workouts date-descending; the chart contract is
	// ascending.
	sort.SliceStable(progress.DataPoints, func(i, j int) bool {
		return progress.DataPoints[i].Date.Before(progress.DataPoints[j].Date)
	})
	return progress
}
