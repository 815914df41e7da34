package models

import "time"

// Export payload shapes. This is the on-disk interchange format: dates are
// epoch milliseconds, miorep is nullable, everything else is required.
// Import reads this exact shape and appends rows; it never merges.

type ExportData struct {
	ExportDate int64           `json:"exportDate"`
	AppVersion string          `json:"appVersion"`
	Workouts   []WorkoutExport `json:"workouts"`
}

type WorkoutExport struct {
	ID              int64            `json:"id"`
	Date            int64            `json:"date"`
	Name            string           `json:"name"`
	Notes           string           `json:"notes"`
	DurationMinutes int              `json:"durationMinutes"`
	IsCompleted     bool             `json:"isCompleted"`
	Exercises       []ExerciseExport `json:"exercises"`
}

type ExerciseExport struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	OrderIndex int         `json:"orderIndex"`
	Sets       []SetExport `json:"sets"`
}

type SetExport struct {
	SetNumber   int     `json:"setNumber"`
	Reps        int     `json:"reps"`
	Weight      float64 `json:"weight"`
	Miorep      *int    `json:"miorep"`
	IsCompleted bool    `json:"isCompleted"`
	Timestamp   int64   `json:"timestamp"`
}

// ToExport converts a workout detail into the interchange shape.
func (w WorkoutDetail) ToExport() WorkoutExport {
	out := WorkoutExport{
		ID:              w.ID,
		Date:            w.Date.UnixMilli(),
		Name:            w.Name,
		Notes:           w.Notes,
		DurationMinutes: w.DurationMinutes,
		IsCompleted:     w.IsCompleted,
		Exercises:       make([]ExerciseExport, 0, len(w.Exercises)),
	}
	for _, ex := range w.Exercises {
		exp := ExerciseExport{
			ID:         ex.ID,
			Name:       ex.Name,
			OrderIndex: ex.OrderIndex,
			Sets:       make([]SetExport, 0, len(ex.Sets)),
		}
		for _, s := range ex.Sets {
			exp.Sets = append(exp.Sets, SetExport{
				SetNumber:   s.SetNumber,
				Reps:        s.Reps,
				Weight:      s.Weight,
				Miorep:      s.Miorep,
				IsCompleted: s.IsCompleted,
				Timestamp:   s.Timestamp.UnixMilli(),
			})
		}
		out.Exercises = append(out.Exercises, exp)
	}
	return out
}

// NewExportData snapshots workouts into a payload stamped with the export
// time and app version.
func NewExportData(workouts []WorkoutDetail, appVersion string, now time.Time) ExportData {
	data := ExportData{
		ExportDate: now.UnixMilli(),
		AppVersion: appVersion,
		Workouts:   make([]WorkoutExport, 0, len(workouts)),
	}
	for _, w := range workouts {
		data.Workouts = append(data.Workouts, w.ToExport())
	}
	return data
}
