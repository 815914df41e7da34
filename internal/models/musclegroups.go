package models

import (
	"sort"
	"strings"
)

// MuscleGroup buckets exercises for the per-group statistics view.
type MuscleGroup string

const (
	GroupChest     MuscleGroup = "chest"
	GroupBack      MuscleGroup = "back"
	GroupShoulders MuscleGroup = "shoulders"
	GroupBiceps    MuscleGroup = "biceps"
	GroupTriceps   MuscleGroup = "triceps"
	GroupLegs      MuscleGroup = "legs"
	GroupAbs       MuscleGroup = "abs"
	GroupOther     MuscleGroup = "other"
)

// ExerciseCatalog is the built-in exercise library offered by pickers,
// grouped loosely by target muscle.
var ExerciseCatalog = []string{
	"Développé couché",
	"Développé couché haltères",
	"Développé incliné",
	"Développé incliné haltères",
	"Développé décliné",
	"Écarté couché",
	"Écarté incliné",
	"Pec deck",
	"Poulie vis-à-vis",
	"Pompes",
	"Dips pectoraux",

	"Tractions",
	"Tractions supination",
	"Tractions prise neutre",
	"Rowing barre",
	"Rowing haltère",
	"Rowing T-bar",
	"Tirage vertical",
	"Tirage horizontal",
	"Tirage poitrine",
	"Pullover",
	"Soulevé de terre",
	"Shrugs",

	"Développé épaules",
	"Développé militaire",
	"Développé Arnold",
	"Élévations latérales",
	"Élévations frontales",
	"Oiseau",
	"Face pull",
	"Rowing menton",

	"Curl biceps barre",
	"Curl biceps haltères",
	"Curl marteau",
	"Curl pupitre",
	"Curl incliné",
	"Curl concentration",
	"Curl poulie basse",

	"Extension triceps",
	"Extension triceps poulie",
	"Barre au front",
	"Dips triceps",
	"Kickback",
	"Extension nuque",
	"Pushdown corde",

	"Squat",
	"Squat barre devant",
	"Hack squat",
	"Leg press",
	"Fentes",
	"Fentes marchées",
	"Leg extension",
	"Leg curl",
	"Leg curl assis",
	"Soulevé de terre jambes tendues",
	"Hip thrust",
	"Mollets debout",
	"Mollets assis",
	"Presse mollets",

	"Crunch",
	"Crunch inversé",
	"Relevé de jambes",
	"Planche",
	"Russian twist",
	"Ab wheel",
	"Gainage latéral",

	"Burpees",
	"Kettlebell swing",
	"Clean and jerk",
	"Snatch",
	"Farmer walk",
}

// muscleGroupEntries maps known exercise names to their group. Kept as an
// ordered slice so partial matching scans deterministically.
var muscleGroupEntries = []struct {
	name  string
	group MuscleGroup
}{
	{"Développé couché", GroupChest},
	{"Développé couché haltères", GroupChest},
	{"Développé incliné", GroupChest},
	{"Développé incliné haltères", GroupChest},
	{"Développé décliné", GroupChest},
	{"Écarté couché", GroupChest},
	{"Écarté incliné", GroupChest},
	{"Pec deck", GroupChest},
	{"Poulie vis-à-vis", GroupChest},
	{"Pompes", GroupChest},
	{"Dips pectoraux", GroupChest},

	{"Tractions", GroupBack},
	{"Tractions supination", GroupBack},
	{"Tractions prise neutre", GroupBack},
	{"Rowing barre", GroupBack},
	{"Rowing haltère", GroupBack},
	{"Rowing T-bar", GroupBack},
	{"Tirage vertical", GroupBack},
	{"Tirage horizontal", GroupBack},
	{"Tirage poitrine", GroupBack},
	{"Pullover", GroupBack},
	{"Soulevé de terre", GroupBack},
	{"Shrugs", GroupBack},

	{"Développé épaules", GroupShoulders},
	{"Développé militaire", GroupShoulders},
	{"Développé Arnold", GroupShoulders},
	{"Élévations latérales", GroupShoulders},
	{"Élévations frontales", GroupShoulders},
	{"Oiseau", GroupShoulders},
	{"Face pull", GroupShoulders},
	{"Rowing menton", GroupShoulders},

	{"Curl biceps barre", GroupBiceps},
	{"Curl biceps haltères", GroupBiceps},
	{"Curl marteau", GroupBiceps},
	{"Curl pupitre", GroupBiceps},
	{"Curl incliné", GroupBiceps},
	{"Curl concentration", GroupBiceps},
	{"Curl poulie basse", GroupBiceps},
	{"Curl biceps", GroupBiceps},

	{"Extension triceps", GroupTriceps},
	{"Extension triceps poulie", GroupTriceps},
	{"Barre au front", GroupTriceps},
	{"Dips triceps", GroupTriceps},
	{"Kickback", GroupTriceps},
	{"Extension nuque", GroupTriceps},
	{"Pushdown corde", GroupTriceps},

	{"Squat", GroupLegs},
	{"Squat barre devant", GroupLegs},
	{"Hack squat", GroupLegs},
	{"Leg press", GroupLegs},
	{"Fentes", GroupLegs},
	{"Fentes marchées", GroupLegs},
	{"Leg extension", GroupLegs},
	{"Leg curl", GroupLegs},
	{"Leg curl assis", GroupLegs},
	{"Soulevé de terre jambes tendues", GroupLegs},
	{"Hip thrust", GroupLegs},
	{"Mollets debout", GroupLegs},
	{"Mollets assis", GroupLegs},
	{"Presse mollets", GroupLegs},

	{"Crunch", GroupAbs},
	{"Crunch inversé", GroupAbs},
	{"Relevé de jambes", GroupAbs},
	{"Planche", GroupAbs},
	{"Russian twist", GroupAbs},
	{"Ab wheel", GroupAbs},
	{"Gainage latéral", GroupAbs},
}

var muscleGroupByName = func() map[string]MuscleGroup {
	m := make(map[string]MuscleGroup, len(muscleGroupEntries))
	for _, e := range muscleGroupEntries {
		m[e.name] = e.group
	}
	return m
}()

// ClassifyMuscleGroup resolves an exercise name to its muscle group: exact
// catalog match first, then case-insensitive substring match in either
// direction, then keyword detection, else GroupOther.
func ClassifyMuscleGroup(exerciseName string) MuscleGroup {
	if g, ok := muscleGroupByName[exerciseName]; ok {
		return g
	}

	lower := strings.ToLower(exerciseName)
	for _, e := range muscleGroupEntries {
		known := strings.ToLower(e.name)
		if strings.Contains(lower, known) || strings.Contains(known, lower) {
			return e.group
		}
	}

	switch {
	case containsAny(lower, "pec", "développé couché", "dips pec"):
		return GroupChest
	case containsAny(lower, "traction", "rowing", "tirage", "dos"):
		return GroupBack
	case containsAny(lower, "épaule", "latéral", "militaire"):
		return GroupShoulders
	case containsAny(lower, "bicep", "curl"):
		return GroupBiceps
	case containsAny(lower, "tricep", "extension", "pushdown"):
		return GroupTriceps
	case containsAny(lower, "squat", "leg", "jambe", "fente", "mollet", "hip thrust"):
		return GroupLegs
	case containsAny(lower, "abdos", "crunch", "planche", "gainage"):
		return GroupAbs
	default:
		return GroupOther
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// MuscleGroupStats summarizes training load on one muscle group across
// completed workouts.
type MuscleGroupStats struct {
	MuscleGroup           MuscleGroup `json:"muscleGroup"`
	TotalSets             int         `json:"totalSets"`
	TotalWorkouts         int         `json:"totalWorkouts"`
	AverageSetsPerWorkout float64     `json:"averageSetsPerWorkout"`
}

// MuscleGroupStatsFor derives per-group stats from completed workouts. Only
// completed sets count; a workout contributes to a group only when it has at
// least one such set there. Groups come out sorted by total sets descending,
// ties by group name for a stable order.
func MuscleGroupStatsFor(completed []WorkoutDetail) []MuscleGroupStats {
	setsPerWorkout := make(map[MuscleGroup][]int)

	for _, w := range completed {
		perGroup := make(map[MuscleGroup]int)
		for _, ex := range w.Exercises {
			group := ClassifyMuscleGroup(ex.Name)
			for _, s := range ex.Sets {
				if s.IsCompleted {
					perGroup[group]++
				}
			}
		}
		for group, sets := range perGroup {
			if sets > 0 {
				setsPerWorkout[group] = append(setsPerWorkout[group], sets)
			}
		}
	}

	stats := make([]MuscleGroupStats, 0, len(setsPerWorkout))
	for group, counts := range setsPerWorkout {
		total := 0
		for _, n := range counts {
			total += n
		}
		stats = append(stats, MuscleGroupStats{
			MuscleGroup:           group,
			TotalSets:             total,
			TotalWorkouts:         len(counts),
			AverageSetsPerWorkout: float64(total) / float64(len(counts)),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalSets != stats[j].TotalSets {
			return stats[i].TotalSets > stats[j].TotalSets
		}
		return stats[i].MuscleGroup < stats[j].MuscleGroup
	})
	return stats
}
