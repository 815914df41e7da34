package models

import "time"

// DefaultSetsCount is how many empty sets a template exercise seeds when no
// history exists for its name.
const DefaultSetsCount = 3

// SessionTemplate is a reusable session blueprint (e.g. Push, Pull, Legs).
type SessionTemplate struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TemplateExercise is one exercise slot within a template. There is no
// foreign key to Exercise; instantiating a template copies values into new,
// independent exercise rows.
type TemplateExercise struct {
	ID               int64  `json:"id"`
	TemplateID       int64  `json:"templateId"`
	Name             string `json:"name"`
	OrderIndex       int    `json:"orderIndex"`
	DefaultSetsCount int    `json:"defaultSetsCount"`
	RestTimeSeconds  int    `json:"restTimeSeconds"`
}

// TemplateDetail is a template with its exercises ordered by order index.
type TemplateDetail struct {
	SessionTemplate
	Exercises []TemplateExercise `json:"exercises"`
}
