package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/meltforce/gymtrack/internal/repository"
	"github.com/meltforce/gymtrack/internal/storage"
)

// Storage keys. Values are stored as plain strings in the settings table;
// unset keys fall back to the defaults below.
const (
	keyDarkTheme       = "is_dark_theme"
	keyThemeColor      = "theme_color"
	keyCommonExercises = "common_exercises"
	keyWelcomeText     = "welcome_text"
	keyWelcomeImageURI = "welcome_image_uri"
)

// exerciseSeparator joins the common-exercise list into one stored value.
// It is not expected to appear in exercise names.
const exerciseSeparator = "|||"

// ThemeColor is the accent color of the UI theme.
type ThemeColor string

const (
	ColorGreen  ThemeColor = "green"
	ColorBlue   ThemeColor = "blue"
	ColorPurple ThemeColor = "purple"
	ColorPink   ThemeColor = "pink"
	ColorOrange ThemeColor = "orange"
	ColorRed    ThemeColor = "red"
	ColorTeal   ThemeColor = "teal"
)

// ParseThemeColor maps a stored or submitted value to a known color,
// falling back to green for anything unrecognized.
func ParseThemeColor(s string) ThemeColor {
	switch ThemeColor(strings.ToLower(s)) {
	case ColorGreen, ColorBlue, ColorPurple, ColorPink, ColorOrange, ColorRed, ColorTeal:
		return ThemeColor(strings.ToLower(s))
	default:
		return ColorGreen
	}
}

const defaultWelcomeText = "let's gooooooo"

// defaultCommonExercises seeds the quick-pick list for a fresh database.
var defaultCommonExercises = []string{
	"Développé couché",
	"Squat",
	"Soulevé de terre",
	"Rowing barre",
	"Développé épaules",
	"Curl biceps",
	"Extension triceps",
	"Leg press",
}

// Settings is the full preference snapshot served to clients.
type Settings struct {
	DarkTheme       bool       `json:"isDarkTheme"`
	ThemeColor      ThemeColor `json:"themeColor"`
	CommonExercises []string   `json:"commonExercises"`
	WelcomeText     string     `json:"welcomeText"`
	WelcomeImageURI *string    `json:"welcomeImageUri"`
}

// Update carries a partial settings change; nil fields are left untouched.
type Update struct {
	DarkTheme       *bool    `json:"isDarkTheme"`
	ThemeColor      *string  `json:"themeColor"`
	CommonExercises []string `json:"commonExercises"`
	WelcomeText     *string  `json:"welcomeText"`
	WelcomeImageURI *string  `json:"welcomeImageUri"`
}

// Store reads and writes preferences on top of the key-value settings table,
// applying defaults for keys that were never written.
type Store struct {
	db  *storage.DB
	hub *repository.Hub
}

// NewStore wires a settings store. hub may be nil in tests.
func NewStore(db *storage.DB, hub *repository.Hub) *Store {
	return &Store{db: db, hub: hub}
}

// Get assembles the current settings snapshot.
func (s *Store) Get(ctx context.Context) (Settings, error) {
	out := Settings{
		DarkTheme:       true,
		ThemeColor:      ColorGreen,
		CommonExercises: append([]string(nil), defaultCommonExercises...),
		WelcomeText:     defaultWelcomeText,
	}

	if v, ok, err := s.db.GetSetting(ctx, keyDarkTheme); err != nil {
		return Settings{}, err
	} else if ok {
		out.DarkTheme = v == "true"
	}

	if v, ok, err := s.db.GetSetting(ctx, keyThemeColor); err != nil {
		return Settings{}, err
	} else if ok {
		out.ThemeColor = ParseThemeColor(v)
	}

	if v, ok, err := s.db.GetSetting(ctx, keyCommonExercises); err != nil {
		return Settings{}, err
	} else if ok {
		out.CommonExercises = splitExercises(v)
	}

	if v, ok, err := s.db.GetSetting(ctx, keyWelcomeText); err != nil {
		return Settings{}, err
	} else if ok {
		out.WelcomeText = v
	}

	if v, ok, err := s.db.GetSetting(ctx, keyWelcomeImageURI); err != nil {
		return Settings{}, err
	} else if ok && v != "" {
		out.WelcomeImageURI = &v
	}

	return out, nil
}

// Apply writes the non-nil fields of upd and returns the resulting snapshot.
func (s *Store) Apply(ctx context.Context, upd Update) (Settings, error) {
	if upd.DarkTheme != nil {
		if err := s.db.PutSetting(ctx, keyDarkTheme, fmt.Sprintf("%t", *upd.DarkTheme)); err != nil {
			return Settings{}, err
		}
	}
	if upd.ThemeColor != nil {
		if err := s.db.PutSetting(ctx, keyThemeColor, string(ParseThemeColor(*upd.ThemeColor))); err != nil {
			return Settings{}, err
		}
	}
	if upd.CommonExercises != nil {
		if err := s.db.PutSetting(ctx, keyCommonExercises, joinExercises(upd.CommonExercises)); err != nil {
			return Settings{}, err
		}
	}
	if upd.WelcomeText != nil {
		// A blank text resets to the default greeting.
		if strings.TrimSpace(*upd.WelcomeText) == "" {
			if err := s.db.DeleteSetting(ctx, keyWelcomeText); err != nil {
				return Settings{}, err
			}
		} else if err := s.db.PutSetting(ctx, keyWelcomeText, *upd.WelcomeText); err != nil {
			return Settings{}, err
		}
	}
	if upd.WelcomeImageURI != nil {
		if *upd.WelcomeImageURI == "" {
			if err := s.db.DeleteSetting(ctx, keyWelcomeImageURI); err != nil {
				return Settings{}, err
			}
		} else if err := s.db.PutSetting(ctx, keyWelcomeImageURI, *upd.WelcomeImageURI); err != nil {
			return Settings{}, err
		}
	}

	s.notify()
	return s.Get(ctx)
}

// AddCommonExercise appends name to the quick-pick list unless it is already
// present. Names are compared exactly; "Leg press" and "leg press" are two
// entries.
func (s *Store) AddCommonExercise(ctx context.Context, name string) (Settings, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.Get(ctx)
	}

	cur, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	for _, existing := range cur.CommonExercises {
		if existing == name {
			return cur, nil
		}
	}

	updated := append(cur.CommonExercises, name)
	if err := s.db.PutSetting(ctx, keyCommonExercises, joinExercises(updated)); err != nil {
		return Settings{}, err
	}
	s.notify()
	return s.Get(ctx)
}

// RemoveCommonExercise drops name from the quick-pick list. The match is
// exact, like Add.
func (s *Store) RemoveCommonExercise(ctx context.Context, name string) (Settings, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	updated := make([]string, 0, len(cur.CommonExercises))
	for _, existing := range cur.CommonExercises {
		if existing != name {
			updated = append(updated, existing)
		}
	}
	if len(updated) == len(cur.CommonExercises) {
		return cur, nil
	}

	if err := s.db.PutSetting(ctx, keyCommonExercises, joinExercises(updated)); err != nil {
		return Settings{}, err
	}
	s.notify()
	return s.Get(ctx)
}

func (s *Store) notify() {
	if s.hub != nil {
		s.hub.Publish(repository.EventSettings)
	}
}

func joinExercises(names []string) string {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, exerciseSeparator)
}

func splitExercises(v string) []string {
	if v == "" {
		return []string{}
	}
	parts := strings.Split(v, exerciseSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
