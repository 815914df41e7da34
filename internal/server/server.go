package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/gymtrack/internal/repository"
	"github.com/meltforce/gymtrack/internal/resttimer"
	"github.com/meltforce/gymtrack/internal/settings"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	repo     *repository.Repository
	settings *settings.Store
	timer    *resttimer.Timer
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(repo *repository.Repository, settingsStore *settings.Store, timer *resttimer.Timer, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		repo:     repo,
		settings: settingsStore,
		timer:    timer,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Workouts
		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleCreateWorkout)
		r.Get("/workouts/active", s.handleActiveWorkout)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Put("/workouts/{id}", s.handleUpdateWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)
		r.Post("/workouts/{id}/complete", s.handleCompleteWorkout)
		r.Post("/workouts/{id}/exercises", s.handleAddExercise)

		// Exercises
		r.Get("/exercises/names", s.handleExerciseNames)
		r.Get("/exercises/catalog", s.handleExerciseCatalog)
		r.Get("/exercises/last-set", s.handleLastSetValues)
		r.Get("/exercises/last-workout-sets", s.handleLastWorkoutSets)
		r.Put("/exercises/{id}", s.handleUpdateExercise)
		r.Delete("/exercises/{id}", s.handleDeleteExercise)
		r.Post("/exercises/{id}/sets", s.handleAddSet)

		// Sets
		r.Put("/sets/{id}", s.handleUpdateSet)
		r.Post("/sets/{id}/complete", s.handleSetCompletion)
		r.Delete("/sets/{id}", s.handleDeleteSet)

		// Templates
		r.Get("/templates", s.handleListTemplates)
		r.Post("/templates", s.handleCreateTemplate)
		r.Get("/templates/{id}", s.handleGetTemplate)
		r.Put("/templates/{id}", s.handleUpdateTemplate)
		r.Delete("/templates/{id}", s.handleDeleteTemplate)
		r.Post("/templates/{id}/exercises", s.handleAddTemplateExercise)
		r.Post("/templates/{id}/start", s.handleStartFromTemplate)
		r.Put("/template-exercises/{id}", s.handleUpdateTemplateExercise)
		r.Delete("/template-exercises/{id}", s.handleDeleteTemplateExercise)

		// Progress
		r.Get("/progress", s.handleProgress)
		r.Get("/progress/muscle-groups", s.handleMuscleGroupStats)

		// Export and change stream
		r.Get("/export", s.handleExport)
		r.Get("/events", s.handleEvents)

		// Settings
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)
		r.Post("/settings/exercises", s.handleAddCommonExercise)
		r.Delete("/settings/exercises", s.handleRemoveCommonExercise)

		// Rest timer
		r.Get("/timer", s.handleTimerState)
		r.Post("/timer/start", s.handleTimerStart)
		r.Post("/timer/stop", s.handleTimerStop)
		r.Post("/timer/ack", s.handleTimerAck)
		r.Get("/timer/events", s.handleTimerEvents)

		// Destructive endpoints (API key required)
		r.Group(func(pr chi.Router) {
			pr.Use(APIKeyAuth(s.apiKey))
			pr.Post("/import", s.handleImport)
			pr.Delete("/data", s.handleDeleteAll)
		})
	})
}

// SetMCP mounts the MCP streamable HTTP transport. Must be called before the
// server starts accepting requests.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}
