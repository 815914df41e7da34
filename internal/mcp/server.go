package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/gymtrack/internal/repository"
	"github.com/meltforce/gymtrack/internal/resttimer"
	"github.com/meltforce/gymtrack/internal/settings"
)

// New creates an MCP server with all tools and resources registered.
func New(repo *repository.Repository, settingsStore *settings.Store, timer *resttimer.Timer, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymTrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GymTrack personal workout server. Query workouts, sets and exercise progress, start sessions from templates, and control the rest timer. All data belongs to a single user."),
	)

	h := &handlers{repo: repo, settings: settingsStore, timer: timer, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetExerciseProgress, Handler: h.getExerciseProgress},
		server.ServerTool{Tool: toolGetMuscleGroupStats, Handler: h.getMuscleGroupStats},
		server.ServerTool{Tool: toolListExerciseNames, Handler: h.listExerciseNames},
		server.ServerTool{Tool: toolListTemplates, Handler: h.listTemplates},
		server.ServerTool{Tool: toolStartWorkoutFromTemplate, Handler: h.startWorkoutFromTemplate},
		server.ServerTool{Tool: toolGetRestTimer, Handler: h.getRestTimer},
		server.ServerTool{Tool: toolStartRestTimer, Handler: h.startRestTimer},
		server.ServerTool{Tool: toolStopRestTimer, Handler: h.stopRestTimer},
		server.ServerTool{Tool: toolExportData, Handler: h.exportData},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resTemplates, Handler: h.templates},
		server.ServerResource{Resource: resSettings, Handler: h.settingsSnapshot},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	repo     *repository.Repository
	settings *settings.Store
	timer    *resttimer.Timer
	log      *slog.Logger
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"gymtrack://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The ten most recent workout sessions with exercises and sets"),
	mcp.WithMIMEType("application/json"),
)

var resTemplates = mcp.NewResource(
	"gymtrack://templates",
	"Session Templates",
	mcp.WithResourceDescription("All session templates with their exercise slots"),
	mcp.WithMIMEType("application/json"),
)

var resSettings = mcp.NewResource(
	"gymtrack://settings",
	"User Settings",
	mcp.WithResourceDescription("Theme, welcome text and the common exercise quick-pick list"),
	mcp.WithMIMEType("application/json"),
)
