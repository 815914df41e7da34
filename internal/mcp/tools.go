package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List workout sessions, newest first. Returns id, date, name, duration and completion status for each."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts to return. Defaults to 20.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one workout with all exercises and sets, including reps, weight, miorep counts and completion flags."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Workout ID")),
)

var toolGetExerciseProgress = mcp.NewTool("get_exercise_progress",
	mcp.WithDescription("Progress series for an exercise across completed workouts: per-workout best set, estimated one-rep max (Epley, miorep-adjusted), and total volume."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (case-insensitive match, e.g. 'Squat')")),
)

var toolGetMuscleGroupStats = mcp.NewTool("get_muscle_group_stats",
	mcp.WithDescription("Per-muscle-group training stats over completed workouts: total completed sets, workouts trained, and average sets per workout, sorted by total sets."),
)

var toolListExerciseNames = mcp.NewTool("list_exercise_names",
	mcp.WithDescription("List every distinct exercise name ever logged, for autocomplete and progress queries."),
)

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("List session templates with their exercise slots (name, default set count, rest time)."),
)

var toolStartWorkoutFromTemplate = mcp.NewTool("start_workout_from_template",
	mcp.WithDescription("Create a new workout from a template. Sets are pre-filled from the last completed workout containing each exercise, or created empty."),
	mcp.WithNumber("template_id", mcp.Required(), mcp.Description("Template ID")),
)

var toolGetRestTimer = mcp.NewTool("get_rest_timer",
	mcp.WithDescription("Current rest timer state: remaining seconds, total, whether it is running, and the latched finished flag."),
)

var toolStartRestTimer = mcp.NewTool("start_rest_timer",
	mcp.WithDescription("Start a rest countdown. Replaces any countdown already running."),
	mcp.WithNumber("seconds", mcp.Required(), mcp.Description("Countdown length in seconds")),
)

var toolStopRestTimer = mcp.NewTool("stop_rest_timer",
	mcp.WithDescription("Cancel the running rest countdown without firing the finished signal."),
)

var toolExportData = mcp.NewTool("export_data",
	mcp.WithDescription("Export every workout with nested exercises and sets as the JSON interchange payload."),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	workouts, err := h.repo.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if len(workouts) > limit {
		workouts = workouts[:limit]
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	detail, err := h.repo.WorkoutDetail(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError("workout lookup failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(detail)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	progress, err := h.repo.ProgressForExercise(ctx, exercise)
	if err != nil {
		h.log.Error("mcp get_exercise_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(progress)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMuscleGroupStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.repo.MuscleGroupStats(ctx)
	if err != nil {
		h.log.Error("mcp get_muscle_group_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExerciseNames(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := h.repo.ExerciseNames(ctx)
	if err != nil {
		h.log.Error("mcp list_exercise_names", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(names)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := h.repo.Templates(ctx)
	if err != nil {
		h.log.Error("mcp list_templates", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(templates)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) startWorkoutFromTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := req.RequireInt("template_id")
	if err != nil {
		return mcp.NewToolResultError("template_id parameter is required"), nil
	}

	workoutID, err := h.repo.CreateWorkoutFromTemplate(ctx, int64(templateID))
	if err != nil {
		h.log.Error("mcp start_workout_from_template", "error", err)
		return mcp.NewToolResultError("instantiation failed: " + err.Error()), nil
	}

	detail, err := h.repo.WorkoutDetail(ctx, workoutID)
	if err != nil {
		return mcp.NewToolResultError("workout lookup failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(detail)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRestTimer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.timer.State())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) startRestTimer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seconds, err := req.RequireInt("seconds")
	if err != nil {
		return mcp.NewToolResultError("seconds parameter is required"), nil
	}
	if seconds <= 0 {
		return mcp.NewToolResultError("seconds must be positive"), nil
	}

	h.timer.Start(seconds)

	result, err := mcp.NewToolResultJSON(h.timer.State())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) stopRestTimer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.timer.Stop()

	result, err := mcp.NewToolResultJSON(h.timer.State())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) exportData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := h.repo.ExportAll(ctx)
	if err != nil {
		h.log.Error("mcp export_data", "error", err)
		return mcp.NewToolResultError("export failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
