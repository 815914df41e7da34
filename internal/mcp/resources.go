package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/gymtrack/internal/models"
)

const recentWorkoutLimit = 10

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.repo.Workouts(ctx)
	if err != nil {
		return nil, err
	}
	if len(workouts) > recentWorkoutLimit {
		workouts = workouts[:recentWorkoutLimit]
	}

	details := make([]*models.WorkoutDetail, 0, len(workouts))
	for _, w := range workouts {
		detail, err := h.repo.WorkoutDetail(ctx, w.ID)
		if err != nil {
			h.log.Warn("recent_workouts: detail load failed", "workoutID", w.ID, "error", err)
			continue
		}
		details = append(details, detail)
	}

	return jsonContents(req.Params.URI, details)
}

func (h *handlers) templates(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	templates, err := h.repo.Templates(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, templates)
}

func (h *handlers) settingsSnapshot(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	current, err := h.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, current)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
