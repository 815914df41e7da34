package importer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/meltforce/gymtrack/internal/models"
)

// Stats tracks import progress.
type Stats struct {
	FilesTotal    int
	FilesImported int
	FilesSkipped  int
	FilesErrored  int

	WorkoutsSent  int
	ExercisesSent int
}

// Importer walks a directory of export JSON files (or a single file) and
// POSTs each to the GymTrack server, recording sent files in the state DB.
type Importer struct {
	client *Client
	state  *StateDB
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Importer. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dryRun bool, log *slog.Logger) *Importer {
	return &Importer{
		client: client,
		state:  state,
		dryRun: dryRun,
		log:    log,
	}
}

// Run imports path, which is either one export file or a directory of them.
func (imp *Importer) Run(path string) (*Stats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return &imp.stats, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		imp.processFile(filepath.Dir(path), path)
		return &imp.stats, nil
	}

	files, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return &imp.stats, fmt.Errorf("listing %s: %w", path, err)
	}
	sort.Strings(files)

	for _, f := range files {
		imp.processFile(path, f)
	}
	return &imp.stats, nil
}

// processFile reads, validates and sends one export file. Per-file failures
// are counted and logged but do not abort the run.
func (imp *Importer) processFile(baseDir, path string) {
	imp.stats.FilesTotal++

	relPath, _ := filepath.Rel(baseDir, path)
	info, err := os.Stat(path)
	if err != nil {
		imp.log.Warn("stat failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return
	}

	hash, err := HashFile(path)
	if err != nil {
		imp.log.Warn("hash failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return
	}

	imported, err := imp.state.IsImported(relPath, info.Size(), hash)
	if err != nil {
		imp.log.Warn("state check failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return
	}
	if imported {
		imp.stats.FilesSkipped++
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		imp.log.Warn("read failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return
	}

	var data models.ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		imp.log.Warn("parse failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return
	}

	if len(data.Workouts) == 0 {
		imp.stats.FilesSkipped++
		// Mark empty files so we don't re-check them
		_ = imp.state.MarkImported(relPath, info.Size(), hash)
		return
	}

	if imp.dryRun {
		workouts, exercises := countPayload(data)
		imp.log.Info("dry-run: would send",
			"file", relPath,
			"workouts", workouts,
			"exercises", exercises,
		)
		imp.stats.WorkoutsSent += workouts
		imp.stats.ExercisesSent += exercises
		imp.stats.FilesImported++
		return
	}

	result, err := imp.client.SendExport(data)
	if err != nil {
		imp.log.Warn("send failed", "file", relPath, "error", err)
		imp.stats.FilesErrored++
		return
	}

	if err := imp.state.MarkImported(relPath, info.Size(), hash); err != nil {
		imp.log.Warn("failed to mark imported", "file", relPath, "error", err)
	}
	imp.stats.FilesImported++
	imp.stats.WorkoutsSent += result.WorkoutsImported
	imp.stats.ExercisesSent += result.ExercisesImported

	imp.log.Info("imported file",
		"file", relPath,
		"workouts", result.WorkoutsImported,
		"exercises", result.ExercisesImported,
	)
}

func countPayload(data models.ExportData) (workouts, exercises int) {
	workouts = len(data.Workouts)
	for _, w := range data.Workouts {
		exercises += len(w.Exercises)
	}
	return workouts, exercises
}
