package server

import (
	"encoding/json"
	"net/http"

	"github.com/meltforce/gymtrack/internal/models"
)

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("exercise")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}

	progress, err := s.repo.ProgressForExercise(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleMuscleGroupStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repo.MuscleGroupStats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleExerciseCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.ExerciseCatalog)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.repo.ExportAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="gymtrack-export.json"`)
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var data models.ExportData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	workouts, exercises, err := s.repo.Import(r.Context(), data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"workoutsImported":  workouts,
		"exercisesImported": exercises,
	})
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteAll(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
