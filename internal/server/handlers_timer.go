package server

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleTimerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.timer.State())
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TotalSeconds int `json:"totalSeconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.TotalSeconds <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "totalSeconds must be positive"})
		return
	}

	s.timer.Start(req.TotalSeconds)
	writeJSON(w, http.StatusOK, s.timer.State())
}

func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	s.timer.Stop()
	writeJSON(w, http.StatusOK, s.timer.State())
}

// handleTimerAck acknowledges the latched finished flag.
func (s *Server) handleTimerAck(w http.ResponseWriter, r *http.Request) {
	s.timer.ResetFinished()
	writeJSON(w, http.StatusOK, s.timer.State())
}
