package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// sseHeaders prepares a response for server-sent events. Returns the flusher,
// or nil when the transport cannot stream.
func sseHeaders(w http.ResponseWriter) http.Flusher {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return nil
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return flusher
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// handleEvents streams repository change notifications. Clients re-query the
// affected endpoints when an event arrives.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher := sseHeaders(w)
	if flusher == nil {
		return
	}

	events, cancel := s.repo.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeSSE(w, flusher, "change", ev); err != nil {
				return
			}
		}
	}
}

// handleTimerEvents streams rest timer state, starting with the current
// snapshot so a reconnecting client catches up immediately.
func (s *Server) handleTimerEvents(w http.ResponseWriter, r *http.Request) {
	flusher := sseHeaders(w)
	if flusher == nil {
		return
	}

	states, cancel := s.timer.Subscribe()
	defer cancel()

	if err := writeSSE(w, flusher, "timer", s.timer.State()); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case state, ok := <-states:
			if !ok {
				return
			}
			if err := writeSSE(w, flusher, "timer", state); err != nil {
				return
			}
		}
	}
}
