package repository

import "sync"

// EventKind tags which result sets a committed mutation invalidates.
// Subscribers re-query the full result set on every event; there is no
// incremental diffing.
type EventKind string

const (
	EventWorkouts  EventKind = "workouts"
	EventTemplates EventKind = "templates"
	EventSettings  EventKind = "settings"
)

// Event is one change notification.
type Event struct {
	Kind EventKind `json:"kind"`
}

// Hub fans committed-mutation events out to subscribers. Publishing never
// blocks: a subscriber whose buffer is full misses events and is expected to
// re-query anyway on its next one.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called to release it.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan Event, 16)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish notifies all subscribers of a change.
func (h *Hub) Publish(kind EventKind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- Event{Kind: kind}:
		default:
		}
	}
}
