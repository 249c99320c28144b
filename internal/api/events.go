package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ember-labs/ember/internal/infra/bus"
)

// ─── Live event feed ────────────────────────────────────────────────────────
// Server-sent events bridge from the in-process bus to HTTP clients. Each
// connection gets its own bus subscription; a dropped client just loses
// its subscription, the publisher never notices.

// EventHub streams progression events over SSE.
type EventHub struct {
	bus *bus.Bus
}

// NewEventHub creates an SSE hub over the given bus.
func NewEventHub(b *bus.Bus) *EventHub {
	return &EventHub{bus: b}
}

// HandleSSE serves a client connection on /api/events.
func (h *EventHub) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Initial comment so the client sees the stream open immediately.
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	events, cancel := h.bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data)
			flusher.Flush()
		}
	}
}
