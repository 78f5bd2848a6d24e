package handler

import (
	"net/http"

	"github.com/sangsom/minime/internal/notify"
)

// EventsHandler streams profile events over SSE
type EventsHandler struct {
	hub *notify.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *notify.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /api/v1/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	notify.ServeSSE(w, r, h.hub)
}
