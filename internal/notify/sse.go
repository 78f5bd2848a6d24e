package notify

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sangsom/minime/internal/model"
)

const (
	// Time between keepalive comments
	pingPeriod = 30 * time.Second
)

// ServeSSE streams hub events to an HTTP client using server-sent
// events. Event names match model.EventType; payloads are JSON.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	events, cancel := hub.Subscribe()
	defer cancel()

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				// Hub shut down
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := w.Write(formatSSEMessage(string(ev.Type), string(data))); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// formatSSEMessage formats an SSE frame. Multi-line data gets a
// "data: " prefix on each line per the SSE wire format.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteString("\n")
	for _, line := range strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// EventAt builds an event stamped with the given time
func EventAt(t time.Time, typ model.EventType, p model.Profile) model.Event {
	ev := model.Event{
		Type:        typ,
		Timestamp:   t,
		ProfileID:   p.ID,
		DisplayName: p.DisplayName,
	}
	if typ == model.EventProfileUpdated {
		stats := p.Stats
		ev.Stats = &stats
	}
	return ev
}
