package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Session events
	EventLogin  EventType = "login"
	EventLogout EventType = "logout"

	// Profile events
	EventProfileUpdated EventType = "profile_updated"
)

// Event is the notification emitted to subscribers on session and
// profile changes. This is the only contract the persistence core
// exposes outward; subscribers never receive store internals.
type Event struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	ProfileID   ProfileID `json:"profile_id"`
	DisplayName string    `json:"display_name"`
	// Stats carried on profile_updated events so display code can
	// refresh without a follow-up lookup
	Stats *Stats `json:"stats,omitempty"`
}
