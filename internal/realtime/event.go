// Package realtime publishes progress change events so that other tabs and
// devices of the same user can re-read their state from the shared store.
package realtime

import (
	"encoding/json"
	"time"
)

// EventType names the kind of change carried by an Event.
type EventType string

const (
	EventWordProgressUpdated EventType = "word_progress.updated"
	EventStreakUpdated       EventType = "streak.updated"
	EventReviewDue           EventType = "review.due"
)

// Event is a change notification for one user.
type Event struct {
	Type    EventType       `json:"type"`
	UserID  string          `json:"user_id"`
	WordID  string          `json:"word_id,omitempty"`
	GroupID string          `json:"group_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// NewEvent builds an Event and encodes payload as JSON. A nil payload is omitted.
func NewEvent(typ EventType, userID string, payload any, at time.Time) (Event, error) {
	ev := Event{Type: typ, UserID: userID, At: at.UTC()}
	if payload == nil {
		return ev, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	ev.Payload = raw
	return ev, nil
}
