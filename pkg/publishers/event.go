package publishers

import (
	"time"

	"github.com/google/uuid"
)

// Event describes one completed HTTP exchange published downstream.
type Event struct {
	ID         string    `json:"id"`
	Client     string    `json:"client"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	ErrorCode  string    `json:"error_code,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent constructs an Event with a fresh id for the given client + call.
func NewEvent(client, method, url string) Event {
	return Event{
		ID:         uuid.NewString(),
		Client:     client,
		Method:     method,
		URL:        url,
		OccurredAt: time.Now().UTC(),
	}
}

// Failed reports whether the exchange ended in an error.
func (e Event) Failed() bool { return e.ErrorCode != "" || e.Error != "" }
