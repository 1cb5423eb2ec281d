package dto

import (
	"time"

	"github.com/evcal/event-lifecycle-service/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"not_found"`
	Message string `json:"message,omitempty" example:"event abc123 not found"`
}

// ShareResponse summarizes a share operation.
type ShareResponse struct {
	EventID    string    `json:"event_id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Location   string    `json:"location,omitempty"`
	SharedWith []string  `json:"shared_with"`
}

// NewShareResponse builds a ShareResponse from the updated event.
func NewShareResponse(event domain.Event) ShareResponse {
	return ShareResponse{
		EventID:    event.ID,
		Title:      event.Title,
		Start:      event.Start,
		End:        event.End,
		Location:   event.Location,
		SharedWith: event.SharedWith,
	}
}

// TickResponse reports the simulated time after a tick and the reminders
// that fired during it.
type TickResponse struct {
	Time           time.Time         `json:"time"`
	RemindersFired []domain.Reminder `json:"reminders_fired"`
}
