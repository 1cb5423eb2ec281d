package dto

import (
	"time"

	"github.com/evcal/event-lifecycle-service/internal/domain"
)

// ParseRequest carries the free-text input for a new proposal.
type ParseRequest struct {
	Text string `json:"text" binding:"required" example:"Dinner with Sam tomorrow at 7pm"`
}

// ProposedEventPayload mirrors domain.ProposedEvent for request binding.
type ProposedEventPayload struct {
	Title                    string    `json:"title" binding:"required" example:"Dinner"`
	Start                    time.Time `json:"start" binding:"required" example:"2026-03-01T19:00:00Z"`
	End                      time.Time `json:"end" binding:"required" example:"2026-03-01T20:00:00Z"`
	Location                 string    `json:"location" example:"Downtown"`
	Notes                    string    `json:"notes"`
	RecurrenceDescription    string    `json:"recurrence_description" example:"every Thursday"`
	RecurrenceEndDescription string    `json:"recurrence_end_description" example:"until end of May"`
}

// ToDomain converts the payload into the domain type.
func (p ProposedEventPayload) ToDomain() domain.ProposedEvent {
	return domain.ProposedEvent{
		Title:                    p.Title,
		Start:                    p.Start,
		End:                      p.End,
		Location:                 p.Location,
		Notes:                    p.Notes,
		RecurrenceDescription:    p.RecurrenceDescription,
		RecurrenceEndDescription: p.RecurrenceEndDescription,
	}
}

// ConfirmRequest carries the final, possibly user-edited proposal.
type ConfirmRequest struct {
	ProposedEvent ProposedEventPayload `json:"proposed_event" binding:"required"`
}

// ShareRequest lists the people an event is shared with.
type ShareRequest struct {
	Targets []string `json:"targets" binding:"required,min=1" example:"alice@example.com,bob@example.com"`
}

// TickRequest optionally carries the simulated time to advance to. When Now
// is omitted the server substitutes its wall clock.
type TickRequest struct {
	Now *time.Time `json:"now" example:"2026-03-01T18:30:00Z"`
}
