package domain

import "time"

// Event is an authoritative calendar entry, created exactly once when a
// pending proposal is confirmed. Its time, title and location never change
// afterwards; only reminder association and the shared flag are appended.
type Event struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location,omitempty"`
	Notes    string    `json:"notes,omitempty"`

	// ParseResponseID links back to the proposal this event was confirmed from.
	ParseResponseID string `json:"parse_response_id,omitempty"`

	// RecurrenceRule is the compiled RRULE for a series parent, empty otherwise.
	RecurrenceRule string `json:"recurrence_rule,omitempty"`
	// RecurrenceUntil bounds the series expansion for a parent.
	RecurrenceUntil *time.Time `json:"recurrence_until,omitempty"`
	// ParentID is set on expanded child occurrences of a recurring parent.
	ParentID string `json:"parent_id,omitempty"`

	ReminderIDs []string  `json:"reminder_ids,omitempty"`
	SharedWith  []string  `json:"shared_with,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Interval returns the event's time range.
func (e Event) Interval() Interval {
	return Interval{Start: e.Start, End: e.End}
}

// Reminder schedules a single notification for an event. Fired is monotonic:
// once true it never resets, which is what makes tick idempotent.
type Reminder struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	RemindAt  time.Time  `json:"remind_at"`
	Fired     bool       `json:"fired"`
	FiredAt   *time.Time `json:"fired_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
