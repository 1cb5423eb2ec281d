package domain

import "time"

// TimelineEntryType tags one step in an event's audit trail.
type TimelineEntryType string

const (
	TimelineCreated           TimelineEntryType = "created"
	TimelineReminderScheduled TimelineEntryType = "reminder_scheduled"
	TimelineConflictDetected  TimelineEntryType = "conflict_detected"
	TimelineReminderSent      TimelineEntryType = "reminder_sent"
	TimelineShared            TimelineEntryType = "shared"
)

// TimelineEntry is an append-only audit record attached to an event.
type TimelineEntry struct {
	ID        string            `json:"id"`
	EventID   string            `json:"event_id"`
	Type      TimelineEntryType `json:"type"`
	Payload   map[string]any    `json:"payload,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
