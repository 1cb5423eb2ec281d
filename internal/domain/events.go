package domain

import "time"

// EventTag identifies a domain event variant for bus subscription.
type EventTag string

const (
	TagEventCreated     EventTag = "event_created"
	TagConflictDetected EventTag = "conflict_detected"
	TagReminderFired    EventTag = "reminder_fired"
	TagEventShared      EventTag = "event_shared"
)

// DomainEvent is the closed union of notifications published on the bus.
// Events are ephemeral: delivered synchronously, never persisted. The
// unexported marker keeps the union closed to this package.
type DomainEvent interface {
	Tag() EventTag
	domainEvent()
}

// EventCreated is published after a confirmed Event has been persisted.
type EventCreated struct {
	EventID string
	// ReminderOffsets overrides the scheduler's configured offsets when
	// non-empty.
	ReminderOffsets []time.Duration
}

func (EventCreated) Tag() EventTag { return TagEventCreated }
func (EventCreated) domainEvent()  {}

// ConflictDetected is published when a submitted proposal overlaps existing
// confirmed events or pending proposals.
type ConflictDetected struct {
	ParseResponseID string
	Conflicts       []Conflict
}

func (ConflictDetected) Tag() EventTag { return TagConflictDetected }
func (ConflictDetected) domainEvent()  {}

// ReminderFired is published when a reminder comes due on a clock tick.
type ReminderFired struct {
	ReminderID string
	EventID    string
	FiredAt    time.Time
}

func (ReminderFired) Tag() EventTag { return TagReminderFired }
func (ReminderFired) domainEvent()  {}

// EventShared is published when an event is shared with other people.
type EventShared struct {
	EventID string
	Targets []string
}

func (EventShared) Tag() EventTag { return TagEventShared }
func (EventShared) domainEvent()  {}
