package domain

import "time"

// ProposalStatus is the lifecycle status of a ParseResponse. Pending is the
// only initial status; confirmed and rejected are terminal.
type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusConfirmed ProposalStatus = "confirmed"
	ProposalStatusRejected  ProposalStatus = "rejected"
)

// Terminal reports whether no further transition may leave this status.
func (s ProposalStatus) Terminal() bool {
	return s == ProposalStatusConfirmed || s == ProposalStatusRejected
}

// Ambiguity flags a parsed field the user should resolve before confirming.
type Ambiguity struct {
	Field   string   `json:"field"`
	Reason  string   `json:"reason"`
	Options []string `json:"options"`
}

// ProposedEvent is a not-yet-authoritative candidate event. It may be edited
// by the user up until the owning proposal is confirmed or rejected.
type ProposedEvent struct {
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location,omitempty"`
	Notes    string    `json:"notes,omitempty"`

	// RecurrenceDescription is the human-readable series description
	// ("every Thursday"); empty for one-off events.
	RecurrenceDescription string `json:"recurrence_description,omitempty"`
	// RecurrenceEndDescription bounds the series ("until end of May").
	RecurrenceEndDescription string `json:"recurrence_end_description,omitempty"`
}

// Interval returns the proposed time range.
func (p ProposedEvent) Interval() Interval {
	return Interval{Start: p.Start, End: p.End}
}

// Recurring reports whether the proposal describes a series.
func (p ProposedEvent) Recurring() bool {
	return p.RecurrenceDescription != ""
}

// ParseResponse is the stored outcome of parsing one unstructured input. It
// is never deleted; rejected responses stay retrievable for audit.
type ParseResponse struct {
	ID          string         `json:"id"`
	Status      ProposalStatus `json:"status"`
	Proposed    ProposedEvent  `json:"proposed_event"`
	Ambiguities []Ambiguity    `json:"ambiguities"`
	Conflicts   []Conflict     `json:"conflicts"`
	// EventID links to the Event created at confirmation, empty otherwise.
	EventID   string    `json:"event_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
