package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nuid"
	"go.uber.org/zap"

	"github.com/evcal/event-lifecycle-service/internal/bus"
	"github.com/evcal/event-lifecycle-service/internal/clock"
	"github.com/evcal/event-lifecycle-service/internal/conflict"
	"github.com/evcal/event-lifecycle-service/internal/domain"
	"github.com/evcal/event-lifecycle-service/internal/parser"
	"github.com/evcal/event-lifecycle-service/internal/recurrence"
	"github.com/evcal/event-lifecycle-service/internal/repository"
	"github.com/evcal/event-lifecycle-service/internal/scheduler"
)

// LifecycleService is the event lifecycle state machine. It is the only
// writer of ParseResponse status and the only creator of Events. A single
// mutex serializes every mutating operation so conflict detection always
// sees a consistent snapshot and check-then-set transitions cannot race.
type LifecycleService struct {
	mu sync.Mutex

	proposals repository.ParseResponseRepository
	events    repository.EventRepository
	timeline  repository.TimelineRepository
	bus       *bus.Bus
	clock     *clock.Simulated
	scheduler *scheduler.Scheduler
	parser    parser.Parser
	newID     func() string
	log       *zap.Logger

	recurrenceHorizon time.Duration
	maxOccurrences    int
}

// NewLifecycleService creates the engine around its collaborators.
func NewLifecycleService(
	proposals repository.ParseResponseRepository,
	events repository.EventRepository,
	timeline repository.TimelineRepository,
	b *bus.Bus,
	clk *clock.Simulated,
	sched *scheduler.Scheduler,
	p parser.Parser,
	log *zap.Logger,
	opts ...LifecycleOption,
) *LifecycleService {
	svc := &LifecycleService{
		proposals:         proposals,
		events:            events,
		timeline:          timeline,
		bus:               b,
		clock:             clk,
		scheduler:         sched,
		parser:            p,
		newID:             nuid.Next,
		log:               log,
		recurrenceHorizon: 90 * 24 * time.Hour,
		maxOccurrences:    100,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type LifecycleOption func(*LifecycleService)

// WithRecurrenceHorizon bounds series expansion when no end is derivable.
func WithRecurrenceHorizon(d time.Duration) LifecycleOption {
	return func(s *LifecycleService) {
		if d > 0 {
			s.recurrenceHorizon = d
		}
	}
}

// WithMaxOccurrences caps the number of child events per series.
func WithMaxOccurrences(n int) LifecycleOption {
	return func(s *LifecycleService) {
		if n > 0 {
			s.maxOccurrences = n
		}
	}
}

// SubmitText runs the parser collaborator on free text and submits the
// resulting proposal. Parser failures surface as ErrParseFailure rather
// than producing an empty proposal.
func (s *LifecycleService) SubmitText(ctx context.Context, text string) (domain.ParseResponse, error) {
	proposed, ambiguities, err := s.parser.Parse(ctx, text, s.clock.Now())
	if err != nil {
		s.log.Warn("Parser failed", zap.Error(err))
		return domain.ParseResponse{}, fmt.Errorf("%w: %s", domain.ErrParseFailure, err)
	}
	return s.SubmitProposal(ctx, proposed, ambiguities)
}

// SubmitProposal validates the proposed interval, runs conflict detection
// against all confirmed events and other pending proposals, and stores a
// new pending ParseResponse. Detected conflicts are recorded on the
// response and announced on the bus.
func (s *LifecycleService) SubmitProposal(ctx context.Context, proposed domain.ProposedEvent, ambiguities []domain.Ambiguity) (domain.ParseResponse, error) {
	if err := proposed.Interval().Validate(); err != nil {
		return domain.ParseResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	confirmed, err := s.events.ListAll(ctx)
	if err != nil {
		return domain.ParseResponse{}, fmt.Errorf("list events: %w", err)
	}
	pending, err := s.proposals.ListAll(ctx)
	if err != nil {
		return domain.ParseResponse{}, fmt.Errorf("list proposals: %w", err)
	}

	pr := domain.ParseResponse{
		ID:          s.newID(),
		Status:      domain.ProposalStatusPending,
		Proposed:    proposed,
		Ambiguities: ambiguities,
		Conflicts:   conflict.Detect(proposed.Interval(), "", confirmed, pending),
		CreatedAt:   s.clock.Now(),
	}

	if err := s.proposals.Put(ctx, pr); err != nil {
		return domain.ParseResponse{}, fmt.Errorf("store parse response: %w", err)
	}

	s.log.Info("Proposal submitted",
		zap.String("parse_response_id", pr.ID),
		zap.String("title", proposed.Title),
		zap.Int("ambiguities", len(ambiguities)),
		zap.Int("conflicts", len(pr.Conflicts)))

	if len(pr.Conflicts) > 0 {
		if err := s.bus.Publish(domain.ConflictDetected{
			ParseResponseID: pr.ID,
			Conflicts:       pr.Conflicts,
		}); err != nil {
			return domain.ParseResponse{}, err
		}
	}

	return pr, nil
}

// ConfirmProposal moves a pending proposal to confirmed and creates the
// authoritative Event from the final, possibly user-edited, proposal. The
// Event is persisted before EventCreated is published: a failing subscriber
// leaves the Event durably created with its downstream reminders possibly
// absent, and the caller sees the error.
//
// Conflicts are not re-checked here; the ones shown to the user were
// computed at parse time.
func (s *LifecycleService) ConfirmProposal(ctx context.Context, id string, final domain.ProposedEvent) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pr, err := s.proposals.Get(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("proposal %s: %w", id, err)
	}
	if pr.Status != domain.ProposalStatusPending {
		return domain.Event{}, &domain.TransitionError{
			Current:   pr.Status,
			Requested: domain.ProposalStatusConfirmed,
		}
	}
	if err := final.Interval().Validate(); err != nil {
		return domain.Event{}, err
	}

	now := s.clock.Now()
	event := domain.Event{
		ID:              s.newID(),
		Title:           final.Title,
		Start:           final.Start,
		End:             final.End,
		Location:        final.Location,
		Notes:           final.Notes,
		ParseResponseID: pr.ID,
		CreatedAt:       now,
	}
	if final.Recurring() {
		event.RecurrenceRule = recurrence.Compile(final)
		event.RecurrenceUntil = recurrence.DeriveUntil(final.RecurrenceEndDescription, final.Start)
	}

	if err := s.events.Put(ctx, event); err != nil {
		return domain.Event{}, fmt.Errorf("store event: %w", err)
	}

	// The audit trail keeps what was actually confirmed.
	pr.Status = domain.ProposalStatusConfirmed
	pr.Proposed = final
	pr.EventID = event.ID
	if err := s.proposals.Put(ctx, pr); err != nil {
		return domain.Event{}, fmt.Errorf("update parse response: %w", err)
	}

	children, err := recurrence.Expand(event, recurrence.ExpandConfig{
		Horizon:        s.recurrenceHorizon,
		MaxOccurrences: s.maxOccurrences,
		NewID:          s.newID,
		Now:            now,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("expand recurrence: %w", err)
	}
	for _, child := range children {
		if err := s.events.Put(ctx, child); err != nil {
			return domain.Event{}, fmt.Errorf("store occurrence: %w", err)
		}
	}

	s.log.Info("Proposal confirmed",
		zap.String("parse_response_id", pr.ID),
		zap.String("event_id", event.ID),
		zap.Int("occurrences", len(children)))

	if err := s.bus.Publish(domain.EventCreated{EventID: event.ID}); err != nil {
		return domain.Event{}, err
	}
	for _, child := range children {
		if err := s.bus.Publish(domain.EventCreated{EventID: child.ID}); err != nil {
			return domain.Event{}, err
		}
	}

	// Re-read to pick up reminder associations made by subscribers.
	stored, err := s.events.Get(ctx, event.ID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("reload event %s: %w", event.ID, err)
	}
	return stored, nil
}

// RejectProposal moves a pending proposal to rejected. No Event is created;
// the record stays retrievable for audit.
func (s *LifecycleService) RejectProposal(ctx context.Context, id string) (domain.ParseResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pr, err := s.proposals.Get(ctx, id)
	if err != nil {
		return domain.ParseResponse{}, fmt.Errorf("proposal %s: %w", id, err)
	}
	if pr.Status != domain.ProposalStatusPending {
		return domain.ParseResponse{}, &domain.TransitionError{
			Current:   pr.Status,
			Requested: domain.ProposalStatusRejected,
		}
	}

	pr.Status = domain.ProposalStatusRejected
	if err := s.proposals.Put(ctx, pr); err != nil {
		return domain.ParseResponse{}, fmt.Errorf("update parse response: %w", err)
	}

	s.log.Info("Proposal rejected", zap.String("parse_response_id", pr.ID))
	return pr, nil
}

// GetProposal returns one parse response by id, whatever its status.
// Rejected responses stay retrievable for audit and revisiting.
func (s *LifecycleService) GetProposal(ctx context.Context, id string) (domain.ParseResponse, error) {
	pr, err := s.proposals.Get(ctx, id)
	if err != nil {
		return domain.ParseResponse{}, fmt.Errorf("proposal %s: %w", id, err)
	}
	return pr, nil
}

// ListPending returns all pending parse responses in creation order.
func (s *LifecycleService) ListPending(ctx context.Context) ([]domain.ParseResponse, error) {
	all, err := s.proposals.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	pending := make([]domain.ParseResponse, 0, len(all))
	for _, pr := range all {
		if pr.Status == domain.ProposalStatusPending {
			pending = append(pending, pr)
		}
	}
	return pending, nil
}

// GetEvent returns one event by id.
func (s *LifecycleService) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	event, err := s.events.Get(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, err)
	}
	return event, nil
}

// ListEvents returns all events in creation order.
func (s *LifecycleService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ShareEvent records that an event was shared with the given targets and
// publishes EventShared.
func (s *LifecycleService) ShareEvent(ctx context.Context, id string, targets []string) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.events.Get(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, err)
	}

	seen := make(map[string]bool, len(event.SharedWith))
	for _, target := range event.SharedWith {
		seen[target] = true
	}
	for _, target := range targets {
		if !seen[target] {
			event.SharedWith = append(event.SharedWith, target)
			seen[target] = true
		}
	}

	if err := s.events.Put(ctx, event); err != nil {
		return domain.Event{}, fmt.Errorf("update event: %w", err)
	}

	if err := s.bus.Publish(domain.EventShared{EventID: event.ID, Targets: targets}); err != nil {
		return domain.Event{}, err
	}

	s.log.Info("Event shared",
		zap.String("event_id", event.ID),
		zap.Int("targets", len(targets)))
	return event, nil
}

// EventTimeline returns the audit trail of one event in append order.
func (s *LifecycleService) EventTimeline(ctx context.Context, id string) ([]domain.TimelineEntry, error) {
	if _, err := s.events.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("event %s: %w", id, err)
	}
	entries, err := s.timeline.ListForEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	return entries, nil
}

// AdvanceClock moves the simulated clock and fires due reminders.
func (s *LifecycleService) AdvanceClock(ctx context.Context, now time.Time) ([]domain.Reminder, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fired, err := s.scheduler.Tick(ctx, now)
	if err != nil {
		return nil, s.clock.Now(), err
	}
	return fired, s.clock.Now(), nil
}
