package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nuid"
	"go.uber.org/zap"

	"github.com/evcal/event-lifecycle-service/internal/bus"
	"github.com/evcal/event-lifecycle-service/internal/clock"
	"github.com/evcal/event-lifecycle-service/internal/domain"
	"github.com/evcal/event-lifecycle-service/internal/repository"
)

// AuditRecorder subscribes to the bus and appends timeline entries for every
// lifecycle side effect. It must be registered after the reminder scheduler
// so that the reminder_scheduled entry sees the reminder ids the scheduler
// attached to the event.
type AuditRecorder struct {
	timeline repository.TimelineRepository
	events   repository.EventRepository
	clock    clock.Clock
	newID    func() string
	log      *zap.Logger
}

func NewAuditRecorder(
	timeline repository.TimelineRepository,
	events repository.EventRepository,
	clk clock.Clock,
	log *zap.Logger,
) *AuditRecorder {
	return &AuditRecorder{
		timeline: timeline,
		events:   events,
		clock:    clk,
		newID:    nuid.Next,
		log:      log,
	}
}

// Register wires the recorder to every domain event tag.
func (a *AuditRecorder) Register(b *bus.Bus) {
	b.Subscribe(domain.TagEventCreated, func(event domain.DomainEvent) error {
		created, ok := event.(domain.EventCreated)
		if !ok {
			return fmt.Errorf("unexpected event type for %s", event.Tag())
		}
		return a.onEventCreated(context.Background(), created)
	})
	b.Subscribe(domain.TagConflictDetected, func(event domain.DomainEvent) error {
		detected, ok := event.(domain.ConflictDetected)
		if !ok {
			return fmt.Errorf("unexpected event type for %s", event.Tag())
		}
		return a.onConflictDetected(context.Background(), detected)
	})
	b.Subscribe(domain.TagReminderFired, func(event domain.DomainEvent) error {
		fired, ok := event.(domain.ReminderFired)
		if !ok {
			return fmt.Errorf("unexpected event type for %s", event.Tag())
		}
		return a.append(context.Background(), fired.EventID, domain.TimelineReminderSent, map[string]any{
			"reminder_id": fired.ReminderID,
			"fired_at":    fired.FiredAt,
		})
	})
	b.Subscribe(domain.TagEventShared, func(event domain.DomainEvent) error {
		shared, ok := event.(domain.EventShared)
		if !ok {
			return fmt.Errorf("unexpected event type for %s", event.Tag())
		}
		return a.append(context.Background(), shared.EventID, domain.TimelineShared, map[string]any{
			"targets": shared.Targets,
		})
	})
}

func (a *AuditRecorder) onEventCreated(ctx context.Context, created domain.EventCreated) error {
	if err := a.append(ctx, created.EventID, domain.TimelineCreated, nil); err != nil {
		return err
	}

	event, err := a.events.Get(ctx, created.EventID)
	if err != nil {
		return fmt.Errorf("load event %s: %w", created.EventID, err)
	}
	return a.append(ctx, created.EventID, domain.TimelineReminderScheduled, map[string]any{
		"reminder_ids": event.ReminderIDs,
	})
}

// onConflictDetected records the conflict on each conflicting confirmed
// event. Conflicting entries that are pending proposals rather than events
// have no timeline of their own and are only logged.
func (a *AuditRecorder) onConflictDetected(ctx context.Context, detected domain.ConflictDetected) error {
	for _, c := range detected.Conflicts {
		_, err := a.events.Get(ctx, c.ConflictingID)
		if errors.Is(err, domain.ErrNotFound) {
			a.log.Debug("Conflict with pending proposal",
				zap.String("parse_response_id", detected.ParseResponseID),
				zap.String("conflicting_id", c.ConflictingID))
			continue
		}
		if err != nil {
			return fmt.Errorf("load event %s: %w", c.ConflictingID, err)
		}
		err = a.append(ctx, c.ConflictingID, domain.TimelineConflictDetected, map[string]any{
			"parse_response_id": detected.ParseResponseID,
			"overlap_kind":      c.Kind,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *AuditRecorder) append(ctx context.Context, eventID string, entryType domain.TimelineEntryType, payload map[string]any) error {
	entry := domain.TimelineEntry{
		ID:        a.newID(),
		EventID:   eventID,
		Type:      entryType,
		Payload:   payload,
		CreatedAt: a.clock.Now(),
	}
	if err := a.timeline.Append(ctx, entry); err != nil {
		return fmt.Errorf("append timeline entry: %w", err)
	}
	return nil
}
