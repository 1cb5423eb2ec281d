// Package scheduler owns reminder creation and firing. It is the only
// writer of Reminder records, and its notion of "now" is the simulated
// clock, advanced exclusively through Tick.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nats-io/nuid"
	"go.uber.org/zap"

	"github.com/evcal/event-lifecycle-service/internal/bus"
	"github.com/evcal/event-lifecycle-service/internal/clock"
	"github.com/evcal/event-lifecycle-service/internal/domain"
	"github.com/evcal/event-lifecycle-service/internal/repository"
)

// DefaultOffset is the fallback lead time for reminders when neither the
// configuration nor the triggering event supplies offsets.
const DefaultOffset = 30 * time.Minute

// Scheduler derives reminders for newly created events and fires the ones
// that have come due when the clock is advanced.
type Scheduler struct {
	reminders repository.ReminderRepository
	events    repository.EventRepository
	bus       *bus.Bus
	clock     *clock.Simulated
	offsets   []time.Duration
	newID     func() string
	log       *zap.Logger
}

// New creates a scheduler. An empty offsets slice falls back to DefaultOffset.
func New(
	reminders repository.ReminderRepository,
	events repository.EventRepository,
	b *bus.Bus,
	clk *clock.Simulated,
	offsets []time.Duration,
	log *zap.Logger,
) *Scheduler {
	if len(offsets) == 0 {
		offsets = []time.Duration{DefaultOffset}
	}
	return &Scheduler{
		reminders: reminders,
		events:    events,
		bus:       b,
		clock:     clk,
		offsets:   offsets,
		newID:     nuid.Next,
		log:       log,
	}
}

// Register subscribes the scheduler to the domain events it reacts to.
func (s *Scheduler) Register(b *bus.Bus) {
	b.Subscribe(domain.TagEventCreated, func(event domain.DomainEvent) error {
		created, ok := event.(domain.EventCreated)
		if !ok {
			return fmt.Errorf("unexpected event type for %s", event.Tag())
		}
		return s.OnEventCreated(context.Background(), created)
	})
}

// OnEventCreated creates the default reminder set for the event: one
// reminder per offset, at start minus offset. A remind-at already in the
// past relative to the simulated clock is kept as-is; it fires on the next
// tick rather than being dropped.
func (s *Scheduler) OnEventCreated(ctx context.Context, created domain.EventCreated) error {
	event, err := s.events.Get(ctx, created.EventID)
	if err != nil {
		return fmt.Errorf("load event %s: %w", created.EventID, err)
	}

	offsets := s.offsets
	if len(created.ReminderOffsets) > 0 {
		offsets = created.ReminderOffsets
	}

	now := s.clock.Now()
	for _, offset := range offsets {
		reminder := domain.Reminder{
			ID:        s.newID(),
			EventID:   event.ID,
			RemindAt:  event.Start.Add(-offset),
			CreatedAt: now,
		}
		if err := s.reminders.Put(ctx, reminder); err != nil {
			return fmt.Errorf("store reminder: %w", err)
		}
		event.ReminderIDs = append(event.ReminderIDs, reminder.ID)
	}

	if err := s.events.Put(ctx, event); err != nil {
		return fmt.Errorf("associate reminders with event %s: %w", event.ID, err)
	}

	s.log.Info("Reminders scheduled",
		zap.String("event_id", event.ID),
		zap.Int("count", len(offsets)))

	return nil
}

// Tick advances the simulated clock to now and fires every unfired reminder
// with remind_at <= now, ordered by remind_at then id. Already-fired
// reminders are skipped, so repeating a tick with the same or an earlier
// now fires nothing new.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	now = s.clock.Advance(now)

	all, err := s.reminders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	var due []domain.Reminder
	for _, reminder := range all {
		if !reminder.Fired && !reminder.RemindAt.After(now) {
			due = append(due, reminder)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].RemindAt.Equal(due[j].RemindAt) {
			return due[i].RemindAt.Before(due[j].RemindAt)
		}
		return due[i].ID < due[j].ID
	})

	fired := make([]domain.Reminder, 0, len(due))
	for _, reminder := range due {
		firedAt := now
		reminder.Fired = true
		reminder.FiredAt = &firedAt
		if err := s.reminders.Put(ctx, reminder); err != nil {
			return fired, fmt.Errorf("mark reminder %s fired: %w", reminder.ID, err)
		}
		if err := s.bus.Publish(domain.ReminderFired{
			ReminderID: reminder.ID,
			EventID:    reminder.EventID,
			FiredAt:    firedAt,
		}); err != nil {
			return fired, err
		}
		fired = append(fired, reminder)
	}

	if len(fired) > 0 {
		s.log.Info("Reminders fired",
			zap.Int("count", len(fired)),
			zap.Time("now", now))
	}

	return fired, nil
}
