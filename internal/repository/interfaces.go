package repository

import (
	"context"

	"github.com/evcal/event-lifecycle-service/internal/domain"
)

// ParseResponseRepository stores parse responses keyed by id. ListAll returns
// entries in creation order. Implementations must return domain.ErrNotFound
// from Get for unknown ids and may wrap backend failures in domain.ErrStorage.
type ParseResponseRepository interface {
	Put(ctx context.Context, pr domain.ParseResponse) error
	Get(ctx context.Context, id string) (domain.ParseResponse, error)
	ListAll(ctx context.Context) ([]domain.ParseResponse, error)
}

// EventRepository stores confirmed events keyed by id, listed in creation order.
type EventRepository interface {
	Put(ctx context.Context, event domain.Event) error
	Get(ctx context.Context, id string) (domain.Event, error)
	ListAll(ctx context.Context) ([]domain.Event, error)
}

// ReminderRepository stores reminders keyed by id, listed in creation order.
type ReminderRepository interface {
	Put(ctx context.Context, reminder domain.Reminder) error
	Get(ctx context.Context, id string) (domain.Reminder, error)
	ListAll(ctx context.Context) ([]domain.Reminder, error)
}

// TimelineRepository stores the append-only audit trail per event.
type TimelineRepository interface {
	Append(ctx context.Context, entry domain.TimelineEntry) error
	ListForEvent(ctx context.Context, eventID string) ([]domain.TimelineEntry, error)
}
