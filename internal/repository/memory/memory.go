// Package memory provides the in-memory repository implementations. Values
// are stored by copy, so callers never share state with the store and reads
// cannot observe a half-applied write.
package memory

import (
	"context"
	"sync"

	"github.com/evcal/event-lifecycle-service/internal/domain"
)

// store is a keyed collection that remembers insertion order for ListAll.
type store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func newStore[T any]() *store[T] {
	return &store[T]{items: make(map[string]T)}
}

func (s *store[T]) put(id string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; !exists {
		s.order = append(s.order, id)
	}
	s.items[id] = value
}

func (s *store[T]) get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[id]
	return value, ok
}

func (s *store[T]) listAll() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := make([]T, 0, len(s.order))
	for _, id := range s.order {
		values = append(values, s.items[id])
	}
	return values
}

// ParseResponseRepository is the in-memory parse response store.
type ParseResponseRepository struct {
	store *store[domain.ParseResponse]
}

func NewParseResponseRepository() *ParseResponseRepository {
	return &ParseResponseRepository{store: newStore[domain.ParseResponse]()}
}

func (r *ParseResponseRepository) Put(_ context.Context, pr domain.ParseResponse) error {
	r.store.put(pr.ID, pr)
	return nil
}

func (r *ParseResponseRepository) Get(_ context.Context, id string) (domain.ParseResponse, error) {
	pr, ok := r.store.get(id)
	if !ok {
		return domain.ParseResponse{}, domain.ErrNotFound
	}
	return pr, nil
}

func (r *ParseResponseRepository) ListAll(_ context.Context) ([]domain.ParseResponse, error) {
	return r.store.listAll(), nil
}

// EventRepository is the in-memory event store.
type EventRepository struct {
	store *store[domain.Event]
}

func NewEventRepository() *EventRepository {
	return &EventRepository{store: newStore[domain.Event]()}
}

func (r *EventRepository) Put(_ context.Context, event domain.Event) error {
	r.store.put(event.ID, event)
	return nil
}

func (r *EventRepository) Get(_ context.Context, id string) (domain.Event, error) {
	event, ok := r.store.get(id)
	if !ok {
		return domain.Event{}, domain.ErrNotFound
	}
	return event, nil
}

func (r *EventRepository) ListAll(_ context.Context) ([]domain.Event, error) {
	return r.store.listAll(), nil
}

// ReminderRepository is the in-memory reminder store.
type ReminderRepository struct {
	store *store[domain.Reminder]
}

func NewReminderRepository() *ReminderRepository {
	return &ReminderRepository{store: newStore[domain.Reminder]()}
}

func (r *ReminderRepository) Put(_ context.Context, reminder domain.Reminder) error {
	r.store.put(reminder.ID, reminder)
	return nil
}

func (r *ReminderRepository) Get(_ context.Context, id string) (domain.Reminder, error) {
	reminder, ok := r.store.get(id)
	if !ok {
		return domain.Reminder{}, domain.ErrNotFound
	}
	return reminder, nil
}

func (r *ReminderRepository) ListAll(_ context.Context) ([]domain.Reminder, error) {
	return r.store.listAll(), nil
}

// TimelineRepository is the in-memory audit trail store.
type TimelineRepository struct {
	mu      sync.RWMutex
	entries []domain.TimelineEntry
}

func NewTimelineRepository() *TimelineRepository {
	return &TimelineRepository{}
}

func (r *TimelineRepository) Append(_ context.Context, entry domain.TimelineEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *TimelineRepository) ListForEvent(_ context.Context, eventID string) ([]domain.TimelineEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var entries []domain.TimelineEntry
	for _, entry := range r.entries {
		if entry.EventID == eventID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
