// Package bus provides the synchronous in-process domain event bus that
// decouples lifecycle transitions from their side effects.
package bus

import (
	"fmt"

	"github.com/evcal/event-lifecycle-service/internal/domain"
)

// Handler consumes one domain event. A handler error aborts the publish and
// propagates to the publisher; the bus does not isolate failures.
type Handler func(event domain.DomainEvent) error

// Bus delivers domain events to subscribers synchronously, in registration
// order, within the publisher's control flow. There is no queueing and no
// cross-goroutine handoff; publish returns only after every handler ran.
//
// Subscribe is expected at wiring time (startup), publish at request time.
// The bus itself is not locked: callers already serialize mutating operations
// at the engine level.
type Bus struct {
	handlers map[domain.EventTag][]Handler
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{handlers: make(map[domain.EventTag][]Handler)}
}

// Subscribe registers a handler for one event tag. Handlers for the same tag
// run in the order they were registered.
func (b *Bus) Subscribe(tag domain.EventTag, handler Handler) {
	b.handlers[tag] = append(b.handlers[tag], handler)
}

// Publish invokes every handler registered for the event's tag. The first
// handler error stops delivery and is returned to the caller.
func (b *Bus) Publish(event domain.DomainEvent) error {
	for _, handler := range b.handlers[event.Tag()] {
		if err := handler(event); err != nil {
			return fmt.Errorf("handler for %s: %w", event.Tag(), err)
		}
	}
	return nil
}
