package clock

import (
	"sync"
	"time"
)

// Clock allows injecting time in domain/services.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always returns the same instant (useful for tests).
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// Simulated is a logical clock that moves only when told to. It starts at a
// given instant (typically process start) and afterwards always reports the
// last value it was advanced to; there is no background progression.
type Simulated struct {
	mu  sync.RWMutex
	now time.Time
}

// NewSimulated returns a simulated clock starting at t.
func NewSimulated(t time.Time) *Simulated {
	return &Simulated{now: t.UTC()}
}

func (s *Simulated) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now
}

// Advance sets the clock to t and returns the new reading. The clock keeps
// whatever it is given, including values earlier than the current reading.
func (s *Simulated) Advance(t time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = t.UTC()
	return s.now
}
