package domain

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate returns ErrInvalidInterval unless Start is strictly before End.
// Zero-length intervals are rejected.
func (iv Interval) Validate() error {
	if !iv.Start.Before(iv.End) {
		return ErrInvalidInterval
	}
	return nil
}

// Overlaps reports whether two half-open intervals intersect. Back-to-back
// intervals, where one ends exactly when the other starts, do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Equal reports whether both bounds coincide.
func (iv Interval) Equal(other Interval) bool {
	return iv.Start.Equal(other.Start) && iv.End.Equal(other.End)
}

// Contains reports whether other lies strictly inside iv, i.e. other's bounds
// are a strict subset of iv's.
func (iv Interval) Contains(other Interval) bool {
	if iv.Equal(other) {
		return false
	}
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}
