package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulated_StartsAtGivenInstant(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := NewSimulated(start)
	assert.Equal(t, start, clk.Now())
}

func TestSimulated_AdvanceKeepsLastValue(t *testing.T) {
	clk := NewSimulated(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	later := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	clk.Advance(later)
	assert.Equal(t, later, clk.Now())

	// The clock does not auto-advance; it holds whatever it was given last,
	// including an earlier instant.
	earlier := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	clk.Advance(earlier)
	assert.Equal(t, earlier, clk.Now())
}

func TestSimulated_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	clk := NewSimulated(time.Date(2026, 3, 1, 14, 0, 0, 0, loc))
	assert.Equal(t, time.UTC, clk.Now().Location())
	assert.Equal(t, 12, clk.Now().Hour())
}

func TestNewFixed_AlwaysSameInstant(t *testing.T) {
	instant := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clk := NewFixed(instant)
	assert.Equal(t, instant, clk.Now())
	assert.Equal(t, instant, clk.Now())
}
