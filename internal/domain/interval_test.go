package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func interval(startHour, endHour int) Interval {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return Interval{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestInterval_Validate_Valid(t *testing.T) {
	assert.NoError(t, interval(10, 11).Validate())
}

func TestInterval_Validate_Reflected(t *testing.T) {
	iv := interval(11, 10)
	assert.ErrorIs(t, iv.Validate(), ErrInvalidInterval)
}

func TestInterval_Validate_ZeroLength(t *testing.T) {
	iv := interval(10, 10)
	assert.ErrorIs(t, iv.Validate(), ErrInvalidInterval)
}

func TestInterval_Validate_ZeroValue(t *testing.T) {
	assert.ErrorIs(t, Interval{}.Validate(), ErrInvalidInterval)
}

func TestInterval_Overlaps_Symmetry(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
	}{
		{"partial", interval(9, 11), interval(10, 12)},
		{"contained", interval(9, 14), interval(10, 12)},
		{"identical", interval(9, 11), interval(9, 11)},
		{"disjoint", interval(8, 9), interval(10, 12)},
		{"adjacent", interval(9, 10), interval(10, 11)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.a.Overlaps(tc.b), tc.b.Overlaps(tc.a), tc.name)
	}
}

func TestInterval_Overlaps_AdjacentDoesNot(t *testing.T) {
	// 10:00-11:00 and 11:00-12:00 are back to back, not overlapping.
	assert.False(t, interval(10, 11).Overlaps(interval(11, 12)))
	assert.False(t, interval(11, 12).Overlaps(interval(10, 11)))
}

func TestInterval_Overlaps_Partial(t *testing.T) {
	assert.True(t, interval(10, 12).Overlaps(interval(11, 13)))
}

func TestInterval_Contains_StrictSubset(t *testing.T) {
	assert.True(t, interval(9, 14).Contains(interval(10, 12)))
	assert.False(t, interval(10, 12).Contains(interval(9, 14)))
}

func TestInterval_Contains_SharedBound(t *testing.T) {
	// [10,11) is a strict subset of [10,12) even though the start coincides.
	assert.True(t, interval(10, 12).Contains(interval(10, 11)))
}

func TestInterval_Contains_IdenticalIsNotContainment(t *testing.T) {
	assert.False(t, interval(10, 12).Contains(interval(10, 12)))
}

func TestProposalStatus_Terminal(t *testing.T) {
	assert.False(t, ProposalStatusPending.Terminal())
	assert.True(t, ProposalStatusConfirmed.Terminal())
	assert.True(t, ProposalStatusRejected.Terminal())
}

func TestTransitionError_UnwrapsToIllegalTransition(t *testing.T) {
	err := &TransitionError{Current: ProposalStatusRejected, Requested: ProposalStatusConfirmed}
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Contains(t, err.Error(), "rejected")
	assert.Contains(t, err.Error(), "confirmed")
}
