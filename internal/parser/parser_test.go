package parser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcal/event-lifecycle-service/internal/domain"
)

// A Sunday at noon, so every weekday name resolves forward within a week.
var parseNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ambiguityFields(ambiguities []domain.Ambiguity) []string {
	fields := make([]string, 0, len(ambiguities))
	for _, a := range ambiguities {
		fields = append(fields, a.Field)
	}
	return fields
}

func TestParse_EmptyInput(t *testing.T) {
	p := NewRuleBased()

	_, _, err := p.Parse(context.Background(), "   ", parseNow)

	assert.ErrorIs(t, err, domain.ErrParseFailure)
}

func TestParse_TomorrowAtSevenPM(t *testing.T) {
	p := NewRuleBased()

	proposed, ambiguities, err := p.Parse(context.Background(), "Dinner with Sam tomorrow at 7pm", parseNow)

	require.NoError(t, err)
	assert.Equal(t, "Dinner with Sam", proposed.Title)
	assert.Equal(t, time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC), proposed.Start)
	// Default one hour duration, reported as an ambiguity.
	assert.Equal(t, time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC), proposed.End)
	assert.Equal(t, []string{"end"}, ambiguityFields(ambiguities))
	assert.False(t, proposed.Recurring())
}

func TestParse_ExplicitEndLeavesNoAmbiguity(t *testing.T) {
	p := NewRuleBased()

	proposed, ambiguities, err := p.Parse(context.Background(), "Meeting tomorrow from 2pm until 5pm", parseNow)

	require.NoError(t, err)
	assert.Equal(t, "Meeting", proposed.Title)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), proposed.Start)
	assert.Equal(t, time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC), proposed.End)
	assert.Empty(t, ambiguities)
}

func TestParse_DurationInMinutes(t *testing.T) {
	p := NewRuleBased()

	proposed, _, err := p.Parse(context.Background(), "Coffee tomorrow at 10am for 90 minutes", parseNow)

	require.NoError(t, err)
	assert.Equal(t, "Coffee", proposed.Title)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), proposed.Start)
	assert.Equal(t, time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC), proposed.End)
}

func TestParse_WeekdayResolvesForward(t *testing.T) {
	p := NewRuleBased()

	proposed, _, err := p.Parse(context.Background(), "Standup every Thursday at 9:30", parseNow)

	require.NoError(t, err)
	// Next Thursday after Sunday March 1st.
	assert.Equal(t, time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC), proposed.Start)
}

func TestParse_SameWeekdayMeansNextWeek(t *testing.T) {
	p := NewRuleBased()

	proposed, _, err := p.Parse(context.Background(), "Brunch on Sunday at 1pm", parseNow)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 8, 13, 0, 0, 0, time.UTC), proposed.Start)
}

func TestParse_NoDateAssumesTomorrow(t *testing.T) {
	p := NewRuleBased()

	proposed, ambiguities, err := p.Parse(context.Background(), "Call with Alex at 4pm", parseNow)

	require.NoError(t, err)
	assert.Equal(t, "Call with Alex", proposed.Title)
	assert.Equal(t, time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC), proposed.Start)
	assert.Contains(t, ambiguityFields(ambiguities), "start")
}

func TestParse_NoTimeAssumesMorning(t *testing.T) {
	p := NewRuleBased()

	proposed, ambiguities, err := p.Parse(context.Background(), "Lunch today", parseNow)

	require.NoError(t, err)
	// 9:00 today is already past noon "now", so the guess moves a day out.
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), proposed.Start)

	var timeAmbiguity *domain.Ambiguity
	for i := range ambiguities {
		if ambiguities[i].Field == "start" {
			timeAmbiguity = &ambiguities[i]
		}
	}
	require.NotNil(t, timeAmbiguity)
	assert.Contains(t, timeAmbiguity.Options, "09:00")
}

func TestParse_RecurrencePhrase(t *testing.T) {
	p := NewRuleBased()

	proposed, ambiguities, err := p.Parse(context.Background(), "Standup every Thursday at 9:30", parseNow)

	require.NoError(t, err)
	assert.True(t, proposed.Recurring())
	assert.Equal(t, "every thursday", proposed.RecurrenceDescription)
	// No "until" phrase, so the missing series end is flagged.
	assert.Contains(t, ambiguityFields(ambiguities), "recurrence_end_description")
}

func TestParse_EveryOtherIsAmbiguous(t *testing.T) {
	p := NewRuleBased()

	proposed, ambiguities, err := p.Parse(context.Background(), "Team sync every other Friday at 3pm until 4pm", parseNow)

	require.NoError(t, err)
	assert.Equal(t, "Team sync", proposed.Title)
	assert.Equal(t, "every other friday", proposed.RecurrenceDescription)
	assert.Equal(t, "until 4pm", proposed.RecurrenceEndDescription)

	require.Len(t, ambiguities, 1)
	assert.Equal(t, "recurrence_description", ambiguities[0].Field)
	assert.Equal(t, []string{"2026-03-06", "2026-03-13"}, ambiguities[0].Options)
}

func TestParse_Location(t *testing.T) {
	p := NewRuleBased()

	proposed, _, err := p.Parse(context.Background(), "Dinner tomorrow at 7pm at the Blue Door", parseNow)

	require.NoError(t, err)
	assert.Equal(t, "the Blue Door", proposed.Location)
}

func TestParse_BareNumberIsNotATime(t *testing.T) {
	p := NewRuleBased()

	proposed, ambiguities, err := p.Parse(context.Background(), "Inspection tomorrow room 3", parseNow)

	require.NoError(t, err)
	// "3" without am/pm or minutes must not become 3:00.
	assert.Equal(t, 9, proposed.Start.Hour())
	assert.Contains(t, ambiguityFields(ambiguities), "start")
}

func TestParse_KeepsOriginalTextAsNotes(t *testing.T) {
	p := NewRuleBased()

	proposed, _, err := p.Parse(context.Background(), "Dinner tomorrow at 7pm", parseNow)

	require.NoError(t, err)
	assert.Equal(t, "Dinner tomorrow at 7pm", proposed.Notes)
}
