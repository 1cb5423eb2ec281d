// Package parser defines the collaborator that turns unstructured text into
// a structured proposal, plus a rule-based reference implementation. The
// engine treats the parser as opaque; it could equally be a remote model
// call.
package parser

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/evcal/event-lifecycle-service/internal/domain"
)

// Parser produces a best-effort structured proposal from free text, using
// now to resolve relative dates. Failures surface as domain.ErrParseFailure.
type Parser interface {
	Parse(ctx context.Context, text string, now time.Time) (domain.ProposedEvent, []domain.Ambiguity, error)
}

// RuleBased is a deterministic pattern-matching parser. It understands
// relative dates ("tomorrow", weekday names), clock times ("at 3pm",
// "15:00"), durations ("for 2 hours"), end times ("until 5pm"), locations
// ("at the office") and recurrence phrases ("every Thursday"). Everything
// it has to guess is reported as an ambiguity.
type RuleBased struct {
	// DefaultDuration is used when no end time or duration is given.
	DefaultDuration time.Duration
}

// NewRuleBased returns a parser with a one hour default event duration.
func NewRuleBased() *RuleBased {
	return &RuleBased{DefaultDuration: time.Hour}
}

var (
	timePattern     = regexp.MustCompile(`(?i)\b(?:at\s+)?(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	durationPattern = regexp.MustCompile(`(?i)\bfor\s+(\d+(?:\.\d+)?)\s*(hours?|hrs?|minutes?|mins?)\b`)
	untilPattern    = regexp.MustCompile(`(?i)\buntil\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	everyPattern    = regexp.MustCompile(`(?i)\bevery\s+[\w\s-]+?(?:\s+(?:at|from|until|for)\b|$)`)
	locationPattern = regexp.MustCompile(`(?i)\b(?:at|in)\s+((?:the\s+)?[A-Z][\w']*(?:\s+[A-Z][\w']*)*)`)
)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

func (p *RuleBased) Parse(_ context.Context, text string, now time.Time) (domain.ProposedEvent, []domain.Ambiguity, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.ProposedEvent{}, nil, fmt.Errorf("%w: empty input", domain.ErrParseFailure)
	}

	var ambiguities []domain.Ambiguity
	lower := strings.ToLower(trimmed)

	day, dayFound := p.resolveDay(lower, now)
	if !dayFound {
		day = now.AddDate(0, 0, 1)
		ambiguities = append(ambiguities, domain.Ambiguity{
			Field:  "start",
			Reason: "no date found in input; assumed tomorrow",
		})
	}

	hour, minute, timeFound := p.resolveTime(lower)
	if !timeFound {
		hour, minute = 9, 0
		ambiguities = append(ambiguities, domain.Ambiguity{
			Field:   "start",
			Reason:  "no time of day found in input; assumed morning",
			Options: []string{"09:00", "12:00", "15:00"},
		})
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
	if dayFound && !timeFound && !start.After(now) {
		// "today" with no usable time would land in the past; push a day out.
		start = start.AddDate(0, 0, 1)
	}

	end, endFound := p.resolveEnd(lower, start)
	if !endFound {
		end = start.Add(p.DefaultDuration)
		ambiguities = append(ambiguities, domain.Ambiguity{
			Field:  "end",
			Reason: fmt.Sprintf("no end time or duration found; assumed %s", p.DefaultDuration),
		})
	}

	proposed := domain.ProposedEvent{
		Title:    p.resolveTitle(trimmed),
		Start:    start,
		End:      end,
		Location: p.resolveLocation(trimmed),
		Notes:    trimmed,
	}

	if m := everyPattern.FindString(lower); m != "" {
		desc := strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(m, "at"), "from"), "until"), "for"))
		proposed.RecurrenceDescription = desc
		if strings.Contains(desc, "every other") {
			ambiguities = append(ambiguities, domain.Ambiguity{
				Field:  "recurrence_description",
				Reason: "'every other' is ambiguous: the series may start this week or next",
				Options: []string{
					start.Format("2006-01-02"),
					start.AddDate(0, 0, 7).Format("2006-01-02"),
				},
			})
		}
		if !strings.Contains(lower, "until") {
			ambiguities = append(ambiguities, domain.Ambiguity{
				Field:  "recurrence_end_description",
				Reason: "no end date specified for recurring event",
			})
		} else {
			if idx := strings.Index(lower, "until"); idx >= 0 {
				proposed.RecurrenceEndDescription = strings.TrimSpace(trimmed[idx:])
			}
		}
	}

	return proposed, ambiguities, nil
}

func (p *RuleBased) resolveDay(lower string, now time.Time) (time.Time, bool) {
	if strings.Contains(lower, "today") {
		return now, true
	}
	if strings.Contains(lower, "tomorrow") {
		return now.AddDate(0, 0, 1), true
	}
	for name, weekday := range weekdays {
		if strings.Contains(lower, name) {
			daysAhead := (int(weekday) - int(now.Weekday()) + 7) % 7
			if daysAhead == 0 {
				daysAhead = 7
			}
			return now.AddDate(0, 0, daysAhead), true
		}
	}
	return time.Time{}, false
}

func (p *RuleBased) resolveTime(lower string) (hour, minute int, ok bool) {
	m := timePattern.FindStringSubmatch(lower)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	// Bare small numbers without am/pm or minutes are too likely to be
	// quantities ("room 3"), not times.
	if m[3] == "" && m[2] == "" {
		return 0, 0, false
	}
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute, true
}

func (p *RuleBased) resolveEnd(lower string, start time.Time) (time.Time, bool) {
	if m := untilPattern.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if strings.EqualFold(m[3], "pm") && hour < 12 {
			hour += 12
		}
		end := time.Date(start.Year(), start.Month(), start.Day(), hour, minute, 0, 0, start.Location())
		if end.After(start) {
			return end, true
		}
	}
	if m := durationPattern.FindStringSubmatch(lower); m != nil {
		amount, _ := strconv.ParseFloat(m[1], 64)
		unit := time.Hour
		if strings.HasPrefix(strings.ToLower(m[2]), "min") {
			unit = time.Minute
		}
		return start.Add(time.Duration(amount * float64(unit))), true
	}
	return time.Time{}, false
}

func (p *RuleBased) resolveTitle(text string) string {
	// Title is everything before the first scheduling keyword.
	lower := strings.ToLower(text)
	cut := len(text)
	for _, keyword := range []string{" at ", " on ", " tomorrow", " today", " every ", " from ", " until ", " for "} {
		if idx := strings.Index(lower, keyword); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	title := strings.TrimSpace(text[:cut])
	if title == "" {
		title = strings.TrimSpace(text)
	}
	return title
}

func (p *RuleBased) resolveLocation(text string) string {
	m := locationPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
