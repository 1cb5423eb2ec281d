// Package recurrence compiles human-readable series descriptions into RRULE
// strings and expands recurring parents into concrete child occurrences.
package recurrence

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/evcal/event-lifecycle-service/internal/domain"
)

const defaultMaxOccurrences = 100

var dayAbbrevs = []struct {
	name   string
	abbrev string
}{
	{"monday", "MO"},
	{"tuesday", "TU"},
	{"wednesday", "WE"},
	{"thursday", "TH"},
	{"friday", "FR"},
	{"saturday", "SA"},
	{"sunday", "SU"},
}

var everyNPattern = regexp.MustCompile(`every\s+(\d+)\s+(week|day|month)`)

// Compile turns a proposal's recurrence description into an RRULE string
// ("FREQ=WEEKLY;INTERVAL=2;BYDAY=TH"). It returns "" when the proposal has
// no recurrence. Day-of-week phrases default to a weekly frequency.
func Compile(proposed domain.ProposedEvent) string {
	if !proposed.Recurring() {
		return ""
	}

	desc := strings.ToLower(strings.TrimSpace(proposed.RecurrenceDescription))

	freq := "WEEKLY"
	interval := 1

	if strings.Contains(desc, "every other") || strings.Contains(desc, "biweekly") || strings.Contains(desc, "bi-weekly") {
		interval = 2
	} else if m := everyNPattern.FindStringSubmatch(desc); m != nil {
		interval, _ = strconv.Atoi(m[1])
		switch m[2] {
		case "day":
			freq = "DAILY"
		case "month":
			freq = "MONTHLY"
		}
	}

	if strings.Contains(desc, "daily") || strings.Contains(desc, "every day") {
		freq = "DAILY"
	} else if strings.Contains(desc, "monthly") || strings.Contains(desc, "every month") {
		freq = "MONTHLY"
	}

	var byDay []string
	for _, day := range dayAbbrevs {
		if strings.Contains(desc, day.name) {
			byDay = append(byDay, day.abbrev)
		}
	}
	if strings.Contains(desc, "weekday") {
		byDay = []string{"MO", "TU", "WE", "TH", "FR"}
	}

	parts := []string{"FREQ=" + freq}
	if interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", interval))
	}
	if len(byDay) > 0 && freq == "WEEKLY" {
		parts = append(parts, "BYDAY="+strings.Join(byDay, ","))
	}

	return strings.Join(parts, ";")
}

var monthNames = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

var forNWeeksPattern = regexp.MustCompile(`for\s+(\d+)\s+week`)

// DeriveUntil resolves a recurrence end description relative to the series
// start. "until end of <month>" maps to the last instant of that month's
// next occurrence; "for N weeks" maps to start + N weeks. Unknown phrasings
// return nil and leave the expansion horizon to configuration.
func DeriveUntil(endDescription string, start time.Time) *time.Time {
	desc := strings.ToLower(strings.TrimSpace(endDescription))
	if desc == "" {
		return nil
	}

	if m := forNWeeksPattern.FindStringSubmatch(desc); m != nil {
		weeks, _ := strconv.Atoi(m[1])
		until := start.AddDate(0, 0, 7*weeks)
		return &until
	}

	for name, month := range monthNames {
		if !strings.Contains(desc, name) {
			continue
		}
		year := start.Year()
		if month < start.Month() {
			year++
		}
		// First instant of the following month, minus a second.
		until := time.Date(year, month, 1, 0, 0, 0, 0, start.Location()).
			AddDate(0, 1, 0).Add(-time.Second)
		return &until
	}

	return nil
}

// ExpandConfig controls how a recurring parent is expanded.
type ExpandConfig struct {
	// Horizon bounds the expansion window when the parent carries no
	// explicit until time.
	Horizon time.Duration
	// MaxOccurrences caps the expansion to guard against runaway rules.
	// Zero means defaultMaxOccurrences.
	MaxOccurrences int
	// NewID mints identifiers for child events.
	NewID func() string
	// Now stamps CreatedAt on the children.
	Now time.Time
}

// Expand turns a recurring parent event into concrete child events within
// the parent's until bound (or cfg.Horizon past the parent start). The
// parent's own occurrence is skipped; children copy the parent's title,
// location, notes and duration and carry ParentID.
func Expand(parent domain.Event, cfg ExpandConfig) ([]domain.Event, error) {
	if parent.RecurrenceRule == "" {
		return nil, nil
	}
	if cfg.MaxOccurrences <= 0 {
		cfg.MaxOccurrences = defaultMaxOccurrences
	}

	opts, err := rrule.StrToROption(parent.RecurrenceRule)
	if err != nil {
		return nil, fmt.Errorf("parse recurrence rule %q: %w", parent.RecurrenceRule, err)
	}
	opts.Dtstart = parent.Start

	until := parent.Start.Add(cfg.Horizon)
	if parent.RecurrenceUntil != nil {
		until = *parent.RecurrenceUntil
	}
	opts.Until = until

	rule, err := rrule.NewRRule(*opts)
	if err != nil {
		return nil, fmt.Errorf("build recurrence rule %q: %w", parent.RecurrenceRule, err)
	}

	duration := parent.End.Sub(parent.Start)
	var children []domain.Event

	for _, occurrence := range rule.Between(parent.Start, until, true) {
		if occurrence.Equal(parent.Start) {
			continue
		}
		if len(children) >= cfg.MaxOccurrences {
			break
		}
		children = append(children, domain.Event{
			ID:        cfg.NewID(),
			Title:     parent.Title,
			Start:     occurrence,
			End:       occurrence.Add(duration),
			Location:  parent.Location,
			Notes:     parent.Notes,
			ParentID:  parent.ID,
			CreatedAt: cfg.Now,
		})
	}

	return children, nil
}
