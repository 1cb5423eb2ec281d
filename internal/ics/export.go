// Package ics renders confirmed events as an iCalendar feed.
package ics

import (
	ical "github.com/arran4/golang-ical"

	"github.com/evcal/event-lifecycle-service/internal/domain"
)

const productID = "-//evcal//event-lifecycle-service//EN"

// Render serializes events into a VCALENDAR. Recurring series are already
// materialized as individual child events, so every event becomes a single
// VEVENT and the parent's RRULE is deliberately not re-emitted.
func Render(events []domain.Event) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, event := range events {
		ve := cal.AddEvent(event.ID)
		ve.SetDtStampTime(event.CreatedAt)
		ve.SetCreatedTime(event.CreatedAt)
		ve.SetStartAt(event.Start)
		ve.SetEndAt(event.End)
		ve.SetSummary(event.Title)
		if event.Location != "" {
			ve.SetLocation(event.Location)
		}
		if event.Notes != "" {
			ve.SetDescription(event.Notes)
		}
	}

	return cal.Serialize()
}
