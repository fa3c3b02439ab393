// Package ical renders the schedule as an iCalendar feed so events can be
// subscribed to from a phone calendar.
package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/skicoach/coach-schedule/internal/model"
)

const productID = "-//coach-schedule//calendar feed//CN"

// Feed serializes events into a VCALENDAR document. Event times are rendered
// in loc; pass the coach's local timezone, not UTC, or slot times shift.
func Feed(events []*model.Event, loc *time.Location) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("教学安排")

	for _, e := range events {
		start, err := slotTime(e.Date, e.StartTime, loc)
		if err != nil {
			return "", fmt.Errorf("event %s: %w", e.ID, err)
		}
		end, err := slotTime(e.Date, e.EndTime, loc)
		if err != nil {
			return "", fmt.Errorf("event %s: %w", e.ID, err)
		}

		ve := cal.AddEvent(e.ID + "@coach-schedule")
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(summary(e))
		if e.Venue != nil && *e.Venue != "" {
			ve.SetLocation(*e.Venue)
		}
		if e.Notes != nil && *e.Notes != "" {
			ve.SetDescription(*e.Notes)
		}
		if !e.CreatedAt.IsZero() {
			ve.SetCreatedTime(e.CreatedAt)
		}
		if !e.UpdatedAt.IsZero() {
			ve.SetModifiedAt(e.UpdatedAt)
		}
		ve.SetDtStampTime(time.Now())
	}

	return cal.Serialize(), nil
}

func summary(e *model.Event) string {
	if e.Title == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s·%s", e.Type, e.Title)
}

func slotTime(date, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q %q: %w", date, hhmm, err)
	}
	return t, nil
}
