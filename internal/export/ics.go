// Package export serializes events to the iCalendar format.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"stagesync/internal/calendar"
	"stagesync/internal/event"
)

const productID = "-//stagesync//EN"

// WriteICS encodes events as a single VCALENDAR stream. All-day events are
// emitted as DATE properties with an exclusive DTEND one day past the last
// day; timed events are resolved in zone and emitted as UTC date-times.
func WriteICS(w io.Writer, events []event.Event, zone *time.Location) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	now := time.Now().UTC()
	for i := range events {
		cal.Children = append(cal.Children, toVEvent(&events[i], zone, now, i))
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode iCalendar: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write iCalendar: %w", err)
	}
	return nil
}

func toVEvent(e *event.Event, zone *time.Location, now time.Time, seq int) *ical.Component {
	vevent := ical.NewComponent(ical.CompEvent)

	vevent.Props.SetText(ical.PropUID,
		fmt.Sprintf("%s-%d@stagesync", e.StartDate, seq))
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, now)
	vevent.Props.SetText(ical.PropSummary, e.Title)
	if e.Description != "" {
		vevent.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.Location != "" {
		vevent.Props.SetText(ical.PropLocation, e.Location)
	}

	if e.IsAllDay() {
		dtstart := ical.NewProp("DTSTART")
		dtstart.SetDate(time.Date(e.StartDate.Year, e.StartDate.Month, e.StartDate.Day, 0, 0, 0, 0, time.UTC))
		vevent.Props.Set(dtstart)

		end := e.EndDate.AddDays(1)
		dtend := ical.NewProp("DTEND")
		dtend.SetDate(time.Date(end.Year, end.Month, end.Day, 0, 0, 0, 0, time.UTC))
		vevent.Props.Set(dtend)
		return vevent
	}

	startDate, startTime := e.StartDateTime()
	endDate, endTime := e.EndDateTime()
	start := calendar.ResolveLocal(startDate, startTime, zone)
	end := calendar.ResolveLocal(endDate, endTime, zone)

	vevent.Props.SetDateTime("DTSTART", start.UTC())
	vevent.Props.SetDateTime("DTEND", end.UTC())
	return vevent
}
