package calendar

import (
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"stagesync/internal/event"
)

// ToGoogleEvent converts a canonical event into the Google Calendar wire
// shape.
//
// All-day events use bare dates, with the end date bumped by one day because
// the API treats the end of an all-day range as exclusive. Timed events are
// read as wall-clock values in zone, resolved to absolute instants, and sent
// as UTC timestamps tagged with the zone identifier.
func ToGoogleEvent(e *event.Event, zone *time.Location) *gcal.Event {
	ge := &gcal.Event{
		Summary:     e.Title,
		Description: e.Description,
		Location:    e.Location,
	}

	if e.IsAllDay() {
		ge.Start = &gcal.EventDateTime{Date: e.StartDate.String()}
		ge.End = &gcal.EventDateTime{Date: e.EndDate.AddDays(1).String()}
		return ge
	}

	startDate, startTime := e.StartDateTime()
	endDate, endTime := e.EndDateTime()
	start := ResolveLocal(startDate, startTime, zone)
	end := ResolveLocal(endDate, endTime, zone)

	ge.Start = &gcal.EventDateTime{
		DateTime: start.UTC().Format(time.RFC3339),
		TimeZone: zone.String(),
	}
	ge.End = &gcal.EventDateTime{
		DateTime: end.UTC().Format(time.RFC3339),
		TimeZone: zone.String(),
	}
	return ge
}

// ResolveLocal maps a wall-clock reading to an absolute instant in loc.
//
// Around a fall-back transition the reading occurs twice and time.Date picks
// one of the candidates; probing one hour in each direction finds the other,
// and the later instant wins. A reading inside a spring-forward gap never
// round-trips, so time.Date's forward-shifted normalization is kept as is.
func ResolveLocal(d event.Date, tod event.TimeOfDay, loc *time.Location) time.Time {
	t := time.Date(d.Year, d.Month, d.Day, tod.Hour, tod.Minute, tod.Second, 0, loc)
	for _, alt := range []time.Time{t.Add(-time.Hour), t.Add(time.Hour)} {
		if readsWallClock(alt, d, tod) && alt.After(t) && readsWallClock(t, d, tod) {
			t = alt
		}
	}
	return t
}

// readsWallClock reports whether t's local reading matches the given date
// and time of day.
func readsWallClock(t time.Time, d event.Date, tod event.TimeOfDay) bool {
	y, m, day := t.Date()
	h, min, sec := t.Clock()
	return y == d.Year && m == d.Month && day == d.Day &&
		h == tod.Hour && min == tod.Minute && sec == tod.Second
}
