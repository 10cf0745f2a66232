package calendar

import (
	"strings"
	"time"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"

	"stagesync/internal/event"
)

// RemoteEvent is the minimal view of a Google Calendar event used for
// matching: its ID, title, calendar date and location.
type RemoteEvent struct {
	ID       string
	Title    string
	Date     event.Date
	Location string
}

// Match pairs a local event with a remote event that carries the same title
// (case-insensitive) on the same date.
type Match struct {
	Local  event.Event
	Remote RemoteEvent
}

// FindMatches fetches all remote events within the local events' date range
// and pairs every local event with every remote event matching it by title
// and start date.
//
// Matching is deliberately many-to-many: duplicate remote entries all match
// and callers deleting matches must expect more than one deletion per local
// event. Remote pages are fetched sequentially; an absent next-page token is
// the sole termination signal.
func FindMatches(client CalendarClient, calendarID string, events []event.Event, logger *zap.Logger) ([]Match, error) {
	if len(events) == 0 {
		return nil, nil
	}

	minDate, maxDate := events[0].StartDate, events[0].StartDate
	for _, e := range events[1:] {
		if e.StartDate.Before(minDate) {
			minDate = e.StartDate
		}
		if e.StartDate.After(maxDate) {
			maxDate = e.StartDate
		}
	}

	// Half-open window one day past the latest start date, so all-day events
	// on the last day are included.
	timeMin := time.Date(minDate.Year, minDate.Month, minDate.Day, 0, 0, 0, 0, time.UTC)
	upper := maxDate.AddDays(1)
	timeMax := time.Date(upper.Year, upper.Month, upper.Day, 0, 0, 0, 0, time.UTC)

	var remotes []RemoteEvent
	pageToken := ""
	for {
		items, next, err := client.ListEventsPage(calendarID, timeMin, timeMax, pageToken)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if item.Id == "" {
				continue
			}
			date, ok := remoteEventDate(item)
			if !ok {
				continue
			}
			remotes = append(remotes, RemoteEvent{
				ID:       item.Id,
				Title:    item.Summary,
				Date:     date,
				Location: item.Location,
			})
		}
		pageToken = next
		if pageToken == "" {
			break
		}
	}

	logger.Info("fetched remote events in date range", zap.Int("count", len(remotes)))

	var matches []Match
	for _, local := range events {
		for _, remote := range remotes {
			if strings.EqualFold(remote.Title, local.Title) && remote.Date == local.StartDate {
				matches = append(matches, Match{Local: local, Remote: remote})
			}
		}
	}
	return matches, nil
}

// remoteEventDate extracts the calendar date of a remote event: the bare
// date for all-day events, otherwise the local calendar date of the zoned
// start instant.
func remoteEventDate(ev *gcal.Event) (event.Date, bool) {
	if ev.Start == nil {
		return event.Date{}, false
	}
	if ev.Start.Date != "" {
		t, err := time.Parse("2006-01-02", ev.Start.Date)
		if err != nil {
			return event.Date{}, false
		}
		return event.DateOf(t), true
	}
	if ev.Start.DateTime != "" {
		t, err := time.Parse(time.RFC3339, ev.Start.DateTime)
		if err != nil {
			return event.Date{}, false
		}
		return event.DateOf(t), true
	}
	return event.Date{}, false
}
