// Package calendar projects canonical events into Google Calendar and
// reconciles them against events already on the remote calendar.
package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"stagesync/internal/event"
)

// eventPageSize is the maximum page size the Events.List API allows.
const eventPageSize = 2500

// CalendarClient is the subset of calendar operations the tool needs.
// The matcher drives the page loop itself, so event listing is exposed one
// page at a time.
type CalendarClient interface {
	ListCalendars() ([]*gcal.CalendarListEntry, error)
	ListEventsPage(calendarID string, timeMin, timeMax time.Time, pageToken string) ([]*gcal.Event, string, error)
	InsertEvent(calendarID string, ev *gcal.Event) error
	DeleteEvent(calendarID, eventID string) error
}

// Client is a wrapper around the Google Calendar API service.
type Client struct {
	service *gcal.Service
}

// NewClient creates a new Google Calendar API client using the provided HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	service, err := gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Client{service: service}, nil
}

// ListCalendars returns the calendars on the authenticated account.
func (c *Client) ListCalendars() ([]*gcal.CalendarListEntry, error) {
	list, err := c.service.CalendarList.List().Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	return list.Items, nil
}

// ListEventsPage retrieves one page of events within [timeMin, timeMax).
// Recurring events are expanded to individual instances. The returned token
// is empty on the last page.
func (c *Client) ListEventsPage(calendarID string, timeMin, timeMax time.Time, pageToken string) ([]*gcal.Event, string, error) {
	call := c.service.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		MaxResults(eventPageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	list, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list events: %w", err)
	}
	return list.Items, list.NextPageToken, nil
}

// InsertEvent inserts a new event into a calendar without sending
// notifications.
func (c *Client) InsertEvent(calendarID string, ev *gcal.Event) error {
	_, err := c.service.Events.Insert(calendarID, ev).
		SendUpdates("none").
		Do()
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// DeleteEvent deletes an event from a calendar without sending
// notifications.
func (c *Client) DeleteEvent(calendarID, eventID string) error {
	err := c.service.Events.Delete(calendarID, eventID).
		SendUpdates("none").
		Do()
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// CreateEvents inserts each canonical event into the calendar, one call per
// event.
func CreateEvents(client CalendarClient, calendarID string, events []event.Event, zone *time.Location, logger *zap.Logger) error {
	for i := range events {
		ev := &events[i]
		if err := client.InsertEvent(calendarID, ToGoogleEvent(ev, zone)); err != nil {
			return fmt.Errorf("failed to create event %q: %w", ev.Title, err)
		}
		logger.Info("created event", zap.String("title", ev.Title))
	}
	return nil
}

// DeleteEvents deletes the given remote event IDs, one call per ID, and
// returns how many were deleted before any failure.
func DeleteEvents(client CalendarClient, calendarID string, eventIDs []string, logger *zap.Logger) (int, error) {
	deleted := 0
	for _, id := range eventIDs {
		if err := client.DeleteEvent(calendarID, id); err != nil {
			return deleted, fmt.Errorf("failed to delete event %s: %w", id, err)
		}
		deleted++
		logger.Info("deleted event", zap.String("id", id))
	}
	return deleted, nil
}
