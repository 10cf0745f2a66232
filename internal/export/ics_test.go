package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagesync/internal/event"
)

func timePtr(h, m, s int) *event.TimeOfDay {
	return &event.TimeOfDay{Hour: h, Minute: m, Second: s}
}

func TestWriteICS_TimedEvent(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	events := []event.Event{
		{
			Title:       "Symphony No. 9",
			Description: "Beethoven",
			Location:    "Concert Hall",
			StartDate:   event.Date{Year: 2024, Month: 7, Day: 17},
			EndDate:     event.Date{Year: 2024, Month: 7, Day: 17},
			StartTime:   timePtr(19, 30, 0),
			EndTime:     timePtr(22, 0, 0),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, events, loc))
	out := buf.String()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "VERSION:2.0")
	assert.Contains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "SUMMARY:Symphony No. 9")
	assert.Contains(t, out, "DESCRIPTION:Beethoven")
	assert.Contains(t, out, "LOCATION:Concert Hall")
	// PDT is UTC-7, so 19:30 local is 02:30 the next day in UTC.
	assert.Contains(t, out, "DTSTART:20240718T023000Z")
	assert.Contains(t, out, "DTEND:20240718T050000Z")
	assert.Contains(t, out, "END:VEVENT")
	assert.Contains(t, out, "END:VCALENDAR")
}

func TestWriteICS_AllDayEvent(t *testing.T) {
	events := []event.Event{
		{
			Title:     "Festival",
			StartDate: event.Date{Year: 2024, Month: 6, Day: 10},
			EndDate:   event.Date{Year: 2024, Month: 6, Day: 12},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, events, time.UTC))
	out := buf.String()

	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240610")
	// DTEND is exclusive, one day past the last day of the event.
	assert.Contains(t, out, "DTEND;VALUE=DATE:20240613")
}

func TestWriteICS_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, nil, time.UTC))
	out := buf.String()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
