package csvfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stagesync/internal/event"
)

const testDuration = 150 * time.Minute

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse_TimedAndAllDayRows(t *testing.T) {
	path := writeCSV(t, `title,description,location,start_date,start_time,end_date,end_time
Recital,Chamber music,Main Hall,2024-01-15,19:30,2024-01-15,22:00
Festival,,,2024-06-01,,2024-06-03,
`)

	events, err := Parse(path, testDuration, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, events, 2)

	recital := events[0]
	assert.Equal(t, "Recital", recital.Title)
	assert.Equal(t, "Chamber music", recital.Description)
	assert.Equal(t, "Main Hall", recital.Location)
	assert.Equal(t, event.Date{Year: 2024, Month: time.January, Day: 15}, recital.StartDate)
	require.NotNil(t, recital.StartTime)
	require.NotNil(t, recital.EndTime)
	assert.Equal(t, event.TimeOfDay{Hour: 19, Minute: 30, Second: 0}, *recital.StartTime)
	assert.Equal(t, event.TimeOfDay{Hour: 22, Minute: 0, Second: 0}, *recital.EndTime)

	festival := events[1]
	assert.True(t, festival.IsAllDay())
	assert.Equal(t, event.Date{Year: 2024, Month: time.June, Day: 1}, festival.StartDate)
	assert.Equal(t, event.Date{Year: 2024, Month: time.June, Day: 3}, festival.EndDate)
	assert.Empty(t, festival.Description)
	assert.Empty(t, festival.Location)
}

func TestParse_DerivesEndTimeFromDuration(t *testing.T) {
	path := writeCSV(t, `title,start_date,start_time
Late Show,2024-01-15,11:00 PM
`)

	events, err := Parse(path, testDuration, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	require.NotNil(t, ev.EndTime)
	// 23:00 plus 150 minutes wraps to 01:30; the end date stays put.
	assert.Equal(t, event.TimeOfDay{Hour: 1, Minute: 30, Second: 0}, *ev.EndTime)
	assert.Equal(t, ev.StartDate, ev.EndDate)
}

func TestParse_MissingEndDateDefaultsToStart(t *testing.T) {
	path := writeCSV(t, `title,start_date
Open House,01/15/2024
`)

	events, err := Parse(path, testDuration, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, events[0].StartDate, events[0].EndDate)
	assert.True(t, events[0].IsAllDay())
}

func TestParse_SkipsBadRows(t *testing.T) {
	path := writeCSV(t, `title,start_date,start_time,end_time
,2024-01-15,,
Bad Date,not-a-date,,
Orphan End,2024-01-15,,21:00
Kept,2024-01-16,,
`)

	events, err := Parse(path, testDuration, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, "Kept", events[0].Title)
}

func TestParse_RowErrorKinds(t *testing.T) {
	_, err := mapRecordFromRow(map[string]string{"start_date": "2024-01-15"}, testDuration)
	var missing *event.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "title", missing.Field)

	_, err = mapRecordFromRow(map[string]string{"title": "X", "start_date": "never"}, testDuration)
	var invalid *event.InvalidTemporalError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "start_date", invalid.Field)
	assert.Equal(t, "never", invalid.Raw)
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.csv"), testDuration, zap.NewNop())
	assert.Error(t, err)
}

func mapRecordFromRow(row map[string]string, duration time.Duration) (event.Event, error) {
	return mapRecord(func(name string) string { return row[name] }, duration)
}
