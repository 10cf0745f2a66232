package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(h, m, s int) *TimeOfDay {
	return &TimeOfDay{Hour: h, Minute: m, Second: s}
}

func TestParseTemporal(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantDate Date
		wantTime *TimeOfDay
	}{
		{
			name:     "offset with fractional seconds",
			raw:      "2024-07-17T19:30:00.000-07:00",
			wantDate: Date{2024, time.July, 17},
			wantTime: timePtr(19, 30, 0),
		},
		{
			name:     "offset without fractional seconds",
			raw:      "2024-07-17T19:30:00-07:00",
			wantDate: Date{2024, time.July, 17},
			wantTime: timePtr(19, 30, 0),
		},
		{
			name:     "naive with T separator",
			raw:      "2024-02-15T19:30:00",
			wantDate: Date{2024, time.February, 15},
			wantTime: timePtr(19, 30, 0),
		},
		{
			name:     "naive minutes precision",
			raw:      "2024-02-15T19:30",
			wantDate: Date{2024, time.February, 15},
			wantTime: timePtr(19, 30, 0),
		},
		{
			name:     "space separated",
			raw:      "2024-02-15 19:30:00",
			wantDate: Date{2024, time.February, 15},
			wantTime: timePtr(19, 30, 0),
		},
		{
			name:     "space separated minutes",
			raw:      "2024-02-15 19:30",
			wantDate: Date{2024, time.February, 15},
			wantTime: timePtr(19, 30, 0),
		},
		{
			name:     "US format with meridiem",
			raw:      "2/15/2024 7:30 PM",
			wantDate: Date{2024, time.February, 15},
			wantTime: timePtr(19, 30, 0),
		},
		{
			name:     "US format lowercase meridiem",
			raw:      "2/15/2024 7:30 pm",
			wantDate: Date{2024, time.February, 15},
			wantTime: timePtr(19, 30, 0),
		},
		{
			name:     "ISO date only",
			raw:      "2024-02-15",
			wantDate: Date{2024, time.February, 15},
		},
		{
			name:     "slash date month first",
			raw:      "2/15/2024",
			wantDate: Date{2024, time.February, 15},
		},
		{
			name:     "surrounding whitespace trimmed",
			raw:      "  2024-02-15  ",
			wantDate: Date{2024, time.February, 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, tod, err := ParseTemporal(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, date)
			assert.Equal(t, tt.wantTime, tod)
		})
	}
}

func TestParseTemporal_AmbiguousSlashOrderPrefersMonthFirst(t *testing.T) {
	// 3/4 could be March 4 or April 3; month-first wins by policy.
	date, tod, err := ParseTemporal("3/4/2024")
	require.NoError(t, err)
	assert.Nil(t, tod)
	assert.Equal(t, Date{2024, time.March, 4}, date)
}

func TestParseTemporal_DayFirstFallback(t *testing.T) {
	// 25 cannot be a month, so the day-first interpretation applies.
	date, _, err := ParseTemporal("25/12/2024")
	require.NoError(t, err)
	assert.Equal(t, Date{2024, time.December, 25}, date)
}

func TestParseTemporal_Unparseable(t *testing.T) {
	_, _, err := ParseTemporal("next thursday")

	var unparseable *UnparseableTemporalError
	require.ErrorAs(t, err, &unparseable)
	assert.Equal(t, "next thursday", unparseable.Raw)
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"2024-01-15", "01/15/2024", "2024/01/15", "01-15-2024"} {
		date, err := ParseDate(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, Date{2024, time.January, 15}, date, "raw %q", raw)
	}

	_, err := ParseDate("January 15th")
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		raw  string
		want TimeOfDay
	}{
		{"14:30", TimeOfDay{14, 30, 0}},
		{"14:30:15", TimeOfDay{14, 30, 15}},
		{"2:30 PM", TimeOfDay{14, 30, 0}},
		{"2:30:15 pm", TimeOfDay{14, 30, 15}},
		{"2:30pm", TimeOfDay{14, 30, 0}},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.raw)
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}

	_, err := ParseTime("half past two")
	assert.Error(t, err)
}

func TestEndTimeAfter(t *testing.T) {
	d := Date{2024, time.February, 15}

	got := EndTimeAfter(d, TimeOfDay{19, 30, 0}, 150*time.Minute)
	assert.Equal(t, TimeOfDay{22, 0, 0}, got)
}

func TestEndTimeAfter_WrapsPastMidnight(t *testing.T) {
	d := Date{2024, time.February, 15}

	// A 23:00 start wraps to 01:30 the next day; only the time of day is
	// carried, the date is left to the caller.
	got := EndTimeAfter(d, TimeOfDay{23, 0, 0}, 150*time.Minute)
	assert.Equal(t, TimeOfDay{1, 30, 0}, got)
}
