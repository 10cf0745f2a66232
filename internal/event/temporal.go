package event

import (
	"strings"
	"time"
)

// Source date/time fields arrive in whatever format the spreadsheet cell or
// CSV column happened to contain. Parsing tries a fixed, ordered list of
// layouts and returns on the first match, so the unambiguous layouts always
// win over the looser ones.
//
// The two slash-separated date orders are genuinely ambiguous; month-first is
// tried before day-first as a deliberate policy, not a heuristic.

// datetimeLayouts are the combined date+time layouts, in priority order:
// offset-qualified instants, then T-separated naive datetimes, then
// space-separated datetimes, then 12-hour US datetimes with a meridiem
// marker.
var datetimeLayouts = []struct {
	layout string
	upper  bool // uppercase the input so am/pm markers match
}{
	{layout: "2006-01-02T15:04:05Z07:00"},
	{layout: "2006-01-02T15:04:05.000Z07:00"},
	{layout: "2006-01-02T15:04:05"},
	{layout: "2006-01-02T15:04:05.000"},
	{layout: "2006-01-02T15:04"},
	{layout: "2006-01-02 15:04:05"},
	{layout: "2006-01-02 15:04"},
	{layout: "1/2/2006 3:04 PM", upper: true},
	{layout: "1/2/2006 3:04:05 PM", upper: true},
}

// dateOnlyLayouts are tried after every combined layout has failed.
var dateOnlyLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2/1/2006",
}

// csvDateLayouts extend the date-only list with the extra orders seen in CSV
// exports.
var csvDateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2/1/2006",
	"2006/1/2",
	"1-2-2006",
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04PM",
}

// ParseTemporal converts a free-form date or datetime string into a calendar
// date and an optional wall-clock time. Offset-qualified inputs yield the
// date and time exactly as written in that offset; no zone conversion happens
// here. A date-only match returns a nil time.
func ParseTemporal(raw string) (Date, *TimeOfDay, error) {
	s := strings.TrimSpace(raw)

	for _, l := range datetimeLayouts {
		in := s
		if l.upper {
			in = strings.ToUpper(s)
		}
		if t, err := time.Parse(l.layout, in); err == nil {
			tod := TimeOfDayOf(t)
			return DateOf(t), &tod, nil
		}
	}

	for _, layout := range dateOnlyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil, nil
		}
	}

	return Date{}, nil, &UnparseableTemporalError{Raw: raw}
}

// ParseDate parses a bare date column.
func ParseDate(raw string) (Date, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, &UnparseableTemporalError{Raw: raw}
}

// ParseTime parses a bare time-of-day column.
func ParseTime(raw string) (TimeOfDay, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return TimeOfDay{}, &UnparseableTemporalError{Raw: raw}
}

// EndTimeAfter returns the wall-clock time the default event duration after
// start. Only the time of day is carried: a span that crosses midnight wraps
// and the caller keeps the end date equal to the start date.
func EndTimeAfter(d Date, start TimeOfDay, duration time.Duration) TimeOfDay {
	startAt := time.Date(d.Year, d.Month, d.Day, start.Hour, start.Minute, start.Second, 0, time.UTC)
	return TimeOfDayOf(startAt.Add(duration))
}
