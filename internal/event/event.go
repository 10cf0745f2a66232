// Package event defines the canonical event model produced by the tabular
// sources and consumed by filtering, calendar projection and matching.
package event

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day or timezone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// AddDays returns the date n days after d, rolling over months and years.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is later than other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is a wall-clock time with no date or timezone attached.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// TimeOfDayOf returns the wall-clock reading of t in t's location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay{Hour: h, Minute: m, Second: s}
}

// Before reports whether t is earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	if t.Minute != other.Minute {
		return t.Minute < other.Minute
	}
	return t.Second < other.Second
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Event is the normalized representation of one source row.
//
// An event is all-day when both StartTime and EndTime are nil and timed when
// both are set; the source mappers never produce one without the other.
// Optional text fields use the empty string for "absent". Events are not
// mutated after construction.
type Event struct {
	Title        string
	Description  string
	Location     string
	Organization string
	Purchased    bool
	StartDate    Date
	EndDate      Date
	StartTime    *TimeOfDay
	EndTime      *TimeOfDay
}

// IsAllDay reports whether the event has no time-of-day component.
func (e *Event) IsAllDay() bool {
	return e.StartTime == nil && e.EndTime == nil
}

// StartDateTime returns the effective start, defaulting to midnight for
// all-day events.
func (e *Event) StartDateTime() (Date, TimeOfDay) {
	if e.StartTime != nil {
		return e.StartDate, *e.StartTime
	}
	return e.StartDate, TimeOfDay{}
}

// EndDateTime returns the effective end, defaulting to end of day for
// all-day events.
func (e *Event) EndDateTime() (Date, TimeOfDay) {
	if e.EndTime != nil {
		return e.EndDate, *e.EndTime
	}
	return e.EndDate, TimeOfDay{Hour: 23, Minute: 59, Second: 59}
}

func (e *Event) String() string {
	if e.IsAllDay() {
		return fmt.Sprintf("[ALL DAY] %s - %s: %s", e.StartDate, e.EndDate, e.Title)
	}
	var start, end string
	if e.StartTime != nil {
		start = e.StartTime.String()
	}
	if e.EndTime != nil {
		end = e.EndTime.String()
	}
	return fmt.Sprintf("%s %s - %s %s: %s", e.StartDate, start, e.EndDate, end, e.Title)
}
