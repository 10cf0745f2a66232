// Package csvfile reads event rows from a CSV file and maps them into
// canonical events.
//
// The expected header columns are: title, description, location, start_date,
// start_time, end_date, end_time. Only title and start_date are required.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"stagesync/internal/event"
)

// Parse reads a CSV file of events. duration is the fallback event length
// used when a row carries a start time but no end time. Rows that fail to
// map are logged and skipped; the remaining rows still convert.
func Parse(path string, duration time.Duration, logger *zap.Logger) ([]event.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}

	var events []event.Event
	for i, record := range records {
		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		ev, err := mapRecord(field, duration)
		if err != nil {
			logger.Warn("skipping row due to parse error", zap.Int("row", i+1), zap.Error(err))
			continue
		}
		events = append(events, ev)
	}

	return events, nil
}

// mapRecord builds a canonical event from one CSV row. The all-day/timed
// invariant is enforced here: a start time without an end time gets a
// derived end (start plus the fallback duration, time-of-day wrap only), and
// an end time without a start time is a row error since there is nothing to
// anchor it to.
func mapRecord(field func(string) string, duration time.Duration) (event.Event, error) {
	title := field("title")
	if title == "" {
		return event.Event{}, &event.MissingFieldError{Field: "title"}
	}

	rawStartDate := field("start_date")
	if rawStartDate == "" {
		return event.Event{}, &event.MissingFieldError{Field: "start_date"}
	}
	startDate, err := event.ParseDate(rawStartDate)
	if err != nil {
		return event.Event{}, &event.InvalidTemporalError{Field: "start_date", Raw: rawStartDate, Err: err}
	}

	endDate := startDate
	if raw := field("end_date"); raw != "" {
		endDate, err = event.ParseDate(raw)
		if err != nil {
			return event.Event{}, &event.InvalidTemporalError{Field: "end_date", Raw: raw, Err: err}
		}
	}

	var startTime, endTime *event.TimeOfDay
	if raw := field("start_time"); raw != "" {
		t, err := event.ParseTime(raw)
		if err != nil {
			return event.Event{}, &event.InvalidTemporalError{Field: "start_time", Raw: raw, Err: err}
		}
		startTime = &t
	}
	if raw := field("end_time"); raw != "" {
		t, err := event.ParseTime(raw)
		if err != nil {
			return event.Event{}, &event.InvalidTemporalError{Field: "end_time", Raw: raw, Err: err}
		}
		endTime = &t
	}

	switch {
	case startTime != nil && endTime == nil:
		t := event.EndTimeAfter(startDate, *startTime, duration)
		endTime = &t
	case startTime == nil && endTime != nil:
		return event.Event{}, &event.MissingFieldError{Field: "start_time"}
	}

	return event.Event{
		Title:       title,
		Description: field("description"),
		Location:    field("location"),
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   startTime,
		EndTime:     endTime,
	}, nil
}
