package event

import "fmt"

// UnparseableTemporalError reports a date/time string that matched none of
// the supported formats.
type UnparseableTemporalError struct {
	Raw string
}

func (e *UnparseableTemporalError) Error() string {
	return fmt.Sprintf("could not parse datetime: %q", e.Raw)
}

// MissingFieldError reports a required source column that was absent or
// empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing or empty value for %q", e.Field)
}

// InvalidTemporalError reports a source column whose value could not be
// parsed as a date or time.
type InvalidTemporalError struct {
	Field string
	Raw   string
	Err   error
}

func (e *InvalidTemporalError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Raw)
}

func (e *InvalidTemporalError) Unwrap() error {
	return e.Err
}
