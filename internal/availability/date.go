package availability

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format of every booking date (ISO 8601 calendar date).
const DateLayout = "2006-01-02"

var (
	ErrMalformedDate = errors.New("malformed calendar date")
	ErrInvalidRange  = errors.New("start date must not be after end date")
)

// ParseDate parses a YYYY-MM-DD string into UTC midnight of that day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatDates(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, FormatDate(d))
	}
	return out
}

// Day truncates t to the calendar day it falls on in its own location and
// returns that day as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
