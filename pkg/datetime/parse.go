// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/cgt-calculator/pkg/constants"
)

const (
	// DateLayout is the format expected in config files and is also the output
	// date format.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a DateLayout formatted string into a calendar date at UTC
// midnight.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", date, err)
	}
	return t, nil
}

// ParseDateOr parses date, or returns fallback's calendar date when date is blank.
func ParseDateOr(date string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(date) == "" {
		return CalendarDate(fallback), nil
	}
	return ParseDate(date)
}

// CalendarDate strips the time of day and location from t, keeping the
// year, month and day as seen in t's own location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from start to end.
// The result is negative when end falls before start.
func DaysBetween(start, end time.Time) int {
	seconds := CalendarDate(end).Unix() - CalendarDate(start).Unix()
	return int(seconds / constants.SecondsPerDay)
}

// FormatDate formats t using DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
