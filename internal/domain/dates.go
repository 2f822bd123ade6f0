package domain

import (
	"fmt"
	"time"
)

// DateKeyLayout is the canonical calendar-date key format used for the
// task lists, the minutes ledger, and the streak tracker.
const DateKeyLayout = "2006-01-02"

// DateKey formats a time as a calendar-date key in its own location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q (want YYYY-MM-DD)", key)
	}
	return t, nil
}

// ShiftDateKey returns the key shifted by the given number of days.
// Invalid keys shift from today.
func ShiftDateKey(key string, days int) string {
	t, err := ParseDateKey(key)
	if err != nil {
		t = time.Now()
	}
	return DateKey(t.AddDate(0, 0, days))
}

// WithinLastDays reports whether key falls within the last n calendar days
// inclusive of today. Unparseable keys are excluded.
func WithinLastDays(key string, n int, today time.Time) bool {
	if _, err := ParseDateKey(key); err != nil {
		return false
	}
	cutoff := today.AddDate(0, 0, -(n - 1))
	return key >= DateKey(cutoff) && key <= DateKey(today)
}
