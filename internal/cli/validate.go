package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/doone/internal/domain"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// validateDuration accepts a session length within the allowed range.
func validateDuration(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number of minutes")
	}
	if n < domain.MinSessionMinutes || n > domain.MaxSessionMinutes {
		return fmt.Errorf("minutes must be between %d and %d", domain.MinSessionMinutes, domain.MaxSessionMinutes)
	}
	return nil
}

// parseMinutes parses a duration field, falling back when blank or invalid.
func parseMinutes(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// resolveDateFlag turns a --date flag into a date key: empty means today,
// "yesterday"/"tomorrow" shift accordingly, anything else must be
// YYYY-MM-DD.
func resolveDateFlag(value string) (string, error) {
	today := domain.DateKey(timeNow())
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return domain.ShiftDateKey(today, -1), nil
	case "tomorrow":
		return domain.ShiftDateKey(today, 1), nil
	}
	if _, err := domain.ParseDateKey(value); err != nil {
		return "", err
	}
	return value, nil
}

// dateValue is a --date flag value that validates and resolves its input
// at parse time.
type dateValue struct {
	key string
}

var _ pflag.Value = (*dateValue)(nil)

func (d *dateValue) String() string { return d.key }

func (d *dateValue) Set(value string) error {
	key, err := resolveDateFlag(value)
	if err != nil {
		return err
	}
	d.key = key
	return nil
}

func (d *dateValue) Type() string { return "date" }

// Key returns the resolved date key, defaulting to today when the flag
// was never set.
func (d *dateValue) Key() string {
	if d.key == "" {
		return domain.DateKey(timeNow())
	}
	return d.key
}
