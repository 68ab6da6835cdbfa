package field

import (
	"fmt"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// Default work window, [start, end) in hours.
const (
	DefaultWorkHourStart = 8
	DefaultWorkHourEnd   = 17
)

// HolidayFunc reports whether the given local date is a holiday.
type HolidayFunc func(t time.Time) bool

// Settings is the ambient configuration read by time-aware accessors.
// It is passed by value into every call; nothing reads package state.
type Settings struct {
	UseUTC        bool
	Local         *time.Location // nil means time.Local
	WorkHourStart int
	WorkHourEnd   int
	PrivacyMode   bool
	IsHoliday     HolidayFunc
}

// DefaultSettings returns local time, an 8-17 work window, privacy off and no holidays.
func DefaultSettings() Settings {
	return Settings{
		WorkHourStart: DefaultWorkHourStart,
		WorkHourEnd:   DefaultWorkHourEnd,
	}
}

// Location returns the zone commits are bucketed in.
func (s Settings) Location() *time.Location {
	if s.UseUTC {
		return time.UTC
	}
	if s.Local == nil {
		return time.Local
	}
	return s.Local
}

// ValidateWorkHours checks a [start, end) work window.
func ValidateWorkHours(start, end int) error {
	if start < 0 || start > 23 || end < 1 || end > 24 {
		return fmt.Errorf("work hours must be within 0-24, got %d-%d", start, end)
	}
	if start >= end {
		return fmt.Errorf("work start %d must be before work end %d", start, end)
	}
	return nil
}

// HolidayCalendar builds a HolidayFunc from YYYY-MM-DD dates.
func HolidayCalendar(dates []string) (HolidayFunc, error) {
	days := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		t, err := time.Parse(schema.DateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", d, err)
		}
		days[t.Format(schema.DateLayout)] = struct{}{}
	}
	if len(days) == 0 {
		return nil, nil
	}
	return func(t time.Time) bool {
		_, ok := days[t.Format(schema.DateLayout)]
		return ok
	}, nil
}
