// Package agg has pure aggregation functions over filtered commits.
// Every function accepts an empty slice and returns a well-defined empty shape.
package agg

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

// AllContributorsKey is the key of the single group built in total mode.
const AllContributorsKey = "All Contributors"

// MonthLayout is the layout of month keys.
const MonthLayout = "2006-01"

// WeekStart returns local midnight of the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
}

// DayStart returns local midnight of t's day.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekKey returns the YYYY-MM-DD of the commit's week start.
func WeekKey(c schema.Commit, s field.Settings) (string, bool) {
	t, ok := field.Time(c, s)
	if !ok {
		return "", false
	}
	return WeekStart(t).Format(schema.DateLayout), true
}

// DayKey returns the YYYY-MM-DD of the commit's day.
func DayKey(c schema.Commit, s field.Settings) (string, bool) {
	t, ok := field.Time(c, s)
	if !ok {
		return "", false
	}
	return t.Format(schema.DateLayout), true
}

// MonthKey returns the YYYY-MM prefix of a parseable timestamp.
// The prefix is taken as written, independent of the display zone.
func MonthKey(c schema.Commit) (string, bool) {
	if _, ok := field.ParseTimestamp(c.Timestamp); !ok {
		return "", false
	}
	ts := strings.TrimSpace(c.Timestamp)
	if len(ts) < len(MonthLayout) {
		return "", false
	}
	return ts[:len(MonthLayout)], true
}

// GroupKey returns the rollup key of the commit under mode.
// Unknown modes group by author, matching the most granular view.
func GroupKey(c schema.Commit, mode schema.ContributorMode) string {
	switch mode {
	case schema.ContributorsTotal:
		return AllContributorsKey
	case schema.ContributorsRepo:
		return field.RepoID(c)
	default:
		return field.AuthorEmail(c)
	}
}

// HourCellKey formats a heatmap cell key as "hour:dayOfWeek".
func HourCellKey(hour, dayOfWeek int) string {
	return fmt.Sprintf("%d:%d", hour, dayOfWeek)
}

// ParseHourCellKey parses a key built by HourCellKey.
func ParseHourCellKey(key string) (hour, dayOfWeek int, err error) {
	h, d, ok := strings.Cut(key, ":")
	if !ok {
		return 0, 0, fmt.Errorf("hour cell %q must look like hour:day", key)
	}
	if hour, err = strconv.Atoi(h); err != nil || hour < 0 || hour >= schema.HoursPerDay {
		return 0, 0, fmt.Errorf("hour cell %q has invalid hour", key)
	}
	if dayOfWeek, err = strconv.Atoi(d); err != nil || dayOfWeek < 0 || dayOfWeek >= schema.DaysPerWeek {
		return 0, 0, fmt.Errorf("hour cell %q has invalid day", key)
	}
	return hour, dayOfWeek, nil
}

// ParseWeekday accepts 0-6 (Sunday first) or an English day name or its prefix.
func ParseWeekday(v string) (time.Weekday, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n >= schema.DaysPerWeek {
			return 0, false
		}
		return time.Weekday(n), true
	}
	if len(v) < 2 {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.HasPrefix(strings.ToLower(d.String()), v) {
			return d, true
		}
	}
	return 0, false
}

// ShortWeekday returns "Sun".."Sat".
func ShortWeekday(d int) string {
	return time.Weekday(d).String()[:3]
}

func parseDate(key string, s field.Settings) (time.Time, error) {
	return time.ParseInLocation(schema.DateLayout, key, s.Location())
}
