package agg

import (
	"fmt"
	"strconv"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

// Intensity bands.
const (
	MinIntensity = 0
	MaxIntensity = 4
)

// DefaultWeeklyCells is the number of weeks shown at week timing.
const DefaultWeeklyCells = 26

// IntensityLevel bands count into 0..4: zero is its own band, the rest are
// four equal-width quarters of max. max is floored at 1.
func IntensityLevel(count, maxCount int) int {
	if count <= 0 {
		return MinIntensity
	}
	maxCount = max(maxCount, 1)
	// ceil(4*count/max)
	level := (4*count + maxCount - 1) / maxCount
	return min(max(level, 1), MaxIntensity)
}

// BinLevels applies IntensityLevel against the maximum of counts.
func BinLevels(counts []int) []int {
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}
	levels := make([]int, len(counts))
	for i, c := range counts {
		levels[i] = IntensityLevel(c, peak)
	}
	return levels
}

// BuildHeatmap counts timed commits into a [hour][dayOfWeek] matrix.
func BuildHeatmap(commits []schema.Commit, s field.Settings) schema.Heatmap {
	var hm schema.Heatmap
	for _, c := range commits {
		dt, ok := field.DateTime(c, s)
		if !ok {
			continue
		}
		hm.Matrix[dt.Hour][dt.DayOfWeek]++
		hm.Total++
	}
	for h := range schema.HoursPerDay {
		for d := range schema.DaysPerWeek {
			hm.Max = max(hm.Max, hm.Matrix[h][d])
		}
	}
	for h := range schema.HoursPerDay {
		for d := range schema.DaysPerWeek {
			hm.Levels[h][d] = IntensityLevel(hm.Matrix[h][d], hm.Max)
		}
	}
	return hm
}

// DayOfWeekTotals counts timed commits per weekday, Sunday first.
func DayOfWeekTotals(commits []schema.Commit, s field.Settings) [schema.DaysPerWeek]int {
	var totals [schema.DaysPerWeek]int
	for _, c := range commits {
		if dt, ok := field.DateTime(c, s); ok {
			totals[dt.DayOfWeek]++
		}
	}
	return totals
}

// WeekCount is the commit count of one week.
type WeekCount struct {
	Key   string
	Count int
}

// WeeklyTotals counts commits in the n weeks ending at the latest commit's week, oldest first.
// Without timed commits there is no anchor week and the result is empty.
func WeeklyTotals(commits []schema.Commit, s field.Settings, n int) []WeekCount {
	counts := make(map[string]int)
	var latest string
	for _, c := range commits {
		key, ok := WeekKey(c, s)
		if !ok {
			continue
		}
		counts[key]++
		if key > latest {
			latest = key
		}
	}
	out := make([]WeekCount, 0, max(n, 0))
	if latest == "" || n <= 0 {
		return out
	}
	anchor, err := parseDate(latest, s)
	if err != nil {
		return out
	}
	for i := n - 1; i >= 0; i-- {
		key := anchor.AddDate(0, 0, -7*i).Format(schema.DateLayout)
		out = append(out, WeekCount{Key: key, Count: counts[key]})
	}
	return out
}

// Grid shapes activity for the view's timing: hour gives the 24x7 matrix,
// day gives seven weekday cells and week gives the last 26 weekly cells.
func Grid(commits []schema.Commit, cfg schema.ViewConfig, s field.Settings) schema.ActivityGrid {
	grid := schema.ActivityGrid{Timing: cfg.Timing}
	switch cfg.Timing {
	case schema.TimingWeek:
		weeks := WeeklyTotals(commits, s, DefaultWeeklyCells)
		counts := make([]int, len(weeks))
		for i, w := range weeks {
			counts[i] = w.Count
		}
		levels := BinLevels(counts)
		row := make([]schema.GridCell, len(weeks))
		for i, w := range weeks {
			row[i] = schema.GridCell{Key: w.Key, Label: w.Key, Count: w.Count, Level: levels[i]}
			grid.Max = max(grid.Max, w.Count)
		}
		grid.Rows = [][]schema.GridCell{row}
	case schema.TimingDay:
		totals := DayOfWeekTotals(commits, s)
		levels := BinLevels(totals[:])
		row := make([]schema.GridCell, schema.DaysPerWeek)
		for d, n := range totals {
			row[d] = schema.GridCell{Key: strconv.Itoa(d), Label: ShortWeekday(d), Count: n, Level: levels[d]}
			grid.Max = max(grid.Max, n)
		}
		grid.Rows = [][]schema.GridCell{row}
	default:
		hm := BuildHeatmap(commits, s)
		grid.Timing = schema.TimingHour
		grid.Max = hm.Max
		grid.Rows = make([][]schema.GridCell, schema.HoursPerDay)
		for h := range schema.HoursPerDay {
			row := make([]schema.GridCell, schema.DaysPerWeek)
			for d := range schema.DaysPerWeek {
				row[d] = schema.GridCell{
					Key:   HourCellKey(h, d),
					Label: fmt.Sprintf("%s %02d:00", ShortWeekday(d), h),
					Count: hm.Matrix[h][d],
					Level: hm.Levels[h][d],
				}
			}
			grid.Rows[h] = row
		}
	}
	return grid
}
