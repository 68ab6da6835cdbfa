package schema

import (
	"cmp"
	"slices"
	"time"
)

// ViewConfig is the aggregation granularity derived from a view level.
type ViewConfig struct {
	Level        ViewLevel       `json:"level"`
	Contributors ContributorMode `json:"contributors"`
	Timing       TimingMode      `json:"timing"`
	Drilldown    DrilldownMode   `json:"drilldown"`
}

// DateTime is the hour and weekday of a commit in the active time zone.
// DayOfWeek follows time.Weekday: 0 is Sunday.
type DateTime struct {
	Hour      int `json:"hour"`
	DayOfWeek int `json:"day_of_week"`
}

// WorkPattern classifies when a commit was made relative to the work week.
type WorkPattern struct {
	IsWeekend    bool `json:"is_weekend"`
	IsAfterHours bool `json:"is_after_hours"`
	IsHoliday    bool `json:"is_holiday"`
}

// TimeBucket is one week or day of activity.
// Commits is excluded from JSON; detail selection re-derives it.
type TimeBucket struct {
	Key     string         `json:"key"`
	Start   time.Time      `json:"start"`
	Count   int            `json:"count"`
	Commits []Commit       `json:"-"`
	Tags    map[string]int `json:"tags"`
	Repos   []string       `json:"repos"`
}

// TagCount is a tag with the number of commits carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ContributorGroup is one rollup entry: everyone, one repository, or one author.
type ContributorGroup struct {
	Key          string          `json:"key"`
	Mode         ContributorMode `json:"mode"`
	Name         string          `json:"name,omitempty"`
	Count        int             `json:"count"`
	Tags         []TagCount      `json:"tags"`
	Complexities []int           `json:"complexities"`
	Additions    int             `json:"additions"`
	Deletions    int             `json:"deletions"`
}

// TopTags returns up to n tags by descending count, ties kept in discovery order.
func (g ContributorGroup) TopTags(n int) []TagCount {
	tags := slices.Clone(g.Tags)
	slices.SortStableFunc(tags, func(a, b TagCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if n > 0 && len(tags) > n {
		tags = tags[:n]
	}
	if tags == nil {
		return []TagCount{}
	}
	return tags
}

// AverageComplexity averages the recorded complexity values.
func (g ContributorGroup) AverageComplexity() (float64, bool) {
	if len(g.Complexities) == 0 {
		return 0, false
	}
	sum := 0
	for _, c := range g.Complexities {
		sum += c
	}
	return float64(sum) / float64(len(g.Complexities)), true
}

// Heatmap dimensions.
const (
	HoursPerDay = 24
	DaysPerWeek = 7
)

// Heatmap is the hour by weekday activity matrix and its intensity levels.
type Heatmap struct {
	Matrix [HoursPerDay][DaysPerWeek]int `json:"matrix"`
	Levels [HoursPerDay][DaysPerWeek]int `json:"levels"`
	Max    int                           `json:"max"`
	Total  int                           `json:"total"`
}

// GridCell is one cell of an activity grid.
type GridCell struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// ActivityGrid is the heatmap shape for a timing mode:
// 24 rows of 7 for hours, one row of 7 weekdays for days, one row of 26 weeks for weeks.
type ActivityGrid struct {
	Timing TimingMode   `json:"timing"`
	Rows   [][]GridCell `json:"rows"`
	Max    int          `json:"max"`
}

// AveragePoint is one month of an averaged rating.
type AveragePoint struct {
	Month   string  `json:"month"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// AverageSeries is a monthly average trend, months ascending.
type AverageSeries struct {
	Name   string         `json:"name"`
	Points []AveragePoint `json:"points"`
}

// CategorySeries is the per-month count of one category, aligned with StackedSeries.Months.
type CategorySeries struct {
	Category string `json:"category"`
	Counts   []int  `json:"counts"`
}

// StackedSeries is a monthly per-category count trend, months ascending.
type StackedSeries struct {
	Name   string           `json:"name"`
	Months []string         `json:"months"`
	Series []CategorySeries `json:"series"`
}

// LabelCount is one bar of a categorical breakdown.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Breakdown is a categorical distribution. Total counts commits with a defined value.
type Breakdown struct {
	Name  string       `json:"name"`
	Items []LabelCount `json:"items"`
	Total int          `json:"total"`
}

// Count returns the count recorded for label.
func (b Breakdown) Count(label string) int {
	for _, it := range b.Items {
		if it.Label == label {
			return it.Count
		}
	}
	return 0
}

// UrgencyBreakdown counts commits per urgency band; Unset counts commits without urgency.
type UrgencyBreakdown struct {
	Planned  int `json:"planned"`
	Normal   int `json:"normal"`
	Reactive int `json:"reactive"`
	Unset    int `json:"unset"`
}

// Count returns the count for a band.
func (u UrgencyBreakdown) Count(b UrgencyBucket) int {
	switch b {
	case UrgencyPlanned:
		return u.Planned
	case UrgencyNormal:
		return u.Normal
	case UrgencyReactive:
		return u.Reactive
	default:
		return 0
	}
}

// Rated returns the number of commits with a defined urgency.
func (u UrgencyBreakdown) Rated() int {
	return u.Planned + u.Normal + u.Reactive
}

// MetricCard is a single headline number with a short explanation.
type MetricCard struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Value string `json:"value"`
	Sub   string `json:"sub"`
}

// Dashboard bundles every view computed for one level over the filtered commits.
type Dashboard struct {
	Level           ViewConfig         `json:"view"`
	Filter          FilterSpec         `json:"filter"`
	FilterInfo      string             `json:"filter_info"`
	TotalCommits    int                `json:"total_commits"`
	FilteredCommits int                `json:"filtered_commits"`
	Cards           []MetricCard       `json:"cards"`
	Timeline        []TimeBucket       `json:"timeline"`
	Grid            ActivityGrid       `json:"grid"`
	Heatmap         Heatmap            `json:"heatmap"`
	Contributors    []ContributorGroup `json:"contributors"`
	Urgency         UrgencyBreakdown   `json:"urgency"`
	Tags            Breakdown          `json:"tags"`
	Impact          Breakdown          `json:"impact"`
	Risk            Breakdown          `json:"risk"`
	Debt            Breakdown          `json:"debt"`
	Semver          Breakdown          `json:"semver"`
	Complexity      Breakdown          `json:"complexity"`
	Epic            Breakdown          `json:"epic"`
	UrgencyTrend    *AverageSeries     `json:"urgency_trend"`
	ComplexityTrend *AverageSeries     `json:"complexity_trend"`
	ImpactTrend     *StackedSeries     `json:"impact_trend"`
	DebtTrend       *StackedSeries     `json:"debt_trend"`
	RiskTrend       *StackedSeries     `json:"risk_trend"`
	GeneratedAt     time.Time          `json:"generated_at"`
}
