package agg

import (
	"slices"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

// Trend names.
const (
	UrgencyTrendName    = "urgency"
	ComplexityTrendName = "complexity"
	ImpactTrendName     = "impact"
	DebtTrendName       = "debt"
	RiskTrendName       = "risk"
)

// UrgencyTrend averages urgency per month. Nil means no month had a rated commit.
func UrgencyTrend(commits []schema.Commit) *schema.AverageSeries {
	return averageTrend(UrgencyTrendName, commits, field.Urgency)
}

// ComplexityTrend averages complexity per month. Nil means no data.
func ComplexityTrend(commits []schema.Commit) *schema.AverageSeries {
	return averageTrend(ComplexityTrendName, commits, field.Complexity)
}

// ImpactTrend counts impact categories per month. Nil means no data.
func ImpactTrend(commits []schema.Commit) *schema.StackedSeries {
	return stackedTrend(ImpactTrendName, commits, schema.ImpactCategories, field.Impact)
}

// DebtTrend counts debt categories per month. Nil means no data.
func DebtTrend(commits []schema.Commit) *schema.StackedSeries {
	return stackedTrend(DebtTrendName, commits, schema.DebtCategories, field.Debt)
}

// RiskTrend counts risk categories per month. Nil means no data.
func RiskTrend(commits []schema.Commit) *schema.StackedSeries {
	return stackedTrend(RiskTrendName, commits, schema.RiskCategories, field.Risk)
}

// averageTrend only counts commits with a defined value, in both sum and denominator.
func averageTrend(name string, commits []schema.Commit, value func(schema.Commit) (int, bool)) *schema.AverageSeries {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, c := range commits {
		v, ok := value(c)
		if !ok {
			continue
		}
		month, ok := MonthKey(c)
		if !ok {
			continue
		}
		sums[month] += v
		counts[month]++
	}
	if len(counts) == 0 {
		return nil
	}

	months := sortedKeys(counts)
	series := &schema.AverageSeries{Name: name, Points: make([]schema.AveragePoint, 0, len(months))}
	for _, m := range months {
		series.Points = append(series.Points, schema.AveragePoint{
			Month:   m,
			Average: float64(sums[m]) / float64(counts[m]),
			Count:   counts[m],
		})
	}
	return series
}

func stackedTrend(name string, commits []schema.Commit, categories []string, value func(schema.Commit) (string, bool)) *schema.StackedSeries {
	perMonth := make(map[string]map[string]int)
	for _, c := range commits {
		v, ok := value(c)
		if !ok {
			continue
		}
		month, ok := MonthKey(c)
		if !ok {
			continue
		}
		if perMonth[month] == nil {
			perMonth[month] = make(map[string]int)
		}
		perMonth[month][v]++
	}
	if len(perMonth) == 0 {
		return nil
	}

	months := sortedKeys(perMonth)
	series := &schema.StackedSeries{Name: name, Months: months, Series: make([]schema.CategorySeries, 0, len(categories))}
	for _, cat := range categories {
		counts := make([]int, len(months))
		for i, m := range months {
			counts[i] = perMonth[m][cat]
		}
		series.Series = append(series.Series, schema.CategorySeries{Category: cat, Counts: counts})
	}
	return series
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
