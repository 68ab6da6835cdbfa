package agg

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

// Breakdown names.
const (
	TagsBreakdownName       = "tags"
	ImpactBreakdownName     = "impact"
	RiskBreakdownName       = "risk"
	DebtBreakdownName       = "debt"
	SemverBreakdownName     = "semver"
	EpicBreakdownName       = "epic"
	ComplexityBreakdownName = "complexity"
)

// Urgency counts commits per urgency band. Unrated commits only increase Unset.
func Urgency(commits []schema.Commit) schema.UrgencyBreakdown {
	var u schema.UrgencyBreakdown
	for _, c := range commits {
		b, ok := field.UrgencyBucket(c)
		if !ok {
			u.Unset++
			continue
		}
		switch b {
		case schema.UrgencyPlanned:
			u.Planned++
		case schema.UrgencyNormal:
			u.Normal++
		case schema.UrgencyReactive:
			u.Reactive++
		}
	}
	return u
}

// TagDistribution counts commits per tag, descending, ties in discovery order.
// Total is the number of tagged commits.
func TagDistribution(commits []schema.Commit) schema.Breakdown {
	bd := schema.Breakdown{Name: TagsBreakdownName, Items: []schema.LabelCount{}}
	index := make(map[string]int)
	for _, c := range commits {
		tags := field.Tags(c)
		if len(tags) == 0 {
			continue
		}
		bd.Total++
		for _, tag := range tags {
			i, ok := index[tag]
			if !ok {
				i = len(bd.Items)
				index[tag] = i
				bd.Items = append(bd.Items, schema.LabelCount{Label: tag})
			}
			bd.Items[i].Count++
		}
	}
	sortByCount(bd.Items)
	return bd
}

// CountBy counts a single-valued category. With a category list, every listed
// category appears in that order; without one, labels are discovered and sorted by count.
func CountBy(name string, commits []schema.Commit, categories []string, value func(schema.Commit) (string, bool)) schema.Breakdown {
	bd := schema.Breakdown{Name: name, Items: make([]schema.LabelCount, 0, len(categories))}
	index := make(map[string]int, len(categories))
	for _, cat := range categories {
		index[cat] = len(bd.Items)
		bd.Items = append(bd.Items, schema.LabelCount{Label: cat})
	}
	for _, c := range commits {
		v, ok := value(c)
		if !ok {
			continue
		}
		i, known := index[v]
		if !known {
			if categories != nil {
				continue
			}
			i = len(bd.Items)
			index[v] = i
			bd.Items = append(bd.Items, schema.LabelCount{Label: v})
		}
		bd.Items[i].Count++
		bd.Total++
	}
	if categories == nil {
		sortByCount(bd.Items)
	}
	return bd
}

// ImpactBreakdown counts impact categories.
func ImpactBreakdown(commits []schema.Commit) schema.Breakdown {
	return CountBy(ImpactBreakdownName, commits, schema.ImpactCategories, field.Impact)
}

// RiskBreakdown counts risk categories.
func RiskBreakdown(commits []schema.Commit) schema.Breakdown {
	return CountBy(RiskBreakdownName, commits, schema.RiskCategories, field.Risk)
}

// DebtBreakdown counts debt categories.
func DebtBreakdown(commits []schema.Commit) schema.Breakdown {
	return CountBy(DebtBreakdownName, commits, schema.DebtCategories, field.Debt)
}

// SemverBreakdown counts semver categories.
func SemverBreakdown(commits []schema.Commit) schema.Breakdown {
	return CountBy(SemverBreakdownName, commits, schema.SemverCategories, field.Semver)
}

// EpicBreakdown counts epics by frequency.
func EpicBreakdown(commits []schema.Commit) schema.Breakdown {
	return CountBy(EpicBreakdownName, commits, nil, field.Epic)
}

// ComplexityLabels are the labels of the complexity distribution.
var ComplexityLabels = []string{"1", "2", "3", "4", "5"}

// ComplexityDistribution counts rated commits per complexity score.
func ComplexityDistribution(commits []schema.Commit) schema.Breakdown {
	return CountBy(ComplexityBreakdownName, commits, ComplexityLabels, func(c schema.Commit) (string, bool) {
		v, ok := field.Complexity(c)
		if !ok {
			return "", false
		}
		return strconv.Itoa(v), true
	})
}

func sortByCount(items []schema.LabelCount) {
	slices.SortStableFunc(items, func(a, b schema.LabelCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
}
