// Package core orchestrates the analytics engine: it filters a dataset, builds
// every view for the selected level and resolves detail selections.
package core

import (
	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/core/filter"
	"github.com/huangsam/gitpulse/schema"
)

// BuildDashboard filters commits once and computes every view for cfg.
// It is pure; GeneratedAt is left for the caller to stamp.
func BuildDashboard(commits []schema.Commit, spec schema.FilterSpec, cfg schema.ViewConfig, s field.Settings) (schema.Dashboard, error) {
	filtered, err := filter.Apply(commits, spec, s)
	if err != nil {
		return schema.Dashboard{}, err
	}

	limit := agg.BreakdownLimit
	if cfg.Contributors == schema.ContributorsIndividual {
		limit = agg.WhoDoesWhatLimit
	}

	return schema.Dashboard{
		Level:           cfg,
		Filter:          spec.Clone(),
		FilterInfo:      filter.Describe(spec),
		TotalCommits:    len(commits),
		FilteredCommits: len(filtered),
		Cards:           agg.Cards(filtered, s),
		Timeline:        agg.Timeline(filtered, cfg, s),
		Grid:            agg.Grid(filtered, cfg, s),
		Heatmap:         agg.BuildHeatmap(filtered, s),
		Contributors:    sanitizeGroups(agg.Contributors(filtered, cfg.Contributors, limit), s),
		Urgency:         agg.Urgency(filtered),
		Tags:            agg.TagDistribution(filtered),
		Impact:          agg.ImpactBreakdown(filtered),
		Risk:            agg.RiskBreakdown(filtered),
		Debt:            agg.DebtBreakdown(filtered),
		Semver:          agg.SemverBreakdown(filtered),
		Complexity:      agg.ComplexityDistribution(filtered),
		Epic:            agg.EpicBreakdown(filtered),
		UrgencyTrend:    agg.UrgencyTrend(filtered),
		ComplexityTrend: agg.ComplexityTrend(filtered),
		ImpactTrend:     agg.ImpactTrend(filtered),
		DebtTrend:       agg.DebtTrend(filtered),
		RiskTrend:       agg.RiskTrend(filtered),
	}, nil
}

// sanitizeGroups redacts individual groups under privacy mode. The email key
// becomes the author's pseudonym, which detail selection also accepts.
func sanitizeGroups(groups []schema.ContributorGroup, s field.Settings) []schema.ContributorGroup {
	if !s.PrivacyMode {
		return groups
	}
	for i := range groups {
		if groups[i].Mode == schema.ContributorsIndividual {
			groups[i].Name = field.Pseudonym(groups[i].Key)
			groups[i].Key = groups[i].Name
		}
	}
	return groups
}
