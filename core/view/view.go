// Package view maps view level names onto aggregation granularity.
package view

import (
	"strings"

	"github.com/huangsam/gitpulse/schema"
)

var configs = map[schema.ViewLevel]schema.ViewConfig{
	schema.ExecutiveLevel: {
		Level:        schema.ExecutiveLevel,
		Contributors: schema.ContributorsTotal,
		Timing:       schema.TimingWeek,
		Drilldown:    schema.DrilldownPeriod,
	},
	schema.ManagementLevel: {
		Level:        schema.ManagementLevel,
		Contributors: schema.ContributorsRepo,
		Timing:       schema.TimingDay,
		Drilldown:    schema.DrilldownPeriod,
	},
	schema.DeveloperLevel: {
		Level:        schema.DeveloperLevel,
		Contributors: schema.ContributorsIndividual,
		Timing:       schema.TimingHour,
		Drilldown:    schema.DrilldownCommits,
	},
}

// Resolve returns the config for name. Unknown names fall back to developer,
// the most granular level.
func Resolve(name string) schema.ViewConfig {
	if cfg, ok := configs[schema.ViewLevel(strings.ToLower(strings.TrimSpace(name)))]; ok {
		return cfg
	}
	return configs[schema.DeveloperLevel]
}

// IsKnown reports whether name is one of the fixed levels.
func IsKnown(name string) bool {
	_, ok := schema.ValidViewLevels[schema.ViewLevel(strings.ToLower(strings.TrimSpace(name)))]
	return ok
}

// Levels returns the level names from coarsest to finest.
func Levels() []schema.ViewLevel {
	return append([]schema.ViewLevel(nil), schema.AllViewLevels...)
}
