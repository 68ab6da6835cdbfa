package schema

// Custom string types for type safety.
type (
	// ViewLevel names a granularity preset.
	ViewLevel string

	// ContributorMode controls how commits are grouped into rollups.
	ContributorMode string

	// TimingMode controls time-bucket granularity.
	TimingMode string

	// DrilldownMode controls what a drill-down opens.
	DrilldownMode string

	// FilterMode decides whether a dimension keeps or drops matches.
	FilterMode string

	// Dimension names one categorical filter facet.
	Dimension string

	// UrgencyBucket is the coarse band an urgency rating falls into.
	UrgencyBucket string

	// SelectorKind names which visual element a detail selection came from.
	SelectorKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for state persistence.
	DatabaseBackend string
)

// All view levels supported.
const (
	ExecutiveLevel  ViewLevel = "executive"
	ManagementLevel ViewLevel = "management"
	DeveloperLevel  ViewLevel = "developer" // default
)

// All contributor grouping modes.
const (
	ContributorsTotal      ContributorMode = "total"
	ContributorsRepo       ContributorMode = "repo"
	ContributorsIndividual ContributorMode = "individual"
)

// All timing modes.
const (
	TimingWeek TimingMode = "week"
	TimingDay  TimingMode = "day"
	TimingHour TimingMode = "hour"
)

// All drill-down modes.
const (
	DrilldownPeriod  DrilldownMode = "period"
	DrilldownCommits DrilldownMode = "commits"
)

// Filter modes.
const (
	IncludeMode FilterMode = "include"
	ExcludeMode FilterMode = "exclude"
)

// Categorical filter dimensions.
const (
	TagDimension     Dimension = "tag"
	AuthorDimension  Dimension = "author"
	RepoDimension    Dimension = "repo"
	UrgencyDimension Dimension = "urgency"
	ImpactDimension  Dimension = "impact"
)

// Urgency bands: planned (<=2), normal (3), reactive (>=4).
const (
	UrgencyPlanned  UrgencyBucket = "planned"
	UrgencyNormal   UrgencyBucket = "normal"
	UrgencyReactive UrgencyBucket = "reactive"
)

// Impact categories.
const (
	ImpactUserFacing     = "user-facing"
	ImpactInternal       = "internal"
	ImpactInfrastructure = "infrastructure"
	ImpactAPI            = "api"
)

// Risk categories.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Debt categories.
const (
	DebtAdded   = "added"
	DebtPaid    = "paid"
	DebtNeutral = "neutral"
)

// Semver categories.
const (
	SemverPatch = "patch"
	SemverMinor = "minor"
	SemverMajor = "major"
)

// Well-known tags referenced by defaults and metric cards.
const (
	TagMerge    = "merge"
	TagBugfix   = "bugfix"
	TagFeature  = "feature"
	TagSecurity = "security"
)

// Detail selector kinds.
const (
	SelectAll        SelectorKind = "all"
	SelectTag        SelectorKind = "tag"
	SelectUrgency    SelectorKind = "urgency"
	SelectAuthor     SelectorKind = "author"
	SelectRepo       SelectorKind = "repo"
	SelectGroup      SelectorKind = "group"
	SelectWeek       SelectorKind = "week"
	SelectDay        SelectorKind = "day"
	SelectMonth      SelectorKind = "month"
	SelectHourCell   SelectorKind = "hour-cell"
	SelectWeekday    SelectorKind = "weekday"
	SelectRisk       SelectorKind = "risk"
	SelectDebt       SelectorKind = "debt"
	SelectImpact     SelectorKind = "impact"
	SelectSemver     SelectorKind = "semver"
	SelectEpic       SelectorKind = "epic"
	SelectComplexity SelectorKind = "complexity"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	HTMLOut    OutputMode = "html"
	ParquetOut OutputMode = "parquet"
)

// All state backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllViewLevels lists the view levels from coarsest to finest.
var AllViewLevels = []ViewLevel{ExecutiveLevel, ManagementLevel, DeveloperLevel}

// AllDimensions lists the categorical filter dimensions in display order.
var AllDimensions = []Dimension{TagDimension, AuthorDimension, RepoDimension, UrgencyDimension, ImpactDimension}

// ImpactCategories lists impact values in display order.
var ImpactCategories = []string{ImpactUserFacing, ImpactInternal, ImpactInfrastructure, ImpactAPI}

// RiskCategories lists risk values in display order.
var RiskCategories = []string{RiskLow, RiskMedium, RiskHigh}

// DebtCategories lists debt values in display order.
var DebtCategories = []string{DebtAdded, DebtPaid, DebtNeutral}

// SemverCategories lists semver values in display order.
var SemverCategories = []string{SemverPatch, SemverMinor, SemverMajor}

// UrgencyBuckets lists urgency bands in display order.
var UrgencyBuckets = []UrgencyBucket{UrgencyPlanned, UrgencyNormal, UrgencyReactive}

// ValidViewLevels lists all valid view levels.
var ValidViewLevels = map[ViewLevel]struct{}{
	ExecutiveLevel:  {},
	ManagementLevel: {},
	DeveloperLevel:  {},
}

// ValidFilterModes lists all valid filter modes.
var ValidFilterModes = map[FilterMode]struct{}{
	IncludeMode: {},
	ExcludeMode: {},
}

// ValidImpacts lists all valid impact values.
var ValidImpacts = setOf(ImpactCategories)

// ValidRisks lists all valid risk values.
var ValidRisks = setOf(RiskCategories)

// ValidDebts lists all valid debt values.
var ValidDebts = setOf(DebtCategories)

// ValidSemvers lists all valid semver values.
var ValidSemvers = setOf(SemverCategories)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	HTMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid state backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

func setOf(values []string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}
