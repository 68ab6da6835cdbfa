package schema

import "slices"

// DateLayout is the layout of filter date bounds.
const DateLayout = "2006-01-02"

// DimensionFilter is the state of one categorical filter facet.
// An empty Values slice means the dimension is inactive.
type DimensionFilter struct {
	Values []string   `json:"values"`
	Mode   FilterMode `json:"mode"`
}

// Active reports whether the dimension participates in filtering.
func (d DimensionFilter) Active() bool {
	return len(d.Values) > 0
}

// Has reports whether v is one of the selected values.
func (d DimensionFilter) Has(v string) bool {
	return slices.Contains(d.Values, v)
}

// FilterSpec is the full multi-dimensional filter applied to a commit collection.
// DateFrom and DateTo are inclusive YYYY-MM-DD bounds; DateTo covers the whole day.
type FilterSpec struct {
	Tag      DimensionFilter `json:"tag"`
	Author   DimensionFilter `json:"author"`
	Repo     DimensionFilter `json:"repo"`
	Urgency  DimensionFilter `json:"urgency"`
	Impact   DimensionFilter `json:"impact"`
	DateFrom string          `json:"dateFrom,omitempty"`
	DateTo   string          `json:"dateTo,omitempty"`
}

// DefaultFilterSpec returns the spec every session starts from: merges are hidden.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		Tag:     DimensionFilter{Values: []string{TagMerge}, Mode: ExcludeMode},
		Author:  DimensionFilter{Mode: IncludeMode},
		Repo:    DimensionFilter{Mode: IncludeMode},
		Urgency: DimensionFilter{Mode: IncludeMode},
		Impact:  DimensionFilter{Mode: IncludeMode},
	}
}

// Dimension returns the filter for d, or nil for an unknown dimension.
func (f *FilterSpec) Dimension(d Dimension) *DimensionFilter {
	switch d {
	case TagDimension:
		return &f.Tag
	case AuthorDimension:
		return &f.Author
	case RepoDimension:
		return &f.Repo
	case UrgencyDimension:
		return &f.Urgency
	case ImpactDimension:
		return &f.Impact
	default:
		return nil
	}
}

// HasDateRange reports whether either date bound is set.
func (f FilterSpec) HasDateRange() bool {
	return f.DateFrom != "" || f.DateTo != ""
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (f FilterSpec) Clone() FilterSpec {
	c := f
	for _, d := range AllDimensions {
		dim := c.Dimension(d)
		dim.Values = slices.Clone(dim.Values)
	}
	return c
}
