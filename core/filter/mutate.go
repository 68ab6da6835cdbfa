package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/gitpulse/schema"
)

// Toggle adds value to dimension d, or removes it when already selected.
// The returned spec is a copy; spec is untouched.
func Toggle(spec schema.FilterSpec, d schema.Dimension, value string) (schema.FilterSpec, error) {
	out := spec.Clone()
	dim := out.Dimension(d)
	if dim == nil {
		return spec, fmt.Errorf("%w: unknown dimension %q", ErrInvalidFilter, d)
	}
	if i := slices.Index(dim.Values, value); i >= 0 {
		dim.Values = slices.Delete(dim.Values, i, i+1)
	} else {
		dim.Values = append(dim.Values, value)
	}
	if dim.Mode == "" {
		dim.Mode = schema.IncludeMode
	}
	return out, nil
}

// SetMode switches dimension d between include and exclude.
func SetMode(spec schema.FilterSpec, d schema.Dimension, mode schema.FilterMode) (schema.FilterSpec, error) {
	if _, ok := schema.ValidFilterModes[mode]; !ok {
		return spec, fmt.Errorf("%w: unknown mode %q", ErrInvalidFilter, mode)
	}
	out := spec.Clone()
	dim := out.Dimension(d)
	if dim == nil {
		return spec, fmt.Errorf("%w: unknown dimension %q", ErrInvalidFilter, d)
	}
	dim.Mode = mode
	return out, nil
}

// Reset returns the default spec.
func Reset() schema.FilterSpec {
	return schema.DefaultFilterSpec()
}

// ActiveDimensions lists the dimensions currently filtering, in display order.
func ActiveDimensions(spec schema.FilterSpec) []schema.Dimension {
	var out []schema.Dimension
	for _, d := range schema.AllDimensions {
		if spec.Dimension(d).Active() {
			out = append(out, d)
		}
	}
	return out
}

// Describe summarizes the active filters, e.g. "tag excludes merge; from 2024-01-01".
// An unfiltered spec reads "no filters".
func Describe(spec schema.FilterSpec) string {
	var parts []string
	for _, d := range ActiveDimensions(spec) {
		dim := spec.Dimension(d)
		verb := "is"
		if dim.Mode == schema.ExcludeMode {
			verb = "excludes"
		}
		parts = append(parts, fmt.Sprintf("%s %s %s", d, verb, strings.Join(dim.Values, ", ")))
	}
	if spec.DateFrom != "" {
		parts = append(parts, "from "+spec.DateFrom)
	}
	if spec.DateTo != "" {
		parts = append(parts, "to "+spec.DateTo)
	}
	if len(parts) == 0 {
		return "no filters"
	}
	return strings.Join(parts, "; ")
}
