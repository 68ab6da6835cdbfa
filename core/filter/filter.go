// Package filter evaluates a multi-dimensional FilterSpec against commits.
package filter

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

// ErrInvalidFilter is returned for structurally invalid filter specs.
var ErrInvalidFilter = errors.New("invalid filter")

// Bounds are the resolved date range of a spec. Zero values mean unbounded.
type Bounds struct {
	From time.Time
	To   time.Time
}

// Active reports whether either bound is set.
func (b Bounds) Active() bool {
	return !b.From.IsZero() || !b.To.IsZero()
}

// Validate checks modes and dates and resolves the date bounds in the settings' zone.
// DateTo is extended through the last nanosecond of its day.
func Validate(spec schema.FilterSpec, s field.Settings) (Bounds, error) {
	for _, d := range schema.AllDimensions {
		dim := spec.Dimension(d)
		if dim.Mode == "" {
			continue
		}
		if _, ok := schema.ValidFilterModes[dim.Mode]; !ok {
			return Bounds{}, fmt.Errorf("%w: unknown mode %q for %s", ErrInvalidFilter, dim.Mode, d)
		}
	}

	var b Bounds
	loc := s.Location()
	if spec.DateFrom != "" {
		t, err := time.ParseInLocation(schema.DateLayout, spec.DateFrom, loc)
		if err != nil {
			return Bounds{}, fmt.Errorf("%w: dateFrom %q: %v", ErrInvalidFilter, spec.DateFrom, err)
		}
		b.From = t
	}
	if spec.DateTo != "" {
		t, err := time.ParseInLocation(schema.DateLayout, spec.DateTo, loc)
		if err != nil {
			return Bounds{}, fmt.Errorf("%w: dateTo %q: %v", ErrInvalidFilter, spec.DateTo, err)
		}
		b.To = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !b.From.IsZero() && !b.To.IsZero() && b.From.After(b.To) {
		return Bounds{}, fmt.Errorf("%w: dateFrom %s is after dateTo %s", ErrInvalidFilter, spec.DateFrom, spec.DateTo)
	}
	return b, nil
}

// Apply returns the commits passing every active dimension, in input order.
// The input slice is never modified.
func Apply(commits []schema.Commit, spec schema.FilterSpec, s field.Settings) ([]schema.Commit, error) {
	bounds, err := Validate(spec, s)
	if err != nil {
		return nil, err
	}
	out := make([]schema.Commit, 0, len(commits))
	for _, c := range commits {
		if Matches(c, spec, bounds) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Matches is the per-commit predicate behind Apply. Callers must pass bounds from Validate.
func Matches(c schema.Commit, spec schema.FilterSpec, bounds Bounds) bool {
	if !matchesDate(c, bounds) {
		return false
	}
	for _, d := range schema.AllDimensions {
		if !MatchesDimension(c, d, *spec.Dimension(d)) {
			return false
		}
	}
	return true
}

// MatchesDimension evaluates a single categorical dimension. Inactive dimensions always pass.
func MatchesDimension(c schema.Commit, d schema.Dimension, dim schema.DimensionFilter) bool {
	if !dim.Active() {
		return true
	}
	hit := hasMatch(c, d, dim.Values)
	if dim.Mode == schema.ExcludeMode {
		return !hit
	}
	return hit
}

func matchesDate(c schema.Commit, b Bounds) bool {
	if !b.Active() {
		return true
	}
	t, ok := field.ParseTimestamp(c.Timestamp)
	if !ok {
		return false
	}
	if !b.From.IsZero() && t.Before(b.From) {
		return false
	}
	if !b.To.IsZero() && t.After(b.To) {
		return false
	}
	return true
}

// hasMatch compares the commit's value(s) for d against the selected values.
func hasMatch(c schema.Commit, d schema.Dimension, values []string) bool {
	switch d {
	case schema.TagDimension:
		tags := field.Tags(c)
		return slices.ContainsFunc(values, func(v string) bool { return slices.Contains(tags, v) })
	case schema.AuthorDimension:
		email := field.AuthorEmail(c)
		return slices.ContainsFunc(values, func(v string) bool { return strings.EqualFold(strings.TrimSpace(v), email) })
	case schema.RepoDimension:
		return slices.Contains(values, field.RepoID(c))
	case schema.UrgencyDimension:
		u, ok := field.Urgency(c)
		if !ok {
			return false
		}
		bucket, _ := field.BucketForUrgency(u)
		return slices.Contains(values, string(bucket)) || slices.Contains(values, strconv.Itoa(u))
	case schema.ImpactDimension:
		impact, ok := field.Impact(c)
		return ok && slices.Contains(values, impact)
	default:
		return false
	}
}
