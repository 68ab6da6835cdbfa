package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/gitpulse/schema"
)

func TestToggle(t *testing.T) {
	spec := schema.DefaultFilterSpec()

	added, err := Toggle(spec, schema.TagDimension, "docs")
	require.NoError(t, err)
	assert.Equal(t, []string{"merge", "docs"}, added.Tag.Values)
	assert.Equal(t, []string{"merge"}, spec.Tag.Values, "input is not mutated")

	removed, err := Toggle(added, schema.TagDimension, "merge")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, removed.Tag.Values)

	fresh, err := Toggle(schema.FilterSpec{}, schema.RepoDimension, "api")
	require.NoError(t, err)
	assert.Equal(t, schema.IncludeMode, fresh.Repo.Mode)

	_, err = Toggle(spec, "planet", "x")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestSetMode(t *testing.T) {
	spec, err := SetMode(schema.DefaultFilterSpec(), schema.TagDimension, schema.IncludeMode)
	require.NoError(t, err)
	assert.Equal(t, schema.IncludeMode, spec.Tag.Mode)

	_, err = SetMode(spec, schema.TagDimension, "sometimes")
	assert.ErrorIs(t, err, ErrInvalidFilter)
	_, err = SetMode(spec, "planet", schema.ExcludeMode)
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestResetAndDescribe(t *testing.T) {
	assert.Equal(t, schema.DefaultFilterSpec(), Reset())
	assert.Equal(t, "tag excludes merge", Describe(Reset()))
	assert.Equal(t, "no filters", Describe(schema.FilterSpec{}))

	spec := schema.FilterSpec{
		Author:   schema.DimensionFilter{Values: []string{"a@x", "b@x"}, Mode: schema.IncludeMode},
		Urgency:  schema.DimensionFilter{Values: []string{"reactive"}, Mode: schema.ExcludeMode},
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-31",
	}
	assert.Equal(t, "author is a@x, b@x; urgency excludes reactive; from 2024-01-01; to 2024-01-31", Describe(spec))
	assert.Equal(t, []schema.Dimension{schema.AuthorDimension, schema.UrgencyDimension}, ActiveDimensions(spec))
	assert.Empty(t, ActiveDimensions(schema.FilterSpec{}))
}
