package detail

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

func utc() field.Settings {
	s := field.DefaultSettings()
	s.UseUTC = true
	return s
}

func commits() []schema.Commit {
	return []schema.Commit{
		{SHA: "1", Timestamp: "2024-01-01T09:00:00Z", RepoID: "api", Author: schema.Author{Name: "Ann Lee", Email: "ann@x.io"},
			Tags: []string{"feature"}, Urgency: schema.NewRating(2), Complexity: schema.NewRating(3), Impact: "api", Debt: "added", Epic: "auth"},
		{SHA: "2", Timestamp: "2024-01-03T23:30:00Z", RepoID: "web", Author: schema.Author{Name: "Bob", Email: "bob@x.io"},
			Tags: []string{"bugfix", "security"}, Urgency: schema.NewRating(5), Risk: "high", Semver: "patch"},
		{SHA: "3", Timestamp: "2024-02-10T12:00:00Z", RepoID: "api", Author: schema.Author{Name: "Ann Lee", Email: "ann@x.io"},
			Tags: []string{"feature", "api"}, Complexity: schema.NewRating(5), Impact: "api", Risk: "low", Epic: "auth"},
		{SHA: "4", RepoID: "api", AuthorEmail: "cy@x.io", Tags: []string{"docs"}, Urgency: schema.NewRating(3)},
		{SHA: "5", Timestamp: "2024-01-01T09:45:00Z", Tags: []string{"feature"}, Urgency: schema.NewRating(4), Debt: "paid"},
	}
}

func shas(cs []schema.Commit) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.SHA
	}
	return out
}

func TestSelectOrdering(t *testing.T) {
	sel, err := Select(commits(), schema.Selector{Kind: schema.SelectAll}, utc())
	require.NoError(t, err)
	assert.Equal(t, "All Commits", sel.Title)
	assert.Equal(t, "5 commits", sel.Subtitle)
	assert.Equal(t, []string{"3", "2", "5", "1", "4"}, shas(sel.Commits), "newest first, undated last")
}

func TestSelectKinds(t *testing.T) {
	tests := []struct {
		sel   schema.Selector
		want  []string
		title string
	}{
		{schema.Selector{Kind: schema.SelectTag, Value: "feature"}, []string{"3", "5", "1"}, "Tag: feature"},
		{schema.Selector{Kind: schema.SelectUrgency, Value: "reactive"}, []string{"2", "5"}, "Urgency: reactive"},
		{schema.Selector{Kind: schema.SelectUrgency, Value: "3"}, []string{"4"}, "Urgency: 3"},
		{schema.Selector{Kind: schema.SelectAuthor, Value: "ANN@x.io"}, []string{"3", "1"}, "Author: Ann Lee"},
		{schema.Selector{Kind: schema.SelectRepo, Value: "default"}, []string{"5"}, "Repository: default"},
		{schema.Selector{Kind: schema.SelectGroup, Value: "api", Mode: schema.ContributorsRepo}, []string{"3", "1", "4"}, "api"},
		{schema.Selector{Kind: schema.SelectGroup, Value: "bob@x.io"}, []string{"2"}, "Bob"},
		{schema.Selector{Kind: schema.SelectGroup, Value: "Ann@X.io", Mode: schema.ContributorsIndividual}, []string{"3", "1"}, "Ann Lee"},
		{schema.Selector{Kind: schema.SelectWeek, Value: "2024-01-01"}, []string{"2", "5", "1"}, "Week of 2024-01-01"},
		{schema.Selector{Kind: schema.SelectDay, Value: "2024-01-01"}, []string{"5", "1"}, "2024-01-01"},
		{schema.Selector{Kind: schema.SelectMonth, Value: "2024-02"}, []string{"3"}, "2024-02"},
		{schema.Selector{Kind: schema.SelectHourCell, Value: "9:1"}, []string{"5", "1"}, "Monday 09:00-09:59"},
		{schema.Selector{Kind: schema.SelectWeekday, Value: "sat"}, []string{"3"}, "Saturday"},
		{schema.Selector{Kind: schema.SelectRisk, Value: "HIGH"}, []string{"2"}, "Risk: high"},
		{schema.Selector{Kind: schema.SelectDebt, Value: "paid"}, []string{"5"}, "Debt: paid"},
		{schema.Selector{Kind: schema.SelectImpact, Value: "api"}, []string{"3", "1"}, "Impact: api"},
		{schema.Selector{Kind: schema.SelectSemver, Value: "patch"}, []string{"2"}, "Semver: patch"},
		{schema.Selector{Kind: schema.SelectEpic, Value: "auth"}, []string{"3", "1"}, "Epic: auth"},
		{schema.Selector{Kind: schema.SelectComplexity, Value: "5"}, []string{"3"}, "Complexity 5"},
		{schema.Selector{Kind: schema.SelectTag, Value: "nothing"}, []string{}, "Tag: nothing"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sel.Kind)+"="+tt.sel.Value, func(t *testing.T) {
			got, err := Select(commits(), tt.sel, utc())
			require.NoError(t, err)
			assert.Equal(t, tt.want, shas(got.Commits))
			assert.Equal(t, tt.title, got.Title)
			assert.Equal(t, Subtitle(len(tt.want)), got.Subtitle)
		})
	}
}

func TestSelectErrors(t *testing.T) {
	_, err := Select(commits(), schema.Selector{Kind: "pie-slice"}, utc())
	assert.ErrorIs(t, err, ErrUnknownSelector)

	for _, sel := range []schema.Selector{
		{Kind: schema.SelectHourCell, Value: "25:1"},
		{Kind: schema.SelectWeekday, Value: "someday"},
		{Kind: schema.SelectComplexity, Value: "9"},
	} {
		_, err := Select(commits(), sel, utc())
		assert.ErrorIs(t, err, ErrInvalidSelector, string(sel.Kind))
	}
}

func TestSelectPrivacy(t *testing.T) {
	s := utc()
	s.PrivacyMode = true
	got, err := Select(commits(), schema.Selector{Kind: schema.SelectAuthor, Value: "ann@x.io"}, s)
	require.NoError(t, err)
	assert.Equal(t, "Author: "+field.Pseudonym("ann@x.io"), got.Title)
	assert.NotContains(t, got.Title, "Ann")

	for _, kind := range []schema.SelectorKind{schema.SelectAuthor, schema.SelectGroup} {
		byPseudonym, err := Select(commits(), schema.Selector{Kind: kind, Value: field.Pseudonym("ann@x.io")}, s)
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "1"}, shas(byPseudonym.Commits), string(kind))
	}

	none, err := Select(commits(), schema.Selector{Kind: schema.SelectGroup, Value: field.Pseudonym("ghost@x.io")}, s)
	require.NoError(t, err)
	assert.Empty(t, none.Commits)
	assert.Equal(t, field.Pseudonym("ghost@x.io"), none.Title)

	plain, err := Select(commits(), schema.Selector{Kind: schema.SelectGroup, Value: field.Pseudonym("ann@x.io")}, utc())
	require.NoError(t, err)
	assert.Empty(t, plain.Commits, "pseudonyms only resolve under privacy mode")
}

// Every aggregate bucket must be reproducible by selecting its key.
func TestSelectMatchesAggregates(t *testing.T) {
	cs := commits()
	s := utc()
	count := func(sel schema.Selector) int {
		got, err := Select(cs, sel, s)
		require.NoError(t, err)
		return len(got.Commits)
	}

	for _, b := range agg.ByWeek(cs, s) {
		assert.Equal(t, b.Count, count(schema.Selector{Kind: schema.SelectWeek, Value: b.Key}), b.Key)
	}
	for _, b := range agg.ByDay(cs, s) {
		assert.Equal(t, b.Count, count(schema.Selector{Kind: schema.SelectDay, Value: b.Key}), b.Key)
	}

	hm := agg.BuildHeatmap(cs, s)
	for h := range schema.HoursPerDay {
		for d := range schema.DaysPerWeek {
			assert.Equal(t, hm.Matrix[h][d], count(schema.Selector{Kind: schema.SelectHourCell, Value: agg.HourCellKey(h, d)}))
		}
	}
	for d, n := range agg.DayOfWeekTotals(cs, s) {
		assert.Equal(t, n, count(schema.Selector{Kind: schema.SelectWeekday, Value: strconv.Itoa(d)}))
	}

	for _, mode := range []schema.ContributorMode{schema.ContributorsTotal, schema.ContributorsRepo, schema.ContributorsIndividual} {
		for _, g := range agg.Contributors(cs, mode, 0) {
			assert.Equal(t, g.Count, count(schema.Selector{Kind: schema.SelectGroup, Value: g.Key, Mode: mode}), g.Key)
		}
	}

	u := agg.Urgency(cs)
	for _, b := range schema.UrgencyBuckets {
		assert.Equal(t, u.Count(b), count(schema.Selector{Kind: schema.SelectUrgency, Value: string(b)}))
	}
	for _, it := range agg.TagDistribution(cs).Items {
		assert.Equal(t, it.Count, count(schema.Selector{Kind: schema.SelectTag, Value: it.Label}))
	}
	for _, it := range agg.RiskBreakdown(cs).Items {
		assert.Equal(t, it.Count, count(schema.Selector{Kind: schema.SelectRisk, Value: it.Label}))
	}
	for _, it := range agg.DebtBreakdown(cs).Items {
		assert.Equal(t, it.Count, count(schema.Selector{Kind: schema.SelectDebt, Value: it.Label}))
	}
	for _, it := range agg.ImpactBreakdown(cs).Items {
		assert.Equal(t, it.Count, count(schema.Selector{Kind: schema.SelectImpact, Value: it.Label}))
	}
	for _, it := range agg.ComplexityDistribution(cs).Items {
		assert.Equal(t, it.Count, count(schema.Selector{Kind: schema.SelectComplexity, Value: it.Label}))
	}
	if series := agg.UrgencyTrend(cs); series != nil {
		for _, p := range series.Points {
			assert.GreaterOrEqual(t, count(schema.Selector{Kind: schema.SelectMonth, Value: p.Month}), p.Count)
		}
	}
}

func TestSelectIdempotent(t *testing.T) {
	sel := schema.Selector{Kind: schema.SelectTag, Value: "feature"}
	a, err := Select(commits(), sel, utc())
	require.NoError(t, err)
	b, err := Select(commits(), sel, utc())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	empty, err := Select(nil, sel, utc())
	require.NoError(t, err)
	assert.Empty(t, empty.Commits)
	assert.Equal(t, "0 commits", empty.Subtitle)
}

func TestPaginate(t *testing.T) {
	sel, err := Select(commits(), schema.Selector{Kind: schema.SelectAll}, utc())
	require.NoError(t, err)
	sel.FilterInfo = "tag excludes merge"

	first := Paginate(sel, 0, 2)
	assert.Equal(t, []string{"3", "2"}, shas(first.Commits))
	assert.True(t, first.HasMore)
	assert.Equal(t, 5, first.Total)
	assert.Equal(t, "tag excludes merge", first.FilterInfo)

	last := Paginate(sel, 4, 2)
	assert.Equal(t, []string{"4"}, shas(last.Commits))
	assert.False(t, last.HasMore)

	past := Paginate(sel, 99, 2)
	assert.Empty(t, past.Commits)
	assert.Equal(t, 5, past.Offset)

	def := Paginate(sel, -3, 0)
	assert.Equal(t, 0, def.Offset)
	assert.Equal(t, DefaultPageSize, def.Limit)
	assert.Len(t, def.Commits, 5)
}

func TestParseSelector(t *testing.T) {
	sel, err := ParseSelector("Tag=feature")
	require.NoError(t, err)
	assert.Equal(t, schema.Selector{Kind: schema.SelectTag, Value: "feature"}, sel)

	sel, err = ParseSelector("all")
	require.NoError(t, err)
	assert.Equal(t, schema.SelectAll, sel.Kind)

	_, err = ParseSelector(" ")
	assert.ErrorIs(t, err, ErrUnknownSelector)
}
