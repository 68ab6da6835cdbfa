package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitUnmarshal(t *testing.T) {
	raw := `{
		"sha": "abc",
		"timestamp": "2024-01-01T09:00:00Z",
		"author": {"name": "Jane Doe", "email": "Jane@Example.com"},
		"repo_id": "api",
		"tags": ["feature", "api"],
		"complexity": 3,
		"urgency": "4",
		"impact": "api",
		"stats": {"additions": 10, "deletions": "2"},
		"files": ["a.go", "b.go"]
	}`

	var c Commit
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, "abc", c.SHA)
	assert.Equal(t, Author{Name: "Jane Doe", Email: "Jane@Example.com"}, c.Author)
	assert.Equal(t, NewRating(3), c.Complexity)
	assert.Equal(t, NewRating(4), c.Urgency)
	assert.Equal(t, Stats{Additions: 10, Deletions: 2}, c.Stats)
	assert.Len(t, c.Files, 2)
}

func TestAuthorUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want Author
	}{
		{`"Jane Doe <jane@example.com>"`, Author{Name: "Jane Doe", Email: "jane@example.com"}}, // legacy string
		{`"jane@example.com"`, Author{Email: "jane@example.com"}},                              // bare email
		{`"Jane"`, Author{Name: "Jane"}},                                                       // bare name
		{`{"name":"J","email":"j@x.io"}`, Author{Name: "J", Email: "j@x.io"}},                  // object
		{`null`, Author{}},                                                                     // null
		{`42`, Author{}},                                                                       // wrong type
		{`["jane"]`, Author{}},                                                                 // wrong type
		{`{"name":7,"email":"j@x.io"}`, Author{Email: "j@x.io"}},                               // wrong field type
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var a Author
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &a))
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestCommitUnmarshalWrongTypes(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, c Commit)
	}{
		{"tags string", `{"sha":"a","tags":"feature"}`, func(t *testing.T, c Commit) { assert.Nil(t, c.Tags) }},
		{"tags mixed", `{"sha":"a","tags":["feature",3,null,"api"]}`, func(t *testing.T, c Commit) {
			assert.Equal(t, []string{"feature", "api"}, c.Tags)
		}},
		{"timestamp number", `{"sha":"a","timestamp":1704099600}`, func(t *testing.T, c Commit) { assert.Empty(t, c.Timestamp) }},
		{"repo number", `{"sha":"a","repo_id":12}`, func(t *testing.T, c Commit) { assert.Empty(t, c.RepoID) }},
		{"author number", `{"sha":"a","author":5}`, func(t *testing.T, c Commit) { assert.Equal(t, Author{}, c.Author) }},
		{"categories", `{"sha":"a","impact":true,"risk":["high"],"debt":{},"semver":1,"epic":null,"tag":false}`, func(t *testing.T, c Commit) {
			assert.Empty(t, c.Impact)
			assert.Empty(t, c.Risk)
			assert.Empty(t, c.Debt)
			assert.Empty(t, c.Semver)
			assert.Empty(t, c.Epic)
			assert.Empty(t, c.Tag)
		}},
		{"others kept", `{"sha":"a","tags":7,"repo_id":"api","urgency":2}`, func(t *testing.T, c Commit) {
			assert.Equal(t, "a", c.SHA)
			assert.Equal(t, "api", c.RepoID)
			assert.Equal(t, NewRating(2), c.Urgency)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Commit
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &c))
			tt.check(t, c)
		})
	}

	var c Commit
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &c), "a commit must still be an object")
}

func TestRatingUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want Rating
	}{
		{`1`, NewRating(1)},
		{`5`, NewRating(5)},
		{`"3"`, NewRating(3)},
		{`0`, Rating{}},        // below range
		{`6`, Rating{}},        // above range
		{`2.5`, Rating{}},      // fractional
		{`"high"`, Rating{}},   // non-numeric
		{`null`, Rating{}},     // explicit null
		{`[1]`, Rating{}},      // wrong shape
		{`{"v":1}`, Rating{}},  // wrong shape
		{`-3`, Rating{}},       // negative
		{`" 2 "`, NewRating(2)}, // padded string
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var r Rating
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &r))
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestRatingMarshal(t *testing.T) {
	c := Commit{SHA: "a", Urgency: NewRating(2)}
	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sha":"a","urgency":2}`, string(b))
}

func TestStatsUnmarshal(t *testing.T) {
	var s Stats
	require.NoError(t, json.Unmarshal([]byte(`{"additions":-5,"deletions":"x","files_changed":3}`), &s))
	assert.Equal(t, Stats{FilesChanged: 3}, s)

	require.NoError(t, json.Unmarshal([]byte(`"broken"`), &s))
	assert.Equal(t, Stats{}, s)
}

func TestMetadata(t *testing.T) {
	var ds Dataset
	raw := `{"commits":[],"metadata":{"repo_name":["a","b"],"generated_at":"2024-01-01","total_commits":7}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &ds))

	assert.Equal(t, []string{"a", "b"}, ds.Metadata.RepoNames())
	assert.Equal(t, "2024-01-01", ds.Metadata.GeneratedAt())
	assert.Equal(t, 7, ds.Metadata.TotalCommits())

	assert.Equal(t, []string{"x"}, Metadata{MetaRepoName: "x"}.RepoNames())
	assert.Nil(t, Metadata{}.RepoNames())
	assert.Equal(t, 3, Metadata{MetaTotalCommits: 3}.TotalCommits())
}

func TestFilterSpec(t *testing.T) {
	spec := DefaultFilterSpec()
	assert.True(t, spec.Tag.Active())
	assert.True(t, spec.Tag.Has(TagMerge))
	assert.Equal(t, ExcludeMode, spec.Tag.Mode)
	assert.False(t, spec.Author.Active())
	assert.False(t, spec.HasDateRange())
	assert.Nil(t, spec.Dimension("nope"))

	clone := spec.Clone()
	clone.Tag.Values[0] = "changed"
	assert.Equal(t, TagMerge, spec.Tag.Values[0])
}

func TestContributorGroupTopTags(t *testing.T) {
	g := ContributorGroup{Tags: []TagCount{
		{"a", 1}, {"b", 3}, {"c", 1}, {"d", 3}, {"e", 2}, {"f", 1},
	}}

	assert.Equal(t, []TagCount{{"b", 3}, {"d", 3}, {"e", 2}, {"a", 1}, {"c", 1}}, g.TopTags(5))
	assert.Equal(t, []TagCount{}, ContributorGroup{}.TopTags(5))

	avg, ok := ContributorGroup{Complexities: []int{1, 2}}.AverageComplexity()
	assert.True(t, ok)
	assert.InDelta(t, 1.5, avg, 1e-9)
	_, ok = ContributorGroup{}.AverageComplexity()
	assert.False(t, ok)
}

func TestBreakdownCounts(t *testing.T) {
	u := UrgencyBreakdown{Planned: 1, Reactive: 2, Unset: 4}
	assert.Equal(t, 3, u.Rated())
	assert.Equal(t, 2, u.Count(UrgencyReactive))
	assert.Equal(t, 0, u.Count("other"))

	b := Breakdown{Items: []LabelCount{{"low", 2}}}
	assert.Equal(t, 2, b.Count("low"))
	assert.Equal(t, 0, b.Count("high"))
}
