package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/gitpulse/schema"
)

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantCount int
	}{
		{name: "empty commits", input: `{"commits": []}`, wantCount: 0},
		{name: "no metadata", input: `{"commits": [{"sha": "1"}]}`, wantCount: 1},
		{name: "missing commits", input: `{"metadata": {}}`, wantErr: true},
		{name: "null commits", input: `{"commits": null}`, wantErr: true},
		{name: "not json", input: `commits: []`, wantErr: true},
		{name: "array document", input: `[{"sha": "1"}]`, wantErr: true},
		{name: "commit not an object", input: `{"commits": ["abc"]}`, wantErr: true},
		{name: "trailing document", input: `{"commits": []} {"bogus"`, wantErr: true},
		{name: "trailing value", input: `{"commits": []} []`, wantErr: true},
		{name: "trailing whitespace", input: "{\"commits\": []}\n\n", wantCount: 0},
		{name: "metadata wrong type", input: `{"commits": [{"sha": "1"}], "metadata": 5}`, wantCount: 1},
		{name: "wrong-typed fields", input: `{"commits": [
			{"sha": "a", "tags": "feature"},
			{"sha": "b", "tags": ["bugfix"], "timestamp": 1704099600},
			{"sha": "c", "repo_id": 7, "author": 5, "impact": ["api"]}
		]}`, wantCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedDataset)
				return
			}
			require.NoError(t, err)
			assert.Len(t, ds.Commits, tt.wantCount)
			assert.NotNil(t, ds.Metadata)
		})
	}
}

func TestParseKeepsUsableFields(t *testing.T) {
	ds, err := Parse(strings.NewReader(`{"commits": [
		{"sha": "a", "tags": "feature", "repo_id": "api", "urgency": 4},
		{"sha": "b", "tags": ["bugfix", 3], "timestamp": 5, "author": {"name": 1, "email": "bob@example.com"}}
	]}`))
	require.NoError(t, err)
	require.Len(t, ds.Commits, 2)

	assert.Empty(t, ds.Commits[0].Tags)
	assert.Equal(t, "api", ds.Commits[0].RepoID)
	assert.Equal(t, schema.NewRating(4), ds.Commits[0].Urgency)

	assert.Equal(t, []string{"bugfix"}, ds.Commits[1].Tags)
	assert.Empty(t, ds.Commits[1].Timestamp)
	assert.Equal(t, schema.Author{Email: "bob@example.com"}, ds.Commits[1].Author)
}

func TestLoadFile(t *testing.T) {
	ds, err := LoadFile(fixture("api.json"))
	require.NoError(t, err)
	require.Len(t, ds.Commits, 2)

	assert.Equal(t, schema.Author{Name: "Bob", Email: "bob@example.com"}, ds.Commits[1].Author)
	assert.Equal(t, schema.NewRating(5), ds.Commits[1].Urgency)
	assert.Equal(t, 40, ds.Commits[0].Stats.Additions)
	assert.Equal(t, []string{"api"}, ds.Metadata.RepoNames())
	assert.Equal(t, "2024-01-05T00:00:00Z", ds.Metadata.GeneratedAt())
}

func TestLoadFileErrorsNameTheFile(t *testing.T) {
	for _, name := range []string{"no_commits.json", "truncated.json"} {
		_, err := LoadFile(fixture(name))
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrMalformedDataset, name)
		assert.Contains(t, err.Error(), name)
	}

	_, err := LoadFile(fixture("missing.json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedDataset)
}

func TestLoadFilesMerges(t *testing.T) {
	ds, err := LoadFiles(fixture("api.json"), fixture("web.json"))
	require.NoError(t, err)

	shas := make([]string, len(ds.Commits))
	for i, c := range ds.Commits {
		shas[i] = c.SHA
	}
	assert.Equal(t, []string{"a1", "a2", "w1"}, shas, "commits keep upload order")
	assert.Equal(t, []string{"api", "web"}, ds.Metadata.RepoNames())
	assert.Equal(t, 3, ds.Metadata.TotalCommits())
	assert.Equal(t, "web-export", ds.Metadata["source"], "last write wins")
	assert.Equal(t, "2024-01-05T00:00:00Z", ds.Metadata.GeneratedAt(), "keys absent later are kept")
}

func TestLoadFilesIsAllOrNothing(t *testing.T) {
	ds, err := LoadFiles(fixture("api.json"), fixture("no_commits.json"))
	assert.ErrorIs(t, err, ErrMalformedDataset)
	assert.Empty(t, ds.Commits)

	_, err = LoadFiles()
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	a := schema.Dataset{Commits: []schema.Commit{{SHA: "1"}}, Metadata: schema.Metadata{"repo_name": "api", "owner": "a"}}
	b := schema.Dataset{Commits: []schema.Commit{{SHA: "2"}}, Metadata: schema.Metadata{"repo_name": "api", "owner": "b"}}

	merged := Merge(a, b)
	assert.Len(t, merged.Commits, 2)
	assert.Equal(t, "api", merged.Metadata[schema.MetaRepoName], "single name stays scalar")
	assert.Equal(t, "b", merged.Metadata["owner"])
	assert.Equal(t, 2, merged.Metadata.TotalCommits())
	assert.Equal(t, "a", a.Metadata["owner"], "inputs are not mutated")

	empty := Merge()
	assert.Empty(t, empty.Commits)
	assert.NotNil(t, empty.Commits)
	assert.Equal(t, 0, empty.Metadata.TotalCommits())
	_, hasName := empty.Metadata[schema.MetaRepoName]
	assert.False(t, hasName)
}
