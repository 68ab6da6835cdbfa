//go:build basic

// Package integration contains integration tests for gitpulse.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/gitpulse/schema"
)

var noState = []string{"GITPULSE_STATE_BACKEND=none"}

// TestDashboardScenario runs the CLI over the fixture and checks the headline numbers.
func TestDashboardScenario(t *testing.T) {
	out, err := runCommand(t, noState, "dashboard", "--data", scenarioPath, "--utc", "yes", "--output", "json")
	require.NoError(t, err)

	var d schema.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, 3, d.TotalCommits)
	assert.Equal(t, 2, d.FilteredCommits)
	assert.Equal(t, 1, d.Heatmap.Matrix[9][1])
	assert.Equal(t, 1, d.Heatmap.Matrix[22][1])
	assert.Equal(t, "tag excludes merge", d.FilterInfo)
}

// TestDetailMatchesTimeline opens every timeline bucket and compares the counts.
func TestDetailMatchesTimeline(t *testing.T) {
	out, err := runCommand(t, noState, "timeline", "--data", scenarioPath, "--utc", "yes", "--level", "executive", "--output", "json")
	require.NoError(t, err)

	var timeline struct {
		Buckets []schema.TimeBucket `json:"buckets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &timeline))
	require.NotEmpty(t, timeline.Buckets)

	for _, b := range timeline.Buckets {
		t.Run(b.Key, func(t *testing.T) {
			out, err := runCommand(t, noState, "detail", "week="+b.Key, "--data", scenarioPath, "--utc", "yes", "--output", "json")
			require.NoError(t, err)
			var page schema.DetailPage
			require.NoError(t, json.Unmarshal([]byte(out), &page))
			assert.Equal(t, b.Count, page.Total)
		})
	}
}

// TestFilterOverride checks that filter flags replace the default per dimension.
func TestFilterOverride(t *testing.T) {
	out, err := runCommand(t, noState, "dashboard", "--data", scenarioPath, "--exclude-tag", "bugfix", "--output", "json")
	require.NoError(t, err)

	var d schema.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, 2, d.FilteredCommits, "merge is visible again once the tag dimension is replaced")
}

func TestVersion(t *testing.T) {
	out, err := runCommand(t, noState, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gitpulse CLI")
	assert.Contains(t, out, "Levels:   executive, management, developer")
	assert.Contains(t, out, "Backends: mysql, none, postgresql, sqlite")
}
