package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

func sampleDashboard() schema.Dashboard {
	s := field.DefaultSettings()
	s.UseUTC = true
	commits := []schema.Commit{
		{SHA: "a", Timestamp: "2024-01-01T09:00:00Z", Author: schema.Author{Name: "Ann", Email: "ann@x.io"},
			Tags: []string{"feature"}, Urgency: schema.NewRating(1), Complexity: schema.NewRating(2), Impact: "api"},
		{SHA: "b", Timestamp: "2024-02-01T22:00:00Z", Author: schema.Author{Name: "Bob", Email: "bob@x.io"},
			Tags: []string{"bugfix"}, Urgency: schema.NewRating(5), Risk: "high"},
	}
	level := schema.ViewConfig{Level: schema.DeveloperLevel, Contributors: schema.ContributorsIndividual, Timing: schema.TimingHour}
	return schema.Dashboard{
		Level:           level,
		FilterInfo:      "no filters",
		TotalCommits:    2,
		FilteredCommits: 2,
		Timeline:        agg.Timeline(commits, level, s),
		Heatmap:         agg.BuildHeatmap(commits, s),
		Contributors:    agg.Contributors(commits, level.Contributors, 0),
		Urgency:         agg.Urgency(commits),
		Tags:            agg.TagDistribution(commits),
		UrgencyTrend:    agg.UrgencyTrend(commits),
		ComplexityTrend: agg.ComplexityTrend(commits),
		ImpactTrend:     agg.ImpactTrend(commits),
		RiskTrend:       agg.RiskTrend(commits),
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleDashboard()))
	html := buf.String()

	assert.Contains(t, html, "gitpulse: developer view")
	assert.Contains(t, html, "Activity by Hour")
	assert.Contains(t, html, "Commits per Day")
	assert.Contains(t, html, "Monthly Averages")
	assert.Contains(t, html, "#216e39")
	assert.Contains(t, html, "Ann")
}

func TestChartsSkipMissingTrends(t *testing.T) {
	d := sampleDashboard()
	assert.Len(t, Charts(d), 5+1+2)

	d.UrgencyTrend, d.ComplexityTrend, d.ImpactTrend, d.RiskTrend = nil, nil, nil, nil
	assert.Len(t, Charts(d), 5)
}

func TestRenderEmptyDashboard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, schema.Dashboard{Level: schema.ViewConfig{Level: schema.ExecutiveLevel, Timing: schema.TimingWeek}}))
	assert.Contains(t, buf.String(), "Commits per Week")
}

func TestAverageLineAlignsMonths(t *testing.T) {
	series := &schema.AverageSeries{Name: "urgency", Points: []schema.AveragePoint{{Month: "2024-02", Average: 5, Count: 1}}}
	line := averageLine(series, []string{"2024-01", "2024-02"})
	require.Len(t, line, 2)
	assert.Nil(t, line[0].Value)
	assert.Equal(t, 5.0, line[1].Value)
}

func TestWriteDashboardFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, WriteDashboardFile(sampleDashboard(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<html")

	assert.Error(t, WriteDashboardFile(sampleDashboard(), filepath.Join(t.TempDir(), "no", "such", "dir.html")))
}
