package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/core/detail"
	"github.com/huangsam/gitpulse/internal/contract"
)

// runExecutor adapts a core executor into a cobra Run function.
func runExecutor(name string, fn core.ExecutorFunc) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := fn(cfg, session); err != nil {
			contract.LogFatal("Cannot run "+name, err)
		}
	}
}

// dashboardCmd prints every view of the current level.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show metric cards, contributors and breakdowns for the loaded commits.",
	Long: `Summarize the filtered commits at the current view level.

The executive level groups everyone together and buckets by week, management
groups by repository and buckets by day, and developer lists individual
authors with an hour-by-weekday heatmap.

Examples:
  # Developer dashboard for one export
  gitpulse dashboard --data commits.json

  # Executive view over two repositories in UTC
  gitpulse dashboard --data api.json,web.json --level executive --utc yes

  # Render the charts as a standalone HTML page
  gitpulse dashboard --data commits.json --output html --output-file pulse.html`,
	PreRunE:  requireData,
	Run:      runExecutor("dashboard", core.ExecuteDashboard),
	PostRunE: persistSession,
}

// timelineCmd prints commits per week or day.
var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show commit counts per week or day, most recent first.",
	Long: `List the activity timeline of the filtered commits.

Executive views bucket by Monday-start week; other levels bucket by day.

Examples:
  gitpulse timeline --data commits.json --level executive
  gitpulse timeline --data commits.json --output csv --output-file timeline.csv`,
	PreRunE:  requireData,
	Run:      runExecutor("timeline", core.ExecuteTimeline),
	PostRunE: persistSession,
}

// heatmapCmd prints the activity grid.
var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show when commits happen as a shaded grid.",
	Long: `Print the activity grid for the current level.

Developer views show hour by weekday, management views show weekday totals and
executive views show weekly totals. Cells are shaded on a five-step scale.

Examples:
  gitpulse heatmap --data commits.json --work-start 9 --work-end 18
  gitpulse heatmap --data commits.json --output json`,
	PreRunE:  requireData,
	Run:      runExecutor("heatmap", core.ExecuteHeatmap),
	PostRunE: persistSession,
}

// detailCmd lists the commits behind one dashboard element.
var detailCmd = &cobra.Command{
	Use:   "detail <kind[=value]>",
	Short: "List the commits behind a dashboard element.",
	Long: `Open the detail pane for one element of the dashboard.

Selectors:
  all, tag=<tag>, urgency=<planned|normal|reactive|1-5>, author=<email>,
  repo=<id>, group=<key>, week=<YYYY-MM-DD>, day=<YYYY-MM-DD>, month=<YYYY-MM>,
  hour-cell=<hour:weekday>, weekday=<name|0-6>, risk=, debt=, impact=, semver=,
  epic=, complexity=<1-5>

The listed commits always match the count shown by the element under the
same filter.

Examples:
  gitpulse detail tag=bugfix --data commits.json
  gitpulse detail hour-cell=22:1 --data commits.json --utc yes
  gitpulse detail all --data commits.json --limit 20 --offset 40`,
	Args:    cobra.ExactArgs(1),
	PreRunE: requireData,
	Run: func(_ *cobra.Command, args []string) {
		sel, err := detail.ParseSelector(args[0])
		if err != nil {
			contract.LogFatal("Invalid selector", err)
		}
		if err := core.ExecuteDetail(cfg, session, sel); err != nil {
			contract.LogFatal("Cannot run detail", err)
		}
	},
	PostRunE: persistSession,
}

// exportCmd writes the filtered commits.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered commits as csv, json or parquet.",
	Long: `Write every commit passing the current filter.

Parquet output also writes the timeline next to the commit file, e.g.
commits.parquet and commits_timeline.parquet.

Examples:
  gitpulse export --data commits.json --output csv --output-file commits.csv
  gitpulse export --data commits.json --privacy --output parquet --output-file commits.parquet`,
	PreRunE:  requireData,
	Run:      runExecutor("export", core.ExecuteExport),
	PostRunE: persistSession,
}
