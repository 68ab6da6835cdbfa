package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// PrintDashboard outputs the dashboard in the configured format.
func PrintDashboard(d schema.Dashboard, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return printer(cfg,
		func(w io.Writer) error { return writeDashboardTable(w, d, cfg, fmtFloat, duration) },
		func(w io.Writer) error { return writeDashboardCSV(w, d) },
		func(w io.Writer) error { return writeJSON(w, d) },
	)
}

// dashboardBreakdowns lists the categorical breakdowns in display order.
func dashboardBreakdowns(d schema.Dashboard) []schema.Breakdown {
	return []schema.Breakdown{d.Tags, d.Impact, d.Risk, d.Debt, d.Semver, d.Complexity, d.Epic}
}

func writeDashboardTable(w io.Writer, d schema.Dashboard, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Dashboard (%s view): %s of %s commits, %s\n",
		d.Level.Level, humanize.Comma(int64(d.FilteredCommits)), humanize.Comma(int64(d.TotalCommits)), d.FilterInfo); err != nil {
		return err
	}

	cards := newTable(w, "Metric", "Value", "Detail")
	rows := make([][]string, 0, len(d.Cards))
	for _, c := range d.Cards {
		rows = append(rows, []string{c.Title, c.Value, c.Sub})
	}
	if err := renderTable(cards, rows); err != nil {
		return err
	}

	if err := writeContributorTable(w, d, cfg, fmtFloat); err != nil {
		return err
	}

	urgency := newTable(w, "Urgency", "Commits", "Share")
	rated := d.Urgency.Rated()
	rows = rows[:0]
	for _, b := range schema.UrgencyBuckets {
		n := d.Urgency.Count(b)
		rows = append(rows, []string{urgencyLabel(cfg, b), strconv.Itoa(n), agg.Percent(n, rated)})
	}
	rows = append(rows, []string{"unset", strconv.Itoa(d.Urgency.Unset), "-"})
	if err := renderTable(urgency, rows); err != nil {
		return err
	}

	breakdowns := newTable(w, "Breakdown", "Label", "Commits", "Share")
	rows = rows[:0]
	for _, bd := range dashboardBreakdowns(d) {
		for _, it := range bd.Items {
			if it.Count == 0 {
				continue
			}
			label := it.Label
			if bd.Name == agg.RiskBreakdownName && cfg.UseColors {
				label = contract.GetColorRisk(label)
			}
			rows = append(rows, []string{bd.Name, label, strconv.Itoa(it.Count), agg.Percent(it.Count, bd.Total)})
		}
	}
	if len(rows) > 0 {
		if err := renderTable(breakdowns, rows); err != nil {
			return err
		}
	}

	if d.UrgencyTrend != nil || d.ComplexityTrend != nil {
		if err := writeTrendTable(w, d, fmtFloat); err != nil {
			return err
		}
	}
	return writeFooter(w, cfg, duration)
}

func writeContributorTable(w io.Writer, d schema.Dashboard, cfg *contract.Config, fmtFloat func(float64) string) error {
	if len(d.Contributors) == 0 {
		return nil
	}
	nameWidth := getMaxTableTextWidth(cfg, 60)
	table := newTable(w, "#", "Contributor", "Commits", "+Lines", "-Lines", "Avg Cx", "Top Tags")
	rows := make([][]string, 0, len(d.Contributors))
	for i, g := range d.Contributors {
		avg := agg.Placeholder
		if v, ok := g.AverageComplexity(); ok {
			avg = fmtFloat(v)
		}
		tags := make([]string, 0, agg.TopTagsLimit)
		for _, tc := range g.TopTags(agg.TopTagsLimit) {
			tags = append(tags, fmt.Sprintf("%s(%d)", tc.Tag, tc.Count))
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(groupLabel(g), nameWidth),
			humanize.Comma(int64(g.Count)),
			humanize.Comma(int64(g.Additions)),
			humanize.Comma(int64(g.Deletions)),
			avg,
			strings.Join(tags, " "),
		})
	}
	return renderTable(table, rows)
}

func writeTrendTable(w io.Writer, d schema.Dashboard, fmtFloat func(float64) string) error {
	months := make(map[string][2]string)
	var order []string
	add := func(series *schema.AverageSeries, col int) {
		if series == nil {
			return
		}
		for _, p := range series.Points {
			cell, seen := months[p.Month]
			if !seen {
				order = append(order, p.Month)
				cell = [2]string{agg.Placeholder, agg.Placeholder}
			}
			cell[col] = fmtFloat(p.Average)
			months[p.Month] = cell
		}
	}
	add(d.UrgencyTrend, 0)
	add(d.ComplexityTrend, 1)
	slices.Sort(order)

	table := newTable(w, "Month", "Avg Urgency", "Avg Complexity")
	rows := make([][]string, 0, len(order))
	for _, m := range order {
		rows = append(rows, []string{m, months[m][0], months[m][1]})
	}
	return renderTable(table, rows)
}

// writeDashboardCSV flattens the dashboard into section,key,label,value rows.
func writeDashboardCSV(w io.Writer, d schema.Dashboard) error {
	return writeCSVWithHeader(w, []string{"section", "key", "label", "value"}, func(cw *csv.Writer) error {
		var rows [][]string
		rows = append(rows,
			[]string{"summary", "level", "", string(d.Level.Level)},
			[]string{"summary", "filter", "", d.FilterInfo},
			[]string{"summary", "total_commits", "", strconv.Itoa(d.TotalCommits)},
			[]string{"summary", "filtered_commits", "", strconv.Itoa(d.FilteredCommits)},
		)
		for _, c := range d.Cards {
			rows = append(rows, []string{"card", c.Key, c.Title, c.Value})
		}
		for _, g := range d.Contributors {
			rows = append(rows, []string{"contributor", g.Key, groupLabel(g), strconv.Itoa(g.Count)})
		}
		for _, b := range schema.UrgencyBuckets {
			rows = append(rows, []string{"urgency", string(b), string(b), strconv.Itoa(d.Urgency.Count(b))})
		}
		rows = append(rows, []string{"urgency", "unset", "unset", strconv.Itoa(d.Urgency.Unset)})
		for _, bd := range dashboardBreakdowns(d) {
			for _, it := range bd.Items {
				rows = append(rows, []string{bd.Name, it.Label, it.Label, strconv.Itoa(it.Count)})
			}
		}
		for _, b := range d.Timeline {
			rows = append(rows, []string{"timeline", b.Key, b.Start.Format(schema.DateLayout), strconv.Itoa(b.Count)})
		}
		return cw.WriteAll(rows)
	})
}
