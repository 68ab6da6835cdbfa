package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// PrintTimeline outputs the timeline buckets of the dashboard.
func PrintTimeline(d schema.Dashboard, cfg *contract.Config, duration time.Duration) error {
	return printer(cfg,
		func(w io.Writer) error { return writeTimelineTable(w, d, cfg, duration) },
		func(w io.Writer) error { return writeTimelineCSV(w, d.Timeline) },
		func(w io.Writer) error {
			return writeJSON(w, struct {
				Level      schema.ViewConfig   `json:"view"`
				FilterInfo string              `json:"filter_info"`
				Buckets    []schema.TimeBucket `json:"buckets"`
			}{d.Level, d.FilterInfo, d.Timeline})
		},
	)
}

// PrintHeatmap outputs the activity grid of the dashboard.
func PrintHeatmap(d schema.Dashboard, cfg *contract.Config, duration time.Duration) error {
	return printer(cfg,
		func(w io.Writer) error { return writeGridTable(w, d, cfg, duration) },
		func(w io.Writer) error { return writeGridCSV(w, d.Grid) },
		func(w io.Writer) error {
			return writeJSON(w, struct {
				Level      schema.ViewConfig   `json:"view"`
				FilterInfo string              `json:"filter_info"`
				Grid       schema.ActivityGrid `json:"grid"`
				Heatmap    schema.Heatmap      `json:"heatmap"`
			}{d.Level, d.FilterInfo, d.Grid, d.Heatmap})
		},
	)
}

// bucketTopTags lists the n most frequent tags of a bucket, ties by name.
func bucketTopTags(b schema.TimeBucket, n int) []string {
	g := schema.ContributorGroup{Tags: make([]schema.TagCount, 0, len(b.Tags))}
	for _, tag := range sortedTagNames(b.Tags) {
		g.Tags = append(g.Tags, schema.TagCount{Tag: tag, Count: b.Tags[tag]})
	}
	out := make([]string, 0, n)
	for _, tc := range g.TopTags(n) {
		out = append(out, fmt.Sprintf("%s(%d)", tc.Tag, tc.Count))
	}
	return out
}

func writeTimelineTable(w io.Writer, d schema.Dashboard, cfg *contract.Config, duration time.Duration) error {
	period := "Day"
	if d.Level.Timing == schema.TimingWeek {
		period = "Week of"
	}
	if _, err := fmt.Fprintf(w, "Timeline (%s view): %s\n", d.Level.Level, d.FilterInfo); err != nil {
		return err
	}

	reposWidth := getMaxTableTextWidth(cfg, 50)
	table := newTable(w, period, "Commits", "Repos", "Top Tags")
	rows := make([][]string, 0, len(d.Timeline))
	for _, b := range d.Timeline {
		rows = append(rows, []string{
			b.Key,
			strconv.Itoa(b.Count),
			contract.TruncateText(strings.Join(b.Repos, ", "), reposWidth),
			strings.Join(bucketTopTags(b, 3), " "),
		})
	}
	if err := renderTable(table, rows); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

func writeTimelineCSV(w io.Writer, buckets []schema.TimeBucket) error {
	return writeCSVWithHeader(w, []string{"key", "start", "commits", "repos", "tags"}, func(cw *csv.Writer) error {
		for _, b := range buckets {
			tags := make([]string, 0, len(b.Tags))
			for _, tag := range sortedTagNames(b.Tags) {
				tags = append(tags, fmt.Sprintf("%s:%d", tag, b.Tags[tag]))
			}
			rec := []string{
				b.Key,
				b.Start.Format(time.RFC3339),
				strconv.Itoa(b.Count),
				strings.Join(b.Repos, "|"),
				strings.Join(tags, "|"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeGridTable(w io.Writer, d schema.Dashboard, cfg *contract.Config, duration time.Duration) error {
	grid := d.Grid
	if _, err := fmt.Fprintf(w, "Activity by %s (%s view): %s\n", grid.Timing, d.Level.Level, d.FilterInfo); err != nil {
		return err
	}

	var table *tablewriter.Table
	var rows [][]string
	switch grid.Timing {
	case schema.TimingHour:
		header := []string{"Hour"}
		for day := range schema.DaysPerWeek {
			header = append(header, agg.ShortWeekday(day))
		}
		table = newTable(w, header...)
		for h, cells := range grid.Rows {
			row := []string{fmt.Sprintf("%02d:00", h)}
			for _, c := range cells {
				row = append(row, intensityCell(cfg, c.Level, c.Count))
			}
			rows = append(rows, row)
		}
	default:
		label := "Day"
		if grid.Timing == schema.TimingWeek {
			label = "Week of"
		}
		table = newTable(w, label, "Activity")
		for _, cells := range grid.Rows {
			for _, c := range cells {
				rows = append(rows, []string{c.Label, intensityCell(cfg, c.Level, c.Count)})
			}
		}
	}
	if err := renderTable(table, rows); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, legend()); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

func writeGridCSV(w io.Writer, grid schema.ActivityGrid) error {
	return writeCSVWithHeader(w, []string{"timing", "key", "label", "count", "level"}, func(cw *csv.Writer) error {
		for _, cells := range grid.Rows {
			for _, c := range cells {
				rec := []string{string(grid.Timing), c.Key, c.Label, strconv.Itoa(c.Count), strconv.Itoa(c.Level)}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
