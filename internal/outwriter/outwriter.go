// Package outwriter renders dashboards, timelines, heatmaps, commit lists and
// stored state as text tables, CSV or JSON.
package outwriter

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// Bounds of the free-text column in tables.
const (
	minTextWidth = 15
	maxTextWidth = 70
)

// terminalWidth returns the --width override, the detected terminal width or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80
	}
	return detected
}

// getMaxTableTextWidth is the room left for one free-text column after
// reserving fixed columns plus borders.
func getMaxTableTextWidth(cfg *contract.Config, reserved int) int {
	available := terminalWidth(cfg) - reserved - 20
	return min(max(available, minTextWidth), maxTextWidth)
}

// newTable creates a right-aligned table with the given header.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

// renderTable bulk-loads rows and renders.
func renderTable(table *tablewriter.Table, rows [][]string) error {
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// printer dispatches on the configured output format. HTML and parquet fall
// back to text here; they are produced elsewhere.
func printer(cfg *contract.Config, text, csvOut, jsonOut func(io.Writer) error) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, jsonOut, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, csvOut, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, text, "Wrote table")
	}
	return nil
}

// paint applies fn when colours are enabled.
func paint(cfg *contract.Config, fn func(a ...any) string, s string) string {
	if !cfg.UseColors {
		return s
	}
	return fn(s)
}

// intensityCell draws a heatmap level, with its count when non-zero.
func intensityCell(cfg *contract.Config, level, count int) string {
	level = min(max(level, 0), len(contract.IntensityGlyphs)-1)
	glyph := contract.IntensityGlyphs[level]
	if cfg.UseColors {
		glyph = contract.GetColorIntensity(level)
	}
	if count == 0 {
		return glyph
	}
	return fmt.Sprintf("%s %d", glyph, count)
}

// urgencyLabel colours an urgency band when colours are enabled.
func urgencyLabel(cfg *contract.Config, b schema.UrgencyBucket) string {
	if !cfg.UseColors {
		return string(b)
	}
	return contract.GetColorUrgency(b)
}

// legend is the intensity scale printed under heatmaps.
func legend() string {
	return "Less " + strings.Join(contract.IntensityGlyphs[:], " ") + " More"
}

// writeFooter prints the elapsed time and state backend.
func writeFooter(w io.Writer, cfg *contract.Config, duration time.Duration) error {
	_, err := fmt.Fprintf(w, "Completed in %v. State backend: %s\n", duration.Round(time.Microsecond), cfg.StateBackend)
	return err
}

// groupLabel is the display label of a contributor group.
func groupLabel(g schema.ContributorGroup) string {
	if g.Name != "" {
		return g.Name
	}
	return g.Key
}

// sortedTagNames returns the keys of a tag count map in name order.
func sortedTagNames(tags map[string]int) []string {
	return slices.Sorted(maps.Keys(tags))
}
