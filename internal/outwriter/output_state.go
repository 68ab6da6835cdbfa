package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/core/filter"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// PrintFilter outputs the per-dimension filter state.
func PrintFilter(spec schema.FilterSpec, cfg *contract.Config) error {
	return printer(cfg,
		func(w io.Writer) error { return writeFilterTable(w, spec) },
		func(w io.Writer) error { return writeFilterCSV(w, spec) },
		func(w io.Writer) error { return writeJSON(w, spec) },
	)
}

func writeFilterTable(w io.Writer, spec schema.FilterSpec) error {
	if _, err := fmt.Fprintf(w, "Filter: %s\n", filter.Describe(spec)); err != nil {
		return err
	}
	table := newTable(w, "Dimension", "Mode", "Values")
	rows := make([][]string, 0, len(schema.AllDimensions)+2)
	for _, d := range schema.AllDimensions {
		dim := spec.Dimension(d)
		values := strings.Join(dim.Values, ", ")
		if !dim.Active() {
			values = "(any)"
		}
		rows = append(rows, []string{string(d), string(dim.Mode), values})
	}
	rows = append(rows,
		[]string{"from", "", dateOrAny(spec.DateFrom)},
		[]string{"to", "", dateOrAny(spec.DateTo)},
	)
	return renderTable(table, rows)
}

func dateOrAny(d string) string {
	if d == "" {
		return "(any)"
	}
	return d
}

func writeFilterCSV(w io.Writer, spec schema.FilterSpec) error {
	return writeCSVWithHeader(w, []string{"dimension", "mode", "values"}, func(cw *csv.Writer) error {
		for _, d := range schema.AllDimensions {
			dim := spec.Dimension(d)
			if err := cw.Write([]string{string(d), string(dim.Mode), strings.Join(dim.Values, "|")}); err != nil {
				return err
			}
		}
		if err := cw.Write([]string{"from", "", spec.DateFrom}); err != nil {
			return err
		}
		return cw.Write([]string{"to", "", spec.DateTo})
	})
}

// settingRow is one line of the settings listing.
type settingRow struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func settingRows(level schema.ViewConfig, s field.Settings) []settingRow {
	zone := "local"
	if s.UseUTC {
		zone = "UTC"
	}
	holidays := "none"
	if s.IsHoliday != nil {
		holidays = "configured"
	}
	return []settingRow{
		{"view_level", string(level.Level)},
		{"contributors", string(level.Contributors)},
		{"timing", string(level.Timing)},
		{"drilldown", string(level.Drilldown)},
		{"timezone", zone},
		{"work_hours", fmt.Sprintf("%02d:00-%02d:00", s.WorkHourStart, s.WorkHourEnd)},
		{"privacy", contract.FormatBool(s.PrivacyMode)},
		{"holidays", holidays},
	}
}

// PrintSettings outputs the active level and time settings.
func PrintSettings(level schema.ViewConfig, s field.Settings, cfg *contract.Config) error {
	rows := settingRows(level, s)
	return printer(cfg,
		func(w io.Writer) error {
			table := newTable(w, "Setting", "Value")
			data := make([][]string, 0, len(rows))
			for _, r := range rows {
				data = append(data, []string{r.Name, r.Value})
			}
			return renderTable(table, data)
		},
		func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"setting", "value"}, func(cw *csv.Writer) error {
				for _, r := range rows {
					if err := cw.Write([]string{r.Name, r.Value}); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func(w io.Writer) error { return writeJSON(w, rows) },
	)
}

// PrintLevels lists the view levels, marking the current one.
func PrintLevels(levels []schema.ViewConfig, current schema.ViewLevel, cfg *contract.Config) error {
	return printer(cfg,
		func(w io.Writer) error {
			table := newTable(w, "", "Level", "Contributors", "Timing", "Drilldown")
			data := make([][]string, 0, len(levels))
			for _, l := range levels {
				mark := ""
				if l.Level == current {
					mark = "*"
				}
				data = append(data, []string{mark, string(l.Level), string(l.Contributors), string(l.Timing), string(l.Drilldown)})
			}
			return renderTable(table, data)
		},
		func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"level", "contributors", "timing", "drilldown", "current"}, func(cw *csv.Writer) error {
				for _, l := range levels {
					rec := []string{string(l.Level), string(l.Contributors), string(l.Timing), string(l.Drilldown), contract.FormatBool(l.Level == current)}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func(w io.Writer) error { return writeJSON(w, levels) },
	)
}

// PrintStateStatus outputs state store statistics.
func PrintStateStatus(status schema.StateStatus, cfg *contract.Config) error {
	return printer(cfg,
		func(w io.Writer) error { return writeStateStatus(w, status) },
		func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"backend", "connected", "total_entries", "keys", "last_entry", "table_size_bytes"}, func(cw *csv.Writer) error {
				last := ""
				if !status.LastEntryTime.IsZero() {
					last = status.LastEntryTime.Format(contract.DateTimeFormat)
				}
				return cw.Write([]string{
					status.Backend,
					contract.FormatBool(status.Connected),
					fmt.Sprint(status.TotalEntries),
					strings.Join(status.Keys, "|"),
					last,
					fmt.Sprint(status.TableSizeBytes),
				})
			})
		},
		func(w io.Writer) error { return writeJSON(w, status) },
	)
}

func writeStateStatus(w io.Writer, status schema.StateStatus) error {
	lines := []string{
		"State Backend: " + status.Backend,
		fmt.Sprintf("Connected: %t", status.Connected),
	}
	if status.Connected {
		lines = append(lines, fmt.Sprintf("Total Entries: %d", status.TotalEntries))
		if status.TotalEntries > 0 {
			lines = append(lines,
				"Keys: "+strings.Join(status.Keys, ", "),
				fmt.Sprintf("Last Entry: %s (%s)", status.LastEntryTime.Format(contract.DateTimeFormat), humanize.Time(status.LastEntryTime)),
			)
		}
		lines = append(lines, "Table Size: "+humanize.Bytes(uint64(max(status.TableSizeBytes, 0))))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
