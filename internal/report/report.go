// Package report renders a dashboard as a standalone HTML page of charts.
package report

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// DefaultFileName is used when HTML output has no --output-file.
const DefaultFileName = "gitpulse.html"

// Palette shades intensity levels 0 through 4.
var Palette = []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"}

// Urgency band colours.
var urgencyColors = map[schema.UrgencyBucket]string{
	schema.UrgencyPlanned:  "#40c463",
	schema.UrgencyNormal:   "#f1c40f",
	schema.UrgencyReactive: "#e74c3c",
}

const (
	chartWidth  = "100%"
	chartHeight = "420px"
	gridHeight  = "640px"
)

// WriteDashboardFile renders d into path, or DefaultFileName when path is empty.
func WriteDashboardFile(d schema.Dashboard, path string) error {
	if path == "" {
		path = DefaultFileName
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := Render(f, d); err != nil {
		return err
	}
	contract.Logger().WithField("file", path).Info("Wrote HTML report")
	return nil
}

// Render writes every chart of d to w as one HTML page.
func Render(w io.Writer, d schema.Dashboard) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("gitpulse: %s view", d.Level.Level)
	page.AddCharts(Charts(d)...)
	return page.Render(w)
}

// Charts builds the dashboard charts in display order. Trend charts are
// only included when the dashboard has trend data.
func Charts(d schema.Dashboard) []components.Charter {
	out := []components.Charter{
		activityChart(d),
		timelineChart(d),
		contributorChart(d),
		urgencyChart(d),
		tagChart(d),
	}
	if d.UrgencyTrend != nil || d.ComplexityTrend != nil {
		out = append(out, averageTrendChart(d))
	}
	for _, series := range []*schema.StackedSeries{d.ImpactTrend, d.DebtTrend, d.RiskTrend} {
		if series != nil {
			out = append(out, stackedTrendChart(series))
		}
	}
	return out
}

func title(name string, d schema.Dashboard) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{
		Title:    name,
		Subtitle: fmt.Sprintf("%d of %d commits, %s", d.FilteredCommits, d.TotalCommits, d.FilterInfo),
	})
}

func size(height string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: height})
}

// activityChart draws the 24x7 heatmap with the intensity palette.
func activityChart(d schema.Dashboard) *charts.HeatMap {
	days := make([]string, schema.DaysPerWeek)
	for day := range schema.DaysPerWeek {
		days[day] = agg.ShortWeekday(day)
	}
	hours := make([]string, schema.HoursPerDay)
	data := make([]opts.HeatMapData, 0, schema.HoursPerDay*schema.DaysPerWeek)
	for h := range schema.HoursPerDay {
		hours[h] = fmt.Sprintf("%02d:00", h)
		for day := range schema.DaysPerWeek {
			data = append(data, opts.HeatMapData{Value: [3]any{day, h, d.Heatmap.Matrix[h][day]}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		title("Activity by Hour", d),
		size(gridHeight),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: days, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: hours, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(max(d.Heatmap.Max, 1)),
			InRange:    &opts.VisualMapInRange{Color: Palette},
			Orient:     "horizontal",
			Left:       "center",
			Bottom:     "2%",
		}),
	)
	hm.AddSeries("Commits", data)
	return hm
}

// timelineChart shows buckets oldest first.
func timelineChart(d schema.Dashboard) *charts.Bar {
	n := len(d.Timeline)
	labels := make([]string, n)
	values := make([]opts.BarData, n)
	for i, b := range d.Timeline {
		labels[n-1-i] = b.Key
		values[n-1-i] = opts.BarData{Value: b.Count}
	}

	name := "Commits per Day"
	if d.Level.Timing == schema.TimingWeek {
		name = "Commits per Week"
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		title(name, d),
		size(chartHeight),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	bar.SetXAxis(labels).AddSeries("Commits", values,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: Palette[3]}))
	return bar
}

func contributorChart(d schema.Dashboard) *charts.Bar {
	labels := make([]string, len(d.Contributors))
	values := make([]opts.BarData, len(d.Contributors))
	for i, g := range d.Contributors {
		labels[i] = g.Key
		if g.Name != "" {
			labels[i] = g.Name
		}
		values[i] = opts.BarData{Value: g.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		title("Contributors ("+string(d.Level.Contributors)+")", d),
		size(chartHeight),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	bar.SetXAxis(labels).AddSeries("Commits", values,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: Palette[4]}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return bar
}

func urgencyChart(d schema.Dashboard) *charts.Pie {
	data := make([]opts.PieData, 0, len(schema.UrgencyBuckets))
	for _, b := range schema.UrgencyBuckets {
		data = append(data, opts.PieData{
			Name:      string(b),
			Value:     d.Urgency.Count(b),
			ItemStyle: &opts.ItemStyle{Color: urgencyColors[b]},
		})
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		title("Urgency", d),
		size(chartHeight),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
	)
	pie.AddSeries("Urgency", data, charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "65%"}}))
	return pie
}

func tagChart(d schema.Dashboard) *charts.Bar {
	items := d.Tags.Items
	if len(items) > agg.BreakdownLimit*2 {
		items = items[:agg.BreakdownLimit*2]
	}
	labels := make([]string, len(items))
	values := make([]opts.BarData, len(items))
	for i, it := range items {
		labels[i] = it.Label
		values[i] = opts.BarData{Value: it.Count}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		title("Tags", d),
		size(chartHeight),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	bar.SetXAxis(labels).AddSeries("Commits", values,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: Palette[2]}))
	return bar
}

// averageTrendChart overlays monthly urgency and complexity averages.
func averageTrendChart(d schema.Dashboard) *charts.Line {
	monthSet := make(map[string]struct{})
	for _, series := range []*schema.AverageSeries{d.UrgencyTrend, d.ComplexityTrend} {
		if series == nil {
			continue
		}
		for _, p := range series.Points {
			monthSet[p.Month] = struct{}{}
		}
	}
	months := slices.Sorted(maps.Keys(monthSet))

	line := charts.NewLine()
	line.SetGlobalOptions(
		title("Monthly Averages", d),
		size(chartHeight),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Min: schema.MinRating, Max: schema.MaxRating}),
	)
	line.SetXAxis(months)
	for _, series := range []*schema.AverageSeries{d.UrgencyTrend, d.ComplexityTrend} {
		if series == nil {
			continue
		}
		line.AddSeries(series.Name, averageLine(series, months),
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	}
	return line
}

// averageLine aligns a series onto months; months without data are null.
func averageLine(series *schema.AverageSeries, months []string) []opts.LineData {
	byMonth := make(map[string]float64, len(series.Points))
	for _, p := range series.Points {
		byMonth[p.Month] = p.Average
	}
	out := make([]opts.LineData, len(months))
	for i, m := range months {
		if v, ok := byMonth[m]; ok {
			out[i] = opts.LineData{Value: v}
		} else {
			out[i] = opts.LineData{Value: nil}
		}
	}
	return out
}

func stackedTrendChart(series *schema.StackedSeries) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Monthly " + series.Name}),
		size(chartHeight),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)
	bar.SetXAxis(series.Months)
	for _, cs := range series.Series {
		values := make([]opts.BarData, len(cs.Counts))
		for i, n := range cs.Counts {
			values[i] = opts.BarData{Value: n}
		}
		bar.AddSeries(cs.Category, values, charts.WithBarChartOpts(opts.BarChart{Stack: series.Name}))
	}
	return bar
}
