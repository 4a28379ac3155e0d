// Package render produces chart views of the same data the interaction
// engine hit-tests: browser-side HTML via go-echarts and static PNG
// snapshots via gonum/plot. Both consume the engine's coordinate system and
// bar layout so what is drawn is exactly what is hit.
package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/series"
)

// LineChart builds an ECharts line chart of the series clipped to the given
// viewport. Axis min/max pin the viewport so a zoomed engine state renders
// as the zoomed window, not autoscaled.
func LineChart(list []series.Series, b coords.Bounds, title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("x=[%g,%g] y=[%g,%g]", b.XMin, b.XMax, b.YMin, b.YMax)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: b.XMin, Max: b.XMax}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: b.YMin, Max: b.YMax}),
	)

	for _, s := range list {
		data := make([]opts.LineData, 0, len(s.Points))
		for _, p := range s.Points {
			if p.X < b.XMin || p.X > b.XMax {
				continue
			}
			data = append(data, opts.LineData{Value: []interface{}{p.X, p.Y}})
		}
		line.AddSeries(s.Name, data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}
	return line
}

// BarChart builds an ECharts bar chart of the categories. Stacked mode puts
// every series on one stack, matching the stacked hit tester's geometry.
func BarChart(data series.BarData, stacked bool, title string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, len(data.Categories))
	for i, c := range data.Categories {
		labels[i] = c.Label
	}
	bar.SetXAxis(labels)

	for si, name := range data.SeriesNames {
		vals := make([]opts.BarData, len(data.Categories))
		for ci, c := range data.Categories {
			if si < len(c.Values) {
				vals[ci] = opts.BarData{Value: c.Values[si]}
			}
		}
		seriesOpts := []charts.SeriesOpts{}
		if si < len(data.SeriesColors) {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: data.SeriesColors[si]}))
		}
		if stacked {
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
		}
		bar.AddSeries(name, vals, seriesOpts...)
	}
	return bar
}

// Dashboard assembles multiple charts onto one scrolling page.
func Dashboard(charts ...components.Charter) *components.Page {
	page := components.NewPage()
	page.AddCharts(charts...)
	return page
}

// WriteHTML renders any single chart or page to w.
func WriteHTML(w io.Writer, r interface{ Render(io.Writer) error }) error {
	if err := r.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
