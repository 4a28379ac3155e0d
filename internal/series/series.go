// Package series defines the immutable data model consumed by the interaction
// engine: individual data points, point series for line/scatter charts, and
// the category/series matrix used by grouped and stacked bar charts. It also
// provides the bounded ring buffer that backs live-streaming charts.
package series

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DataPoint is a single (x, y) value in data space with an optional label.
// DataPoints are immutable; live updates replace whole slices rather than
// mutating points in place.
type DataPoint struct {
	X     float64
	Y     float64
	Label string
}

// Series is a named sequence of data points belonging to one plotted line or
// scatter trace. Color is an opaque value passed through to hit-test results
// and tooltips; the engine never interprets it.
type Series struct {
	Name   string
	Color  string
	Points []DataPoint
}

// XRange returns the minimum and maximum X over the series points.
// Empty series report (0, 0) and ok=false.
func (s Series) XRange() (min, max float64, ok bool) {
	if len(s.Points) == 0 {
		return 0, 0, false
	}
	xs := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = p.X
	}
	return floats.Min(xs), floats.Max(xs), true
}

// YRange returns the minimum and maximum Y over the series points.
// Empty series report (0, 0) and ok=false.
func (s Series) YRange() (min, max float64, ok bool) {
	if len(s.Points) == 0 {
		return 0, 0, false
	}
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		ys[i] = p.Y
	}
	return floats.Min(ys), floats.Max(ys), true
}

// Category is one discrete X slot of a bar chart: a label plus one value per
// series, in series order. Missing values are represented as NaN and skipped
// by layout and hit-testing.
type Category struct {
	Label  string
	Values []float64
}

// BarData is the category/series matrix for grouped, overlapped and stacked
// bar charts. Series i contributes Categories[j].Values[i] at category j.
type BarData struct {
	SeriesNames  []string
	SeriesColors []string
	Categories   []Category
}

// Validate checks that every category carries one value per series.
func (b BarData) Validate() error {
	for j, c := range b.Categories {
		if len(c.Values) != len(b.SeriesNames) {
			return fmt.Errorf("category %d (%q): %d values for %d series",
				j, c.Label, len(c.Values), len(b.SeriesNames))
		}
	}
	if len(b.SeriesColors) != 0 && len(b.SeriesColors) != len(b.SeriesNames) {
		return fmt.Errorf("%d colors for %d series", len(b.SeriesColors), len(b.SeriesNames))
	}
	return nil
}

// StackTotal returns the sum of non-NaN values at category j. Negative values
// participate in the sum; 100%-stacked normalization divides by this total.
func (b BarData) StackTotal(j int) float64 {
	if j < 0 || j >= len(b.Categories) {
		return 0
	}
	total := 0.0
	for _, v := range b.Categories[j].Values {
		if !math.IsNaN(v) {
			total += v
		}
	}
	return total
}
