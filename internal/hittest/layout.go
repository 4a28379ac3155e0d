// Package hittest maps screen positions to the data they represent: nearest
// data point lookup for line/scatter series, rectangle containment for
// grouped and overlapped bars, and stacked-interval containment for stacked
// bars.
//
// BarLayout is the one place bar geometry is computed. The renderer consumes
// the same layout, so what is hit is exactly what was drawn; any change to
// the spacing or placement rules here changes both sides at once.
package hittest

import (
	"math"

	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/geom"
	"github.com/banshee-data/chartkit/internal/series"
)

// DefaultHitTolerance is the rect inflation applied for forgiving touch
// targets, in logical pixels.
const DefaultHitTolerance = 3.0

// BarLayout computes bar rectangles in screen space. Categories occupy unit
// slots in data X: category j spans [j-0.5, j+0.5).
type BarLayout struct {
	// GroupSpacingRatio is the fraction of each category slot left empty,
	// split evenly on both sides of the group. 0.2 means the group uses 80%
	// of the slot.
	GroupSpacingRatio float64
	// BarSpacingRatio is the fraction of each per-series sub-slot left empty
	// between sibling bars in grouped placement.
	BarSpacingRatio float64
	// Overlapped draws every series across the full group width instead of
	// subdividing the slot; later series paint on top.
	Overlapped bool
}

// DefaultBarLayout mirrors the renderer defaults.
func DefaultBarLayout() BarLayout {
	return BarLayout{GroupSpacingRatio: 0.2, BarSpacingRatio: 0.1}
}

// SlotXRange returns the data-space X interval of category j.
func (l BarLayout) SlotXRange(catIdx int) (xMin, xMax float64) {
	return float64(catIdx) - 0.5, float64(catIdx) + 0.5
}

// CategoryAt returns the category index whose slot contains data X, or -1
// when x falls outside all numCategories slots.
func (l BarLayout) CategoryAt(x float64, numCategories int) int {
	j := int(math.Floor(x + 0.5))
	if j < 0 || j >= numCategories {
		return -1
	}
	return j
}

// groupSpan returns the screen-space left edge and width of the usable group
// band inside category j's slot.
func (l BarLayout) groupSpan(cs coords.CoordinateSystem, catIdx int) (left, width float64) {
	xMin, xMax := l.SlotXRange(catIdx)
	sLeft := cs.DataToScreenX(xMin)
	sRight := cs.DataToScreenX(xMax)
	if sRight < sLeft {
		sLeft, sRight = sRight, sLeft // inversed X axis
	}
	slot := sRight - sLeft
	margin := slot * l.GroupSpacingRatio / 2
	return sLeft + margin, slot * (1 - l.GroupSpacingRatio)
}

// BarRect returns the screen rectangle of series seriesIdx's bar at category
// catIdx, exactly as the renderer draws it. ok is false when the value is
// NaN (missing) or the indices are out of range.
func (l BarLayout) BarRect(cs coords.CoordinateSystem, data series.BarData, catIdx, seriesIdx int) (geom.Rect, bool) {
	if catIdx < 0 || catIdx >= len(data.Categories) {
		return geom.Rect{}, false
	}
	if seriesIdx < 0 || seriesIdx >= len(data.SeriesNames) {
		return geom.Rect{}, false
	}
	v := data.Categories[catIdx].Values[seriesIdx]
	if math.IsNaN(v) {
		return geom.Rect{}, false
	}

	groupLeft, groupWidth := l.groupSpan(cs, catIdx)

	var left, width float64
	if l.Overlapped {
		left, width = groupLeft, groupWidth
	} else {
		sub := groupWidth / float64(len(data.SeriesNames))
		pad := sub * l.BarSpacingRatio / 2
		left = groupLeft + sub*float64(seriesIdx) + pad
		width = sub * (1 - l.BarSpacingRatio)
	}

	yBase := cs.DataToScreenY(0)
	yVal := cs.DataToScreenY(v)
	top := math.Min(yBase, yVal)
	bottom := math.Max(yBase, yVal)

	return geom.Rect{Left: left, Top: top, Right: left + width, Bottom: bottom}, true
}

// SegmentSpan returns the cumulative data-space interval [base, base+height)
// of series seriesIdx within the stack at catIdx. In normalized mode values
// are expressed as percentages of the stack total, matching a 100%-stacked
// chart's percent Y axis. NaN values contribute a zero-height interval.
func (l BarLayout) SegmentSpan(data series.BarData, catIdx, seriesIdx int, normalized bool) (base, height float64) {
	total := data.StackTotal(catIdx)
	scale := 1.0
	if normalized {
		if total == 0 {
			return 0, 0
		}
		scale = 100 / total
	}
	cum := 0.0
	for i := 0; i <= seriesIdx; i++ {
		v := data.Categories[catIdx].Values[i]
		if math.IsNaN(v) {
			v = 0
		}
		if i == seriesIdx {
			return cum * scale, v * scale
		}
		cum += v
	}
	return 0, 0
}

// SegmentRect returns the screen rectangle of one stacked segment.
func (l BarLayout) SegmentRect(cs coords.CoordinateSystem, data series.BarData, catIdx, seriesIdx int, normalized bool) (geom.Rect, bool) {
	if catIdx < 0 || catIdx >= len(data.Categories) {
		return geom.Rect{}, false
	}
	if seriesIdx < 0 || seriesIdx >= len(data.SeriesNames) {
		return geom.Rect{}, false
	}

	groupLeft, groupWidth := l.groupSpan(cs, catIdx)
	base, height := l.SegmentSpan(data, catIdx, seriesIdx, normalized)

	yLow := cs.DataToScreenY(base)
	yHigh := cs.DataToScreenY(base + height)
	top := math.Min(yLow, yHigh)
	bottom := math.Max(yLow, yHigh)

	return geom.Rect{Left: groupLeft, Top: top, Right: groupLeft + groupWidth, Bottom: bottom}, true
}

// StackRect returns the screen rectangle of the whole stack at catIdx, from
// the zero baseline to the stack total.
func (l BarLayout) StackRect(cs coords.CoordinateSystem, data series.BarData, catIdx int, normalized bool) (geom.Rect, bool) {
	if catIdx < 0 || catIdx >= len(data.Categories) {
		return geom.Rect{}, false
	}
	groupLeft, groupWidth := l.groupSpan(cs, catIdx)

	top := data.StackTotal(catIdx)
	if normalized && top != 0 {
		top = 100
	}
	yBase := cs.DataToScreenY(0)
	yTop := cs.DataToScreenY(top)
	t := math.Min(yBase, yTop)
	b := math.Max(yBase, yTop)

	return geom.Rect{Left: groupLeft, Top: t, Right: groupLeft + groupWidth, Bottom: b}, true
}
