package hittest

import (
	"math"

	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/geom"
	"github.com/banshee-data/chartkit/internal/series"
	"github.com/banshee-data/chartkit/internal/spatial"
)

// Tester is the per-chart-family hit-test strategy injected into the
// interactive state machine at construction. Implementations are built
// against one coordinate system and data set; when either changes the state
// machine constructs a fresh tester rather than mutating the old one.
type Tester interface {
	Test(pos geom.Point) (Result, bool)
}

// Compile-time strategy checks.
var (
	_ Tester = (*PointTester)(nil)
	_ Tester = (*BarTester)(nil)
	_ Tester = (*StackedTester)(nil)
)

// PointTester resolves the nearest data point across all series within a
// snap radius, backed by a spatial index over the flattened point set.
type PointTester struct {
	seriesList []series.Series
	cs         coords.CoordinateSystem
	radius     float64

	index  *spatial.Index
	owners []pointOwner // flattened index -> (series, point)
}

type pointOwner struct {
	seriesIdx int
	pointIdx  int
}

// NewPointTester builds a tester over the given series. Points are flattened
// in series order then point order, which fixes the tie rule: equidistant
// points resolve to the earlier series, then the earlier point.
func NewPointTester(list []series.Series, cs coords.CoordinateSystem, radius float64) *PointTester {
	t := &PointTester{seriesList: list, cs: cs, radius: radius}
	var screen []geom.Point
	for si, s := range list {
		for pi, p := range s.Points {
			screen = append(screen, cs.DataToScreen(p.X, p.Y))
			t.owners = append(t.owners, pointOwner{seriesIdx: si, pointIdx: pi})
		}
	}
	t.index = spatial.Build(screen)
	return t
}

// Test implements Tester. Empty data returns no result, never an error.
func (t *PointTester) Test(pos geom.Point) (Result, bool) {
	idx, ok := t.index.Nearest(pos, t.radius)
	if !ok {
		return nil, false
	}
	return t.resultAt(idx, pos), true
}

// NearestByX resolves by horizontal distance only, for trackball snapping.
func (t *PointTester) NearestByX(pos geom.Point) (PointResult, bool) {
	idx, ok := t.index.NearestByX(pos)
	if !ok {
		return PointResult{}, false
	}
	return t.resultAt(idx, pos), true
}

// NearestByXThenY resolves by horizontal distance, breaking ties between
// points at the same X by distance to pos.Y. The live probe resolves through
// this so overlapping series at the pinned X keep their own overlays.
func (t *PointTester) NearestByXThenY(pos geom.Point) (PointResult, bool) {
	best, ok := t.index.NearestByX(pos)
	if !ok {
		return PointResult{}, false
	}
	// Coincident data X projects to an identical screen X, so exact
	// comparison finds the whole tie group.
	bestX := t.index.Point(best).X
	bestDY := math.Abs(t.index.Point(best).Y - pos.Y)
	for i := 0; i < t.index.Len(); i++ {
		if t.index.Point(i).X != bestX {
			continue
		}
		if dy := math.Abs(t.index.Point(i).Y - pos.Y); dy < bestDY {
			best, bestDY = i, dy
		}
	}
	return t.resultAt(best, pos), true
}

// NearestByY resolves by vertical distance only.
func (t *PointTester) NearestByY(pos geom.Point) (PointResult, bool) {
	idx, ok := t.index.NearestByY(pos)
	if !ok {
		return PointResult{}, false
	}
	return t.resultAt(idx, pos), true
}

// NearestWithin resolves by Euclidean distance within an explicit radius,
// independent of the tester's configured snap radius.
func (t *PointTester) NearestWithin(pos geom.Point, radius float64) (PointResult, bool) {
	idx, ok := t.index.Nearest(pos, radius)
	if !ok {
		return PointResult{}, false
	}
	return t.resultAt(idx, pos), true
}

func (t *PointTester) resultAt(flat int, pos geom.Point) PointResult {
	owner := t.owners[flat]
	s := t.seriesList[owner.seriesIdx]
	screen := t.index.Point(flat)
	return PointResult{
		Point:       s.Points[owner.pointIdx],
		SeriesName:  s.Name,
		SeriesColor: s.Color,
		SeriesIndex: owner.seriesIdx,
		PointIndex:  owner.pointIdx,
		ScreenPos:   screen,
		Distance:    screen.DistanceTo(pos),
	}
}

// BarTester resolves grouped/overlapped bar hits by rectangle containment,
// recomputing each bar's rect with the same BarLayout the renderer uses and
// inflating by a small tolerance for forgiving touch targets.
type BarTester struct {
	data      series.BarData
	cs        coords.CoordinateSystem
	layout    BarLayout
	tolerance float64
}

// NewBarTester builds a tester over bar data. A non-positive tolerance falls
// back to DefaultHitTolerance.
func NewBarTester(data series.BarData, cs coords.CoordinateSystem, layout BarLayout, tolerance float64) *BarTester {
	if tolerance <= 0 {
		tolerance = DefaultHitTolerance
	}
	return &BarTester{data: data, cs: cs, layout: layout, tolerance: tolerance}
}

// Test implements Tester. Bars are tested in reverse paint order (last
// series first, last category first) so the visually topmost bar wins when
// inflated rects overlap.
func (t *BarTester) Test(pos geom.Point) (Result, bool) {
	for ci := len(t.data.Categories) - 1; ci >= 0; ci-- {
		for si := len(t.data.SeriesNames) - 1; si >= 0; si-- {
			rect, ok := t.layout.BarRect(t.cs, t.data, ci, si)
			if !ok {
				continue
			}
			if !rect.Inflate(t.tolerance).ContainsClosed(pos) {
				continue
			}
			return BarResult{
				CategoryIndex: ci,
				CategoryLabel: t.data.Categories[ci].Label,
				SeriesIndex:   si,
				SeriesName:    t.data.SeriesNames[si],
				SeriesColor:   t.seriesColor(si),
				Value:         t.data.Categories[ci].Values[si],
				Rect:          rect,
			}, true
		}
	}
	return nil, false
}

func (t *BarTester) seriesColor(si int) string {
	if si < len(t.data.SeriesColors) {
		return t.data.SeriesColors[si]
	}
	return ""
}

// StackedTester resolves stacked-bar hits: it locates the category slot
// containing the pointer, walks the stack bottom-to-top accumulating value
// (or normalized percentage in 100%-stacked mode), and returns every segment
// for composite tooltips plus the index of the precisely hit one.
type StackedTester struct {
	data       series.BarData
	cs         coords.CoordinateSystem
	layout     BarLayout
	normalized bool
	tolerance  float64
}

// NewStackedTester builds a tester over stacked bar data. normalized selects
// 100%-stacked semantics.
func NewStackedTester(data series.BarData, cs coords.CoordinateSystem, layout BarLayout, normalized bool, tolerance float64) *StackedTester {
	if tolerance <= 0 {
		tolerance = DefaultHitTolerance
	}
	return &StackedTester{data: data, cs: cs, layout: layout, normalized: normalized, tolerance: tolerance}
}

// Test implements Tester.
func (t *StackedTester) Test(pos geom.Point) (Result, bool) {
	x := t.cs.ScreenToDataX(pos.X)
	ci := t.layout.CategoryAt(x, len(t.data.Categories))
	if ci < 0 {
		return nil, false
	}

	stackRect, ok := t.layout.StackRect(t.cs, t.data, ci, t.normalized)
	if !ok || !stackRect.Inflate(t.tolerance).ContainsClosed(pos) {
		return nil, false
	}

	total := t.data.StackTotal(ci)
	res := StackedResult{
		CategoryIndex:   ci,
		CategoryLabel:   t.data.Categories[ci].Label,
		Total:           total,
		StackRect:       stackRect,
		HitSegmentIndex: NoSegment,
	}

	// Pointer Y in stack units: raw values, or percent in normalized mode.
	y := t.cs.ScreenToDataY(pos.Y)

	cum := 0.0
	for si := range t.data.SeriesNames {
		v := t.data.Categories[ci].Values[si]
		if math.IsNaN(v) {
			v = 0
		}
		seg := StackedSegment{
			SeriesIndex: si,
			SeriesName:  t.data.SeriesNames[si],
			SeriesColor: t.seriesColor(si),
			Value:       v,
		}
		if total != 0 {
			seg.Percent = v / total * 100
		}

		base, height := cum, v
		if t.normalized && total != 0 {
			base = cum / total * 100
			height = v / total * 100
		}
		if res.HitSegmentIndex == NoSegment && y >= base && y < base+height {
			res.HitSegmentIndex = si
		}

		res.Segments = append(res.Segments, seg)
		cum += v
	}

	return res, true
}

func (t *StackedTester) seriesColor(si int) string {
	if si < len(t.data.SeriesColors) {
		return t.data.SeriesColors[si]
	}
	return ""
}
