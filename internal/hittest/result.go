package hittest

import (
	"github.com/banshee-data/chartkit/internal/geom"
	"github.com/banshee-data/chartkit/internal/series"
)

// Result is the common face of the per-family hit-test results. The state
// machine positions tooltips off Anchor and renders Label; callers that need
// the family-specific payload type-switch on the concrete types.
type Result interface {
	// Anchor is the screen position a tooltip attaches to.
	Anchor() geom.Point
	// Label is a short description of the hit datum.
	Label() string
}

// PointResult is a line/scatter hit: the nearest data point within the snap
// radius, with its owning series.
type PointResult struct {
	Point       series.DataPoint
	SeriesName  string
	SeriesColor string
	SeriesIndex int
	PointIndex  int
	ScreenPos   geom.Point
	Distance    float64
}

// Anchor implements Result.
func (r PointResult) Anchor() geom.Point { return r.ScreenPos }

// Label implements Result.
func (r PointResult) Label() string {
	if r.Point.Label != "" {
		return r.Point.Label
	}
	return r.SeriesName
}

// BarResult is a grouped/overlapped bar hit.
type BarResult struct {
	CategoryIndex int
	CategoryLabel string
	SeriesIndex   int
	SeriesName    string
	SeriesColor   string
	Value         float64
	Rect          geom.Rect
}

// Anchor implements Result: the top center of the hit bar.
func (r BarResult) Anchor() geom.Point {
	return geom.Pt((r.Rect.Left+r.Rect.Right)/2, r.Rect.Top)
}

// Label implements Result.
func (r BarResult) Label() string { return r.CategoryLabel }

// StackedSegment is one series' contribution to a stacked category, carried
// in a StackedResult for composite tooltips.
type StackedSegment struct {
	SeriesIndex int
	SeriesName  string
	SeriesColor string
	Value       float64
	// Percent is the segment's share of the stack total, 0 when the total is
	// zero.
	Percent float64
}

// NoSegment marks a StackedResult whose pointer hit the stack envelope but
// no specific segment.
const NoSegment = -1

// StackedResult is a stacked-bar hit: every segment of the category's stack
// in bottom-to-top order, plus which one the pointer precisely landed in.
type StackedResult struct {
	CategoryIndex int
	CategoryLabel string
	Segments      []StackedSegment
	Total         float64
	StackRect     geom.Rect
	// HitSegmentIndex is the index into Segments of the precisely hit
	// segment, or NoSegment when only the envelope was hit.
	HitSegmentIndex int
}

// Anchor implements Result: the top center of the stack.
func (r StackedResult) Anchor() geom.Point {
	return geom.Pt((r.StackRect.Left+r.StackRect.Right)/2, r.StackRect.Top)
}

// Label implements Result.
func (r StackedResult) Label() string { return r.CategoryLabel }
