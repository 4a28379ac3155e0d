// Package coords implements the immutable coordinate system mapping a chart's
// screen rectangle to a rectangular data-space viewport.
//
// A CoordinateSystem is a value: every viewport change (zoom, pan, resize,
// live scroll) produces a new instance and the active reference is swapped
// wholesale, so readers never observe a partially updated viewport. The
// struct is comparable, which makes structural equality and map-key
// memoization free.
package coords

import (
	"fmt"
	"math"

	"github.com/banshee-data/chartkit/internal/geom"
)

// Bounds is the transient (xMin, xMax, yMin, yMax) tuple passed between the
// interaction-math stages. It is never persisted; the durable form is always
// a CoordinateSystem.
type Bounds struct {
	XMin, XMax, YMin, YMax float64
}

// XRange returns XMax - XMin.
func (b Bounds) XRange() float64 { return b.XMax - b.XMin }

// YRange returns YMax - YMin.
func (b Bounds) YRange() float64 { return b.YMax - b.YMin }

// XCenter returns the horizontal midpoint of the viewport.
func (b Bounds) XCenter() float64 { return (b.XMin + b.XMax) / 2 }

// YCenter returns the vertical midpoint of the viewport.
func (b Bounds) YCenter() float64 { return (b.YMin + b.YMax) / 2 }

// CoordinateSystem maps the chart-area screen rect to the data viewport.
// Construct with New (or MustNew); the zero value is not usable.
type CoordinateSystem struct {
	chartArea        geom.Rect
	dataXMin         float64
	dataXMax         float64
	dataYMin         float64
	dataYMax         float64
	xInversed        bool
	yInversed        bool
	devicePixelRatio float64
}

// Options carries the optional axis-direction flags and device pixel ratio
// for New. The zero value means no inversion and a DPR of 1.
type Options struct {
	XInversed        bool
	YInversed        bool
	DevicePixelRatio float64
}

// New validates and builds a CoordinateSystem. Min/max order violations and a
// non-positive device pixel ratio are programmer errors and fail here, at
// construction, rather than downstream in a transform.
func New(chartArea geom.Rect, b Bounds, opts Options) (CoordinateSystem, error) {
	if b.XMax < b.XMin {
		return CoordinateSystem{}, fmt.Errorf("coords: dataXMax %v < dataXMin %v", b.XMax, b.XMin)
	}
	if b.YMax < b.YMin {
		return CoordinateSystem{}, fmt.Errorf("coords: dataYMax %v < dataYMin %v", b.YMax, b.YMin)
	}
	dpr := opts.DevicePixelRatio
	if dpr == 0 {
		dpr = 1
	}
	if dpr < 0 {
		return CoordinateSystem{}, fmt.Errorf("coords: devicePixelRatio %v must be positive", dpr)
	}
	return CoordinateSystem{
		chartArea:        chartArea,
		dataXMin:         b.XMin,
		dataXMax:         b.XMax,
		dataYMin:         b.YMin,
		dataYMax:         b.YMax,
		xInversed:        opts.XInversed,
		yInversed:        opts.YInversed,
		devicePixelRatio: dpr,
	}, nil
}

// MustNew is New for statically known-good arguments; it panics on error.
func MustNew(chartArea geom.Rect, b Bounds, opts Options) CoordinateSystem {
	cs, err := New(chartArea, b, opts)
	if err != nil {
		panic(err)
	}
	return cs
}

// ChartArea returns the screen rectangle this system maps onto.
func (c CoordinateSystem) ChartArea() geom.Rect { return c.chartArea }

// Bounds returns the current data-space viewport.
func (c CoordinateSystem) Bounds() Bounds {
	return Bounds{XMin: c.dataXMin, XMax: c.dataXMax, YMin: c.dataYMin, YMax: c.dataYMax}
}

// XInversed reports whether the X axis is mirrored (data X grows leftward).
func (c CoordinateSystem) XInversed() bool { return c.xInversed }

// YInversed reports whether the Y axis is mirrored (data Y grows downward).
func (c CoordinateSystem) YInversed() bool { return c.yInversed }

// DevicePixelRatio returns the physical-per-logical pixel ratio.
func (c CoordinateSystem) DevicePixelRatio() float64 { return c.devicePixelRatio }

// WithViewport returns a copy of c with a new data viewport. This is the
// zoom/pan path: chart area, inversion flags and DPR carry over.
func (c CoordinateSystem) WithViewport(b Bounds) (CoordinateSystem, error) {
	return New(c.chartArea, b, Options{
		XInversed:        c.xInversed,
		YInversed:        c.yInversed,
		DevicePixelRatio: c.devicePixelRatio,
	})
}

// WithChartArea returns a copy of c mapped onto a new screen rect. This is
// the layout/resize path: the data viewport carries over.
func (c CoordinateSystem) WithChartArea(area geom.Rect) CoordinateSystem {
	out := c
	out.chartArea = area
	return out
}

// ScaleX returns screen pixels per data-X unit. A zero-range axis reports
// 1.0 so downstream math stays finite instead of propagating NaN.
func (c CoordinateSystem) ScaleX() float64 {
	r := c.dataXMax - c.dataXMin
	if r == 0 {
		return 1.0
	}
	return c.chartArea.Width() / r
}

// ScaleY returns screen pixels per data-Y unit, with the same zero-range
// convention as ScaleX.
func (c CoordinateSystem) ScaleY() float64 {
	r := c.dataYMax - c.dataYMin
	if r == 0 {
		return 1.0
	}
	return c.chartArea.Height() / r
}

// DataToScreenX maps a data X to a screen X. On a zero-range axis every value
// maps to the anchored edge (left, or right when inversed).
func (c CoordinateSystem) DataToScreenX(x float64) float64 {
	if c.dataXMax == c.dataXMin {
		if c.xInversed {
			return c.chartArea.Right
		}
		return c.chartArea.Left
	}
	offset := (x - c.dataXMin) * c.ScaleX()
	if c.xInversed {
		return c.chartArea.Right - offset
	}
	return c.chartArea.Left + offset
}

// DataToScreenY maps a data Y to a screen Y. Screen Y grows downward while
// data Y grows upward, so the default mapping anchors at the bottom edge;
// YInversed anchors at the top.
func (c CoordinateSystem) DataToScreenY(y float64) float64 {
	if c.dataYMax == c.dataYMin {
		if c.yInversed {
			return c.chartArea.Top
		}
		return c.chartArea.Bottom
	}
	offset := (y - c.dataYMin) * c.ScaleY()
	if c.yInversed {
		return c.chartArea.Top + offset
	}
	return c.chartArea.Bottom - offset
}

// DataToScreen maps a data point to screen space.
func (c CoordinateSystem) DataToScreen(x, y float64) geom.Point {
	return geom.Point{X: c.DataToScreenX(x), Y: c.DataToScreenY(y)}
}

// ScreenToDataX maps a screen X back to data space. Inverse transforms are
// exact (never pixel-snapped) so hit-testing and drag math round-trip.
func (c CoordinateSystem) ScreenToDataX(sx float64) float64 {
	if c.dataXMax == c.dataXMin {
		return c.dataXMin
	}
	if c.xInversed {
		return c.dataXMin + (c.chartArea.Right-sx)/c.ScaleX()
	}
	return c.dataXMin + (sx-c.chartArea.Left)/c.ScaleX()
}

// ScreenToDataY maps a screen Y back to data space.
func (c CoordinateSystem) ScreenToDataY(sy float64) float64 {
	if c.dataYMax == c.dataYMin {
		return c.dataYMin
	}
	if c.yInversed {
		return c.dataYMin + (sy-c.chartArea.Top)/c.ScaleY()
	}
	return c.dataYMin + (c.chartArea.Bottom-sy)/c.ScaleY()
}

// ScreenToData maps a screen point back to data space.
func (c CoordinateSystem) ScreenToData(p geom.Point) (x, y float64) {
	return c.ScreenToDataX(p.X), c.ScreenToDataY(p.Y)
}

// DataWidthToScreen converts a data-space X extent to a screen-space length.
func (c CoordinateSystem) DataWidthToScreen(w float64) float64 {
	return w * c.ScaleX()
}

// DataHeightToScreen converts a data-space Y extent to a screen-space length.
func (c CoordinateSystem) DataHeightToScreen(h float64) float64 {
	return h * c.ScaleY()
}

// ScreenWidthToData converts a screen-space length to a data-space X extent.
func (c CoordinateSystem) ScreenWidthToData(w float64) float64 {
	return w / c.ScaleX()
}

// ScreenHeightToData converts a screen-space length to a data-space Y extent.
func (c CoordinateSystem) ScreenHeightToData(h float64) float64 {
	return h / c.ScaleY()
}

// PixelSnap rounds a forward-transform output to the nearest device-pixel
// boundary so one-logical-pixel strokes stay crisp on high-density displays.
// Apply only to forward outputs headed for the renderer; inverse inputs must
// stay exact.
func (c CoordinateSystem) PixelSnap(v float64) float64 {
	return math.Round(v*c.devicePixelRatio) / c.devicePixelRatio
}

// SnapPoint pixel-snaps both components of a screen point.
func (c CoordinateSystem) SnapPoint(p geom.Point) geom.Point {
	return geom.Point{X: c.PixelSnap(p.X), Y: c.PixelSnap(p.Y)}
}

// Equal reports structural equality. CoordinateSystem is comparable, so this
// is the == operator; the method exists for readability at call sites that
// gate rebuild work on "did the system actually change".
func (c CoordinateSystem) Equal(other CoordinateSystem) bool {
	return c == other
}

// IsZoomedOrPanned reports whether c's viewport differs from original's.
// Chart area differences are ignored: a resize alone is not a zoom.
func (c CoordinateSystem) IsZoomedOrPanned(original CoordinateSystem) bool {
	return c.Bounds() != original.Bounds()
}
