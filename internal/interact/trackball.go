package interact

import (
	"math"

	"github.com/banshee-data/chartkit/internal/geom"
	"github.com/banshee-data/chartkit/internal/hittest"
)

// infRadius makes NearestWithin behave as an unbounded nearest query.
var infRadius = math.Inf(1)

// TrackballMode selects how the crosshair follows the pointer across a
// time-series chart.
type TrackballMode int

const (
	// TrackballNearestByX always reports the point nearest by X while the
	// crosshair stays at the raw pointer position.
	TrackballNearestByX TrackballMode = iota
	// TrackballSnapWithinRadius snaps to the nearest point inside the snap
	// radius and retains the previously selected point outside it.
	TrackballSnapWithinRadius
	// TrackballSnapByX snaps the crosshair onto the screen position of the
	// point nearest by X.
	TrackballSnapByX
	// TrackballSnapByY snaps the crosshair onto the screen position of the
	// point nearest by Y.
	TrackballSnapByY
	// TrackballMagnetic blends the raw pointer position toward the nearest
	// point's screen position by a quadratically eased factor inside the
	// snap radius; outside it the raw position is untouched.
	TrackballMagnetic
)

// Crosshair is the trackball output: where the crosshair is drawn plus the
// data point it refers to. HasPoint is false only when the data set is empty.
type Crosshair struct {
	Pos      geom.Point
	Point    hittest.PointResult
	HasPoint bool
}

// resolveTrackball applies one strategy to a raw pointer position. retain is
// true when the strategy keeps the previous selection (only
// TrackballSnapWithinRadius outside its radius does this; the caller then
// leaves the existing crosshair alone).
func resolveTrackball(mode TrackballMode, tester *hittest.PointTester, pointer geom.Point, radius float64) (ch Crosshair, retain bool) {
	switch mode {
	case TrackballSnapWithinRadius:
		res, ok := tester.NearestWithin(pointer, radius)
		if !ok {
			return Crosshair{}, true
		}
		return Crosshair{Pos: res.ScreenPos, Point: res, HasPoint: true}, false

	case TrackballSnapByX:
		res, ok := tester.NearestByX(pointer)
		if !ok {
			return Crosshair{Pos: pointer}, false
		}
		return Crosshair{Pos: res.ScreenPos, Point: res, HasPoint: true}, false

	case TrackballSnapByY:
		res, ok := tester.NearestByY(pointer)
		if !ok {
			return Crosshair{Pos: pointer}, false
		}
		return Crosshair{Pos: res.ScreenPos, Point: res, HasPoint: true}, false

	case TrackballMagnetic:
		res, ok := tester.NearestWithin(pointer, infRadius)
		if !ok {
			return Crosshair{Pos: pointer}, false
		}
		pos := pointer
		if radius > 0 && res.Distance < radius {
			// Quadratic ease on inverse distance: touching the point means
			// full snap, the blend falls off toward the radius edge.
			t := 1 - res.Distance/radius
			f := t * t
			pos = geom.Pt(
				pointer.X+(res.ScreenPos.X-pointer.X)*f,
				pointer.Y+(res.ScreenPos.Y-pointer.Y)*f,
			)
		}
		return Crosshair{Pos: pos, Point: res, HasPoint: true}, false

	default: // TrackballNearestByX
		res, ok := tester.NearestByX(pointer)
		if !ok {
			return Crosshair{Pos: pointer}, false
		}
		return Crosshair{Pos: pointer, Point: res, HasPoint: true}, false
	}
}
