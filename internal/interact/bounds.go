// Package interact implements the interaction engine: the pure zoom/pan
// bound math, the scheduler-driven zoom animator, and the interactive state
// machine that coordinates tooltip, crosshair, zoom, pan and live-streaming
// probe behavior.
//
// The bound math in this file is deterministic and side-effect free. Every
// function maps an input viewport to an output viewport; nothing here touches
// machine state, which is what makes the clamping behavior property-testable
// in isolation.
package interact

import (
	"fmt"

	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/geom"
)

// PanMode restricts panning to one axis or disables it.
type PanMode int

const (
	PanBoth PanMode = iota
	PanX
	PanY
	PanNone
)

// ZoomMode restricts zooming to one axis or disables it.
type ZoomMode int

const (
	ZoomBoth ZoomMode = iota
	ZoomX
	ZoomY
	ZoomNone
)

// ZoomLimits bound how far in and out a viewport may zoom relative to its
// original range. MinLevel 1 means the viewport can never grow beyond the
// original range; MaxLevel 20 means it can shrink to 1/20th of it.
type ZoomLimits struct {
	MinLevel float64
	MaxLevel float64
}

// DefaultZoomLimits allows zooming in to 20x but never out past the
// original viewport.
func DefaultZoomLimits() ZoomLimits {
	return ZoomLimits{MinLevel: 1, MaxLevel: 20}
}

// Validate rejects non-positive or inverted limits.
func (z ZoomLimits) Validate() error {
	if z.MinLevel <= 0 {
		return fmt.Errorf("interact: MinLevel %v must be positive", z.MinLevel)
	}
	if z.MaxLevel < z.MinLevel {
		return fmt.Errorf("interact: MaxLevel %v < MinLevel %v", z.MaxLevel, z.MinLevel)
	}
	return nil
}

const (
	// maxWheelZoomChange bounds a single wheel step to a ±30% range change.
	maxWheelZoomChange = 0.3
	// wheelDeltaScale converts raw scroll-delta units (one notch ≈ 120) into
	// a zoom fraction at speed 1.
	wheelDeltaScale = 1.0 / 1200
)

// PannedBounds converts a screen-space drag delta into a shifted viewport
// using the current scale. Dragging right moves the content right, which
// shifts the viewport left; inversed axes flip the shift direction.
func PannedBounds(cs coords.CoordinateSystem, delta geom.Point, mode PanMode) coords.Bounds {
	b := cs.Bounds()

	if mode == PanBoth || mode == PanX {
		shift := -delta.X / cs.ScaleX()
		if cs.XInversed() {
			shift = -shift
		}
		b.XMin += shift
		b.XMax += shift
	}
	if mode == PanBoth || mode == PanY {
		// Screen Y grows downward: dragging down moves the viewport up.
		shift := delta.Y / cs.ScaleY()
		if cs.YInversed() {
			shift = -shift
		}
		b.YMin += shift
		b.YMax += shift
	}
	return b
}

// ZoomedBounds rebuilds the viewport around a focal screen point so that the
// data under the focal point stays visually fixed: the focal datum keeps its
// proportional position within the new, scaled range. Axes are gated
// independently by mode; a zero-range axis is left untouched.
func ZoomedBounds(cs coords.CoordinateSystem, scaleFactor float64, focal geom.Point, mode ZoomMode) coords.Bounds {
	b := cs.Bounds()
	if scaleFactor <= 0 {
		return b
	}

	if (mode == ZoomBoth || mode == ZoomX) && b.XRange() != 0 {
		fx := cs.ScreenToDataX(focal.X)
		frac := (fx - b.XMin) / b.XRange()
		newRange := b.XRange() / scaleFactor
		b.XMin = fx - frac*newRange
		b.XMax = b.XMin + newRange
	}
	if (mode == ZoomBoth || mode == ZoomY) && b.YRange() != 0 {
		fy := cs.ScreenToDataY(focal.Y)
		frac := (fy - b.YMin) / b.YRange()
		newRange := b.YRange() / scaleFactor
		b.YMin = fy - frac*newRange
		b.YMax = b.YMin + newRange
	}
	return b
}

// ConstrainBounds applies the two-stage clamp to a candidate viewport, axis
// by axis:
//
//  1. Zoom-level clamp: ranges wider than originalRange/MinLevel or narrower
//     than originalRange/MaxLevel are clamped, re-centering on the
//     candidate's own center.
//  2. Pan-boundary clamp: with the now-legal range size fixed, the viewport
//     CENTER (not the edges) is clamped to the band that keeps the viewport
//     inside the maximum pannable area, originalRange/MinLevel anchored at
//     the original minimum.
//
// When the legal range is itself >= the pannable area the center band
// collapses to a single value and panning is effectively disabled on that
// axis; Clamp resolves the collapsed band to its midpoint, so repeated
// application cannot oscillate. The stage order is observable behavior at
// the extremes and is locked in by regression tests; do not reorder.
func ConstrainBounds(candidate, original coords.Bounds, limits ZoomLimits) coords.Bounds {
	xMin, xMax := constrainAxis(candidate.XMin, candidate.XMax, original.XMin, original.XMax, limits)
	yMin, yMax := constrainAxis(candidate.YMin, candidate.YMax, original.YMin, original.YMax, limits)
	return coords.Bounds{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
}

func constrainAxis(candMin, candMax, origMin, origMax float64, limits ZoomLimits) (float64, float64) {
	origRange := origMax - origMin
	if origRange == 0 {
		return origMin, origMax
	}

	// Stage 1: zoom-level clamp, re-centered on the candidate center.
	maxRange := origRange / limits.MinLevel
	minRange := origRange / limits.MaxLevel
	r := candMax - candMin
	center := (candMin + candMax) / 2
	r = geom.Clamp(r, minRange, maxRange)

	// Stage 2: pan-boundary clamp of the center within the pannable area.
	pannable := origRange / limits.MinLevel
	loCenter := origMin + r/2
	hiCenter := origMin + pannable - r/2
	center = geom.Clamp(center, loCenter, hiCenter)

	return center - r/2, center + r/2
}

// WheelZoomFactor maps a signed scroll delta to a bounded multiplicative
// zoom factor. Positive deltas zoom in. The change is clamped to ±30%
// regardless of delta magnitude, scaled by the configured speed.
func WheelZoomFactor(scrollDelta, zoomSpeed float64) float64 {
	change := geom.Clamp(scrollDelta*zoomSpeed*wheelDeltaScale, -maxWheelZoomChange, maxWheelZoomChange)
	return 1 + change
}
