package interact

import (
	"math"
	"sync"
	"time"

	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/geom"
)

// AnimatorOptions configures the zoom animation engine and its built-in
// policies. Zero values select the defaults noted per field.
type AnimatorOptions struct {
	// Duration of a full animation. Zero or negative disables animation
	// entirely: every policy degrades to an instantaneous bound replacement
	// with a synchronous completion callback and no timer.
	Duration time.Duration
	// Interval between animation ticks. Default 16ms (~60fps).
	Interval time.Duration
	// Easing curve. Default EaseOutCubic.
	Easing Easing
	// DoubleTapFactor is the zoom applied by a double tap on an unzoomed
	// chart. Default 2.
	DoubleTapFactor float64
	// StepFactor multiplies/divides the range for the step zoom controls.
	// Default 2.
	StepFactor float64
	// MinSelectionPx is the minimum rubber-band selection size in pixels; smaller
	// selections are rejected. Default 20.
	MinSelectionPx float64
}

func (o AnimatorOptions) withDefaults() AnimatorOptions {
	if o.Interval <= 0 {
		o.Interval = 16 * time.Millisecond
	}
	if o.Easing == nil {
		o.Easing = EaseOutCubic
	}
	if o.DoubleTapFactor <= 0 {
		o.DoubleTapFactor = 2
	}
	if o.StepFactor <= 0 {
		o.StepFactor = 2
	}
	if o.MinSelectionPx <= 0 {
		o.MinSelectionPx = 20
	}
	return o
}

// ZoomAnimator drives timed interpolation between two bound states. It is
// owned by (not inherited into) the state machine and is independently
// testable against a ManualScheduler.
//
// The update callback receives a new viewport every tick; the completion
// callback fires once the eased fraction reaches 1.0 (callers use it to
// recompute "is this chart currently zoomed away from default"). A cancelled
// animation fires neither again.
type ZoomAnimator struct {
	sched    Scheduler
	opts     AnimatorOptions
	update   func(coords.Bounds)
	complete func()

	mu     sync.Mutex
	tick   Handle
	gen    int // incremented on every cancel/start; stale ticks no-op
	from   coords.Bounds
	to     coords.Bounds
	frame  int
	frames int
}

// NewZoomAnimator builds an animator publishing through update and complete.
// Either callback may be nil.
func NewZoomAnimator(sched Scheduler, opts AnimatorOptions, update func(coords.Bounds), complete func()) *ZoomAnimator {
	return &ZoomAnimator{
		sched:    sched,
		opts:     opts.withDefaults(),
		update:   update,
		complete: complete,
	}
}

// Running reports whether an animation is in flight.
func (a *ZoomAnimator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tick != nil
}

// Cancel stops any in-flight animation without firing further callbacks.
func (a *ZoomAnimator) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelLocked()
}

func (a *ZoomAnimator) cancelLocked() {
	a.gen++
	if a.tick != nil {
		a.tick.Cancel()
		a.tick = nil
	}
}

// AnimateTo cancels any in-flight animation and animates from the given
// start bounds to target. With animation disabled the target is published
// immediately and completion fires synchronously.
func (a *ZoomAnimator) AnimateTo(from, to coords.Bounds) {
	a.mu.Lock()
	a.cancelLocked()

	if a.opts.Duration <= 0 {
		a.mu.Unlock()
		a.publish(to)
		a.finish()
		return
	}

	frames := int(a.opts.Duration / a.opts.Interval)
	if frames < 1 {
		frames = 1
	}
	a.from, a.to = from, to
	a.frame, a.frames = 0, frames
	gen := a.gen
	a.tick = a.sched.Schedule(a.opts.Interval, func() { a.step(gen) })
	a.mu.Unlock()
}

func (a *ZoomAnimator) step(gen int) {
	a.mu.Lock()
	if gen != a.gen {
		// Cancelled or superseded while this tick was queued.
		a.mu.Unlock()
		return
	}
	a.frame++
	t := float64(a.frame) / float64(a.frames)
	eased := a.opts.Easing(t)
	b := lerpBounds(a.from, a.to, eased)

	done := a.frame >= a.frames
	if done {
		a.tick = nil
		b = a.to // land exactly on target regardless of easing arithmetic
	} else {
		a.tick = a.sched.Schedule(a.opts.Interval, func() { a.step(gen) })
	}
	a.mu.Unlock()

	a.publish(b)
	if done {
		a.finish()
	}
}

func (a *ZoomAnimator) publish(b coords.Bounds) {
	if a.update != nil {
		a.update(b)
	}
}

func (a *ZoomAnimator) finish() {
	if a.complete != nil {
		a.complete()
	}
}

// lerpBounds interpolates all four bound scalars independently.
func lerpBounds(from, to coords.Bounds, t float64) coords.Bounds {
	return coords.Bounds{
		XMin: from.XMin + (to.XMin-from.XMin)*t,
		XMax: from.XMax + (to.XMax-from.XMax)*t,
		YMin: from.YMin + (to.YMin-from.YMin)*t,
		YMax: from.YMax + (to.YMax-from.YMax)*t,
	}
}

// DoubleTap zooms in by DoubleTapFactor centered on the tap point when the
// chart is at its original viewport, subject to the same zoom-level and
// pan-boundary clamps as direct manipulation; when already zoomed or panned
// it animates back to the original bounds instead.
func (a *ZoomAnimator) DoubleTap(cs, original coords.CoordinateSystem, tap geom.Point, limits ZoomLimits, mode ZoomMode) {
	if cs.IsZoomedOrPanned(original) {
		a.AnimateTo(cs.Bounds(), original.Bounds())
		return
	}
	target := ConstrainBounds(
		ZoomedBounds(cs, a.opts.DoubleTapFactor, tap, mode),
		original.Bounds(), limits)
	a.AnimateTo(cs.Bounds(), target)
}

// SelectionZoom animates to the data bounds under a rubber-band selection
// rectangle. Selections under MinSelectionPx on either side are rejected and
// leave the viewport untouched. The rectangle's screen Y order inverts into
// data space: the rect top is the data Y maximum.
func (a *ZoomAnimator) SelectionZoom(cs, original coords.CoordinateSystem, sel geom.Rect, limits ZoomLimits) bool {
	if sel.Width() < a.opts.MinSelectionPx || sel.Height() < a.opts.MinSelectionPx {
		return false
	}

	x1 := cs.ScreenToDataX(sel.Left)
	x2 := cs.ScreenToDataX(sel.Right)
	y1 := cs.ScreenToDataY(sel.Top)
	y2 := cs.ScreenToDataY(sel.Bottom)

	target := coords.Bounds{
		XMin: math.Min(x1, x2),
		XMax: math.Max(x1, x2),
		YMin: math.Min(y1, y2),
		YMax: math.Max(y1, y2),
	}
	a.AnimateTo(cs.Bounds(), ConstrainBounds(target, original.Bounds(), limits))
	return true
}

// StepZoomIn shrinks the range by StepFactor around the viewport center,
// clamped identically to direct manipulation.
func (a *ZoomAnimator) StepZoomIn(cs, original coords.CoordinateSystem, limits ZoomLimits, mode ZoomMode) {
	a.stepZoom(cs, original, a.opts.StepFactor, limits, mode)
}

// StepZoomOut widens the range by StepFactor around the viewport center.
func (a *ZoomAnimator) StepZoomOut(cs, original coords.CoordinateSystem, limits ZoomLimits, mode ZoomMode) {
	a.stepZoom(cs, original, 1/a.opts.StepFactor, limits, mode)
}

func (a *ZoomAnimator) stepZoom(cs, original coords.CoordinateSystem, factor float64, limits ZoomLimits, mode ZoomMode) {
	center := cs.ChartArea().Center()
	target := ConstrainBounds(
		ZoomedBounds(cs, factor, center, mode),
		original.Bounds(), limits)
	a.AnimateTo(cs.Bounds(), target)
}
