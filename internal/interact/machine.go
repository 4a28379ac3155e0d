package interact

import (
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/geom"
	"github.com/banshee-data/chartkit/internal/hittest"
)

// DismissPolicy controls how an overlay (tooltip or crosshair) goes away
// after the pointer releases.
type DismissPolicy int

const (
	// DismissImmediate hides the overlay as soon as the pointer releases.
	DismissImmediate DismissPolicy = iota
	// DismissDelayed hides the overlay a configured delay after release.
	DismissDelayed
	// DismissNever keeps the overlay until the next interaction replaces or
	// clears it.
	DismissNever
)

// OverlayConfig is the per-overlay dismissal policy. Delay applies only to
// DismissDelayed.
type OverlayConfig struct {
	Policy DismissPolicy
	Delay  time.Duration
}

// MachineConfig carries the chart-level interaction configuration, treated
// as opaque read-only parameters from the host.
type MachineConfig struct {
	ZoomMode ZoomMode
	PanMode  PanMode
	Limits   ZoomLimits

	// WheelZoomSpeed scales WheelZoomFactor. Default 1.
	WheelZoomSpeed float64
	// SnapRadius is the hit/trackball snap radius in pixels. Default 30.
	SnapRadius float64
	// LongPressThreshold classifies a release as tap vs long press.
	// Default 500ms.
	LongPressThreshold time.Duration
	// PanSlopPx is how far a held pointer travels before the drag is
	// classified as a pan. Default 8.
	PanSlopPx float64

	Tooltip   OverlayConfig
	Crosshair OverlayConfig
	Trackball TrackballMode
}

func (c MachineConfig) withDefaults() MachineConfig {
	if c.Limits == (ZoomLimits{}) {
		c.Limits = DefaultZoomLimits()
	}
	if c.WheelZoomSpeed <= 0 {
		c.WheelZoomSpeed = 1
	}
	if c.SnapRadius <= 0 {
		c.SnapRadius = 30
	}
	if c.LongPressThreshold <= 0 {
		c.LongPressThreshold = 500 * time.Millisecond
	}
	if c.PanSlopPx <= 0 {
		c.PanSlopPx = 8
	}
	return c
}

// TesterFactory builds the chart family's hit tester for a coordinate
// system. The machine invokes it on construction and again whenever the
// active coordinate system or the underlying data changes, so hit geometry
// always matches what the renderer draws under the same system.
type TesterFactory func(coords.CoordinateSystem) hittest.Tester

// MachineOptions carries the injected collaborators.
type MachineOptions struct {
	// Scheduler defaults to RealScheduler.
	Scheduler Scheduler
	// Animator configures the owned ZoomAnimator.
	Animator AnimatorOptions
	// TesterFor is required: the per-family hit-test strategy.
	TesterFor TesterFactory
	// OnChange fires after every state mutation. Optional.
	OnChange func()
}

// Machine is the interactive state machine: the only component in the
// engine with mutable state and a lifecycle. One instance exists per mounted
// chart. Interaction states are independent boolean flags rather than one
// exclusive enum; a tooltip stays visible while a pan begins.
//
// All mutation is serialized by an internal mutex so scheduler callbacks
// delivered off the host event loop cannot interleave with gesture handling.
// After Dispose every method is a no-op.
type Machine struct {
	mu       sync.Mutex
	cfg      MachineConfig
	sched    Scheduler
	animator *ZoomAnimator
	onChange func()

	testerFor   TesterFactory
	tester      hittest.Tester
	pointTester *hittest.PointTester // non-nil when the family tester is point-based

	cs       coords.CoordinateSystem // current; replaced wholesale on every change
	original coords.CoordinateSystem // pre-zoom anchor; fixed until structural data change

	disposed bool

	pointerDown    bool
	pointerDownAt  time.Time
	pointerDownPos geom.Point
	lastPointer    geom.Point
	panning        bool
	zooming        bool

	tooltip          hittest.Result // nil while hidden
	crosshair        Crosshair
	crosshairVisible bool

	probeActive bool
	probeDataX  float64
	probeDataY  float64

	selecting bool
	selStart  geom.Point
	selCur    geom.Point

	tooltipTimerGen   int
	crosshairTimerGen int
	hideTooltipTimer  Handle
	hideCrosshairTmr  Handle
}

// NewMachine creates a state machine anchored at cs. The original (pre-zoom)
// coordinate system is fixed to cs until ResetOriginal.
func NewMachine(cs coords.CoordinateSystem, cfg MachineConfig, opts MachineOptions) (*Machine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Limits.Validate(); err != nil {
		return nil, err
	}
	if opts.TesterFor == nil {
		return nil, fmt.Errorf("interact: MachineOptions.TesterFor is required")
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler{}
	}

	m := &Machine{
		cfg:       cfg,
		sched:     opts.Scheduler,
		onChange:  opts.OnChange,
		testerFor: opts.TesterFor,
		cs:        cs,
		original:  cs,
	}
	m.animator = NewZoomAnimator(opts.Scheduler, opts.Animator, m.applyAnimatedBounds, m.onAnimationDone)
	m.rebuildTesterLocked()
	return m, nil
}

// ---------------------------------------------------------------------------
// Outputs to the presentation layer
// ---------------------------------------------------------------------------

// CoordinateSystem returns the current (possibly zoomed/panned) system.
func (m *Machine) CoordinateSystem() coords.CoordinateSystem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cs
}

// Original returns the pre-zoom anchor system.
func (m *Machine) Original() coords.CoordinateSystem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.original
}

// Tooltip returns the current tooltip datum, or ok=false while hidden.
func (m *Machine) Tooltip() (hittest.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tooltip, m.tooltip != nil
}

// CrosshairState returns the crosshair position and snapped point, or
// ok=false while hidden.
func (m *Machine) CrosshairState() (Crosshair, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.crosshair, m.crosshairVisible
}

// Panning reports whether a pan drag is in progress.
func (m *Machine) Panning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.panning
}

// Zooming reports whether a pinch or zoom animation is in progress.
func (m *Machine) Zooming() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.zooming
}

// PointerIsDown reports whether a pointer is currently held.
func (m *Machine) PointerIsDown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pointerDown
}

// Disposed reports whether Dispose has run.
func (m *Machine) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

// ---------------------------------------------------------------------------
// Pointer / gesture event stream
// ---------------------------------------------------------------------------

// PointerDown records the press and runs a hit test: a hit shows the
// tooltip, a miss hides it.
func (m *Machine) PointerDown(pos geom.Point) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.pointerDown = true
	m.pointerDownAt = m.sched.Now()
	m.pointerDownPos = pos
	m.lastPointer = pos
	m.panning = false

	if res, ok := m.tester.Test(pos); ok {
		m.showTooltipLocked(res)
		m.updateCrosshairLocked(pos)
	} else {
		m.hideTooltipLocked()
	}
	m.mu.Unlock()
	m.notifyChange()
}

// PointerMove handles movement while the pointer is held. Once the drag
// travels past the pan slop it is classified as a pan (when panning is
// enabled) and bounds replace hit-test updates; otherwise the tooltip and
// crosshair re-resolve under the moving pointer. A move that misses every
// datum keeps the last tooltip rather than hiding it: a held finger wobbling
// off a point should not flicker the overlay, and release applies the
// dismissal policy anyway.
func (m *Machine) PointerMove(pos geom.Point) {
	m.mu.Lock()
	if m.disposed || !m.pointerDown {
		m.mu.Unlock()
		return
	}

	delta := pos.Sub(m.lastPointer)
	if !m.panning && m.cfg.PanMode != PanNone &&
		pos.DistanceTo(m.pointerDownPos) > m.cfg.PanSlopPx {
		m.panning = true
	}

	if m.panning {
		b := PannedBounds(m.cs, delta, m.cfg.PanMode)
		m.replaceViewportLocked(ConstrainBounds(b, m.original.Bounds(), m.cfg.Limits))
	} else {
		if res, ok := m.tester.Test(pos); ok {
			m.showTooltipLocked(res)
		}
		m.updateCrosshairLocked(pos)
	}
	m.lastPointer = pos
	m.mu.Unlock()
	m.notifyChange()
}

// PointerUp classifies the press duration against the long-press threshold
// and applies the configured dismissal policy independently to the tooltip
// and the crosshair. A short tap dismisses transient overlays on release; a
// long press hands them to their policies.
func (m *Machine) PointerUp(pos geom.Point) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	longPress := m.sched.Now().Sub(m.pointerDownAt) >= m.cfg.LongPressThreshold
	m.pointerDown = false
	m.panning = false

	if m.tooltip != nil {
		m.dismissAfterRelease(longPress, m.cfg.Tooltip, m.hideTooltipLocked, m.scheduleTooltipHideLocked)
	}
	if m.crosshairVisible {
		m.dismissAfterRelease(longPress, m.cfg.Crosshair, m.hideCrosshairLocked, m.scheduleCrosshairHideLocked)
	}
	m.mu.Unlock()
	m.notifyChange()
}

// dismissAfterRelease applies one overlay's policy. Must hold m.mu.
func (m *Machine) dismissAfterRelease(longPress bool, cfg OverlayConfig, hide func(), delay func(time.Duration)) {
	if !longPress {
		// A quick tap shows its overlay only transiently unless configured
		// to persist.
		if cfg.Policy != DismissNever {
			hide()
		}
		return
	}
	switch cfg.Policy {
	case DismissImmediate:
		hide()
	case DismissDelayed:
		delay(cfg.Delay)
	case DismissNever:
	}
}

// PointerCancel unconditionally clears pointer state and hides both
// overlays.
func (m *Machine) PointerCancel() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.pointerDown = false
	m.panning = false
	m.selecting = false
	m.hideTooltipLocked()
	m.hideCrosshairLocked()
	m.mu.Unlock()
	m.notifyChange()
}

// Hover updates the crosshair while no pointer is held, using the
// configured trackball strategy.
func (m *Machine) Hover(pos geom.Point) {
	m.mu.Lock()
	if m.disposed || m.pointerDown {
		m.mu.Unlock()
		return
	}
	m.updateCrosshairLocked(pos)
	m.mu.Unlock()
	m.notifyChange()
}

// Scroll applies a wheel zoom step focused on the pointer position.
func (m *Machine) Scroll(pos geom.Point, delta float64) {
	m.mu.Lock()
	if m.disposed || m.cfg.ZoomMode == ZoomNone {
		m.mu.Unlock()
		return
	}
	factor := WheelZoomFactor(delta, m.cfg.WheelZoomSpeed)
	b := ZoomedBounds(m.cs, factor, pos, m.cfg.ZoomMode)
	m.replaceViewportLocked(ConstrainBounds(b, m.original.Bounds(), m.cfg.Limits))
	m.mu.Unlock()
	m.notifyChange()
}

// PinchUpdate applies one step of a pinch gesture: scale is the incremental
// scale factor since the last update, focal the gesture midpoint.
func (m *Machine) PinchUpdate(scale float64, focal geom.Point) {
	m.mu.Lock()
	if m.disposed || m.cfg.ZoomMode == ZoomNone {
		m.mu.Unlock()
		return
	}
	m.zooming = true
	b := ZoomedBounds(m.cs, scale, focal, m.cfg.ZoomMode)
	m.replaceViewportLocked(ConstrainBounds(b, m.original.Bounds(), m.cfg.Limits))
	m.mu.Unlock()
	m.notifyChange()
}

// PinchEnd marks the end of a pinch gesture.
func (m *Machine) PinchEnd() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.zooming = false
	m.mu.Unlock()
	m.notifyChange()
}

// DoubleTap runs the double-tap zoom policy at the tap position.
func (m *Machine) DoubleTap(pos geom.Point) {
	m.mu.Lock()
	if m.disposed || m.cfg.ZoomMode == ZoomNone {
		m.mu.Unlock()
		return
	}
	cs, original, limits, mode := m.cs, m.original, m.cfg.Limits, m.cfg.ZoomMode
	m.zooming = true
	m.mu.Unlock()

	// Animator callbacks re-enter the machine; run it unlocked.
	m.animator.DoubleTap(cs, original, pos, limits, mode)
}

// ---------------------------------------------------------------------------
// Rubber-band selection zoom
// ---------------------------------------------------------------------------

// BeginSelection starts tracking a rubber-band selection drag.
func (m *Machine) BeginSelection(pos geom.Point) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.selecting = true
	m.selStart = pos
	m.selCur = pos
	m.mu.Unlock()
	m.notifyChange()
}

// UpdateSelection extends the selection to the current drag position.
func (m *Machine) UpdateSelection(pos geom.Point) {
	m.mu.Lock()
	if m.disposed || !m.selecting {
		m.mu.Unlock()
		return
	}
	m.selCur = pos
	m.mu.Unlock()
	m.notifyChange()
}

// SelectionRect returns the current selection rectangle while a selection
// drag is active.
func (m *Machine) SelectionRect() (geom.Rect, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.selecting {
		return geom.Rect{}, false
	}
	return geom.RectFromCorners(m.selStart, m.selCur), true
}

// EndSelection finishes the drag and zooms to the selection, rejecting
// selections under the minimum pixel size. Returns whether a zoom started.
func (m *Machine) EndSelection(pos geom.Point) bool {
	m.mu.Lock()
	if m.disposed || !m.selecting {
		m.mu.Unlock()
		return false
	}
	m.selecting = false
	sel := geom.RectFromCorners(m.selStart, pos)
	cs, original, limits := m.cs, m.original, m.cfg.Limits
	// The flag must be raised before the animator runs: with animation
	// disabled the zoom completes synchronously inside SelectionZoom and
	// onAnimationDone clears it there.
	m.zooming = true
	m.mu.Unlock()

	accepted := m.animator.SelectionZoom(cs, original, sel, limits)
	if !accepted {
		m.mu.Lock()
		m.zooming = false
		m.mu.Unlock()
	}
	m.notifyChange()
	return accepted
}

// ---------------------------------------------------------------------------
// Imperative control surface
// ---------------------------------------------------------------------------

// ZoomIn steps the zoom in around the viewport center.
func (m *Machine) ZoomIn() {
	m.stepZoom(func(cs, orig coords.CoordinateSystem) {
		m.animator.StepZoomIn(cs, orig, m.cfg.Limits, m.cfg.ZoomMode)
	})
}

// ZoomOut steps the zoom out around the viewport center.
func (m *Machine) ZoomOut() {
	m.stepZoom(func(cs, orig coords.CoordinateSystem) {
		m.animator.StepZoomOut(cs, orig, m.cfg.Limits, m.cfg.ZoomMode)
	})
}

func (m *Machine) stepZoom(run func(cs, orig coords.CoordinateSystem)) {
	m.mu.Lock()
	if m.disposed || m.cfg.ZoomMode == ZoomNone {
		m.mu.Unlock()
		return
	}
	cs, orig := m.cs, m.original
	m.zooming = true
	m.mu.Unlock()
	run(cs, orig)
}

// Reset animates back to the original bounds.
func (m *Machine) Reset() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	cs, orig := m.cs, m.original
	m.zooming = true
	m.mu.Unlock()
	m.animator.AnimateTo(cs.Bounds(), orig.Bounds())
}

// SetViewportRange pins the visible window, the auto-scroll path for live
// charts. The optional yRange supplies yMin, yMax; omitted, the current Y
// viewport is kept. The live probe re-resolves against the new window.
func (m *Machine) SetViewportRange(xMin, xMax float64, yRange ...float64) error {
	if xMax < xMin {
		return fmt.Errorf("interact: xMax %v < xMin %v", xMax, xMin)
	}
	if len(yRange) != 0 && len(yRange) != 2 {
		return fmt.Errorf("interact: yRange wants 2 values, got %d", len(yRange))
	}

	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return nil
	}
	b := m.cs.Bounds()
	b.XMin, b.XMax = xMin, xMax
	if len(yRange) == 2 {
		if yRange[1] < yRange[0] {
			m.mu.Unlock()
			return fmt.Errorf("interact: yMax %v < yMin %v", yRange[1], yRange[0])
		}
		b.YMin, b.YMax = yRange[0], yRange[1]
	}
	m.replaceViewportLocked(b)
	m.resolveProbeLocked()
	m.mu.Unlock()
	m.notifyChange()
	return nil
}

// UpdateCoordinateSystem propagates a layout or resize change. While an
// interaction is active or the chart is zoomed away from default, only the
// chart area is adopted and the current viewport is preserved; otherwise the
// new system replaces the current one wholesale. The original anchor adopts
// the new chart area either way.
func (m *Machine) UpdateCoordinateSystem(newCS coords.CoordinateSystem) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	interacting := m.pointerDown || m.panning || m.zooming
	if interacting || m.cs.IsZoomedOrPanned(m.original) {
		// Preserve the interaction's viewport under the new layout.
		if cur, err := newCS.WithViewport(m.cs.Bounds()); err == nil {
			m.cs = cur
		}
	} else {
		m.cs = newCS
	}
	m.original = m.original.WithChartArea(newCS.ChartArea())
	m.rebuildTesterLocked()
	m.resolveProbeLocked()
	m.mu.Unlock()
	m.notifyChange()
}

// SetData replaces the hit-test factory after a data change and rebuilds
// the tester under the current coordinate system. The live probe (or held
// pointer, or visible overlay) re-resolves against the new data.
func (m *Machine) SetData(factory TesterFactory) {
	m.mu.Lock()
	if m.disposed || factory == nil {
		m.mu.Unlock()
		return
	}
	m.testerFor = factory
	m.rebuildTesterLocked()
	m.resolveProbeLocked()
	m.mu.Unlock()
	m.notifyChange()
}

// ResetOriginal re-anchors the original coordinate system to the current
// one; call after a structural data change redefines "unzoomed".
func (m *Machine) ResetOriginal() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.original = m.cs
	m.mu.Unlock()
	m.notifyChange()
}

// PinProbe pins the live probe at a screen position. The probe anchors to
// the data-space location under it, independent of the live pointer, and
// every subsequent data or viewport update re-resolves the overlay there.
func (m *Machine) PinProbe(pos geom.Point) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.probeActive = true
	m.probeDataX = m.cs.ScreenToDataX(pos.X)
	m.probeDataY = m.cs.ScreenToDataY(pos.Y)
	m.resolveProbeLocked()
	m.mu.Unlock()
	m.notifyChange()
}

// ClearProbe unpins the live probe, leaving any visible overlays in place.
func (m *Machine) ClearProbe() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.probeActive = false
	m.mu.Unlock()
	m.notifyChange()
}

// Dispose cancels every pending timer and any in-flight animation, then
// marks the machine dead: all further method calls, including timer
// callbacks already in flight, are silent no-ops.
func (m *Machine) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	m.cancelTooltipHideLocked()
	m.cancelCrosshairHideLocked()
	m.mu.Unlock()
	m.animator.Cancel()
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

// replaceViewportLocked swaps in a new coordinate system carrying b and
// rebuilds the hit tester against it. Must hold m.mu.
func (m *Machine) replaceViewportLocked(b coords.Bounds) {
	cs, err := m.cs.WithViewport(b)
	if err != nil {
		// Interaction math only produces ordered bounds; an error here is a
		// programming bug upstream, not a runtime condition to handle.
		return
	}
	m.cs = cs
	m.rebuildTesterLocked()
}

func (m *Machine) rebuildTesterLocked() {
	m.tester = m.testerFor(m.cs)
	m.pointTester, _ = m.tester.(*hittest.PointTester)
}

func (m *Machine) showTooltipLocked(res hittest.Result) {
	m.cancelTooltipHideLocked()
	m.tooltip = res
}

func (m *Machine) hideTooltipLocked() {
	m.cancelTooltipHideLocked()
	m.tooltip = nil
}

func (m *Machine) hideCrosshairLocked() {
	m.cancelCrosshairHideLocked()
	m.crosshairVisible = false
	m.crosshair = Crosshair{}
}

// updateCrosshairLocked re-resolves the crosshair for a pointer position
// using the configured trackball strategy. Must hold m.mu.
func (m *Machine) updateCrosshairLocked(pos geom.Point) {
	if m.pointTester == nil {
		return
	}
	ch, retain := resolveTrackball(m.cfg.Trackball, m.pointTester, pos, m.cfg.SnapRadius)
	if retain {
		// Strategy keeps the previous point; only light up if one exists.
		return
	}
	m.cancelCrosshairHideLocked()
	m.crosshair = ch
	m.crosshairVisible = true
}

// scheduleTooltipHideLocked arms the tooltip hide timer. Every show cancels
// any pending hide first, so at most one hide timer is outstanding.
func (m *Machine) scheduleTooltipHideLocked(d time.Duration) {
	m.cancelTooltipHideLocked()
	m.tooltipTimerGen++
	gen := m.tooltipTimerGen
	m.hideTooltipTimer = m.sched.Schedule(d, func() { m.onTooltipHideTimer(gen) })
}

func (m *Machine) onTooltipHideTimer(gen int) {
	m.mu.Lock()
	if m.disposed || gen != m.tooltipTimerGen {
		// Raced a newer show/hide or disposal; stay silent.
		m.mu.Unlock()
		return
	}
	m.hideTooltipTimer = nil
	m.tooltip = nil
	m.mu.Unlock()
	m.notifyChange()
}

func (m *Machine) cancelTooltipHideLocked() {
	m.tooltipTimerGen++
	if m.hideTooltipTimer != nil {
		m.hideTooltipTimer.Cancel()
		m.hideTooltipTimer = nil
	}
}

func (m *Machine) scheduleCrosshairHideLocked(d time.Duration) {
	m.cancelCrosshairHideLocked()
	m.crosshairTimerGen++
	gen := m.crosshairTimerGen
	m.hideCrosshairTmr = m.sched.Schedule(d, func() { m.onCrosshairHideTimer(gen) })
}

func (m *Machine) onCrosshairHideTimer(gen int) {
	m.mu.Lock()
	if m.disposed || gen != m.crosshairTimerGen {
		m.mu.Unlock()
		return
	}
	m.hideCrosshairTmr = nil
	m.crosshairVisible = false
	m.crosshair = Crosshair{}
	m.mu.Unlock()
	m.notifyChange()
}

func (m *Machine) cancelCrosshairHideLocked() {
	m.crosshairTimerGen++
	if m.hideCrosshairTmr != nil {
		m.hideCrosshairTmr.Cancel()
		m.hideCrosshairTmr = nil
	}
}

// resolveProbeLocked re-resolves the live overlay after a data or viewport
// update. The anchor is taken in priority order from the pinned probe, the
// held pointer, or the existing overlay's point; resolution runs by anchor X
// with the anchor Y disambiguating overlapping series. When that X has scrolled
// outside the visible chart area the probe is cleared and both overlays
// hidden, so a tooltip never drifts to a stale screen location. Must hold
// m.mu.
func (m *Machine) resolveProbeLocked() {
	if m.pointTester == nil {
		return
	}

	var anchor geom.Point
	fromData := false
	switch {
	case m.probeActive:
		anchor = geom.Pt(m.cs.DataToScreenX(m.probeDataX), m.cs.DataToScreenY(m.probeDataY))
		fromData = true
	case m.pointerDown:
		anchor = m.lastPointer
	case m.crosshairVisible && m.crosshair.HasPoint:
		p := m.crosshair.Point.Point
		anchor = geom.Pt(m.cs.DataToScreenX(p.X), m.cs.DataToScreenY(p.Y))
		fromData = true
	case m.tooltip != nil:
		if pr, ok := m.tooltip.(hittest.PointResult); ok {
			anchor = geom.Pt(m.cs.DataToScreenX(pr.Point.X), m.cs.DataToScreenY(pr.Point.Y))
			fromData = true
		} else {
			return
		}
	default:
		return
	}

	area := m.cs.ChartArea()
	if fromData && (anchor.X < area.Left || anchor.X > area.Right) {
		m.probeActive = false
		m.hideTooltipLocked()
		m.hideCrosshairLocked()
		return
	}

	res, ok := m.pointTester.NearestByXThenY(anchor)
	if !ok {
		return
	}
	if m.tooltip != nil || m.probeActive {
		m.showTooltipLocked(res)
	}
	m.crosshair = Crosshair{Pos: res.ScreenPos, Point: res, HasPoint: true}
	m.crosshairVisible = true
}

func (m *Machine) applyAnimatedBounds(b coords.Bounds) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.replaceViewportLocked(b)
	m.mu.Unlock()
	m.notifyChange()
}

func (m *Machine) onAnimationDone() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.zooming = false
	m.resolveProbeLocked()
	m.mu.Unlock()
	m.notifyChange()
}

func (m *Machine) notifyChange() {
	if m.onChange != nil {
		m.onChange()
	}
}
