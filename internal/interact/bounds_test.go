package interact

import (
	"math"
	"math/rand"
	"testing"

	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/geom"
)

func testSystem(t *testing.T) coords.CoordinateSystem {
	t.Helper()
	return coords.MustNew(
		geom.RectFromLTWH(0, 0, 300, 200),
		coords.Bounds{XMin: 0, XMax: 10, YMin: 0, YMax: 100},
		coords.Options{},
	)
}

// TestZoomAnchor pins the zoom-anchor behavior: zoom factor 2.0 at focal
// screen point (150,100) (data (5,50)) yields x in [2.5,7.5], and the focal
// datum maps to the same screen pixel before and after.
func TestZoomAnchor(t *testing.T) {
	cs := testSystem(t)
	focal := geom.Pt(150, 100)

	before := cs.DataToScreen(5, 50)
	b := ZoomedBounds(cs, 2.0, focal, ZoomBoth)

	if b.XMin != 2.5 || b.XMax != 7.5 {
		t.Errorf("zoomed X = [%v,%v], want [2.5,7.5]", b.XMin, b.XMax)
	}
	if b.YMin != 25 || b.YMax != 75 {
		t.Errorf("zoomed Y = [%v,%v], want [25,75]", b.YMin, b.YMax)
	}

	zoomed, err := cs.WithViewport(b)
	if err != nil {
		t.Fatalf("WithViewport: %v", err)
	}
	after := zoomed.DataToScreen(5, 50)
	if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
		t.Errorf("focal datum moved: %+v -> %+v", before, after)
	}
}

func TestZoomedBounds_ModeGating(t *testing.T) {
	cs := testSystem(t)
	focal := geom.Pt(150, 100)
	orig := cs.Bounds()

	bx := ZoomedBounds(cs, 2, focal, ZoomX)
	if bx.XRange() != 5 || bx.YMin != orig.YMin || bx.YMax != orig.YMax {
		t.Errorf("ZoomX should leave Y untouched: %+v", bx)
	}
	by := ZoomedBounds(cs, 2, focal, ZoomY)
	if by.YRange() != 50 || by.XMin != orig.XMin || by.XMax != orig.XMax {
		t.Errorf("ZoomY should leave X untouched: %+v", by)
	}
	bn := ZoomedBounds(cs, 2, focal, ZoomNone)
	if bn != orig {
		t.Errorf("ZoomNone should be identity: %+v", bn)
	}
}

func TestZoomedBounds_Degenerate(t *testing.T) {
	cs := testSystem(t)
	if b := ZoomedBounds(cs, 0, geom.Pt(150, 100), ZoomBoth); b != cs.Bounds() {
		t.Errorf("non-positive scale should be identity, got %+v", b)
	}

	flat := coords.MustNew(geom.RectFromLTWH(0, 0, 300, 200),
		coords.Bounds{XMin: 5, XMax: 5, YMin: 0, YMax: 100}, coords.Options{})
	b := ZoomedBounds(flat, 2, geom.Pt(150, 100), ZoomBoth)
	if b.XMin != 5 || b.XMax != 5 {
		t.Errorf("zero-range X axis must stay untouched, got [%v,%v]", b.XMin, b.XMax)
	}
	if b.YRange() != 50 {
		t.Errorf("live Y axis should still zoom, range %v", b.YRange())
	}
}

func TestPannedBounds_DirectionAndModes(t *testing.T) {
	cs := testSystem(t) // 30 px per X unit, 2 px per Y unit

	// Dragging right by 30px moves content right: viewport shifts left one
	// X unit. Dragging down by 20px shifts the viewport up 10 Y units.
	b := PannedBounds(cs, geom.Pt(30, 20), PanBoth)
	want := coords.Bounds{XMin: -1, XMax: 9, YMin: 10, YMax: 110}
	if b != want {
		t.Errorf("PanBoth = %+v, want %+v", b, want)
	}

	bx := PannedBounds(cs, geom.Pt(30, 20), PanX)
	if bx.XMin != -1 || bx.YMin != 0 {
		t.Errorf("PanX should shift X only: %+v", bx)
	}
	by := PannedBounds(cs, geom.Pt(30, 20), PanY)
	if by.XMin != 0 || by.YMin != 10 {
		t.Errorf("PanY should shift Y only: %+v", by)
	}
	bn := PannedBounds(cs, geom.Pt(30, 20), PanNone)
	if bn != cs.Bounds() {
		t.Errorf("PanNone should be identity: %+v", bn)
	}
}

func TestPannedBounds_InversedAxes(t *testing.T) {
	cs := coords.MustNew(
		geom.RectFromLTWH(0, 0, 300, 200),
		coords.Bounds{XMin: 0, XMax: 10, YMin: 0, YMax: 100},
		coords.Options{XInversed: true},
	)
	b := PannedBounds(cs, geom.Pt(30, 0), PanX)
	if b.XMin != 1 {
		t.Errorf("inversed X drag right should shift viewport right: %+v", b)
	}
}

func TestConstrainBounds_ZoomLevelClamp(t *testing.T) {
	orig := coords.Bounds{XMin: 0, XMax: 10, YMin: 0, YMax: 100}
	limits := ZoomLimits{MinLevel: 1, MaxLevel: 4}

	// Too narrow: clamped to originalRange/MaxLevel = 2.5, re-centered on
	// the candidate's own center (5).
	narrow := coords.Bounds{XMin: 4.9, XMax: 5.1, YMin: 0, YMax: 100}
	got := ConstrainBounds(narrow, orig, limits)
	if got.XMin != 3.75 || got.XMax != 6.25 {
		t.Errorf("narrow clamp = [%v,%v], want [3.75,6.25]", got.XMin, got.XMax)
	}

	// Too wide: clamped back to the original range.
	wide := coords.Bounds{XMin: -10, XMax: 30, YMin: 0, YMax: 100}
	got = ConstrainBounds(wide, orig, limits)
	if got.XRange() != 10 {
		t.Errorf("wide clamp range = %v, want 10", got.XRange())
	}
}

func TestConstrainBounds_PanBoundary(t *testing.T) {
	orig := coords.Bounds{XMin: 0, XMax: 10, YMin: 0, YMax: 100}
	limits := ZoomLimits{MinLevel: 1, MaxLevel: 10}

	// A legally zoomed viewport dragged past the right edge is pulled back
	// so it stays inside the pannable area.
	cand := coords.Bounds{XMin: 9, XMax: 11, YMin: 40, YMax: 60}
	got := ConstrainBounds(cand, orig, limits)
	if got.XMax != 10 || got.XMin != 8 {
		t.Errorf("pan clamp = [%v,%v], want [8,10]", got.XMin, got.XMax)
	}

	// Past the left edge.
	cand = coords.Bounds{XMin: -3, XMax: -1, YMin: 40, YMax: 60}
	got = ConstrainBounds(cand, orig, limits)
	if got.XMin != 0 || got.XMax != 2 {
		t.Errorf("pan clamp = [%v,%v], want [0,2]", got.XMin, got.XMax)
	}
}

// TestConstrainBounds_DegenerateBand covers the collapsed center band: when
// the legal range equals the pannable area, panning is disabled without
// oscillation or overshoot.
func TestConstrainBounds_DegenerateBand(t *testing.T) {
	orig := coords.Bounds{XMin: 0, XMax: 10, YMin: 0, YMax: 100}
	limits := ZoomLimits{MinLevel: 1, MaxLevel: 10}

	cand := coords.Bounds{XMin: 3, XMax: 13, YMin: 0, YMax: 100}
	got := ConstrainBounds(cand, orig, limits)
	if got != orig {
		t.Errorf("full-range pan should snap back to original, got %+v", got)
	}
	// Re-applying must not move it again.
	if again := ConstrainBounds(got, orig, limits); again != got {
		t.Errorf("degenerate clamp oscillated: %+v -> %+v", got, again)
	}
}

// TestConstrainBounds_Idempotent is the clamp-idempotence property over
// randomized candidates.
func TestConstrainBounds_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	orig := coords.Bounds{XMin: -20, XMax: 35, YMin: 0, YMax: 1}
	limits := ZoomLimits{MinLevel: 1, MaxLevel: 15}

	for i := 0; i < 2000; i++ {
		c := randomCandidate(rng, orig)
		once := ConstrainBounds(c, orig, limits)
		twice := ConstrainBounds(once, orig, limits)
		if !boundsClose(once, twice, 1e-9) {
			t.Fatalf("not idempotent: %+v -> %+v -> %+v", c, once, twice)
		}
	}
}

// TestConstrainBounds_CenterContainment is the pan-boundary containment
// property: for all candidates the resulting center lies within
// [origMin + range/2, origMin + pannable - range/2] on each axis.
func TestConstrainBounds_CenterContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(123))
	orig := coords.Bounds{XMin: 2, XMax: 12, YMin: -5, YMax: 5}
	limits := ZoomLimits{MinLevel: 1, MaxLevel: 8}

	for i := 0; i < 2000; i++ {
		c := randomCandidate(rng, orig)
		got := ConstrainBounds(c, orig, limits)

		checkAxis := func(axis string, lo, hi, origLo, origHi float64) {
			r := hi - lo
			pannable := (origHi - origLo) / limits.MinLevel
			center := (lo + hi) / 2
			cLo := origLo + r/2
			cHi := origLo + pannable - r/2
			if cLo > cHi {
				cLo, cHi = (cLo+cHi)/2, (cLo+cHi)/2
			}
			if center < cLo-1e-9 || center > cHi+1e-9 {
				t.Fatalf("%s center %v outside [%v,%v] for candidate %+v",
					axis, center, cLo, cHi, c)
			}
		}
		checkAxis("x", got.XMin, got.XMax, orig.XMin, orig.XMax)
		checkAxis("y", got.YMin, got.YMax, orig.YMin, orig.YMax)
	}
}

func TestConstrainBounds_ZeroRangeOriginal(t *testing.T) {
	orig := coords.Bounds{XMin: 5, XMax: 5, YMin: 0, YMax: 10}
	limits := DefaultZoomLimits()
	cand := coords.Bounds{XMin: 0, XMax: 10, YMin: 2, YMax: 4}

	got := ConstrainBounds(cand, orig, limits)
	if got.XMin != 5 || got.XMax != 5 {
		t.Errorf("zero-range original axis should pin the candidate: %+v", got)
	}
	if math.IsNaN(got.YMin) || math.IsNaN(got.YMax) {
		t.Error("live axis must stay finite")
	}
}

func TestWheelZoomFactor(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		speed float64
		want  float64
	}{
		{"one notch in", 120, 1, 1.1},
		{"one notch out", -120, 1, 0.9},
		{"clamped in", 100000, 1, 1.3},
		{"clamped out", -100000, 1, 0.7},
		{"speed doubles", 120, 2, 1.2},
		{"zero delta", 0, 1, 1},
	}
	for _, tt := range tests {
		got := WheelZoomFactor(tt.delta, tt.speed)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: WheelZoomFactor(%v, %v) = %v, want %v",
				tt.name, tt.delta, tt.speed, got, tt.want)
		}
	}
}

func TestZoomLimitsValidate(t *testing.T) {
	if err := (ZoomLimits{MinLevel: 0, MaxLevel: 5}).Validate(); err == nil {
		t.Error("zero MinLevel should fail")
	}
	if err := (ZoomLimits{MinLevel: 2, MaxLevel: 1}).Validate(); err == nil {
		t.Error("MaxLevel < MinLevel should fail")
	}
	if err := DefaultZoomLimits().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func randomCandidate(rng *rand.Rand, orig coords.Bounds) coords.Bounds {
	c := coords.Bounds{}
	xr := orig.XRange() * (0.01 + rng.Float64()*3)
	xc := orig.XMin + (rng.Float64()*4-1.5)*orig.XRange()
	c.XMin, c.XMax = xc-xr/2, xc+xr/2
	yr := orig.YRange() * (0.01 + rng.Float64()*3)
	yc := orig.YMin + (rng.Float64()*4-1.5)*orig.YRange()
	c.YMin, c.YMax = yc-yr/2, yc+yr/2
	return c
}

func boundsClose(a, b coords.Bounds, tol float64) bool {
	return math.Abs(a.XMin-b.XMin) <= tol && math.Abs(a.XMax-b.XMax) <= tol &&
		math.Abs(a.YMin-b.YMin) <= tol && math.Abs(a.YMax-b.YMax) <= tol
}
