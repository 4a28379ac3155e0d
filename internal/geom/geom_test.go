package geom

import (
	"testing"
)

func TestPointDistance(t *testing.T) {
	p := Pt(0, 0)
	q := Pt(3, 4)
	if got := p.DistanceTo(q); got != 5 {
		t.Errorf("DistanceTo = %v, want 5", got)
	}
	if got := p.DistanceSquaredTo(q); got != 25 {
		t.Errorf("DistanceSquaredTo = %v, want 25", got)
	}
}

func TestRectFromCorners_Normalizes(t *testing.T) {
	r := RectFromCorners(Pt(10, 20), Pt(2, 4))
	want := Rect{Left: 2, Top: 4, Right: 10, Bottom: 20}
	if r != want {
		t.Errorf("RectFromCorners = %+v, want %+v", r, want)
	}
}

func TestRectContains_EdgeSemantics(t *testing.T) {
	r := RectFromLTWH(0, 0, 10, 10)

	tests := []struct {
		name   string
		p      Point
		open   bool // Contains (half-open)
		closed bool // ContainsClosed
	}{
		{"interior", Pt(5, 5), true, true},
		{"left-top corner", Pt(0, 0), true, true},
		{"right edge", Pt(10, 5), false, true},
		{"bottom edge", Pt(5, 10), false, true},
		{"outside", Pt(11, 5), false, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.open {
			t.Errorf("%s: Contains = %v, want %v", tt.name, got, tt.open)
		}
		if got := r.ContainsClosed(tt.p); got != tt.closed {
			t.Errorf("%s: ContainsClosed = %v, want %v", tt.name, got, tt.closed)
		}
	}
}

func TestRectInflate_NegativeCollapses(t *testing.T) {
	r := RectFromLTWH(0, 0, 4, 4)
	out := r.Inflate(-3)
	if out.Width() != 0 || out.Height() != 0 {
		t.Errorf("over-shrunk rect should collapse to a point, got %+v", out)
	}
	if c := out.Center(); c != Pt(2, 2) {
		t.Errorf("collapsed rect center = %+v, want (2,2)", c)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"inside", 5, 0, 10, 5},
		{"below", -1, 0, 10, 0},
		{"above", 11, 0, 10, 10},
		{"collapsed band", 7, 4, 2, 3},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("%s: Clamp(%v, %v, %v) = %v, want %v", tt.name, tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	r := RectFromLTWH(0, 0, 10, 10)
	if !r.Intersects(RectFromLTWH(5, 5, 10, 10)) {
		t.Error("overlapping rects should intersect")
	}
	if r.Intersects(RectFromLTWH(10, 0, 5, 5)) {
		t.Error("edge-adjacent rects should not intersect")
	}
	if r.Intersects(RectFromLTWH(20, 20, 5, 5)) {
		t.Error("disjoint rects should not intersect")
	}
}
