// Package geom provides the small screen-space primitives shared by the
// coordinate transform, hit-testing and render layers: points, rectangles
// and the distance helpers the interaction engine is built on.
package geom

import "math"

// Point is a position in screen space (pixels) or data space, depending on
// context. Callers are expected to keep the two spaces straight; the
// coordinate transform in internal/coords is the only place values cross over.
type Point struct {
	X, Y float64
}

// Pt is shorthand for constructing a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquaredTo returns the squared Euclidean distance between p and q.
// Use this in hot comparison loops to avoid the sqrt.
func (p Point) DistanceSquaredTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Rect is an axis-aligned rectangle. Left/Top is the minimum corner in screen
// convention (Y grows downward on screen).
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectFromLTWH constructs a Rect from a left/top corner and a width/height.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// RectFromCorners constructs a normalized Rect from two opposite corners in
// any order.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		Left:   math.Min(a.X, b.X),
		Top:    math.Min(a.Y, b.Y),
		Right:  math.Max(a.X, b.X),
		Bottom: math.Max(a.Y, b.Y),
	}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive, so adjacent rects do not
// both claim their shared boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// ContainsClosed reports whether p lies inside r with all edges inclusive.
// Hit-testing with an inflated tolerance uses this variant so a tap exactly
// on an inflated edge still registers.
func (r Rect) ContainsClosed(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Inflate returns r grown by d on every side. A negative d shrinks the rect;
// a rect shrunk past its own size normalizes to its center point.
func (r Rect) Inflate(d float64) Rect {
	out := Rect{Left: r.Left - d, Top: r.Top - d, Right: r.Right + d, Bottom: r.Bottom + d}
	if out.Left > out.Right {
		c := (out.Left + out.Right) / 2
		out.Left, out.Right = c, c
	}
	if out.Top > out.Bottom {
		c := (out.Top + out.Bottom) / 2
		out.Top, out.Bottom = c, c
	}
	return out
}

// Intersects reports whether r and s overlap.
func (r Rect) Intersects(s Rect) bool {
	return r.Left < s.Right && s.Left < r.Right && r.Top < s.Bottom && s.Top < r.Bottom
}

// IsEmpty reports whether r has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Clamp returns v limited to the inclusive range [lo, hi]. If lo > hi the
// midpoint is returned; callers hit this in the degenerate pan-boundary case
// where the legal center band has collapsed to a point.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
