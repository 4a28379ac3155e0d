// Package spatial provides the point index behind interactive hit-testing:
// a bounded-depth quadtree over precomputed screen positions, plus the
// linear-scan oracle that the tree must agree with exactly.
//
// The index is rebuilt wholesale whenever the data set or the coordinate
// system changes; there is no incremental update. Query results are defined
// by distance first and lowest source index second, and the linear scan is
// the normative implementation of that ordering: for any input the tree
// returns the identical point, so the scan doubles as the fallback path when
// no index has been built and as the correctness oracle in tests.
package spatial

import (
	"math"
	"sort"

	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/geom"
	"github.com/banshee-data/chartkit/internal/series"
)

const (
	// MaxDepth bounds quadtree subdivision. Beyond this depth leaves simply
	// grow past MaxLeafPoints, which keeps degenerate inputs (thousands of
	// coincident points) from recursing forever.
	MaxDepth = 8
	// MaxLeafPoints is the subdivision threshold for a leaf node.
	MaxLeafPoints = 16
)

// Index answers nearest-point queries over a fixed set of screen positions.
type Index struct {
	pts  []geom.Point // screen position per source index
	root *node
	byX  []int // source indices sorted by (X, index)
	byY  []int // source indices sorted by (Y, index)
}

type node struct {
	bounds   geom.Rect
	pts      []int // leaf payload; nil once subdivided
	children []node
	depth    int
}

// Build constructs an index over the given screen positions. The slice is
// retained; callers pass a snapshot they will not mutate.
func Build(pts []geom.Point) *Index {
	ix := &Index{pts: pts}
	if len(pts) == 0 {
		return ix
	}

	ix.byX = sortedBy(pts, func(p geom.Point) float64 { return p.X })
	ix.byY = sortedBy(pts, func(p geom.Point) float64 { return p.Y })

	bounds := boundingRect(pts)
	ix.root = &node{bounds: bounds}
	for i := range pts {
		ix.root.insert(pts, i)
	}
	return ix
}

// FromSeries projects data points through the coordinate system and builds
// an index over the resulting screen positions. Source indices returned by
// queries refer to positions in pts.
func FromSeries(pts []series.DataPoint, cs coords.CoordinateSystem) *Index {
	screen := make([]geom.Point, len(pts))
	for i, p := range pts {
		screen[i] = cs.DataToScreen(p.X, p.Y)
	}
	return Build(screen)
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return len(ix.pts) }

// Point returns the screen position of source index i.
func (ix *Index) Point(i int) geom.Point { return ix.pts[i] }

// Nearest returns the source index of the point closest to q by Euclidean
// distance, or ok=false when the set is empty or the best distance exceeds
// maxDist. Pass math.Inf(1) for an unbounded search.
func (ix *Index) Nearest(q geom.Point, maxDist float64) (int, bool) {
	if ix.root == nil {
		return -1, false
	}
	best := bestMatch{index: -1, dist2: math.Inf(1)}
	ix.root.nearest(ix.pts, q, &best)
	if best.index < 0 || best.dist2 > maxDist*maxDist {
		return -1, false
	}
	return best.index, true
}

// NearestByX returns the source index of the point whose X is closest to
// q.X, ignoring Y entirely. Line and time-series trackball interactions snap
// to a vertical slice, not to 2D distance, which is why this exists.
func (ix *Index) NearestByX(q geom.Point) (int, bool) {
	return nearestInSorted(ix.pts, ix.byX, q.X, func(p geom.Point) float64 { return p.X })
}

// NearestByY returns the source index of the point whose Y is closest to
// q.Y, ignoring X entirely.
func (ix *Index) NearestByY(q geom.Point) (int, bool) {
	return nearestInSorted(ix.pts, ix.byY, q.Y, func(p geom.Point) float64 { return p.Y })
}

type bestMatch struct {
	index int
	dist2 float64
}

// better applies the normative ordering: smaller distance wins, equal
// distance resolves to the lower source index.
func (b *bestMatch) better(index int, dist2 float64) bool {
	if dist2 != b.dist2 {
		return dist2 < b.dist2
	}
	return index < b.index
}

func (n *node) insert(pts []geom.Point, i int) {
	if n.children == nil {
		n.pts = append(n.pts, i)
		if len(n.pts) > MaxLeafPoints && n.depth < MaxDepth {
			n.subdivide(pts)
		}
		return
	}
	n.children[n.quadrant(pts[i])].insert(pts, i)
}

func (n *node) subdivide(pts []geom.Point) {
	c := n.bounds.Center()
	b := n.bounds
	n.children = []node{
		{bounds: geom.Rect{Left: b.Left, Top: b.Top, Right: c.X, Bottom: c.Y}, depth: n.depth + 1},
		{bounds: geom.Rect{Left: c.X, Top: b.Top, Right: b.Right, Bottom: c.Y}, depth: n.depth + 1},
		{bounds: geom.Rect{Left: b.Left, Top: c.Y, Right: c.X, Bottom: b.Bottom}, depth: n.depth + 1},
		{bounds: geom.Rect{Left: c.X, Top: c.Y, Right: b.Right, Bottom: b.Bottom}, depth: n.depth + 1},
	}
	moved := n.pts
	n.pts = nil
	for _, i := range moved {
		n.children[n.quadrant(pts[i])].insert(pts, i)
	}
}

// quadrant places a point by comparison against the node center, so points
// on the shared boundary land deterministically in the right/bottom child.
func (n *node) quadrant(p geom.Point) int {
	c := n.bounds.Center()
	q := 0
	if p.X >= c.X {
		q++
	}
	if p.Y >= c.Y {
		q += 2
	}
	return q
}

func (n *node) nearest(pts []geom.Point, q geom.Point, best *bestMatch) {
	if n.children == nil {
		for _, i := range n.pts {
			d2 := pts[i].DistanceSquaredTo(q)
			if best.better(i, d2) {
				best.index = i
				best.dist2 = d2
			}
		}
		return
	}

	// Descend into the quadrant containing q first so the best distance
	// tightens early, then visit siblings that could still hold an equal or
	// closer point. The prune is strict: an equal-distance region must still
	// be searched or the lowest-index tie rule would depend on tree shape.
	first := n.quadrant(q)
	n.children[first].nearest(pts, q, best)
	for ci := range n.children {
		if ci == first {
			continue
		}
		if rectDistSquared(n.children[ci].bounds, q) > best.dist2 {
			continue
		}
		n.children[ci].nearest(pts, q, best)
	}
}

// rectDistSquared is the squared distance from q to the nearest point of r
// (zero when q is inside r).
func rectDistSquared(r geom.Rect, q geom.Point) float64 {
	dx := 0.0
	if q.X < r.Left {
		dx = r.Left - q.X
	} else if q.X > r.Right {
		dx = q.X - r.Right
	}
	dy := 0.0
	if q.Y < r.Top {
		dy = r.Top - q.Y
	} else if q.Y > r.Bottom {
		dy = q.Y - r.Bottom
	}
	return dx*dx + dy*dy
}

func boundingRect(pts []geom.Point) geom.Rect {
	r := geom.Rect{Left: pts[0].X, Top: pts[0].Y, Right: pts[0].X, Bottom: pts[0].Y}
	for _, p := range pts[1:] {
		r.Left = math.Min(r.Left, p.X)
		r.Top = math.Min(r.Top, p.Y)
		r.Right = math.Max(r.Right, p.X)
		r.Bottom = math.Max(r.Bottom, p.Y)
	}
	return r
}

func sortedBy(pts []geom.Point, key func(geom.Point) float64) []int {
	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ka, kb := key(pts[idx[a]]), key(pts[idx[b]])
		if ka != kb {
			return ka < kb
		}
		return idx[a] < idx[b]
	})
	return idx
}

// nearestInSorted finds the entry whose key is closest to target in a slice
// sorted by (key, index). Candidates are the runs of equal keys on either
// side of the insertion point; the run head carries the lowest source index.
func nearestInSorted(pts []geom.Point, sorted []int, target float64, key func(geom.Point) float64) (int, bool) {
	if len(sorted) == 0 {
		return -1, false
	}
	i := sort.Search(len(sorted), func(k int) bool { return key(pts[sorted[k]]) >= target })

	bestIdx, bestDist := -1, math.Inf(1)
	if i < len(sorted) {
		// sort.Search lands on the head of the run of equal keys, which is
		// the lowest source index within that run.
		bestIdx = sorted[i]
		bestDist = math.Abs(key(pts[bestIdx]) - target)
	}
	if i > 0 {
		// Walk back to the head of the left-side run to honour the
		// lowest-index tie rule.
		j := i - 1
		k := key(pts[sorted[j]])
		for j > 0 && key(pts[sorted[j-1]]) == k {
			j--
		}
		idx := sorted[j]
		d := math.Abs(k - target)
		if d < bestDist || (d == bestDist && idx < bestIdx) {
			bestIdx, bestDist = idx, d
		}
	}
	return bestIdx, bestIdx >= 0
}
