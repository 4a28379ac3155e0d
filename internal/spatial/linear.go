package spatial

import (
	"math"

	"github.com/banshee-data/chartkit/internal/geom"
)

// NearestLinear is the O(n) scan counterpart of Index.Nearest. It is the
// fallback when no index has been built, and the normative definition of the
// query: iterating in source order and replacing only on strictly smaller
// distance yields the lowest index among ties.
func NearestLinear(pts []geom.Point, q geom.Point, maxDist float64) (int, bool) {
	bestIdx, bestDist2 := -1, math.Inf(1)
	for i, p := range pts {
		if d2 := p.DistanceSquaredTo(q); d2 < bestDist2 {
			bestIdx, bestDist2 = i, d2
		}
	}
	if bestIdx < 0 || bestDist2 > maxDist*maxDist {
		return -1, false
	}
	return bestIdx, true
}

// NearestByXLinear is the scan counterpart of Index.NearestByX.
func NearestByXLinear(pts []geom.Point, q geom.Point) (int, bool) {
	bestIdx, bestDist := -1, math.Inf(1)
	for i, p := range pts {
		if d := math.Abs(p.X - q.X); d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	return bestIdx, bestIdx >= 0
}

// NearestByYLinear is the scan counterpart of Index.NearestByY.
func NearestByYLinear(pts []geom.Point, q geom.Point) (int, bool) {
	bestIdx, bestDist := -1, math.Inf(1)
	for i, p := range pts {
		if d := math.Abs(p.Y - q.Y); d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	return bestIdx, bestIdx >= 0
}
