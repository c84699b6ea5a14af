package silence

import "math"

// Point marks the midpoint of a detected silent interval, in seconds.
type Point struct {
	Position float64
}

// NewPoint builds a point from the start and end of a silent interval.
func NewPoint(start, end float64) Point {
	return Point{Position: (start + end) / 2}
}

// Nearest returns the point closest to target within the given window.
// Equidistant candidates resolve to the earlier position so repeated runs
// over the same batch agree regardless of detection order.
func Nearest(points []Point, target, window float64) (Point, bool) {
	best := Point{}
	bestDist := math.Inf(1)
	found := false
	for _, p := range points {
		dist := math.Abs(p.Position - target)
		if dist > window {
			continue
		}
		if dist < bestDist || (dist == bestDist && p.Position < best.Position) {
			best = p
			bestDist = dist
			found = true
		}
	}
	return best, found
}
