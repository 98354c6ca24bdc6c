// Package geometry provides the 2D primitives used by the facial indicators.
package geometry

import "math"

// Point is a single landmark coordinate. X and Y are in pixels, Z is the
// normalized depth reported by the landmark engine (unused by the 2D math).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the Euclidean distance between two points in the XY plane.
func Distance(p1, p2 Point) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Curvature measures how far a polyline deviates from the straight line
// through its first and last point: the mean perpendicular distance of the
// interior points from that line. Lower values indicate a flatter curve.
// Fewer than 3 points yields 0 (no interior points, perfectly flat).
func Curvature(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}

	start := points[0]
	end := points[len(points)-1]
	interior := points[1 : len(points)-1]

	// Vertical chord: perpendicular distance degenerates to horizontal offset.
	if start.X == end.X {
		sum := 0.0
		for _, p := range interior {
			sum += math.Abs(p.X - start.X)
		}
		return sum / float64(len(interior))
	}

	// Line through start and end as ax + by + c = 0.
	a := end.Y - start.Y
	b := start.X - end.X
	c := end.X*start.Y - start.X*end.Y
	denom := math.Sqrt(a*a + b*b)
	if denom == 0 {
		return 0
	}

	sum := 0.0
	for _, p := range interior {
		sum += math.Abs(a*p.X+b*p.Y+c) / denom
	}
	return sum / float64(len(interior))
}
