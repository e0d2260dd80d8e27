package geo

import "math"

// outline returns the vertex chain metrics operate over: the full
// vertex list for a line, the outer ring for a polygon.
func (g Geometry) outline() []Point {
	switch g.Type {
	case LineString:
		return g.Line
	case Polygon:
		if len(g.Rings) == 0 {
			return nil
		}
		return g.Rings[0]
	default:
		return nil
	}
}

// Degenerate reports whether the geometry has fewer than 2 outline
// vertices: empty or unknown geometry, and single-vertex lines.
// Degenerate features are excluded from the spatial index and never
// participate in matching.
func Degenerate(g Geometry) bool {
	return len(g.outline()) < 2
}

// Centroid is the arithmetic mean of the geometry's vertices (outer
// ring only for polygons). ok is false for empty or unknown geometry;
// such features are excluded from indexing and can never match.
func Centroid(g Geometry) (Point, bool) {
	pts := g.outline()
	if len(pts) == 0 {
		return Point{}, false
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.Lng
		sy += p.Lat
	}
	n := float64(len(pts))
	return Point{Lng: sx / n, Lat: sy / n}, true
}

// ApproxLength sums consecutive-vertex Euclidean distances in degree
// units. Zero for fewer than 2 vertices.
func ApproxLength(g Geometry) float64 {
	pts := g.outline()
	if len(pts) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(pts); i++ {
		total += Dist(pts[i-1], pts[i])
	}
	return total
}

// Bearing is the orientation angle in degrees: for a line, first
// vertex to last; for a polygon, the angle of its single longest edge
// (first edge achieving the max on ties). The longest edge stands in
// for a principal axis; it is an approximation, not an elongation
// analysis. ok is false when fewer than 2 vertices are available.
func Bearing(g Geometry) (float64, bool) {
	pts := g.outline()
	if len(pts) < 2 {
		return 0, false
	}
	if g.Type == Polygon {
		best := 0
		bestLen := -1.0
		for i := 1; i < len(pts); i++ {
			if d := Dist(pts[i-1], pts[i]); d > bestLen {
				bestLen = d
				best = i
			}
		}
		return angleDegrees(pts[best-1], pts[best]), true
	}
	return angleDegrees(pts[0], pts[len(pts)-1]), true
}

// Dist is the planar Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(b.Lng-a.Lng, b.Lat-a.Lat)
}

func angleDegrees(a, b Point) float64 {
	return math.Atan2(b.Lat-a.Lat, b.Lng-a.Lng) * 180 / math.Pi
}

// BearingDelta is the absolute bearing difference folded to [0, 90]:
// a line and its reverse are the same line.
func BearingDelta(a, b float64) float64 {
	d := math.Abs(a - b)
	d = math.Mod(d, 360)
	if d > 180 {
		d = 360 - d
	}
	if d > 90 {
		d = 180 - d
	}
	return d
}
