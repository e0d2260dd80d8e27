package match

import "github.com/walkshed-data/netdiff/internal/geo"

// Similar reports whether two features pass all three tolerance gates:
// centroid distance, length ratio (only when both are line-like), and
// folded bearing difference. The gates are AND-combined with no
// scoring; there is no notion of a "best" match beyond first found.
func Similar(a, b *geo.Feature, tol Tolerance) bool {
	ca, ok := geo.Centroid(a.Geometry)
	if !ok {
		return false
	}
	cb, ok := geo.Centroid(b.Geometry)
	if !ok {
		return false
	}
	if geo.Dist(ca, cb) > tol.Distance {
		return false
	}

	if a.Geometry.Type == geo.LineString && b.Geometry.Type == geo.LineString {
		la := geo.ApproxLength(a.Geometry)
		lb := geo.ApproxLength(b.Geometry)
		longer, shorter := la, lb
		if lb > la {
			longer, shorter = lb, la
		}
		if longer > 0 && 1-shorter/longer > tol.LengthRatio {
			return false
		}
	}

	ba, okA := geo.Bearing(a.Geometry)
	bb, okB := geo.Bearing(b.Geometry)
	if okA && okB && geo.BearingDelta(ba, bb) > tol.AngleDegrees {
		return false
	}

	return true
}
