// Package testutil provides shared test fixtures.
//
// This package centralises feature construction helpers to reduce
// duplication across test files.
package testutil

import (
	"github.com/walkshed-data/netdiff/internal/geo"
)

// Line builds a LineString feature from (lng, lat) pairs.
func Line(id string, ft geo.FeatureType, coords ...[2]float64) geo.Feature {
	pts := make([]geo.Point, len(coords))
	for i, c := range coords {
		pts[i] = geo.Point{Lng: c[0], Lat: c[1]}
	}
	return geo.Feature{
		ID:       id,
		Geometry: geo.Geometry{Type: geo.LineString, Line: pts},
		Props:    geo.Properties{FeatureType: ft},
	}
}

// Poly builds a Polygon feature from an outer ring of (lng, lat)
// pairs. The ring is closed automatically when the caller leaves it
// open.
func Poly(id string, ft geo.FeatureType, ring ...[2]float64) geo.Feature {
	pts := make([]geo.Point, len(ring))
	for i, c := range ring {
		pts[i] = geo.Point{Lng: c[0], Lat: c[1]}
	}
	if len(pts) > 0 && pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}
	return geo.Feature{
		ID:       id,
		Geometry: geo.Geometry{Type: geo.Polygon, Rings: [][]geo.Point{pts}},
		Props:    geo.Properties{FeatureType: ft},
	}
}

// Collection wraps features into a (kind, year) collection.
func Collection(kind geo.Kind, year int, features ...geo.Feature) *geo.FeatureCollection {
	return &geo.FeatureCollection{Kind: kind, Year: year, Features: features}
}

// Sidewalk is shorthand for a sidewalk line.
func Sidewalk(id string, coords ...[2]float64) geo.Feature {
	return Line(id, geo.TypeSidewalk, coords...)
}

// ShiftedLine copies a line feature displaced by (dLng, dLat).
func ShiftedLine(f geo.Feature, dLng, dLat float64) geo.Feature {
	out := f
	out.Geometry.Line = make([]geo.Point, len(f.Geometry.Line))
	for i, p := range f.Geometry.Line {
		out.Geometry.Line[i] = geo.Point{Lng: p.Lng + dLng, Lat: p.Lat + dLat}
	}
	return out
}
