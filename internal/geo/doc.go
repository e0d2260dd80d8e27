// Package geo owns the feature data model for the change-detection
// pipeline: GeoJSON-shaped features and collections, plus the vertex
// metrics (centroid, approximate length, bearing) every downstream
// stage keys off.
//
// Features are immutable once loaded; classification produces tagged
// copies. Degenerate geometry yields "undefined" sentinel results from
// the metric functions rather than errors, so malformed inputs fall
// out of matching instead of aborting it.
package geo
