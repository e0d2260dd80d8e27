package match

import (
	"math"

	"github.com/walkshed-data/netdiff/internal/geo"
)

// DefaultGridScale is the quantization constant mapping degrees to
// grid cells (cells per degree). Cell keys do not depend on tolerance,
// so one index serves every calibration step; only the query radius
// grows with distance tolerance.
const DefaultGridScale = 200

type cellKey struct {
	X, Y int
}

// GridIndex buckets feature indices by quantized centroid. Degenerate
// features (fewer than 2 outline vertices, including single-vertex
// lines) are excluded at build time and can never be matched.
type GridIndex struct {
	scale float64
	cells map[cellKey][]int
	size  int
}

// NewGridIndex builds an index over features. A scale of 0 selects
// DefaultGridScale.
func NewGridIndex(features []geo.Feature, scale float64) *GridIndex {
	if scale <= 0 {
		scale = DefaultGridScale
	}
	ix := &GridIndex{
		scale: scale,
		cells: make(map[cellKey][]int),
	}
	for i, f := range features {
		if geo.Degenerate(f.Geometry) {
			continue
		}
		c, ok := geo.Centroid(f.Geometry)
		if !ok {
			continue
		}
		k := ix.keyFor(c)
		ix.cells[k] = append(ix.cells[k], i)
		ix.size++
	}
	return ix
}

// Size reports how many features were indexed (degenerate features
// are excluded).
func (ix *GridIndex) Size() int { return ix.size }

func (ix *GridIndex) keyFor(p geo.Point) cellKey {
	return cellKey{
		X: int(math.Floor(p.Lng * ix.scale)),
		Y: int(math.Floor(p.Lat * ix.scale)),
	}
}

// radiusCells converts a distance tolerance into a search radius in
// whole cells: max(1, ceil(distance*scale)).
func (ix *GridIndex) radiusCells(distance float64) int {
	r := int(math.Ceil(distance * ix.scale))
	if r < 1 {
		r = 1
	}
	return r
}

// Near returns candidate feature indices from the (2r+1)^2 cells
// around p, where r covers the given distance tolerance. Cells are
// walked in fixed (dx, dy) order and buckets preserve insertion
// order, so the candidate sequence is deterministic for fixed inputs.
// Candidates are a superset of true neighbours; the similarity
// predicate does the exact distance check.
func (ix *GridIndex) Near(p geo.Point, distance float64) []int {
	center := ix.keyFor(p)
	r := ix.radiusCells(distance)
	var out []int
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			k := cellKey{X: center.X + dx, Y: center.Y + dy}
			out = append(out, ix.cells[k]...)
		}
	}
	return out
}
