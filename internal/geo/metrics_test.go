package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(coords ...[2]float64) Geometry {
	pts := make([]Point, len(coords))
	for i, c := range coords {
		pts[i] = Point{Lng: c[0], Lat: c[1]}
	}
	return Geometry{Type: LineString, Line: pts}
}

func polygon(ring ...[2]float64) Geometry {
	pts := make([]Point, len(ring))
	for i, c := range ring {
		pts[i] = Point{Lng: c[0], Lat: c[1]}
	}
	return Geometry{Type: Polygon, Rings: [][]Point{pts}}
}

func TestCentroid(t *testing.T) {
	t.Parallel()

	t.Run("line centroid is vertex mean", func(t *testing.T) {
		t.Parallel()
		c, ok := Centroid(line([2]float64{0, 0}, [2]float64{2, 4}))
		require.True(t, ok)
		assert.InDelta(t, 1.0, c.Lng, 1e-12)
		assert.InDelta(t, 2.0, c.Lat, 1e-12)
	})

	t.Run("polygon uses outer ring only", func(t *testing.T) {
		t.Parallel()
		g := polygon([2]float64{0, 0}, [2]float64{2, 0}, [2]float64{2, 2}, [2]float64{0, 2}, [2]float64{0, 0})
		g.Rings = append(g.Rings, []Point{{Lng: 100, Lat: 100}})
		c, ok := Centroid(g)
		require.True(t, ok)
		// Mean over the 5 ring vertices including the closing duplicate.
		assert.InDelta(t, 0.8, c.Lng, 1e-12)
		assert.InDelta(t, 0.8, c.Lat, 1e-12)
	})

	t.Run("degenerate geometry has no centroid", func(t *testing.T) {
		t.Parallel()
		_, ok := Centroid(Geometry{})
		assert.False(t, ok)
		_, ok = Centroid(Geometry{Type: LineString})
		assert.False(t, ok)
		_, ok = Centroid(Geometry{Type: Polygon})
		assert.False(t, ok)
	})
}

func TestDegenerate(t *testing.T) {
	t.Parallel()

	assert.True(t, Degenerate(Geometry{}))
	assert.True(t, Degenerate(Geometry{Type: LineString}))
	assert.True(t, Degenerate(Geometry{Type: Polygon}))
	assert.True(t, Degenerate(line([2]float64{1, 1})), "single-vertex line")
	assert.False(t, Degenerate(line([2]float64{0, 0}, [2]float64{0, 1})))
	assert.False(t, Degenerate(polygon([2]float64{0, 0}, [2]float64{1, 0}, [2]float64{1, 1}, [2]float64{0, 0})))
}

func TestApproxLength(t *testing.T) {
	t.Parallel()

	t.Run("line length sums segments", func(t *testing.T) {
		t.Parallel()
		g := line([2]float64{0, 0}, [2]float64{0, 10})
		assert.InDelta(t, 10.0, ApproxLength(g), 1e-12)

		g = line([2]float64{0, 0}, [2]float64{3, 4}, [2]float64{3, 9})
		assert.InDelta(t, 10.0, ApproxLength(g), 1e-12)
	})

	t.Run("fewer than two vertices is zero", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, ApproxLength(Geometry{}))
		assert.Zero(t, ApproxLength(line([2]float64{1, 1})))
	})

	t.Run("polygon uses outer ring perimeter", func(t *testing.T) {
		t.Parallel()
		g := polygon([2]float64{0, 0}, [2]float64{1, 0}, [2]float64{1, 1}, [2]float64{0, 1}, [2]float64{0, 0})
		assert.InDelta(t, 4.0, ApproxLength(g), 1e-12)
	})
}

func TestBearing(t *testing.T) {
	t.Parallel()

	t.Run("line bearing from first to last vertex", func(t *testing.T) {
		t.Parallel()
		b, ok := Bearing(line([2]float64{0, 0}, [2]float64{1, 0}))
		require.True(t, ok)
		assert.InDelta(t, 0.0, b, 1e-9)

		b, ok = Bearing(line([2]float64{0, 0}, [2]float64{5, 5}, [2]float64{0, 10}))
		require.True(t, ok)
		assert.InDelta(t, 90.0, b, 1e-9)
	})

	t.Run("polygon bearing is longest edge angle", func(t *testing.T) {
		t.Parallel()
		// 3x1 rectangle: the long edges run east-west.
		g := polygon([2]float64{0, 0}, [2]float64{3, 0}, [2]float64{3, 1}, [2]float64{0, 1}, [2]float64{0, 0})
		b, ok := Bearing(g)
		require.True(t, ok)
		assert.InDelta(t, 0.0, b, 1e-9)
	})

	t.Run("tie breaks to first edge achieving the max", func(t *testing.T) {
		t.Parallel()
		// Unit square: all edges equal; first edge points east.
		g := polygon([2]float64{0, 0}, [2]float64{1, 0}, [2]float64{1, 1}, [2]float64{0, 1}, [2]float64{0, 0})
		b, ok := Bearing(g)
		require.True(t, ok)
		assert.InDelta(t, 0.0, b, 1e-9)
	})

	t.Run("degenerate geometry has no bearing", func(t *testing.T) {
		t.Parallel()
		_, ok := Bearing(Geometry{})
		assert.False(t, ok)
		_, ok = Bearing(line([2]float64{1, 1}))
		assert.False(t, ok)
	})
}

func TestBearingDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"identical", 45, 45, 0},
		{"small difference", 10, 30, 20},
		{"folded past 90", 0, 95, 85},
		{"reversed line is the same line", 0, 180, 0},
		{"wraparound", 170, -170, 20},
		{"reversed diagonal", 45, -135, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, BearingDelta(tt.a, tt.b), 1e-9)
		})
	}
}
