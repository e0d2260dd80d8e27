package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walkshed-data/netdiff/internal/geo"
	"github.com/walkshed-data/netdiff/internal/testutil"
)

// parallelLines lays out n disjoint east-west sidewalks far enough
// apart that each can only match its own counterpart.
func parallelLines(n int, shift float64) []geo.Feature {
	var out []geo.Feature
	for i := 0; i < n; i++ {
		lat := float64(i) * 0.1
		out = append(out, testutil.Sidewalk("",
			[2]float64{shift, lat}, [2]float64{shift + 0.001, lat}))
	}
	return out
}

func TestGreedyBijection(t *testing.T) {
	t.Parallel()

	before := parallelLines(10, 0)
	after := parallelLines(7, 0.0001)
	ix := NewGridIndex(before, 0)

	res := Greedy(before, after, ix, defaultTol)

	var claimedBefore, claimedAfter int
	for _, c := range res.BeforeClaimed {
		if c {
			claimedBefore++
		}
	}
	for _, c := range res.AfterClaimed {
		if c {
			claimedAfter++
		}
	}
	assert.Equal(t, res.Matched, claimedBefore)
	assert.Equal(t, res.Matched, claimedAfter)
	assert.Equal(t, 7, res.Matched)
	assert.Equal(t, 3, res.UnmatchedBefore())
	assert.Equal(t, 0, res.UnmatchedAfter())
}

func TestGreedyFirstFit(t *testing.T) {
	t.Parallel()

	// Two before-candidates inside tolerance of one after-feature: the
	// first in candidate order is claimed, and a later after-feature
	// that would have preferred it goes unmatched. No backtracking.
	before := []geo.Feature{
		testutil.Sidewalk("b0", [2]float64{0, 0}, [2]float64{0.001, 0}),
		testutil.Sidewalk("b1", [2]float64{0, 0.0002}, [2]float64{0.001, 0.0002}),
	}
	after := []geo.Feature{
		testutil.Sidewalk("a0", [2]float64{0, 0.0001}, [2]float64{0.001, 0.0001}),
	}
	ix := NewGridIndex(before, 0)

	res := Greedy(before, after, ix, defaultTol)
	require.Equal(t, 1, res.Matched)
	assert.True(t, res.BeforeClaimed[0], "first candidate in bucket order wins")
	assert.False(t, res.BeforeClaimed[1])
}

func TestGreedyMonotonicity(t *testing.T) {
	t.Parallel()

	// Drift each after-line by a different amount so tighter tolerances
	// match strictly fewer pairs.
	var before, after []geo.Feature
	for i := 0; i < 6; i++ {
		lat := float64(i) * 0.1
		before = append(before, testutil.Sidewalk("", [2]float64{0, lat}, [2]float64{0.001, lat}))
		drift := float64(i) * 0.001
		after = append(after, testutil.Sidewalk("", [2]float64{drift, lat}, [2]float64{drift + 0.001, lat}))
	}
	ix := NewGridIndex(before, 0)

	tolerances := []Tolerance{
		{Distance: 0.0005, LengthRatio: 0.3, AngleDegrees: 25},
		{Distance: 0.0015, LengthRatio: 0.3, AngleDegrees: 25},
		{Distance: 0.0035, LengthRatio: 0.4, AngleDegrees: 30},
		{Distance: 0.01, LengthRatio: 0.5, AngleDegrees: 45},
	}

	var prev Result
	for i, tol := range tolerances {
		res := Greedy(before, after, ix, tol)
		if i > 0 {
			assert.GreaterOrEqual(t, res.Matched, prev.Matched,
				"component-wise looser tolerance must not match fewer pairs")
			for j, claimed := range prev.AfterClaimed {
				if claimed {
					assert.True(t, res.AfterClaimed[j],
						"looser tolerance must keep previously matched after-features matched")
				}
			}
		}
		prev = res
	}
}

func TestGreedyDegenerateAfter(t *testing.T) {
	t.Parallel()

	before := parallelLines(2, 0)
	after := []geo.Feature{{}} // no centroid, silently unmatched
	ix := NewGridIndex(before, 0)

	res := Greedy(before, after, ix, defaultTol)
	assert.Zero(t, res.Matched)
	assert.Equal(t, 1, res.UnmatchedAfter())
}

func TestGreedySingleVertexLines(t *testing.T) {
	t.Parallel()

	// A one-vertex line has a centroid but no extent; it is dropped at
	// index build and never claims a match, even against an identical
	// one-vertex line at the same spot.
	point := testutil.Sidewalk("pt", [2]float64{0, 0})
	before := []geo.Feature{point}
	after := []geo.Feature{point}
	ix := NewGridIndex(before, 0)
	assert.Zero(t, ix.Size())

	res := Greedy(before, after, ix, defaultTol)
	assert.Zero(t, res.Matched)
	assert.Equal(t, 1, res.UnmatchedBefore())
	assert.Equal(t, 1, res.UnmatchedAfter())
}

func TestGreedyEmptyInputs(t *testing.T) {
	t.Parallel()

	ix := NewGridIndex(nil, 0)
	res := Greedy(nil, nil, ix, defaultTol)
	assert.Zero(t, res.Matched)
	assert.Empty(t, res.BeforeClaimed)
	assert.Empty(t, res.AfterClaimed)
}
