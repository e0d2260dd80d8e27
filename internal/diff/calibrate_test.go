package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walkshed-data/netdiff/internal/geo"
	"github.com/walkshed-data/netdiff/internal/match"
	"github.com/walkshed-data/netdiff/internal/testutil"
)

var baseTol = match.Tolerance{Distance: 0.0025, LengthRatio: 0.3, AngleDegrees: 25}

func driftedNetworks(n int, maxDrift float64) (before, after []geo.Feature) {
	for i := 0; i < n; i++ {
		lat := float64(i) * 0.1
		before = append(before, testutil.Sidewalk("", [2]float64{0, lat}, [2]float64{0.001, lat}))
		drift := maxDrift * float64(i) / float64(n)
		after = append(after, testutil.Sidewalk("", [2]float64{drift, lat}, [2]float64{drift + 0.001, lat}))
	}
	return before, after
}

var defaultSchedule = []float64{1.0, 1.5, 2.0, 3.0, 4.0, 6.0, 8.0, 10.0}

func TestRelaxed(t *testing.T) {
	t.Parallel()

	t.Run("unit multiplier is the base", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, baseTol, relaxed(baseTol, 1))
	})

	t.Run("distance scales linearly, ratio and angle cap", func(t *testing.T) {
		t.Parallel()
		tol := relaxed(baseTol, 10)
		assert.InDelta(t, 0.025, tol.Distance, 1e-12)
		assert.InDelta(t, 0.95, tol.LengthRatio, 1e-12)
		assert.InDelta(t, 79.0, tol.AngleDegrees, 1e-12)

		tol = relaxed(match.Tolerance{Distance: 0.0025, LengthRatio: 0.9, AngleDegrees: 70}, 4)
		assert.InDelta(t, 0.95, tol.LengthRatio, 1e-12)
		assert.InDelta(t, 80.0, tol.AngleDegrees, 1e-12)
	})

	t.Run("relaxed tolerances stay valid", func(t *testing.T) {
		t.Parallel()
		for _, mult := range defaultSchedule {
			assert.NoError(t, relaxed(baseTol, mult).Validate())
		}
	})
}

func TestCalibrateConvergesImmediately(t *testing.T) {
	t.Parallel()

	before, after := driftedNetworks(20, 0.0005) // all within base tolerance
	ix := match.NewGridIndex(before, 0)

	res, cal := calibrate(before, after, ix, baseTol, 1, 0.05, 0.15, defaultSchedule)
	assert.Equal(t, 20, res.Matched)
	assert.True(t, cal.Converged)
	assert.Equal(t, 1.0, cal.Multiplier)
	assert.Equal(t, 1, cal.StepsTried)
	assert.Zero(t, cal.AchievedRate)
}

func TestCalibrateRelaxesUntilPlausible(t *testing.T) {
	t.Parallel()

	// Drift large enough that the base tolerance misses most pairs but
	// a later schedule step recovers them.
	before, after := driftedNetworks(20, 0.02)
	ix := match.NewGridIndex(before, 0)

	res, cal := calibrate(before, after, ix, baseTol, 1, 0.05, 0.15, defaultSchedule)
	assert.True(t, cal.Converged)
	assert.Greater(t, cal.Multiplier, 1.0)
	assert.LessOrEqual(t, cal.AchievedRate, cal.AcceptableRate)
	assert.Greater(t, res.Matched, 10)
}

func TestCalibrateRateMonotoneInSchedule(t *testing.T) {
	t.Parallel()

	before, after := driftedNetworks(20, 0.05)
	ix := match.NewGridIndex(before, 0)

	prev := 2.0
	for _, mult := range defaultSchedule {
		res := match.Greedy(before, after, ix, relaxed(baseTol, mult))
		rate := changeRate(res)
		assert.LessOrEqual(t, rate, prev,
			"change rate must be non-increasing along the schedule")
		prev = rate
	}
}

func TestCalibrateBestEffortFallback(t *testing.T) {
	t.Parallel()

	// Completely disjoint snapshots: no schedule step can reach the
	// bound, so the closest-to-target step is returned as informational.
	before := []geo.Feature{testutil.Sidewalk("b", [2]float64{0, 0}, [2]float64{0.001, 0})}
	after := []geo.Feature{testutil.Sidewalk("a", [2]float64{5, 5}, [2]float64{5.001, 5})}
	ix := match.NewGridIndex(before, 0)

	res, cal := calibrate(before, after, ix, baseTol, 4, 0.05, 0.15, defaultSchedule)
	assert.False(t, cal.Converged)
	assert.Equal(t, len(defaultSchedule), cal.StepsTried)
	assert.Zero(t, res.Matched)
	assert.InDelta(t, 2.0, cal.AchievedRate, 1e-12) // (1 added + 1 removed) / 1
	assert.InDelta(t, 0.2, cal.TargetRate, 1e-12)
	assert.InDelta(t, 0.15, cal.AcceptableRate, 1e-12)
}

func TestCalibrateYearsElapsedFloor(t *testing.T) {
	t.Parallel()

	before, after := driftedNetworks(5, 0.0001)
	ix := match.NewGridIndex(before, 0)

	_, cal := calibrate(before, after, ix, baseTol, 0, 0.05, 0.15, defaultSchedule)
	assert.Equal(t, 1, cal.YearsElapsed)
	assert.InDelta(t, 0.05, cal.TargetRate, 1e-12)
}

func TestAssessQuality(t *testing.T) {
	t.Parallel()

	cal := Calibration{TargetRate: 0.1}

	cal.AchievedRate = 0.08
	assert.Equal(t, QualityOK, AssessQuality(cal, 1.5, 3.0))

	cal.AchievedRate = 0.2
	assert.Equal(t, QualityWarning, AssessQuality(cal, 1.5, 3.0))

	cal.AchievedRate = 0.5
	assert.Equal(t, QualityCritical, AssessQuality(cal, 1.5, 3.0))
}

func TestChangeRateEmptyBefore(t *testing.T) {
	t.Parallel()

	// max(1, |before|) denominator: no division by zero.
	res := match.Greedy(nil, []geo.Feature{testutil.Sidewalk("a", [2]float64{0, 0}, [2]float64{0.001, 0})},
		match.NewGridIndex(nil, 0), baseTol)
	require.Equal(t, 0, res.Matched)
	assert.InDelta(t, 1.0, changeRate(res), 1e-12)
}
