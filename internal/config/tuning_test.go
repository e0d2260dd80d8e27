package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyTuningDefaults(t *testing.T) {
	t.Parallel()

	cfg := EmptyTuning()

	tol := cfg.DefaultTolerance()
	assert.InDelta(t, 0.0025, tol.Distance, 1e-12)
	assert.InDelta(t, 0.3, tol.LengthRatio, 1e-12)
	assert.InDelta(t, 25.0, tol.AngleDegrees, 1e-12)

	vtol := cfg.ValidationTolerance()
	assert.Greater(t, vtol.Distance, tol.Distance, "validation tolerance is looser")

	assert.InDelta(t, 0.05, cfg.GetExpectedYearlyChangeRate(), 1e-12)
	assert.InDelta(t, 0.15, cfg.GetAcceptableRateCeiling(), 1e-12)
	assert.Equal(t, []float64{1.0, 1.5, 2.0, 3.0, 4.0, 6.0, 8.0, 10.0}, cfg.GetRelaxationSchedule())
	assert.InDelta(t, 200.0, cfg.GetGridScale(), 1e-12)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTuning(t *testing.T) {
	t.Parallel()

	t.Run("partial config keeps defaults", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "tuning.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"tolerance_distance": 0.004}`), 0o644))

		cfg, err := LoadTuning(path)
		require.NoError(t, err)
		assert.InDelta(t, 0.004, cfg.DefaultTolerance().Distance, 1e-12)
		assert.InDelta(t, 0.3, cfg.DefaultTolerance().LengthRatio, 1e-12)
	})

	t.Run("rejects non-json extension", func(t *testing.T) {
		t.Parallel()
		_, err := LoadTuning(filepath.Join(t.TempDir(), "tuning.yaml"))
		require.Error(t, err)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "tuning.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"tolerance_length_ratio": 1.5}`), 0o644))
		_, err := LoadTuning(path)
		require.Error(t, err)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		_, err := LoadTuning(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
	})
}

func TestValidateSchedule(t *testing.T) {
	t.Parallel()

	cfg := EmptyTuning()
	cfg.RelaxationSchedule = []float64{1, 2, 2}
	assert.Error(t, cfg.Validate(), "schedule must be strictly ascending")

	cfg.RelaxationSchedule = []float64{0.5, 2}
	assert.Error(t, cfg.Validate(), "multipliers below 1 would tighten the base tolerance")

	cfg.RelaxationSchedule = []float64{1, 2, 5}
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, []float64{1, 2, 5}, cfg.GetRelaxationSchedule())
}
