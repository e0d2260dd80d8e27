package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walkshed-data/netdiff/internal/match"
)

// Tuning holds the matching and calibration parameters. The schema
// matches the /api/tolerance payloads so the same JSON can seed
// startup configuration and runtime updates. Fields omitted from the
// JSON retain their defaults via the accessors, so partial configs
// are safe.
type Tuning struct {
	// Default tolerance used before calibration and as the schedule base.
	ToleranceDistance     *float64 `json:"tolerance_distance,omitempty"`
	ToleranceLengthRatio  *float64 `json:"tolerance_length_ratio,omitempty"`
	ToleranceAngleDegrees *float64 `json:"tolerance_angle_degrees,omitempty"`

	// Fixed validation tolerance: intentionally looser than the
	// comparison default since reference vintage differs structurally
	// from detected vintage, and never auto-calibrated.
	ValidationDistance     *float64 `json:"validation_distance,omitempty"`
	ValidationLengthRatio  *float64 `json:"validation_length_ratio,omitempty"`
	ValidationAngleDegrees *float64 `json:"validation_angle_degrees,omitempty"`

	// Domain prior and calibration bounds.
	ExpectedYearlyChangeRate *float64  `json:"expected_yearly_change_rate,omitempty"`
	AcceptableRateCeiling    *float64  `json:"acceptable_rate_ceiling,omitempty"`
	RelaxationSchedule       []float64 `json:"relaxation_schedule,omitempty"`

	// Quality-assessment multipliers (informational only; never used
	// by the matching algorithm itself).
	WarningRateMultiplier  *float64 `json:"warning_rate_multiplier,omitempty"`
	CriticalRateMultiplier *float64 `json:"critical_rate_multiplier,omitempty"`

	// Spatial index quantization, in cells per degree.
	GridScale *float64 `json:"grid_scale,omitempty"`
}

// EmptyTuning returns a Tuning with every field unset; all accessors
// fall back to defaults.
func EmptyTuning() *Tuning {
	return &Tuning{}
}

// LoadTuning loads a Tuning from a JSON file. The file must have a
// .json extension and stay under the max file size.
func LoadTuning(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuning()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that any set fields hold valid values.
func (c *Tuning) Validate() error {
	if err := c.DefaultTolerance().Validate(); err != nil {
		return fmt.Errorf("default tolerance: %w", err)
	}
	if err := c.ValidationTolerance().Validate(); err != nil {
		return fmt.Errorf("validation tolerance: %w", err)
	}
	if c.ExpectedYearlyChangeRate != nil {
		if v := *c.ExpectedYearlyChangeRate; v <= 0 || v > 1 {
			return fmt.Errorf("expected_yearly_change_rate must be in (0,1], got %g", v)
		}
	}
	if c.AcceptableRateCeiling != nil {
		if v := *c.AcceptableRateCeiling; v <= 0 || v > 1 {
			return fmt.Errorf("acceptable_rate_ceiling must be in (0,1], got %g", v)
		}
	}
	if c.GridScale != nil && *c.GridScale <= 0 {
		return fmt.Errorf("grid_scale must be positive, got %g", *c.GridScale)
	}
	prev := 0.0
	for i, m := range c.RelaxationSchedule {
		if m < 1 {
			return fmt.Errorf("relaxation_schedule[%d] must be >= 1, got %g", i, m)
		}
		if m <= prev {
			return fmt.Errorf("relaxation_schedule must be strictly ascending")
		}
		prev = m
	}
	return nil
}

// DefaultTolerance returns the comparison base tolerance.
func (c *Tuning) DefaultTolerance() match.Tolerance {
	t := match.Tolerance{Distance: 0.0025, LengthRatio: 0.3, AngleDegrees: 25}
	if c.ToleranceDistance != nil {
		t.Distance = *c.ToleranceDistance
	}
	if c.ToleranceLengthRatio != nil {
		t.LengthRatio = *c.ToleranceLengthRatio
	}
	if c.ToleranceAngleDegrees != nil {
		t.AngleDegrees = *c.ToleranceAngleDegrees
	}
	return t
}

// ValidationTolerance returns the fixed tolerance used when matching
// detections against reference data.
func (c *Tuning) ValidationTolerance() match.Tolerance {
	t := match.Tolerance{Distance: 0.005, LengthRatio: 0.5, AngleDegrees: 45}
	if c.ValidationDistance != nil {
		t.Distance = *c.ValidationDistance
	}
	if c.ValidationLengthRatio != nil {
		t.LengthRatio = *c.ValidationLengthRatio
	}
	if c.ValidationAngleDegrees != nil {
		t.AngleDegrees = *c.ValidationAngleDegrees
	}
	return t
}

// GetExpectedYearlyChangeRate returns the expected fraction of
// features changing per year, or the default.
func (c *Tuning) GetExpectedYearlyChangeRate() float64 {
	if c.ExpectedYearlyChangeRate == nil {
		return 0.05
	}
	return *c.ExpectedYearlyChangeRate
}

// GetAcceptableRateCeiling returns the hard ceiling on the acceptable
// change rate regardless of elapsed span, or the default.
func (c *Tuning) GetAcceptableRateCeiling() float64 {
	if c.AcceptableRateCeiling == nil {
		return 0.15
	}
	return *c.AcceptableRateCeiling
}

// GetRelaxationSchedule returns the ascending tolerance multiplier
// schedule, or the default.
func (c *Tuning) GetRelaxationSchedule() []float64 {
	if len(c.RelaxationSchedule) == 0 {
		return []float64{1.0, 1.5, 2.0, 3.0, 4.0, 6.0, 8.0, 10.0}
	}
	return c.RelaxationSchedule
}

// GetWarningRateMultiplier returns the warning-threshold multiplier
// on the target rate, or the default.
func (c *Tuning) GetWarningRateMultiplier() float64 {
	if c.WarningRateMultiplier == nil {
		return 1.5
	}
	return *c.WarningRateMultiplier
}

// GetCriticalRateMultiplier returns the critical-threshold multiplier
// on the target rate, or the default.
func (c *Tuning) GetCriticalRateMultiplier() float64 {
	if c.CriticalRateMultiplier == nil {
		return 3.0
	}
	return *c.CriticalRateMultiplier
}

// GetGridScale returns the grid quantization in cells per degree, or
// the default.
func (c *Tuning) GetGridScale() float64 {
	if c.GridScale == nil {
		return match.DefaultGridScale
	}
	return *c.GridScale
}
