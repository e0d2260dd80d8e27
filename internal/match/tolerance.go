package match

import "fmt"

// Tolerance gates whether two features may be considered the same
// real-world object. Distance bounds centroid displacement in degree
// units; LengthRatio bounds 1 - min(len)/max(len); AngleDegrees bounds
// the folded bearing difference.
type Tolerance struct {
	Distance     float64 `json:"distance"`
	LengthRatio  float64 `json:"length_ratio"`
	AngleDegrees float64 `json:"angle_degrees"`
}

// Validate checks the Tolerance invariants: all fields non-negative,
// LengthRatio within [0, 1], AngleDegrees within [0, 180].
func (t Tolerance) Validate() error {
	if t.Distance < 0 {
		return fmt.Errorf("distance must be non-negative, got %g", t.Distance)
	}
	if t.LengthRatio < 0 || t.LengthRatio > 1 {
		return fmt.Errorf("length_ratio must be in [0,1], got %g", t.LengthRatio)
	}
	if t.AngleDegrees < 0 || t.AngleDegrees > 180 {
		return fmt.Errorf("angle_degrees must be in [0,180], got %g", t.AngleDegrees)
	}
	return nil
}
