// Package diff turns feature correspondences into change
// classifications across yearly snapshots.
//
// A Session owns the active tolerance, its version counter, and the
// comparison cache; there is no package-level state, so isolated
// sessions are cheap to construct in tests. The auto-calibrator
// relaxes tolerance along a fixed ascending schedule until the
// resulting change rate is plausible against the domain prior, or
// settles for the closest step when the bound cannot be met.
package diff
