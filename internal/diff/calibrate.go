package diff

import (
	"math"

	"github.com/walkshed-data/netdiff/internal/geo"
	"github.com/walkshed-data/netdiff/internal/match"
)

// Calibration records the tolerance the auto-calibrator settled on and
// the rates that drove the decision. When Converged is false the bound
// was never met and the payload is informational: the reported rate is
// merely the closest achievable to the target.
type Calibration struct {
	Tolerance          match.Tolerance `json:"tolerance"`
	Multiplier         float64         `json:"multiplier"`
	AchievedRate       float64         `json:"achieved_rate"`
	TargetRate         float64         `json:"target_rate"`
	AcceptableRate     float64         `json:"acceptable_rate"`
	ExpectedYearlyRate float64         `json:"expected_yearly_rate"`
	YearsElapsed       int             `json:"years_elapsed"`
	StepsTried         int             `json:"steps_tried"`
	Converged          bool            `json:"converged"`
}

// Quality classifies a calibration outcome against the domain prior.
type Quality string

const (
	QualityOK       Quality = "ok"
	QualityWarning  Quality = "warning"
	QualityCritical Quality = "critical"
)

// AssessQuality grades the achieved change rate against the target
// using the warning/critical multipliers. Informational only; nothing
// in the matching path consumes it.
func AssessQuality(cal Calibration, warnMult, critMult float64) Quality {
	switch {
	case cal.AchievedRate > cal.TargetRate*critMult:
		return QualityCritical
	case cal.AchievedRate > cal.TargetRate*warnMult:
		return QualityWarning
	default:
		return QualityOK
	}
}

// relaxed scales the base tolerance for one schedule step: distance
// grows linearly with the multiplier, ratio and angle by smaller
// additive increments, each independently capped.
func relaxed(base match.Tolerance, mult float64) match.Tolerance {
	t := match.Tolerance{
		Distance:     base.Distance * mult,
		LengthRatio:  base.LengthRatio + 0.08*(mult-1),
		AngleDegrees: base.AngleDegrees + 6*(mult-1),
	}
	if t.LengthRatio > 0.95 {
		t.LengthRatio = 0.95
	}
	if t.AngleDegrees > 80 {
		t.AngleDegrees = 80
	}
	return t
}

// changeRate is (added + removed) / max(1, |before|).
func changeRate(res match.Result) float64 {
	denom := len(res.BeforeClaimed)
	if denom < 1 {
		denom = 1
	}
	return float64(res.UnmatchedAfter()+res.UnmatchedBefore()) / float64(denom)
}

// calibrate runs the greedy matcher along the relaxation schedule and
// returns the first step whose change rate satisfies the acceptance
// bound, or the step numerically closest to the target rate when none
// does. Looser tolerance can only match more or equal pairs, so the
// change rate is non-increasing in the schedule index.
func calibrate(before, after []geo.Feature, ix *match.GridIndex, base match.Tolerance,
	yearsElapsed int, expectedYearlyRate, rateCeiling float64, schedule []float64) (match.Result, Calibration) {

	if yearsElapsed < 1 {
		yearsElapsed = 1
	}
	targetRate := expectedYearlyRate * float64(yearsElapsed)
	acceptableRate := math.Min(targetRate*2, rateCeiling)

	cal := Calibration{
		TargetRate:         targetRate,
		AcceptableRate:     acceptableRate,
		ExpectedYearlyRate: expectedYearlyRate,
		YearsElapsed:       yearsElapsed,
	}

	var best match.Result
	bestGap := math.Inf(1)
	for i, mult := range schedule {
		tol := relaxed(base, mult)
		res := match.Greedy(before, after, ix, tol)
		rate := changeRate(res)
		cal.StepsTried = i + 1

		if rate <= acceptableRate {
			cal.Tolerance = tol
			cal.Multiplier = mult
			cal.AchievedRate = rate
			cal.Converged = true
			return res, cal
		}
		if gap := math.Abs(rate - targetRate); gap < bestGap {
			bestGap = gap
			best = res
			cal.Tolerance = tol
			cal.Multiplier = mult
			cal.AchievedRate = rate
		}
	}
	// Best effort: the bound was never met; callers see Converged ==
	// false and must treat the rates as informational.
	return best, cal
}
