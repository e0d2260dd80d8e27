// Package validate measures detection accuracy against an independent
// reference dataset: the same greedy matching machinery as the
// comparison path, but with a fixed tolerance and a confusion-matrix
// readout instead of change classification.
package validate

import (
	"github.com/walkshed-data/netdiff/internal/geo"
	"github.com/walkshed-data/netdiff/internal/match"
)

// Result is the confusion matrix from matching a detected collection
// against a reference collection, with derived accuracy metrics and
// status-tagged feature lists for rendering. All metrics default to 0
// when their denominator is 0.
type Result struct {
	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`

	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`

	TruePositiveFeatures  []geo.Feature `json:"true_positive_features"`
	FalsePositiveFeatures []geo.Feature `json:"false_positive_features"`
	FalseNegativeFeatures []geo.Feature `json:"false_negative_features"`
}

// Validate matches detected (as "after") against reference (as
// "before") with the given fixed tolerance. No auto-calibration:
// reference vintage differs structurally from detected vintage, so
// the tolerance is chosen once, looser, by configuration.
func Validate(detected, reference *geo.FeatureCollection, tol match.Tolerance, gridScale float64) Result {
	var out Result
	out.TruePositiveFeatures = []geo.Feature{}
	out.FalsePositiveFeatures = []geo.Feature{}
	out.FalseNegativeFeatures = []geo.Feature{}
	if detected == nil || reference == nil {
		return out
	}

	ix := match.NewGridIndex(reference.Features, gridScale)
	res := match.Greedy(reference.Features, detected.Features, ix, tol)

	out.TruePositives = res.Matched
	out.FalsePositives = len(detected.Features) - res.Matched
	out.FalseNegatives = len(reference.Features) - res.Matched

	out.Precision = ratio(out.TruePositives, out.TruePositives+out.FalsePositives)
	out.Recall = ratio(out.TruePositives, out.TruePositives+out.FalseNegatives)
	if out.Precision+out.Recall > 0 {
		out.F1 = 2 * out.Precision * out.Recall / (out.Precision + out.Recall)
	}

	dYear, rYear := detected.Year, reference.Year
	for j, f := range detected.Features {
		if res.AfterClaimed[j] {
			out.TruePositiveFeatures = append(out.TruePositiveFeatures, f.Tagged(geo.StatusTruePositive, rYear, dYear))
		} else {
			out.FalsePositiveFeatures = append(out.FalsePositiveFeatures, f.Tagged(geo.StatusFalsePositive, rYear, dYear))
		}
	}
	for i, f := range reference.Features {
		if !res.BeforeClaimed[i] {
			out.FalseNegativeFeatures = append(out.FalseNegativeFeatures, f.Tagged(geo.StatusFalseNegative, rYear, dYear))
		}
	}
	return out
}

func ratio(num, denom int) float64 {
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}
