package diff

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/walkshed-data/netdiff/internal/geo"
)

// Summary aggregates a Comparison for display: status counts, a
// per-category breakdown, and length statistics over the surviving
// (added + unchanged) features.
type Summary struct {
	Total     int `json:"total"`
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`

	ByType map[geo.FeatureType]int `json:"by_type"`

	// Lengths prefer the measured length property when present and
	// fall back to the vertex-chain approximation.
	TotalLength  float64 `json:"total_length"`
	MeanLength   float64 `json:"mean_length"`
	MedianLength float64 `json:"median_length"`
}

// Summarize reduces a comparison to its headline numbers.
func Summarize(c *Comparison) Summary {
	s := Summary{ByType: make(map[geo.FeatureType]int)}
	if c == nil {
		return s
	}

	var lengths []float64
	for _, f := range c.Features {
		s.Total++
		s.ByType[f.Props.FeatureType]++
		switch f.Props.Status {
		case geo.StatusAdded:
			s.Added++
		case geo.StatusRemoved:
			s.Removed++
		case geo.StatusUnchanged:
			s.Unchanged++
		}
		if f.Props.Status == geo.StatusRemoved {
			continue
		}
		lengths = append(lengths, featureLength(f))
	}

	if len(lengths) > 0 {
		sort.Float64s(lengths)
		for _, l := range lengths {
			s.TotalLength += l
		}
		s.MeanLength = stat.Mean(lengths, nil)
		s.MedianLength = stat.Quantile(0.5, stat.Empirical, lengths, nil)
	}
	return s
}

func featureLength(f geo.Feature) float64 {
	if f.Props.LengthM != nil {
		return *f.Props.LengthM
	}
	return geo.ApproxLength(f.Geometry)
}
