package validate

import "sort"

// PairingQuality grades a detected/reference year gap.
type PairingQuality string

const (
	PairingGood     PairingQuality = "good"     // gap <= 2 years
	PairingModerate PairingQuality = "moderate" // gap <= 5 years
	PairingPoor     PairingQuality = "poor"
)

// Pairing proposes a reference year to validate a detected year
// against.
type Pairing struct {
	Detected     int            `json:"detected"`
	Reference    int            `json:"reference"`
	YearDiff     int            `json:"year_diff"`
	MatchQuality PairingQuality `json:"match_quality"`
}

// BestReferenceYear picks the closest reference year not later than
// the detected year (an exact match wins outright), falling back to
// nearest by absolute difference when every reference year is later.
// ok is false when referenceYears is empty.
func BestReferenceYear(detected int, referenceYears []int) (int, bool) {
	if len(referenceYears) == 0 {
		return 0, false
	}
	years := append([]int(nil), referenceYears...)
	sort.Ints(years)

	best, found := 0, false
	for _, y := range years {
		if y == detected {
			return y, true
		}
		if y < detected {
			best, found = y, true
		}
	}
	if found {
		return best, true
	}

	nearest := years[0]
	for _, y := range years[1:] {
		if abs(y-detected) < abs(nearest-detected) {
			nearest = y
		}
	}
	return nearest, true
}

// SuggestedPairings proposes one reference year per detected year,
// graded by gap.
func SuggestedPairings(detectedYears, referenceYears []int) []Pairing {
	out := []Pairing{}
	for _, d := range detectedYears {
		r, ok := BestReferenceYear(d, referenceYears)
		if !ok {
			continue
		}
		gap := abs(d - r)
		q := PairingPoor
		switch {
		case gap <= 2:
			q = PairingGood
		case gap <= 5:
			q = PairingModerate
		}
		out = append(out, Pairing{Detected: d, Reference: r, YearDiff: gap, MatchQuality: q})
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
