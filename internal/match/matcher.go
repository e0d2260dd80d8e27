package match

import "github.com/walkshed-data/netdiff/internal/geo"

// Result is a one-to-one correspondence between subsets of the before
// and after collections. The matched counts on both sides are always
// equal (the correspondence is a bijection between the claimed
// subsets). Unclaimed counts on either side are derived, never stored.
type Result struct {
	// BeforeClaimed[i] / AfterClaimed[j] report whether the feature at
	// that index was matched.
	BeforeClaimed []bool
	AfterClaimed  []bool
	// Matched is the number of pairs.
	Matched int
}


// UnmatchedBefore returns len(BeforeClaimed) - Matched.
func (r Result) UnmatchedBefore() int { return len(r.BeforeClaimed) - r.Matched }

// UnmatchedAfter returns len(AfterClaimed) - Matched.
func (r Result) UnmatchedAfter() int { return len(r.AfterClaimed) - r.Matched }

// Greedy matches after-features against before-features using the
// index built over before. Each after-feature claims the first
// unclaimed candidate that passes the predicate, in candidate order
// (not closest-first), with no backtracking: a claimed before-feature
// is permanently unavailable to later after-features even if it would
// be a better fit. Absence of a match is not a failure; the feature
// simply stays unclaimed.
func Greedy(before, after []geo.Feature, ix *GridIndex, tol Tolerance) Result {
	res := Result{
		BeforeClaimed: make([]bool, len(before)),
		AfterClaimed:  make([]bool, len(after)),
	}
	for j := range after {
		if geo.Degenerate(after[j].Geometry) {
			continue
		}
		c, ok := geo.Centroid(after[j].Geometry)
		if !ok {
			continue
		}
		for _, i := range ix.Near(c, tol.Distance) {
			if res.BeforeClaimed[i] {
				continue
			}
			if Similar(&before[i], &after[j], tol) {
				res.BeforeClaimed[i] = true
				res.AfterClaimed[j] = true
				res.Matched++
				break
			}
		}
	}
	return res
}
