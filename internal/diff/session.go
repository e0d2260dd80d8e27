package diff

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/walkshed-data/netdiff/internal/config"
	"github.com/walkshed-data/netdiff/internal/geo"
	"github.com/walkshed-data/netdiff/internal/match"
)

// Loader supplies feature collections for a year. Implementations
// return (nil, nil) when no data exists for the year; absence is data,
// not an error.
type Loader interface {
	CollectionForYear(ctx context.Context, year int) (*geo.FeatureCollection, error)
}

// RunRecorder receives an audit record for every calibration run.
// Recording failures are logged by implementations, never propagated
// into the comparison path.
type RunRecorder interface {
	RecordComparisonRun(beforeYear, afterYear int, cal Calibration, elapsed time.Duration)
}

// Comparison is a status-tagged feature set for one (before, after)
// year pair. Calibration is nil when either side had no data.
type Comparison struct {
	BeforeYear  int           `json:"before_year"`
	AfterYear   int           `json:"after_year"`
	Features    []geo.Feature `json:"features"`
	Calibration *Calibration  `json:"calibration,omitempty"`
}

type cacheKey struct {
	before, after int
	version       int64
}

// Session owns the active tolerance, its version counter, and the
// comparison cache. Stale cache entries keyed under an old version
// simply become unreachable; they are not evicted eagerly.
type Session struct {
	loader   Loader
	cfg      *config.Tuning
	recorder RunRecorder

	mu         sync.Mutex
	tolerance  match.Tolerance
	tolVersion int64
	cache      map[cacheKey]*Comparison
}

// NewSession creates a session seeded with the config's default
// tolerance. recorder may be nil.
func NewSession(loader Loader, cfg *config.Tuning, recorder RunRecorder) *Session {
	if cfg == nil {
		cfg = config.EmptyTuning()
	}
	return &Session{
		loader:    loader,
		cfg:       cfg,
		recorder:  recorder,
		tolerance: cfg.DefaultTolerance(),
		cache:     make(map[cacheKey]*Comparison),
	}
}

// Tolerance returns the session's current tolerance.
func (s *Session) Tolerance() match.Tolerance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tolerance
}

// DefaultTolerance returns the configured default without touching
// session state.
func (s *Session) DefaultTolerance() match.Tolerance {
	return s.cfg.DefaultTolerance()
}

// ToleranceVersion returns the monotonically increasing version
// counter; it bumps on every successful SetTolerance.
func (s *Session) ToleranceVersion() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tolVersion
}

// SetTolerance installs a new tolerance and returns the new version.
// Cached comparisons keyed under older versions become unreachable.
func (s *Session) SetTolerance(t match.Tolerance) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tolerance = t
	s.tolVersion++
	return s.tolVersion, nil
}

// CompareYears classifies every feature of the after-year snapshot
// against the before-year snapshot as added/removed/unchanged, running
// the auto-calibrator to pick a plausible tolerance. Results are
// memoized by (before, after, toleranceVersion); repeat calls return
// the identical cached value. Missing data on either side degrades to
// an empty Comparison with no calibration.
func (s *Session) CompareYears(ctx context.Context, beforeYear, afterYear int) (*Comparison, error) {
	s.mu.Lock()
	base := s.tolerance
	key := cacheKey{beforeYear, afterYear, s.tolVersion}
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	// I/O phase: everything after this point is synchronous compute.
	before, err := s.loader.CollectionForYear(ctx, beforeYear)
	if err != nil {
		return nil, err
	}
	after, err := s.loader.CollectionForYear(ctx, afterYear)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{BeforeYear: beforeYear, AfterYear: afterYear, Features: []geo.Feature{}}
	if before == nil || after == nil {
		return s.storeCached(key, cmp), nil
	}

	start := time.Now()
	ix := match.NewGridIndex(before.Features, s.cfg.GetGridScale())
	res, cal := calibrate(
		before.Features, after.Features, ix, base,
		afterYear-beforeYear,
		s.cfg.GetExpectedYearlyChangeRate(),
		s.cfg.GetAcceptableRateCeiling(),
		s.cfg.GetRelaxationSchedule(),
	)

	cmp.Calibration = &cal
	cmp.Features = tagFeatures(before.Features, after.Features, res, beforeYear, afterYear)

	if s.recorder != nil {
		s.recorder.RecordComparisonRun(beforeYear, afterYear, cal, time.Since(start))
	}
	return s.storeCached(key, cmp), nil
}

// storeCached installs cmp under key unless a concurrent request got
// there first, in which case the winner is returned so repeat callers
// always observe one identical object per key.
func (s *Session) storeCached(key cacheKey, cmp *Comparison) *Comparison {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[key]; ok {
		return existing
	}
	s.cache[key] = cmp
	return cmp
}

// tagFeatures produces the classified output set: claimed after
// features are unchanged, unclaimed after features added, unclaimed
// before features removed.
func tagFeatures(before, after []geo.Feature, res match.Result, beforeYear, afterYear int) []geo.Feature {
	out := make([]geo.Feature, 0, len(after)+res.UnmatchedBefore())
	for j, f := range after {
		if res.AfterClaimed[j] {
			out = append(out, f.Tagged(geo.StatusUnchanged, beforeYear, afterYear))
		} else {
			out = append(out, f.Tagged(geo.StatusAdded, beforeYear, afterYear))
		}
	}
	for i, f := range before {
		if !res.BeforeClaimed[i] {
			out = append(out, f.Tagged(geo.StatusRemoved, beforeYear, afterYear))
		}
	}
	return out
}

// DataForYear returns the classified view for a single year. The
// earliest available year is the baseline (everything unchanged);
// later years are compared against their nearest earlier available
// year.
func (s *Session) DataForYear(ctx context.Context, year int, availableYears []int) (*Comparison, error) {
	prev, ok := nearestEarlierYear(year, availableYears)
	if !ok {
		return s.baselineYear(ctx, year)
	}
	return s.CompareYears(ctx, prev, year)
}

func (s *Session) baselineYear(ctx context.Context, year int) (*Comparison, error) {
	coll, err := s.loader.CollectionForYear(ctx, year)
	if err != nil {
		return nil, err
	}
	cmp := &Comparison{BeforeYear: year, AfterYear: year, Features: []geo.Feature{}}
	if coll == nil {
		return cmp, nil
	}
	for _, f := range coll.Features {
		cmp.Features = append(cmp.Features, f.Tagged(geo.StatusUnchanged, year, year))
	}
	return cmp, nil
}

// nearestEarlierYear picks the closest available year strictly before
// the given one.
func nearestEarlierYear(year int, available []int) (int, bool) {
	years := append([]int(nil), available...)
	sort.Ints(years)
	best, found := 0, false
	for _, y := range years {
		if y < year {
			best, found = y, true
		}
	}
	return best, found
}
