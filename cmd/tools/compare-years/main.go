// Command compare-years runs one comparison (and optionally a
// reference validation) offline and prints the result, without
// standing up the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/walkshed-data/netdiff/internal/config"
	"github.com/walkshed-data/netdiff/internal/diff"
	"github.com/walkshed-data/netdiff/internal/store"
	"github.com/walkshed-data/netdiff/internal/validate"
)

var (
	dataDir    = flag.String("data", "data", "GeoJSON data directory")
	before     = flag.Int("before", 0, "Before year")
	after      = flag.Int("after", 0, "After year")
	refYear    = flag.Int("reference", 0, "Optional reference year to validate the after year against")
	tuningPath = flag.String("tuning", "", "Optional tuning config JSON")
)

func main() {
	flag.Parse()
	if *before == 0 || *after == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.EmptyTuning()
	if *tuningPath != "" {
		loaded, err := config.LoadTuning(*tuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		cfg = loaded
	}

	ctx := context.Background()
	fileStore := store.NewFileStore(*dataDir)
	session := diff.NewSession(fileStore, cfg, nil)

	cmp, err := session.CompareYears(ctx, *before, *after)
	if err != nil {
		log.Fatalf("comparison failed: %v", err)
	}

	sum := diff.Summarize(cmp)
	fmt.Printf("%d -> %d\n", *before, *after)
	fmt.Printf("  total %d | added %d | removed %d | unchanged %d\n",
		sum.Total, sum.Added, sum.Removed, sum.Unchanged)
	for t, n := range sum.ByType {
		fmt.Printf("  %-10s %d\n", t, n)
	}
	fmt.Printf("  length: total %.4f mean %.4f median %.4f\n",
		sum.TotalLength, sum.MeanLength, sum.MedianLength)

	if cal := cmp.Calibration; cal != nil {
		fmt.Printf("  calibration: x%.1f after %d steps, rate %.3f (target %.3f, bound %.3f), converged=%v\n",
			cal.Multiplier, cal.StepsTried, cal.AchievedRate, cal.TargetRate, cal.AcceptableRate, cal.Converged)
		fmt.Printf("  quality: %s\n", diff.AssessQuality(*cal,
			cfg.GetWarningRateMultiplier(), cfg.GetCriticalRateMultiplier()))
	} else {
		fmt.Println("  no calibration (missing data on one side)")
	}

	if *refYear != 0 {
		detected, err := fileStore.CollectionForYear(ctx, *after)
		if err != nil {
			log.Fatalf("failed to load detected collection: %v", err)
		}
		reference, err := fileStore.ReferenceCollection(ctx, *refYear)
		if err != nil {
			log.Fatalf("failed to load reference collection: %v", err)
		}
		res := validate.Validate(detected, reference, cfg.ValidationTolerance(), cfg.GetGridScale())
		fmt.Printf("validation vs reference %d\n", *refYear)
		fmt.Printf("  tp %d | fp %d | fn %d\n", res.TruePositives, res.FalsePositives, res.FalseNegatives)
		fmt.Printf("  precision %.3f | recall %.3f | f1 %.3f\n", res.Precision, res.Recall, res.F1)
	}
}
