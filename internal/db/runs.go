package db

import (
	"log"
	"time"

	"github.com/walkshed-data/netdiff/internal/diff"
)

// RecordComparisonRun appends one calibration audit row. Implements
// diff.RunRecorder; failures are logged, never surfaced into the
// comparison path.
func (db *DB) RecordComparisonRun(beforeYear, afterYear int, cal diff.Calibration, elapsed time.Duration) {
	_, err := db.Exec(`
		INSERT INTO comparison_runs (
			before_year, after_year,
			tolerance_distance, tolerance_length_ratio, tolerance_angle_degrees,
			multiplier, achieved_rate, target_rate, converged, elapsed_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		beforeYear, afterYear,
		cal.Tolerance.Distance, cal.Tolerance.LengthRatio, cal.Tolerance.AngleDegrees,
		cal.Multiplier, cal.AchievedRate, cal.TargetRate, cal.Converged,
		elapsed.Milliseconds())
	if err != nil {
		log.Printf("failed to record comparison run %d->%d: %v", beforeYear, afterYear, err)
	}
}

// ComparisonRunCount reports how many runs have been recorded.
func (db *DB) ComparisonRunCount() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM comparison_runs`).Scan(&n)
	return n, err
}
