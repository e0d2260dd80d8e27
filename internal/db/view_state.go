package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const viewStateKey = "viewer"

// ViewState is the persisted presentation-layer state: last map
// camera position and the set of years the user toggled off.
type ViewState struct {
	Center        [2]float64 `json:"center"`
	Zoom          float64    `json:"zoom"`
	DisabledYears []int      `json:"disabled_years"`
}

// ViewState returns the saved state, or (nil, nil) when none has been
// saved yet.
func (db *DB) ViewState() (*ViewState, error) {
	var raw string
	err := db.QueryRow(`SELECT value_json FROM view_state WHERE key = ?`, viewStateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load view state: %w", err)
	}
	var vs ViewState
	if err := json.Unmarshal([]byte(raw), &vs); err != nil {
		return nil, fmt.Errorf("decode view state: %w", err)
	}
	return &vs, nil
}

// SaveViewState upserts the state under the single viewer key.
func (db *DB) SaveViewState(vs *ViewState) error {
	raw, err := json.Marshal(vs)
	if err != nil {
		return fmt.Errorf("encode view state: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO view_state (key, value_json, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value_json = excluded.value_json,
			updated_at = excluded.updated_at`,
		viewStateKey, string(raw))
	if err != nil {
		return fmt.Errorf("save view state: %w", err)
	}
	return nil
}
