// Package db persists the small amount of state that outlives a
// process: the viewer's last camera position and disabled years, and
// an audit log of calibration runs. The matching engine itself stores
// nothing here and is fully reconstructible from its inputs.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite connection.
type DB struct {
	*sql.DB
}

// New opens (or creates) the sqlite database at path. Schema is
// managed by MigrateUp, not here.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// modernc sqlite serialises writes itself; one connection avoids
	// SQLITE_BUSY churn under the HTTP server.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(`PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return &DB{conn}, nil
}
