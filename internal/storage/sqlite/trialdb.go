// Package sqlite persists alignment trial results so benchmark runs can be
// compared across parameter changes.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// TrialDB wraps the database handle holding alignment trial results.
type TrialDB struct {
	*sql.DB
}

//go:embed schema.sql
var schemaSQL string

// NewTrialDB opens (or creates) the trial database at path and applies the
// embedded schema. Use ":memory:" for an ephemeral database.
func NewTrialDB(path string) (*TrialDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply trial schema: %w", err)
	}

	log.Println("initialized alignment trial database schema")
	return &TrialDB{db}, nil
}
