// Package database provides read-only access to the per-date crawl
// databases the crawler writes next to its reports.
package database

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = fmt.Errorf("not found")

// Open opens a crawl database read-only. The caller owns the connection and
// must close it.
func Open(path string) (*sqlx.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat crawl database: %w", err)
	}

	db, err := sqlx.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open crawl database: %w", err)
	}
	return db, nil
}
