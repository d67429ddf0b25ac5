// pkg/db/sqlite.go
package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver, registers "sqlite"
)

// NewSQLiteDB opens a SQLite database at path. An empty path or ":memory:"
// yields an in-memory database that lives as long as the returned handle.
func NewSQLiteDB(path string) (*sqlx.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = ":memory:"
	}
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		dsn = "file:" + dsn
	}

	db, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database %q: %w", path, err)
	}

	// A single connection serializes writers and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database %q: %w", path, err)
	}

	return db, nil
}
