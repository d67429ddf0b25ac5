// pkg/db/db.go
package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds database connection configuration.
type Config struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string // File path or ":memory:" when Driver is sqlite
}

// Open connects to the database selected by cfg.Driver.
func Open(cfg Config) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return NewPostgresDB(cfg)
	case DriverSQLite:
		return NewSQLiteDB(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
