// internal/repository/migrations/migrations.go
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"fortinat-shop/pkg/db"
)

//go:embed *.sql
var files embed.FS

// Up applies all pending migrations to conn. It reports whether anything changed.
// The migrate instance is left open because closing it closes conn.
func Up(conn *sqlx.DB, driver string) (bool, error) {
	m, err := newMigrate(conn, driver)
	if err != nil {
		return false, err
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return false, nil
		}
		return false, fmt.Errorf("apply migrations: %w", err)
	}
	return true, nil
}

// Down reverts every migration. Used by the migrator command.
func Down(conn *sqlx.DB, driver string) error {
	m, err := newMigrate(conn, driver)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("revert migrations: %w", err)
	}
	return nil
}

func newMigrate(conn *sqlx.DB, driver string) (*migrate.Migrate, error) {
	source, err := iofs.New(files, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	var target database.Driver
	switch driver {
	case db.DriverPostgres, "":
		driver = db.DriverPostgres
		target, err = postgres.WithInstance(conn.DB, &postgres.Config{MigrationsTable: "schema_migrations"})
	case db.DriverSQLite:
		target, err = sqlite.WithInstance(conn.DB, &sqlite.Config{MigrationsTable: "schema_migrations"})
	default:
		return nil, fmt.Errorf("unsupported migration driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("prepare %s migration driver: %w", driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, target)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
