// cmd/migrator/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"fortinat-shop/internal/config"
	"fortinat-shop/internal/repository/migrations"
	"fortinat-shop/internal/util"
	"fortinat-shop/pkg/db"
)

// The migrator applies the embedded schema migrations to the configured
// database. Storage settings come from the same environment as the API;
// flags override the driver and the SQLite path.
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	fs := flag.NewFlagSet("migrator", flag.ContinueOnError)
	driver := fs.String("driver", "", "storage driver (postgres or sqlite), overrides STORAGE_DRIVER")
	sqlitePath := fs.String("sqlite-path", "", "sqlite database file, overrides SQLITE_PATH")
	down := fs.Bool("down", false, "roll back every migration instead of applying them")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	util.InitLogger(cfg.Env)
	logger := util.GetLogger()

	storage := cfg.Storage
	if *driver != "" {
		storage.Driver = *driver
	}
	if *sqlitePath != "" {
		storage.SQLitePath = *sqlitePath
	}

	conn, err := db.Open(storage.DB())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close database: %w", closeErr)
		}
	}()

	if *down {
		if err := migrations.Down(conn, storage.Driver); err != nil {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}
		logger.Info("Migrations rolled back", "driver", storage.Driver)
		return nil
	}

	changed, err := migrations.Up(conn, storage.Driver)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if !changed {
		logger.Info("No migrations to apply", "driver", storage.Driver)
		return nil
	}
	logger.Info("Migrations applied successfully", "driver", storage.Driver)
	return nil
}
