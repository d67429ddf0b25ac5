// cmd/migrator/main_test.go
package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fortinat-shop/pkg/db"
)

func setupEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("STORAGE_DRIVER", "sqlite")
}

func tableExists(t *testing.T, path, table string) bool {
	t.Helper()
	conn, err := db.NewSQLiteDB(path)
	require.NoError(t, err)
	defer conn.Close()

	var count int
	require.NoError(t, conn.Get(&count, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table))
	return count == 1
}

func TestRun(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "shop.db")

	t.Run("ApplyAndRollBack", func(t *testing.T) {
		require.NoError(t, run([]string{"-sqlite-path", path}))
		assert.True(t, tableExists(t, path, "users"))

		require.NoError(t, run([]string{"-sqlite-path", path}), "applying twice is a no-op")

		require.NoError(t, run([]string{"-sqlite-path", path, "-down"}))
		assert.False(t, tableExists(t, path, "users"))
	})

	t.Run("ErrorsAreReturned", func(t *testing.T) {
		assert.Error(t, run([]string{"-no-such-flag"}))
		assert.Error(t, run([]string{"-driver", "mysql"}))
	})
}
