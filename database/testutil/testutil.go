// Package testutil opens throwaway SQLite databases for repository tests.
//
//	db := testutil.NewDB(t, &metadata.Row{}, &app.Row{})
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kbukum/identity/database"
	"github.com/kbukum/identity/logger"
)

// NewDB opens a file-backed SQLite database in t.TempDir, migrates models
// and closes it when the test ends.
func NewDB(t testing.TB, models ...interface{}) *database.DB {
	t.Helper()
	cfg := database.Config{
		Driver:     database.DriverSQLite,
		DSN:        filepath.Join(t.TempDir(), "identity.db"),
		LogLevel:   "silent",
		MaxRetries: 1,
	}
	db, err := database.Open(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("testutil: open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("testutil: migrate: %v", err)
		}
	}
	return db
}
