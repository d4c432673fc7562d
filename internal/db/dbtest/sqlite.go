// Package dbtest opens migrated SQLite databases for tests.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"churn-prediction/backend/internal/db"
	"churn-prediction/backend/internal/db/migrate"
)

// OpenSQLite migrates a fresh database file under t.TempDir and returns an open pool.
// The pool is closed when the test ends.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "churn.db")
	if err := migrate.Run(db.DriverSQLite, path, "up"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	conn, err := db.Open(db.DriverSQLite, path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}
