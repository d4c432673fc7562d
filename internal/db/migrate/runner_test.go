package migrate

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestRun_EmptyDSN(t *testing.T) {
	err := Run("postgres", "", "up")
	if err == nil {
		t.Fatal("Run with empty DSN should return error")
	}
	if err.Error() != "DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL" {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	testCases := []struct {
		name      string
		direction string
	}{
		{"empty", ""},
		{"invalid", "invalid"},
		{"upcase", "UP"},
		{"mixed", "Up"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Run("postgres", "postgres://localhost/test", tc.direction)
			if err == nil {
				t.Errorf("Run with direction %q should return error", tc.direction)
			}
		})
	}
}

func TestRun_UnsupportedDriver(t *testing.T) {
	if err := Run("mysql", "root@/churn", "up"); err == nil {
		t.Fatal("Run with unsupported driver should return error")
	}
}

func TestDatabaseURL(t *testing.T) {
	testCases := []struct {
		driver, dsn, want string
	}{
		{"postgres", "postgres://u:p@localhost:5432/churn?sslmode=disable", "postgres://u:p@localhost:5432/churn?sslmode=disable"},
		{"sqlite", "/tmp/churn.db", "sqlite3:///tmp/churn.db"},
		{"sqlite", "file:churn.db", "sqlite3://churn.db"},
	}
	for _, tc := range testCases {
		got, err := databaseURL(tc.driver, tc.dsn)
		if err != nil {
			t.Fatalf("databaseURL(%q, %q): %v", tc.driver, tc.dsn, err)
		}
		if got != tc.want {
			t.Errorf("databaseURL(%q, %q) = %q, want %q", tc.driver, tc.dsn, got, tc.want)
		}
	}
}

func TestRun_SQLiteUpDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "churn.db")

	if err := Run("sqlite", path, "up"); err != nil {
		t.Fatalf("up: %v", err)
	}
	// Second run is a no-op.
	if err := Run("sqlite", path, "up"); err != nil {
		t.Fatalf("repeat up: %v", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()
	for _, table := range []string{"churn_predictions", "prediction_audit_log"} {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing after up: %v", table, err)
		}
	}

	if err := Run("sqlite", path, "down"); err != nil {
		t.Fatalf("down: %v", err)
	}
	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'churn_predictions'").Scan(&n); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if n != 0 {
		t.Error("churn_predictions should be dropped after down")
	}
}
