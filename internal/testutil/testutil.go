// Package testutil provides fixtures shared by the package tests.
package testutil

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// CreateDB creates a SQLite database at dir/name and runs each statement
// against it. It returns the path of the new file.
func CreateDB(t testing.TB, dir, name string, statements ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to exec %q on %s: %v", stmt, name, err)
		}
	}
	return path
}

// WriteFile writes raw bytes to dir/name, used for corrupt database fixtures.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// OpenDB opens an existing database for assertions. The handle is closed
// when the test ends.
func OpenDB(t testing.TB, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Tables returns the user table names in path, sorted by name.
func Tables(t testing.TB, path string) []string {
	t.Helper()

	rows, err := OpenDB(t, path).Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		t.Fatalf("failed to list tables in %s: %v", path, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("failed to list tables in %s: %v", path, err)
	}
	return names
}

// CountRows returns the number of rows in table.
func CountRows(t testing.TB, path, table string) int {
	t.Helper()

	var n int
	query := `SELECT COUNT(*) FROM "` + table + `"`
	if err := OpenDB(t, path).QueryRow(query).Scan(&n); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	return n
}

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
