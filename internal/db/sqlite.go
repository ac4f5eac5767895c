package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Registered database/sql driver names
const (
	DriverCGO  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// DefaultDriver is used when no driver is configured
const DefaultDriver = DriverCGO

// SQLiteClient manages the connection to a SQLite database file
type SQLiteClient struct {
	db     *sql.DB
	driver string
}

// ValidDriver reports whether name is a supported SQLite driver
func ValidDriver(name string) bool {
	return name == DriverCGO || name == DriverPure
}

// NewSQLiteClient opens the database at path, creating it if it does not exist
func NewSQLiteClient(ctx context.Context, driver, path string) (*SQLiteClient, error) {
	return open(ctx, driver, path, false)
}

// NewReadOnlySQLiteClient opens an existing database in read-only mode with
// query_only set. A missing file is an error and is never created.
func NewReadOnlySQLiteClient(ctx context.Context, driver, path string) (*SQLiteClient, error) {
	return open(ctx, driver, path, true)
}

func open(ctx context.Context, driver, path string, readOnly bool) (*SQLiteClient, error) {
	if driver == "" {
		driver = DefaultDriver
	}
	if !ValidDriver(driver) {
		return nil, fmt.Errorf("unsupported sqlite driver: %s", driver)
	}

	name, err := dsn(driver, path, readOnly)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db, driver: driver}, nil
}

// dsn builds a file: URI for the driver. The path is percent-encoded so that
// '?', '#' and '%' in file names stay part of the path. The two drivers spell
// connection pragmas differently.
func dsn(driver, path string, readOnly bool) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path %s: %w", path, err)
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if readOnly {
		q := url.Values{}
		q.Set("mode", "ro")
		if driver == DriverPure {
			q.Set("_pragma", "query_only(1)")
		} else {
			q.Set("_query_only", "true")
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}

// QuoteIdent quotes a SQLite identifier, doubling embedded quotes
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
