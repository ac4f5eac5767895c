package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/sqlitemerge/internal/schema"
)

// SQLiteWriter writes tables into the output database. Every statement runs
// inside one transaction that is committed once by Commit.
type SQLiteWriter struct {
	client *SQLiteClient
	tx     *sql.Tx
}

// NewSQLiteWriter begins the output transaction on client
func NewSQLiteWriter(ctx context.Context, client *SQLiteClient) (*SQLiteWriter, error) {
	tx, err := client.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &SQLiteWriter{client: client, tx: tx}, nil
}

// CreateTable creates the table under name unless it already exists
func (w *SQLiteWriter) CreateTable(ctx context.Context, name string, table *schema.Table) error {
	if _, err := w.tx.ExecContext(ctx, CreateTableSQL(name, table.Columns)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return nil
}

// InsertRows appends all rows to the table positionally and returns the
// number of rows written
func (w *SQLiteWriter) InsertRows(ctx context.Context, name string, rows *schema.RowSet) (int, error) {
	if rows.Len() == 0 {
		return 0, nil
	}

	stmt, err := w.tx.PrepareContext(ctx, InsertSQL(name, len(rows.Rows[0])))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert into %s: %w", name, err)
	}
	defer stmt.Close()

	for i, row := range rows.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return i, fmt.Errorf("failed to insert row %d into %s: %w", i+1, name, err)
		}
	}

	return len(rows.Rows), nil
}

// Commit commits every write made through the writer
func (w *SQLiteWriter) Commit() error {
	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// CreateTableSQL builds an idempotent CREATE TABLE statement. Column clauses
// are always composed as NOT NULL, DEFAULT, PRIMARY KEY. A key spanning more
// than one column is the exception: its columns get no PRIMARY KEY clause and
// the key is written as a trailing PRIMARY KEY (...) table constraint, since
// SQLite rejects more than one column-level PRIMARY KEY.
func CreateTableSQL(name string, columns []schema.Column) string {
	pkCount := 0
	for _, col := range columns {
		if col.IsPrimaryKey() {
			pkCount++
		}
	}

	defs := make([]string, 0, len(columns)+1)
	for _, col := range columns {
		defs = append(defs, columnDefinition(col, pkCount == 1))
	}

	if pkCount > 1 {
		pk := schema.Table{Columns: columns}.PrimaryKey()
		quoted := make([]string, len(pk))
		for i, c := range pk {
			quoted[i] = QuoteIdent(c)
		}
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", QuoteIdent(name), strings.Join(defs, ", "))
}

func columnDefinition(col schema.Column, inlinePK bool) string {
	var b strings.Builder
	b.WriteString(QuoteIdent(col.Name))
	if col.Type != "" {
		b.WriteString(" ")
		b.WriteString(col.Type)
	}
	if col.NotNull {
		b.WriteString(" NOT NULL")
	}
	if col.DefaultValue != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(*col.DefaultValue)
	}
	if inlinePK && col.IsPrimaryKey() {
		b.WriteString(" PRIMARY KEY")
	}
	return b.String()
}

// InsertSQL builds a positional INSERT with n placeholders
func InsertSQL(name string, n int) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", QuoteIdent(name), placeholders)
}
