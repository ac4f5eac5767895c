package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/sqlitemerge/internal/schema"
)

// SequenceTable is SQLite's AUTOINCREMENT bookkeeping table
const SequenceTable = "sqlite_sequence"

// SQLiteExtractor reads catalog information and rows from a SQLite database
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates a new SQLite extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

// TableNames returns every table name in catalog order, including
// SQLite's internal tables
func (e *SQLiteExtractor) TableNames(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table'`

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tableList []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tableList = append(tableList, tableName)
	}

	return tableList, rows.Err()
}

// ExtractTable extracts the column descriptors of a single table
func (e *SQLiteExtractor) ExtractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	columns, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s has no columns", tableName)
	}

	return &schema.Table{Name: tableName, Columns: columns}, nil
}

// extractColumns extracts column information for a table
func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdent(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var cid int
		var name string
		var colType sql.NullString
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}

		col := schema.Column{
			Name:    name,
			Type:    colType.String,
			NotNull: notNull != 0,
			PKOrder: pk,
		}

		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// ReadRows loads every row of the table into memory. Each column is selected
// as +"col", an expression without a declared type, so the drivers return the
// stored value as is instead of converting it by declared type (BOOLEAN to
// bool, DATE or TIMESTAMP to time.Time).
func (e *SQLiteExtractor) ReadRows(ctx context.Context, table *schema.Table) (*schema.RowSet, error) {
	cols := make([]string, len(table.Columns))
	exprs := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		cols[i] = col.Name
		exprs[i] = "+" + QuoteIdent(col.Name)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), QuoteIdent(table.Name))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := &schema.RowSet{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}
		set.Rows = append(set.Rows, values)
	}

	return set, rows.Err()
}
