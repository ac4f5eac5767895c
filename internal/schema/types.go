package schema

// Table represents a source table as described by the SQLite catalog
type Table struct {
	Name    string
	Columns []Column
}

// Column represents a table column as reported by PRAGMA table_info
type Column struct {
	Name         string
	Type         string
	NotNull      bool
	DefaultValue *string
	PKOrder      int // 1-based position in the primary key, 0 when not a key column
}

// IsPrimaryKey reports whether the column is part of the primary key
func (c Column) IsPrimaryKey() bool {
	return c.PKOrder > 0
}

// PrimaryKey returns the primary key column names in key order
func (t Table) PrimaryKey() []string {
	var pk []string
	for order := 1; order <= len(t.Columns); order++ {
		for _, col := range t.Columns {
			if col.PKOrder == order {
				pk = append(pk, col.Name)
			}
		}
	}
	return pk
}

// RowSet holds every row of a table, materialized in memory
type RowSet struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows
func (r *RowSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}
