package table

import (
	"fmt"
	"slices"
)

// Table is a named, ordered, typed collection of rows.
type Table struct {
	Name    string
	Columns []Column
	Rows    []Row
}

// New creates an empty table with the given schema.
func New(name string, columns ...Column) *Table {
	return &Table{Name: name, Columns: slices.Clone(columns)}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// ColumnNames returns the schema names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Append validates and appends a row. Values are coerced to the column types.
func (t *Table) Append(values ...any) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("table %q: row has %d values, schema has %d columns", t.Name, len(values), len(t.Columns))
	}
	row := make(Row, len(values))
	for i, v := range values {
		cell, err := Coerce(t.Columns[i].Type, v)
		if err != nil {
			return fmt.Errorf("table %q column %q: %w", t.Name, t.Columns[i].Name, err)
		}
		row[i] = cell
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Validate checks the structural invariants: at least one column, unique
// non-empty column names, every row as wide as the schema, every cell legal
// for its column type.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("table is nil")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %q has no columns", t.Name)
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("table %q has a column with an empty name", t.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("table %q has duplicate column %q", t.Name, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	for r, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("table %q row %d has %d values, schema has %d columns", t.Name, r, len(row), len(t.Columns))
		}
		for i, v := range row {
			if err := CheckValue(t.Columns[i].Type, v); err != nil {
				return fmt.Errorf("table %q row %d column %q: %w", t.Name, r, t.Columns[i].Name, err)
			}
		}
	}
	return nil
}

// Clone returns a deep copy; cells are immutable values so copying rows suffices.
func (t *Table) Clone() *Table {
	out := &Table{Name: t.Name, Columns: slices.Clone(t.Columns), Rows: make([]Row, len(t.Rows))}
	for i, row := range t.Rows {
		out.Rows[i] = slices.Clone(row)
	}
	return out
}

// Value returns the cell at row r of the named column.
func (t *Table) Value(r int, column string) (any, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("table %q has no column %q", t.Name, column)
	}
	if r < 0 || r >= len(t.Rows) {
		return nil, fmt.Errorf("table %q has no row %d", t.Name, r)
	}
	return t.Rows[r][idx], nil
}

// Values returns a copy of all cells of the named column.
func (t *Table) Values(column string) ([]any, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("table %q has no column %q", t.Name, column)
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}
