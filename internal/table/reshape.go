package table

import (
	"fmt"
	"slices"
)

// WithName returns a copy of the table under a different name.
func (t *Table) WithName(name string) *Table {
	out := t.Clone()
	out.Name = name
	return out
}

// Rename returns a copy with columns renamed. Mappings for absent columns are ignored.
func (t *Table) Rename(mapping map[string]string) *Table {
	out := t.Clone()
	for i, c := range out.Columns {
		if to, ok := mapping[c.Name]; ok {
			out.Columns[i].Name = to
		}
	}
	return out
}

// Drop returns a copy without the named columns. Absent names are ignored.
func (t *Table) Drop(names ...string) *Table {
	var keep []string
	for _, c := range t.Columns {
		if !slices.Contains(names, c.Name) {
			keep = append(keep, c.Name)
		}
	}
	out, _ := t.Select(keep...)
	return out
}

// Select returns a copy holding only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	idx := make([]int, len(names))
	out := &Table{Name: t.Name, Columns: make([]Column, len(names)), Rows: make([]Row, len(t.Rows))}
	for i, name := range names {
		idx[i] = t.ColumnIndex(name)
		if idx[i] < 0 {
			return nil, fmt.Errorf("table %q has no column %q", t.Name, name)
		}
		out.Columns[i] = t.Columns[idx[i]]
	}
	for r, row := range t.Rows {
		projected := make(Row, len(idx))
		for i, j := range idx {
			projected[i] = row[j]
		}
		out.Rows[r] = projected
	}
	return out, nil
}

// WithColumn returns a copy with the column replaced (same position) or
// appended, filled with values.
func (t *Table) WithColumn(col Column, values []any) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("table %q: column %q has %d values, table has %d rows", t.Name, col.Name, len(values), len(t.Rows))
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cell, err := Coerce(col.Type, v)
		if err != nil {
			return nil, fmt.Errorf("table %q column %q row %d: %w", t.Name, col.Name, i, err)
		}
		cells[i] = cell
	}

	out := t.Clone()
	idx := out.ColumnIndex(col.Name)
	if idx >= 0 {
		out.Columns[idx] = col
		for r := range out.Rows {
			out.Rows[r][idx] = cells[r]
		}
		return out, nil
	}
	out.Columns = append(out.Columns, col)
	for r := range out.Rows {
		out.Rows[r] = append(out.Rows[r], cells[r])
	}
	return out, nil
}

// Filter returns a copy holding only the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{Name: t.Name, Columns: slices.Clone(t.Columns)}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, slices.Clone(row))
		}
	}
	return out
}
