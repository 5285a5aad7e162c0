package duck

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"github.com/marcboeker/go-duckdb"
	"github.com/vk/medallion/internal/table"
)

// ScanTable drains rows into a new Table named name. Column types come from
// the engine's result metadata.
func ScanTable(rows *sql.Rows, name string) (*table.Table, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	cols := make([]table.Column, len(colTypes))
	for i, ct := range colTypes {
		cols[i] = table.Column{Name: ct.Name(), Type: TableType(ct.DatabaseTypeName())}
	}
	out := table.New(name, cols...)

	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(table.Row, len(cols))
		for i, v := range dest {
			cell, err := normalize(cols[i].Type, v)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", cols[i].Name, err)
			}
			row[i] = cell
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalize converts a driver value into the canonical cell for t.
func normalize(t table.Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case table.Int64:
		switch n := v.(type) {
		case uint64:
			if n > math.MaxInt64 {
				return nil, fmt.Errorf("value %d overflows int64", n)
			}
			return int64(n), nil
		case *big.Int:
			if !n.IsInt64() {
				return nil, fmt.Errorf("value %s overflows int64", n)
			}
			return n.Int64(), nil
		}
	case table.Float64:
		if d, ok := v.(duckdb.Decimal); ok {
			return d.Float64(), nil
		}
	case table.String:
		switch s := v.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		case map[string]any, []any:
			b, err := json.Marshal(s)
			if err != nil {
				return nil, err
			}
			return string(b), nil
		case fmt.Stringer:
			return s.String(), nil
		default:
			return fmt.Sprint(s), nil
		}
	}
	return table.Coerce(t, v)
}
