package duck

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/medallion/internal/table"
)

// Eval runs query against inputs in a throwaway in-memory engine and returns
// the result as a Table named name. Each input is visible as a relation under
// its map key. Inputs are not modified.
func Eval(ctx context.Context, name, query string, inputs map[string]*table.Table) (*table.Table, error) {
	db, err := Open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	relations := make([]string, 0, len(inputs))
	for rel := range inputs {
		relations = append(relations, rel)
	}
	sort.Strings(relations)
	for _, rel := range relations {
		if err := LoadTable(ctx, conn, rel, inputs[rel]); err != nil {
			return nil, err
		}
	}

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query for %q failed: %w", name, err)
	}
	defer rows.Close()
	return ScanTable(rows, name)
}
