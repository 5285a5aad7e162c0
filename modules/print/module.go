// Package print provides a pass-through transform that logs the schema and
// the first rows of its input. It is handy as a debugging node between two
// assets.
package print

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/registry"
	"github.com/vk/medallion/internal/table"
)

// DefaultLimit is the number of rows logged when no limit is given.
const DefaultLimit = 5

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments for the print transform.
type Args struct {
	Limit *int `hcl:"limit,optional"`
}

// Print logs a preview of in and returns an unchanged copy of it.
func Print(ctx context.Context, args *Args, in *table.Table) *table.Table {
	logger := ctxlog.FromContext(ctx)
	limit := DefaultLimit
	if args != nil && args.Limit != nil {
		limit = *args.Limit
	}

	cols := make([]string, len(in.Columns))
	for i, c := range in.Columns {
		cols[i] = c.String()
	}
	logger.Info("Printing table", "table", in.Name, "rows", in.NumRows(), "schema", strings.Join(cols, ", "))

	for i, row := range in.Rows {
		if i >= limit {
			break
		}
		cells := make([]string, len(row))
		for j, v := range row {
			if v == nil {
				cells[j] = "(null)"
				continue
			}
			cells[j] = fmt.Sprint(v)
		}
		logger.Info("  row", "index", i, "values", strings.Join(cells, " | "))
	}
	return in.Clone()
}

// Register registers the transform with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform("print", &registry.RegisteredTransform{
		NewArgs:     func() any { return new(Args) },
		Arity:       1,
		Description: "Logs a preview of its input and passes it through unchanged.",
		Fn: func(ctx context.Context, args any, inputs ...*table.Table) (any, error) {
			a, _ := args.(*Args)
			return Print(ctx, a, inputs[0]), nil
		},
	})
}
