// Package conform provides the generic silver cleanup transform: column
// renames, timestamp-to-date casts and column drops.
package conform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vk/medallion/internal/registry"
	"github.com/vk/medallion/internal/table"
)

// Args defines the arguments block of a `conform` asset. Steps apply in the
// order rename, to_date, drop; to_date and drop name columns after renaming.
type Args struct {
	// Rename maps old to new column names. Columns absent from the input
	// are ignored.
	Rename map[string]string `hcl:"rename,optional"`
	// ToDate lists columns cast from timestamp (or timestamp text) to date.
	ToDate []string `hcl:"to_date,optional"`
	Drop   []string `hcl:"drop,optional"`
}

// Module implements the registry.Module interface.
type Module struct{}

// Register registers the module's transforms.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform("conform", &registry.RegisteredTransform{
		NewArgs:     func() any { return new(Args) },
		Arity:       1,
		Description: "Renames, date-casts and drops columns of one table.",
		Fn:          run,
	})
}

func run(_ context.Context, args any, inputs ...*table.Table) (any, error) {
	a, ok := args.(*Args)
	if !ok {
		return nil, fmt.Errorf("conform: unexpected arguments %T", args)
	}
	return Apply(inputs[0], a)
}

// Apply returns a conformed copy of in.
func Apply(in *table.Table, a *Args) (*table.Table, error) {
	out := in.Rename(a.Rename)
	for _, col := range a.ToDate {
		values, err := out.Values(col)
		if err != nil {
			return nil, fmt.Errorf("to_date: %w", err)
		}
		for i, v := range values {
			d, err := toDate(v)
			if err != nil {
				return nil, fmt.Errorf("to_date: column %q row %d: %w", col, i, err)
			}
			values[i] = d
		}
		if out, err = out.WithColumn(table.Column{Name: col, Type: table.Date}, values); err != nil {
			return nil, err
		}
	}
	return out.Drop(a.Drop...), nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", time.DateOnly}

func toDate(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return table.ToDate(x), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return table.ToDate(ts), nil
			}
		}
		return nil, fmt.Errorf("cannot parse %q as a timestamp", x)
	}
	return nil, fmt.Errorf("cannot cast %T to a date", v)
}
