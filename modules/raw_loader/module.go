// Package raw_loader provides the bronze source transforms that turn raw
// extracted files into tables.
package raw_loader

import (
	"context"
	"fmt"

	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/rawfile"
	"github.com/vk/medallion/internal/registry"
	"github.com/vk/medallion/internal/table"
)

// CSVArgs defines the arguments block of a `load_csv` asset.
type CSVArgs struct {
	Path       string `hcl:"path"`
	Delimiter  string `hcl:"delimiter,optional"`
	AllVarchar bool   `hcl:"all_varchar,optional"`
}

// JSONLArgs defines the arguments block of a `load_jsonl` asset.
type JSONLArgs struct {
	Path string `hcl:"path"`
}

// Module implements the registry.Module interface.
type Module struct{}

// Register registers the module's transforms.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform("load_csv", &registry.RegisteredTransform{
		NewArgs:     func() any { return new(CSVArgs) },
		Arity:       0,
		Description: "Reads a delimited text file with a header row.",
		Fn:          loadCSV,
	})
	r.RegisterTransform("load_jsonl", &registry.RegisteredTransform{
		NewArgs:     func() any { return new(JSONLArgs) },
		Arity:       0,
		Description: "Reads a file of newline-delimited JSON objects.",
		Fn:          loadJSONL,
	})
}

func loadCSV(ctx context.Context, args any, _ ...*table.Table) (any, error) {
	a, ok := args.(*CSVArgs)
	if !ok {
		return nil, fmt.Errorf("load_csv: unexpected arguments %T", args)
	}
	ctxlog.FromContext(ctx).Debug("Loading CSV file", "path", a.Path)
	return rawfile.ReadCSV(ctx, a.Path, rawfile.CSVOptions{Delimiter: a.Delimiter, AllVarchar: a.AllVarchar})
}

func loadJSONL(ctx context.Context, args any, _ ...*table.Table) (any, error) {
	a, ok := args.(*JSONLArgs)
	if !ok {
		return nil, fmt.Errorf("load_jsonl: unexpected arguments %T", args)
	}
	ctxlog.FromContext(ctx).Debug("Loading JSONL file", "path", a.Path)
	return rawfile.ReadJSONL(ctx, a.Path)
}
