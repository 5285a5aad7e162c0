// Package rawfile reads extracted raw files (delimited text and
// line-delimited JSON) into Tables. Column types are inferred by the
// embedded engine's sniffers; empty fields become NULL and nested JSON values
// are kept as JSON text.
package rawfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vk/medallion/internal/duck"
	"github.com/vk/medallion/internal/errs"
	"github.com/vk/medallion/internal/fsutil"
	"github.com/vk/medallion/internal/table"
)

// CSVOptions tunes ReadCSV. The zero value sniffs everything.
type CSVOptions struct {
	// Delimiter overrides the sniffed field separator.
	Delimiter string
	// AllVarchar disables type inference: every column is a string.
	AllVarchar bool
}

// ReadCSV reads a delimited text file with a header row.
func ReadCSV(ctx context.Context, path string, opts CSVOptions) (*table.Table, error) {
	params := []string{duck.QuoteLiteral(path), "header = true"}
	if opts.Delimiter != "" {
		params = append(params, "delim = "+duck.QuoteLiteral(opts.Delimiter))
	}
	if opts.AllVarchar {
		params = append(params, "all_varchar = true")
	}
	return read(ctx, path, "read_csv_auto("+strings.Join(params, ", ")+")")
}

// ReadJSONL reads a file holding one JSON object per line.
func ReadJSONL(ctx context.Context, path string) (*table.Table, error) {
	return read(ctx, path, "read_json_auto("+duck.QuoteLiteral(path)+", format = 'newline_delimited')")
}

func read(ctx context.Context, path, source string) (*table.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.Newf(errs.ErrNotFound, "read raw file", path, "source file does not exist")
		}
		return nil, errs.New(errs.ErrIO, "read raw file", path, err)
	}
	if info.IsDir() {
		return nil, errs.Newf(errs.ErrIO, "read raw file", path, "is a directory")
	}

	db, err := duck.Open(ctx)
	if err != nil {
		return nil, errs.New(errs.ErrIO, "read raw file", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+source)
	if err != nil {
		return nil, errs.New(errs.ErrIO, "read raw file", path, fmt.Errorf("failed to parse: %w", err))
	}
	defer rows.Close()

	tbl, err := duck.ScanTable(rows, fsutil.Stem(path))
	if err != nil {
		return nil, errs.New(errs.ErrIO, "read raw file", path, err)
	}
	return tbl, nil
}
