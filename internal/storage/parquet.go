package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/medallion/internal/assetkey"
	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/duck"
	"github.com/vk/medallion/internal/errs"
	"github.com/vk/medallion/internal/table"
)

// parquetResolver stores tables as Parquet files through DuckDB.
type parquetResolver struct {
	class string
	cfg   Config
	ext   string
	db    *sql.DB
}

var _ Resolver = (*parquetResolver)(nil)

func (p *parquetResolver) Location(key assetkey.Key) string {
	return filepath.Join(p.cfg.BasePath, key.Name()+p.ext)
}

func (p *parquetResolver) Write(ctx context.Context, key assetkey.Key, v any) error {
	subject := key.String()
	tbl, ok := v.(*table.Table)
	if !ok || tbl == nil {
		return errs.Newf(errs.ErrTypeMismatch, "write", subject, "expected *table.Table, got %T", v)
	}
	if err := tbl.Validate(); err != nil {
		return errs.New(errs.ErrTypeMismatch, "write", subject, err)
	}

	loc := p.Location(key)
	dir := filepath.Dir(loc)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.New(errs.ErrIO, "write", subject, err)
	}

	// The temporary name does not carry the artifact extension, so catalog
	// scans never pick it up.
	f, err := os.CreateTemp(dir, "."+key.Name()+"-*.tmp")
	if err != nil {
		return errs.New(errs.ErrIO, "write", subject, err)
	}
	tmp := f.Name()
	f.Close()
	os.Remove(tmp)

	if err := p.copyOut(ctx, key, tbl, tmp); err != nil {
		os.Remove(tmp)
		return errs.New(errs.ErrIO, "write", subject, err)
	}
	if err := os.Rename(tmp, loc); err != nil {
		os.Remove(tmp)
		return errs.New(errs.ErrIO, "write", subject, err)
	}

	ctxlog.FromContext(ctx).Debug("Artifact written.", "asset", subject, "location", loc, "rows", tbl.NumRows())
	return nil
}

// copyOut stages tbl in the engine and copies it to path as Parquet.
func (p *parquetResolver) copyOut(ctx context.Context, key assetkey.Key, tbl *table.Table, path string) error {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	stage := "stage_" + p.class + "_" + key.Name()
	if err := duck.LoadTable(ctx, conn, stage, tbl); err != nil {
		return err
	}
	defer conn.ExecContext(context.WithoutCancel(ctx), "DROP TABLE IF EXISTS "+duck.QuoteIdent(stage))

	stmt := fmt.Sprintf("COPY %s TO %s (FORMAT PARQUET)", duck.QuoteIdent(stage), duck.QuoteLiteral(path))
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to copy to parquet: %w", err)
	}
	return nil
}

func (p *parquetResolver) Read(ctx context.Context, key assetkey.Key) (*table.Table, error) {
	subject := key.String()
	loc := p.Location(key)

	if _, err := os.Stat(loc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.New(errs.ErrNotFound, "read", subject, fmt.Errorf("no artifact at %s", loc))
		}
		return nil, errs.New(errs.ErrIO, "read", subject, err)
	}

	rows, err := p.db.QueryContext(ctx, "SELECT * FROM read_parquet("+duck.QuoteLiteral(loc)+")")
	if err != nil {
		return nil, errs.New(errs.ErrIO, "read", subject, err)
	}
	defer rows.Close()

	tbl, err := duck.ScanTable(rows, key.Name())
	if err != nil {
		return nil, errs.New(errs.ErrIO, "read", subject, err)
	}
	return tbl, nil
}
