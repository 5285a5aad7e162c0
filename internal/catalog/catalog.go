// Package catalog mounts the artifacts of one storage directory as relations
// of an embedded DuckDB session and runs ad-hoc SQL against them.
//
// Relations are views over read_parquet, so opening a session reads only
// artifact metadata, never full contents. The session is rebuilt on every
// Open and holds a single engine connection until Close.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/duck"
	"github.com/vk/medallion/internal/errs"
	"github.com/vk/medallion/internal/fsutil"
	"github.com/vk/medallion/internal/table"
)

// ArtifactExtension is the file extension of mountable artifacts.
const ArtifactExtension = ".parquet"

// ErrNoArtifacts marks a location that exists but holds nothing to mount.
var ErrNoArtifacts = errors.New("no artifacts")

// Entry is one discovered artifact.
type Entry struct {
	Name string
	Path string
}

// Session is an open catalog.
type Session struct {
	dir     string
	db      *sql.DB
	conn    *sql.Conn
	entries []Entry
}

// Open validates dir, discovers its artifacts (one pass, non-recursive) and
// registers a view per artifact named after its file stem.
func Open(ctx context.Context, dir string) (*Session, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.Newf(errs.ErrNotFound, "open catalog", dir, "directory does not exist")
		}
		return nil, errs.New(errs.ErrIO, "open catalog", dir, err)
	}
	if !info.IsDir() {
		return nil, errs.Newf(errs.ErrNotFound, "open catalog", dir, "not a directory")
	}

	paths, err := fsutil.ListFilesByExtension(dir, ArtifactExtension)
	if err != nil {
		return nil, errs.New(errs.ErrIO, "open catalog", dir, err)
	}
	if len(paths) == 0 {
		return nil, errs.Newf(ErrNoArtifacts, "open catalog", dir, "no %s files found", ArtifactExtension)
	}

	db, err := duck.Open(ctx)
	if err != nil {
		return nil, errs.New(errs.ErrIO, "open catalog", dir, err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, errs.New(errs.ErrIO, "open catalog", dir, err)
	}

	s := &Session{dir: dir, db: db, conn: conn}
	// Engine identifiers are case-insensitive; the first stem in sorted
	// order owns the relation name.
	mounted := make(map[string]string, len(paths))
	for _, p := range paths {
		e := Entry{Name: fsutil.Stem(p), Path: p}
		folded := strings.ToLower(e.Name)
		if owner, taken := mounted[folded]; taken {
			logger.Warn("Skipping artifact whose relation name is already registered.", "relation", e.Name, "path", e.Path, "registered", owner)
			continue
		}
		mounted[folded] = e.Path
		stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet(%s)", duck.QuoteIdent(e.Name), duck.QuoteLiteral(e.Path))
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			s.Close()
			return nil, errs.New(errs.ErrIO, "open catalog", p, fmt.Errorf("failed to register relation %q: %w", e.Name, err))
		}
		logger.Debug("Registered relation.", "relation", e.Name, "path", e.Path)
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// Dir is the directory the session was opened on.
func (s *Session) Dir() string {
	return s.dir
}

// Entries lists the registered relations, sorted by name.
func (s *Session) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Query runs one statement. Engine failures are reported as errs.ErrQuery
// and leave the session usable. Statements without a result set return a
// table with no columns.
func (s *Session) Query(ctx context.Context, statement string) (*table.Table, error) {
	rows, err := s.conn.QueryContext(ctx, statement)
	if err != nil {
		return nil, errs.New(errs.ErrQuery, "query", "", err)
	}
	defer rows.Close()

	tbl, err := duck.ScanTable(rows, "result")
	if err != nil {
		return nil, errs.New(errs.ErrQuery, "query", "", err)
	}
	return tbl, nil
}

// Close releases the engine connection.
func (s *Session) Close() error {
	return errors.Join(s.conn.Close(), s.db.Close())
}
