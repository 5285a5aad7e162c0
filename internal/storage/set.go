package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/vk/medallion/internal/duck"
	"github.com/vk/medallion/internal/errs"
)

// Set holds one Resolver per storage class. All resolvers share a single
// embedded engine.
type Set struct {
	db        *sql.DB
	resolvers map[string]Resolver
}

// Open builds a resolver for every configured class. Two classes may not
// share a directory: keys with the same last segment would collide.
func Open(ctx context.Context, classes map[string]Config) (*Set, error) {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)

	dirs := make(map[string]string, len(classes))
	exts := make(map[string]string, len(classes))
	for _, name := range names {
		cfg := classes[name]
		if cfg.BasePath == "" {
			return nil, errs.Newf(errs.ErrInvalidConfig, "open storage", name, "base path must not be empty")
		}
		ext, err := cfg.Extension()
		if err != nil {
			return nil, errs.New(errs.ErrInvalidConfig, "open storage", name, err)
		}
		exts[name] = ext

		abs, err := filepath.Abs(cfg.BasePath)
		if err != nil {
			return nil, errs.New(errs.ErrInvalidConfig, "open storage", name, err)
		}
		if other, taken := dirs[abs]; taken {
			return nil, errs.Newf(errs.ErrInvalidConfig, "open storage", name, "shares directory %s with storage class %q", abs, other)
		}
		dirs[abs] = name
	}

	db, err := duck.Open(ctx)
	if err != nil {
		return nil, errs.New(errs.ErrIO, "open storage", "", err)
	}

	s := &Set{db: db, resolvers: make(map[string]Resolver, len(classes))}
	for _, name := range names {
		s.resolvers[name] = &parquetResolver{class: name, cfg: classes[name], ext: exts[name], db: db}
	}
	return s, nil
}

// For returns the resolver of a storage class.
func (s *Set) For(class string) (Resolver, error) {
	r, ok := s.resolvers[class]
	if !ok {
		return nil, fmt.Errorf("no storage configured for class %q", class)
	}
	return r, nil
}

// Classes lists the configured storage classes, sorted.
func (s *Set) Classes() []string {
	out := make([]string, 0, len(s.resolvers))
	for name := range s.resolvers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Close releases the embedded engine.
func (s *Set) Close() error {
	return s.db.Close()
}
