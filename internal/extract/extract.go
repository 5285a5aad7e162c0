package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/vk/medallion/internal/config"
	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/errs"
)

// Source kinds.
const (
	KindGitHubContents = "github_contents"
	KindAzureContainer = "azure_container"
	KindHTTP           = "http"
)

// Result lists the files one extraction wrote, in download order.
type Result struct {
	Name  string
	Files []string
}

// Extractor downloads extraction sources.
type Extractor struct {
	client *http.Client
	fs     afs.Service
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) { e.client = c }
}

// New returns an Extractor whose requests time out after timeout (a
// time.ParseDuration string; empty means DefaultTimeout).
func New(timeout string, opts ...Option) (*Extractor, error) {
	if timeout == "" {
		timeout = DefaultTimeout
	}
	client, err := newHTTPClient(timeout)
	if err != nil {
		return nil, errs.New(errs.ErrInvalidConfig, "new extractor", "timeout", err)
	}
	e := &Extractor{client: client, fs: afs.New()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases idle connections.
func (e *Extractor) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// Run downloads every file of src into src.Dest.
func (e *Extractor) Run(ctx context.Context, src *config.Extract) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("extract", src.Name, "kind", src.Kind)
	ctx = ctxlog.WithLogger(ctx, logger)
	if src.URL == "" {
		return nil, errs.Newf(errs.ErrInvalidConfig, "extract", src.Name, "url is empty (is the referenced environment variable set?)")
	}
	logger.Info("⬇️ Extracting raw files", "url", redact(src.URL), "dest", src.Dest)

	dest, err := filepath.Abs(src.Dest)
	if err != nil {
		return nil, errs.New(errs.ErrIO, "extract", src.Name, err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, errs.New(errs.ErrIO, "extract", src.Name, fmt.Errorf("failed to create destination: %w", err))
	}

	var files []remoteFile
	switch src.Kind {
	case KindGitHubContents:
		files, err = e.listGitHub(ctx, src.URL, extensionOr(src.Extension, ".csv"))
	case KindAzureContainer:
		files, err = e.listAzure(ctx, src.URL, src.Extension)
	case KindHTTP:
		files, err = listHTTP(src.URL, src.Files)
	default:
		err = errs.Newf(errs.ErrInvalidConfig, "extract", src.Name, "unknown kind %q", src.Kind)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{Name: src.Name}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		path, err := e.download(ctx, dest, f)
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, path)
	}
	logger.Info("✅ Extraction finished", "files", len(res.Files))
	return res, nil
}

// remoteFile is one file to download: where from, and its path relative to
// the destination directory.
type remoteFile struct {
	URL  string
	Path string
}

func (e *Extractor) download(ctx context.Context, dest string, f remoteFile) (string, error) {
	target, err := safeJoin(dest, f.Path)
	if err != nil {
		return "", err
	}
	body, err := e.get(ctx, f.URL, nil)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", errs.New(errs.ErrIO, "extract", f.Path, err)
	}
	if err := e.fs.Upload(ctx, target, 0o644, bytes.NewReader(body)); err != nil {
		return "", errs.New(errs.ErrIO, "extract", f.Path, fmt.Errorf("failed to write file: %w", err))
	}
	ctxlog.FromContext(ctx).Debug("Downloaded file", "file", f.Path, "bytes", len(body))
	return target, nil
}

// safeJoin joins rel onto dir, refusing names that escape it.
func safeJoin(dir, rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errs.Newf(errs.ErrIO, "extract", rel, "file name escapes the destination directory")
	}
	return filepath.Join(dir, clean), nil
}

func listHTTP(base string, names []string) ([]remoteFile, error) {
	base = strings.TrimSuffix(base, "/")
	files := make([]remoteFile, 0, len(names))
	for _, name := range names {
		files = append(files, remoteFile{URL: base + "/" + strings.TrimPrefix(name, "/"), Path: name})
	}
	return files, nil
}

func extensionOr(ext, fallback string) string {
	if ext == "" {
		return fallback
	}
	return ext
}

func hasExtension(name, ext string) bool {
	return ext == "" || strings.EqualFold(filepath.Ext(name), ext)
}

// redact drops the query string, which carries SAS signatures.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	u.RawQuery = "<redacted>"
	return u.Scheme + "://" + u.Host + u.Path + "?" + u.RawQuery
}
