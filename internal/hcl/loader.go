package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/medallion/internal/config"
	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/errs"
	"github.com/vk/medallion/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	env map[string]string
}

// NewLoader creates a new HCL pipeline loader. env backs the `env` object
// available to every expression; pass EnvFromOS() for the process environment.
func NewLoader(env map[string]string) *Loader {
	return &Loader{env: env}
}

// Load parses every .hcl file under the given paths (files or directories)
// into one model. Files are processed in lexical order so declaration order
// is stable across runs.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	if len(hclFiles) == 0 {
		return nil, nil, errs.Newf(errs.ErrNotFound, "load pipeline", fmt.Sprint(paths), "no .hcl files found")
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	evalCtx := newEvalContext(l.env)
	model := &config.Model{}

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, errs.New(errs.ErrInvalidConfig, "parse", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, nil, errs.New(errs.ErrInvalidConfig, "decode", file, diags)
		}

		if err := l.merge(model, &root, file); err != nil {
			return nil, nil, err
		}
	}

	if err := validateModel(model); err != nil {
		return nil, nil, err
	}

	logger.Debug("HCL loading complete.", "layers", len(model.Layers), "extracts", len(model.Extracts), "assets", len(model.Assets))
	return model, NewConverter(l.env), nil
}

// findAllHCLFiles expands directories and returns a sorted, de-duplicated list.
// Unlike optional module search paths, a missing pipeline path is an error.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var allFiles []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		allFiles = append(allFiles, p)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errs.New(errs.ErrNotFound, "load pipeline", path, err)
			}
			return nil, errs.New(errs.ErrIO, "load pipeline", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}

		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, errs.New(errs.ErrIO, "load pipeline", path, err)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return allFiles, nil
}
