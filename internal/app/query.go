package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/vk/medallion/internal/catalog"
	"github.com/vk/medallion/internal/config"
	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/errs"
	"github.com/vk/medallion/internal/repl"
)

// RunQuery mounts the artifacts of one layer and serves the interactive loop
// on in/out until quit or end of input. Diagnostics go to logW.
func RunQuery(ctx context.Context, cfg *QueryConfig, loader config.Loader, in io.Reader, out, logW io.Writer) error {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)

	dir, err := layerDir(ctx, cfg, loader)
	if err != nil {
		return err
	}
	logger.Debug("Opening catalog.", "layer", cfg.Layer, "dir", dir)

	session, err := catalog.Open(ctx, dir)
	if err != nil {
		return err
	}
	defer session.Close()

	display := dir
	if abs, err := filepath.Abs(dir); err == nil {
		display = abs
	}
	repl.PrintBanner(out, cfg.Layer, display, session.Entries())
	return repl.New(session, in, out).Run(ctx)
}

// layerDir resolves the directory of cfg.Layer, from the pipeline
// declaration when one is given.
func layerDir(ctx context.Context, cfg *QueryConfig, loader config.Loader) (string, error) {
	if cfg.PipelinePath == "" || loader == nil {
		base, ok := config.DefaultLayers[cfg.Layer]
		if !ok {
			return "", errs.Newf(errs.ErrInvalidConfig, "resolve layer", cfg.Layer, "unknown layer")
		}
		return base, nil
	}
	model, _, err := loader.Load(ctx, cfg.PipelinePath)
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	layer, ok := model.Layer(cfg.Layer)
	if !ok {
		return "", errs.Newf(errs.ErrInvalidConfig, "resolve layer", cfg.Layer, "layer is neither declared nor a default")
	}
	return layer.BasePath, nil
}
