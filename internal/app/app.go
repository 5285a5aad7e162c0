package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/medallion/internal/config"
	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/engine"
	"github.com/vk/medallion/internal/registry"
	"github.com/vk/medallion/internal/storage"
)

// App encapsulates the pipeline's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	cfg      *Config
	registry *registry.Registry
	model    *config.Model
	stores   *storage.Set
	engine   *engine.Engine
}

// NewApp is the constructor for the pipeline application. It loads and
// validates the declaration, opens storage and builds the asset graph, so a
// returned App is ready to run. The caller must Close it.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	model, converter, err := loader.Load(ctx, cfg.PipelinePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.", "assets", len(model.Assets), "extracts", len(model.Extracts))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	reg.RegisterAll(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules))

	stores, err := storage.Open(ctx, storageConfigs(model))
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	eng, err := engine.New(ctx, model, reg, converter, stores, engine.WithWorkers(cfg.WorkerCount))
	if err != nil {
		stores.Close()
		return nil, fmt.Errorf("failed to build asset graph: %w", err)
	}
	logger.Debug("Asset graph built.", "assets", len(eng.Keys()))

	return &App{
		outW:     outW,
		logger:   logger,
		cfg:      cfg,
		registry: reg,
		model:    model,
		stores:   stores,
		engine:   eng,
	}, nil
}

// storageConfigs resolves the directory of every storage class the model uses.
func storageConfigs(model *config.Model) map[string]storage.Config {
	out := make(map[string]storage.Config)
	for _, class := range model.StorageClasses() {
		if layer, ok := model.Layer(class); ok {
			out[class] = storage.Config{BasePath: layer.BasePath, Format: layer.Format}
		}
	}
	return out
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Engine returns the application's asset graph engine.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Model returns the loaded pipeline model.
func (a *App) Model() *config.Model {
	return a.model
}

// Close releases the storage engine.
func (a *App) Close() error {
	return a.stores.Close()
}
