package app

import (
	"errors"
	"fmt"

	"github.com/vk/medallion/internal/config"
)

// Config holds all the necessary configuration for a materialization run.
type Config struct {
	PipelinePath string // hcl file or directory
	EnvFile      string

	LogFormat   string
	LogLevel    string
	WorkerCount int

	// Selection is a comma-separated list of asset keys, or "all".
	Selection      string
	Extract        bool
	ExtractTimeout string
	ReportPath     string
}

// NewConfig validates cfg and fills defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 0 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 1
	}
	if cfg.Selection == "" {
		cfg.Selection = "all"
	}
	return &cfg, nil
}

// QueryConfig holds the configuration of a query session.
type QueryConfig struct {
	// Layer is the storage class whose directory is mounted.
	Layer string
	// PipelinePath optionally points at the pipeline declaration whose
	// layer blocks override the default directories.
	PipelinePath string
	EnvFile      string

	LogFormat string
	LogLevel  string
}

// NewQueryConfig validates cfg.
func NewQueryConfig(cfg QueryConfig) (*QueryConfig, error) {
	if cfg.Layer == "" {
		return nil, errors.New("a layer is required")
	}
	if _, ok := config.DefaultLayers[cfg.Layer]; !ok && cfg.PipelinePath == "" {
		return nil, fmt.Errorf("unknown layer %q", cfg.Layer)
	}
	return &cfg, nil
}
