package storage

import (
	"context"
	"fmt"

	"github.com/vk/medallion/internal/assetkey"
	"github.com/vk/medallion/internal/config"
	"github.com/vk/medallion/internal/table"
)

// Config parameterizes the Resolver of one storage class.
type Config struct {
	BasePath string
	Format   string
}

// Extension returns the artifact file extension for the configured format.
func (c Config) Extension() (string, error) {
	switch c.Format {
	case "", config.FormatParquet:
		return ".parquet", nil
	default:
		return "", fmt.Errorf("unsupported artifact format %q", c.Format)
	}
}

// Resolver reads and writes the artifacts of one storage class.
type Resolver interface {
	// Location is the artifact path for key; it does not touch the disk.
	Location(key assetkey.Key) string
	// Write persists v, which must be a valid *table.Table, replacing any
	// previous artifact for key.
	Write(ctx context.Context, key assetkey.Key, v any) error
	// Read loads the artifact for key.
	Read(ctx context.Context, key assetkey.Key) (*table.Table, error)
}
