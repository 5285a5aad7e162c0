package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads every declaration under the given paths, translates it into
	// the format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter binds raw configuration bodies to the Go types used by modules.
type Converter interface {
	// DecodeArguments decodes an asset's `arguments` body into target, which
	// must be a non-nil pointer to a struct. A nil body leaves target untouched
	// apart from validation of required fields.
	DecodeArguments(ctx context.Context, body hcl.Body, target any) error
}
