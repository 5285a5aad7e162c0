package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/medallion/internal/config"
	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/errs"
)

// Validate performs a strict parity check between the pipeline model and the
// registered Go code. Arguments are decoded once here so malformed blocks
// surface before any asset runs. All problems are reported together.
func (r *Registry) Validate(ctx context.Context, model *config.Model, conv config.Converter) error {
	logger := ctxlog.FromContext(ctx)
	var problems []string

	for _, asset := range model.Assets {
		key := asset.Key()
		t, ok := r.Transform(asset.Compute)
		if !ok {
			problems = append(problems, fmt.Sprintf("asset '%s': unknown transform '%s' (known: %s)", key, asset.Compute, strings.Join(r.Names(), ", ")))
			continue
		}

		if t.Arity != Variadic && t.Arity != len(asset.Inputs) {
			problems = append(problems, fmt.Sprintf("asset '%s': transform '%s' takes %d input(s), %d declared", key, asset.Compute, t.Arity, len(asset.Inputs)))
		}

		if t.NewArgs == nil {
			if asset.Arguments != nil {
				attrs, _ := asset.Arguments.JustAttributes()
				if len(attrs) > 0 {
					problems = append(problems, fmt.Sprintf("asset '%s': transform '%s' accepts no arguments", key, asset.Compute))
				}
			}
			continue
		}

		if err := conv.DecodeArguments(ctx, asset.Arguments, t.NewArgs()); err != nil {
			problems = append(problems, fmt.Sprintf("asset '%s': invalid arguments: %v", key, err))
		}
	}

	if len(problems) > 0 {
		return errs.New(errs.ErrInvalidConfig, "validate registry", "", fmt.Errorf("\n- %s", strings.Join(problems, "\n- ")))
	}

	logger.Debug("Registry validated against pipeline.", "assets", len(model.Assets), "transforms", len(r.TransformRegistry))
	return nil
}
