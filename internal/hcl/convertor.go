package hcl

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/medallion/internal/ctxlog"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct {
	evalCtx *hcl.EvalContext
}

// NewConverter creates a converter whose expressions see env as `env.NAME`.
func NewConverter(env map[string]string) *Converter {
	return &Converter{evalCtx: newEvalContext(env)}
}

// DecodeArguments evaluates the body's expressions and populates target via
// its `hcl:"..."` struct tags. Unknown attributes and missing required ones
// are reported as errors.
func (c *Converter) DecodeArguments(ctx context.Context, body hcl.Body, target any) error {
	logger := ctxlog.FromContext(ctx)

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer, got %T", target)
	}
	if body == nil {
		// A real (empty) syntax body still reports missing required attributes.
		f, diags := hclsyntax.ParseConfig(nil, "<arguments>", hcl.InitialPos)
		if diags.HasErrors() {
			return diags
		}
		body = f.Body
	}

	logger.Debug("Decoding arguments.", "target", v.Elem().Type().String())
	if diags := gohcl.DecodeBody(body, c.evalCtx, target); diags.HasErrors() {
		return diags
	}
	return nil
}
