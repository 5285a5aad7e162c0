package hcl

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// EnvFromOS snapshots the process environment.
func EnvFromOS() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// newEvalContext exposes the environment as `env.NAME` plus a handful of
// string helpers.
func newEvalContext(env map[string]string) *hcl.EvalContext {
	envVal := cty.EmptyObjectVal
	if len(env) > 0 {
		vals := make(map[string]cty.Value, len(env))
		for k, v := range env {
			// Names like "ProgramFiles(x86)" can never be referenced.
			if !hclsyntax.ValidIdentifier(k) {
				continue
			}
			vals[k] = cty.StringVal(v)
		}
		if len(vals) > 0 {
			envVal = cty.ObjectVal(vals)
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envVal,
		},
		Functions: map[string]function.Function{
			"lower":    stdlib.LowerFunc,
			"upper":    stdlib.UpperFunc,
			"coalesce": stdlib.CoalesceFunc,
			"concat":   stdlib.ConcatFunc,
			"format":   stdlib.FormatFunc,
			"try":      tryfunc.TryFunc,
			"can":      tryfunc.CanFunc,
		},
	}
}
