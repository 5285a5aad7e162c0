package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/medallion/internal/table"
)

// Variadic marks a transform that accepts any number of inputs.
const Variadic = -1

// TransformFunc computes one table from its inputs. inputs arrive in the
// asset's declared order; args is the value built by NewArgs after decoding
// the asset's `arguments` block, or nil when the transform takes none.
//
// The result is typed `any` on purpose: the engine checks that it is a valid
// *table.Table rather than trusting the module.
type TransformFunc func(ctx context.Context, args any, inputs ...*table.Table) (any, error)

// RegisteredTransform holds the compiled Go parts of a transform.
type RegisteredTransform struct {
	// NewArgs returns a pointer to a fresh arguments struct. Nil means the
	// transform accepts no `arguments` block.
	NewArgs func() any
	// Arity is the exact number of inputs, or Variadic.
	Arity       int
	Description string
	Fn          TransformFunc
}

// Module is the interface that all modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the transforms registered for a single application instance.
type Registry struct {
	TransformRegistry map[string]*RegisteredTransform
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		TransformRegistry: make(map[string]*RegisteredTransform),
	}
}

// RegisterTransform registers a transform under name. Registering the same
// name twice is a programming error and panics.
func (r *Registry) RegisterTransform(name string, t *RegisteredTransform) {
	if _, exists := r.TransformRegistry[name]; exists {
		panic(fmt.Sprintf("transform with name '%s' already registered", name))
	}
	if t == nil || t.Fn == nil {
		panic(fmt.Sprintf("transform '%s' has no function", name))
	}
	slog.Debug("Registering transform.", "name", name, "arity", t.Arity)
	r.TransformRegistry[name] = t
}

// Transform looks up a registered transform.
func (r *Registry) Transform(name string) (*RegisteredTransform, bool) {
	t, ok := r.TransformRegistry[name]
	return t, ok
}

// Names lists all registered transform names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.TransformRegistry))
	for name := range r.TransformRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterAll registers every module into r.
func (r *Registry) RegisterAll(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}
