package engine

import (
	"context"
	"fmt"

	"github.com/vk/medallion/internal/assetkey"
	"github.com/vk/medallion/internal/config"
	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/dag"
	"github.com/vk/medallion/internal/errs"
	"github.com/vk/medallion/internal/registry"
	"github.com/vk/medallion/internal/storage"
)

// Stores resolves the storage of a storage class. *storage.Set implements it.
type Stores interface {
	For(class string) (storage.Resolver, error)
}

// Node is one asset of the graph. It is immutable once the engine is built.
type Node struct {
	Key          assetkey.Key
	Inputs       []assetkey.Key
	StorageClass string
	Compute      string
	Description  string

	transform *registry.RegisteredTransform
	args      any
	resolver  storage.Resolver
}

// Engine owns the asset graph for the lifetime of a pipeline run.
type Engine struct {
	graph   *dag.Graph
	nodes   map[string]*Node
	stores  Stores
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets how many nodes may run at once. Values below 2 select
// strictly sequential execution.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// New validates the model against the registry, decodes every asset's
// arguments and builds the dependency graph. It fails before anything runs if
// an input is undeclared or the graph has a cycle.
func New(ctx context.Context, model *config.Model, reg *registry.Registry, conv config.Converter, stores Stores, opts ...Option) (*Engine, error) {
	logger := ctxlog.FromContext(ctx)

	if err := reg.Validate(ctx, model, conv); err != nil {
		return nil, err
	}

	e := &Engine{
		graph:   dag.New(),
		nodes:   make(map[string]*Node, len(model.Assets)),
		stores:  stores,
		workers: 1,
	}
	for _, opt := range opts {
		opt(e)
	}

	// One artifact per key: two keys sharing a location would overwrite
	// each other.
	locations := make(map[string]string, len(model.Assets))
	for _, asset := range model.Assets {
		n, err := e.buildNode(ctx, asset, reg, conv)
		if err != nil {
			return nil, err
		}
		id := n.Key.String()
		if _, dup := e.nodes[id]; dup {
			return nil, errs.Newf(errs.ErrInvalidConfig, "build graph", id, "declared more than once")
		}
		loc := n.resolver.Location(n.Key)
		if other, taken := locations[loc]; taken {
			return nil, errs.Newf(errs.ErrInvalidConfig, "build graph", id, "artifact location %s is already used by %s", loc, other)
		}
		locations[loc] = id
		e.nodes[id] = n
		e.graph.AddNode(id)
	}

	for _, asset := range model.Assets {
		id := asset.Key()
		for _, in := range e.nodes[id].Inputs {
			if !e.graph.Has(in.String()) {
				return nil, errs.Newf(errs.ErrInvalidConfig, "build graph", id, "input %q is not declared", in.String())
			}
			if err := e.graph.AddEdge(in.String(), id); err != nil {
				return nil, err
			}
		}
	}

	if err := e.graph.DetectCycles(); err != nil {
		return nil, err
	}

	logger.Debug("Asset graph built.", "assets", e.graph.Len(), "workers", e.workers)
	return e, nil
}

func (e *Engine) buildNode(ctx context.Context, asset *config.Asset, reg *registry.Registry, conv config.Converter) (*Node, error) {
	key, err := assetkey.Parse(asset.Key())
	if err != nil {
		return nil, errs.New(errs.ErrInvalidConfig, "build graph", asset.Key(), err)
	}

	n := &Node{
		Key:          key,
		StorageClass: asset.StorageClass,
		Compute:      asset.Compute,
		Description:  asset.Description,
	}
	for _, raw := range asset.Inputs {
		in, err := assetkey.Parse(raw)
		if err != nil {
			return nil, errs.New(errs.ErrInvalidConfig, "build graph", asset.Key(), err)
		}
		n.Inputs = append(n.Inputs, in)
	}

	t, ok := reg.Transform(asset.Compute)
	if !ok {
		return nil, errs.Newf(errs.ErrInvalidConfig, "build graph", asset.Key(), "unknown transform %q", asset.Compute)
	}
	n.transform = t

	if t.NewArgs != nil {
		n.args = t.NewArgs()
		if err := conv.DecodeArguments(ctx, asset.Arguments, n.args); err != nil {
			return nil, errs.New(errs.ErrInvalidConfig, "build graph", asset.Key(), err)
		}
	}

	n.resolver, err = e.stores.For(asset.StorageClass)
	if err != nil {
		return nil, errs.New(errs.ErrInvalidConfig, "build graph", asset.Key(), err)
	}
	return n, nil
}

// Node returns the node for a key.
func (e *Engine) Node(key assetkey.Key) (*Node, bool) {
	n, ok := e.nodes[key.String()]
	return n, ok
}

// Keys lists every asset key in declaration order.
func (e *Engine) Keys() []assetkey.Key {
	ids := e.graph.Nodes()
	out := make([]assetkey.Key, len(ids))
	for i, id := range ids {
		out[i] = e.nodes[id].Key
	}
	return out
}

// Location returns where the artifact of key lives.
func (e *Engine) Location(key assetkey.Key) (string, error) {
	n, ok := e.Node(key)
	if !ok {
		return "", errs.Newf(errs.ErrInvalidSelection, "locate", key.String(), "not declared in the pipeline")
	}
	return n.resolver.Location(key), nil
}

// Plan returns the execution order for sel: the selected nodes plus all
// their transitive dependencies, topologically sorted. Unknown keys fail with
// errs.ErrInvalidSelection.
func (e *Engine) Plan(sel Selection) ([]string, error) {
	var roots []string
	if sel.IsAll() {
		roots = e.graph.Nodes()
	} else {
		if len(sel.keys) == 0 {
			return nil, errs.Newf(errs.ErrInvalidSelection, "plan", "", "selection is empty")
		}
		var unknown []string
		for _, k := range sel.keys {
			if !e.graph.Has(k.String()) {
				unknown = append(unknown, k.String())
				continue
			}
			roots = append(roots, k.String())
		}
		if len(unknown) > 0 {
			return nil, errs.Newf(errs.ErrInvalidSelection, "plan", "", "not declared in the pipeline: %v", unknown)
		}
	}

	closure, err := e.graph.Closure(roots...)
	if err != nil {
		return nil, fmt.Errorf("failed to compute closure: %w", err)
	}
	return e.graph.TopologicalOrder(closure...)
}
