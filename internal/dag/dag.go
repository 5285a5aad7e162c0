package dag

import (
	"fmt"
	"strings"

	"github.com/vk/medallion/internal/errs"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{id: id, index: len(g.order)}
	g.order = append(g.order, id)
}

// Has reports whether the node exists.
func (g *Graph) Has(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.order)
}

// Nodes returns all node IDs in insertion order.
func (g *Graph) Nodes() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node,
// meaning `toID` depends on `fromID`. Adding an existing edge is a no-op.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return errs.Newf(errs.ErrCycleDetected, "add edge", toID, "self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	for _, d := range toNode.deps {
		if d == fromNode {
			return nil
		}
	}
	toNode.deps = append(toNode.deps, fromNode)
	fromNode.dependents = append(fromNode.dependents, toNode)
	return nil
}

// Dependencies returns the IDs the given node depends on, in edge insertion order.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return ids(n.deps), nil
}

// Dependents returns the IDs that depend on the given node, in edge insertion order.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return ids(n.dependents), nil
}

func ids(nodes []*node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.id
	}
	return out
}

// DetectCycles checks the graph for any cycles. The returned error carries
// errs.ErrCycleDetected and the offending path, e.g. "a -> b -> a".
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// permanent: fully visited, not part of a cycle.
	// onStack: the current DFS path.
	permanent := make(map[string]bool)
	onStack := make(map[string]int)
	var stack []string

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if pos, ok := onStack[n.id]; ok {
			path := append(append([]string{}, stack[pos:]...), n.id)
			return errs.New(errs.ErrCycleDetected, "validate graph", "", fmt.Errorf("%s", strings.Join(path, " -> ")))
		}

		onStack[n.id] = len(stack)
		stack = append(stack, n.id)
		for _, dependent := range n.dependents {
			if err := visit(dependent); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		delete(onStack, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range g.order {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

// Closure returns the given nodes plus all of their transitive dependencies,
// in insertion order.
func (g *Graph) Closure(roots ...string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	in := make(map[string]bool)
	var walk func(n *node)
	walk = func(n *node) {
		if in[n.id] {
			return
		}
		in[n.id] = true
		for _, d := range n.deps {
			walk(d)
		}
	}
	for _, id := range roots {
		n, ok := g.nodes[id]
		if !ok {
			return nil, fmt.Errorf("node not found: %s", id)
		}
		walk(n)
	}

	out := make([]string, 0, len(in))
	for _, id := range g.order {
		if in[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

// TopologicalOrder linearizes the subgraph induced by subset (all nodes when
// subset is empty). Among nodes whose dependencies are satisfied, the one
// inserted first goes first. Edges leaving the subset are ignored.
func (g *Graph) TopologicalOrder(subset ...string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	members := make(map[string]bool)
	if len(subset) == 0 {
		for _, id := range g.order {
			members[id] = true
		}
	} else {
		for _, id := range subset {
			if _, ok := g.nodes[id]; !ok {
				return nil, fmt.Errorf("node not found: %s", id)
			}
			members[id] = true
		}
	}

	indeg := make(map[string]int, len(members))
	for id := range members {
		for _, d := range g.nodes[id].deps {
			if members[d.id] {
				indeg[id]++
			}
		}
	}

	// ready is kept sorted by insertion index; graphs here are small enough
	// that a linear insert beats a heap in clarity.
	var ready []*node
	push := func(n *node) {
		i := len(ready)
		for i > 0 && ready[i-1].index > n.index {
			i--
		}
		ready = append(ready, nil)
		copy(ready[i+1:], ready[i:])
		ready[i] = n
	}
	for _, id := range g.order {
		if members[id] && indeg[id] == 0 {
			push(g.nodes[id])
		}
	}

	out := make([]string, 0, len(members))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		out = append(out, n.id)
		for _, dep := range n.dependents {
			if !members[dep.id] {
				continue
			}
			indeg[dep.id]--
			if indeg[dep.id] == 0 {
				push(dep)
			}
		}
	}

	if len(out) != len(members) {
		return nil, errs.New(errs.ErrCycleDetected, "order graph", "", fmt.Errorf("%d node(s) could not be ordered", len(members)-len(out)))
	}
	return out, nil
}
