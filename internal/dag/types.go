package dag

import "sync"

// Graph is a collection of nodes and their dependencies. All operations on the
// graph are concurrency-safe.
type Graph struct {
	// mutex protects nodes and order.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order lists node IDs in insertion order.
	order []string
}

// node represents a single vertex. It is un-exported to force interaction
// through the string-ID API.
type node struct {
	id string
	// index is the insertion position, used as the deterministic tie-breaker.
	index int
	// deps holds the nodes this node depends on, in edge insertion order.
	deps []*node
	// dependents holds the nodes that depend on this node, in edge insertion order.
	dependents []*node
}
