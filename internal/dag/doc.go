// Package dag holds the dependency structure of the asset graph: string node
// IDs joined by "depends on" edges. It knows nothing about assets, storage or
// transforms; the engine layers those on top.
//
// Node insertion order is remembered and used to break ties, so every
// traversal (cycle reports, closures, topological orders) is deterministic.
package dag
