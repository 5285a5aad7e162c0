// Package runstate tracks the mutable execution state of asset nodes during a
// single materialization run: status, per-node error and per-node result.
//
// It is kept apart from the immutable graph structure in package dag so the
// workers that update state never contend with readers of the topology. A
// Store is created for one run and discarded afterwards.
//
// Nodes follow this lifecycle:
//
//	Pending → Running → Materialized OR Failed
//	Pending → Skipped
package runstate
