// Package engine builds the asset graph from a pipeline model and drives
// materialization through it.
//
// A run computes the closure of the selected assets over their dependencies,
// orders it topologically (declaration order breaks ties) and, for every node
// in turn, reads its inputs back from storage, invokes the registered
// transform and writes the result. Each node is attempted at most once per
// run. The first failure stops the run: nodes not yet started are skipped and
// artifacts already written stay in place.
//
// With more than one worker, independent branches run concurrently while
// dependents still start only after all of their dependencies finished.
package engine
