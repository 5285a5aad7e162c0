package runstate

import (
	"sync"
)

// Status is the execution state of one node in one run.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusMaterialized
	StatusFailed
	StatusSkipped
)

var statusNames = [...]string{"pending", "running", "materialized", "failed", "skipped"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// MarshalText renders the status name in reports.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Done reports whether the status is terminal.
func (s Status) Done() bool {
	return s == StatusMaterialized || s == StatusFailed || s == StatusSkipped
}

// Store is an in-memory, concurrency-safe state table keyed by node ID.
//
// It uses sync.Map: the key space is fixed when the run starts and each key is
// written by exactly one worker, which is the access pattern sync.Map is
// optimized for.
type Store struct {
	states  sync.Map // node ID -> Status
	errors  sync.Map // node ID -> error
	results sync.Map // node ID -> any
}

// New creates a store with every given node Pending.
func New(ids ...string) *Store {
	s := &Store{}
	for _, id := range ids {
		s.states.Store(id, StatusPending)
	}
	return s
}

// Start moves a Pending node to Running. It returns false when the node is
// unknown or has already left Pending, which guarantees each node is
// attempted at most once per run.
func (s *Store) Start(id string) bool {
	return s.states.CompareAndSwap(id, StatusPending, StatusRunning)
}

// Finish records a successful materialization.
func (s *Store) Finish(id string, result any) {
	if result != nil {
		s.results.Store(id, result)
	}
	s.states.Store(id, StatusMaterialized)
}

// Fail records a failed materialization.
func (s *Store) Fail(id string, err error) {
	if err != nil {
		s.errors.Store(id, err)
	}
	s.states.Store(id, StatusFailed)
}

// Skip moves a Pending node to Skipped. It returns false when the node has
// already been started or decided.
func (s *Store) Skip(id string) bool {
	return s.states.CompareAndSwap(id, StatusPending, StatusSkipped)
}

// Status returns the node's status; unknown nodes report Pending.
func (s *Store) Status(id string) Status {
	v, ok := s.states.Load(id)
	if !ok {
		return StatusPending
	}
	return v.(Status)
}

// Err returns the error recorded for a failed node, or nil.
func (s *Store) Err(id string) error {
	v, ok := s.errors.Load(id)
	if !ok {
		return nil
	}
	return v.(error)
}

// Result returns the value recorded for a materialized node, or nil.
func (s *Store) Result(id string) any {
	v, _ := s.results.Load(id)
	return v
}
