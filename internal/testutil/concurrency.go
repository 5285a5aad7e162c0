package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vk/medallion/internal/registry"
	"github.com/vk/medallion/internal/table"
)

// recorderArgs is the arguments block of a "record" asset.
type recorderArgs struct {
	ID   string `hcl:"id"`
	Fail bool   `hcl:"fail,optional"`
}

// RecorderModule registers a variadic "record" transform that sleeps, records
// when it ran and returns a one-row table holding its id and the number of
// rows it received.
type RecorderModule struct {
	ExecutionTimes map[string]*ExecutionRecord
	Order          []string
	mu             sync.Mutex
	sleepDuration  time.Duration
}

// NewRecorderModule creates a recorder whose transform sleeps for sleep.
func NewRecorderModule(sleep time.Duration) *RecorderModule {
	return &RecorderModule{
		ExecutionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  sleep,
	}
}

// Register registers the "record" transform.
func (m *RecorderModule) Register(r *registry.Registry) {
	r.RegisterTransform("record", &registry.RegisteredTransform{
		NewArgs: func() any { return new(recorderArgs) },
		Arity:   registry.Variadic,
		Fn: func(ctx context.Context, args any, inputs ...*table.Table) (any, error) {
			a := args.(*recorderArgs)

			start := time.Now()
			select {
			case <-time.After(m.sleepDuration):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			end := time.Now()

			m.mu.Lock()
			m.ExecutionTimes[a.ID] = &ExecutionRecord{Start: start, End: end}
			m.Order = append(m.Order, a.ID)
			m.mu.Unlock()

			if a.Fail {
				return nil, errors.New("recorder asked to fail")
			}

			received := int64(0)
			for _, in := range inputs {
				received += int64(in.NumRows())
			}
			out := table.New(a.ID,
				table.Column{Name: "id", Type: table.String},
				table.Column{Name: "received", Type: table.Int64},
			)
			return out, out.Append(a.ID, received)
		},
	})
}

// Record returns the execution record of id, or nil.
func (m *RecorderModule) Record(id string) *ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecutionTimes[id]
}

// Executed returns the ids in completion order.
func (m *RecorderModule) Executed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Order...)
}
