package engine

import (
	"context"
	"sync/atomic"

	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/runstate"
	"golang.org/x/sync/errgroup"
)

// runConcurrent executes order with a fixed pool of workers. A node is queued
// once its last in-plan dependency has materialized. The first failure
// cancels the run and skips every node that has not started.
func (e *Engine) runConcurrent(ctx context.Context, order []string, state *runstate.Store, report *Report) {
	logger := ctxlog.FromContext(ctx)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// depCount holds, per node, the number of in-plan dependencies still
	// outstanding. Nodes outside the plan are ignored.
	depCount := make(map[string]*atomic.Int32, len(order))
	for _, id := range order {
		depCount[id] = new(atomic.Int32)
	}
	for _, id := range order {
		for _, in := range e.nodes[id].Inputs {
			if _, inPlan := depCount[in.String()]; inPlan {
				depCount[id].Add(1)
			}
		}
	}

	// Every node is sent at most once, so the buffer never blocks a sender.
	readyChan := make(chan string, len(order))
	var remaining atomic.Int32
	remaining.Store(int32(len(order)))

	// settle accounts for n decided nodes. It must run after any sends those
	// nodes trigger, so the channel is never closed under a sender.
	settle := func(n int) {
		if n > 0 && remaining.Add(int32(-n)) == 0 {
			close(readyChan)
		}
	}

	for _, id := range order {
		if depCount[id].Load() == 0 {
			readyChan <- id
		}
	}

	var g errgroup.Group
	for w := 0; w < e.workers; w++ {
		workerID := w
		g.Go(func() error {
			workerLogger := logger.With("workerID", workerID)
			workerLogger.Debug("Worker started.")

			for id := range readyChan {
				if runCtx.Err() != nil {
					// Pending nodes may still wait on dependencies that will
					// never be sent, so everything left is decided here.
					settle(skipRemaining(ctx, order, state))
					continue
				}
				if !state.Start(id) {
					continue
				}

				if err := e.execute(ctxlog.WithLogger(runCtx, workerLogger), id, state, report); err != nil {
					cancel()
					settle(1 + skipRemaining(ctx, order, state))
					continue
				}

				dependents, err := e.graph.Dependents(id)
				if err != nil {
					workerLogger.Error("Failed to get dependents for completed asset", "asset", id, "error", err)
				}
				for _, dep := range dependents {
					count, inPlan := depCount[dep]
					if inPlan && count.Add(-1) == 0 {
						workerLogger.Debug("Unlocking dependent asset.", "dependent", dep)
						readyChan <- dep
					}
				}
				settle(1)
			}

			workerLogger.Debug("Worker finished.")
			return nil
		})
	}
	_ = g.Wait()
}
