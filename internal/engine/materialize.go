package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/errs"
	"github.com/vk/medallion/internal/fingerprint"
	"github.com/vk/medallion/internal/runstate"
	"github.com/vk/medallion/internal/table"
)

// Materialize computes and persists the selected assets and their
// dependencies. The selection is validated before any node runs. The
// returned report is non-nil whenever planning succeeded, even if the run
// failed; the error is that of the first failing node.
func (e *Engine) Materialize(ctx context.Context, sel Selection) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	order, err := e.Plan(sel)
	if err != nil {
		return nil, err
	}

	report := newReport(sel, order)
	for _, id := range order {
		n := e.nodes[id]
		entry := report.Entry(id)
		entry.StorageClass = n.StorageClass
		entry.Location = n.resolver.Location(n.Key)
	}

	state := runstate.New(order...)
	logger.Info("🚀 Starting materialization.", "selection", sel.String(), "assets", len(order), "workers", e.workers)

	if e.workers > 1 {
		e.runConcurrent(ctx, order, state, report)
	} else {
		e.runSequential(ctx, order, state, report)
	}

	report.finish(state)
	logger.Info("🏁 Materialization finished.", "materialized", report.Count(runstate.StatusMaterialized), "failed", report.Count(runstate.StatusFailed), "skipped", report.Count(runstate.StatusSkipped), "duration", report.Duration)

	if err := report.Err(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil && report.Count(runstate.StatusSkipped) > 0 {
		return report, fmt.Errorf("materialization interrupted: %w", err)
	}
	return report, nil
}

func (e *Engine) runSequential(ctx context.Context, order []string, state *runstate.Store, report *Report) {
	for i, id := range order {
		if ctx.Err() != nil {
			skipRemaining(ctx, order[i:], state)
			return
		}
		if !state.Start(id) {
			continue
		}
		if err := e.execute(ctx, id, state, report); err != nil {
			skipRemaining(ctx, order[i+1:], state)
			return
		}
	}
}

// execute runs one started node and records its outcome.
func (e *Engine) execute(ctx context.Context, id string, state *runstate.Store, report *Report) error {
	n := e.nodes[id]
	logger := ctxlog.FromContext(ctx).With("asset", id, "location", n.resolver.Location(n.Key))
	logger.Info("▶️ Materializing asset", "compute", n.Compute)

	start := time.Now()
	tbl, err := e.materializeNode(ctxlog.WithLogger(ctx, logger), n)
	elapsed := time.Since(start)
	report.record(id, tbl, elapsed, err)

	if err != nil {
		logger.Error("❌ Asset materialization failed", "error", err, "duration", elapsed)
		state.Fail(id, err)
		return err
	}
	logger.Info("✅ Materialized asset", "rows", tbl.NumRows(), "duration", elapsed)
	state.Finish(id, fingerprint.Schema(tbl))
	return nil
}

// materializeNode reads the node's inputs, runs its transform and persists
// the result. A panicking transform fails the node like any other error.
func (e *Engine) materializeNode(ctx context.Context, n *Node) (tbl *table.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			tbl = nil
			err = fmt.Errorf("transform %q of %s panicked: %v", n.Compute, n.Key, r)
		}
	}()

	inputs := make([]*table.Table, len(n.Inputs))
	for i, in := range n.Inputs {
		dep := e.nodes[in.String()]
		upstream, err := dep.resolver.Read(ctx, in)
		if err != nil {
			return nil, err
		}
		inputs[i] = upstream
	}

	out, err := n.transform.Fn(ctx, n.args, inputs...)
	if err != nil {
		return nil, fmt.Errorf("transform %q of %s: %w", n.Compute, n.Key, err)
	}

	tbl, ok := out.(*table.Table)
	if !ok || tbl == nil {
		return nil, errs.Newf(errs.ErrTypeMismatch, "compute", n.Key.String(), "transform %q returned %T, want *table.Table", n.Compute, out)
	}
	if err := tbl.Validate(); err != nil {
		return nil, errs.New(errs.ErrTypeMismatch, "compute", n.Key.String(), err)
	}
	if tbl.Name != n.Key.Name() {
		tbl = tbl.WithName(n.Key.Name())
	}

	if err := n.resolver.Write(ctx, n.Key, tbl); err != nil {
		return nil, err
	}
	return tbl, nil
}

// skipRemaining marks every still-pending node as skipped.
func skipRemaining(ctx context.Context, ids []string, state *runstate.Store) int {
	logger := ctxlog.FromContext(ctx)
	skipped := 0
	for _, id := range ids {
		if state.Skip(id) {
			logger.Warn("⏭️ Skipping asset", "asset", id)
			skipped++
		}
	}
	return skipped
}
