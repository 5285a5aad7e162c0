package engine

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/vk/medallion/internal/fingerprint"
	"github.com/vk/medallion/internal/runstate"
	"github.com/vk/medallion/internal/table"
	"gopkg.in/yaml.v3"
)

// Entry is the outcome of one node of a run.
type Entry struct {
	Key                string          `yaml:"key"`
	Status             runstate.Status `yaml:"status"`
	StorageClass       string          `yaml:"storage_class"`
	Location           string          `yaml:"location"`
	Rows               int             `yaml:"rows"`
	Columns            []table.Column  `yaml:"columns,omitempty"`
	SchemaFingerprint  string          `yaml:"schema_fingerprint,omitempty"`
	ContentFingerprint string          `yaml:"content_fingerprint,omitempty"`
	Duration           time.Duration   `yaml:"duration"`
	Error              string          `yaml:"error,omitempty"`

	err error
	seq int
}

// Err returns the node's failure, if any.
func (e *Entry) Err() error {
	return e.err
}

// Report collects one Entry per planned node, in execution order.
type Report struct {
	Selection string        `yaml:"selection"`
	StartedAt time.Time     `yaml:"started_at"`
	Duration  time.Duration `yaml:"duration"`
	Entries   []*Entry      `yaml:"assets"`

	mu       sync.Mutex
	byKey    map[string]*Entry
	failures int
}

func newReport(sel Selection, order []string) *Report {
	r := &Report{
		Selection: sel.String(),
		StartedAt: time.Now().UTC(),
		Entries:   make([]*Entry, len(order)),
		byKey:     make(map[string]*Entry, len(order)),
	}
	for i, id := range order {
		e := &Entry{Key: id, Status: runstate.StatusPending}
		r.Entries[i] = e
		r.byKey[id] = e
	}
	return r
}

// Entry returns the entry for an asset key, or nil.
func (r *Report) Entry(key string) *Entry {
	return r.byKey[key]
}

// record stores the result of an attempted node. Safe for concurrent use.
func (r *Report) record(id string, tbl *table.Table, elapsed time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.byKey[id]
	e.Duration = elapsed
	if err != nil {
		r.failures++
		e.err = err
		e.seq = r.failures
		e.Error = err.Error()
		return
	}
	e.Rows = tbl.NumRows()
	e.Columns = tbl.Columns
	e.SchemaFingerprint = fingerprint.Schema(tbl)
	e.ContentFingerprint = fingerprint.Content(tbl)
}

// finish copies final statuses from the run state.
func (r *Report) finish(state *runstate.Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.Entries {
		e.Status = state.Status(e.Key)
	}
	r.Duration = time.Since(r.StartedAt)
}

// Count returns how many entries ended with status s.
func (r *Report) Count(s runstate.Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == s {
			n++
		}
	}
	return n
}

// Failed lists the failed entries.
func (r *Report) Failed() []*Entry {
	var out []*Entry
	for _, e := range r.Entries {
		if e.Status == runstate.StatusFailed {
			out = append(out, e)
		}
	}
	return out
}

// Err returns the error of the node that failed first, or nil.
func (r *Report) Err() error {
	var first *Entry
	for _, e := range r.Failed() {
		if first == nil || e.seq < first.seq {
			first = e
		}
	}
	if first == nil {
		return nil
	}
	return fmt.Errorf("asset %s failed: %w", first.Key, first.err)
}

// Summary renders a human-readable, one-line-per-asset overview.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Materialization of %s: %d materialized, %d failed, %d skipped (%s)\n",
		r.Selection,
		r.Count(runstate.StatusMaterialized),
		r.Count(runstate.StatusFailed),
		r.Count(runstate.StatusSkipped),
		r.Duration.Round(time.Millisecond),
	)
	for _, e := range r.Entries {
		switch e.Status {
		case runstate.StatusMaterialized:
			fmt.Fprintf(&b, "  %-13s %s -> %s (%d rows)\n", e.Status, e.Key, e.Location, e.Rows)
		case runstate.StatusFailed:
			fmt.Fprintf(&b, "  %-13s %s: %s\n", e.Status, e.Key, e.Error)
		default:
			fmt.Fprintf(&b, "  %-13s %s\n", e.Status, e.Key)
		}
	}
	return b.String()
}

// WriteYAML writes the report as a YAML document.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
