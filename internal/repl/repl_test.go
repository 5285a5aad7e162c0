package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/medallion/internal/catalog"
	"github.com/vk/medallion/internal/errs"
	"github.com/vk/medallion/internal/table"
)

// fakeSession answers a fixed set of statements and records every call.
type fakeSession struct {
	results map[string]*table.Table
	calls   []string
}

func (f *fakeSession) Entries() []catalog.Entry {
	return []catalog.Entry{{Name: "orders", Path: "/data/orders.parquet"}, {Name: "stores", Path: "/data/stores.parquet"}}
}

func (f *fakeSession) Query(_ context.Context, statement string) (*table.Table, error) {
	f.calls = append(f.calls, statement)
	if res, ok := f.results[statement]; ok {
		return res.Clone(), nil
	}
	return nil, errs.New(errs.ErrQuery, "query", "", errors.New("Catalog Error: Table with name nope does not exist!"))
}

func storesResult(t *testing.T) *table.Table {
	t.Helper()
	res := table.New("result",
		table.Column{Name: "store_id", Type: table.String},
		table.Column{Name: "tax_rate", Type: table.Float64},
		table.Column{Name: "opened_at", Type: table.Date},
	)
	require.NoError(t, res.Append("s1", 0.04, time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, res.Append("s2", nil, time.Date(2017, 3, 12, 0, 0, 0, 0, time.UTC)))
	return res
}

func newSession(t *testing.T) *fakeSession {
	return &fakeSession{results: map[string]*table.Table{
		"SELECT * FROM stores":                storesResult(t),
		"SELECT * FROM stores WHERE false":    table.New("result", table.Column{Name: "store_id", Type: table.String}),
		"CREATE TEMP TABLE x AS SELECT 1 AS a": table.New("result"),
	}}
}

func run(t *testing.T, s Session, input string) (string, *REPL) {
	t.Helper()
	var out bytes.Buffer
	r := New(s, strings.NewReader(input), &out)
	require.NoError(t, r.Run(context.Background()))
	return out.String(), r
}

func TestRun_Directives(t *testing.T) {
	s := newSession(t)
	out, r := run(t, s, "\n   \n.horizontal\n.VERTICAL\n.tables\nexit\nSELECT * FROM stores\n")

	assert.Contains(t, out, "Display mode set to: HORIZONTAL")
	assert.Contains(t, out, "Display mode set to: VERTICAL")
	assert.Contains(t, out, "  - orders\n  - stores\n")
	assert.Contains(t, out, "Closing connection. Goodbye!")
	assert.Equal(t, Vertical, r.Mode())
	assert.Empty(t, s.calls, "blank lines and directives never reach the engine; nothing runs after exit")
}

func TestRun_QuitAliases(t *testing.T) {
	for _, quit := range []string{"q", "Q", "exit", ".exit", "  EXIT  "} {
		t.Run(quit, func(t *testing.T) {
			s := newSession(t)
			_, _ = run(t, s, quit+"\nSELECT * FROM stores\n")
			assert.Empty(t, s.calls)
		})
	}
}

func TestRun_EndOfInputQuits(t *testing.T) {
	s := newSession(t)
	out, _ := run(t, s, "SELECT * FROM stores")
	assert.Equal(t, []string{"SELECT * FROM stores"}, s.calls)
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
}

func TestRun_CancelWhileWaitingForInput(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()

	var out bytes.Buffer
	r := New(newSession(t), in, &out)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the context was cancelled")
	}
	assert.True(t, strings.HasSuffix(out.String(), "Goodbye!\n"))
}

func TestRun_BrokenInputIsReported(t *testing.T) {
	var out bytes.Buffer
	r := New(newSession(t), iotest.ErrReader(errors.New("tty gone")), &out)

	err := r.Run(context.Background())
	assert.ErrorContains(t, err, "tty gone")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestRun_VerticalRendering(t *testing.T) {
	out, _ := run(t, newSession(t), "SELECT * FROM stores\n")

	assert.Contains(t, out, "---[ Row 1 / 2 ]---\n")
	assert.Contains(t, out, "store_id   s1\n")
	assert.Contains(t, out, "tax_rate   0.04\n")
	assert.Contains(t, out, "opened_at  2016-09-01\n")
	assert.Contains(t, out, "---[ Row 2 / 2 ]---\n")
	assert.Contains(t, out, "tax_rate   NULL\n")
	assert.Contains(t, out, "---[ End of 2 rows ]---\n")
}

func TestRun_HorizontalRendering(t *testing.T) {
	out, _ := run(t, newSession(t), ".horizontal\nSELECT * FROM stores\n")

	assert.NotContains(t, out, "---[ Row")
	for _, want := range []string{"store_id", "tax_rate", "opened_at", "s1", "0.04", "2016-09-01", "s2", "NULL", "(2 rows)"} {
		assert.Contains(t, out, want)
	}
}

func TestRun_ErrorsAreReportedInline(t *testing.T) {
	s := newSession(t)
	out, _ := run(t, s, "SELECT * FROM nope\nSELECT * FROM stores\n")

	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, "Table with name nope does not exist")
	assert.Contains(t, out, "---[ End of 2 rows ]---", "the session continues after a failed statement")
	assert.Len(t, s.calls, 2)
}

func TestRun_EmptyAndStatementResults(t *testing.T) {
	out, _ := run(t, newSession(t), "SELECT * FROM stores WHERE false\nCREATE TEMP TABLE x AS SELECT 1 AS a\n")
	assert.Equal(t, 1, strings.Count(out, "(No results)"))
}

func TestModeToggleNeverChangesResults(t *testing.T) {
	s := newSession(t)
	script := strings.Repeat("SELECT * FROM stores\n.horizontal\nSELECT * FROM stores\n.vertical\n", 3)
	out, _ := run(t, s, script)

	require.Len(t, s.calls, 6)
	for _, c := range s.calls {
		assert.Equal(t, "SELECT * FROM stores", c, "directives must not alter statements")
	}
	assert.Equal(t, 3, strings.Count(out, "---[ End of 2 rows ]---"))
	assert.Equal(t, 3, strings.Count(out, "(2 rows)"))
	assert.Equal(t, 6, strings.Count(out, "2016-09-01"))
}

func TestPrintBanner(t *testing.T) {
	var out bytes.Buffer
	PrintBanner(&out, "gold", "data/gold", newSession(t).Entries())

	text := out.String()
	assert.Contains(t, text, "Connected to Gold layer at: data/gold")
	assert.Contains(t, text, "  - orders\n  - stores\n")
	assert.Contains(t, text, "e.g., 'SELECT * FROM orders LIMIT 5;'")
	assert.Contains(t, text, "Type 'q' or 'exit' to quit.")
}
