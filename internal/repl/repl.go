// Package repl implements the interactive read-evaluate-print loop of the
// query tool. Each input line is a control directive or a SQL statement run
// against a catalog session; failed statements are reported inline and the
// loop continues until a quit directive or end of input.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vk/medallion/internal/catalog"
	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/table"
)

// Prompt is printed before every input line.
const Prompt = "sql> "

// Mode selects how results are rendered.
type Mode int

const (
	// Vertical prints one block per row.
	Vertical Mode = iota
	// Horizontal prints one table for the whole result.
	Horizontal
)

func (m Mode) String() string {
	if m == Horizontal {
		return "HORIZONTAL"
	}
	return "VERTICAL"
}

// Session is the part of a catalog session the loop needs.
type Session interface {
	Entries() []catalog.Entry
	Query(ctx context.Context, statement string) (*table.Table, error)
}

// REPL is one interactive loop over a session.
type REPL struct {
	session Session
	in      io.Reader
	out     io.Writer
	mode    Mode
}

// New creates a loop reading from in and writing to out. Rendering starts
// in Vertical mode.
func New(session Session, in io.Reader, out io.Writer) *REPL {
	return &REPL{session: session, in: in, out: out, mode: Vertical}
}

// Mode returns the current display mode.
func (r *REPL) Mode() Mode {
	return r.mode
}

// Run processes input until a quit directive, end of input or ctx is done.
// Statement failures never end the loop; only a broken input stream does.
func (r *REPL) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	// Reading happens on its own goroutine so a cancelled ctx ends the loop
	// even while input is blocked.
	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	var scanErr error
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr = scanner.Err()
	}()

	var err error
loop:
	for {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprint(r.out, Prompt)

		var (
			raw string
			ok  bool
		)
		select {
		case <-ctx.Done():
			break loop
		case raw, ok = <-lines:
		}
		if !ok {
			// lines is closed only after scanErr is set.
			if scanErr != nil {
				logger.Debug("Input stream failed.", "error", scanErr)
				err = fmt.Errorf("failed to read input: %w", scanErr)
			}
			break
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if quit := r.handle(ctx, line); quit {
			break
		}
	}

	fmt.Fprintln(r.out, "\nClosing connection. Goodbye!")
	return err
}

// handle evaluates one non-empty line and reports whether the loop must end.
func (r *REPL) handle(ctx context.Context, line string) bool {
	switch strings.ToLower(line) {
	case "q", "exit", ".exit", "quit", ".quit":
		return true
	case ".vertical":
		r.mode = Vertical
		fmt.Fprintf(r.out, "Display mode set to: %s\n", r.mode)
		return false
	case ".horizontal":
		r.mode = Horizontal
		fmt.Fprintf(r.out, "Display mode set to: %s\n", r.mode)
		return false
	case ".tables":
		r.printTables()
		return false
	}

	ctxlog.FromContext(ctx).Debug("Executing statement.", "statement", line)
	res, err := r.session.Query(ctx, line)
	if err != nil {
		fmt.Fprintln(r.out, errorStyle.Render("Error:")+" "+err.Error())
		return false
	}
	r.printResult(res)
	return false
}

func (r *REPL) printResult(res *table.Table) {
	// Statements without a result set print nothing.
	if len(res.Columns) == 0 {
		return
	}
	if res.NumRows() == 0 {
		fmt.Fprintln(r.out, "(No results)")
		return
	}
	if r.mode == Horizontal {
		fmt.Fprint(r.out, renderHorizontal(res))
		return
	}
	fmt.Fprint(r.out, renderVertical(res))
}

func (r *REPL) printTables() {
	fmt.Fprintln(r.out, "Available tables (views):")
	for _, e := range r.session.Entries() {
		fmt.Fprintf(r.out, "  - %s\n", e.Name)
	}
}

// PrintBanner writes the welcome text: the mounted relations, an example
// query and the available directives.
func PrintBanner(out io.Writer, layer, dir string, entries []catalog.Entry) {
	fmt.Fprintln(out, titleStyle.Render("--- 🦆 Medallion Query Interface ---"))
	fmt.Fprintf(out, "Connected to %s layer at: %s\n\n", titleCase(layer), dir)
	fmt.Fprintln(out, "Available tables (views):")
	for _, e := range entries {
		fmt.Fprintf(out, "  - %s\n", e.Name)
	}
	fmt.Fprintln(out, "\n---")
	fmt.Fprintln(out, "Type your SQL query and press Enter.")
	if len(entries) > 0 {
		fmt.Fprintf(out, "e.g., 'SELECT * FROM %s LIMIT 5;'\n", entries[0].Name)
	}
	fmt.Fprintln(out, "Type 'q' or 'exit' to quit.")
	fmt.Fprintln(out, "Type '.vertical' or '.horizontal' to change display (Default: VERTICAL).")
	fmt.Fprintln(out, "Type '.tables' to list the available tables.")
	fmt.Fprintln(out, "---")
	fmt.Fprintln(out)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
