package duck

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/marcboeker/go-duckdb"
	"github.com/vk/medallion/internal/table"
)

// LoadTable creates (or replaces) relation name on conn and bulk-loads t into
// it through the DuckDB appender.
func LoadTable(ctx context.Context, conn *sql.Conn, name string, t *table.Table) error {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = QuoteIdent(c.Name) + " " + SQLType(c.Type)
	}
	ddl := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", QuoteIdent(name), strings.Join(defs, ", "))
	if _, err := conn.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create relation %q: %w", name, err)
	}

	if len(t.Rows) == 0 {
		return nil
	}

	return conn.Raw(func(raw any) error {
		dc, ok := raw.(driver.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", raw)
		}
		appender, err := duckdb.NewAppenderFromConn(dc, "", name)
		if err != nil {
			return fmt.Errorf("failed to open appender for %q: %w", name, err)
		}
		values := make([]driver.Value, len(t.Columns))
		for r, row := range t.Rows {
			for i, cell := range row {
				values[i] = cell
			}
			if err := appender.AppendRow(values...); err != nil {
				appender.Close()
				return fmt.Errorf("failed to append row %d to %q: %w", r, name, err)
			}
		}
		if err := appender.Close(); err != nil {
			return fmt.Errorf("failed to flush %q: %w", name, err)
		}
		return nil
	})
}
