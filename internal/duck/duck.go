package duck

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/marcboeker/go-duckdb"
	"github.com/vk/medallion/internal/table"
)

// Open starts an in-memory DuckDB database. The pool is capped at one
// connection: a session owns its engine connection exclusively.
func Open(ctx context.Context) (*sql.DB, error) {
	connector, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start duckdb: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to duckdb: %w", err)
	}
	return db, nil
}

// QuoteIdent quotes a relation or column name.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral quotes a string literal such as a file path.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// SQLType returns the DuckDB column type for a table type.
func SQLType(t table.Type) string {
	switch t {
	case table.Int64:
		return "BIGINT"
	case table.Float64:
		return "DOUBLE"
	case table.Bool:
		return "BOOLEAN"
	case table.Date:
		return "DATE"
	case table.Timestamp:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}

// TableType maps a DuckDB type name (as reported by sql.ColumnType) to the
// closest table type. Types without a counterpart are rendered as strings.
func TableType(dbType string) table.Type {
	dbType = strings.ToUpper(dbType)
	switch {
	case dbType == "BOOLEAN":
		return table.Bool
	case dbType == "DATE":
		return table.Date
	case strings.HasPrefix(dbType, "TIMESTAMP"):
		return table.Timestamp
	case dbType == "DOUBLE", dbType == "FLOAT", dbType == "REAL", strings.HasPrefix(dbType, "DECIMAL"):
		return table.Float64
	case strings.HasSuffix(dbType, "INT"), strings.HasSuffix(dbType, "INTEGER"):
		// BIGINT, INTEGER, SMALLINT, TINYINT, HUGEINT and the unsigned variants.
		return table.Int64
	default:
		return table.String
	}
}
