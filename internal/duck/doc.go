// Package duck wraps the embedded DuckDB engine used for artifact I/O, the
// catalog session and SQL-shaped transforms. It owns the mapping between
// DuckDB column types and table.Type, loading a table.Table into the engine
// and scanning query results back into one.
package duck
