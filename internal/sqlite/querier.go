package sqlite

import (
	"context"
	"database/sql"
)

// querier is the subset of database/sql used by the store queries.
// Both *sql.DB and *sql.Tx satisfy it.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
