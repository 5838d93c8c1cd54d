package mysql

import (
	"context"
	"database/sql"
)

// Querier lo cumplen *sql.DB y *sql.Tx; los repos no saben si corren dentro de una transacción.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}
