package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	driver "github.com/go-sql-driver/mysql"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// errDuplicateEntry código de MySQL para clave única repetida.
const errDuplicateEntry = 1062

// noLimit MySQL no acepta OFFSET sin LIMIT.
const noLimit = math.MaxInt64

func isDuplicate(err error) (*driver.MySQLError, bool) {
	var myErr *driver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == errDuplicateEntry {
		return myErr, true
	}
	return nil, false
}

// writeErr envuelve errores de escritura; 1062 se traduce a domain.ErrDuplicate.
func writeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if myErr, ok := isDuplicate(err); ok {
		return fmt.Errorf("%s (%s): %w", op, myErr.Message, domain.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// mustAffect convierte un UPDATE sin filas en ErrNotFound. Requiere clientFoundRows en el DSN.
func mustAffect(op string, res sql.Result, err error) error {
	if err != nil {
		return writeErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func getOne[T any](ctx context.Context, q Querier, op string, scan func(scanner) (*T, error), query string, args ...any) (*T, error) {
	v, err := scan(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func getMany[T any](ctx context.Context, q Querier, op string, scan func(scanner) (*T, error), query string, args ...any) ([]*T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// where arma filtros dinámicos. Cada "?" consume su propio argumento.
type where struct {
	clauses []string
	args    []any
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return "?"
}

func (w *where) and(clause string) {
	w.clauses = append(w.clauses, clause)
}

// like agrega "(col1 LIKE ? OR col2 LIKE ?)"; la collation utf8mb4 ya ignora mayúsculas.
func (w *where) like(term string, cols ...string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " LIKE " + w.arg("%"+term+"%")
	}
	w.and("(" + strings.Join(parts, " OR ") + ")")
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *where) page(p repository.Page) string {
	switch {
	case p.Limit > 0 && p.Offset > 0:
		return " LIMIT " + w.arg(p.Limit) + " OFFSET " + w.arg(p.Offset)
	case p.Limit > 0:
		return " LIMIT " + w.arg(p.Limit)
	case p.Offset > 0:
		return " LIMIT " + w.arg(int64(noLimit)) + " OFFSET " + w.arg(p.Offset)
	}
	return ""
}

// list cuenta con los filtros y trae la página. El COUNT usa solo los argumentos del WHERE.
func list[T any](ctx context.Context, q Querier, op, from, columns, order string, w *where, p repository.Page, scan func(scanner) (*T, error)) ([]*T, int, error) {
	filter := w.sql()
	var total int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+from+filter, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s count: %w", op, err)
	}
	query := "SELECT " + columns + " FROM " + from + filter + " ORDER BY " + order + w.page(p)
	rows, err := getMany(ctx, q, op, scan, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// limitOrAll limit <= 0 significa todas las filas.
func limitOrAll(limit int) int64 {
	if limit <= 0 {
		return noLimit
	}
	return int64(limit)
}

func deref[T any](rows []*T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}
