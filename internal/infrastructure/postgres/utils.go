package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// writeErr envuelve errores de escritura; las claves duplicadas se traducen a domain.ErrDuplicate.
func writeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		var pgErr *pgconn.PgError
		errors.As(err, &pgErr)
		return fmt.Errorf("%s (%s): %w", op, pgErr.ConstraintName, domain.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// mustAffect convierte un UPDATE sin filas en ErrNotFound.
func mustAffect(op string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return writeErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// getOne ejecuta un SELECT de una fila; sin filas devuelve (nil, nil).
func getOne[T any](ctx context.Context, q Querier, op string, scan func(scanner) (*T, error), sql string, args ...any) (*T, error) {
	v, err := scan(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// getMany ejecuta un SELECT y escanea todas las filas.
func getMany[T any](ctx context.Context, q Querier, op string, scan func(scanner) (*T, error), sql string, args ...any) ([]*T, error) {
	rows, err := q.Query(ctx, sql, args...)
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

// where arma filtros dinámicos con placeholders $n.
type where struct {
	clauses []string
	args    []any
}

// arg registra un argumento y devuelve su placeholder.
func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *where) and(clause string) {
	w.clauses = append(w.clauses, clause)
}

// like agrega "(col1 ILIKE $n OR col2 ILIKE $n ...)" si term no está vacío.
func (w *where) like(term string, cols ...string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	ph := w.arg("%" + term + "%")
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " ILIKE " + ph
	}
	w.and("(" + strings.Join(parts, " OR ") + ")")
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page agrega LIMIT/OFFSET.
func (w *where) page(p repository.Page) string {
	s := ""
	if p.Limit > 0 {
		s += " LIMIT " + w.arg(p.Limit)
	}
	if p.Offset > 0 {
		s += " OFFSET " + w.arg(p.Offset)
	}
	return s
}

// list cuenta el total con los filtros y luego trae la página.
func list[T any](ctx context.Context, q Querier, op, from, columns, order string, w *where, p repository.Page, scan func(scanner) (*T, error)) ([]*T, int, error) {
	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+from+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s count: %w", op, err)
	}
	filter := w.sql()
	query := "SELECT " + columns + " FROM " + from + filter + " ORDER BY " + order + w.page(p)
	rows, err := getMany(ctx, q, op, scan, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
