package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresQuerier reads sources straight from the underlying Postgres
// database. Each record is fetched as row_to_json so that the same alias
// projection serves this backend and the REST one.
type PostgresQuerier struct {
	pool *pgxpool.Pool
}

// NewPostgres connects a direct-Postgres querier.
func NewPostgres(ctx context.Context, dsn string) (*PostgresQuerier, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &PostgresQuerier{pool: pool}, nil
}

// Close releases the connection pool.
func (q *PostgresQuerier) Close() {
	q.pool.Close()
}

// Query fetches and projects one source.
func (q *PostgresQuerier) Query(ctx context.Context, spec Spec) ([]Row, error) {
	rows, err := q.pool.Query(ctx, buildSQL(spec))
	if err != nil {
		return nil, fmt.Errorf("%w: source %s: %w", ErrServerError, spec.Name, err)
	}
	defer rows.Close()

	var out []Row

	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("%w: source %s: scan: %w", ErrServerError, spec.Name, err)
		}

		decoded, err := decodeRecord(record)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", spec.Name, err)
		}

		out = append(out, projectRecord(decoded, spec.Fields))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: source %s: %w", ErrServerError, spec.Name, err)
	}

	return out, nil
}

// buildSQL renders the spec as a row_to_json select. Spec values are static
// package data, never user input.
func buildSQL(spec Spec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "SELECT row_to_json(t) FROM %s t", quoteIdent(spec.Name))

	if col, dir, ok := splitOrder(spec.Order); ok {
		fmt.Fprintf(&b, " ORDER BY %s %s", quoteIdent(col), dir)
	}

	if spec.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", spec.Limit)
	}

	return b.String()
}

// splitOrder converts a PostgREST order expression ("col.desc") to its SQL
// column and direction.
func splitOrder(order string) (col, dir string, ok bool) {
	if order == "" {
		return "", "", false
	}

	col, suffix, found := strings.Cut(order, ".")
	if !found {
		return col, "ASC", true
	}

	if strings.EqualFold(suffix, "desc") {
		return col, "DESC", true
	}

	return col, "ASC", true
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
