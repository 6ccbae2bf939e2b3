package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Row is a result row keyed by column name.
type Row = map[string]any

// Query runs sql and returns every row as a map keyed by column name.
// Arguments use PostgreSQL placeholders ($1, $2, ...).
//
// Example:
//
//	rows, err := db.Query(ctx, pool, "SELECT id, title FROM todos WHERE done = $1", false)
func Query(ctx context.Context, q Querier, sql string, args ...any) ([]Row, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	return out, nil
}

// One runs sql and returns its single row.
// Returns nil without error when there are no rows, and ErrTooManyRows when
// there is more than one.
func One(ctx context.Context, q Querier, sql string, args ...any) (Row, error) {
	rows, err := Query(ctx, q, sql, args...)
	if err != nil {
		return nil, err
	}
	return single(rows)
}

func single(rows []Row) (Row, error) {
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	}
	return nil, ErrTooManyRows
}

// Exec runs a statement and returns the number of affected rows.
func Exec(ctx context.Context, q Querier, sql string, args ...any) (int64, error) {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, errors.Join(ErrQuery, err)
	}
	return tag.RowsAffected(), nil
}

// IsNoRows reports whether err means a QueryRow found nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
