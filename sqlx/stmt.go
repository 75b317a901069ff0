package sqlx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Stmt wraps *sqlx.Stmt with tracing and metrics. The query text captured at
// prepare time annotates every execution span.
type Stmt struct {
	*sqlx.Stmt
	cfg   *config
	query string
}

// GetContext executes the prepared statement for a single row and scans the
// result into dest.
func (s *Stmt) GetContext(ctx context.Context, dest any, args ...any) error {
	return trackErr(ctx, s.cfg, methodGet, s.query, func(ctx context.Context) error {
		return s.Stmt.GetContext(ctx, dest, args...)
	})
}

// SelectContext executes the prepared statement and scans all results into
// dest.
func (s *Stmt) SelectContext(ctx context.Context, dest any, args ...any) error {
	return trackErr(ctx, s.cfg, methodSelect, s.query, func(ctx context.Context) error {
		return s.Stmt.SelectContext(ctx, dest, args...)
	})
}

// ExecContext executes the prepared statement.
func (s *Stmt) ExecContext(ctx context.Context, args ...any) (sql.Result, error) {
	return track(ctx, s.cfg, methodExec, s.query, func(ctx context.Context) (sql.Result, error) {
		return s.Stmt.ExecContext(ctx, args...)
	})
}

// QueryContext executes the prepared statement and returns rows.
func (s *Stmt) QueryContext(ctx context.Context, args ...any) (*sql.Rows, error) {
	return track(ctx, s.cfg, methodQuery, s.query, func(ctx context.Context) (*sql.Rows, error) {
		return s.Stmt.QueryContext(ctx, args...)
	})
}

// QueryxContext executes the prepared statement and returns sqlx.Rows.
func (s *Stmt) QueryxContext(ctx context.Context, args ...any) (*sqlx.Rows, error) {
	return track(ctx, s.cfg, methodQuery, s.query, func(ctx context.Context) (*sqlx.Rows, error) {
		return s.Stmt.QueryxContext(ctx, args...)
	})
}

// QueryRowxContext executes the prepared statement and returns a single
// sqlx.Row.
func (s *Stmt) QueryRowxContext(ctx context.Context, args ...any) *sqlx.Row {
	row, _ := track(ctx, s.cfg, methodQueryRow, s.query, func(ctx context.Context) (*sqlx.Row, error) {
		return s.Stmt.QueryRowxContext(ctx, args...), nil
	})
	return row
}

// NamedStmt wraps *sqlx.NamedStmt with tracing and metrics.
type NamedStmt struct {
	*sqlx.NamedStmt
	cfg   *config
	query string
}

// GetContext executes the named statement for a single row and scans the
// result into dest.
func (s *NamedStmt) GetContext(ctx context.Context, dest any, arg any) error {
	return trackErr(ctx, s.cfg, methodGet, s.query, func(ctx context.Context) error {
		return s.NamedStmt.GetContext(ctx, dest, arg)
	})
}

// SelectContext executes the named statement and scans all results into dest.
func (s *NamedStmt) SelectContext(ctx context.Context, dest any, arg any) error {
	return trackErr(ctx, s.cfg, methodSelect, s.query, func(ctx context.Context) error {
		return s.NamedStmt.SelectContext(ctx, dest, arg)
	})
}

// ExecContext executes the named statement.
func (s *NamedStmt) ExecContext(ctx context.Context, arg any) (sql.Result, error) {
	return track(ctx, s.cfg, methodNamedExec, s.query, func(ctx context.Context) (sql.Result, error) {
		return s.NamedStmt.ExecContext(ctx, arg)
	})
}

// QueryxContext executes the named statement and returns sqlx.Rows.
func (s *NamedStmt) QueryxContext(ctx context.Context, arg any) (*sqlx.Rows, error) {
	return track(ctx, s.cfg, methodNamedQuery, s.query, func(ctx context.Context) (*sqlx.Rows, error) {
		return s.NamedStmt.QueryxContext(ctx, arg)
	})
}

// QueryRowxContext executes the named statement and returns a single
// sqlx.Row.
func (s *NamedStmt) QueryRowxContext(ctx context.Context, arg any) *sqlx.Row {
	row, _ := track(ctx, s.cfg, methodQueryRow, s.query, func(ctx context.Context) (*sqlx.Row, error) {
		return s.NamedStmt.QueryRowxContext(ctx, arg), nil
	})
	return row
}
