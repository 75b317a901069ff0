package sqlx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Tx wraps *sqlx.Tx with tracing and metrics.
//
// The context active when the transaction began is retained so that Commit
// and Rollback, which take no context of their own, still produce spans
// parented under the transaction's trace.
type Tx struct {
	*sqlx.Tx
	cfg *config
	ctx context.Context
}

// GetContext executes a query expected to return at most one row and scans
// the result into dest.
func (tx *Tx) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return trackErr(ctx, tx.cfg, methodGet, query, func(ctx context.Context) error {
		return tx.Tx.GetContext(ctx, dest, query, args...)
	})
}

// SelectContext executes a query and scans all results into dest.
func (tx *Tx) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return trackErr(ctx, tx.cfg, methodSelect, query, func(ctx context.Context) error {
		return tx.Tx.SelectContext(ctx, dest, query, args...)
	})
}

// NamedExecContext executes a named query within the transaction.
func (tx *Tx) NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error) {
	return track(ctx, tx.cfg, methodNamedExec, query, func(ctx context.Context) (sql.Result, error) {
		return tx.Tx.NamedExecContext(ctx, query, arg)
	})
}

// NamedQuery executes a named query within the transaction.
func (tx *Tx) NamedQuery(query string, arg any) (*sqlx.Rows, error) {
	return track(tx.ctx, tx.cfg, methodNamedQuery, query, func(context.Context) (*sqlx.Rows, error) {
		return tx.Tx.NamedQuery(query, arg)
	})
}

// ExecContext executes a query without returning rows.
func (tx *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return track(ctx, tx.cfg, methodExec, query, func(ctx context.Context) (sql.Result, error) {
		return tx.Tx.ExecContext(ctx, query, args...)
	})
}

// QueryContext executes a query and returns rows.
func (tx *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return track(ctx, tx.cfg, methodQuery, query, func(ctx context.Context) (*sql.Rows, error) {
		return tx.Tx.QueryContext(ctx, query, args...)
	})
}

// QueryxContext executes a query and returns sqlx.Rows.
func (tx *Tx) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	return track(ctx, tx.cfg, methodQuery, query, func(ctx context.Context) (*sqlx.Rows, error) {
		return tx.Tx.QueryxContext(ctx, query, args...)
	})
}

// QueryRowxContext executes a query and returns a single sqlx.Row.
func (tx *Tx) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	row, _ := track(ctx, tx.cfg, methodQueryRow, query, func(ctx context.Context) (*sqlx.Row, error) {
		return tx.Tx.QueryRowxContext(ctx, query, args...), nil
	})
	return row
}

// QueryRowContext executes a query and returns a single row.
func (tx *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	row, _ := track(ctx, tx.cfg, methodQueryRow, query, func(ctx context.Context) (*sql.Row, error) {
		return tx.Tx.QueryRowContext(ctx, query, args...), nil
	})
	return row
}

// PreparexContext prepares an instrumented statement within the transaction.
func (tx *Tx) PreparexContext(ctx context.Context, query string) (*Stmt, error) {
	stmt, err := track(ctx, tx.cfg, methodPrepare, query, func(ctx context.Context) (*sqlx.Stmt, error) {
		return tx.Tx.PreparexContext(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return &Stmt{Stmt: stmt, cfg: tx.cfg, query: query}, nil
}

// Preparex prepares a statement within the transaction.
func (tx *Tx) Preparex(query string) (*Stmt, error) {
	return tx.PreparexContext(tx.ctx, query)
}

// PrepareNamedContext prepares an instrumented named statement within the
// transaction.
func (tx *Tx) PrepareNamedContext(ctx context.Context, query string) (*NamedStmt, error) {
	stmt, err := track(ctx, tx.cfg, methodPrepare, query, func(ctx context.Context) (*sqlx.NamedStmt, error) {
		return tx.Tx.PrepareNamedContext(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return &NamedStmt{NamedStmt: stmt, cfg: tx.cfg, query: query}, nil
}

// PrepareNamed prepares a named statement within the transaction.
func (tx *Tx) PrepareNamed(query string) (*NamedStmt, error) {
	return tx.PrepareNamedContext(tx.ctx, query)
}

// StmtxContext returns a version of the prepared statement bound to this
// transaction.
func (tx *Tx) StmtxContext(ctx context.Context, stmt *Stmt) *Stmt {
	return &Stmt{
		Stmt:  tx.Tx.StmtxContext(ctx, stmt.Stmt),
		cfg:   tx.cfg,
		query: stmt.query,
	}
}

// Stmtx returns a version of the prepared statement bound to this transaction.
func (tx *Tx) Stmtx(stmt *Stmt) *Stmt {
	return tx.StmtxContext(tx.ctx, stmt)
}

// NamedStmtContext returns a version of the named statement bound to this
// transaction.
func (tx *Tx) NamedStmtContext(ctx context.Context, stmt *NamedStmt) *NamedStmt {
	return &NamedStmt{
		NamedStmt: tx.Tx.NamedStmtContext(ctx, stmt.NamedStmt),
		cfg:       tx.cfg,
		query:     stmt.query,
	}
}

// NamedStmt returns a version of the named statement bound to this
// transaction.
func (tx *Tx) NamedStmt(stmt *NamedStmt) *NamedStmt {
	return tx.NamedStmtContext(tx.ctx, stmt)
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	return trackErr(tx.ctx, tx.cfg, methodTxCommit, "", func(context.Context) error {
		return tx.Tx.Commit()
	})
}

// Rollback aborts the transaction.
func (tx *Tx) Rollback() error {
	return trackErr(tx.ctx, tx.cfg, methodTxRollback, "", func(context.Context) error {
		return tx.Tx.Rollback()
	})
}

// Unsafe returns a version of Tx that silently ignores missing destination
// fields.
func (tx *Tx) Unsafe() *Tx {
	return &Tx{Tx: tx.Tx.Unsafe(), cfg: tx.cfg, ctx: tx.ctx}
}
