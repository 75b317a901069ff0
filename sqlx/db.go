package sqlx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DB wraps *sqlx.DB with tracing and metrics for every sqlx-specific method
// (Get, Select, NamedExec, NamedQuery) as well as the standard database/sql
// operations. Methods not reimplemented here are promoted from the embedded
// *sqlx.DB untouched.
type DB struct {
	*sqlx.DB
	cfg *config
}

// Open opens a database connection with instrumentation.
//
// Example:
//
//	db, err := dbtracex.Open("postgres", dsn,
//	    dbtracex.WithDBSystem("postgresql"),
//	    dbtracex.WithDBName("mydb"),
//	)
func Open(driverName, dsn string, opts ...Option) (*DB, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{DB: db, cfg: newConfig(opts...)}, nil
}

// Connect opens and verifies a database connection.
// It is equivalent to Open followed by Ping.
func Connect(ctx context.Context, driverName, dsn string, opts ...Option) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{DB: db, cfg: newConfig(opts...)}, nil
}

// NewDB wraps an existing *sql.DB with sqlx and instrumentation.
//
// Example:
//
//	sqlDB, _ := sql.Open("postgres", dsn)
//	db := dbtracex.NewDB(sqlDB, "postgres",
//	    dbtracex.WithDBSystem("postgresql"),
//	)
func NewDB(db *sql.DB, driverName string, opts ...Option) *DB {
	return &DB{
		DB:  sqlx.NewDb(db, driverName),
		cfg: newConfig(opts...),
	}
}

// MustOpen is like Open but panics on error.
func MustOpen(driverName, dsn string, opts ...Option) *DB {
	db, err := Open(driverName, dsn, opts...)
	if err != nil {
		panic(err)
	}
	return db
}

// MustConnect is like Connect but panics on error.
func MustConnect(ctx context.Context, driverName, dsn string, opts ...Option) *DB {
	db, err := Connect(ctx, driverName, dsn, opts...)
	if err != nil {
		panic(err)
	}
	return db
}

// GetContext executes a query expected to return at most one row and scans
// the result into dest.
func (db *DB) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return trackErr(ctx, db.cfg, methodGet, query, func(ctx context.Context) error {
		return db.DB.GetContext(ctx, dest, query, args...)
	})
}

// SelectContext executes a query and scans all results into dest.
func (db *DB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return trackErr(ctx, db.cfg, methodSelect, query, func(ctx context.Context) error {
		return db.DB.SelectContext(ctx, dest, query, args...)
	})
}

// NamedExecContext executes a named query bound to arg.
func (db *DB) NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error) {
	return track(ctx, db.cfg, methodNamedExec, query, func(ctx context.Context) (sql.Result, error) {
		return db.DB.NamedExecContext(ctx, query, arg)
	})
}

// NamedQueryContext executes a named query and returns rows.
func (db *DB) NamedQueryContext(ctx context.Context, query string, arg any) (*sqlx.Rows, error) {
	return track(ctx, db.cfg, methodNamedQuery, query, func(ctx context.Context) (*sqlx.Rows, error) {
		return db.DB.NamedQueryContext(ctx, query, arg)
	})
}

// ExecContext executes a query without returning rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return track(ctx, db.cfg, methodExec, query, func(ctx context.Context) (sql.Result, error) {
		return db.DB.ExecContext(ctx, query, args...)
	})
}

// QueryContext executes a query and returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return track(ctx, db.cfg, methodQuery, query, func(ctx context.Context) (*sql.Rows, error) {
		return db.DB.QueryContext(ctx, query, args...)
	})
}

// QueryxContext executes a query and returns sqlx.Rows.
func (db *DB) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	return track(ctx, db.cfg, methodQuery, query, func(ctx context.Context) (*sqlx.Rows, error) {
		return db.DB.QueryxContext(ctx, query, args...)
	})
}

// QueryRowxContext executes a query and returns a single sqlx.Row.
// Any error surfaces from Scan, so the span only covers the roundtrip.
func (db *DB) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	row, _ := track(ctx, db.cfg, methodQueryRow, query, func(ctx context.Context) (*sqlx.Row, error) {
		return db.DB.QueryRowxContext(ctx, query, args...), nil
	})
	return row
}

// QueryRowContext executes a query and returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	row, _ := track(ctx, db.cfg, methodQueryRow, query, func(ctx context.Context) (*sql.Row, error) {
		return db.DB.QueryRowContext(ctx, query, args...), nil
	})
	return row
}

// PingContext verifies the database connection.
func (db *DB) PingContext(ctx context.Context) error {
	return trackErr(ctx, db.cfg, methodPing, "", func(ctx context.Context) error {
		return db.DB.PingContext(ctx)
	})
}

// BeginTxx starts an instrumented transaction.
func (db *DB) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := track(ctx, db.cfg, methodBeginTx, "", func(ctx context.Context) (*sqlx.Tx, error) {
		return db.DB.BeginTxx(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, cfg: db.cfg, ctx: ctx}, nil
}

// Beginx starts an instrumented transaction with default options.
func (db *DB) Beginx() (*Tx, error) {
	return db.BeginTxx(context.Background(), nil)
}

// MustBeginTx starts a transaction and panics on error.
func (db *DB) MustBeginTx(ctx context.Context, opts *sql.TxOptions) *Tx {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		panic(err)
	}
	return tx
}

// MustBegin starts a transaction and panics on error.
func (db *DB) MustBegin() *Tx {
	return db.MustBeginTx(context.Background(), nil)
}

// PreparexContext prepares an instrumented statement.
func (db *DB) PreparexContext(ctx context.Context, query string) (*Stmt, error) {
	stmt, err := track(ctx, db.cfg, methodPrepare, query, func(ctx context.Context) (*sqlx.Stmt, error) {
		return db.DB.PreparexContext(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return &Stmt{Stmt: stmt, cfg: db.cfg, query: query}, nil
}

// Preparex prepares a statement without context.
func (db *DB) Preparex(query string) (*Stmt, error) {
	return db.PreparexContext(context.Background(), query)
}

// PrepareNamedContext prepares an instrumented named statement.
func (db *DB) PrepareNamedContext(ctx context.Context, query string) (*NamedStmt, error) {
	stmt, err := track(ctx, db.cfg, methodPrepare, query, func(ctx context.Context) (*sqlx.NamedStmt, error) {
		return db.DB.PrepareNamedContext(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return &NamedStmt{NamedStmt: stmt, cfg: db.cfg, query: query}, nil
}

// PrepareNamed prepares a named statement without context.
func (db *DB) PrepareNamed(query string) (*NamedStmt, error) {
	return db.PrepareNamedContext(context.Background(), query)
}

// Unsafe returns a version of DB that silently ignores missing destination
// fields.
func (db *DB) Unsafe() *DB {
	return &DB{DB: db.DB.Unsafe(), cfg: db.cfg}
}
