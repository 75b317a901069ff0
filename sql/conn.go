package sql

import (
	"context"
	"database/sql/driver"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Compile-time interface checks.
var (
	_ driver.Conn               = (*traceConn)(nil)
	_ driver.ConnPrepareContext = (*traceConn)(nil)
	_ driver.ConnBeginTx        = (*traceConn)(nil)
	_ driver.ExecerContext      = (*traceConn)(nil)
	_ driver.QueryerContext     = (*traceConn)(nil)
	_ driver.Pinger             = (*traceConn)(nil)
	_ driver.SessionResetter    = (*traceConn)(nil)
	_ driver.Validator          = (*traceConn)(nil)
)

// traceConn wraps a driver.Conn with instrumentation. It exclusively owns
// the wrapped connection for its lifetime; every instrumentable object it
// returns (statements, transactions, rows) leaves wrapped, never raw.
type traceConn struct {
	conn   driver.Conn
	cfg    *config
	connID attribute.KeyValue
}

// newTraceConn creates a new instrumented connection. Each connection gets
// a unique id attribute so spans from one session correlate in the backend.
func newTraceConn(conn driver.Conn, cfg *config) *traceConn {
	return &traceConn{
		conn:   conn,
		cfg:    cfg,
		connID: attribute.String(attrConnectionID, uuid.NewString()),
	}
}

// attrs returns the per-connection span attributes, appending extra.
func (c *traceConn) attrs(extra ...attribute.KeyValue) []attribute.KeyValue {
	return append([]attribute.KeyValue{c.connID}, extra...)
}

// Prepare implements driver.Conn.
func (c *traceConn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

// PrepareContext implements driver.ConnPrepareContext. Preparing a statement
// is a roundtrip; the resulting statement is returned wrapped so its own
// executions are tracked too.
func (c *traceConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	stmt, err := roundtrip(ctx, c.cfg, methodConnPrepare, query, c.attrs(),
		func(ctx context.Context) (driver.Stmt, error) {
			if preparer, ok := c.conn.(driver.ConnPrepareContext); ok {
				return preparer.PrepareContext(ctx, query)
			}
			return c.conn.Prepare(query)
		})
	if err != nil {
		return nil, err
	}
	return newTraceStmt(stmt, c.cfg, query, c.connID, ctx), nil
}

// Close implements driver.Conn. Connection teardown talks to the server,
// so it is tracked.
func (c *traceConn) Close() error {
	return roundtripErr(context.Background(), c.cfg, methodConnClose, "", c.attrs(),
		func(context.Context) error {
			return c.conn.Close()
		})
}

// Begin implements driver.Conn.
// Deprecated: kept for driver.Conn interface compatibility, use BeginTx.
func (c *traceConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx implements driver.ConnBeginTx.
func (c *traceConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	tx, err := roundtrip(ctx, c.cfg, methodConnBeginTx, "", c.attrs(),
		func(ctx context.Context) (driver.Tx, error) {
			if beginner, ok := c.conn.(driver.ConnBeginTx); ok {
				return beginner.BeginTx(ctx, opts)
			}
			return c.conn.Begin() //nolint:staticcheck // Fallback for older drivers
		})
	if err != nil {
		return nil, err
	}
	return newTraceTx(tx, c.cfg, c.connID, ctx), nil
}

// ExecContext implements driver.ExecerContext.
func (c *traceConn) ExecContext(
	ctx context.Context,
	query string,
	args []driver.NamedValue,
) (driver.Result, error) {
	execer, ok := c.conn.(driver.ExecerContext)
	if !ok {
		// No direct-exec support: hand back to database/sql, which falls
		// back to prepare + execute. No roundtrip happened here, so no span.
		return nil, driver.ErrSkip
	}

	extra := c.attrs()
	if argAttr, ok := c.cfg.argsAttribute(args); ok {
		extra = append(extra, argAttr)
	}

	return roundtrip(ctx, c.cfg, methodConnExec, query, extra,
		func(ctx context.Context) (driver.Result, error) {
			return execer.ExecContext(ctx, query, args)
		})
}

// QueryContext implements driver.QueryerContext.
func (c *traceConn) QueryContext(
	ctx context.Context,
	query string,
	args []driver.NamedValue,
) (driver.Rows, error) {
	queryer, ok := c.conn.(driver.QueryerContext)
	if !ok {
		return nil, driver.ErrSkip
	}

	extra := c.attrs()
	if argAttr, ok := c.cfg.argsAttribute(args); ok {
		extra = append(extra, argAttr)
	}

	rows, err := roundtrip(ctx, c.cfg, methodConnQuery, query, extra,
		func(ctx context.Context) (driver.Rows, error) {
			return queryer.QueryContext(ctx, query, args)
		})
	if err != nil {
		return nil, err
	}
	return newTraceRows(rows, c.cfg, c.connID, ctx), nil
}

// Ping implements driver.Pinger.
func (c *traceConn) Ping(ctx context.Context) error {
	return roundtripErr(ctx, c.cfg, methodConnPing, "", c.attrs(),
		func(ctx context.Context) error {
			if pinger, ok := c.conn.(driver.Pinger); ok {
				return pinger.Ping(ctx)
			}
			return nil
		})
}

// ResetSession implements driver.SessionResetter. Pool bookkeeping with no
// server roundtrip, delegated untracked.
func (c *traceConn) ResetSession(ctx context.Context) error {
	if resetter, ok := c.conn.(driver.SessionResetter); ok {
		return resetter.ResetSession(ctx)
	}
	return nil
}

// IsValid implements driver.Validator. Capability introspection, untracked.
func (c *traceConn) IsValid() bool {
	if validator, ok := c.conn.(driver.Validator); ok {
		return validator.IsValid()
	}
	return true
}
