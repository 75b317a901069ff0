package sql

import (
	"context"
	"database/sql/driver"

	"go.opentelemetry.io/otel/attribute"
)

// Compile-time interface checks.
var (
	_ driver.Stmt             = (*traceStmt)(nil)
	_ driver.StmtExecContext  = (*traceStmt)(nil)
	_ driver.StmtQueryContext = (*traceStmt)(nil)
)

// traceStmt wraps a driver.Stmt with instrumentation. The prepared query
// text travels with the statement so every execution can be annotated, and
// the preparing context is retained so lifecycle spans without a context
// parameter still nest in the caller's trace.
type traceStmt struct {
	stmt   driver.Stmt
	cfg    *config
	query  string
	connID attribute.KeyValue
	ctx    context.Context
}

func newTraceStmt(stmt driver.Stmt, cfg *config, query string, connID attribute.KeyValue, ctx context.Context) *traceStmt {
	return &traceStmt{
		stmt:   stmt,
		cfg:    cfg,
		query:  query,
		connID: connID,
		ctx:    ctx,
	}
}

// Close implements driver.Stmt. Releasing a prepared statement is a server
// roundtrip, so it is tracked.
func (s *traceStmt) Close() error {
	return roundtripErr(s.ctx, s.cfg, methodStmtClose, "", []attribute.KeyValue{s.connID},
		func(context.Context) error {
			return s.stmt.Close()
		})
}

// NumInput implements driver.Stmt. Pass-through, no tracking.
func (s *traceStmt) NumInput() int {
	return s.stmt.NumInput()
}

// Exec implements driver.Stmt.
// Deprecated: kept for driver.Stmt interface compatibility, use ExecContext.
func (s *traceStmt) Exec(args []driver.Value) (driver.Result, error) {
	return roundtrip(s.ctx, s.cfg, methodStmtExec, s.query, []attribute.KeyValue{s.connID},
		func(context.Context) (driver.Result, error) {
			return s.stmt.Exec(args) //nolint:staticcheck // Required for driver.Stmt interface
		})
}

// Query implements driver.Stmt.
// Deprecated: kept for driver.Stmt interface compatibility, use QueryContext.
func (s *traceStmt) Query(args []driver.Value) (driver.Rows, error) {
	rows, err := roundtrip(s.ctx, s.cfg, methodStmtQuery, s.query, []attribute.KeyValue{s.connID},
		func(context.Context) (driver.Rows, error) {
			return s.stmt.Query(args) //nolint:staticcheck // Required for driver.Stmt interface
		})
	if err != nil {
		return nil, err
	}
	return newTraceRows(rows, s.cfg, s.connID, s.ctx), nil
}

// ExecContext implements driver.StmtExecContext.
func (s *traceStmt) ExecContext(
	ctx context.Context,
	args []driver.NamedValue,
) (driver.Result, error) {
	extra := []attribute.KeyValue{s.connID}
	if argAttr, ok := s.cfg.argsAttribute(args); ok {
		extra = append(extra, argAttr)
	}

	return roundtrip(ctx, s.cfg, methodStmtExec, s.query, extra,
		func(ctx context.Context) (driver.Result, error) {
			if execer, ok := s.stmt.(driver.StmtExecContext); ok {
				return execer.ExecContext(ctx, args)
			}
			return s.stmt.Exec(namedValueToValue(args)) //nolint:staticcheck // Fallback for older drivers
		})
}

// QueryContext implements driver.StmtQueryContext.
func (s *traceStmt) QueryContext(
	ctx context.Context,
	args []driver.NamedValue,
) (driver.Rows, error) {
	extra := []attribute.KeyValue{s.connID}
	if argAttr, ok := s.cfg.argsAttribute(args); ok {
		extra = append(extra, argAttr)
	}

	rows, err := roundtrip(ctx, s.cfg, methodStmtQuery, s.query, extra,
		func(ctx context.Context) (driver.Rows, error) {
			if queryer, ok := s.stmt.(driver.StmtQueryContext); ok {
				return queryer.QueryContext(ctx, args)
			}
			return s.stmt.Query(namedValueToValue(args)) //nolint:staticcheck // Fallback for older drivers
		})
	if err != nil {
		return nil, err
	}
	return newTraceRows(rows, s.cfg, s.connID, ctx), nil
}

// namedValueToValue converts a NamedValue slice to a Value slice.
func namedValueToValue(named []driver.NamedValue) []driver.Value {
	values := make([]driver.Value, len(named))
	for i, nv := range named {
		values[i] = nv.Value
	}
	return values
}
