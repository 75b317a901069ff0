package sql

import (
	"context"
	"database/sql/driver"
	"io"

	"go.opentelemetry.io/otel/attribute"
)

// Compile-time interface checks.
var (
	_ driver.Rows              = (*traceRows)(nil)
	_ driver.RowsNextResultSet = (*traceRows)(nil)
)

// traceRows wraps a driver.Rows with instrumentation. Closing the cursor is
// always tracked; per-row Next tracking is opt-in via WithRowsTracking since
// iteration is hot. The query's context is retained so cursor spans nest in
// the trace that produced the rows.
type traceRows struct {
	rows   driver.Rows
	cfg    *config
	connID attribute.KeyValue
	ctx    context.Context
}

func newTraceRows(rows driver.Rows, cfg *config, connID attribute.KeyValue, ctx context.Context) *traceRows {
	return &traceRows{
		rows:   rows,
		cfg:    cfg,
		connID: connID,
		ctx:    ctx,
	}
}

// Columns implements driver.Rows. Pass-through, no tracking.
func (r *traceRows) Columns() []string {
	return r.rows.Columns()
}

// Close implements driver.Rows. Closing a cursor releases server-side
// resources, so it is tracked.
func (r *traceRows) Close() error {
	return roundtripErr(r.ctx, r.cfg, methodRowsClose, "", []attribute.KeyValue{r.connID},
		func(context.Context) error {
			return r.rows.Close()
		})
}

// Next implements driver.Rows. Tracked only when rows tracking is enabled;
// io.EOF is normal cursor exhaustion and is never recorded as a failure.
func (r *traceRows) Next(dest []driver.Value) error {
	if !r.cfg.TrackRowsNext {
		return r.rows.Next(dest)
	}
	return roundtripErr(r.ctx, r.cfg, methodRowsNext, "", []attribute.KeyValue{r.connID},
		func(context.Context) error {
			return r.rows.Next(dest)
		})
}

// HasNextResultSet implements driver.RowsNextResultSet. Capability
// introspection, untracked; drivers without multi-result support report a
// single result set.
func (r *traceRows) HasNextResultSet() bool {
	if nrs, ok := r.rows.(driver.RowsNextResultSet); ok {
		return nrs.HasNextResultSet()
	}
	return false
}

// NextResultSet implements driver.RowsNextResultSet. Pass-through: advancing
// result sets consumes data already returned by the executed query.
func (r *traceRows) NextResultSet() error {
	if nrs, ok := r.rows.(driver.RowsNextResultSet); ok {
		return nrs.NextResultSet()
	}
	return io.EOF
}
