package sql

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation names identify the semantic driver method, not the call site,
// so spans aggregate cleanly in a tracing backend.
const (
	methodDriverOpen       = "sql.driver.open"
	methodConnectorConnect = "sql.connector.connect"
	methodConnPrepare      = "sql.conn.prepare"
	methodConnExec         = "sql.conn.exec"
	methodConnQuery        = "sql.conn.query"
	methodConnBeginTx      = "sql.conn.begin_tx"
	methodConnPing         = "sql.conn.ping"
	methodConnClose        = "sql.conn.close"
	methodTxCommit         = "sql.tx.commit"
	methodTxRollback       = "sql.tx.rollback"
	methodStmtExec         = "sql.stmt.exec"
	methodStmtQuery        = "sql.stmt.query"
	methodStmtClose        = "sql.stmt.close"
	methodRowsClose        = "sql.rows.close"
	methodRowsNext         = "sql.rows.next"
)

// operation is one measured roundtrip against the driver.
// It owns exactly one span: started in startOperation, ended exactly once
// in end, with at most one recorded error in between.
type operation struct {
	name      string
	query     string
	span      trace.Span
	cfg       *config
	startedAt time.Time
	failed    bool
	ended     bool
}

// startOperation begins a tracked operation. The returned context carries the
// operation's span as the ambient tracing context; the delegate call must run
// under it so nested instrumentation parents correctly.
//
// If query annotation is enabled and query is non-empty, db.statement is
// attached as a start attribute so exporters see it even on spans that are
// force-flushed before end.
func (cfg *config) startOperation(
	ctx context.Context,
	name, query string,
	extra ...attribute.KeyValue,
) (context.Context, *operation) {
	op := &operation{
		name:      name,
		query:     query,
		cfg:       cfg,
		startedAt: time.Now(),
	}

	attrs := cfg.operationAttributes(name, query)
	attrs = append(attrs, extra...)

	ctx, op.span = cfg.Tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	return ctx, op
}

// fail records the first delegate error observed on this operation.
// Sentinel values that signal control flow rather than failure (io.EOF from
// row iteration, driver.ErrSkip from capability fallbacks) are ignored.
// Later calls are no-ops: one operation carries at most one error.
func (op *operation) fail(err error) {
	if err == nil || op.failed {
		return
	}
	if errors.Is(err, io.EOF) || errors.Is(err, driver.ErrSkip) {
		return
	}
	op.failed = true
	op.span.RecordError(err)
	op.span.SetStatus(codes.Error, err.Error())
}

// end closes the operation: the span is ended, the duration histogram gets a
// sample, and the slow-query log fires if configured. end is idempotent and
// is installed with defer so it runs on every exit path; a span that outlives
// its operation would either leak or stay ambient for unrelated work.
func (op *operation) end(ctx context.Context) {
	if op.ended {
		return
	}
	op.ended = true
	op.span.End()

	elapsed := time.Since(op.startedAt)
	op.cfg.Metrics.recordOperation(ctx, op.name, extractOperation(op.query), elapsed, op.failed, op.cfg.baseAttributes())
	op.cfg.SlowQueryLog.observe(op.name, op.query, elapsed, op.failed)
}

// roundtrip runs one tracked delegate call: start the operation, activate its
// span for the duration of fn, record the first error, end unconditionally.
// The delegate's result and error are returned verbatim; instrumentation
// never wraps, swallows, or retries.
func roundtrip[T any](
	ctx context.Context,
	cfg *config,
	name, query string,
	attrs []attribute.KeyValue,
	fn func(context.Context) (T, error),
) (T, error) {
	ctx, op := cfg.startOperation(ctx, name, query, attrs...)
	defer op.end(ctx)

	v, err := fn(ctx)
	op.fail(err)
	return v, err
}

// roundtripErr is roundtrip for delegate calls that return only an error.
func roundtripErr(
	ctx context.Context,
	cfg *config,
	name, query string,
	attrs []attribute.KeyValue,
	fn func(context.Context) error,
) error {
	_, err := roundtrip(ctx, cfg, name, query, attrs, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
