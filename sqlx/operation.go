package sqlx

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Stable span names for wrapped operations. The SQL verb travels in the
// db.operation attribute, keeping span name cardinality bounded.
const (
	methodGet        = "sqlx.get"
	methodSelect     = "sqlx.select"
	methodNamedExec  = "sqlx.named_exec"
	methodNamedQuery = "sqlx.named_query"
	methodExec       = "sqlx.exec"
	methodQuery      = "sqlx.query"
	methodQueryRow   = "sqlx.query_row"
	methodPrepare    = "sqlx.prepare"
	methodPing       = "sqlx.ping"
	methodBeginTx    = "sqlx.begin_tx"
	methodTxCommit   = "sqlx.tx.commit"
	methodTxRollback = "sqlx.tx.rollback"
)

// track runs fn under a client span named name, records a latency sample,
// and returns fn's result and error unchanged.
//
// sql.ErrNoRows means the query ran fine and matched nothing, so it is
// returned to the caller but never recorded as a span error or counted as a
// failed sample.
func track[T any](
	ctx context.Context,
	cfg *config,
	name, query string,
	fn func(context.Context) (T, error),
) (T, error) {
	startedAt := time.Now()

	ctx, span := cfg.Tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(cfg.operationAttributes(query)...),
	)
	defer span.End()

	v, err := fn(ctx)

	failed := err != nil && !errors.Is(err, sql.ErrNoRows)
	cfg.Metrics.recordOperation(ctx, name, extractOperation(query),
		time.Since(startedAt), failed, cfg.baseAttributes())

	if failed {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return v, err
}

// trackErr is track for operations that only return an error.
func trackErr(
	ctx context.Context,
	cfg *config,
	name, query string,
	fn func(context.Context) error,
) error {
	_, err := track(ctx, cfg, name, query, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
