package sql

import (
	"context"
	"database/sql/driver"

	"go.opentelemetry.io/otel/attribute"
)

// Compile-time interface check.
var _ driver.Tx = (*traceTx)(nil)

// traceTx wraps a driver.Tx with instrumentation. driver.Tx methods carry no
// context, so the transaction retains the context it was begun under and
// commit/rollback spans nest beneath the surrounding trace.
type traceTx struct {
	tx     driver.Tx
	cfg    *config
	connID attribute.KeyValue
	ctx    context.Context
}

func newTraceTx(tx driver.Tx, cfg *config, connID attribute.KeyValue, ctx context.Context) *traceTx {
	return &traceTx{
		tx:     tx,
		cfg:    cfg,
		connID: connID,
		ctx:    ctx,
	}
}

// Commit implements driver.Tx.
func (t *traceTx) Commit() error {
	return roundtripErr(t.ctx, t.cfg, methodTxCommit, "", []attribute.KeyValue{t.connID},
		func(context.Context) error {
			return t.tx.Commit()
		})
}

// Rollback implements driver.Tx.
func (t *traceTx) Rollback() error {
	return roundtripErr(t.ctx, t.cfg, methodTxRollback, "", []attribute.KeyValue{t.connID},
		func(context.Context) error {
			return t.tx.Rollback()
		})
}
