package sqlx

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the metric instruments for wrapped operations.
type metrics struct {
	operationDuration metric.Float64Histogram
}

// newMetrics creates and registers metric instruments.
func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error

	m.operationDuration, err = meter.Float64Histogram(
		"db.client.operation.duration",
		metric.WithDescription("Duration of database client operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// recordOperation records one sample for a finished wrapped operation.
func (m *metrics) recordOperation(
	ctx context.Context,
	method, sqlOp string,
	duration time.Duration,
	failed bool,
	attrs []attribute.KeyValue,
) {
	if m == nil || m.operationDuration == nil {
		return
	}

	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+3)
	allAttrs = append(allAttrs, attrs...)
	allAttrs = append(allAttrs, attribute.String("db.method", method))

	if sqlOp != "" {
		allAttrs = append(allAttrs, attribute.String(attrDBOperation, sqlOp))
	}

	status := "ok"
	if failed {
		status = "error"
	}
	allAttrs = append(allAttrs, attribute.String("status", status))

	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(allAttrs...))
}

// RecordPoolMetrics registers connection pool metrics for a wrapped database.
// Identity attributes configured at Open time are merged with attrs.
//
// Example:
//
//	db, _ := dbtracex.Open("postgres", dsn,
//	    dbtracex.WithDBSystem("postgresql"),
//	    dbtracex.WithDBName("mydb"),
//	)
//	err := dbtracex.RecordPoolMetrics(db, otel.GetMeterProvider().Meter("myapp"))
func RecordPoolMetrics(db *DB, meter metric.Meter, attrs ...attribute.KeyValue) error {
	if db.cfg != nil {
		attrs = append(db.cfg.baseAttributes(), attrs...)
	}
	return registerPoolMetrics(meter, db.DB.DB, attrs)
}

// registerPoolMetrics registers connection pool instruments whose values are
// read lazily from db.Stats() when scraped.
func registerPoolMetrics(meter metric.Meter, db *sql.DB, attrs []attribute.KeyValue) error {
	openConnections, err := meter.Int64ObservableGauge(
		"db.client.connections.open",
		metric.WithDescription("Number of open connections in the pool"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}

	idleConnections, err := meter.Int64ObservableGauge(
		"db.client.connections.idle",
		metric.WithDescription("Number of idle connections in the pool"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}

	maxConnections, err := meter.Int64ObservableGauge(
		"db.client.connections.max",
		metric.WithDescription("Maximum number of connections allowed in the pool"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}

	usedConnections, err := meter.Int64ObservableGauge(
		"db.client.connections.used",
		metric.WithDescription("Number of connections currently in use"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}

	waitCount, err := meter.Int64ObservableCounter(
		"db.client.connections.wait_count",
		metric.WithDescription("Total number of times waited for a connection"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}

	waitDuration, err := meter.Float64ObservableCounter(
		"db.client.connections.wait_duration",
		metric.WithDescription("Total time waited for connections in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			stats := db.Stats()

			o.ObserveInt64(openConnections, int64(stats.OpenConnections),
				metric.WithAttributes(attrs...))
			o.ObserveInt64(idleConnections, int64(stats.Idle),
				metric.WithAttributes(attrs...))
			o.ObserveInt64(maxConnections, int64(stats.MaxOpenConnections),
				metric.WithAttributes(attrs...))
			o.ObserveInt64(usedConnections, int64(stats.InUse),
				metric.WithAttributes(attrs...))
			o.ObserveInt64(waitCount, stats.WaitCount,
				metric.WithAttributes(attrs...))
			o.ObserveFloat64(waitDuration, stats.WaitDuration.Seconds(),
				metric.WithAttributes(attrs...))

			return nil
		},
		openConnections,
		idleConnections,
		maxConnections,
		usedConnections,
		waitCount,
		waitDuration,
	)

	return err
}
