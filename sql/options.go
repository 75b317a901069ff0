package sql

import (
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// scope is the instrumentation scope name for OpenTelemetry.
const scope = "github.com/meridian-labs/dbtrace-go/sql"

// config holds the instrumentation configuration. It is built once when a
// driver is wrapped and shared read-only by every proxy derived from that
// root, so no locking is needed.
type config struct {
	// TracerProvider is the tracer provider to use.
	// If not set, the global provider from otel.GetTracerProvider() is used;
	// without a configured global provider this degrades to a no-op tracer.
	TracerProvider trace.TracerProvider

	// MeterProvider is the meter provider to use.
	// Defaults to the global provider, no-op when none is configured.
	MeterProvider metric.MeterProvider

	// Tracer is the tracer instance created from TracerProvider.
	Tracer trace.Tracer

	// Meter is the meter instance created from MeterProvider.
	Meter metric.Meter

	// Metrics holds the metric instruments.
	Metrics *metrics

	// DBSystem identifies the DBMS product ("postgresql", "mysql", ...).
	DBSystem string

	// DBName is the name of the database being accessed.
	DBName string

	// InstanceName distinguishes connections to the same database,
	// such as "primary" and "replica".
	InstanceName string

	// AnnotateQuery enables recording the SQL text on spans as db.statement.
	// Off by default: query text may carry sensitive literals.
	AnnotateQuery bool

	// RecordArgs enables recording bind arguments on spans as
	// db.statement.args. Independent of AnnotateQuery.
	RecordArgs bool

	// TrackRowsNext enables a tracked operation per Rows.Next call.
	// Off by default: row iteration is hot and a span per fetched row is
	// only worth it when debugging cursor behavior.
	TrackRowsNext bool

	// QuerySanitizer rewrites SQL text before it is attached to a span.
	// Only consulted when AnnotateQuery is on.
	QuerySanitizer func(query string) string

	// SlowQueryLog, when non-nil, logs operations slower than its threshold.
	SlowQueryLog *slowQueryLog
}

// newConfig creates a config with defaults and applies options.
func newConfig(opts ...Option) *config {
	cfg := &config{
		TracerProvider: otel.GetTracerProvider(),
		MeterProvider:  otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	cfg.Tracer = cfg.TracerProvider.Tracer(scope)
	cfg.Meter = cfg.MeterProvider.Meter(scope)

	// Instrument creation failures degrade to no metrics, never to a
	// failed database call.
	cfg.Metrics, _ = newMetrics(cfg.Meter)

	return cfg
}

// Option configures the instrumentation.
type Option func(*config)

// WithTracerProvider sets a custom tracer provider.
// If not called, the global provider from otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		cfg.TracerProvider = tp
	}
}

// WithMeterProvider sets a custom meter provider.
// If not called, the global provider from otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *config) {
		cfg.MeterProvider = mp
	}
}

// WithDBSystem sets the database system identifier, added as the
// "db.system" attribute on all spans ("postgresql", "mysql", "sqlite", ...).
func WithDBSystem(system string) Option {
	return func(cfg *config) {
		cfg.DBSystem = system
	}
}

// WithDBName sets the database name, added as the "db.name" attribute.
func WithDBName(name string) Option {
	return func(cfg *config) {
		cfg.DBName = name
	}
}

// WithInstanceName identifies this specific connection, added as the
// "db.instance" attribute. Useful for primary/replica or sharded setups.
func WithInstanceName(name string) Option {
	return func(cfg *config) {
		cfg.InstanceName = name
	}
}

// WithQueryAnnotation enables recording SQL text on spans as "db.statement".
// Combine with WithQuerySanitizer when queries may embed sensitive literals.
//
// Example:
//
//	db, _ := dbtrace.Open("postgres", dsn,
//	    dbtrace.WithQueryAnnotation(),
//	    dbtrace.WithQuerySanitizer(dbtrace.DefaultQuerySanitizer),
//	)
func WithQueryAnnotation() Option {
	return func(cfg *config) {
		cfg.AnnotateQuery = true
	}
}

// WithQuerySanitizer sets the sanitizer applied to SQL text before it is
// attached to spans. Use DefaultQuerySanitizer for a basic implementation
// that masks string, numeric and hex literals.
func WithQuerySanitizer(fn func(string) string) Option {
	return func(cfg *config) {
		cfg.QuerySanitizer = fn
	}
}

// WithQueryArgs enables recording bind arguments on spans as
// "db.statement.args", JSON-encoded. Arguments frequently contain user data;
// keep this off outside development environments.
func WithQueryArgs() Option {
	return func(cfg *config) {
		cfg.RecordArgs = true
	}
}

// WithRowsTracking enables a tracked operation per Rows.Next call, making
// cursor iteration visible in traces. Row fetches are hot; expect span
// volume proportional to rows read.
func WithRowsTracking() Option {
	return func(cfg *config) {
		cfg.TrackRowsNext = true
	}
}

// WithSlowQueryLog logs operations slower than threshold through logger.
// Log volume is throttled so a burst of slow queries cannot flood the
// sink; throttled events are dropped, not queued.
func WithSlowQueryLog(logger zerolog.Logger, threshold time.Duration) Option {
	return func(cfg *config) {
		cfg.SlowQueryLog = &slowQueryLog{
			logger:    logger,
			threshold: threshold,
			limiter:   rate.NewLimiter(rate.Every(time.Second), slowQueryLogBurst),
		}
	}
}
