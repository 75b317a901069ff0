package sqlx

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// scope is the instrumentation scope name for OpenTelemetry.
const scope = "github.com/meridian-labs/dbtrace-go/sqlx"

// config holds the configuration for instrumentation.
type config struct {
	// TracerProvider is the tracer provider to use.
	TracerProvider trace.TracerProvider

	// MeterProvider is the meter provider to use.
	MeterProvider metric.MeterProvider

	// Tracer is the tracer instance.
	Tracer trace.Tracer

	// Meter is the meter instance.
	Meter metric.Meter

	// Metrics holds the metric instruments.
	Metrics *metrics

	// DBSystem identifies the database management system.
	DBSystem string

	// DBName is the name of the database.
	DBName string

	// InstanceName identifies a specific database instance.
	InstanceName string

	// AnnotateQuery enables recording the SQL text on spans.
	AnnotateQuery bool

	// QuerySanitizer rewrites SQL text before it is recorded.
	QuerySanitizer func(query string) string
}

// newConfig creates a new config with defaults and applies options.
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

// WithDBSystem sets the database system identifier (DBMS product).
// This is added as the "db.system" attribute on all spans.
//
// Common values:
//   - "postgresql" - PostgreSQL
//   - "mysql" - MySQL
//   - "sqlite" - SQLite
func WithDBSystem(system string) Option {
	return func(cfg *config) {
		cfg.DBSystem = system
	}
}

// WithDBName sets the database name being accessed.
// This is added as the "db.name" attribute on all spans.
func WithDBName(name string) Option {
	return func(cfg *config) {
		cfg.DBName = name
	}
}

// WithInstanceName sets an identifier for this specific database connection.
// This is added as the "db.instance" attribute on all spans.
//
// Use this to distinguish between multiple connections to the SAME database:
//   - Primary/replica setups: "primary", "replica-1"
//   - Read/write splits: "read", "write"
func WithInstanceName(name string) Option {
	return func(cfg *config) {
		cfg.InstanceName = name
	}
}

// WithQueryAnnotation enables recording the SQL text as the "db.statement"
// attribute. Off by default because query text may embed sensitive literals;
// combine with WithQuerySanitizer when literals must not leak into traces.
//
// Example:
//
//	db, _ := dbtracex.Open("postgres", dsn,
//	    dbtracex.WithQueryAnnotation(),
//	    dbtracex.WithQuerySanitizer(dbtracex.DefaultQuerySanitizer),
//	)
func WithQueryAnnotation() Option {
	return func(cfg *config) {
		cfg.AnnotateQuery = true
	}
}

// WithQuerySanitizer sets a custom query sanitizer function.
// The sanitizer receives the raw SQL text and returns the version recorded
// on spans. It only applies when query annotation is enabled.
func WithQuerySanitizer(fn func(string) string) Option {
	return func(cfg *config) {
		cfg.QuerySanitizer = fn
	}
}
