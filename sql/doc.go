// Package sql provides a transparent database/sql driver wrapper with
// OpenTelemetry tracing and metrics.
//
// # Features
//
//   - One span per driver roundtrip (connect, prepare, exec, query, tx,
//     cursor lifecycle), closed exactly once on every exit path
//   - Delegate errors recorded on the span and returned verbatim
//   - Recursive wrapping: statements, transactions and rows returned by the
//     driver come back instrumented, so tracing composes across a whole
//     execute → fetch → close chain
//   - Latency histogram per operation with ok/error status
//   - Opt-in query text annotation with sanitization
//   - Slow-query logging and connection pool metrics
//
// # Quick Start
//
//	import dbtrace "github.com/meridian-labs/dbtrace-go/sql"
//
//	db, err := dbtrace.Open("postgres", dsn,
//	    dbtrace.WithDBSystem("postgresql"),
//	    dbtrace.WithDBName("myapp"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	// Use like a standard *sql.DB
//	rows, err := db.QueryContext(ctx, "SELECT * FROM users")
//
// # Driver Registration
//
// For more control, wrap and register a driver yourself:
//
//	wrapped := dbtrace.WrapDriver(pq.Driver{},
//	    dbtrace.WithDBSystem("postgresql"),
//	)
//	sql.Register("postgres-traced", wrapped)
//
//	db, _ := sql.Open("postgres-traced", dsn)
//
// # Query Annotation
//
// Query text is not recorded unless explicitly enabled; combine annotation
// with a sanitizer when queries may embed sensitive literals:
//
//	db, _ := dbtrace.Open("postgres", dsn,
//	    dbtrace.WithQueryAnnotation(),
//	    dbtrace.WithQuerySanitizer(dbtrace.DefaultQuerySanitizer),
//	)
//
// # Transparency
//
// The wrapper never alters driver behavior: results and errors surface to
// the application exactly as the underlying driver produced them. Telemetry
// is best-effort; a failing tracer or meter never fails a database call.
package sql
