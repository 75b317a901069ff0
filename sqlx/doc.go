// Package sqlx provides an instrumented wrapper around github.com/jmoiron/sqlx
// with OpenTelemetry tracing and metrics.
//
// Unlike the sibling sql package, which intercepts at the database/sql driver
// level, this package wraps the sqlx API surface directly so that
// sqlx-specific operations like Get, Select, NamedExec, and NamedQuery appear
// as first-class spans instead of the lower-level driver calls they expand to.
//
// Usage:
//
//	import dbtracex "github.com/meridian-labs/dbtrace-go/sqlx"
//
//	db, err := dbtracex.Open("postgres", dsn,
//	    dbtracex.WithDBSystem("postgresql"),
//	    dbtracex.WithDBName("myapp"),
//	)
//
//	var user User
//	err = db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", 1)
//
//	var users []User
//	err = db.SelectContext(ctx, &users, "SELECT * FROM users")
//
// Every wrapped call delegates to sqlx and returns its result and error
// unchanged. A failed operation records the error on its span and re-raises
// it verbatim; sql.ErrNoRows is returned but not treated as a failure.
package sqlx
