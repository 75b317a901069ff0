package database

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq" // Register postgres driver
	"github.com/meridian-labs/dbtrace-go/example/sql/internal/config"
	dbtrace "github.com/meridian-labs/dbtrace-go/sql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"go.opentelemetry.io/otel"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New creates a new instrumented database connection
func New(ctx context.Context) (*DB, error) {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	db, err := dbtrace.Open("postgres", config.DefaultDSN,
		dbtrace.WithDBSystem(config.DefaultDBSystem),
		dbtrace.WithDBName(config.DefaultDBName),
		dbtrace.WithInstanceName(config.DefaultInstance),
		dbtrace.WithQueryAnnotation(),
		dbtrace.WithQuerySanitizer(dbtrace.DefaultQuerySanitizer),
		dbtrace.WithSlowQueryLog(logger, config.SlowQueryThresholdMs*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.DefaultMaxOpen)
	db.SetMaxIdleConns(config.DefaultMaxIdle)
	db.SetConnMaxLifetime(time.Duration(config.DefaultMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(config.DefaultMaxIdleTime) * time.Second)

	// Pool metrics through OTel; attributes (db.system, db.name) are
	// auto-detected from the wrapped driver.
	err = dbtrace.RecordPoolMetrics(db, otel.GetMeterProvider().Meter("example-app"))
	if err != nil {
		log.Printf("Failed to register pool metrics: %v", err)
	}

	// The same pool stats as native Prometheus go_sql_* series.
	err = dbtrace.RegisterPoolStats(prometheus.DefaultRegisterer, db, config.DefaultDBName)
	if err != nil {
		log.Printf("Failed to register pool stats collector: %v", err)
	}

	return &DB{DB: db}, nil
}
