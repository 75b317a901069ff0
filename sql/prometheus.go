package sql

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// RegisterPoolStats registers a Prometheus collector exposing connection
// pool statistics (go_sql_* series) for db under dbName.
//
// This is the Prometheus-native counterpart to RecordPoolMetrics for
// deployments that scrape a /metrics endpoint instead of exporting through
// an OpenTelemetry pipeline.
//
// Example:
//
//	db, _ := dbtrace.Open("postgres", dsn, dbtrace.WithDBName("mydb"))
//	err := dbtrace.RegisterPoolStats(prometheus.DefaultRegisterer, db, "mydb")
func RegisterPoolStats(reg prometheus.Registerer, db *sql.DB, dbName string) error {
	return reg.Register(collectors.NewDBStatsCollector(db, dbName))
}
