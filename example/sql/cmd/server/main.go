package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridian-labs/dbtrace-go/example/sql/internal/config"
	"github.com/meridian-labs/dbtrace-go/example/sql/internal/database"
	"github.com/meridian-labs/dbtrace-go/example/sql/internal/telemetry"

	"go.opentelemetry.io/otel"
)

func main() {
	ctx := context.Background()

	shutdownTracing, shutdownMetrics, err := telemetry.Setup(ctx)
	if err != nil {
		log.Fatalf("Failed to setup OTel: %v", err)
	}
	defer func() {
		shutdownTracing(ctx)
		shutdownMetrics(ctx)
	}()

	metricsServer := &http.Server{Addr: config.MetricsPort}
	go func() {
		log.Printf("Starting Prometheus metrics server on %s", config.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Metrics server failed: %v", err)
		}
	}()

	db, err := database.New(ctx)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	tracer := otel.Tracer("example-app")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := db.CreateTable(ctx); err != nil {
		log.Printf("Failed to create table: %v", err)
	}

	// Run operations on a loop to generate continuous traces and metrics
	ticker := time.NewTicker(time.Duration(config.OperationInterval) * time.Second)
	defer ticker.Stop()

	fmt.Println("Example app started")
	fmt.Println("Prometheus metrics: http://localhost:2112/metrics")
	fmt.Println("Press Ctrl+C to stop...")

	for {
		select {
		case <-ticker.C:
			ctx, span := tracer.Start(ctx, "db-operations")

			if err := db.InsertUsers(ctx); err != nil {
				log.Printf("Failed to insert users: %v", err)
			}

			if err := db.QueryUsers(ctx); err != nil {
				log.Printf("Failed to query users: %v", err)
			}

			if _, err := db.GetUser(ctx, "Alice"); err != nil {
				log.Printf("Failed to get user: %v", err)
			}

			if err := db.InsertWithTransaction(ctx); err != nil {
				log.Printf("Failed transaction: %v", err)
			}

			span.End()
			log.Println("Database operations completed")

		case <-sigChan:
			fmt.Println("Shutting down gracefully...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				log.Printf("Metrics server shutdown error: %v", err)
			}
			return
		}
	}
}
