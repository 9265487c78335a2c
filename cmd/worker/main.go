package main

import (
	"context"
	"log"

	"github.com/driftline-mv/efoil-booking/internal/activities"
	"github.com/driftline-mv/efoil-booking/internal/config"
	"github.com/driftline-mv/efoil-booking/internal/database"
	"github.com/driftline-mv/efoil-booking/internal/service"
	"github.com/driftline-mv/efoil-booking/internal/workflows"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	log.Println("Connecting to database...")
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	repo := database.NewRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Connected to database")

	// Connect to Temporal
	log.Printf("Connecting to Temporal at %s...", cfg.TemporalHost)
	c, err := client.Dial(client.Options{
		HostPort: cfg.TemporalHost,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Temporal: %v", err)
	}
	defer c.Close()
	log.Println("Connected to Temporal")

	// Create worker
	w := worker.New(c, service.TaskQueue, worker.Options{})

	// Register workflows
	w.RegisterWorkflow(workflows.BookingWorkflow)

	// Create and register activities
	acts := activities.NewActivities(repo)
	w.RegisterActivityWithOptions(acts.ConfirmBooking, activity.RegisterOptions{Name: "ConfirmBooking"})
	w.RegisterActivityWithOptions(acts.ReleaseSlot, activity.RegisterOptions{Name: "ReleaseSlot"})
	w.RegisterActivityWithOptions(acts.UpdateBookingStatus, activity.RegisterOptions{Name: "UpdateBookingStatus"})

	// Start worker
	log.Println("Starting Temporal worker...")
	err = w.Run(worker.InterruptCh())
	if err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}
