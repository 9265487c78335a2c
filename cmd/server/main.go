package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/driftline-mv/efoil-booking/internal/config"
	"github.com/driftline-mv/efoil-booking/internal/database"
	"github.com/driftline-mv/efoil-booking/internal/handlers"
	"github.com/driftline-mv/efoil-booking/internal/router"
	"github.com/driftline-mv/efoil-booking/internal/schedule"
	"github.com/driftline-mv/efoil-booking/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.temporal.io/sdk/client"
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

	// Create Temporal client
	log.Printf("Connecting to Temporal at %s...", cfg.TemporalHost)
	temporalClient, err := client.Dial(client.Options{
		HostPort: cfg.TemporalHost,
	})
	if err != nil {
		log.Fatalf("Failed to create Temporal client: %v", err)
	}
	defer temporalClient.Close()
	log.Println("Connected to Temporal")

	// Build the flight board from the sample feed
	board, err := schedule.NewBoard(schedule.SampleFeed())
	if err != nil {
		log.Fatalf("Failed to build flight board: %v", err)
	}

	// Initialize services
	efoilService := service.NewEfoilService(board, repo, temporalClient, cfg.Tiers, cfg.SlotCapacity)

	// Initialize handlers
	h := handlers.NewHandler(efoilService)

	// Create router
	r := router.SetupRouter(h)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
