package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	orderRepository "github.com/mfigueiredo/storefront-api/internal/domain/orders/repository"
	"github.com/mfigueiredo/storefront-api/internal/platform/config"
	"github.com/mfigueiredo/storefront-api/internal/platform/database"
	"github.com/mfigueiredo/storefront-api/internal/platform/queue"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	// Setup zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	zlog.Info().Msg("Starting Storefront Order Events Worker...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := database.InitMySQL(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	defer sqlDB.Close()

	// Initialize Redis
	redisClient, err := queue.InitRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	zlog.Info().Msg("Redis initialized successfully")

	// Initialize services
	queueService := queue.NewRedisQueue(redisClient)
	orderRepo := orderRepository.NewOrderRepository(db)

	// Create event processor
	processor := NewEventProcessor(queueService, orderRepo)

	// Create context with cancellation for graceful shutdown
	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start processing events in a goroutine
	processorDone := make(chan error, 1)
	go func() {
		processorDone <- processor.Start(workerCtx)
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
		zlog.Info().Msg("Received shutdown signal, stopping worker...")
		cancel()

		// Wait for processor to finish with timeout
		select {
		case err := <-processorDone:
			if err != nil && err != context.Canceled {
				zlog.Error().Err(err).Msg("Worker stopped with error")
			} else {
				zlog.Info().Msg("Worker stopped gracefully")
			}
		case <-time.After(30 * time.Second):
			zlog.Warn().Msg("Worker shutdown timeout, forcing exit")
		}
	case err := <-processorDone:
		if err != nil {
			zlog.Fatal().Err(err).Msg("Worker stopped with error")
		}
	}

	zlog.Info().Msg("Worker exited")
}
