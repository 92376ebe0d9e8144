package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	clientDelivery "github.com/mfigueiredo/storefront-api/internal/domain/clients/delivery"
	clientRepository "github.com/mfigueiredo/storefront-api/internal/domain/clients/repository"
	clientUsecase "github.com/mfigueiredo/storefront-api/internal/domain/clients/usecase"
	orderDelivery "github.com/mfigueiredo/storefront-api/internal/domain/orders/delivery"
	orderRepository "github.com/mfigueiredo/storefront-api/internal/domain/orders/repository"
	orderUsecase "github.com/mfigueiredo/storefront-api/internal/domain/orders/usecase"
	productDelivery "github.com/mfigueiredo/storefront-api/internal/domain/products/delivery"
	productRepository "github.com/mfigueiredo/storefront-api/internal/domain/products/repository"
	productUsecase "github.com/mfigueiredo/storefront-api/internal/domain/products/usecase"
	"github.com/mfigueiredo/storefront-api/internal/domain/users/delivery"
	"github.com/mfigueiredo/storefront-api/internal/domain/users/repository"
	"github.com/mfigueiredo/storefront-api/internal/domain/users/usecase"
	"github.com/mfigueiredo/storefront-api/internal/platform/config"
	"github.com/mfigueiredo/storefront-api/internal/platform/database"
	"github.com/mfigueiredo/storefront-api/internal/platform/queue"
	"github.com/mfigueiredo/storefront-api/internal/platform/storage"
	"github.com/mfigueiredo/storefront-api/pkg/jwt"
	customValidator "github.com/mfigueiredo/storefront-api/pkg/validator"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	// Setup zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	zlog.Info().Msg("Starting Storefront API Server...")

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

	// Initialize MinIO
	minioClient, err := storage.InitMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}
	zlog.Info().Msg("MinIO initialized successfully")

	// Initialize Redis
	redisClient, err := queue.InitRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	zlog.Info().Msg("Redis initialized successfully")

	// Initialize services
	storageService := storage.NewStorageService(minioClient, cfg.MinIO.BucketImages)
	queueService := queue.NewRedisQueue(redisClient)

	jwtCfg := jwt.Config{SecretKey: cfg.JWT.SecretKey}
	if cfg.JWT.AccessTokenExpiry != "" {
		ttl, err := time.ParseDuration(cfg.JWT.AccessTokenExpiry)
		if err != nil {
			log.Fatalf("Invalid access_token_expiry: %v", err)
		}
		jwtCfg.AccessTokenTTL = ttl
	}
	if cfg.JWT.RefreshTokenExpiry != "" {
		ttl, err := time.ParseDuration(cfg.JWT.RefreshTokenExpiry)
		if err != nil {
			log.Fatalf("Invalid refresh_token_expiry: %v", err)
		}
		jwtCfg.RefreshTokenTTL = ttl
	}
	tokenService := jwt.NewService(jwtCfg)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = false

	// Register validator
	e.Validator = customValidator.New()

	// Initialize repositories
	userRepo := repository.NewUser(db)
	clientRepo := clientRepository.NewClient(db)
	productRepo := productRepository.NewProduct(db)
	orderRepo := orderRepository.NewOrderRepository(db)

	// Create adapters for order usecase
	clientRepoAdapter := orderRepository.NewClientRepositoryAdapter(clientRepo)
	productRepoAdapter := orderRepository.NewProductRepositoryAdapter(productRepo)

	// Initialize use cases
	userUsecaseInstance := usecase.NewUsecase(userRepo, tokenService)
	clientUsecaseInstance := clientUsecase.NewUsecase(clientRepo)
	productUsecaseInstance := productUsecase.NewUsecase(productRepo, storageService)
	orderUsecaseInstance := orderUsecase.NewOrderUsecase(orderRepo, clientRepoAdapter, productRepoAdapter, queueService)

	// Initialize handlers
	userHandler := delivery.NewHandler(userUsecaseInstance)
	clientHandler := clientDelivery.NewHandler(clientUsecaseInstance)
	productHandler := productDelivery.NewProductHandler(productUsecaseInstance)
	categoryHandler := productDelivery.NewCategoryHandler(productUsecaseInstance)
	orderHandler := orderDelivery.NewOrderHandler(orderUsecaseInstance)

	// Setup routes
	setupRoutes(e, userHandler, clientHandler, productHandler, categoryHandler, orderHandler, userUsecaseInstance)

	// Start server in goroutine
	go func() {
		port := cfg.Server.Port
		if port == "" {
			port = "8080"
		}

		zlog.Info().Str("port", port).Msg("Starting HTTP server")
		if err := e.Start(":" + port); err != nil {
			zlog.Info().Err(err).Msg("Server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info().Msg("Shutting down server...")

	// Gracefully shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	zlog.Info().Msg("Server exited successfully")
}
