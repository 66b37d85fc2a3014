package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fileshare-api/internal/config"
	"fileshare-api/internal/constants"
	"fileshare-api/internal/database"
	"fileshare-api/internal/handlers"
	"fileshare-api/internal/repositories"
	"fileshare-api/internal/routes"
	"fileshare-api/internal/services"
	"fileshare-api/internal/storage"

	pkgValidator "github.com/kerimovok/go-pkg-utils/validator"
)

func newLogger() *slog.Logger {
	level := slog.LevelDebug
	if constants.Env("GO_ENV") == "production" {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func main() {
	// Load .env before anything reads the environment
	config.LoadEnv()

	// Validate environment variables
	if err := pkgValidator.ValidateConfig(constants.EnvValidationRules); err != nil {
		log.Fatalf("configuration validation failed: %v", err)
	}

	cfg, err := config.LoadConfig(constants.Env("STORAGE_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load configs: %v", err)
	}

	appLogger := newLogger()
	slog.SetDefault(appLogger)

	db, err := database.Connect(database.OptionsFromEnv())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	blobs, err := storage.NewBlobStore(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to prepare blob storage: %v", err)
	}

	records := repositories.NewFileRepository(db)
	cache := services.NewRecordCache(cfg.Storage.Cache.Size, cfg.Storage.Cache.TTL)

	fileService, err := services.NewFileService(records, blobs, cache, cfg.Storage, appLogger)
	if err != nil {
		log.Fatalf("failed to create file service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sweeper *services.ExpirySweeper
	if cfg.Storage.Retention.Enabled {
		sweeper = services.NewExpirySweeper(
			records,
			blobs,
			cache,
			cfg.Storage.Retention.SweepInterval,
			cfg.Storage.Retention.BatchSize,
			appLogger,
		)
		sweeper.Start(ctx)
	}

	// Setup Fiber app
	app := routes.NewApp(fileService.MaxFileSize())

	// Setup routes
	routes.SetupRoutes(app, handlers.NewFileHandler(fileService, appLogger), cfg.Storage.Pin)

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Gracefully shutting down...")

		// Shutdown the server
		if err := app.Shutdown(); err != nil {
			log.Printf("error during server shutdown: %v", err)
		}
	}()

	// Start server
	if err := app.Listen(":" + constants.Env("PORT")); err != nil && err != http.ErrServerClosed {
		log.Fatalf("failed to start server: %v", err)
	}

	if sweeper != nil {
		sweeper.Stop()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server gracefully stopped")
}
