package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-admin/internal/admin"
	"restaurant-admin/internal/config"
	"restaurant-admin/internal/database"
	"restaurant-admin/internal/handler"
	"restaurant-admin/internal/i18n"
	"restaurant-admin/internal/repository"
	"restaurant-admin/internal/router"
	"restaurant-admin/internal/seed"
	"restaurant-admin/internal/service"
	"restaurant-admin/internal/validation"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("backend", cfg.DataBackend).Msg("starting restaurant-admin API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize data backend
	repo, closeRepo, err := newRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	validator := validation.New()

	// Import seed files, S3 first with local fallback
	if cfg.Seed.Enabled {
		if err := importSeeds(ctx, cfg, repo, validator, logger); err != nil {
			return fmt.Errorf("failed to import seed data: %w", err)
		}
	}

	// Initialize message catalogs
	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("failed to load message catalogs: %w", err)
	}
	translator, err := i18n.NewTranslator(bundle, cfg.I18n.DefaultLocale)
	if err != nil {
		return fmt.Errorf("failed to initialize translator: %w", err)
	}

	// Initialize session registry and service
	registry := admin.NewRegistry(repo, validator, admin.RegistryConfig{MaxOpen: cfg.Session.MaxOpen}, logger)
	adminService := service.NewAdminService(registry, translator, logger)

	// Initialize HTTP handlers
	sessionHandler := handler.NewSessionHandler(adminService, translator, logger)

	// Initialize router
	mux := router.New(sessionHandler, router.Config{
		APIKey:        cfg.Auth.APIKey,
		AllowedOrigin: cfg.Server.AllowedOrigin,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Int("open_sessions", registry.Len()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newRepository builds the configured data backend. The returned func releases it.
func newRepository(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.RestaurantRepository, func(), error) {
	if cfg.DataBackend == config.BackendMemory {
		logger.Warn().Msg("using in-memory data backend, data is lost on restart")
		return repository.NewMemoryRepository(), func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return repository.NewRestaurantRepository(pool, logger), pool.Close, nil
}

func importSeeds(
	ctx context.Context,
	cfg *config.Config,
	repo repository.RestaurantRepository,
	validator *validation.Validator,
	logger zerolog.Logger,
) error {
	fileLoader := seed.NewFileLoader(logger)
	var s3Loader seed.Loader

	if cfg.S3.Enabled {
		l, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Info().Msg("using local file system for seed files (S3 disabled)")
	}

	loader := seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
	_, err := seed.NewImporter(repo, validator, logger).Run(ctx, loader, cfg.Seed.FilePaths)
	return err
}
