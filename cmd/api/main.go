package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chai-duka/internal/config"
	"chai-duka/internal/database"
	"chai-duka/internal/handler"
	"chai-duka/internal/mailer"
	"chai-duka/internal/mpesa"
	"chai-duka/internal/promo"
	"chai-duka/internal/repository"
	"chai-duka/internal/router"
	"chai-duka/internal/service"
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
	logger.Info().Msg("starting chai-duka API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	paymentRepo := repository.NewPaymentRepository(pool, logger)
	postRepo := repository.NewPostRepository(pool, logger)
	profileRepo := repository.NewProfileRepository(pool, logger)

	// Initialize promo loader with S3 and local fallback
	fileLoader := promo.NewFileLoader(logger)
	var promoLoader promo.Loader

	if cfg.Promo.S3Enabled {
		s3Loader, err := promo.NewS3Loader(ctx, cfg.Promo.S3Bucket, cfg.Promo.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			promoLoader = fileLoader
		} else {
			promoLoader = promo.NewFallbackLoader(s3Loader, fileLoader, cfg.Promo.S3Prefix, true, logger)
		}
	} else {
		promoLoader = fileLoader
		logger.Info().Msg("using local file system for promo files (S3 disabled)")
	}

	// Initialize promo validator
	validatorConfig := promo.DefaultValidatorConfig()
	validator, err := promo.NewValidator(ctx, validatorConfig, promoLoader, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize promo validator: %w", err)
	}
	defer validator.Close()

	// Initialize payment gateway client and poller
	gateway := mpesa.NewClient(cfg.Mpesa, logger)
	poller := mpesa.NewPoller(gateway, cfg.Mpesa.PollInterval, cfg.Mpesa.PollAttempts, logger)

	// Initialize mail delivery
	mail := mailer.NewClient(cfg.Mail, logger)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	checkoutService := service.NewCheckoutService(cartRepo, orderRepo, paymentRepo, gateway, poller, validator, logger)
	callbackService := service.NewCallbackService(orderRepo, paymentRepo, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	blogService := service.NewBlogService(postRepo, logger)
	contactService := service.NewContactService(mail, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Product:  handler.NewProductHandler(catalogService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, logger),
		Callback: handler.NewCallbackHandler(callbackService, cfg.Mpesa.CallbackSecret, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Blog:     handler.NewBlogHandler(blogService, logger),
		Contact:  handler.NewContactHandler(contactService, logger),
		Admin:    handler.NewAdminHandler(catalogService, orderService, blogService, logger),
	}

	// Initialize router
	mux := router.New(handlers, profileRepo, cfg.Auth.JWTSecret, logger)

	// Create HTTP server. The write timeout leaves room for the payment
	// status endpoint, which blocks while the gateway is polled.
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Mpesa.PollInterval*time.Duration(cfg.Mpesa.PollAttempts) + 15*time.Second,
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
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
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
