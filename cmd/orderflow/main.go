package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KretovDmitry/order-workflow/internal/application/interfaces"
	"github.com/KretovDmitry/order-workflow/internal/application/services"
	"github.com/KretovDmitry/order-workflow/internal/config"
	"github.com/KretovDmitry/order-workflow/internal/domain/workflow"
	"github.com/KretovDmitry/order-workflow/internal/infrastructure/db/postgres"
	"github.com/KretovDmitry/order-workflow/internal/infrastructure/eventbus"
	"github.com/KretovDmitry/order-workflow/internal/infrastructure/metrics"
	rest "github.com/KretovDmitry/order-workflow/internal/interface/api/rest/chi"
	"github.com/KretovDmitry/order-workflow/internal/interface/api/rest/middleware"
	"github.com/KretovDmitry/order-workflow/pkg/limiter"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	trmcontext "github.com/avito-tech/go-transaction-manager/trm/v2/context"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Version indicates the current version of the application.
var Version = "1.0.0"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Server run context.
	serverCtx, serverStopCtx := context.WithCancel(context.Background())
	defer serverStopCtx()

	// Load application configurations.
	cfg := config.MustLoad()

	// Create root logger tagged with server and rule set versions.
	logger := logger.New(cfg).With(serverCtx,
		"version", Version,
		"workflow", workflow.Version,
	)

	// Open logged connection and check DSN correctness.
	db, err := postgres.Connect(serverCtx, cfg, logger)
	if err != nil {
		return err
	}

	// Close connection.
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(err)
		}
		_ = logger.Sync()
	}()

	// Create default transaction manager for database/sql package.
	trManager := manager.Must(
		trmsql.NewDefaultFactory(db),
		manager.WithCtxManager(trmcontext.DefaultManager),
	)

	// Init repositories.
	staffRepo, err := postgres.NewStaffRepository(db, trmsql.DefaultCtxGetter, logger)
	if err != nil {
		return fmt.Errorf("failed to init staff repository: %w", err)
	}

	orderRepo, err := postgres.NewOrderRepository(db, trmsql.DefaultCtxGetter, logger)
	if err != nil {
		return fmt.Errorf("failed to init order repository: %w", err)
	}

	// Register service and runtime metrics.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("failed to init metrics: %w", err)
	}

	// Publish status events to the broker if one is configured.
	var publisher interfaces.EventPublisher = eventbus.NewNoopPublisher(logger)
	if cfg.Broker.URL != "" {
		rabbit, err := eventbus.NewRabbitMQPublisher(cfg.Broker, logger)
		if err != nil {
			return fmt.Errorf("failed to init event publisher: %w", err)
		}
		publisher = eventbus.NewBreakerPublisher(rabbit, cfg.Broker, logger, m)
	}
	publisher = eventbus.NewInstrumentedPublisher(publisher, m)

	defer func() {
		if err = publisher.Close(); err != nil {
			logger.Errorf("close event publisher: %s", err)
		}
	}()

	// Init services.
	authService, err := services.NewAuthService(staffRepo, logger, cfg)
	if err != nil {
		return fmt.Errorf("failed to init auth service: %w", err)
	}

	orderStatusService, err := services.NewOrderStatusService(
		orderRepo, orderRepo, publisher, trManager, logger)
	if err != nil {
		return fmt.Errorf("failed to init order status service: %w", err)
	}

	// Create root router.
	router := rest.InitChi(logger)
	router.Handle("/metrics", metrics.Handler(registry))

	authenticate := middleware.Middleware(authService)

	// Init handlers for staff routes. Registration requires a signed in
	// colleague; the first member of a department is created with staffctl.
	rest.NewAuthController(authService, cfg.JWT.Expiration, authenticate, logger, rest.ChiServerOptions{
		BaseURL:    "/api/staff",
		BaseRouter: router,
	})

	// Init handlers for the rule set.
	rest.NewWorkflowController(logger, rest.ChiServerOptions{
		BaseURL:    "/api",
		BaseRouter: router,
	})

	// Init handlers for order status routes.
	rest.NewOrderStatusController(
		orderStatusService,
		limiter.NewDynamicRateLimiter(cfg.RateLimit.Interval, cfg.RateLimit.Burst),
		logger,
		rest.ChiServerOptions{
			BaseURL:     "/api",
			BaseRouter:  router,
			Middlewares: []rest.MiddlewareFunc{authenticate},
		})

	// Build HTTP server.
	hs := &http.Server{
		Addr:              cfg.HTTPServer.Address,
		ReadHeaderTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:       cfg.HTTPServer.IdleTimeout,
		Handler:           router,
	}

	// Graceful shutdown.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT,
			syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)

		signal := <-sig

		logger.With(serverCtx, "signal", signal.String()).
			Infof("Shutting down server with %s timeout",
				cfg.HTTPServer.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(serverCtx, cfg.HTTPServer.ShutdownTimeout)
		defer cancel()

		if err := hs.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("graceful shutdown failed: %s", err)
		}
		serverStopCtx()
	}()

	// Start the HTTP server with graceful shutdown.
	logger.Infof("Server %v is running at %v", Version, cfg.HTTPServer.Address)
	if err = hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("run server failed: %w", err)
	}

	// Wait for server context to be stopped or force exit if timeout exceeded.
	select {
	case <-serverCtx.Done():
	case <-time.After(cfg.HTTPServer.ShutdownTimeout):
		return errors.New("graceful shutdown timed out.. forcing exit")
	}

	return nil
}
