package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dukerupert/bookworld/internal"
	"github.com/dukerupert/bookworld/internal/auth"
	"github.com/dukerupert/bookworld/internal/bootstrap"
	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/email"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/dukerupert/bookworld/internal/firestore"
	"github.com/dukerupert/bookworld/internal/handler"
	"github.com/dukerupert/bookworld/internal/handler/admin"
	"github.com/dukerupert/bookworld/internal/handler/api"
	"github.com/dukerupert/bookworld/internal/jobs"
	"github.com/dukerupert/bookworld/internal/middleware"
	"github.com/dukerupert/bookworld/internal/postgres"
	"github.com/dukerupert/bookworld/internal/repository"
	"github.com/dukerupert/bookworld/internal/router"
	"github.com/dukerupert/bookworld/internal/routes"
	"github.com/dukerupert/bookworld/internal/service"
	"github.com/dukerupert/bookworld/internal/shipping"
	"github.com/dukerupert/bookworld/internal/storage"
	"github.com/dukerupert/bookworld/internal/telemetry"
	"github.com/dukerupert/bookworld/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel, cfg.Release)
	slog.SetDefault(logger)

	// Error tracking
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	telemetry.InitBusinessMetrics("bookworld")

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(ctx, sqlDB, logger); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	repo := repository.New(pool)

	// Image storage
	store, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "provider", cfg.Storage.Provider)

	// ==========================================================================
	// Events
	// ==========================================================================

	bus := events.NewBus(logger)
	defer bus.Close()

	forwarder, err := events.NewForwarder(events.ForwarderConfig{
		Driver:       cfg.Events.Driver,
		NATSURL:      cfg.Events.NATSURL,
		KafkaBrokers: cfg.Events.KafkaBrokers,
		Topic:        cfg.Events.Topic,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event forwarder: %w", err)
	}
	if forwarder != nil {
		defer forwarder.Close()
		logger.Info("Event forwarding enabled", "driver", forwarder.Name())
	}

	// ==========================================================================
	// Services
	// ==========================================================================

	bookService := postgres.NewBookService(repo, store, logger)
	userService := postgres.NewUserService(repo, store, logger)
	statsService := postgres.NewStatsService(repo)

	cartService := postgres.NewCartService(repo, bookService, bus, logger, postgres.CartOptions{
		EnforceStockOnAdd: cfg.Shop.EnforceStockOnAdd,
	})

	shippingRates := shipping.StandardRates(cfg.Shop.ShippingFeeCents)
	shippingRates[0].FreeOverCents = cfg.Shop.FreeShippingOverCents
	orderService := postgres.NewOrderService(repo, postgres.NewTransactor(pool), bus, logger, postgres.OrderOptions{
		Shipping:        shipping.NewFlatRateProvider(shippingRates),
		RestockOnCancel: cfg.Shop.RestockOnCancel,
	})

	var verifier auth.IdentityVerifier
	var wishlistStore domain.WishlistStore = postgres.NewWishlistStore(repo)

	if cfg.Firebase.Enabled() {
		app, err := auth.NewFirebaseApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			return fmt.Errorf("failed to initialize firebase: %w", err)
		}
		fv, err := auth.NewFirebaseVerifier(ctx, app)
		if err != nil {
			return fmt.Errorf("failed to initialize google sign-in: %w", err)
		}
		verifier = fv
		logger.Info("Google sign-in enabled", "project", cfg.Firebase.ProjectID)

		if cfg.Shop.WishlistStore == "firestore" {
			client, err := firestore.NewClient(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
			if err != nil {
				return fmt.Errorf("failed to initialize firestore: %w", err)
			}
			defer client.Close()
			wishlistStore = firestore.NewWishlistStore(client)
		}
	}
	logger.Info("Wishlist store selected", "store", cfg.Shop.WishlistStore)

	wishlistService := service.NewWishlistService(wishlistStore, bookService, cartService, bus, logger)

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	authService := service.NewAuthService(userService, tokens, verifier, bus, logger)

	// Email
	var sender email.Sender
	if cfg.Email.Enabled {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     int(cfg.Email.Port),
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			FromName: cfg.Email.FromName,
		}, logger)
		logger.Info("SMTP email enabled", "host", cfg.Email.Host, "port", cfg.Email.Port)
	} else {
		sender = email.NewLogSender(logger)
		logger.Info("SMTP email disabled, messages will be logged")
	}
	emailService, err := email.NewService(sender, cfg.Email.From, cfg.Email.FromName)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	// Initial admin
	if err := bootstrap.EnsureAdmin(ctx, repo, &bootstrap.AdminConfig{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	}, logger); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	// ==========================================================================
	// Background worker
	// ==========================================================================

	w := worker.New(bus, worker.Config{
		Name:        "events",
		Concurrency: cfg.Events.Workers,
	}, logger)
	w.Handle(jobs.NameEmail, jobs.NewEmailJob(emailService, userService, cfg.BaseURL, logger), jobs.EmailTypes...)
	w.Handle(jobs.NameLowStock, jobs.NewLowStockJob(bookService, logger), events.TypeOrderPlaced)
	if forwarder != nil {
		w.Handle(jobs.NameForward, jobs.NewForwardJob(forwarder))
	}

	workerDone := make(chan error, 1)
	go func() { workerDone <- w.Start(ctx) }()

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	metrics := middleware.NewMetrics("bookworld", nil)

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.ContentSecurityPolicy = ""
		securityConfig.HSTSMaxAge = 0
	}

	limiterConfig := middleware.DefaultRateLimiterConfig()
	limiterConfig.Requests = cfg.RateLimit.Requests
	limiterConfig.Window = cfg.RateLimit.Window
	defaultRateLimiter := middleware.NewRateLimiter(limiterConfig)
	defer defaultRateLimiter.Stop()

	authLimiterConfig := middleware.StrictRateLimiterConfig()
	authLimiterConfig.Requests = cfg.RateLimit.AuthRequests
	authLimiterConfig.Window = cfg.RateLimit.Window
	authRateLimiter := middleware.NewRateLimiter(authLimiterConfig)
	defer authRateLimiter.Stop()

	// ==========================================================================
	// Create routers and register routes
	// ==========================================================================

	base := router.New(
		router.Recovery(logger),
		telemetry.SentryMiddleware(),
		middleware.RequestID,
		middleware.WithClientIP(),
		metrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		router.Logger(logger),
		middleware.WithPrincipal(authService),
		middleware.WithRequestLogger(logger),
		telemetry.SentryUserMiddleware(middleware.SentryUser),
	)

	// Long-lived streams skip the request timeout.
	stream := base.Group(defaultRateLimiter.Middleware)

	r := base.Group(
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		defaultRateLimiter.Middleware,
	)

	if cfg.Storage.Provider == "local" || cfg.Storage.Provider == "" {
		base.Static(cfg.Storage.LocalURL, cfg.Storage.LocalPath)
	}

	base.Fallback(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if allowed := base.Allowed(req); len(allowed) > 0 {
			handler.MethodNotAllowedResponse(w, req, allowed)
			return
		}
		handler.NotFoundResponse(w, req)
	}))

	// Metrics endpoint (should be protected in production via firewall)
	base.Handle(http.MethodGet, "/metrics", metrics.Handler())

	routes.RegisterAPIRoutes(r, stream, routes.APIDeps{
		Health:    api.NewHealthHandler(cfg.Env),
		Auth:      api.NewAuthHandler(authService, userService),
		Books:     api.NewBookHandler(bookService),
		Cart:      api.NewCartHandler(cartService, bus),
		Wishlist:  api.NewWishlistHandler(wishlistService),
		Orders:    api.NewOrderHandler(orderService),
		AuthLimit: authRateLimiter.Middleware,
	})
	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		Books:  admin.NewBookHandler(bookService),
		Orders: admin.NewOrderHandler(orderService),
		Stats:  admin.NewStatsHandler(statsService),
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.CORS(cfg.CORS.AllowedOrigins)(base),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      middleware.DefaultTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Cart streams only end when their subscription closes, so closing the
	// bus first lets Shutdown finish without waiting out its deadline.
	srv.RegisterOnShutdown(bus.Close)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			"address", srv.Addr,
			"env", cfg.Env,
			"origins", strings.Join(cfg.CORS.AllowedOrigins, ","),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}

	stop()
	if err := <-workerDone; err != nil {
		logger.Error("Worker stopped with error", "error", err)
	}

	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
