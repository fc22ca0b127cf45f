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
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/law7a/internal"
	"github.com/dukerupert/law7a/internal/auth"
	"github.com/dukerupert/law7a/internal/billing"
	"github.com/dukerupert/law7a/internal/cart"
	"github.com/dukerupert/law7a/internal/catalog"
	"github.com/dukerupert/law7a/internal/checkout"
	"github.com/dukerupert/law7a/internal/cookie"
	"github.com/dukerupert/law7a/internal/docstore"
	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/events"
	"github.com/dukerupert/law7a/internal/handler"
	"github.com/dukerupert/law7a/internal/handler/storefront"
	"github.com/dukerupert/law7a/internal/identity"
	"github.com/dukerupert/law7a/internal/jobs"
	"github.com/dukerupert/law7a/internal/kv"
	"github.com/dukerupert/law7a/internal/middleware"
	"github.com/dukerupert/law7a/internal/postgres"
	"github.com/dukerupert/law7a/internal/router"
	"github.com/dukerupert/law7a/internal/routes"
	"github.com/dukerupert/law7a/internal/shipping"
	"github.com/dukerupert/law7a/internal/storage"
	"github.com/dukerupert/law7a/internal/telemetry"
	"github.com/dukerupert/law7a/internal/visitor"
	"github.com/dukerupert/law7a/internal/worker"
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
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// Initialize Sentry
	sentryCleanup, err := telemetry.InitSentry(telemetry.SentryConfig{
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
	defer sentryCleanup()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics(registry, cfg.MetricsNS)
	businessMetrics := telemetry.NewBusinessMetrics(registry, cfg.MetricsNS)

	checks := map[string]handler.HealthCheck{}

	// ==========================================================================
	// Document store (catalog and accounts)
	// ==========================================================================

	var docs docstore.Store
	switch cfg.Docstore.Provider {
	case "postgres":
		pool, err := openPostgres(ctx, cfg.DatabaseUrl, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		docs = postgres.NewDocumentStore(pool)
		checks["postgres"] = pool.Ping
	default:
		docs = docstore.NewMemory()
		logger.Info("Using in-memory document store")
	}

	repo := catalog.NewRepository(docs)
	if cfg.Docstore.SeedDemo {
		if err := catalog.SeedDemo(ctx, repo); err != nil {
			return fmt.Errorf("failed to seed demo catalog: %w", err)
		}
		logger.Info("Demo catalog loaded")
	}

	// ==========================================================================
	// KV store (carts, order history) and order events
	// ==========================================================================

	var js jetstream.JetStream
	if cfg.KV.NATSURL != "" {
		nc, err := nats.Connect(cfg.KV.NATSURL,
			nats.Name("law7a"),
			nats.MaxReconnects(-1),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("NATS disconnected", "error", err)
			}),
		)
		if err != nil {
			return fmt.Errorf("nats connection failed: %w", err)
		}
		defer nc.Drain()

		js, err = jetstream.New(nc)
		if err != nil {
			return fmt.Errorf("jetstream initialization failed: %w", err)
		}
		checks["nats"] = func(context.Context) error {
			if !nc.IsConnected() {
				return errors.New(nc.Status().String())
			}
			return nil
		}
		logger.Info("NATS connection established", "url", nc.ConnectedUrlRedacted())
	}

	var store kv.Store
	switch cfg.KV.Provider {
	case "nats":
		store, err = kv.NewNATSStore(ctx, js, cfg.KV.NATSBucket)
		if err != nil {
			return fmt.Errorf("failed to open NATS KV bucket: %w", err)
		}
	case "memory":
		store = kv.NewMemory()
	default:
		store, err = kv.NewFileStore(cfg.KV.Path)
		if err != nil {
			return fmt.Errorf("failed to open KV directory: %w", err)
		}
	}
	logger.Info("KV store ready", "provider", cfg.KV.Provider)

	var publisher checkout.Publisher = events.LogPublisher{Logger: logger}
	if js != nil && cfg.KV.PublishEvents {
		publisher, err = events.NewNATSPublisher(ctx, js, logger)
		if err != nil {
			return fmt.Errorf("failed to create order event stream: %w", err)
		}
	}

	// ==========================================================================
	// Image storage
	// ==========================================================================

	images, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage provider initialized", "provider", cfg.Storage.Provider)

	// ==========================================================================
	// Domain services
	// ==========================================================================

	engine := catalog.NewEngine(docs, catalog.EngineConfig{
		PageSize:   cfg.Catalog.PageSize,
		FillPages:  cfg.Catalog.FillPages,
		MaxFetches: cfg.Catalog.MaxFetches,
	}, logger)
	browsers := visitor.NewRegistry[*catalog.Browser](func(ctx context.Context, key string) (*catalog.Browser, error) {
		return catalog.NewBrowser(engine), nil
	})

	carts := cart.NewRegistry(store, repo, cart.Options{Logger: logger, Metrics: businessMetrics})

	rates, err := shippingRates(cfg.Checkout)
	if err != nil {
		return err
	}
	authorizer, err := billing.NewSimulated(cfg.Checkout.PaymentSuccessRate)
	if err != nil {
		return fmt.Errorf("failed to initialize payment simulator: %w", err)
	}
	orders := checkout.NewOrderHistory(store)
	sessions := checkout.NewRegistry(checkout.Deps{
		Authorizer: authorizer,
		Shipping:   rates,
		Orders:     orders,
		Publisher:  publisher,
		Delays: checkout.Delays{
			Validate:  cfg.Checkout.ValidateDelay,
			Authorize: cfg.Checkout.AuthorizeDelay,
			Finalize:  cfg.Checkout.FinalizeDelay,
		},
		Logger:  logger,
		Metrics: businessMetrics,
	})

	provider := identity.NewLocalProvider(docs, identity.LocalOptions{
		Hasher:     auth.NewHasher(cfg.Identity.BcryptCost),
		SessionTTL: cfg.Identity.SessionTTL,
		Logger:     logger,
	})
	accounts := identity.NewAdapter(provider, logger, businessMetrics)
	accounts.OnSessionChange(func(ctx context.Context, ev identity.Event) {
		telemetry.AddBreadcrumb("auth", string(ev.Kind), nil)
	})

	// ==========================================================================
	// Background jobs
	// ==========================================================================

	bg := worker.NewWorker(worker.Config{}, logger,
		jobs.NewSweepJob(jobs.SweepConfig{
			Idle:     cfg.KV.SessionIdleTTL,
			Interval: cfg.KV.SweepInterval,
			Registries: map[string]jobs.Sweeper{
				"carts":     carts,
				"checkouts": sessions,
				"browsers":  browsers,
			},
			Metrics: businessMetrics,
			Logger:  logger,
		}),
		jobs.NewSessionCleanupJob(provider, time.Hour, logger),
	)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		defer telemetry.RecoverWithSentry()
		bg.Start(ctx)
	}()

	// ==========================================================================
	// HTTP
	// ==========================================================================

	cookies := cookie.NewConfig("", cfg.Identity.CookieSecure)
	authLimiter := middleware.NewRateLimiter(middleware.AuthRateLimiterConfig(cfg.TrustProxy))

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		router.Logger(logger),
		middleware.SecurityHeaders(middleware.APISecurityHeadersConfig(cfg.Env == "prod")),
		httpMetrics.Middleware,
		telemetry.SentryMiddleware(),
		middleware.WithVisitor(cookies),
		middleware.WithLanguage,
		middleware.WithUser(accounts, cookies),
		middleware.WithRequestLogger(logger),
		telemetry.SentryContextMiddleware(telemetry.UserFromDomain),
	)
	r.NotFound(handler.NotFoundResponse)

	submitTimeout := cfg.RequestTimeout + cfg.Checkout.ValidateDelay + cfg.Checkout.AuthorizeDelay + cfg.Checkout.FinalizeDelay
	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		CatalogHandler:  storefront.NewCatalogHandler(repo, engine, browsers, businessMetrics),
		CartHandler:     storefront.NewCartHandler(carts),
		CheckoutHandler: storefront.NewCheckoutHandler(sessions, carts),
		OrderHandler:    storefront.NewOrderHandler(orders),
		AuthHandler:     storefront.NewAuthHandler(accounts, cookies),
		MediaHandler:    storefront.NewMediaHandler(catalog.NewMedia(repo, images, logger)),
		StudioHandler:   storefront.NewStudioHandler(catalog.NewStudio(repo, images, logger)),
		AuthLimiter:     authLimiter,
		RequestTimeout:  cfg.RequestTimeout,
		SubmitTimeout:   submitTimeout,
	})

	ops := routes.OpsDeps{
		HealthHandler:  handler.Health(checks),
		MetricsHandler: httpMetrics.Handler(),
	}
	if cfg.Storage.Provider == "local" {
		ops.UploadsDir = cfg.Storage.LocalPath
	}
	routes.RegisterOpsRoutes(r, ops)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.CORS([]string{cfg.BaseURL})(r),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), submitTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	stop()
	<-workerDone
	return nil
}

// openPostgres runs migrations over database/sql and returns the pgx pool the
// application uses.
func openPostgres(ctx context.Context, url string, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(ctx, sqlDB, logger); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	logger.Info("Database connection established")
	return pool, nil
}

// shippingRates builds the flat rates with the configured prices.
func shippingRates(cfg internal.CheckoutConfig) (*shipping.FlatRateProvider, error) {
	rates := shipping.DefaultRates()
	for i := range rates {
		raw := cfg.StandardCost
		if rates[i].Method == shipping.MethodExpress {
			raw = cfg.ExpressCost
		}
		cost, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s shipping cost %q: %w", rates[i].Method, raw, err)
		}
		rates[i].Cost = cost
	}
	provider, err := shipping.NewFlatRateProvider(rates, domain.Currency(cfg.Currency))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize shipping rates: %w", err)
	}
	return provider, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
