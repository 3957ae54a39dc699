package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aarna-atelier/storefront-api/internal/domain/cart"
	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
	"github.com/aarna-atelier/storefront-api/internal/domain/intake"
	"github.com/aarna-atelier/storefront-api/internal/domain/wishlist"
	"github.com/aarna-atelier/storefront-api/internal/handler"
	"github.com/aarna-atelier/storefront-api/internal/storage/kv"
	"github.com/aarna-atelier/storefront-api/pkg/health"
	"github.com/aarna-atelier/storefront-api/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr), zap.Bool("ephemeral", cfg.Ephemeral))

	// Persistent store: PostgreSQL-backed kv table, or in-memory when
	// running ephemeral.
	var store kv.Store
	if cfg.Ephemeral {
		store = kv.NewMemory()
	} else {
		pool, err := kv.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := kv.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}
		store = kv.NewPostgres(pool)
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("store", 5*time.Second, health.PingCheck(store))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddLivenessCheck("gc_pause", time.Second, health.GCMaxPauseCheck(time.Second))
	healthSvc.Start(ctx, 10*time.Second)

	// Product catalog: read from markup when configured, else from the
	// kv cache seeded by catalog-ingest.
	cat, err := loadCatalog(ctx, lg, cfg, store)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	lg.Info("Catalog ready", zap.Int("products", cat.Len()))

	// Domain stores, hydrated from the persistent store once at startup.
	wishes := wishlist.NewStore(store, lg)
	carts := cart.NewStore(store, lg)
	orders := intake.NewService(store, lg)
	if err := wishes.Load(ctx); err != nil {
		return errors.Wrap(err, "load wishlist")
	}
	if err := carts.Load(ctx); err != nil {
		return errors.Wrap(err, "load cart")
	}
	if err := orders.Load(ctx); err != nil {
		return errors.Wrap(err, "load custom orders")
	}

	metrics, err := handler.NewMetrics(m.MeterProvider())
	if err != nil {
		return errors.Wrap(err, "create metrics")
	}

	h := handler.New(
		handler.Config{CurrencyGlyph: cfg.CurrencyGlyph},
		cat, wishes, carts, orders, metrics,
	)

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", h.Routes()))

	instrumented := otelhttp.NewHandler(mux, "storefront-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	healthSvc.SetReady(true)
	lg.Info("Server listening", zap.String("addr", cfg.Addr))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		// Wait for shutdown, stop advertising readiness, drain, then stop.
		<-gctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		return nil
	})

	return g.Wait()
}

// loadCatalog builds the product catalog. A configured markup file wins and
// refreshes the kv cache; otherwise the cache seeded by catalog-ingest is
// used. With neither, the server starts with an empty catalog.
func loadCatalog(ctx context.Context, lg *zap.Logger, cfg *Config, store kv.Store) (*catalog.Catalog, error) {
	if cfg.CatalogPath != "" {
		f, err := os.Open(cfg.CatalogPath)
		if err != nil {
			return nil, errors.Wrap(err, "open catalog markup")
		}
		defer func() { _ = f.Close() }()

		products, skipped, err := catalog.ParseMarkup(f)
		if err != nil {
			return nil, errors.Wrap(err, "parse catalog markup")
		}
		for _, s := range skipped {
			lg.Warn("Skipping product card", zap.String("id", s.ID), zap.String("reason", s.Reason))
		}

		if err := store.Set(ctx, catalog.StoreKey, catalog.EncodeProducts(products)); err != nil {
			return nil, errors.Wrap(err, "cache catalog")
		}
		return catalog.New(products), nil
	}

	data, err := store.Get(ctx, catalog.StoreKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			lg.Warn("No catalog configured and no cached catalog, starting empty")
			return catalog.New(nil), nil
		}
		return nil, errors.Wrap(err, "read cached catalog")
	}
	products, err := catalog.DecodeProducts(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode cached catalog")
	}
	return catalog.New(products), nil
}
