package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfdash/internal/domain/performance"
	"perfdash/internal/platform/config"
	"perfdash/internal/platform/db"
	"perfdash/internal/platform/metrics"
	"perfdash/internal/transport/http/api"
	performancehandler "perfdash/internal/transport/http/handlers/performance"
	"perfdash/internal/transport/http/middleware"
	"perfdash/internal/transport/http/view"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Logger *slog.Logger
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators NewRouter needs. Metrics may be nil.
type Deps struct {
	Config  config.Config
	Logger  *slog.Logger
	Service performancehandler.ProfileService
	View    *view.Renderer
	DB      Pinger
	Metrics *metrics.Collector
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	logger.Info("database connected", "dsn", cfg.RedactedDSN())

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, db.Migrations()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	renderer, err := view.New()
	if err != nil {
		pool.Close()
		return nil, err
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	store := performance.NewStore(pool)
	router := NewRouter(Deps{
		Config:  cfg,
		Logger:  logger,
		Service: performance.NewService(store, cfg.QueryTimeout, logger),
		View:    renderer,
		DB:      pool,
		Metrics: collector,
	})

	return &App{Config: cfg, DB: pool, Router: router, Logger: logger}, nil
}

func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	handler := performancehandler.NewHandler(deps.Service, deps.View)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, deps.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(deps.Config.IsProduction()))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.RenderError(w, r, http.StatusNotFound, "Page not found.")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handler.RenderError(w, r, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if deps.DB == nil || deps.DB.Ping(ctx) != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if deps.Metrics != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, deps.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	handler.RegisterRoutes(router)
	router.Route("/api/v1", handler.RegisterAPIRoutes)

	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("perfdash server listening", "addr", a.Config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
