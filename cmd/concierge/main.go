package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	approvaladapter "github.com/Strob0t/Concierge/internal/adapter/approval"
	conflictadapter "github.com/Strob0t/Concierge/internal/adapter/conflict"
	executoradapter "github.com/Strob0t/Concierge/internal/adapter/executor"
	extractoradapter "github.com/Strob0t/Concierge/internal/adapter/extractor"
	chttp "github.com/Strob0t/Concierge/internal/adapter/http"
	cnats "github.com/Strob0t/Concierge/internal/adapter/nats"
	"github.com/Strob0t/Concierge/internal/adapter/otel"
	"github.com/Strob0t/Concierge/internal/adapter/postgres"
	"github.com/Strob0t/Concierge/internal/adapter/registry"
	"github.com/Strob0t/Concierge/internal/adapter/ristretto"
	"github.com/Strob0t/Concierge/internal/adapter/ws"
	"github.com/Strob0t/Concierge/internal/config"
	"github.com/Strob0t/Concierge/internal/logger"
	"github.com/Strob0t/Concierge/internal/middleware"
	"github.com/Strob0t/Concierge/internal/port/messagequeue"
	"github.com/Strob0t/Concierge/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logCloser.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
		"session_ttl", cfg.Orchestrator.SessionTTL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer := otel.InitTracer("concierge")
	defer func() { _ = shutdownTracer(context.Background()) }()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if version, err := postgres.MigrationVersion(ctx, cfg.Postgres.DSN); err == nil {
		slog.Info("migrations applied", "version", version)
	}

	queue, err := cnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Drain() }()

	cache, err := ristretto.New(cfg.Cache.L1MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer cache.Close()

	// --- Services ---

	hub := ws.NewHub()
	store := postgres.NewStore(pool)
	directory := registry.New()
	tokens := approvaladapter.New(cfg.Approval.Secret)

	stepExec := executoradapter.NewGuarded(
		executoradapter.NewSimulated(cfg.Orchestrator.StepLatency),
		cfg.Breaker.MaxFailures,
		cfg.Breaker.Timeout,
	)

	profiles := service.NewProfileService(store, cache, queue, cfg.Cache.ProfileTTL)
	orch := service.NewOrchestrator(cfg.Orchestrator, service.OrchestratorDeps{
		Extractor: extractoradapter.New(nil),
		Directory: directory,
		Conflicts: conflictadapter.New(),
		Issuer:    tokens,
		Validator: tokens,
		Executor:  stepExec,
		Profiles:  profiles,
		Store:     store,
		Queue:     queue,
		Hub:       hub,
		Metrics:   metrics,
	})
	orch.StartJanitor(ctx)

	// --- HTTP ---

	rateLimiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := rateLimiter.StartCleanup(cfg.Rate.CleanupInterval, cfg.Rate.MaxIdleTime)
	defer stopCleanup()

	r := chi.NewRouter()
	r.Use(chttp.CORS(cfg.Server.CORSOrigin))
	r.Use(chttp.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(chttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(rateLimiter.Handler)
	r.Use(otel.HTTPMiddleware("concierge"))

	r.Get("/health", healthHandler(pool, queue))
	r.Get("/ws", hub.HandleWS)

	chttp.MountRoutes(r, &chttp.Handlers{
		Orchestrator: orch,
		Profiles:     profiles,
		Directory:    directory,
	})

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// healthHandler reports liveness of the process and its backing services.
func healthHandler(pool *pgxpool.Pool, queue messagequeue.Queue) http.HandlerFunc {
	type healthStatus struct {
		Status   string `json:"status"`
		Postgres string `json:"postgres"`
		NATS     string `json:"nats"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{Status: "ok", Postgres: "up", NATS: "up"}

		pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			status.Status = "degraded"
			status.Postgres = "down"
		}
		if !queue.IsConnected() {
			status.Status = "degraded"
			status.NATS = "down"
		}

		code := http.StatusOK
		if status.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	}
}
