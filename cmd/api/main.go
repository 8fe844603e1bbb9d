// Package main is the entry point for the Cruise Guides API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/mfarrell/cruise-guides/backend/internal/aggregate"
	"github.com/mfarrell/cruise-guides/backend/internal/cache"
	"github.com/mfarrell/cruise-guides/backend/internal/config"
	"github.com/mfarrell/cruise-guides/backend/internal/db"
	"github.com/mfarrell/cruise-guides/backend/internal/handler"
	"github.com/mfarrell/cruise-guides/backend/internal/middleware"
	"github.com/mfarrell/cruise-guides/backend/internal/repo"
	"github.com/mfarrell/cruise-guides/backend/internal/service"
	"github.com/mfarrell/cruise-guides/backend/migrations"
)

// maxBodySize caps request bodies. The largest legitimate payload is a full
// itinerary replacement, which is well under this.
const maxBodySize = 1 << 20 // 1 MiB

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Migrations -------------------------------------------------------
	// goose needs database/sql, not the pgx pool, so it gets its own short-lived
	// connection that is closed once the schema is current.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database schema up to date")

	// --- Database ---------------------------------------------------------
	manager, err := db.New(context.Background(), db.Config{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		IdleTimeout:    cfg.DBIdleTimeout,
		ConnectTimeout: cfg.DBConnectTimeout,
		MaxLifetime:    cfg.DBMaxConnLifetime,
	}, logger)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer manager.Close()
	slog.Info("database connection established")

	// --- Cache and aggregator ---------------------------------------------
	cacheCfg := cache.DefaultConfig()
	cacheCfg.Capacity = cfg.CacheCapacity
	cacheCfg.DefaultTTL = cfg.CacheDefaultTTL
	viewCache, err := cache.New(cacheCfg)
	if err != nil {
		slog.Error("failed to build cache", "error", err)
		os.Exit(1)
	}
	aggregator := aggregate.New(manager, viewCache, logger)

	// --- Repositories and services ----------------------------------------
	// The multi-statement writes (itinerary replace, lineup replace) use the
	// transactional repo variants so each replace commits or rolls back as a
	// unit. The aggregator doubles as the cache invalidator: services call it
	// after every successful mutation.
	trips := repo.NewTripRepo(manager)

	tripSvc := service.NewTripService(trips, aggregator)
	itinerarySvc := service.NewItineraryService(trips, repo.NewTxItineraryRepo(manager), aggregator)
	eventSvc := service.NewEventService(trips, repo.NewTxEventRepo(manager), aggregator)
	talentSvc := service.NewTalentService(repo.NewTalentRepo(manager), aggregator)
	themeSvc := service.NewPartyThemeService(repo.NewPartyThemeRepo(manager), aggregator)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body size cap. RequestID generates a unique trace ID per
	// request; RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP;
	// SlogLogger writes one structured JSON log line per request; Recoverer
	// catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodySize))

	srv := handler.NewServer(tripSvc, itinerarySvc, eventSvc, talentSvc, themeSvc, aggregator, manager)
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies any pending schema migrations from the embedded FS.
func runMigrations(databaseURL string) error {
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
