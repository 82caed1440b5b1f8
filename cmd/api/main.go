// Package main is the entry point for the SymptomLog API server.
//
// It loads configuration, opens the PostgreSQL pool, applies the schema,
// wires the domain services and HTTP handlers onto the core chassis, and
// serves requests until a shutdown signal arrives.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/compress/gzhttp"

	"symptomlog/internal/api/handlers"
	"symptomlog/internal/auth"
	"symptomlog/internal/config"
	"symptomlog/internal/core"
	"symptomlog/internal/db"
	"symptomlog/internal/external"
	"symptomlog/internal/reports"
	"symptomlog/internal/symptoms"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so main() can cleanly exit on error.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("symptomlog API starting",
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
	)

	// Database pool.
	pool, err := newPool(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelMigrate()
	if err := db.Migrate(migrateCtx, pool); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}

	// Repositories.
	userRepo := db.NewUserRepo(pool, logger)
	sessionRepo := db.NewSessionRepo(pool, logger)
	symptomRepo := db.NewSymptomRepo(pool, logger)
	reportRepo := db.NewReportRepo(pool, logger)

	// Services.
	authService := auth.NewService(auth.ServiceConfig{
		Users:      userRepo,
		Sessions:   sessionRepo,
		SessionTTL: cfg.Auth.SessionTTL,
		Logger:     logger,
	})
	symptomService := symptoms.NewService(symptomRepo, logger)
	generator := external.NewOpenRouterClient(cfg.AI, logger)
	reportService := reports.NewService(reports.ServiceConfig{
		Symptoms:  symptomRepo,
		Store:     reportRepo,
		Generator: generator,
		Logger:    logger,
	})

	// HTTP chassis.
	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Authenticator = authService

	authHandler := handlers.NewAuthHandler(authService, srv.Validator, logger)
	symptomHandler := handlers.NewSymptomHandler(symptomService, srv.Validator, logger)
	reportHandler := handlers.NewReportHandler(reportService, srv.Validator, logger)

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		func(r chi.Router) { r.Route("/auth", authHandler.RegisterRoutes) },
		func(r chi.Router) { r.Route("/symptoms", symptomHandler.RegisterRoutes) },
		func(r chi.Router) { r.Route("/reports", reportHandler.RegisterRoutes) },
	)
	srv.MountRoutes()

	addr := ":" + cfg.Server.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           gzhttp.GzipHandler(srv.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newPool opens a pgx connection pool with the configured tuning parameters
// and verifies connectivity.
func newPool(cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL.Reveal())
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// newLogger creates a structured slog.Logger for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
