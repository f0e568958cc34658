package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/menulink/emenu-backend/internal/adapters/primary/http"
	mw "github.com/menulink/emenu-backend/internal/adapters/primary/http/middleware"
	"github.com/menulink/emenu-backend/internal/adapters/primary/realtime"
	"github.com/menulink/emenu-backend/internal/adapters/secondary/postgres"
	"github.com/menulink/emenu-backend/internal/auth"
	"github.com/menulink/emenu-backend/internal/config"
	"github.com/menulink/emenu-backend/internal/core/services"
	"github.com/menulink/emenu-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Initialize Database Pool
	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 4. Initialize Rate Limiter
	var generalRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
	}

	// 5. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	devUserID, err := uuid.Parse(cfg.App.DevUserID)
	if err != nil {
		logger.Error("invalid development user id in configuration", "error", err)
		os.Exit(1)
	}

	// Repositories (Secondary Adapters)
	venueRepo := postgres.NewVenueRepository(pool)
	tableRepo := postgres.NewTableRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	// Security
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	authGate := services.NewAuthGate(tokenManager, userRepo, cfg.JWT.Enforce, devUserID, logger)

	// Real-time Core
	registry := realtime.NewRegistry(venueRepo, logger)
	dispatcher := realtime.NewDispatcher(registry, logger)
	venueStatusService := services.NewVenueStatusService(orderRepo, tableRepo, logger)
	frameRouter := realtime.NewRouter(venueStatusService, logger)

	// Services (Core)
	orderService := services.NewOrderService(orderRepo, tableRepo, dispatcher, logger)
	tableService := services.NewTableService(tableRepo, dispatcher, logger)

	// Handlers (Primary Adapters)
	wsHandler := httpAdapter.NewWebSocketHandler(registry, frameRouter, authGate, cfg, logger)
	wsAdminHandler := httpAdapter.NewWSAdminHandler(registry, dispatcher, errorHandler, logger)
	orderHandler := httpAdapter.NewOrderHandler(orderService, errorHandler, logger)
	tableHandler := httpAdapter.NewTableHandler(tableService, errorHandler, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, registry, cfg.App.Version)

	// 6. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.WebSocket.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/ws", func(r chi.Router) {
			// Upgrade endpoints (authentication is handled during admission)
			r.Get("/", wsHandler.ServeCombined)
			r.Get("/venue/{venueID}", wsHandler.ServeVenue)
			r.Get("/user/{userID}", wsHandler.ServeUser)

			// Stats and manual publish endpoints
			r.Group(func(r chi.Router) {
				r.Use(mw.Authentication(authGate))
				wsAdminHandler.RegisterRoutes(r)
			})
		})

		// Protected REST routes
		r.Group(func(r chi.Router) {
			r.Use(mw.Authentication(authGate))
			r.Route("/orders", orderHandler.RegisterRoutes)
			r.Route("/tables", tableHandler.RegisterRoutes)
		})
	})

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
