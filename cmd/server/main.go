package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minichat-backend/internal/api"
	"minichat-backend/internal/config"
	"minichat-backend/internal/events"
	"minichat-backend/internal/handlers"
	"minichat-backend/internal/services"
	"minichat-backend/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	dbConnectAttempts = 3
	dbConnectDelay    = 200 * time.Millisecond
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting minichat backend")

	// 1. Load configuration
	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// 2. Initialize database connection pool
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := connectWithRetry(dbCtx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("unable to connect to database", zap.Error(err))
	}
	defer dbpool.Close()

	// 3. Initialize dependencies (store, hub, container, services, handlers)
	pgStore := postgres.NewPostgresStore(dbpool, logger)
	if err := pgStore.EnsureSchema(dbCtx); err != nil {
		logger.Fatal("failed to ensure database schema", zap.Error(err))
	}
	logger.Info("postgres store initialized")

	hub := events.NewHub(logger)

	container := services.NewContainer(cfg, pgStore, logger)

	authService, err := services.NewAuthService(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize auth service", zap.Error(err))
	}
	chatService := services.NewChatService(pgStore, container, hub, cfg, logger)

	routerDeps := api.RouterDependencies{
		AuthHandler:      handlers.NewAuthHandler(authService),
		ChatHandler:      handlers.NewChatHandlers(chatService),
		MessageHandler:   handlers.NewMessageHandlers(chatService),
		ModelHandler:     handlers.NewModelHandlers(container),
		SubscribeHandler: handlers.NewSubscribeHandlers(hub, logger),
		Config:           cfg,
	}
	router := api.NewRouter(routerDeps)
	logger.Info("HTTP router configured", zap.String("provider", container.Label()))

	// 4. Configure and start HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-stopChan
	logger.Info("shutdown signal received, initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("server shutdown complete")
}

// connectWithRetry establishes the database pool and verifies it with a
// bounded number of ping attempts separated by a fixed delay, so a briefly
// unavailable backend at boot does not kill the process.
func connectWithRetry(ctx context.Context, databaseURL string, logger *zap.Logger) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	var pingErr error
	for attempt := 1; attempt <= dbConnectAttempts; attempt++ {
		pingErr = dbpool.Ping(ctx)
		if pingErr == nil {
			logger.Info("database connection established", zap.Int("attempt", attempt))
			return dbpool, nil
		}
		logger.Warn("database ping failed",
			zap.Int("attempt", attempt),
			zap.Error(pingErr))
		if attempt < dbConnectAttempts {
			select {
			case <-time.After(dbConnectDelay):
			case <-ctx.Done():
				dbpool.Close()
				return nil, ctx.Err()
			}
		}
	}

	dbpool.Close()
	return nil, pingErr
}
