// cmd/order-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-loadgen/internal/common/config"
	"order-loadgen/internal/common/database"
	"order-loadgen/internal/common/logger"
	"order-loadgen/internal/server"
	"order-loadgen/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog, _ := logger.NewOrStderr("info", "console", "stderr")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.NewOrStderr(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		zapLog.Warn("configured log output unavailable, logging to stderr",
			zap.String("output", cfg.Logging.Output), zap.Error(err))
	}
	defer zapLog.Sync()

	if err := cfg.ValidateServer(); err != nil {
		zapLog.Fatal("invalid server config", zap.Error(err))
	}

	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{"app": "order-server"})
	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	pgRepo := store.NewPostgresRepository(pg, log)
	if err := pgRepo.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema setup failed", zap.Error(err))
	}

	var repo store.Repository = pgRepo

	// --- Init Redis with retry (optional) ---
	if cfg.Database.Redis.Enabled() {
		var rc *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, serving without cache", zap.Error(err))
		} else {
			defer rc.Close()
			repo = store.NewCachedRepository(pgRepo, rc, config.GetDuration(cfg.Database.Redis.CacheTTL), log)
			zapLog.Info("Redis connected successfully", zap.String("address", cfg.Database.Redis.Address))
		}
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.NewRouter(repo, log),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("order server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("order server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during server shutdown", zap.Error(err))
	}

	zapLog.Info("Order server stopped")
}
