// cmd/order-seeder/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"order-loadgen/internal/common/config"
	httpclient "order-loadgen/internal/common/http"
	"order-loadgen/internal/common/logger"
	"order-loadgen/internal/common/observability"
	"order-loadgen/internal/seeder"
)

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

	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	obs := observability.New("order-seeder", nil, log)
	defer obs.Shutdown()

	if cfg.Metrics.Enabled {
		metricsServer := &http.Server{Addr: cfg.Metrics.Address, Handler: promhttp.Handler()}
		go func() {
			log.Info("metrics server listening", map[string]interface{}{"address": cfg.Metrics.Address})
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", map[string]interface{}{"error": err.Error()})
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(ctx)
		}()
	}

	// An interrupt cancels in-flight requests; they still report and the run
	// still drains every phase.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := httpclient.NewClient(httpclient.SessionConfig{
		BaseURL:             cfg.Target.BaseURL,
		Timeout:             config.GetDuration(cfg.Target.Timeout),
		MaxIdleConnsPerHost: cfg.Target.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.Target.MaxConnsPerHost,
	})
	defer client.Close()

	seeder.New(cfg, client, os.Stdout, obs, log).Run(ctx)
}
