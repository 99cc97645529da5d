// internal/server/router.go
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "order-loadgen/internal/common/errors"
	"order-loadgen/internal/common/logger"
	"order-loadgen/internal/common/metrics"
	"order-loadgen/internal/store"
)

// NewRouter wires the order API onto a gin engine.
func NewRouter(repo store.Repository, log logger.Logger) *gin.Engine {
	h := &OrderHandler{
		repo:   repo,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	orders := r.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("/:order_uid", h.Get)
	}

	return r
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.ServerRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

		fields := map[string]interface{}{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": time.Since(start).String(),
		}
		if status >= http.StatusInternalServerError {
			log.Warn("request served", fields)
			return
		}
		log.Debug("request served", fields)
	}
}
