// internal/workers/orders/lookup-order/handler.go
package lookuporder

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	apperrors "order-loadgen/internal/common/errors"
	httpclient "order-loadgen/internal/common/http"
	"order-loadgen/internal/common/logger"
	"order-loadgen/internal/common/metrics"
	"order-loadgen/internal/common/report"
	"order-loadgen/internal/common/validation"
	"order-loadgen/internal/models"
)

const (
	TaskType = "lookup-order"
	Phase    = "lookup"
)

type Handler struct {
	config   *Config
	client   *httpclient.Client
	reporter *report.Reporter
	logger   logger.Logger
}

func NewHandler(config *Config, client *httpclient.Client, reporter *report.Reporter, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		client:   client,
		reporter: reporter,
		logger:   log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

// Handle fetches the order created for index and prints it.
func (h *Handler) Handle(ctx context.Context, index int) {
	start := time.Now()
	result, err := h.execute(ctx, index)
	metrics.OrderRequestDuration.WithLabelValues(Phase).Observe(time.Since(start).Seconds())

	if err != nil {
		h.reportFailure(index, err)
		return
	}

	metrics.OrderRequestsTotal.WithLabelValues(Phase, metrics.OutcomeSuccess).Inc()
	h.reporter.Success("Order %d data: %s", index, result.Body)
}

func (h *Handler) execute(ctx context.Context, index int) (*Result, error) {
	uid := models.OrderUID(h.config.IDPrefix, index)

	resp, err := h.client.R(ctx).Get(models.OrderPath(h.config.OrdersPath, h.config.IDPrefix, index))
	if err != nil {
		return nil, apperrors.NewTransportFailedError(Phase, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, apperrors.NewUnexpectedStatusError(Phase, resp.StatusCode())
	}

	if h.config.ValidateResponse {
		if err := validation.ValidateOrderJSON(resp.Body()); err != nil {
			h.logger.Warn("order response does not match schema", map[string]interface{}{
				"index": index,
				"error": err.Error(),
			})
		}
	}

	// the body is printed as sent; only non-JSON bodies are rejected
	var body bytes.Buffer
	if err := json.Compact(&body, resp.Body()); err != nil {
		return nil, apperrors.NewResponseDecodeFailedError(err)
	}

	return &Result{
		Index:    index,
		OrderUID: uid,
		Body:     json.RawMessage(body.Bytes()),
	}, nil
}

// Skip reports an index the dispatcher dropped after cancellation, so every
// index still ends as one report line.
func (h *Handler) Skip(ctx context.Context, index int, err error) {
	h.reportFailure(index, apperrors.NewTransportFailedError(Phase, err))
}

func (h *Handler) reportFailure(index int, err error) {
	code := apperrors.Code(err)
	metrics.OrderRequestsTotal.WithLabelValues(Phase, metrics.OutcomeFailure).Inc()
	metrics.OrderRequestErrors.WithLabelValues(Phase, string(code)).Inc()

	h.logger.Debug("order lookup failed", map[string]interface{}{
		"index":         index,
		"errorCode":     string(code),
		"errorCategory": apperrors.GetErrorCategory(code),
		"error":         err.Error(),
	})

	if status, ok := apperrors.StatusCode(err); ok {
		h.reporter.Failure("Failed to get order %d, status code: %d", index, status)
		return
	}
	h.reporter.Failure("Failed to get order %d: %v", index, err)
}

func (h *Handler) Execute(ctx context.Context, index int) (*Result, error) {
	return h.execute(ctx, index)
}
