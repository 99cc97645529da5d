// internal/workers/orders/create-order/handler.go
package createorder

import (
	"context"
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
	TaskType = "create-order"
	Phase    = "create"
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

// Handle submits the order for index and reports the outcome. It never
// returns an error: every failure ends as a report line.
func (h *Handler) Handle(ctx context.Context, index int) {
	start := time.Now()
	result, err := h.execute(ctx, index)
	metrics.OrderRequestDuration.WithLabelValues(Phase).Observe(time.Since(start).Seconds())

	if err != nil {
		h.reportFailure(index, err)
		return
	}

	metrics.OrderRequestsTotal.WithLabelValues(Phase, metrics.OutcomeSuccess).Inc()
	h.logger.Debug("order posted", map[string]interface{}{
		"index":    index,
		"orderUid": result.OrderUID,
	})
	h.reporter.Success("Order %d posted successfully", index)
}

func (h *Handler) execute(ctx context.Context, index int) (*Result, error) {
	order := models.BuildOrder(h.config.IDPrefix, index)

	if h.config.ValidatePayload {
		if err := validation.ValidateOrder(order); err != nil {
			return nil, err
		}
	}

	resp, err := h.client.R(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(order).
		Post(h.config.OrdersPath)
	if err != nil {
		return nil, apperrors.NewTransportFailedError(Phase, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, apperrors.NewUnexpectedStatusError(Phase, resp.StatusCode())
	}

	return &Result{
		Index:      index,
		OrderUID:   order.OrderUID,
		StatusCode: resp.StatusCode(),
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

	h.logger.Debug("order post failed", map[string]interface{}{
		"index":         index,
		"errorCode":     string(code),
		"errorCategory": apperrors.GetErrorCategory(code),
		"error":         err.Error(),
	})

	if status, ok := apperrors.StatusCode(err); ok {
		h.reporter.Failure("Failed to post order %d, status code: %d", index, status)
		return
	}
	h.reporter.Failure("Failed to post order %d: %v", index, err)
}

func (h *Handler) Execute(ctx context.Context, index int) (*Result, error) {
	return h.execute(ctx, index)
}
