// internal/server/handlers.go
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "order-loadgen/internal/common/errors"
	"order-loadgen/internal/common/logger"
	"order-loadgen/internal/common/validation"
	"order-loadgen/internal/models"
	"order-loadgen/internal/store"
)

type OrderHandler struct {
	repo   store.Repository
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

type createResponse struct {
	OrderUID string `json:"order_uid"`
}

// Create stores a new order. The body must satisfy the order schema.
func (h *OrderHandler) Create(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.fail(c, apperrors.NewPayloadInvalidError(err.Error()))
		return
	}

	if err := validation.ValidateOrderJSON(body); err != nil {
		h.fail(c, err)
		return
	}

	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		h.fail(c, apperrors.NewPayloadInvalidError(err.Error()))
		return
	}

	if err := h.repo.Save(c.Request.Context(), &order); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, createResponse{OrderUID: order.OrderUID})
}

func (h *OrderHandler) Get(c *gin.Context) {
	uid := c.Param("order_uid")

	order, err := h.repo.Get(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Health(c *gin.Context) {
	if err := h.repo.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (h *OrderHandler) fail(c *gin.Context, err error) {
	route := c.Request.Method + " " + c.FullPath()
	status, body := h.errors.HandleRequestError(route, err)
	c.AbortWithStatusJSON(status, body)
}
