// internal/common/errors/handler.go
package errors

import (
	"time"
)

// ErrorHandler turns request errors into logged, structured responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// ErrorResponse is the JSON body the order service sends on failure.
type ErrorResponse struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Details  string    `json:"details,omitempty"`
	Category string    `json:"category"`
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRequestError normalizes err, logs it and returns the status and
// body to answer with. Client errors log at warn, everything else at error.
func (h *ErrorHandler) HandleRequestError(route string, err error) (int, ErrorResponse) {
	stdErr := h.normalizeError(err)
	status := HTTPStatus(stdErr)

	h.logError(route, status, stdErr)

	return status, ErrorResponse{
		Code:     stdErr.Code,
		Message:  stdErr.Message,
		Details:  stdErr.Details,
		Category: GetErrorCategory(stdErr.Code),
	}
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := As(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func (h *ErrorHandler) logError(route string, status int, stdErr *StandardError) {
	fields := map[string]interface{}{
		"route":         route,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if status < 500 {
		h.logger.Warn("Request rejected", fields)
		return
	}
	h.logger.Error("Request failed", fields)
}
