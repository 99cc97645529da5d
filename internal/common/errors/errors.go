// Package errors provides the standardized error taxonomy shared by the seeder and the order service.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Client side: outcome of a single create or lookup round trip.
	ErrCodeUnexpectedStatus     ErrorCode = "ORDER_UNEXPECTED_STATUS"
	ErrCodeTransportFailed      ErrorCode = "TRANSPORT_FAILED"
	ErrCodePayloadInvalid       ErrorCode = "PAYLOAD_INVALID"
	ErrCodeResponseDecodeFailed ErrorCode = "RESPONSE_DECODE_FAILED"

	// Service side.
	ErrCodeOrderNotFound       ErrorCode = "ORDER_NOT_FOUND"
	ErrCodeDuplicateOrder      ErrorCode = "DUPLICATE_ORDER"
	ErrCodeDatabaseQueryFailed ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeCacheUnavailable    ErrorCode = "CACHE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewUnexpectedStatusError reports a non-200 answer from the order service.
func NewUnexpectedStatusError(operation string, statusCode int) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpectedStatus,
		Message:   fmt.Sprintf("%s returned unexpected status", operation),
		Details:   fmt.Sprintf("status code: %d", statusCode),
		Retryable: false,
		Metadata:  map[string]interface{}{"statusCode": statusCode, "operation": operation},
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportFailedError wraps a connection, DNS or timeout failure.
func NewTransportFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailed,
		Message:   fmt.Sprintf("%s request failed", operation),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewPayloadInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadInvalid,
		Message:   "Order payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewResponseDecodeFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseDecodeFailed,
		Message:   "Order response could not be decoded",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewOrderNotFoundError(orderUID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOrderNotFound,
		Message:   "Order not found",
		Details:   fmt.Sprintf("orderUid: %s", orderUID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewDuplicateOrderError(orderUID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateOrder,
		Message:   "Order already exists",
		Details:   fmt.Sprintf("orderUid: %s", orderUID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewDatabaseQueryFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("query: %s, error: %s", query, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Order cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// As returns the first StandardError in err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

// StatusCode extracts the HTTP status of an ORDER_UNEXPECTED_STATUS error.
func StatusCode(err error) (int, bool) {
	stdErr, ok := As(err)
	if !ok || stdErr.Code != ErrCodeUnexpectedStatus {
		return 0, false
	}
	code, ok := stdErr.Metadata["statusCode"].(int)
	return code, ok
}

// Code returns the error code of err, or INTERNAL_ERROR for foreign errors.
func Code(err error) ErrorCode {
	if stdErr, ok := As(err); ok {
		return stdErr.Code
	}
	return "INTERNAL_ERROR"
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TRANSPORT"):
		return "transport"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "DECODE"):
		return "validation"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "CACHE"):
		return "storage"
	case strings.HasPrefix(codeStr, "ORDER") || strings.Contains(codeStr, "DUPLICATE"):
		return "application"
	default:
		return "other"
	}
}

// HTTPStatus maps an error to the status the order service answers with.
func HTTPStatus(err error) int {
	switch Code(err) {
	case ErrCodeOrderNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateOrder:
		return http.StatusConflict
	case ErrCodePayloadInvalid, ErrCodeResponseDecodeFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
