// internal/workers/orders/create-order/handler_test.go
package createorder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	apperrors "order-loadgen/internal/common/errors"
	httpclient "order-loadgen/internal/common/http"
	"order-loadgen/internal/common/logger"
	"order-loadgen/internal/common/report"
	"order-loadgen/internal/dispatcher"
	"order-loadgen/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		OrdersPath: "/orders",
		IDPrefix:   models.DefaultOrderPrefix,
	}
}

func createTestHandler(t *testing.T, baseURL string, config *Config) (*Handler, *report.Reporter, *bytes.Buffer) {
	if config == nil {
		config = createTestConfig()
	}
	out := &bytes.Buffer{}
	rep := report.New(out)
	client := httpclient.NewClient(httpclient.SessionConfig{BaseURL: baseURL, Timeout: 2 * time.Second})
	return NewHandler(config, client, rep, logger.NewTestLogger(t)), rep, out
}

func indexFromUID(t *testing.T, uid string) int {
	i, err := strconv.Atoi(strings.TrimPrefix(uid, models.DefaultOrderPrefix+"test"))
	require.NoError(t, err)
	return i
}

func reportLines(out *bytes.Buffer) []string {
	trimmed := strings.TrimSpace(out.String())
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var order models.Order
		require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
		assert.Equal(t, "b563feb7b2b84b6test7", order.OrderUID)
		assert.Equal(t, order.OrderUID, order.Payment.Transaction)
		assert.Equal(t, "test7", order.CustomerID)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	handler, _, _ := createTestHandler(t, server.URL, nil)

	result, err := handler.Execute(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 7, result.Index)
	assert.Equal(t, "b563feb7b2b84b6test7", result.OrderUID)
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestHandler_Execute_Non200IsFailure(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusBadRequest, http.StatusInternalServerError} {
		t.Run(strconv.Itoa(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			handler, _, _ := createTestHandler(t, server.URL, nil)
			_, err := handler.Execute(context.Background(), 1)

			require.Error(t, err)
			code, ok := apperrors.StatusCode(err)
			assert.True(t, ok)
			assert.Equal(t, status, code)
		})
	}
}

func TestHandler_Execute_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	handler, _, _ := createTestHandler(t, url, nil)
	_, err := handler.Execute(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeTransportFailed))
}

func TestHandler_Execute_ValidatesPayload(t *testing.T) {
	calls := atomic.NewInt64(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Inc()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	config := createTestConfig()
	config.ValidatePayload = true
	handler, _, _ := createTestHandler(t, server.URL, config)

	_, err := handler.Execute(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())
}

// ==========================
// Reporting Tests
// ==========================

func TestHandler_Handle_ReportLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var order models.Order
		_ = json.NewDecoder(r.Body).Decode(&order)
		if indexFromUID(t, order.OrderUID) == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	handler, rep, out := createTestHandler(t, server.URL, nil)
	handler.Handle(context.Background(), 1)
	handler.Handle(context.Background(), 2)

	assert.Equal(t, []string{
		"Order 1 posted successfully",
		"Failed to post order 2, status code: 500",
	}, reportLines(out))
	assert.Equal(t, int64(1), rep.Succeeded())
	assert.Equal(t, int64(1), rep.Failed())
}

func TestHandler_Handle_TransportFailureIsReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	handler, rep, out := createTestHandler(t, url, nil)
	handler.Handle(context.Background(), 4)

	lines := reportLines(out)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "Failed to post order 4: "), lines[0])
	assert.Equal(t, int64(1), rep.Failed())
}

func TestHandler_Handle_NeverDedups(t *testing.T) {
	var mu sync.Mutex
	received := map[string]int{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var order models.Order
		_ = json.NewDecoder(r.Body).Decode(&order)
		mu.Lock()
		received[order.OrderUID]++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	handler, _, out := createTestHandler(t, server.URL, nil)
	handler.Handle(context.Background(), 9)
	handler.Handle(context.Background(), 9)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, received["b563feb7b2b84b6test9"])
	assert.Len(t, reportLines(out), 2)
}

// ==========================
// Batch Scenarios
// ==========================

func TestBatch_AllSucceed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	handler, rep, out := createTestHandler(t, server.URL, nil)
	dispatcher.New(0, logger.NewTestLogger(t)).Dispatch(context.Background(), Phase, dispatcher.Range(10), handler)

	lines := reportLines(out)
	require.Len(t, lines, 10)
	for i := 1; i <= 10; i++ {
		assert.Contains(t, lines, fmt.Sprintf("Order %d posted successfully", i))
	}
	assert.Equal(t, int64(10), rep.Succeeded())
}

func TestBatch_OddIndicesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var order models.Order
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if indexFromUID(t, order.OrderUID)%2 == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	handler, rep, out := createTestHandler(t, server.URL, nil)
	dispatcher.New(4, logger.NewTestLogger(t)).Dispatch(context.Background(), Phase, dispatcher.Range(10), handler)

	var success, failed int
	for _, line := range reportLines(out) {
		switch {
		case strings.HasSuffix(line, "posted successfully"):
			success++
		case strings.HasPrefix(line, "Failed to post order") && strings.HasSuffix(line, "status code: 500"):
			failed++
		default:
			t.Errorf("unexpected report line %q", line)
		}
	}
	assert.Equal(t, 5, success)
	assert.Equal(t, 5, failed)
	assert.Equal(t, int64(10), rep.Total())
}

func TestBatch_CancelledRunReportsEveryIndex(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	posted := atomic.NewInt64(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if posted.Inc() == 1 {
			cancel()
			time.Sleep(20 * time.Millisecond)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	handler, rep, out := createTestHandler(t, server.URL, nil)
	dispatcher.New(1, logger.NewTestLogger(t)).Dispatch(ctx, Phase, dispatcher.Range(8), handler)

	lines := reportLines(out)
	require.Len(t, lines, 8)
	assert.Equal(t, int64(8), rep.Total())
	assert.Equal(t, int64(1), posted.Load())

	// index 1 is torn down mid-request; the rest never leave the dispatcher
	for i := 2; i <= 8; i++ {
		prefix := fmt.Sprintf("Failed to post order %d: ", i)
		found := false
		for _, line := range lines {
			if strings.HasPrefix(line, prefix) {
				found = true
				assert.Contains(t, line, context.Canceled.Error())
			}
		}
		assert.True(t, found, "no report line for index %d", i)
	}
}

func TestHandler_Skip_ReportsFailure(t *testing.T) {
	handler, rep, out := createTestHandler(t, "http://127.0.0.1:1", nil)
	handler.Skip(context.Background(), 7, context.Canceled)

	lines := reportLines(out)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "Failed to post order 7: "), lines[0])
	assert.Equal(t, int64(1), rep.Failed())
}
