// internal/common/http/client.go
package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// SessionConfig tunes the single connection pool every batch task shares.
type SessionConfig struct {
	BaseURL             string
	Timeout             time.Duration // 0 disables the per-request timeout
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
}

// Client is the shared network session. It is safe for concurrent use and
// holds no per-request state.
type Client struct {
	rc        *resty.Client
	transport *http.Transport
}

func NewClient(cfg SessionConfig) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.MaxIdleConns = 0
	if cfg.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}
	transport.MaxConnsPerHost = cfg.MaxConnsPerHost

	rc := resty.New().
		SetTransport(transport).
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}

	return &Client{rc: rc, transport: transport}
}

// R starts a request bound to ctx.
func (c *Client) R(ctx context.Context) *resty.Request {
	return c.rc.R().SetContext(ctx)
}

// Close drops idle keep-alive connections once every phase is done.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}
