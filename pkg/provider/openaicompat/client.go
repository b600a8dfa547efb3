package openaicompat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cogpy/aicogchat/pkg/debug"
	"github.com/cogpy/aicogchat/pkg/provider"
)

// Config holds HTTP transport settings.
type Config struct {
	// Timeout for non-streaming requests. Defaults to 120s.
	Timeout time.Duration

	// ConnectTimeout bounds connection establishment. Defaults to 10s.
	ConnectTimeout time.Duration

	// Proxy is an optional proxy URL (http, https or socks5).
	Proxy string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        120 * time.Second,
		ConnectTimeout: 10 * time.Second,
	}
}

// Client sends prepared provider requests over HTTP.
type Client struct {
	transport  *http.Transport
	httpClient *http.Client

	// streamClient has no timeout; the context controls stream lifetime.
	streamClient *http.Client
}

// NewClient creates a Client. Returns an error if the proxy URL is invalid.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = (&net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil || proxyURL.Scheme == "" || proxyURL.Host == "" {
			return nil, fmt.Errorf("invalid proxy URL %q", cfg.Proxy)
		}
		tr.Proxy = http.ProxyURL(proxyURL)
	}

	rt := otelhttp.NewTransport(tr)

	return &Client{
		transport: tr,
		httpClient: &http.Client{
			Transport: rt,
			Timeout:   cfg.Timeout,
		},
		streamClient: &http.Client{
			Transport: rt,
		},
	}, nil
}

// Do sends a non-streaming request and returns the status and full body.
// Only connection-level failures are returned as errors; interpreting the
// status is left to the provider.
func (c *Client) Do(ctx context.Context, req *provider.Request) (int, []byte, error) {
	resp, err := c.send(ctx, c.httpClient, req, false)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, MapNetworkError(err)
	}
	debug.Payload("providers", "response", string(body))
	return resp.StatusCode, body, nil
}

// Stream sends a streaming request and returns the open response. The
// caller must close the body.
func (c *Client) Stream(ctx context.Context, req *provider.Request) (*http.Response, error) {
	return c.send(ctx, c.streamClient, req, true)
}

func (c *Client) send(ctx context.Context, hc *http.Client, req *provider.Request, stream bool) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	debug.Log("providers", "request", "url", req.URL, "stream", stream)
	debug.Payload("providers", "request-body", string(req.Body))

	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, MapNetworkError(err)
	}
	return resp, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}
