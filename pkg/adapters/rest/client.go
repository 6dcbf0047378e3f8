// Package rest implements core.Transport over HTTP/JSON.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/inkwell/pkg/core"
)

const (
	DefaultTimeout        = 30 * time.Second
	defaultConnectTimeout = 5 * time.Second
	defaultTLSTimeout     = 5 * time.Second

	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 5 * 1024 * 1024
)

// Config holds the configuration for the REST client.
type Config struct {
	// BaseURL is prefixed to every request path (e.g. "http://localhost:8000/api/v1").
	BaseURL string
	// Timeout bounds a whole request. Zero means DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
	UserAgent  string
	Logger     *slog.Logger
}

// Client is the Transport Client. It attaches the current credential to
// every request and maps responses onto the core error taxonomy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger

	mu          sync.RWMutex
	credentials core.CredentialSource
	requests    int
	failures    int
}

// NewClient creates a Client for the given configuration.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %q", u.Scheme)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = defaultHTTPClient(timeout)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "inkwell"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}, nil
}

func defaultHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout: defaultConnectTimeout,
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: defaultTLSTimeout,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// Bind sets where the client reads the active credential from.
// Passing nil makes every request unauthenticated.
func (c *Client) Bind(src core.CredentialSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credentials = src
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Send performs a request. body may be nil (no body), url.Values (sent as a
// form) or any JSON-encodable value.
//
// On 2xx it returns the response. On any other status it returns a
// *core.RejectedError. When no response is received it returns a
// *core.TransportError, which matches core.ErrUnavailable.
func (c *Client) Send(ctx context.Context, method, path string, body any) (*core.Response, error) {
	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", c.userAgent)
	request.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	c.mu.Lock()
	src := c.credentials
	c.requests++
	c.mu.Unlock()

	authenticated := false
	if src != nil {
		if credential, ok := src.CurrentCredential(); ok {
			request.Header.Set("Authorization", "Bearer "+string(credential))
			authenticated = true
		}
	}

	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.recordFailure()
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, &core.TransportError{Method: method, Path: path, Err: err}
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		c.recordFailure()
		return nil, &core.TransportError{Method: method, Path: path, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"authenticated", authenticated,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return &core.Response{StatusCode: response.StatusCode, Body: responseBody}, nil
	}

	c.recordFailure()
	return nil, &core.RejectedError{
		StatusCode: response.StatusCode,
		Message:    extractMessage(responseBody),
	}
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	c.failures++
	c.mu.Unlock()
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case url.Values:
		return strings.NewReader(b.Encode()), "application/x-www-form-urlencoded", nil
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(encoded), "application/json", nil
	}
}
