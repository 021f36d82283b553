// Package transport provides the shared HTTP client every vendor adapter
// funnels its outbound calls through. It owns the per-adapter rate limit
// gate, bounded retry with exponential backoff and jitter, and the
// vendor-specific auth injection.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/podsync/podsync/internal/logging"
	"github.com/podsync/podsync/internal/metrics"
	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultMaxAttempts = 3
	baseRetryDelay     = 500 * time.Millisecond
	userAgent          = "podsync/1.0 (+https://github.com/podsync/podsync)"
)

// Authorizer injects vendor-specific authentication into an outbound
// request (header or query parameter)
type Authorizer func(*http.Request)

// BearerAuth authorizes with an Authorization: Bearer header
func BearerAuth(token string) Authorizer {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// HeaderAuth authorizes with a custom API-key header
func HeaderAuth(header, value string) Authorizer {
	return func(req *http.Request) {
		req.Header.Set(header, value)
	}
}

// QueryAuth authorizes with a query parameter appended to every request
func QueryAuth(param, value string) Authorizer {
	return func(req *http.Request) {
		q := req.URL.Query()
		q.Set(param, value)
		req.URL.RawQuery = q.Encode()
	}
}

// Config holds per-vendor transport settings
type Config struct {
	Provider models.ProviderType
	BaseURL  string
	// MinDelay is the vendor-specific minimum spacing between dispatches
	MinDelay    time.Duration
	Timeout     time.Duration
	MaxAttempts int
	Authorize   Authorizer
}

// Client is a rate-limited, retrying HTTP client bound to one vendor.
// The limiter serializes dispatches so at most one call per adapter
// proceeds at a time, with at least MinDelay between them, even under
// concurrent use.
type Client struct {
	provider    models.ProviderType
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	authorize   Authorizer
	logger      *zap.Logger
}

// NewClient creates a transport client for one vendor
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = defaultMaxAttempts
	}
	authorize := cfg.Authorize
	if authorize == nil {
		authorize = func(*http.Request) {}
	}

	return &Client{
		provider:    cfg.Provider,
		baseURL:     cfg.BaseURL,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Every(cfg.MinDelay), 1),
		maxAttempts: maxAttempts,
		authorize:   authorize,
		logger:      logging.L().Named(string(cfg.Provider)),
	}
}

// GetJSON issues a GET and unmarshals the response body into out
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	body, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &contracts.ProviderError{
			Provider: c.provider,
			Op:       "GET " + path,
			Message:  "decode response: " + err.Error(),
			Err:      err,
		}
	}
	return nil
}

// PostJSON issues a POST with a JSON body and unmarshals the response into out
func (c *Client) PostJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := c.Do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &contracts.ProviderError{
			Provider: c.provider,
			Op:       "POST " + path,
			Message:  "decode response: " + err.Error(),
			Err:      err,
		}
	}
	return nil
}

// Do performs a request with rate limiting and retry, returning the raw
// response body. Any non-success response or transport failure surfaces
// as a *contracts.ProviderError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, payload interface{}) ([]byte, error) {
	op := method + " " + path

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			metrics.ProviderRetriesTotal.WithLabelValues(string(c.provider)).Inc()
			if err := c.sleepBackoff(ctx, attempt, lastErr); err != nil {
				return nil, err
			}
		}

		body, err := c.doOnce(ctx, method, path, query, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) {
			return nil, err
		}
	}

	return nil, &contracts.ProviderError{
		Provider: c.provider,
		Op:       op,
		Message:  fmt.Sprintf("max retries (%d) exceeded", c.maxAttempts),
		Err:      lastErr,
	}
}

// doOnce performs a single rate-limited request
func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, payload interface{}) ([]byte, error) {
	op := method + " " + path

	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &contracts.ProviderError{Provider: c.provider, Op: op, Message: "rate limit wait: " + err.Error(), Err: err}
	}
	metrics.RateLimitWaitDuration.WithLabelValues(string(c.provider)).Observe(time.Since(waitStart).Seconds())

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &contracts.ProviderError{Provider: c.provider, Op: op, Message: "encode request: " + err.Error(), Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, &contracts.ProviderError{Provider: c.provider, Op: op, Message: "create request: " + err.Error(), Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(string(c.provider), "transport_error").Inc()
		return nil, &contracts.ProviderError{Provider: c.provider, Op: op, Message: "execute request: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	metrics.ProviderRequestDuration.WithLabelValues(string(c.provider)).Observe(time.Since(start).Seconds())
	metrics.ProviderRequestsTotal.WithLabelValues(string(c.provider), strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &contracts.ProviderError{Provider: c.provider, Op: op, Message: "read response body: " + err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		pe := &contracts.ProviderError{
			Provider:   c.provider,
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    truncate(string(body), 512),
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			pe.Err = &rateLimited{retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
		}
		c.logger.Debug("vendor request failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		return nil, pe
	}

	return body, nil
}

// sleepBackoff waits out the exponential backoff before a retry,
// honoring a vendor Retry-After hint when one was supplied
func (c *Client) sleepBackoff(ctx context.Context, attempt int, lastErr error) error {
	delay := baseRetryDelay * time.Duration(1<<uint(attempt-1))
	delay += time.Duration(rand.Int63n(int64(delay / 2)))

	if pe, ok := lastErr.(*contracts.ProviderError); ok {
		if rl, ok := pe.Err.(*rateLimited); ok && rl.retryAfter > delay {
			delay = rl.retryAfter
		}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// retryable reports whether an error is worth retrying: transport
// failures and 5xx/429 responses are, other 4xx are not
func retryable(err error) bool {
	pe, ok := err.(*contracts.ProviderError)
	if !ok {
		return false
	}
	if pe.StatusCode == 0 {
		return true
	}
	if pe.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return pe.StatusCode >= 500
}

// rateLimited carries the Retry-After hint from a 429 response
type rateLimited struct {
	retryAfter time.Duration
}

func (e *rateLimited) Error() string {
	return fmt.Sprintf("rate limited, retry after %v", e.retryAfter)
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
