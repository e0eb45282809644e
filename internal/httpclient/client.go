// Package httpclient wraps net/http with timeouts and optional retries.
// A single Client is safe for concurrent use by multiple goroutines.
package httpclient

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// Config holds attempt and timeout configuration.
type Config struct {
	Attempts  int           // total attempts per request, minimum 1
	BaseDelay time.Duration // delay before the second attempt
	MaxDelay  time.Duration // cap on the backoff delay
	Timeout   time.Duration // per-request timeout
}

// DefaultConfig returns sensible defaults for background callers.
func DefaultConfig() Config {
	return Config{
		Attempts:  3,
		BaseDelay: 1 * time.Second,
		MaxDelay:  10 * time.Second,
		Timeout:   30 * time.Second,
	}
}

// SingleAttempt returns a config with retries disabled. Section loading
// treats a failed response as terminal for the invocation, so its client
// never retries.
func SingleAttempt() Config {
	return Config{
		Attempts: 1,
		Timeout:  15 * time.Second,
	}
}

// Client wraps http.Client with retry logic.
type Client struct {
	http   *http.Client
	config Config
	logger *slog.Logger
}

// New creates a Client with a default http.Client.
func New(cfg Config, logger *slog.Logger) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewWithHTTPClient creates a Client around a caller-supplied http.Client
// (custom transports in tests, cookie jars).
func NewWithHTTPClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:   httpClient,
		config: cfg,
		logger: logger,
	}
}

// Do executes an HTTP request. With more than one attempt configured it
// retries idempotent requests on transient network errors and on
// 429/500/502/503/504; non-idempotent requests are retried on 429 only.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var lastErr error
	var retryAfter time.Duration

	for attempt := 1; attempt <= c.config.Attempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(req.Context(), attempt, retryAfter, req.URL.String()); err != nil {
				return nil, err
			}
			if err := rewindBody(req); err != nil {
				return nil, err
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if req.Context().Err() != nil {
				return nil, req.Context().Err()
			}
			if !idempotent(req.Method) {
				return nil, err
			}
			lastErr = err
			retryAfter = 0
			continue
		}

		if !retryableStatus(resp.StatusCode, req.Method) {
			return resp, nil
		}

		lastErr = fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.String())
		retryAfter = retryAfterHint(resp)
		_ = resp.Body.Close()
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.config.Attempts, lastErr)
}

// sleep waits before a retry, honoring a Retry-After hint when it is longer
// than the computed backoff.
func (c *Client) sleep(ctx context.Context, attempt int, retryAfter time.Duration, url string) error {
	delay := c.backoff(attempt)
	if retryAfter > delay {
		delay = retryAfter
	}
	if delay > c.config.MaxDelay {
		delay = c.config.MaxDelay
	}

	c.logger.Debug("retrying request",
		slog.Int("attempt", attempt),
		slog.String("delay", delay.String()),
		slog.String("url", url),
	)

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// backoff computes an exponential delay with 20% jitter.
func (c *Client) backoff(attempt int) time.Duration {
	delay := float64(c.config.BaseDelay) * math.Pow(2, float64(attempt-2))
	if delay > float64(c.config.MaxDelay) {
		delay = float64(c.config.MaxDelay)
	}
	jitter := delay * 0.2 * rand.Float64() // #nosec G404 -- backoff jitter
	return time.Duration(delay + jitter)
}

// retryAfterHint reads a numeric Retry-After header, 0 when absent.
func retryAfterHint(resp *http.Response) time.Duration {
	seconds, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// rewindBody restores the request body before a retry.
func rewindBody(req *http.Request) error {
	if req.GetBody == nil {
		return nil
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("failed to rewind request body: %w", err)
	}
	req.Body = body
	return nil
}

// idempotent reports whether the HTTP method is safe to retry.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

// retryableStatus reports whether the status warrants another attempt.
// POST and PATCH are retried on 429 only, to avoid duplicate side effects.
func retryableStatus(statusCode int, method string) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	if !idempotent(method) {
		return false
	}
	switch statusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
