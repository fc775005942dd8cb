// Package provider contains the HTTP clients for the schedule and odds
// providers plus the shared rate-limited retrying transport they use.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HTTPClientConfig holds configuration for provider HTTP clients.
type HTTPClientConfig struct {
	Timeout      time.Duration
	MaxRetries   int // retries after the first attempt
	RetryWaitMin time.Duration
	RateLimit    float64 // requests per second
}

// DefaultHTTPClientConfig returns the defaults mandated by the retry
// policy: three attempts total with linearly increasing delay.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:      15 * time.Second,
		MaxRetries:   2,
		RetryWaitMin: 500 * time.Millisecond,
		RateLimit:    5.0,
	}
}

// Client wraps retryablehttp.Client with rate limiting. Only HTTP 429 and
// transport errors are retried; every other failure surfaces immediately.
type Client struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewClient creates a new rate-limited provider HTTP client.
func NewClient(cfg HTTPClientConfig, logger *logrus.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMin * time.Duration(cfg.MaxRetries+1)
	retryClient.CheckRetry = rateLimitRetryPolicy()
	retryClient.Backoff = linearBackoff
	retryClient.Logger = nil

	return &Client{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		logger:  logger,
	}
}

// GetJSON fetches url and decodes the response body into v.
func (c *Client) GetJSON(ctx context.Context, provider, url string, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return NewProviderError(provider, ErrCodeNetworkError, "request failed",
			fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewProviderError(provider, ErrCodeRateLimitExceeded,
			"rate limit still exceeded after retries", ErrUpstreamUnavailable)
	case resp.StatusCode == http.StatusNotFound:
		return NewProviderError(provider, ErrCodeNotFound, url, ErrNotFound)
	case resp.StatusCode >= 500:
		return NewProviderError(provider, ErrCodeServerError,
			fmt.Sprintf("status %d", resp.StatusCode), ErrUpstreamUnavailable)
	default:
		return NewProviderError(provider, ErrCodeInvalidData,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), ErrUpstreamUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return NewProviderError(provider, ErrCodeInvalidData, "decode response",
			fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err))
	}
	return nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// rateLimitRetryPolicy retries transport errors and HTTP 429. All other
// HTTP failures propagate immediately as fatal for the call.
func rateLimitRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			return true, nil
		}
		return false, nil
	}
}

// linearBackoff waits min, 2*min, 3*min, ... between attempts.
func linearBackoff(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
	wait := min * time.Duration(attemptNum+1)
	if wait > max {
		return max
	}
	return wait
}
