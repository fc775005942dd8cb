package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	cfg := HTTPClientConfig{
		Timeout:      2 * time.Second,
		MaxRetries:   2,
		RetryWaitMin: time.Millisecond,
		RateLimit:    1000,
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(cfg, logger)
}

func TestGetJSONRetriesOn429(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":42}`))
	}))
	defer server.Close()

	var out struct {
		Value int `json:"value"`
	}
	err := newTestClient().GetJSON(context.Background(), "test", server.URL, &out)

	require.NoError(t, err)
	assert.Equal(t, 42, out.Value)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestGetJSONGivesUpAfterThreeAttempts(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	var out map[string]interface{}
	err := newTestClient().GetJSON(context.Background(), "test", server.URL, &out)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrCodeRateLimitExceeded, perr.Code)
}

func TestGetJSONDoesNotRetryServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var out map[string]interface{}
	err := newTestClient().GetJSON(context.Background(), "test", server.URL, &out)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrCodeServerError, perr.Code)
}

func TestGetJSONNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var out map[string]interface{}
	err := newTestClient().GetJSON(context.Background(), "test", server.URL, &out)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLinearBackoff(t *testing.T) {
	min := 500 * time.Millisecond
	max := 5 * time.Second

	assert.Equal(t, 500*time.Millisecond, linearBackoff(min, max, 0, nil))
	assert.Equal(t, 1000*time.Millisecond, linearBackoff(min, max, 1, nil))
	assert.Equal(t, 1500*time.Millisecond, linearBackoff(min, max, 2, nil))
	assert.Equal(t, max, linearBackoff(min, max, 100, nil))
}
