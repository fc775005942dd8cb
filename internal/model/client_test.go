package model

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/puckline/internal/features"
	"github.com/yourusername/puckline/internal/models"
)

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testVector() features.Vector {
	return features.Vector{
		Columns: []string{"home_gf_avg_5", "away_gf_avg_5"},
		Values:  []float64{3.2, 2.8},
	}
}

func TestPredictMapsClassLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/predict", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"probabilities": {"0": 0.55, "1": 0.10, "2": 0.35},
			"model_version": "v3"
		}`))
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, 2*time.Second, discardLogger())
	probs, err := c.Predict(context.Background(), testVector())

	require.NoError(t, err)
	assert.InDelta(t, 0.55, probs[models.OutcomeHome], 1e-9)
	assert.InDelta(t, 0.10, probs[models.OutcomeDraw], 1e-9)
	assert.InDelta(t, 0.35, probs[models.OutcomeAway], 1e-9)
}

func TestPredictRejectsUnknownClassLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"probabilities": {"0": 0.6, "3": 0.4}}`))
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, 2*time.Second, discardLogger())
	_, err := c.Predict(context.Background(), testVector())

	assert.ErrorIs(t, err, ErrUnknownClassLabel)
}

func TestPredictRejectsEmptyProbabilities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"probabilities": {}}`))
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, 2*time.Second, discardLogger())
	_, err := c.Predict(context.Background(), testVector())

	assert.ErrorIs(t, err, ErrInvalidPrediction)
}

func TestPredictServiceDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, 2*time.Second, discardLogger())
	_, err := c.Predict(context.Background(), testVector())

	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestCachedPredictorHitsCache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"probabilities": {"0": 0.5, "1": 0.2, "2": 0.3}}`))
	}))
	defer server.Close()

	cached := NewCachedPredictor(NewHTTPClient(server.URL, 2*time.Second, discardLogger()), time.Minute, discardLogger())

	first, err := cached.Predict(context.Background(), testVector())
	require.NoError(t, err)
	second, err := cached.Predict(context.Background(), testVector())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	other := features.Vector{
		Columns: []string{"home_gf_avg_5", "away_gf_avg_5"},
		Values:  []float64{1.0, 1.0},
	}
	_, err = cached.Predict(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "different features must miss the cache")
}
