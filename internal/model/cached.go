package model

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/puckline/internal/features"
	"github.com/yourusername/puckline/internal/metrics"
)

// CachedPredictor wraps a Predictor with TTL caching keyed on the feature
// vector. Two matchups with identical features get the same prediction for
// the cache lifetime.
type CachedPredictor struct {
	inner  Predictor
	cache  *gocache.Cache
	logger *logrus.Logger
}

// NewCachedPredictor creates a caching wrapper around inner.
func NewCachedPredictor(inner Predictor, ttl time.Duration, logger *logrus.Logger) *CachedPredictor {
	return &CachedPredictor{
		inner:  inner,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Predict returns the cached prediction when present, otherwise delegates.
func (c *CachedPredictor) Predict(ctx context.Context, vec features.Vector) (Probabilities, error) {
	key := vectorKey(vec)

	if cached, ok := c.cache.Get(key); ok {
		metrics.ModelPredictionsTotal.WithLabelValues("true").Inc()
		c.logger.WithField("cache_key", key).Debug("Cache hit for prediction")
		return cached.(Probabilities), nil
	}

	probs, err := c.inner.Predict(ctx, vec)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, probs, gocache.DefaultExpiration)
	metrics.ModelPredictionsTotal.WithLabelValues("false").Inc()
	return probs, nil
}

// Flush drops all cached predictions.
func (c *CachedPredictor) Flush() {
	c.cache.Flush()
}

// vectorKey hashes the feature vector into a stable cache key. Column names
// are included so a layout change never aliases an old entry.
func vectorKey(vec features.Vector) string {
	payload, _ := json.Marshal(struct {
		Columns []string  `json:"c"`
		Values  []float64 `json:"v"`
	}{vec.Columns, vec.Values})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:16])
}
