package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/puckline/internal/features"
	"github.com/yourusername/puckline/internal/metrics"
	"github.com/yourusername/puckline/internal/models"
)

// classOutcomes is the training-time class label table. Labels outside this
// table fail the prediction.
var classOutcomes = map[string]models.Outcome{
	"0": models.OutcomeHome,
	"1": models.OutcomeDraw,
	"2": models.OutcomeAway,
}

// Probabilities holds one prediction as outcome probabilities.
type Probabilities map[models.Outcome]float64

// Predictor produces outcome probabilities for a feature vector.
type Predictor interface {
	Predict(ctx context.Context, vec features.Vector) (Probabilities, error)
}

// HTTPClient calls the model service over HTTP.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	logger  *logrus.Logger
}

// NewHTTPClient creates a new HTTP client for the model service.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		logger:  logger,
	}
}

type predictRequest struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

type predictResponse struct {
	Probabilities map[string]float64 `json:"probabilities"`
	ModelVersion  string             `json:"model_version"`
}

// Predict sends the feature vector to the model service and maps the class
// probabilities onto outcomes.
func (c *HTTPClient) Predict(ctx context.Context, vec features.Vector) (Probabilities, error) {
	start := time.Now()

	jsonData, err := json.Marshal(predictRequest{Columns: vec.Columns, Values: vec.Values})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/predict", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrModelUnavailable, resp.StatusCode, string(body))
	}

	var predResp predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}

	probs, err := mapClassLabels(predResp.Probabilities)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"model_version": predResp.ModelVersion,
		"duration":      time.Since(start),
	}).Debug("Prediction received")
	metrics.ModelPredictionLatency.Observe(time.Since(start).Seconds())

	return probs, nil
}

// mapClassLabels converts the model's label-keyed probabilities to outcomes.
func mapClassLabels(raw map[string]float64) (Probabilities, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty probabilities", ErrInvalidPrediction)
	}

	probs := make(Probabilities, len(raw))
	for label, p := range raw {
		outcome, ok := classOutcomes[label]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownClassLabel, label)
		}
		probs[outcome] = p
	}
	return probs, nil
}
