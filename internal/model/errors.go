// Package model provides the client for the trained game-outcome model
// served over HTTP.
package model

import "errors"

var (
	// ErrModelUnavailable indicates the model service is unreachable.
	ErrModelUnavailable = errors.New("model service unavailable")

	// ErrInvalidPrediction indicates the prediction response is malformed.
	ErrInvalidPrediction = errors.New("invalid prediction response")

	// ErrUnknownClassLabel indicates the model emitted a class label that is
	// not in the outcome table. This is fatal: silently dropping or remapping
	// a label would misprice every downstream value calculation.
	ErrUnknownClassLabel = errors.New("unknown class label in prediction")
)
