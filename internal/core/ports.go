package core

import (
	"context"
	"time"
)

// Classifier predicts a label for raw email text
type Classifier interface {
	// Predict runs the full feature pipeline on text
	Predict(text string) (*Prediction, error)

	// ModelVersion identifies the loaded artifact, empty when none is loaded
	ModelVersion() string

	// Available reports whether an artifact is loaded
	Available() bool
}

// CacheRepository defines the interface for caching predictions
type CacheRepository interface {
	// Get retrieves a live entry, or ErrCacheMiss
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// MetricsRecorder receives prediction outcomes
type MetricsRecorder interface {
	ObservePrediction(p *Prediction, source string, elapsed time.Duration)
	ObserveFailure(reason string)
}

type nopMetrics struct{}

func (nopMetrics) ObservePrediction(*Prediction, string, time.Duration) {}
func (nopMetrics) ObserveFailure(string)                                {}
