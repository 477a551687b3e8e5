package features

import (
	"fmt"

	"github.com/Manideep667320/Email-Spam-detection/internal/sparse"
)

// Compose scales the link block and appends it after the text block:
// [text columns | scaled link columns]. The text block is never scaled.
func Compose(text sparse.Vector, links LinkFeatures, scaler *Scaler) (sparse.Vector, error) {
	return ComposeRaw(text, links.Values(), scaler)
}

// ComposeRaw is Compose for an already materialized link row
func ComposeRaw(text sparse.Vector, links []float64, scaler *Scaler) (sparse.Vector, error) {
	if len(links) != LinkFeatureCount {
		return sparse.Vector{}, fmt.Errorf("expected %d link features, got %d", LinkFeatureCount, len(links))
	}
	scaled, err := scaler.Transform(links)
	if err != nil {
		return sparse.Vector{}, fmt.Errorf("failed to scale link features: %w", err)
	}
	return sparse.Concat(text, sparse.FromDense(scaled)), nil
}
