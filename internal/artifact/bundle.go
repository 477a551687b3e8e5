// Package artifact persists the trained model bundle and the training report.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/features"
	"github.com/Manideep667320/Email-Spam-detection/internal/model"
	"github.com/Manideep667320/Email-Spam-detection/internal/vectorizer"
)

// Bundle is everything needed to reproduce inference exactly as trained.
// It is never mutated after Load; reloading builds a new Bundle.
type Bundle struct {
	Vectorizer       *vectorizer.TFIDF `json:"vectorizer"`
	Scaler           *features.Scaler  `json:"scaler"`
	Classifier       *model.Perceptron `json:"classifier"`
	LinkFeatureNames []string          `json:"link_feature_names"`

	// Version is a digest of the serialized bundle
	Version string `json:"-"`
}

// Width returns the combined feature width V + 5
func (b *Bundle) Width() int {
	return b.Vectorizer.Size() + features.LinkFeatureCount
}

// FeatureNames lists every column name: the vocabulary then the link features
func (b *Bundle) FeatureNames() []string {
	names := make([]string, 0, b.Width())
	names = append(names, b.Vectorizer.Terms...)
	return append(names, b.linkNames()...)
}

// linkNames returns LinkFeatureNames, or the defaults when none are set
func (b *Bundle) linkNames() []string {
	if len(b.LinkFeatureNames) == 0 {
		return features.DefaultLinkFeatureNames
	}
	return b.LinkFeatureNames
}

// Validate checks member presence and that every width agrees. It never
// modifies b, so it is safe on a bundle that is already serving.
func (b *Bundle) Validate() error {
	switch {
	case b.Vectorizer == nil:
		return fmt.Errorf("%w: artifact has no vectorizer", core.ErrModelUnavailable)
	case b.Scaler == nil:
		return fmt.Errorf("%w: artifact has no scaler", core.ErrModelUnavailable)
	case b.Classifier == nil:
		return fmt.Errorf("%w: artifact has no classifier", core.ErrModelUnavailable)
	}

	if err := b.Vectorizer.Validate(); err != nil {
		return fmt.Errorf("%w: invalid vectorizer: %v", core.ErrModelUnavailable, err)
	}
	if err := b.Classifier.Validate(); err != nil {
		return fmt.Errorf("%w: invalid classifier: %v", core.ErrModelUnavailable, err)
	}

	if n := len(b.linkNames()); n != features.LinkFeatureCount {
		return fmt.Errorf("link feature names: %w",
			&core.DimensionError{Expected: features.LinkFeatureCount, Actual: n})
	}
	if b.Scaler.Width() != features.LinkFeatureCount {
		return fmt.Errorf("scaler: %w",
			&core.DimensionError{Expected: features.LinkFeatureCount, Actual: b.Scaler.Width()})
	}
	if b.Classifier.Width() != b.Width() {
		return fmt.Errorf("classifier: %w",
			&core.DimensionError{Expected: b.Width(), Actual: b.Classifier.Width()})
	}
	return nil
}

// Save validates and writes the bundle atomically to path
func Save(path string, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid artifact: %w", err)
	}
	out := *b
	out.LinkFeatureNames = b.linkNames()
	data, err := json.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := writeAtomic(path, data); err != nil {
		return err
	}
	b.Version = digest(data)
	return nil
}

// Load reads and validates a bundle. A missing or unreadable file wraps
// core.ErrModelUnavailable.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: artifact %s not found", core.ErrModelUnavailable, path)
		}
		return nil, fmt.Errorf("%w: failed to read artifact %s: %v", core.ErrModelUnavailable, path, err)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: failed to decode artifact %s: %v", core.ErrModelUnavailable, path, err)
	}
	if b.Vectorizer != nil {
		if err := b.Vectorizer.Restore(); err != nil {
			return nil, fmt.Errorf("%w: invalid vectorizer: %v", core.ErrModelUnavailable, err)
		}
	}
	if len(b.LinkFeatureNames) == 0 {
		b.LinkFeatureNames = append([]string(nil), features.DefaultLinkFeatureNames...)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.Version = digest(data)
	return &b, nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:12]
}
