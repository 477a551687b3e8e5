// Package inference serves predictions from a loaded artifact bundle.
package inference

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/artifact"
	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/features"
	"github.com/Manideep667320/Email-Spam-detection/internal/model"
	"github.com/Manideep667320/Email-Spam-detection/internal/sparse"
	"github.com/Manideep667320/Email-Spam-detection/internal/textproc"
)

// Service runs normalize -> vectorize -> extract -> compose -> decide -> score
// against the current bundle. The bundle pointer is swapped whole on reload,
// so concurrent Predict calls never see a partially replaced model.
type Service struct {
	normalizer *textproc.Normalizer
	extractor  *features.LinkExtractor
	bundle     atomic.Pointer[artifact.Bundle]
	logger     *zap.Logger
}

// NewService creates a service with no model loaded
func NewService(normalizer *textproc.Normalizer, logger *zap.Logger) *Service {
	return &Service{
		normalizer: normalizer,
		extractor:  features.NewLinkExtractor(),
		logger:     logger,
	}
}

// Load reads the artifact at path and makes it current. On failure the
// previously loaded bundle, if any, keeps serving.
func (s *Service) Load(path string) error {
	b, err := artifact.Load(path)
	if err != nil {
		return err
	}
	s.bundle.Store(b)
	s.logger.Info("Loaded model artifact",
		zap.String("path", path),
		zap.String("model_version", b.Version),
		zap.Int("vocabulary_size", b.Vectorizer.Size()),
		zap.Int("feature_width", b.Width()))
	return nil
}

// Reload is Load with logging suitable for a signal handler
func (s *Service) Reload(path string) error {
	previous := s.ModelVersion()
	if err := s.Load(path); err != nil {
		s.logger.Error("Model reload failed, keeping previous model",
			zap.String("path", path),
			zap.String("model_version", previous),
			zap.Error(err))
		return err
	}
	return nil
}

// Swap validates an in-memory bundle and makes it current
func (s *Service) Swap(b *artifact.Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.bundle.Store(b)
	return nil
}

// Available reports whether a model is loaded
func (s *Service) Available() bool {
	return s.bundle.Load() != nil
}

// ModelVersion returns the current bundle version, empty when none is loaded
func (s *Service) ModelVersion() string {
	if b := s.bundle.Load(); b != nil {
		return b.Version
	}
	return ""
}

// Predict classifies raw email text (subject, newline, body)
func (s *Service) Predict(text string) (*core.Prediction, error) {
	b := s.bundle.Load()
	if b == nil {
		return nil, core.ErrModelUnavailable
	}

	row, err := Vectorize(b, s.normalizer, s.extractor, text)
	if err != nil {
		return nil, err
	}

	decision, err := b.Classifier.Decide(row)
	if err != nil {
		return nil, fmt.Errorf("failed to score features: %w",
			&core.DimensionError{Expected: b.Classifier.Width(), Actual: row.Width})
	}
	label, err := core.LabelFromClass(decision.Class)
	if err != nil {
		return nil, err
	}

	confidence, ok := model.Score(decision.Margin)
	if ce := s.logger.Check(zap.DebugLevel, "Scored email"); ce != nil {
		vocab := b.Vectorizer.Size()
		ce.Write(
			zap.Int("matched_terms", row.Slice(0, vocab).NNZ()),
			zap.Float64s("scaled_link_features", row.Slice(vocab, b.Width()).Dense()),
			zap.Float64("margin", decision.Margin.Value),
			zap.Bool("margin_valid", decision.Margin.Valid))
	}
	return &core.Prediction{
		Label:        label,
		Confidence:   confidence,
		Degraded:     !ok,
		ModelVersion: b.Version,
	}, nil
}

// Vectorize builds the combined feature row for raw text using b's fitted
// vocabulary and scaler. The result is always exactly b.Width() wide.
func Vectorize(b *artifact.Bundle, normalizer *textproc.Normalizer, extractor *features.LinkExtractor, text string) (sparse.Vector, error) {
	textRow := b.Vectorizer.Transform(normalizer.Normalize(text))

	row, err := features.Compose(textRow, extractor.Extract(text), b.Scaler)
	if err != nil {
		return sparse.Vector{}, fmt.Errorf("failed to compose features: %w", err)
	}
	if row.Width != b.Classifier.Width() {
		return sparse.Vector{}, &core.DimensionError{Expected: b.Classifier.Width(), Actual: row.Width}
	}
	return row, nil
}
