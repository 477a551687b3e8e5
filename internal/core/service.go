package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/whitelist"
)

// SpamFilterService is the core service for spam detection
type SpamFilterService struct {
	classifier   Classifier
	cache        CacheRepository
	whitelist    *whitelist.Checker
	metrics      MetricsRecorder
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewSpamFilterService creates a new spam filter service. cache and metrics may be nil.
func NewSpamFilterService(
	classifier Classifier,
	cache CacheRepository,
	checker *whitelist.Checker,
	metrics MetricsRecorder,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *SpamFilterService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if checker == nil {
		checker = whitelist.NewChecker(nil, logger)
	}
	return &SpamFilterService{
		classifier:   classifier,
		cache:        cache,
		whitelist:    checker,
		metrics:      metrics,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil,
		cacheTTL:     cacheTTL,
	}
}

// Available reports whether the underlying classifier has a model loaded
func (s *SpamFilterService) Available() bool {
	return s.classifier.Available()
}

// ModelVersion returns the loaded model version
func (s *SpamFilterService) ModelVersion() string {
	return s.classifier.ModelVersion()
}

// AnalyzeEmail checks if an email is spam
func (s *SpamFilterService) AnalyzeEmail(ctx context.Context, email *Email) (*SpamAnalysisResult, error) {
	processingID := uuid.New().String()

	if s.whitelist.IsWhitelisted(email.From) {
		s.logger.Info("Skipping spam check for whitelisted domain",
			zap.String("sender", email.From),
			zap.String("processing_id", processingID),
			zap.String("action", "whitelist_bypass"))

		return &SpamAnalysisResult{
			IsSpam:       false,
			Label:        Ham,
			Confidence:   1.0,
			Explanation:  "Sender domain is whitelisted",
			AnalyzedAt:   time.Now(),
			ModelUsed:    "whitelist",
			ProcessingID: processingID,
		}, nil
	}

	prediction, err := s.ClassifyText(ctx, email.RawText())
	if err != nil {
		return nil, err
	}

	modelUsed := "perceptron"
	explanation := "Linear classifier verdict"
	if prediction.Cached {
		modelUsed = "cache"
		explanation = "Result from cache"
	}
	if prediction.Degraded {
		explanation += "; confidence unavailable, neutral value reported"
	}

	return &SpamAnalysisResult{
		IsSpam:       prediction.Label == Spam,
		Label:        prediction.Label,
		Confidence:   prediction.Confidence,
		Degraded:     prediction.Degraded,
		Explanation:  explanation,
		AnalyzedAt:   time.Now(),
		ModelUsed:    modelUsed,
		ModelVersion: prediction.ModelVersion,
		ProcessingID: processingID,
	}, nil
}

// ClassifyText predicts a label for raw email text, consulting the cache first
func (s *SpamFilterService) ClassifyText(ctx context.Context, text string) (*Prediction, error) {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		s.metrics.ObserveFailure("invalid_input")
		return nil, ErrInvalidInput
	}

	version := s.classifier.ModelVersion()
	key := CacheKey(version, text)

	if s.cacheEnabled && version != "" {
		entry, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			s.logger.Debug("Cache hit for prediction", zap.String("key", key))
			p := &Prediction{
				Label:        entry.Label,
				Confidence:   entry.Confidence,
				Degraded:     entry.Degraded,
				ModelVersion: version,
				Cached:       true,
			}
			s.metrics.ObservePrediction(p, "cache", time.Since(start))
			return p, nil
		case !errors.Is(err, ErrCacheMiss):
			s.logger.Warn("Cache lookup failed", zap.Error(err))
		}
	}

	p, err := s.classifier.Predict(text)
	if err != nil {
		switch {
		case errors.Is(err, ErrModelUnavailable):
			s.logger.Debug("Prediction requested without a loaded model")
			s.metrics.ObserveFailure("model_unavailable")
		case errors.Is(err, ErrFeatureDimensionMismatch):
			s.logger.Error("Feature dimension mismatch", zap.Error(err))
			s.metrics.ObserveFailure("dimension_mismatch")
		default:
			s.logger.Error("Prediction failed", zap.Error(err))
			s.metrics.ObserveFailure("error")
		}
		return nil, err
	}

	if p.Degraded {
		s.logger.Warn("Decision margin unavailable, using neutral confidence",
			zap.String("label", p.Label.String()))
	}
	s.metrics.ObservePrediction(p, "model", time.Since(start))

	if s.cacheEnabled && p.ModelVersion != "" {
		now := time.Now()
		entry := &CacheEntry{
			Key:        CacheKey(p.ModelVersion, text),
			Label:      p.Label,
			Confidence: p.Confidence,
			Degraded:   p.Degraded,
			CreatedAt:  now,
			ExpiresAt:  now.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return p, nil
}

// CacheKey namespaces a text digest by model version
func CacheKey(modelVersion, text string) string {
	sum := sha256.Sum256([]byte(text))
	return modelVersion + ":" + hex.EncodeToString(sum[:])
}
