package factory

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/adapters/corpus"
	"github.com/Manideep667320/Email-Spam-detection/internal/adapters/mailparse"
	"github.com/Manideep667320/Email-Spam-detection/internal/config"
	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/inference"
	"github.com/Manideep667320/Email-Spam-detection/internal/textproc"
	"github.com/Manideep667320/Email-Spam-detection/internal/training"
)

// ModelFactory creates the inference service and training pipeline
type ModelFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewModelFactory creates a new ModelFactory
func NewModelFactory(cfg *config.Config, logger *zap.Logger) *ModelFactory {
	return &ModelFactory{cfg: cfg, logger: logger}
}

// CreateInferenceService loads model.artifact_path. A missing or broken
// artifact is logged and leaves the service unavailable rather than
// failing startup, so a later reload can bring it up.
func (f *ModelFactory) CreateInferenceService(normalizer *textproc.Normalizer) *inference.Service {
	svc := inference.NewService(normalizer, f.logger)
	path := f.cfg.GetModel().ArtifactPath

	if err := svc.Load(path); err != nil {
		fields := []zap.Field{zap.String("path", path), zap.Error(err)}
		if errors.Is(err, core.ErrFeatureDimensionMismatch) {
			f.logger.Error("Model artifact is inconsistent, predictions disabled", fields...)
		} else {
			f.logger.Error("Model not loaded, predictions disabled until the artifact is trained", fields...)
		}
	}
	return svc
}

// CreatePipeline creates a training pipeline from the training section
func (f *ModelFactory) CreatePipeline(parser *mailparse.Parser, normalizer *textproc.Normalizer) *training.Pipeline {
	trainCfg := f.cfg.GetTraining()
	loader := corpus.NewLoader(parser, trainCfg.Workers, f.logger)
	return training.NewPipeline(loader, normalizer, trainCfg.Options, f.logger)
}
