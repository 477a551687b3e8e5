package factory

import (
	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/config"
	"github.com/Manideep667320/Email-Spam-detection/internal/textproc"
	"github.com/Manideep667320/Email-Spam-detection/internal/utils"
)

// TextProcessorFactory creates text processors
type TextProcessorFactory struct {
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new TextProcessorFactory
func NewTextProcessorFactory(logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *TextProcessorFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}

// NormalizerFactory builds the text normalizer shared by training and serving
type NormalizerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNormalizerFactory creates a new NormalizerFactory
func NewNormalizerFactory(cfg *config.Config, logger *zap.Logger) *NormalizerFactory {
	return &NormalizerFactory{cfg: cfg, logger: logger}
}

// CreateNormalizer loads text.stopwords_path, or the built-in English list
// when it is empty
func (f *NormalizerFactory) CreateNormalizer() (*textproc.Normalizer, error) {
	path := f.cfg.GetModel().StopwordsPath
	if path == "" {
		return textproc.NewNormalizer(textproc.EnglishStopwords()), nil
	}

	stopwords, err := textproc.LoadStopwords(path)
	if err != nil {
		return nil, err
	}
	f.logger.Info("Loaded stopwords", zap.String("path", path), zap.Int("count", len(stopwords)))
	return textproc.NewNormalizer(stopwords), nil
}
