// Package training fits the vocabulary, scaler and classifier from a
// labeled corpus and produces the artifact bundle and metrics report.
package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/adapters/corpus"
	"github.com/Manideep667320/Email-Spam-detection/internal/artifact"
	"github.com/Manideep667320/Email-Spam-detection/internal/features"
	"github.com/Manideep667320/Email-Spam-detection/internal/model"
	"github.com/Manideep667320/Email-Spam-detection/internal/sparse"
	"github.com/Manideep667320/Email-Spam-detection/internal/textproc"
	"github.com/Manideep667320/Email-Spam-detection/internal/vectorizer"
)

// Options configures a training run
type Options struct {
	TestSize    float64
	Seed        uint64
	TopFeatures int
	Vectorizer  vectorizer.Options
	Model       model.Options
}

// DefaultOptions returns the production training settings
func DefaultOptions() Options {
	return Options{
		TestSize:    0.2,
		Seed:        42,
		TopFeatures: 15,
		Vectorizer:  vectorizer.DefaultOptions(),
		Model:       model.DefaultOptions(),
	}
}

// Result is the outcome of a training run
type Result struct {
	Bundle    *artifact.Bundle
	Report    *artifact.Report
	TrainSize int
	TestSize  int
}

// Pipeline orchestrates corpus loading, fitting, evaluation and persistence
type Pipeline struct {
	loader     *corpus.Loader
	normalizer *textproc.Normalizer
	extractor  *features.LinkExtractor
	opts       Options
	logger     *zap.Logger
}

// NewPipeline creates a training pipeline
func NewPipeline(loader *corpus.Loader, normalizer *textproc.Normalizer, opts Options, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		loader:     loader,
		normalizer: normalizer,
		extractor:  features.NewLinkExtractor(),
		opts:       opts,
		logger:     logger,
	}
}

// Run loads the corpus under corpusDir, trains, and writes the bundle to
// artifactPath and the report to reportPath
func (p *Pipeline) Run(ctx context.Context, corpusDir, artifactPath, reportPath string) (*Result, error) {
	start := time.Now()

	docs, _, err := p.loader.Load(ctx, corpusDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	res, err := p.Train(ctx, docs)
	if err != nil {
		return nil, err
	}

	if err := artifact.Save(artifactPath, res.Bundle); err != nil {
		return nil, fmt.Errorf("failed to save artifact: %w", err)
	}
	if err := artifact.SaveReport(reportPath, res.Report); err != nil {
		return nil, fmt.Errorf("failed to save metrics report: %w", err)
	}

	p.logger.Info("Training complete",
		zap.String("artifact", artifactPath),
		zap.String("report", reportPath),
		zap.String("model_version", res.Bundle.Version),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// Train fits every component on docs and evaluates on a held-out split
func (p *Pipeline) Train(ctx context.Context, docs []corpus.Document) (*Result, error) {
	if len(docs) == 0 {
		return nil, errors.New("corpus is empty")
	}

	normalized := make([]string, len(docs))
	links := make([][]float64, len(docs))
	labels := make([]int, len(docs))
	for i, d := range docs {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		normalized[i] = p.normalizer.Normalize(d.Text)
		links[i] = p.extractor.Extract(d.Text).Values()
		labels[i] = int(d.Label)
	}

	vec, err := vectorizer.Fit(normalized, p.opts.Vectorizer)
	if err != nil {
		return nil, fmt.Errorf("failed to fit vocabulary: %w", err)
	}
	textRows := vec.TransformAll(normalized)
	p.logger.Info("Vectorized corpus",
		zap.Int("documents", len(docs)),
		zap.Int("vocabulary_size", vec.Size()),
		zap.Int("feature_width", vec.Size()+features.LinkFeatureCount))

	trainIdx, testIdx, err := StratifiedSplit(labels, p.opts.TestSize, p.opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to split corpus: %w", err)
	}

	trainLinks := make([][]float64, len(trainIdx))
	for i, idx := range trainIdx {
		trainLinks[i] = links[idx]
	}
	scaler, err := features.FitScaler(trainLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to fit scaler: %w", err)
	}

	trainRows, trainLabels, err := compose(trainIdx, textRows, links, labels, scaler)
	if err != nil {
		return nil, err
	}
	testRows, testLabels, err := compose(testIdx, textRows, links, labels, scaler)
	if err != nil {
		return nil, err
	}

	clf, err := model.Fit(trainRows, trainLabels, p.opts.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}
	if !clf.Converged {
		p.logger.Warn("Classifier reached max_iter before converging", zap.Int("max_iter", p.opts.Model.MaxIter))
	}

	predicted := make([]int, len(testRows))
	for i, row := range testRows {
		d, err := clf.Decide(row)
		if err != nil {
			return nil, fmt.Errorf("failed to score test row: %w", err)
		}
		predicted[i] = d.Class
	}
	cm, cr, err := Evaluate(testLabels, predicted)
	if err != nil {
		return nil, err
	}

	bundle := &artifact.Bundle{
		Vectorizer:       vec,
		Scaler:           scaler,
		Classifier:       clf,
		LinkFeatureNames: append([]string(nil), features.DefaultLinkFeatureNames...),
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("trained bundle is inconsistent: %w", err)
	}

	report := &artifact.Report{
		ConfusionMatrix:      cm,
		ClassificationReport: cr,
		FeatureImportance:    RankFeatures(clf.Coef, bundle.FeatureNames(), p.opts.TopFeatures),
	}

	p.logger.Info("Evaluated classifier",
		zap.Int("train_size", len(trainIdx)),
		zap.Int("test_size", len(testIdx)),
		zap.Int("epochs", clf.NIter),
		zap.Float64("accuracy", cr.Accuracy),
		zap.Float64("spam_f1", cr.Spam.F1),
		zap.Float64("ham_f1", cr.Ham.F1),
		zap.Any("confusion_matrix", cm))
	for _, fw := range report.FeatureImportance {
		p.logger.Debug("Feature weight",
			zap.String("type", fw.Type),
			zap.String("feature", fw.Feature),
			zap.Float64("weight", fw.Weight))
	}

	return &Result{
		Bundle:    bundle,
		Report:    report,
		TrainSize: len(trainIdx),
		TestSize:  len(testIdx),
	}, nil
}

func compose(idx []int, textRows []sparse.Vector, links [][]float64, labels []int, scaler *features.Scaler) ([]sparse.Vector, []int, error) {
	rows := make([]sparse.Vector, len(idx))
	ys := make([]int, len(idx))
	for i, j := range idx {
		row, err := features.ComposeRaw(textRows[j], links[j], scaler)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to compose row %d: %w", j, err)
		}
		rows[i] = row
		ys[i] = labels[j]
	}
	return rows, ys, nil
}
