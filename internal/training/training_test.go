package training_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/adapters/corpus"
	"github.com/Manideep667320/Email-Spam-detection/internal/adapters/mailparse"
	"github.com/Manideep667320/Email-Spam-detection/internal/artifact"
	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/features"
	"github.com/Manideep667320/Email-Spam-detection/internal/inference"
	"github.com/Manideep667320/Email-Spam-detection/internal/textproc"
	"github.com/Manideep667320/Email-Spam-detection/internal/training"
)

func TestStratifiedSplit(t *testing.T) {
	labels := []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1}

	train, test, err := training.StratifiedSplit(labels, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, test, 3)
	assert.Len(t, train, 12)

	counts := map[int]int{}
	for _, i := range test {
		counts[labels[i]]++
	}
	assert.Equal(t, map[int]int{0: 2, 1: 1}, counts)

	all := append(append([]int(nil), train...), test...)
	sort.Ints(all)
	for i := range labels {
		assert.Equal(t, i, all[i])
	}

	train2, test2, err := training.StratifiedSplit(labels, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)
}

func TestStratifiedSplit_SmallClassStillOnBothSides(t *testing.T) {
	labels := []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1}

	train, test, err := training.StratifiedSplit(labels, 0.2, 7)
	require.NoError(t, err)

	seen := map[string]map[int]bool{"train": {}, "test": {}}
	for _, i := range train {
		seen["train"][labels[i]] = true
	}
	for _, i := range test {
		seen["test"][labels[i]] = true
	}
	assert.True(t, seen["train"][1])
	assert.True(t, seen["test"][1])
	assert.Len(t, test, 4)
}

func TestStratifiedSplit_Errors(t *testing.T) {
	_, _, err := training.StratifiedSplit([]int{0, 0, 0, 1}, 0.2, 42)
	assert.Error(t, err)

	_, _, err = training.StratifiedSplit([]int{0, 0, 1, 1}, 0, 42)
	assert.Error(t, err)

	_, _, err = training.StratifiedSplit([]int{0, 0, 1, 1}, 1.5, 42)
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	cm, report, err := training.Evaluate([]int{0, 0, 0, 1, 1}, []int{0, 1, 0, 1, 1})
	require.NoError(t, err)

	assert.Equal(t, [2][2]int{{2, 1}, {0, 2}}, cm)
	assert.InDelta(t, 1.0, report.Ham.Precision, 1e-12)
	assert.InDelta(t, 2.0/3.0, report.Ham.Recall, 1e-12)
	assert.InDelta(t, 0.8, report.Ham.F1, 1e-12)
	assert.Equal(t, 3, report.Ham.Support)
	assert.InDelta(t, 2.0/3.0, report.Spam.Precision, 1e-12)
	assert.InDelta(t, 1.0, report.Spam.Recall, 1e-12)
	assert.InDelta(t, 0.8, report.Accuracy, 1e-12)
	assert.InDelta(t, 5.0/6.0, report.MacroAvg.Precision, 1e-12)
	assert.InDelta(t, 0.6+0.4*2.0/3.0, report.WeightedAvg.Precision, 1e-12)
	assert.Equal(t, 5, report.WeightedAvg.Support)
}

func TestEvaluate_ZeroDivision(t *testing.T) {
	_, report, err := training.Evaluate([]int{0, 0}, []int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, artifact.ClassMetrics{}, report.Spam)
	assert.Equal(t, 1.0, report.Accuracy)

	_, _, err = training.Evaluate([]int{0}, []int{0, 1})
	assert.Error(t, err)
}

func TestRankFeatures(t *testing.T) {
	coef := []float64{0.5, -1, 2, 0, -1, 3}
	names := []string{"a", "b", "c", "d", "e", "f"}

	ranked := training.RankFeatures(coef, names, 2)
	assert.Equal(t, []artifact.FeatureWeight{
		{Feature: "f", Weight: 3, Type: "spam"},
		{Feature: "c", Weight: 2, Type: "spam"},
		{Feature: "b", Weight: -1, Type: "ham"},
		{Feature: "e", Weight: -1, Type: "ham"},
	}, ranked)

	assert.Len(t, training.RankFeatures(coef, names, 15), 12)
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	topics := []string{"budget", "schedule", "report", "review", "forecast", "agenda", "minutes", "roadmap", "contract", "invoice"}
	for i, topic := range topics {
		ham := fmt.Sprintf("Subject: project %s meeting\n\nHi team, please review the %s before the meeting on Monday.\nThanks, Sally", topic, topic)
		spam := fmt.Sprintf("Subject: WIN FREE MONEY now\n\nClaim your free cash prize %d today! urgent verify at http://bit.ly/offer%d or http://winner.ru", i, i)
		writeFile(t, filepath.Join(dir, "ham", fmt.Sprintf("ham_%02d.txt", i)), ham)
		writeFile(t, filepath.Join(dir, "spam", fmt.Sprintf("spam_%02d.txt", i)), spam)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newPipeline() (*training.Pipeline, *textproc.Normalizer) {
	normalizer := textproc.NewNormalizer(textproc.EnglishStopwords())
	loader := corpus.NewLoader(mailparse.NewParser(), 4, zap.NewNop())
	return training.NewPipeline(loader, normalizer, training.DefaultOptions(), zap.NewNop()), normalizer
}

func TestPipeline_RunAndRoundTrip(t *testing.T) {
	corpusDir := writeCorpus(t)
	out := t.TempDir()
	artifactPath := filepath.Join(out, "models", "perceptron_model.json")
	reportPath := filepath.Join(out, "results.json")

	pipeline, normalizer := newPipeline()
	res, err := pipeline.Run(context.Background(), corpusDir, artifactPath, reportPath)
	require.NoError(t, err)

	assert.Equal(t, 16, res.TrainSize)
	assert.Equal(t, 4, res.TestSize)
	assert.Equal(t, res.Bundle.Width(), res.Bundle.Classifier.Width())
	assert.Equal(t, features.DefaultLinkFeatureNames, res.Bundle.LinkFeatureNames)
	assert.Equal(t, 4, res.Report.ClassificationReport.WeightedAvg.Support)
	assert.Len(t, res.Report.FeatureImportance, 30)

	report, err := artifact.LoadReport(reportPath)
	require.NoError(t, err)
	assert.Equal(t, res.Report.ConfusionMatrix, report.ConfusionMatrix)

	svc := inference.NewService(normalizer, zap.NewNop())
	require.NoError(t, svc.Load(artifactPath))
	assert.Equal(t, res.Bundle.Version, svc.ModelVersion())

	docs, _, err := corpus.NewLoader(mailparse.NewParser(), 1, zap.NewNop()).Load(context.Background(), corpusDir)
	require.NoError(t, err)

	extractor := features.NewLinkExtractor()
	for _, d := range docs {
		row, err := inference.Vectorize(res.Bundle, normalizer, extractor, d.Text)
		require.NoError(t, err)
		inMemory, err := res.Bundle.Classifier.Decide(row)
		require.NoError(t, err)

		served, err := svc.Predict(d.Text)
		require.NoError(t, err)
		assert.Equal(t, inMemory.Class, int(served.Label), d.Path)
	}

	spam, err := svc.Predict("WIN FREE MONEY NOW http://bit.ly/abc123")
	require.NoError(t, err)
	assert.Equal(t, core.Spam, spam.Label)

	ham, err := svc.Predict("Meeting moved to 3pm, see you then.")
	require.NoError(t, err)
	assert.Equal(t, core.Ham, ham.Label)
	assert.GreaterOrEqual(t, ham.Confidence, 0.5)
}

func TestPipeline_Reproducible(t *testing.T) {
	corpusDir := writeCorpus(t)
	out := t.TempDir()

	p1, _ := newPipeline()
	a, err := p1.Run(context.Background(), corpusDir, filepath.Join(out, "a.json"), filepath.Join(out, "ra.json"))
	require.NoError(t, err)

	p2, _ := newPipeline()
	b, err := p2.Run(context.Background(), corpusDir, filepath.Join(out, "b.json"), filepath.Join(out, "rb.json"))
	require.NoError(t, err)

	assert.Equal(t, a.Bundle.Version, b.Bundle.Version)
}

func TestPipeline_Errors(t *testing.T) {
	pipeline, _ := newPipeline()

	_, err := pipeline.Train(context.Background(), nil)
	assert.Error(t, err)

	_, err = pipeline.Run(context.Background(), filepath.Join(t.TempDir(), "missing"), "a.json", "r.json")
	assert.Error(t, err)
}
