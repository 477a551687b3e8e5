package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/whitelist"
)

type fakeClassifier struct {
	prediction *core.Prediction
	err        error
	calls      int
	lastText   string
}

func (f *fakeClassifier) Predict(text string) (*core.Prediction, error) {
	f.calls++
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	p := *f.prediction
	return &p, nil
}

func (f *fakeClassifier) ModelVersion() string {
	if f.prediction == nil {
		return ""
	}
	return f.prediction.ModelVersion
}

func (f *fakeClassifier) Available() bool { return f.err == nil }

type mapCache struct {
	mu      sync.Mutex
	entries map[string]*core.CacheEntry
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*core.CacheEntry)}
}

func (c *mapCache) Get(_ context.Context, key string) (*core.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, core.ErrCacheMiss
	}
	return e, nil
}

func (c *mapCache) Set(_ context.Context, e *core.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.Key] = e
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *mapCache) Cleanup(context.Context) error { return nil }

type recorder struct {
	sources  []string
	failures []string
}

func (r *recorder) ObservePrediction(_ *core.Prediction, source string, _ time.Duration) {
	r.sources = append(r.sources, source)
}

func (r *recorder) ObserveFailure(reason string) {
	r.failures = append(r.failures, reason)
}

func spamPrediction() *core.Prediction {
	return &core.Prediction{Label: core.Spam, Confidence: 0.9, ModelVersion: "abc123"}
}

func TestClassifyText_RejectsEmptyInput(t *testing.T) {
	clf := &fakeClassifier{prediction: spamPrediction()}
	rec := &recorder{}
	svc := core.NewSpamFilterService(clf, nil, nil, rec, zap.NewNop(), false, time.Hour)

	for _, text := range []string{"", "   \n\t"} {
		_, err := svc.ClassifyText(context.Background(), text)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	}
	assert.Equal(t, 0, clf.calls)
	assert.Equal(t, []string{"invalid_input", "invalid_input"}, rec.failures)
}

func TestClassifyText_ModelUnavailable(t *testing.T) {
	clf := &fakeClassifier{err: core.ErrModelUnavailable}
	rec := &recorder{}
	svc := core.NewSpamFilterService(clf, newMapCache(), nil, rec, zap.NewNop(), true, time.Hour)

	_, err := svc.ClassifyText(context.Background(), "hello there")
	assert.ErrorIs(t, err, core.ErrModelUnavailable)
	assert.Equal(t, []string{"model_unavailable"}, rec.failures)

	// the service keeps answering
	_, err = svc.ClassifyText(context.Background(), "hello again")
	assert.ErrorIs(t, err, core.ErrModelUnavailable)
}

func TestClassifyText_DimensionMismatchSurfaces(t *testing.T) {
	clf := &fakeClassifier{err: &core.DimensionError{Expected: 10, Actual: 7}}
	svc := core.NewSpamFilterService(clf, nil, nil, nil, zap.NewNop(), false, time.Hour)

	_, err := svc.ClassifyText(context.Background(), "hello")
	assert.ErrorIs(t, err, core.ErrFeatureDimensionMismatch)

	var dimErr *core.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 10, dimErr.Expected)
}

func TestClassifyText_UsesCache(t *testing.T) {
	clf := &fakeClassifier{prediction: spamPrediction()}
	cache := newMapCache()
	rec := &recorder{}
	svc := core.NewSpamFilterService(clf, cache, nil, rec, zap.NewNop(), true, time.Hour)

	first, err := svc.ClassifyText(context.Background(), "win money")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.ClassifyText(context.Background(), "win money")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, core.Spam, second.Label)
	assert.Equal(t, 0.9, second.Confidence)

	assert.Equal(t, 1, clf.calls)
	assert.Equal(t, []string{"model", "cache"}, rec.sources)
	assert.Contains(t, cache.entries, core.CacheKey("abc123", "win money"))
}

func TestClassifyText_CacheKeyedByModelVersion(t *testing.T) {
	clf := &fakeClassifier{prediction: spamPrediction()}
	svc := core.NewSpamFilterService(clf, newMapCache(), nil, nil, zap.NewNop(), true, time.Hour)

	_, err := svc.ClassifyText(context.Background(), "win money")
	require.NoError(t, err)

	clf.prediction = &core.Prediction{Label: core.Ham, Confidence: 0.6, ModelVersion: "def456"}
	p, err := svc.ClassifyText(context.Background(), "win money")
	require.NoError(t, err)
	assert.False(t, p.Cached)
	assert.Equal(t, core.Ham, p.Label)
	assert.Equal(t, 2, clf.calls)
}

func TestAnalyzeEmail(t *testing.T) {
	clf := &fakeClassifier{prediction: spamPrediction()}
	checker := whitelist.NewChecker([]string{"trusted.org"}, zap.NewNop())
	svc := core.NewSpamFilterService(clf, nil, checker, nil, zap.NewNop(), false, time.Hour)

	email := &core.Email{From: "a@spammer.biz", Subject: "WIN", Body: "FREE MONEY"}
	res, err := svc.AnalyzeEmail(context.Background(), email)
	require.NoError(t, err)
	assert.True(t, res.IsSpam)
	assert.Equal(t, "perceptron", res.ModelUsed)
	assert.Equal(t, "abc123", res.ModelVersion)
	assert.NotEmpty(t, res.ProcessingID)
	assert.Equal(t, "WIN\nFREE MONEY", clf.lastText)

	whitelisted := &core.Email{From: "boss@Trusted.org", Subject: "WIN", Body: "FREE MONEY"}
	res, err = svc.AnalyzeEmail(context.Background(), whitelisted)
	require.NoError(t, err)
	assert.False(t, res.IsSpam)
	assert.Equal(t, "whitelist", res.ModelUsed)
	assert.Equal(t, 1, clf.calls)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Spam", core.Spam.String())
	assert.Equal(t, "Ham", core.Ham.String())

	l, err := core.LabelFromClass(1)
	require.NoError(t, err)
	assert.Equal(t, core.Spam, l)

	l, err = core.LabelFromClass(0)
	require.NoError(t, err)
	assert.Equal(t, core.Ham, l)

	_, err = core.LabelFromClass(2)
	assert.Error(t, err)
}
