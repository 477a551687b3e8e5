package inference_test

import (
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Manideep667320/Email-Spam-detection/internal/artifact"
	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/features"
	"github.com/Manideep667320/Email-Spam-detection/internal/inference"
	"github.com/Manideep667320/Email-Spam-detection/internal/model"
	"github.com/Manideep667320/Email-Spam-detection/internal/textproc"
	"github.com/Manideep667320/Email-Spam-detection/internal/vectorizer"
)

func newService() *inference.Service {
	return inference.NewService(textproc.NewNormalizer(textproc.EnglishStopwords()), zap.NewNop())
}

// handBundle builds a bundle whose weights push "free" and shortener links
// toward spam and "meet" toward ham.
func handBundle(t *testing.T) *artifact.Bundle {
	t.Helper()
	n := textproc.NewNormalizer(textproc.EnglishStopwords())
	docs := []string{
		n.Normalize("Free money offer"),
		n.Normalize("free money prize"),
		n.Normalize("meeting agenda notes"),
		n.Normalize("meeting agenda review"),
	}
	vec, err := vectorizer.Fit(docs, vectorizer.DefaultOptions())
	require.NoError(t, err)

	column := func(term string) int {
		for i, tm := range vec.Terms {
			if tm == term {
				return i
			}
		}
		require.Failf(t, "term not in vocabulary", "%q not in %v", term, vec.Terms)
		return -1
	}

	coef := make([]float64, vec.Size()+features.LinkFeatureCount)
	coef[column("free")] = 3
	coef[column("meet")] = -3
	coef[vec.Size()+3] = 2 // shortener

	return &artifact.Bundle{
		Vectorizer: vec,
		Scaler:     &features.Scaler{Scale: []float64{1, 1, 1, 1, 1}},
		Classifier: &model.Perceptron{Coef: coef, Intercept: -0.1, Classes: []int{0, 1}},
		Version:    "test",
	}
}

func TestPredict_NoModel(t *testing.T) {
	svc := newService()
	assert.False(t, svc.Available())
	assert.Empty(t, svc.ModelVersion())

	_, err := svc.Predict("WIN FREE MONEY NOW http://bit.ly/abc123")
	assert.ErrorIs(t, err, core.ErrModelUnavailable)
}

func TestPredict(t *testing.T) {
	svc := newService()
	require.NoError(t, svc.Swap(handBundle(t)))
	assert.True(t, svc.Available())

	spam, err := svc.Predict("WIN FREE MONEY NOW http://bit.ly/abc123")
	require.NoError(t, err)
	assert.Equal(t, core.Spam, spam.Label)
	assert.Greater(t, spam.Confidence, 0.5)
	assert.LessOrEqual(t, spam.Confidence, 1.0)
	assert.False(t, spam.Degraded)
	assert.Equal(t, "test", spam.ModelVersion)

	ham, err := svc.Predict("Meeting moved to 3pm, see you then.")
	require.NoError(t, err)
	assert.Equal(t, core.Ham, ham.Label)
	assert.GreaterOrEqual(t, ham.Confidence, 0.5)
}

func TestPredict_EmptyTextUsesIntercept(t *testing.T) {
	svc := newService()
	require.NoError(t, svc.Swap(handBundle(t)))

	p, err := svc.Predict("")
	require.NoError(t, err)
	assert.Equal(t, core.Ham, p.Label)
	assert.InDelta(t, 1/(1+math.Exp(-0.1)), p.Confidence, 1e-12)
}

func TestPredict_DegradedMargin(t *testing.T) {
	b := handBundle(t)
	b.Classifier.Intercept = math.NaN()

	svc := newService()
	require.NoError(t, svc.Swap(b))

	p, err := svc.Predict("free money")
	require.NoError(t, err)
	assert.True(t, p.Degraded)
	assert.Equal(t, model.NeutralConfidence, p.Confidence)
}

func TestPredict_DebugLogging(t *testing.T) {
	observed, logs := observer.New(zap.DebugLevel)
	svc := inference.NewService(textproc.NewNormalizer(textproc.EnglishStopwords()), zap.New(observed))
	require.NoError(t, svc.Swap(handBundle(t)))

	_, err := svc.Predict("free money http://bit.ly/x")
	require.NoError(t, err)

	entries := logs.FilterMessage("Scored email").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 3, fields["matched_terms"])
	assert.Equal(t, []interface{}{1.0, 0.0, 0.0, 1.0, 0.0}, fields["scaled_link_features"])
}

func TestVectorize_FixedWidth(t *testing.T) {
	b := handBundle(t)
	require.NoError(t, b.Validate())
	n := textproc.NewNormalizer(textproc.EnglishStopwords())
	e := features.NewLinkExtractor()

	for _, text := range []string{"", "free", "zzz unseen words only", "verify at https://x.info\nurgent http://1.2.3.4"} {
		row, err := inference.Vectorize(b, n, e, text)
		require.NoError(t, err)
		assert.Equal(t, b.Width(), row.Width)
	}
}

func TestSwap_RejectsMismatchedBundle(t *testing.T) {
	svc := newService()
	good := handBundle(t)
	require.NoError(t, svc.Swap(good))

	bad := handBundle(t)
	bad.Version = "bad"
	bad.Classifier.Coef = append(bad.Classifier.Coef, 1)
	assert.ErrorIs(t, svc.Swap(bad), core.ErrFeatureDimensionMismatch)
	assert.Equal(t, "test", svc.ModelVersion())
}

func TestSwap_CurrentBundleWhileServing(t *testing.T) {
	svc := newService()
	current := handBundle(t)
	require.NoError(t, svc.Swap(current))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := svc.Predict("free money http://bit.ly/x")
				assert.NoError(t, err)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		assert.NoError(t, svc.Swap(current))
	}
	wg.Wait()
	assert.Nil(t, current.LinkFeatureNames)
}

func TestLoadAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")

	svc := newService()
	assert.ErrorIs(t, svc.Load(path), core.ErrModelUnavailable)
	assert.False(t, svc.Available())

	require.NoError(t, artifact.Save(path, handBundle(t)))
	require.NoError(t, svc.Load(path))
	first := svc.ModelVersion()
	assert.NotEmpty(t, first)

	// a failed reload keeps the current model
	assert.Error(t, svc.Reload(filepath.Join(dir, "missing.json")))
	assert.Equal(t, first, svc.ModelVersion())

	changed := handBundle(t)
	changed.Classifier.Intercept = 0.5
	require.NoError(t, artifact.Save(path, changed))
	require.NoError(t, svc.Reload(path))
	assert.NotEqual(t, first, svc.ModelVersion())
}

func TestPredict_ConcurrentWithReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, artifact.Save(path, handBundle(t)))

	svc := newService()
	require.NoError(t, svc.Load(path))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				p, err := svc.Predict("free money http://bit.ly/x")
				if assert.NoError(t, err) {
					assert.Equal(t, core.Spam, p.Label)
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		assert.NoError(t, svc.Reload(path))
	}
	wg.Wait()
}
