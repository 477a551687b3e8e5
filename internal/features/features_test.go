package features_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manideep667320/Email-Spam-detection/internal/features"
	"github.com/Manideep667320/Email-Spam-detection/internal/sparse"
)

func TestLinkExtractor_Extract(t *testing.T) {
	e := features.NewLinkExtractor()

	testCases := []struct {
		name     string
		input    string
		expected features.LinkFeatures
	}{
		{
			name:     "shortener url",
			input:    "WIN FREE MONEY NOW http://bit.ly/abc123",
			expected: features.LinkFeatures{URLCount: 1, ShortenerCount: 1},
		},
		{
			name:     "verify with suspicious tld",
			input:    "Please verify your account at https://secure-bank.info",
			expected: features.LinkFeatures{URLCount: 1, SuspiciousTLDCount: 1, VerifyUrgentCount: 1},
		},
		{
			name:     "no links",
			input:    "Meeting moved to 3pm, see you then.",
			expected: features.LinkFeatures{},
		},
		{
			name:     "ip url",
			input:    "login at http://192.168.0.1/admin now",
			expected: features.LinkFeatures{URLCount: 1, IPURLCount: 1},
		},
		{
			name:     "trailing punctuation defeats tld match",
			input:    "see http://example.ru.",
			expected: features.LinkFeatures{URLCount: 1},
		},
		{
			name:     "keyword matching is case sensitive",
			input:    "URGENT: Verify at http://example.com",
			expected: features.LinkFeatures{URLCount: 1},
		},
		{
			name:     "several keywords and urls on one line count once",
			input:    "verify http://a.com then urgent http://b.tk",
			expected: features.LinkFeatures{URLCount: 2, SuspiciousTLDCount: 1, VerifyUrgentCount: 1},
		},
		{
			name:     "keywords on separate lines count separately",
			input:    "verify http://a.com\nurgent https://tinyurl.com/x",
			expected: features.LinkFeatures{URLCount: 2, ShortenerCount: 1, VerifyUrgentCount: 2},
		},
		{
			name:     "keyword after the last url on a line",
			input:    "http://a.com verify",
			expected: features.LinkFeatures{URLCount: 1},
		},
		{
			name:     "keyword and url split across lines",
			input:    "please verify\nhttp://a.com",
			expected: features.LinkFeatures{URLCount: 1},
		},
		{
			name:     "shortener counted once per url",
			input:    "https://bit.ly/goo.gl",
			expected: features.LinkFeatures{URLCount: 1, ShortenerCount: 1},
		},
		{
			name:     "url stops at non breaking space",
			input:    "https://x.cn\u00a0more",
			expected: features.LinkFeatures{URLCount: 1, SuspiciousTLDCount: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, e.Extract(tc.input))
		})
	}
}

func TestLinkExtractor_Deterministic(t *testing.T) {
	e := features.NewLinkExtractor()
	input := "urgent http://1.2.3.4/x http://goo.gl/y"
	assert.Equal(t, e.Extract(input), e.Extract(input))
}

func TestLinkFeatures_ValuesOrder(t *testing.T) {
	f := features.LinkFeatures{URLCount: 1, IPURLCount: 2, SuspiciousTLDCount: 3, ShortenerCount: 4, VerifyUrgentCount: 5}
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, f.Values())
	assert.Len(t, features.DefaultLinkFeatureNames, features.LinkFeatureCount)
}

func TestFitScaler(t *testing.T) {
	rows := [][]float64{
		{0, 2, 5, 0, 1},
		{2, 2, 5, 0, 3},
		{4, 2, 5, 0, 5},
	}

	s, err := features.FitScaler(rows)
	require.NoError(t, err)
	assert.Equal(t, 3, s.NSamplesSeen)
	assert.InDelta(t, 2.0, s.Mean[0], 1e-12)
	assert.InDelta(t, 8.0/3.0, s.Var[0], 1e-12)
	assert.InDelta(t, 1.632993161855452, s.Scale[0], 1e-12)
	// constant columns fall back to unit scale
	assert.Equal(t, 1.0, s.Scale[1])
	assert.Equal(t, 1.0, s.Scale[2])
	assert.Equal(t, 1.0, s.Scale[3])

	out, err := s.Transform([]float64{4, 2, 5, 0, 5})
	require.NoError(t, err)
	assert.InDelta(t, 4/1.632993161855452, out[0], 1e-12)
	assert.Equal(t, 2.0, out[1])

	_, err = s.Transform([]float64{1})
	assert.Error(t, err)
}

func TestFitScaler_Errors(t *testing.T) {
	_, err := features.FitScaler(nil)
	assert.Error(t, err)

	_, err = features.FitScaler([][]float64{{1, 2}, {1}})
	assert.Error(t, err)
}

func TestCompose(t *testing.T) {
	scaler := &features.Scaler{Scale: []float64{2, 1, 1, 1, 4}}
	text := sparse.FromDense([]float64{0, 0.6, 0, 0.8})

	out, err := features.Compose(text, features.LinkFeatures{URLCount: 4, VerifyUrgentCount: 2}, scaler)
	require.NoError(t, err)

	assert.Equal(t, 4+features.LinkFeatureCount, out.Width)
	assert.Equal(t, []float64{0, 0.6, 0, 0.8, 2, 0, 0, 0, 0.5}, out.Dense())
}

func TestCompose_EmptyTextKeepsWidth(t *testing.T) {
	scaler := &features.Scaler{Scale: []float64{1, 1, 1, 1, 1}}
	text := sparse.New(7, nil)

	out, err := features.Compose(text, features.LinkFeatures{}, scaler)
	require.NoError(t, err)
	assert.Equal(t, 12, out.Width)
	assert.Equal(t, 0, out.NNZ())
}

func TestComposeRaw_WrongLinkWidth(t *testing.T) {
	scaler := &features.Scaler{Scale: []float64{1, 1, 1, 1, 1}}
	_, err := features.ComposeRaw(sparse.New(2, nil), []float64{1, 2}, scaler)
	assert.Error(t, err)
}
