package textproc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manideep667320/Email-Spam-detection/internal/textproc"
)

func TestNormalize(t *testing.T) {
	n := textproc.NewNormalizer(textproc.EnglishStopwords())

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "stopwords dropped and words stemmed",
			input:    "Meeting moved to 3pm, see you then.",
			expected: "meet move 3pm see",
		},
		{
			name:     "html tags removed before punctuation",
			input:    "<p>Hello <b>World</b>!!</p>",
			expected: "hello world",
		},
		{
			name:     "url punctuation becomes separators",
			input:    "http://bit.ly/abc123",
			expected: "http bit ly abc123",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only stopwords",
			input:    "The and of THE",
			expected: "",
		},
		{
			name:     "non ascii letters become separators",
			input:    "café bar",
			expected: "caf bar",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, n.Normalize(tc.input))
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := textproc.NewNormalizer(textproc.EnglishStopwords())
	input := "URGENT: Verify your <a href='x'>account</a> now!!! Winning winners win."

	first := n.Normalize(input)
	n.Normalize("something unrelated in between")
	second := n.Normalize(input)

	assert.Equal(t, first, second)
}

func TestNormalize_NilStopwords(t *testing.T) {
	n := textproc.NewNormalizer(nil)
	assert.Equal(t, "the cat", n.Normalize("The cat"))
}

func TestNormalize_InvalidUTF8(t *testing.T) {
	n := textproc.NewNormalizer(textproc.EnglishStopwords())
	assert.Equal(t, "abc def", n.Normalize("abc\xffdef"))
}

func TestLoadStopwords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "english")
	require.NoError(t, os.WriteFile(path, []byte("a\n  the \n\nfree\n"), 0o644))

	set, err := textproc.LoadStopwords(path)
	require.NoError(t, err)
	assert.Len(t, set, 3)
	assert.True(t, set.Contains("the"))
	assert.True(t, set.Contains("free"))

	n := textproc.NewNormalizer(set)
	assert.Equal(t, "money", n.Normalize("free money"))
}

func TestLoadStopwords_Missing(t *testing.T) {
	_, err := textproc.LoadStopwords(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestEnglishStopwords(t *testing.T) {
	set := textproc.EnglishStopwords()
	assert.Len(t, set, 179)
	assert.True(t, set.Contains("you"))
	assert.False(t, set.Contains("money"))
}

func TestIsSpace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\n', '\v', 0x1c, 0xa0, 0x2003, 0x3000} {
		assert.True(t, textproc.IsSpace(r), "%U", r)
	}
	for _, r := range []rune{'a', '0', '_', 0x200b} {
		assert.False(t, textproc.IsSpace(r), "%U", r)
	}
}
