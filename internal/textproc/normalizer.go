// Package textproc turns raw email text into the normalized token stream
// consumed by the vocabulary model. The same Normalizer configuration must be
// used at training and at serving time.
package textproc

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// Normalizer lowercases, strips markup and punctuation, removes stopwords
// and stems what is left. It holds no mutable state and is safe for
// concurrent use.
type Normalizer struct {
	stopwords StopwordSet
}

// NewNormalizer creates a normalizer with a resolved stopword set.
// A nil set disables stopword removal.
func NewNormalizer(stopwords StopwordSet) *Normalizer {
	if stopwords == nil {
		stopwords = StopwordSet{}
	}
	return &Normalizer{stopwords: stopwords}
}

// Normalize returns the space-joined stemmed tokens of text
func (n *Normalizer) Normalize(text string) string {
	tokens := n.Tokens(text)
	return strings.Join(tokens, " ")
}

// Tokens returns the stemmed tokens of text in order
func (n *Normalizer) Tokens(text string) []string {
	text = strings.ToLower(text)
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = strings.Map(keepAlphanumeric, text)

	fields := strings.FieldsFunc(text, IsSpace)
	tokens := make([]string, 0, len(fields))
	for _, word := range fields {
		if n.stopwords.Contains(word) {
			continue
		}
		tokens = append(tokens, stem(word))
	}
	return tokens
}

func stem(word string) string {
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil {
		return word
	}
	return stemmed
}

// keepAlphanumeric maps every rune outside [a-z0-9] and whitespace to a space.
// Invalid UTF-8 arrives here as utf8.RuneError and is replaced as well.
func keepAlphanumeric(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return r
	case IsSpace(r):
		return r
	default:
		return ' '
	}
}

// IsSpace reports whether r is whitespace for tokenization. It differs from
// unicode.IsSpace by also treating the separators U+001C..U+001F as space.
// Changing this set changes token boundaries and requires retraining.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x1c, 0x1d, 0x1e, 0x1f,
		0x85, 0xa0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000:
		return true
	}
	return r >= 0x2000 && r <= 0x200a
}
