// Package vectorizer implements the bag-of-n-grams TF-IDF vocabulary model.
//
// Tokens are runs of two or more word characters. Fit counts unigrams and
// bigrams, prunes by document frequency, caps the vocabulary by corpus count
// and computes smoothed IDF weights. Transform L2-normalizes each row. After
// Fit the model is immutable; Transform never changes the vocabulary and
// silently drops unknown terms.
package vectorizer

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Manideep667320/Email-Spam-detection/internal/sparse"
)

var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// ErrEmptyVocabulary is returned when pruning leaves no terms
var ErrEmptyVocabulary = errors.New("no terms remain after pruning; lower min_df or use a larger corpus")

// Options controls vocabulary construction
type Options struct {
	MinN        int `json:"min_n"`
	MaxN        int `json:"max_n"`
	MinDF       int `json:"min_df"`
	MaxFeatures int `json:"max_features"`
}

// DefaultOptions returns unigram+bigram, min_df=2, 10000 features
func DefaultOptions() Options {
	return Options{MinN: 1, MaxN: 2, MinDF: 2, MaxFeatures: 10000}
}

// TFIDF is a fitted vocabulary with inverse document frequencies.
// Terms[i] is the n-gram of column i; IDF[i] is its weight.
type TFIDF struct {
	Options Options   `json:"options"`
	Terms   []string  `json:"vocabulary"`
	IDF     []float64 `json:"idf"`

	index map[string]int
}

// Fit learns the vocabulary and IDF weights from docs
func Fit(docs []string, opts Options) (*TFIDF, error) {
	if opts.MinN < 1 || opts.MaxN < opts.MinN {
		return nil, fmt.Errorf("invalid n-gram range (%d, %d)", opts.MinN, opts.MaxN)
	}
	if len(docs) == 0 {
		return nil, errors.New("cannot fit vocabulary on zero documents")
	}

	docFreq := make(map[string]int)
	termCount := make(map[string]int)
	for _, doc := range docs {
		counts := countNGrams(doc, opts)
		for term, c := range counts {
			docFreq[term]++
			termCount[term] += c
		}
	}

	minDF := opts.MinDF
	if minDF < 1 {
		minDF = 1
	}
	terms := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= minDF {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}
	sort.Strings(terms)

	if opts.MaxFeatures > 0 && len(terms) > opts.MaxFeatures {
		// terms is alphabetical, so the stable sort breaks count ties alphabetically
		sort.SliceStable(terms, func(i, j int) bool {
			return termCount[terms[i]] > termCount[terms[j]]
		})
		terms = terms[:opts.MaxFeatures]
		sort.Strings(terms)
	}

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	m := &TFIDF{Options: opts, Terms: terms, IDF: idf}
	m.buildIndex()
	return m, nil
}

// Restore rebuilds the lookup index of a deserialized model and validates
// it. It must be called before the model is shared.
func (m *TFIDF) Restore() error {
	if err := m.checkShape(); err != nil {
		return err
	}
	m.buildIndex()
	return m.Validate()
}

// Validate checks the model without modifying it
func (m *TFIDF) Validate() error {
	if err := m.checkShape(); err != nil {
		return err
	}
	if len(m.index) != len(m.Terms) {
		return errors.New("vocabulary contains duplicate terms or its index was not built")
	}
	for i, term := range m.Terms {
		if m.index[term] != i {
			return fmt.Errorf("vocabulary index disagrees with term %q", term)
		}
	}
	return nil
}

func (m *TFIDF) checkShape() error {
	if len(m.Terms) != len(m.IDF) {
		return fmt.Errorf("vocabulary has %d terms but %d idf weights", len(m.Terms), len(m.IDF))
	}
	if len(m.Terms) == 0 {
		return ErrEmptyVocabulary
	}
	return nil
}

func (m *TFIDF) buildIndex() {
	m.index = make(map[string]int, len(m.Terms))
	for i, term := range m.Terms {
		m.index[term] = i
	}
}

// Size returns the vocabulary size V
func (m *TFIDF) Size() int {
	return len(m.Terms)
}

// Transform maps one normalized document to an L2-normalized TF-IDF row
func (m *TFIDF) Transform(doc string) sparse.Vector {
	counts := countNGrams(doc, m.Options)

	entries := make(map[int]float64, len(counts))
	var norm float64
	for term, c := range counts {
		col, ok := m.index[term]
		if !ok {
			continue
		}
		w := float64(c) * m.IDF[col]
		entries[col] = w
		norm += w * w
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range entries {
			entries[col] /= norm
		}
	}

	return sparse.New(len(m.Terms), entries)
}

// TransformAll maps every document
func (m *TFIDF) TransformAll(docs []string) []sparse.Vector {
	rows := make([]sparse.Vector, len(docs))
	for i, doc := range docs {
		rows[i] = m.Transform(doc)
	}
	return rows
}

func countNGrams(doc string, opts Options) map[string]int {
	tokens := tokenPattern.FindAllString(strings.ToLower(doc), -1)

	counts := make(map[string]int)
	for n := opts.MinN; n <= opts.MaxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			counts[strings.Join(tokens[i:i+n], " ")]++
		}
	}
	return counts
}
