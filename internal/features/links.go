// Package features derives the dense link-risk signals from raw email text,
// scales them, and composes them with the sparse text block.
package features

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// LinkFeatureCount is the fixed width of the link feature block
const LinkFeatureCount = 5

// DefaultLinkFeatureNames names the link columns in their fixed order
var DefaultLinkFeatureNames = []string{"url_count", "ip_url_count", "suspicious_tld", "shortener", "verify_urgent"}

// nonSpace matches one rune outside the whitespace set used by the text normalizer
const nonSpace = `[^\t\n\v\f\r\x{1c}-\x{1f} \x{85}\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}]`

var (
	urlPattern     = regexp.MustCompile(`https?://` + nonSpace + `+`)
	ipURLPattern   = regexp.MustCompile(`^https?://\d+\.\d+\.\d+\.\d+`)
	urgencyPattern = regexp.MustCompile(`(verify|urgent).*https?://`)

	suspiciousTLDs = []string{".ru", ".cn", ".tk", ".biz", ".info"}
	shorteners     = []string{"bit.ly", "tinyurl", "goo.gl"}
)

// LinkFeatures is the fixed-order link feature tuple
type LinkFeatures struct {
	URLCount           int
	IPURLCount         int
	SuspiciousTLDCount int
	ShortenerCount     int
	VerifyUrgentCount  int
}

// Values returns the features in column order
func (f LinkFeatures) Values() []float64 {
	return []float64{
		float64(f.URLCount),
		float64(f.IPURLCount),
		float64(f.SuspiciousTLDCount),
		float64(f.ShortenerCount),
		float64(f.VerifyUrgentCount),
	}
}

// LinkExtractor counts URL risk signals in raw text. It must be given the
// text before normalization so that URLs are still intact.
type LinkExtractor struct {
	shortenerMatcher *ahocorasick.Matcher
}

// NewLinkExtractor creates a link extractor
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{
		shortenerMatcher: ahocorasick.NewStringMatcher(shorteners),
	}
}

// Extract computes the link features of text
func (e *LinkExtractor) Extract(text string) LinkFeatures {
	urls := urlPattern.FindAllString(text, -1)

	f := LinkFeatures{URLCount: len(urls)}
	for _, u := range urls {
		if ipURLPattern.MatchString(u) {
			f.IPURLCount++
		}
		if hasAnySuffix(u, suspiciousTLDs) {
			f.SuspiciousTLDCount++
		}
		if len(e.shortenerMatcher.MatchThreadSafe([]byte(u))) > 0 {
			f.ShortenerCount++
		}
	}

	// `.` stops at newlines, so a line contributes at most one match
	f.VerifyUrgentCount = len(urgencyPattern.FindAllStringIndex(text, -1))

	return f
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
