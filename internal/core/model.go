package core

import (
	"fmt"
	"time"
)

// Email represents an email message
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
	Headers map[string][]string
}

// RawText joins subject and body the way the classifier was trained
func (e *Email) RawText() string {
	return e.Subject + "\n" + e.Body
}

// Label is the classifier verdict. Its numeric value is the class index
// stored in the artifact and must never change.
type Label int

const (
	Ham  Label = 0
	Spam Label = 1
)

func (l Label) String() string {
	switch l {
	case Ham:
		return "Ham"
	case Spam:
		return "Spam"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// LabelFromClass maps a classifier class index to a Label
func LabelFromClass(class int) (Label, error) {
	switch class {
	case 0:
		return Ham, nil
	case 1:
		return Spam, nil
	default:
		return Ham, fmt.Errorf("unknown class %d", class)
	}
}

// Prediction is the per-request classifier output
type Prediction struct {
	Label        Label
	Confidence   float64
	Degraded     bool
	ModelVersion string
	Cached       bool
}

// SpamAnalysisResult represents the result of spam analysis
type SpamAnalysisResult struct {
	IsSpam       bool
	Label        Label
	Confidence   float64
	Degraded     bool
	Explanation  string
	AnalyzedAt   time.Time
	ModelUsed    string
	ModelVersion string
	ProcessingID string
}

// CacheEntry is a cached prediction keyed by model version and text digest
type CacheEntry struct {
	Key        string
	Label      Label
	Confidence float64
	Degraded   bool
	CreatedAt  time.Time
	ExpiresAt  time.Time
}
