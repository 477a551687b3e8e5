package artifact

import (
	"encoding/json"
	"fmt"
	"os"
)

// ClassMetrics holds precision, recall, F1 and support for one class or average
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1-score"`
	Support   int     `json:"support"`
}

// ClassificationReport is the per-class evaluation summary
type ClassificationReport struct {
	Ham         ClassMetrics `json:"Ham"`
	Spam        ClassMetrics `json:"Spam"`
	Accuracy    float64      `json:"accuracy"`
	MacroAvg    ClassMetrics `json:"macro avg"`
	WeightedAvg ClassMetrics `json:"weighted avg"`
}

// FeatureWeight is one ranked classifier weight
type FeatureWeight struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
	Type    string  `json:"type"`
}

// Report is the metrics side artifact written by a training run.
// ConfusionMatrix rows are true labels, columns predicted labels, Ham first.
type Report struct {
	ConfusionMatrix      [2][2]int            `json:"confusion_matrix"`
	ClassificationReport ClassificationReport `json:"classification_report"`
	FeatureImportance    []FeatureWeight      `json:"feature_importance"`
}

// SaveReport writes the report as indented JSON
func SaveReport(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return writeAtomic(path, data)
}

// LoadReport reads a report written by SaveReport
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return &r, nil
}
