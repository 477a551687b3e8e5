package training

import (
	"fmt"

	"github.com/Manideep667320/Email-Spam-detection/internal/artifact"
)

// Evaluate builds the confusion matrix and classification report for
// binary labels (0 = Ham, 1 = Spam). Undefined ratios are reported as 0.
func Evaluate(truth, predicted []int) ([2][2]int, artifact.ClassificationReport, error) {
	var cm [2][2]int
	if len(truth) != len(predicted) {
		return cm, artifact.ClassificationReport{}, fmt.Errorf("got %d true labels but %d predictions", len(truth), len(predicted))
	}
	for i := range truth {
		t, p := truth[i], predicted[i]
		if t < 0 || t > 1 || p < 0 || p > 1 {
			return cm, artifact.ClassificationReport{}, fmt.Errorf("label out of range at %d: true %d, predicted %d", i, t, p)
		}
		cm[t][p]++
	}

	perClass := [2]artifact.ClassMetrics{}
	for c := 0; c < 2; c++ {
		tp := cm[c][c]
		predictedC := cm[0][c] + cm[1][c]
		actualC := cm[c][0] + cm[c][1]

		m := artifact.ClassMetrics{
			Precision: ratio(tp, predictedC),
			Recall:    ratio(tp, actualC),
			Support:   actualC,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		perClass[c] = m
	}

	total := len(truth)
	report := artifact.ClassificationReport{
		Ham:      perClass[0],
		Spam:     perClass[1],
		Accuracy: ratio(cm[0][0]+cm[1][1], total),
		MacroAvg: artifact.ClassMetrics{
			Precision: (perClass[0].Precision + perClass[1].Precision) / 2,
			Recall:    (perClass[0].Recall + perClass[1].Recall) / 2,
			F1:        (perClass[0].F1 + perClass[1].F1) / 2,
			Support:   total,
		},
		WeightedAvg: artifact.ClassMetrics{Support: total},
	}
	if total > 0 {
		for _, m := range perClass {
			w := float64(m.Support) / float64(total)
			report.WeightedAvg.Precision += w * m.Precision
			report.WeightedAvg.Recall += w * m.Recall
			report.WeightedAvg.F1 += w * m.F1
		}
	}
	return cm, report, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
