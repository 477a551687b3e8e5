package training

import (
	"sort"

	"github.com/Manideep667320/Email-Spam-detection/internal/artifact"
)

// RankFeatures returns the k highest weights (type "spam", strongest first)
// followed by the k lowest weights (type "ham", strongest first). Equal
// weights are ordered by column index.
func RankFeatures(coef []float64, names []string, k int) []artifact.FeatureWeight {
	order := make([]int, len(coef))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return coef[order[a]] < coef[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}

	out := make([]artifact.FeatureWeight, 0, 2*k)
	for i := len(order) - 1; i >= len(order)-k; i-- {
		out = append(out, weight(order[i], coef, names, "spam"))
	}
	for i := 0; i < k; i++ {
		out = append(out, weight(order[i], coef, names, "ham"))
	}
	return out
}

func weight(col int, coef []float64, names []string, kind string) artifact.FeatureWeight {
	name := ""
	if col < len(names) {
		name = names[col]
	}
	return artifact.FeatureWeight{Feature: name, Weight: coef[col], Type: kind}
}
