// Package model holds the linear classifier and the margin-to-confidence mapping.
package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/Manideep667320/Email-Spam-detection/internal/sparse"
)

// Class labels produced by the classifier
const (
	ClassHam  = 0
	ClassSpam = 1
)

// Options configures perceptron training
type Options struct {
	MaxIter        int
	Eta0           float64
	Tol            float64
	NIterNoChange  int
	InterceptDecay float64
	Shuffle        bool
	Seed           uint64
}

// DefaultOptions mirrors the settings the production model is trained with
func DefaultOptions() Options {
	return Options{
		MaxIter:        50,
		Eta0:           1.0,
		Tol:            1e-3,
		NIterNoChange:  5,
		InterceptDecay: 0.01,
		Shuffle:        true,
		Seed:           42,
	}
}

// Perceptron is a fitted binary linear classifier. Class 1 is Spam and
// class 0 is Ham; a strictly positive margin selects class 1.
type Perceptron struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
	Classes   []int     `json:"classes"`
	NIter     int       `json:"n_iter"`
	Converged bool      `json:"converged"`
}

// Margin is the decision value. Valid is false when the value is not finite.
type Margin struct {
	Value float64
	Valid bool
}

// Decision is a label plus the margin that produced it
type Decision struct {
	Class  int
	Margin Margin
}

// Fit trains on rows with labels in {0, 1} using plain perceptron updates:
// whenever y*(w.x+b) <= 0, w += eta*y*x and b += eta*y*decay.
// Training stops early once the epoch loss has not improved by tol*n for
// NIterNoChange consecutive epochs.
func Fit(rows []sparse.Vector, labels []int, opts Options) (*Perceptron, error) {
	if len(rows) == 0 {
		return nil, errors.New("cannot fit classifier on zero rows")
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("got %d rows but %d labels", len(rows), len(labels))
	}
	if opts.MaxIter < 1 {
		return nil, fmt.Errorf("max_iter must be positive, got %d", opts.MaxIter)
	}

	width := rows[0].Width
	seen := [2]bool{}
	for i, row := range rows {
		if row.Width != width {
			return nil, fmt.Errorf("row %d has width %d, expected %d", i, row.Width, width)
		}
		if labels[i] != ClassHam && labels[i] != ClassSpam {
			return nil, fmt.Errorf("row %d has label %d, expected 0 or 1", i, labels[i])
		}
		seen[labels[i]] = true
	}
	if !seen[ClassHam] || !seen[ClassSpam] {
		return nil, errors.New("training data must contain both ham and spam examples")
	}

	p := &Perceptron{
		Coef:    make([]float64, width),
		Classes: []int{ClassHam, ClassSpam},
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))

	n := float64(len(rows))
	bestLoss := math.Inf(1)
	noImprovement := 0

	for epoch := 1; epoch <= opts.MaxIter; epoch++ {
		if opts.Shuffle {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		var loss float64
		for _, i := range order {
			y := -1.0
			if labels[i] == ClassSpam {
				y = 1.0
			}
			row := rows[i]
			score, _ := row.Dot(p.Coef)
			score += p.Intercept

			z := y * score
			if z > 0 {
				continue
			}
			loss -= z

			step := opts.Eta0 * y
			for k, idx := range row.Indices {
				p.Coef[idx] += step * row.Values[k]
			}
			p.Intercept += step * opts.InterceptDecay
		}

		p.NIter = epoch
		if opts.Tol > 0 && opts.NIterNoChange > 0 {
			if loss > bestLoss-opts.Tol*n {
				noImprovement++
			} else {
				noImprovement = 0
			}
			if loss < bestLoss {
				bestLoss = loss
			}
			if noImprovement >= opts.NIterNoChange {
				p.Converged = true
				break
			}
		}
	}

	return p, nil
}

// Width returns the number of features the classifier expects
func (p *Perceptron) Width() int {
	return len(p.Coef)
}

// Validate checks a deserialized classifier for internal consistency
func (p *Perceptron) Validate() error {
	if len(p.Coef) == 0 {
		return errors.New("classifier has no coefficients")
	}
	if len(p.Classes) != 0 && (len(p.Classes) != 2 || p.Classes[0] != ClassHam || p.Classes[1] != ClassSpam) {
		return fmt.Errorf("classifier classes must be [0 1], got %v", p.Classes)
	}
	return nil
}

// Decide scores one row. The row must be exactly Width() columns wide.
func (p *Perceptron) Decide(v sparse.Vector) (Decision, error) {
	score, err := v.Dot(p.Coef)
	if err != nil {
		return Decision{}, err
	}
	score += p.Intercept

	d := Decision{Class: ClassHam, Margin: Margin{Value: score}}
	if score > 0 {
		d.Class = ClassSpam
	}
	d.Margin.Valid = !math.IsNaN(score) && !math.IsInf(score, 0)
	return d, nil
}
