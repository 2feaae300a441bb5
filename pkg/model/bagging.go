package model

import (
	"fmt"
	"math/rand"
	"sort"
)

// Bagging fits full-depth regression trees on bootstrap samples of
// MaxSamples*n rows, each restricted to a random MaxFeatures share of the
// columns, and averages them.
type Bagging struct {
	NEstimators int
	MaxSamples  float64
	MaxFeatures float64
	RandomState int64

	Estimators []*DecisionTreeRegressor
	Features   [][]int
}

func (b *Bagging) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return fmt.Errorf("bagging: %w", err)
	}
	if b.NEstimators < 1 {
		return fmt.Errorf("bagging: n_estimators must be positive, got %d", b.NEstimators)
	}
	if b.MaxSamples <= 0 || b.MaxSamples > 1 || b.MaxFeatures <= 0 || b.MaxFeatures > 1 {
		return fmt.Errorf("bagging: max_samples and max_features must be in (0, 1]")
	}
	n := len(X)
	nSamples := max(1, int(b.MaxSamples*float64(n)))
	nFeatures := max(1, int(b.MaxFeatures*float64(p)))

	rnd := rand.New(rand.NewSource(b.RandomState))
	estimators := make([]*DecisionTreeRegressor, b.NEstimators)
	features := make([][]int, b.NEstimators)

	for i := range estimators {
		cols := rnd.Perm(p)[:nFeatures]
		sort.Ints(cols)
		idx := make([]int, nSamples)
		for j := range idx {
			idx[j] = rnd.Intn(n)
		}

		tree := NewDecisionTreeRegressor(WithRandomState(rnd.Int63()))
		if err := tree.FitIndices(project(X, cols), y, idx); err != nil {
			return fmt.Errorf("bagging: estimator %d: %w", i, err)
		}
		estimators[i] = tree
		features[i] = cols
	}

	b.Estimators, b.Features = estimators, features
	return nil
}

func (b *Bagging) Predict(X [][]float64) []float64 {
	if len(b.Estimators) == 0 {
		return make([]float64, len(X))
	}
	return averageTrees(b.Estimators, X, b.Features)
}
