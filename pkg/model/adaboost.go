package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/stats"
)

// AdaBoost implements AdaBoost.R2 with a linear loss over shallow regression
// trees. Each round fits a tree on a weighted bootstrap sample; the ensemble
// predicts the weighted median of its trees.
type AdaBoost struct {
	NEstimators  int
	LearningRate float64
	MaxDepth     int
	RandomState  int64

	Estimators []*DecisionTreeRegressor
	Weights    []float64
}

func (a *AdaBoost) Fit(X [][]float64, y []float64) error {
	if _, err := checkXY(X, y); err != nil {
		return fmt.Errorf("adaboost: %w", err)
	}
	if a.NEstimators < 1 || a.LearningRate <= 0 {
		return fmt.Errorf("adaboost: need positive n_estimators and learning_rate")
	}
	n := len(X)
	rnd := rand.New(rand.NewSource(a.RandomState))

	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}

	var estimators []*DecisionTreeRegressor
	var weights []float64
	errs := make([]float64, n)
	cdf := make([]float64, n)

	for round := 0; round < a.NEstimators; round++ {
		// weighted bootstrap
		acc := 0.0
		for i, wi := range w {
			acc += wi
			cdf[i] = acc
		}
		idx := make([]int, n)
		for j := range idx {
			u := rnd.Float64() * acc
			k := sort.SearchFloat64s(cdf, u)
			if k >= n {
				k = n - 1
			}
			idx[j] = k
		}

		tree := NewDecisionTreeRegressor(WithMaxDepth(a.MaxDepth), WithRandomState(rnd.Int63()))
		if err := tree.FitIndices(X, y, idx); err != nil {
			return fmt.Errorf("adaboost: round %d: %w", round, err)
		}
		pred := tree.Predict(X)

		maxErr := 0.0
		for i := range errs {
			errs[i] = math.Abs(pred[i] - y[i])
			maxErr = math.Max(maxErr, errs[i])
		}
		if maxErr > 0 {
			for i := range errs {
				errs[i] /= maxErr
			}
		}
		estErr := 0.0
		for i := range errs {
			estErr += w[i] * errs[i]
		}

		if estErr <= 0 {
			// perfect fit
			estimators = append(estimators, tree)
			weights = append(weights, 1)
			break
		}
		if estErr >= 0.5 {
			// worse than chance: keep it only if it is the sole estimator
			if len(estimators) == 0 {
				estimators = append(estimators, tree)
				weights = append(weights, 1)
			}
			break
		}

		beta := estErr / (1 - estErr)
		estimators = append(estimators, tree)
		weights = append(weights, a.LearningRate*math.Log(1/beta))

		if round == a.NEstimators-1 {
			break
		}
		total := 0.0
		for i := range w {
			w[i] *= math.Pow(beta, (1-errs[i])*a.LearningRate)
			total += w[i]
		}
		if total <= 0 {
			break
		}
		for i := range w {
			w[i] /= total
		}
	}

	a.Estimators, a.Weights = estimators, weights
	return nil
}

// Predict returns the weighted median of the trees' predictions per row.
func (a *AdaBoost) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(a.Estimators) == 0 {
		return out
	}
	preds := make([][]float64, len(a.Estimators))
	for i, t := range a.Estimators {
		preds[i] = t.Predict(X)
	}
	col := make([]float64, len(a.Estimators))
	for r := range out {
		for i := range preds {
			col[i] = preds[i][r]
		}
		out[r] = stats.WeightedMedian(col, a.Weights)
	}
	return out
}
