package model

import (
	"fmt"
	"math/rand"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/stats"
)

// GradientBoosting fits regression trees stage-wise to the residuals of the
// running prediction, starting from the target mean (squared-error loss).
type GradientBoosting struct {
	NEstimators     int
	LearningRate    float64
	Subsample       float64
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	RandomState     int64

	Init  float64
	Trees []*DecisionTreeRegressor
}

func (g *GradientBoosting) Fit(X [][]float64, y []float64) error {
	if _, err := checkXY(X, y); err != nil {
		return fmt.Errorf("gradient boosting: %w", err)
	}
	trees, init, err := boost(X, y, boostConfig{
		rounds:       g.NEstimators,
		learningRate: g.LearningRate,
		subsample:    g.Subsample,
		seed:         g.RandomState,
		newTree: func(seed int64) *DecisionTreeRegressor {
			return NewDecisionTreeRegressor(
				WithMaxDepth(g.MaxDepth),
				WithMinSamplesSplit(g.MinSamplesSplit),
				WithMinSamplesLeaf(g.MinSamplesLeaf),
				WithRandomState(seed),
			)
		},
	})
	if err != nil {
		return fmt.Errorf("gradient boosting: %w", err)
	}
	g.Init, g.Trees = init, trees
	return nil
}

func (g *GradientBoosting) Predict(X [][]float64) []float64 {
	return predictBoosted(g.Init, g.LearningRate, g.Trees, X)
}

// XGBoost is second-order tree boosting for squared error: leaf weights and
// split gains carry an L2 penalty Lambda on the leaf values.
type XGBoost struct {
	NEstimators  int
	LearningRate float64
	MaxDepth     int
	Subsample    float64
	Lambda       float64
	RandomState  int64

	BaseScore float64
	Trees     []*DecisionTreeRegressor
}

func (x *XGBoost) Fit(X [][]float64, y []float64) error {
	if _, err := checkXY(X, y); err != nil {
		return fmt.Errorf("xgboost: %w", err)
	}
	trees, base, err := boost(X, y, boostConfig{
		rounds:       x.NEstimators,
		learningRate: x.LearningRate,
		subsample:    x.Subsample,
		seed:         x.RandomState,
		newTree: func(seed int64) *DecisionTreeRegressor {
			return NewDecisionTreeRegressor(
				WithMaxDepth(x.MaxDepth),
				WithLambda(x.Lambda),
				WithRandomState(seed),
			)
		},
	})
	if err != nil {
		return fmt.Errorf("xgboost: %w", err)
	}
	x.BaseScore, x.Trees = base, trees
	return nil
}

func (x *XGBoost) Predict(X [][]float64) []float64 {
	return predictBoosted(x.BaseScore, x.LearningRate, x.Trees, X)
}

type boostConfig struct {
	rounds       int
	learningRate float64
	subsample    float64
	seed         int64
	newTree      func(seed int64) *DecisionTreeRegressor
}

// boost runs the shared residual-fitting loop. Each round draws a subsample
// without replacement when subsample < 1.
func boost(X [][]float64, y []float64, cfg boostConfig) ([]*DecisionTreeRegressor, float64, error) {
	if cfg.rounds < 1 || cfg.learningRate <= 0 {
		return nil, 0, fmt.Errorf("need positive rounds and learning rate")
	}
	if cfg.subsample <= 0 || cfg.subsample > 1 {
		return nil, 0, fmt.Errorf("subsample %v outside (0, 1]", cfg.subsample)
	}
	n := len(X)
	rnd := rand.New(rand.NewSource(cfg.seed))
	init := stats.Mean(y)

	F := make([]float64, n)
	for i := range F {
		F[i] = init
	}
	residual := make([]float64, n)
	nSub := max(1, int(cfg.subsample*float64(n)))

	trees := make([]*DecisionTreeRegressor, 0, cfg.rounds)
	for round := 0; round < cfg.rounds; round++ {
		for i := range residual {
			residual[i] = y[i] - F[i]
		}
		var idx []int
		if nSub < n {
			idx = rnd.Perm(n)[:nSub]
		} else {
			idx = make([]int, n)
			for i := range idx {
				idx[i] = i
			}
		}

		tree := cfg.newTree(rnd.Int63())
		if err := tree.FitIndices(X, residual, idx); err != nil {
			return nil, 0, fmt.Errorf("round %d: %w", round, err)
		}
		update := tree.Predict(X)
		for i := range F {
			F[i] += cfg.learningRate * update[i]
		}
		trees = append(trees, tree)
	}
	return trees, init, nil
}

func predictBoosted(init, lr float64, trees []*DecisionTreeRegressor, X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range out {
		out[i] = init
	}
	for _, t := range trees {
		for i, v := range t.Predict(X) {
			out[i] += lr * v
		}
	}
	return out
}
