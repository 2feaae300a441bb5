package model

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Forest averages independently grown regression trees. With bootstrap
// samples and exhaustive splits it is a random forest; without bootstrap and
// with random thresholds it is an extra-trees ensemble.
type Forest struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Bootstrap       bool
	Splitter        string
	RandomState     int64

	// Internal state
	Trees []*DecisionTreeRegressor
}

// ForestOption functional config for Forest
type ForestOption func(*Forest)

func WithNEstimators(n int) ForestOption { return func(f *Forest) { f.NEstimators = n } }
func WithForestSeed(seed int64) ForestOption {
	return func(f *Forest) { f.RandomState = seed }
}

// WithForestTree sets the growth limits of every tree.
func WithForestTree(maxDepth, minSamplesSplit, minSamplesLeaf int) ForestOption {
	return func(f *Forest) {
		f.MaxDepth = maxDepth
		f.MinSamplesSplit = minSamplesSplit
		f.MinSamplesLeaf = minSamplesLeaf
	}
}

// NewRandomForest initializes a bootstrap forest with scikit-learn's defaults.
func NewRandomForest(opts ...ForestOption) *Forest {
	f := &Forest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
		Splitter:        "best",
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// NewExtraTrees initializes an extremely randomized trees ensemble.
func NewExtraTrees(opts ...ForestOption) *Forest {
	f := &Forest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       false,
		Splitter:        "random",
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit grows the trees in parallel. Tree i draws its bootstrap sample and
// split randomness from RandomState+i, so the forest does not depend on
// scheduling.
func (f *Forest) Fit(X [][]float64, y []float64) error {
	if _, err := checkXY(X, y); err != nil {
		return fmt.Errorf("forest: %w", err)
	}
	if f.NEstimators < 1 {
		return fmt.Errorf("forest: n_estimators must be positive, got %d", f.NEstimators)
	}
	n := len(X)

	trees := make([]*DecisionTreeRegressor, f.NEstimators)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < f.NEstimators; i++ {
		i := i
		g.Go(func() error {
			seed := f.RandomState + int64(i)
			treeRand := rand.New(rand.NewSource(seed))

			// Bootstrap sampling: an index slice, not a copy of the data.
			sampleIndices := make([]int, n)
			for j := range sampleIndices {
				if f.Bootstrap {
					sampleIndices[j] = treeRand.Intn(n)
				} else {
					sampleIndices[j] = j
				}
			}

			tree := NewDecisionTreeRegressor(
				WithMaxDepth(f.MaxDepth),
				WithMinSamplesSplit(f.MinSamplesSplit),
				WithMinSamplesLeaf(f.MinSamplesLeaf),
				WithMaxFeatures(f.MaxFeatures),
				WithSplitter(f.Splitter),
				WithRandomState(treeRand.Int63()),
			)
			if err := tree.FitIndices(X, y, sampleIndices); err != nil {
				return err
			}
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("forest: %w", err)
	}
	f.Trees = trees
	return nil
}

// Predict returns the mean prediction of all trees.
func (f *Forest) Predict(X [][]float64) []float64 {
	return averageTrees(f.Trees, X, nil)
}

// averageTrees predicts with every tree in parallel and averages the results
// per row. When cols is set, tree i sees only the columns cols[i].
func averageTrees(trees []*DecisionTreeRegressor, X [][]float64, cols [][]int) []float64 {
	out := make([]float64, len(X))
	if len(trees) == 0 {
		return out
	}

	preds := make([][]float64, len(trees))
	var wg sync.WaitGroup
	for i, t := range trees {
		wg.Add(1)
		go func(i int, t *DecisionTreeRegressor) {
			defer wg.Done()
			if cols != nil {
				preds[i] = t.Predict(project(X, cols[i]))
				return
			}
			preds[i] = t.Predict(X)
		}(i, t)
	}
	wg.Wait()

	// Sum in tree order so the mean is reproducible bit for bit.
	for _, p := range preds {
		for r, v := range p {
			out[r] += v
		}
	}
	for r := range out {
		out[r] /= float64(len(trees))
	}
	return out
}

// project keeps the listed columns of every row.
func project(X [][]float64, cols []int) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, len(cols))
		for k, c := range cols {
			r[k] = row[c]
		}
		out[i] = r
	}
	return out
}
