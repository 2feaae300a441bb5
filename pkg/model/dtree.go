package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// ---------------------------
// Types & options
// ---------------------------

// Node is one node of a fitted tree. Nodes are stored in a flat slice with
// the root at index 0, so a fitted tree encodes with gob as plain data.
type Node struct {
	Leaf      bool
	Feature   int
	Threshold float64 // x <= Threshold goes left
	Left      int
	Right     int
	Value     float64
	Samples   int
}

// DecisionTreeRegressor is a CART regression tree minimising squared error.
type DecisionTreeRegressor struct {
	// Hyperparameters / options
	MaxDepth        int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit int     // minimum samples to attempt a split
	MinSamplesLeaf  int     // minimum samples required in each leaf
	MaxFeatures     int     // 0 => all features, >0 => features sampled per split
	Splitter        string  // "best" scans every threshold, "random" draws one per feature
	Lambda          float64 // L2 penalty on leaf values; leaf = sum / (n + Lambda)
	RandomState     int64

	// fitted state
	Nodes     []Node
	NFeatures int
}

// TreeOption functional config
type TreeOption func(*DecisionTreeRegressor)

func WithMaxDepth(d int) TreeOption { return func(t *DecisionTreeRegressor) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) TreeOption {
	return func(t *DecisionTreeRegressor) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) TreeOption {
	return func(t *DecisionTreeRegressor) { t.MinSamplesLeaf = n }
}
func WithMaxFeatures(k int) TreeOption  { return func(t *DecisionTreeRegressor) { t.MaxFeatures = k } }
func WithSplitter(s string) TreeOption  { return func(t *DecisionTreeRegressor) { t.Splitter = s } }
func WithLambda(l float64) TreeOption   { return func(t *DecisionTreeRegressor) { t.Lambda = l } }
func WithRandomState(seed int64) TreeOption {
	return func(t *DecisionTreeRegressor) { t.RandomState = seed }
}

// NewDecisionTreeRegressor returns a tree with scikit-learn's defaults.
func NewDecisionTreeRegressor(opts ...TreeOption) *DecisionTreeRegressor {
	t := &DecisionTreeRegressor{
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Splitter:        "best",
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// parallelSplitRows is the node size from which the per-feature split search
// fans out across goroutines.
const parallelSplitRows = 2048

// ---------------------------
// Public API: Fit / Predict
// ---------------------------

// Fit trains the tree on X (n x p) and targets y.
func (t *DecisionTreeRegressor) Fit(X [][]float64, y []float64) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.FitIndices(X, y, idx)
}

// FitIndices trains the tree on the rows of X listed in idx. Indexes may
// repeat, which is how bootstrap samples are passed without copying rows.
func (t *DecisionTreeRegressor) FitIndices(X [][]float64, y []float64, idx []int) error {
	p, err := checkXY(X, y)
	if err != nil {
		return fmt.Errorf("dtree: %w", err)
	}
	if len(idx) == 0 {
		return errors.New("dtree: no samples")
	}
	if t.MinSamplesLeaf < 1 {
		t.MinSamplesLeaf = 1
	}
	if t.MinSamplesSplit < 2 {
		t.MinSamplesSplit = 2
	}

	b := &treeBuilder{
		t:   t,
		X:   X,
		y:   y,
		p:   p,
		rnd: rand.New(rand.NewSource(t.RandomState)),
	}
	t.Nodes = make([]Node, 0, 64)
	t.NFeatures = p
	b.build(append([]int(nil), idx...), 0)
	return nil
}

// Predict returns one prediction per row of X.
func (t *DecisionTreeRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = t.predictOne(row)
	}
	return out
}

func (t *DecisionTreeRegressor) predictOne(x []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	i := 0
	for !t.Nodes[i].Leaf {
		n := &t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}

// ---------------------------
// Internal builders & helpers
// ---------------------------

type treeBuilder struct {
	t   *DecisionTreeRegressor
	X   [][]float64
	y   []float64
	p   int
	rnd *rand.Rand
}

// splitResult holds the best split found for a single feature.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
}

// pair is a feature value and the target of its row.
type pair struct {
	v float64
	y float64
}

// build grows the subtree for idx and returns its node index.
func (b *treeBuilder) build(idx []int, depth int) int {
	t := b.t
	sum := 0.0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range idx {
		v := b.y[i]
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	n := len(idx)
	id := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{
		Leaf:    true,
		Value:   sum / (float64(n) + t.Lambda),
		Samples: n,
	})

	if n < t.MinSamplesSplit || n < 2*t.MinSamplesLeaf || lo == hi {
		return id
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return id
	}

	best := b.bestSplit(idx, sum)
	if best.feature < 0 {
		return id
	}

	left := make([]int, 0, n)
	right := make([]int, 0, n)
	for _, i := range idx {
		if b.X[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return id
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	t.Nodes[id].Leaf = false
	t.Nodes[id].Feature = best.feature
	t.Nodes[id].Threshold = best.threshold
	t.Nodes[id].Left = l
	t.Nodes[id].Right = r
	return id
}

// features returns the candidate features for one split, sampling
// MaxFeatures of them without replacement when set.
func (b *treeBuilder) features() []int {
	feats := make([]int, b.p)
	for j := range feats {
		feats[j] = j
	}
	k := b.t.MaxFeatures
	if k > 0 && k < b.p {
		for i := 0; i < k; i++ {
			j := i + b.rnd.Intn(b.p-i)
			feats[i], feats[j] = feats[j], feats[i]
		}
		feats = feats[:k]
	}
	return feats
}

func (b *treeBuilder) bestSplit(idx []int, sum float64) splitResult {
	feats := b.features()
	parent := leafScore(sum, float64(len(idx)), b.t.Lambda)

	results := make([]splitResult, len(feats))
	switch {
	case b.t.Splitter == "random":
		// thresholds are drawn in feature order so the tree only depends on the seed
		for k, f := range feats {
			results[k] = b.randomSplitForFeature(idx, f, sum, parent)
		}
	case len(idx) >= parallelSplitRows && len(feats) > 1:
		var wg sync.WaitGroup
		for k, f := range feats {
			wg.Add(1)
			go func(k, f int) {
				defer wg.Done()
				results[k] = b.bestSplitForFeature(idx, f, sum, parent)
			}(k, f)
		}
		wg.Wait()
	default:
		for k, f := range feats {
			results[k] = b.bestSplitForFeature(idx, f, sum, parent)
		}
	}

	best := splitResult{feature: -1}
	for _, r := range results {
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}
	return best
}

// bestSplitForFeature scans every threshold between distinct values of f.
func (b *treeBuilder) bestSplitForFeature(idx []int, f int, sum, parent float64) splitResult {
	result := splitResult{feature: -1}
	minLeaf := b.t.MinSamplesLeaf
	lambda := b.t.Lambda

	pairs := make([]pair, len(idx))
	for k, i := range idx {
		pairs[k] = pair{v: b.X[i][f], y: b.y[i]}
	}
	sort.Slice(pairs, func(a, c int) bool { return pairs[a].v < pairs[c].v })

	n := len(pairs)
	sumL := 0.0
	for s := 1; s < n; s++ {
		sumL += pairs[s-1].y
		if pairs[s].v == pairs[s-1].v {
			continue
		}
		nL, nR := s, n-s
		if nL < minLeaf || nR < minLeaf {
			continue
		}
		gain := leafScore(sumL, float64(nL), lambda) + leafScore(sum-sumL, float64(nR), lambda) - parent
		if gain > result.gain {
			thr := (pairs[s-1].v + pairs[s].v) / 2
			if thr >= pairs[s].v {
				thr = pairs[s-1].v
			}
			result = splitResult{gain: gain, feature: f, threshold: thr}
		}
	}
	return result
}

// randomSplitForFeature evaluates one threshold drawn uniformly between the
// node's minimum and maximum value of f.
func (b *treeBuilder) randomSplitForFeature(idx []int, f int, sum, parent float64) splitResult {
	result := splitResult{feature: -1}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range idx {
		v := b.X[i][f]
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return result
	}
	thr := lo + b.rnd.Float64()*(hi-lo)
	if thr >= hi {
		thr = lo
	}

	sumL, nL := 0.0, 0
	for _, i := range idx {
		if b.X[i][f] <= thr {
			sumL += b.y[i]
			nL++
		}
	}
	nR := len(idx) - nL
	if nL < b.t.MinSamplesLeaf || nR < b.t.MinSamplesLeaf {
		return result
	}
	gain := leafScore(sumL, float64(nL), b.t.Lambda) + leafScore(sum-sumL, float64(nR), b.t.Lambda) - parent
	if gain > 0 {
		result = splitResult{gain: gain, feature: f, threshold: thr}
	}
	return result
}

// leafScore is the reduction in squared error achieved by a leaf holding n
// targets summing to s. Maximising the children's total over the parent's is
// equivalent to minimising the children's squared error.
func leafScore(s, n, lambda float64) float64 {
	return s * s / (n + lambda)
}

func checkXY(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, errors.New("empty X")
	}
	if len(y) != len(X) {
		return 0, errors.New("X and y length mismatch")
	}
	p := len(X[0])
	if p == 0 {
		return 0, errors.New("X has no features")
	}
	for i := range X {
		if len(X[i]) != p {
			return 0, errors.New("inconsistent number of features in X rows")
		}
	}
	return p, nil
}
