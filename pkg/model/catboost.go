package model

import (
	"fmt"
	"sort"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/stats"
)

// ObliviousTree applies the same (feature, border) test at every node of a
// level, so a row's leaf is the bit pattern of its Depth comparisons.
type ObliviousTree struct {
	Features []int
	Borders  []float64
	Leaves   []float64
}

func (t *ObliviousTree) leaf(x []float64) int {
	idx := 0
	for l, f := range t.Features {
		if x[f] > t.Borders[l] {
			idx |= 1 << l
		}
	}
	return idx
}

// CatBoost boosts oblivious trees over quantized features with an L2 penalty
// on leaf values, fitting each tree to the residuals of the running prediction.
type CatBoost struct {
	Iterations   int
	Depth        int
	LearningRate float64
	L2LeafReg    float64
	BorderCount  int

	Bias  float64
	Trees []ObliviousTree
}

func (c *CatBoost) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return fmt.Errorf("catboost: %w", err)
	}
	if c.Iterations < 1 || c.Depth < 1 || c.Depth > 16 || c.LearningRate <= 0 {
		return fmt.Errorf("catboost: invalid iterations=%d depth=%d learning_rate=%v",
			c.Iterations, c.Depth, c.LearningRate)
	}
	n := len(X)

	borders := make([][]float64, p)
	bins := make([][]int, p) // bins[f][i]: number of borders strictly below X[i][f]
	for f := 0; f < p; f++ {
		col := make([]float64, n)
		for i := range col {
			col[i] = X[i][f]
		}
		borders[f] = quantileBorders(col, c.BorderCount)
		bins[f] = make([]int, n)
		for i, v := range col {
			bins[f][i] = sort.SearchFloat64s(borders[f], v)
		}
	}

	c.Bias = stats.Mean(y)
	F := make([]float64, n)
	for i := range F {
		F[i] = c.Bias
	}
	residual := make([]float64, n)
	leafOf := make([]int, n)
	c.Trees = make([]ObliviousTree, 0, c.Iterations)

	for it := 0; it < c.Iterations; it++ {
		for i := range residual {
			residual[i] = y[i] - F[i]
			leafOf[i] = 0
		}

		tree := ObliviousTree{}
		for level := 0; level < c.Depth; level++ {
			f, b, ok := c.bestLevelSplit(residual, leafOf, bins, borders, level)
			if !ok {
				break
			}
			tree.Features = append(tree.Features, f)
			tree.Borders = append(tree.Borders, borders[f][b])
			for i := range leafOf {
				if bins[f][i] > b {
					leafOf[i] |= 1 << level
				}
			}
		}

		nLeaves := 1 << len(tree.Features)
		sums := make([]float64, nLeaves)
		counts := make([]float64, nLeaves)
		for i, l := range leafOf {
			sums[l] += residual[i]
			counts[l]++
		}
		tree.Leaves = make([]float64, nLeaves)
		for l := range tree.Leaves {
			tree.Leaves[l] = sums[l] / (counts[l] + c.L2LeafReg)
		}
		for i, l := range leafOf {
			F[i] += c.LearningRate * tree.Leaves[l]
		}
		c.Trees = append(c.Trees, tree)
	}
	return nil
}

// bestLevelSplit picks the (feature, border) that most improves the
// penalised leaf score when applied to every current leaf.
func (c *CatBoost) bestLevelSplit(residual []float64, leafOf []int, bins [][]int, borders [][]float64, level int) (int, int, bool) {
	nLeaves := 1 << level
	lambda := c.L2LeafReg

	current := 0.0
	{
		sums := make([]float64, nLeaves)
		counts := make([]float64, nLeaves)
		for i, l := range leafOf {
			sums[l] += residual[i]
			counts[l]++
		}
		for l := range sums {
			current += leafScore(sums[l], counts[l], lambda)
		}
	}

	bestF, bestB, bestScore := -1, -1, current
	for f := range bins {
		nb := len(borders[f])
		if nb == 0 {
			continue
		}
		// histogram of residual sums and counts per (leaf, bin)
		width := nb + 1
		hs := make([]float64, nLeaves*width)
		hc := make([]float64, nLeaves*width)
		for i, l := range leafOf {
			k := l*width + bins[f][i]
			hs[k] += residual[i]
			hc[k]++
		}
		totS := make([]float64, nLeaves)
		totC := make([]float64, nLeaves)
		for l := 0; l < nLeaves; l++ {
			for b := 0; b < width; b++ {
				totS[l] += hs[l*width+b]
				totC[l] += hc[l*width+b]
			}
		}

		leftS := make([]float64, nLeaves)
		leftC := make([]float64, nLeaves)
		for b := 0; b < nb; b++ {
			score := 0.0
			for l := 0; l < nLeaves; l++ {
				leftS[l] += hs[l*width+b]
				leftC[l] += hc[l*width+b]
				score += leafScore(leftS[l], leftC[l], lambda) +
					leafScore(totS[l]-leftS[l], totC[l]-leftC[l], lambda)
			}
			if score > bestScore+1e-12 {
				bestF, bestB, bestScore = f, b, score
			}
		}
	}
	return bestF, bestB, bestF >= 0
}

func (c *CatBoost) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		v := c.Bias
		for t := range c.Trees {
			v += c.LearningRate * c.Trees[t].Leaves[c.Trees[t].leaf(row)]
		}
		out[i] = v
	}
	return out
}

// quantileBorders returns up to count distinct split borders placed at
// evenly spaced quantiles of col, strictly between its minimum and maximum.
func quantileBorders(col []float64, count int) []float64 {
	if count < 1 {
		count = 1
	}
	lo, hi := stats.MinMax(col)
	if lo == hi {
		return nil
	}

	uniq := append([]float64(nil), col...)
	sort.Float64s(uniq)
	k := 0
	for i := range uniq {
		if i == 0 || uniq[i] != uniq[k-1] {
			uniq[k] = uniq[i]
			k++
		}
	}
	uniq = uniq[:k]

	var out []float64
	if len(uniq)-1 <= count {
		for i := 1; i < len(uniq); i++ {
			out = append(out, (uniq[i-1]+uniq[i])/2)
		}
		return out
	}
	for q := 1; q <= count; q++ {
		b := stats.Percentile(col, 100*float64(q)/float64(count+1))
		if b < lo || b >= hi {
			continue
		}
		if len(out) == 0 || b > out[len(out)-1] {
			out = append(out, b)
		}
	}
	return out
}
