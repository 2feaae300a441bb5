package loader

import (
	"fmt"
	"math"
	"math/rand"
)

// Permutation returns a seeded permutation of [0, n).
func Permutation(n int, seed int64) []int {
	return rand.New(rand.NewSource(seed)).Perm(n)
}

// TestSize returns how many of n rows go to the test split: ceil(n*ratio).
func TestSize(n int, ratio float64) int {
	return int(math.Ceil(float64(n) * ratio))
}

// TrainTestSplit splits the row indexes [0, n) into disjoint train and test
// sets. The first ceil(n*ratio) permuted indexes form the test set, so the
// result is fully determined by n, ratio and seed.
func TrainTestSplit(n int, ratio float64, seed int64) (train, test []int, err error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, fmt.Errorf("split: test ratio %v outside (0, 1)", ratio)
	}
	nTest := TestSize(n, ratio)
	if nTest >= n {
		return nil, nil, fmt.Errorf("split: %d rows leave no training data at ratio %v", n, ratio)
	}
	indices := Permutation(n, seed)
	test = append([]int(nil), indices[:nTest]...)
	train = append([]int(nil), indices[nTest:]...)
	return train, test, nil
}

// Fold is one train/validation partition of a k-fold split.
type Fold struct {
	Train []int
	Valid []int
}

// KFold shuffles [0, n) with seed and cuts it into k contiguous validation
// folds. The first n%k folds get one extra row.
func KFold(n, k int, seed int64) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("kfold: need at least 2 folds, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("kfold: cannot split %d rows into %d folds", n, k)
	}
	indices := Permutation(n, seed)

	folds := make([]Fold, k)
	start := 0
	for i := 0; i < k; i++ {
		size := n / k
		if i < n%k {
			size++
		}
		end := start + size
		valid := append([]int(nil), indices[start:end]...)
		train := make([]int, 0, n-size)
		train = append(train, indices[:start]...)
		train = append(train, indices[end:]...)
		folds[i] = Fold{Train: train, Valid: valid}
		start = end
	}
	return folds, nil
}

// Gather copies the rows of X and y at idx.
func Gather(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	Xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		Xs[i] = X[j]
		ys[i] = y[j]
	}
	return Xs, ys
}
