package model

import (
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression is ordinary least squares. The minimum-norm solution is
// taken through an SVD, so collinear one-hot blocks are handled.
type LinearRegression struct {
	W []float64 // weights
	B float64   // bias
}

// rcond is the relative cutoff below which singular values count as zero.
const rcond = 1e-12

// Fit centers X and y, solves for the weights and recovers the intercept.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return fmt.Errorf("linear: %w", err)
	}
	n := len(X)

	xMean := make([]float64, p)
	yMean := 0.0
	for i, row := range X {
		for j, v := range row {
			xMean[j] += v
		}
		yMean += y[i]
	}
	for j := range xMean {
		xMean[j] /= float64(n)
	}
	yMean /= float64(n)

	a := mat.NewDense(n, p, nil)
	b := mat.NewVecDense(n, nil)
	for i, row := range X {
		for j, v := range row {
			a.Set(i, j, v-xMean[j])
		}
		b.SetVec(i, y[i]-yMean)
	}

	w := make([]float64, p)
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return fmt.Errorf("linear: SVD factorization failed")
	}
	if rank := svd.Rank(rcond); rank > 0 {
		dst := mat.NewVecDense(p, nil)
		svd.SolveVecTo(dst, b, rank)
		for j := range w {
			w[j] = dst.AtVec(j)
		}
	}

	bias := yMean
	for j := range w {
		bias -= w[j] * xMean[j]
	}
	m.W, m.B = w, bias
	return nil
}

// Predict returns predictions for rows in X (rows of features).
// Rows are split into contiguous chunks, one goroutine per CPU.
func (m *LinearRegression) Predict(X [][]float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	pred := make([]float64, len(X))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		s := w * rowsPerWorker
		e := s + rowsPerWorker
		if e > len(X) {
			e = len(X)
		}
		if s >= e {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				sum := m.B
				for j, v := range X[i] {
					sum += m.W[j] * v
				}
				pred[i] = sum
			}
		}(s, e)
	}
	wg.Wait()
	return pred
}
