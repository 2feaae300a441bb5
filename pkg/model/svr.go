package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SVR is epsilon-insensitive support vector regression. The dual is solved by
// coordinate descent with the bias folded into the kernel (K+1), which keeps
// every coordinate update closed-form.
type SVR struct {
	Kernel  string // linear, poly, rbf or sigmoid
	C       float64
	Gamma   string // "scale" or "auto"
	Epsilon float64
	Degree  int
	Coef0   float64
	MaxIter int
	Tol     float64

	GammaValue     float64
	SupportVectors [][]float64
	DualCoef       []float64
}

const (
	svrDefaultMaxIter = 200
	svrDefaultTol     = 1e-3
)

func (s *SVR) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return fmt.Errorf("svr: %w", err)
	}
	if s.C <= 0 {
		return fmt.Errorf("svr: C must be positive, got %v", s.C)
	}
	switch s.Kernel {
	case "linear", "poly", "rbf", "sigmoid":
	default:
		return fmt.Errorf("svr: unknown kernel %q", s.Kernel)
	}
	maxIter := s.MaxIter
	if maxIter <= 0 {
		maxIter = svrDefaultMaxIter
	}
	tol := s.Tol
	if tol <= 0 {
		tol = svrDefaultTol
	}

	switch s.Gamma {
	case "auto":
		s.GammaValue = 1 / float64(p)
	case "scale", "":
		v := flatVariance(X)
		if v == 0 {
			s.GammaValue = 1
		} else {
			s.GammaValue = 1 / (float64(p) * v)
		}
	default:
		return fmt.Errorf("svr: unknown gamma %q", s.Gamma)
	}

	n := len(X)
	K := s.gram(X, X)
	K.Apply(func(_, _ int, v float64) float64 { return v + 1 }, K)

	beta := make([]float64, n)
	Kb := make([]float64, n) // K * beta, kept up to date
	for iter := 0; iter < maxIter; iter++ {
		maxDelta := 0.0
		for i := 0; i < n; i++ {
			// K is symmetric, so row i doubles as column i.
			ki := K.RawRowView(i)
			kii := ki[i]
			if kii <= 0 {
				continue
			}
			g := Kb[i] - y[i]
			u := kii*beta[i] - g
			nb := 0.0
			if u > s.Epsilon {
				nb = (u - s.Epsilon) / kii
			} else if u < -s.Epsilon {
				nb = (u + s.Epsilon) / kii
			}
			nb = math.Max(-s.C, math.Min(s.C, nb))
			d := nb - beta[i]
			if d == 0 {
				continue
			}
			beta[i] = nb
			for j, v := range ki {
				Kb[j] += d * v
			}
			maxDelta = math.Max(maxDelta, math.Abs(d))
		}
		if maxDelta < tol {
			break
		}
	}

	s.SupportVectors = s.SupportVectors[:0]
	s.DualCoef = s.DualCoef[:0]
	for i, b := range beta {
		if b != 0 {
			s.SupportVectors = append(s.SupportVectors, append([]float64(nil), X[i]...))
			s.DualCoef = append(s.DualCoef, b)
		}
	}
	return nil
}

func (s *SVR) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(s.SupportVectors) == 0 || len(X) == 0 {
		return out
	}
	K := s.gram(X, s.SupportVectors)
	for i := range out {
		v := 0.0
		for j, c := range s.DualCoef {
			v += c * (K.At(i, j) + 1)
		}
		out[i] = v
	}
	return out
}

// gram returns the kernel matrix between the rows of A and B.
func (s *SVR) gram(A, B [][]float64) *mat.Dense {
	a := toDense(A)
	b := toDense(B)
	var K mat.Dense
	K.Mul(a, b.T())

	switch s.Kernel {
	case "linear":
	case "poly":
		deg := float64(s.Degree)
		if deg <= 0 {
			deg = 3
		}
		K.Apply(func(_, _ int, v float64) float64 {
			return math.Pow(s.GammaValue*v+s.Coef0, deg)
		}, &K)
	case "sigmoid":
		K.Apply(func(_, _ int, v float64) float64 {
			return math.Tanh(s.GammaValue*v + s.Coef0)
		}, &K)
	case "rbf":
		na := rowNorms(A)
		nb := rowNorms(B)
		K.Apply(func(i, j int, v float64) float64 {
			d := na[i] + nb[j] - 2*v
			if d < 0 {
				d = 0
			}
			return math.Exp(-s.GammaValue * d)
		}, &K)
	}
	return &K
}

func toDense(X [][]float64) *mat.Dense {
	r, c := len(X), len(X[0])
	flat := make([]float64, 0, r*c)
	for _, row := range X {
		flat = append(flat, row...)
	}
	return mat.NewDense(r, c, flat)
}

func rowNorms(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		for _, v := range row {
			out[i] += v * v
		}
	}
	return out
}

// flatVariance is the variance of every entry of X taken together.
func flatVariance(X [][]float64) float64 {
	n := 0.0
	sum, sumSq := 0.0, 0.0
	for _, row := range X {
		for _, v := range row {
			sum += v
			sumSq += v * v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	mean := sum / n
	return sumSq/n - mean*mean
}
