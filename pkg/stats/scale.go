package stats

import (
	"errors"
	"fmt"
	"math"
)

// StandardScaler centers each column on its mean and divides by its
// population standard deviation. Constant columns are divided by 1.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fitted reports whether Fit has been called successfully.
func (s *StandardScaler) Fitted() bool { return len(s.Mean) > 0 }

func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("scaler: empty input")
	}
	r, c := len(X), len(X[0])
	mean := make([]float64, c)
	std := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			if len(X[i]) != c {
				return fmt.Errorf("scaler: row %d has %d columns, want %d", i, len(X[i]), c)
			}
			col[i] = X[i][j]
		}
		mean[j] = Mean(col)
		std[j] = Std(col)
		if std[j] == 0 || math.IsNaN(std[j]) {
			std[j] = 1
		}
	}
	s.Mean, s.Std = mean, std
	return nil
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.Fitted() {
		return nil, errors.New("scaler: not fitted")
	}
	c := len(s.Mean)
	Y := make([][]float64, len(X))
	for i := range X {
		if len(X[i]) != c {
			return nil, fmt.Errorf("scaler: row %d has %d columns, want %d", i, len(X[i]), c)
		}
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = (X[i][j] - s.Mean[j]) / s.Std[j]
		}
		Y[i] = row
	}
	return Y, nil
}
