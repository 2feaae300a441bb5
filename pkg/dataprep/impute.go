package dataprep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/stats"
)

// IsMissing reports whether a raw cell holds one of the missing markers.
func IsMissing(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NA", "NaN", "nan", "null":
		return true
	}
	return false
}

// MeanImputer fills missing numeric cells with the mean of the observed ones.
type MeanImputer struct {
	Mean float64
}

// Fit learns the mean of the parseable, non-missing cells of col.
// A non-missing cell that does not parse as a number is an error.
func (m *MeanImputer) Fit(col []string) error {
	nums := make([]float64, 0, len(col))
	for i, v := range col {
		if IsMissing(v) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		nums = append(nums, f)
	}
	if len(nums) == 0 {
		return errors.New("no observed values to impute from")
	}
	m.Mean = stats.Mean(nums)
	return nil
}

// Transform parses col, replacing missing cells with the fitted mean.
func (m *MeanImputer) Transform(col []string) ([]float64, error) {
	out := make([]float64, len(col))
	for i, v := range col {
		if IsMissing(v) {
			out[i] = m.Mean
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// ModeImputer fills missing categorical cells with the most frequent value.
type ModeImputer struct {
	Mode string
}

func (m *ModeImputer) Fit(col []string) error {
	observed := make([]string, 0, len(col))
	for _, v := range col {
		if !IsMissing(v) {
			observed = append(observed, v)
		}
	}
	mode, ok := stats.ModeString(observed)
	if !ok {
		return errors.New("no observed values to impute from")
	}
	m.Mode = mode
	return nil
}

// Transform returns a copy of col with missing cells replaced by the mode.
func (m *ModeImputer) Transform(col []string) []string {
	out := make([]string, len(col))
	for i, v := range col {
		if IsMissing(v) {
			out[i] = m.Mode
		} else {
			out[i] = v
		}
	}
	return out
}
