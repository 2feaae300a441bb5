package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanVariance(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5.0, Mean(x), 1e-12)
	assert.InDelta(t, 4.0, Variance(x), 1e-12)
	assert.InDelta(t, 2.0, Std(x), 1e-12)

	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Variance(nil))
}

func TestMedianAndPercentile(t *testing.T) {
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 3.0, Median([]float64{5, 3, 1}))

	x := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, Percentile(x, 0))
	assert.Equal(t, 5.0, Percentile(x, 100))
	assert.Equal(t, 3.0, Percentile(x, 50))
	assert.InDelta(t, 2.0, Percentile(x, 25), 1e-12)
}

func TestWeightedMedian(t *testing.T) {
	assert.Equal(t, 2.0, WeightedMedian([]float64{3, 1, 2}, []float64{1, 1, 1}))
	assert.Equal(t, 3.0, WeightedMedian([]float64{1, 2, 3}, []float64{0.1, 0.1, 5}))
	assert.Equal(t, 0.0, WeightedMedian(nil, nil))
}

func TestModeString(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{name: "clear winner", in: []string{"Yes", "No", "Yes"}, want: "Yes"},
		{name: "tie picks smallest", in: []string{"b", "a", "b", "a"}, want: "a"},
		{name: "single", in: []string{"Cafe"}, want: "Cafe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ModeString(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := ModeString(nil)
	assert.False(t, ok)
}

func TestStandardScaler(t *testing.T) {
	X := [][]float64{{1, 5}, {3, 5}}
	s := NewStandardScaler()
	require.NoError(t, s.Fit(X))
	out, err := s.Transform(X)
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 5}, s.Mean)
	assert.Equal(t, []float64{1, 1}, s.Std, "constant column is scaled by 1")
	assert.Equal(t, [][]float64{{-1, 0}, {1, 0}}, out)

	_, err = s.Transform([][]float64{{1}})
	assert.Error(t, err)

	_, err = NewStandardScaler().Transform(X)
	assert.Error(t, err)

	assert.Error(t, NewStandardScaler().Fit(nil))
}
