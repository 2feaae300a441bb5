package dataprep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", "NA", "NaN", " ", "nan"} {
		assert.True(t, IsMissing(v), "%q", v)
	}
	for _, v := range []string{"0", "Yes", "N/A value"} {
		assert.False(t, IsMissing(v), "%q", v)
	}
}

func TestMeanImputer(t *testing.T) {
	var m MeanImputer
	require.NoError(t, m.Fit([]string{"1", "", "3", "NaN"}))
	assert.Equal(t, 2.0, m.Mean)

	out, err := m.Transform([]string{"", "10", "NA"})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 10, 2}, out)

	_, err = m.Transform([]string{"ten"})
	assert.Error(t, err)

	assert.Error(t, (&MeanImputer{}).Fit([]string{"", "NA"}))
	assert.Error(t, (&MeanImputer{}).Fit([]string{"1", "x"}))
}

func TestModeImputer(t *testing.T) {
	var m ModeImputer
	require.NoError(t, m.Fit([]string{"Yes", "No", "", "No", "Yes"}))
	assert.Equal(t, "No", m.Mode, "ties resolve to the smallest value")

	assert.Equal(t, []string{"No", "Yes"}, m.Transform([]string{"NaN", "Yes"}))
	assert.Error(t, (&ModeImputer{}).Fit([]string{""}))
}

func TestOneHotEncoder(t *testing.T) {
	var e OneHotEncoder
	require.NoError(t, e.Fit([]string{"Whitefield", "BTM", "HSR", "BTM"}))
	assert.Equal(t, []string{"BTM", "HSR", "Whitefield"}, e.Categories)
	assert.Equal(t, 3, e.Width())

	dst := []float64{9, 9, 9}
	assert.True(t, e.EncodeInto(dst, "HSR"))
	assert.Equal(t, []float64{0, 1, 0}, dst)
	assert.True(t, e.EncodeInto(dst, "Whitefield"))
	assert.Equal(t, []float64{0, 0, 1}, dst)
	assert.False(t, e.EncodeInto(dst, "AAA"))
	assert.Equal(t, []float64{0, 0, 0}, dst)
}

func TestProfileNumeric(t *testing.T) {
	p := Profile("cost", []string{"100", "200", "", "300", "NaN", "200"})
	assert.Equal(t, 6, p.Rows)
	assert.Equal(t, 2, p.Missing)
	assert.InDelta(t, 2.0/6, p.MissingRatio, 1e-12)
	assert.Equal(t, 3, p.Distinct)
	require.True(t, p.Numeric)
	assert.Equal(t, 100.0, p.Min)
	assert.Equal(t, 300.0, p.Max)
	assert.Equal(t, 200.0, p.Median)
	assert.InDelta(t, 297.0, p.P99, 1e-9)
	assert.InDelta(t, 0.0, p.Skew, 1e-9)
	assert.Contains(t, p.Fields(), "p99")
}

func TestProfileCategorical(t *testing.T) {
	p := Profile("city", []string{"BTM", "BTM", "HSR", "null", "42"})
	assert.False(t, p.Numeric)
	assert.Equal(t, 1, p.Missing)
	assert.Equal(t, 3, p.Distinct)
	assert.NotContains(t, p.Fields(), "median")

	empty := Profile("votes", nil)
	assert.False(t, empty.Numeric)
	assert.Zero(t, empty.MissingRatio)
}
