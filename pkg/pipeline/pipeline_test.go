package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/apperr"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/data"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/store"
)

func trainingFrame(t *testing.T) *data.Frame {
	t.Helper()
	f, err := data.FromColumns(data.FeatureColumns, [][]string{
		{"Yes", "No", "Yes", ""},
		{"No", "No", "Yes", "No"},
		{"10", "", "30", "40"},
		{"Cafe", "Quick Bites", "Cafe", "Bar"},
		{"300", "500", "", "700"},
		{"Delivery", "Dine-out", "Delivery", "Cafes"},
		{"BTM", "HSR", "BTM", "Whitefield"},
	})
	require.NoError(t, err)
	return f
}

func TestDefaultSchema(t *testing.T) {
	s := DefaultSchema()
	assert.Equal(t, []string{"votes", "cost"}, s.Numeric())
	assert.Equal(t, []string{"online_order", "book_table", "rest_type", "type", "city"}, s.Categorical())
}

func TestPreprocessorFitTransform(t *testing.T) {
	p := NewPreprocessor(DefaultSchema())
	X, err := p.FitTransform(trainingFrame(t))
	require.NoError(t, err)

	// 2 numeric + online_order{No,Yes} + book_table{No,Yes} + rest_type{Bar,Cafe,Quick Bites}
	// + type{Cafes,Delivery,Dine-out} + city{BTM,HSR,Whitefield}
	require.Equal(t, 15, p.Width())
	require.Len(t, X, 4)
	for _, row := range X {
		assert.Len(t, row, 15)
	}

	assert.InDelta(t, 80.0/3, p.Means[0].Mean, 1e-9)
	assert.InDelta(t, 500.0, p.Means[1].Mean, 1e-9)

	// numeric block is centered
	sumVotes := 0.0
	for _, row := range X {
		sumVotes += row[0]
	}
	assert.InDelta(t, 0, sumVotes, 1e-9)

	// missing online_order of row 4 is imputed with the mode "Yes"
	assert.Equal(t, []float64{0, 1}, X[3][2:4])

	names := p.FeatureNames()
	assert.Len(t, names, 15)
	assert.Equal(t, "votes", names[0])
	assert.Equal(t, "city=Whitefield", names[14])
}

func TestPreprocessorUnseenCategory(t *testing.T) {
	p := NewPreprocessor(DefaultSchema())
	require.NoError(t, p.Fit(trainingFrame(t)))

	f, err := data.FromRecords(data.Record{
		OnlineOrder: "Yes", BookTable: "No", Votes: 20,
		RestType: "Mess", Cost: 400, Type: "Buffet", City: "Atlantis",
	})
	require.NoError(t, err)

	X, err := p.Transform(f)
	require.NoError(t, err)
	require.Len(t, X, 1)

	// rest_type, type and city blocks are all zero
	assert.Equal(t, make([]float64, 9), X[0][6:15])
}

func TestPreprocessorSchemaMismatch(t *testing.T) {
	p := NewPreprocessor(DefaultSchema())
	require.NoError(t, p.Fit(trainingFrame(t)))

	short, err := data.FromColumns([]string{"online_order", "votes"}, [][]string{{"Yes"}, {"1"}})
	require.NoError(t, err)
	_, err = p.Transform(short)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindTransform))

	renamed := make([]string, len(data.FeatureColumns))
	copy(renamed, data.FeatureColumns)
	renamed[6] = "town"
	cols := make([][]string, len(renamed))
	for i := range cols {
		cols[i] = []string{"1"}
	}
	wrong, err := data.FromColumns(renamed, cols)
	require.NoError(t, err)
	_, err = p.Transform(wrong)
	assert.True(t, apperr.IsKind(err, apperr.KindTransform))

	_, err = NewPreprocessor(DefaultSchema()).Transform(trainingFrame(t))
	assert.True(t, apperr.IsKind(err, apperr.KindTransform))
}

func TestPreprocessorRoundTrip(t *testing.T) {
	p := NewPreprocessor(DefaultSchema())
	f := trainingFrame(t)
	want, err := p.FitTransform(f)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "preprocessor.gob")
	require.NoError(t, store.Save(p, path))

	var loaded Preprocessor
	require.NoError(t, store.Load(path, &loaded))
	got, err := loaded.Transform(f)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
