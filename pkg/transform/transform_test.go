package transform

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/apperr"
)

const trainCSV = `online_order,book_table,rate,votes,rest_type,cost,type,city
Yes,No,3.9,120,Cafe,400,Delivery,BTM
No,Yes,4.3,800,Casual Dining,1200,Dine-out,Indiranagar
Yes,No,3.5,,Quick Bites,200,Delivery,BTM
Yes,No,3.7,60,Cafe,,Cafes,HSR
`

const testCSV = `online_order,book_table,rate,votes,rest_type,cost,type,city
No,No,3.2,15,Bakery,150,Desserts,Jayanagar
Yes,Yes,4.1,300,Cafe,600,Delivery,BTM
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	trainPath := writeFile(t, dir, "train.csv", trainCSV)
	testPath := writeFile(t, dir, "test.csv", testCSV)

	arr, err := New(nil).Run(context.Background(), trainPath, testPath)
	require.NoError(t, err)

	assert.Equal(t, []float64{3.9, 4.3, 3.5, 3.7}, arr.Ytrain)
	assert.Equal(t, []float64{3.2, 4.1}, arr.Ytest)
	require.Len(t, arr.Xtrain, 4)
	require.Len(t, arr.Xtest, 2)

	// votes, cost, online_order{No,Yes}, book_table{No,Yes},
	// rest_type{Cafe,Casual Dining,Quick Bites}, type{Cafes,Delivery,Dine-out},
	// city{BTM,HSR,Indiranagar}
	width := 2 + 2 + 2 + 3 + 3 + 3
	for _, row := range append(arr.Xtrain, arr.Xtest...) {
		assert.Len(t, row, width)
	}

	require.NotNil(t, arr.Preprocessor)
	assert.Equal(t, width, arr.Preprocessor.Width())
	assert.Equal(t, "city=Indiranagar", arr.Preprocessor.FeatureNames()[width-1])

	// Fitting alone writes nothing to disk.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Bakery, Desserts and Jayanagar were never seen during fit.
	unseen := arr.Xtest[0]
	assert.Equal(t, []float64{0, 0, 0}, unseen[6:9])
	assert.Equal(t, []float64{0, 0, 0}, unseen[9:12])
	assert.Equal(t, []float64{0, 0, 0}, unseen[12:15])
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		train string
	}{
		{"missing target", "online_order,book_table,votes,rest_type,cost,type,city\nYes,No,1,Cafe,2,Delivery,BTM\n"},
		{"non numeric target", "online_order,book_table,rate,votes,rest_type,cost,type,city\nYes,No,NEW,1,Cafe,2,Delivery,BTM\n"},
		{"missing target value", "online_order,book_table,rate,votes,rest_type,cost,type,city\nYes,No,,1,Cafe,2,Delivery,BTM\n"},
		{"missing feature", "online_order,rate,votes,rest_type,cost,type,city\nYes,3.1,1,Cafe,2,Delivery,BTM\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			arr, err := New(nil).Run(context.Background(),
				writeFile(t, dir, "train.csv", tt.train),
				writeFile(t, dir, "test.csv", testCSV))
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindTransform))
			assert.Nil(t, arr)
		})
	}
}

func TestRunMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := New(nil).Run(context.Background(),
		filepath.Join(dir, "absent.csv"), writeFile(t, dir, "test.csv", testCSV))
	assert.True(t, apperr.IsKind(err, apperr.KindTransform))
}
