package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sample() *Report {
	cv := 0.71
	return &Report{
		RunID:     "run-1",
		StartedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Duration:  "1.5s",
		Winner:    "Random Forest",
		BestScore: 0.82,
		MinScore:  0.6,
		Accepted:  true,
		Candidates: []Candidate{
			{Name: "Random Forest", Kind: "random_forest", Params: map[string]any{"n_estimators": 100}, CVScore: &cv, TrainR2: 0.95, TestR2: 0.82, Configurations: 100},
			{Name: "Linear Regression", Kind: "linear", Params: map[string]any{}, TrainR2: 0.4, TestR2: 0.38},
			{Name: "SVR", Kind: "svr", TestR2: math.NaN()},
		},
	}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngMagic), "%s is not a PNG", path)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	r := sample()
	r.Candidates = r.Candidates[:2]
	require.NoError(t, WriteJSON(path, r))

	got, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "Random Forest", got.Winner)
	assert.True(t, got.StartedAt.Equal(r.StartedAt))
	require.Len(t, got.Candidates, 2)
	require.NotNil(t, got.Candidates[0].CVScore)
	assert.Equal(t, 0.71, *got.Candidates[0].CVScore)
	assert.Nil(t, got.Candidates[1].CVScore)
	assert.Equal(t, 100.0, got.Candidates[0].Params["n_estimators"])
}

func TestWriteScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.png")
	require.NoError(t, WriteScores(path, sample()))
	assertPNG(t, path)

	assert.Error(t, WriteScores(path, &Report{}))
}

func TestWritePredictions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.png")
	actual := []float64{3.1, 3.8, 4.2, 2.9}
	predicted := []float64{3.3, 3.6, 4.0, 3.2}
	require.NoError(t, WritePredictions(path, "winner", actual, predicted))
	assertPNG(t, path)

	assert.Error(t, WritePredictions(path, "winner", actual, predicted[:2]))
	assert.Error(t, WritePredictions(path, "winner", nil, nil))
}
