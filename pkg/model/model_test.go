package model

import (
	"bytes"
	"encoding/gob"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// synthetic returns rows with two informative features and one one-hot pair.
func synthetic(n int, seed int64) ([][]float64, []float64) {
	rnd := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		a := rnd.Float64()*4 - 2
		b := rnd.Float64()*4 - 2
		flag := float64(rnd.Intn(2))
		X[i] = []float64{a, b, flag, 1 - flag}
		y[i] = 3 + 1.5*a - 0.8*b + 0.7*flag
	}
	return X, y
}

func TestR2(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, R2(y, y))
	assert.InDelta(t, 0.0, R2(y, []float64{2.5, 2.5, 2.5, 2.5}), 1e-12)
	assert.Less(t, R2(y, []float64{4, 3, 2, 1}), 0.0)

	constant := []float64{2, 2, 2}
	assert.Equal(t, 1.0, R2(constant, constant))
	assert.Equal(t, 0.0, R2(constant, []float64{1, 2, 3}))

	assert.InDelta(t, 0.5, MSE([]float64{0, 0}, []float64{1, 0}), 1e-12)
	assert.InDelta(t, 0.5, MAE([]float64{0, 0}, []float64{1, 0}), 1e-12)
	assert.InDelta(t, math.Sqrt(0.5), RMSE([]float64{0, 0}, []float64{1, 0}), 1e-12)
}

func TestParams(t *testing.T) {
	p := Params{"max_depth": 10, "learning_rate": 0.05, "kernel": "rbf"}
	assert.Equal(t, 10, p.Int("max_depth", 0))
	assert.Equal(t, 3, p.Int("missing", 3))
	assert.Equal(t, 0.05, p.Float("learning_rate", 1))
	assert.Equal(t, 10.0, p.Float("max_depth", 0))
	assert.Equal(t, "rbf", p.Text("kernel", "linear"))
	assert.Equal(t, "scale", p.Text("gamma", "scale"))
	assert.Equal(t, "kernel=rbf learning_rate=0.05 max_depth=10", p.Format())

	c := p.Clone()
	c["max_depth"] = 20
	assert.Equal(t, 10, p.Int("max_depth", 0))
}

func TestRegressorsFit(t *testing.T) {
	Xtr, ytr := synthetic(240, 1)
	Xte, yte := synthetic(80, 2)

	tests := []struct {
		kind   Kind
		params Params
		minR2  float64
	}{
		{KindLinear, nil, 0.999},
		{KindDecisionTree, Params{"max_depth": 0}, 0.8},
		{KindRandomForest, Params{"n_estimators": 20}, 0.85},
		{KindExtraTrees, Params{"n_estimators": 20}, 0.85},
		{KindBagging, Params{"n_estimators": 20, "max_samples": 1.0, "max_features": 1.0}, 0.85},
		{KindAdaBoost, Params{"n_estimators": 50, "learning_rate": 0.5}, 0.7},
		{KindGradientBoosting, Params{"n_estimators": 100, "learning_rate": 0.1, "max_depth": 3}, 0.9},
		{KindXGBoost, Params{"n_estimators": 100, "learning_rate": 0.1, "max_depth": 3}, 0.9},
		{KindCatBoost, Params{"iterations": 200, "depth": 4, "learning_rate": 0.1}, 0.9},
		{KindSVR, Params{"kernel": "linear", "C": 10.0}, 0.9},
		{KindSVR, Params{"kernel": "rbf", "C": 10.0, "gamma": "scale"}, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			m, err := New(tt.kind, tt.params, 42)
			require.NoError(t, err)
			require.NoError(t, m.Fit(Xtr, ytr))

			pred := m.Predict(Xte)
			require.Len(t, pred, len(Xte))
			assert.Greater(t, R2(yte, pred), tt.minR2)
		})
	}
}

func TestRegressorsDeterministic(t *testing.T) {
	X, y := synthetic(120, 3)
	for _, kind := range []Kind{KindRandomForest, KindExtraTrees, KindBagging, KindAdaBoost, KindGradientBoosting} {
		a, err := New(kind, Params{"n_estimators": 10, "subsample": 0.8}, 42)
		require.NoError(t, err)
		b, err := New(kind, Params{"n_estimators": 10, "subsample": 0.8}, 42)
		require.NoError(t, err)
		require.NoError(t, a.Fit(X, y))
		require.NoError(t, b.Fit(X, y))
		assert.Equal(t, a.Predict(X), b.Predict(X), kind.String())
	}
}

func TestDecisionTreeLimits(t *testing.T) {
	X, y := synthetic(200, 4)

	stump := NewDecisionTreeRegressor(WithMaxDepth(1))
	require.NoError(t, stump.Fit(X, y))
	assert.Len(t, stump.Nodes, 3)

	leafy := NewDecisionTreeRegressor(WithMinSamplesLeaf(50))
	require.NoError(t, leafy.Fit(X, y))
	for _, n := range leafy.Nodes {
		if n.Leaf {
			assert.GreaterOrEqual(t, n.Samples, 50)
		}
	}

	constant := NewDecisionTreeRegressor()
	require.NoError(t, constant.Fit(X, make([]float64, len(X))))
	assert.Len(t, constant.Nodes, 1)

	assert.Error(t, NewDecisionTreeRegressor().Fit(nil, nil))
	assert.Error(t, NewDecisionTreeRegressor().Fit([][]float64{{1}, {1, 2}}, []float64{1, 2}))
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New(Kind(99), nil, 1)
	assert.Error(t, err)
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestArtifactGobRoundTrip(t *testing.T) {
	X, y := synthetic(100, 5)
	for _, kind := range []Kind{KindLinear, KindRandomForest, KindCatBoost, KindSVR, KindAdaBoost} {
		m, err := New(kind, Params{"n_estimators": 5, "iterations": 20}, 42)
		require.NoError(t, err)
		require.NoError(t, m.Fit(X, y))

		art := &Artifact{Name: kind.String(), Kind: kind, Params: Params{"n_estimators": 5}, Regressor: m, Features: 4}
		var buf bytes.Buffer
		require.NoError(t, gob.NewEncoder(&buf).Encode(art))

		var got Artifact
		require.NoError(t, gob.NewDecoder(&buf).Decode(&got))
		want, err := art.Predict(X)
		require.NoError(t, err)
		pred, err := got.Predict(X)
		require.NoError(t, err)
		assert.Equal(t, want, pred, kind.String())
		assert.Equal(t, 5, got.Params.Int("n_estimators", 0))
	}
}

func TestArtifactWidthCheck(t *testing.T) {
	art := &Artifact{Name: "linear", Regressor: &LinearRegression{W: []float64{1, 2}}, Features: 2}
	_, err := art.Predict([][]float64{{1, 2, 3}})
	assert.Error(t, err)

	_, err = (&Artifact{}).Predict([][]float64{{1}})
	assert.Error(t, err)
}
