package model

import (
	"encoding/gob"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Regressor is a supervised model mapping feature rows to a scalar.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

// Kind tags each regressor family.
type Kind int

const (
	KindRandomForest Kind = iota + 1
	KindDecisionTree
	KindGradientBoosting
	KindLinear
	KindSVR
	KindXGBoost
	KindCatBoost
	KindAdaBoost
	KindExtraTrees
	KindBagging
)

var kindNames = map[Kind]string{
	KindRandomForest:     "random_forest",
	KindDecisionTree:     "decision_tree",
	KindGradientBoosting: "gradient_boosting",
	KindLinear:           "linear",
	KindSVR:              "svr",
	KindXGBoost:          "xgboost",
	KindCatBoost:         "catboost",
	KindAdaBoost:         "adaboost",
	KindExtraTrees:       "extra_trees",
	KindBagging:          "bagging",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Params holds hyperparameters by name. Values are int, float64 or string.
type Params map[string]any

// Int returns the named integer parameter or def when absent.
func (p Params) Int(name string, def int) int {
	switch v := p[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Float returns the named float parameter or def when absent.
func (p Params) Float(name string, def float64) float64 {
	switch v := p[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Text returns the named string parameter or def when absent.
func (p Params) Text(name, def string) string {
	if v, ok := p[name].(string); ok {
		return v
	}
	return def
}

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Format renders p deterministically, e.g. "max_depth=10 n_estimators=50".
func (p Params) Format() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, p[k])
	}
	return strings.Join(parts, " ")
}

// New builds an unfitted regressor of the given kind. Unknown parameter names
// are ignored; missing ones take the family's defaults. A max_depth of 0
// means the depth is unlimited.
func New(kind Kind, p Params, seed int64) (Regressor, error) {
	switch kind {
	case KindDecisionTree:
		return NewDecisionTreeRegressor(
			WithMaxDepth(p.Int("max_depth", 0)),
			WithMinSamplesSplit(p.Int("min_samples_split", 2)),
			WithMinSamplesLeaf(p.Int("min_samples_leaf", 1)),
			WithRandomState(seed),
		), nil
	case KindRandomForest:
		return NewRandomForest(
			WithNEstimators(p.Int("n_estimators", 100)),
			WithForestTree(p.Int("max_depth", 0), p.Int("min_samples_split", 2), p.Int("min_samples_leaf", 1)),
			WithForestSeed(seed),
		), nil
	case KindExtraTrees:
		return NewExtraTrees(
			WithNEstimators(p.Int("n_estimators", 100)),
			WithForestTree(p.Int("max_depth", 0), p.Int("min_samples_split", 2), p.Int("min_samples_leaf", 1)),
			WithForestSeed(seed),
		), nil
	case KindBagging:
		return &Bagging{
			NEstimators: p.Int("n_estimators", 10),
			MaxSamples:  p.Float("max_samples", 1.0),
			MaxFeatures: p.Float("max_features", 1.0),
			RandomState: seed,
		}, nil
	case KindAdaBoost:
		return &AdaBoost{
			NEstimators:  p.Int("n_estimators", 50),
			LearningRate: p.Float("learning_rate", 1.0),
			MaxDepth:     3,
			RandomState:  seed,
		}, nil
	case KindGradientBoosting:
		return &GradientBoosting{
			NEstimators:     p.Int("n_estimators", 100),
			LearningRate:    p.Float("learning_rate", 0.1),
			Subsample:       p.Float("subsample", 1.0),
			MaxDepth:        p.Int("max_depth", 3),
			MinSamplesSplit: p.Int("min_samples_split", 2),
			MinSamplesLeaf:  p.Int("min_samples_leaf", 1),
			RandomState:     seed,
		}, nil
	case KindXGBoost:
		return &XGBoost{
			NEstimators:  p.Int("n_estimators", 100),
			LearningRate: p.Float("learning_rate", 0.3),
			MaxDepth:     p.Int("max_depth", 6),
			Subsample:    p.Float("subsample", 1.0),
			Lambda:       1,
			RandomState:  seed,
		}, nil
	case KindCatBoost:
		return &CatBoost{
			Iterations:   p.Int("iterations", 1000),
			Depth:        p.Int("depth", 6),
			LearningRate: p.Float("learning_rate", 0.03),
			L2LeafReg:    3,
			BorderCount:  32,
		}, nil
	case KindSVR:
		return &SVR{
			Kernel:  p.Text("kernel", "rbf"),
			C:       p.Float("C", 1.0),
			Gamma:   p.Text("gamma", "scale"),
			Epsilon: p.Float("epsilon", 0.1),
			Degree:  3,
		}, nil
	case KindLinear:
		return &LinearRegression{}, nil
	}
	return nil, fmt.Errorf("model: unknown kind %v", kind)
}

// Artifact is the persisted winner of a training run.
type Artifact struct {
	Name      string
	Kind      Kind
	Params    Params
	Regressor Regressor
	TestScore float64
	Features  int
}

// Predict runs the wrapped regressor after checking the row width.
func (a *Artifact) Predict(X [][]float64) ([]float64, error) {
	if a.Regressor == nil {
		return nil, fmt.Errorf("model artifact %q holds no regressor", a.Name)
	}
	for i, row := range X {
		if a.Features > 0 && len(row) != a.Features {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), a.Features)
		}
	}
	return a.Regressor.Predict(X), nil
}

func init() {
	gob.Register(&DecisionTreeRegressor{})
	gob.Register(&Forest{})
	gob.Register(&Bagging{})
	gob.Register(&AdaBoost{})
	gob.Register(&GradientBoosting{})
	gob.Register(&XGBoost{})
	gob.Register(&CatBoost{})
	gob.Register(&SVR{})
	gob.Register(&LinearRegression{})
}
