package trainer

import (
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/model"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/search"
)

// Candidate is one regressor family and the grid it is tuned over.
type Candidate struct {
	Name  string
	Kind  model.Kind
	Space search.Space
}

func dim(name string, values ...any) search.Dimension {
	return search.Dimension{Name: name, Values: values}
}

// treeGrid is shared by the tree families. A max_depth of 0 grows the tree
// until its leaves are pure.
func treeGrid() search.Space {
	return search.Space{
		dim("max_depth", 0, 10, 20, 30, 40, 50),
		dim("min_samples_split", 2, 5, 10),
		dim("min_samples_leaf", 1, 2, 5),
	}
}

// DefaultCandidates returns the panel in evaluation order. Earlier
// candidates win ties.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{
			Name: "Random Forest",
			Kind: model.KindRandomForest,
			Space: append(search.Space{
				dim("n_estimators", 40, 50, 75, 90, 100, 125, 140, 150, 180, 200, 235, 256),
			}, treeGrid()...),
		},
		{
			Name:  "Decision Tree",
			Kind:  model.KindDecisionTree,
			Space: treeGrid(),
		},
		{
			Name: "Gradient Boosting",
			Kind: model.KindGradientBoosting,
			Space: search.Space{
				dim("learning_rate", 0.1, 0.01, 0.05, 0.001),
				dim("subsample", 0.6, 0.7, 0.75, 0.8, 0.85, 0.9),
				dim("n_estimators", 50, 100, 200),
				dim("max_depth", 3, 4, 5, 6, 7, 8),
				dim("min_samples_split", 2, 5, 10),
				dim("min_samples_leaf", 1, 2, 5),
			},
		},
		{
			Name: "Linear Regression",
			Kind: model.KindLinear,
		},
		{
			Name: "SVR",
			Kind: model.KindSVR,
			Space: search.Space{
				dim("kernel", "linear", "poly", "rbf", "sigmoid"),
				dim("C", 0.1, 1.0, 10.0, 100.0),
				dim("gamma", "scale", "auto"),
			},
		},
		{
			Name: "XGBRegressor",
			Kind: model.KindXGBoost,
			Space: search.Space{
				dim("learning_rate", 0.1, 0.01, 0.05, 0.001),
				dim("n_estimators", 50, 100, 200),
				dim("max_depth", 3, 4, 5, 6, 7, 8),
				dim("subsample", 0.6, 0.7, 0.75, 0.8, 0.85, 0.9),
			},
		},
		{
			Name: "CatBoost Regressor",
			Kind: model.KindCatBoost,
			Space: search.Space{
				dim("iterations", 100, 200, 300),
				dim("depth", 4, 6, 8, 10),
				dim("learning_rate", 0.1, 0.01, 0.05, 0.001),
			},
		},
		{
			Name: "AdaBoost Regressor",
			Kind: model.KindAdaBoost,
			Space: search.Space{
				dim("learning_rate", 0.1, 0.01, 0.5, 0.001),
				dim("n_estimators", 50, 100, 200),
			},
		},
		{
			Name: "Extra Trees Regressor",
			Kind: model.KindExtraTrees,
			Space: append(search.Space{
				dim("n_estimators", 50, 100, 200),
			}, treeGrid()...),
		},
		{
			Name: "Bagging Regressor",
			Kind: model.KindBagging,
			Space: search.Space{
				dim("n_estimators", 10, 20, 30, 40, 50),
				dim("max_samples", 0.5, 0.6, 0.7, 0.8, 0.9, 1.0),
				dim("max_features", 0.5, 0.6, 0.7, 0.8, 0.9, 1.0),
			},
		},
	}
}
