package pipeline

import "github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/data"

// Column types understood by the preprocessor.
const (
	Numeric     = "numeric"
	Categorical = "category"
)

// Schema describes the structure of a dataset.
type Schema struct {
	FeatureNames []string
	Types        []string // Numeric or Categorical, aligned with FeatureNames
}

// DefaultSchema is the restaurant feature layout.
func DefaultSchema() Schema {
	types := make([]string, len(data.FeatureColumns))
	for i, name := range data.FeatureColumns {
		switch name {
		case data.ColVotes, data.ColCost:
			types[i] = Numeric
		default:
			types[i] = Categorical
		}
	}
	return Schema{
		FeatureNames: append([]string(nil), data.FeatureColumns...),
		Types:        types,
	}
}

func (s Schema) columns(kind string) []string {
	var out []string
	for i, t := range s.Types {
		if t == kind {
			out = append(out, s.FeatureNames[i])
		}
	}
	return out
}

// Numeric returns the numeric columns in schema order.
func (s Schema) Numeric() []string { return s.columns(Numeric) }

// Categorical returns the categorical columns in schema order.
func (s Schema) Categorical() []string { return s.columns(Categorical) }
