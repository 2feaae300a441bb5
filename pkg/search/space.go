package search

import (
	"fmt"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/model"
)

// Dimension is one hyperparameter and its candidate values.
type Dimension struct {
	Name   string
	Values []any
}

// Space is an ordered grid of hyperparameters.
type Space []Dimension

// Cardinality is the number of distinct configurations in the grid. An empty
// space has exactly one configuration: the defaults.
func (s Space) Cardinality() int {
	n := 1
	for _, d := range s {
		n *= len(d.Values)
	}
	return n
}

// At returns configuration i of the grid, counting with the last dimension
// varying fastest.
func (s Space) At(i int) model.Params {
	p := make(model.Params, len(s))
	for k := len(s) - 1; k >= 0; k-- {
		d := s[k]
		p[d.Name] = d.Values[i%len(d.Values)]
		i /= len(d.Values)
	}
	return p
}

// Validate rejects dimensions that are unnamed, empty or repeated.
func (s Space) Validate() error {
	seen := map[string]bool{}
	for _, d := range s {
		if d.Name == "" {
			return fmt.Errorf("search space: unnamed dimension")
		}
		if len(d.Values) == 0 {
			return fmt.Errorf("search space: dimension %q has no values", d.Name)
		}
		if seen[d.Name] {
			return fmt.Errorf("search space: dimension %q repeated", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// labels renders the values of d as the distinct strings handed to the
// sampler, mapping each back to its value.
func (d Dimension) labels() ([]string, map[string]any) {
	labels := make([]string, len(d.Values))
	back := make(map[string]any, len(d.Values))
	for i, v := range d.Values {
		l := fmt.Sprint(v)
		if _, dup := back[l]; dup {
			l = fmt.Sprintf("%s#%d", l, i)
		}
		labels[i] = l
		back[l] = v
	}
	return labels, back
}
