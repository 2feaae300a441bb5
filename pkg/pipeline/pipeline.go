package pipeline

import (
	"errors"
	"fmt"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/apperr"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/data"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/dataprep"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/stats"
)

// Preprocessor turns raw feature frames into dense numeric rows.
//
// Numeric columns are mean-imputed and standard-scaled; categorical columns
// are mode-imputed and one-hot encoded. Output rows hold the numeric block
// first, then one indicator block per categorical column, both in schema
// order. All fields are exported so the fitted state can be persisted with gob.
type Preprocessor struct {
	Schema   Schema
	Means    []dataprep.MeanImputer
	Scaler   *stats.StandardScaler
	Modes    []dataprep.ModeImputer
	Encoders []dataprep.OneHotEncoder
	Fitted   bool
}

func NewPreprocessor(schema Schema) *Preprocessor {
	return &Preprocessor{Schema: schema}
}

// Fit learns imputation statistics, scaling and category vocabularies from f.
func (p *Preprocessor) Fit(f *data.Frame) error {
	if err := p.checkColumns(f); err != nil {
		return err
	}
	if f.Nrow() == 0 {
		return apperr.NewTransformError("cannot fit preprocessor on an empty frame", nil)
	}

	numeric := p.Schema.Numeric()
	means := make([]dataprep.MeanImputer, len(numeric))
	numCols := make([][]float64, len(numeric))
	for i, name := range numeric {
		cells, err := f.Column(name)
		if err != nil {
			return apperr.NewTransformError("read column", err)
		}
		if err := means[i].Fit(cells); err != nil {
			return apperr.NewTransformError(fmt.Sprintf("impute column %q", name), err)
		}
		if numCols[i], err = means[i].Transform(cells); err != nil {
			return apperr.NewTransformError(fmt.Sprintf("impute column %q", name), err)
		}
	}

	var scaler *stats.StandardScaler
	if len(numeric) > 0 {
		scaler = stats.NewStandardScaler()
		if err := scaler.Fit(transpose(numCols, f.Nrow())); err != nil {
			return apperr.NewTransformError("fit scaler", err)
		}
	}

	categorical := p.Schema.Categorical()
	modes := make([]dataprep.ModeImputer, len(categorical))
	encoders := make([]dataprep.OneHotEncoder, len(categorical))
	for i, name := range categorical {
		cells, err := f.Column(name)
		if err != nil {
			return apperr.NewTransformError("read column", err)
		}
		if err := modes[i].Fit(cells); err != nil {
			return apperr.NewTransformError(fmt.Sprintf("impute column %q", name), err)
		}
		if err := encoders[i].Fit(modes[i].Transform(cells)); err != nil {
			return apperr.NewTransformError(fmt.Sprintf("encode column %q", name), err)
		}
	}

	p.Means, p.Scaler, p.Modes, p.Encoders = means, scaler, modes, encoders
	p.Fitted = true
	return nil
}

// Transform applies the fitted preprocessor. Unknown categories produce an
// all-zero block; a frame whose columns differ from the fitted schema fails.
func (p *Preprocessor) Transform(f *data.Frame) ([][]float64, error) {
	if !p.Fitted {
		return nil, apperr.NewTransformError("preprocessor is not fitted", nil)
	}
	if err := p.checkColumns(f); err != nil {
		return nil, err
	}

	n := f.Nrow()
	width := p.Width()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, width)
	}

	numeric := p.Schema.Numeric()
	if len(numeric) > 0 {
		numCols := make([][]float64, len(numeric))
		for i, name := range numeric {
			cells, err := f.Column(name)
			if err != nil {
				return nil, apperr.NewTransformError("read column", err)
			}
			if numCols[i], err = p.Means[i].Transform(cells); err != nil {
				return nil, apperr.NewTransformError(fmt.Sprintf("parse column %q", name), err)
			}
		}
		scaled, err := p.Scaler.Transform(transpose(numCols, n))
		if err != nil {
			return nil, apperr.NewTransformError("scale numeric columns", err)
		}
		for r := range out {
			copy(out[r], scaled[r])
		}
	}

	offset := len(numeric)
	for i, name := range p.Schema.Categorical() {
		cells, err := f.Column(name)
		if err != nil {
			return nil, apperr.NewTransformError("read column", err)
		}
		cells = p.Modes[i].Transform(cells)
		w := p.Encoders[i].Width()
		for r, v := range cells {
			p.Encoders[i].EncodeInto(out[r][offset:offset+w], v)
		}
		offset += w
	}
	return out, nil
}

func (p *Preprocessor) FitTransform(f *data.Frame) ([][]float64, error) {
	if err := p.Fit(f); err != nil {
		return nil, err
	}
	return p.Transform(f)
}

// Width is the length of every transformed row.
func (p *Preprocessor) Width() int {
	w := len(p.Schema.Numeric())
	for i := range p.Encoders {
		w += p.Encoders[i].Width()
	}
	return w
}

// FeatureNames names every output column, e.g. "votes" or "city=BTM".
func (p *Preprocessor) FeatureNames() []string {
	names := append([]string(nil), p.Schema.Numeric()...)
	for i, col := range p.Schema.Categorical() {
		if i >= len(p.Encoders) {
			break
		}
		for _, c := range p.Encoders[i].Categories {
			names = append(names, col+"="+c)
		}
	}
	return names
}

// checkColumns requires f to carry exactly the schema's columns.
func (p *Preprocessor) checkColumns(f *data.Frame) error {
	if len(p.Schema.FeatureNames) != len(p.Schema.Types) {
		return apperr.NewTransformError("schema names and types differ in length", nil)
	}
	if f.Ncol() != len(p.Schema.FeatureNames) {
		return apperr.NewTransformError(
			fmt.Sprintf("expected %d columns, got %d", len(p.Schema.FeatureNames), f.Ncol()), nil).
			WithDetail("columns", f.Names())
	}
	var missing []error
	for _, name := range p.Schema.FeatureNames {
		if !f.Has(name) {
			missing = append(missing, fmt.Errorf("missing column %q", name))
		}
	}
	if len(missing) > 0 {
		return apperr.NewTransformError("frame does not match preprocessor schema", errors.Join(missing...))
	}
	return nil
}

func transpose(cols [][]float64, n int) [][]float64 {
	rows := make([][]float64, n)
	for r := range rows {
		row := make([]float64, len(cols))
		for c := range cols {
			row[c] = cols[c][r]
		}
		rows[r] = row
	}
	return rows
}
