// Package transform fits the preprocessor on the train split and turns both
// splits into numeric arrays.
package transform

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/apperr"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/data"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/logger"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/pipeline"
)

// Arrays holds the transformed splits and the preprocessor fitted on the
// train split. The preprocessor is not persisted here; the trainer saves it
// together with an accepted model.
type Arrays struct {
	Xtrain       [][]float64
	Ytrain       []float64
	Xtest        [][]float64
	Ytest        []float64
	Preprocessor *pipeline.Preprocessor
}

// Transformer builds the preprocessor.
type Transformer struct {
	schema pipeline.Schema
	log    *logger.Logger
}

// New returns a Transformer. A nil logger discards output.
func New(log *logger.Logger) *Transformer {
	if log == nil {
		log = logger.Nop()
	}
	return &Transformer{
		schema: pipeline.DefaultSchema(),
		log:    log,
	}
}

// Run loads both splits, separates the rate target, fits the preprocessor on
// the train features only and transforms both splits.
func (t *Transformer) Run(ctx context.Context, trainPath, testPath string) (*Arrays, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trainX, trainY, err := t.load(trainPath)
	if err != nil {
		return nil, err
	}
	testX, testY, err := t.load(testPath)
	if err != nil {
		return nil, err
	}
	t.log.Infow("Split data into features and target", "train_rows", len(trainY), "test_rows", len(testY))

	pre := pipeline.NewPreprocessor(t.schema)
	Xtrain, err := pre.FitTransform(trainX)
	if err != nil {
		return nil, t.fail("fit preprocessor", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	Xtest, err := pre.Transform(testX)
	if err != nil {
		return nil, t.fail("transform test split", err)
	}

	t.log.Infow("Data transformation complete",
		"x_train_shape", fmt.Sprintf("(%d, %d)", len(Xtrain), pre.Width()),
		"x_test_shape", fmt.Sprintf("(%d, %d)", len(Xtest), pre.Width()),
		"features", pre.FeatureNames(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Arrays{Xtrain: Xtrain, Ytrain: trainY, Xtest: Xtest, Ytest: testY, Preprocessor: pre}, nil
}

// load reads one split and returns its feature frame and numeric target.
func (t *Transformer) load(path string) (*data.Frame, []float64, error) {
	f, err := data.ReadCSV(path)
	if err != nil {
		return nil, nil, t.fail(fmt.Sprintf("read %s", path), err)
	}
	if !f.Has(data.TargetColumn) {
		return nil, nil, t.fail(fmt.Sprintf("read %s", path), fmt.Errorf("target column %q not found", data.TargetColumn))
	}
	y, err := f.Float(data.TargetColumn)
	if err != nil {
		return nil, nil, t.fail(fmt.Sprintf("parse target in %s", path), err)
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, t.fail(fmt.Sprintf("parse target in %s", path),
				fmt.Errorf("column %q row %d: missing value", data.TargetColumn, i+1))
		}
	}
	features, err := f.Select(t.schema.FeatureNames...)
	if err != nil {
		return nil, nil, t.fail(fmt.Sprintf("select features in %s", path), err)
	}
	return features, y, nil
}

func (t *Transformer) fail(msg string, err error) error {
	t.log.Errorw("Data transformation failed", "step", msg, "error", err)
	if apperr.IsKind(err, apperr.KindTransform) {
		return err
	}
	return apperr.NewTransformError(msg, err)
}
