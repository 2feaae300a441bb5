// Package predict serves single-restaurant rating predictions from the
// persisted preprocessor and model.
package predict

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/apperr"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/data"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/logger"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/metrics"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/model"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/pipeline"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/store"
)

// Service predicts ratings. Loaded artifacts are cached and reloaded when
// either file changes on disk. It is safe for concurrent use.
type Service struct {
	preprocessorPath string
	modelPath        string
	log              *logger.Logger
	metrics          *metrics.Metrics

	mu     sync.RWMutex
	loaded *artifacts
}

type artifacts struct {
	pre      *pipeline.Preprocessor
	model    *model.Artifact
	preVer   store.Version
	modelVer store.Version
}

// New returns a Service reading the artifacts at the given paths. The files
// are not opened until the first prediction.
func New(preprocessorPath, modelPath string, log *logger.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		preprocessorPath: preprocessorPath,
		modelPath:        modelPath,
		log:              log,
		metrics:          m,
	}
}

// Predict returns the predicted rating for rec. Errors are *apperr.Error
// values of kind Artifact, Transform or Internal.
func (s *Service) Predict(ctx context.Context, rec data.Record) (rating float64, err error) {
	start := time.Now()
	defer func() { s.metrics.ObservePrediction(time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return 0, apperr.NewInternalError("prediction cancelled", err)
	}

	a, err := s.artifacts()
	if err != nil {
		return 0, err
	}

	frame, err := data.FromRecords(rec)
	if err != nil {
		return 0, apperr.NewInternalError("build input frame", err)
	}
	X, err := a.pre.Transform(frame)
	if err != nil {
		return 0, s.classify("transform input", err, apperr.KindTransform)
	}
	if w := a.pre.Width(); a.model.Features != 0 && w != a.model.Features {
		return 0, apperr.NewTransformError(
			fmt.Sprintf("preprocessor yields %d features, model expects %d", w, a.model.Features), nil)
	}
	out, err := a.model.Predict(X)
	if err != nil {
		return 0, apperr.NewTransformError("predict", err)
	}
	if len(out) != 1 || math.IsNaN(out[0]) {
		return 0, apperr.NewInternalError("model returned no usable prediction", nil)
	}

	s.log.LogPrediction(out[0], time.Since(start))
	return out[0], nil
}

// Ready loads the artifacts if needed and reports whether they are usable.
func (s *Service) Ready() error {
	_, err := s.artifacts()
	return err
}

// artifacts returns the cached pair, reloading it when either file's size or
// modification time differs from the cached version.
func (s *Service) artifacts() (*artifacts, error) {
	preVer, err := store.Stamp(s.preprocessorPath)
	if err != nil {
		return nil, err
	}
	modelVer, err := store.Stamp(s.modelPath)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	a := s.loaded
	s.mu.RUnlock()
	if a != nil && a.preVer.Equal(preVer) && a.modelVer.Equal(modelVer) {
		return a, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.loaded; a != nil && a.preVer.Equal(preVer) && a.modelVer.Equal(modelVer) {
		return a, nil
	}

	start := time.Now()
	next, err := s.load(preVer, modelVer)
	s.metrics.ObserveArtifactLoad(err)
	s.log.LogModel("load", s.modelPath, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	s.loaded = next
	return next, nil
}

func (s *Service) load(preVer, modelVer store.Version) (*artifacts, error) {
	var pre pipeline.Preprocessor
	if err := store.Load(s.preprocessorPath, &pre); err != nil {
		return nil, err
	}
	if !pre.Fitted {
		return nil, apperr.NewArtifactError(s.preprocessorPath, errors.New("preprocessor is not fitted"))
	}
	var art model.Artifact
	if err := store.Load(s.modelPath, &art); err != nil {
		return nil, err
	}
	if art.Regressor == nil {
		return nil, apperr.NewArtifactError(s.modelPath, errors.New("model holds no regressor"))
	}
	return &artifacts{pre: &pre, model: &art, preVer: preVer, modelVer: modelVer}, nil
}

// classify keeps err's kind when it already has one.
func (s *Service) classify(msg string, err error, kind apperr.Kind) error {
	if apperr.KindOf(err) != apperr.KindUnknown {
		return err
	}
	return apperr.New(kind, msg, err)
}

// Validate checks rec against the accepted vocabularies and ranges. The
// returned error names the offending field.
func (s *Service) Validate(rec data.Record) error {
	switch {
	case !data.Contains(data.YesNo, rec.OnlineOrder):
		return apperr.NewValidationError(data.ColOnlineOrder, "must be Yes or No")
	case !data.Contains(data.YesNo, rec.BookTable):
		return apperr.NewValidationError(data.ColBookTable, "must be Yes or No")
	case rec.Votes < 0:
		return apperr.NewValidationError(data.ColVotes, "must not be negative")
	case !data.Contains(data.RestTypes, rec.RestType):
		return apperr.NewValidationError(data.ColRestType, fmt.Sprintf("unknown restaurant type %q", rec.RestType))
	case !(rec.Cost > 0) || math.IsInf(rec.Cost, 0):
		return apperr.NewValidationError(data.ColCost, "must be a positive number")
	case !data.Contains(data.Types, rec.Type):
		return apperr.NewValidationError(data.ColType, fmt.Sprintf("unknown listing type %q", rec.Type))
	case !data.Contains(data.Cities, rec.City):
		return apperr.NewValidationError(data.ColCity, fmt.Sprintf("unknown city %q", rec.City))
	}
	return nil
}

// Stars maps a rating to a whole number of stars between 1 and 5.
func Stars(rating float64) int {
	if math.IsNaN(rating) {
		return 1
	}
	n := int(math.Round(rating))
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}
