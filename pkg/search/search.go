// Package search tunes a regressor family by cross-validated random search.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/c-bata/goptuna"
	"golang.org/x/sync/errgroup"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/loader"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/logger"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/model"
)

// Config controls one randomized search.
type Config struct {
	Iterations int   // configurations to draw
	Folds      int   // cross-validation folds
	Seed       int64 // seeds sampling, fold assignment and the models
	Workers    int   // folds fitted concurrently
}

// Result is the best configuration found.
type Result struct {
	Params    model.Params
	Score     float64 // mean validation R2; NaN when no CV was run
	Evaluated int     // distinct configurations cross-validated
	Trials    int     // configurations drawn, duplicates included
}

// RandomizedSearch scores configurations of one regressor family by mean
// k-fold R2 and keeps the first configuration reaching the highest score.
type RandomizedSearch struct {
	Kind   model.Kind
	Space  Space
	Config Config
	Log    *logger.Logger
}

// Run searches the space on (X, y). When the grid holds no more
// configurations than Config.Iterations, each one is evaluated exactly once
// in grid order. Otherwise configurations are drawn by a seeded random
// sampler; repeated draws are answered from a memo. An empty space returns
// the defaults without cross-validation.
func (s *RandomizedSearch) Run(ctx context.Context, X [][]float64, y []float64) (Result, error) {
	if err := s.Space.Validate(); err != nil {
		return Result{}, err
	}
	if len(s.Space) == 0 {
		return Result{Params: model.Params{}, Score: math.NaN()}, nil
	}
	cfg := s.Config
	if cfg.Iterations < 1 {
		return Result{}, fmt.Errorf("search: iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	folds, err := loader.KFold(len(X), cfg.Folds, cfg.Seed)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}

	log := s.Log
	if log == nil {
		log = logger.Nop()
	}

	t := &tracker{
		ctx:   ctx,
		kind:  s.Kind,
		cfg:   cfg,
		folds: folds,
		X:     X,
		y:     y,
		log:   log,
		memo:  map[string]float64{},
		best:  Result{Score: math.Inf(-1)},
	}

	if card := s.Space.Cardinality(); card <= cfg.Iterations {
		for i := 0; i < card; i++ {
			if _, err := t.score(s.Space.At(i)); err != nil {
				return Result{}, err
			}
		}
	} else if err := t.sample(s.Space); err != nil {
		return Result{}, err
	}

	if t.best.Params == nil {
		return Result{}, fmt.Errorf("search: every configuration of %v failed", s.Kind)
	}
	res := t.best
	res.Evaluated = len(t.memo)
	res.Trials = t.trials
	return res, nil
}

type tracker struct {
	ctx    context.Context
	kind   model.Kind
	cfg    Config
	folds  []loader.Fold
	X      [][]float64
	y      []float64
	log    *logger.Logger
	memo   map[string]float64
	best   Result
	trials int
}

// score cross-validates p once and updates the running best. Failed fits
// score NaN and can never win; context errors abort the search.
func (t *tracker) score(p model.Params) (float64, error) {
	t.trials++
	key := p.Format()
	if v, ok := t.memo[key]; ok {
		return v, nil
	}
	v, err := t.crossValidate(p)
	if err != nil {
		if ctxErr := t.ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		t.log.Warnw("Configuration failed", "model", t.kind.String(), "params", key, "error", err)
		v = math.NaN()
	}
	t.memo[key] = v
	if v > t.best.Score {
		t.best = Result{Params: p, Score: v}
	}
	return v, nil
}

// crossValidate returns the mean validation R2 over the folds, which are
// fitted concurrently and gathered by fold index.
func (t *tracker) crossValidate(p model.Params) (float64, error) {
	scores := make([]float64, len(t.folds))
	g, ctx := errgroup.WithContext(t.ctx)
	g.SetLimit(t.cfg.Workers)
	for i, fold := range t.folds {
		i, fold := i, fold
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := model.New(t.kind, p, t.cfg.Seed)
			if err != nil {
				return err
			}
			Xtr, ytr := loader.Gather(t.X, t.y, fold.Train)
			if err := m.Fit(Xtr, ytr); err != nil {
				return fmt.Errorf("fold %d: %w", i, err)
			}
			Xva, yva := loader.Gather(t.X, t.y, fold.Valid)
			scores[i] = model.R2(yva, m.Predict(Xva))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), nil
}

// failedScore is reported to the sampler for configurations that could not
// be fitted.
const failedScore = -math.MaxFloat64

var errStopped = errors.New("search stopped")

// sample draws cfg.Iterations configurations with goptuna's seeded random sampler.
func (t *tracker) sample(space Space) error {
	study, err := goptuna.CreateStudy(
		fmt.Sprintf("%s-search", t.kind),
		goptuna.StudyOptionDirection(goptuna.StudyDirectionMaximize),
		goptuna.StudyOptionSampler(goptuna.NewRandomSampler(goptuna.RandomSamplerOptionSeed(t.cfg.Seed))),
		goptuna.StudyOptionLogger(studyLogger{t.log}),
	)
	if err != nil {
		return fmt.Errorf("search: create study: %w", err)
	}

	labels := make([][]string, len(space))
	values := make([]map[string]any, len(space))
	for i, d := range space {
		labels[i], values[i] = d.labels()
	}

	var stopErr error
	objective := func(trial goptuna.Trial) (float64, error) {
		p := make(model.Params, len(space))
		for i, d := range space {
			l, err := trial.SuggestCategorical(d.Name, labels[i])
			if err != nil {
				return 0, err
			}
			p[d.Name] = values[i][l]
		}
		v, err := t.score(p)
		if err != nil {
			stopErr = err
			return 0, errStopped
		}
		if math.IsNaN(v) {
			return failedScore, nil
		}
		return v, nil
	}

	err = study.Optimize(objective, t.cfg.Iterations)
	if stopErr != nil {
		return stopErr
	}
	if err != nil {
		return fmt.Errorf("search: optimize: %w", err)
	}
	return nil
}

// studyLogger routes goptuna's trial events to zap at debug level.
type studyLogger struct {
	log *logger.Logger
}

func (l studyLogger) Debug(msg string, fields ...interface{}) { l.log.Debugw(msg, fields...) }
func (l studyLogger) Info(msg string, fields ...interface{})  { l.log.Debugw(msg, fields...) }
func (l studyLogger) Warn(msg string, fields ...interface{})  { l.log.Warnw(msg, fields...) }
func (l studyLogger) Error(msg string, fields ...interface{}) { l.log.Errorw(msg, fields...) }
