// Package trainer tunes every candidate regressor, keeps the best one on the
// held-out split and persists it.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/apperr"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/config"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/logger"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/metrics"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/model"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/pipeline"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/report"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/search"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/store"
)

// Trainer runs the candidate panel.
type Trainer struct {
	training   config.Training
	paths      config.Paths
	candidates []Candidate
	pre        *pipeline.Preprocessor
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithCandidates replaces the default panel.
func WithCandidates(cs []Candidate) Option {
	return func(t *Trainer) { t.candidates = cs }
}

// WithLogger sets the logger used for per-candidate events.
func WithLogger(l *logger.Logger) Option {
	return func(t *Trainer) { t.log = l }
}

// WithMetrics publishes candidate scores and run outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Trainer) { t.metrics = m }
}

// WithPreprocessor saves pre to paths.Preprocessor alongside an accepted
// model. A rejected run leaves the previous preprocessor in place.
func WithPreprocessor(pre *pipeline.Preprocessor) Option {
	return func(t *Trainer) { t.pre = pre }
}

// New returns a Trainer writing its model to paths.Model and its report next
// to paths.Report.
func New(training config.Training, paths config.Paths, opts ...Option) *Trainer {
	t := &Trainer{
		training:   training,
		paths:      paths,
		candidates: DefaultCandidates(),
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type outcome struct {
	candidate Candidate
	params    model.Params
	regressor model.Regressor
	testPred  []float64
	testR2    float64
}

// Run tunes each candidate on the training split, refits it with its best
// parameters and scores it on the test split. The candidate with the strictly
// highest test R2 is saved, with the preprocessor when one is set, and its
// score returned. A best score below Training.MinScore is a training error
// and leaves every artifact on disk untouched.
func (t *Trainer) Run(ctx context.Context, Xtr [][]float64, ytr []float64, Xte [][]float64, yte []float64) (score float64, err error) {
	defer func() { t.metrics.ObserveTrainingRun(err) }()

	if err := checkSplit("train", Xtr, ytr); err != nil {
		return 0, err
	}
	if err := checkSplit("test", Xte, yte); err != nil {
		return 0, err
	}
	if len(t.candidates) == 0 {
		return 0, apperr.NewTrainingError("no candidates to train", nil)
	}
	if t.pre != nil && t.pre.Width() != len(Xtr[0]) {
		return 0, apperr.NewTrainingError(
			fmt.Sprintf("preprocessor emits %d features but the train split has %d", t.pre.Width(), len(Xtr[0])), nil)
	}

	started := time.Now()
	runID := uuid.NewString()
	log := t.log.With("run_id", runID)
	log.Infow("Training started",
		"candidates", len(t.candidates),
		"train_rows", len(Xtr),
		"test_rows", len(Xte),
		"features", len(Xtr[0]),
	)

	rep := &report.Report{
		RunID:     runID,
		StartedAt: started.UTC(),
		MinScore:  t.training.MinScore,
	}
	best := outcome{testR2: math.Inf(-1)}

	for _, c := range t.candidates {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		o, entry, err := t.evaluate(ctx, log, c, Xtr, ytr, Xte, yte)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, ctxErr
			}
			log.Errorw("Candidate failed", "model", c.Name, "error", err)
			return 0, apperr.NewTrainingError(fmt.Sprintf("candidate %s failed", c.Name), err)
		}
		rep.Candidates = append(rep.Candidates, entry)
		t.metrics.SetCandidateScore(c.Name, o.testR2)
		if o.testR2 > best.testR2 {
			best = o
		}
	}

	rep.Duration = time.Since(started).Round(time.Millisecond).String()
	rep.Winner = best.candidate.Name
	rep.BestScore = best.testR2
	rep.Accepted = best.regressor != nil && best.testR2 >= t.training.MinScore
	t.writeReport(log, rep, best, yte)

	if !rep.Accepted {
		log.Warnw("No candidate reached the minimum score",
			"best_model", best.candidate.Name,
			"best_r2", best.testR2,
			"min_score", t.training.MinScore,
		)
		return 0, apperr.NewTrainingError(
			fmt.Sprintf("no model reached R2 %.2f (best %s at %.4f)", t.training.MinScore, best.candidate.Name, best.testR2), nil).
			WithDetail("best_model", best.candidate.Name)
	}

	if t.pre != nil {
		saveStart := time.Now()
		err = store.Save(t.pre, t.paths.Preprocessor)
		log.LogModel("save", t.paths.Preprocessor, time.Since(saveStart), err)
		if err != nil {
			return 0, err
		}
	}

	art := &model.Artifact{
		Name:      best.candidate.Name,
		Kind:      best.candidate.Kind,
		Params:    best.params.Clone(),
		Regressor: best.regressor,
		TestScore: best.testR2,
		Features:  len(Xtr[0]),
	}
	saveStart := time.Now()
	err = store.Save(art, t.paths.Model)
	log.LogModel("save", t.paths.Model, time.Since(saveStart), err)
	if err != nil {
		return 0, err
	}

	log.Infow("Best model found",
		"model", best.candidate.Name,
		"params", best.params.Format(),
		"test_r2", best.testR2,
		"duration", rep.Duration,
	)
	return best.testR2, nil
}

// evaluate searches, refits and scores one candidate.
func (t *Trainer) evaluate(ctx context.Context, log *logger.Logger, c Candidate, Xtr [][]float64, ytr []float64, Xte [][]float64, yte []float64) (outcome, report.Candidate, error) {
	start := time.Now()
	log.Infow("Training candidate", "model", c.Name)

	s := &search.RandomizedSearch{
		Kind:  c.Kind,
		Space: c.Space,
		Config: search.Config{
			Iterations: t.training.Iterations,
			Folds:      t.training.Folds,
			Seed:       t.training.Seed,
			Workers:    t.training.Workers,
		},
		Log: log.With("model", c.Name),
	}
	res, err := s.Run(ctx, Xtr, ytr)
	if err != nil {
		return outcome{}, report.Candidate{}, fmt.Errorf("search: %w", err)
	}

	m, err := model.New(c.Kind, res.Params, t.training.Seed)
	if err != nil {
		return outcome{}, report.Candidate{}, err
	}
	if err := m.Fit(Xtr, ytr); err != nil {
		return outcome{}, report.Candidate{}, fmt.Errorf("refit: %w", err)
	}
	trainR2 := model.R2(ytr, m.Predict(Xtr))
	testPred := m.Predict(Xte)
	testR2 := model.R2(yte, testPred)
	d := time.Since(start)

	log.LogTraining(c.Name, res.Params, res.Score, trainR2, testR2, d)

	entry := report.Candidate{
		Name:           c.Name,
		Kind:           c.Kind.String(),
		Params:         res.Params,
		TrainR2:        trainR2,
		TestR2:         testR2,
		TestMAE:        model.MAE(yte, testPred),
		TestRMSE:       model.RMSE(yte, testPred),
		Configurations: res.Evaluated,
		DurationMs:     d.Milliseconds(),
	}
	if !math.IsNaN(res.Score) {
		cv := res.Score
		entry.CVScore = &cv
	}
	return outcome{
		candidate: c,
		params:    res.Params,
		regressor: m,
		testPred:  testPred,
		testR2:    testR2,
	}, entry, nil
}

// writeReport saves the JSON summary and charts. Failures are logged only.
func (t *Trainer) writeReport(log *logger.Logger, rep *report.Report, best outcome, yte []float64) {
	if t.paths.Report == "" {
		return
	}
	dir := filepath.Dir(t.paths.Report)
	errs := []error{
		report.WriteJSON(t.paths.Report, rep),
		report.WriteScores(filepath.Join(dir, "scores.png"), rep),
	}
	if best.regressor != nil {
		errs = append(errs, report.WritePredictions(filepath.Join(dir, "predictions.png"),
			best.candidate.Name+": predicted vs actual", yte, best.testPred))
	}
	if err := errors.Join(errs...); err != nil {
		log.Warnw("Failed to write training report", "path", t.paths.Report, "error", err)
		return
	}
	log.Infow("Training report written", "path", t.paths.Report)
}

func checkSplit(name string, X [][]float64, y []float64) error {
	if len(X) == 0 {
		return apperr.NewTrainingError(fmt.Sprintf("%s split is empty", name), nil)
	}
	if len(X) != len(y) {
		return apperr.NewTrainingError(fmt.Sprintf("%s split has %d rows but %d targets", name, len(X), len(y)), nil)
	}
	return nil
}
