package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/config"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/ingest"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/logger"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/metrics"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/store"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/trainer"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/transform"
)

const defaultConfig = "config.yaml"

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: ./config.yaml when present)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	score, err := run(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "training failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(score)
}

// run chains ingestion, transformation and training, returning the test R2
// of the saved model. Training metrics are written to Paths.Metrics whether
// or not the run succeeds.
func run(ctx context.Context, configPath string, opts ...trainer.Option) (float64, error) {
	if configPath == "" && store.Exists(defaultConfig) {
		configPath = defaultConfig
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return 0, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return 0, err
	}
	defer log.Sync()

	m := metrics.New("rating")
	defer func() {
		if cfg.Paths.Metrics == "" {
			return
		}
		if err := m.WriteTextfile(cfg.Paths.Metrics); err != nil {
			log.Warnw("Failed to write training metrics", "path", cfg.Paths.Metrics, "error", err)
		}
	}()

	trainPath, testPath, err := ingest.New(cfg.Paths, cfg.Training, log).Run(ctx)
	if err != nil {
		m.ObserveTrainingRun(err)
		return 0, err
	}

	arrays, err := transform.New(log).Run(ctx, trainPath, testPath)
	if err != nil {
		m.ObserveTrainingRun(err)
		return 0, err
	}

	opts = append([]trainer.Option{
		trainer.WithLogger(log),
		trainer.WithMetrics(m),
		trainer.WithPreprocessor(arrays.Preprocessor),
	}, opts...)
	return trainer.New(cfg.Training, cfg.Paths, opts...).
		Run(ctx, arrays.Xtrain, arrays.Ytrain, arrays.Xtest, arrays.Ytest)
}
