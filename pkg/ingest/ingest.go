// Package ingest reads the source table and splits it into train and test files.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/apperr"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/config"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/data"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/dataprep"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/loader"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/logger"
)

// Ingestor copies the source data into the artifacts directory and splits it.
type Ingestor struct {
	paths    config.Paths
	training config.Training
	log      *logger.Logger
}

// New returns an Ingestor. A nil logger discards output.
func New(paths config.Paths, training config.Training, log *logger.Logger) *Ingestor {
	if log == nil {
		log = logger.Nop()
	}
	return &Ingestor{paths: paths, training: training, log: log}
}

// Run reads Paths.Source, writes the raw copy and a seeded train/test split,
// and returns the paths of the two split files.
func (i *Ingestor) Run(ctx context.Context) (trainPath, testPath string, err error) {
	start := time.Now()
	i.log.Infow("Data ingestion started", "source", i.paths.Source)

	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	frame, err := data.ReadCSV(i.paths.Source)
	if err != nil {
		return "", "", i.fail("read source data", err)
	}
	n := frame.Nrow()
	i.log.Infow("Read the dataset", "rows", n, "columns", frame.Ncol())
	if n < 2 {
		return "", "", i.fail("split source data", fmt.Errorf("need at least 2 rows, got %d", n))
	}
	i.profile(frame)

	if err := frame.WriteCSV(i.paths.Raw); err != nil {
		return "", "", i.fail("write raw data", err)
	}

	trainIdx, testIdx, err := loader.TrainTestSplit(n, i.training.TestRatio, i.training.Seed)
	if err != nil {
		return "", "", i.fail("split source data", err)
	}
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	if err := writeSubset(frame, trainIdx, i.paths.Train); err != nil {
		return "", "", i.fail("write train data", err)
	}
	if err := writeSubset(frame, testIdx, i.paths.Test); err != nil {
		return "", "", i.fail("write test data", err)
	}

	i.log.Infow("Data ingestion completed",
		"train_rows", len(trainIdx),
		"test_rows", len(testIdx),
		"train_path", i.paths.Train,
		"test_path", i.paths.Test,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return i.paths.Train, i.paths.Test, nil
}

// profile logs a data-quality summary of every source column.
func (i *Ingestor) profile(f *data.Frame) {
	for _, name := range f.Names() {
		col, err := f.Column(name)
		if err != nil {
			continue
		}
		i.log.Debugw("Column profile", dataprep.Profile(name, col).Fields()...)
	}
}

func (i *Ingestor) fail(msg string, err error) error {
	i.log.Errorw("Data ingestion failed", "step", msg, "error", err)
	return apperr.NewIngestionError(msg, err)
}

func writeSubset(f *data.Frame, rows []int, path string) error {
	sub, err := f.Subset(rows)
	if err != nil {
		return err
	}
	return sub.WriteCSV(path)
}
