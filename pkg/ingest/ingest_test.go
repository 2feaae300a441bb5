package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/apperr"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/config"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/data"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/logger"
)

func writeSource(t *testing.T, rows int) config.Paths {
	t.Helper()
	dir := t.TempDir()
	var b strings.Builder
	b.WriteString("online_order,book_table,rate,votes,rest_type,cost,type,city\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "Yes,No,%.1f,%d,Cafe,%d,Delivery,BTM\n", 3+float64(i%10)/10, i, 100+i)
	}
	paths := config.DefaultPaths(filepath.Join(dir, "artifacts"))
	paths.Source = filepath.Join(dir, "source.csv")
	require.NoError(t, os.WriteFile(paths.Source, []byte(b.String()), 0o644))
	return paths
}

func votes(t *testing.T, path string) []string {
	t.Helper()
	f, err := data.ReadCSV(path)
	require.NoError(t, err)
	v, err := f.Column("votes")
	require.NoError(t, err)
	return v
}

func TestRunSplitsDeterministically(t *testing.T) {
	paths := writeSource(t, 10)
	ing := New(paths, config.Default().Training, nil)

	trainPath, testPath, err := ing.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, paths.Train, trainPath)
	assert.Equal(t, paths.Test, testPath)

	train, test := votes(t, trainPath), votes(t, testPath)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)

	all := append(append([]string{}, train...), test...)
	sort.Strings(all)
	assert.Equal(t, sortedCopy(votes(t, paths.Source)), all)

	raw, err := data.ReadCSV(paths.Raw)
	require.NoError(t, err)
	assert.Equal(t, 8, raw.Ncol())
	assert.Equal(t, 10, raw.Nrow())

	_, _, err = ing.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, test, votes(t, testPath))
}

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		paths func(t *testing.T) config.Paths
	}{
		{"missing source", func(t *testing.T) config.Paths {
			p := writeSource(t, 5)
			p.Source = filepath.Join(t.TempDir(), "absent.csv")
			return p
		}},
		{"single row", func(t *testing.T) config.Paths {
			return writeSource(t, 1)
		}},
		{"malformed csv", func(t *testing.T) config.Paths {
			p := writeSource(t, 5)
			require.NoError(t, os.WriteFile(p.Source, []byte("a,b\n1,2,3\n4\n"), 0o644))
			return p
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := tt.paths(t)
			_, _, err := New(paths, config.Default().Training, nil).Run(context.Background())
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindIngestion))
			assert.NoFileExists(t, paths.Train)
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := New(writeSource(t, 5), config.Default().Training, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunLogsColumnProfiles(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	paths := writeSource(t, 10)

	_, _, err := New(paths, config.Default().Training, logger.Wrap(zap.New(core))).Run(context.Background())
	require.NoError(t, err)

	profiles := logs.FilterMessage("Column profile").All()
	require.Len(t, profiles, 8)
	byColumn := map[string]map[string]interface{}{}
	for _, e := range profiles {
		fields := e.ContextMap()
		byColumn[fields["column"].(string)] = fields
	}
	assert.Equal(t, true, byColumn["cost"]["numeric"])
	assert.Equal(t, 100.0, byColumn["cost"]["min"])
	assert.Equal(t, 109.0, byColumn["cost"]["max"])
	assert.Equal(t, false, byColumn["city"]["numeric"])
	assert.EqualValues(t, 1, byColumn["city"]["distinct"])
}
