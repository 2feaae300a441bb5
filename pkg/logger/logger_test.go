package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{Level: "debug", Format: "console"},
		{Level: "WARN", Format: "json"},
	} {
		l, err := New(cfg)
		require.NoError(t, err)
		require.NotNil(t, l)
	}

	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core)).With("run_id", "r1")

	l.LogTraining("SVR", map[string]interface{}{"C": 10.0}, 0.71, 0.9, 0.68, 1500*time.Millisecond)
	l.LogModel("save", "artifacts/model.gob", time.Millisecond, nil)
	l.LogModel("load", "artifacts/model.gob", time.Millisecond, errors.New("missing"))
	l.LogPrediction(3.9, time.Microsecond)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	training := entries[0].ContextMap()
	assert.Equal(t, "Candidate evaluated", entries[0].Message)
	assert.Equal(t, "SVR", training["model"])
	assert.Equal(t, 0.68, training["test_r2"])
	assert.Equal(t, int64(1500), training["duration_ms"])
	assert.Equal(t, "r1", training["run_id"])

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[3].Level)
	assert.Equal(t, 3.9, entries[3].ContextMap()["predicted_rating"])
}
