package logger

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the underlying zap logger with pipeline-specific helpers
type Logger struct {
	*zap.SugaredLogger
}

// Config represents logger configuration
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// New builds a zap logger from cfg. Unknown formats fall back to JSON.
func New(cfg Config) (*Logger, error) {
	var zc zap.Config
	switch strings.ToLower(cfg.Format) {
	case "console", "text":
		zc = zap.NewDevelopmentConfig()
	default:
		zc = zap.NewProductionConfig()
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	base, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{SugaredLogger: base.Sugar()}, nil
}

// Wrap adapts an existing zap logger.
func Wrap(l *zap.Logger) *Logger {
	return &Logger{SugaredLogger: l.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

// LogTraining logs the outcome of one candidate's search and refit.
func (l *Logger) LogTraining(name string, params map[string]interface{}, cvScore, trainR2, testR2 float64, duration time.Duration) {
	l.Infow("Candidate evaluated",
		"model", name,
		"params", params,
		"cv_r2", cvScore,
		"train_r2", trainR2,
		"test_r2", testR2,
		"duration_ms", duration.Milliseconds(),
	)
}

// LogModel logs artifact operations (save, load, reload)
func (l *Logger) LogModel(operation, path string, duration time.Duration, err error) {
	if err != nil {
		l.Errorw("Model operation failed",
			"operation", operation,
			"path", path,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return
	}
	l.Infow("Model operation completed",
		"operation", operation,
		"path", path,
		"duration_ms", duration.Milliseconds(),
	)
}

// LogPrediction logs a served prediction
func (l *Logger) LogPrediction(rating float64, duration time.Duration) {
	l.Debugw("Prediction generated",
		"predicted_rating", rating,
		"duration_us", duration.Microseconds(),
	)
}
