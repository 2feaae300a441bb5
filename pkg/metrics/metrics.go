package metrics

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for the training pipeline and the prediction API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec

	// Prediction metrics
	predictionDuration prometheus.Histogram
	predictionCount    *prometheus.CounterVec
	artifactLoads      *prometheus.CounterVec

	// Training metrics
	candidateScore *prometheus.GaugeVec
	trainingRuns   *prometheus.CounterVec
}

// New creates a metrics collector backed by its own registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"handler", "method", "status"},
		),

		requestCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),

		predictionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "prediction_duration_seconds",
				Help:      "Duration of rating predictions",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
			},
		),

		predictionCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Total number of rating predictions by outcome",
			},
			[]string{"outcome"},
		),

		artifactLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "artifact_loads_total",
				Help:      "Number of times the preprocessor and model were (re)loaded",
			},
			[]string{"result"},
		),

		candidateScore: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "candidate_test_r2",
				Help:      "Held-out R2 of each candidate in the last training run",
			},
			[]string{"model"},
		),

		trainingRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "training_runs_total",
				Help:      "Training runs by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveRequest records HTTP request metrics
func (m *Metrics) ObserveRequest(handler, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(handler, method, code).Observe(duration.Seconds())
	m.requestCount.WithLabelValues(handler, method, code).Inc()
}

// ObservePrediction records one prediction attempt.
func (m *Metrics) ObservePrediction(duration time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.predictionCount.WithLabelValues("error").Inc()
		return
	}
	m.predictionDuration.Observe(duration.Seconds())
	m.predictionCount.WithLabelValues("ok").Inc()
}

// ObserveArtifactLoad counts artifact (re)loads.
func (m *Metrics) ObserveArtifactLoad(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.artifactLoads.WithLabelValues(result).Inc()
}

// SetCandidateScore exposes the held-out score of a trained candidate.
func (m *Metrics) SetCandidateScore(model string, r2 float64) {
	if m == nil {
		return
	}
	m.candidateScore.WithLabelValues(model).Set(r2)
}

// ObserveTrainingRun counts finished training runs.
func (m *Metrics) ObserveTrainingRun(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.trainingRuns.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps every collected metric to path in the text exposition
// format, for batch jobs that have no scrape endpoint. The file is replaced
// atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// Handler returns an HTTP handler for exposing metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
