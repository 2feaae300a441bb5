// Package report records the outcome of a training run as JSON and PNG charts.
package report

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/store"
)

// Candidate is the outcome of one regressor family.
type Candidate struct {
	Name           string         `json:"name"`
	Kind           string         `json:"kind"`
	Params         map[string]any `json:"params"`
	CVScore        *float64       `json:"cv_r2,omitempty"` // nil when the family has nothing to tune
	TrainR2        float64        `json:"train_r2"`
	TestR2         float64        `json:"test_r2"`
	TestMAE        float64        `json:"test_mae"`
	TestRMSE       float64        `json:"test_rmse"`
	Configurations int            `json:"configurations"`
	DurationMs     int64          `json:"duration_ms"`
}

// Report summarizes a training run.
type Report struct {
	RunID      string      `json:"run_id"`
	StartedAt  time.Time   `json:"started_at"`
	Duration   string      `json:"duration"`
	Winner     string      `json:"winner"`
	BestScore  float64     `json:"best_score"`
	MinScore   float64     `json:"min_score"`
	Accepted   bool        `json:"accepted"`
	Candidates []Candidate `json:"candidates"`
}

// WriteJSON writes r to path, replacing any previous report.
func WriteJSON(path string, r *Report) error {
	return store.WriteAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	})
}

// ReadJSON loads a report written by WriteJSON.
func ReadJSON(path string) (*Report, error) {
	var r Report
	if err := store.ReadWith(path, func(rd io.Reader) error {
		return json.NewDecoder(rd).Decode(&r)
	}); err != nil {
		return nil, err
	}
	return &r, nil
}

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 5 * vg.Inch
)

// WriteScores renders the test R2 of every candidate as a bar chart.
// Non-finite scores are drawn as zero.
func WriteScores(path string, r *Report) error {
	if len(r.Candidates) == 0 {
		return fmt.Errorf("report: no candidates to chart")
	}
	p := plot.New()
	p.Title.Text = "Test R2 by candidate"
	p.Y.Label.Text = "R2"

	values := make(plotter.Values, len(r.Candidates))
	names := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		names[i] = c.Kind
		if !math.IsNaN(c.TestR2) && !math.IsInf(c.TestR2, 0) {
			values[i] = c.TestR2
		}
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("report: bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = -1

	if r.MinScore != 0 {
		floor, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: r.MinScore}, {X: float64(len(names)) - 0.5, Y: r.MinScore}})
		if err != nil {
			return fmt.Errorf("report: floor line: %w", err)
		}
		floor.Color = color.RGBA{R: 255, A: 255}
		floor.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(floor)
	}
	return save(p, path)
}

// WritePredictions renders predicted against actual ratings with the y = x
// reference line.
func WritePredictions(path, title string, actual, predicted []float64) error {
	if len(actual) != len(predicted) {
		return fmt.Errorf("report: %d actual values but %d predictions", len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return fmt.Errorf("report: no predictions to chart")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Actual rating"
	p.Y.Label.Text = "Predicted rating"

	pts := make(plotter.XYs, len(actual))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range actual {
		pts[i].X = actual[i]
		pts[i].Y = predicted[i]
		lo = math.Min(lo, math.Min(actual[i], predicted[i]))
		hi = math.Max(hi, math.Max(actual[i], predicted[i]))
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("report: scatter: %w", err)
	}
	s.Color = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	s.Radius = vg.Points(2)
	p.Add(s)

	ref, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return fmt.Errorf("report: reference line: %w", err)
	}
	ref.Color = color.RGBA{R: 255, A: 255}
	ref.LineStyle.Width = vg.Points(2)
	p.Add(ref)
	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	return store.WriteAtomic(path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
}
