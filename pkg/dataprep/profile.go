package dataprep

import (
	"math"
	"strconv"
	"strings"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/stats"
)

// ColumnProfile summarizes the raw values of one column.
type ColumnProfile struct {
	Name         string
	Rows         int
	Missing      int
	MissingRatio float64
	Distinct     int
	Numeric      bool

	// Filled only for numeric columns.
	Min, Median, P99, Max float64
	Skew                  float64
}

// Profile inspects a raw column. A column is numeric when every present
// value parses as a float.
func Profile(name string, col []string) ColumnProfile {
	p := ColumnProfile{Name: name, Rows: len(col)}
	seen := make(map[string]struct{})
	numeric := true
	var values []float64
	for _, v := range col {
		if IsMissing(v) {
			p.Missing++
			continue
		}
		seen[v] = struct{}{}
		if !numeric {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			numeric = false
			continue
		}
		values = append(values, f)
	}
	p.Distinct = len(seen)
	if p.Rows > 0 {
		p.MissingRatio = float64(p.Missing) / float64(p.Rows)
	}
	if !numeric || len(values) == 0 {
		return p
	}

	p.Numeric = true
	p.Min, p.Max = stats.MinMax(values)
	p.Median = stats.Median(values)
	p.P99 = stats.Percentile(values, 99)
	// mean vs median distance, scaled by std
	p.Skew = (stats.Mean(values) - p.Median) / (stats.Std(values) + 1e-9)
	return p
}

// Fields flattens the profile into key/value pairs for structured logging.
func (p ColumnProfile) Fields() []interface{} {
	kv := []interface{}{
		"column", p.Name,
		"missing", p.Missing,
		"missing_ratio", p.MissingRatio,
		"distinct", p.Distinct,
		"numeric", p.Numeric,
	}
	if p.Numeric {
		kv = append(kv, "min", p.Min, "median", p.Median, "p99", p.P99, "max", p.Max, "skew", p.Skew)
	}
	return kv
}
