package data

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/store"
)

// Frame is a table whose cells are all kept as strings. Typing happens in the
// preprocessor so that missing markers survive a CSV round trip unchanged.
type Frame struct {
	df dataframe.DataFrame
}

// ReadCSV loads the CSV file at path. The first row must be a header.
func ReadCSV(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(bufio.NewReader(f))
}

// Parse reads a CSV table from r.
func Parse(r io.Reader) (*Frame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse csv: %w", df.Err)
	}
	return &Frame{df: df}, nil
}

// FromColumns builds a frame from named string columns, preserving order.
func FromColumns(names []string, columns [][]string) (*Frame, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("frame: %d names for %d columns", len(names), len(columns))
	}
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = series.New(columns[i], series.String, name)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, fmt.Errorf("build frame: %w", df.Err)
	}
	return &Frame{df: df}, nil
}

// FromRecords builds a feature frame with FeatureColumns order.
func FromRecords(records ...Record) (*Frame, error) {
	columns := make([][]string, len(FeatureColumns))
	for i := range columns {
		columns[i] = make([]string, len(records))
	}
	for r, rec := range records {
		for c, v := range rec.Values() {
			columns[c][r] = v
		}
	}
	return FromColumns(FeatureColumns, columns)
}

// WriteCSV writes the frame, header included, atomically to path.
func (f *Frame) WriteCSV(path string) error {
	return store.WriteAtomic(path, func(w io.Writer) error {
		return f.df.WriteCSV(w)
	})
}

func (f *Frame) Nrow() int { return f.df.Nrow() }

func (f *Frame) Ncol() int { return f.df.Ncol() }

func (f *Frame) Names() []string { return f.df.Names() }

// Has reports whether the frame carries a column called name.
func (f *Frame) Has(name string) bool {
	for _, n := range f.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Column returns the raw cells of the named column.
func (f *Frame) Column(name string) ([]string, error) {
	if !f.Has(name) {
		return nil, fmt.Errorf("column %q not found", name)
	}
	return f.df.Col(name).Records(), nil
}

// Float returns the named column parsed as numbers. Any unparsable cell is an error.
func (f *Frame) Float(name string) ([]float64, error) {
	cells, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// Subset returns the rows at the given indexes, in that order.
func (f *Frame) Subset(rows []int) (*Frame, error) {
	df := f.df.Subset(rows)
	if df.Err != nil {
		return nil, fmt.Errorf("subset: %w", df.Err)
	}
	return &Frame{df: df}, nil
}

// Select keeps only the named columns, in the order given.
func (f *Frame) Select(names ...string) (*Frame, error) {
	df := f.df.Select(names)
	if df.Err != nil {
		return nil, fmt.Errorf("select: %w", df.Err)
	}
	return &Frame{df: df}, nil
}

// Drop removes the named columns.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	df := f.df.Drop(names)
	if df.Err != nil {
		return nil, fmt.Errorf("drop: %w", df.Err)
	}
	return &Frame{df: df}, nil
}
