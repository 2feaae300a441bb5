package dataprep

import (
	"errors"
	"sort"
)

// OneHotEncoder expands a categorical column into one indicator per category
// seen during Fit. Categories are kept in sorted order; values not seen during
// Fit encode to an all-zero block.
type OneHotEncoder struct {
	Categories []string
}

func (e *OneHotEncoder) Fit(col []string) error {
	unique := map[string]struct{}{}
	for _, v := range col {
		unique[v] = struct{}{}
	}
	if len(unique) == 0 {
		return errors.New("onehot: no categories")
	}
	cats := make([]string, 0, len(unique))
	for v := range unique {
		cats = append(cats, v)
	}
	sort.Strings(cats)
	e.Categories = cats
	return nil
}

// Width is the number of indicator columns produced per row.
func (e *OneHotEncoder) Width() int { return len(e.Categories) }

// EncodeInto writes the indicator block for v into dst, which must have
// length Width(). It reports whether v was a known category.
func (e *OneHotEncoder) EncodeInto(dst []float64, v string) bool {
	for i := range dst {
		dst[i] = 0
	}
	j := sort.SearchStrings(e.Categories, v)
	if j < len(e.Categories) && e.Categories[j] == v {
		dst[j] = 1
		return true
	}
	return false
}
