package frame

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/mocap-lab/glove-cluster/internal/buffer"
)

// ErrEmptyGroup marks a group with no usable value in any feature column.
// Such a group cannot be imputed at all and the run must stop rather than
// silently pass NaN rows downstream.
var ErrEmptyGroup = errors.New("group has no usable feature values")

// rule is the imputation decision for one (group, column) pair.
type rule int

const (
	// passthrough : the column is complete within the group.
	passthrough rule = iota
	// columnMean : fill missing cells with the group's column mean.
	columnMean
	// scalarFallback : the column is entirely missing within the group,
	// fill with the group's single scalar mean over all feature cells.
	scalarFallback
)

func decide(col *buffer.Stats, missing int) rule {
	switch {
	case missing == 0:
		return passthrough
	case col.Count() > 0:
		return columnMean
	default:
		return scalarFallback
	}
}

// Impute fills every missing feature value using only statistics computed
// within the value's own group, partitioned by the key column.
// Per (group, column) the rule is: complete column passes through, a column
// with some values gets its group column mean, a column with no values at
// all gets the group's scalar mean over every known feature cell.
// The output frame has the same shape and row order as the input; the key
// and any non-feature columns are copied through unchanged.
func Impute(f *Frame, key string, features []string) (*Frame, error) {
	featIdx := make([]int, len(features))
	for i, c := range features {
		j, err := f.Column(c)
		if err != nil {
			return nil, err
		}
		featIdx[i] = j
	}

	groups, err := f.groups(key)
	if err != nil {
		return nil, err
	}

	// index-aligned output buffer, written group by group into the
	// original row positions
	out := make([][]float64, f.Rows())
	for r, row := range f.data {
		out[r] = make([]float64, len(row))
		copy(out[r], row)
	}

	filled := 0
	for _, g := range groups {
		cols := buffer.NewStatsCollector(len(featIdx))
		all := buffer.NewStats()
		missing := make([]int, len(featIdx))
		values := make([]float64, len(featIdx))
		for _, r := range g.rows {
			for i, j := range featIdx {
				v := f.data[r][j]
				values[i] = v
				if math.IsNaN(v) {
					missing[i]++
				} else {
					all.Push(v)
				}
			}
			cols.Push(values...)
		}

		if all.Count() == 0 {
			return nil, fmt.Errorf("group %s=%v with %d rows: %w", key, g.key, len(g.rows), ErrEmptyGroup)
		}
		fallback := all.Avg()

		for i, j := range featIdx {
			var fill float64
			switch decide(cols.Column(i), missing[i]) {
			case passthrough:
				continue
			case columnMean:
				fill = cols.Column(i).Avg()
			case scalarFallback:
				fill = fallback
			}
			for _, r := range g.rows {
				if math.IsNaN(out[r][j]) {
					out[r][j] = fill
					filled++
				}
			}
		}
	}

	log.Debug().
		Str("key", key).
		Int("groups", len(groups)).
		Int("filled", filled).
		Msg("imputed missing values")

	result, err := New(f.names, out)
	if err != nil {
		return nil, err
	}
	return result, nil
}
