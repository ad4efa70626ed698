package frame

import (
	"github.com/rs/zerolog/log"

	"github.com/mocap-lab/glove-cluster/internal/buffer"
)

// Standardize z-scores each column of the matrix against its own mean and
// sample standard deviation. A zero-variance column cannot be scaled; it is
// mapped to all zeros and its index reported back, so the caller decides
// whether that is acceptable for the run.
func Standardize(m [][]float64) ([][]float64, []int) {
	if len(m) == 0 {
		return nil, nil
	}
	dim := len(m[0])
	cols := buffer.NewStatsCollector(dim)
	for _, row := range m {
		cols.Push(row...)
	}

	var degenerate []int
	mean := make([]float64, dim)
	std := make([]float64, dim)
	for j := 0; j < dim; j++ {
		mean[j] = cols.Column(j).Avg()
		std[j] = cols.Column(j).SampleStDev()
		if std[j] == 0 {
			degenerate = append(degenerate, j)
		}
	}

	if len(degenerate) > 0 {
		log.Warn().
			Ints("columns", degenerate).
			Msg("zero-variance columns mapped to zero")
	}

	out := make([][]float64, len(m))
	for r, row := range m {
		out[r] = make([]float64, dim)
		for j, v := range row {
			if std[j] == 0 {
				out[r][j] = 0
				continue
			}
			out[r][j] = (v - mean[j]) / std[j]
		}
	}
	return out, degenerate
}
