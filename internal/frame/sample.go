package frame

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"
)

// ErrSampleSize marks a sample request larger than the table.
var ErrSampleSize = errors.New("sample size exceeds row count")

// Sample draws a uniform random subset of exactly n rows without
// replacement. The seed fixes the draw, so a run is reproducible.
func Sample(f *Frame, n int, seed int64) (*Frame, error) {
	if n > f.Rows() {
		return nil, fmt.Errorf("requested %d of %d rows: %w", n, f.Rows(), ErrSampleSize)
	}
	if n < 0 {
		return nil, fmt.Errorf("requested %d rows", n)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(f.Rows())

	data := make([][]float64, n)
	for i := 0; i < n; i++ {
		src := f.data[perm[i]]
		data[i] = make([]float64, len(src))
		copy(data[i], src)
	}

	log.Debug().
		Int("rows", f.Rows()).
		Int("sample", n).
		Int64("seed", seed).
		Msg("sampled rows")

	return New(f.names, data)
}
