package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog/log"
)

// FuzzyCMeans assigns every observation a membership weight per cluster
// instead of a hard label. The fuzziness exponent m controls how soft the
// weights are: close to 1 the assignment is near-hard, large values push
// every row towards uniform membership over all clusters, which carries no
// information. That degenerate state is detectable and reported through
// Diagnostics rather than returned silently.
type FuzzyCMeans struct {
	k             int
	m             float64
	maxIterations int
	tolerance     float64
	seed          int64

	memberships [][]float64
	centroids   [][]float64
	diagnostics Diagnostics
}

// Diagnostics captures the convergence state of a fuzzy run.
type Diagnostics struct {
	Iterations int
	// Crispness is the minimum over rows of the maximum membership.
	// A value near 1/k means every row is undecided about every cluster.
	Crispness float64
	// CompletelyFuzzy is set when the solution collapsed to near-uniform
	// memberships for all rows.
	CompletelyFuzzy bool
}

// fuzzyCollapseMargin is the relative slack above the uniform weight 1/k
// below which the solution counts as completely fuzzy.
const fuzzyCollapseMargin = 0.05

// NewFuzzyCMeans creates a fuzzy clusterer for k clusters with fuzziness
// exponent m, which must be strictly greater than 1.
func NewFuzzyCMeans(k int, m float64, maxIterations int, seed int64) (*FuzzyCMeans, error) {
	if k < 1 {
		return nil, fmt.Errorf("requested %d clusters: %w", k, ErrDegenerate)
	}
	if m <= 1 {
		return nil, fmt.Errorf("fuzziness exponent %v must exceed 1: %w", m, ErrDegenerate)
	}
	if maxIterations < 1 {
		maxIterations = 100
	}
	return &FuzzyCMeans{
		k:             k,
		m:             m,
		maxIterations: maxIterations,
		tolerance:     1e-6,
		seed:          seed,
	}, nil
}

// Learn fits the membership matrix by alternating centroid and membership
// updates until the memberships settle.
func (f *FuzzyCMeans) Learn(data [][]float64) error {
	if err := validate(data, f.k); err != nil {
		return err
	}
	n := len(data)
	dim := len(data[0])

	rng := rand.New(rand.NewSource(f.seed))
	u := make([][]float64, n)
	for i := range u {
		u[i] = make([]float64, f.k)
		sum := 0.0
		for c := range u[i] {
			u[i][c] = rng.Float64()
			sum += u[i][c]
		}
		for c := range u[i] {
			u[i][c] /= sum
		}
	}

	centroids := make([][]float64, f.k)
	for c := range centroids {
		centroids[c] = make([]float64, dim)
	}

	exp := 2 / (f.m - 1)
	iterations := 0
	for ; iterations < f.maxIterations; iterations++ {
		// centroid update, weighted by memberships^m
		for c := 0; c < f.k; c++ {
			var weight float64
			for j := range centroids[c] {
				centroids[c][j] = 0
			}
			for i, row := range data {
				w := math.Pow(u[i][c], f.m)
				weight += w
				for j, v := range row {
					centroids[c][j] += w * v
				}
			}
			if weight == 0 {
				continue
			}
			for j := range centroids[c] {
				centroids[c][j] /= weight
			}
		}

		// membership update
		shift := 0.0
		for i, row := range data {
			d := make([]float64, f.k)
			hard := -1
			for c, centroid := range centroids {
				d[c] = EuclideanDistance(row, centroid)
				if d[c] == 0 {
					hard = c
				}
			}
			for c := 0; c < f.k; c++ {
				var next float64
				if hard >= 0 {
					// the row sits on a centroid, assign it there
					if c == hard {
						next = 1
					}
				} else {
					sum := 0.0
					for l := 0; l < f.k; l++ {
						sum += math.Pow(d[c]/d[l], exp)
					}
					next = 1 / sum
				}
				if diff := math.Abs(next - u[i][c]); diff > shift {
					shift = diff
				}
				u[i][c] = next
			}
		}

		if shift < f.tolerance {
			iterations++
			break
		}
	}

	f.memberships = u
	f.centroids = centroids
	f.diagnostics = f.diagnose(iterations)

	if f.diagnostics.CompletelyFuzzy {
		log.Warn().
			Int("k", f.k).
			Float64("exponent", f.m).
			Float64("crispness", f.diagnostics.Crispness).
			Msg("fuzzy clustering collapsed to uniform memberships")
	} else {
		log.Debug().
			Int("k", f.k).
			Float64("exponent", f.m).
			Int("iterations", iterations).
			Float64("crispness", f.diagnostics.Crispness).
			Msg("fuzzy clustering converged")
	}

	return nil
}

func (f *FuzzyCMeans) diagnose(iterations int) Diagnostics {
	crispness := 1.0
	for _, row := range f.memberships {
		max := 0.0
		for _, w := range row {
			if w > max {
				max = w
			}
		}
		if max < crispness {
			crispness = max
		}
	}
	uniform := 1 / float64(f.k)
	return Diagnostics{
		Iterations:      iterations,
		Crispness:       crispness,
		CompletelyFuzzy: crispness < uniform*(1+fuzzyCollapseMargin),
	}
}

// Memberships returns, per observation, the weights over clusters.
func (f *FuzzyCMeans) Memberships() [][]float64 {
	return f.memberships
}

// Centroids returns the fuzzy cluster centers.
func (f *FuzzyCMeans) Centroids() [][]float64 {
	return f.centroids
}

// Diagnostics reports the convergence state of the last Learn.
func (f *FuzzyCMeans) Diagnostics() Diagnostics {
	return f.diagnostics
}

// Harden maps the membership matrix to hard labels by maximum weight.
func (f *FuzzyCMeans) Harden() []int {
	guesses := make([]int, len(f.memberships))
	for i, row := range f.memberships {
		best := 0
		for c, w := range row {
			if w > row[best] {
				best = c
			}
		}
		guesses[i] = best
	}
	return guesses
}
