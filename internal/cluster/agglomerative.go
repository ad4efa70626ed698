package cluster

import (
	"math"

	"github.com/rs/zerolog/log"
)

// Agglomerative builds a dendrogram bottom-up: every observation starts as
// a singleton and the two closest clusters merge until one remains. Linkage
// is Ward's minimum-variance criterion, which favours compact, even-sized
// clusters; cluster distances are maintained with the Lance-Williams update.
type Agglomerative struct {
	k int

	dendrogram *Dendrogram
	guesses    []int
	sizes      []int
}

// NewAgglomerative creates an agglomerative clusterer that cuts the
// finished tree at k clusters.
func NewAgglomerative(k int) (*Agglomerative, error) {
	if k < 1 {
		return nil, ErrDegenerate
	}
	return &Agglomerative{k: k}, nil
}

// Learn builds the full merge tree and cuts it at the target k.
func (a *Agglomerative) Learn(data [][]float64) error {
	if err := validate(data, a.k); err != nil {
		return err
	}
	n := len(data)

	// pairwise squared distances, ward heights grow from these
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := SquaredEuclideanDistance(data[i], data[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	active := make([]bool, n)
	size := make([]float64, n)
	node := make([]int, n)
	for i := 0; i < n; i++ {
		active[i] = true
		size[i] = 1
		node[i] = i
	}

	merges := make([]Merge, 0, n-1)
	for t := 0; t < n-1; t++ {
		// closest active pair
		bi, bj := -1, -1
		best := math.MaxFloat64
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !active[j] {
					continue
				}
				if dist[i][j] < best {
					best = dist[i][j]
					bi, bj = i, j
				}
			}
		}

		// lance-williams update for ward linkage: slot bi becomes the
		// merged cluster, slot bj retires
		ni, nj := size[bi], size[bj]
		for l := 0; l < n; l++ {
			if !active[l] || l == bi || l == bj {
				continue
			}
			nl := size[l]
			d := ((ni+nl)*dist[bi][l] + (nj+nl)*dist[bj][l] - nl*best) / (ni + nj + nl)
			dist[bi][l] = d
			dist[l][bi] = d
		}

		merges = append(merges, Merge{
			A:      node[bi],
			B:      node[bj],
			Height: best,
			Size:   int(ni + nj),
		})
		size[bi] = ni + nj
		node[bi] = n + t
		active[bj] = false
	}

	a.dendrogram = &Dendrogram{leaves: n, merges: merges}
	guesses, err := a.dendrogram.Cut(a.k)
	if err != nil {
		return err
	}
	a.guesses = guesses
	a.sizes = sizesOf(guesses, a.k)

	log.Debug().
		Int("k", a.k).
		Int("rows", n).
		Msg("agglomerative tree built")

	return nil
}

// Guesses returns the cluster label per observation.
func (a *Agglomerative) Guesses() []int {
	return a.guesses
}

// Sizes returns the number of observations per cluster.
func (a *Agglomerative) Sizes() []int {
	return a.sizes
}

// Dendrogram exposes the full merge tree.
func (a *Agglomerative) Dendrogram() *Dendrogram {
	return a.dendrogram
}
