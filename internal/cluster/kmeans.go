package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog/log"
)

// KMeans partitions observations into k clusters by iterative relocation,
// minimizing the within-cluster sum of squared euclidean distances.
// Initialization is seeded k-means++, so a run is reproducible for a fixed
// seed and the starting centroids spread over the data.
type KMeans struct {
	k             int
	maxIterations int
	tolerance     float64
	seed          int64

	centroids [][]float64
	guesses   []int
	sizes     []int
	withinSS  float64
}

// NewKMeans creates a KMeans clusterer for k clusters.
func NewKMeans(k, maxIterations int, seed int64) (*KMeans, error) {
	if k < 1 {
		return nil, fmt.Errorf("requested %d clusters: %w", k, ErrDegenerate)
	}
	if maxIterations < 1 {
		maxIterations = 100
	}
	return &KMeans{
		k:             k,
		maxIterations: maxIterations,
		tolerance:     1e-9,
		seed:          seed,
	}, nil
}

// Learn fits the model with Lloyd iterations until the centroids settle
// or the iteration budget runs out.
func (km *KMeans) Learn(data [][]float64) error {
	if err := validate(data, km.k); err != nil {
		return err
	}
	n := len(data)
	dim := len(data[0])

	rng := rand.New(rand.NewSource(km.seed))
	centroids := seedCentroids(data, km.k, rng)

	guesses := make([]int, n)
	iterations := 0
	for ; iterations < km.maxIterations; iterations++ {
		// assignment step
		for i, row := range data {
			best := 0
			bestDist := math.MaxFloat64
			for c, centroid := range centroids {
				if d := SquaredEuclideanDistance(row, centroid); d < bestDist {
					bestDist = d
					best = c
				}
			}
			guesses[i] = best
		}

		// relocation step
		sums := make([][]float64, km.k)
		counts := make([]int, km.k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, row := range data {
			c := guesses[i]
			counts[c]++
			for j, v := range row {
				sums[c][j] += v
			}
		}

		shift := 0.0
		for c := 0; c < km.k; c++ {
			if counts[c] == 0 {
				// re-seed an empty cluster on the observation furthest
				// from its current centroid
				far := km.farthest(data, centroids, guesses)
				copy(sums[c], data[far])
				counts[c] = 1
				guesses[far] = c
			}
			next := sums[c]
			for j := range next {
				next[j] /= float64(counts[c])
			}
			shift += SquaredEuclideanDistance(centroids[c], next)
			centroids[c] = next
		}

		if shift < km.tolerance {
			iterations++
			break
		}
	}

	km.centroids = centroids
	km.guesses = guesses
	km.sizes = sizesOf(guesses, km.k)
	km.withinSS = 0
	for i, row := range data {
		km.withinSS += SquaredEuclideanDistance(row, centroids[guesses[i]])
	}

	log.Debug().
		Int("k", km.k).
		Int("rows", n).
		Int("iterations", iterations).
		Float64("within-ss", km.withinSS).
		Msg("k-means converged")

	return nil
}

// seedCentroids picks k starting centroids with the k-means++ rule: the
// first uniformly at random, each next one proportional to the squared
// distance from the closest centroid chosen so far.
func seedCentroids(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(data)
	dim := len(data[0])

	centroids := make([][]float64, 0, k)
	first := make([]float64, dim)
	copy(first, data[rng.Intn(n)])
	centroids = append(centroids, first)

	closest := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i, row := range data {
			d := math.MaxFloat64
			for _, centroid := range centroids {
				if dd := SquaredEuclideanDistance(row, centroid); dd < d {
					d = dd
				}
			}
			closest[i] = d
			total += d
		}

		pick := 0
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range closest {
				acc += d
				if acc >= target {
					pick = i
					break
				}
			}
		} else {
			pick = rng.Intn(n)
		}
		next := make([]float64, dim)
		copy(next, data[pick])
		centroids = append(centroids, next)
	}
	return centroids
}

func (km *KMeans) farthest(data, centroids [][]float64, guesses []int) int {
	far := 0
	farDist := -1.0
	for i, row := range data {
		if d := SquaredEuclideanDistance(row, centroids[guesses[i]]); d > farDist {
			farDist = d
			far = i
		}
	}
	return far
}

// Guesses returns the cluster label per observation.
func (km *KMeans) Guesses() []int {
	return km.guesses
}

// Sizes returns the number of observations per cluster.
func (km *KMeans) Sizes() []int {
	return km.sizes
}

// Centroids returns the final cluster centers.
func (km *KMeans) Centroids() [][]float64 {
	return km.centroids
}

// WithinSS returns the total within-cluster sum of squared distances
// to the final centroids.
func (km *KMeans) WithinSS() float64 {
	return km.withinSS
}
