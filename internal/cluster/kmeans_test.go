package cluster

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blobs generates well separated gaussian-ish point clouds.
func blobs(seed int64, perBlob int, centers ...[]float64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	var data [][]float64
	for _, center := range centers {
		for i := 0; i < perBlob; i++ {
			row := make([]float64, len(center))
			for j, c := range center {
				row[j] = c + rng.NormFloat64()*0.2
			}
			data = append(data, row)
		}
	}
	return data
}

func TestKMeans_SeparatesBlobs(t *testing.T) {
	data := blobs(11, 20, []float64{0, 0}, []float64{10, 10})

	km, err := NewKMeans(2, 100, 42)
	require.NoError(t, err)
	require.NoError(t, km.Learn(data))

	guesses := km.Guesses()
	require.Len(t, guesses, 40)

	// each blob lands in one cluster
	for i := 1; i < 20; i++ {
		assert.Equal(t, guesses[0], guesses[i])
	}
	for i := 21; i < 40; i++ {
		assert.Equal(t, guesses[20], guesses[i])
	}
	assert.NotEqual(t, guesses[0], guesses[20])
	assert.ElementsMatch(t, []int{20, 20}, km.Sizes())
	assert.Len(t, km.Centroids(), 2)
}

func TestKMeans_SingleCluster(t *testing.T) {
	data := blobs(3, 30, []float64{1, 2, 3})

	km, err := NewKMeans(1, 100, 7)
	require.NoError(t, err)
	require.NoError(t, km.Learn(data))

	assert.Equal(t, []int{30}, km.Sizes())
	for _, g := range km.Guesses() {
		assert.Equal(t, 0, g)
	}

	// within-cluster SS for k=1 equals the total squared deviation
	// around the grand centroid
	centroid := make([]float64, 3)
	for _, row := range data {
		for j, v := range row {
			centroid[j] += v / float64(len(data))
		}
	}
	total := 0.0
	for _, row := range data {
		total += SquaredEuclideanDistance(row, centroid)
	}
	assert.InDelta(t, total, km.WithinSS(), 1e-6)
	assert.InDelta(t, 0, SquaredEuclideanDistance(centroid, km.Centroids()[0]), 1e-9)
}

func TestKMeans_Reproducible(t *testing.T) {
	data := blobs(5, 50, []float64{0, 0}, []float64{3, 3}, []float64{0, 6})

	a, err := NewKMeans(3, 100, 99)
	require.NoError(t, err)
	require.NoError(t, a.Learn(data))

	b, err := NewKMeans(3, 100, 99)
	require.NoError(t, err)
	require.NoError(t, b.Learn(data))

	assert.Equal(t, a.Guesses(), b.Guesses())
	assert.Equal(t, a.WithinSS(), b.WithinSS())
}

func TestKMeans_Degenerate(t *testing.T) {
	_, err := NewKMeans(0, 100, 1)
	assert.ErrorIs(t, err, ErrDegenerate)

	km, err := NewKMeans(5, 100, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, km.Learn(nil), ErrDegenerate)
	assert.ErrorIs(t, km.Learn([][]float64{{1, 2}, {3, 4}}), ErrDegenerate)
	assert.ErrorIs(t, km.Learn([][]float64{{1, 2}, {3}, {4, 5}, {6, 7}, {8, 9}}), ErrDegenerate)
}
