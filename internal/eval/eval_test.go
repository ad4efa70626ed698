package eval

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mocap-lab/glove-cluster/internal/cluster"
)

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

func TestElbowCurve(t *testing.T) {
	data := blobs(7, 20, []float64{0, 0}, []float64{8, 0}, []float64{4, 7})

	curve, err := ElbowCurve(data, []int{1, 2, 3, 4, 5}, 42)
	require.NoError(t, err)
	require.Len(t, curve, 5)

	// within-cluster SS shrinks as k grows
	for i := 1; i < len(curve); i++ {
		assert.LessOrEqual(t, curve[i].Score, curve[i-1].Score, "k=%d", curve[i].K)
	}
	// the drop flattens once the three real clusters are found
	dropTo3 := curve[0].Score - curve[2].Score
	dropAfter3 := curve[2].Score - curve[4].Score
	assert.Greater(t, dropTo3, dropAfter3*5)

	_, err = ElbowCurve(data, []int{0}, 42)
	assert.ErrorIs(t, err, cluster.ErrDegenerate)
}

func TestSilhouette_ThreeBlobs(t *testing.T) {
	data := blobs(11, 25, []float64{0, 0}, []float64{10, 0}, []float64{5, 9})

	score := func(k int) float64 {
		km, err := cluster.NewKMeans(k, 100, 3)
		require.NoError(t, err)
		require.NoError(t, km.Learn(data))
		avg, widths, err := Silhouette(data, km.Guesses())
		require.NoError(t, err)
		require.Len(t, widths, 75)
		return avg
	}

	at2, at3, at5 := score(2), score(3), score(5)
	assert.Greater(t, at3, at2)
	assert.Greater(t, at3, at5)
	assert.Greater(t, at3, 0.8)
}

func TestSilhouette_Degenerate(t *testing.T) {
	data := blobs(5, 10, []float64{0, 0})

	_, _, err := Silhouette(data, make([]int, 10))
	assert.ErrorIs(t, err, cluster.ErrDegenerate)

	_, _, err = Silhouette(data, []int{0, 1})
	assert.ErrorIs(t, err, cluster.ErrDegenerate)
}

func TestSilhouetteSweep(t *testing.T) {
	data := blobs(13, 25, []float64{0, 0}, []float64{10, 0}, []float64{5, 9})

	curve, best, err := SilhouetteSweep(data, []int{2, 3, 4, 5}, 42)
	require.NoError(t, err)
	require.Len(t, curve, 4)
	assert.Equal(t, 3, best)
}

func TestCompareSizes(t *testing.T) {
	guesses := []int{0, 0, 0, 1, 1, 2}
	truth := []float64{7, 7, 9, 9, 9, 9}

	d := CompareSizes(guesses, truth)
	assert.InDeltaSlice(t, []float64{1. / 6, 2. / 6, 3. / 6}, d.Predicted, 1e-9)
	assert.InDeltaSlice(t, []float64{2. / 6, 4. / 6}, d.Truth, 1e-9)

	// fractions sum to one on both sides
	sum := 0.0
	for _, f := range d.Predicted {
		sum += f
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
