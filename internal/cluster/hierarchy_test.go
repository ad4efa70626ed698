package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDendrogram_Cut(t *testing.T) {
	// four leaves: (0,1) merge first, then (2,3), then the two pairs
	d := &Dendrogram{
		leaves: 4,
		merges: []Merge{
			{A: 0, B: 1, Height: 1, Size: 2},
			{A: 2, B: 3, Height: 2, Size: 2},
			{A: 4, B: 5, Height: 5, Size: 4},
		},
	}

	labels, err := d.Cut(1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0}, labels)

	labels, err = d.Cut(2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1}, labels)

	labels, err = d.Cut(4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, labels)

	_, err = d.Cut(0)
	assert.ErrorIs(t, err, ErrDegenerate)
	_, err = d.Cut(5)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestAgglomerative_SeparatesBlobs(t *testing.T) {
	data := blobs(17, 15, []float64{0, 0}, []float64{8, 8}, []float64{-8, 8})

	a, err := NewAgglomerative(3)
	require.NoError(t, err)
	require.NoError(t, a.Learn(data))

	guesses := a.Guesses()
	require.Len(t, guesses, 45)
	assert.ElementsMatch(t, []int{15, 15, 15}, a.Sizes())
	for b := 0; b < 3; b++ {
		for i := 1; i < 15; i++ {
			assert.Equal(t, guesses[b*15], guesses[b*15+i])
		}
	}

	tree := a.Dendrogram()
	require.NotNil(t, tree)
	assert.Equal(t, 45, tree.Leaves())
	assert.Len(t, tree.Merges(), 44)

	// ward heights are monotone non-decreasing
	merges := tree.Merges()
	for i := 1; i < len(merges); i++ {
		assert.GreaterOrEqual(t, merges[i].Height, merges[i-1].Height)
	}
}

func TestDivisive_SeparatesBlobs(t *testing.T) {
	data := blobs(23, 12, []float64{0, 0}, []float64{10, 0})

	dv, err := NewDivisive(2, false)
	require.NoError(t, err)
	require.NoError(t, dv.Learn(data))

	guesses := dv.Guesses()
	require.Len(t, guesses, 24)
	assert.ElementsMatch(t, []int{12, 12}, dv.Sizes())
	for i := 1; i < 12; i++ {
		assert.Equal(t, guesses[0], guesses[i])
	}
	for i := 13; i < 24; i++ {
		assert.Equal(t, guesses[12], guesses[i])
	}
	assert.NotEqual(t, guesses[0], guesses[12])

	tree := dv.Dendrogram()
	require.NotNil(t, tree)
	assert.Len(t, tree.Merges(), 23)
}

func TestDivisive_StandardizeFlag(t *testing.T) {
	data := blobs(41, 10, []float64{0, 100}, []float64{5, 300}, []float64{-5, 500})

	// clustering with the flag equals clustering the pre-scaled matrix
	flagged, err := NewDivisive(3, true)
	require.NoError(t, err)
	require.NoError(t, flagged.Learn(data))

	plain, err := NewDivisive(3, false)
	require.NoError(t, err)
	require.NoError(t, plain.Learn(zscore(data)))

	assert.Equal(t, plain.Guesses(), flagged.Guesses())

	// a zero-variance column must not poison the scaling
	constant := [][]float64{{0, 5}, {1, 5}, {10, 5}, {11, 5}}
	dv, err := NewDivisive(2, true)
	require.NoError(t, err)
	require.NoError(t, dv.Learn(constant))
	assert.ElementsMatch(t, []int{2, 2}, dv.Sizes())
}

func TestHardClustererInterface(t *testing.T) {
	var engines []HardClusterer

	km, err := NewKMeans(2, 10, 1)
	require.NoError(t, err)
	ag, err := NewAgglomerative(2)
	require.NoError(t, err)
	dv, err := NewDivisive(2, false)
	require.NoError(t, err)
	engines = append(engines, km, ag, dv)

	data := blobs(31, 10, []float64{0, 0}, []float64{7, 7})
	for _, engine := range engines {
		require.NoError(t, engine.Learn(data))
		assert.Len(t, engine.Guesses(), 20)
		total := 0
		for _, s := range engine.Sizes() {
			total += s
		}
		assert.Equal(t, 20, total)
	}
}
