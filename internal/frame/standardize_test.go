package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mocap-lab/glove-cluster/internal/buffer"
)

func TestStandardize(t *testing.T) {
	m := [][]float64{
		{1, 100, 5},
		{2, 200, 5},
		{3, 300, 5},
		{4, 400, 5},
	}

	out, degenerate := Standardize(m)
	require.Len(t, out, 4)

	// per-column mean 0 and sample stdev 1, except the constant column
	for j := 0; j < 2; j++ {
		stats := buffer.NewStats()
		for _, row := range out {
			stats.Push(row[j])
		}
		assert.InDelta(t, 0, stats.Avg(), 1e-9, "column %d mean", j)
		assert.InDelta(t, 1, stats.SampleStDev(), 1e-9, "column %d stdev", j)
	}

	// zero-variance column maps to zeros and is reported
	assert.Equal(t, []int{2}, degenerate)
	for _, row := range out {
		assert.Equal(t, 0.0, row[2])
	}

	// input untouched
	assert.Equal(t, 1.0, m[0][0])
	assert.Equal(t, 5.0, m[0][2])
}

func TestStandardize_Empty(t *testing.T) {
	out, degenerate := Standardize(nil)
	assert.Nil(t, out)
	assert.Nil(t, degenerate)
}
