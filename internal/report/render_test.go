package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mocap-lab/glove-cluster/internal/cluster"
	"github.com/mocap-lab/glove-cluster/internal/eval"
)

func TestProject(t *testing.T) {
	// points on a line in 3d: the first component carries everything
	data := [][]float64{
		{0, 0, 0},
		{1, 2, 3},
		{2, 4, 6},
		{3, 6, 9},
	}
	points, err := project(data)
	require.NoError(t, err)
	require.Len(t, points, 4)

	// second component is flat
	for _, p := range points {
		assert.InDelta(t, 0, p[1], 1e-9)
	}
	// first component keeps the spacing
	step := points[1][0] - points[0][0]
	assert.InDelta(t, step, points[2][0]-points[1][0], 1e-9)
	assert.InDelta(t, step, points[3][0]-points[2][0], 1e-9)

	_, err = project(nil)
	assert.Error(t, err)
	_, err = project([][]float64{{1}})
	assert.Error(t, err)
}

func TestRenderer_WritesCharts(t *testing.T) {
	dir := t.TempDir()
	r, err := New(dir, "test-run")
	require.NoError(t, err)

	data := [][]float64{
		{0, 0}, {0.1, 0.2}, {5, 5}, {5.1, 4.9},
	}
	guesses := []int{0, 0, 1, 1}

	require.NoError(t, r.ScatterPCA("scatter", "clusters", data, guesses))
	require.NoError(t, r.Curve("elbow", "within-cluster ss", []eval.Point{{K: 1, Score: 10}, {K: 2, Score: 2}}))
	require.NoError(t, r.SizeBars("sizes", "cluster sizes", eval.Distribution{
		Predicted: []float64{0.5, 0.5},
		Truth:     []float64{0.25, 0.75},
	}))
	require.NoError(t, r.SilhouettePlot("silhouette", "widths", []float64{0.9, 0.8, 0.7, 0.6}, guesses))

	d := &cluster.Dendrogram{}
	assert.Error(t, r.Dendrogram("dendro", "tree", d))

	ag, err := cluster.NewAgglomerative(2)
	require.NoError(t, err)
	require.NoError(t, ag.Learn(data))
	require.NoError(t, r.Dendrogram("dendro", "tree", ag.Dendrogram()))

	for _, name := range []string{"scatter", "elbow", "sizes", "silhouette", "dendro"} {
		path := filepath.Join(dir, "test-run_"+name+".html")
		info, err := os.Stat(path)
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}
