package report

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// project maps the observation matrix onto its first two principal
// components, so a 36-dimensional sample becomes a plottable plane.
func project(data [][]float64) ([][2]float64, error) {
	n := len(data)
	if n == 0 {
		return nil, fmt.Errorf("no observations to project")
	}
	dim := len(data[0])
	if dim < 2 {
		return nil, fmt.Errorf("need at least 2 dimensions, got %d", dim)
	}

	m := mat.NewDense(n, dim, nil)
	mean := make([]float64, dim)
	for _, row := range data {
		for j, v := range row {
			mean[j] += v / float64(n)
		}
	}
	for i, row := range data {
		for j, v := range row {
			m.Set(i, j, v-mean[j])
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		return nil, fmt.Errorf("principal component decomposition failed")
	}
	var vec mat.Dense
	pc.VectorsTo(&vec)

	var proj mat.Dense
	proj.Mul(m, vec.Slice(0, dim, 0, 2))

	out := make([][2]float64, n)
	for i := 0; i < n; i++ {
		out[i] = [2]float64{proj.At(i, 0), proj.At(i, 1)}
	}
	return out, nil
}
