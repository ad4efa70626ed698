package eval

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/mocap-lab/glove-cluster/internal/cluster"
)

// Point is one entry of a quality curve: a cluster count and its score.
type Point struct {
	K     int     `json:"k"`
	Score float64 `json:"score"`
}

// ElbowCurve runs the partitional engine across the given cluster counts
// and records the total within-cluster sum of squares for each. The full
// curve is returned for inspection; spotting the elbow is left to the
// reader of the rendered chart.
func ElbowCurve(data [][]float64, ks []int, seed int64) ([]Point, error) {
	curve := make([]Point, 0, len(ks))
	for _, k := range ks {
		km, err := cluster.NewKMeans(k, 100, seed)
		if err != nil {
			return nil, fmt.Errorf("k=%d: %w", k, err)
		}
		if err := km.Learn(data); err != nil {
			return nil, fmt.Errorf("k=%d: %w", k, err)
		}
		curve = append(curve, Point{K: k, Score: km.WithinSS()})
	}
	return curve, nil
}

// Silhouette computes the average silhouette width of an assignment along
// with the per-observation widths. For each row, a is the mean distance to
// its own cluster's other members and b the mean distance to the nearest
// other cluster; the width is (b-a)/max(a,b). Rows alone in their cluster
// score 0.
func Silhouette(data [][]float64, guesses []int) (float64, []float64, error) {
	if len(data) != len(guesses) {
		return 0, nil, fmt.Errorf("%d observations for %d labels: %w", len(data), len(guesses), cluster.ErrDegenerate)
	}
	k := 0
	for _, g := range guesses {
		if g+1 > k {
			k = g + 1
		}
	}
	if k < 2 {
		return 0, nil, fmt.Errorf("silhouette needs at least 2 clusters: %w", cluster.ErrDegenerate)
	}

	members := make([][]int, k)
	for i, g := range guesses {
		members[g] = append(members[g], i)
	}

	widths := make([]float64, len(data))
	total := 0.0
	for i, row := range data {
		own := guesses[i]
		if len(members[own]) < 2 {
			continue
		}

		a := 0.0
		for _, j := range members[own] {
			if j == i {
				continue
			}
			a += cluster.EuclideanDistance(row, data[j])
		}
		a /= float64(len(members[own]) - 1)

		b := -1.0
		for c := 0; c < k; c++ {
			if c == own || len(members[c]) == 0 {
				continue
			}
			d := 0.0
			for _, j := range members[c] {
				d += cluster.EuclideanDistance(row, data[j])
			}
			d /= float64(len(members[c]))
			if b < 0 || d < b {
				b = d
			}
		}

		max := a
		if b > max {
			max = b
		}
		if max > 0 {
			widths[i] = (b - a) / max
		}
		total += widths[i]
	}

	return total / float64(len(data)), widths, nil
}

// SilhouetteSweep runs k-means over the given cluster counts and returns
// the average silhouette width per k plus the maximizing k.
func SilhouetteSweep(data [][]float64, ks []int, seed int64) ([]Point, int, error) {
	curve := make([]Point, 0, len(ks))
	best := 0
	bestScore := -2.0
	for _, k := range ks {
		km, err := cluster.NewKMeans(k, 100, seed)
		if err != nil {
			return nil, 0, fmt.Errorf("k=%d: %w", k, err)
		}
		if err := km.Learn(data); err != nil {
			return nil, 0, fmt.Errorf("k=%d: %w", k, err)
		}
		avg, _, err := Silhouette(data, km.Guesses())
		if err != nil {
			return nil, 0, fmt.Errorf("k=%d: %w", k, err)
		}
		curve = append(curve, Point{K: k, Score: avg})
		if avg > bestScore {
			bestScore = avg
			best = k
		}
	}

	log.Debug().
		Int("best-k", best).
		Float64("silhouette", bestScore).
		Msg("silhouette sweep finished")

	return curve, best, nil
}

// Distribution holds the sorted cluster-size fractions of a predicted
// assignment next to those of a ground-truth grouping. This is a
// descriptive diagnostic only: the two vectors are compared by shape,
// no label matching between predicted and true clusters is attempted.
type Distribution struct {
	Predicted []float64 `json:"predicted"`
	Truth     []float64 `json:"truth"`
}

// CompareSizes computes the ascending cluster-size fractions of the
// predicted labels and the ground-truth labels side by side.
func CompareSizes(guesses []int, truth []float64) Distribution {
	pred := make(map[int]int)
	for _, g := range guesses {
		pred[g]++
	}
	actual := make(map[float64]int)
	for _, l := range truth {
		actual[l]++
	}
	return Distribution{
		Predicted: fractions(counts(pred), len(guesses)),
		Truth:     fractions(countsF(actual), len(truth)),
	}
}

func counts(m map[int]int) []int {
	out := make([]int, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

func countsF(m map[float64]int) []int {
	out := make([]int, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

func fractions(sizes []int, total int) []float64 {
	out := make([]float64, len(sizes))
	for i, s := range sizes {
		out[i] = float64(s) / float64(total)
	}
	sort.Float64s(out)
	return out
}
