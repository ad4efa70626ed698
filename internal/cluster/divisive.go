package cluster

import (
	"github.com/rs/zerolog/log"

	"github.com/mocap-lab/glove-cluster/internal/buffer"
)

// Divisive builds a dendrogram top-down: all observations start in one
// cluster and the cluster with the greatest average internal dissimilarity
// is split off first, by moving a splinter group away from the rest. The
// splits, reversed, give the same dendrogram abstraction as the
// agglomerative build. There is no linkage choice; the only knob is
// whether to z-score the matrix before measuring dissimilarities.
type Divisive struct {
	k           int
	standardize bool

	dendrogram *Dendrogram
	guesses    []int
	sizes      []int
}

// split is one top-down division of a cluster into two halves.
type split struct {
	left, right []int
	height      float64
}

// NewDivisive creates a divisive clusterer that stops reading the split
// sequence at k clusters.
func NewDivisive(k int, standardize bool) (*Divisive, error) {
	if k < 1 {
		return nil, ErrDegenerate
	}
	return &Divisive{k: k, standardize: standardize}, nil
}

// Learn builds the full split tree and reads off the k-cluster partition.
func (dv *Divisive) Learn(data [][]float64) error {
	if err := validate(data, dv.k); err != nil {
		return err
	}
	if dv.standardize {
		data = zscore(data)
	}
	n := len(data)

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := EuclideanDistance(data[i], data[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	// repeatedly split the most heterogeneous cluster until all are
	// singletons, recording the split order
	clusters := [][]int{all}
	splits := make([]split, 0, n-1)
	for len(clusters) < n {
		target := -1
		worst := -1.0
		for c, rows := range clusters {
			if len(rows) < 2 {
				continue
			}
			if h := meanDissimilarity(rows, dist); h > worst {
				worst = h
				target = c
			}
		}

		rows := clusters[target]
		left, right := splinter(rows, dist)
		splits = append(splits, split{left: left, right: right, height: worst})

		clusters[target] = left
		clusters = append(clusters, right)
	}

	dv.dendrogram = mergeTree(n, splits)
	guesses, err := dv.dendrogram.Cut(dv.k)
	if err != nil {
		return err
	}
	dv.guesses = guesses
	dv.sizes = sizesOf(guesses, dv.k)

	log.Debug().
		Int("k", dv.k).
		Int("rows", n).
		Bool("standardized", dv.standardize).
		Msg("divisive tree built")

	return nil
}

// meanDissimilarity is the average pairwise distance within the cluster.
func meanDissimilarity(rows []int, dist [][]float64) float64 {
	if len(rows) < 2 {
		return 0
	}
	sum := 0.0
	for a := 0; a < len(rows); a++ {
		for b := a + 1; b < len(rows); b++ {
			sum += dist[rows[a]][rows[b]]
		}
	}
	pairs := float64(len(rows)*(len(rows)-1)) / 2
	return sum / pairs
}

// splinter divides a cluster in two: the seed of the splinter group is the
// member with the greatest average dissimilarity to the others, then rows
// defect to the splinter while they sit closer to it than to the rest.
func splinter(rows []int, dist [][]float64) (remain, moved []int) {
	seed := rows[0]
	worst := -1.0
	for _, r := range rows {
		sum := 0.0
		for _, o := range rows {
			sum += dist[r][o]
		}
		if avg := sum / float64(len(rows)-1); avg > worst {
			worst = avg
			seed = r
		}
	}

	in := map[int]bool{seed: true}
	for {
		defector := -1
		gain := 0.0
		for _, r := range rows {
			if in[r] {
				continue
			}
			var toRest, toSplinter float64
			nRest, nSplinter := 0, 0
			for _, o := range rows {
				if o == r {
					continue
				}
				if in[o] {
					toSplinter += dist[r][o]
					nSplinter++
				} else {
					toRest += dist[r][o]
					nRest++
				}
			}
			if nRest == 0 {
				continue
			}
			g := toRest/float64(nRest) - toSplinter/float64(nSplinter)
			if g > gain {
				gain = g
				defector = r
			}
		}
		if defector < 0 {
			break
		}
		in[defector] = true
	}

	for _, r := range rows {
		if in[r] {
			moved = append(moved, r)
		} else {
			remain = append(remain, r)
		}
	}
	return remain, moved
}

// mergeTree converts the split sequence into a bottom-up dendrogram by
// reversing it: the first split becomes the last merge.
func mergeTree(n int, splits []split) *Dendrogram {
	// node id of each cluster, keyed by its smallest row while all its
	// internal splits are unresolved; a singleton's id is its row
	nodeOf := make(map[int]int, n)
	for i := 0; i < n; i++ {
		nodeOf[i] = i
	}

	key := func(rows []int) int {
		min := rows[0]
		for _, r := range rows {
			if r < min {
				min = r
			}
		}
		return min
	}

	merges := make([]Merge, 0, len(splits))
	for t := len(splits) - 1; t >= 0; t-- {
		s := splits[t]
		a := nodeOf[key(s.left)]
		b := nodeOf[key(s.right)]
		id := n + len(merges)
		merges = append(merges, Merge{
			A:      a,
			B:      b,
			Height: s.height,
			Size:   len(s.left) + len(s.right),
		})
		nodeOf[key(append(append([]int{}, s.left...), s.right...))] = id
	}
	return &Dendrogram{leaves: n, merges: merges}
}

// zscore standardizes each column against its own mean and deviation.
func zscore(data [][]float64) [][]float64 {
	dim := len(data[0])
	cols := buffer.NewStatsCollector(dim)
	for _, row := range data {
		cols.Push(row...)
	}
	out := make([][]float64, len(data))
	for r, row := range data {
		out[r] = make([]float64, dim)
		for j, v := range row {
			std := cols.Column(j).SampleStDev()
			if std == 0 {
				continue
			}
			out[r][j] = (v - cols.Column(j).Avg()) / std
		}
	}
	return out
}

// Guesses returns the cluster label per observation.
func (dv *Divisive) Guesses() []int {
	return dv.guesses
}

// Sizes returns the number of observations per cluster.
func (dv *Divisive) Sizes() []int {
	return dv.sizes
}

// Dendrogram exposes the full split tree, merge-ordered.
func (dv *Divisive) Dendrogram() *Dendrogram {
	return dv.dendrogram
}
