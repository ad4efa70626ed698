package cluster

import (
	"fmt"
)

// Merge is one step of a hierarchical clustering: the two nodes joined and
// the dissimilarity at which they joined. Leaves are nodes 0..n-1; the t-th
// merge creates node n+t.
type Merge struct {
	A, B   int
	Height float64
	Size   int
}

// Dendrogram is the merge tree of a hierarchical clustering over n leaves.
// For an agglomerative build the merges are recorded bottom-up in ascending
// height order; for a divisive build they are the splits in reverse, so in
// both cases undoing the last k-1 merges yields the k-cluster partition.
type Dendrogram struct {
	leaves int
	merges []Merge
}

// Leaves returns the number of observations at the bottom of the tree.
func (d *Dendrogram) Leaves() int {
	return d.leaves
}

// Merges returns the merge steps in build order.
func (d *Dendrogram) Merges() []Merge {
	return d.merges
}

// Cut slices the tree into exactly k clusters by suppressing the last k-1
// merges, returning a label per leaf. Labels start at 0 and are assigned in
// order of first leaf occurrence.
func (d *Dendrogram) Cut(k int) ([]int, error) {
	n := d.leaves
	if k < 1 || k > n {
		return nil, fmt.Errorf("cannot cut %d leaves into %d clusters: %w", n, k, ErrDegenerate)
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	// repr maps any node id to one leaf of its subtree
	repr := make([]int, n+len(d.merges))
	for i := 0; i < n; i++ {
		repr[i] = i
	}
	for t, m := range d.merges {
		repr[n+t] = repr[m.A]
		if t < n-k {
			parent[find(repr[m.A])] = find(repr[m.B])
		}
	}

	labels := make([]int, n)
	next := 0
	seen := make(map[int]int, k)
	for i := 0; i < n; i++ {
		root := find(i)
		label, ok := seen[root]
		if !ok {
			label = next
			seen[root] = label
			next++
		}
		labels[i] = label
	}
	return labels, nil
}
