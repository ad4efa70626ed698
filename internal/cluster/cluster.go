package cluster

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DistanceFunc measures the dissimilarity of two observations.
type DistanceFunc func(a, b []float64) float64

var (
	EuclideanDistance = func(a, b []float64) float64 {
		return floats.Distance(a, b, 2)
	}

	SquaredEuclideanDistance = func(a, b []float64) float64 {
		d := floats.Distance(a, b, 2)
		return d * d
	}
)

// ErrDegenerate marks a clustering request the data cannot support,
// e.g. zero clusters or more clusters than observations.
var ErrDegenerate = errors.New("degenerate clustering input")

// HardClusterer assigns every observation to exactly one cluster.
type HardClusterer interface {
	// Learn fits the model on the observation matrix.
	Learn(data [][]float64) error

	// Guesses returns the cluster label per observation, starting at 0.
	Guesses() []int

	// Sizes returns the number of observations per cluster.
	Sizes() []int
}

// SoftClusterer assigns every observation a membership weight per cluster.
type SoftClusterer interface {
	// Learn fits the model on the observation matrix.
	Learn(data [][]float64) error

	// Memberships returns, per observation, non-negative weights over the
	// clusters summing to 1.
	Memberships() [][]float64
}

func validate(data [][]float64, k int) error {
	if len(data) == 0 {
		return fmt.Errorf("no observations: %w", ErrDegenerate)
	}
	if k < 1 {
		return fmt.Errorf("requested %d clusters: %w", k, ErrDegenerate)
	}
	if k > len(data) {
		return fmt.Errorf("requested %d clusters for %d observations: %w", k, len(data), ErrDegenerate)
	}
	dim := len(data[0])
	for i, row := range data {
		if len(row) != dim {
			return fmt.Errorf("observation %d has %d values, expected %d: %w", i, len(row), dim, ErrDegenerate)
		}
	}
	return nil
}

func sizesOf(guesses []int, k int) []int {
	sizes := make([]int, k)
	for _, g := range guesses {
		sizes[g]++
	}
	return sizes
}
