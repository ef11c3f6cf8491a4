package tsp

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Length returns the closed length of tour under dist.
// Errors: shape/value errors from matrix validation, ErrInvalidTour, and
// ErrIncompleteGraph when a tour edge is +Inf.
//
// Complexity: O(n²) for validation, O(n) for the sum.
func Length(dist mat.Matrix, tour []int) (float64, error) {
	m, err := prefetch(dist, false, true)
	if err != nil {
		return 0, err
	}
	if err = ValidateTour(tour, m.n); err != nil {
		return 0, err
	}
	l := m.length(tour)
	if math.IsInf(l, 1) {
		return 0, ErrIncompleteGraph
	}

	return round1e9(l), nil
}

// length sums the closed tour; +Inf propagates.
func (m weights) length(tour []int) float64 {
	var (
		n   = len(tour)
		sum float64
		i   int
	)
	if n < 2 {
		return 0
	}
	for i = 0; i < n; i++ {
		sum += m.at(tour[i], tour[(i+1)%n])
	}

	return sum
}

// RotateToStart returns a copy of tour shifted so that out[0] == start.
// Returns nil when start is absent.
//
// Complexity: O(n).
func RotateToStart(tour []int, start int) []int {
	p := slices.Index(tour, start)
	if p < 0 {
		return nil
	}
	out := make([]int, 0, len(tour))
	out = append(out, tour[p:]...)
	out = append(out, tour[:p]...)

	return out
}

// closed returns tour with tour[0] appended, the working shape of the
// local-search engines: positions 0 and n hold the fixed start.
func closed(tour []int) []int {
	out := make([]int, len(tour)+1)
	copy(out, tour)
	out[len(tour)] = tour[0]

	return out
}

// reverseInPlace reverses the inclusive segment t[i..k].
func reverseInPlace(t []int, i, k int) {
	for i < k {
		t[i], t[k] = t[k], t[i]
		i++
		k--
	}
}

// shortcut converts an Eulerian walk into a Hamiltonian tour by keeping the
// first occurrence of every vertex, then rotates it to start.
//
// Complexity: O(len(euler) + n).
func shortcut(euler []int, n, start int) ([]int, error) {
	var (
		visited = make([]bool, n)
		tour    = make([]int, 0, n)
	)
	for _, v := range euler {
		if v < 0 || v >= n {
			return nil, ErrDimensionMismatch
		}
		if !visited[v] {
			visited[v] = true
			tour = append(tour, v)
		}
	}
	if len(tour) != n {
		return nil, ErrIncompleteGraph
	}

	return RotateToStart(tour, start), nil
}
