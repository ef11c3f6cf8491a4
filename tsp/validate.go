package tsp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// weights is a dense row-major copy of an n×n distance matrix.
// Reads in hot loops go through at() instead of the mat.Matrix interface.
type weights struct {
	n int
	w []float64
}

func (m weights) at(u, v int) float64 { return m.w[u*m.n+v] }

// prefetch validates dist and copies it into a flat buffer.
//
// Contract:
//   - dist is non-nil, square, n ≥ 1;
//   - diagonal ≈ 0 within symTol;
//   - off-diagonal entries are ≥ 0 (NaN rejected); +Inf allowed iff allowInf;
//   - |a_ij − a_ji| ≤ symTol when symmetric.
//
// Complexity: O(n²).
func prefetch(dist mat.Matrix, symmetric, allowInf bool) (weights, error) {
	// Stage 1: shape.
	if dist == nil {
		return weights{}, ErrDimensionMismatch
	}
	r, c := dist.Dims()
	if r != c {
		return weights{}, ErrNonSquare
	}
	if r == 0 {
		return weights{}, ErrDimensionMismatch
	}

	// Stage 2: values.
	var (
		n    = r
		w    = make([]float64, n*n)
		i, j int
		x    float64
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			x = dist.At(i, j)
			switch {
			case math.IsNaN(x) || x < 0:
				return weights{}, fmt.Errorf("entry (%d,%d)=%v: %w", i, j, x, ErrNegativeWeight)
			case i == j && x > symTol:
				return weights{}, fmt.Errorf("entry (%d,%d)=%v: %w", i, j, x, ErrNonZeroDiagonal)
			case math.IsInf(x, 1) && !allowInf:
				return weights{}, fmt.Errorf("entry (%d,%d): %w", i, j, ErrIncompleteGraph)
			}
			w[i*n+j] = x
		}
	}

	// Stage 3: symmetry.
	if symmetric {
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				a, b := w[i*n+j], w[j*n+i]
				if a == b {
					continue // covers matching +Inf
				}
				if math.Abs(a-b) > symTol || math.IsInf(a, 0) || math.IsInf(b, 0) {
					return weights{}, fmt.Errorf("entries (%d,%d)/(%d,%d): %w", i, j, j, i, ErrAsymmetry)
				}
			}
		}
	}

	return weights{n: n, w: w}, nil
}

// ValidateTour checks that tour is a permutation of 0..n-1.
//
// Complexity: O(n) time and space.
func ValidateTour(tour []int, n int) error {
	if len(tour) != n || n == 0 {
		return ErrInvalidTour
	}
	seen := make([]bool, n)
	for _, v := range tour {
		if v < 0 || v >= n || seen[v] {
			return ErrInvalidTour
		}
		seen[v] = true
	}

	return nil
}
