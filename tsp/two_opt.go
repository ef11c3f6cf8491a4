package tsp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// TwoOpt improves tour by 2-opt segment reversal on a symmetric instance.
// tour[0] stays fixed and the input slice is not modified.
//
// For cut positions 1 ≤ i < k ≤ n−1 on the closed working tour T it tests
// replacing (a,b),(c,d) with (a,c),(b,d), where a=T[i−1], b=T[i], c=T[k],
// d=T[k+1], and reverses T[i..k] when Δ < −Eps. An accepted reversal does not
// restart the sweep: later k (and i) are scanned over the modified tour.
// Sweeps repeat until one makes no move or Options.MaxIterations sweeps ran.
//
// Moves that would need a +Inf edge are never taken. The output length is
// never greater than the input length.
//
// Complexity: O(n²) per sweep, O(n) space.
func TwoOpt(dist mat.Matrix, tour []int, opts ...Option) (Result, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return Result{}, err
	}
	m, err := prefetch(dist, true, true)
	if err != nil {
		return Result{}, err
	}
	if err = ValidateTour(tour, m.n); err != nil {
		return Result{}, err
	}

	cur := closed(tour)
	m.twoOpt(cur, cfg)

	return m.finish(cur[:m.n])
}

// twoOpt runs the sweep loop on a closed tour in place and reports the
// number of accepted moves.
func (m weights) twoOpt(cur []int, cfg Options) int {
	var (
		n                  = m.n
		a, b, c, d         int
		i, k, sweep, moves int
		delta              float64
		improved           bool
	)
	if n < 4 {
		return 0
	}
	for sweep = 0; cfg.MaxIterations == 0 || sweep < cfg.MaxIterations; sweep++ {
		improved = false
		for i = 1; i <= n-2; i++ {
			for k = i + 1; k <= n-1; k++ {
				a, b = cur[i-1], cur[i]
				c, d = cur[k], cur[k+1]
				if math.IsInf(m.at(a, c), 1) || math.IsInf(m.at(b, d), 1) {
					continue
				}
				delta = m.at(a, c) + m.at(b, d) - m.at(a, b) - m.at(c, d)
				if !(delta < -cfg.Eps) {
					continue // NaN from Inf−Inf lands here too
				}
				reverseInPlace(cur, i, k)
				improved = true
				moves++
			}
		}
		if !improved {
			break
		}
	}

	return moves
}

// finish measures an open tour and packages it.
func (m weights) finish(tour []int) (Result, error) {
	out := make([]int, len(tour))
	copy(out, tour)
	l := m.length(out)
	if math.IsInf(l, 1) {
		return Result{}, ErrIncompleteGraph
	}

	return Result{Tour: out, Cost: round1e9(l)}, nil
}
