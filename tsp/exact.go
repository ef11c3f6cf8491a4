package tsp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// HeldKarp solves the TSP exactly with the Held–Karp dynamic program.
// The instance may be asymmetric; +Inf marks a missing edge.
//
// dp[mask][j] is the cheapest path that starts at Options.Start, visits
// exactly the vertices in mask and ends at j. The tour closes with the
// cheapest return edge.
//
// Errors: ErrTooLarge when n > MaxHeldKarp, ErrIncompleteGraph when no
// Hamiltonian cycle exists, plus the matrix validation errors.
//
// Complexity: O(n²·2ⁿ) time, O(n·2ⁿ) memory.
func HeldKarp(dist mat.Matrix, opts ...Option) (Result, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return Result{}, err
	}
	m, err := prefetch(dist, false, true)
	if err != nil {
		return Result{}, err
	}
	n, s := m.n, cfg.Start
	if s < 0 || s >= n {
		return Result{}, ErrStartOutOfRange
	}
	if n > MaxHeldKarp {
		return Result{}, ErrTooLarge
	}
	if n == 1 {
		return Result{Tour: []int{s}, ExactMatching: true}, nil
	}

	// 1) Tables indexed [mask*n + j].
	var (
		size   = 1 << n
		dp     = make([]float64, size*n)
		parent = make([]int, size*n)
		mask   int
		j, k   int
		prev   int
		cand   float64
	)
	for mask = range dp {
		dp[mask] = math.Inf(1)
		parent[mask] = -1
	}
	dp[(1<<s)*n+s] = 0

	// 2) Fill masks that contain the start.
	for mask = 0; mask < size; mask++ {
		if mask&(1<<s) == 0 {
			continue
		}
		for j = 0; j < n; j++ {
			if j == s || mask&(1<<j) == 0 {
				continue
			}
			prev = mask ^ (1 << j)
			for k = 0; k < n; k++ {
				if prev&(1<<k) == 0 || math.IsInf(dp[prev*n+k], 1) {
					continue
				}
				cand = dp[prev*n+k] + m.at(k, j)
				if cand < dp[mask*n+j] {
					dp[mask*n+j] = cand
					parent[mask*n+j] = k
				}
			}
		}
	}

	// 3) Close the tour.
	var (
		all  = size - 1
		best = math.Inf(1)
		last = -1
	)
	for j = 0; j < n; j++ {
		if j == s {
			continue
		}
		if cand = dp[all*n+j] + m.at(j, s); cand < best {
			best, last = cand, j
		}
	}
	if last < 0 {
		return Result{}, ErrIncompleteGraph
	}

	// 4) Reconstruct backwards.
	tour := make([]int, n)
	tour[0] = s
	mask, j = all, last
	for k = n - 1; k >= 1; k-- {
		tour[k] = j
		prev = parent[mask*n+j]
		mask ^= 1 << j
		j = prev
	}

	return Result{Tour: tour, Cost: round1e9(best), ExactMatching: true}, nil
}
