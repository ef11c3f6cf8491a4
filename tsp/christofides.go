package tsp

import (
	"gonum.org/v1/gonum/mat"
)

// Christofides builds a tour for a symmetric instance:
//
//  1. Minimum spanning tree (Prim) rooted at Options.Start.
//  2. Odd-degree vertices of the tree.
//  3. Perfect matching on them, exact up to Options.ExactMatchingLimit.
//  4. Eulerian circuit of tree ∪ matching (Hierholzer).
//  5. Shortcut repeated vertices.
//  6. Unless Options.Polish is false: 2-opt, then 3-opt, then 2-opt again
//     if 3-opt moved anything.
//
// For metric instances with ExactMatching set, Cost ≤ 1.5·OPT. +Inf
// distances are rejected.
//
// Complexity: O(n²) for steps 1–5 plus O(k²·2ᵏ) for an exact matching on k
// odd vertices; polish adds O(n²) per 2-opt sweep and O(n³) per 3-opt sweep.
func Christofides(dist mat.Matrix, opts ...Option) (Result, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return Result{}, err
	}
	m, err := prefetch(dist, true, false)
	if err != nil {
		return Result{}, err
	}
	if cfg.Start < 0 || cfg.Start >= m.n {
		return Result{}, ErrStartOutOfRange
	}
	if m.n <= 3 {
		// Every Hamiltonian cycle on ≤ 3 vertices has the same length.
		tour := make([]int, 0, m.n)
		for v := 0; v < m.n; v++ {
			tour = append(tour, (cfg.Start+v)%m.n)
		}
		res, err := m.finish(tour)
		res.ExactMatching = true
		return res, err
	}

	// 1) + 2)
	adj, err := m.mst(cfg.Start)
	if err != nil {
		return Result{}, err
	}
	odd := oddVertices(adj)

	// 3)
	exact := m.match(odd, adj, cfg.ExactMatchingLimit)

	// 4) + 5)
	euler := eulerianCircuit(adj, cfg.Start)
	tour, err := shortcut(euler, m.n, cfg.Start)
	if err != nil {
		return Result{}, err
	}

	// 6)
	if cfg.Polish {
		cur := closed(tour)
		m.twoOpt(cur, cfg)
		var moved int
		cur, moved = m.threeOpt(cur, cfg)
		if moved > 0 {
			m.twoOpt(cur, cfg)
		}
		tour = cur[:m.n]
	}

	res, err := m.finish(tour)
	res.ExactMatching = exact

	return res, err
}
