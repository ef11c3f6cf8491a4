// Package lvsolve is a toolkit of search, optimization and planning solvers
// for small in-memory problems, plus adapters that map manufacturing tasks
// onto them.
//
// Everything lives in subpackages:
//
//	problem/   state-space Problem: initial state, goal test, successors, heuristic, key
//	search/    best-first, beam, bidirectional, uniform cost, weighted A*, IDA*, depth-limited, iterative deepening
//	graph/     weighted graph and Dijkstra
//	local/     hill climbing with restarts, simulated annealing, local beam
//	tsp/       2-opt, 3-opt, Christofides, Held–Karp over gonum matrices
//	assign/    Hungarian assignment, rectangular and forbidden pairs
//	csp/       forward checking (MRV/LCV), conflict-directed backjumping, min-conflicts
//	particle/  generic particle filter and a drift tracker
//	motion/    obstacles, potential field, probabilistic roadmap
//	cnc/       tool-change order, setup planning, rapid moves
//	cmd/lvsolve  CLI running the adapters and solvers from YAML jobs
//
// Quick example, a shortest route on a grid with A* (weight 1):
//
//	p := problem.Problem[cell, cell]{
//		Initial:    cell{0, 0},
//		IsGoal:     func(c cell) bool { return c == goal },
//		Successors: moves,
//		Heuristic:  manhattan,
//		Key:        func(c cell) cell { return c },
//	}
//	res, err := search.WeightedAStar(p, search.WithWeight(1))
//
// Randomized solvers take an explicit *rand.Rand; the same seed gives the
// same answer. Solvers never log; the cnc adapters log decisions at Debug
// through an optional *slog.Logger.
package lvsolve
