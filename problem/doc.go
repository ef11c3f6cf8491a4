// Package problem defines the shared vocabulary consumed by every solver in
// lvsolve: states, successors, heuristics, objectives and neighbors.
//
// Two problem shapes are provided:
//
//   - Problem[S, K]: a state-space search problem (initial state, goal test,
//     successor function, optional predecessor function and heuristic).
//     States are opaque; all visited-set bookkeeping goes through the
//     caller-supplied Key function, which maps a state to a comparable value.
//     Keying is explicit so that correctness never depends on how a state
//     happens to print or serialize.
//
//   - Local[S]: a local-search landscape (initial state, objective,
//     neighbor generator, optional random neighbor / random state samplers,
//     and a Maximize flag selecting the improvement direction).
//
// Search outcomes are reported by value through Result[S]. A negative result
// is not an error: Reason tells the caller whether the frontier was exhausted
// or a node/depth/iteration cap was reached. Errors are reserved for malformed
// problems (missing functions) and are package sentinels matched via errors.Is.
//
// Example:
//
//	p := problem.Problem[int, int]{
//	    Initial:    0,
//	    IsGoal:     func(s int) bool { return s == 3 },
//	    Successors: func(s int) []problem.Successor[int] {
//	        return []problem.Successor[int]{{State: s + 1, Action: "inc", Cost: 1}}
//	    },
//	    Key: func(s int) int { return s },
//	}
//	res, err := search.UniformCost(p)
package problem
