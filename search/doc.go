// Package search implements uninformed and informed state-space search over
// problem.Problem.
//
// Algorithms:
//
//   - BestFirst:          greedy; frontier ordered by h only. Visited marks are
//     set on expansion, so duplicate frontier entries are tolerated and
//     discarded when popped. Fast, not optimal.
//   - Beam:               expands a whole generation and keeps the BeamWidth
//     lowest-h successors. Incomplete: it may discard the only path to a goal.
//   - Bidirectional:      alternates a forward frontier from Initial and a
//     backward frontier from an explicit goal (Predecessors, falling back to
//     Successors). Stops when a state is in both visited sets; the reported
//     cost is the sum of both halves and is not verified optimal.
//   - UniformCost:        Dijkstra on the implicit graph; goal tested on dequeue,
//     optimal for non-negative costs.
//   - WeightedAStar:      f = g + w·h with an explicit cameFrom map.
//     w = 1 is A* (optimal iff h is admissible); w > 1 trades optimality for speed.
//   - IDAStar:            depth-first probes bounded by an f-threshold that
//     starts at h(Initial) and grows to the smallest f that exceeded it.
//     Memory O(depth). Cycle checks cover the current path only, so states
//     reachable through several paths may be re-expanded.
//   - DepthLimited / IterativeDeepening: recursive DFS with a hard cutoff;
//     iterative deepening raises the cutoff from 0, complete and optimal for
//     unit-cost graphs.
//
// BestFirst and IDAStar may expand a state more than once, so their node
// counts are not minimal on graphs with many equal-cost paths.
//
// Every call is synchronous and self-bounded by Options.MaxNodes (and
// MaxDepth / MaxIterations where relevant); there is no cancellation point.
// Callers wanting a wall-clock bound must wrap the call.
package search
