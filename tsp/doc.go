// Package tsp provides Travelling Salesman tour construction and refinement
// over dense distance matrices (gonum mat.Matrix).
//
// Tours are open permutations of 0..n-1; the closing edge tour[n-1]→tour[0]
// is part of every length. Solvers keep tour[0] fixed.
//
//   - Length:         closed-tour length with strict edge checks.
//   - TwoOpt:         2-opt segment reversal, first improvement within a
//     sweep: after an accepted reversal the scan continues over the modified
//     tour instead of restarting. Sweeps repeat to a fixed point or the cap.
//     Complexity: O(n²) per sweep.
//   - ThreeOpt:       first improvement over the 7 reconnections of three
//     cut points; restarts after every accepted move. O(n³) per sweep.
//   - Christofides:   Prim MST, odd-degree vertices, minimum-weight perfect
//     matching (exact bitmask DP up to Options.ExactMatchingLimit odd
//     vertices, greedy nearest-partner beyond), Hierholzer circuit,
//     shortcut, then 2-opt and 3-opt polish.
//     ≤ 1.5·OPT only for metric instances with an exact matching.
//   - HeldKarp:       exact O(n²·2ⁿ) dynamic program; n ≤ MaxHeldKarp.
//
// A distance of math.Inf(1) marks a missing edge. Local search never
// introduces one; Christofides and Length reject tours that need one.
//
// Errors:
//   - ErrNonSquare, ErrDimensionMismatch: shape problems.
//   - ErrNegativeWeight, ErrNonZeroDiagonal, ErrAsymmetry, ErrIncompleteGraph:
//     matrix contents.
//   - ErrInvalidTour, ErrStartOutOfRange, ErrTooLarge, ErrBadOption.
package tsp
