package problem

import (
	"errors"
	"math/rand/v2"
)

// Sentinel errors for malformed problems.
var (
	// ErrNoSuccessors indicates that Problem.Successors is nil.
	ErrNoSuccessors = errors.New("problem: successor function is nil")

	// ErrNoGoal indicates that Problem.IsGoal is nil.
	ErrNoGoal = errors.New("problem: goal predicate is nil")

	// ErrNoKey indicates that Problem.Key is nil.
	ErrNoKey = errors.New("problem: key function is nil")

	// ErrNoHeuristic indicates that a heuristic-driven algorithm got a nil Heuristic.
	ErrNoHeuristic = errors.New("problem: heuristic function is nil")

	// ErrNoObjective indicates that Local.Objective is nil.
	ErrNoObjective = errors.New("problem: objective function is nil")

	// ErrNoNeighbors indicates that Local.Neighbors (or RandomNeighbor) is nil.
	ErrNoNeighbors = errors.New("problem: neighbor function is nil")

	// ErrNoRandomState indicates that Local.RandomState is nil where restarts need it.
	ErrNoRandomState = errors.New("problem: random state sampler is nil")
)

// Successor is one outgoing transition: the next state, a human-readable
// action label and a non-negative step cost.
type Successor[S any] struct {
	State  S
	Action string
	Cost   float64
}

// Problem is a state-space search problem over states S keyed by K.
//
// Successors and Predecessors return transitions; for Predecessors the
// Successor.State is the predecessor p and Cost is the cost of the edge p→s.
// Heuristic must be non-negative; admissibility is the caller's contract.
type Problem[S any, K comparable] struct {
	// Initial is the start state.
	Initial S

	// IsGoal reports whether s satisfies the goal.
	IsGoal func(s S) bool

	// Successors lists transitions out of s.
	Successors func(s S) []Successor[S]

	// Predecessors lists transitions into s. Optional; bidirectional search
	// falls back to Successors (undirected interpretation) when nil.
	Predecessors func(s S) []Successor[S]

	// Heuristic estimates the remaining cost from s. Optional.
	Heuristic func(s S) float64

	// Key maps a state to a stable comparable identity.
	Key func(s S) K
}

// Validate checks the mandatory functions in priority order:
// Successors → IsGoal → Key.
func (p Problem[S, K]) Validate() error {
	if p.Successors == nil {
		return ErrNoSuccessors
	}
	if p.IsGoal == nil {
		return ErrNoGoal
	}
	if p.Key == nil {
		return ErrNoKey
	}

	return nil
}

// ValidateHeuristic runs Validate and additionally requires a Heuristic.
func (p Problem[S, K]) ValidateHeuristic() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Heuristic == nil {
		return ErrNoHeuristic
	}

	return nil
}

// H evaluates the heuristic, treating a nil Heuristic as the zero heuristic.
func (p Problem[S, K]) H(s S) float64 {
	if p.Heuristic == nil {
		return 0
	}

	return p.Heuristic(s)
}

// PredecessorsOf returns Predecessors(s), or Successors(s) when no
// predecessor function was supplied.
func (p Problem[S, K]) PredecessorsOf(s S) []Successor[S] {
	if p.Predecessors != nil {
		return p.Predecessors(s)
	}

	return p.Successors(s)
}

// Local is a local-search landscape over states S.
type Local[S any] struct {
	// Initial is the starting state for single-start algorithms.
	Initial S

	// Objective scores a state. Maximize selects the improvement direction.
	Objective func(s S) float64

	// Neighbors enumerates the full neighborhood of s (hill climbing, beam).
	Neighbors func(s S) []S

	// RandomNeighbor samples one neighbor of s (simulated annealing).
	// Optional: falls back to a uniform pick from Neighbors.
	RandomNeighbor func(s S, r *rand.Rand) S

	// RandomState samples an independent start state (restarts, local beam).
	RandomState func(r *rand.Rand) S

	// Maximize is true when larger objective values are better.
	Maximize bool
}

// Validate checks that Objective and Neighbors are present.
func (l Local[S]) Validate() error {
	if l.Objective == nil {
		return ErrNoObjective
	}
	if l.Neighbors == nil && l.RandomNeighbor == nil {
		return ErrNoNeighbors
	}

	return nil
}

// Better reports whether value a strictly improves on value b.
func (l Local[S]) Better(a, b float64) bool {
	if l.Maximize {
		return a > b
	}

	return a < b
}

// Worst returns the worst possible objective value for the direction.
func (l Local[S]) Worst() float64 {
	if l.Maximize {
		return negInf
	}

	return posInf
}
