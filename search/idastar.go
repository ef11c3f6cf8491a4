package search

import (
	"math"

	"github.com/katalvlaran/lvsolve/problem"
)

// idaRunner holds the state of one IDA* call.
type idaRunner[S any, K comparable] struct {
	p        problem.Problem[S, K]
	cfg      Options
	onPath   map[K]bool
	expanded int
	capped   bool
}

// IDAStar runs iterative-deepening A*. Each round is a depth-first probe
// that prunes nodes with f = g + h above the current bound; the next bound
// is the smallest f that was pruned. Optimal for admissible h.
//
// Termination: problem.Exhausted when no node was pruned (nothing beyond the
// bound), problem.NodeLimit when Options.MaxNodes is spent,
// problem.IterationLimit after Options.MaxIterations rounds.
func IDAStar[S any, K comparable](p problem.Problem[S, K], opts ...Option) (problem.Result[S], error) {
	if err := p.ValidateHeuristic(); err != nil {
		return problem.Result[S]{}, err
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return problem.Result[S]{}, err
	}

	r := &idaRunner[S, K]{p: p, cfg: cfg, onPath: make(map[K]bool)}
	start := root(p.Initial)
	bound := p.Heuristic(p.Initial)

	var iter int
	for iter = 0; iter < cfg.MaxIterations; iter++ {
		r.onPath[p.Key(p.Initial)] = true
		next, goal := r.probe(start, bound)
		delete(r.onPath, p.Key(p.Initial))

		if goal != nil {
			return goal.result(r.expanded), nil
		}
		if r.capped {
			return problem.Fail[S](r.expanded, problem.NodeLimit), nil
		}
		if math.IsInf(next, 1) {
			return problem.Fail[S](r.expanded, problem.Exhausted), nil
		}
		bound = next
	}

	return problem.Fail[S](r.expanded, problem.IterationLimit), nil
}

// probe returns either a goal node or the minimum f that exceeded bound.
func (r *idaRunner[S, K]) probe(n *node[S], bound float64) (float64, *node[S]) {
	f := n.g + r.p.Heuristic(n.state)
	if f > bound {
		return f, nil
	}
	if r.p.IsGoal(n.state) {
		return f, n
	}
	if r.cfg.capped(r.expanded) {
		r.capped = true
		return math.Inf(1), nil
	}
	r.expanded++

	lo := math.Inf(1)
	for _, s := range r.p.Successors(n.state) {
		k := r.p.Key(s.State)
		if r.onPath[k] {
			continue
		}
		r.onPath[k] = true
		t, goal := r.probe(n.child(s), bound)
		delete(r.onPath, k)
		if goal != nil {
			return t, goal
		}
		if r.capped {
			return math.Inf(1), nil
		}
		if t < lo {
			lo = t
		}
	}

	return lo, nil
}
