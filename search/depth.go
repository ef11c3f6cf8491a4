package search

import (
	"github.com/katalvlaran/lvsolve/problem"
)

// dlsRunner holds the state of one depth-limited probe.
type dlsRunner[S any, K comparable] struct {
	p        problem.Problem[S, K]
	cfg      Options
	onPath   map[K]bool
	expanded int
	cutoff   bool // some node sat at the limit unexpanded
	capped   bool
}

// DepthLimited runs recursive depth-first search that does not expand nodes
// at depth ≥ limit. States already on the current path are skipped.
//
// Reason is problem.DepthLimit when the cutoff pruned anything,
// problem.Exhausted when the whole reachable tree fit under the limit.
func DepthLimited[S any, K comparable](p problem.Problem[S, K], limit int, opts ...Option) (problem.Result[S], error) {
	if err := p.Validate(); err != nil {
		return problem.Result[S]{}, err
	}
	if limit < 0 {
		return problem.Result[S]{}, ErrBadLimit
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return problem.Result[S]{}, err
	}

	r := &dlsRunner[S, K]{p: p, cfg: cfg, onPath: make(map[K]bool)}

	return r.run(limit), nil
}

// IterativeDeepening runs DepthLimited with limits 0, 1, …, Options.MaxDepth.
// NodesExpanded accumulates across rounds; it stops early with
// problem.Exhausted once a round finishes without a cutoff.
func IterativeDeepening[S any, K comparable](p problem.Problem[S, K], opts ...Option) (problem.Result[S], error) {
	if err := p.Validate(); err != nil {
		return problem.Result[S]{}, err
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return problem.Result[S]{}, err
	}

	r := &dlsRunner[S, K]{p: p, cfg: cfg, onPath: make(map[K]bool)}
	var limit int
	for limit = 0; limit <= cfg.MaxDepth; limit++ {
		res := r.run(limit)
		if res.Found || res.Reason != problem.DepthLimit {
			return res, nil
		}
	}

	return problem.Fail[S](r.expanded, problem.DepthLimit), nil
}

// run performs one probe; expanded carries over between calls.
func (r *dlsRunner[S, K]) run(limit int) problem.Result[S] {
	r.cutoff = false
	k0 := r.p.Key(r.p.Initial)
	r.onPath[k0] = true
	goal := r.probe(root(r.p.Initial), limit)
	delete(r.onPath, k0)

	switch {
	case goal != nil:
		return goal.result(r.expanded)
	case r.capped:
		return problem.Fail[S](r.expanded, problem.NodeLimit)
	case r.cutoff:
		return problem.Fail[S](r.expanded, problem.DepthLimit)
	default:
		return problem.Fail[S](r.expanded, problem.Exhausted)
	}
}

func (r *dlsRunner[S, K]) probe(n *node[S], limit int) *node[S] {
	if r.p.IsGoal(n.state) {
		return n
	}
	if n.depth >= limit {
		r.cutoff = true
		return nil
	}
	if r.cfg.capped(r.expanded) {
		r.capped = true
		return nil
	}
	r.expanded++

	for _, s := range r.p.Successors(n.state) {
		k := r.p.Key(s.State)
		if r.onPath[k] {
			continue
		}
		r.onPath[k] = true
		goal := r.probe(n.child(s), limit)
		delete(r.onPath, k)
		if goal != nil {
			return goal
		}
		if r.capped {
			return nil
		}
	}

	return nil
}
