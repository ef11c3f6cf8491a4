package search

import (
	"github.com/katalvlaran/lvsolve/problem"
)

// UniformCost runs Dijkstra's algorithm on the implicit graph defined by p.
// The goal test happens on dequeue, so the first goal popped is optimal for
// non-negative step costs. Heuristic is ignored.
//
// Complexity: O((V + E) log V) over the reachable states.
func UniformCost[S any, K comparable](p problem.Problem[S, K], opts ...Option) (problem.Result[S], error) {
	if err := p.Validate(); err != nil {
		return problem.Result[S]{}, err
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return problem.Result[S]{}, err
	}

	var (
		fr       = &frontier[S]{}
		best     = make(map[K]float64)
		closed   = make(map[K]bool)
		expanded int
		n, c     *node[S]
		k, ck    K
	)
	best[p.Key(p.Initial)] = 0
	fr.push(root(p.Initial), 0, 0)

	for fr.Len() > 0 {
		n = fr.pop()
		k = p.Key(n.state)
		if closed[k] || n.g > best[k] {
			continue // stale entry
		}
		if p.IsGoal(n.state) {
			return n.result(expanded), nil
		}
		if cfg.capped(expanded) {
			return problem.Fail[S](expanded, problem.NodeLimit), nil
		}
		closed[k] = true
		expanded++

		for _, s := range p.Successors(n.state) {
			ck = p.Key(s.State)
			if closed[ck] {
				continue
			}
			c = n.child(s)
			if g, seen := best[ck]; seen && g <= c.g {
				continue
			}
			best[ck] = c.g
			fr.push(c, c.g, 0)
		}
	}

	return problem.Fail[S](expanded, problem.Exhausted), nil
}
