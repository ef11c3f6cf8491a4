package search

import (
	"github.com/katalvlaran/lvsolve/problem"
)

// BestFirst runs greedy best-first search: the frontier is ordered by h
// alone. Ties prefer the earlier-generated node.
//
// Errors: problem.ErrNoSuccessors, problem.ErrNoGoal, problem.ErrNoKey,
// problem.ErrNoHeuristic, or an option error.
func BestFirst[S any, K comparable](p problem.Problem[S, K], opts ...Option) (problem.Result[S], error) {
	if err := p.ValidateHeuristic(); err != nil {
		return problem.Result[S]{}, err
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return problem.Result[S]{}, err
	}

	var (
		fr       = &frontier[S]{}
		visited  = make(map[K]bool)
		expanded int
		n        *node[S]
		k        K
		h        float64
	)
	h = p.Heuristic(p.Initial)
	fr.push(root(p.Initial), h, 0)

	for fr.Len() > 0 {
		n = fr.pop()
		k = p.Key(n.state)
		if visited[k] {
			continue // duplicate frontier entry
		}
		if p.IsGoal(n.state) {
			return n.result(expanded), nil
		}
		if cfg.capped(expanded) {
			return problem.Fail[S](expanded, problem.NodeLimit), nil
		}
		visited[k] = true
		expanded++

		for _, s := range p.Successors(n.state) {
			if visited[p.Key(s.State)] {
				continue
			}
			h = p.Heuristic(s.State)
			fr.push(n.child(s), h, 0)
		}
	}

	return problem.Fail[S](expanded, problem.Exhausted), nil
}
