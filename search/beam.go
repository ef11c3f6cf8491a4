package search

import (
	"slices"

	"github.com/katalvlaran/lvsolve/problem"
)

// Beam runs beam search: each generation expands every state in the beam,
// dedups successors by key (keeping the cheapest), and keeps the
// Options.BeamWidth lowest-h candidates. Only kept states are marked
// visited, so a discarded state may re-enter a later generation.
//
// A goal is detected when it is generated. Termination:
//   - problem.Exhausted when a generation produces no new states;
//   - problem.IterationLimit after Options.MaxDepth generations;
//   - problem.NodeLimit when Options.MaxNodes is spent.
func Beam[S any, K comparable](p problem.Problem[S, K], opts ...Option) (problem.Result[S], error) {
	if err := p.ValidateHeuristic(); err != nil {
		return problem.Result[S]{}, err
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return problem.Result[S]{}, err
	}

	type candidate struct {
		n *node[S]
		h float64
	}

	start := root(p.Initial)
	if p.IsGoal(p.Initial) {
		return start.result(0), nil
	}

	var (
		beam     = []*node[S]{start}
		visited  = map[K]bool{p.Key(p.Initial): true}
		expanded int
		gen      int
	)
	for gen = 0; gen < cfg.MaxDepth; gen++ {
		var (
			next  []candidate
			index = make(map[K]int)
		)
		for _, n := range beam {
			if cfg.capped(expanded) {
				return problem.Fail[S](expanded, problem.NodeLimit), nil
			}
			expanded++
			for _, s := range p.Successors(n.state) {
				k := p.Key(s.State)
				if visited[k] {
					continue
				}
				c := n.child(s)
				if p.IsGoal(c.state) {
					return c.result(expanded), nil
				}
				if i, dup := index[k]; dup {
					if c.g < next[i].n.g {
						next[i].n = c
					}
					continue
				}
				index[k] = len(next)
				next = append(next, candidate{n: c, h: p.Heuristic(c.state)})
			}
		}
		if len(next) == 0 {
			return problem.Fail[S](expanded, problem.Exhausted), nil
		}

		slices.SortStableFunc(next, func(a, b candidate) int {
			switch {
			case a.h < b.h:
				return -1
			case a.h > b.h:
				return 1
			default:
				return 0
			}
		})
		if len(next) > cfg.BeamWidth {
			next = next[:cfg.BeamWidth]
		}

		beam = beam[:0]
		for _, c := range next {
			visited[p.Key(c.n.state)] = true
			beam = append(beam, c.n)
		}
	}

	return problem.Fail[S](expanded, problem.IterationLimit), nil
}
