package search

import (
	"github.com/katalvlaran/lvsolve/problem"
)

// Bidirectional runs two breadth-first frontiers, one forward from
// p.Initial over Successors and one backward from goal over Predecessors
// (Successors when Predecessors is nil). Expansions alternate one node per
// side. The search stops as soon as a generated state is already in the
// other side's visited set; the stitched path is returned with the summed
// cost of both halves, which is not verified to be optimal.
//
// p.IsGoal is not consulted; only Successors and Key are required.
func Bidirectional[S any, K comparable](p problem.Problem[S, K], goal S, opts ...Option) (problem.Result[S], error) {
	if p.Successors == nil {
		return problem.Result[S]{}, problem.ErrNoSuccessors
	}
	if p.Key == nil {
		return problem.Result[S]{}, problem.ErrNoKey
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return problem.Result[S]{}, err
	}

	start, end := root(p.Initial), root(goal)
	if p.Key(p.Initial) == p.Key(goal) {
		return start.result(0), nil
	}

	var (
		fwd      = map[K]*node[S]{p.Key(p.Initial): start}
		bwd      = map[K]*node[S]{p.Key(goal): end}
		fq       = []*node[S]{start}
		bq       = []*node[S]{end}
		expanded int
		n        *node[S]
	)

	// expand pops one node from q, records its children in mine and reports
	// the (mine, theirs) meeting pair if a child is already in theirs.
	expand := func(
		q *[]*node[S],
		mine, theirs map[K]*node[S],
		next func(S) []problem.Successor[S],
	) (*node[S], *node[S]) {
		n = (*q)[0]
		*q = (*q)[1:]
		expanded++
		for _, s := range next(n.state) {
			k := p.Key(s.State)
			if _, seen := mine[k]; seen {
				continue
			}
			c := n.child(s)
			mine[k] = c
			if other, ok := theirs[k]; ok {
				return c, other
			}
			*q = append(*q, c)
		}

		return nil, nil
	}

	for len(fq) > 0 || len(bq) > 0 {
		if len(fq) > 0 {
			if cfg.capped(expanded) {
				return problem.Fail[S](expanded, problem.NodeLimit), nil
			}
			if f, b := expand(&fq, fwd, bwd, p.Successors); f != nil {
				return stitch(f, b, expanded), nil
			}
		}
		if len(bq) > 0 {
			if cfg.capped(expanded) {
				return problem.Fail[S](expanded, problem.NodeLimit), nil
			}
			if b, f := expand(&bq, bwd, fwd, p.PredecessorsOf); b != nil {
				return stitch(f, b, expanded), nil
			}
		}
	}

	return problem.Fail[S](expanded, problem.Exhausted), nil
}

// stitch joins a forward chain ending at the meeting state with a backward
// chain starting at it. In the backward chain each node's parent is its
// successor toward goal and its action labels the edge node→parent.
func stitch[S any](f, b *node[S], expanded int) problem.Result[S] {
	res := f.result(expanded)
	for cur := b; cur.parent != nil; cur = cur.parent {
		res.Path = append(res.Path, cur.parent.state)
		res.Actions = append(res.Actions, cur.action)
	}
	res.Cost = f.g + b.g

	return res
}
