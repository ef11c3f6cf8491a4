package csp

import (
	"cmp"
	"slices"
)

// Backjumping solves p with conflict-directed backjumping.
//
// Variables are bound in a static order (smallest domain, then most
// constraints, then declaration order). When a value fails, the earlier
// variables of the violated constraint join the level's conflict set; the
// one chosen is the violated constraint whose latest other variable is
// earliest. A dead end returns its conflict set, and every level not in that
// set is skipped. The level that is in it absorbs the set (minus itself) and
// tries its next value.
//
// Complexity: exponential in the worst case; never visits more nodes than
// chronological backtracking with the same order.
func Backjumping[V comparable, D any](p Problem[V, D]) (Result[V, D], error) {
	if err := p.Validate(); err != nil {
		return Result[V, D]{}, err
	}

	ix := newIndex(p)
	if n := ix.groundConflicts(); n > 0 {
		return Result[V, D]{Conflicts: n}, nil
	}
	order := slices.Clone(p.Variables)
	slices.SortStableFunc(order, func(a, b V) int {
		if c := cmp.Compare(len(p.Domains[a]), len(p.Domains[b])); c != 0 {
			return c
		}
		return cmp.Compare(len(ix.byVar[b]), len(ix.byVar[a]))
	})

	r := &cbjRunner[V, D]{
		ix:    ix,
		order: order,
		pos:   make(map[V]int, len(order)),
		asg:   make(map[V]D, len(order)),
	}
	for i, v := range order {
		r.pos[v] = i
	}

	ok, _ := r.solve(0)
	res := Result[V, D]{Solved: ok, Steps: r.steps, Backtracks: r.backtracks, Backjumps: r.backjumps}
	if ok {
		res.Assignment = clone(r.asg)
	}

	return res, nil
}

type cbjRunner[V comparable, D any] struct {
	ix         *index[V, D]
	order      []V
	pos        map[V]int
	asg        map[V]D
	steps      int
	backtracks int
	backjumps  int
}

// solve binds order[depth:] and, on failure, returns the conflict set of
// this level.
func (r *cbjRunner[V, D]) solve(depth int) (bool, map[V]bool) {
	if depth == len(r.order) {
		return true, nil
	}

	var (
		v    = r.order[depth]
		conf = make(map[V]bool)
	)
	for _, d := range r.ix.p.Domains[v] {
		r.steps++
		r.asg[v] = d

		if ci := r.culprit(v); ci >= 0 {
			for _, u := range r.ix.p.Constraints[ci].Scope {
				if u != v {
					conf[u] = true
				}
			}
			continue
		}

		ok, child := r.solve(depth + 1)
		if ok {
			return true, nil
		}
		if !child[v] {
			// Nothing in this level caused the failure below: skip it.
			delete(r.asg, v)
			r.backjumps++
			return false, child
		}
		for u := range child {
			if u != v {
				conf[u] = true
			}
		}
	}
	delete(r.asg, v)
	r.backtracks++

	return false, conf
}

// culprit returns the violated constraint on v whose latest other variable
// sits earliest in the order, or -1 when v's binding is consistent.
func (r *cbjRunner[V, D]) culprit(v V) int {
	var (
		best    = -1
		bestPos int
	)
	for _, ci := range r.ix.byVar[v] {
		c := r.ix.p.Constraints[ci]
		if bound, ok := eval(c, r.asg); !bound || ok {
			continue
		}
		latest := -1
		for _, u := range c.Scope {
			if u != v {
				latest = max(latest, r.pos[u])
			}
		}
		if best < 0 || latest < bestPos {
			best, bestPos = ci, latest
		}
	}

	return best
}
