package csp

import (
	"cmp"
	"slices"
)

// ForwardChecking solves p by backtracking with forward checking.
//
// After v=d is bound, every constraint on v with exactly one free variable u
// is decidable for each value of u, so u's domain loses the values that would
// violate it. An emptied domain rejects v=d without descending. A failing
// scope-less constraint makes p unsatisfiable before any binding.
//
// Complexity: exponential in the worst case; each node costs
// O(Σ|scope|·|domain|) over the constraints of the bound variable.
func ForwardChecking[V comparable, D any](p Problem[V, D]) (Result[V, D], error) {
	if err := p.Validate(); err != nil {
		return Result[V, D]{}, err
	}

	ix := newIndex(p)
	if n := ix.groundConflicts(); n > 0 {
		return Result[V, D]{Conflicts: n}, nil
	}

	r := &fcRunner[V, D]{
		ix:      ix,
		asg:     make(map[V]D, len(p.Variables)),
		domains: make(map[V][]D, len(p.Variables)),
	}
	for _, v := range p.Variables {
		r.domains[v] = slices.Clone(p.Domains[v])
	}

	ok := r.solve()
	res := Result[V, D]{Solved: ok, Steps: r.steps, Backtracks: r.backtracks}
	if ok {
		res.Assignment = clone(r.asg)
	}

	return res, nil
}

type fcRunner[V comparable, D any] struct {
	ix         *index[V, D]
	asg        map[V]D
	domains    map[V][]D
	steps      int
	backtracks int
}

func (r *fcRunner[V, D]) solve() bool {
	if len(r.asg) == len(r.ix.p.Variables) {
		return true
	}

	v := r.selectVar()
	for _, d := range r.orderValues(v) {
		r.steps++
		r.asg[v] = d
		if r.ix.violated(v, r.asg) >= 0 {
			delete(r.asg, v)
			continue
		}

		pruned, _, wiped := r.forward(v)
		if !wiped {
			// Snapshot only what this trial touches.
			saved := make(map[V][]D, len(pruned)+1)
			saved[v] = r.domains[v]
			for u, dom := range pruned {
				saved[u] = r.domains[u]
				r.domains[u] = dom
			}
			r.domains[v] = []D{d}

			if r.solve() {
				return true
			}
			for u, dom := range saved {
				r.domains[u] = dom
			}
		}
		delete(r.asg, v)
	}
	r.backtracks++

	return false
}

// selectVar picks the free variable with the fewest remaining values, then
// the most constraints, then the earliest declaration.
func (r *fcRunner[V, D]) selectVar() V {
	var (
		best    V
		bestLen = -1
		bestDeg int
	)
	for _, v := range r.ix.p.Variables {
		if _, bound := r.asg[v]; bound {
			continue
		}
		n, deg := len(r.domains[v]), len(r.ix.byVar[v])
		if bestLen < 0 || n < bestLen || (n == bestLen && deg > bestDeg) {
			best, bestLen, bestDeg = v, n, deg
		}
	}

	return best
}

// orderValues returns v's current values, least constraining first.
// Equal counts keep domain order.
func (r *fcRunner[V, D]) orderValues(v V) []D {
	type scored struct {
		val  D
		cost int
	}
	vals := make([]scored, 0, len(r.domains[v]))
	for _, d := range r.domains[v] {
		r.asg[v] = d
		_, n, _ := r.forward(v)
		vals = append(vals, scored{val: d, cost: n})
	}
	delete(r.asg, v)

	slices.SortStableFunc(vals, func(a, b scored) int { return cmp.Compare(a.cost, b.cost) })
	out := make([]D, len(vals))
	for i, s := range vals {
		out[i] = s.val
	}

	return out
}

// forward computes the pruned domains implied by v's current binding.
// It returns the new domains of the affected free variables, the number of
// values eliminated, and whether some domain became empty.
func (r *fcRunner[V, D]) forward(v V) (map[V][]D, int, bool) {
	var (
		pruned     = make(map[V][]D)
		eliminated int
	)
	for _, ci := range r.ix.byVar[v] {
		c := r.ix.p.Constraints[ci]
		u, ok := r.soleFree(c)
		if !ok {
			continue
		}

		dom, seen := pruned[u]
		if !seen {
			dom = r.domains[u]
		}
		kept := make([]D, 0, len(dom))
		for _, x := range dom {
			r.asg[u] = x
			if _, holds := eval(c, r.asg); holds {
				kept = append(kept, x)
			}
		}
		delete(r.asg, u)

		eliminated += len(dom) - len(kept)
		pruned[u] = kept
		if len(kept) == 0 {
			return pruned, eliminated, true
		}
	}

	return pruned, eliminated, false
}

// soleFree returns the only unbound variable of c, if there is exactly one.
func (r *fcRunner[V, D]) soleFree(c Constraint[V, D]) (V, bool) {
	var (
		free V
		n    int
	)
	for _, u := range c.Scope {
		if _, bound := r.asg[u]; !bound {
			if n > 0 && u == free {
				continue
			}
			free = u
			n++
		}
	}

	return free, n == 1
}
