package search

import (
	"container/heap"
	"slices"

	"github.com/katalvlaran/lvsolve/problem"
)

// step records how a state was best reached so far.
type step[K comparable] struct {
	parent K
	action string
	root   bool
}

// keyed is an A* frontier item; the state travels with its key so the
// cameFrom map can be rebuilt without node chains.
type keyed[S any, K comparable] struct {
	state S
	key   K
	g     float64
	f     float64
	h     float64
	seq   int
}

type keyedPQ[S any, K comparable] []*keyed[S, K]

func (q keyedPQ[S, K]) Len() int { return len(q) }
func (q keyedPQ[S, K]) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	if q[i].h != q[j].h {
		return q[i].h < q[j].h
	}

	return q[i].seq < q[j].seq
}
func (q keyedPQ[S, K]) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *keyedPQ[S, K]) Push(x any)   { *q = append(*q, x.(*keyed[S, K])) }
func (q *keyedPQ[S, K]) Pop() any {
	old := *q
	last := len(old) - 1
	item := old[last]
	old[last] = nil
	*q = old[:last]

	return item
}

// WeightedAStar runs A* with f = g + w·h, where w is Options.Weight
// (default 1 ⇒ plain A*). With w = 1 and an admissible heuristic the
// returned cost is optimal; w > 1 bounds the cost by w·OPT.
//
// A closed state whose g improves is reopened, so admissible but
// inconsistent heuristics still yield optimal paths at w = 1.
//
// Errors: problem.ErrNoSuccessors, problem.ErrNoGoal, problem.ErrNoKey,
// problem.ErrNoHeuristic, ErrBadWeight and the other option errors.
func WeightedAStar[S any, K comparable](p problem.Problem[S, K], opts ...Option) (problem.Result[S], error) {
	if err := p.ValidateHeuristic(); err != nil {
		return problem.Result[S]{}, err
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return problem.Result[S]{}, err
	}

	// 1) Bookkeeping keyed by state identity.
	var (
		pq       = &keyedPQ[S, K]{}
		gScore   = make(map[K]float64)
		cameFrom = make(map[K]step[K])
		states   = make(map[K]S)
		closed   = make(map[K]bool)
		seq      int
		expanded int
		it       *keyed[S, K]
		ck       K
		g        float64
	)
	push := func(s S, k K, g float64) {
		h := p.Heuristic(s)
		heap.Push(pq, &keyed[S, K]{state: s, key: k, g: g, f: g + cfg.Weight*h, h: h, seq: seq})
		seq++
	}

	k0 := p.Key(p.Initial)
	gScore[k0] = 0
	cameFrom[k0] = step[K]{root: true}
	states[k0] = p.Initial
	push(p.Initial, k0, 0)

	// 2) Main loop.
	for pq.Len() > 0 {
		it = heap.Pop(pq).(*keyed[S, K])
		if it.g > gScore[it.key] {
			continue // stale entry
		}
		if closed[it.key] {
			continue
		}
		if p.IsGoal(it.state) {
			return reconstruct(it.key, gScore[it.key], cameFrom, states, expanded), nil
		}
		if cfg.capped(expanded) {
			return problem.Fail[S](expanded, problem.NodeLimit), nil
		}
		closed[it.key] = true
		expanded++

		for _, s := range p.Successors(it.state) {
			ck = p.Key(s.State)
			g = it.g + s.Cost
			if old, seen := gScore[ck]; seen && g >= old {
				continue
			}
			gScore[ck] = g
			cameFrom[ck] = step[K]{parent: it.key, action: s.Action}
			states[ck] = s.State
			delete(closed, ck) // reopen on improvement
			push(s.State, ck, g)
		}
	}

	return problem.Fail[S](expanded, problem.Exhausted), nil
}

// reconstruct walks cameFrom from goal back to the root key.
func reconstruct[S any, K comparable](
	goal K,
	cost float64,
	cameFrom map[K]step[K],
	states map[K]S,
	expanded int,
) problem.Result[S] {
	var (
		path    []S
		actions []string
		k       = goal
	)
	for {
		st := cameFrom[k]
		path = append(path, states[k])
		if st.root {
			break
		}
		actions = append(actions, st.action)
		k = st.parent
	}
	slices.Reverse(path)
	slices.Reverse(actions)

	return problem.Result[S]{
		Found:         true,
		Path:          path,
		Actions:       actions,
		Cost:          cost,
		NodesExpanded: expanded,
		Reason:        problem.Solved,
	}
}
