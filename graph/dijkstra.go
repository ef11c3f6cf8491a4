package graph

import (
	"container/heap"
	"fmt"
	"math"
	"slices"
)

// Options configures Dijkstra.
//
// MaxDistance      – vertices whose distance would exceed this are not explored.
//
//	Must be ≥ 0. Default is +Inf (no cap).
//
// InfEdgeThreshold – edges with weight ≥ threshold are impassable.
//
//	Must be > 0. Default is +Inf (no walls).
type Options struct {
	MaxDistance      float64
	InfEdgeThreshold float64
}

// Option is a functional option for Dijkstra.
type Option func(*Options)

// WithMaxDistance caps the explored distance.
func WithMaxDistance(d float64) Option {
	return func(o *Options) { o.MaxDistance = d }
}

// WithInfEdgeThreshold treats edges with weight ≥ t as walls.
func WithInfEdgeThreshold(t float64) Option {
	return func(o *Options) { o.InfEdgeThreshold = t }
}

// DefaultOptions returns the uncapped configuration.
func DefaultOptions() Options {
	return Options{
		MaxDistance:      math.Inf(1),
		InfEdgeThreshold: math.Inf(1),
	}
}

// Result holds the full single-source solution.
//
// Dist maps every vertex to its shortest distance (+Inf when unreachable).
// Prev maps every reached vertex except the source to its predecessor.
type Result[K comparable] struct {
	Source K
	Dist   map[K]float64
	Prev   map[K]K
}

// Reachable reports whether v has a finite distance.
func (r Result[K]) Reachable(v K) bool {
	d, ok := r.Dist[v]

	return ok && !math.IsInf(d, 1)
}

// PathTo reconstructs the shortest path Source→goal.
// Returns (nil, +Inf, false) when goal is unreachable or unknown.
// Complexity: O(path length).
func (r Result[K]) PathTo(goal K) ([]K, float64, bool) {
	if !r.Reachable(goal) {
		return nil, math.Inf(1), false
	}
	path := []K{goal}
	cur := goal
	var (
		p  K
		ok bool
	)
	for cur != r.Source {
		if p, ok = r.Prev[cur]; !ok {
			return nil, math.Inf(1), false
		}
		path = append(path, p)
		cur = p
	}
	slices.Reverse(path)

	return path, r.Dist[goal], true
}

// Dijkstra computes shortest distances from source to every vertex of g.
//
// Preconditions and validation (in order):
//  1. source must be a vertex of g (ErrVertexNotFound).
//  2. MaxDistance ≥ 0 (ErrBadMaxDistance), InfEdgeThreshold > 0 (ErrBadInfThreshold).
//  3. No edge of g may have a negative weight (ErrNegativeWeight), checked up front.
//
// Complexity:
//
//   - Time:  O((V + E) log V) with lazy decrease-key.
//   - Space: O(V + E).
func Dijkstra[K comparable](g *Graph[K], source K, opts ...Option) (Result[K], error) {
	// 1) Build options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate inputs.
	if g == nil || !g.HasVertex(source) {
		return Result[K]{}, ErrVertexNotFound
	}
	if math.IsNaN(cfg.MaxDistance) || cfg.MaxDistance < 0 {
		return Result[K]{}, ErrBadMaxDistance
	}
	if math.IsNaN(cfg.InfEdgeThreshold) || cfg.InfEdgeThreshold <= 0 {
		return Result[K]{}, ErrBadInfThreshold
	}

	// 3) Fail fast on negative weights; AddEdge rejects them, but the scan
	//    keeps the contract independent of how the graph was populated.
	var (
		u K
		e Edge[K]
	)
	for _, u = range g.order {
		for _, e = range g.adj[u] {
			if e.Weight < 0 {
				return Result[K]{}, fmt.Errorf("%w: edge %v→%v weight=%g", ErrNegativeWeight, u, e.To, e.Weight)
			}
		}
	}

	// 4) Run.
	r := &runner[K]{
		g:       g,
		options: cfg,
		dist:    make(map[K]float64, len(g.order)),
		prev:    make(map[K]K, len(g.order)),
		visited: make(map[K]bool, len(g.order)),
		pq:      make(nodePQ[K], 0, len(g.order)),
	}
	r.init(source)
	r.process()

	return Result[K]{Source: source, Dist: r.dist, Prev: r.prev}, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner[K comparable] struct {
	g       *Graph[K]
	options Options
	dist    map[K]float64
	prev    map[K]K
	visited map[K]bool
	pq      nodePQ[K]
	seq     int // insertion counter for deterministic tie-breaking
}

// init sets dist[v] = +Inf for all v, dist[source] = 0, and seeds the heap.
func (r *runner[K]) init(source K) {
	for _, v := range r.g.order {
		r.dist[v] = math.Inf(1)
	}
	r.dist[source] = 0
	heap.Init(&r.pq)
	r.push(source, 0)
}

func (r *runner[K]) push(id K, d float64) {
	heap.Push(&r.pq, &nodeItem[K]{id: id, dist: d, seq: r.seq})
	r.seq++
}

// process pops the closest unfinalized vertex and relaxes its edges until the
// heap empties or the frontier exceeds MaxDistance.
func (r *runner[K]) process() {
	var item *nodeItem[K]
	for r.pq.Len() > 0 {
		item = heap.Pop(&r.pq).(*nodeItem[K])
		if r.visited[item.id] {
			continue // stale entry
		}
		if item.dist > r.options.MaxDistance {
			break
		}
		r.visited[item.id] = true
		r.relax(item.id)
	}
}

// relax improves distances of u's neighbors through u.
func (r *runner[K]) relax(u K) {
	var (
		e       Edge[K]
		newDist float64
	)
	for _, e = range r.g.adj[u] {
		if e.Weight >= r.options.InfEdgeThreshold {
			continue // wall
		}
		newDist = r.dist[u] + e.Weight
		if newDist > r.options.MaxDistance {
			continue
		}
		// Strict "<" avoids pushing duplicates on ties.
		if newDist >= r.dist[e.To] {
			continue
		}
		r.dist[e.To] = newDist
		r.prev[e.To] = u
		r.push(e.To, newDist)
	}
}

// nodeItem is a heap entry: a vertex and the distance it was pushed with.
type nodeItem[K comparable] struct {
	id   K
	dist float64
	seq  int
}

// nodePQ is a min-heap by (dist, seq). Outdated entries stay in the heap and
// are skipped when popped.
type nodePQ[K comparable] []*nodeItem[K]

func (pq nodePQ[K]) Len() int { return len(pq) }
func (pq nodePQ[K]) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].seq < pq[j].seq
}
func (pq nodePQ[K]) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ[K]) Push(x any) { *pq = append(*pq, x.(*nodeItem[K])) }
func (pq *nodePQ[K]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
