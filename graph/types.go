// Package graph defines an explicit weighted graph keyed by any comparable
// vertex ID, and Dijkstra's single-source shortest-path algorithm over it.
//
// Graph stores, for every vertex, the ordered list of outgoing (neighbor,
// weight) pairs. Vertices are kept in insertion order so every traversal is
// deterministic. Undirected graphs store each edge in both adjacency lists.
//
// Errors:
//
//	ErrVertexNotFound  - requested vertex does not exist.
//	ErrNegativeWeight  - an edge weight < 0 was supplied or detected.
//	ErrBadWeight       - an edge weight is NaN.
//	ErrBadMaxDistance  - MaxDistance < 0 or NaN.
//	ErrBadInfThreshold - InfEdgeThreshold <= 0 or NaN.
package graph

import (
	"errors"
	"math"
	"slices"
)

// Sentinel errors for graph construction and Dijkstra.
var (
	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("graph: vertex not found")

	// ErrNegativeWeight indicates a negative edge weight.
	ErrNegativeWeight = errors.New("graph: negative edge weight")

	// ErrBadWeight indicates a NaN edge weight.
	ErrBadWeight = errors.New("graph: edge weight is NaN")

	// ErrBadMaxDistance indicates MaxDistance was negative or NaN.
	ErrBadMaxDistance = errors.New("graph: MaxDistance must be non-negative")

	// ErrBadInfThreshold indicates InfEdgeThreshold was non-positive or NaN.
	ErrBadInfThreshold = errors.New("graph: InfEdgeThreshold must be positive")
)

// Edge is one adjacency entry: the neighbor reached and the traversal weight.
type Edge[K comparable] struct {
	To     K
	Weight float64
}

// GraphOption configures a Graph before creation.
type GraphOption func(c *graphConfig)

type graphConfig struct {
	directed bool
}

// WithDirected makes AddEdge insert one-way edges only.
func WithDirected() GraphOption {
	return func(c *graphConfig) { c.directed = true }
}

// Graph is an adjacency-list weighted graph. It is not safe for concurrent
// mutation; every solver builds and owns its graph per call.
type Graph[K comparable] struct {
	directed bool
	order    []K             // insertion order of vertices
	adj      map[K][]Edge[K] // vertex → outgoing edges
	edges    int             // logical edge count (undirected counted once)
}

// NewGraph creates an empty graph. By default edges are undirected.
// Complexity: O(1).
func NewGraph[K comparable](opts ...GraphOption) *Graph[K] {
	var cfg graphConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Graph[K]{
		directed: cfg.directed,
		adj:      make(map[K][]Edge[K]),
	}
}

// Directed reports whether edges are one-way.
func (g *Graph[K]) Directed() bool { return g.directed }

// AddVertex inserts id if absent. Adding an existing vertex is a no-op.
// Complexity: O(1) amortized.
func (g *Graph[K]) AddVertex(id K) {
	if _, ok := g.adj[id]; ok {
		return
	}
	g.adj[id] = nil
	g.order = append(g.order, id)
}

// HasVertex reports whether id is present.
func (g *Graph[K]) HasVertex(id K) bool {
	_, ok := g.adj[id]

	return ok
}

// AddEdge inserts from→to (and to→from when undirected) with weight w,
// creating missing endpoints. Parallel edges are kept; Dijkstra simply
// relaxes the cheaper one.
// Complexity: O(1) amortized.
func (g *Graph[K]) AddEdge(from, to K, w float64) error {
	if math.IsNaN(w) {
		return ErrBadWeight
	}
	if w < 0 {
		return ErrNegativeWeight
	}
	g.AddVertex(from)
	g.AddVertex(to)
	g.adj[from] = append(g.adj[from], Edge[K]{To: to, Weight: w})
	if !g.directed && from != to {
		g.adj[to] = append(g.adj[to], Edge[K]{To: from, Weight: w})
	}
	g.edges++

	return nil
}

// Neighbors returns a copy of the outgoing edges of id.
func (g *Graph[K]) Neighbors(id K) ([]Edge[K], error) {
	es, ok := g.adj[id]
	if !ok {
		return nil, ErrVertexNotFound
	}

	return slices.Clone(es), nil
}

// Vertices returns vertex IDs in insertion order.
func (g *Graph[K]) Vertices() []K {
	return slices.Clone(g.order)
}

// VertexCount returns the number of vertices.
func (g *Graph[K]) VertexCount() int { return len(g.order) }

// EdgeCount returns the number of AddEdge insertions still present.
func (g *Graph[K]) EdgeCount() int { return g.edges }

// RemoveVertex deletes id and every edge incident to it.
// Complexity: O(V + E).
func (g *Graph[K]) RemoveVertex(id K) error {
	out, ok := g.adj[id]
	if !ok {
		return ErrVertexNotFound
	}
	// Undirected: every incident edge appears exactly once in out.
	// Directed: incoming edges are counted while stripping the other lists.
	removed := len(out)
	delete(g.adj, id)
	g.order = slices.DeleteFunc(g.order, func(v K) bool { return v == id })

	var (
		v      K
		es     []Edge[K]
		before int
	)
	for v, es = range g.adj {
		before = len(es)
		es = slices.DeleteFunc(es, func(e Edge[K]) bool { return e.To == id })
		if g.directed {
			removed += before - len(es)
		}
		g.adj[v] = es
	}
	g.edges -= removed

	return nil
}
