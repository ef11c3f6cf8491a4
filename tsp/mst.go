package tsp

import "math"

// mst computes a minimum spanning tree of the complete graph with Prim's
// O(n²) array variant, rooted at root. It returns the tree as adjacency
// lists (each edge stored at both endpoints).
//
// Out-of-tree vertices live in a frontier slice together with their cheapest
// link into the tree; ties go to the lower vertex index.
//
// Errors: ErrIncompleteGraph when +Inf edges disconnect the graph.
func (m weights) mst(root int) ([][]int, error) {
	type link struct {
		v, via int
		cost   float64
	}

	// 1) Every other vertex hangs off the root.
	var (
		adj      = make([][]int, m.n)
		frontier = make([]link, 0, max(m.n-1, 0))
	)
	for v := 0; v < m.n; v++ {
		if v != root {
			frontier = append(frontier, link{v: v, via: root, cost: m.at(root, v)})
		}
	}

	// 2) Attach the cheapest frontier vertex, then let it offer cheaper links.
	for len(frontier) > 0 {
		k := 0
		for i, l := range frontier[1:] {
			if b := frontier[k]; l.cost < b.cost || (l.cost == b.cost && l.v < b.v) {
				k = i + 1
			}
		}
		next := frontier[k]
		if math.IsInf(next.cost, 1) {
			return nil, ErrIncompleteGraph
		}
		adj[next.v] = append(adj[next.v], next.via)
		adj[next.via] = append(adj[next.via], next.v)
		frontier[k] = frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		for i := range frontier {
			if c := m.at(next.v, frontier[i].v); c < frontier[i].cost {
				frontier[i].via, frontier[i].cost = next.v, c
			}
		}
	}

	return adj, nil
}

// oddVertices lists vertices of odd degree in ascending order.
func oddVertices(adj [][]int) []int {
	odd := make([]int, 0, len(adj)/2+1)
	for v := range adj {
		if len(adj[v])&1 == 1 {
			odd = append(odd, v)
		}
	}

	return odd
}
