package tsp

// incidence is one end of an undirected edge: the vertex it leads to and the
// edge's id.
type incidence struct{ to, edge int }

// eulerianCircuit returns a closed walk from start that traverses every edge
// of the multigraph adj exactly once (Hierholzer). adj stores each edge at
// both endpoints; degrees must be even and the edges connected.
//
// Edges are numbered once so both ends share a used flag; a vertex drops
// spent incidences from the tail of its list as it advances.
//
// Complexity: O(V + E).
func eulerianCircuit(adj [][]int, start int) []int {
	// 1) Number edges from their lower endpoint. Parallel edges stay distinct.
	var (
		inc  = make([][]incidence, len(adj))
		used []bool
	)
	for u := range adj {
		for _, v := range adj[u] {
			if u >= v {
				continue
			}
			id := len(used)
			used = append(used, false)
			inc[u] = append(inc[u], incidence{to: v, edge: id})
			inc[v] = append(inc[v], incidence{to: u, edge: id})
		}
	}

	// 2) Walk unused edges; a vertex with none left is final and joins the circuit.
	var (
		circuit = make([]int, 0, len(used)+1)
		stack   = []int{start}
	)
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		for len(inc[u]) > 0 && used[inc[u][len(inc[u])-1].edge] {
			inc[u] = inc[u][:len(inc[u])-1]
		}
		if len(inc[u]) == 0 {
			circuit = append(circuit, u)
			stack = stack[:len(stack)-1]
			continue
		}
		e := inc[u][len(inc[u])-1]
		used[e.edge] = true
		stack = append(stack, e.to)
	}

	return circuit
}
