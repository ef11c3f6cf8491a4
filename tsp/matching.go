package tsp

import "math"

// match adds a perfect matching over odd to adj (as a multigraph) and
// reports whether it is a minimum-weight one. len(odd) is even for any
// graph (handshake lemma).
//
// Up to limit vertices the matching is exact (bitmask DP, O(k²·2ᵏ) time,
// O(2ᵏ) space); beyond it the greedy nearest-partner pass is used.
func (m weights) match(odd []int, adj [][]int, limit int) bool {
	if len(odd) <= limit {
		m.exactMatch(odd, adj)
		return true
	}
	m.greedyMatch(odd, adj)

	return false
}

// greedyMatch repeatedly pairs the first remaining vertex with its nearest
// remaining partner.
//
// Complexity: O(k²).
func (m weights) greedyMatch(odd []int, adj [][]int) {
	remaining := append([]int(nil), odd...)
	for len(remaining) > 1 {
		u := remaining[0]
		remaining = remaining[1:]

		bestIdx, bestD := 0, math.Inf(1)
		for i, v := range remaining {
			if d := m.at(u, v); d < bestD {
				bestD, bestIdx = d, i
			}
		}
		v := remaining[bestIdx]
		adj[u] = append(adj[u], v)
		adj[v] = append(adj[v], u)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
}

// exactMatch solves minimum-weight perfect matching by DP over subsets:
// dp[S] = min over j ∈ S of w(low(S), j) + dp[S \ {low(S), j}], where low(S)
// is the lowest member. Only even-sized S are reachable.
func (m weights) exactMatch(odd []int, adj [][]int) {
	k := len(odd)
	if k == 0 {
		return
	}
	var (
		full   = 1<<k - 1
		dp     = make([]float64, full+1)
		choice = make([]int8, full+1)
		mask   int
		lo, j  int
		rest   int
		cand   float64
	)
	for mask = 1; mask <= full; mask++ {
		dp[mask] = math.Inf(1)
		if bitCount(mask)&1 == 1 {
			continue
		}
		lo = lowBit(mask)
		for j = lo + 1; j < k; j++ {
			if mask&(1<<j) == 0 {
				continue
			}
			rest = mask &^ (1<<lo | 1<<j)
			cand = dp[rest] + m.at(odd[lo], odd[j])
			if cand < dp[mask] {
				dp[mask] = cand
				choice[mask] = int8(j)
			}
		}
	}

	// Walk the choices back from the full set.
	for mask = full; mask != 0; {
		lo = lowBit(mask)
		j = int(choice[mask])
		u, v := odd[lo], odd[j]
		adj[u] = append(adj[u], v)
		adj[v] = append(adj[v], u)
		mask &^= 1<<lo | 1<<j
	}
}

func lowBit(x int) int {
	var i int
	for x&1 == 0 {
		x >>= 1
		i++
	}

	return i
}

func bitCount(x int) int {
	var c int
	for ; x != 0; x &= x - 1 {
		c++
	}

	return c
}
