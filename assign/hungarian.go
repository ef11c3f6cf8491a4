// Package assign solves minimum-cost bipartite assignment with the
// Hungarian method (shortest augmenting paths with row/column potentials).
//
// Input may be rectangular: it is padded to square with zero-cost dummy
// rows or columns, and only pairs between real rows and real columns are
// reported. An entry of +Inf forbids a pair; forbidden pairs are never
// reported, so a row may end up unassigned and Result.Complete is false.
// Finite entries must satisfy |x| ≤ MaxCost so potentials, the forbidden
// penalty and the reported total stay finite.
//
// Complexity: O(N³) time and O(N²) space for N = max(rows, cols).
package assign

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MaxCost bounds the magnitude of finite cost entries.
const MaxCost = 1e150

var (
	// ErrEmpty is returned for a nil matrix or one with a zero dimension.
	ErrEmpty = errors.New("assign: empty cost matrix")

	// ErrBadCost is returned for NaN, -Inf or finite entries beyond ±MaxCost.
	ErrBadCost = errors.New("assign: cost must be +Inf or within ±MaxCost")
)

// Pair is one real row/column match.
type Pair struct {
	Row, Col int
	Cost     float64
}

// Result is an optimal assignment.
type Result struct {
	// Pairs lists matches in ascending row order.
	Pairs []Pair

	// RowToCol maps each real row to its column, or -1 when unassigned.
	RowToCol []int

	// Cost sums Pairs[i].Cost.
	Cost float64

	// Complete reports whether min(rows, cols) pairs were made, i.e. no
	// real row (or column, on the smaller side) was left without a partner.
	Complete bool
}

// Hungarian returns a minimum-cost assignment for cost.
//
// Among assignments that use the fewest forbidden pairs, the reported one
// has minimum total cost.
func Hungarian(cost mat.Matrix) (Result, error) {
	if cost == nil {
		return Result{}, ErrEmpty
	}
	rows, cols := cost.Dims()
	if rows == 0 || cols == 0 {
		return Result{}, ErrEmpty
	}

	// 1) Square, 1-indexed working matrix; +Inf becomes a large finite penalty.
	var (
		n       = max(rows, cols)
		a       = make([]float64, (n+1)*(n+1))
		forbid  = make([]bool, (n+1)*(n+1))
		maxAbs  float64
		i, j    int
		x       float64
		penalty float64
	)
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			x = cost.At(i, j)
			switch {
			case math.IsInf(x, 1):
				forbid[(i+1)*(n+1)+j+1] = true
			case !(math.Abs(x) <= MaxCost):
				return Result{}, fmt.Errorf("entry (%d,%d)=%v: %w", i, j, x, ErrBadCost)
			default:
				a[(i+1)*(n+1)+j+1] = x
				maxAbs = math.Max(maxAbs, math.Abs(x))
			}
		}
	}
	penalty = (maxAbs + 1) * float64(2*n+1)
	for i = range forbid {
		if forbid[i] {
			a[i] = penalty
		}
	}

	// 2) Augment one row at a time.
	p := solve(a, n)

	// 3) Map back to real pairs.
	res := Result{RowToCol: make([]int, rows)}
	for i = range res.RowToCol {
		res.RowToCol[i] = -1
	}
	for j = 1; j <= n; j++ {
		r, c := p[j]-1, j-1
		if r >= rows || c >= cols || forbid[p[j]*(n+1)+j] {
			continue
		}
		res.RowToCol[r] = c
	}
	for i = 0; i < rows; i++ {
		if c := res.RowToCol[i]; c >= 0 {
			x = cost.At(i, c)
			res.Pairs = append(res.Pairs, Pair{Row: i, Col: c, Cost: x})
			res.Cost += x
		}
	}
	res.Complete = len(res.Pairs) == min(rows, cols)

	return res, nil
}

// solve runs the potentials method on the (n+1)² matrix a (row/column 0
// unused) and returns p, where p[j] is the row matched to column j.
func solve(a []float64, n int) []int {
	var (
		u    = make([]float64, n+1)
		v    = make([]float64, n+1)
		p    = make([]int, n+1)
		way  = make([]int, n+1)
		minv = make([]float64, n+1)
		used = make([]bool, n+1)
		w    = n + 1
	)
	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}

		// Dijkstra-like growth of the alternating tree until a free column.
		for {
			used[j0] = true
			i0, delta, j1 := p[j0], math.Inf(1), 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				if cur := a[i0*w+j] - u[i0] - v[j]; cur < minv[j] {
					minv[j], way[j] = cur, j0
				}
				if minv[j] < delta {
					delta, j1 = minv[j], j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Flip the augmenting path.
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	return p
}
