package tsp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// segKind enumerates segment variants for 3-opt reconnections.
type segKind uint8

const (
	segS1  segKind = iota // S1 = T[i..j-1] forward
	segS1R                // S1 reversed
	segS2                 // S2 = T[j..k-1] forward
	segS2R                // S2 reversed
)

// The 7 non-identity reconnections (X, Y): out = T[0..i-1] + X + Y + T[k..n].
var (
	tryX = [...]segKind{segS1R, segS1, segS2R, segS1R, segS2, segS2R, segS2}
	tryY = [...]segKind{segS2, segS2R, segS1R, segS2R, segS1R, segS1, segS1}
)

// segFirstLast returns the boundary vertices of a segment variant, given
// b=T[i], c=T[j-1], d=T[j], e=T[k-1].
func segFirstLast(kind segKind, b, c, d, e int) (int, int) {
	switch kind {
	case segS1:
		return b, c
	case segS1R:
		return c, b
	case segS2:
		return d, e
	default:
		return e, d
	}
}

// ThreeOpt improves tour with first-improvement 3-opt on a symmetric
// instance. For cut positions 1 ≤ i < j < k ≤ n on the closed working tour
// it removes (a,b),(c,d),(e,f), with a=T[i−1], b=T[i], c=T[j−1], d=T[j],
// e=T[k−1], f=T[k], and evaluates the 7 reconnections of S1=T[i..j−1] and
// S2=T[j..k−1]:
//
//	Δ = w(a,first X) + w(last X,first Y) + w(last Y,f) − [w(a,b)+w(c,d)+w(e,f)]
//
// The first reconnection with Δ < −Eps is applied and the scan restarts;
// Options.MaxIterations caps accepted moves. tour[0] stays fixed.
//
// Complexity: O(n³) per sweep, O(n) per accepted move.
func ThreeOpt(dist mat.Matrix, tour []int, opts ...Option) (Result, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return Result{}, err
	}
	m, err := prefetch(dist, true, true)
	if err != nil {
		return Result{}, err
	}
	if err = ValidateTour(tour, m.n); err != nil {
		return Result{}, err
	}

	cur := closed(tour)
	cur, _ = m.threeOpt(cur, cfg)

	return m.finish(cur[:m.n])
}

// threeOpt runs first-improvement 3-opt on a closed tour and returns the
// new closed tour plus the number of accepted moves.
func (m weights) threeOpt(cur []int, cfg Options) ([]int, int) {
	var (
		n                            = m.n
		i, j, k, t, moves            int
		a, b, c, d, e, f             int
		xFirst, xLast, yFirst, yLast int
		w1, w2, w3, removed, delta   float64
		improved                     bool
	)
	if n < 5 {
		// Every 3-opt move on ≤ 4 vertices is a 2-opt move or a rotation.
		m.twoOpt(cur, cfg)
		return cur, 0
	}

	for cfg.MaxIterations == 0 || moves < cfg.MaxIterations {
		improved = false
	scan:
		for i = 1; i <= n-2; i++ {
			for j = i + 1; j <= n-1; j++ {
				for k = j + 1; k <= n; k++ {
					a, b = cur[i-1], cur[i]
					c, d = cur[j-1], cur[j]
					e, f = cur[k-1], cur[k]
					removed = m.at(a, b) + m.at(c, d) + m.at(e, f)

					for t = 0; t < len(tryX); t++ {
						xFirst, xLast = segFirstLast(tryX[t], b, c, d, e)
						yFirst, yLast = segFirstLast(tryY[t], b, c, d, e)
						w1 = m.at(a, xFirst)
						w2 = m.at(xLast, yFirst)
						w3 = m.at(yLast, f)
						if math.IsInf(w1, 1) || math.IsInf(w2, 1) || math.IsInf(w3, 1) {
							continue
						}
						delta = w1 + w2 + w3 - removed
						if !(delta < -cfg.Eps) {
							continue
						}
						cur = apply3Opt(cur, i, j, k, tryX[t], tryY[t])
						moves++
						improved = true
						break scan
					}
				}
			}
		}
		if !improved {
			break
		}
	}

	return cur, moves
}

// apply3Opt builds T[0..i-1] + X + Y + T[k..n].
//
// Complexity: O(n).
func apply3Opt(cur []int, i, j, k int, x, y segKind) []int {
	out := make([]int, 0, len(cur))
	out = append(out, cur[:i]...)
	out = appendSeg(out, cur, i, j, k, x)
	out = appendSeg(out, cur, i, j, k, y)

	return append(out, cur[k:]...)
}

func appendSeg(out, cur []int, i, j, k int, kind segKind) []int {
	var p int
	switch kind {
	case segS1:
		out = append(out, cur[i:j]...)
	case segS1R:
		for p = j - 1; p >= i; p-- {
			out = append(out, cur[p])
		}
	case segS2:
		out = append(out, cur[j:k]...)
	default:
		for p = k - 1; p >= j; p-- {
			out = append(out, cur[p])
		}
	}

	return out
}
