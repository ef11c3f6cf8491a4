// Package motion provides collision primitives and two planners over
// 3-D points (gonum spatial/r3):
//
//   - PotentialField: greedy descent on attractive + repulsive forces.
//     Fast and local; it can stall between opposing forces.
//   - Roadmap (PRM): random collision-free samples joined within a
//     connection radius, queried with graph.Dijkstra.
//
// Obstacles are spheres and axis-aligned boxes. SegmentFree checks a
// straight move at a fixed resolution; it is shared by both planners and
// by the cnc rapid-move adapter.
package motion

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrBadResolution indicates a non-positive or non-finite sampling step.
var ErrBadResolution = errors.New("motion: resolution must be positive and finite")

// Obstacle is a solid region of space.
type Obstacle interface {
	// Contains reports whether p lies inside or on the surface.
	Contains(p r3.Vec) bool

	// Closest returns the point of the obstacle nearest to p (p itself when inside).
	Closest(p r3.Vec) r3.Vec
}

// Sphere is a ball.
type Sphere struct {
	Center r3.Vec
	Radius float64
}

// Contains implements Obstacle.
func (s Sphere) Contains(p r3.Vec) bool {
	return r3.Norm(r3.Sub(p, s.Center)) <= s.Radius
}

// Closest implements Obstacle.
func (s Sphere) Closest(p r3.Vec) r3.Vec {
	d := r3.Sub(p, s.Center)
	n := r3.Norm(d)
	if n <= s.Radius {
		return p
	}

	return r3.Add(s.Center, r3.Scale(s.Radius/n, d))
}

// Box is an axis-aligned box with Min ≤ Max componentwise.
type Box struct {
	Min, Max r3.Vec
}

// Contains implements Obstacle.
func (b Box) Contains(p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Closest implements Obstacle.
func (b Box) Closest(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: clamp(p.X, b.Min.X, b.Max.X),
		Y: clamp(p.Y, b.Min.Y, b.Max.Y),
		Z: clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

// Inflate grows the box by m on every side.
func (b Box) Inflate(m float64) Box {
	d := r3.Vec{X: m, Y: m, Z: m}
	return Box{Min: r3.Sub(b.Min, d), Max: r3.Add(b.Max, d)}
}

func clamp(x, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, x)) }

// Distance returns the distance from p to o (0 inside).
func Distance(o Obstacle, p r3.Vec) float64 {
	return r3.Norm(r3.Sub(p, o.Closest(p)))
}

// Free returns a predicate that is true outside every obstacle.
func Free(obstacles ...Obstacle) func(r3.Vec) bool {
	return func(p r3.Vec) bool {
		for _, o := range obstacles {
			if o.Contains(p) {
				return false
			}
		}
		return true
	}
}

// SegmentFree samples a→b every resolution units, endpoints included, and
// reports whether every sample satisfies free.
//
// Complexity: O(|b−a| / resolution) calls to free.
func SegmentFree(a, b r3.Vec, resolution float64, free func(r3.Vec) bool) (bool, error) {
	if !(resolution > 0) || math.IsInf(resolution, 1) {
		return false, ErrBadResolution
	}

	var (
		d     = r3.Sub(b, a)
		steps = int(math.Ceil(r3.Norm(d) / resolution))
	)
	for i := 0; i <= steps; i++ {
		t := 1.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		if !free(r3.Add(a, r3.Scale(t, d))) {
			return false, nil
		}
	}

	return true, nil
}

// PathLength sums consecutive distances along path.
func PathLength(path []r3.Vec) float64 {
	var l float64
	for i := 1; i < len(path); i++ {
		l += r3.Norm(r3.Sub(path[i], path[i-1]))
	}

	return l
}
