package cnc

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lvsolve/motion"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrBadWorkpiece indicates a box with Min > Max on some axis.
	ErrBadWorkpiece = errors.New("cnc: workpiece box is inverted")

	// ErrUnsafeHeight indicates a retract plane inside the inflated workpiece.
	ErrUnsafeHeight = errors.New("cnc: safe height must clear the workpiece")
)

// Strategy names how a rapid segment was routed.
type Strategy string

// Strategies in the order they are tried.
const (
	Straight       Strategy = "straight"
	PotentialField Strategy = "potential_field"
	Roadmap        Strategy = "roadmap"
	Retract        Strategy = "retract"
)

// Segment is one routed rapid move.
type Segment struct {
	From, To r3.Vec
	Path     []r3.Vec
	Strategy Strategy
	Length   float64
}

// RapidPlan is the result of OptimizeRapids.
type RapidPlan struct {
	Segments      []Segment
	TotalDistance float64
	Breakdown     map[Strategy]int
}

// OptimizeRapids routes a rapid move between each consecutive pair of
// points around workpiece, inflated by the clearance.
//
// Per pair: the straight line if its samples are clear; else a
// potential-field path that reaches the goal with every step clear; else a
// roadmap route (WithRoadmap) re-checked against the workpiece; else
// retract to the safe height, traverse, and plunge.
func OptimizeRapids(points []r3.Vec, workpiece motion.Box, opts ...Option) (RapidPlan, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return RapidPlan{}, err
	}
	if workpiece.Min.X > workpiece.Max.X || workpiece.Min.Y > workpiece.Max.Y || workpiece.Min.Z > workpiece.Max.Z {
		return RapidPlan{}, ErrBadWorkpiece
	}

	var (
		keepOut = workpiece.Inflate(cfg.Clearance)
		free    = motion.Free(keepOut)
		safe    = cfg.SafeHeight
	)
	if safe == 0 {
		safe = keepOut.Max.Z + DefaultRetractMargin
	}
	if safe <= keepOut.Max.Z {
		return RapidPlan{}, fmt.Errorf("safe height %g ≤ %g: %w", safe, keepOut.Max.Z, ErrUnsafeHeight)
	}

	r := &rapidRouter{cfg: cfg, keepOut: keepOut, free: free, safe: safe}
	plan := RapidPlan{Breakdown: make(map[Strategy]int)}
	for i := 1; i < len(points); i++ {
		seg, err := r.route(points[i-1], points[i])
		if err != nil {
			return RapidPlan{}, err
		}
		seg.Length = motion.PathLength(seg.Path)
		plan.Segments = append(plan.Segments, seg)
		plan.TotalDistance += seg.Length
		plan.Breakdown[seg.Strategy]++
	}

	return plan, nil
}

type rapidRouter struct {
	cfg     Options
	keepOut motion.Box
	free    func(r3.Vec) bool
	safe    float64
}

func (r *rapidRouter) route(a, b r3.Vec) (Segment, error) {
	seg := Segment{From: a, To: b}

	// 1) Straight.
	ok, err := motion.SegmentFree(a, b, r.cfg.Resolution, r.free)
	if err != nil {
		return seg, err
	}
	if ok {
		seg.Path, seg.Strategy = []r3.Vec{a, b}, Straight
		return seg, nil
	}

	// 2) Potential field.
	field, err := motion.PotentialField(a, b, []motion.Obstacle{r.keepOut}, r.cfg.Field...)
	if err != nil {
		return seg, err
	}
	if field.Status == motion.Reached {
		if ok, err = r.pathFree(field.Path); err != nil {
			return seg, err
		}
		if ok {
			seg.Path, seg.Strategy = field.Path, PotentialField
			return seg, nil
		}
	}
	r.cfg.Logger.Debug("potential field fallback failed",
		slog.String("status", field.Status.String()),
		slog.Int("iterations", field.Iterations),
	)

	// 3) Roadmap.
	if r.cfg.Roadmap != nil {
		route, err := r.cfg.Roadmap.Query(a, b)
		if err != nil {
			return seg, err
		}
		if route.Found {
			if ok, err = r.pathFree(route.Path); err != nil {
				return seg, err
			}
			if ok {
				seg.Path, seg.Strategy = route.Path, Roadmap
				return seg, nil
			}
		}
		r.cfg.Logger.Debug("roadmap fallback failed", slog.Bool("found", route.Found))
	}

	// 4) Retract, traverse, plunge.
	up := r3.Vec{X: a.X, Y: a.Y, Z: r.safe}
	over := r3.Vec{X: b.X, Y: b.Y, Z: r.safe}
	seg.Path, seg.Strategy = []r3.Vec{a, up, over, b}, Retract
	r.cfg.Logger.Debug("rapid retract", slog.Float64("safe_height", r.safe))

	return seg, nil
}

func (r *rapidRouter) pathFree(path []r3.Vec) (bool, error) {
	for i := 1; i < len(path); i++ {
		ok, err := motion.SegmentFree(path[i-1], path[i], r.cfg.Resolution, r.free)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}
