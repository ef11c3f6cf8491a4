package motion

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrBadFieldOption indicates a non-positive gain, range, step or cap.
var ErrBadFieldOption = errors.New("motion: potential field options must be positive")

// Status is the outcome of a potential-field run.
type Status int

const (
	// Reached means the last path point is the goal.
	Reached Status = iota

	// LocalMinimum means the combined force vanished, or the best distance
	// to the goal did not improve for StallIterations steps.
	LocalMinimum

	// MaxIterations means the step cap was hit first.
	MaxIterations
)

func (s Status) String() string {
	switch s {
	case Reached:
		return "reached"
	case LocalMinimum:
		return "local_minimum"
	case MaxIterations:
		return "max_iterations"
	default:
		return "unknown"
	}
}

// Field defaults.
const (
	DefaultAttraction      = 1.0
	DefaultRepulsion       = 1.0
	DefaultRange           = 1.0
	DefaultStepSize        = 0.1
	DefaultFieldIterations = 1000
	DefaultStallIterations = 100
	minForce               = 1e-6
)

// FieldOptions configures PotentialField.
type FieldOptions struct {
	Attraction      float64 // k in F_att = k·(goal − p)
	Repulsion       float64 // η in F_rep = η·(1/d − 1/ρ)/d²
	Range           float64 // ρ, repulsion is zero beyond it
	StepSize        float64
	MaxIterations   int
	StallIterations int
}

// FieldOption mutates FieldOptions.
type FieldOption func(*FieldOptions)

// WithAttraction sets the attractive gain.
func WithAttraction(k float64) FieldOption { return func(o *FieldOptions) { o.Attraction = k } }

// WithRepulsion sets the repulsive gain.
func WithRepulsion(eta float64) FieldOption { return func(o *FieldOptions) { o.Repulsion = eta } }

// WithRange sets the repulsive influence distance.
func WithRange(rho float64) FieldOption { return func(o *FieldOptions) { o.Range = rho } }

// WithStepSize sets the fixed step length.
func WithStepSize(s float64) FieldOption { return func(o *FieldOptions) { o.StepSize = s } }

// WithFieldIterations caps the number of steps.
func WithFieldIterations(n int) FieldOption { return func(o *FieldOptions) { o.MaxIterations = n } }

// WithStallIterations sets how many non-improving steps count as a local minimum.
func WithStallIterations(n int) FieldOption { return func(o *FieldOptions) { o.StallIterations = n } }

// DefaultFieldOptions returns the package defaults.
func DefaultFieldOptions() FieldOptions {
	return FieldOptions{
		Attraction:      DefaultAttraction,
		Repulsion:       DefaultRepulsion,
		Range:           DefaultRange,
		StepSize:        DefaultStepSize,
		MaxIterations:   DefaultFieldIterations,
		StallIterations: DefaultStallIterations,
	}
}

// FieldResult is the trajectory of a potential-field run.
type FieldResult struct {
	Path       []r3.Vec
	Status     Status
	Iterations int
}

// PotentialField descends from start toward goal.
//
// Each step moves StepSize along the unit combined force; a step that would
// reach within StepSize of the goal snaps onto it. Obstacles touching p
// (distance 0) contribute no force, having no defined direction.
//
// Complexity: O(MaxIterations · len(obstacles)).
func PotentialField(start, goal r3.Vec, obstacles []Obstacle, opts ...FieldOption) (FieldResult, error) {
	cfg := DefaultFieldOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	for _, x := range []float64{cfg.Attraction, cfg.Repulsion, cfg.Range, cfg.StepSize} {
		if !(x > 0) || math.IsInf(x, 1) {
			return FieldResult{}, ErrBadFieldOption
		}
	}
	if cfg.MaxIterations < 1 || cfg.StallIterations < 1 {
		return FieldResult{}, ErrBadFieldOption
	}

	var (
		p     = start
		path  = []r3.Vec{start}
		best  = r3.Norm(r3.Sub(goal, start))
		stall int
	)
	for it := 1; it <= cfg.MaxIterations; it++ {
		if r3.Norm(r3.Sub(goal, p)) <= cfg.StepSize {
			if p != goal {
				path = append(path, goal)
			}
			return FieldResult{Path: path, Status: Reached, Iterations: it}, nil
		}

		f := force(p, goal, obstacles, cfg)
		n := r3.Norm(f)
		if n < minForce {
			return FieldResult{Path: path, Status: LocalMinimum, Iterations: it}, nil
		}
		p = r3.Add(p, r3.Scale(cfg.StepSize/n, f))
		path = append(path, p)

		// Progress below a thousandth of a step does not reset the stall count.
		if d := r3.Norm(r3.Sub(goal, p)); d < best-1e-3*cfg.StepSize {
			best, stall = d, 0
			continue
		}
		stall++
		if stall >= cfg.StallIterations {
			return FieldResult{Path: path, Status: LocalMinimum, Iterations: it}, nil
		}
	}

	return FieldResult{Path: path, Status: MaxIterations, Iterations: cfg.MaxIterations}, nil
}

func force(p, goal r3.Vec, obstacles []Obstacle, cfg FieldOptions) r3.Vec {
	f := r3.Scale(cfg.Attraction, r3.Sub(goal, p))
	for _, o := range obstacles {
		diff := r3.Sub(p, o.Closest(p))
		d := r3.Norm(diff)
		if d == 0 || d >= cfg.Range {
			continue
		}
		// η(1/d − 1/ρ)/d² along diff/d.
		mag := cfg.Repulsion * (1/d - 1/cfg.Range) / (d * d)
		f = r3.Add(f, r3.Scale(mag/d, diff))
	}

	return f
}
