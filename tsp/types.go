package tsp

import (
	"errors"
	"math"
)

// Sentinel errors.
var (
	// ErrNonSquare is returned when the distance matrix is not n×n.
	ErrNonSquare = errors.New("tsp: distance matrix must be square")

	// ErrDimensionMismatch is returned for empty matrices or tours whose size
	// disagrees with the matrix.
	ErrDimensionMismatch = errors.New("tsp: dimension mismatch")

	// ErrNegativeWeight is returned for negative or NaN distances.
	ErrNegativeWeight = errors.New("tsp: negative or NaN distance")

	// ErrNonZeroDiagonal is returned when dist[i][i] != 0.
	ErrNonZeroDiagonal = errors.New("tsp: diagonal must be zero")

	// ErrAsymmetry is returned when a symmetric instance is required.
	ErrAsymmetry = errors.New("tsp: distance matrix must be symmetric")

	// ErrIncompleteGraph is returned when a required edge is +Inf or no
	// Hamiltonian cycle exists.
	ErrIncompleteGraph = errors.New("tsp: incomplete distance matrix")

	// ErrInvalidTour is returned when a tour is not a permutation of 0..n-1.
	ErrInvalidTour = errors.New("tsp: tour is not a permutation")

	// ErrStartOutOfRange is returned when Options.Start ∉ [0, n).
	ErrStartOutOfRange = errors.New("tsp: start vertex out of range")

	// ErrTooLarge is returned when an exact solver is asked for too many vertices.
	ErrTooLarge = errors.New("tsp: instance too large for exact solver")

	// ErrBadOption is returned for negative tolerances or caps.
	ErrBadOption = errors.New("tsp: invalid option")
)

const (
	// DefaultEps is the improvement tolerance: moves need Δ < −Eps.
	DefaultEps = 1e-12

	// DefaultMaxIterations caps 2-opt sweeps and 3-opt accepted moves.
	DefaultMaxIterations = 1_000

	// DefaultExactMatchingLimit is the largest odd-vertex set matched exactly.
	DefaultExactMatchingLimit = 18

	// MaxExactMatchingLimit bounds ExactMatchingLimit (DP table is 2ᵏ entries).
	MaxExactMatchingLimit = 20

	// MaxHeldKarp bounds HeldKarp.
	MaxHeldKarp = 16

	// symTol is the structural tolerance for symmetry and diagonal checks.
	symTol = 1e-12

	roundScale = 1e9
)

// Result is a tour and its closed length.
type Result struct {
	// Tour is a permutation of 0..n-1 with Tour[0] == Options.Start.
	Tour []int

	// Cost is the closed-tour length rounded to 1e-9.
	Cost float64

	// ExactMatching reports whether Christofides matched odd vertices exactly,
	// which the 1.5·OPT bound relies on. Always true for HeldKarp.
	ExactMatching bool
}

// Options configures the solvers.
//
// Eps                – strict-improvement tolerance (≥ 0).
// MaxIterations      – 2-opt sweeps / 3-opt moves; 0 ⇒ unlimited.
// Start              – vertex fixed at Tour[0] by Christofides / HeldKarp.
// ExactMatchingLimit – odd-vertex count up to which matching is exact.
// Polish             – run 2-opt then 3-opt after Christofides (default true).
type Options struct {
	Eps                float64
	MaxIterations      int
	Start              int
	ExactMatchingLimit int
	Polish             bool
}

// Option mutates Options.
type Option func(*Options)

// WithEps sets the improvement tolerance.
func WithEps(eps float64) Option { return func(o *Options) { o.Eps = eps } }

// WithMaxIterations caps sweeps (2-opt) or accepted moves (3-opt).
func WithMaxIterations(n int) Option { return func(o *Options) { o.MaxIterations = n } }

// WithStart fixes the first vertex of constructed tours.
func WithStart(v int) Option { return func(o *Options) { o.Start = v } }

// WithExactMatchingLimit sets the exact-matching threshold
// (0 ⇒ always greedy, at most MaxExactMatchingLimit).
func WithExactMatchingLimit(k int) Option { return func(o *Options) { o.ExactMatchingLimit = k } }

// WithPolish toggles the 2-opt / 3-opt post-pass of Christofides.
func WithPolish(on bool) Option { return func(o *Options) { o.Polish = on } }

// DefaultOptions returns the package defaults.
func DefaultOptions() Options {
	return Options{
		Eps:                DefaultEps,
		MaxIterations:      DefaultMaxIterations,
		ExactMatchingLimit: DefaultExactMatchingLimit,
		Polish:             true,
	}
}

func buildOptions(opts []Option) (Options, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Eps < 0 || math.IsNaN(cfg.Eps) || cfg.MaxIterations < 0 ||
		cfg.ExactMatchingLimit < 0 || cfg.ExactMatchingLimit > MaxExactMatchingLimit {
		return cfg, ErrBadOption
	}

	return cfg, nil
}

// round1e9 keeps reported costs stable across platforms.
func round1e9(x float64) float64 {
	return math.Round(x*roundScale) / roundScale
}
