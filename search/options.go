package search

import (
	"errors"
	"math"
)

// Sentinel errors for invalid options.
var (
	// ErrBadWeight indicates a negative or NaN A* weight.
	ErrBadWeight = errors.New("search: weight must be a non-negative number")

	// ErrBadBeamWidth indicates BeamWidth < 1.
	ErrBadBeamWidth = errors.New("search: beam width must be at least 1")

	// ErrBadLimit indicates a negative MaxNodes, MaxDepth or MaxIterations.
	ErrBadLimit = errors.New("search: limits must be non-negative")
)

const (
	// DefaultMaxNodes bounds expansions when callers do not set a cap.
	DefaultMaxNodes = 100_000

	// DefaultBeamWidth is the beam size used by Beam.
	DefaultBeamWidth = 10

	// DefaultMaxDepth bounds beam generations and iterative deepening.
	DefaultMaxDepth = 64

	// DefaultMaxIterations bounds IDA* threshold rounds.
	DefaultMaxIterations = 1_000
)

// Options configures the search algorithms. Fields irrelevant to an
// algorithm are ignored by it.
//
// MaxNodes      – expansion cap; 0 ⇒ unlimited.
// Weight        – heuristic weight for WeightedAStar (default 1).
// BeamWidth     – successors kept per generation by Beam.
// MaxDepth      – generation cap for Beam, cutoff cap for IterativeDeepening.
// MaxIterations – threshold rounds for IDAStar.
type Options struct {
	MaxNodes      int
	Weight        float64
	BeamWidth     int
	MaxDepth      int
	MaxIterations int
}

// Option is a functional option.
type Option func(*Options)

// WithMaxNodes caps node expansions (0 ⇒ unlimited).
func WithMaxNodes(n int) Option { return func(o *Options) { o.MaxNodes = n } }

// WithWeight sets the heuristic weight w in f = g + w·h.
func WithWeight(w float64) Option { return func(o *Options) { o.Weight = w } }

// WithBeamWidth sets the number of states kept per beam generation.
func WithBeamWidth(k int) Option { return func(o *Options) { o.BeamWidth = k } }

// WithMaxDepth sets the depth / generation cap.
func WithMaxDepth(d int) Option { return func(o *Options) { o.MaxDepth = d } }

// WithMaxIterations sets the IDA* threshold-round cap.
func WithMaxIterations(n int) Option { return func(o *Options) { o.MaxIterations = n } }

// DefaultOptions returns the defaults used when no option overrides them.
func DefaultOptions() Options {
	return Options{
		MaxNodes:      DefaultMaxNodes,
		Weight:        1,
		BeamWidth:     DefaultBeamWidth,
		MaxDepth:      DefaultMaxDepth,
		MaxIterations: DefaultMaxIterations,
	}
}

// buildOptions applies opts over the defaults and validates the result.
func buildOptions(opts []Option) (Options, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if math.IsNaN(cfg.Weight) || cfg.Weight < 0 {
		return cfg, ErrBadWeight
	}
	if cfg.BeamWidth < 1 {
		return cfg, ErrBadBeamWidth
	}
	if cfg.MaxNodes < 0 || cfg.MaxDepth < 0 || cfg.MaxIterations < 0 {
		return cfg, ErrBadLimit
	}

	return cfg, nil
}

// capped reports whether the expansion budget is spent.
func (o Options) capped(expanded int) bool {
	return o.MaxNodes > 0 && expanded >= o.MaxNodes
}
