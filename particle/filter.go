// Package particle implements a generic sequential Monte Carlo (particle)
// filter and a scalar drift tracker built on it.
//
// A Filter owns N particles of an arbitrary state type and their weights,
// uniform at start. Predict moves every particle through the caller's motion
// model; Update reweights by the measurement likelihood, renormalizes, and
// runs low-variance resampling when the effective sample size 1/Σw² drops
// below ResampleThreshold·N. Estimate and Uncertainty report the weighted
// mean and standard deviation of each numeric field of the state.
//
// If every weight collapses to zero (the measurement contradicts all
// particles), weights reset to uniform instead of dividing by zero.
//
// A Filter is not safe for concurrent use.
package particle

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/lvsolve/internal/rng"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNoMotion indicates a Model without Motion.
	ErrNoMotion = errors.New("particle: motion model is nil")

	// ErrNoLikelihood indicates a Model without Likelihood.
	ErrNoLikelihood = errors.New("particle: likelihood is nil")

	// ErrNoFields indicates a Model without Fields.
	ErrNoFields = errors.New("particle: fields extractor is nil")

	// ErrNoPrior indicates a nil initial-state sampler.
	ErrNoPrior = errors.New("particle: initial sampler is nil")

	// ErrBadCount indicates fewer than one particle.
	ErrBadCount = errors.New("particle: particle count must be at least 1")

	// ErrBadThreshold indicates a resample threshold outside [0, 1].
	ErrBadThreshold = errors.New("particle: resample threshold must be in [0, 1]")
)

// Defaults.
const (
	DefaultParticles         = 1000
	DefaultResampleThreshold = 0.5
)

// Model supplies the problem-specific parts of a filter.
type Model[S, C, M any] struct {
	// Motion returns s advanced by control c, including process noise.
	Motion func(s S, c C, r *rand.Rand) S

	// Likelihood returns p(m | s) up to a constant; negative and NaN values
	// count as zero. +Inf marks a certain match: the particles reporting it
	// share all the weight.
	Likelihood func(s S, m M) float64

	// Fields exposes the numeric fields averaged by Estimate/Uncertainty.
	Fields func(s S) []float64
}

// Options configures a Filter.
type Options struct {
	Particles         int
	ResampleThreshold float64
	Rand              *rand.Rand
}

// Option mutates Options.
type Option func(*Options)

// WithParticles sets N.
func WithParticles(n int) Option { return func(o *Options) { o.Particles = n } }

// WithResampleThreshold sets the ESS fraction that triggers resampling.
// 0 disables automatic resampling; 1 resamples after every update.
func WithResampleThreshold(t float64) Option {
	return func(o *Options) { o.ResampleThreshold = t }
}

// WithRand injects the random source used for sampling and resampling.
func WithRand(r *rand.Rand) Option { return func(o *Options) { o.Rand = r } }

// DefaultOptions returns the package defaults.
func DefaultOptions() Options {
	return Options{Particles: DefaultParticles, ResampleThreshold: DefaultResampleThreshold}
}

// Filter is a particle filter over states S, controls C and measurements M.
type Filter[S, C, M any] struct {
	model     Model[S, C, M]
	particles []S
	spare     []S
	weights   []float64
	threshold float64
	rng       *rand.Rand
}

// New draws N initial particles from prior and returns a filter with
// uniform weights.
func New[S, C, M any](model Model[S, C, M], prior func(r *rand.Rand) S, opts ...Option) (*Filter[S, C, M], error) {
	switch {
	case model.Motion == nil:
		return nil, ErrNoMotion
	case model.Likelihood == nil:
		return nil, ErrNoLikelihood
	case model.Fields == nil:
		return nil, ErrNoFields
	case prior == nil:
		return nil, ErrNoPrior
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Particles < 1 {
		return nil, ErrBadCount
	}
	if !(cfg.ResampleThreshold >= 0 && cfg.ResampleThreshold <= 1) {
		return nil, ErrBadThreshold
	}

	f := &Filter[S, C, M]{
		model:     model,
		particles: make([]S, cfg.Particles),
		spare:     make([]S, cfg.Particles),
		weights:   make([]float64, cfg.Particles),
		threshold: cfg.ResampleThreshold,
		rng:       rng.Or(cfg.Rand),
	}
	for i := range f.particles {
		f.particles[i] = prior(f.rng)
	}
	f.uniform()

	return f, nil
}

// Len returns N.
func (f *Filter[S, C, M]) Len() int { return len(f.particles) }

// Particles returns a copy of the particle states.
func (f *Filter[S, C, M]) Particles() []S {
	return append([]S(nil), f.particles...)
}

// Weights returns a copy of the normalized weights.
func (f *Filter[S, C, M]) Weights() []float64 {
	return append([]float64(nil), f.weights...)
}

// Predict applies the motion model to every particle.
func (f *Filter[S, C, M]) Predict(c C) {
	for i, s := range f.particles {
		f.particles[i] = f.model.Motion(s, c, f.rng)
	}
}

// Update reweights by the likelihood of m and renormalizes. It reports
// whether low-variance resampling ran.
func (f *Filter[S, C, M]) Update(m M) bool {
	certain := 0
	for i, s := range f.particles {
		l := f.model.Likelihood(s, m)
		if !(l > 0) {
			l = 0
		}
		w := f.weights[i] * l
		switch {
		case math.IsNaN(w):
			w = 0
		case math.IsInf(w, 1):
			certain++
		}
		f.weights[i] = w
	}
	if certain > 0 {
		for i, w := range f.weights {
			if math.IsInf(w, 1) {
				f.weights[i] = 1
			} else {
				f.weights[i] = 0
			}
		}
	}

	sum := floats.Sum(f.weights)
	if !(sum > 0) || math.IsInf(sum, 1) {
		f.uniform()
		return false
	}
	floats.Scale(1/sum, f.weights)

	if f.EffectiveSampleSize() < f.threshold*float64(len(f.particles)) {
		f.Resample()
		return true
	}

	return false
}

// EffectiveSampleSize returns 1/Σw².
func (f *Filter[S, C, M]) EffectiveSampleSize() float64 {
	return 1 / floats.Dot(f.weights, f.weights)
}

// Resample redraws N particles proportionally to weight with a single
// random offset and N evenly spaced pointers, then resets weights to
// uniform. States are copied by value.
//
// Complexity: O(N).
func (f *Filter[S, C, M]) Resample() {
	var (
		n    = len(f.particles)
		step = 1 / float64(n)
		u    = f.rng.Float64() * step
		c    = f.weights[0]
		i    int
	)
	for m := 0; m < n; m++ {
		for u >= c && i < n-1 {
			i++
			c += f.weights[i]
		}
		f.spare[m] = f.particles[i]
		u += step
	}
	f.particles, f.spare = f.spare, f.particles
	f.uniform()
}

// Estimate returns the weighted mean of each field.
func (f *Filter[S, C, M]) Estimate() []float64 {
	cols := f.columns()
	out := make([]float64, len(cols))
	for k, col := range cols {
		out[k] = stat.Mean(col, f.weights)
	}

	return out
}

// Uncertainty returns the weighted population standard deviation of each field.
func (f *Filter[S, C, M]) Uncertainty() []float64 {
	cols := f.columns()
	out := make([]float64, len(cols))
	for k, col := range cols {
		_, out[k] = stat.PopMeanStdDev(col, f.weights)
	}

	return out
}

// columns transposes the particle fields into one slice per field.
func (f *Filter[S, C, M]) columns() [][]float64 {
	var cols [][]float64
	for i, s := range f.particles {
		fields := f.model.Fields(s)
		if i == 0 {
			cols = make([][]float64, len(fields))
			for k := range cols {
				cols[k] = make([]float64, len(f.particles))
			}
		}
		for k := range cols {
			if k < len(fields) {
				cols[k][i] = fields[k]
			}
		}
	}

	return cols
}

func (f *Filter[S, C, M]) uniform() {
	w := 1 / float64(len(f.weights))
	for i := range f.weights {
		f.weights[i] = w
	}
}
