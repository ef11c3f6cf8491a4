package local

import (
	"errors"
	"math"
	"math/rand/v2"
)

var (
	// ErrBadTemperature indicates a non-positive or non-finite temperature.
	ErrBadTemperature = errors.New("local: temperatures must be positive and finite")

	// ErrBadCoolingRate indicates a cooling factor outside (0, 1).
	ErrBadCoolingRate = errors.New("local: cooling rate must be in (0, 1)")

	// ErrBadIterations indicates MaxIterations < 1.
	ErrBadIterations = errors.New("local: max iterations must be at least 1")

	// ErrBadCount indicates a negative restart count or a beam width < 1.
	ErrBadCount = errors.New("local: invalid restart count or beam width")
)

// Defaults.
const (
	DefaultMaxIterations = 10_000
	DefaultTemperature   = 100.0
	DefaultCoolingRate   = 0.995
	DefaultMinTemp       = 1e-3
)

// Options configures the local-search algorithms.
type Options struct {
	MaxIterations int
	Temperature   float64
	CoolingRate   float64
	MinTemp       float64
	Rand          *rand.Rand
}

// Option mutates Options.
type Option func(*Options)

// WithMaxIterations caps moves (hill climbing, beam rounds) or annealing iterations.
func WithMaxIterations(n int) Option { return func(o *Options) { o.MaxIterations = n } }

// WithTemperature sets the initial annealing temperature.
func WithTemperature(t float64) Option { return func(o *Options) { o.Temperature = t } }

// WithCoolingRate sets the geometric cooling factor.
func WithCoolingRate(a float64) Option { return func(o *Options) { o.CoolingRate = a } }

// WithMinTemp sets the temperature floor that stops annealing.
func WithMinTemp(t float64) Option { return func(o *Options) { o.MinTemp = t } }

// WithRand injects the random source.
func WithRand(r *rand.Rand) Option { return func(o *Options) { o.Rand = r } }

// DefaultOptions returns the package defaults.
func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
		Temperature:   DefaultTemperature,
		CoolingRate:   DefaultCoolingRate,
		MinTemp:       DefaultMinTemp,
	}
}

func buildOptions(opts []Option) (Options, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxIterations < 1 {
		return cfg, ErrBadIterations
	}
	if !positiveFinite(cfg.Temperature) || !positiveFinite(cfg.MinTemp) {
		return cfg, ErrBadTemperature
	}
	if !(cfg.CoolingRate > 0 && cfg.CoolingRate < 1) {
		return cfg, ErrBadCoolingRate
	}

	return cfg, nil
}

func positiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}
