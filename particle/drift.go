package particle

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/lvsolve/internal/rng"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrBadNoise indicates a negative spread or noise, or a non-positive
// measurement noise.
var ErrBadNoise = errors.New("particle: noise parameters must be non-negative (measurement noise positive)")

// Drift is the state of a slowly drifting scalar: its current value and
// rate of change per unit time.
type Drift struct {
	Value float64
	Rate  float64
}

// DriftConfig parameterizes a DriftTracker.
type DriftConfig struct {
	Particles         int
	ResampleThreshold float64

	// Prior: Value ~ N(InitialValue, InitialSpread), Rate ~ N(0, InitialRateSpread).
	InitialValue      float64
	InitialSpread     float64
	InitialRateSpread float64

	// Process noise per sqrt(unit time) on value and rate.
	ProcessNoise float64
	RateNoise    float64

	// MeasurementNoise is the standard deviation of a reading around Value.
	MeasurementNoise float64

	Rand *rand.Rand
}

// DefaultDriftConfig returns a tracker configuration for readings in the
// unit range with modest noise.
func DefaultDriftConfig() DriftConfig {
	return DriftConfig{
		Particles:         DefaultParticles,
		ResampleThreshold: DefaultResampleThreshold,
		InitialSpread:     1,
		InitialRateSpread: 0.1,
		ProcessNoise:      0.01,
		RateNoise:         0.001,
		MeasurementNoise:  0.1,
	}
}

// DriftTracker estimates a drifting scalar from noisy readings.
// Controls are elapsed time; measurements are readings of Value.
type DriftTracker struct {
	filter *Filter[Drift, float64, float64]
}

// NewDriftTracker builds a tracker from cfg.
func NewDriftTracker(cfg DriftConfig) (*DriftTracker, error) {
	for _, x := range []float64{cfg.InitialSpread, cfg.InitialRateSpread, cfg.ProcessNoise, cfg.RateNoise} {
		if !(x >= 0) || math.IsInf(x, 1) {
			return nil, ErrBadNoise
		}
	}
	if !(cfg.MeasurementNoise > 0) || math.IsInf(cfg.MeasurementNoise, 1) {
		return nil, ErrBadNoise
	}

	r := rng.Or(cfg.Rand)
	model := Model[Drift, float64, float64]{
		Motion: func(s Drift, dt float64, r *rand.Rand) Drift {
			if dt <= 0 {
				return s
			}
			sq := math.Sqrt(dt)
			s.Value += s.Rate*dt + distuv.Normal{Sigma: cfg.ProcessNoise * sq, Src: r}.Rand()
			s.Rate += distuv.Normal{Sigma: cfg.RateNoise * sq, Src: r}.Rand()
			return s
		},
		Likelihood: func(s Drift, reading float64) float64 {
			return distuv.Normal{Mu: s.Value, Sigma: cfg.MeasurementNoise}.Prob(reading)
		},
		Fields: func(s Drift) []float64 { return []float64{s.Value, s.Rate} },
	}
	prior := func(r *rand.Rand) Drift {
		return Drift{
			Value: distuv.Normal{Mu: cfg.InitialValue, Sigma: cfg.InitialSpread, Src: r}.Rand(),
			Rate:  distuv.Normal{Sigma: cfg.InitialRateSpread, Src: r}.Rand(),
		}
	}

	f, err := New(model, prior,
		WithParticles(cfg.Particles),
		WithResampleThreshold(cfg.ResampleThreshold),
		WithRand(r),
	)
	if err != nil {
		return nil, err
	}

	return &DriftTracker{filter: f}, nil
}

// Step advances the tracker by dt, applies the reading, and returns the new
// estimate.
func (t *DriftTracker) Step(dt, reading float64) Drift {
	t.filter.Predict(dt)
	t.filter.Update(reading)

	return t.Estimate()
}

// Estimate returns the weighted mean state.
func (t *DriftTracker) Estimate() Drift {
	e := t.filter.Estimate()
	return Drift{Value: e[0], Rate: e[1]}
}

// Uncertainty returns the weighted standard deviation of value and rate.
func (t *DriftTracker) Uncertainty() Drift {
	u := t.filter.Uncertainty()
	return Drift{Value: u[0], Rate: u[1]}
}

// Filter exposes the underlying particle filter.
func (t *DriftTracker) Filter() *Filter[Drift, float64, float64] { return t.filter }
