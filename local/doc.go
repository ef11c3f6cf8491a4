// Package local provides local-search metaheuristics over problem.Local:
// steepest-ascent hill climbing (optionally with random restarts), simulated
// annealing and local beam search.
//
// All algorithms honour Local.Maximize and report the best state observed,
// which for simulated annealing may differ from the state the walk ended on.
//
// Randomness:
//   - Every stochastic choice draws from Options.Rand (nil ⇒ the fixed
//     default stream of internal/rng), so runs are reproducible.
//   - HillClimbRestarts derives one child stream per restart.
//
// Options:
//   - WithMaxIterations(n)  moves/iterations cap (default 10 000).
//   - WithTemperature(T0)   starting temperature for annealing (default 100).
//   - WithCoolingRate(a)    geometric factor in (0,1) (default 0.995).
//   - WithMinTemp(Tmin)     annealing stops once T < Tmin (default 1e-3).
//   - WithRand(r)           random source.
//
// Errors: problem.ErrNoObjective, problem.ErrNoNeighbors,
// problem.ErrNoRandomState, ErrBadTemperature, ErrBadCoolingRate,
// ErrBadIterations, ErrBadCount.
package local
