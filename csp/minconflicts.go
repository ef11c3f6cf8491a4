package csp

import (
	"errors"
	"math/rand/v2"

	"github.com/katalvlaran/lvsolve/internal/rng"
)

// ErrBadSteps indicates MaxSteps < 0.
var ErrBadSteps = errors.New("csp: max steps must be non-negative")

// DefaultMaxSteps caps MinConflicts repair steps.
const DefaultMaxSteps = 10_000

// Options configures MinConflicts.
type Options struct {
	MaxSteps int
	Rand     *rand.Rand
}

// Option mutates Options.
type Option func(*Options)

// WithMaxSteps caps repair steps.
func WithMaxSteps(n int) Option { return func(o *Options) { o.MaxSteps = n } }

// WithRand injects the random source; nil selects the default stream.
func WithRand(r *rand.Rand) Option { return func(o *Options) { o.Rand = r } }

// DefaultOptions returns the package defaults.
func DefaultOptions() Options {
	return Options{MaxSteps: DefaultMaxSteps}
}

// MinConflicts repairs a random total assignment.
//
// Each step picks a random variable involved in a violated constraint and
// moves it to the value with the fewest violations on that variable. The
// current value stays when it is among the minima; otherwise a random
// minimum is taken. The run stops at zero conflicts or after MaxSteps
// steps. An unsolved Result carries the best assignment seen and its true
// conflict count.
func MinConflicts[V comparable, D any](p Problem[V, D], opts ...Option) (Result[V, D], error) {
	if err := p.Validate(); err != nil {
		return Result[V, D]{}, err
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxSteps < 0 {
		return Result[V, D]{}, ErrBadSteps
	}
	for _, v := range p.Variables {
		if len(p.Domains[v]) == 0 {
			return Result[V, D]{}, ErrEmptyDomain
		}
	}

	// 1) Random total assignment; cur tracks each value's domain index.
	var (
		r         = rng.Or(cfg.Rand)
		ix        = newIndex(p)
		asg       = make(map[V]D, len(p.Variables))
		cur       = make(map[V]int, len(p.Variables))
		best      map[V]D
		bestCount = -1
		steps     int
	)
	for _, v := range p.Variables {
		k := r.IntN(len(p.Domains[v]))
		asg[v], cur[v] = p.Domains[v][k], k
	}

	// 2) Repair until consistent or out of steps.
	var (
		conflicted []V
		minima     []int
	)
	for ; ; steps++ {
		total := Conflicts(p, asg)
		if bestCount < 0 || total < bestCount {
			best, bestCount = clone(asg), total
		}
		if total == 0 || steps == cfg.MaxSteps {
			break
		}

		conflicted = conflicted[:0]
		for _, v := range p.Variables {
			if ix.conflictsOf(v, asg) > 0 {
				conflicted = append(conflicted, v)
			}
		}
		if len(conflicted) == 0 {
			// Only scope-less constraints are violated; no move can help.
			break
		}
		v := conflicted[r.IntN(len(conflicted))]

		minima = minima[:0]
		lowest, keep := -1, false
		for k, d := range p.Domains[v] {
			asg[v] = d
			n := ix.conflictsOf(v, asg)
			switch {
			case lowest < 0 || n < lowest:
				lowest, minima = n, append(minima[:0], k)
			case n == lowest:
				minima = append(minima, k)
			}
		}
		for _, k := range minima {
			if k == cur[v] {
				keep = true
				break
			}
		}
		if !keep {
			cur[v] = minima[r.IntN(len(minima))]
		}
		asg[v] = p.Domains[v][cur[v]]
	}

	return Result[V, D]{
		Solved:     bestCount == 0,
		Assignment: best,
		Conflicts:  bestCount,
		Steps:      steps,
	}, nil
}
