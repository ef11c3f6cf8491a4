package local

import (
	"math"
	"slices"

	"github.com/katalvlaran/lvsolve/internal/rng"
	"github.com/katalvlaran/lvsolve/problem"
)

// Result is the outcome of a local search.
type Result[S any] struct {
	// State is the best state observed.
	State S

	// Value is Objective(State).
	Value float64

	// Iterations counts moves (hill climbing), proposals (annealing) or
	// rounds (beam), summed over restarts.
	Iterations int

	// Converged is true when the run stopped at a local optimum (or, for
	// annealing, at the temperature floor) rather than at MaxIterations.
	Converged bool
}

// HillClimb runs steepest-ascent hill climbing from p.Initial: every step
// evaluates the full neighborhood and moves to the single best neighbor if
// it strictly improves on the current value. Ties between neighbors keep the
// first one enumerated.
func HillClimb[S any](p problem.Local[S], opts ...Option) (Result[S], error) {
	if err := p.Validate(); err != nil {
		return Result[S]{}, err
	}
	if p.Neighbors == nil {
		return Result[S]{}, problem.ErrNoNeighbors
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return Result[S]{}, err
	}

	return climb(p, p.Initial, cfg.MaxIterations), nil
}

func climb[S any](p problem.Local[S], start S, maxMoves int) Result[S] {
	var (
		cur    = start
		curVal = p.Objective(start)
		moves  int
	)
	for moves < maxMoves {
		var (
			best    S
			bestVal = p.Worst()
			found   bool
		)
		for _, n := range p.Neighbors(cur) {
			v := p.Objective(n)
			if !found || p.Better(v, bestVal) {
				best, bestVal, found = n, v, true
			}
		}
		if !found || !p.Better(bestVal, curVal) {
			return Result[S]{State: cur, Value: curVal, Iterations: moves, Converged: true}
		}
		cur, curVal = best, bestVal
		moves++
	}

	return Result[S]{State: cur, Value: curVal, Iterations: moves}
}

// HillClimbRestarts runs HillClimb from p.Initial and then from restarts
// states drawn with p.RandomState, keeping the best local optimum.
// restarts == 0 is plain HillClimb. Converged reports the winner's flag.
func HillClimbRestarts[S any](p problem.Local[S], restarts int, opts ...Option) (Result[S], error) {
	if err := p.Validate(); err != nil {
		return Result[S]{}, err
	}
	if p.Neighbors == nil {
		return Result[S]{}, problem.ErrNoNeighbors
	}
	if restarts < 0 {
		return Result[S]{}, ErrBadCount
	}
	if restarts > 0 && p.RandomState == nil {
		return Result[S]{}, problem.ErrNoRandomState
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return Result[S]{}, err
	}

	var (
		base  = rng.Or(cfg.Rand)
		best  = climb(p, p.Initial, cfg.MaxIterations)
		total = best.Iterations
		i     int
	)
	for i = 0; i < restarts; i++ {
		start := p.RandomState(rng.Derive(base, uint64(i)))
		res := climb(p, start, cfg.MaxIterations)
		total += res.Iterations
		if p.Better(res.Value, best.Value) {
			best = res
		}
	}
	best.Iterations = total

	return best, nil
}

// SimulatedAnnealing walks from p.Initial, proposing one random neighbor per
// iteration. Improving proposals are always accepted; worsening ones with
// probability exp(-ΔE/T), where ΔE is the loss in the optimisation
// direction. T starts at Options.Temperature and is multiplied by
// Options.CoolingRate after every proposal; the run stops when T drops
// below Options.MinTemp or after Options.MaxIterations proposals.
//
// Proposals come from p.RandomNeighbor, or a uniform pick from p.Neighbors
// when RandomNeighbor is nil. An empty neighborhood ends the walk.
func SimulatedAnnealing[S any](p problem.Local[S], opts ...Option) (Result[S], error) {
	if err := p.Validate(); err != nil {
		return Result[S]{}, err
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return Result[S]{}, err
	}

	var (
		r       = rng.Or(cfg.Rand)
		cur     = p.Initial
		curVal  = p.Objective(cur)
		best    = cur
		bestVal = curVal
		temp    = cfg.Temperature
		iter    int
	)
	propose := func(s S) (S, bool) {
		if p.RandomNeighbor != nil {
			return p.RandomNeighbor(s, r), true
		}
		ns := p.Neighbors(s)
		if len(ns) == 0 {
			var zero S
			return zero, false
		}
		return ns[r.IntN(len(ns))], true
	}

	for iter = 0; iter < cfg.MaxIterations; iter++ {
		if temp < cfg.MinTemp {
			return Result[S]{State: best, Value: bestVal, Iterations: iter, Converged: true}, nil
		}
		next, ok := propose(cur)
		if !ok {
			return Result[S]{State: best, Value: bestVal, Iterations: iter, Converged: true}, nil
		}
		v := p.Objective(next)
		delta := v - curVal // loss when minimizing
		if p.Maximize {
			delta = -delta
		}
		if delta <= 0 || r.Float64() < math.Exp(-delta/temp) {
			cur, curVal = next, v
			if p.Better(curVal, bestVal) {
				best, bestVal = cur, curVal
			}
		}
		temp *= cfg.CoolingRate
	}

	return Result[S]{State: best, Value: bestVal, Iterations: iter}, nil
}

// LocalBeam keeps k states at once. The beam starts with p.Initial plus
// k-1 samples from p.RandomState (copies of Initial when it is nil). Each
// round pools the neighbors of every beam state and keeps the globally best
// k of them, so good regions crowd out poor ones. The run stops when the
// pool holds nothing strictly better than the best state so far.
func LocalBeam[S any](p problem.Local[S], k int, opts ...Option) (Result[S], error) {
	if err := p.Validate(); err != nil {
		return Result[S]{}, err
	}
	if p.Neighbors == nil {
		return Result[S]{}, problem.ErrNoNeighbors
	}
	if k < 1 {
		return Result[S]{}, ErrBadCount
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return Result[S]{}, err
	}

	type scored struct {
		s S
		v float64
	}
	cmp := func(a, b scored) int {
		switch {
		case p.Better(a.v, b.v):
			return -1
		case p.Better(b.v, a.v):
			return 1
		default:
			return 0
		}
	}

	// 1) Seed the beam.
	r := rng.Or(cfg.Rand)
	beam := make([]scored, 0, k)
	beam = append(beam, scored{p.Initial, p.Objective(p.Initial)})
	for len(beam) < k {
		s := p.Initial
		if p.RandomState != nil {
			s = p.RandomState(r)
		}
		beam = append(beam, scored{s, p.Objective(s)})
	}
	slices.SortStableFunc(beam, cmp)
	best := beam[0]

	// 2) Rounds.
	var round int
	for round = 0; round < cfg.MaxIterations; round++ {
		var pool []scored
		for _, b := range beam {
			for _, n := range p.Neighbors(b.s) {
				pool = append(pool, scored{n, p.Objective(n)})
			}
		}
		if len(pool) == 0 {
			break
		}
		slices.SortStableFunc(pool, cmp)
		if !p.Better(pool[0].v, best.v) {
			return Result[S]{State: best.s, Value: best.v, Iterations: round, Converged: true}, nil
		}
		best = pool[0]
		if len(pool) > k {
			pool = pool[:k]
		}
		beam = pool
	}

	return Result[S]{State: best.s, Value: best.v, Iterations: round, Converged: round < cfg.MaxIterations}, nil
}
