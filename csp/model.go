// Package csp solves finite-domain constraint satisfaction problems.
//
// A Problem lists ordered variables, a candidate domain per variable and
// constraints over subsets of variables. A constraint is evaluated only when
// every variable in its scope is bound, so partial assignments never violate
// a constraint that still has a free variable.
//
// Solvers:
//
//   - ForwardChecking: backtracking; after each binding, values of free
//     neighbors that would violate a now-decidable constraint are pruned.
//     A wiped-out domain fails the binding at once. Variables are chosen by
//     minimum remaining values (ties: most constraints, then declaration
//     order); values by least-constraining value. Domains are snapshot and
//     restored around each trial.
//   - Backjumping: conflict-directed backjumping over a static
//     MRV/degree order. A dead end returns its conflict set; levels absent
//     from that set are skipped and sets are merged upward.
//   - MinConflicts: local repair from a random total assignment. Each step
//     reassigns a random conflicted variable to the value with the fewest
//     violations, keeping the current value when it is among the best.
//     Incomplete: an unsolved result carries the best assignment seen and
//     its true conflict count.
//
// Helpers build common constraints: AllDifferent, Equal, NotEqual, Binary.
// Conflicts and Satisfied evaluate an assignment.
package csp

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNoDomain indicates a variable without a Domains entry.
	ErrNoDomain = errors.New("csp: variable has no domain")

	// ErrUnknownVariable indicates a constraint scope naming an undeclared variable.
	ErrUnknownVariable = errors.New("csp: constraint references unknown variable")

	// ErrNilCheck indicates a constraint without a predicate.
	ErrNilCheck = errors.New("csp: constraint check is nil")

	// ErrDuplicateVariable indicates a variable declared twice.
	ErrDuplicateVariable = errors.New("csp: duplicate variable")

	// ErrEmptyDomain indicates an empty domain where a total assignment is required.
	ErrEmptyDomain = errors.New("csp: empty domain")
)

// Constraint restricts the values of the variables in Scope.
// Check receives the values in Scope order.
type Constraint[V comparable, D any] struct {
	Name  string
	Scope []V
	Check func(values []D) bool
}

// Problem is a finite-domain CSP.
type Problem[V comparable, D any] struct {
	Variables   []V
	Domains     map[V][]D
	Constraints []Constraint[V, D]
}

// Result is the outcome of a CSP solver.
type Result[V comparable, D any] struct {
	// Solved reports whether Assignment is total and satisfies every constraint.
	Solved bool

	// Assignment binds variables to values; for an unsolved MinConflicts run
	// it is the best total assignment seen, otherwise nil when unsolved.
	Assignment map[V]D

	// Conflicts counts violated constraints in Assignment.
	Conflicts int

	// Steps counts value trials (systematic solvers) or repair steps.
	Steps int

	// Backtracks counts dead ends (every value of a variable failed).
	Backtracks int

	// Backjumps counts levels skipped by conflict-directed backjumping.
	Backjumps int
}

// Validate checks declarations and constraint scopes.
func (p Problem[V, D]) Validate() error {
	seen := make(map[V]bool, len(p.Variables))
	for _, v := range p.Variables {
		if seen[v] {
			return fmt.Errorf("%v: %w", v, ErrDuplicateVariable)
		}
		seen[v] = true
		if _, ok := p.Domains[v]; !ok {
			return fmt.Errorf("%v: %w", v, ErrNoDomain)
		}
	}
	for _, c := range p.Constraints {
		if c.Check == nil {
			return fmt.Errorf("constraint %q: %w", c.Name, ErrNilCheck)
		}
		for _, v := range c.Scope {
			if !seen[v] {
				return fmt.Errorf("constraint %q, variable %v: %w", c.Name, v, ErrUnknownVariable)
			}
		}
	}

	return nil
}

// Binary builds a two-variable constraint from a predicate.
func Binary[V comparable, D any](name string, a, b V, ok func(x, y D) bool) Constraint[V, D] {
	return Constraint[V, D]{
		Name:  name,
		Scope: []V{a, b},
		Check: func(vs []D) bool { return ok(vs[0], vs[1]) },
	}
}

// Equal requires a and b to take the same value.
func Equal[V, D comparable](a, b V) Constraint[V, D] {
	return Binary(fmt.Sprintf("%v == %v", a, b), a, b, func(x, y D) bool { return x == y })
}

// NotEqual requires a and b to differ.
func NotEqual[V, D comparable](a, b V) Constraint[V, D] {
	return Binary(fmt.Sprintf("%v != %v", a, b), a, b, func(x, y D) bool { return x != y })
}

// AllDifferent expands to pairwise NotEqual constraints, which forward
// checking can propagate as soon as any one of the pair is bound.
func AllDifferent[V, D comparable](vars ...V) []Constraint[V, D] {
	out := make([]Constraint[V, D], 0, len(vars)*(len(vars)-1)/2)
	for i := 0; i < len(vars); i++ {
		for j := i + 1; j < len(vars); j++ {
			out = append(out, NotEqual[V, D](vars[i], vars[j]))
		}
	}

	return out
}

// Conflicts counts constraints whose scope is fully bound in a and whose
// check fails.
func Conflicts[V comparable, D any](p Problem[V, D], a map[V]D) int {
	var n int
	for _, c := range p.Constraints {
		if bound, ok := eval(c, a); bound && !ok {
			n++
		}
	}

	return n
}

// Satisfied reports whether a assigns every variable and violates nothing.
func Satisfied[V comparable, D any](p Problem[V, D], a map[V]D) bool {
	for _, v := range p.Variables {
		if _, ok := a[v]; !ok {
			return false
		}
	}

	return Conflicts(p, a) == 0
}

// eval reports whether c is fully bound under a and, if so, whether it holds.
func eval[V comparable, D any](c Constraint[V, D], a map[V]D) (bound, ok bool) {
	vals := make([]D, len(c.Scope))
	for i, v := range c.Scope {
		x, has := a[v]
		if !has {
			return false, true
		}
		vals[i] = x
	}

	return true, c.Check(vals)
}

// index maps each variable to the constraints that mention it. Scope-less
// constraints are listed in ground.
type index[V comparable, D any] struct {
	p      Problem[V, D]
	byVar  map[V][]int
	ground []int
}

func newIndex[V comparable, D any](p Problem[V, D]) *index[V, D] {
	ix := &index[V, D]{p: p, byVar: make(map[V][]int, len(p.Variables))}
	for ci, c := range p.Constraints {
		if len(c.Scope) == 0 {
			ix.ground = append(ix.ground, ci)
		}
		for _, v := range c.Scope {
			if !slices.Contains(ix.byVar[v], ci) {
				ix.byVar[v] = append(ix.byVar[v], ci)
			}
		}
	}

	return ix
}

// groundConflicts counts scope-less constraints that fail. No binding can
// change their outcome, so systematic solvers check them once up front.
func (ix *index[V, D]) groundConflicts() int {
	var n int
	for _, ci := range ix.ground {
		if !ix.p.Constraints[ci].Check(nil) {
			n++
		}
	}

	return n
}

// violated returns the first decidable constraint on v broken by a, or -1.
func (ix *index[V, D]) violated(v V, a map[V]D) int {
	for _, ci := range ix.byVar[v] {
		if bound, ok := eval(ix.p.Constraints[ci], a); bound && !ok {
			return ci
		}
	}

	return -1
}

// conflictsOf counts decidable constraints on v broken by a.
func (ix *index[V, D]) conflictsOf(v V, a map[V]D) int {
	var n int
	for _, ci := range ix.byVar[v] {
		if bound, ok := eval(ix.p.Constraints[ci], a); bound && !ok {
			n++
		}
	}

	return n
}

// neighbors lists the variables sharing a constraint with v, in declaration order.
func (ix *index[V, D]) neighbors(v V) []V {
	var out []V
	for _, ci := range ix.byVar[v] {
		for _, u := range ix.p.Constraints[ci].Scope {
			if u != v && !slices.Contains(out, u) {
				out = append(out, u)
			}
		}
	}

	return out
}

func clone[V comparable, D any](a map[V]D) map[V]D {
	out := make(map[V]D, len(a))
	for k, v := range a {
		out[k] = v
	}

	return out
}
