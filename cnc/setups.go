package cnc

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/katalvlaran/lvsolve/csp"
)

var (
	// ErrDuplicateFeature indicates two features with the same ID.
	ErrDuplicateFeature = errors.New("cnc: duplicate feature id")

	// ErrUnknownFeature indicates a RelatedTo entry naming no feature.
	ErrUnknownFeature = errors.New("cnc: related feature not found")

	// ErrNoDirections indicates an empty machine direction list.
	ErrNoDirections = errors.New("cnc: machine offers no clamping directions")
)

// Direction is a clamping/approach direction such as "+Z" or "-X".
type Direction string

// Feature is a machinable feature and the directions it can be reached from.
type Feature struct {
	ID string

	// Allowed lists admissible directions; empty means any machine direction.
	Allowed []Direction

	// RelatedTo lists features that must share this feature's setup.
	RelatedTo []string
}

// Setup is one fixturing: a direction and the features machined in it.
type Setup struct {
	Direction Direction
	Features  []string
}

// SetupPlan is the result of PlanSetups.
type SetupPlan struct {
	// Feasible is false when no assignment satisfies every relation.
	Feasible bool

	// Setups are ordered as the machine directions; features keep input order.
	Setups []Setup

	Assignment map[string]Direction
	Steps      int
	Backtracks int
}

// PlanSetups assigns each feature a machine direction it allows so that
// related features share a direction.
//
// Each feature is a CSP variable over Allowed ∩ directions (in machine
// order); every RelatedTo pair becomes an equality constraint; forward
// checking solves it.
func PlanSetups(features []Feature, directions []Direction, opts ...Option) (SetupPlan, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return SetupPlan{}, err
	}
	if len(directions) == 0 {
		return SetupPlan{}, ErrNoDirections
	}
	var uniq []Direction
	for _, d := range directions {
		if !slices.Contains(uniq, d) {
			uniq = append(uniq, d)
		}
	}
	directions = uniq

	// 1) Variables and domains.
	p := csp.Problem[string, Direction]{Domains: make(map[string][]Direction, len(features))}
	for _, f := range features {
		if _, dup := p.Domains[f.ID]; dup {
			return SetupPlan{}, fmt.Errorf("%q: %w", f.ID, ErrDuplicateFeature)
		}
		p.Variables = append(p.Variables, f.ID)
		dom := make([]Direction, 0, len(directions))
		for _, d := range directions {
			if len(f.Allowed) == 0 || slices.Contains(f.Allowed, d) {
				dom = append(dom, d)
			}
		}
		p.Domains[f.ID] = dom
	}

	// 2) One equality per unordered related pair.
	type pair struct{ a, b string }
	linked := make(map[pair]bool)
	for _, f := range features {
		for _, other := range f.RelatedTo {
			if _, ok := p.Domains[other]; !ok {
				return SetupPlan{}, fmt.Errorf("%q related to %q: %w", f.ID, other, ErrUnknownFeature)
			}
			if other == f.ID || linked[pair{f.ID, other}] || linked[pair{other, f.ID}] {
				continue
			}
			linked[pair{f.ID, other}] = true
			p.Constraints = append(p.Constraints, csp.Equal[string, Direction](f.ID, other))
		}
	}

	// 3) Solve and group.
	res, err := csp.ForwardChecking(p)
	if err != nil {
		return SetupPlan{}, err
	}
	plan := SetupPlan{Feasible: res.Solved, Steps: res.Steps, Backtracks: res.Backtracks}
	if !res.Solved {
		cfg.Logger.Debug("setup planning infeasible",
			slog.Int("features", len(features)),
			slog.Int("relations", len(p.Constraints)),
			slog.Int("backtracks", res.Backtracks),
		)
		return plan, nil
	}

	plan.Assignment = res.Assignment
	for _, d := range directions {
		var ids []string
		for _, f := range features {
			if res.Assignment[f.ID] == d {
				ids = append(ids, f.ID)
			}
		}
		if len(ids) > 0 {
			plan.Setups = append(plan.Setups, Setup{Direction: d, Features: ids})
		}
	}
	cfg.Logger.Debug("setup plan",
		slog.Int("features", len(features)),
		slog.Int("setups", len(plan.Setups)),
	)

	return plan, nil
}
