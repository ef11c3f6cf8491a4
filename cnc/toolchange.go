package cnc

import (
	"errors"
	"fmt"
	"log/slog"
	"math/bits"

	"github.com/katalvlaran/lvsolve/problem"
	"github.com/katalvlaran/lvsolve/search"
)

var (
	// ErrTooManyOperations indicates more operations than the 64-bit done set holds.
	ErrTooManyOperations = errors.New("cnc: at most 64 operations per tool-change plan")

	// ErrNoTool indicates an operation without a tool.
	ErrNoTool = errors.New("cnc: operation has no tool")
)

// MaxOperations bounds OptimizeToolChanges input.
const MaxOperations = 64

// Step costs: a tool change dominates; operations only break ties.
const (
	toolChangeCost = 1.0
	operationCost  = 1e-3
)

// Operation is one machining step and the tool it needs.
type Operation struct {
	ID   string
	Tool string
}

// ToolPlan is an operation order.
type ToolPlan struct {
	// Order lists every input operation once.
	Order []Operation

	// ToolChanges counts loads, including the first.
	ToolChanges int

	// Searched is false when the search hit its node cap and the plan fell
	// back to grouping by tool in first-use order.
	Searched bool

	NodesExpanded int
}

// toolState is both search state and key: the operations done so far and
// the tool in the spindle.
type toolState struct {
	done uint64
	tool string
}

// OptimizeToolChanges orders ops to minimize tool changes.
//
// Operations sharing a tool are interchangeable, so only the first undone
// operation of each tool is offered as a successor and same-tool operations
// keep their input order. The heuristic counts the distinct tools still
// needed, minus one when the loaded tool is among them.
func OptimizeToolChanges(ops []Operation, opts ...Option) (ToolPlan, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return ToolPlan{}, err
	}
	if len(ops) > MaxOperations {
		return ToolPlan{}, fmt.Errorf("%d operations: %w", len(ops), ErrTooManyOperations)
	}
	for i, op := range ops {
		if op.Tool == "" {
			return ToolPlan{}, fmt.Errorf("operation %d (%q): %w", i, op.ID, ErrNoTool)
		}
	}
	if len(ops) == 0 {
		return ToolPlan{Searched: true}, nil
	}

	// A 64-bit shift wraps to 0, so 64 operations give the all-ones mask.
	full := uint64(1)<<len(ops) - 1
	p := problem.Problem[toolState, toolState]{
		Initial: toolState{},
		IsGoal:  func(s toolState) bool { return s.done == full },
		Successors: func(s toolState) []problem.Successor[toolState] {
			var (
				out  []problem.Successor[toolState]
				seen = make(map[string]bool)
			)
			for i, op := range ops {
				if s.done&(1<<i) != 0 || seen[op.Tool] {
					continue
				}
				seen[op.Tool] = true
				cost := operationCost
				if op.Tool != s.tool {
					cost += toolChangeCost
				}
				out = append(out, problem.Successor[toolState]{
					State:  toolState{done: s.done | 1<<i, tool: op.Tool},
					Action: op.ID,
					Cost:   cost,
				})
			}
			return out
		},
		Heuristic: func(s toolState) float64 {
			var (
				tools  = make(map[string]bool)
				loaded bool
			)
			for i, op := range ops {
				if s.done&(1<<i) == 0 {
					tools[op.Tool] = true
					loaded = loaded || op.Tool == s.tool
				}
			}
			h := float64(len(tools))
			if loaded {
				h--
			}
			return h * toolChangeCost
		},
		Key: func(s toolState) toolState { return s },
	}

	res, err := search.WeightedAStar(p, search.WithWeight(1), search.WithMaxNodes(cfg.MaxNodes))
	if err != nil {
		return ToolPlan{}, err
	}
	if !res.Found {
		cfg.Logger.Debug("tool-change search exhausted, grouping by tool",
			slog.Int("operations", len(ops)),
			slog.Int("nodes_expanded", res.NodesExpanded),
			slog.String("reason", res.Reason.String()),
		)
		plan := groupByTool(ops)
		plan.NodesExpanded = res.NodesExpanded
		return plan, nil
	}

	plan := ToolPlan{Searched: true, NodesExpanded: res.NodesExpanded}
	for k := 1; k < len(res.Path); k++ {
		i := bits.TrailingZeros64(res.Path[k].done &^ res.Path[k-1].done)
		plan.Order = append(plan.Order, ops[i])
	}
	plan.ToolChanges = countChanges(plan.Order)
	cfg.Logger.Debug("tool-change plan",
		slog.Int("operations", len(ops)),
		slog.Int("tool_changes", plan.ToolChanges),
		slog.Int("nodes_expanded", res.NodesExpanded),
	)

	return plan, nil
}

// groupByTool emits every operation of a tool together, tools in order of
// first use.
func groupByTool(ops []Operation) ToolPlan {
	var (
		order  []string
		byTool = make(map[string][]Operation)
	)
	for _, op := range ops {
		if _, ok := byTool[op.Tool]; !ok {
			order = append(order, op.Tool)
		}
		byTool[op.Tool] = append(byTool[op.Tool], op)
	}

	var plan ToolPlan
	for _, t := range order {
		plan.Order = append(plan.Order, byTool[t]...)
	}
	plan.ToolChanges = countChanges(plan.Order)

	return plan
}

// countChanges counts tool loads along order, the first load included.
func countChanges(order []Operation) int {
	var (
		n    int
		tool string
	)
	for _, op := range order {
		if op.Tool != tool {
			n++
			tool = op.Tool
		}
	}

	return n
}
