package cnc_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/lvsolve/cnc"
	"github.com/katalvlaran/lvsolve/internal/rng"
	"github.com/katalvlaran/lvsolve/motion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func distinctTools(ops []cnc.Operation) int {
	seen := map[string]bool{}
	for _, op := range ops {
		seen[op.Tool] = true
	}
	return len(seen)
}

// requireValidOrder checks that order is a permutation of ops in which
// operations sharing a tool keep their input order.
func requireValidOrder(t *testing.T, ops, order []cnc.Operation) {
	t.Helper()
	require.Len(t, order, len(ops))
	pos := map[string]int{}
	for i, op := range order {
		_, dup := pos[op.ID]
		require.False(t, dup, "operation %s repeated", op.ID)
		pos[op.ID] = i
	}
	for i := range ops {
		for j := i + 1; j < len(ops); j++ {
			if ops[i].Tool == ops[j].Tool {
				require.Less(t, pos[ops[i].ID], pos[ops[j].ID])
			}
		}
	}
}

// ------------------------------------------------------------------------
// 1. Tool changes
// ------------------------------------------------------------------------

func TestOptimizeToolChanges_GroupsTools(t *testing.T) {
	ops := []cnc.Operation{
		{ID: "face", Tool: "T1"},
		{ID: "drill-a", Tool: "T2"},
		{ID: "pocket", Tool: "T1"},
		{ID: "drill-b", Tool: "T2"},
		{ID: "chamfer", Tool: "T3"},
	}

	plan, err := cnc.OptimizeToolChanges(ops)
	require.NoError(t, err)
	assert.True(t, plan.Searched)
	assert.Equal(t, 3, plan.ToolChanges)
	requireValidOrder(t, ops, plan.Order)
	assert.Positive(t, plan.NodesExpanded)
}

func TestOptimizeToolChanges_RandomInstancesReachToolCount(t *testing.T) {
	r := rand.New(rand.NewPCG(17, 3))
	tools := []string{"T1", "T2", "T3", "T4"}

	for trial := 0; trial < 15; trial++ {
		n := 1 + r.IntN(9)
		ops := make([]cnc.Operation, n)
		for i := range ops {
			ops[i] = cnc.Operation{ID: fmt.Sprintf("op%d", i), Tool: tools[r.IntN(len(tools))]}
		}

		plan, err := cnc.OptimizeToolChanges(ops)
		require.NoError(t, err)
		require.True(t, plan.Searched)
		requireValidOrder(t, ops, plan.Order)
		assert.Equal(t, distinctTools(ops), plan.ToolChanges, "trial=%d", trial)
	}
}

func TestOptimizeToolChanges_EdgeCases(t *testing.T) {
	plan, err := cnc.OptimizeToolChanges(nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Order)
	assert.Zero(t, plan.ToolChanges)

	same := []cnc.Operation{{ID: "a", Tool: "T"}, {ID: "b", Tool: "T"}, {ID: "c", Tool: "T"}}
	plan, err = cnc.OptimizeToolChanges(same)
	require.NoError(t, err)
	assert.Equal(t, same, plan.Order)
	assert.Equal(t, 1, plan.ToolChanges)

	_, err = cnc.OptimizeToolChanges([]cnc.Operation{{ID: "x"}})
	require.ErrorIs(t, err, cnc.ErrNoTool)

	many := make([]cnc.Operation, cnc.MaxOperations+1)
	for i := range many {
		many[i] = cnc.Operation{ID: fmt.Sprint(i), Tool: "T"}
	}
	_, err = cnc.OptimizeToolChanges(many)
	require.ErrorIs(t, err, cnc.ErrTooManyOperations)

	_, err = cnc.OptimizeToolChanges(same, cnc.WithMaxNodes(-1))
	require.ErrorIs(t, err, cnc.ErrBadOption)
}

func TestOptimizeToolChanges_NodeCapFallsBackToGrouping(t *testing.T) {
	ops := []cnc.Operation{
		{ID: "a", Tool: "T2"},
		{ID: "b", Tool: "T1"},
		{ID: "c", Tool: "T2"},
		{ID: "d", Tool: "T1"},
	}
	var buf bytes.Buffer

	plan, err := cnc.OptimizeToolChanges(ops, cnc.WithMaxNodes(1), cnc.WithLogger(debugLogger(&buf)))
	require.NoError(t, err)
	assert.False(t, plan.Searched)
	assert.Equal(t, 1, plan.NodesExpanded)
	assert.Equal(t, []string{"a", "c", "b", "d"}, []string{plan.Order[0].ID, plan.Order[1].ID, plan.Order[2].ID, plan.Order[3].ID})
	assert.Equal(t, 2, plan.ToolChanges)
	assert.Contains(t, buf.String(), "tool-change search exhausted")
}

// ------------------------------------------------------------------------
// 2. Setups
// ------------------------------------------------------------------------

var machine = []cnc.Direction{"+Z", "-Z", "+X"}

func TestPlanSetups_RespectsRelations(t *testing.T) {
	features := []cnc.Feature{
		{ID: "f1", Allowed: []cnc.Direction{"+Z", "-Z"}},
		{ID: "f2", Allowed: []cnc.Direction{"+Z"}},
		{ID: "f3", Allowed: []cnc.Direction{"-Z", "+X"}},
		{ID: "f4", RelatedTo: []string{"f1"}},
		{ID: "f5", Allowed: []cnc.Direction{"+X"}, RelatedTo: []string{"f3"}},
	}

	plan, err := cnc.PlanSetups(features, machine)
	require.NoError(t, err)
	require.True(t, plan.Feasible)

	a := plan.Assignment
	assert.Equal(t, cnc.Direction("+Z"), a["f2"])
	assert.Equal(t, cnc.Direction("+X"), a["f3"])
	assert.Equal(t, cnc.Direction("+X"), a["f5"])
	assert.Equal(t, a["f1"], a["f4"])
	assert.Contains(t, []cnc.Direction{"+Z", "-Z"}, a["f1"])

	var total int
	prev := -1
	for _, s := range plan.Setups {
		total += len(s.Features)
		idx := -1
		for i, d := range machine {
			if d == s.Direction {
				idx = i
			}
		}
		require.Greater(t, idx, prev, "setups follow machine order")
		prev = idx
		for _, id := range s.Features {
			assert.Equal(t, s.Direction, a[id])
		}
	}
	assert.Equal(t, len(features), total)
}

func TestPlanSetups_Infeasible(t *testing.T) {
	var buf bytes.Buffer
	conflict := []cnc.Feature{
		{ID: "top", Allowed: []cnc.Direction{"+Z"}, RelatedTo: []string{"bottom"}},
		{ID: "bottom", Allowed: []cnc.Direction{"-Z"}},
	}
	plan, err := cnc.PlanSetups(conflict, machine, cnc.WithLogger(debugLogger(&buf)))
	require.NoError(t, err)
	assert.False(t, plan.Feasible)
	assert.Nil(t, plan.Setups)
	assert.Contains(t, buf.String(), "setup planning infeasible")

	unreachable := []cnc.Feature{{ID: "side", Allowed: []cnc.Direction{"+Y"}}}
	plan, err = cnc.PlanSetups(unreachable, machine)
	require.NoError(t, err)
	assert.False(t, plan.Feasible)
}

func TestPlanSetups_Validation(t *testing.T) {
	_, err := cnc.PlanSetups([]cnc.Feature{{ID: "a"}, {ID: "a"}}, machine)
	require.ErrorIs(t, err, cnc.ErrDuplicateFeature)

	_, err = cnc.PlanSetups([]cnc.Feature{{ID: "a", RelatedTo: []string{"ghost"}}}, machine)
	require.ErrorIs(t, err, cnc.ErrUnknownFeature)

	_, err = cnc.PlanSetups([]cnc.Feature{{ID: "a"}}, nil)
	require.ErrorIs(t, err, cnc.ErrNoDirections)
}

// ------------------------------------------------------------------------
// 3. Rapids
// ------------------------------------------------------------------------

var block = motion.Box{Min: r3.Vec{}, Max: r3.Vec{X: 10, Y: 10, Z: 5}}

func v(x, y, z float64) r3.Vec { return r3.Vec{X: x, Y: y, Z: z} }

func TestOptimizeRapids_Straight(t *testing.T) {
	plan, err := cnc.OptimizeRapids([]r3.Vec{v(-5, -5, 10), v(15, -5, 10)}, block)
	require.NoError(t, err)
	require.Len(t, plan.Segments, 1)
	assert.Equal(t, cnc.Straight, plan.Segments[0].Strategy)
	assert.InDelta(t, 20.0, plan.TotalDistance, 1e-9)
	assert.Equal(t, map[cnc.Strategy]int{cnc.Straight: 1}, plan.Breakdown)
}

func TestOptimizeRapids_PotentialFieldAroundCorner(t *testing.T) {
	a, b := v(-3, -3, 3), v(13, 2, 3)
	plan, err := cnc.OptimizeRapids([]r3.Vec{a, b}, block)
	require.NoError(t, err)
	seg := plan.Segments[0]
	require.Equal(t, cnc.PotentialField, seg.Strategy)
	assert.Equal(t, a, seg.Path[0])
	assert.Equal(t, b, seg.Path[len(seg.Path)-1])

	keepOut := block.Inflate(cnc.DefaultClearance)
	for _, p := range seg.Path {
		assert.False(t, keepOut.Contains(p))
	}
}

func TestOptimizeRapids_RetractWhenFieldStalls(t *testing.T) {
	var buf bytes.Buffer
	a, b := v(-5, 5, 3), v(15, 5, 3)

	plan, err := cnc.OptimizeRapids([]r3.Vec{a, b}, block, cnc.WithLogger(debugLogger(&buf)))
	require.NoError(t, err)
	seg := plan.Segments[0]
	require.Equal(t, cnc.Retract, seg.Strategy)
	// Safe height = top 5 + clearance 1 + margin 5.
	assert.Equal(t, []r3.Vec{a, v(-5, 5, 11), v(15, 5, 11), b}, seg.Path)
	assert.InDelta(t, 36.0, seg.Length, 1e-9)
	assert.Contains(t, buf.String(), "potential field fallback failed")
}

func TestOptimizeRapids_RoadmapFallback(t *testing.T) {
	keepOut := block.Inflate(cnc.DefaultClearance)
	rm, err := motion.NewRoadmap(motion.RoadmapConfig{
		Samples:          400,
		ConnectionRadius: 3,
		Resolution:       0.25,
		Lower:            v(-8, -8, 3),
		Upper:            v(18, 18, 3),
		Obstacles:        []motion.Obstacle{keepOut},
		Rand:             rng.New(21),
	})
	require.NoError(t, err)

	a, b := v(-5, 5, 3), v(15, 5, 3)
	plan, err := cnc.OptimizeRapids([]r3.Vec{a, b}, block, cnc.WithRoadmap(rm))
	require.NoError(t, err)
	seg := plan.Segments[0]
	require.Equal(t, cnc.Roadmap, seg.Strategy)
	assert.Equal(t, a, seg.Path[0])
	assert.Equal(t, b, seg.Path[len(seg.Path)-1])
	// The shortest way around the inflated block is about 26.4.
	assert.Greater(t, seg.Length, 26.0)
}

func TestOptimizeRapids_BreakdownAndTotals(t *testing.T) {
	points := []r3.Vec{v(-5, -5, 10), v(15, -5, 10), v(-5, 5, 3), v(15, 5, 3)}

	plan, err := cnc.OptimizeRapids(points, block)
	require.NoError(t, err)
	require.Len(t, plan.Segments, 3)

	var sum float64
	var count int
	for _, s := range plan.Segments {
		sum += s.Length
	}
	for _, n := range plan.Breakdown {
		count += n
	}
	assert.InDelta(t, sum, plan.TotalDistance, 1e-9)
	assert.Equal(t, 3, count)
	assert.Equal(t, cnc.Straight, plan.Segments[0].Strategy)
	assert.Equal(t, cnc.Retract, plan.Segments[2].Strategy)
}

func TestOptimizeRapids_Validation(t *testing.T) {
	plan, err := cnc.OptimizeRapids([]r3.Vec{v(0, 0, 20)}, block)
	require.NoError(t, err)
	assert.Empty(t, plan.Segments)

	_, err = cnc.OptimizeRapids(nil, motion.Box{Min: v(1, 0, 0), Max: v(0, 1, 1)})
	require.ErrorIs(t, err, cnc.ErrBadWorkpiece)

	_, err = cnc.OptimizeRapids(nil, block, cnc.WithSafeHeight(5))
	require.ErrorIs(t, err, cnc.ErrUnsafeHeight)

	_, err = cnc.OptimizeRapids(nil, block, cnc.WithResolution(0))
	require.ErrorIs(t, err, cnc.ErrBadOption)

	_, err = cnc.OptimizeRapids(nil, block, cnc.WithClearance(-1))
	require.ErrorIs(t, err, cnc.ErrBadOption)
}
