// Package search_test exercises every search algorithm on an open grid, on
// hand-built traps, and against graph.Dijkstra on random small graphs.
package search_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/lvsolve/graph"
	"github.com/katalvlaran/lvsolve/problem"
	"github.com/katalvlaran/lvsolve/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------------------------------------------------------------------
// Fixtures
// ------------------------------------------------------------------------

type pt struct{ X, Y int }

func manhattan(a, b pt) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Y-b.Y))
}

// gridProblem is the (size×size) 4-connected grid with unit moves.
func gridProblem(size int, start, goal pt) problem.Problem[pt, pt] {
	moves := []struct {
		dx, dy int
		name   string
	}{{1, 0, "E"}, {0, 1, "N"}, {-1, 0, "W"}, {0, -1, "S"}}

	return problem.Problem[pt, pt]{
		Initial: start,
		IsGoal:  func(s pt) bool { return s == goal },
		Successors: func(s pt) []problem.Successor[pt] {
			var out []problem.Successor[pt]
			for _, m := range moves {
				n := pt{s.X + m.dx, s.Y + m.dy}
				if n.X < 0 || n.Y < 0 || n.X >= size || n.Y >= size {
					continue
				}
				out = append(out, problem.Successor[pt]{State: n, Action: m.name, Cost: 1})
			}
			return out
		},
		Heuristic: func(s pt) float64 { return manhattan(s, goal) },
		Key:       func(s pt) pt { return s },
	}
}

// requireGridPath checks that consecutive states differ by one unit move and
// that the reported cost equals the number of moves.
func requireGridPath(t *testing.T, res problem.Result[pt], start, goal pt) {
	t.Helper()
	require.True(t, res.Found)
	require.Equal(t, problem.Solved, res.Reason)
	require.Equal(t, start, res.Path[0])
	require.Equal(t, goal, res.Path[len(res.Path)-1])
	require.Len(t, res.Actions, len(res.Path)-1)
	for i := 1; i < len(res.Path); i++ {
		require.Equal(t, 1.0, manhattan(res.Path[i-1], res.Path[i]), "step %d", i)
	}
	require.Equal(t, float64(len(res.Path)-1), res.Cost)
}

// graphProblem wraps an explicit graph as a search problem.
func graphProblem(g *graph.Graph[int], start, goal int) problem.Problem[int, int] {
	return problem.Problem[int, int]{
		Initial: start,
		IsGoal:  func(s int) bool { return s == goal },
		Successors: func(s int) []problem.Successor[int] {
			es, _ := g.Neighbors(s)
			out := make([]problem.Successor[int], 0, len(es))
			for _, e := range es {
				out = append(out, problem.Successor[int]{State: e.To, Action: fmt.Sprintf("%d>%d", s, e.To), Cost: e.Weight})
			}
			return out
		},
		Heuristic: func(int) float64 { return 0 },
		Key:       func(s int) int { return s },
	}
}

func randomGraph(r *rand.Rand, n int, density float64, unit bool) *graph.Graph[int] {
	g := graph.NewGraph[int](graph.WithDirected())
	for i := 0; i < n; i++ {
		g.AddVertex(i)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || r.Float64() > density {
				continue
			}
			w := 1.0
			if !unit {
				w = float64(1 + r.IntN(9))
			}
			_ = g.AddEdge(i, j, w)
		}
	}
	return g
}

// ------------------------------------------------------------------------
// 1. Validation
// ------------------------------------------------------------------------

func TestValidation(t *testing.T) {
	p := gridProblem(3, pt{}, pt{2, 2})

	noSucc := p
	noSucc.Successors = nil
	_, err := search.UniformCost(noSucc)
	require.ErrorIs(t, err, problem.ErrNoSuccessors)

	noGoal := p
	noGoal.IsGoal = nil
	_, err = search.DepthLimited(noGoal, 3)
	require.ErrorIs(t, err, problem.ErrNoGoal)

	noKey := p
	noKey.Key = nil
	_, err = search.Bidirectional(noKey, pt{2, 2})
	require.ErrorIs(t, err, problem.ErrNoKey)

	noH := p
	noH.Heuristic = nil
	for name, run := range map[string]func(problem.Problem[pt, pt]) error{
		"best-first": func(q problem.Problem[pt, pt]) error { _, e := search.BestFirst(q); return e },
		"beam":       func(q problem.Problem[pt, pt]) error { _, e := search.Beam(q); return e },
		"astar":      func(q problem.Problem[pt, pt]) error { _, e := search.WeightedAStar(q); return e },
		"idastar":    func(q problem.Problem[pt, pt]) error { _, e := search.IDAStar(q); return e },
	} {
		require.ErrorIs(t, run(noH), problem.ErrNoHeuristic, name)
	}
}

func TestBadOptions(t *testing.T) {
	p := gridProblem(3, pt{}, pt{2, 2})

	_, err := search.WeightedAStar(p, search.WithWeight(-1))
	require.ErrorIs(t, err, search.ErrBadWeight)
	_, err = search.WeightedAStar(p, search.WithWeight(math.NaN()))
	require.ErrorIs(t, err, search.ErrBadWeight)
	_, err = search.Beam(p, search.WithBeamWidth(0))
	require.ErrorIs(t, err, search.ErrBadBeamWidth)
	_, err = search.UniformCost(p, search.WithMaxNodes(-1))
	require.ErrorIs(t, err, search.ErrBadLimit)
	_, err = search.DepthLimited(p, -1)
	require.ErrorIs(t, err, search.ErrBadLimit)
}

// ------------------------------------------------------------------------
// 2. Open 11×11 grid, start (0,0), goal (5,5)
// ------------------------------------------------------------------------

func TestGrid_AllAlgorithms(t *testing.T) {
	start, goal := pt{0, 0}, pt{5, 5}
	p := gridProblem(11, start, goal)

	ucs, err := search.UniformCost(p)
	require.NoError(t, err)
	requireGridPath(t, ucs, start, goal)
	assert.Equal(t, 10.0, ucs.Cost)

	astar, err := search.WeightedAStar(p)
	require.NoError(t, err)
	requireGridPath(t, astar, start, goal)
	assert.Equal(t, 10.0, astar.Cost)

	bf, err := search.BestFirst(p)
	require.NoError(t, err)
	requireGridPath(t, bf, start, goal)
	assert.GreaterOrEqual(t, bf.Cost, 10.0)

	ida, err := search.IDAStar(p)
	require.NoError(t, err)
	requireGridPath(t, ida, start, goal)
	assert.Equal(t, 10.0, ida.Cost)

	beam, err := search.Beam(p, search.WithBeamWidth(2))
	require.NoError(t, err)
	requireGridPath(t, beam, start, goal)
	assert.GreaterOrEqual(t, beam.Cost, 10.0)

	bi, err := search.Bidirectional(p, goal)
	require.NoError(t, err)
	requireGridPath(t, bi, start, goal)
	assert.GreaterOrEqual(t, bi.Cost, 10.0)

	// A* with a consistent heuristic never expands more than UCS.
	assert.LessOrEqual(t, astar.NodesExpanded, ucs.NodesExpanded)
}

func TestGrid_IterativeDeepeningSmall(t *testing.T) {
	start, goal := pt{0, 0}, pt{2, 1}
	p := gridProblem(4, start, goal)

	res, err := search.IterativeDeepening(p)
	require.NoError(t, err)
	requireGridPath(t, res, start, goal)
	assert.Equal(t, 3.0, res.Cost)
}

func TestWeightedAStar_WeightSensitivity(t *testing.T) {
	start, goal := pt{0, 0}, pt{5, 5}
	p := gridProblem(11, start, goal)

	a1, err := search.WeightedAStar(p, search.WithWeight(1))
	require.NoError(t, err)
	a2, err := search.WeightedAStar(p, search.WithWeight(2))
	require.NoError(t, err)

	requireGridPath(t, a2, start, goal)
	assert.GreaterOrEqual(t, a2.Cost, a1.Cost)
	assert.LessOrEqual(t, a2.Cost, 2*a1.Cost)
	assert.LessOrEqual(t, a2.NodesExpanded, a1.NodesExpanded)
}

func TestStartIsGoal(t *testing.T) {
	p := gridProblem(3, pt{1, 1}, pt{1, 1})

	for name, run := range map[string]func() (problem.Result[pt], error){
		"ucs":   func() (problem.Result[pt], error) { return search.UniformCost(p) },
		"astar": func() (problem.Result[pt], error) { return search.WeightedAStar(p) },
		"bf":    func() (problem.Result[pt], error) { return search.BestFirst(p) },
		"beam":  func() (problem.Result[pt], error) { return search.Beam(p) },
		"ida":   func() (problem.Result[pt], error) { return search.IDAStar(p) },
		"iddfs": func() (problem.Result[pt], error) { return search.IterativeDeepening(p) },
		"bi":    func() (problem.Result[pt], error) { return search.Bidirectional(p, pt{1, 1}) },
	} {
		res, err := run()
		require.NoError(t, err, name)
		require.True(t, res.Found, name)
		assert.Equal(t, []pt{{1, 1}}, res.Path, name)
		assert.Empty(t, res.Actions, name)
		assert.Equal(t, 0.0, res.Cost, name)
	}
}

// ------------------------------------------------------------------------
// 3. Limits and failure reasons
// ------------------------------------------------------------------------

func TestNodeLimit(t *testing.T) {
	p := gridProblem(11, pt{0, 0}, pt{10, 10})

	res, err := search.UniformCost(p, search.WithMaxNodes(3))
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, problem.NodeLimit, res.Reason)
	assert.Equal(t, 3, res.NodesExpanded)
	assert.Nil(t, res.Path)
}

func TestUnreachableGoal(t *testing.T) {
	// Goal lies outside the grid.
	p := gridProblem(3, pt{0, 0}, pt{7, 7})

	ucs, err := search.UniformCost(p)
	require.NoError(t, err)
	assert.False(t, ucs.Found)
	assert.Equal(t, problem.Exhausted, ucs.Reason)
	assert.Equal(t, 9, ucs.NodesExpanded)

	astar, err := search.WeightedAStar(p)
	require.NoError(t, err)
	assert.Equal(t, problem.Exhausted, astar.Reason)

	bf, err := search.BestFirst(p)
	require.NoError(t, err)
	assert.Equal(t, problem.Exhausted, bf.Reason)
}

func TestIDAStar_IterationLimit(t *testing.T) {
	p := gridProblem(5, pt{0, 0}, pt{4, 4})
	p.Heuristic = func(pt) float64 { return 0 }

	res, err := search.IDAStar(p, search.WithMaxIterations(1))
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, problem.IterationLimit, res.Reason)
	assert.Equal(t, 1, res.NodesExpanded)
}

// chain builds 0→1→…→n-1 with unit costs.
func chain(n int) *graph.Graph[int] {
	g := graph.NewGraph[int](graph.WithDirected())
	for i := 0; i+1 < n; i++ {
		_ = g.AddEdge(i, i+1, 1)
	}
	return g
}

func TestDepthLimited(t *testing.T) {
	p := graphProblem(chain(4), 0, 3)

	res, err := search.DepthLimited(p, 2)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, problem.DepthLimit, res.Reason)

	res, err = search.DepthLimited(p, 3)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []int{0, 1, 2, 3}, res.Path)
	assert.Equal(t, []string{"0>1", "1>2", "2>3"}, res.Actions)

	// Goal absent from a short chain: the whole tree fits under the limit.
	q := graphProblem(chain(3), 0, 9)
	res, err = search.DepthLimited(q, 5)
	require.NoError(t, err)
	assert.Equal(t, problem.Exhausted, res.Reason)

	res, err = search.IterativeDeepening(q)
	require.NoError(t, err)
	assert.Equal(t, problem.Exhausted, res.Reason)
}

func TestIterativeDeepening_MaxDepth(t *testing.T) {
	p := graphProblem(chain(10), 0, 9)

	res, err := search.IterativeDeepening(p, search.WithMaxDepth(4))
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, problem.DepthLimit, res.Reason)

	res, err = search.IterativeDeepening(p)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, 9.0, res.Cost)
}

// ------------------------------------------------------------------------
// 4. Beam incompleteness and bidirectional stitching
// ------------------------------------------------------------------------

func TestBeam_DiscardsOnlyRoute(t *testing.T) {
	// S(0)→A(1)→dead end, S(0)→B(2)→G(3). h(A)=1 lures a width-1 beam.
	g := graph.NewGraph[int](graph.WithDirected())
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(0, 2, 1))
	require.NoError(t, g.AddEdge(2, 3, 1))
	p := graphProblem(g, 0, 3)
	hs := map[int]float64{0: 2, 1: 1, 2: 5, 3: 0}
	p.Heuristic = func(s int) float64 { return hs[s] }

	res, err := search.Beam(p, search.WithBeamWidth(1))
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, problem.Exhausted, res.Reason)

	res, err = search.Beam(p, search.WithBeamWidth(2))
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []int{0, 2, 3}, res.Path)

	res, err = search.Beam(p, search.WithBeamWidth(2), search.WithMaxDepth(1))
	require.NoError(t, err)
	assert.Equal(t, problem.IterationLimit, res.Reason)
}

func TestBidirectional_UsesPredecessors(t *testing.T) {
	g := chain(6)
	p := graphProblem(g, 0, 5)
	p.Predecessors = func(s int) []problem.Successor[int] {
		if s == 0 {
			return nil
		}
		return []problem.Successor[int]{{State: s - 1, Action: fmt.Sprintf("%d>%d", s-1, s), Cost: 1}}
	}

	res, err := search.Bidirectional(p, 5)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, res.Path)
	assert.Equal(t, []string{"0>1", "1>2", "2>3", "3>4", "4>5"}, res.Actions)
	assert.Equal(t, 5.0, res.Cost)

	// Without Predecessors the backward side walks Successors, so a one-way
	// chain is searched as if it were undirected.
	q := graphProblem(g, 5, 0)
	res, err = search.Bidirectional(q, 0)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []int{5, 4, 3, 2, 1, 0}, res.Path)
	assert.Equal(t, 5.0, res.Cost)
}

// ------------------------------------------------------------------------
// 5. Optimality cross-check against graph.Dijkstra
// ------------------------------------------------------------------------

func TestOptimalAlgorithms_MatchDijkstra(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	const trials, n = 30, 6

	var trial, goal int
	for trial = 0; trial < trials; trial++ {
		g := randomGraph(r, n, 0.4, false)
		ref, err := graph.Dijkstra(g, 0)
		require.NoError(t, err)

		for goal = 1; goal < n; goal++ {
			p := graphProblem(g, 0, goal)
			want := ref.Dist[goal]

			ucs, err := search.UniformCost(p)
			require.NoError(t, err)
			astar, err := search.WeightedAStar(p)
			require.NoError(t, err)
			ida, err := search.IDAStar(p)
			require.NoError(t, err)

			if math.IsInf(want, 1) {
				assert.False(t, ucs.Found, "trial=%d goal=%d", trial, goal)
				assert.False(t, astar.Found)
				assert.False(t, ida.Found)
				continue
			}
			require.True(t, ucs.Found, "trial=%d goal=%d", trial, goal)
			require.True(t, astar.Found)
			require.True(t, ida.Found)
			assert.Equal(t, want, ucs.Cost, "ucs trial=%d goal=%d", trial, goal)
			assert.Equal(t, want, astar.Cost, "astar trial=%d goal=%d", trial, goal)
			assert.Equal(t, want, ida.Cost, "ida trial=%d goal=%d", trial, goal)

			bf, err := search.BestFirst(p)
			require.NoError(t, err)
			require.True(t, bf.Found)
			assert.GreaterOrEqual(t, bf.Cost, want)
		}
	}
}

func TestIterativeDeepening_ShallowestOnUnitGraphs(t *testing.T) {
	r := rand.New(rand.NewPCG(8, 13))
	const trials, n = 20, 6

	var trial, goal int
	for trial = 0; trial < trials; trial++ {
		g := randomGraph(r, n, 0.35, true)
		ref, err := graph.Dijkstra(g, 0)
		require.NoError(t, err)

		for goal = 1; goal < n; goal++ {
			p := graphProblem(g, 0, goal)
			res, err := search.IterativeDeepening(p)
			require.NoError(t, err)
			if math.IsInf(ref.Dist[goal], 1) {
				assert.False(t, res.Found)
				continue
			}
			require.True(t, res.Found, "trial=%d goal=%d", trial, goal)
			assert.Equal(t, ref.Dist[goal], res.Cost)
			assert.Equal(t, len(res.Path)-1, int(res.Cost))
		}
	}
}
