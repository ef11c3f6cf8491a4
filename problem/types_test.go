package problem_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvsolve/problem"
	"github.com/stretchr/testify/require"
)

func counter() problem.Problem[int, int] {
	return problem.Problem[int, int]{
		Initial: 0,
		IsGoal:  func(s int) bool { return s == 2 },
		Successors: func(s int) []problem.Successor[int] {
			return []problem.Successor[int]{{State: s + 1, Action: "inc", Cost: 1}}
		},
		Key: func(s int) int { return s },
	}
}

func TestProblem_ValidatePriority(t *testing.T) {
	var p problem.Problem[int, int]
	require.ErrorIs(t, p.Validate(), problem.ErrNoSuccessors)

	p = counter()
	p.IsGoal = nil
	require.ErrorIs(t, p.Validate(), problem.ErrNoGoal)

	p = counter()
	p.Key = nil
	require.ErrorIs(t, p.Validate(), problem.ErrNoKey)

	p = counter()
	require.NoError(t, p.Validate())
	require.ErrorIs(t, p.ValidateHeuristic(), problem.ErrNoHeuristic)
}

func TestProblem_HDefaultsToZero(t *testing.T) {
	p := counter()
	require.Equal(t, 0.0, p.H(5))

	p.Heuristic = func(s int) float64 { return float64(2 - s) }
	require.Equal(t, 2.0, p.H(0))
}

func TestProblem_PredecessorsFallback(t *testing.T) {
	p := counter()
	require.Equal(t, p.Successors(1), p.PredecessorsOf(1))

	p.Predecessors = func(s int) []problem.Successor[int] {
		return []problem.Successor[int]{{State: s - 1, Action: "inc", Cost: 1}}
	}
	require.Equal(t, 0, p.PredecessorsOf(1)[0].State)
}

func TestLocal_BetterAndWorst(t *testing.T) {
	minimize := problem.Local[int]{}
	require.True(t, minimize.Better(1, 2))
	require.False(t, minimize.Better(2, 2))
	require.True(t, math.IsInf(minimize.Worst(), 1))

	maximize := problem.Local[int]{Maximize: true}
	require.True(t, maximize.Better(3, 2))
	require.True(t, math.IsInf(maximize.Worst(), -1))
}

func TestLocal_Validate(t *testing.T) {
	var l problem.Local[int]
	require.ErrorIs(t, l.Validate(), problem.ErrNoObjective)

	l.Objective = func(int) float64 { return 0 }
	require.ErrorIs(t, l.Validate(), problem.ErrNoNeighbors)

	l.Neighbors = func(s int) []int { return []int{s - 1, s + 1} }
	require.NoError(t, l.Validate())
}

func TestReason_String(t *testing.T) {
	require.Equal(t, "solved", problem.Solved.String())
	require.Equal(t, "node-limit", problem.NodeLimit.String())
	require.Equal(t, "unknown", problem.Reason(99).String())
}
