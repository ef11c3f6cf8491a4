package assign_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/lvsolve/assign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// bruteForce returns the minimum cost over all permutations of a square matrix.
func bruteForce(c *mat.Dense) float64 {
	n, _ := c.Dims()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	best := math.Inf(1)
	var rec func(k int)
	rec = func(k int) {
		if k == n {
			var s float64
			for i, j := range perm {
				s += c.At(i, j)
			}
			best = math.Min(best, s)
			return
		}
		for i := k; i < n; i++ {
			perm[k], perm[i] = perm[i], perm[k]
			rec(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	rec(0)
	return best
}

func requireConsistent(t *testing.T, c mat.Matrix, res assign.Result) {
	t.Helper()
	seenCol := map[int]bool{}
	var sum float64
	for _, p := range res.Pairs {
		require.False(t, seenCol[p.Col], "column %d used twice", p.Col)
		seenCol[p.Col] = true
		require.Equal(t, p.Col, res.RowToCol[p.Row])
		require.Equal(t, c.At(p.Row, p.Col), p.Cost)
		sum += p.Cost
	}
	require.InDelta(t, sum, res.Cost, 1e-9)
}

func TestHungarian_Validation(t *testing.T) {
	_, err := assign.Hungarian(nil)
	require.ErrorIs(t, err, assign.ErrEmpty)

	_, err = assign.Hungarian(mat.NewDense(1, 2, []float64{1, math.NaN()}))
	require.ErrorIs(t, err, assign.ErrBadCost)

	_, err = assign.Hungarian(mat.NewDense(1, 1, []float64{math.Inf(-1)}))
	require.ErrorIs(t, err, assign.ErrBadCost)

	// Near MaxFloat64 the total would overflow to +Inf.
	_, err = assign.Hungarian(mat.NewDense(2, 2, []float64{1e308, math.Inf(1), 1e308, 1e308}))
	require.ErrorIs(t, err, assign.ErrBadCost)

	_, err = assign.Hungarian(mat.NewDense(1, 1, []float64{-2 * assign.MaxCost}))
	require.ErrorIs(t, err, assign.ErrBadCost)
}

func TestHungarian_MaxCostBoundStaysFinite(t *testing.T) {
	c := mat.NewDense(2, 2, []float64{
		assign.MaxCost, math.Inf(1),
		assign.MaxCost, -assign.MaxCost,
	})
	res, err := assign.Hungarian(c)
	require.NoError(t, err)
	require.True(t, res.Complete)
	require.Equal(t, []int{0, 1}, res.RowToCol)
	require.False(t, math.IsInf(res.Cost, 0))
	require.Equal(t, 0.0, res.Cost)
}

func TestHungarian_Classic3x3(t *testing.T) {
	c := mat.NewDense(3, 3, []float64{
		4, 1, 3,
		2, 0, 5,
		3, 2, 2,
	})
	res, err := assign.Hungarian(c)
	require.NoError(t, err)
	requireConsistent(t, c, res)
	assert.True(t, res.Complete)
	assert.Equal(t, 5.0, res.Cost)
	assert.Equal(t, []int{1, 0, 2}, res.RowToCol)
}

func TestHungarian_MatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(2024, 6))

	for n := 1; n <= 6; n++ {
		for trial := 0; trial < 15; trial++ {
			data := make([]float64, n*n)
			for i := range data {
				data[i] = float64(r.IntN(50))
			}
			c := mat.NewDense(n, n, data)

			res, err := assign.Hungarian(c)
			require.NoError(t, err)
			requireConsistent(t, c, res)
			require.True(t, res.Complete)
			require.Len(t, res.Pairs, n)
			assert.Equal(t, bruteForce(c), res.Cost, "n=%d trial=%d", n, trial)
		}
	}
}

func TestHungarian_Rectangular(t *testing.T) {
	// More columns than rows: every row is matched.
	wide := mat.NewDense(2, 3, []float64{
		7, 1, 9,
		2, 8, 3,
	})
	res, err := assign.Hungarian(wide)
	require.NoError(t, err)
	requireConsistent(t, wide, res)
	assert.True(t, res.Complete)
	assert.Equal(t, 3.0, res.Cost)
	assert.Equal(t, []int{1, 0}, res.RowToCol)

	// More rows than columns: one row stays on a dummy column.
	tall := mat.NewDense(3, 2, []float64{
		5, 6,
		1, 9,
		8, 2,
	})
	res, err = assign.Hungarian(tall)
	require.NoError(t, err)
	requireConsistent(t, tall, res)
	assert.True(t, res.Complete)
	assert.Len(t, res.Pairs, 2)
	assert.Equal(t, 3.0, res.Cost)
	assert.Equal(t, []int{-1, 0, 1}, res.RowToCol)
}

func TestHungarian_ForbiddenPairs(t *testing.T) {
	inf := math.Inf(1)

	// The cheap diagonal is forbidden, so the anti-diagonal wins.
	c := mat.NewDense(2, 2, []float64{
		inf, 4,
		3, inf,
	})
	res, err := assign.Hungarian(c)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, 7.0, res.Cost)

	// Row 1 has no allowed column: it is reported unassigned.
	d := mat.NewDense(2, 2, []float64{
		1, 2,
		inf, inf,
	})
	res, err = assign.Hungarian(d)
	require.NoError(t, err)
	requireConsistent(t, d, res)
	assert.False(t, res.Complete)
	assert.Equal(t, []int{0, -1}, res.RowToCol)
	assert.Equal(t, 1.0, res.Cost)
}

func TestHungarian_NegativeCosts(t *testing.T) {
	c := mat.NewDense(2, 2, []float64{
		-5, 0,
		0, -5,
	})
	res, err := assign.Hungarian(c)
	require.NoError(t, err)
	assert.Equal(t, -10.0, res.Cost)
}
