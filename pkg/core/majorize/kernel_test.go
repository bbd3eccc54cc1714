package majorize_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stresslayout/pkg/core/majorize"
)

func flatTriangle() []float64 { return []float64{0, 1, 0, 2, 1, 2} }

func manhattanStress(xi, yi, xj, yj float64, _, _ int) float64 {
	return 20 - math.Abs(xi-xj) - math.Abs(yi-yj)
}

func zeroStress(_, _, _, _ float64, _, _ int) float64 { return 0 }

func TestSolveFlatSingleIteration(t *testing.T) {
	in := flatTriangle()
	out, trace, err := majorize.SolveFlat(in, majorize.FlatParams{
		Weight: unitWeight,
		Stress: manhattanStress,
	}, majorize.WithMaxIterations(1))
	require.NoError(t, err)

	assert.Equal(t, []float64{-8.5, -16.5, -9, 11, 18.5, 10.5}, out)
	require.Len(t, trace, 1)
	assert.InDelta(t, 2*math.Sqrt(378.5)+9*math.Sqrt2, trace[0], 1e-9)
	assert.InDelta(t, 51.64, trace[0], 1e-2)

	assert.Equal(t, flatTriangle(), in, "input buffer must not be rewritten")
}

func TestSolveFlatMatchesEngineStep(t *testing.T) {
	// One pass of either entry point lands on the same coordinates; only the
	// recorded measure differs (sum vs mean).
	flat, ft, err := majorize.SolveFlat(flatTriangle(), majorize.FlatParams{
		Weight: unitWeight,
		Stress: func(xi, yi, xj, yj float64, _, _ int) float64 { return inverseStress(xi, yi, xj, yj) },
	}, majorize.WithMaxIterations(1))
	require.NoError(t, err)

	pts, et, err := majorize.SolvePoints(startTriangle(), pointParams(), majorize.WithMaxIterations(1))
	require.NoError(t, err)

	for i, p := range pts {
		assert.Equal(t, flat[2*i], p.X)
		assert.Equal(t, flat[2*i+1], p.Y)
	}
	assert.InDelta(t, triangleFirstMove, ft[0], 1e-3)
	assert.InDelta(t, ft[0]/3, et[0], 1e-12)
}

func TestSolveFlatDeltaTermination(t *testing.T) {
	eps := 1e-6
	out, trace, err := majorize.SolveFlat([]float64{0, 0, 3, 0, 0, 3}, majorize.FlatParams{
		Weight: unitWeight,
		Stress: zeroStress,
	}, majorize.WithEpsilon(eps), majorize.WithMaxIterations(0))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(trace), 2)

	n := len(trace)
	assert.LessOrEqual(t, math.Abs(trace[n-2]-trace[n-1]), eps)
	for k := 1; k < n-1; k++ {
		assert.Greater(t, math.Abs(trace[k-1]-trace[k]), eps, "stopped late at pass %d", k)
	}

	// Zero stress collapses everything onto the centroid.
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1, out[2*i], 1e-5)
		assert.InDelta(t, 1, out[2*i+1], 1e-5)
	}
}

func TestSolveFlatEpsilonOverride(t *testing.T) {
	_, trace, err := majorize.SolveFlat([]float64{0, 0, 3, 0, 0, 3}, majorize.FlatParams{
		Weight: unitWeight,
		Stress: zeroStress,
	}, majorize.WithTermination(majorize.StopOnEpsilon))
	require.NoError(t, err)

	assert.LessOrEqual(t, trace.Last(), majorize.DefaultEpsilon)
	assert.Greater(t, trace[len(trace)-2], majorize.DefaultEpsilon)
}

func TestSolveFlatTrimsZeroSlots(t *testing.T) {
	params := majorize.FlatParams{Weight: unitWeight, Stress: zeroStress}

	out, trace, err := majorize.SolveFlat([]float64{0, 0, 0, 0}, params)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, out)
	assert.Empty(t, trace, "bounded runs drop everything from the first zero measure")

	_, trace, err = majorize.SolveFlat([]float64{0, 0, 0, 0}, params, majorize.WithMaxIterations(-1))
	require.NoError(t, err)
	assert.Equal(t, majorize.Trace{0, 0}, trace, "unbounded runs keep the raw trace")
}

func TestSolveFlatSingleNode(t *testing.T) {
	out, trace, err := majorize.SolveFlat([]float64{1, 2}, majorize.FlatParams{
		Weight: unitWeight,
		Stress: zeroStress,
	})
	require.NoError(t, err)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.Len(t, trace, 2)
	assert.True(t, trace.HasNaN())
}

func TestSolveFlatEvaluatesEveryOrderedPair(t *testing.T) {
	var ignores, weights, stresses int
	seen := map[[2]int]int{}

	_, _, err := majorize.SolveFlat(flatTriangle(), majorize.FlatParams{
		Weight: func(_, _, _, _ float64, i, j int) float64 {
			weights++
			seen[[2]int{i, j}]++
			return 1
		},
		Stress: func(_, _, _, _ float64, _, _ int) float64 {
			stresses++
			return 0
		},
		Ignore: func(i, j int, _, _, _, _ float64) bool {
			ignores++
			return i == j
		},
	}, majorize.WithMaxIterations(1))
	require.NoError(t, err)

	assert.Equal(t, 9, ignores)
	assert.Equal(t, 6, weights)
	assert.Equal(t, 6, stresses)
	assert.Equal(t, 1, seen[[2]int{0, 1}])
	assert.Equal(t, 1, seen[[2]int{1, 0}], "pairs are not symmetrized")
}

func TestSolveFlatPairSet(t *testing.T) {
	set := majorize.NewPairSet(3)
	set.Add(0, 2)

	out, _, err := majorize.SolveFlat([]float64{0, 0, 4, 0, 0, 4}, majorize.FlatParams{
		Weight: unitWeight,
		Stress: zeroStress,
		Ignore: set.Ignore(),
	}, majorize.WithMaxIterations(1))
	require.NoError(t, err)

	assert.Equal(t, []float64{4, 0, 0, 2, 2, 0}, out)
}

func TestSolveFlatInvalid(t *testing.T) {
	_, _, err := majorize.SolveFlat([]float64{1, 2, 3}, majorize.FlatParams{Weight: unitWeight, Stress: zeroStress})
	assert.ErrorIs(t, err, majorize.ErrOddBuffer)

	_, _, err = majorize.SolveFlat(flatTriangle(), majorize.FlatParams{Stress: zeroStress})
	assert.ErrorIs(t, err, majorize.ErrMissingFunc)

	_, _, err = majorize.SolveFlat(flatTriangle(), majorize.FlatParams{Weight: unitWeight})
	assert.ErrorIs(t, err, majorize.ErrMissingFunc)
}

func TestSolveFlatEmpty(t *testing.T) {
	out, trace, err := majorize.SolveFlat(nil, majorize.FlatParams{Weight: unitWeight, Stress: zeroStress})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, trace)
}
