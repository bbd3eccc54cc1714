package majorize_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stresslayout/pkg/core/geom"
	"github.com/matzehuels/stresslayout/pkg/core/majorize"
)

// wantTriangle is where three nodes starting at (0,1), (0,2), (1,2) settle
// under unit weights and stress 20/d.
var wantTriangle = []geom.Point{
	geom.Pt(-2.65525221824646, -9.486884117126465),
	geom.Pt(-7.8316330909729, 9.831632614135742),
	geom.Pt(11.486883163452148, 4.6552510261535645),
}

func startTriangle() []geom.Point {
	return []geom.Point{geom.Pt(0, 1), geom.Pt(0, 2), geom.Pt(1, 2)}
}

func unitWeight(_, _, _, _ float64, _, _ int) float64 { return 1 }

func inverseStress(xi, yi, xj, yj float64) float64 {
	return 20 / math.Hypot(xi-xj, yi-yj)
}

func pointParams() majorize.Params[geom.Point] {
	return majorize.Params[geom.Point]{
		Weight: func(_, _, _, _ float64, _, _ geom.Point) float64 { return 1 },
		Stress: func(xi, yi, xj, yj float64, _, _ geom.Point) float64 {
			return inverseStress(xi, yi, xj, yj)
		},
	}
}

func assertPoints(t *testing.T, want, got []geom.Point, delta float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, delta, "x of node %d", i)
		assert.InDelta(t, want[i].Y, got[i].Y, delta, "y of node %d", i)
	}
}

// triangleFirstMove is the summed displacement of the first pass from
// startTriangle. The engine records the mean over the three nodes.
const triangleFirstMove = 48.16012954711914

func assertTriangleTrace(t *testing.T, trace majorize.Trace) {
	t.Helper()
	require.NotEmpty(t, trace)
	assert.InDelta(t, triangleFirstMove/3, trace[0], 1e-3)
	assert.True(t, trace.NonIncreasing(), "trace should shrink every pass: %v", trace)
	assert.LessOrEqual(t, trace.Last(), majorize.DefaultEpsilon)
	if len(trace) > 1 {
		assert.Greater(t, trace[len(trace)-2], majorize.DefaultEpsilon)
	}
	assert.Len(t, trace, 25)
}

func TestSolvePointsTriangle(t *testing.T) {
	in := startTriangle()
	out, trace, err := majorize.SolvePoints(in, pointParams())
	require.NoError(t, err)

	assertPoints(t, wantTriangle, out, 5e-3)
	assertTriangleTrace(t, trace)

	// Input is left alone.
	assert.Equal(t, startTriangle(), in)
}

type city struct {
	X, Y  float64
	Name  string
	Tags  []string
	Score int
}

func cityParams() majorize.Params[city] {
	return majorize.Params[city]{
		Weight: majorize.ByNodes(func(_, _ city) float64 { return 1 }),
		Stress: func(xi, yi, xj, yj float64, _, _ city) float64 {
			return inverseStress(xi, yi, xj, yj)
		},
		ToPoint: func(c city) geom.Point { return geom.Pt(c.X, c.Y) },
		FromPoint: func(p geom.Point, c city) city {
			c.X, c.Y = p.X, p.Y
			return c
		},
	}
}

func TestSolveSlicePreservesFields(t *testing.T) {
	in := []city{
		{X: 0, Y: 1, Name: "a", Tags: []string{"port"}, Score: 3},
		{X: 0, Y: 2, Name: "b", Score: 5},
		{X: 1, Y: 2, Name: "c", Tags: []string{"capital", "hub"}},
	}

	out, trace, err := majorize.SolveSlice(in, cityParams())
	require.NoError(t, err)
	assertTriangleTrace(t, trace)

	require.Len(t, out, 3)
	for i := range in {
		assert.Equal(t, in[i].Name, out[i].Name)
		assert.Equal(t, in[i].Tags, out[i].Tags)
		assert.Equal(t, in[i].Score, out[i].Score)
		assert.InDelta(t, wantTriangle[i].X, out[i].X, 5e-3)
		assert.InDelta(t, wantTriangle[i].Y, out[i].Y, 5e-3)
	}
	assert.Equal(t, 0.0, in[0].X, "input slice must not be rewritten")
}

func TestSolveOrderedKeepsKeys(t *testing.T) {
	nodes := majorize.NewOrdered[string, city]()
	nodes.Put("c", city{X: 1, Y: 2, Name: "c"})
	nodes.Put("a", city{X: 0, Y: 1, Name: "a"})
	nodes.Put("b", city{X: 0, Y: 2, Name: "b"})

	trace, err := majorize.Solve[string, city](nodes, cityParams())
	require.NoError(t, err)
	require.NotEmpty(t, trace)

	assert.Equal(t, []string{"c", "a", "b"}, nodes.Keys())
	for k, v := range nodes.All() {
		assert.Equal(t, k, v.Name)
		assert.True(t, geom.IsFinite(geom.Pt(v.X, v.Y)))
	}

	// Same geometry as the slice case, just enumerated in another order.
	a, b, c := nodes.Get("a"), nodes.Get("b"), nodes.Get("c")
	assert.InDelta(t, 20, geom.Euclidean(geom.Pt(a.X, a.Y), geom.Pt(b.X, b.Y)), 1e-3)
	assert.InDelta(t, 20, geom.Euclidean(geom.Pt(b.X, b.Y), geom.Pt(c.X, c.Y)), 1e-3)
	assert.InDelta(t, 20, geom.Euclidean(geom.Pt(a.X, a.Y), geom.Pt(c.X, c.Y)), 1e-3)
}

func TestSolveDeterministic(t *testing.T) {
	out1, trace1, err := majorize.SolvePoints(startTriangle(), pointParams())
	require.NoError(t, err)
	out2, trace2, err := majorize.SolvePoints(startTriangle(), pointParams())
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
	assert.Equal(t, trace1, trace2)
}

func TestSolveUnlimitedConverges(t *testing.T) {
	_, trace, err := majorize.SolvePoints(startTriangle(), pointParams(), majorize.WithMaxIterations(0))
	require.NoError(t, err)
	assertTriangleTrace(t, trace)
}

func TestSolveMaxIterationsCap(t *testing.T) {
	_, trace, err := majorize.SolvePoints(startTriangle(), pointParams(), majorize.WithMaxIterations(5))
	require.NoError(t, err)
	assert.Len(t, trace, 5)
	assert.Greater(t, trace.Last(), majorize.DefaultEpsilon)
}

func TestSolveZeroStressIsWeightedCentroid(t *testing.T) {
	in := []geom.Point{geom.Pt(0, 0), geom.Pt(3, 0), geom.Pt(0, 3)}
	p := majorize.Params[geom.Point]{
		Weight: majorize.ByPoints[geom.Point](func(_, _ geom.Point) float64 { return 1 }),
		Stress: majorize.ByPoints[geom.Point](func(_, _ geom.Point) float64 { return 0 }),
	}

	out, trace, err := majorize.SolvePoints(in, p, majorize.WithMaxIterations(1))
	require.NoError(t, err)
	require.Len(t, trace, 1)

	assertPoints(t, []geom.Point{geom.Pt(1.5, 1.5), geom.Pt(0, 1.5), geom.Pt(1.5, 0)}, out, 1e-12)

	// Mean of |(1.5,1.5)|, |(-3,1.5)|, |(1.5,-3)|.
	want := (math.Hypot(1.5, 1.5) + 2*math.Hypot(3, 1.5)) / 3
	assert.InDelta(t, want, trace[0], 1e-12)
}

func TestSolveIgnoreIsRespected(t *testing.T) {
	in := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(0, 4)}
	set := majorize.NewPairSet(len(in))
	set.Add(0, 2)

	p := majorize.Params[geom.Point]{
		// Pair (0, 2) would poison node 0 if it were ever summed.
		Weight: func(_, _, _, _ float64, u, v geom.Point) float64 {
			if u == in[0] && v == in[2] {
				return math.NaN()
			}
			return 1
		},
		Stress: majorize.ByPoints[geom.Point](func(_, _ geom.Point) float64 { return 0 }),
		Ignore: majorize.IgnoreNodes[geom.Point](set),
	}

	out, _, err := majorize.SolvePoints(in, p, majorize.WithMaxIterations(1))
	require.NoError(t, err)

	assert.Equal(t, geom.Pt(4, 0), out[0], "node 0 only sees node 1")
	assert.Equal(t, geom.Pt(0, 2), out[1])
	assert.Equal(t, geom.Pt(2, 0), out[2], "(2, 0) is not in the set")
}

func TestSolveSingleNodeIsNaN(t *testing.T) {
	out, trace, err := majorize.SolvePoints([]geom.Point{geom.Pt(1, 2)}, pointParams())
	require.NoError(t, err)

	assert.True(t, math.IsNaN(out[0].X))
	assert.True(t, math.IsNaN(out[0].Y))
	assert.Len(t, trace, 1, "a NaN measure stops the epsilon rule")
	assert.True(t, trace.HasNaN())
}

func TestSolveEmpty(t *testing.T) {
	calls := 0
	p := majorize.Params[geom.Point]{
		Weight: func(_, _, _, _ float64, _, _ geom.Point) float64 { calls++; return 1 },
		Stress: majorize.ByPoints[geom.Point](func(_, _ geom.Point) float64 { return 0 }),
	}

	out, trace, err := majorize.SolvePoints(nil, p)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, trace)
	assert.Zero(t, calls)
}

func TestSolveMissingCallbacks(t *testing.T) {
	base := cityParams()

	tests := []struct {
		name   string
		mutate func(*majorize.Params[city])
	}{
		{"weight", func(p *majorize.Params[city]) { p.Weight = nil }},
		{"stress", func(p *majorize.Params[city]) { p.Stress = nil }},
		{"toPoint", func(p *majorize.Params[city]) { p.ToPoint = nil }},
		{"fromPoint", func(p *majorize.Params[city]) { p.FromPoint = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, _, err := majorize.SolveSlice([]city{{}, {X: 1}}, p)
			assert.ErrorIs(t, err, majorize.ErrMissingFunc)
			assert.ErrorContains(t, err, tt.name)
		})
	}
}

func TestSolveTerminationOverride(t *testing.T) {
	in := []geom.Point{geom.Pt(0, 0), geom.Pt(0, 0)}
	p := majorize.Params[geom.Point]{
		Weight: majorize.ByPoints[geom.Point](func(_, _ geom.Point) float64 { return 1 }),
		Stress: majorize.ByPoints[geom.Point](func(_, _ geom.Point) float64 { return 0 }),
	}

	_, trace, err := majorize.SolvePoints(in, p)
	require.NoError(t, err)
	assert.Equal(t, majorize.Trace{0}, trace, "epsilon rule stops on the first zero")

	_, trace, err = majorize.SolvePoints(in, p, majorize.WithTermination(majorize.StopOnDelta))
	require.NoError(t, err)
	assert.Equal(t, majorize.Trace{0, 0}, trace, "delta rule needs two passes to compare")
}
