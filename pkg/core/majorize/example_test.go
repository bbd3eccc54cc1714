package majorize_test

import (
	"fmt"
	"math"

	"github.com/matzehuels/stresslayout/pkg/core/geom"
	"github.com/matzehuels/stresslayout/pkg/core/majorize"
)

func ExampleSolveFlat() {
	points := []float64{0, 1, 0, 2, 1, 2}

	out, trace, err := majorize.SolveFlat(points, majorize.FlatParams{
		Weight: func(_, _, _, _ float64, _, _ int) float64 { return 1 },
		Stress: func(xi, yi, xj, yj float64, _, _ int) float64 {
			return 20 - math.Abs(xi-xj) - math.Abs(yi-yj)
		},
	}, majorize.WithMaxIterations(1))
	if err != nil {
		panic(err)
	}

	for i := 0; i < len(out); i += 2 {
		fmt.Printf("(%.1f, %.1f)\n", out[i], out[i+1])
	}
	fmt.Printf("iterations: %d, moved: %.2f\n", trace.Iterations(), trace[0])
	// Output:
	// (-8.5, -16.5)
	// (-9.0, 11.0)
	// (18.5, 10.5)
	// iterations: 1, moved: 51.64
}

func ExampleSolve() {
	type station struct {
		Name string
		X, Y float64
	}

	nodes := majorize.NewOrdered[string, station]()
	nodes.Put("north", station{Name: "North", X: 0, Y: 1})
	nodes.Put("east", station{Name: "East", X: 0, Y: 2})
	nodes.Put("south", station{Name: "South", X: 1, Y: 2})

	trace, err := majorize.Solve[string, station](nodes, majorize.Params[station]{
		Weight: majorize.ByNodes(func(_, _ station) float64 { return 1 }),
		Stress: majorize.ByPoints[station](func(a, b geom.Point) float64 {
			return 10 / geom.Euclidean(a, b)
		}),
		ToPoint: func(s station) geom.Point { return geom.Pt(s.X, s.Y) },
		FromPoint: func(p geom.Point, s station) station {
			s.X, s.Y = p.X, p.Y
			return s
		},
	})
	if err != nil {
		panic(err)
	}

	n, e := nodes.Get("north"), nodes.Get("east")
	fmt.Println(nodes.Keys())
	fmt.Printf("north-east: %.2f\n", geom.Euclidean(geom.Pt(n.X, n.Y), geom.Pt(e.X, e.Y)))
	fmt.Println("converged:", trace.Converged(majorize.DefaultEpsilon))
	// Output:
	// [north east south]
	// north-east: 10.00
	// converged: true
}

func ExamplePairSet() {
	set := majorize.NewPairSet(3)
	set.AddSymmetric(0, 2)

	ignore := set.Ignore()
	fmt.Println(ignore(0, 0, 0, 0, 0, 0), ignore(0, 1, 0, 0, 0, 0), ignore(2, 0, 0, 0, 0, 0))
	// Output: true false true
}
