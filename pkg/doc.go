// Package pkg provides the core libraries for Stresslayout.
//
// # Overview
//
// Stresslayout places 2D points so that their pairwise distances match a set
// of target distances, using stress majorization. The pkg directory is
// organized into these areas:
//
//  1. [core/majorize] - The solver (geometry, weights, majorization engine and kernel)
//  2. [graph] - Problem and layout documents
//  3. [pipeline] - Orchestration (solve → render) with caching
//  4. [render/nodelink] - Graphviz output of solved layouts
//  5. [cache], [store] - Result caching and layout persistence
//
// # Architecture
//
// The typical data flow:
//
//	Problem document (JSON/TOML)
//	         ↓
//	    [pipeline] (validate options, check cache)
//	         ↓
//	    [core/majorize] (iterate until the positions settle)
//	         ↓
//	    [graph] Layout (positions + convergence trace)
//	         ↓
//	    [render/nodelink] SVG/PNG/DOT, or JSON
//
// # Quick Start
//
// Solve three points with the generic engine:
//
//	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(0, 10)}
//	out, trace, err := majorize.SolvePoints(pts, majorize.Params[geom.Point]{
//	    Weight: majorize.ByPoints[geom.Point](func(a, b geom.Point) float64 { return 1 }),
//	    Stress: majorize.ByPoints[geom.Point](func(a, b geom.Point) float64 {
//	        return 5 / geom.Euclidean(a, b)
//	    }),
//	})
//
// Or run the whole pipeline, including rendering:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	layout, err := runner.Solve(ctx, problem, pipeline.Options{})
//	artifacts, err := runner.Render(ctx, layout, pipeline.Options{Formats: []string{"svg"}})
//
// # Main Packages
//
// [core/geom] - Points, distance functions and frame fitting on gonum's r2.
//
// [core/weight] - Weight presets that turn a target distance into a pair weight.
//
// [core/majorize] - The generic engine over keyed collections and the flat
// array kernel. Both record a per-iteration displacement trace.
//
// [pipeline] - Options validation, the solve and render stages, and the
// cached [pipeline.Runner].
//
// [errors] - Coded errors shared by the CLI and HTTP API.
//
// [core/geom]: github.com/matzehuels/stresslayout/pkg/core/geom
// [core/weight]: github.com/matzehuels/stresslayout/pkg/core/weight
// [core/majorize]: github.com/matzehuels/stresslayout/pkg/core/majorize
// [graph]: github.com/matzehuels/stresslayout/pkg/graph
// [pipeline]: github.com/matzehuels/stresslayout/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/stresslayout/pkg/pipeline#Runner
// [render/nodelink]: github.com/matzehuels/stresslayout/pkg/render/nodelink
// [cache]: github.com/matzehuels/stresslayout/pkg/cache
// [store]: github.com/matzehuels/stresslayout/pkg/store
// [errors]: github.com/matzehuels/stresslayout/pkg/errors
package pkg
