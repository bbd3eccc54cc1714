// Package majorize positions nodes in the plane by stress majorization.
//
// # Overview
//
// Given a current position p_i for every node, a pairwise weight w_ij and a
// pairwise stress s_ij, each iteration moves every node to
//
//	p_i' = Σ_j w_ij (p_j + s_ij (p_i − p_j)) / Σ_j w_ij
//
// summing over the pairs (i, j) that are not ignored. Updates are
// synchronous: every node reads only the previous iteration's coordinates, so
// the result does not depend on node order within a pass. With
// s_ij = d_ij / ‖p_i − p_j‖ this is the classic SMACOF update that pulls each
// pair toward target distance d_ij.
//
// # Entry Points
//
// Two solvers share one numeric loop:
//
//   - [SolveFlat] works on a packed []float64 buffer (x0, y0, x1, y1, …) and
//     index-based callbacks. It records the summed displacement of each pass
//     and stops when two successive measures differ by at most epsilon.
//
//   - [Solve] works on any ordered keyed [Collection] of caller-defined nodes,
//     reading positions with [Params.ToPoint] and writing them back with
//     [Params.FromPoint]. It records the mean displacement and stops when that
//     mean falls to epsilon. [SolveSlice] and [SolvePoints] are shorthands for
//     slices.
//
// Both stopping rules are available to both entry points through
// [WithTermination]; the defaults match the behavior each entry point has
// always had.
//
//	pts := []geom.Point{geom.Pt(0, 1), geom.Pt(0, 2), geom.Pt(1, 2)}
//	out, trace, err := majorize.SolvePoints(pts, majorize.Params[geom.Point]{
//	    Weight: majorize.ByPoints[geom.Point](func(a, b geom.Point) float64 { return 1 }),
//	    Stress: majorize.ByPoints[geom.Point](func(a, b geom.Point) float64 {
//	        return 20 / geom.Euclidean(a, b)
//	    }),
//	})
//
// # Options
//
//   - [WithEpsilon]: convergence threshold (default 1e-6)
//   - [WithMaxIterations]: iteration cap (default 10000, ≤ 0 means unlimited)
//   - [WithTermination]: [StopOnEpsilon] or [StopOnDelta]
//
// # Ignoring Pairs
//
// By default only the self pair (i, i) is skipped. A [PairSet] records extra
// ordered pairs to skip and produces the matching predicate.
//
// # Degenerate Input
//
// A node whose non-ignored weights sum to zero gets a NaN position, and the
// NaN spreads to its neighbors on later passes. This is the contract, not a
// fault: a single node with the default ignore predicate, or an all-zero
// weight row, is a configuration error on the caller's side. An empty input
// runs no iterations and returns an empty trace.
package majorize
