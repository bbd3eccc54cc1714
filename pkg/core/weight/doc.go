// Package weight builds the stock pair-weight functions for stress layouts.
//
// A weight expresses how much a pair of nodes matters when the solver trades
// one pair's error against another's. All presets derive from a single
// distance function supplied by the caller:
//
//	dist := geom.DistanceBy(geom.Euclidean, nodeX, nodeY)
//	w := weight.Factory(dist).InverseSquared
//
// The classic choice for graph drawing is [Presets.InverseSquared] evaluated
// on target (graph-theoretic) distances, which damps the influence of far
// pairs. Presets can also be looked up by name with [Presets.ByName], which
// is how the CLI and HTTP API select them.
package weight
