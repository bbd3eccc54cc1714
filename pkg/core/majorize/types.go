package majorize

import (
	"errors"

	"github.com/matzehuels/stresslayout/pkg/core/geom"
)

// Sentinel errors for malformed solver input.
var (
	// ErrMissingFunc is returned when a required callback is nil.
	ErrMissingFunc = errors.New("majorize: missing callback")

	// ErrOddBuffer is returned when a flat coordinate buffer has odd length.
	ErrOddBuffer = errors.New("majorize: coordinate buffer length must be even")
)

// PairFunc computes a weight or stress for the ordered pair (i, j) from the
// current coordinates of both nodes.
type PairFunc func(xi, yi, xj, yj float64, i, j int) float64

// IgnoreFunc reports whether the ordered pair (i, j) is skipped when updating
// node i.
type IgnoreFunc func(i, j int, xi, yi, xj, yj float64) bool

// NodePairFunc is the node-typed counterpart of [PairFunc]. u and v are the
// original node values, not copies carrying updated positions.
type NodePairFunc[T any] func(xi, yi, xj, yj float64, u, v T) float64

// NodeIgnoreFunc is the node-typed counterpart of [IgnoreFunc].
type NodeIgnoreFunc[T any] func(i, j int, xi, yi, xj, yj float64, u, v T) bool

// FlatParams holds the callbacks for [SolveFlat].
type FlatParams struct {
	Weight PairFunc
	Stress PairFunc
	Ignore IgnoreFunc // nil skips only i == j
}

// Params holds the callbacks for [Solve].
type Params[T any] struct {
	Weight NodePairFunc[T]
	Stress NodePairFunc[T]
	Ignore NodeIgnoreFunc[T] // nil skips only i == j

	// ToPoint reads a node's position.
	ToPoint func(T) geom.Point

	// FromPoint returns n with its position replaced by p. Everything else
	// about n must be left as it was.
	FromPoint func(p geom.Point, n T) T
}

// SkipSelf is the default ignore predicate.
func SkipSelf(i, j int, _, _, _, _ float64) bool { return i == j }

// ByPoints lifts a function of two positions into a [NodePairFunc].
func ByPoints[T any](f func(a, b geom.Point) float64) NodePairFunc[T] {
	return func(xi, yi, xj, yj float64, _, _ T) float64 {
		return f(geom.Pt(xi, yi), geom.Pt(xj, yj))
	}
}

// ByNodes lifts a function of two node values into a [NodePairFunc].
func ByNodes[T any](f func(u, v T) float64) NodePairFunc[T] {
	return func(_, _, _, _ float64, u, v T) float64 {
		return f(u, v)
	}
}

// FlatByPoints lifts a function of two positions into a [PairFunc].
func FlatByPoints(f func(a, b geom.Point) float64) PairFunc {
	return func(xi, yi, xj, yj float64, _, _ int) float64 {
		return f(geom.Pt(xi, yi), geom.Pt(xj, yj))
	}
}
