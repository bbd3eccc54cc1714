package majorize

import (
	"fmt"
	"slices"

	"github.com/matzehuels/stresslayout/pkg/core/geom"
)

// Solve lays out every node in nodes and writes the new positions back in
// place through p.FromPoint. Keys are read once, so the collection must not
// change shape while the call runs.
//
// Each trace entry is the mean displacement of one pass, and the trace holds
// exactly the passes that ran. The loop stops on [StopOnEpsilon] unless
// another rule is selected.
func Solve[K comparable, T any](nodes Collection[K, T], p Params[T], opts ...Option) (Trace, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	keys := nodes.Keys()
	vals := make([]T, len(keys))
	points := make([]float64, 2*len(keys))
	for i, k := range keys {
		vals[i] = nodes.Get(k)
		pt := p.ToPoint(vals[i])
		points[2*i], points[2*i+1] = pt.X, pt.Y
	}

	cfg := newConfig(StopOnEpsilon, opts)
	out, trace := run(points, p.flat(vals), cfg, true)

	for i, k := range keys {
		nodes.Set(k, p.FromPoint(geom.Pt(out[2*i], out[2*i+1]), vals[i]))
	}
	return trace, nil
}

// SolveSlice is [Solve] over a slice. The input is left untouched and the
// updated nodes are returned in a new slice of the same order.
func SolveSlice[T any](nodes []T, p Params[T], opts ...Option) ([]T, Trace, error) {
	out := Slice[T](slices.Clone(nodes))
	trace, err := Solve[int, T](out, p, opts...)
	if err != nil {
		return nil, nil, err
	}
	return out, trace, nil
}

// SolvePoints is [SolveSlice] for bare points. ToPoint and FromPoint default
// to the identity.
func SolvePoints(points []geom.Point, p Params[geom.Point], opts ...Option) ([]geom.Point, Trace, error) {
	if p.ToPoint == nil {
		p.ToPoint = func(pt geom.Point) geom.Point { return pt }
	}
	if p.FromPoint == nil {
		p.FromPoint = func(pt, _ geom.Point) geom.Point { return pt }
	}
	return SolveSlice(points, p, opts...)
}

func (p Params[T]) validate() error {
	switch {
	case p.Weight == nil:
		return fmt.Errorf("%w: weight", ErrMissingFunc)
	case p.Stress == nil:
		return fmt.Errorf("%w: stress", ErrMissingFunc)
	case p.ToPoint == nil:
		return fmt.Errorf("%w: toPoint", ErrMissingFunc)
	case p.FromPoint == nil:
		return fmt.Errorf("%w: fromPoint", ErrMissingFunc)
	}
	return nil
}

// flat rebinds the node-typed callbacks to index-typed ones over vals so the
// inner loop only touches the coordinate buffer.
func (p Params[T]) flat(vals []T) FlatParams {
	fp := FlatParams{
		Weight: func(xi, yi, xj, yj float64, i, j int) float64 {
			return p.Weight(xi, yi, xj, yj, vals[i], vals[j])
		},
		Stress: func(xi, yi, xj, yj float64, i, j int) float64 {
			return p.Stress(xi, yi, xj, yj, vals[i], vals[j])
		},
	}
	if p.Ignore != nil {
		fp.Ignore = func(i, j int, xi, yi, xj, yj float64) bool {
			return p.Ignore(i, j, xi, yi, xj, yj, vals[i], vals[j])
		}
	}
	return fp
}
