package majorize

import (
	"fmt"
	"math"
	"slices"
)

// SolveFlat runs stress majorization over a packed coordinate buffer in which
// node i occupies points[2i] and points[2i+1]. The input buffer is not
// modified; the final coordinates are returned in a new buffer.
//
// Each trace entry is the summed displacement of all nodes in one pass. The
// loop stops on [StopOnDelta] unless another rule is selected. When the
// iteration count is bounded, the trace ends just before the first pass whose
// measure is exactly zero.
func SolveFlat(points []float64, p FlatParams, opts ...Option) ([]float64, Trace, error) {
	if len(points)%2 != 0 {
		return nil, nil, fmt.Errorf("%w: got %d values", ErrOddBuffer, len(points))
	}
	if p.Weight == nil {
		return nil, nil, fmt.Errorf("%w: weight", ErrMissingFunc)
	}
	if p.Stress == nil {
		return nil, nil, fmt.Errorf("%w: stress", ErrMissingFunc)
	}

	cfg := newConfig(StopOnDelta, opts)
	out, trace := run(points, p, cfg, false)

	if cfg.limited() {
		if i := slices.Index(trace, 0); i >= 0 {
			trace = trace[:i]
		}
	}
	return out, trace, nil
}

// run is the numeric loop shared by both entry points. With mean set, the
// convergence measure is the mean displacement instead of the sum.
func run(points []float64, p FlatParams, cfg config, mean bool) ([]float64, Trace) {
	cur := slices.Clone(points)
	n := len(cur) / 2
	if n == 0 {
		return cur, Trace{}
	}

	ignore := p.Ignore
	if ignore == nil {
		ignore = SkipSelf
	}

	next := make([]float64, len(cur))
	var trace Trace
	if cfg.limited() {
		trace = make(Trace, 0, cfg.maxIterations)
	}

	for {
		m := step(cur, next, n, p.Weight, p.Stress, ignore)
		if mean {
			m /= float64(n)
		}
		cur, next = next, cur
		trace = append(trace, m)
		if !cfg.proceed(trace) {
			break
		}
	}
	return cur, trace
}

// step writes one synchronous update of cur into next and returns the summed
// displacement.
func step(cur, next []float64, n int, weight, stress PairFunc, ignore IgnoreFunc) float64 {
	var total float64
	for i := 0; i < n; i++ {
		xi, yi := cur[2*i], cur[2*i+1]

		var sx, sy, sw float64
		for j := 0; j < n; j++ {
			xj, yj := cur[2*j], cur[2*j+1]
			if ignore(i, j, xi, yi, xj, yj) {
				continue
			}

			s := stress(xi, yi, xj, yj, i, j)
			w := weight(xi, yi, xj, yj, i, j)

			sw += w
			sx += w * (xj + s*(xi-xj))
			sy += w * (yj + s*(yi-yj))
		}

		nx, ny := sx/sw, sy/sw
		next[2*i], next[2*i+1] = nx, ny
		total += math.Hypot(nx-xi, ny-yi)
	}
	return total
}
