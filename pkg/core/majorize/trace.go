package majorize

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Trace is the convergence measure of each completed iteration, in order.
type Trace []float64

// Iterations returns the number of recorded iterations.
func (t Trace) Iterations() int { return len(t) }

// Last returns the final measure, or NaN for an empty trace.
func (t Trace) Last() float64 {
	if len(t) == 0 {
		return math.NaN()
	}
	return t[len(t)-1]
}

// Converged reports whether the final measure is at most eps.
func (t Trace) Converged(eps float64) bool {
	return len(t) > 0 && t.Last() <= eps
}

// Total returns the sum of all measures.
func (t Trace) Total() float64 { return floats.Sum(t) }

// NonIncreasing reports whether no measure exceeds its predecessor.
func (t Trace) NonIncreasing() bool {
	for i := 1; i < len(t); i++ {
		if t[i] > t[i-1] {
			return false
		}
	}
	return true
}

// HasNaN reports whether any measure is NaN, which marks a node whose
// weights summed to zero.
func (t Trace) HasNaN() bool { return floats.HasNaN(t) }

// Peak returns the largest measure, or 0 for an empty trace.
func (t Trace) Peak() float64 {
	if len(t) == 0 {
		return 0
	}
	return floats.Max(t)
}
