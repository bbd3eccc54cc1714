package majorize

import (
	"fmt"
	"math"
)

const (
	// DefaultEpsilon is the convergence threshold used when none is given.
	DefaultEpsilon = 1e-6

	// DefaultMaxIterations caps a solve when no limit is given.
	DefaultMaxIterations = 10000
)

// Termination selects the stopping rule.
type Termination int

const (
	// StopOnEpsilon stops once the convergence measure is at most epsilon.
	// A NaN measure also stops the loop.
	StopOnEpsilon Termination = iota + 1

	// StopOnDelta stops once two successive measures differ by at most
	// epsilon. The first iteration never stops on this rule.
	StopOnDelta
)

func (t Termination) String() string {
	switch t {
	case StopOnEpsilon:
		return "epsilon"
	case StopOnDelta:
		return "delta"
	}
	return fmt.Sprintf("Termination(%d)", int(t))
}

// Met reports whether the last measure of trace satisfies the rule. An
// empty trace never does; a NaN measure satisfies StopOnEpsilon.
func (t Termination) Met(trace Trace, eps float64) bool {
	k := len(trace)
	if k == 0 {
		return false
	}
	cur := trace[k-1]
	if t == StopOnDelta {
		return k > 1 && math.Abs(trace[k-2]-cur) <= eps
	}
	return !(cur > eps)
}

// ParseTermination returns the rule named by s ("epsilon" or "delta").
func ParseTermination(s string) (Termination, error) {
	switch s {
	case "epsilon":
		return StopOnEpsilon, nil
	case "delta":
		return StopOnDelta, nil
	}
	return 0, fmt.Errorf("unknown termination %q (must be one of: epsilon, delta)", s)
}

// Option configures a solve.
type Option func(*config)

type config struct {
	epsilon       float64
	maxIterations int
	termination   Termination
}

// WithEpsilon sets the convergence threshold.
func WithEpsilon(eps float64) Option {
	return func(c *config) { c.epsilon = eps }
}

// WithMaxIterations caps the number of iterations. n ≤ 0 removes the cap.
func WithMaxIterations(n int) Option {
	return func(c *config) { c.maxIterations = n }
}

// WithTermination overrides the entry point's default stopping rule.
func WithTermination(t Termination) Option {
	return func(c *config) { c.termination = t }
}

func newConfig(def Termination, opts []Option) config {
	c := config{
		epsilon:       DefaultEpsilon,
		maxIterations: DefaultMaxIterations,
		termination:   def,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.termination != StopOnEpsilon && c.termination != StopOnDelta {
		c.termination = def
	}
	return c
}

func (c config) limited() bool { return c.maxIterations > 0 }

// proceed reports whether another iteration should run given the measures
// recorded so far.
func (c config) proceed(trace Trace) bool {
	if c.limited() && len(trace) >= c.maxIterations {
		return false
	}
	return !c.termination.Met(trace, c.epsilon)
}
