package weight

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
)

// Func is a pairwise weight.
type Func[T any] func(a, b T) float64

// Preset names accepted by [Presets.ByName].
const (
	One            = "one"
	Distance       = "distance"
	Inverse        = "inverse"
	InverseSquared = "inverse-squared"
	ExpInverse     = "exp-inverse"
)

// Presets holds the stock weights derived from one distance function.
type Presets[T any] struct {
	One            Func[T] // 1
	Distance       Func[T] // d
	Inverse        Func[T] // d^-1
	InverseSquared Func[T] // d^-2
	ExpInverse     Func[T] // e^-d
}

// Factory derives every preset from distance.
func Factory[T any](distance Func[T]) Presets[T] {
	return Presets[T]{
		One:            func(T, T) float64 { return 1 },
		Distance:       distance,
		Inverse:        func(a, b T) float64 { return math.Pow(distance(a, b), -1) },
		InverseSquared: func(a, b T) float64 { return math.Pow(distance(a, b), -2) },
		ExpInverse:     func(a, b T) float64 { return math.Exp(-distance(a, b)) },
	}
}

// ByName returns the preset registered under name.
func (p Presets[T]) ByName(name string) (Func[T], error) {
	switch name {
	case One:
		return p.One, nil
	case Distance:
		return p.Distance, nil
	case Inverse:
		return p.Inverse, nil
	case InverseSquared:
		return p.InverseSquared, nil
	case ExpInverse:
		return p.ExpInverse, nil
	}
	return nil, fmt.Errorf("unknown weight preset %q (must be one of: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := []string{One, Distance, Inverse, InverseSquared, ExpInverse}
	sort.Strings(names)
	return names
}

// Valid reports whether name is a known preset.
func Valid(name string) bool {
	return slices.Contains(Names(), name)
}
