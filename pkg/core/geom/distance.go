package geom

// DistanceFunc measures the separation of two points.
type DistanceFunc func(a, b Point) float64

// Euclidean is the straight-line distance between a and b.
func Euclidean(a, b Point) float64 { return Length(Sub(a, b)) }

// Squared is the squared Euclidean distance between a and b.
func Squared(a, b Point) float64 {
	l := Length(Sub(a, b))
	return l * l
}

// DistanceBy adapts d to an arbitrary node type using x and y accessors.
func DistanceBy[T any](d DistanceFunc, x, y func(T) float64) func(a, b T) float64 {
	return func(a, b T) float64 {
		return d(Pt(x(a), y(a)), Pt(x(b), y(b)))
	}
}
