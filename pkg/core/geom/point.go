package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in the plane.
type Point = r2.Vec

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p + q.
func Add(p, q Point) Point { return r2.Add(p, q) }

// Sub returns p - q.
func Sub(p, q Point) Point { return r2.Sub(p, q) }

// Mult returns a·p.
func Mult(a float64, p Point) Point { return r2.Scale(a, p) }

// Div returns p / a. Division by zero follows IEEE rules and yields Inf or NaN
// components.
func Div(p Point, a float64) Point { return Point{X: p.X / a, Y: p.Y / a} }

// Length returns the Euclidean norm of p.
func Length(p Point) float64 { return r2.Norm(p) }

// IsFinite reports whether both components are neither NaN nor infinite.
func IsFinite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
