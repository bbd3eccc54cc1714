// Package geom provides the planar arithmetic used around stress majorization.
//
// # Points
//
// [Point] is gonum's [r2.Vec], so positions interoperate with the rest of the
// gonum spatial tooling. The helpers [Add], [Sub], [Mult], [Div] and [Length]
// are thin, allocation-free wrappers:
//
//	p := geom.Add(geom.Pt(0, 1), geom.Mult(2, geom.Pt(1, 1))) // (2, 3)
//
// # Distances
//
// [Euclidean] and [Squared] are the two stock [DistanceFunc] values. They are
// building blocks for weight and stress callbacks rather than something the
// solver calls on its own. [DistanceBy] lifts a [DistanceFunc] onto any node
// type given x and y accessors:
//
//	type city struct{ Lon, Lat float64 }
//	d := geom.DistanceBy(geom.Euclidean,
//	    func(c city) float64 { return c.Lon },
//	    func(c city) float64 { return c.Lat },
//	)
//
// # Frames
//
// [Bounds] and [Fit] map solver coordinates (which are unbounded and may be
// negative) into a fixed drawing frame for rendering.
package geom
