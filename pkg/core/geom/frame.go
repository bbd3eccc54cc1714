package geom

import "math"

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min, Max Point
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Bounds returns the smallest rectangle containing every finite point in pts.
// Non-finite points are skipped. The zero Rect is returned when no finite
// point exists.
func Bounds(pts []Point) Rect {
	r := Rect{
		Min: Pt(math.MaxFloat64, math.MaxFloat64),
		Max: Pt(-math.MaxFloat64, -math.MaxFloat64),
	}
	found := false
	for _, p := range pts {
		if !IsFinite(p) {
			continue
		}
		found = true
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	if !found {
		return Rect{}
	}
	return r
}

// Fit scales and translates pts so they span a width×height frame inset by
// padding on every side. The aspect ratio is preserved and the drawing is
// centered. Degenerate extents (all points on a line or a single spot) are
// treated as unit extents. Non-finite points are returned unchanged.
func Fit(pts []Point, width, height, padding float64) []Point {
	out := make([]Point, len(pts))
	if len(pts) == 0 {
		return out
	}

	b := Bounds(pts)
	rangeX, rangeY := b.Width(), b.Height()
	if rangeX < 1e-9 {
		rangeX = 1
	}
	if rangeY < 1e-9 {
		rangeY = 1
	}

	innerW := math.Max(width-2*padding, 0)
	innerH := math.Max(height-2*padding, 0)
	scale := math.Min(innerW/rangeX, innerH/rangeY)

	offX := padding + (innerW-scale*b.Width())/2
	offY := padding + (innerH-scale*b.Height())/2

	for i, p := range pts {
		if !IsFinite(p) {
			out[i] = p
			continue
		}
		out[i] = Pt(offX+(p.X-b.Min.X)*scale, offY+(p.Y-b.Min.Y)*scale)
	}
	return out
}
