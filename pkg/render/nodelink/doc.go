// Package nodelink renders solved layouts as node-link diagrams.
//
// # Overview
//
// Positions come from the solver, not from Graphviz: every node is pinned
// with pos="x,y!" and the graph is laid out with the neato engine, which
// leaves pinned nodes where they are. Graphviz is only used to draw.
//
// # Usage
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{Width: 800, Height: 600})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Width, Height, Padding: the frame solved positions are fitted into
//   - ShowTargets: draw explicit targets as edges labelled with their distance
//   - Detailed: add node metadata as tooltips
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering,
// so no Graphviz installation is required.
package nodelink
