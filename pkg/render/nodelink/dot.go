package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stresslayout/pkg/core/geom"
	"github.com/matzehuels/stresslayout/pkg/graph"
)

// Frame defaults, in points.
const (
	DefaultWidth   = 800.0
	DefaultHeight  = 600.0
	DefaultPadding = 40.0
)

// Options configures node-link diagram rendering.
type Options struct {
	// Width, Height and Padding describe the drawing frame. Zero values use
	// the package defaults; a negative Padding disables it.
	Width, Height, Padding float64

	// ShowTargets draws the layout's explicit targets as edges.
	ShowTargets bool

	// Detailed adds node metadata as tooltips.
	Detailed bool
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	switch {
	case o.Padding == 0:
		o.Padding = min(DefaultPadding, min(o.Width, o.Height)/4)
	case o.Padding < 0, 2*o.Padding >= min(o.Width, o.Height):
		o.Padding = 0
	}
	return o
}

// ToDOT converts a solved layout to Graphviz DOT with every node pinned.
// Positions are fitted into the frame and flipped so that y grows downward
// as it does in the layout coordinates.
func ToDOT(l graph.Layout, opts Options) string {
	opts = opts.withDefaults()

	pts := make([]geom.Point, len(l.Nodes))
	for i, n := range l.Nodes {
		pts[i] = geom.Pt(n.X, n.Y)
	}
	fitted := geom.Fit(pts, opts.Width, opts.Height, opts.Padding)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12, width=0.3, fixedsize=false];\n")
	buf.WriteString("  edge [color=grey50, fontsize=10];\n")
	buf.WriteString("\n")

	for i, n := range l.Nodes {
		attrs := fmtAttrs(n, fitted[i], opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	if opts.ShowTargets && len(l.Targets) > 0 {
		buf.WriteString("\n")
		for _, t := range l.Targets {
			fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n", t.From, t.To, fmtFloat(t.Distance))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n graph.Node, p geom.Point, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.DisplayLabel())}
	if geom.IsFinite(p) {
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(p.X), fmtFloat(opts.Height-p.Y)))
	}
	if opts.Detailed && len(n.Meta) > 0 {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", fmtMeta(n.Meta)))
	}
	return attrs
}

func fmtMeta(meta map[string]any) string {
	parts := make([]string, 0, len(meta))
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, meta[k]))
	}
	return strings.Join(parts, "\n")
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG with the neato engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's svg element with one whose viewBox
// starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
