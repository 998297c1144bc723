package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/deepgen/famtree/pkg/render"
)

// Graphviz measures positions and sizes in inches.
const pointsPerInch = 72.0

var dotFill = map[render.Class]string{
	render.ClassNormal:      "white",
	render.ClassLiving:      "\"#ecfdf5\"",
	render.ClassPlaceholder: "\"#f3f4f6\"",
}

// ToDOT converts a scene to Graphviz DOT with every node pinned at its
// layout position. Layout y grows downward while Graphviz y grows upward,
// so y is negated.
func ToDOT(s render.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("digraph famtree {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=ortho;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fixedsize=true, fontname=\"Helvetica\", fontsize=11];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"#9ca3af\"];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key, strings.Join(dotAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotAttrs(n render.Node) []string {
	cx := (n.X + n.W/2) / pointsPerInch
	cy := -(n.Y + n.H/2) / pointsPerInch
	attrs := []string{
		fmt.Sprintf("label=%q", strings.Join(n.Lines, "\n")),
		fmt.Sprintf("pos=\"%.3f,%.3f!\"", cx, cy),
		fmt.Sprintf("width=%.3f", n.W/pointsPerInch),
		fmt.Sprintf("height=%.3f", n.H/pointsPerInch),
		"fillcolor=" + dotFill[n.Class],
	}
	if n.Class == render.ClassPlaceholder {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=\"#6b7280\"")
	}
	if n.Cycle {
		attrs = append(attrs, "color=\"#b45309\"")
	}
	if n.Xref != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Xref))
	}
	return attrs
}

// RenderDOTSVG renders a scene to SVG through Graphviz's neato engine.
func RenderDOTSVG(ctx context.Context, s render.Scene) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(ToDOT(s)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.SetLayout(graphviz.NEATO).Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the document scales in a browser.
func normalizeViewBox(doc []byte) []byte {
	m := viewBoxRe.FindSubmatch(doc)
	if m == nil {
		return doc
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return doc
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(doc, []byte(root))
}
