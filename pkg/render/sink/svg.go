package sink

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/deepgen/famtree/pkg/render"
)

const nodeCSS = `
    .node rect { stroke-width: 1.5; }
    .node.normal rect { fill: #ffffff; stroke: #4b5563; }
    .node.living rect { fill: #ecfdf5; stroke: #059669; }
    .node.placeholder rect { fill: #f3f4f6; stroke: #9ca3af; stroke-dasharray: 6 4; }
    .node.cycle rect { stroke: #b45309; }
    .node.root rect { stroke-width: 3; }
    .node text { font-family: system-ui, sans-serif; font-size: 13px; fill: #111827; }
    .node text.secondary { fill: #4b5563; font-size: 12px; }
    .node.placeholder text { fill: #6b7280; font-style: italic; }
    .edge { fill: none; stroke: #9ca3af; stroke-width: 1.5; }
    .status { font-family: system-ui, sans-serif; font-size: 14px; fill: #374151; }`

const (
	svgMargin      = 40.0
	lineHeight     = 18.0
	textInset      = 10.0
	cornerRadius   = 8
	statusBaseline = 24
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height int
	transform     *[3]float64
	status        bool
}

// WithViewport sets the document size. By default the document is sized to
// the scene bounds plus a margin.
func WithViewport(width, height int) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = width, height }
}

// WithTransform sets the viewport transform applied to the diagram group.
func WithTransform(x, y, k float64) SVGOption {
	return func(r *svgRenderer) { r.transform = &[3]float64{x, y, k} }
}

// WithStatus draws the scene's status line above the diagram.
func WithStatus() SVGOption { return func(r *svgRenderer) { r.status = true } }

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(s render.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	tx, ty, k := svgMargin-s.Bounds.MinX, svgMargin-s.Bounds.MinY, 1.0
	if r.transform != nil {
		tx, ty, k = r.transform[0], r.transform[1], r.transform[2]
	}
	if r.width <= 0 || r.height <= 0 {
		r.width = int(math.Ceil(s.Bounds.Width()*k + 2*svgMargin))
		r.height = int(math.Ceil(s.Bounds.Height()*k + 2*svgMargin))
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(r.width, r.height, fmt.Sprintf(`viewBox="0 0 %d %d"`, r.width, r.height))
	if s.Status != "" {
		canvas.Title(s.Status)
	}
	canvas.Style("text/css", nodeCSS)

	canvas.Gtransform(fmt.Sprintf("translate(%.2f %.2f) scale(%.4f)", tx, ty, k))
	for _, e := range s.Edges {
		canvas.Path(elbowPath(e), `class="edge"`)
	}
	for i, n := range s.Nodes {
		drawNode(canvas, n, i == 0)
	}
	canvas.Gend()

	if r.status && s.Status != "" {
		canvas.Text(int(svgMargin/2), statusBaseline, s.Status, `class="status"`)
	}
	canvas.End()
	return buf.Bytes()
}

func drawNode(canvas *svg.SVG, n render.Node, root bool) {
	class := "node " + string(n.Class)
	if n.Cycle {
		class += " cycle"
	}
	if root {
		class += " root"
	}
	canvas.Group(fmt.Sprintf(`class="%s"`, class), fmt.Sprintf(`id="node-%s"`, n.Key), fmt.Sprintf(`data-xref="%s"`, escapeAttr(n.Xref)))
	canvas.Roundrect(px(n.X), px(n.Y), px(n.W), px(n.H), cornerRadius, cornerRadius)
	for i, line := range n.Lines {
		attrs := []string{}
		if i > 0 {
			attrs = append(attrs, `class="secondary"`)
		}
		canvas.Text(px(n.X+textInset), px(n.Y+textInset+lineHeight*float64(i+1)-4), line, attrs...)
	}
	canvas.Gend()
}

// elbowPath routes an edge vertically out of the parent, across at the
// midpoint between the rows, and vertically into the child.
func elbowPath(e render.Edge) string {
	mid := (e.Y1 + e.Y2) / 2
	return fmt.Sprintf("M%.1f %.1f V%.1f H%.1f V%.1f", e.X1, e.Y1, mid, e.X2, e.Y2)
}

func px(v float64) int { return int(math.Round(v)) }

func escapeAttr(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString("&quot;")
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
