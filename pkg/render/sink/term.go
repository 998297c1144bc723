package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/deepgen/famtree/pkg/render"
)

// Default cell size in screen units. At scale 1 a 220×84 node spans 27×5
// cells: a border row, three label rows and a border row.
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
)

// TermOption configures terminal rendering via [RenderTerm].
type TermOption func(*termRenderer)

type termRenderer struct {
	cols, rows   int
	cellW, cellH float64
	x, y, k      float64
	color        bool
	highlight    string
}

// WithTermSize sets the canvas size in cells.
func WithTermSize(cols, rows int) TermOption {
	return func(r *termRenderer) { r.cols, r.rows = cols, rows }
}

// WithTermTransform sets the viewport transform, in screen units.
func WithTermTransform(x, y, k float64) TermOption {
	return func(r *termRenderer) { r.x, r.y, r.k = x, y, k }
}

// WithTermCell sets the screen size of one cell.
func WithTermCell(width, height float64) TermOption {
	return func(r *termRenderer) { r.cellW, r.cellH = width, height }
}

// WithTermColor styles node classes with lipgloss colors.
func WithTermColor() TermOption { return func(r *termRenderer) { r.color = true } }

// WithTermHighlight marks the node with the given key, e.g. a cursor.
func WithTermHighlight(key string) TermOption {
	return func(r *termRenderer) { r.highlight = key }
}

type cellStyle uint8

const (
	styleNone cellStyle = iota
	styleEdge
	styleNormal
	styleLiving
	stylePlaceholder
	styleHighlight
)

var termStyles = map[cellStyle]lipgloss.Style{
	styleEdge:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	styleNormal:      lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	styleLiving:      lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
	stylePlaceholder: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	styleHighlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Bold(true),
}

// wideTail marks the second cell of a double-width rune.
const wideTail = rune(-1)

type canvas struct {
	cols, rows int
	cells      [][]rune
	styles     [][]cellStyle
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, cells: make([][]rune, rows), styles: make([][]cellStyle, rows)}
	for i := range c.cells {
		c.cells[i] = []rune(strings.Repeat(" ", cols))
		c.styles[i] = make([]cellStyle, cols)
	}
	return c
}

func (c *canvas) in(col, row int) bool {
	return col >= 0 && col < c.cols && row >= 0 && row < c.rows
}

func (c *canvas) set(col, row int, r rune, st cellStyle) {
	if c.in(col, row) {
		c.cells[row][col] = r
		c.styles[row][col] = st
	}
}

// line draws an edge stroke, turning crossings into junctions.
func (c *canvas) line(col, row int, r rune) {
	if !c.in(col, row) {
		return
	}
	switch cur := c.cells[row][col]; {
	case cur == ' ':
		c.set(col, row, r, styleEdge)
	case cur != r && (cur == '│' || cur == '─'):
		c.set(col, row, '┼', styleEdge)
	}
}

// text writes s starting at col, clipped to width cells.
func (c *canvas) text(col, row, width int, s string, st cellStyle) {
	s = render.Truncate(s, width)
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.set(col, row, r, st)
		if w == 2 {
			c.set(col+1, row, wideTail, st)
		}
		col += w
	}
}

func (c *canvas) String(color bool) string {
	var out strings.Builder
	for row := range c.cells {
		if row > 0 {
			out.WriteByte('\n')
		}
		var run strings.Builder
		runStyle := styleNone
		flush := func() {
			if color && runStyle != styleNone {
				out.WriteString(termStyles[runStyle].Render(run.String()))
			} else {
				out.WriteString(run.String())
			}
			run.Reset()
		}
		for col, r := range c.cells[row] {
			if r == wideTail {
				continue
			}
			if st := c.styles[row][col]; st != runStyle {
				flush()
				runStyle = st
			}
			run.WriteRune(r)
		}
		flush()
	}
	return out.String()
}

// RenderTerm rasterizes the scene into a cols×rows grid of cells.
func RenderTerm(s render.Scene, opts ...TermOption) string {
	r := termRenderer{cols: 80, rows: 24, cellW: DefaultCellWidth, cellH: DefaultCellHeight, k: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.cellW <= 0 || r.cellH <= 0 || r.k <= 0 {
		r.cellW, r.cellH, r.k = DefaultCellWidth, DefaultCellHeight, 1
	}
	c := newCanvas(max(0, r.cols), max(0, r.rows))

	for _, e := range s.Edges {
		r.drawEdge(c, e)
	}
	for _, n := range s.Nodes {
		r.drawNode(c, n)
	}
	return c.String(r.color)
}

func (r *termRenderer) col(lx float64) int {
	return int(math.Floor((lx*r.k + r.x) / r.cellW))
}

func (r *termRenderer) row(ly float64) int {
	return int(math.Floor((ly*r.k + r.y) / r.cellH))
}

func (r *termRenderer) drawEdge(c *canvas, e render.Edge) {
	c1, r1 := r.col(e.X1), r.row(e.Y1)
	c2, r2 := r.col(e.X2), r.row(e.Y2)
	mid := (r1 + r2) / 2

	vertical := func(col, from, to int) {
		for row := min(from, to); row <= max(from, to); row++ {
			c.line(col, row, '│')
		}
	}
	vertical(c1, r1, mid)
	for col := min(c1, c2); col <= max(c1, c2); col++ {
		c.line(col, mid, '─')
	}
	vertical(c2, mid, r2)
}

func (r *termRenderer) drawNode(c *canvas, n render.Node) {
	st := styleNormal
	switch {
	case n.Key == r.highlight:
		st = styleHighlight
	case n.Class == render.ClassLiving:
		st = styleLiving
	case n.Class == render.ClassPlaceholder:
		st = stylePlaceholder
	}

	left, top := r.col(n.X), r.row(n.Y)
	right, bottom := r.col(n.X+n.W)-1, r.row(n.Y+n.H)-1

	// Too small for a box: draw a marker.
	if right-left < 2 || bottom-top < 1 {
		c.set(left, top, '■', st)
		return
	}

	horiz, vert := '─', '│'
	tl, tr, bl, br := '┌', '┐', '└', '┘'
	if n.Class == render.ClassPlaceholder {
		horiz, vert = '┄', '┆'
	}
	if n.Key == r.highlight {
		horiz, vert = '━', '┃'
		tl, tr, bl, br = '┏', '┓', '┗', '┛'
	}

	for col := left; col <= right; col++ {
		for row := top + 1; row < bottom; row++ {
			c.set(col, row, ' ', st)
		}
		c.set(col, top, horiz, st)
		c.set(col, bottom, horiz, st)
	}
	for row := top; row <= bottom; row++ {
		c.set(left, row, vert, st)
		c.set(right, row, vert, st)
	}
	c.set(left, top, tl, st)
	c.set(right, top, tr, st)
	c.set(left, bottom, bl, st)
	c.set(right, bottom, br, st)

	inner := right - left - 1
	for i, line := range n.Lines {
		row := top + 1 + i
		if row >= bottom {
			break
		}
		c.text(left+1, row, inner, line, st)
	}
}
