package layout

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	fterrors "github.com/deepgen/famtree/pkg/errors"
	"github.com/deepgen/famtree/pkg/tree"
)

// Mode selects which direction the tree grows in.
type Mode string

const (
	Ancestors   Mode = "ancestors"
	Descendants Mode = "descendants"
)

// Modes lists the supported modes in display order.
var Modes = []Mode{Ancestors, Descendants}

// ParseMode validates a user-supplied mode. Matching ignores case and
// surrounding whitespace; the empty string is rejected.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Ancestors:
		return Ancestors, nil
	case Descendants:
		return Descendants, nil
	}
	return "", fterrors.New(fterrors.ErrCodeInvalidMode, "unknown mode %q (want ancestors or descendants)", s)
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Descendants {
		return Ancestors
	}
	return Descendants
}

// =============================================================================
// Options
// =============================================================================

// Default node geometry, in layout units.
const (
	DefaultNodeWidth  = 220.0
	DefaultNodeHeight = 84.0
	DefaultHGap       = 26.0
	DefaultVGap       = 64.0
)

// Options holds the node geometry used to turn slots and generations into
// coordinates.
type Options struct {
	NodeWidth  float64
	NodeHeight float64
	HGap       float64
	VGap       float64
}

// DefaultOptions returns the default node geometry.
func DefaultOptions() Options {
	return Options{
		NodeWidth:  DefaultNodeWidth,
		NodeHeight: DefaultNodeHeight,
		HGap:       DefaultHGap,
		VGap:       DefaultVGap,
	}
}

// SetDefaults fills non-positive sizes with defaults. Gaps may be zero.
func (o *Options) SetDefaults() {
	if o.NodeWidth <= 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	if o.HGap < 0 {
		o.HGap = DefaultHGap
	}
	if o.VGap < 0 {
		o.VGap = DefaultVGap
	}
}

// Option overrides part of the node geometry.
type Option func(*Options)

// WithNodeSize sets the node rectangle size.
func WithNodeSize(width, height float64) Option {
	return func(o *Options) { o.NodeWidth, o.NodeHeight = width, height }
}

// WithGaps sets the horizontal and vertical gaps between nodes.
func WithGaps(h, v float64) Option {
	return func(o *Options) { o.HGap, o.VGap = h, v }
}

// WithOptions replaces the whole geometry, typically from configuration.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

// =============================================================================
// Result types
// =============================================================================

// Box is an axis-aligned rectangle in layout units.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (b Box) Width() float64   { return b.MaxX - b.MinX }
func (b Box) Height() float64  { return b.MaxY - b.MinY }
func (b Box) CenterX() float64 { return (b.MinX + b.MaxX) / 2 }
func (b Box) CenterY() float64 { return (b.MinY + b.MaxY) / 2 }

// Contains reports whether (x, y) lies inside the box, edges included.
func (b Box) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return b.Width() <= 0 || b.Height() <= 0 }

// Placed is a tree node with its computed position. X and Y are the top-left
// corner of the node rectangle.
type Placed struct {
	Node       *tree.Node
	Slot       float64
	Generation int
	X, Y       float64
	Width      float64
	Height     float64
}

// Rect returns the node rectangle.
func (p Placed) Rect() Box {
	return Box{MinX: p.X, MinY: p.Y, MaxX: p.X + p.Width, MaxY: p.Y + p.Height}
}

// Edge connects a parent node to a child node. Parent and Child index into
// [Result.Nodes].
type Edge struct {
	Parent, Child int
}

// Result is the output of [Layout].
type Result struct {
	Mode     Mode
	MaxDepth int
	Options  Options
	Nodes    []Placed
	Edges    []Edge
	Bounds   Box
}

// Root returns the placed root node, or false for an empty result.
func (r Result) Root() (Placed, bool) {
	if len(r.Nodes) == 0 {
		return Placed{}, false
	}
	return r.Nodes[0], true
}

// Find returns the placed node with the given tree key.
func (r Result) Find(key string) (Placed, bool) {
	if i := r.IndexOf(key); i >= 0 {
		return r.Nodes[i], true
	}
	return Placed{}, false
}

// IndexOf returns the index of the node with the given tree key, or -1.
func (r Result) IndexOf(key string) int {
	for i, p := range r.Nodes {
		if p.Node.Key == key {
			return i
		}
	}
	return -1
}

// At returns the index of the node whose rectangle contains the layout point
// (x, y), or -1. When rectangles touch the later node in pre-order wins.
func (r Result) At(x, y float64) int {
	hit := -1
	for i, p := range r.Nodes {
		if p.Rect().Contains(x, y) {
			hit = i
		}
	}
	return hit
}

// =============================================================================
// Layout
// =============================================================================

// Layout positions every node of the tree rooted at root. maxDepth must be
// the bound the tree was built with; it fixes the generation rows in
// ancestors mode. A nil root yields an empty Result.
func Layout(root *tree.Node, mode Mode, maxDepth int, opts ...Option) Result {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.SetDefaults()

	res := Result{Mode: mode, MaxDepth: maxDepth, Options: o}
	if root == nil {
		return res
	}

	slots := assignSlots(root)

	colStep := o.NodeWidth + o.HGap
	rowStep := o.NodeHeight + o.VGap

	res.Bounds = Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}

	var place func(n *tree.Node, parent int)
	place = func(n *tree.Node, parent int) {
		gen := n.Depth
		if mode != Descendants {
			gen = maxDepth - n.Depth
		}
		p := Placed{
			Node:       n,
			Slot:       slots[n],
			Generation: gen,
			X:          slots[n] * colStep,
			Y:          float64(gen) * rowStep,
			Width:      o.NodeWidth,
			Height:     o.NodeHeight,
		}
		idx := len(res.Nodes)
		res.Nodes = append(res.Nodes, p)
		res.Bounds = res.Bounds.union(p.Rect())
		if parent >= 0 {
			res.Edges = append(res.Edges, Edge{Parent: parent, Child: idx})
		}
		for _, c := range n.Children {
			place(c, idx)
		}
	}
	place(root, -1)

	return res
}

// assignSlots runs the post-order barycenter pass.
func assignSlots(root *tree.Node) map[*tree.Node]float64 {
	slots := make(map[*tree.Node]float64, tree.Count(root))
	next := 0.0

	var visit func(n *tree.Node) float64
	visit = func(n *tree.Node) float64 {
		if n.IsLeaf() {
			slots[n] = next
			next++
			return slots[n]
		}
		kids := make([]float64, len(n.Children))
		for i, c := range n.Children {
			kids[i] = visit(c)
		}
		slots[n] = stat.Mean(kids, nil)
		return slots[n]
	}
	visit(root)

	return slots
}

func (b Box) union(o Box) Box {
	return Box{
		MinX: min(b.MinX, o.MinX),
		MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX),
		MaxY: max(b.MaxY, o.MaxY),
	}
}
