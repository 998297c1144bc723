package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/deepgen/famtree/pkg/layout"
	"github.com/deepgen/famtree/pkg/person"
	"github.com/deepgen/famtree/pkg/tree"
)

// Class is the display classification of a node.
type Class string

const (
	ClassPlaceholder Class = "placeholder"
	ClassLiving      Class = "living"
	ClassNormal      Class = "normal"
)

const (
	fontSize      = 13.0
	fontCharWidth = 0.55
	labelPadding  = 10.0
	minLabelCells = 4
	ellipsis      = "…"
)

// Node is one drawable node.
type Node struct {
	Key   string   `json:"key"`
	Xref  string   `json:"xref,omitempty"`
	Class Class    `json:"class"`
	Tag   string   `json:"tag"`
	Cycle bool     `json:"cycle,omitempty"`
	Depth int      `json:"depth"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	W     float64  `json:"width"`
	H     float64  `json:"height"`
	Lines []string `json:"lines"`
}

// CenterX returns the horizontal center of the node.
func (n Node) CenterX() float64 { return n.X + n.W/2 }

// Edge connects two nodes. (X1, Y1) sits on the tree parent, (X2, Y2) on the
// tree child; both are midpoints of the facing rectangle sides.
type Edge struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
}

// Scene is a presentation-ready diagram.
type Scene struct {
	Mode     layout.Mode `json:"mode"`
	RootKey  string      `json:"root_key,omitempty"`
	RootXref string      `json:"root_xref,omitempty"`
	Status   string      `json:"status,omitempty"`
	Nodes    []Node      `json:"nodes"`
	Edges    []Edge      `json:"edges"`
	Bounds   layout.Box  `json:"bounds"`
}

// Empty reports whether the scene has nothing to draw.
func (s Scene) Empty() bool { return len(s.Nodes) == 0 }

// BuildScene converts a layout into a scene. Nodes keep the layout's
// pre-order so index i of the scene matches index i of the layout.
func BuildScene(res layout.Result) Scene {
	s := Scene{
		Mode:   res.Mode,
		Nodes:  make([]Node, len(res.Nodes)),
		Edges:  make([]Edge, len(res.Edges)),
		Bounds: res.Bounds,
	}
	if len(res.Nodes) == 0 {
		return s
	}

	for i, p := range res.Nodes {
		s.Nodes[i] = sceneNode(p)
	}
	s.RootKey = s.Nodes[0].Key
	s.RootXref = s.Nodes[0].Xref

	for i, e := range res.Edges {
		s.Edges[i] = sceneEdge(s.Nodes[e.Parent], s.Nodes[e.Child])
	}
	return s
}

func sceneNode(p layout.Placed) Node {
	n := p.Node
	out := Node{
		Key:   n.Key,
		Xref:  n.Xref(),
		Class: Classify(n),
		Tag:   n.Label(),
		Cycle: n.IsCycle(),
		Depth: n.Depth,
		X:     p.X,
		Y:     p.Y,
		W:     p.Width,
		H:     p.Height,
	}

	cells := LabelCells(p.Width)
	for _, line := range labelLines(n) {
		out.Lines = append(out.Lines, Truncate(line, cells))
	}
	return out
}

func sceneEdge(parent, child Node) Edge {
	e := Edge{From: parent.Key, To: child.Key, X1: parent.CenterX(), X2: child.CenterX()}
	if child.Y < parent.Y {
		e.Y1, e.Y2 = parent.Y, child.Y+child.H
	} else {
		e.Y1, e.Y2 = parent.Y+parent.H, child.Y
	}
	return e
}

// Classify returns the display class of a tree node.
func Classify(n *tree.Node) Class {
	p := n.Person()
	switch {
	case p == nil:
		return ClassPlaceholder
	case p.IsLiving:
		return ClassLiving
	default:
		return ClassNormal
	}
}

func labelLines(n *tree.Node) []string {
	switch {
	case n.IsCycle():
		return []string{"Cycle: " + n.Xref(), n.Label()}
	case n.Placeholder():
		return []string{person.UnknownName, n.Label()}
	}
	p := n.Person()
	return []string{p.DisplayName(), person.Lifespan(p), p.Xref}
}

// =============================================================================
// Text fitting
// =============================================================================

// LabelCells is the number of display cells that fit on one line of a node
// of the given width.
func LabelCells(width float64) int {
	avail := width - 2*labelPadding
	return max(minLabelCells, int(avail/(fontSize*fontCharWidth)))
}

// Truncate shortens s to at most cells display cells, ending in "…" when
// anything was cut. Wide runes count as two cells.
func Truncate(s string, cells int) string {
	if runewidth.StringWidth(s) <= cells {
		return s
	}
	return runewidth.Truncate(s, cells, ellipsis)
}
