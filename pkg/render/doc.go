// Package render turns a laid-out family tree into a renderable scene.
//
// # Overview
//
// A [Scene] is the presentation-ready form of a [layout.Result]: every node
// carries its rectangle, a display class, a role tag and up to three label
// lines already truncated to fit the node, and every edge carries its
// attachment points. Sinks only draw; they never consult the person list.
//
//	res := layout.Layout(root, layout.Ancestors, maxDepth)
//	scene := render.BuildScene(res)
//	scene.Status = render.Status(rootPerson, layout.Ancestors, 4)
//	svg := sink.RenderSVG(scene, sink.WithTransform(0, 0, 1))
//
// # Classes
//
// Nodes are classified as placeholder (unknown or cycle), living, or normal.
// Sinks map classes to fills and stroke styles.
//
// # Status Line
//
// [Status], [StatusNoData] and [StatusRootNotFound] produce the one-line
// summary shown above the diagram, including the two "nothing to show"
// states.
//
// # Sinks
//
// The [sink] subpackage writes scenes as SVG, Graphviz DOT (and DOT-rendered
// SVG), JSON, or a character-cell canvas for terminals.
//
// [sink]: github.com/deepgen/famtree/pkg/render/sink
package render
