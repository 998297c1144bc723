// Package sink provides output format renderers for family-tree scenes.
//
// # Overview
//
// A "sink" transforms a [render.Scene] into a final output format:
//
//   - SVG: a standalone document with styled node cards and elbow edges
//   - DOT: Graphviz source with pinned node positions, optionally rendered
//     to SVG through Graphviz
//   - JSON: the scene itself, for web front ends and external tools
//   - Term: a character-cell canvas for terminal viewers
//
// # SVG Output
//
// [RenderSVG] draws the scene inside one group whose transform carries the
// viewport transform, so a host that pans and zooms only rewrites that
// attribute:
//
//	svg := sink.RenderSVG(scene,
//	    sink.WithViewport(1200, 800),
//	    sink.WithTransform(t.X, t.Y, t.K),
//	)
//
// Without [WithTransform] the diagram is translated so its bounds start at
// the margin, at scale 1.
//
// # DOT Output
//
// [ToDOT] pins every node at its layout position for the neato engine, so
// Graphviz draws the barycenter layout rather than computing its own.
// [RenderDOTSVG] runs Graphviz in-process via go-graphviz.
//
// # Terminal Output
//
// [RenderTerm] rasterizes the scene at a viewport transform into a grid of
// cells, one cell covering CellWidth × CellHeight screen units.
//
// [render.Scene]: github.com/deepgen/famtree/pkg/render.Scene
package sink
