// Package layout assigns 2-D positions to the nodes of a family tree.
//
// The algorithm is a deterministic barycenter placement, chosen so that the
// same tree always produces the same picture:
//
//  1. A post-order pass gives each leaf the next integer slot, starting at 0,
//     in left-to-right order.
//  2. Each internal node's slot is the mean of its children's slots, which
//     centers every parent over its children.
//  3. Slots become x coordinates (slot × (NodeWidth + HGap)); generations
//     become y coordinates (gen × (NodeHeight + VGap)).
//
// In [Ancestors] mode the generation of a node at depth d is maxDepth-d, so
// the oldest generation sits at the top and the root at the bottom. In
// [Descendants] mode the generation is d, so the root sits at the top.
//
// # Output
//
// [Layout] returns a [Result] holding the placed nodes flattened in
// pre-order, the parent→child edges, and the bounding box of every node
// rectangle. The tree itself is never modified; positions live only in the
// Result, so laying out the same tree twice yields identical Results.
//
// # Sizing
//
// Node size and gaps default to 220×84 with gaps of 26 and 64 and can be
// overridden with [WithNodeSize], [WithGaps] or [WithOptions]:
//
//	res := layout.Layout(root, layout.Ancestors, 3, layout.WithGaps(40, 80))
//	fmt.Println(res.Bounds.Width(), res.Bounds.Height())
package layout
