// Package tree builds bounded, cycle-safe family trees from a flat person list.
//
// A tree is rooted at one individual and grows either upward through father
// and mother links ([Builder.Ancestors]) or downward through the kinship
// index ([Builder.Descendants]). Both builds are depth-bounded recursive
// descents that never fail: malformed genealogical data always produces a
// partially correct diagram.
//
// # Node Variants
//
// Every [Node] carries a [Subject]:
//
//   - [Resolved]: a known person
//   - [Placeholder]: the identifier is absent or names nobody
//   - [Cycle]: the person is already on the path from the root to this node
//
// Placeholder and Cycle nodes are always leaves. Cycle detection is path
// based, not tree based: the same person may appear in two separate
// branches (pedigree collapse) without being a cycle.
//
// # Keys
//
// Node keys are deterministic. The root is "r"; a father branch appends
// ".f", a mother branch ".m", and the n-th child ".c<n>". Rebuilding the same
// tree produces the same keys, which renderers use for diffing.
//
// # Bounds
//
// maxDepth is the deepest depth that is expanded into a node; use [MaxDepth]
// to convert a user-facing generation count. An ancestor tree has at most
// 2^(maxDepth+1)-1 nodes; a descendant tree at most the sum of b^d for
// d in 0..maxDepth, where b is the largest family size.
package tree
