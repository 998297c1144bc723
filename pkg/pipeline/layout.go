package pipeline

import (
	"context"
	"time"

	"github.com/deepgen/famtree/pkg/layout"
	"github.com/deepgen/famtree/pkg/observability"
	"github.com/deepgen/famtree/pkg/tree"
)

// buildTree runs the tree builder in the requested direction.
func buildTree(b *tree.Builder, rootXref string, mode layout.Mode, maxDepth int) *tree.Node {
	if mode == layout.Descendants {
		return b.Descendants(rootXref, maxDepth)
	}
	return b.Ancestors(rootXref, maxDepth)
}

// computeLayout positions the tree with the geometry from opts.
func computeLayout(ctx context.Context, root *tree.Node, opts Options, maxDepth, nodeCount int) layout.Result {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, string(opts.Mode), nodeCount)
	start := time.Now()

	res := layout.Layout(root, opts.Mode, maxDepth, layout.WithOptions(opts.Layout))

	hooks.OnLayoutComplete(ctx, string(opts.Mode), time.Since(start))
	return res
}
