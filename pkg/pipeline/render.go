package pipeline

import (
	"context"
	"fmt"

	"github.com/deepgen/famtree/pkg/render/sink"
	"github.com/deepgen/famtree/pkg/viewport"
)

// renderFormat renders one artifact.
func (r *Runner) renderFormat(ctx context.Context, res *Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(res.Scene, r.svgOptions(res, opts)...), nil
	case FormatDOT:
		return []byte(sink.ToDOT(res.Scene)), nil
	case FormatJSON:
		return sink.RenderJSON(res.Scene)
	case FormatGraphviz:
		return sink.RenderDOTSVG(ctx, res.Scene)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// svgOptions fits the scene into the configured viewport the same way the
// interactive view does on first display. Without a viewport size the
// document is sized to the scene.
func (r *Runner) svgOptions(res *Result, opts Options) []sink.SVGOption {
	out := []sink.SVGOption{sink.WithStatus()}
	w, h := opts.ViewportWidth, opts.ViewportHeight
	if w <= 0 || h <= 0 {
		return out
	}

	ctrl := r.Viewport
	if ctrl == nil {
		ctrl = viewport.NewController()
	}
	s := viewport.NewSession()
	defer s.Dispose()

	size := viewport.Size{Width: float64(w), Height: float64(h)}
	if err := ctrl.FitAndCenter(s, res.Scene.Bounds, size); err != nil {
		return out
	}
	t := s.Transform()
	return append(out, sink.WithViewport(w, h), sink.WithTransform(t.X, t.Y, t.K))
}
